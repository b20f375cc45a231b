package tutorialservice

type CreateTutorialRequest struct {
	Title       string `json:"title"        validate:"required,max=200"`
	TutorialURL string `json:"tutorial_url" validate:"required,http_url"` //nolint:tagliatelle
	Description string `json:"description"`
	Published   bool   `json:"published"`
}

type ListRequest struct {
	Title     string
	Published *bool
	Offset    int
	Limit     int
}
