// Package oapi holds the HTTP contract of the tutorials API: request and
// parameter types, a chi router that binds parameters before calling a
// ServerInterface, and a typed client.
package oapi

type PostAuthJSONBody struct {
	Username *string `json:"username,omitempty"`
	Password *string `json:"password,omitempty"`
}

type PostAuthJSONRequestBody = PostAuthJSONBody

type PostUsersJSONBody struct {
	Username *string `json:"username,omitempty"`
	Password *string `json:"password,omitempty"`
	Role     *string `json:"role,omitempty"`
}

type PostUsersJSONRequestBody = PostUsersJSONBody

type PostUsersParams struct {
	Token *string `json:"token,omitempty"`
}

type GetTutorialsParams struct {
	Title     *string `form:"title,omitempty"     json:"title,omitempty"`
	Published *bool   `form:"published,omitempty" json:"published,omitempty"`
	Offset    *int    `form:"offset,omitempty"    json:"offset,omitempty"`
	Limit     *int    `form:"limit,omitempty"     json:"limit,omitempty"`
}

type TutorialJSONBody struct {
	Title       *string `json:"title,omitempty"`
	TutorialUrl *string `json:"tutorial_url,omitempty"` //nolint:tagliatelle
	Description *string `json:"description,omitempty"`
	Published   *bool   `json:"published,omitempty"`
}

type PostTutorialsJSONRequestBody = TutorialJSONBody

type PutTutorialsIdJSONRequestBody = TutorialJSONBody

type PostTutorialsParams struct {
	Token *string `json:"token,omitempty"`
}

type PutTutorialsIdParams struct {
	Token *string `json:"token,omitempty"`
}

type DeleteTutorialsIdParams struct {
	Token *string `json:"token,omitempty"`
}
