package models

import (
	"time"
)

type Tutorial struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	TutorialURL string    `json:"tutorial_url"` //nolint:tagliatelle
	Description string    `json:"description"`
	Published   bool      `json:"published"`
	CreatedAt   time.Time `json:"created_at"` //nolint:tagliatelle
	UpdatedAt   time.Time `json:"updated_at"` //nolint:tagliatelle
}
