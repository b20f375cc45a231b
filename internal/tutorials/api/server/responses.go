package server

import "github.com/Leopold1975/tutorials_control/internal/tutorials/domain/models"

type CreateTutorialResponse struct {
	ID int64 `json:"id"`
}

type HomeResponse struct {
	Tutorials []models.Tutorial `json:"tutorials"`
}

type AuthUserResponse struct {
	Token string `json:"token"`
}

type CreateUserResponse struct {
	Token string `json:"token"`
}
