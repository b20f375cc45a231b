package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Leopold1975/tutorials_control/internal/pkg/validation"
	"github.com/Leopold1975/tutorials_control/internal/tutorials/repository/tutorialrepo"
	"github.com/Leopold1975/tutorials_control/internal/tutorials/repository/userrepo"
	"github.com/Leopold1975/tutorials_control/internal/tutorials/services/authservice"
)

type Error struct {
	Err string `json:"error"`
}

func (se Error) ToJSON() []byte {
	b, err := json.Marshal(se)
	if err != nil {
		return []byte(`{"error": "marshal error"}`)
	}

	return b
}

// statusFor maps service errors to HTTP codes; anything unknown is a 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, validation.ErrInvalid):
		return http.StatusBadRequest
	case errors.Is(err, authservice.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, authservice.ErrNotAllowed):
		return http.StatusForbidden
	case errors.Is(err, tutorialrepo.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, userrepo.ErrAlreadyExists):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) handleError(w http.ResponseWriter, err error, code int) {
	e := Error{err.Error()}

	if code >= http.StatusInternalServerError {
		s.lg.Errorf("error: %s", err.Error())

		e.Err = http.StatusText(code)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	w.Write(e.ToJSON()) //nolint:errcheck
}
