package validation_test

import (
	"testing"

	"github.com/Leopold1975/tutorials_control/internal/pkg/validation"
	"github.com/stretchr/testify/require"
)

type request struct {
	Title string `json:"title"        validate:"required,max=10"`
	URL   string `json:"tutorial_url" validate:"required,http_url"`
}

func TestStruct(t *testing.T) {
	tests := []struct {
		name    string
		req     request
		wantErr string
	}{
		{"valid", request{Title: "Pytest", URL: "https://docs.pytest.org"}, ""},
		{"missing title", request{URL: "https://docs.pytest.org"}, "title: is required"},
		{"bad url", request{Title: "Pytest", URL: "docs"}, "tutorial_url: must be a valid URL"},
		{"too long", request{Title: "Pytest-Django-Tutorial", URL: "https://docs.pytest.org"}, "title: must be at most 10 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validation.Struct(tt.req)
			if tt.wantErr == "" {
				require.NoError(t, err)

				return
			}

			require.ErrorIs(t, err, validation.ErrInvalid)
			require.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
