// Package apiclient is a small session-keeping client on top of oapi.Client.
// After a successful Login every write request carries the issued token,
// the way a browser keeps a session cookie.
package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/Leopold1975/tutorials_control/internal/tutorials/api/oapi"
	"github.com/Leopold1975/tutorials_control/internal/tutorials/domain/models"
)

var ErrUnexpectedStatus = errors.New("unexpected status")

type Client struct {
	api *oapi.Client

	mu    sync.RWMutex
	token string
}

func New(server string, opts ...oapi.ClientOption) (*Client, error) {
	api, err := oapi.NewClient(server, opts...)
	if err != nil {
		return nil, fmt.Errorf("new oapi client error: %w", err)
	}

	return &Client{api: api}, nil
}

// Login reports whether the credentials were accepted. Rejected
// credentials are not an error.
func (c *Client) Login(ctx context.Context, username, password string) (bool, error) {
	resp, err := c.api.PostAuth(ctx, oapi.PostAuthJSONRequestBody{
		Username: &username,
		Password: &password,
	})
	if err != nil {
		return false, fmt.Errorf("post auth error: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized:
		c.setToken("")

		return false, nil
	default:
		return false, statusError(resp)
	}

	var r struct {
		Token string `json:"token"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return false, fmt.Errorf("decode error: %w", err)
	}

	c.setToken(r.Token)

	return true, nil
}

func (c *Client) Logout() {
	c.setToken("")
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.token
}

// CreateUser registers a plain user; it does not log in.
func (c *Client) CreateUser(ctx context.Context, username, password string) error {
	resp, err := c.api.PostUsers(ctx, &oapi.PostUsersParams{Token: c.tokenParam()}, oapi.PostUsersJSONRequestBody{
		Username: &username,
		Password: &password,
	})
	if err != nil {
		return fmt.Errorf("post users error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return statusError(resp)
	}

	return nil
}

func (c *Client) CreateTutorial(ctx context.Context, t models.Tutorial) (int64, error) {
	resp, err := c.api.PostTutorials(ctx, &oapi.PostTutorialsParams{Token: c.tokenParam()}, body(t))
	if err != nil {
		return 0, fmt.Errorf("post tutorials error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return 0, statusError(resp)
	}

	var r struct {
		ID int64 `json:"id"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return 0, fmt.Errorf("decode error: %w", err)
	}

	return r.ID, nil
}

func (c *Client) GetTutorial(ctx context.Context, id int64) (models.Tutorial, error) {
	resp, err := c.api.GetTutorialsId(ctx, id)
	if err != nil {
		return models.Tutorial{}, fmt.Errorf("get tutorial error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.Tutorial{}, statusError(resp)
	}

	var t models.Tutorial

	if err := json.NewDecoder(resp.Body).Decode(&t); err != nil {
		return models.Tutorial{}, fmt.Errorf("decode error: %w", err)
	}

	return t, nil
}

func (c *Client) SaveTutorial(ctx context.Context, t models.Tutorial) error {
	resp, err := c.api.PutTutorialsId(ctx, t.ID, &oapi.PutTutorialsIdParams{Token: c.tokenParam()}, body(t))
	if err != nil {
		return fmt.Errorf("put tutorial error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusError(resp)
	}

	return nil
}

func (c *Client) DeleteTutorial(ctx context.Context, id int64) error {
	resp, err := c.api.DeleteTutorialsId(ctx, id, &oapi.DeleteTutorialsIdParams{Token: c.tokenParam()})
	if err != nil {
		return fmt.Errorf("delete tutorial error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		return statusError(resp)
	}

	return nil
}

// FilterTutorials returns tutorials with exactly this title.
func (c *Client) FilterTutorials(ctx context.Context, title string) ([]models.Tutorial, error) {
	resp, err := c.api.GetTutorials(ctx, &oapi.GetTutorialsParams{Title: &title})
	if err != nil {
		return nil, fmt.Errorf("get tutorials error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp)
	}

	var tutorials []models.Tutorial

	if err := json.NewDecoder(resp.Body).Decode(&tutorials); err != nil {
		return nil, fmt.Errorf("decode error: %w", err)
	}

	return tutorials, nil
}

func (c *Client) setToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.token = token
}

func (c *Client) tokenParam() *string {
	token := c.Token()
	if token == "" {
		return nil
	}

	return &token
}

func body(t models.Tutorial) oapi.TutorialJSONBody {
	return oapi.TutorialJSONBody{
		Title:       &t.Title,
		TutorialUrl: &t.TutorialURL,
		Description: &t.Description,
		Published:   &t.Published,
	}
}

// StatusError carries the code and body of a response the client did not
// expect.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %d: %s", ErrUnexpectedStatus, e.Code, e.Body)
}

func (e *StatusError) Unwrap() error {
	return ErrUnexpectedStatus
}

func statusError(resp *http.Response) error {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096)) //nolint:gomnd

	return &StatusError{Code: resp.StatusCode, Body: string(b)}
}
