package oapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/oapi-codegen/runtime"
)

// HttpRequestDoer performs HTTP requests. *http.Client implements it.
type HttpRequestDoer interface { //nolint:revive,stylecheck
	Do(req *http.Request) (*http.Response, error)
}

type RequestEditorFn func(ctx context.Context, req *http.Request) error

type Client struct {
	Server         string
	Client         HttpRequestDoer
	RequestEditors []RequestEditorFn
}

type ClientOption func(*Client) error

func NewClient(server string, opts ...ClientOption) (*Client, error) {
	client := Client{
		Server: server,
	}

	for _, o := range opts {
		if err := o(&client); err != nil {
			return nil, err
		}
	}

	if !strings.HasSuffix(client.Server, "/") {
		client.Server += "/"
	}

	if client.Client == nil {
		client.Client = &http.Client{}
	}

	return &client, nil
}

func WithHTTPClient(doer HttpRequestDoer) ClientOption {
	return func(c *Client) error {
		c.Client = doer

		return nil
	}
}

func WithRequestEditorFn(fn RequestEditorFn) ClientOption {
	return func(c *Client) error {
		c.RequestEditors = append(c.RequestEditors, fn)

		return nil
	}
}

func (c *Client) GetHome(ctx context.Context, reqEditors ...RequestEditorFn) (*http.Response, error) {
	return c.do(ctx, http.MethodGet, "", nil, nil, nil, reqEditors)
}

func (c *Client) PostAuth(ctx context.Context, body PostAuthJSONRequestBody,
	reqEditors ...RequestEditorFn,
) (*http.Response, error) {
	return c.do(ctx, http.MethodPost, "auth", nil, nil, body, reqEditors)
}

func (c *Client) PostUsers(ctx context.Context, params *PostUsersParams, body PostUsersJSONRequestBody,
	reqEditors ...RequestEditorFn,
) (*http.Response, error) {
	var token *string
	if params != nil {
		token = params.Token
	}

	return c.do(ctx, http.MethodPost, "users", nil, token, body, reqEditors)
}

func (c *Client) GetTutorials(ctx context.Context, params *GetTutorialsParams,
	reqEditors ...RequestEditorFn,
) (*http.Response, error) {
	query := url.Values{}

	if params != nil {
		values := []struct {
			name  string
			value interface{}
			set   bool
		}{
			{"title", deref(params.Title), params.Title != nil},
			{"published", deref(params.Published), params.Published != nil},
			{"offset", deref(params.Offset), params.Offset != nil},
			{"limit", deref(params.Limit), params.Limit != nil},
		}

		for _, v := range values {
			if !v.set {
				continue
			}

			frag, err := runtime.StyleParamWithLocation("form", true, v.name, runtime.ParamLocationQuery, v.value)
			if err != nil {
				return nil, fmt.Errorf("style param %s error: %w", v.name, err)
			}

			parsed, err := url.ParseQuery(frag)
			if err != nil {
				return nil, fmt.Errorf("parse query %s error: %w", v.name, err)
			}

			for k, vs := range parsed {
				for _, s := range vs {
					query.Add(k, s)
				}
			}
		}
	}

	return c.do(ctx, http.MethodGet, "tutorials", query, nil, nil, reqEditors)
}

func (c *Client) PostTutorials(ctx context.Context, params *PostTutorialsParams, body PostTutorialsJSONRequestBody,
	reqEditors ...RequestEditorFn,
) (*http.Response, error) {
	var token *string
	if params != nil {
		token = params.Token
	}

	return c.do(ctx, http.MethodPost, "tutorials", nil, token, body, reqEditors)
}

func (c *Client) GetTutorialsId(ctx context.Context, id int64, //nolint:revive,stylecheck
	reqEditors ...RequestEditorFn,
) (*http.Response, error) {
	path, err := tutorialPath(id)
	if err != nil {
		return nil, err
	}

	return c.do(ctx, http.MethodGet, path, nil, nil, nil, reqEditors)
}

func (c *Client) PutTutorialsId(ctx context.Context, id int64, params *PutTutorialsIdParams, //nolint:revive,stylecheck
	body PutTutorialsIdJSONRequestBody, reqEditors ...RequestEditorFn,
) (*http.Response, error) {
	path, err := tutorialPath(id)
	if err != nil {
		return nil, err
	}

	var token *string
	if params != nil {
		token = params.Token
	}

	return c.do(ctx, http.MethodPut, path, nil, token, body, reqEditors)
}

func (c *Client) DeleteTutorialsId(ctx context.Context, id int64, params *DeleteTutorialsIdParams, //nolint:revive,stylecheck
	reqEditors ...RequestEditorFn,
) (*http.Response, error) {
	path, err := tutorialPath(id)
	if err != nil {
		return nil, err
	}

	var token *string
	if params != nil {
		token = params.Token
	}

	return c.do(ctx, http.MethodDelete, path, nil, token, nil, reqEditors)
}

func tutorialPath(id int64) (string, error) {
	pathParam, err := runtime.StyleParamWithLocation("simple", false, "id", runtime.ParamLocationPath, id)
	if err != nil {
		return "", fmt.Errorf("style param id error: %w", err)
	}

	return "tutorials/" + pathParam, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, token *string,
	body interface{}, reqEditors []RequestEditorFn,
) (*http.Response, error) {
	serverURL, err := url.Parse(c.Server)
	if err != nil {
		return nil, fmt.Errorf("parse server url error: %w", err)
	}

	queryURL, err := serverURL.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("parse path error: %w", err)
	}

	if len(query) != 0 {
		queryURL.RawQuery = query.Encode()
	}

	var bodyReader io.Reader

	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal body error: %w", err)
		}

		bodyReader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, queryURL.String(), bodyReader)
	if err != nil {
		return nil, fmt.Errorf("new request error: %w", err)
	}

	if body != nil {
		req.Header.Add("Content-Type", "application/json")
	}

	if token != nil {
		req.Header.Set("token", *token)
	}

	for _, r := range c.RequestEditors {
		if err := r(ctx, req); err != nil {
			return nil, err
		}
	}

	for _, r := range reqEditors {
		if err := r(ctx, req); err != nil {
			return nil, err
		}
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request error: %w", err)
	}

	return resp, nil
}

func deref[T any](p *T) interface{} {
	if p == nil {
		return nil
	}

	return *p
}
