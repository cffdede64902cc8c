// Package restapi implements the backend collaborators over the school
// records REST API.
package restapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"

	"github.com/tdkhoa/sodiem/core"
)

type Client struct {
	base   *url.URL
	http   *http.Client
	tokens TokenProvider
	log    core.Logger
}

func NewClient(conf *core.Config, tokens TokenProvider, log core.Logger) (*Client, error) {
	base, err := url.Parse(conf.API.BaseURL)
	if err != nil {
		return nil, errors.Wrapf(err, "restapi.NewClient(%s)", conf.API.BaseURL)
	}
	if log == nil {
		log = core.NopLogger()
	}
	return &Client{
		base:   base,
		http:   &http.Client{Timeout: conf.API.Timeout},
		tokens: tokens,
		log:    log,
	}, nil
}

func (c *Client) Students() *StudentAPI { return &StudentAPI{c: c} }
func (c *Client) Classes() *ClassAPI    { return &ClassAPI{c: c} }
func (c *Client) Accounts() *AccountAPI { return &AccountAPI{c: c} }
func (c *Client) Roster() *RosterAPI    { return &RosterAPI{c: c} }
func (c *Client) Grading() *GradingAPI  { return &GradingAPI{c: c} }
func (c *Client) Settings() *SettingsAPI {
	return &SettingsAPI{c: c}
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) post(ctx context.Context, path string, in, out interface{}) error {
	return c.do(ctx, http.MethodPost, path, nil, in, out)
}

func (c *Client) patch(ctx context.Context, path string, in, out interface{}) error {
	return c.do(ctx, http.MethodPatch, path, nil, in, out)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out interface{}) error {
	// A token known to be expired fails locally; no point reaching the
	// server to be told 401.
	token := ""
	if c.tokens != nil {
		token = c.tokens.Token()
		if token != "" && tokenExpired(token) {
			return &core.APIError{Status: http.StatusUnauthorized, Message: "session expired, sign in again"}
		}
	}

	u := *c.base
	u.Path = strings.TrimSuffix(u.Path, "/") + path
	if query != nil {
		u.RawQuery = query.Encode()
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return errors.Wrap(err, "restapi: encode request")
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return errors.Wrap(err, "restapi: build request")
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			// Cooperative cancellation is not a backend failure; let the
			// caller's staleness check make the settlement a no-op.
			return ctx.Err()
		}
		c.log.Error("request failed", err, map[string]interface{}{"method": method, "path": path})
		return &core.APIError{Message: err.Error()}
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return &core.APIError{Message: err.Error()}
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return parseAPIError(res.StatusCode, data)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return errors.Wrapf(err, "restapi: decode %s %s", method, path)
	}
	return nil
}
