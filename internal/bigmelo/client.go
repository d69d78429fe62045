// Package bigmelo is the client for the remote Bigmelo backend. Raw verbs
// return an Envelope and never fail on HTTP-level errors; typed endpoint
// methods layer the success check and schema verification on top.
package bigmelo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/bigmelo-com/bigmelo-dashboard/internal/ports"
)

type Client struct {
	baseURL string
	hc      *http.Client
	logger  ports.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.hc = hc }
}

func NewClient(baseURL string, logger ports.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		hc:      http.DefaultClient,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RequestOption mutates the outbound header set. Caller options run after the
// defaults, so they win on conflicts.
type RequestOption func(http.Header)

func WithHeader(key, value string) RequestOption {
	return func(h http.Header) { h.Set(key, value) }
}

func WithBearer(accessToken string) RequestOption {
	return func(h http.Header) { h.Set("Authorization", "Bearer "+accessToken) }
}

func (c *Client) Get(ctx context.Context, path string, opts ...RequestOption) (Envelope, error) {
	return c.do(ctx, http.MethodGet, path, nil, opts)
}

func (c *Client) Post(ctx context.Context, path string, body map[string]any, opts ...RequestOption) (Envelope, error) {
	return c.do(ctx, http.MethodPost, path, body, opts)
}

func (c *Client) Put(ctx context.Context, path string, body map[string]any, opts ...RequestOption) (Envelope, error) {
	return c.do(ctx, http.MethodPut, path, body, opts)
}

func (c *Client) Patch(ctx context.Context, path string, body map[string]any, opts ...RequestOption) (Envelope, error) {
	return c.do(ctx, http.MethodPatch, path, body, opts)
}

// do issues a single attempt: no retries, no timeout beyond the http.Client's
// own. Network failures propagate; HTTP failures come back in the envelope.
func (c *Client) do(ctx context.Context, method, path string, body map[string]any, opts []RequestOption) (Envelope, error) {
	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(snakeKeys(body))
		if err != nil {
			return Envelope{}, fmt.Errorf("encode %s %s body: %w", method, path, err)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return Envelope{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for _, opt := range opts {
		opt(req.Header)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return Envelope{}, fmt.Errorf("%s %s: %w", method, req.URL, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Envelope{}, fmt.Errorf("%s %s: read body: %w", method, req.URL, err)
	}

	c.logErrorResponse(ctx, resp.StatusCode, req.URL.String(), raw)

	envelope := Envelope{
		Status:     resp.StatusCode,
		StatusText: http.StatusText(resp.StatusCode),
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 && len(raw) > 0 {
		var decoded any
		if err := json.Unmarshal(raw, &decoded); err != nil {
			c.logger.Error(ctx, "error parsing response body", "url", req.URL.String(), "error", err)
		} else {
			envelope.Data = camelKeys(decoded)
		}
	}
	return envelope, nil
}

// Errors between backend services are always logged for troubleshooting;
// 404s and successes are not.
func (c *Client) logErrorResponse(ctx context.Context, status int, url string, body []byte) {
	if (status >= 200 && status < 400) || status == http.StatusNotFound {
		return
	}
	c.logger.Error(ctx, "error status from api",
		"status", status,
		"url", url,
		"body", string(body),
	)
}
