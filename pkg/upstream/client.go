// Package upstream wraps the external HTTP APIs the search app consumes:
// the patent/TTO record search service and the AI assistance service
// (keyword generation, description improvement, patent lookup). Both are
// opaque JSON-over-HTTPS endpoints; this package owns URL construction,
// the {data}/error envelope, and retry/backoff.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"

	"patent-scout-be/pkg/retry"
)

// Config carries the per-environment endpoint map.
type Config struct {
	SearchBaseURL string
	SearchAPIKey  string
	AssistBaseURL string
	AssistAPIKey  string
}

type Client struct {
	cfg      Config
	http     *http.Client
	retryCfg retry.Config
	logger   *log.Logger
}

func NewClient(cfg Config, httpClient *http.Client, logger *log.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Client{
		cfg:      cfg,
		http:     httpClient,
		retryCfg: retry.DefaultConfig(),
		logger:   logger,
	}
}

// envelope is the wire format every upstream endpoint responds with.
type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error,omitempty"`
}

// statusError distinguishes HTTP-level failures so retry policy can treat
// 5xx as transient and 4xx as permanent.
type statusError struct {
	Code int
	Body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("upstream: status %d: %s", e.Code, e.Body)
}

// postJSON issues a JSON POST with retry/backoff and unwraps the envelope
// into out. Network errors and 5xx responses are retried; 4xx responses and
// malformed bodies are not.
func (c *Client) postJSON(ctx context.Context, url, apiKey string, body interface{}, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("upstream: marshal request: %w", err)
	}

	data, err := retry.DoWithValue(ctx, c.retryCfg, func() (json.RawMessage, error) {
		return c.once(ctx, http.MethodPost, url, apiKey, payload)
	})
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("upstream: decode response: %w", err)
	}
	return nil
}

// getJSON is postJSON for parameterless GET endpoints.
func (c *Client) getJSON(ctx context.Context, url, apiKey string, out interface{}) error {
	data, err := retry.DoWithValue(ctx, c.retryCfg, func() (json.RawMessage, error) {
		return c.once(ctx, http.MethodGet, url, apiKey, nil)
	})
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("upstream: decode response: %w", err)
	}
	return nil
}

func (c *Client) once(ctx context.Context, method, url, apiKey string, payload []byte) (json.RawMessage, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, retry.Permanent(err)
	}
	req.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 500 {
		return nil, &statusError{Code: resp.StatusCode, Body: truncate(raw)}
	}
	if resp.StatusCode >= 300 {
		return nil, retry.Permanent(&statusError{Code: resp.StatusCode, Body: truncate(raw)})
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, retry.Permanent(fmt.Errorf("upstream: malformed response: %w", err))
	}
	if env.Error != "" {
		return nil, retry.Permanent(fmt.Errorf("upstream: %s", env.Error))
	}
	if env.Data == nil {
		// Some endpoints respond with a bare document instead of {data}.
		return raw, nil
	}
	return env.Data, nil
}

func truncate(b []byte) string {
	const max = 256
	if len(b) > max {
		return string(b[:max]) + "..."
	}
	return string(b)
}
