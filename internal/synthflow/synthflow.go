// Package synthflow is the client of the hosted voice agent platform.
//
// Every answer is wrapped in a {status, response} envelope. Create returns the model id of the new
// assistant, Get reads response.assistants[0].
package synthflow

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/config"
	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/retry"
)

const (
	defaultTimeout = 30 * time.Second
	statusError    = "error"
)

// Client talks to the assistants and actions endpoints.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// New builds a client from the synthflow config section.
func New(cfg config.Synthflow) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		baseURL:    strings.TrimSuffix(cfg.URL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type envelope struct {
	Status   string          `json:"status"`
	Response json.RawMessage `json:"response"`
}

// Create creates an assistant and returns its model id.
func (c *Client) Create(ctx context.Context, a *Assistant) (string, error) {
	var out struct {
		ModelID string `json:"model_id"`
	}

	if err := c.do(ctx, "create", http.MethodPost, "/assistants", a, &out); err != nil {
		return "", err
	}

	if out.ModelID == "" {
		return "", fmt.Errorf("%w: no model_id in create response", ErrMalformedResponse)
	}

	return out.ModelID, nil
}

// Get reads the assistant modelID.
func (c *Client) Get(ctx context.Context, modelID string) (*Assistant, error) {
	if modelID == "" {
		return nil, ErrModelIDEmpty
	}

	var out struct {
		Assistants []Assistant `json:"assistants"`
	}

	if err := c.do(ctx, "get", http.MethodGet, "/assistants/"+url.PathEscape(modelID), nil, &out); err != nil {
		return nil, err
	}

	if len(out.Assistants) == 0 {
		return nil, ErrAssistantNotFound
	}

	a := out.Assistants[0]
	if a.ModelID == "" {
		a.ModelID = modelID
	}

	return &a, nil
}

// Update replaces the fields set in a on the assistant modelID.
func (c *Client) Update(ctx context.Context, modelID string, a *Assistant) error {
	if modelID == "" {
		return ErrModelIDEmpty
	}

	return c.do(ctx, "update", http.MethodPut, "/assistants/"+url.PathEscape(modelID), a, nil)
}

// CreateAction registers a custom action and returns its id.
func (c *Client) CreateAction(ctx context.Context, action *CustomAction) (string, error) {
	var out struct {
		ActionID string `json:"action_id"`
	}

	if err := c.do(ctx, "create_action", http.MethodPost, "/actions", actionRequest{CustomAction: action}, &out); err != nil {
		return "", err
	}

	if out.ActionID == "" {
		return "", fmt.Errorf("%w: no action_id in action response", ErrMalformedResponse)
	}

	return out.ActionID, nil
}

// do sends body as JSON and decodes the envelope response into out.
// The API key only travels in the Authorization header and never appears in errors or logs.
func (c *Client) do(ctx context.Context, operation, method, path string, body, out any) (err error) {
	defer func() { observe(operation, err) }()

	if c == nil || c.baseURL == "" || c.apiKey == "" {
		return ErrClientNotInitialized
	}

	var reader io.Reader

	if body != nil {
		payload, mErr := json.Marshal(body)
		if mErr != nil {
			return fmt.Errorf("marshal %s request: %w", operation, mErr)
		}

		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrRequestFailed, operation, err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrRequestFailed, operation, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %s: read body: %w", ErrRequestFailed, operation, err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return retry.Permanent(ErrAssistantNotFound)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Debug().Str("operation", operation).Int("status", resp.StatusCode).Msg("synthflow answered with an error")

		err = fmt.Errorf("%w: %s: status %d", ErrRequestFailed, operation, resp.StatusCode)
		if rejected(resp.StatusCode) {
			return retry.Permanent(err)
		}

		return err
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrMalformedResponse, operation, err)
	}

	if env.Status == statusError {
		return fmt.Errorf("%w: %s: status %q", ErrRequestFailed, operation, env.Status)
	}

	if out == nil {
		return nil
	}

	if len(env.Response) == 0 {
		return fmt.Errorf("%w: %s: empty response", ErrMalformedResponse, operation)
	}

	if err := json.Unmarshal(env.Response, out); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrMalformedResponse, operation, err)
	}

	return nil
}

// rejected reports whether status is a client error that repeating the request can't fix.
// Timeouts and rate limits are retried.
func rejected(status int) bool {
	if status == http.StatusRequestTimeout || status == http.StatusTooManyRequests {
		return false
	}

	return status >= 400 && status < 500
}
