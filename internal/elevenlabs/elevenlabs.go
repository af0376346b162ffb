// Package elevenlabs lists text to speech voices and streams short previews of them.
package elevenlabs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/config"
)

const (
	headerAPIKey   = "xi-api-key"
	defaultTimeout = 30 * time.Second
)

var (
	// ErrClientNotInitialized is returned when no API key is configured.
	ErrClientNotInitialized = errors.New("elevenlabs client not initialized")
	// ErrRequestFailed is returned for transport errors and non 2xx answers.
	ErrRequestFailed = errors.New("elevenlabs request failed")
	// ErrVoiceIDEmpty is returned when a preview has no voice.
	ErrVoiceIDEmpty = errors.New("voice id cannot be empty")
)

// Client talks to the voices and text-to-speech endpoints.
type Client struct {
	baseURL      string
	apiKey       string
	previewText  string
	previewModel string
	httpClient   *http.Client
}

// New builds a client from the elevenlabs config section.
func New(cfg config.ElevenLabs) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		baseURL:      strings.TrimSuffix(cfg.URL, "/"),
		apiKey:       cfg.APIKey,
		previewText:  cfg.PreviewText,
		previewModel: cfg.PreviewModel,
		httpClient:   &http.Client{Timeout: timeout},
	}
}

type remoteVoice struct {
	VoiceID string            `json:"voice_id"`
	Name    string            `json:"name"`
	Labels  map[string]string `json:"labels"`
}

// ListVoices returns the voices of the account with a human readable description each.
func (c *Client) ListVoices(ctx context.Context) ([]Voice, error) {
	resp, err := c.send(ctx, http.MethodGet, "/v1/voices", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var out struct {
		Voices []remoteVoice `json:"voices"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: decode voices: %w", ErrRequestFailed, err)
	}

	voices := make([]Voice, 0, len(out.Voices))
	for _, v := range out.Voices {
		voices = append(voices, Voice{
			ID:          v.VoiceID,
			Name:        v.Name,
			Description: Describe(v.Name, v.Labels),
		})
	}

	return voices, nil
}

type previewRequest struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id"`
	VoiceSettings voiceSettings `json:"voice_settings"`
}

type voiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
}

// Preview streams the configured sample sentence spoken by voiceID.
// The caller closes the returned body.
func (c *Client) Preview(ctx context.Context, voiceID string) (io.ReadCloser, string, error) {
	if voiceID == "" {
		return nil, "", ErrVoiceIDEmpty
	}

	payload, err := json.Marshal(previewRequest{
		Text:          c.previewText,
		ModelID:       c.previewModel,
		VoiceSettings: voiceSettings{Stability: 0.5, SimilarityBoost: 0.75}, //nolint:mnd
	})
	if err != nil {
		return nil, "", err
	}

	resp, err := c.send(ctx, http.MethodPost, "/v1/text-to-speech/"+url.PathEscape(voiceID)+"/stream", payload)
	if err != nil {
		return nil, "", err
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "audio/mpeg"
	}

	return resp.Body, contentType, nil
}

func (c *Client) send(ctx context.Context, method, path string, payload []byte) (*http.Response, error) {
	if c == nil || c.apiKey == "" || c.baseURL == "" {
		return nil, ErrClientNotInitialized
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}

	req.Header.Set(headerAPIKey, c.apiKey)

	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_ = resp.Body.Close()

		return nil, fmt.Errorf("%w: status %d", ErrRequestFailed, resp.StatusCode)
	}

	return resp, nil
}
