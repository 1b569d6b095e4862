// Package gemini is a minimal client for the generateContent endpoint.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"skipper-service/datasource"
)

const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	DefaultModel   = "gemini-2.0-flash"
	DefaultTimeout = 15 * time.Second
)

// Client sends single-prompt generateContent requests
type Client struct {
	baseURL string
	model   string
	client  *http.Client
}

var _ datasource.TextGenerator = (*Client)(nil)

// NewClient creates a client for the given model; an empty model selects DefaultModel
func NewClient(model string) *Client {
	if model == "" {
		model = DefaultModel
	}
	return &Client{
		baseURL: DefaultBaseURL,
		model:   model,
		client: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
}

// WithBaseURL overrides the API root
func (c *Client) WithBaseURL(baseURL string) *Client {
	if baseURL != "" {
		c.baseURL = baseURL
	}
	return c
}

// WithTimeout overrides the HTTP client timeout
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	if timeout > 0 {
		c.client.Timeout = timeout
	}
	return c
}

// Name returns the provider name
func (c *Client) Name() string {
	return "Gemini (" + c.model + ")"
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text *string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// GenerateText posts the prompt and returns the first candidate's first text part.
// Transport failures wrap datasource.ErrUpstreamUnavailable. Any answer without
// candidates[0].content.parts[0].text, including non-2xx answers, wraps
// datasource.ErrMalformedResponse.
func (c *Client) GenerateText(ctx context.Context, prompt, apiKey string) (string, error) {
	payload, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?%s",
		c.baseURL, url.PathEscape(c.model), url.Values{"key": {apiKey}}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		var uerr *url.Error
		if errors.As(err, &uerr) {
			// url.Error echoes the endpoint, which carries the key
			return "", fmt.Errorf("%w: failed to execute request: %s: %v", datasource.ErrUpstreamUnavailable, uerr.Op, uerr.Err)
		}
		return "", fmt.Errorf("%w: failed to execute request: %v", datasource.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: failed to read response body: %v", datasource.ErrUpstreamUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: API error (status %d)", datasource.ErrMalformedResponse, resp.StatusCode)
	}

	var response generateResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("%w: %v", datasource.ErrMalformedResponse, err)
	}

	if len(response.Candidates) == 0 ||
		len(response.Candidates[0].Content.Parts) == 0 ||
		response.Candidates[0].Content.Parts[0].Text == nil {
		return "", fmt.Errorf("%w: no candidate text", datasource.ErrMalformedResponse)
	}

	return *response.Candidates[0].Content.Parts[0].Text, nil
}
