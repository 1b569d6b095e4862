package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"skipper-service/models"
)

// Client talks to a running skipper API server
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the server at baseURL
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			// Covers both outbound provider calls made by the server
			Timeout: 40 * time.Second,
		},
	}
}

// APIError is a non-2xx answer carrying the server's message
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (status %d): %s", e.Status, e.Message)
}

// ListRoutes fetches the route catalog
func (c *Client) ListRoutes(ctx context.Context) ([]RouteSummary, error) {
	var response struct {
		Routes []RouteSummary `json:"routes"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/routes", nil, &response); err != nil {
		return nil, err
	}
	return response.Routes, nil
}

// Analyze requests an assessment for a route at targetTs (epoch seconds, UTC)
func (c *Client) Analyze(ctx context.Context, routeID, targetTs int64) (*models.AnalysisResult, error) {
	var result models.AnalysisResult
	req := models.AnalysisRequest{RouteID: routeID, TargetTimestamp: targetTs}
	if err := c.do(ctx, http.MethodPost, "/api/analysis", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr models.ErrorResponse
		if json.Unmarshal(data, &apiErr) != nil || apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Message: apiErr.Message}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}
