package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/fpang/image-clarity/internal/imageref"
)

// Error is a non-2xx answer from the server. Message is the server's
// user-facing text.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return e.Message
}

// Client calls the enhancement server. It satisfies app.Enhancer.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient returns a client for the server at baseURL. A nil httpClient uses
// http.DefaultClient; no timeout is set because enhancement has no upper
// bound on the browser side.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), httpClient: httpClient}
}

// Enhance posts the image to /api/enhance and decodes the enhanced data URL.
func (c *Client) Enhance(ctx context.Context, img imageref.Image, preserveFaces bool) (imageref.Image, error) {
	body, err := json.Marshal(EnhanceRequest{Image: img.DataURL(), PreserveFaces: preserveFaces})
	if err != nil {
		return imageref.Image{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	var resp EnhanceResponse
	if err := c.do(ctx, http.MethodPost, PathEnhance, body, &resp); err != nil {
		return imageref.Image{}, err
	}

	enhanced, err := imageref.ParseDataURL(resp.Image)
	if err != nil {
		return imageref.Image{}, fmt.Errorf("server returned an invalid image: %w", err)
	}
	return enhanced, nil
}

// Health reports whether the server is up.
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	var resp HealthResponse
	if err := c.do(ctx, http.MethodGet, PathHealth, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Version returns the server's build identity and model configuration.
func (c *Client) Version(ctx context.Context) (*VersionResponse, error) {
	var resp VersionResponse
	if err := c.do(ctx, http.MethodGet, PathVersion, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errResp ErrorResponse
		msg := http.StatusText(resp.StatusCode)
		if json.Unmarshal(raw, &errResp) == nil && errResp.Error != "" {
			msg = errResp.Error
		}
		return &Error{StatusCode: resp.StatusCode, Message: msg}
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}
