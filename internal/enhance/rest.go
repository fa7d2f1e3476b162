package enhance

// rest.go calls the Gemini generateContent REST endpoint directly. It needs
// nothing beyond net/http and is handy where the SDK's dependency tree is
// unwanted (and in tests, where an httptest server stands in for Gemini).

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/fpang/image-clarity/internal/imageref"
)

// GeminiBaseURL is the Gemini REST API base URL.
const GeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// RESTBackend edits images with plain HTTP calls to generateContent.
type RESTBackend struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewRESTBackend creates a REST backend for model. An empty baseURL uses
// GeminiBaseURL.
func NewRESTBackend(baseURL, model string) *RESTBackend {
	if baseURL == "" {
		baseURL = GeminiBaseURL
	}
	return &RESTBackend{
		baseURL: baseURL,
		model:   model,
		httpClient: &http.Client{
			Timeout: 120 * time.Second, // Image generation can take 10-30s
		},
	}
}

// --- REST API request/response types ---

type geminiRequest struct {
	Contents         []geminiContent         `json:"contents"`
	GenerationConfig *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text       string          `json:"text,omitempty"`
	InlineData *geminiBlobData `json:"inlineData,omitempty"`
}

type geminiGenerationConfig struct {
	ResponseModalities []string `json:"responseModalities,omitempty"`
}

type geminiBlobData struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"` // base64 encoded
}

type geminiResponse struct {
	Candidates []geminiCandidate `json:"candidates"`
	Error      *geminiError      `json:"error,omitempty"`
}

type geminiCandidate struct {
	Content geminiContent `json:"content"`
}

type geminiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// Name identifies the backend in logs and metrics.
func (b *RESTBackend) Name() string { return BackendREST }

// Model returns the model ID requests are sent to.
func (b *RESTBackend) Model() string { return b.model }

// EditImage posts the image and instruction and returns the first inline
// image part of the response.
func (b *RESTBackend) EditImage(ctx context.Context, apiKey string, img imageref.Image, instruction string) (*Result, error) {
	startTime := time.Now()

	req := geminiRequest{
		Contents: []geminiContent{{
			Role: "user",
			Parts: []geminiPart{
				{InlineData: &geminiBlobData{MIMEType: img.MIMEType, Data: img.Base64()}},
				{Text: instruction},
			},
		}},
		GenerationConfig: &geminiGenerationConfig{
			ResponseModalities: []string{"IMAGE"},
		},
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", b.baseURL, b.model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", apiKey)

	log.Debug().
		Str("model", b.model).
		Int("image_bytes", len(img.Data)).
		Msg("Sending image to Gemini via REST")

	resp, err := b.httpClient.Do(httpReq)
	if err != nil {
		return nil, &RemoteError{Message: "request to Gemini failed", Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &RemoteError{StatusCode: resp.StatusCode, Message: "failed to read response", Err: err}
	}

	var geminiResp geminiResponse
	parseErr := json.Unmarshal(respBody, &geminiResp)

	if resp.StatusCode != http.StatusOK {
		log.Error().
			Int("status", resp.StatusCode).
			Str("body", truncateString(string(respBody), 500)).
			Msg("Gemini image editing API returned error")
		msg := http.StatusText(resp.StatusCode)
		if parseErr == nil && geminiResp.Error != nil && geminiResp.Error.Message != "" {
			msg = geminiResp.Error.Message
		}
		return nil, &RemoteError{StatusCode: resp.StatusCode, Message: msg}
	}
	if parseErr != nil {
		return nil, &RemoteError{StatusCode: resp.StatusCode, Message: "failed to parse response", Err: parseErr}
	}
	if geminiResp.Error != nil {
		return nil, &RemoteError{StatusCode: geminiResp.Error.Code, Message: geminiResp.Error.Message}
	}

	var text string
	for _, candidate := range geminiResp.Candidates {
		for _, part := range candidate.Content.Parts {
			if part.InlineData != nil && part.InlineData.Data != "" {
				decoded, err := base64.StdEncoding.DecodeString(part.InlineData.Data)
				if err != nil {
					return nil, &RemoteError{Message: "failed to decode image data", Err: err}
				}
				mimeType := part.InlineData.MIMEType
				if mimeType == "" {
					mimeType = imageref.Sniff(decoded)
				}
				log.Debug().
					Int("output_bytes", len(decoded)).
					Str("output_mime", mimeType).
					Dur("duration", time.Since(startTime)).
					Msg("Gemini REST image editing complete")
				return &Result{Image: imageref.New(mimeType, decoded), Text: text}, nil
			}
			text += part.Text
		}
	}

	log.Warn().
		Str("text", truncateString(text, 200)).
		Msg("No image part in Gemini response")
	return nil, ErrNoImage
}
