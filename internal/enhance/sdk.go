package enhance

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"google.golang.org/genai"

	"github.com/fpang/image-clarity/internal/imageref"
)

// ContentGenerator is the subset of *genai.Models used for image editing.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeneratorFactory builds a ContentGenerator for an API key.
type GeneratorFactory func(ctx context.Context, apiKey string) (ContentGenerator, error)

// NewGeminiClient creates a Gemini Developer API client for apiKey.
func NewGeminiClient(ctx context.Context, apiKey string) (*genai.Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return client, nil
}

func defaultGeneratorFactory(ctx context.Context, apiKey string) (ContentGenerator, error) {
	client, err := NewGeminiClient(ctx, apiKey)
	if err != nil {
		return nil, err
	}
	return client.Models, nil
}

// SDKBackend edits images through the google.golang.org/genai SDK.
type SDKBackend struct {
	model        string
	newGenerator GeneratorFactory
}

// NewSDKBackend returns a backend for the given model. A nil factory uses the
// real Gemini client.
func NewSDKBackend(model string, factory GeneratorFactory) *SDKBackend {
	if factory == nil {
		factory = defaultGeneratorFactory
	}
	return &SDKBackend{model: model, newGenerator: factory}
}

// Name identifies the backend in logs and metrics.
func (b *SDKBackend) Name() string { return BackendSDK }

// Model returns the model ID requests are sent to.
func (b *SDKBackend) Model() string { return b.model }

// EditImage sends the image and instruction with an image-only response
// modality and returns the first inline image part of the response.
func (b *SDKBackend) EditImage(ctx context.Context, apiKey string, img imageref.Image, instruction string) (*Result, error) {
	gen, err := b.newGenerator(ctx, apiKey)
	if err != nil {
		return nil, &RemoteError{Message: "could not create Gemini client", Err: err}
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			{InlineData: &genai.Blob{MIMEType: img.MIMEType, Data: img.Data}},
			genai.NewPartFromText(instruction),
		}, genai.RoleUser),
	}
	config := &genai.GenerateContentConfig{
		ResponseModalities: []string{string(genai.ModalityImage)},
	}

	log.Debug().
		Str("model", b.model).
		Int("image_bytes", len(img.Data)).
		Msg("Sending image to Gemini via SDK")

	resp, err := gen.GenerateContent(ctx, b.model, contents, config)
	if err != nil {
		return nil, sdkError(err)
	}
	return firstInlineImage(resp)
}

// firstInlineImage walks the candidates in order and returns the first part
// that carries inline image data.
func firstInlineImage(resp *genai.GenerateContentResponse) (*Result, error) {
	if resp == nil {
		return nil, ErrNoImage
	}
	var text strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				mimeType := part.InlineData.MIMEType
				if mimeType == "" {
					mimeType = imageref.Sniff(part.InlineData.Data)
				}
				return &Result{
					Image: imageref.New(mimeType, part.InlineData.Data),
					Text:  text.String(),
				}, nil
			}
			text.WriteString(part.Text)
		}
	}
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		log.Warn().
			Str("block_reason", string(resp.PromptFeedback.BlockReason)).
			Msg("Gemini blocked the enhancement request")
	}
	log.Warn().
		Int("candidates", len(resp.Candidates)).
		Str("text", truncateString(text.String(), 200)).
		Msg("No image part in Gemini response")
	return nil, ErrNoImage
}

func sdkError(err error) error {
	var apiErr *genai.APIError
	if errors.As(err, &apiErr) {
		return &RemoteError{StatusCode: apiErr.Code, Message: apiErr.Message, Err: err}
	}
	return &RemoteError{Err: err}
}
