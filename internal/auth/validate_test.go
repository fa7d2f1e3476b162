package auth

import (
	"context"
	"errors"
	"io"
	"testing"

	"google.golang.org/genai"

	"github.com/fpang/image-clarity/internal/metrics"
)

type stubGenerator struct {
	model string
	resp  *genai.GenerateContentResponse
	err   error
}

func (s *stubGenerator) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	s.model = model
	return s.resp, s.err
}

func TestValidateAPIKey(t *testing.T) {
	metrics.SetOutput(io.Discard)

	ok := &stubGenerator{resp: &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: genai.NewContentFromText("hello", genai.RoleModel)}},
	}}
	if err := ValidateAPIKey(context.Background(), ok); err != nil {
		t.Fatalf("ValidateAPIKey: unexpected error: %v", err)
	}
	if ok.model != ValidationModel {
		t.Errorf("model = %q, want %q", ok.model, ValidationModel)
	}

	tests := []struct {
		name string
		gen  *stubGenerator
		want ValidationErrorType
	}{
		{"empty response", &stubGenerator{resp: &genai.GenerateContentResponse{}}, ErrTypeUnknown},
		{"unauthorized", &stubGenerator{err: &genai.APIError{Code: 403, Message: "denied"}}, ErrTypeInvalidKey},
		{"rate limited", &stubGenerator{err: &genai.APIError{Code: 429}}, ErrTypeQuotaExceeded},
		{"server error", &stubGenerator{err: &genai.APIError{Code: 503}}, ErrTypeNetworkError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAPIKey(context.Background(), tt.gen)
			var valErr *ValidationError
			if !errors.As(err, &valErr) {
				t.Fatalf("error = %v, want *ValidationError", err)
			}
			if valErr.Type != tt.want {
				t.Errorf("Type = %v, want %v", valErr.Type, tt.want)
			}
		})
	}
}
