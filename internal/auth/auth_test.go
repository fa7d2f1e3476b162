package auth

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestGetAPIKeyFromEnv(t *testing.T) {
	const testKey = "test-api-key-12345"
	t.Setenv(APIKeyEnv, testKey)

	key, err := GetAPIKey()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if key != testKey {
		t.Errorf("expected key %q, got %q", testKey, key)
	}
}

func TestGetAPIKeyNoSource(t *testing.T) {
	t.Setenv(APIKeyEnv, "")

	_, err := GetAPIKey()
	if !errors.Is(err, ErrNoAPIKey) {
		t.Errorf("expected ErrNoAPIKey, got %v", err)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("GEMINI_API_KEY=from-dotenv\nCLARITY_TEST_VAR=set\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv(APIKeyEnv, "")
	os.Unsetenv(APIKeyEnv)
	t.Setenv("CLARITY_TEST_VAR", "already")

	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
	if got := os.Getenv(APIKeyEnv); got != "from-dotenv" {
		t.Errorf("GEMINI_API_KEY = %q, want from-dotenv", got)
	}
	if got := os.Getenv("CLARITY_TEST_VAR"); got != "already" {
		t.Errorf("existing variable overridden: %q", got)
	}
}

func TestLoadDotEnvMissingFile(t *testing.T) {
	if err := LoadDotEnv(filepath.Join(t.TempDir(), "nope.env")); err != nil {
		t.Errorf("missing file should be ignored, got %v", err)
	}
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ValidationErrorType
	}{
		{"invalid key text", errors.New("API key not valid. Please pass a valid API key."), ErrTypeInvalidKey},
		{"quota text", errors.New("Resource exhausted"), ErrTypeQuotaExceeded},
		{"network text", errors.New("dial tcp: no such host"), ErrTypeNetworkError},
		{"unknown", errors.New("something odd"), ErrTypeUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyError(tt.err)
			if got.Type != tt.want {
				t.Errorf("classifyError(%q).Type = %v, want %v", tt.err, got.Type, tt.want)
			}
			if !errors.Is(got, tt.err) {
				t.Error("ValidationError should wrap the cause")
			}
		})
	}
}
