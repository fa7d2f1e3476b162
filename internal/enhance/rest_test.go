package enhance

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newGeminiStub(t *testing.T, status int, body string, check func(r *http.Request, req geminiRequest)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		var req geminiRequest
		if err := json.Unmarshal(raw, &req); err != nil {
			t.Errorf("request body is not valid JSON: %v", err)
		}
		if check != nil {
			check(r, req)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRESTBackend_ReturnsFirstImage(t *testing.T) {
	body := `{"candidates":[{"content":{"role":"model","parts":[
		{"text":"Enhanced."},
		{"inlineData":{"mimeType":"image/png","data":"AAA="}}
	]}}]}`
	srv := newGeminiStub(t, http.StatusOK, body, func(r *http.Request, req geminiRequest) {
		if r.URL.Path != "/models/test-model:generateContent" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if r.Header.Get("x-goog-api-key") != "secret" {
			t.Errorf("api key header = %q", r.Header.Get("x-goog-api-key"))
		}
		if r.URL.Query().Get("key") != "" {
			t.Error("api key must not be sent in the URL")
		}
		if got := req.GenerationConfig.ResponseModalities; len(got) != 1 || got[0] != "IMAGE" {
			t.Errorf("responseModalities = %v", got)
		}
		parts := req.Contents[0].Parts
		if parts[0].InlineData == nil || parts[0].InlineData.MIMEType != "image/jpeg" {
			t.Errorf("first part should be the inline image: %+v", parts[0])
		}
		if !strings.Contains(parts[1].Text, "4K") {
			t.Errorf("second part should be the instruction: %q", parts[1].Text)
		}
	})

	client := NewClient(NewRESTBackend(srv.URL, "test-model"), staticKey("secret"))
	got, err := client.Enhance(context.Background(), testImage, false)
	if err != nil {
		t.Fatalf("Enhance: unexpected error: %v", err)
	}
	if got.DataURL() != "data:image/png;base64,AAA=" {
		t.Errorf("DataURL() = %q, want data:image/png;base64,AAA=", got.DataURL())
	}
}

func TestRESTBackend_NoImage(t *testing.T) {
	srv := newGeminiStub(t, http.StatusOK, `{"candidates":[{"content":{"parts":[{"text":"no"}]}}]}`, nil)

	client := NewClient(NewRESTBackend(srv.URL, "m"), staticKey("k"))
	_, err := client.Enhance(context.Background(), testImage, false)
	if !errors.Is(err, ErrNoImage) {
		t.Fatalf("error = %v, want ErrNoImage", err)
	}
}

func TestRESTBackend_HTTPError(t *testing.T) {
	srv := newGeminiStub(t, http.StatusBadRequest,
		`{"error":{"code":400,"message":"API key not valid","status":"INVALID_ARGUMENT"}}`, nil)

	client := NewClient(NewRESTBackend(srv.URL, "m"), staticKey("k"))
	_, err := client.Enhance(context.Background(), testImage, false)

	var remote *RemoteError
	if !errors.As(err, &remote) {
		t.Fatalf("error = %v, want *RemoteError", err)
	}
	if remote.StatusCode != http.StatusBadRequest || remote.Message != "API key not valid" {
		t.Errorf("RemoteError = %+v", remote)
	}
}

func TestRESTBackend_BadImagePayload(t *testing.T) {
	srv := newGeminiStub(t, http.StatusOK,
		`{"candidates":[{"content":{"parts":[{"inlineData":{"mimeType":"image/png","data":"@@@"}}]}}]}`, nil)

	client := NewClient(NewRESTBackend(srv.URL, "m"), staticKey("k"))
	_, err := client.Enhance(context.Background(), testImage, false)
	var remote *RemoteError
	if !errors.As(err, &remote) {
		t.Fatalf("error = %v, want *RemoteError", err)
	}
}
