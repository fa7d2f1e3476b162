package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fpang/image-clarity/internal/imageref"
)

func TestClientEnhance(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != PathEnhance {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var req EnhanceRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Image != "data:image/jpeg;base64,AQID" || !req.PreserveFaces {
			t.Errorf("request = %+v", req)
		}
		json.NewEncoder(w).Encode(EnhanceResponse{Image: "data:image/png;base64,AAA="})
	}))
	defer srv.Close()

	client := NewClient(srv.URL+"/", nil)
	got, err := client.Enhance(context.Background(), imageref.New("image/jpeg", []byte{1, 2, 3}), true)
	if err != nil {
		t.Fatalf("Enhance: unexpected error: %v", err)
	}
	if got.DataURL() != "data:image/png;base64,AAA=" {
		t.Errorf("DataURL() = %q", got.DataURL())
	}
}

func TestClientEnhanceServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Image enhancement failed. Could not retrieve the enhanced image from the AI response."})
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, nil).Enhance(context.Background(), imageref.New("image/png", []byte{1}), false)
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *api.Error", err)
	}
	if apiErr.StatusCode != http.StatusBadGateway {
		t.Errorf("StatusCode = %d", apiErr.StatusCode)
	}
	if apiErr.Error() != "Image enhancement failed. Could not retrieve the enhanced image from the AI response." {
		t.Errorf("message = %q", apiErr.Error())
	}
}

func TestClientErrorWithoutBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, nil).Health(context.Background())
	var apiErr *Error
	if !errors.As(err, &apiErr) || apiErr.Message != "Internal Server Error" {
		t.Errorf("error = %v, want status text fallback", err)
	}
}

func TestClientInvalidImageInResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(EnhanceResponse{Image: "not a data url"})
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, nil).Enhance(context.Background(), imageref.New("image/png", []byte{1}), false)
	if err == nil {
		t.Fatal("expected error for an invalid data URL")
	}
}

func TestClientHealth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(HealthResponse{Status: "ok", Service: ServiceName})
	}))
	defer srv.Close()

	h, err := NewClient(srv.URL, nil).Health(context.Background())
	if err != nil {
		t.Fatalf("Health: %v", err)
	}
	if h.Status != "ok" || h.Service != "image-clarity" {
		t.Errorf("health = %+v", h)
	}
}
