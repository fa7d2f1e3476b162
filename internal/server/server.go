// Package server exposes image enhancement over HTTP for the browser app and
// serves the app itself.
//
// Endpoints:
//
//	POST /api/enhance  enhance a data-URL image
//	GET  /api/health   health check
//	GET  /api/version  build identity and model configuration
//	GET  /*            embedded single-page app (when configured)
package server

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"

	"github.com/klauspost/compress/gzhttp"

	"github.com/fpang/image-clarity/internal/api"
	"github.com/fpang/image-clarity/internal/app"
	"github.com/fpang/image-clarity/internal/enhance"
	"github.com/fpang/image-clarity/internal/imageref"
	"github.com/fpang/image-clarity/internal/intake"
)

// DefaultMaxBodyBytes bounds the enhance request body. A 10 MB image grows by
// a third when base64 encoded.
const DefaultMaxBodyBytes int64 = 16 << 20

// enhanceFailedMessage is returned when the failure detail is not safe to
// show to the client.
const enhanceFailedMessage = "Image enhancement failed."

// Options configures the handler.
type Options struct {
	CommitHash string
	BuildTime  string
	Model      string
	Backend    string

	// MaxBodyBytes limits POST /api/enhance bodies (default DefaultMaxBodyBytes).
	MaxBodyBytes int64
	// Static, when set, is served at / with a fallback to index.html.
	Static fs.FS
	// OriginVerifySecret, when set, is required in the x-origin-verify header
	// of every request except the health check.
	OriginVerifySecret string
	// AllowedOrigins lists extra CORS origins besides localhost.
	AllowedOrigins []string
}

type handler struct {
	enhancer app.Enhancer
	opts     Options
}

// New returns the full HTTP handler: API routes, optional static app, and the
// middleware chain (request IDs, logging, metrics, CORS, compression, origin
// verification).
func New(enhancer app.Enhancer, opts Options) http.Handler {
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = DefaultMaxBodyBytes
	}
	h := &handler{enhancer: enhancer, opts: opts}

	mux := http.NewServeMux()
	mux.HandleFunc(api.PathEnhance, h.handleEnhance)
	mux.HandleFunc(api.PathHealth, h.handleHealth)
	mux.HandleFunc(api.PathVersion, h.handleVersion)
	if opts.Static != nil {
		mux.Handle("/", staticHandler(opts.Static))
	}

	var next http.Handler = gzhttp.GzipHandler(mux)
	next = withCORS(next, opts.AllowedOrigins)
	next = withOriginVerify(next, opts.OriginVerifySecret)
	next = withMetrics(next)
	next = withLogging(next)
	return withRequestID(next)
}

func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, api.HealthResponse{Status: "ok", Service: api.ServiceName})
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httpError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	respondJSON(w, http.StatusOK, api.VersionResponse{
		CommitHash: h.opts.CommitHash,
		BuildTime:  h.opts.BuildTime,
		Model:      h.opts.Model,
		Backend:    h.opts.Backend,
	})
}

func (h *handler) handleEnhance(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httpError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.opts.MaxBodyBytes)
	var req api.EnhanceRequest
	if err := decodeJSON(r, &req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			httpError(w, r, http.StatusRequestEntityTooLarge, intake.TooLargeMessage)
			return
		}
		httpError(w, r, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	img, err := imageref.ParseDataURL(req.Image)
	if err != nil {
		httpError(w, r, http.StatusBadRequest, "image must be a base64 data URL", err.Error())
		return
	}
	if len(img.Data) > intake.MaxFileBytes {
		httpError(w, r, http.StatusRequestEntityTooLarge, intake.TooLargeMessage,
			fmt.Sprintf("decoded image is %d bytes", len(img.Data)))
		return
	}

	enhanced, err := h.enhancer.Enhance(r.Context(), img, req.PreserveFaces)
	if err != nil {
		status, msg := classifyEnhanceError(err)
		httpError(w, r, status, msg, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, api.EnhanceResponse{Image: enhanced.DataURL()})
}

// classifyEnhanceError maps an enhancement failure to an HTTP status and the
// message shown to the user. Only messages reported by the remote service are
// passed through; transport and internal errors get a generic message.
func classifyEnhanceError(err error) (int, string) {
	var remote *enhance.RemoteError
	switch {
	case errors.Is(err, imageref.ErrUnsupportedFormat):
		return http.StatusBadRequest, imageref.ErrUnsupportedFormat.Error()
	case errors.Is(err, enhance.ErrMissingCredential):
		return http.StatusInternalServerError, enhance.ErrMissingCredential.Error()
	case errors.Is(err, enhance.ErrNoImage):
		return http.StatusBadGateway, enhance.ErrNoImage.Error()
	case errors.As(err, &remote):
		if remote.StatusCode != 0 && remote.Message != "" {
			return http.StatusBadGateway, fmt.Sprintf("Image enhancement failed: %s (status %d)", remote.Message, remote.StatusCode)
		}
		return http.StatusBadGateway, enhanceFailedMessage
	default:
		return http.StatusInternalServerError, enhanceFailedMessage
	}
}
