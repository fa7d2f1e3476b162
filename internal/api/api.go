// Package api holds the JSON contract between the browser app and the
// enhancement server, plus a client that speaks it. It has no server-side
// dependencies so it compiles for js/wasm.
package api

// Routes served by the enhancement server.
const (
	PathEnhance = "/api/enhance"
	PathHealth  = "/api/health"
	PathVersion = "/api/version"
)

// ServiceName is reported by the health endpoint.
const ServiceName = "image-clarity"

// EnhanceRequest is the body of POST /api/enhance.
type EnhanceRequest struct {
	Image         string `json:"image"` // data URL
	PreserveFaces bool   `json:"preserveFaces"`
}

// EnhanceResponse carries the enhanced image as a data URL.
type EnhanceResponse struct {
	Image string `json:"image"`
}

// ErrorResponse is returned with every non-2xx status.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse is the body of GET /api/health.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// VersionResponse is the body of GET /api/version.
type VersionResponse struct {
	CommitHash string `json:"commitHash"`
	BuildTime  string `json:"buildTime"`
	Model      string `json:"model"`
	Backend    string `json:"backend"`
}
