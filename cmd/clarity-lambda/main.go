// Package main provides a Lambda entry point for the image enhancement API.
//
// It serves the same handler as clarity-web behind API Gateway (HTTP API,
// payload v2). The static app is hosted by CloudFront, so only the API routes
// are mounted here.
//
// Endpoints:
//
//	GET  /api/health   health check (no origin verification)
//	GET  /api/version  build identity and model configuration
//	POST /api/enhance  enhance a data-URL image
package main

import (
	"context"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/awslabs/aws-lambda-go-api-proxy/httpadapter"
	"github.com/rs/zerolog/log"

	"github.com/fpang/image-clarity/internal/auth"
	"github.com/fpang/image-clarity/internal/enhance"
	"github.com/fpang/image-clarity/internal/lambdaboot"
	"github.com/fpang/image-clarity/internal/logging"
	"github.com/fpang/image-clarity/internal/server"
)

// Initialized at cold start.
var handler http.Handler

func init() {
	initStart := time.Now()
	logging.Init()
	ctx := context.Background()

	clients := lambdaboot.InitAWS(ctx)
	if err := lambdaboot.LoadGeminiKey(ctx, clients.SSM); err != nil {
		log.Warn().Err(err).Msg("Gemini API key not loaded; enhance requests will fail until it is configured")
	}

	originVerifySecret := os.Getenv("ORIGIN_VERIFY_SECRET")
	if originVerifySecret == "" {
		log.Warn().Msg("ORIGIN_VERIFY_SECRET not set, origin verification disabled")
	}

	model := enhance.GetModelName()
	backend, err := enhance.NewBackend(os.Getenv("CLARITY_BACKEND"), model)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid CLARITY_BACKEND")
	}
	maxDimension, _ := strconv.Atoi(os.Getenv("CLARITY_MAX_DIMENSION"))

	enhancer := enhance.NewClient(backend, auth.GetAPIKey, enhance.WithMaxDimension(maxDimension))
	handler = server.New(enhancer, server.Options{
		CommitHash:         commitHash,
		BuildTime:          buildTime,
		Model:              model,
		Backend:            backend.Name(),
		OriginVerifySecret: originVerifySecret,
		AllowedOrigins:     splitList(os.Getenv("CLARITY_ALLOWED_ORIGINS")),
	})

	lambdaboot.StartupLog("clarity-lambda", initStart).
		CommitHash(commitHash).
		BuildTime(buildTime).
		SSMParam("geminiApiKey", lambdaboot.APIKeyParam()).
		Config("model", model).
		Config("backend", backend.Name()).
		Feature("originVerify", originVerifySecret != "").
		Feature("apiKeyConfigured", os.Getenv(auth.APIKeyEnv) != "").
		Feature("downscale", maxDimension > 0).
		Log()
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func main() {
	adapter := httpadapter.NewV2(handler)
	lambda.Start(adapter.ProxyWithContext)
}
