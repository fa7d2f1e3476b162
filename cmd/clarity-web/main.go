// Command clarity-web serves the Image Clarity Enhancer: the browser app
// (compiled to WebAssembly and embedded) and the enhancement API it calls.
package main

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/fpang/image-clarity/internal/auth"
	"github.com/fpang/image-clarity/internal/enhance"
	"github.com/fpang/image-clarity/internal/logging"
	"github.com/fpang/image-clarity/internal/server"
)

//go:embed all:frontend_dist
var frontendFS embed.FS

// CLI flags
var (
	portFlag         int
	modelFlag        string
	backendFlag      string
	maxDimensionFlag int
	validateKeyFlag  bool
	allowOriginFlags []string
)

var rootCmd = &cobra.Command{
	Use:   "clarity-web",
	Short: "Web UI for AI image enhancement",
	Long: `Clarity Web starts a local web server with the Image Clarity Enhancer.
Upload a JPG or PNG, enhance it with Gemini, and compare before and after
with a drag slider.

GEMINI_API_KEY is read from the environment (or a .env file) on every
request, so the server starts without it and reports the missing key when
an enhancement is attempted.

Examples:
  clarity-web
  clarity-web --port 9090
  clarity-web --model gemini-3-pro-image-preview --backend rest`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runMain,
}

func init() {
	rootCmd.Flags().IntVar(&portFlag, "port", 8080, "Port to listen on")
	rootCmd.Flags().StringVarP(&modelFlag, "model", "m", enhance.DefaultModelName, "Gemini image model (default from GEMINI_IMAGE_MODEL)")
	rootCmd.Flags().StringVar(&backendFlag, "backend", enhance.BackendSDK, "Gemini transport: sdk or rest")
	rootCmd.Flags().IntVar(&maxDimensionFlag, "max-dimension", 0, "Downscale inputs whose longer side exceeds this many pixels (0 = off)")
	rootCmd.Flags().BoolVar(&validateKeyFlag, "validate-key", false, "Check GEMINI_API_KEY with a test call at startup")
	rootCmd.Flags().StringSliceVar(&allowOriginFlags, "allow-origin", nil, "Extra CORS origins to allow")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runMain(cmd *cobra.Command, args []string) error {
	logging.Init()
	if err := auth.LoadDotEnv(); err != nil {
		log.Warn().Err(err).Msg("Could not load .env file")
	}

	model := modelFlag
	if !cmd.Flags().Changed("model") {
		model = enhance.GetModelName()
	}
	backend, err := enhance.NewBackend(backendFlag, model)
	if err != nil {
		return err
	}
	enhancer := enhance.NewClient(backend, auth.GetAPIKey, enhance.WithMaxDimension(maxDimensionFlag))

	if validateKeyFlag {
		validateKey(cmd.Context())
	}

	frontendSub, err := fs.Sub(frontendFS, "frontend_dist")
	if err != nil {
		return fmt.Errorf("failed to access embedded frontend: %w", err)
	}

	handler := server.New(enhancer, server.Options{
		CommitHash:     commitHash,
		BuildTime:      buildTime,
		Model:          model,
		Backend:        backend.Name(),
		Static:         frontendSub,
		AllowedOrigins: allowOriginFlags,
	})

	addr := fmt.Sprintf(":%d", portFlag)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 180 * time.Second, // Gemini image edits can take 30s+
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info().Msg("Shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	}()

	logging.NewStartupLogger("clarity-web").
		CommitHash(commitHash).
		BuildTime(buildTime).
		Config("model", model).
		Config("backend", backend.Name()).
		Config("addr", addr).
		Feature("apiKeyConfigured", os.Getenv(auth.APIKeyEnv) != "").
		Feature("downscale", maxDimensionFlag > 0).
		Log()
	fmt.Printf("\n  Image Clarity Enhancer: http://localhost:%d\n\n", portFlag)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// validateKey warns instead of exiting: the key may be added to the
// environment later and is re-read on every request.
func validateKey(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	apiKey, err := auth.GetAPIKey()
	if err != nil {
		log.Warn().Err(err).Msg("No API key at startup; enhancement requests will fail until it is set")
		return
	}
	client, err := enhance.NewGeminiClient(ctx, apiKey)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to create Gemini client for validation")
		return
	}
	if err := auth.ValidateAPIKey(ctx, client.Models); err != nil {
		log.Warn().Err(err).Msg("API key validation failed")
		return
	}
	log.Info().Msg("API key validated")
}
