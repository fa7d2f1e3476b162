// Command clarity-cli enhances local images from the terminal with the same
// flow as the web app: intake, enhance, then save the result.
package main

import (
	"errors"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/fpang/image-clarity/internal/app"
	"github.com/fpang/image-clarity/internal/auth"
	"github.com/fpang/image-clarity/internal/enhance"
	"github.com/fpang/image-clarity/internal/logging"
	"github.com/fpang/image-clarity/internal/metrics"
)

// CLI flags
var (
	modelFlag         string
	backendFlag       string
	maxDimensionFlag  int
	outputFlag        string
	pickFlag          bool
	preserveFacesFlag bool
)

var rootCmd = &cobra.Command{
	Use:   "clarity-cli",
	Short: "AI image enhancement from the command line",
	Long: `Clarity CLI upscales, denoises and sharpens JPG and PNG images with Gemini.

GEMINI_API_KEY is read from the environment or a .env file in the current
directory.

Examples:
  clarity-cli enhance photo.jpg
  clarity-cli enhance --pick -o sharper.png
  clarity-cli enhance scan.png --preserve-faces=false --backend rest
  clarity-cli info photo.jpg
  clarity-cli validate-key`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init()
		metrics.SetOutput(io.Discard)
		if err := auth.LoadDotEnv(); err != nil {
			log.Warn().Err(err).Msg("Could not load .env file")
		}
	},
	Version: commitHash + " (" + buildTime + ")",
}

var enhanceCmd = &cobra.Command{
	Use:   "enhance [file]",
	Short: "Enhance an image and save the result",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runEnhance,
}

var infoCmd = &cobra.Command{
	Use:   "info [file]",
	Short: "Show format, dimensions and camera metadata of an image",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runInfo,
}

var validateKeyCmd = &cobra.Command{
	Use:   "validate-key",
	Short: "Check GEMINI_API_KEY with a minimal request",
	Args:  cobra.NoArgs,
	RunE:  runValidateKey,
}

func init() {
	enhanceCmd.Flags().StringVarP(&modelFlag, "model", "m", enhance.DefaultModelName, "Gemini image model (default from GEMINI_IMAGE_MODEL)")
	enhanceCmd.Flags().StringVar(&backendFlag, "backend", enhance.BackendSDK, "Gemini transport: sdk or rest")
	enhanceCmd.Flags().IntVar(&maxDimensionFlag, "max-dimension", 0, "Downscale inputs whose longer side exceeds this many pixels (0 = off)")
	enhanceCmd.Flags().StringVarP(&outputFlag, "output", "o", app.DownloadFilename, "Where to write the enhanced image")
	enhanceCmd.Flags().BoolVar(&pickFlag, "pick", false, "Choose the input with a native file dialog")
	enhanceCmd.Flags().BoolVar(&preserveFacesFlag, "preserve-faces", true, "Keep facial features and skin tones realistic")

	infoCmd.Flags().BoolVar(&pickFlag, "pick", false, "Choose the input with a native file dialog")

	rootCmd.AddCommand(enhanceCmd, infoCmd, validateKeyCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		var valErr *auth.ValidationError
		if errors.As(err, &valErr) {
			log.Error().Str("type", valErr.Type.String()).Err(err).Msg("API key validation failed")
		} else {
			log.Error().Err(err).Msg("Command failed")
		}
		os.Exit(1)
	}
}
