package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ncruces/zenity"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/fpang/image-clarity/internal/app"
	"github.com/fpang/image-clarity/internal/auth"
	"github.com/fpang/image-clarity/internal/enhance"
	"github.com/fpang/image-clarity/internal/imageinfo"
	"github.com/fpang/image-clarity/internal/imageref"
	"github.com/fpang/image-clarity/internal/intake"
)

// errCanceled is returned when the user closes the file dialog.
var errCanceled = errors.New("no file selected")

func runEnhance(cmd *cobra.Command, args []string) error {
	path, err := inputPath(args)
	if err != nil {
		return err
	}
	file, err := readImageFile(path)
	if err != nil {
		return err
	}

	model := modelFlag
	if !cmd.Flags().Changed("model") {
		model = enhance.GetModelName()
	}
	backend, err := enhance.NewBackend(backendFlag, model)
	if err != nil {
		return err
	}

	controller := app.NewController(enhance.NewClient(backend, auth.GetAPIKey, enhance.WithMaxDimension(maxDimensionFlag)))
	controller.SetPreserveFaces(preserveFacesFlag)
	if err := controller.Upload(file); err != nil {
		return err
	}

	if info, err := imageinfo.Inspect(imageref.New(file.Type, file.Data)); err == nil {
		printInfo(path, info)
	}
	fmt.Printf("⏳ Enhancing with %s via %s...\n", model, backend.Name())

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if err := controller.Enhance(ctx); err != nil {
		return err
	}

	img, _, ok := controller.Download()
	if !ok {
		return errors.New("no enhanced image available")
	}
	if err := writeOutput(outputFlag, img); err != nil {
		return err
	}

	fmt.Printf("✅ Enhanced image saved to %s (%s, %.1f KB)\n", outputFlag, img.MIMEType, float64(len(img.Data))/1024)
	return nil
}

func runInfo(cmd *cobra.Command, args []string) error {
	path, err := inputPath(args)
	if err != nil {
		return err
	}
	file, err := readImageFile(path)
	if err != nil {
		return err
	}
	info, err := imageinfo.Inspect(imageref.New(file.Type, file.Data))
	if err != nil {
		return err
	}
	printInfo(path, info)
	return nil
}

func runValidateKey(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	apiKey, err := auth.GetAPIKey()
	if err != nil {
		return &auth.ValidationError{Type: auth.ErrTypeNoKey, Message: "No API key configured", Err: err}
	}
	client, err := enhance.NewGeminiClient(ctx, apiKey)
	if err != nil {
		return err
	}
	if err := auth.ValidateAPIKey(ctx, client.Models); err != nil {
		return err
	}
	fmt.Println("✅ API key is valid")
	return nil
}

// inputPath resolves the image to work on: the positional argument, or a
// native file dialog with --pick.
func inputPath(args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	if !pickFlag {
		return "", errors.New("an image path is required (or use --pick)")
	}
	path, err := zenity.SelectFile(
		zenity.Title("Select an image to enhance"),
		zenity.FileFilters{
			{Name: "Images", Patterns: []string{"*.jpg", "*.jpeg", "*.png"}},
		},
	)
	if err != nil {
		if errors.Is(err, zenity.ErrCanceled) {
			return "", errCanceled
		}
		return "", fmt.Errorf("file picker failed: %w", err)
	}
	log.Debug().Str("path", path).Msg("File picked")
	return path, nil
}

// readImageFile loads a file for intake. The declared type comes from the
// content itself, as a browser would report it from the extension.
func readImageFile(path string) (intake.File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return intake.File{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return intake.File{
		Name: filepath.Base(path),
		Type: imageref.Sniff(data),
		Data: data,
	}, nil
}

func writeOutput(path string, img imageref.Image) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, img.Data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func printInfo(path string, info *imageinfo.Info) {
	fmt.Printf("📷 %s: %s, %dx%d, %.1f KB", filepath.Base(path), info.MIMEType, info.Width, info.Height, float64(info.Bytes)/1024)
	if camera := info.Camera(); camera != "" {
		fmt.Printf(", %s", camera)
	}
	if !info.DateTaken.IsZero() {
		fmt.Printf(", taken %s", info.DateTaken.Format("2006-01-02 15:04"))
	}
	fmt.Println()
}
