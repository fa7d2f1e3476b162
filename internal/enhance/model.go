package enhance

import "os"

// Gemini model IDs that can return image output.
//
// | Model Name               | API Model ID               | Notes                         |
// |--------------------------|----------------------------|-------------------------------|
// | Gemini 2.5 Flash Image   | gemini-2.5-flash-image     | Fast image editing (default)  |
// | Gemini 3 Pro Image       | gemini-3-pro-image-preview | Higher fidelity, slower       |
const (
	// ModelGemini25FlashImage is the default image editing model.
	ModelGemini25FlashImage = "gemini-2.5-flash-image"

	// ModelGemini3ProImage is for advanced image generation/edit.
	ModelGemini3ProImage = "gemini-3-pro-image-preview"
)

// DefaultModelName is used unless overridden by flag or GEMINI_IMAGE_MODEL.
const DefaultModelName = ModelGemini25FlashImage

// GetModelName returns GEMINI_IMAGE_MODEL if set, else DefaultModelName.
func GetModelName() string {
	if env := os.Getenv("GEMINI_IMAGE_MODEL"); env != "" {
		return env
	}
	return DefaultModelName
}
