package enhance

import "github.com/fpang/image-clarity/internal/assets"

// BuildInstruction returns the editing instruction sent with the image. The
// face clause is appended only when face preservation is requested.
func BuildInstruction(preserveFaces bool) string {
	return assets.RenderEnhancePrompt(assets.EnhancePromptData{PreserveFaces: preserveFaces})
}
