package assets

import (
	"strings"
	"testing"
)

func TestRenderEnhancePrompt(t *testing.T) {
	plain := RenderEnhancePrompt(EnhancePromptData{})
	faces := RenderEnhancePrompt(EnhancePromptData{PreserveFaces: true})

	if !strings.HasPrefix(plain, "Act as a professional photo editor.") {
		t.Errorf("unexpected prompt start: %q", plain)
	}
	if !strings.HasSuffix(plain, "Maintain the original color balance and accuracy.") {
		t.Errorf("unexpected prompt end: %q", plain)
	}
	if strings.Contains(plain, "{{") || strings.Contains(plain, "\n") {
		t.Errorf("template not fully rendered: %q", plain)
	}
	want := plain + " Pay special attention to faces"
	if !strings.HasPrefix(faces, want) {
		t.Errorf("face prompt = %q, want prefix %q", faces, want)
	}
}
