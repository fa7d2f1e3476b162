package imageinfo

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/fpang/image-clarity/internal/imageref"
)

func encodePNG(t *testing.T, w, h int) imageref.Image {
	t.Helper()
	src := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		src.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, src); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return imageref.New("image/png", buf.Bytes())
}

func encodeJPEG(t *testing.T, w, h int) imageref.Image {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h)), nil); err != nil {
		t.Fatalf("jpeg.Encode: %v", err)
	}
	return imageref.New("image/jpeg", buf.Bytes())
}

func TestFitDimensions(t *testing.T) {
	tests := []struct {
		w, h, max    int
		wantW, wantH int
	}{
		{100, 50, 0, 100, 50},
		{100, 50, 200, 100, 50},
		{400, 200, 100, 100, 50},
		{200, 400, 100, 50, 100},
		{1000, 1, 10, 10, 1},
	}
	for _, tt := range tests {
		gotW, gotH := FitDimensions(tt.w, tt.h, tt.max)
		if gotW != tt.wantW || gotH != tt.wantH {
			t.Errorf("FitDimensions(%d, %d, %d) = (%d, %d), want (%d, %d)",
				tt.w, tt.h, tt.max, gotW, gotH, tt.wantW, tt.wantH)
		}
	}
}

func TestInspect_PNG(t *testing.T) {
	info, err := Inspect(encodePNG(t, 32, 16))
	if err != nil {
		t.Fatalf("Inspect: unexpected error: %v", err)
	}
	if info.Width != 32 || info.Height != 16 {
		t.Errorf("dimensions = %dx%d, want 32x16", info.Width, info.Height)
	}
	if info.MIMEType != "image/png" {
		t.Errorf("MIMEType = %q, want image/png", info.MIMEType)
	}
	if info.Camera() != "" {
		t.Errorf("Camera() = %q, want empty for a synthetic PNG", info.Camera())
	}
}

func TestInspect_Garbage(t *testing.T) {
	if _, err := Inspect(imageref.New("image/png", []byte("not an image"))); err == nil {
		t.Error("expected error for undecodable data")
	}
}

func TestFit_Disabled(t *testing.T) {
	img := encodePNG(t, 64, 64)
	out, resized, err := Fit(img, 0)
	if err != nil || resized {
		t.Fatalf("Fit(0) = resized %v, err %v; want untouched", resized, err)
	}
	if !bytes.Equal(out.Data, img.Data) {
		t.Error("Fit(0) changed the payload")
	}
}

func TestFit_WithinBounds(t *testing.T) {
	img := encodePNG(t, 64, 32)
	_, resized, err := Fit(img, 64)
	if err != nil || resized {
		t.Fatalf("Fit within bounds = resized %v, err %v", resized, err)
	}
}

func TestFit_DownscalesPNG(t *testing.T) {
	out, resized, err := Fit(encodePNG(t, 200, 100), 50)
	if err != nil {
		t.Fatalf("Fit: unexpected error: %v", err)
	}
	if !resized {
		t.Fatal("expected the image to be resized")
	}
	if out.MIMEType != "image/png" {
		t.Errorf("MIMEType = %q, want image/png", out.MIMEType)
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(out.Data))
	if err != nil {
		t.Fatalf("output is not a PNG: %v", err)
	}
	if cfg.Width != 50 || cfg.Height != 25 {
		t.Errorf("output = %dx%d, want 50x25", cfg.Width, cfg.Height)
	}
}

func TestFit_DownscalesJPEGAlias(t *testing.T) {
	img := encodeJPEG(t, 80, 160)
	img.MIMEType = "image/jpg"

	out, resized, err := Fit(img, 40)
	if err != nil || !resized {
		t.Fatalf("Fit = resized %v, err %v", resized, err)
	}
	if out.MIMEType != "image/jpeg" {
		t.Errorf("MIMEType = %q, want image/jpeg", out.MIMEType)
	}
	cfg, err := jpeg.DecodeConfig(bytes.NewReader(out.Data))
	if err != nil {
		t.Fatalf("output is not a JPEG: %v", err)
	}
	if cfg.Width != 20 || cfg.Height != 40 {
		t.Errorf("output = %dx%d, want 20x40", cfg.Width, cfg.Height)
	}
}
