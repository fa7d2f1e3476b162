package intake

import (
	"errors"
	"strings"
	"testing"

	"github.com/fpang/image-clarity/internal/imageref"
)

func TestAccept_ValidTypes(t *testing.T) {
	for _, mime := range []string{"image/jpeg", "image/jpg", "image/png"} {
		t.Run(mime, func(t *testing.T) {
			img, err := Accept(File{Name: "photo", Type: mime, Data: []byte{1, 2, 3}})
			if err != nil {
				t.Fatalf("Accept(%s): unexpected error: %v", mime, err)
			}
			got, err := imageref.ParseDataURL(img.DataURL())
			if err != nil {
				t.Fatalf("data URL not decodable: %v", err)
			}
			if string(got.Data) != "\x01\x02\x03" {
				t.Errorf("decoded payload = %v, want [1 2 3]", got.Data)
			}
			if !strings.HasPrefix(img.DataURL(), "data:"+mime+";base64,") {
				t.Errorf("DataURL() = %q, want prefix data:%s;base64,", img.DataURL(), mime)
			}
		})
	}
}

func TestAccept_RejectsOtherTypes(t *testing.T) {
	for _, mime := range []string{"image/gif", "image/webp", "application/pdf", ""} {
		_, err := Accept(File{Name: "file", Type: mime, Data: []byte{1}})
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("Accept(%q) error = %v, want *ValidationError", mime, err)
		}
		if vErr.Message != InvalidFileMessage {
			t.Errorf("Message = %q, want %q", vErr.Message, InvalidFileMessage)
		}
	}
}

func TestAccept_SizeLimits(t *testing.T) {
	if _, err := Accept(File{Type: "image/png"}); err == nil {
		t.Error("expected error for empty file")
	}
	big := make([]byte, MaxFileBytes+1)
	if _, err := Accept(File{Type: "image/png", Data: big}); err == nil {
		t.Error("expected error for file over the size limit")
	}
}

func TestFirstFile(t *testing.T) {
	if _, ok := FirstFile(nil); ok {
		t.Error("FirstFile(nil) ok = true, want false")
	}
	f, ok := FirstFile([]File{{Name: "a.png"}, {Name: "b.png"}})
	if !ok || f.Name != "a.png" {
		t.Errorf("FirstFile = (%q, %v), want (a.png, true)", f.Name, ok)
	}
}

func TestDropZone(t *testing.T) {
	var d DropZone

	d.Over()
	if d.Active() {
		t.Fatal("drag-over without enter must not highlight the zone")
	}

	d.Enter()
	d.Over()
	if !d.Active() {
		t.Fatal("zone should be highlighted after enter")
	}

	d.Leave()
	if d.Active() {
		t.Fatal("zone should clear on leave")
	}

	d.Enter()
	d.Drop()
	if d.Active() {
		t.Fatal("zone should clear on drop")
	}
}
