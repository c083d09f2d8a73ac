package scene

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestSanitizeLabel(t *testing.T) {
	tests := map[string]string{
		"initial":       "initial",
		"  ":            "unlabeled",
		"after click/1": "after_click_1",
		"zoom-14.5":     "zoom-14.5",
		"ümlaut":        "_mlaut",
	}
	for in, want := range tests {
		if got := sanitizeLabel(in); got != want {
			t.Errorf("sanitizeLabel(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestUnpremultiply(t *testing.T) {
	pixels := []byte{
		100, 50, 0, 255, // opaque stays
		64, 32, 0, 128, // half transparent
		0, 0, 0, 0, // transparent stays
	}
	img := unpremultiply(pixels, 3, 1)
	want := []byte{100, 50, 0, 255, 127, 63, 0, 128, 0, 0, 0, 0}
	for i := range want {
		if img.Pix[i] != want[i] {
			t.Fatalf("pix = %v, want %v", img.Pix, want)
		}
	}
}

func TestSaveScreenshots(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "shots")
	img := image.NewNRGBA(image.Rect(0, 0, 4, 3))
	now := time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)

	paths, err := saveScreenshots(dir, now, []string{"a", "b c"}, img)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		filepath.Join(dir, "20240501_123000_a.png"),
		filepath.Join(dir, "20240501_123000_b_c.png"),
	}
	if !equalStrings(paths, want) {
		t.Fatalf("paths = %v, want %v", paths, want)
	}

	f, err := os.Open(paths[1])
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	decoded, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if b := decoded.Bounds(); b.Dx() != 4 || b.Dy() != 3 {
		t.Errorf("decoded size = %dx%d, want 4x3", b.Dx(), b.Dy())
	}
}

func TestScreenshotQueue(t *testing.T) {
	m := newTestMap(t)
	m.Screenshot("one")
	m.Screenshot("two")
	if m.PendingScreenshots() != 2 {
		t.Errorf("pending = %d, want 2", m.PendingScreenshots())
	}
	if m.screenshotDir != "screenshots" {
		t.Errorf("default dir = %q", m.screenshotDir)
	}
}
