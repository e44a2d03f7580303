package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"
)

func createTestJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("encoding test JPEG: %v", err)
	}
	return buf.Bytes()
}

func createTestPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding test PNG: %v", err)
	}
	return buf.Bytes()
}

func TestProcessJPEG(t *testing.T) {
	data := createTestJPEG(t, 100, 80)

	result, err := Process(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if result.MIME != "image/jpeg" {
		t.Errorf("expected image/jpeg, got %s", result.MIME)
	}

	img, _, err := image.Decode(bytes.NewReader(result.Data))
	if err != nil {
		t.Fatalf("decoding result: %v", err)
	}
	if img.Bounds().Dx() != 100 || img.Bounds().Dy() != 80 {
		t.Errorf("small image should keep its dimensions, got %v", img.Bounds())
	}
}

func TestProcessPNGConvertsToJPEG(t *testing.T) {
	data := createTestPNG(t, 50, 50)

	result, err := Process(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if result.MIME != "image/jpeg" {
		t.Errorf("expected PNG input re-encoded as JPEG, got %s", result.MIME)
	}
}

func TestProcessDownscales(t *testing.T) {
	data := createTestJPEG(t, 2048, 1536)

	result, err := Process(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	img, _, err := image.Decode(bytes.NewReader(result.Data))
	if err != nil {
		t.Fatalf("decoding result: %v", err)
	}
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	if w > MaxDimension || h > MaxDimension {
		t.Errorf("expected dimensions within %d, got %dx%d", MaxDimension, w, h)
	}
	// Aspect ratio preserved: 2048x1536 scales to 1024x768.
	if w != 1024 || h != 768 {
		t.Errorf("expected 1024x768, got %dx%d", w, h)
	}
}

func TestProcessRejectsUnsupportedFormat(t *testing.T) {
	_, err := Process(strings.NewReader("GIF89a not actually an image"))
	if err == nil {
		t.Fatal("expected an error for unsupported data")
	}
	if !strings.Contains(err.Error(), "unsupported photo format") {
		t.Errorf("unexpected error: %v", err)
	}
}
