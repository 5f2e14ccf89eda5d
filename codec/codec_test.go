package codec

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/bmp"
)

func writeTestPNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create %s: %v", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("Failed to encode %s: %v", path, err)
	}
}

func TestFileCodecDecodeImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "img.png")
	src := image.NewRGBA(image.Rect(0, 0, 2, 2))
	src.SetRGBA(1, 0, color.RGBA{10, 20, 30, 255})
	writeTestPNG(t, path, src)

	img, err := FileCodec{}.DecodeImage(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if img.Bounds().Dx() != 2 || img.Bounds().Dy() != 2 {
		t.Errorf("Unexpected bounds: %v", img.Bounds())
	}
	r, g, b, _ := img.At(1, 0).RGBA()
	if r>>8 != 10 || g>>8 != 20 || b>>8 != 30 {
		t.Errorf("Expected (10, 20, 30), got (%d, %d, %d)", r>>8, g>>8, b>>8)
	}
}

func TestFileCodecDecodeLabelKeepsRawValues(t *testing.T) {
	// A paletted label must come back paletted so its raw indices survive
	path := filepath.Join(t.TempDir(), "label.png")
	palette := color.Palette{
		color.RGBA{0, 0, 0, 255},
		color.RGBA{128, 64, 128, 255},
	}
	src := image.NewPaletted(image.Rect(0, 0, 1, 1), palette)
	src.SetColorIndex(0, 0, 1)
	writeTestPNG(t, path, src)

	img, err := FileCodec{}.DecodeLabel(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	paletted, ok := img.(*image.Paletted)
	if !ok {
		t.Fatalf("Expected *image.Paletted, got %T", img)
	}
	if paletted.ColorIndexAt(0, 0) != 1 {
		t.Errorf("Expected raw index 1, got %d", paletted.ColorIndexAt(0, 0))
	}
}

func TestFileCodecBMP(t *testing.T) {
	path := filepath.Join(t.TempDir(), "img.bmp")
	src := image.NewRGBA(image.Rect(0, 0, 1, 1))
	src.SetRGBA(0, 0, color.RGBA{5, 6, 7, 255})

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create %s: %v", path, err)
	}
	if err := bmp.Encode(f, src); err != nil {
		t.Fatalf("Failed to encode bmp: %v", err)
	}
	f.Close()

	img, err := FileCodec{}.DecodeImage(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	r, _, _, _ := img.At(0, 0).RGBA()
	if r>>8 != 5 {
		t.Errorf("Expected red 5, got %d", r>>8)
	}
}

func TestFileCodecMissingFile(t *testing.T) {
	_, err := FileCodec{}.DecodeImage(filepath.Join(t.TempDir(), "nope.png"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Expected fs.ErrNotExist, got %v", err)
	}
	if errors.Is(err, ErrDecode) {
		t.Error("Missing file must not be reported as a decode failure")
	}
}

func TestFileCodecCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.png")
	if err := os.WriteFile(path, []byte("definitely not an image"), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}

	_, err := FileCodec{}.DecodeImage(path)
	if !errors.Is(err, ErrDecode) {
		t.Errorf("Expected ErrDecode, got %v", err)
	}
}
