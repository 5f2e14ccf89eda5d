package sample

import (
	"image"
	"image/color"
	"testing"
)

func TestLabelFromPicture(t *testing.T) {
	t.Run("Paletted", func(t *testing.T) {
		// Palette indices are the raw label ids, whatever colors they
		// point at
		palette := color.Palette{
			color.RGBA{0, 0, 0, 255},
			color.RGBA{255, 255, 255, 255},
			color.RGBA{128, 64, 128, 255},
		}
		src := image.NewPaletted(image.Rect(0, 0, 2, 1), palette)
		src.SetColorIndex(0, 0, 2)
		src.SetColorIndex(1, 0, 1)

		lm := LabelFromPicture(src)
		if lm.At(0, 0) != 2 || lm.At(0, 1) != 1 {
			t.Errorf("Expected raw indices [2 1], got [%d %d]", lm.At(0, 0), lm.At(0, 1))
		}
	})

	t.Run("Gray", func(t *testing.T) {
		src := image.NewGray(image.Rect(0, 0, 2, 2))
		src.SetGray(1, 1, color.Gray{Y: 33})

		lm := LabelFromPicture(src)
		if lm.Height != 2 || lm.Width != 2 {
			t.Fatalf("Expected shape (2, 2), got (%d, %d)", lm.Height, lm.Width)
		}
		if lm.At(1, 1) != 33 {
			t.Errorf("Expected 33, got %d", lm.At(1, 1))
		}
		if lm.At(0, 0) != 0 {
			t.Errorf("Expected 0, got %d", lm.At(0, 0))
		}
	})

	t.Run("Gray16", func(t *testing.T) {
		src := image.NewGray16(image.Rect(0, 0, 1, 1))
		src.SetGray16(0, 0, color.Gray16{Y: 7 << 8})

		lm := LabelFromPicture(src)
		if lm.At(0, 0) != 7 {
			t.Errorf("Expected 7, got %d", lm.At(0, 0))
		}
	})

	t.Run("FallbackGrayConversion", func(t *testing.T) {
		src := image.NewRGBA(image.Rect(0, 0, 1, 1))
		src.SetRGBA(0, 0, color.RGBA{50, 50, 50, 255})

		lm := LabelFromPicture(src)
		if lm.At(0, 0) != 50 {
			t.Errorf("Expected 50, got %d", lm.At(0, 0))
		}
	})
}

func TestNewLabelMap(t *testing.T) {
	lm := NewLabelMap(2, 3, 255)
	if lm.Height != 2 || lm.Width != 3 || len(lm.Data) != 6 {
		t.Fatalf("Unexpected shape: %s", lm)
	}
	for i, v := range lm.Data {
		if v != 255 {
			t.Fatalf("Expected fill 255 at %d, got %d", i, v)
		}
	}
}

func TestLabelMapSetAt(t *testing.T) {
	lm := NewLabelMap(2, 2, 0)
	lm.Set(1, 0, 9)
	if lm.At(1, 0) != 9 {
		t.Errorf("Expected 9, got %d", lm.At(1, 0))
	}
	if lm.Data[2] != 9 {
		t.Errorf("Row-major indexing broken: %v", lm.Data)
	}
}

func TestLabelMapClone(t *testing.T) {
	lm := NewLabelMap(1, 2, 1)
	clone := lm.Clone()
	clone.Data[0] = 42
	if lm.Data[0] == 42 {
		t.Error("Clone aliased the source buffer")
	}
}
