package sample

import (
	"fmt"
	"image"
	"image/color"
)

// LabelMap is a dense H x W array of integer label ids
type LabelMap struct {
	Data   []int32
	Height int
	Width  int
}

// NewLabelMap allocates a label map of the given size, filled with fill
func NewLabelMap(height, width int, fill int32) *LabelMap {
	lm := &LabelMap{
		Data:   make([]int32, height*width),
		Height: height,
		Width:  width,
	}
	if fill != 0 {
		for i := range lm.Data {
			lm.Data[i] = fill
		}
	}
	return lm
}

// LabelFromPicture extracts raw label ids from a decoded label image.
// Paletted images yield palette indices, grayscale images yield their
// luma value directly; anything else is reduced through the standard
// gray conversion.
func LabelFromPicture(img image.Image) *LabelMap {
	bounds := img.Bounds()
	lm := &LabelMap{
		Data:   make([]int32, bounds.Dy()*bounds.Dx()),
		Height: bounds.Dy(),
		Width:  bounds.Dx(),
	}

	i := 0
	switch src := img.(type) {
	case *image.Paletted:
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				lm.Data[i] = int32(src.ColorIndexAt(x, y))
				i++
			}
		}
	case *image.Gray:
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				lm.Data[i] = int32(src.GrayAt(x, y).Y)
				i++
			}
		}
	case *image.Gray16:
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				lm.Data[i] = int32(src.Gray16At(x, y).Y >> 8)
				i++
			}
		}
	default:
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				g := color.GrayModel.Convert(img.At(x, y)).(color.Gray)
				lm.Data[i] = int32(g.Y)
				i++
			}
		}
	}

	return lm
}

// At returns the label id at row y, column x
func (lm *LabelMap) At(y, x int) int32 {
	return lm.Data[y*lm.Width+x]
}

// Set writes the label id at row y, column x
func (lm *LabelMap) Set(y, x int, v int32) {
	lm.Data[y*lm.Width+x] = v
}

// Clone returns a deep copy of the label map
func (lm *LabelMap) Clone() *LabelMap {
	data := make([]int32, len(lm.Data))
	copy(data, lm.Data)
	return &LabelMap{
		Data:   data,
		Height: lm.Height,
		Width:  lm.Width,
	}
}

func (lm *LabelMap) String() string {
	return fmt.Sprintf("LabelMap(height=%d, width=%d)", lm.Height, lm.Width)
}
