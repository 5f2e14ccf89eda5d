package sample

import (
	"fmt"
	"image"
	"image/color"
)

// Layout describes the axis order of an Image's flat data buffer
type Layout int

const (
	HWC Layout = iota // interleaved: (y*W+x)*C + c
	CHW               // planar: c*H*W + y*W + x
)

func (l Layout) String() string {
	switch l {
	case HWC:
		return "HWC"
	case CHW:
		return "CHW"
	default:
		return "Unknown"
	}
}

// Image is a dense float32 image array with an explicit memory layout.
// Pixel values follow the 8-bit sample scale (0..255) until normalized.
type Image struct {
	Data     []float32
	Height   int
	Width    int
	Channels int
	Layout   Layout
}

// ImageFromPicture converts a decoded image to an HWC float32 array.
// All color models are read through their RGB components, so the result
// is always a 3-channel array with values in 0..255.
func ImageFromPicture(img image.Image) *Image {
	bounds := img.Bounds()
	height := bounds.Dy()
	width := bounds.Dx()

	out := &Image{
		Data:     make([]float32, height*width*3),
		Height:   height,
		Width:    width,
		Channels: 3,
		Layout:   HWC,
	}

	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			out.Data[i] = float32(r >> 8)
			out.Data[i+1] = float32(g >> 8)
			out.Data[i+2] = float32(b >> 8)
			i += 3
		}
	}

	return out
}

// index returns the flat offset of (y, x, c) for the current layout
func (im *Image) index(y, x, c int) int {
	if im.Layout == CHW {
		return c*im.Height*im.Width + y*im.Width + x
	}
	return (y*im.Width+x)*im.Channels + c
}

// At returns the value at row y, column x, channel c
func (im *Image) At(y, x, c int) float32 {
	return im.Data[im.index(y, x, c)]
}

// Set writes the value at row y, column x, channel c
func (im *Image) Set(y, x, c int, v float32) {
	im.Data[im.index(y, x, c)] = v
}

// ReverseChannels reverses the channel axis in place (RGB <-> BGR).
// Works for either layout: interleaved triples for HWC, whole planes
// for CHW.
func (im *Image) ReverseChannels() {
	for y := 0; y < im.Height; y++ {
		for x := 0; x < im.Width; x++ {
			for c := 0; c < im.Channels/2; c++ {
				a := im.index(y, x, c)
				b := im.index(y, x, im.Channels-1-c)
				im.Data[a], im.Data[b] = im.Data[b], im.Data[a]
			}
		}
	}
}

// SubtractMean subtracts a per-channel value, broadcast over H x W.
// The image must have 3 channels.
func (im *Image) SubtractMean(mean [3]float32) {
	im.addMean([3]float32{-mean[0], -mean[1], -mean[2]})
}

// AddMean adds a per-channel value, broadcast over H x W.
// The image must have 3 channels.
func (im *Image) AddMean(mean [3]float32) {
	im.addMean(mean)
}

func (im *Image) addMean(mean [3]float32) {
	for y := 0; y < im.Height; y++ {
		for x := 0; x < im.Width; x++ {
			for c := 0; c < 3; c++ {
				im.Data[im.index(y, x, c)] += mean[c]
			}
		}
	}
}

// ToCHW returns a freshly allocated copy of the image in CHW layout
func (im *Image) ToCHW() *Image {
	return im.transposed(CHW)
}

// ToHWC returns a freshly allocated copy of the image in HWC layout
func (im *Image) ToHWC() *Image {
	return im.transposed(HWC)
}

func (im *Image) transposed(layout Layout) *Image {
	out := &Image{
		Data:     make([]float32, len(im.Data)),
		Height:   im.Height,
		Width:    im.Width,
		Channels: im.Channels,
		Layout:   layout,
	}
	if im.Layout == layout {
		copy(out.Data, im.Data)
		return out
	}
	for y := 0; y < im.Height; y++ {
		for x := 0; x < im.Width; x++ {
			for c := 0; c < im.Channels; c++ {
				out.Data[out.index(y, x, c)] = im.Data[im.index(y, x, c)]
			}
		}
	}
	return out
}

// ToPicture converts a 3-channel HWC array back to a displayable RGBA
// image, clamping each sample to the 0..255 byte range
func (im *Image) ToPicture() (*image.RGBA, error) {
	if im.Layout != HWC {
		return nil, fmt.Errorf("sample: ToPicture requires HWC layout, got %s", im.Layout)
	}
	if im.Channels != 3 {
		return nil, fmt.Errorf("sample: ToPicture requires 3 channels, got %d", im.Channels)
	}

	out := image.NewRGBA(image.Rect(0, 0, im.Width, im.Height))
	for y := 0; y < im.Height; y++ {
		for x := 0; x < im.Width; x++ {
			out.SetRGBA(x, y, color.RGBA{
				R: clampByte(im.At(y, x, 0)),
				G: clampByte(im.At(y, x, 1)),
				B: clampByte(im.At(y, x, 2)),
				A: 255,
			})
		}
	}
	return out, nil
}

// Clone returns a deep copy of the image
func (im *Image) Clone() *Image {
	data := make([]float32, len(im.Data))
	copy(data, im.Data)
	return &Image{
		Data:     data,
		Height:   im.Height,
		Width:    im.Width,
		Channels: im.Channels,
		Layout:   im.Layout,
	}
}

func (im *Image) String() string {
	return fmt.Sprintf("Image(%s, height=%d, width=%d, channels=%d)",
		im.Layout, im.Height, im.Width, im.Channels)
}

func clampByte(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}
