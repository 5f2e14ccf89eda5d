package codec

import (
	"errors"
	"fmt"
	"image"
	"os"

	// Register the decoders the default codec understands.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// ErrDecode reports corrupt or unrecognized image content. File-level
// failures (missing or unreadable files) are returned as the underlying
// filesystem error instead.
var ErrDecode = errors.New("codec: image decode failed")

// Codec loads the two halves of a sample from storage. DecodeImage
// produces a color image; DecodeLabel must preserve raw pixel values
// (palette indices, gray levels) without any color conversion.
type Codec interface {
	DecodeImage(path string) (image.Image, error)
	DecodeLabel(path string) (image.Image, error)
}

// FileCodec decodes images from the local filesystem using the standard
// decode registry (png, jpeg, gif, bmp, tiff)
type FileCodec struct{}

// DecodeImage loads a color image from path
func (FileCodec) DecodeImage(path string) (image.Image, error) {
	return decodeFile(path)
}

// DecodeLabel loads a label image from path. Paletted and grayscale
// images keep their raw values: the decoder never converts color models.
func (FileCodec) DecodeLabel(path string) (image.Image, error) {
	return decodeFile(path)
}

func decodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecode, path, err)
	}
	return img, nil
}
