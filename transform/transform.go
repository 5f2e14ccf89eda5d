package transform

import "image"

// Paired is a joint augmentation over an image/label pair. Implementations
// must keep the two outputs spatially aligned (a crop or flip applies to
// both) and must not retain or mutate shared state across calls.
type Paired interface {
	Apply(img, label image.Image) (image.Image, image.Image, error)
}

// Func adapts a plain function to the Paired interface
type Func func(img, label image.Image) (image.Image, image.Image, error)

// Apply calls f
func (f Func) Apply(img, label image.Image) (image.Image, image.Image, error) {
	return f(img, label)
}

// Identity returns a transform that passes the pair through unchanged
func Identity() Paired {
	return Func(func(img, label image.Image) (image.Image, image.Image, error) {
		return img, label, nil
	})
}

// Compose chains transforms left to right, stopping at the first error
func Compose(steps ...Paired) Paired {
	return Func(func(img, label image.Image) (image.Image, image.Image, error) {
		var err error
		for _, step := range steps {
			img, label, err = step.Apply(img, label)
			if err != nil {
				return nil, nil, err
			}
		}
		return img, label, nil
	})
}
