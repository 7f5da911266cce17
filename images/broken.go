package images

import (
	"image/color"
	"sync"

	"github.com/disintegration/imaging"

	"hdoc/element"
	imgutil "hdoc/utils/images"
)

const brokenSize = 32

var brokenPNG = sync.OnceValues(func() ([]byte, error) {
	img := imaging.New(brokenSize, brokenSize, color.NRGBA{R: 0xdd, G: 0xdd, B: 0xdd, A: 0xff})
	red := color.NRGBA{R: 0xcc, A: 0xff}
	// diagonal cross
	for i := range brokenSize {
		img.Set(i, i, red)
		img.Set(brokenSize-1-i, i, red)
	}
	return imgutil.EncodePNG(img)
})

// Broken returns placeholder image used instead of images which could not be
// resolved.
func Broken(src string) (*element.Image, error) {
	data, err := brokenPNG()
	if err != nil {
		return nil, err
	}
	return &element.Image{
		Src:         src,
		MimeType:    "image/png",
		Data:        data,
		PixelWidth:  brokenSize,
		PixelHeight: brokenSize,
		Width:       brokenSize,
		Height:      brokenSize,
	}, nil
}
