package drawing

import (
	"image"
	"image/draw"

	"github.com/nfnt/resize"
)

// Fit scales img to exactly w x h pixels. Images that already have that
// size are copied without resampling.
func Fit(img image.Image, w, h int) *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	if w <= 0 || h <= 0 {
		return out
	}

	b := img.Bounds()
	if b.Dx() != w || b.Dy() != h {
		img = resize.Resize(uint(w), uint(h), img, resize.Bilinear)
		b = img.Bounds()
	}

	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out
}

// Thumbnail scales img down to maxWidth keeping its aspect ratio.
// Narrower images are returned unchanged.
func Thumbnail(img image.Image, maxWidth int) image.Image {
	if maxWidth <= 0 || img.Bounds().Dx() <= maxWidth {
		return img
	}
	return resize.Resize(uint(maxWidth), 0, img, resize.Lanczos3)
}
