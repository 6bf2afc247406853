package images

import (
	"bytes"
	"image"
	"image/png"

	"github.com/disintegration/imaging"
)

// EncodePNG encodes an image to PNG bytes. Errors are ignored and may return an empty slice.
func EncodePNG(img image.Image) []byte {
	if img == nil {
		return nil
	}
	var buf bytes.Buffer
	_ = png.Encode(&buf, img)
	return buf.Bytes()
}

// ScaleToFit shrinks src to fit within maxW x maxH preserving aspect ratio and
// returns the factor applied. Images that already fit are returned as is with
// factor 1.
func ScaleToFit(src image.Image, maxW, maxH int) (image.Image, float64) {
	if src == nil {
		return nil, 1
	}
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 || (w <= maxW && h <= maxH) {
		return src, 1
	}
	maxW, maxH = max(maxW, 1), max(maxH, 1)
	dst := imaging.Fit(src, maxW, maxH, imaging.Linear)
	return dst, float64(dst.Bounds().Dx()) / float64(w)
}

// ToSource maps a point on a display scaled by factor back to source pixels.
func ToSource(p image.Point, factor float64) image.Point {
	if factor <= 0 || factor == 1 {
		return p
	}
	return image.Pt(int(float64(p.X)/factor+0.5), int(float64(p.Y)/factor+0.5))
}
