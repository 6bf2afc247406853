package images

import (
	"image"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
)

// ExtractROI crops a square of side size centered on c, shifted to stay inside
// the frame and never smaller than 1x1. It returns the crop and its rectangle in
// frame coordinates.
func ExtractROI(frame image.Image, c image.Point, size int) (*image.NRGBA, image.Rectangle, error) {
	if frame == nil {
		return nil, image.Rectangle{}, errors.New("nil frame")
	}
	if size < 1 {
		size = 1
	}
	b := frame.Bounds()
	w, h := min(size, b.Dx()), min(size, b.Dy())
	if w < 1 || h < 1 {
		return nil, image.Rectangle{}, errors.New("empty frame")
	}
	x0 := clampInt(c.X-size/2, b.Min.X, b.Max.X-w)
	y0 := clampInt(c.Y-size/2, b.Min.Y, b.Max.Y-h)
	roi := image.Rect(x0, y0, x0+w, y0+h)
	return imaging.Crop(frame, roi), roi, nil
}

// Magnify crops around c and scales the crop up by factor with nearest-neighbour
// sampling so individual pixels stay crisp.
func Magnify(frame image.Image, c image.Point, size, factor int) (*image.NRGBA, error) {
	roi, _, err := ExtractROI(frame, c, size)
	if err != nil {
		return nil, err
	}
	if factor < 1 {
		factor = 1
	}
	b := roi.Bounds()
	return imaging.Resize(roi, b.Dx()*factor, b.Dy()*factor, imaging.NearestNeighbor), nil
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
