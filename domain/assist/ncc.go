package assist

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// NCCOptions configures normalized cross correlation matching.
type NCCOptions struct {
	Stride int  // Coarse stride for scanning (default 1)
	Refine bool // If true and Stride>1, do a refinement pass around the best window
}

// NCCResult holds the best window offset inside the searched plane.
type NCCResult struct {
	X, Y  int
	Score float64 // -1 when nothing could be scored
}

// plane is a grayscale luminance buffer.
type plane struct {
	w, h int
	px   []float64
}

// newPlane converts the r part of img to luminance. The result is anchored at (0,0).
func newPlane(img image.Image, r image.Rectangle) plane {
	g := imaging.Grayscale(imaging.Crop(img, r))
	b := g.Bounds()
	p := plane{w: b.Dx(), h: b.Dy(), px: make([]float64, b.Dx()*b.Dy())}
	for y := 0; y < p.h; y++ {
		row := g.Pix[y*g.Stride:]
		for x := 0; x < p.w; x++ {
			p.px[y*p.w+x] = float64(row[x*4])
		}
	}
	return p
}

// MatchNCC slides tmpl over frame and returns the window with the highest
// normalized cross correlation. Flat templates carry no structure to match
// and score -1.
func MatchNCC(frame, tmpl plane, opts NCCOptions) NCCResult {
	if opts.Stride <= 0 {
		opts.Stride = 1
	}
	res := NCCResult{Score: -1}
	W, H, w, h := frame.w, frame.h, tmpl.w, tmpl.h
	if w == 0 || h == 0 || W < w || H < h {
		return res
	}
	n := float64(w * h)
	var sumT, sumT2 float64
	for _, v := range tmpl.px {
		sumT += v
		sumT2 += v * v
	}
	meanT := sumT / n
	varT := (sumT2 - sumT*sumT/n) / n
	if varT <= 1e-9 {
		return res
	}
	stdT := math.Sqrt(varT)

	score := func(x, y int) float64 {
		var sumF, sumF2, sumFT float64
		for ty := 0; ty < h; ty++ {
			frow := frame.px[(y+ty)*W+x:]
			trow := tmpl.px[ty*w:]
			for tx := 0; tx < w; tx++ {
				val := frow[tx]
				sumF += val
				sumF2 += val * val
				sumFT += val * trow[tx]
			}
		}
		varF := (sumF2 - sumF*sumF/n) / n
		if varF <= 1e-9 {
			return -1
		}
		denom := n * math.Sqrt(varF) * stdT
		if denom <= 0 {
			return -1
		}
		return (sumFT - n*(sumF/n)*meanT) / denom
	}

	bestX, bestY, bestScore := 0, 0, -1.0
	stride := opts.Stride
	// Coarse pass.
	for y := 0; y <= H-h; y += stride {
		for x := 0; x <= W-w; x += stride {
			if s := score(x, y); s > bestScore {
				bestScore, bestX, bestY = s, x, y
			}
		}
	}
	// Refinement pass if requested and stride>1.
	if opts.Refine && stride > 1 && bestScore > -1 {
		minY, maxY := max(0, bestY-stride), min(H-h, bestY+stride)
		minX, maxX := max(0, bestX-stride), min(W-w, bestX+stride)
		for y := minY; y <= maxY; y++ {
			for x := minX; x <= maxX; x++ {
				if s := score(x, y); s > bestScore {
					bestScore, bestX, bestY = s, x, y
				}
			}
		}
	}
	res.X, res.Y, res.Score = bestX, bestY, bestScore
	return res
}
