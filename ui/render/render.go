package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/soocke/frame-labeler/domain/shape"
)

// Style holds canvas colors and stroke sizes.
type Style struct {
	Background  color.RGBA
	Handle      color.RGBA
	LabelText   color.RGBA
	Stroke      int
	FocusStroke int
	Dash        int
	HandleSize  int
	EmptyWidth  int
	EmptyHeight int
}

// DefaultStyle is the light canvas style.
func DefaultStyle() Style {
	return Style{
		Background:  color.RGBA{R: 0x33, G: 0x33, B: 0x33, A: 0xff},
		Handle:      color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
		LabelText:   color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
		Stroke:      2,
		FocusStroke: 3,
		Dash:        6,
		HandleSize:  7,
		EmptyWidth:  640,
		EmptyHeight: 480,
	}
}

// Scene is everything needed to draw one canvas state.
type Scene struct {
	Frame   image.Image
	Shapes  []shape.Shape
	Active  shape.Shape
	Hovered shape.Shape

	// Corner is the hovered or captured corner; drawn only when CornerVisible.
	Corner        int
	CornerVisible bool

	Draft      image.Rectangle
	HasDraft   bool
	DraftColor color.RGBA
}

// Render composes the frame with shape outlines, labels, the draft and the
// corner handle. The frame itself is never modified.
func Render(sc Scene, st Style) *image.NRGBA {
	var dst *image.NRGBA
	if sc.Frame != nil {
		dst = imaging.Clone(sc.Frame)
	} else {
		dst = imaging.New(st.EmptyWidth, st.EmptyHeight, st.Background)
	}
	for _, s := range sc.Shapes {
		r := s.Bounds()
		switch {
		case s == sc.Active:
			dashedRect(dst, r, st.FocusStroke, st.Dash, s.Color())
		case s == sc.Hovered:
			strokeRect(dst, r, st.FocusStroke, s.Color())
		default:
			strokeRect(dst, r, st.Stroke, s.Color())
		}
		drawLabel(dst, r, fmt.Sprintf("%s %d", s.Label(), s.ID()), s.Color(), st.LabelText)
	}
	if sc.HasDraft {
		dashedRect(dst, sc.Draft, st.Stroke, st.Dash, sc.DraftColor)
	}
	if sc.CornerVisible && sc.Corner >= 0 && sc.Corner < 4 {
		target := sc.Active
		if target == nil {
			target = sc.Hovered
		}
		if target != nil {
			c := target.Corners()[sc.Corner]
			h := st.HandleSize / 2
			fill(dst, image.Rect(c.X-h, c.Y-h, c.X+h+1, c.Y+h+1), st.Handle)
		}
	}
	return dst
}

func fill(dst draw.Image, r image.Rectangle, c color.RGBA) {
	draw.Draw(dst, r.Intersect(dst.Bounds()), image.NewUniform(c), image.Point{}, draw.Src)
}

// strokeRect draws a solid outline of width w inside r.
func strokeRect(dst draw.Image, r image.Rectangle, w int, c color.RGBA) {
	if w < 1 {
		w = 1
	}
	fill(dst, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+w), c)
	fill(dst, image.Rect(r.Min.X, r.Max.Y-w, r.Max.X, r.Max.Y), c)
	fill(dst, image.Rect(r.Min.X, r.Min.Y, r.Min.X+w, r.Max.Y), c)
	fill(dst, image.Rect(r.Max.X-w, r.Min.Y, r.Max.X, r.Max.Y), c)
}

// dashedRect draws an outline with dash-long segments and equal gaps.
func dashedRect(dst draw.Image, r image.Rectangle, w, dash int, c color.RGBA) {
	if dash < 1 {
		strokeRect(dst, r, w, c)
		return
	}
	for x := r.Min.X; x < r.Max.X; x += 2 * dash {
		end := min(x+dash, r.Max.X)
		fill(dst, image.Rect(x, r.Min.Y, end, r.Min.Y+w), c)
		fill(dst, image.Rect(x, r.Max.Y-w, end, r.Max.Y), c)
	}
	for y := r.Min.Y; y < r.Max.Y; y += 2 * dash {
		end := min(y+dash, r.Max.Y)
		fill(dst, image.Rect(r.Min.X, y, r.Min.X+w, end), c)
		fill(dst, image.Rect(r.Max.X-w, y, r.Max.X, end), c)
	}
}

// drawLabel writes text on a filled tag above r, or inside r when there is no room.
func drawLabel(dst draw.Image, r image.Rectangle, text string, bg, fg color.RGBA) {
	face := basicfont.Face7x13
	width := font.MeasureString(face, text).Ceil() + 4
	height := face.Metrics().Height.Ceil() + 2
	top := r.Min.Y - height
	if top < dst.Bounds().Min.Y {
		top = r.Min.Y
	}
	tag := image.Rect(r.Min.X, top, r.Min.X+width, top+height)
	fill(dst, tag, bg)
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(fg),
		Face: face,
		Dot:  fixed.P(tag.Min.X+2, tag.Min.Y+face.Metrics().Ascent.Ceil()+1),
	}
	d.DrawString(text)
}
