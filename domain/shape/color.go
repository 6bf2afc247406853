package shape

import "image/color"

// CalculateColor derives a per-instance color from a label's base color so that
// shapes sharing a label stay distinguishable. The ramp is deterministic.
func CalculateColor(base color.RGBA, id int) color.RGBA {
	variation := (id * 30) % 60
	if variation < 0 {
		variation = -variation
	}
	return color.RGBA{
		R: channel(int(base.R) + variation),
		G: channel(int(base.G) + variation),
		B: channel(int(base.B) + variation),
		A: 255,
	}
}
