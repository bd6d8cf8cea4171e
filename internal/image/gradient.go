package imagepkg

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// Stop is one colour sample along a gradient axis.
type Stop struct {
	Pos   float64
	Color color.NRGBA
}

// Gradient is a stop list with strictly increasing positions, starting at 0
// and ending at 1.
type Gradient []Stop

// At returns the colour at t, interpolating between the bracketing stops.
func (g Gradient) At(t float64) color.NRGBA {
	if len(g) == 0 {
		return color.NRGBA{}
	}
	prev, next := g[0], g[len(g)-1]
	for i := 0; i < len(g)-1; i++ {
		if g[i].Pos <= t && t <= g[i+1].Pos {
			prev, next = g[i], g[i+1]
			break
		}
	}
	var lt float64
	if seg := next.Pos - prev.Pos; seg > 0 {
		lt = (t - prev.Pos) / seg
	}
	return lerpColor(prev.Color, next.Color, lt)
}

// fieldDownscale is the linear resolution divisor for diagonal fields.
// Banding at this scale is invisible once resampled.
const fieldDownscale = 10

// DiagonalField samples fn along the 135° diagonal, where t runs from 0 at
// the top-left corner towards 1 at the bottom-right. The field is evaluated
// at the corners of a grid fieldDownscale times coarser than w×h and
// resampled with a Lanczos filter.
func DiagonalField(w, h int, fn func(t float64) color.NRGBA) *image.NRGBA {
	sw, sh := max(w/fieldDownscale, 1), max(h/fieldDownscale, 1)
	small := image.NewNRGBA(image.Rect(0, 0, sw, sh))
	for sy := 0; sy < sh; sy++ {
		for sx := 0; sx < sw; sx++ {
			t := (float64(sx)/float64(sw) + float64(sy)/float64(sh)) / 2
			small.SetNRGBA(sx, sy, fn(t))
		}
	}
	return imaging.Resize(small, w, h, imaging.Lanczos)
}

// DiagonalGradient is an opaque c1→c2 diagonal sweep, or c1→c2→c1 when
// threeStop is set.
func DiagonalGradient(w, h int, c1, c2 color.NRGBA, threeStop bool) *image.NRGBA {
	c1.A, c2.A = 0xff, 0xff
	return DiagonalField(w, h, func(t float64) color.NRGBA {
		if !threeStop {
			return lerpColor(c1, c2, t)
		}
		if t < 0.5 {
			return lerpColor(c1, c2, t*2)
		}
		return lerpColor(c2, c1, (t-0.5)*2)
	})
}

// VerticalGradient fills each row with g evaluated at y/(h-1). Rows that
// come out fully transparent are left untouched.
func VerticalGradient(w, h int, g Gradient) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		c := g.At(float64(y) / float64(max(h-1, 1)))
		if c.A == 0 {
			continue
		}
		row := img.Pix[y*img.Stride : y*img.Stride+w*4]
		for x := 0; x < w; x++ {
			row[x*4], row[x*4+1], row[x*4+2], row[x*4+3] = c.R, c.G, c.B, c.A
		}
	}
	return img
}

// EdgeFalloff darkens the left and right margins: alpha is maxAlpha at the
// edge and falls linearly to zero at margin (a fraction of w) inward.
func EdgeFalloff(w, h int, c color.NRGBA, margin, maxAlpha float64) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		t := float64(x) / float64(w)
		var a float64
		switch {
		case t < margin:
			a = maxAlpha * 255 * (1 - t/margin)
		case t > 1-margin:
			a = maxAlpha * 255 * ((t - (1 - margin)) / margin)
		}
		if uint8(a) == 0 {
			continue
		}
		px := withAlpha(c, uint8(a))
		for y := 0; y < h; y++ {
			img.SetNRGBA(x, y, px)
		}
	}
	return img
}
