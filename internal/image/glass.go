package imagepkg

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"golang.org/x/image/draw"
)

// GlassPanel describes a frosted overlay: the region under it is blurred,
// blended toward Tint and pasted back through a rounded mask.
type GlassPanel struct {
	Radius       float64
	Tint         color.NRGBA
	TintStrength float64
	Blur         float64
	Opacity      uint8
}

// roundedMask returns a w×h mask whose alpha is a inside a rounded rectangle
// covering the whole area.
func roundedMask(w, h int, radius float64, a uint8) *image.RGBA {
	dc := gg.NewContext(w, h)
	dc.SetRGBA255(0, 0, 0, int(a))
	dc.DrawRoundedRectangle(0, 0, float64(w), float64(h), radius)
	dc.Fill()
	return dc.Image().(*image.RGBA)
}

// ApplyGlassPanel applies p to bbox of dst. The box is clamped to dst and an
// empty result is a no-op.
func ApplyGlassPanel(dst *image.RGBA, bbox image.Rectangle, p GlassPanel) {
	r := bbox.Intersect(dst.Bounds())
	if r.Empty() {
		return
	}
	panel := imaging.Crop(dst, r)
	if p.Blur > 0 {
		panel = imaging.Blur(panel, p.Blur)
	}
	tint := imaging.New(r.Dx(), r.Dy(), withAlpha(p.Tint, 0xff))
	glass := imaging.Overlay(panel, tint, image.Point{}, p.TintStrength)
	mask := roundedMask(r.Dx(), r.Dy(), p.Radius, p.Opacity)
	draw.DrawMask(dst, r, glass, image.Point{}, mask, image.Point{}, draw.Over)
}
