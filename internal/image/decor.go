package imagepkg

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"golang.org/x/image/draw"
)

// Lattice is a grid of stroked diamonds, each with a small circle inside.
type Lattice struct {
	Cols, Rows   int
	Cell         float64
	Half         float64 // diamond half-diagonal
	CircleR      float64
	DiamondColor color.NRGBA
	CircleColor  color.NRGBA
}

func (l Lattice) Draw(dc *gg.Context) {
	dc.SetLineWidth(1)
	for row := 0; row < l.Rows; row++ {
		for col := 0; col < l.Cols; col++ {
			cx := float64(col)*l.Cell + l.Cell/2 + 0.5
			cy := float64(row)*l.Cell + l.Cell/2 + 0.5
			dc.SetColor(l.DiamondColor)
			dc.MoveTo(cx, cy-l.Half)
			dc.LineTo(cx+l.Half, cy)
			dc.LineTo(cx, cy+l.Half)
			dc.LineTo(cx-l.Half, cy)
			dc.ClosePath()
			dc.Stroke()

			dc.SetColor(l.CircleColor)
			dc.DrawCircle(cx, cy, l.CircleR)
			dc.Stroke()
		}
	}
}

// Arch is a mihrab silhouette: a semicircle of diameter Width whose top sits
// at Top, with straight sides running down to the bottom edge, plus the same
// shape inset by Inset.
type Arch struct {
	CenterX    float64
	Top        float64
	Width      float64
	Inset      float64
	OuterColor color.NRGBA
	InnerColor color.NRGBA
}

func (a Arch) Draw(dc *gg.Context, bottom float64) {
	dc.SetLineWidth(1)
	stroke := func(inset float64, c color.NRGBA) {
		r := a.Width/2 - inset
		cy := a.Top + a.Width/2
		left, right := a.CenterX-r+0.5, a.CenterX+r+0.5
		dc.SetColor(c)
		dc.DrawArc(a.CenterX+0.5, cy, r, math.Pi, 2*math.Pi)
		dc.Stroke()
		dc.DrawLine(left, cy, left, bottom)
		dc.Stroke()
		dc.DrawLine(right, cy, right, bottom)
		dc.Stroke()
	}
	stroke(0, a.OuterColor)
	stroke(a.Inset, a.InnerColor)
}

// ScaleAlpha multiplies every pixel's alpha by f.
func ScaleAlpha(img image.Image, f float64) *image.NRGBA {
	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		c.A = uint8(float64(c.A) * f)
		return c
	})
}

// TiledBand resizes src to one tile, fades it by alpha and repeats it left to
// right across a w×h layer with its top at offsetY. Tiles may hang past the
// top or bottom edge.
func TiledBand(src image.Image, w, h, tileW, tileH, offsetY int, alpha float64) *image.NRGBA {
	tile := ScaleAlpha(imaging.Resize(src, tileW, tileH, imaging.Lanczos), alpha)
	layer := image.NewNRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x += tileW {
		r := image.Rect(x, offsetY, x+tileW, offsetY+tileH)
		draw.Draw(layer, r, tile, image.Point{}, draw.Over)
	}
	return layer
}

// Emblem is a gradient disc holding a white disc with a logo centred on it.
type Emblem struct {
	OuterR   float64
	InnerR   float64
	LogoSize int
	Center   color.NRGBA // gradient colour at the centre
	Edge     color.NRGBA // gradient colour at the rim
}

// Draw paints the emblem centred at (cx, cy). A nil logo leaves the white
// disc empty.
func (e Emblem) Draw(dst *image.RGBA, cx, cy int, logo image.Image) {
	dc := gg.NewContextForRGBA(dst)
	x, y := float64(cx), float64(cy)
	g := gg.NewRadialGradient(x, y, 0, x, y, e.OuterR)
	g.AddColorStop(0, e.Center)
	g.AddColorStop(1, e.Edge)
	dc.SetFillStyle(g)
	dc.DrawCircle(x, y, e.OuterR)
	dc.Fill()

	dc.SetColor(color.White)
	dc.DrawCircle(x, y, e.InnerR)
	dc.Fill()

	if logo == nil {
		return
	}
	l := imaging.Resize(logo, e.LogoSize, e.LogoSize, imaging.Lanczos)
	at := image.Pt(cx-e.LogoSize/2, cy-e.LogoSize/2)
	draw.Draw(dst, l.Bounds().Add(at), l, image.Point{}, draw.Over)
}
