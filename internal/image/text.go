package imagepkg

import (
	"image/color"
	"strings"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/youruser/ticketapp/internal/layout"
)

func fix2f(v fixed.Int26_6) float64 { return float64(v) / 64 }

// measure returns the advance width of s and the ascent+descent of face.
// Drawing uses the same face, so measured boxes and glyphs agree.
func measure(face font.Face, s string) layout.Size {
	m := face.Metrics()
	return layout.Size{
		W: fix2f(font.MeasureString(face, s)),
		H: fix2f(m.Ascent + m.Descent),
	}
}

const ellipsis = "…"

// fitText returns s unchanged when it fits width, otherwise the longest rune
// prefix that fits with an ellipsis appended.
func fitText(face font.Face, s string, width float64) string {
	if measure(face, s).W <= width {
		return s
	}
	runes := []rune(strings.TrimSpace(s))
	for n := len(runes) - 1; n > 0; n-- {
		cut := strings.TrimRight(string(runes[:n]), " ") + ellipsis
		if measure(face, cut).W <= width {
			return cut
		}
	}
	if measure(face, ellipsis).W <= width {
		return ellipsis
	}
	return ""
}

// drawText draws s with its box's top-left corner at (x, y).
func drawText(dc *gg.Context, face font.Face, s string, x, y float64, c color.Color) {
	dc.SetFontFace(face)
	dc.SetColor(c)
	dc.DrawString(s, x, y+fix2f(face.Metrics().Ascent))
}

// drawTextStroked draws s with a stroke of width w around each glyph.
func drawTextStroked(dc *gg.Context, face font.Face, s string, x, y float64, fill, stroke color.Color, w int) {
	base := y + fix2f(face.Metrics().Ascent)
	dc.SetFontFace(face)
	dc.SetColor(stroke)
	for dy := -w; dy <= w; dy++ {
		for dx := -w; dx <= w; dx++ {
			if dx != 0 || dy != 0 {
				dc.DrawString(s, x+float64(dx), base+float64(dy))
			}
		}
	}
	dc.SetColor(fill)
	dc.DrawString(s, x, base)
}

// drawSeparator paints a 1px vertical line whose alpha peaks at its middle.
func drawSeparator(dc *gg.Context, r layout.Rect, c color.NRGBA, edgeA, midA uint8) {
	g := gg.NewLinearGradient(r.X, r.Y, r.X, r.MaxY())
	g.AddColorStop(0, withAlpha(c, edgeA))
	g.AddColorStop(0.5, withAlpha(c, midA))
	g.AddColorStop(1, withAlpha(c, edgeA))
	dc.SetFillStyle(g)
	dc.DrawRectangle(r.X, r.Y, r.W, r.H)
	dc.Fill()
}
