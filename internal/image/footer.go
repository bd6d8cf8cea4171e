package imagepkg

import (
	"math"

	"github.com/fogleman/gg"

	"github.com/youruser/ticketapp/internal/assets"
)

// FooterSpan is one run of footer text.
type FooterSpan struct {
	Text  string `json:"text"`
	Bold  bool   `json:"bold,omitempty"`
	Right bool   `json:"right,omitempty"`
}

// Footer is the bottom strip: a dark band with left-aligned regular+bold
// text and right-aligned regular text. Its text can be drawn at any scale so
// upscaled output keeps sharp glyphs.
type Footer struct {
	Left     string
	LeftBold string
	Right    string
	FontSize float64
	Padding  float64
	Height   float64
}

func (f Footer) Spans() []FooterSpan {
	return []FooterSpan{
		{Text: f.Left},
		{Text: f.LeftBold, Bold: true},
		{Text: f.Right, Right: true},
	}
}

// DrawBand paints the band and its top rule onto a canvas that is the design
// scaled by scale.
func (f Footer) DrawBand(dc *gg.Context, scale float64) {
	w, h := float64(dc.Width()), float64(dc.Height())
	bandH := math.Round(f.Height * scale)
	top := h - bandH
	dc.SetRGBA255(0, 0, 0, 153)
	dc.DrawRectangle(0, top, w, bandH)
	dc.Fill()
	dc.SetRGBA255(255, 255, 255, 25)
	dc.DrawRectangle(0, top, w, math.Max(1, math.Round(scale)))
	dc.Fill()
}

// DrawText draws the footer text onto a canvas that is the design scaled by
// scale.
func (f Footer) DrawText(dc *gg.Context, faces *assets.FaceSet, scale float64) {
	w, h := float64(dc.Width()), float64(dc.Height())
	bandH := math.Round(f.Height * scale)
	top := h - bandH
	pad := math.Round(f.Padding * scale)
	size := math.Max(1, math.Round(f.FontSize*scale))

	regular := faces.Get(assets.PTSansRegular, size).Face
	bold := faces.Get(assets.PTSansBold, size).Face
	left := measure(regular, f.Left)
	y := top + math.Floor((bandH-left.H)/2)
	white := rgba(255, 255, 255, 255)

	drawText(dc, regular, f.Left, pad, y, white)
	drawText(dc, bold, f.LeftBold, pad+left.W, y, white)
	right := measure(regular, f.Right)
	drawText(dc, regular, f.Right, w-right.W-pad, y, white)
}
