package imagepkg

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"

	"github.com/youruser/ticketapp/internal/assets"
	"github.com/youruser/ticketapp/internal/layout"
)

// ErrLayoutOverflow is returned when guest data measures too wide for the
// ticket.
var ErrLayoutOverflow = errors.New("ticket layout overflow")

// Ticket geometry in design units.
const (
	TicketW = 900
	TicketH = 400
	LeftW   = 135 // logo column
	RightW  = 180 // QR column
	FooterH = 28
	CornerR = 16

	centerPadX  = 40
	centerPadY  = 32
	minGroupGap = 10

	qrSize = 120
)

// Fixed copy.
const (
	TitleText    = "CMHS Grand Iftar"
	SubtitleText = "Mahfil 2026"
	EntryText    = "ENTRY PASS"
	CodeText     = "CODE"
	ScanText     = "SCAN AT ENTRY"
)

var detailItems = [3][2]string{
	{"DATE", "March 18, 2026"},
	{"TIME", "03:00 PM"},
	{"VENUE", "CMHS Campus"},
}

var (
	baseDark    = hexColor("#2d1b4e")
	baseLight   = hexColor("#5d3a7a")
	titleColor  = hexColor("#e0f2fe")
	titleStroke = hexColor("#cbd5ff")
	subColor    = hexColor("#dbeafe")
	skyBorder   = rgba(186, 230, 253, 102)
	sepColor    = rgba(166, 213, 253, 255)
	labelColor  = rgba(255, 255, 255, 153)
	columnShade = rgba(0, 0, 0, 51)

	// Matte is the opaque backdrop the ticket is flattened onto.
	Matte = hexColor("#0f0f18")
)

var designFooter = Footer{
	Left:     "Powered by: ",
	LeftBold: "CMHS ALUMNI ASSOCIATION",
	Right:    "System Generated • Dev: Reshad (2019) • www.reshad.dev",
	FontSize: 10,
	Padding:  24,
	Height:   FooterH,
}

// Layout records where the design placed things, in design units.
type Layout struct {
	Scale float64
	// Size is the pixel size of the final image.
	Size image.Point

	TitleTop   float64
	CardTop    float64
	DetailsTop float64
	GroupGap   float64

	IdentityCard layout.RowLayout
	Details      layout.RowLayout
	// CardValues and CardSizes are the guest values as drawn, after fitting
	// them into the card.
	CardValues [3]string
	CardSizes  [3]float64

	QRPanel   image.Rectangle
	QRSymbol  image.Rectangle
	QRModules int
	CodeLabel string

	Footer []FooterSpan
	// Skipped lists layers left out because an asset was unavailable.
	Skipped []string
}

// ticketDesign holds the per-render measurements shared by the centre stages.
type ticketDesign struct {
	center *centerLayout
}

func (d *ticketDesign) compositor() Compositor {
	return Compositor{Stages: []Stage{
		Paint("base", paintBase),
		Layer("background", buildBackground),
		Layer("lattice", buildLattice),
		Layer("arches", buildArches),
		Layer("tint", buildTint),
		Layer("shade", buildShade),
		Layer("edges", buildEdges),
		Layer("lanterns", buildLanterns),
		Paint("logo-column", paintLogoColumn),
		Paint("qr-column", paintQRColumn),
		Paint("measure", d.measure),
		Paint("title", d.paintTitle),
		Paint("identity-card", d.paintCard),
		Paint("details", d.paintDetails),
		Paint("footer", paintFooterBand),
		Paint("footer-text", paintFooterText),
	}}
}

func paintBase(s *Scene) error {
	grad := DiagonalGradient(TicketW, TicketH, baseDark, baseLight, true)
	mask := roundedMask(TicketW, TicketH, CornerR, 0xff)
	drawMasked(s.Canvas, grad, mask)
	return nil
}

func buildBackground(s *Scene) (image.Image, image.Point, bool, error) {
	bg, ok := s.Assets.ResolveImage(s.Ctx, assets.BackgroundURL)
	if !ok {
		return nil, image.Point{}, false, nil
	}
	return ScaleAlpha(imaging.Resize(bg, TicketW, TicketH, imaging.Lanczos), 0.20), image.Point{}, true, nil
}

func buildLattice(*Scene) (image.Image, image.Point, bool, error) {
	dc := gg.NewContext(TicketW, TicketH)
	Lattice{
		Cols: 12, Rows: 6, Cell: 80, Half: 20, CircleR: 6,
		DiamondColor: rgba(255, 255, 255, 20),
		CircleColor:  rgba(255, 255, 255, 13),
	}.Draw(dc)
	return dc.Image(), image.Point{}, true, nil
}

func buildArches(*Scene) (image.Image, image.Point, bool, error) {
	dc := gg.NewContext(TicketW, TicketH)
	archH := math.Floor(TicketH * 0.90)
	for _, cx := range []float64{TicketW / 3, 2 * TicketW / 3} {
		Arch{
			CenterX: cx, Top: TicketH - archH, Width: 100, Inset: 5,
			OuterColor: rgba(255, 255, 255, 38),
			InnerColor: rgba(255, 255, 255, 25),
		}.Draw(dc, TicketH)
	}
	return dc.Image(), image.Point{}, true, nil
}

// buildTint washes the top-left purple and the bottom-right rose.
func buildTint(*Scene) (image.Image, image.Point, bool, error) {
	purple, rose := rgba(88, 28, 135, 0), rgba(136, 19, 55, 0)
	img := DiagonalField(TicketW, TicketH, func(t float64) color.NRGBA {
		switch {
		case t < 0.33:
			return withAlpha(purple, uint8(0.4*255*(1-t/0.33)))
		case t > 0.66:
			return withAlpha(rose, uint8(0.3*255*((t-0.66)/0.34)))
		}
		return color.NRGBA{}
	})
	return img, image.Point{}, true, nil
}

func buildShade(*Scene) (image.Image, image.Point, bool, error) {
	img := VerticalGradient(TicketW, TicketH, Gradient{
		{0, rgba(0, 0, 0, 76)},
		{0.30, rgba(0, 0, 0, 0)},
		{0.50, rgba(0, 0, 0, 0)},
		{1, rgba(0, 0, 0, 153)},
	})
	return img, image.Point{}, true, nil
}

func buildEdges(*Scene) (image.Image, image.Point, bool, error) {
	return EdgeFalloff(TicketW, TicketH, color.NRGBA{}, 0.15, 0.2), image.Point{}, true, nil
}

func buildLanterns(s *Scene) (image.Image, image.Point, bool, error) {
	src, ok := s.Assets.ResolveImage(s.Ctx, assets.LanternURL)
	if !ok {
		return nil, image.Point{}, false, nil
	}
	return TiledBand(src, TicketW, TicketH, 200, 100, -15, 0.5), image.Point{}, true, nil
}

// shadeColumn darkens x0..x1 and draws its inner border at borderX.
func shadeColumn(dst *image.RGBA, x0, x1, borderX int) {
	dc := gg.NewContextForRGBA(dst)
	dc.SetColor(columnShade)
	dc.DrawRectangle(float64(x0), 0, float64(x1-x0), TicketH)
	dc.Fill()
	dc.SetColor(skyBorder)
	dc.SetLineWidth(1)
	dc.DrawLine(float64(borderX)+0.5, 0, float64(borderX)+0.5, TicketH)
	dc.Stroke()
}

func paintLogoColumn(s *Scene) error {
	shadeColumn(s.Canvas, 0, LeftW, LeftW)
	logo, ok := s.Assets.ResolveImage(s.Ctx, assets.LogoURL)
	if !ok {
		s.Layout.Skipped = append(s.Layout.Skipped, "logo")
	}
	Emblem{
		OuterR: 32, InnerR: 24, LogoSize: 40,
		Center: hexColor("#93c5fd"),
		Edge:   hexColor("#bae6fd"),
	}.Draw(s.Canvas, LeftW/2, TicketH/2, logo)
	return nil
}

// Vertical rhythm of the QR column.
const (
	entryH   = 10
	entryGap = 16
	codeGap  = 16
	codeH    = 30
	scanGap  = 10
	scanH    = 10
)

func paintQRColumn(s *Scene) error {
	rx0 := TicketW - RightW
	shadeColumn(s.Canvas, rx0, TicketW, rx0)

	block := QRPanelSize(qrSize)
	total := entryH + entryGap + block + codeGap + codeH + scanGap + scanH
	startY := (TicketH - FooterH - total) / 2
	dc := gg.NewContextForRGBA(s.Canvas)
	centered := func(face assets.FontHandle, text string, y float64, a uint8) {
		w := measure(face.Face, text).W
		x := float64(rx0) + math.Floor((RightW-w)/2)
		drawText(dc, face.Face, text, x, y, rgba(255, 255, 255, a))
	}

	centered(s.Faces.Get(assets.PTSansBold, 8), EntryText, float64(startY), 128)

	panel, err := BuildQRPanel(s.Req.Code, qrSize)
	if err != nil {
		return err
	}
	qrX := rx0 + (RightW-block)/2
	qrY := startY + entryH + entryGap
	s.Layout.QRPanel = image.Rect(qrX, qrY, qrX+block, qrY+block)
	inset := QRBorder + QRPadding
	s.Layout.QRSymbol = image.Rect(qrX+inset, qrY+inset, qrX+inset+qrSize, qrY+inset+qrSize)
	if m, err := QRMatrix(s.Req.Code); err == nil {
		s.Layout.QRModules = len(m)
	}
	drawOver(s.Canvas, panel, s.Layout.QRPanel.Min)

	codeY := qrY + block + codeGap
	centered(s.Faces.Get(assets.PTSansRegular, 8), CodeText, float64(codeY), 102)

	box := image.Rect(rx0+24, codeY+12, TicketW-24, codeY+12+22)
	ApplyGlassPanel(s.Canvas, box, GlassPanel{
		Radius: 8, Tint: rgba(4, 6, 12, 255), TintStrength: 0.35, Blur: 4, Opacity: 190,
	})
	outlineRounded(dc, box, 8, rgba(255, 255, 255, 25))

	label := s.Req.DisplayCode()
	s.Layout.CodeLabel = label
	codeFace := s.Faces.Get(assets.PTSansRegular, 9)
	lb := measure(codeFace.Face, label)
	drawText(dc, codeFace.Face, label,
		float64(box.Min.X)+math.Floor((float64(box.Dx())-lb.W)/2),
		float64(box.Min.Y)+math.Floor((float64(box.Dy())-lb.H)/2),
		rgba(255, 255, 255, 204))

	centered(s.Faces.Get(assets.PTSansRegular, 9), ScanText, float64(box.Max.Y+scanGap), 128)
	return nil
}

type centerLayout struct {
	title, sub layout.Size
	titleGap   float64
	card       layout.RowLayout
	details    layout.RowLayout
	cardFit    cardFit
}

// maxCardW is the widest the identity card may grow: the centre column less
// its padding on both sides.
const maxCardW = TicketW - RightW - LeftW - 2*centerPadX

var (
	cardLabels   = [3]string{"GUEST NAME", "BATCH", "CONTACT"}
	cardFonts    = [3]string{assets.PTSansBold, assets.PTSansBold, assets.PTSansRegular}
	cardSizes    = [3]float64{24, 20, 14}
	cardMinSizes = [3]float64{14, 12, 10}
)

func newCardRow() layout.Row {
	return layout.Row{Gap: 24, SeparatorW: 1, SeparatorH: 40, PadX: 20, PadY: 16, MinWidth: 470}
}

// cardFit is the identity card's text after fitting it into maxCardW.
type cardFit struct {
	faces  [3]assets.FontHandle
	values [3]string
	row    layout.Row
}

func buildCard(f *assets.FaceSet, sizes [3]float64, values [3]string) cardFit {
	label := f.Get(assets.PTSansRegular, 9).Face
	fit := cardFit{values: values, row: newCardRow()}
	for i := range cardLabels {
		fit.faces[i] = f.Get(cardFonts[i], sizes[i])
		fit.row.Columns = append(fit.row.Columns, layout.Column{
			Label:    measure(label, cardLabels[i]),
			Value:    measure(fit.faces[i].Face, values[i]),
			LabelGap: 4,
		})
	}
	return fit
}

// fitCard makes the guest values fit maxCardW. The widest value steps down a
// pixel size at a time to its minimum; values still too wide are then cut
// with an ellipsis to a fair share of the room.
func fitCard(f *assets.FaceSet, values [3]string) cardFit {
	sizes := cardSizes
	fit := buildCard(f, sizes, values)
	for fit.row.NaturalWidth() > maxCardW {
		widest := -1
		for i, col := range fit.row.Columns {
			if sizes[i] > cardMinSizes[i] && col.Value.W > col.Label.W &&
				(widest < 0 || col.Value.W > fit.row.Columns[widest].Value.W) {
				widest = i
			}
		}
		if widest < 0 {
			break
		}
		sizes[widest]--
		fit = buildCard(f, sizes, values)
	}
	if fit.row.NaturalWidth() <= maxCardW {
		return fit
	}

	widths := make([]float64, len(fit.row.Columns))
	var sum float64
	for i, col := range fit.row.Columns {
		widths[i] = col.Width()
		sum += widths[i]
	}
	// one unit of slack absorbs float error in the sums
	room := maxCardW - (fit.row.NaturalWidth() - sum) - 1
	budgets := layout.FairShare(widths, room)
	for i := range values {
		values[i] = fitText(fit.faces[i].Face, values[i], budgets[i])
	}
	return buildCard(f, sizes, values)
}

func (d *ticketDesign) measure(s *Scene) error {
	f := s.Faces
	label := f.Get(assets.PTSansRegular, 9).Face
	c := &centerLayout{
		title:    measure(f.Get(assets.PlayfairBlack, 60).Face, TitleText),
		sub:      measure(f.Get(assets.CormorantItalic, 30).Face, SubtitleText),
		titleGap: 12,
		cardFit:  fitCard(f, [3]string{s.Req.Name, s.Req.Batch, s.Req.Phone}),
	}
	card := c.cardFit.row
	detailVal := f.Get(assets.PTSansBold, 20).Face
	details := layout.Row{Gap: 40, SeparatorW: 1, SeparatorH: 32}
	for _, it := range detailItems {
		details.Columns = append(details.Columns, layout.Column{
			Label:    measure(label, it[0]),
			Value:    measure(detailVal, it[1]),
			LabelGap: 4,
		})
	}

	heights := []float64{c.title.H + c.titleGap + c.sub.H, card.Height(), details.Height()}
	for _, h := range heights {
		if math.IsNaN(h) || math.IsInf(h, 0) || h <= 0 {
			return fmt.Errorf("%w: degenerate text metrics", ErrLayoutOverflow)
		}
	}
	usable := float64(TicketH - FooterH - 2*centerPadY)
	ys, gap := layout.JustifyBetween(centerPadY, usable, heights, minGroupGap)
	x := float64(LeftW + centerPadX)
	c.card = card.Layout(layout.Point{X: x, Y: ys[1]})
	c.details = details.Layout(layout.Point{X: x, Y: ys[2]})
	if c.card.Bounds.MaxX() > LeftW+centerPadX+maxCardW || c.details.Bounds.MaxX() > TicketW {
		return fmt.Errorf("%w: identity card is %.0f units wide", ErrLayoutOverflow, c.card.Bounds.W)
	}
	if c.details.Bounds.MaxY() > TicketH {
		return fmt.Errorf("%w: content is too tall", ErrLayoutOverflow)
	}

	d.center = c
	s.Layout.CardValues = c.cardFit.values
	for i, h := range c.cardFit.faces {
		s.Layout.CardSizes[i] = h.Size
	}
	s.Layout.TitleTop, s.Layout.CardTop, s.Layout.DetailsTop = ys[0], ys[1], ys[2]
	s.Layout.GroupGap = gap
	s.Layout.IdentityCard = c.card
	s.Layout.Details = c.details
	return nil
}

func (d *ticketDesign) paintTitle(s *Scene) error {
	c := d.center
	dc := gg.NewContextForRGBA(s.Canvas)
	x := float64(LeftW + centerPadX)
	y := s.Layout.TitleTop
	drawTextStroked(dc, s.Faces.Get(assets.PlayfairBlack, 60).Face, TitleText, x, y, titleColor, titleStroke, 1)

	subY := y + c.title.H + c.titleGap
	lineY := subY + math.Floor(c.sub.H/2)
	dc.SetColor(rgba(186, 230, 253, 100))
	dc.SetLineWidth(2)
	dc.DrawLine(x, lineY, x+48, lineY)
	dc.Stroke()
	drawText(dc, s.Faces.Get(assets.CormorantItalic, 30).Face, SubtitleText, x+48+12, subY, subColor)
	return nil
}

func (d *ticketDesign) paintCard(s *Scene) error {
	c := d.center
	b := c.card.Bounds
	box := image.Rect(int(math.Round(b.X)), int(math.Round(b.Y)), int(math.Round(b.MaxX())), int(math.Round(b.MaxY())))
	ApplyGlassPanel(s.Canvas, box, GlassPanel{
		Radius: 12, Tint: rgba(6, 10, 24, 255), TintStrength: 0.32, Blur: 6, Opacity: 194,
	})
	dc := gg.NewContextForRGBA(s.Canvas)
	outlineRounded(dc, box, 12, skyBorder)

	label := s.Faces.Get(assets.PTSansRegular, 9).Face
	fit := c.cardFit
	colors := [3]color.NRGBA{rgba(255, 255, 255, 255), rgba(255, 255, 255, 255), rgba(255, 255, 255, 230)}
	for i, col := range c.card.Columns {
		drawText(dc, label, cardLabels[i], col.Label.X, col.Label.Y, labelColor)
		drawText(dc, fit.faces[i].Face, fit.values[i], col.Value.X, col.Value.Y, colors[i])
	}
	for _, sep := range c.card.Separators {
		drawSeparator(dc, sep, sepColor, 76, 128)
	}
	return nil
}

func (d *ticketDesign) paintDetails(s *Scene) error {
	c := d.center
	dc := gg.NewContextForRGBA(s.Canvas)
	label := s.Faces.Get(assets.PTSansRegular, 9).Face
	value := s.Faces.Get(assets.PTSansBold, 20).Face
	for i, col := range c.details.Columns {
		drawText(dc, label, detailItems[i][0], col.Label.X, col.Label.Y, labelColor)
		drawText(dc, value, detailItems[i][1], col.Value.X, col.Value.Y, rgba(255, 255, 255, 204))
	}
	for _, sep := range c.details.Separators {
		drawSeparator(dc, sep, sepColor, 76, 128)
	}
	return nil
}

func paintFooterBand(s *Scene) error {
	if s.DeferFooter {
		return nil
	}
	designFooter.DrawBand(gg.NewContextForRGBA(s.Canvas), 1)
	return nil
}

func paintFooterText(s *Scene) error {
	s.Layout.Footer = designFooter.Spans()
	if s.DeferFooter {
		return nil
	}
	designFooter.DrawText(gg.NewContextForRGBA(s.Canvas), s.Faces, 1)
	return nil
}

func outlineRounded(dc *gg.Context, r image.Rectangle, radius float64, c color.NRGBA) {
	dc.SetColor(c)
	dc.SetLineWidth(1)
	dc.DrawRoundedRectangle(float64(r.Min.X)+0.5, float64(r.Min.Y)+0.5, float64(r.Dx()), float64(r.Dy()), radius)
	dc.Stroke()
}
