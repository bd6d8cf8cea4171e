package imagepkg

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/fogleman/gg"

	"github.com/youruser/ticketapp/internal/assets"
	"github.com/youruser/ticketapp/internal/ticket"
)

func pngOf(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

// testAssets serves small bitmaps for the design's image URLs and fails every
// font download, so renders run on the bundled fallback fonts.
func testAssets(t *testing.T) *assets.Cache {
	t.Helper()
	images := map[string][]byte{
		assets.BackgroundURL: pngOf(t, solid(90, 40, color.NRGBA{40, 80, 160, 255})),
		assets.LanternURL:    pngOf(t, solid(20, 10, color.NRGBA{250, 200, 60, 200})),
		assets.LogoURL:       pngOf(t, solid(16, 16, color.NRGBA{255, 255, 255, 255})),
	}
	return assets.New(assets.Options{
		Store: assets.NewMemStore(),
		Fetcher: assets.FetchFunc(func(_ context.Context, url string) ([]byte, error) {
			if b, ok := images[url]; ok {
				return b, nil
			}
			return nil, errors.New("offline")
		}),
	})
}

var sampleRequest = ticket.Request{
	Name:  "Ahmed Reshad",
	Batch: "2019",
	Phone: "+8801000000000",
	Code:  "CMHS-0001",
}

func TestRenderEndToEnd(t *testing.T) {
	r := NewRenderer(Options{Assets: testAssets(t), Scale: 1.35})
	img, lay, err := r.RenderImage(context.Background(), sampleRequest, r.Scale())
	if err != nil {
		t.Fatal(err)
	}
	if got := img.Bounds().Size(); got != image.Pt(1215, 540) {
		t.Fatalf("size = %v, want 1215x540", got)
	}
	if lay.Size != image.Pt(1215, 540) {
		t.Errorf("Layout.Size = %v", lay.Size)
	}
	if len(lay.Skipped) != 0 {
		t.Errorf("Skipped = %v, want none", lay.Skipped)
	}

	m, err := QRMatrix(sampleRequest.Code)
	if err != nil {
		t.Fatal(err)
	}
	if lay.QRModules != len(m) {
		t.Fatalf("QRModules = %d, want %d", lay.QRModules, len(m))
	}
	if got := readQR(img, lay.QRSymbol, lay.QRModules, lay.Scale); !sameMatrix(got, m) {
		t.Error("rendered QR does not read back as the code")
	}
	if got := decodeQR(t, img, lay.QRSymbol, lay.Scale); got != sampleRequest.Code {
		t.Errorf("rendered QR decodes as %q, want %q", got, sampleRequest.Code)
	}

	wantFooter := []FooterSpan{
		{Text: "Powered by: "},
		{Text: "CMHS ALUMNI ASSOCIATION", Bold: true},
		{Text: "System Generated • Dev: Reshad (2019) • www.reshad.dev", Right: true},
	}
	if !reflect.DeepEqual(lay.Footer, wantFooter) {
		t.Errorf("Footer = %+v", lay.Footer)
	}
	if n := len(lay.IdentityCard.Separators); n != 2 {
		t.Errorf("identity card has %d separators, want 2", n)
	}
	if n := len(lay.Details.Separators); n != 2 {
		t.Errorf("details have %d separators, want 2", n)
	}
	if lay.CodeLabel != "CMHS-0001" {
		t.Errorf("CodeLabel = %q", lay.CodeLabel)
	}
	for x := 0; x < img.Bounds().Dx(); x += 37 {
		for y := 0; y < img.Bounds().Dy(); y += 41 {
			if a := img.NRGBAAt(x, y).A; a != 255 {
				t.Fatalf("pixel (%d,%d) alpha = %d, want opaque", x, y, a)
			}
		}
	}
}

func TestRenderedQRScans(t *testing.T) {
	r := NewRenderer(Options{Assets: testAssets(t), Scale: 1.35})
	for _, code := range []string{"CMHS-0001", "CMHS-2026-" + strings.Repeat("x", 54), strings.Repeat("7", ticket.MaxCodeLen)} {
		req := sampleRequest
		req.Code = code
		img, lay, err := r.RenderImage(context.Background(), req, r.Scale())
		if err != nil {
			t.Fatal(err)
		}
		if got := decodeQR(t, img, lay.QRSymbol, lay.Scale); got != code {
			t.Errorf("code %q scans as %q", code, got)
		}
	}
}

func TestRenderPNG(t *testing.T) {
	r := NewRenderer(Options{Assets: testAssets(t), Scale: 1.35})
	b, err := r.Render(context.Background(), sampleRequest)
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(b))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 1215 || cfg.Height != 540 {
		t.Fatalf("PNG is %dx%d, want 1215x540", cfg.Width, cfg.Height)
	}
}

func TestRenderDesignScale(t *testing.T) {
	r := NewRenderer(Options{Assets: testAssets(t)})
	img, lay, err := r.RenderImage(context.Background(), sampleRequest, 1)
	if err != nil {
		t.Fatal(err)
	}
	if got := img.Bounds().Size(); got != image.Pt(TicketW, TicketH) {
		t.Fatalf("size = %v", got)
	}
	m, _ := QRMatrix(sampleRequest.Code)
	if !sameMatrix(readQR(img, lay.QRSymbol, lay.QRModules, 1), m) {
		t.Error("rendered QR does not read back as the code")
	}
	if lay.QRPanel != image.Rect(736, 92, 884, 240) {
		t.Errorf("QRPanel = %v", lay.QRPanel)
	}
	// rounded corners show the matte
	if c := img.NRGBAAt(0, 0); c != Matte {
		t.Errorf("corner = %v, want matte %v", c, Matte)
	}
}

func TestOutputSize(t *testing.T) {
	tests := []struct {
		scale float64
		want  image.Point
	}{
		{1, image.Pt(900, 400)},
		{1.35, image.Pt(1215, 540)},
		{2, image.Pt(1800, 800)},
		{0.5, image.Pt(450, 200)},
		{1.001, image.Pt(901, 400)},
	}
	for _, tt := range tests {
		if got := OutputSize(tt.scale); got != tt.want {
			t.Errorf("OutputSize(%v) = %v, want %v", tt.scale, got, tt.want)
		}
	}
}

func TestRenderDeterministic(t *testing.T) {
	r := NewRenderer(Options{Assets: testAssets(t), Scale: 1.35})
	ctx := context.Background()
	a, err := r.Render(ctx, sampleRequest)
	if err != nil {
		t.Fatal(err)
	}
	b, err := r.Render(ctx, sampleRequest)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a, b) {
		t.Fatal("two renders of the same request differ")
	}
}

func TestRenderOfflineSkipsDecorations(t *testing.T) {
	r := NewRenderer(Options{})
	img, lay, err := r.RenderImage(context.Background(), sampleRequest, 1)
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"background", "lanterns", "logo"}; !reflect.DeepEqual(lay.Skipped, want) {
		t.Errorf("Skipped = %v, want %v", lay.Skipped, want)
	}
	m, _ := QRMatrix(sampleRequest.Code)
	if !sameMatrix(readQR(img, lay.QRSymbol, lay.QRModules, 1), m) {
		t.Error("offline render lost the QR")
	}
}

func TestRenderInvalid(t *testing.T) {
	r := NewRenderer(Options{Assets: testAssets(t)})
	ctx := context.Background()
	noCode := sampleRequest
	noCode.Code = "  "
	if _, _, err := r.RenderImage(ctx, noCode, 1); !errors.Is(err, ticket.ErrInvalidRequest) {
		t.Errorf("missing code: err = %v", err)
	}
	for _, scale := range []float64{0, -1, 8.5, math.NaN(), math.Inf(1)} {
		if _, _, err := r.RenderImage(ctx, sampleRequest, scale); !errors.Is(err, ticket.ErrInvalidRequest) {
			t.Errorf("scale %v: err = %v", scale, err)
		}
	}
}

func TestRenderLongFieldsFit(t *testing.T) {
	r := NewRenderer(Options{Assets: testAssets(t)})
	long := sampleRequest
	long.Name = strings.Repeat("W", ticket.MaxNameLen)
	long.Batch = strings.Repeat("W", ticket.MaxBatchLen)
	long.Phone = strings.Repeat("8", ticket.MaxPhoneLen)
	long.Code = strings.Repeat("C", ticket.MaxCodeLen)
	tests := []struct {
		name string
		req  ticket.Request
		// keep means every value is drawn as given
		keep bool
	}{
		{"sample", sampleRequest, true},
		{"widest name", ticket.Request{Name: strings.Repeat("W", ticket.MaxNameLen), Code: "C"}, false},
		{"two long words", ticket.Request{Name: strings.Repeat("M", 32) + " " + strings.Repeat("W", 31), Code: "C"}, false},
		{"long two word name", ticket.Request{Name: "Muhammadmostafizur Rahmanullahkhan", Batch: "2019", Phone: "+8801000000000", Code: "C"}, false},
		{"41 runes", ticket.Request{Name: strings.Repeat("m", 20) + " " + strings.Repeat("w", 20), Batch: "2020", Code: "C"}, false},
		{"wide batch and phone", ticket.Request{Name: "A", Batch: strings.Repeat("W", 16), Phone: strings.Repeat("8", 24), Code: "C"}, false},
		{"every field at maximum", long, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, lay, err := r.RenderImage(context.Background(), tt.req, 1)
			if err != nil {
				t.Fatal(err)
			}
			card := lay.IdentityCard
			if got := card.Bounds.MaxX(); got > TicketW-RightW-centerPadX {
				t.Errorf("card ends at %v, past the centre column", got)
			}
			for i := 1; i < len(card.Columns); i++ {
				if card.Columns[i-1].Bounds.Overlaps(card.Columns[i].Bounds) {
					t.Errorf("card columns %d and %d overlap", i-1, i)
				}
			}
			if got := lay.CardSizes; got[0] < 14 || got[1] < 12 || got[2] < 10 {
				t.Errorf("card sizes %v below their minimums", got)
			}
			in := [3]string{tt.req.Name, tt.req.Batch, tt.req.Phone}
			for i, v := range lay.CardValues {
				if v == in[i] {
					continue
				}
				if tt.keep {
					t.Errorf("value %q drawn as %q", in[i], v)
				}
				if !strings.HasSuffix(v, "…") {
					t.Errorf("shortened value %q has no ellipsis", v)
				}
				if prefix := strings.TrimSuffix(v, "…"); !strings.HasPrefix(in[i], prefix) {
					t.Errorf("shortened value %q is not a prefix of %q", v, in[i])
				}
			}
		})
	}
}

func TestCardShrinksBeforeCutting(t *testing.T) {
	r := NewRenderer(Options{Assets: testAssets(t)})
	req := ticket.Request{Name: "Mohammad Abdullah", Batch: "2019", Phone: "+8801000000000", Code: "C"}
	_, lay, err := r.RenderImage(context.Background(), req, 1)
	if err != nil {
		t.Fatal(err)
	}
	if lay.CardValues[0] != req.Name {
		t.Errorf("name drawn as %q", lay.CardValues[0])
	}
	if lay.CardSizes[0] >= 24 {
		t.Errorf("name size = %v, want it reduced from 24", lay.CardSizes[0])
	}
	if lay.CardSizes[1] != 20 || lay.CardSizes[2] != 14 {
		t.Errorf("narrow columns resized: %v", lay.CardSizes)
	}
}

func TestFitText(t *testing.T) {
	face := testAssets(t).Faces(context.Background()).Get(assets.PTSansBold, 20).Face
	w := measure(face, "Ahmed Reshad").W
	if got := fitText(face, "Ahmed Reshad", w); got != "Ahmed Reshad" {
		t.Errorf("fitting text was changed to %q", got)
	}
	got := fitText(face, "Ahmed Reshad", w*0.6)
	if !strings.HasSuffix(got, "…") || measure(face, got).W > w*0.6 {
		t.Errorf("fitText = %q (%v wide), want a cut under %v", got, measure(face, got).W, w*0.6)
	}
	if got := fitText(face, "Ahmed Reshad", 1); got != "" {
		t.Errorf("fitText in 1 unit = %q, want empty", got)
	}
}

func TestRenderLayoutDoesNotOverlap(t *testing.T) {
	r := NewRenderer(Options{Assets: testAssets(t)})
	reqs := []ticket.Request{
		sampleRequest,
		{Name: "Mohammad Abdullah Al Mamun", Batch: "2001", Phone: "+880 1712 345 678", Code: "CMHS-2001-0042"},
		{Name: "", Batch: "", Phone: "", Code: "X"},
	}
	for _, req := range reqs {
		_, lay, err := r.RenderImage(context.Background(), req, 1)
		if err != nil {
			t.Fatalf("%q: %v", req.Name, err)
		}
		card, details := lay.IdentityCard, lay.Details
		if lay.CardTop < lay.TitleTop || card.Bounds.Overlaps(details.Bounds) {
			t.Errorf("%q: card %+v overlaps details %+v", req.Name, card.Bounds, details.Bounds)
		}
		if lay.GroupGap < minGroupGap {
			t.Errorf("%q: group gap %v below minimum", req.Name, lay.GroupGap)
		}
		if details.Bounds.MaxY() > TicketH-FooterH {
			t.Errorf("%q: details run into the footer: %+v", req.Name, details.Bounds)
		}
		for i := 1; i < len(card.Columns); i++ {
			prev, cur := card.Columns[i-1].Bounds, card.Columns[i].Bounds
			if prev.Overlaps(cur) {
				t.Errorf("%q: card columns %d and %d overlap", req.Name, i-1, i)
			}
			sep := card.Separators[i-1]
			if sep.X < prev.MaxX() || sep.MaxX() > cur.X {
				t.Errorf("%q: separator %d at %v is not between its columns", req.Name, i-1, sep.X)
			}
		}
	}
}

func TestCardFitsCenterColumn(t *testing.T) {
	r := NewRenderer(Options{Assets: testAssets(t)})
	_, lay, err := r.RenderImage(context.Background(), sampleRequest, 1)
	if err != nil {
		t.Fatal(err)
	}
	if got := lay.IdentityCard.Bounds.MaxX(); got > TicketW-RightW {
		t.Errorf("card ends at %v, past the QR column", got)
	}
	if got := lay.IdentityCard.Bounds.W; got < 470 {
		t.Errorf("card is %v wide, below its minimum", got)
	}
}

func TestMeasureMatchesDrawing(t *testing.T) {
	faces := testAssets(t).Faces(context.Background())
	dc := gg.NewContext(10, 10)
	for _, s := range []string{"Ahmed Reshad", "GUEST NAME", "+8801000000000", "CMHS Grand Iftar"} {
		face := faces.Get(assets.PTSansBold, 24).Face
		dc.SetFontFace(face)
		w, _ := dc.MeasureString(s)
		if got := measure(face, s).W; got != w {
			t.Errorf("measure(%q).W = %v, gg measures %v", s, got, w)
		}
	}
}
