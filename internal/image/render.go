package imagepkg

import (
	"context"
	"fmt"
	"image"
	"image/draw"
	"io"
	"log/slog"
	"math"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"

	"github.com/youruser/ticketapp/internal/assets"
	"github.com/youruser/ticketapp/internal/ticket"
)

// Assets supplies the fonts and bitmaps a render draws with.
type Assets interface {
	ResolveImage(ctx context.Context, url string) (image.Image, bool)
	Faces(ctx context.Context) *assets.FaceSet
}

type Options struct {
	Assets Assets
	// Scale is the default output scale; 0 means 1.
	Scale  float64
	Logger *slog.Logger
}

// Renderer turns ticket requests into PNG images. It holds no per-render
// state and is safe for concurrent use as long as its Assets is.
type Renderer struct {
	assets Assets
	scale  float64
	log    *slog.Logger
}

func NewRenderer(opts Options) *Renderer {
	r := &Renderer{assets: opts.Assets, scale: opts.Scale, log: opts.Logger}
	if r.assets == nil {
		r.assets = assets.New(assets.Options{})
	}
	if r.scale == 0 {
		r.scale = 1
	}
	if r.log == nil {
		r.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return r
}

func (r *Renderer) Scale() float64 { return r.scale }

// StageNames lists the draw order.
func (r *Renderer) StageNames() []string {
	d := &ticketDesign{}
	return d.compositor().Names()
}

// Render renders req at the renderer's default scale and encodes it as PNG.
func (r *Renderer) Render(ctx context.Context, req ticket.Request) ([]byte, error) {
	return r.RenderScaled(ctx, req, r.scale)
}

func (r *Renderer) RenderScaled(ctx context.Context, req ticket.Request, scale float64) ([]byte, error) {
	img, _, err := r.RenderImage(ctx, req, scale)
	if err != nil {
		return nil, err
	}
	b, err := EncodePNG(img)
	if err != nil {
		return nil, fmt.Errorf("encode ticket %s: %w", req.Code, err)
	}
	return b, nil
}

// RenderImage renders req and reports where the design put everything.
// Missing decorative assets are not errors; they show up in Layout.Skipped.
func (r *Renderer) RenderImage(ctx context.Context, req ticket.Request, scale float64) (*image.NRGBA, *Layout, error) {
	req = req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, nil, err
	}
	if math.IsNaN(scale) || scale <= 0 || scale > 8 {
		return nil, nil, fmt.Errorf("%w: scale %v out of range", ticket.ErrInvalidRequest, scale)
	}

	lay := &Layout{Scale: scale}
	s := &Scene{
		Ctx:         ctx,
		Canvas:      image.NewRGBA(image.Rect(0, 0, TicketW, TicketH)),
		Req:         req,
		Faces:       r.assets.Faces(ctx),
		Assets:      r.assets,
		Layout:      lay,
		Log:         r.log,
		DeferFooter: scale != 1,
	}
	d := &ticketDesign{}
	if err := d.compositor().Run(s); err != nil {
		return nil, nil, fmt.Errorf("render ticket %s: %w", req.Code, err)
	}

	clipped := clipTo(s.Canvas, roundedMask(TicketW, TicketH, CornerR, 0xff))
	out := Flatten(clipped, Matte)
	if scale != 1 {
		size := OutputSize(scale)
		up := toRGBA(Upscale(out, size.X, size.Y, DefaultSharpen))
		footer := image.NewRGBA(up.Bounds())
		dc := gg.NewContextForRGBA(footer)
		designFooter.DrawBand(dc, scale)
		designFooter.DrawText(dc, s.Faces, scale)
		footer = clipTo(footer, roundedMask(size.X, size.Y, CornerR*scale, 0xff))
		draw.Draw(up, up.Bounds(), footer, image.Point{}, draw.Over)
		out = imaging.Clone(up)
	}
	lay.Size = out.Bounds().Size()
	if len(lay.Skipped) > 0 {
		r.log.Debug("ticket rendered without some decorations", "code", req.Code, "skipped", lay.Skipped)
	}
	return out, lay, nil
}
