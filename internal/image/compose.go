package imagepkg

import (
	"context"
	"fmt"
	"image"
	"log/slog"

	"golang.org/x/image/draw"

	"github.com/youruser/ticketapp/internal/assets"
	"github.com/youruser/ticketapp/internal/ticket"
)

// Scene is the state one render threads through its stages.
type Scene struct {
	Ctx    context.Context
	Canvas *image.RGBA
	Req    ticket.Request
	Faces  *assets.FaceSet
	Assets Assets
	Layout *Layout
	Log    *slog.Logger
	// DeferFooter leaves the footer band and text to the output pipeline,
	// which draws them at the output resolution.
	DeferFooter bool
}

// Stage is one step of the draw order. Stages run strictly in sequence.
type Stage interface {
	Name() string
	Apply(s *Scene) error
}

// LayerFunc builds an independent layer and where it goes on the canvas.
// ok=false skips the layer.
type LayerFunc func(s *Scene) (img image.Image, at image.Point, ok bool, err error)

type layerStage struct {
	name  string
	build LayerFunc
}

// Layer returns a stage that composites the built image over the canvas.
func Layer(name string, build LayerFunc) Stage { return layerStage{name, build} }

func (l layerStage) Name() string { return l.name }

func (l layerStage) Apply(s *Scene) error {
	img, at, ok, err := l.build(s)
	if err != nil {
		return err
	}
	if !ok {
		s.Layout.Skipped = append(s.Layout.Skipped, l.name)
		return nil
	}
	drawOver(s.Canvas, img, at)
	return nil
}

type paintStage struct {
	name  string
	paint func(s *Scene) error
}

// Paint returns a stage that draws directly on the canvas. Text and glass
// panels read what is already there, so they cannot be independent layers.
func Paint(name string, paint func(s *Scene) error) Stage { return paintStage{name, paint} }

func (p paintStage) Name() string         { return p.name }
func (p paintStage) Apply(s *Scene) error { return p.paint(s) }

// Compositor runs its stages over one canvas in order.
type Compositor struct {
	Stages []Stage
}

func (c Compositor) Names() []string {
	names := make([]string, len(c.Stages))
	for i, st := range c.Stages {
		names[i] = st.Name()
	}
	return names
}

func (c Compositor) Run(s *Scene) error {
	for _, st := range c.Stages {
		if err := st.Apply(s); err != nil {
			return fmt.Errorf("stage %s: %w", st.Name(), err)
		}
	}
	return nil
}

func drawOver(dst *image.RGBA, src image.Image, at image.Point) {
	b := src.Bounds()
	draw.Draw(dst, b.Sub(b.Min).Add(at), src, b.Min, draw.Over)
}

// drawMasked composites src over dst through mask, all aligned at the origin.
func drawMasked(dst *image.RGBA, src, mask image.Image) {
	draw.DrawMask(dst, dst.Bounds(), src, image.Point{}, mask, image.Point{}, draw.Over)
}

// clipTo returns src with its alpha multiplied by mask.
func clipTo(src *image.RGBA, mask image.Image) *image.RGBA {
	out := image.NewRGBA(src.Bounds())
	draw.DrawMask(out, out.Bounds(), src, src.Bounds().Min, mask, image.Point{}, draw.Src)
	return out
}
