package assets

import (
	"context"
	"strings"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
)

// FontHandle is a named font bound to a face at one pixel size.
type FontHandle struct {
	Name string
	Size float64
	Face font.Face
	// Fallback is set when Face comes from a bundled Go font rather than
	// the named font.
	Fallback bool
}

var (
	goRegular = sync.OnceValue(func() *truetype.Font { return mustParse(goregular.TTF) })
	goBold    = sync.OnceValue(func() *truetype.Font { return mustParse(gobold.TTF) })
	goItalic  = sync.OnceValue(func() *truetype.Font { return mustParse(goitalic.TTF) })
)

func mustParse(b []byte) *truetype.Font {
	f, err := truetype.Parse(b)
	if err != nil {
		panic(err)
	}
	return f
}

// fallbackFont picks the bundled face closest in style to name.
func fallbackFont(name string) *truetype.Font {
	n := strings.ToLower(name)
	switch {
	case strings.Contains(n, "italic"):
		return goItalic()
	case strings.Contains(n, "bold"), strings.Contains(n, "black"):
		return goBold()
	default:
		return goRegular()
	}
}

func newFace(f *truetype.Font, size float64) font.Face {
	return truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

// ResolveFont returns a face for name at size pixels. It never fails: when the
// named font is unavailable a bundled Go font of similar style is used.
func (c *Cache) ResolveFont(ctx context.Context, name string, size float64) FontHandle {
	if f, ok := c.parsedFont(ctx, name); ok {
		return FontHandle{Name: name, Size: size, Face: newFace(f, size)}
	}
	c.log.Debug("using fallback font", "font", name, "size", size)
	return FontHandle{Name: name, Size: size, Face: newFace(fallbackFont(name), size), Fallback: true}
}

type faceKey struct {
	name string
	size float64
}

// FaceSet memoises faces per (name, size) for a single render. Faces hold
// glyph buffers, so a FaceSet must not be shared between goroutines.
type FaceSet struct {
	ctx   context.Context
	cache *Cache
	faces map[faceKey]FontHandle
}

func (c *Cache) Faces(ctx context.Context) *FaceSet {
	return &FaceSet{ctx: ctx, cache: c, faces: map[faceKey]FontHandle{}}
}

func (s *FaceSet) Get(name string, size float64) FontHandle {
	k := faceKey{name, size}
	if h, ok := s.faces[k]; ok {
		return h
	}
	h := s.cache.ResolveFont(s.ctx, name, size)
	s.faces[k] = h
	return h
}
