package assets

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/disintegration/imaging"
	"github.com/golang/freetype/truetype"
	"golang.org/x/sync/singleflight"
)

// ErrNoSource is returned when a key is neither stored nor fetchable.
var ErrNoSource = errors.New("assets: no source for key")

func FontKey(name string) string { return "fonts/" + name + ".ttf" }

func ImageKey(url string) string {
	sum := md5.Sum([]byte(url))
	return "images/" + hex.EncodeToString(sum[:]) + ".png"
}

type Options struct {
	Store Store
	// Fetcher is consulted on a store miss. Nil keeps the cache offline.
	Fetcher Fetcher
	// FontURLs maps font names to download URLs; defaults to DefaultFontURLs.
	FontURLs map[string]string
	// RetryAfter is how long a failed key is not fetched again. Zero means
	// DefaultRetryAfter, negative retries on every call.
	RetryAfter time.Duration
	Logger     *slog.Logger
}

// DefaultRetryAfter keeps an unreachable asset host from stalling every
// render with fresh timeouts.
const DefaultRetryAfter = time.Minute

// Cache is safe for concurrent use.
type Cache struct {
	store    Store
	fetcher  Fetcher
	fontURLs map[string]string
	log      *slog.Logger

	group      singleflight.Group
	retryAfter time.Duration
	now        func() time.Time

	mu     sync.Mutex
	fonts  map[string]*truetype.Font
	failed map[string]time.Time
}

func New(opts Options) *Cache {
	c := &Cache{
		store:      opts.Store,
		fetcher:    opts.Fetcher,
		fontURLs:   opts.FontURLs,
		log:        opts.Logger,
		retryAfter: opts.RetryAfter,
		now:        time.Now,
		fonts:      map[string]*truetype.Font{},
		failed:     map[string]time.Time{},
	}
	if c.retryAfter == 0 {
		c.retryAfter = DefaultRetryAfter
	}
	if c.store == nil {
		c.store = NewMemStore()
	}
	if c.fontURLs == nil {
		c.fontURLs = DefaultFontURLs
	}
	if c.log == nil {
		c.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return c
}

// load returns the stored bytes for key, populating the store from url on a
// miss. validate may rewrite the fetched bytes (for example to normalise the
// encoding) and rejects payloads that are not usable.
func (c *Cache) load(ctx context.Context, key, url string, validate func([]byte) ([]byte, error)) ([]byte, error) {
	if b, err := c.store.Get(key); err == nil {
		return b, nil
	} else if !errors.Is(err, ErrNotFound) {
		c.log.Warn("asset store read failed", "key", key, "err", err)
	}
	if c.fetcher == nil || url == "" {
		return nil, ErrNoSource
	}
	if at, ok := c.failedAt(key); ok && c.now().Sub(at) < c.retryAfter {
		return nil, fmt.Errorf("%w: %s failed recently", ErrNoSource, url)
	}
	// The fetch outlives any one caller: a caller that gives up must not fail
	// the others waiting on the same key.
	fetchCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (any, error) {
		if b, err := c.store.Get(key); err == nil {
			return b, nil
		}
		raw, err := c.fetcher.Fetch(fetchCtx, url)
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", url, err)
		}
		b, err := validate(raw)
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", url, err)
		}
		if err := c.store.Put(key, b); err != nil {
			// still usable for this render
			c.log.Warn("asset store write failed", "key", key, "err", err)
		}
		c.log.Debug("asset fetched", "key", key, "url", url, "bytes", len(b))
		return b, nil
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			if !errors.Is(r.Err, context.Canceled) {
				c.mu.Lock()
				c.failed[key] = c.now()
				c.mu.Unlock()
			}
			return nil, r.Err
		}
		return r.Val.([]byte), nil
	}
}

func (c *Cache) failedAt(key string) (time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	at, ok := c.failed[key]
	return at, ok
}

// logMiss warns about a failed download once per retry window. Misses with
// no source to try are only logged at debug level.
func (c *Cache) logMiss(msg string, err error, args ...any) {
	args = append(args, "err", err)
	if errors.Is(err, ErrNoSource) || errors.Is(err, context.Canceled) {
		c.log.Debug(msg, args...)
		return
	}
	c.log.Warn(msg, args...)
}

func validateFont(b []byte) ([]byte, error) {
	if _, err := truetype.Parse(b); err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	return b, nil
}

func normalizeImage(b []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FontBytes returns the TTF data for a named font, or false if it can be
// neither found nor fetched.
func (c *Cache) FontBytes(ctx context.Context, name string) ([]byte, bool) {
	b, err := c.load(ctx, FontKey(name), c.fontURLs[name], validateFont)
	if err != nil {
		c.logMiss("font unavailable", err, "font", name)
		return nil, false
	}
	return b, true
}

// ImageBytes returns the cached PNG bytes for url.
func (c *Cache) ImageBytes(ctx context.Context, url string) ([]byte, bool) {
	b, err := c.load(ctx, ImageKey(url), url, normalizeImage)
	if err != nil {
		c.logMiss("image unavailable", err, "url", url)
		return nil, false
	}
	return b, true
}

// ResolveImage decodes the bitmap behind url. A false result means the layer
// using it should be skipped.
func (c *Cache) ResolveImage(ctx context.Context, url string) (image.Image, bool) {
	b, ok := c.ImageBytes(ctx, url)
	if !ok {
		return nil, false
	}
	img, err := imaging.Decode(bytes.NewReader(b))
	if err != nil {
		c.log.Warn("cached image is corrupt", "url", url, "err", err)
		return nil, false
	}
	return img, true
}

// parsedFont returns the parsed outline for name, or false when only the
// bundled fallback is available.
func (c *Cache) parsedFont(ctx context.Context, name string) (*truetype.Font, bool) {
	c.mu.Lock()
	f, ok := c.fonts[name]
	c.mu.Unlock()
	if ok {
		return f, true
	}
	b, ok := c.FontBytes(ctx, name)
	if !ok {
		return nil, false
	}
	f, err := truetype.Parse(b)
	if err != nil {
		c.log.Warn("cached font is corrupt", "font", name, "err", err)
		return nil, false
	}
	c.mu.Lock()
	c.fonts[name] = f
	c.mu.Unlock()
	return f, true
}

// WarmReport says which assets ended up available after Warm.
type WarmReport struct {
	Fonts  map[string]bool `json:"fonts"`
	Images map[string]bool `json:"images"`
}

// Warm resolves every known font and the given image URLs ahead of rendering.
func (c *Cache) Warm(ctx context.Context, imageURLs []string) WarmReport {
	r := WarmReport{Fonts: map[string]bool{}, Images: map[string]bool{}}
	for name := range c.fontURLs {
		_, r.Fonts[name] = c.parsedFont(ctx, name)
	}
	for _, u := range imageURLs {
		_, r.Images[u] = c.ImageBytes(ctx, u)
	}
	return r
}
