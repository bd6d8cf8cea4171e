package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/youruser/ticketapp/internal/assets"
	"github.com/youruser/ticketapp/internal/export"
	"github.com/youruser/ticketapp/internal/guests"
	imagepkg "github.com/youruser/ticketapp/internal/image"
	"github.com/youruser/ticketapp/internal/ticket"
)

// Warmer prefetches assets ahead of the first render.
type Warmer interface {
	Warm(ctx context.Context, imageURLs []string) assets.WarmReport
}

type Handler struct {
	Renderer *imagepkg.Renderer
	Assets   Warmer
	// DataDir holds the guest lists used by the export endpoint.
	DataDir string
	Log     *slog.Logger
}

func (h *Handler) logger() *slog.Logger {
	if h.Log == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return h.Log
}

// QR size bounds, in pixels.
const (
	defaultQRSize = 400
	minQRSize     = 21
	maxQRSize     = 2048
)

// statusFor maps render errors to HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, ticket.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, imagepkg.ErrLayoutOverflow), errors.Is(err, imagepkg.ErrQREncode):
		return http.StatusUnprocessableEntity
	case errors.Is(err, guests.ErrNoGuestList):
		return http.StatusNotFound
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func abortWithError(c *gin.Context, status int, err error) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// qr returns a bare QR PNG of the "text" query param.
func (h *Handler) qr(c *gin.Context) {
	text := c.Query("text")
	if text == "" {
		abortWithError(c, http.StatusBadRequest, errors.New("text is required"))
		return
	}
	size := defaultQRSize
	if s := c.Query("size"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < minQRSize || v > maxQRSize {
			abortWithError(c, http.StatusBadRequest, fmt.Errorf("size must be an integer in [%d, %d]", minQRSize, maxQRSize))
			return
		}
		size = v
	}
	b, err := imagepkg.GenerateQRPNG(text, size)
	if err != nil {
		abortWithError(c, statusFor(err), err)
		return
	}
	c.Data(http.StatusOK, "image/png", b)
}

// ticketImage renders the posted guest as a PNG. ?scale= overrides the
// renderer's output scale.
func (h *Handler) ticketImage(c *gin.Context) {
	var req ticket.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, err)
		return
	}
	scale := h.Renderer.Scale()
	if s := c.Query("scale"); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, fmt.Errorf("scale: %w", err))
			return
		}
		scale = v
	}
	b, err := h.Renderer.RenderScaled(c.Request.Context(), req, scale)
	if err != nil {
		abortWithError(c, statusFor(err), err)
		return
	}
	name := req.Normalize().FileName()
	c.Header("Content-Disposition", `inline; filename="`+name+`"`)
	c.Data(http.StatusOK, "image/png", b)
}

// exportTickets zips tickets for the guests in DataDir matching the posted
// filter. An empty body exports everyone.
func (h *Handler) exportTickets(c *gin.Context) {
	var opt guests.FilterOptions
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&opt); err != nil && !errors.Is(err, io.EOF) {
			abortWithError(c, http.StatusBadRequest, err)
			return
		}
	}
	all, err := guests.LoadGuestsFromDataDir(h.DataDir)
	if err != nil {
		abortWithError(c, statusFor(err), err)
		return
	}
	list := guests.Filter(all, opt)

	var buf bytes.Buffer
	sum, err := export.WriteTicketsZip(c.Request.Context(), &buf, list, h.Renderer.Render, h.logger())
	if err != nil {
		abortWithError(c, statusFor(err), err)
		return
	}
	h.logger().Info("tickets exported", "guests", len(list), "written", sum.Written, "failed", sum.Failed)
	c.Header("Content-Disposition", `attachment; filename="tickets.zip"`)
	c.Header("X-Tickets-Written", strconv.Itoa(sum.Written))
	c.Header("X-Tickets-Failed", strconv.Itoa(sum.Failed))
	c.Data(http.StatusOK, "application/zip", buf.Bytes())
}

func (h *Handler) warmAssets(c *gin.Context) {
	if h.Assets == nil {
		abortWithError(c, http.StatusServiceUnavailable, errors.New("no asset cache configured"))
		return
	}
	c.JSON(http.StatusOK, h.Assets.Warm(c.Request.Context(), assets.DefaultImageURLs))
}
