package imagepkg

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	qrcode "github.com/skip2/go-qrcode"
	"golang.org/x/image/draw"
)

// ErrQREncode is returned when a payload cannot be encoded as a QR symbol.
var ErrQREncode = errors.New("qr encode failed")

// QRLevel is the recovery level every ticket QR uses.
const QRLevel = qrcode.Low

// qrQuietModules is the light margin kept around the symbol, in modules.
const qrQuietModules = 1

// QRMatrix encodes payload verbatim and returns the module grid, true for
// dark, including a one-module quiet zone.
func QRMatrix(payload string) ([][]bool, error) {
	if payload == "" {
		return nil, fmt.Errorf("%w: empty payload", ErrQREncode)
	}
	q, err := qrcode.New(payload, QRLevel)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQREncode, err)
	}
	return trimQuietZone(q.Bitmap(), qrQuietModules), nil
}

// trimQuietZone crops bm to its dark modules and pads it back by quiet
// modules. Finder patterns guarantee the symbol's outer rows and columns
// contain dark modules.
func trimQuietZone(bm [][]bool, quiet int) [][]bool {
	minX, minY, maxX, maxY := len(bm), len(bm), -1, -1
	for y, row := range bm {
		for x, dark := range row {
			if dark {
				minX, minY = min(minX, x), min(minY, y)
				maxX, maxY = max(maxX, x), max(maxY, y)
			}
		}
	}
	if maxX < 0 {
		return bm
	}
	n := max(maxX-minX, maxY-minY) + 1 + 2*quiet
	out := make([][]bool, n)
	for y := range out {
		out[y] = make([]bool, n)
		sy := y - quiet + minY
		if sy < minY || sy > maxY {
			continue
		}
		for x := range out[y] {
			sx := x - quiet + minX
			if sx >= minX && sx <= maxX {
				out[y][x] = bm[sy][sx]
			}
		}
	}
	return out
}

// RasterizeQR draws m as black on white at size×size pixels. Module edges
// fall on whole pixels, so widths differ by at most one pixel.
func RasterizeQR(m [][]bool, size int) *image.NRGBA {
	img := imaging.New(size, size, color.White)
	n := len(m)
	if n == 0 {
		return img
	}
	edge := func(i int) int { return i * size / n }
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			if !m[y][x] {
				continue
			}
			r := image.Rect(edge(x), edge(y), edge(x+1), edge(y+1))
			draw.Draw(img, r, image.Black, image.Point{}, draw.Src)
		}
	}
	return img
}

// GenerateQRImage returns the bare QR for text at size pixels.
func GenerateQRImage(text string, size int) (*image.NRGBA, error) {
	m, err := QRMatrix(text)
	if err != nil {
		return nil, err
	}
	return RasterizeQR(m, size), nil
}

// GenerateQRPNG returns PNG bytes of a QR code for the given text.
func GenerateQRPNG(text string, size int) ([]byte, error) {
	img, err := GenerateQRImage(text, size)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// QR panel frame, in pixels.
const (
	QRPadding     = 12 // white margin between frame and symbol
	QRBorder      = 2  // tinted rim
	qrOuterRadius = 16
	qrInnerRadius = 14
)

var qrBorderColor = rgba(166, 213, 253, 100)

// QRPanelSize is the side of the panel BuildQRPanel returns for a symbol of
// size pixels.
func QRPanelSize(size int) int { return size + 2*QRPadding + 2*QRBorder }

// BuildQRPanel renders payload as a size×size QR inside a rounded frame: a
// translucent tinted rim around a white card. The payload is never shortened.
func BuildQRPanel(payload string, size int) (*image.NRGBA, error) {
	qr, err := GenerateQRImage(payload, size)
	if err != nil {
		return nil, err
	}
	block := QRPanelSize(size)
	dc := gg.NewContext(block, block)
	dc.SetColor(qrBorderColor)
	dc.DrawRoundedRectangle(0, 0, float64(block), float64(block), qrOuterRadius)
	dc.Fill()
	inner := float64(block - 2*QRBorder)
	dc.SetColor(color.White)
	dc.DrawRoundedRectangle(QRBorder, QRBorder, inner, inner, qrInnerRadius)
	dc.Fill()

	panel := imaging.Clone(dc.Image())
	at := image.Pt(QRBorder+QRPadding, QRBorder+QRPadding)
	draw.Draw(panel, qr.Bounds().Add(at), qr, image.Point{}, draw.Src)
	return panel, nil
}
