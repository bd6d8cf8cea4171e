package imagepkg

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"
)

// OutputSize is the pixel size of a ticket rendered at scale. Each side is
// rounded half away from zero.
func OutputSize(scale float64) image.Point {
	return image.Pt(int(math.Round(TicketW*scale)), int(math.Round(TicketH*scale)))
}

// Flatten composites img over an opaque matte so translucent edges blend
// instead of losing their alpha.
func Flatten(img image.Image, matte color.NRGBA) *image.NRGBA {
	b := img.Bounds()
	out := imaging.New(b.Dx(), b.Dy(), withAlpha(matte, 0xff))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Over)
	return out
}

// UnsharpMask sharpens by adding Amount times the difference between the
// image and its Gaussian blur, for differences of at least Threshold.
type UnsharpMask struct {
	Sigma     float64
	Amount    float64
	Threshold int
}

// DefaultSharpen offsets the softness of a Lanczos upscale.
var DefaultSharpen = UnsharpMask{Sigma: 1.2, Amount: 1.8, Threshold: 3}

func (u UnsharpMask) Apply(img *image.NRGBA) *image.NRGBA {
	src := imaging.Clone(img)
	blurred := imaging.Blur(src, u.Sigma)
	out := imaging.Clone(src)
	for i := 0; i < len(out.Pix); i += 4 {
		for c := 0; c < 3; c++ {
			o := int(src.Pix[i+c])
			d := o - int(blurred.Pix[i+c])
			if d < u.Threshold && -d < u.Threshold {
				continue
			}
			v := o + int(math.Round(float64(d)*u.Amount))
			out.Pix[i+c] = uint8(min(max(v, 0), 255))
		}
	}
	return out
}

// Upscale resamples img to w×h with a Lanczos filter and sharpens the
// result. It returns img unchanged when the size already matches.
func Upscale(img *image.NRGBA, w, h int, sharpen UnsharpMask) *image.NRGBA {
	if img.Bounds().Dx() == w && img.Bounds().Dy() == h {
		return img
	}
	return sharpen.Apply(imaging.Resize(img, w, h, imaging.Lanczos))
}

// EncodePNG encodes img losslessly.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	err := imaging.Encode(&buf, img, imaging.PNG, imaging.PNGCompressionLevel(png.DefaultCompression))
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func toRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out
}
