// Package preview renders color transforms into image files. It is a surface
// sink for hosts without a live display, and the backend of cvfilter-preview.
package preview

import (
	"fmt"
	"image"
	"image/png"
	"log"
	"os"

	// Registered decoders for Load.
	_ "image/gif"
	_ "image/jpeg"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/alex-vit/cvfilter/filter"
	"golang.org/x/image/draw"
)

// Load decodes an image file and scales it down to at most maxWidth pixels
// wide. maxWidth <= 0 keeps the original size.
func Load(path string, maxWidth int) (*image.NRGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	src, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	log.Printf("preview: loaded %s (%s, %dx%d)", path, format, src.Bounds().Dx(), src.Bounds().Dy())
	return Fit(src, maxWidth), nil
}

// Fit converts src to NRGBA, scaling it to maxWidth when it is wider.
func Fit(src image.Image, maxWidth int) *image.NRGBA {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxWidth > 0 && w > maxWidth {
		h = max(h*maxWidth/w, 1)
		w = maxWidth
	}
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	if w == b.Dx() && h == b.Dy() {
		draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	} else {
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	}
	return dst
}

// Transform returns a copy of img with m applied to every pixel.
func Transform(img *image.NRGBA, m filter.ColorTransform) *image.NRGBA {
	b := img.Bounds()
	out := image.NewNRGBA(b)
	if m.IsIdentity() {
		draw.Draw(out, b, img, b.Min, draw.Src)
		return out
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			out.SetNRGBA(x, y, m.Apply(img.NRGBAAt(x, y)))
		}
	}
	return out
}

// WritePNG encodes img to path through a temporary file, so readers never
// see a partial image.
func WritePNG(path string, img image.Image) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}

// Sink writes the source image, filtered by the current transform, to a PNG
// file on every change. Remove writes the unfiltered source.
type Sink struct {
	src  *image.NRGBA
	path string
}

func NewSink(src *image.NRGBA, path string) *Sink {
	return &Sink{src: src, path: path}
}

func (s *Sink) Install(m filter.ColorTransform) error {
	return s.render(m)
}

func (s *Sink) Update(m filter.ColorTransform) error {
	return s.render(m)
}

func (s *Sink) Remove() error {
	return s.render(filter.Identity())
}

func (s *Sink) render(m filter.ColorTransform) error {
	if err := WritePNG(s.path, Transform(s.src, m)); err != nil {
		return fmt.Errorf("preview: %w", err)
	}
	log.Printf("preview: wrote %s", s.path)
	return nil
}
