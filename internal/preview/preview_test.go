package preview

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/alex-vit/cvfilter/filter"
)

func TestPalette(t *testing.T) {
	grid := Palette(12, 4)
	if len(grid) != 4 || len(grid[0]) != 12 {
		t.Fatalf("Palette(12, 4) = %dx%d", len(grid[0]), len(grid))
	}
	if got, want := grid[0][0], (color.NRGBA{R: 255, G: 38, B: 38, A: 255}); got != want {
		t.Errorf("top-left = %v, want %v", got, want)
	}
	gray := grid[3]
	if gray[0] != (color.NRGBA{A: 255}) || gray[11] != (color.NRGBA{255, 255, 255, 255}) {
		t.Errorf("gray ramp ends = %v, %v", gray[0], gray[11])
	}
	for _, c := range gray {
		if c.R != c.G || c.G != c.B {
			t.Errorf("gray ramp has colored cell %v", c)
		}
	}
	if Palette(0, 3) != nil {
		t.Error("Palette(0, 3) should be nil")
	}
}

func TestTransform(t *testing.T) {
	src := Chart(6, 3, 2)

	t.Run("identity copies", func(t *testing.T) {
		out := Transform(src, filter.Identity())
		if &out.Pix[0] == &src.Pix[0] {
			t.Fatal("Transform returned the source buffer")
		}
		if string(out.Pix) != string(src.Pix) {
			t.Error("identity transform changed pixels")
		}
	})

	t.Run("sub-image keeps its pixels", func(t *testing.T) {
		big := Chart(3, 2, 2) // 6x4
		sub := big.SubImage(image.Rect(2, 2, 4, 4)).(*image.NRGBA)
		for _, m := range []filter.ColorTransform{filter.Identity(), filter.BuildMatrix(filter.Tritanopia, 0.5)} {
			out := Transform(sub, m)
			if out.Bounds() != sub.Bounds() {
				t.Fatalf("bounds = %v, want %v", out.Bounds(), sub.Bounds())
			}
			for y := 2; y < 4; y++ {
				for x := 2; x < 4; x++ {
					if got, want := out.NRGBAAt(x, y), m.Apply(sub.NRGBAAt(x, y)); got != want {
						t.Errorf("Transform at (%d,%d) = %v, want %v", x, y, got, want)
					}
				}
			}
		}
	})

	t.Run("achromatopsia is gray", func(t *testing.T) {
		out := Transform(src, filter.BuildMatrix(filter.Achromatopsia, 1))
		b := out.Bounds()
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				c := out.NRGBAAt(x, y)
				if c.R != c.G || c.G != c.B || c.A != 255 {
					t.Fatalf("pixel (%d,%d) = %v, want gray", x, y, c)
				}
			}
		}
	})
}

func TestFit(t *testing.T) {
	src := Chart(10, 5, 20) // 200x100
	if got := Fit(src, 50).Bounds(); got != image.Rect(0, 0, 50, 25) {
		t.Errorf("Fit(200x100, 50) = %v", got)
	}
	if got := Fit(src, 0).Bounds(); got != image.Rect(0, 0, 200, 100) {
		t.Errorf("Fit(200x100, 0) = %v", got)
	}
	if got := Fit(src, 400).Bounds(); got != image.Rect(0, 0, 200, 100) {
		t.Errorf("Fit(200x100, 400) = %v", got)
	}
}

func TestSink(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.png")
	src := Chart(4, 2, 1)
	s := NewSink(src, path)

	if err := s.Install(filter.BuildMatrix(filter.Achromatopsia, 1)); err != nil {
		t.Fatal(err)
	}
	got := decode(t, path)
	if c := color.NRGBAModel.Convert(got.At(0, 0)).(color.NRGBA); c.R != c.G || c.G != c.B {
		t.Errorf("installed pixel %v not gray", c)
	}

	if err := s.Remove(); err != nil {
		t.Fatal(err)
	}
	got = decode(t, path)
	if c := color.NRGBAModel.Convert(got.At(0, 0)).(color.NRGBA); c != src.NRGBAAt(0, 0) {
		t.Errorf("removed pixel %v, want source %v", c, src.NRGBAAt(0, 0))
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temporary file left behind")
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chart.png")
	if err := WritePNG(path, Chart(8, 4, 10)); err != nil {
		t.Fatal(err)
	}
	img, err := Load(path, 40)
	if err != nil {
		t.Fatal(err)
	}
	if got := img.Bounds(); got != image.Rect(0, 0, 40, 20) {
		t.Errorf("Load bounds = %v", got)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.png"), 0); err == nil {
		t.Error("Load of missing file succeeded")
	}
}

func decode(t *testing.T, path string) image.Image {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	return img
}
