package icon

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/png"
	"math"

	"github.com/alex-vit/cvfilter/filter"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// Generate returns ICO bytes (16+32 px) of a color wheel seen through m.
func Generate(m filter.ColorTransform) []byte {
	sizes := []int{16, 32}
	var pngs [][]byte
	for _, size := range sizes {
		var buf bytes.Buffer
		png.Encode(&buf, wheelImage(size, m))
		pngs = append(pngs, buf.Bytes())
	}
	return buildICO(sizes, pngs)
}

// wheelImage draws a hue wheel (hue by angle, saturation by radius) with m
// applied to every pixel. No anti-aliasing; pixels are opaque or empty.
func wheelImage(size int, m filter.ColorTransform) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))

	center := float64(size) / 2
	radius := center - 0.5

	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx := float64(x) + 0.5 - center
			dy := float64(y) + 0.5 - center
			dist := math.Hypot(dx, dy)
			if dist > radius {
				continue
			}
			img.SetNRGBA(x, y, m.Apply(wheelColor(dx, dy, dist/radius)))
		}
	}
	return img
}

// wheelColor returns the unfiltered wheel color at offset (dx, dy); hue 0
// (red) points up.
func wheelColor(dx, dy, sat float64) color.NRGBA {
	hue := math.Mod(math.Atan2(dx, -dy)*180/math.Pi+360, 360)
	r, g, b := colorful.Hsv(hue, sat, 1).Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 0xFF}
}

// buildICO assembles an ICO file from PNG-encoded images.
func buildICO(sizes []int, pngs [][]byte) []byte {
	n := len(sizes)
	dataOffset := 6 + n*16

	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, [3]uint16{0, 1, uint16(n)})

	offset := uint32(dataOffset)
	for i, size := range sizes {
		w := uint8(size)
		if size >= 256 {
			w = 0
		}
		buf.Write([]byte{w, w, 0, 0})
		binary.Write(&buf, binary.LittleEndian, uint16(1))
		binary.Write(&buf, binary.LittleEndian, uint16(32))
		binary.Write(&buf, binary.LittleEndian, uint32(len(pngs[i])))
		binary.Write(&buf, binary.LittleEndian, offset)
		offset += uint32(len(pngs[i]))
	}

	for _, p := range pngs {
		buf.Write(p)
	}
	return buf.Bytes()
}
