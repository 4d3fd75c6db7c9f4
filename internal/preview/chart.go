package preview

import (
	"image"
	"image/color"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Palette returns a rows×cols grid of colors: hue sweeps left to right,
// brightness falls from top to bottom. The last row is a gray ramp.
func Palette(cols, rows int) [][]color.NRGBA {
	if cols < 1 || rows < 1 {
		return nil
	}
	grid := make([][]color.NRGBA, rows)
	for y := 0; y < rows; y++ {
		grid[y] = make([]color.NRGBA, cols)
		for x := 0; x < cols; x++ {
			var c colorful.Color
			if y == rows-1 && rows > 1 {
				c = colorful.Hsv(0, 0, float64(x)/float64(max(cols-1, 1)))
			} else {
				hue := 360 * float64(x) / float64(cols)
				val := 1 - 0.6*float64(y)/float64(max(rows-1, 1))
				c = colorful.Hsv(hue, 0.85, val)
			}
			r, g, b := c.Clamped().RGB255()
			grid[y][x] = color.NRGBA{R: r, G: g, B: b, A: 0xFF}
		}
	}
	return grid
}

// Chart renders Palette(cols, rows) as blocks of cell×cell pixels.
func Chart(cols, rows, cell int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, cols*cell, rows*cell))
	for y, row := range Palette(cols, rows) {
		for x, c := range row {
			for py := y * cell; py < (y+1)*cell; py++ {
				for px := x * cell; px < (x+1)*cell; px++ {
					img.SetNRGBA(px, py, c)
				}
			}
		}
	}
	return img
}
