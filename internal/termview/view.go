// Package termview draws a swatch grid in the terminal, showing each color
// next to its filtered counterpart. A View is a filter.Sink.
package termview

import (
	"image/color"

	"github.com/alex-vit/cvfilter/filter"
	"github.com/alex-vit/cvfilter/internal/preview"
	"github.com/gdamore/tcell/v2"
)

// Screen is the part of tcell.Screen the view draws on.
type Screen interface {
	SetContent(x, y int, primary rune, combining []rune, style tcell.Style)
	Size() (width, height int)
	Show()
}

const cellWidth = 2

// View renders a palette twice: unfiltered on top, filtered below.
type View struct {
	screen  Screen
	palette [][]color.NRGBA
	m       filter.ColorTransform
	status  string
}

// New sizes the palette to the screen.
func New(s Screen) *View {
	w, h := s.Size()
	cols := max(w/cellWidth, 1)
	rows := max((h-3)/2, 1)
	return &View{
		screen:  s,
		palette: preview.Palette(cols, rows),
		m:       filter.Identity(),
	}
}

// Resize rebuilds the palette for a new screen size and redraws.
func (v *View) Resize() {
	status := v.status
	m := v.m
	*v = *New(v.screen)
	v.status, v.m = status, m
	v.Draw()
}

func (v *View) Install(m filter.ColorTransform) error {
	v.m = m
	v.Draw()
	return nil
}

func (v *View) Update(m filter.ColorTransform) error {
	v.m = m
	v.Draw()
	return nil
}

func (v *View) Remove() error {
	v.m = filter.Identity()
	v.Draw()
	return nil
}

// SetStatus sets the text on the bottom line.
func (v *View) SetStatus(s string) {
	v.status = s
	v.Draw()
}

// Draw paints the whole screen and shows it.
func (v *View) Draw() {
	w, h := v.screen.Size()
	rows := len(v.palette)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v.screen.SetContent(x, y, ' ', nil, tcell.StyleDefault)
		}
	}

	for y, row := range v.palette {
		for x, c := range row {
			v.fill(x, y, c)
			v.fill(x, rows+1+y, v.m.Apply(c))
		}
	}

	line := h - 1
	for i, r := range []rune(v.status) {
		if i >= w {
			break
		}
		v.screen.SetContent(i, line, r, nil, tcell.StyleDefault)
	}
	v.screen.Show()
}

func (v *View) fill(col, y int, c color.NRGBA) {
	st := tcell.StyleDefault.Background(cellColor(c))
	for i := 0; i < cellWidth; i++ {
		v.screen.SetContent(col*cellWidth+i, y, ' ', nil, st)
	}
}

func cellColor(c color.NRGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}
