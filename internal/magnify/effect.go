// Package magnify presents color transforms full-screen through the Windows
// Magnification API.
package magnify

import (
	"errors"

	"github.com/alex-vit/cvfilter/filter"
)

// ErrClosed is returned by Sink methods after Close.
var ErrClosed = errors.New("magnify: sink closed")

// colorEffect mirrors MAGCOLOREFFECT. Colors are row vectors multiplied on the
// left: [R G B A 1] · M.
type colorEffect [5][5]float32

// toEffect converts a column-vector transform into MAGCOLOREFFECT layout.
func toEffect(m filter.ColorTransform) colorEffect {
	var e colorEffect
	for i := 0; i < 4; i++ {
		for j := 0; j < 5; j++ {
			e[j][i] = float32(m[i][j])
		}
	}
	e[4][4] = 1
	return e
}

// Permissions reports that the Magnification API needs no user consent.
type Permissions struct{}

func (Permissions) HasPermission() bool     { return true }
func (Permissions) RequestPermission() bool { return true }
