package magnify

import (
	"testing"

	"github.com/alex-vit/cvfilter/filter"
)

func TestToEffectIdentity(t *testing.T) {
	e := toEffect(filter.Identity())
	for i := range e {
		for j := range e[i] {
			want := float32(0)
			if i == j {
				want = 1
			}
			if e[i][j] != want {
				t.Errorf("effect[%d][%d] = %v, want %v", i, j, e[i][j], want)
			}
		}
	}
}

func TestToEffectTransposed(t *testing.T) {
	// Grayscale as documented for MAGCOLOREFFECT: each input channel's row
	// holds its weight in every output column.
	e := toEffect(filter.BuildMatrix(filter.Achromatopsia, 1))
	rows := [][3]float32{
		{0.299, 0.299, 0.299},
		{0.587, 0.587, 0.587},
		{0.114, 0.114, 0.114},
	}
	for i, want := range rows {
		if got := [3]float32{e[i][0], e[i][1], e[i][2]}; got != want {
			t.Errorf("row %d = %v, want %v", i, got, want)
		}
	}

	p := toEffect(filter.BuildMatrix(filter.Protanopia, 1))
	// Red output takes 2.02344 of green input.
	if p[1][0] != float32(2.02344) || p[0][1] != 0 {
		t.Errorf("protanopia effect = %v", p)
	}
	if p[3][3] != 1 || p[4][4] != 1 {
		t.Errorf("alpha/translation diagonal = %v, %v", p[3][3], p[4][4])
	}
}

func TestPermissions(t *testing.T) {
	var p Permissions
	if !p.HasPermission() || !p.RequestPermission() {
		t.Error("magnification needs no permission")
	}
}
