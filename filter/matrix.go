// Package filter builds color-vision deficiency transforms and manages the
// single filter session that drives a rendering surface.
package filter

import (
	"image/color"
	"math"

	"golang.org/x/image/math/f64"
)

// ColorTransform is an affine color matrix in row-major 4x5 layout:
// [R' G' B' A']ᵀ = M · [R G B A 1]ᵀ. Alpha always passes through unchanged.
type ColorTransform [4][5]float64

var identity3 = f64.Mat3{
	1, 0, 0,
	0, 1, 0,
	0, 0, 1,
}

// LMS-derived approximations, applied as out = M · in over RGB.
var baseMatrices = map[Deficiency]f64.Mat3{
	None: identity3,
	Protanopia: {
		0, 2.02344, -2.52581,
		0, 1, 0,
		0, 0, 1,
	},
	Deuteranopia: {
		1, 0, 0,
		0.494207, 0, 1.24827,
		0, 0, 1,
	},
	Tritanopia: {
		1, 0, 0,
		0, 1, 0,
		-0.395913, 0.801109, 0,
	},
	Achromatopsia: {
		0.299, 0.587, 0.114,
		0.299, 0.587, 0.114,
		0.299, 0.587, 0.114,
	},
}

// Base returns the full-strength RGB matrix for d. Unknown values yield the
// identity.
func Base(d Deficiency) f64.Mat3 {
	if m, ok := baseMatrices[d]; ok {
		return m
	}
	return identity3
}

// Identity returns the transform that leaves every color unchanged.
func Identity() ColorTransform {
	return fromRGB(identity3)
}

// BuildMatrix blends the base matrix for d with the identity by intensity.
// The intensity is not clamped: values past 1 extrapolate beyond the base
// matrix and negative values move away from it.
func BuildMatrix(d Deficiency, intensity float64) ColorTransform {
	base := Base(d)
	var rgb f64.Mat3
	for i := range rgb {
		// id*(1-t) + base*t is exact at t=0 and t=1.
		rgb[i] = identity3[i]*(1-intensity) + base[i]*intensity
	}
	return fromRGB(rgb)
}

func fromRGB(rgb f64.Mat3) ColorTransform {
	var m ColorTransform
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			m[i][j] = rgb[i*3+j]
		}
	}
	m[3][3] = 1
	return m
}

// RGB returns the 3x3 color part.
func (m ColorTransform) RGB() f64.Mat3 {
	var rgb f64.Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			rgb[i*3+j] = m[i][j]
		}
	}
	return rgb
}

// Mat4 returns the linear 4x4 part (RGBA, no translation column).
func (m ColorTransform) Mat4() f64.Mat4 {
	var out f64.Mat4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			out[i*4+j] = m[i][j]
		}
	}
	return out
}

// Float32 returns the matrix flattened row by row, the layout compositor
// color filters expect.
func (m ColorTransform) Float32() [20]float32 {
	var out [20]float32
	for i := 0; i < 4; i++ {
		for j := 0; j < 5; j++ {
			out[i*5+j] = float32(m[i][j])
		}
	}
	return out
}

// IsIdentity reports whether m leaves every color unchanged.
func (m ColorTransform) IsIdentity() bool {
	return m == Identity()
}

// Apply transforms a single non-premultiplied color. Channels are clamped to
// [0, 255] and rounded.
func (m ColorTransform) Apply(c color.NRGBA) color.NRGBA {
	in := [5]float64{float64(c.R), float64(c.G), float64(c.B), float64(c.A), 255}
	var out [4]uint8
	for i := range out {
		var v float64
		for j, x := range in {
			v += m[i][j] * x
		}
		out[i] = clampChannel(v)
	}
	return color.NRGBA{R: out[0], G: out[1], B: out[2], A: out[3]}
}

func clampChannel(v float64) uint8 {
	switch {
	case math.IsNaN(v) || v <= 0:
		return 0
	case v >= 255:
		return 255
	}
	return uint8(math.Round(v))
}

// DefaultIntensity is the intensity of a fresh session.
const DefaultIntensity = 1.0

// ClampIntensity limits an intensity to [0, 1]. NaN becomes DefaultIntensity.
func ClampIntensity(v float64) float64 {
	if math.IsNaN(v) {
		return DefaultIntensity
	}
	return math.Max(0, math.Min(1, v))
}
