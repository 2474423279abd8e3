// Package render holds the value contract between the equation core
// and a GPU renderer: a fixed-layout shader parameter block populated
// from per-tick energy snapshots. No graphics API code lives here.
package render

import (
	"math"

	"github.com/selkora/hyperfield/internal/equation"
)

// Mat4 is a column-major 4x4 float32 matrix.
type Mat4 [16]float32

// Vec4 is a float32 4-vector.
type Vec4 [4]float32

// PushConstants is the 256-byte shader parameter block: two matrices
// plus eight vectors. The field layout is owned by the shader side;
// this struct only mirrors it.
type PushConstants struct {
	Model Mat4
	View  Mat4
	Extra [8]Vec4
}

// identity returns the 4x4 identity.
func identity() Mat4 {
	var m Mat4
	m[0], m[5], m[10], m[15] = 1, 1, 1, 1
	return m
}

// scaleMatrix returns a uniform scale matrix clamped to a sane range so
// degenerate energy values never collapse or explode the geometry.
func scaleMatrix(s float64) Mat4 {
	if math.IsNaN(s) || s < 0.05 {
		s = 0.05
	}
	if s > 20 {
		s = 20
	}
	m := identity()
	f := float32(s)
	m[0], m[5], m[10] = f, f, f
	return m
}

// Populate maps a dimension snapshot and the current coefficients into
// the block. Observable drives model scale, the remaining components
// land in the extra vectors as shading parameters.
func Populate(pc *PushConstants, data equation.DimensionData, coeffs map[string]float64) {
	pc.Model = scaleMatrix(1 + 0.1*math.Abs(data.Observable))
	pc.View = identity()

	pc.Extra[0] = Vec4{
		float32(data.Observable),
		float32(data.Potential),
		float32(data.DarkMatter),
		float32(data.DarkEnergy),
	}
	pc.Extra[1] = Vec4{float32(data.Dimension), 0, 0, 0}
	pc.Extra[2] = Vec4{
		float32(coeffs["influence"]),
		float32(coeffs["weak"]),
		float32(coeffs["collapse"]),
		float32(coeffs["alpha"]),
	}
	pc.Extra[3] = Vec4{
		float32(coeffs["two_d"]),
		float32(coeffs["three_d"]),
		float32(coeffs["one_d_permeation"]),
		float32(coeffs["beta"]),
	}
	pc.Extra[4] = Vec4{
		float32(coeffs["dark_matter"]),
		float32(coeffs["dark_energy"]),
		0, 0,
	}
	pc.Extra[5] = Vec4{}
	pc.Extra[6] = Vec4{}
	pc.Extra[7] = Vec4{}
}
