package graph

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"
)

// Configuration is a point q in joint-space R^n.
type Configuration []float64

// Clone returns a fresh copy that shares no backing array with c.
func (c Configuration) Clone() Configuration {
	cp := make(Configuration, len(c))
	copy(cp, c)
	return cp
}

// subConfig returns a-b.
func subConfig(a, b Configuration) Configuration {
	out := make(Configuration, len(a))
	floats.SubTo(out, a, b)
	return out
}

// addScaled returns a + scale*b.
func addScaled(a Configuration, scale float64, b Configuration) Configuration {
	out := a.Clone()
	floats.AddScaled(out, scale, b)
	return out
}

// scaleConfig returns s*c.
func scaleConfig(s float64, c Configuration) Configuration {
	out := make(Configuration, len(c))
	floats.ScaleTo(out, s, c)
	return out
}

// norm returns the Euclidean (L2) norm of c.
func norm(c Configuration) float64 {
	return floats.Norm(c, 2)
}

// euclideanDistance returns ||a-b||_2.
func euclideanDistance(a, b Configuration) float64 {
	return floats.Distance(a, b, 2)
}

// dot returns the dot product of a and b.
func dot(a, b Configuration) float64 {
	return floats.Dot(a, b)
}

// nearlyEqual reports whether a and b are within an absolute tolerance
// in every dimension.
func nearlyEqual(a, b Configuration, tol float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !scalar.EqualWithinAbs(a[i], b[i], tol) {
			return false
		}
	}
	return true
}

// sameConfig is the "identical up to 1e-6 norm" test the subpath
// operations use to decide whether a query configuration is already a
// path waypoint.
func sameConfig(a, b Configuration) bool {
	return euclideanDistance(a, b) < 1e-6
}
