// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package geom

import "math"

// degenerateEpsilon bounds |k2| below which the quadratic collapses to
// the linear case (opposite edges parallel).
const degenerateEpsilon = 1e-9

// rangeEpsilon tolerates rounding for points on the quad's boundary.
const rangeEpsilon = 1e-9

// Unsolved is the (u, v) returned when no parameters map into q.
const Unsolved = -1

// InverseBilinear finds (u, v) in [0,1]² with QuadPoint(q, u, v) = p.
//
// When no solution lies inside the quad (p is outside, or q is
// degenerate or self-intersecting in a way that leaves p unreachable)
// it returns (-1, -1, false). Callers must not use u and v when ok is
// false.
func InverseBilinear(p Point, q Quad) (u, v float64, ok bool) {
	a, b, c, d := q[0], q[1], q[2], q[3]
	e := b.Sub(a)
	f := d.Sub(a)
	g := a.Sub(b).Add(c.Sub(d))
	h := p.Sub(a)

	k2 := Cross(g, f)
	k1 := Cross(e, f) + Cross(h, g)
	k0 := Cross(h, e)

	if math.Abs(k2) < degenerateEpsilon {
		if math.Abs(k1) < degenerateEpsilon {
			return Unsolved, Unsolved, false
		}
		v = -k0 / k1
		if u, ok = solveU(h, e, f, g, v); ok && inRange(u, v) {
			return clamp(u), clamp(v), true
		}
		return Unsolved, Unsolved, false
	}

	discriminant := k1*k1 - 4*k0*k2
	if discriminant < 0 {
		return Unsolved, Unsolved, false
	}
	// Numerically stable roots: avoid subtracting nearly equal values
	// when k1 dominates the discriminant.
	root := math.Sqrt(discriminant)
	half := -0.5 * (k1 + math.Copysign(root, k1))
	candidates := [2]float64{half / k2, 0}
	if half != 0 {
		candidates[1] = k0 / half
	}
	for _, candidate := range candidates {
		if u, ok = solveU(h, e, f, g, candidate); ok && inRange(u, candidate) {
			return clamp(u), clamp(candidate), true
		}
	}
	return Unsolved, Unsolved, false
}

// solveU recovers u from h - f·v = u·(e + g·v). Projecting onto the
// direction vector keeps the solve defined when one of its components
// is zero (axis-aligned edges).
func solveU(h, e, f, g Point, v float64) (float64, bool) {
	direction := e.Add(g.Scale(v))
	length := direction.Dot(direction)
	if length < degenerateEpsilon*degenerateEpsilon {
		return 0, false
	}
	return h.Sub(f.Scale(v)).Dot(direction) / length, true
}

func inRange(u, v float64) bool {
	return u >= -rangeEpsilon && u <= 1+rangeEpsilon && v >= -rangeEpsilon && v <= 1+rangeEpsilon
}

func clamp(x float64) float64 {
	return math.Min(1, math.Max(0, x))
}
