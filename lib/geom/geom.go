// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package geom provides the quad geometry used to place particle and
// skin sprites: bilinear evaluation of a quad and its inverse.
//
// A [Quad] is four corners a, b, c, d in winding order. The bilinear
// parametrization is
//
//	P(u, v) = a + (b-a)·u + (d-a)·v + (a-b+c-d)·u·v
//
// so P(0,0)=a, P(1,0)=b, P(1,1)=c and P(0,1)=d.
package geom

import "math"

// Point is a 2-D point or vector.
type Point struct {
	X, Y float64
}

// Add returns p+q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns p-q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Scale returns p·s.
func (p Point) Scale(s float64) Point { return Point{p.X * s, p.Y * s} }

// Dot returns the dot product of p and q.
func (p Point) Dot(q Point) float64 { return p.X*q.X + p.Y*q.Y }

// Cross returns the z component of the 3-D cross product of p and q.
func Cross(p, q Point) float64 { return p.X*q.Y - p.Y*q.X }

// Quad is a quadrilateral given as corners a, b, c, d in winding order.
type Quad [4]Point

// QuadFromCorners builds a quad from coordinates ordered x1..x4, y1..y4,
// the layout used by transform expressions.
func QuadFromCorners(corners [8]float64) Quad {
	return Quad{
		{corners[0], corners[4]},
		{corners[1], corners[5]},
		{corners[2], corners[6]},
		{corners[3], corners[7]},
	}
}

// Corners returns the quad's coordinates ordered x1..x4, y1..y4.
func (q Quad) Corners() [8]float64 {
	return [8]float64{q[0].X, q[1].X, q[2].X, q[3].X, q[0].Y, q[1].Y, q[2].Y, q[3].Y}
}

// Bounds returns the axis-aligned bounding box of q.
func (q Quad) Bounds() (min, max Point) {
	min, max = q[0], q[0]
	for _, p := range q[1:] {
		min.X, min.Y = math.Min(min.X, p.X), math.Min(min.Y, p.Y)
		max.X, max.Y = math.Max(max.X, p.X), math.Max(max.Y, p.Y)
	}
	return min, max
}

// QuadPoint evaluates the bilinear parametrization of q at (u, v).
// Defined for every u and v, including values outside [0, 1].
func QuadPoint(q Quad, u, v float64) Point {
	a, b, c, d := q[0], q[1], q[2], q[3]
	e := b.Sub(a)
	f := d.Sub(a)
	g := a.Sub(b).Add(c.Sub(d))
	return a.Add(e.Scale(u)).Add(f.Scale(v)).Add(g.Scale(u * v))
}
