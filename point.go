// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package easel

import (
	"math"

	"github.com/gogpu/gg"
)

// Point is a position in canvas pixel space.
type Point struct {
	X, Y float64
}

// Pt is a convenience function to create a Point.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns p+q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p-q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Mul returns the point scaled by s.
func (p Point) Mul(s float64) Point {
	return Point{X: p.X * s, Y: p.Y * s}
}

// Distance returns the euclidean distance between p and q.
func (p Point) Distance(q Point) float64 {
	return math.Hypot(q.X-p.X, q.Y-p.Y)
}

// Toward returns the point at distance d from p in the direction of q.
// It returns p itself when d is zero or the points coincide, and q when d
// equals the distance between them.
func (p Point) Toward(q Point, d float64) Point {
	dist := p.Distance(q)
	if d == dist {
		return q
	}
	if d == 0 || dist == 0 {
		return p
	}
	f := d / dist
	return Point{X: p.X + f*(q.X-p.X), Y: p.Y + f*(q.Y-p.Y)}
}

// Transform applies m to p.
func (p Point) Transform(m gg.Matrix) Point {
	q := m.TransformPoint(gg.Pt(p.X, p.Y))
	return Point{X: q.X, Y: q.Y}
}
