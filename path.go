// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package easel

// Path is an ordered point sequence with a resume cursor.
//
// The cursor is the index of the last point that has been rasterized. Drawing
// code starts from the cursor so already painted segments are never painted
// again. The cursor only moves forward, except through Rewind.
type Path struct {
	points []Point
	cursor int
}

// NewPath creates a path starting at p.
func NewPath(p Point) *Path {
	return &Path{points: []Point{p}}
}

// Append adds p to the end of the path.
func (p *Path) Append(pt Point) {
	p.points = append(p.points, pt)
}

// SetLast replaces the last point. Used for live previews.
func (p *Path) SetLast(pt Point) {
	p.points[len(p.points)-1] = pt
}

// Len returns the number of points.
func (p *Path) Len() int {
	return len(p.points)
}

// At returns the i-th point.
func (p *Path) At(i int) Point {
	return p.points[i]
}

// First returns the first point.
func (p *Path) First() Point {
	return p.points[0]
}

// Last returns the last point.
func (p *Path) Last() Point {
	return p.points[len(p.points)-1]
}

// Points returns the backing slice. Callers must not modify it.
func (p *Path) Points() []Point {
	return p.points
}

// Cursor returns the index of the last rasterized point.
func (p *Path) Cursor() int {
	return p.cursor
}

// Advance moves the cursor to i. Moving backwards is ignored and i is
// clamped to the last point.
func (p *Path) Advance(i int) {
	if i > len(p.points)-1 {
		i = len(p.points) - 1
	}
	if i > p.cursor {
		p.cursor = i
	}
}

// Rewind resets the cursor to the first point. Only valid when the surface
// the path was drawn on has been restored to its pre-path state.
func (p *Path) Rewind() {
	p.cursor = 0
}
