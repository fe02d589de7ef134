// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package stroke

import (
	"fmt"
	"image/color"
	"math"

	"github.com/gogpu/easel"
)

// Neighbor and fur brushes link points closer than neighborReach*intensity.
const neighborReach = 16

// dashEpsilon absorbs rounding when a tick ends exactly on a vertex.
const dashEpsilon = 1e-9

var (
	dashLight = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	dashDark  = color.NRGBA{A: 255}
)

// segment strokes the line a-b.
func (r *Rasterizer) segment(a, b easel.Point) error {
	r.scratch.MoveTo(a.X, a.Y)
	r.scratch.LineTo(b.X, b.Y)
	return r.scratch.Stroke()
}

// withOpacity returns c with its alpha scaled by the style opacity.
func (r *Rasterizer) withOpacity(c color.NRGBA) color.NRGBA {
	c.A = scaleAlpha(c.A, r.style.opacity)
	return c
}

func (r *Rasterizer) drawNormal(path *easel.Path) error {
	pts := path.Points()
	i := path.Cursor()
	r.scratch.MoveTo(pts[i].X, pts[i].Y)
	for _, p := range pts[i+1:] {
		r.scratch.LineTo(p.X, p.Y)
	}
	err := r.scratch.Stroke()
	path.Advance(len(pts) - 1)
	return err
}

func (r *Rasterizer) drawDashed(path *easel.Path) error {
	pts := path.Points()
	var first error
	for i := path.Cursor() + 1; i < len(pts); i++ {
		if err := r.dash(pts[i-1], pts[i]); err != nil && first == nil {
			first = err
		}
	}
	path.Advance(len(pts) - 1)
	return first
}

// dash walks a-b in ticks, continuing the pattern from the carried
// distance. A tick is light while the distance modulo two ticks is below
// one tick and dark otherwise.
func (r *Rasterizer) dash(a, b easel.Point) error {
	tick := r.style.tick
	var first error
	from := a
	for {
		left := from.Distance(b)
		if left <= dashEpsilon {
			return first
		}
		step := tick - math.Mod(r.dashed, tick)
		to := b
		if left-step > dashEpsilon {
			to = from.Toward(b, step)
		}

		c := dashLight
		if math.Mod(r.dashed, 2*tick) >= tick {
			c = dashDark
		}
		r.scratch.SetColor(r.withOpacity(c))
		if err := r.segment(from, to); err != nil && first == nil {
			first = err
		}

		if to == b {
			r.dashed += left
			return first
		}
		r.dashed += step
		from = to
	}
}

func (r *Rasterizer) drawLine(path *easel.Path) error {
	pts := path.Points()
	r.scratch.MoveTo(pts[0].X, pts[0].Y)
	for _, p := range pts[1:] {
		r.scratch.LineTo(p.X, p.Y)
	}
	err := r.scratch.Stroke()
	path.Advance(len(pts) - 1)
	return err
}

// drawRectangle dashes the box spanned by the first and the last point.
// Each edge starts a fresh dash pattern.
func (r *Rasterizer) drawRectangle(path *easel.Path) error {
	if path.Len() < 2 {
		return nil
	}
	p0, p1 := path.First(), path.Last()
	c := [4]easel.Point{
		easel.Pt(p0.X, p0.Y),
		easel.Pt(p0.X, p1.Y),
		easel.Pt(p1.X, p1.Y),
		easel.Pt(p1.X, p0.Y),
	}
	edges := [4][2]easel.Point{{c[0], c[1]}, {c[1], c[2]}, {c[3], c[2]}, {c[0], c[3]}}

	var first error
	for _, e := range edges {
		r.dashed = 0
		if err := r.dash(e[0], e[1]); err != nil && first == nil {
			first = err
		}
	}
	path.Advance(path.Len() - 1)
	return first
}

func (r *Rasterizer) drawBrush(path *easel.Path) error {
	switch r.style.brush {
	case BrushThin, BrushStamp:
		return r.drawStamps(path)
	case BrushPen:
		return r.drawPen(path)
	case BrushNeighbor:
		return r.drawNeighbor(path, false)
	case BrushFur:
		return r.drawNeighbor(path, true)
	case BrushMultiStroke:
		return r.drawMultiStroke(path)
	}
	return fmt.Errorf("stroke: %v: %w", r.style.brush, ErrUnsupportedBrush)
}

// drawStamps stamps the brush image along every new segment. Paths shorter
// than three points get one stamp at their origin.
func (r *Rasterizer) drawStamps(path *easel.Path) error {
	img := r.style.image
	if img == nil {
		return fmt.Errorf("stroke: %v brush without image: %w", r.style.brush, ErrUnsupportedBrush)
	}
	size := int(math.Round(r.style.width))
	mask := img.Scaled(size)
	half := float64(mask.Bounds().Dx()) / 2
	spacing := float64(mask.Bounds().Dx())
	if r.style.brush == BrushThin {
		spacing = 1
	}

	pts := path.Points()
	if len(pts) < 3 && !r.stamped {
		r.scratch.Stamp(mask, pts[0].X-half, pts[0].Y-half)
		r.stamped = true
	}
	for i := max(path.Cursor()+1, 1); i < len(pts); i++ {
		start, end := pts[i-1], pts[i]
		d := start.Distance(end)
		z0 := 0.0
		if i == 1 && r.stamped {
			// The origin already carries a stamp.
			z0 = spacing
		}
		for z := z0; z <= d || z == 0; z += spacing {
			p := start.Toward(end, z)
			r.scratch.Stamp(mask, p.X-half, p.Y-half)
		}
	}
	path.Advance(len(pts) - 1)
	return nil
}

// drawPen strokes every new segment with a width varied by up to 20%.
func (r *Rasterizer) drawPen(path *easel.Path) error {
	pts := path.Points()
	var first error
	for i := path.Cursor() + 1; i < len(pts); i++ {
		r.scratch.SetLineWidth((0.8 + 0.4*r.rng.Float64()) * r.style.width)
		if err := r.segment(pts[i-1], pts[i]); err != nil && first == nil {
			first = err
		}
	}
	path.Advance(len(pts) - 1)
	return first
}

// drawNeighbor strokes every new segment and adds faint thin strokes
// towards earlier points within reach. With fur set, the faint stroke is a
// hair through the new point, drawn with a probability falling with
// distance.
func (r *Rasterizer) drawNeighbor(path *easel.Path, fur bool) error {
	pts := path.Points()
	s := r.style
	main := r.withOpacity(s.color)
	faint := s.color
	faint.A = scaleAlpha(255, 0.5*s.opacity)
	reach := neighborReach * s.intensity

	var first error
	keep := func(err error) {
		if err != nil && first == nil {
			first = err
		}
	}
	for i := max(path.Cursor()+1, 1); i < len(pts); i++ {
		last := pts[i]
		r.scratch.SetColor(main)
		r.scratch.SetLineWidth(s.width)
		keep(r.segment(pts[i-1], last))

		r.scratch.SetColor(faint)
		r.scratch.SetLineWidth(math.Ceil(s.width / 10))
		for _, p := range pts[:i] {
			d := last.Distance(p)
			if d >= reach {
				continue
			}
			if !fur {
				keep(r.segment(last, p))
				continue
			}
			if r.rng.Float64() > d/(2*reach) {
				half := p.Sub(last).Mul(0.5)
				keep(r.segment(last.Add(half), last.Sub(half)))
			}
		}
	}
	path.Advance(len(pts) - 1)
	return first
}

// drawMultiStroke draws each new segment twice, shifted by independent
// random offsets in [0, intensity] in opposite directions.
func (r *Rasterizer) drawMultiStroke(path *easel.Path) error {
	pts := path.Points()
	jitter := func() easel.Point {
		return easel.Pt(r.rng.Float64()*r.style.intensity, r.rng.Float64()*r.style.intensity)
	}
	var first error
	for i := path.Cursor() + 1; i < len(pts); i++ {
		a, b := pts[i-1], pts[i]
		if err := r.segment(a.Sub(jitter()), b.Sub(jitter())); err != nil && first == nil {
			first = err
		}
		if err := r.segment(a.Add(jitter()), b.Add(jitter())); err != nil && first == nil {
			first = err
		}
	}
	path.Advance(len(pts) - 1)
	return first
}
