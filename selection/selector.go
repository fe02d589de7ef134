// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package selection

import (
	"image"
	"math"
	"sync"

	"github.com/anthonynsimon/bild/clone"

	"github.com/gogpu/easel"
)

// Threshold limits accepted by Grow.
const (
	MinThreshold = 1
	MaxThreshold = 100
)

// Budget returns the mean squared distance budget for a threshold. The
// threshold is clamped to [MinThreshold, MaxThreshold] and rescaled as
// 10^(1-100/threshold), so 100 accepts every color and 1 only exact matches
// in practice.
func Budget(threshold float64) float64 {
	t := min(max(threshold, MinThreshold), MaxThreshold)
	return math.Pow(10, 1-100/t)
}

// Selector is the selection state of one session over an immutable image
// snapshot.
//
// Selector is safe for concurrent use: readers such as an animation ticker
// may call Border or MarchingAnts while the interaction thread mutates it.
type Selector struct {
	mu     sync.RWMutex
	src    *image.RGBA
	width  int
	height int

	// masks[0] is the union, masks[1:] are the parts.
	masks []*Bitmap
}

// NewSelector creates a selector over a copy of img. A nil or empty image
// yields a zero-area selector on which every query misses.
func NewSelector(img image.Image) *Selector {
	s := &Selector{}
	if img != nil {
		s.src = clone.AsRGBA(img)
		s.src.Rect = s.src.Rect.Sub(s.src.Rect.Min)
		s.width, s.height = s.src.Rect.Dx(), s.src.Rect.Dy()
	}
	s.masks = []*Bitmap{NewBitmap(s.width, s.height)}
	return s
}

// Size returns the snapshot dimensions.
func (s *Selector) Size() (w, h int) {
	return s.width, s.height
}

// run is a horizontal span of pixels [x0, x1] on row y.
type run struct {
	y, x0, x1 int
}

// grower holds the state of one flood fill.
type grower struct {
	src    *image.RGBA
	seed   [3]float64
	budget float64
	part   *Bitmap
}

func (g *grower) match(x, y int) bool {
	i := g.src.PixOffset(x, y)
	var d float64
	for k := 0; k < 3; k++ {
		c := float64(g.src.Pix[i+k]) - g.seed[k]
		d += c * c
	}
	return d/(3*255*255) <= g.budget
}

func (g *grower) open(x, y int) bool {
	return !g.part.At(x, y) && g.match(x, y)
}

// scan finds the maximal run through (x, y) of matching pixels not yet in
// the part and marks it. It reports false when (x, y) is out of bounds,
// already marked or does not match.
func (g *grower) scan(x, y int) (run, bool) {
	if x < 0 || y < 0 || x >= g.part.width || y >= g.part.height || !g.open(x, y) {
		return run{}, false
	}
	x0, x1 := x, x
	for x0 > 0 && g.open(x0-1, y) {
		x0--
	}
	for x1 < g.part.width-1 && g.open(x1+1, y) {
		x1++
	}
	row := g.part.data[y*g.part.width:]
	for i := x0; i <= x1; i++ {
		row[i] = true
	}
	return run{y: y, x0: x0, x1: x1}, true
}

// Grow selects the region connected to (x, y) whose colors are within the
// threshold of the seed color, adds it as a new part and merges it into the
// union. It returns a copy of the part, or false when the seed is out of
// bounds or matches nothing; the selection is unchanged in that case.
func (s *Selector) Grow(x, y int, threshold float64) (*Bitmap, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if x < 0 || y < 0 || x >= s.width || y >= s.height {
		easel.Logger().Debug("selection: seed out of bounds", "x", x, "y", y)
		return nil, false
	}

	i := s.src.PixOffset(x, y)
	g := &grower{
		src:    s.src,
		seed:   [3]float64{float64(s.src.Pix[i]), float64(s.src.Pix[i+1]), float64(s.src.Pix[i+2])},
		budget: Budget(threshold),
		part:   NewBitmap(s.width, s.height),
	}

	first, ok := g.scan(x, y)
	if !ok {
		return nil, false
	}
	stack := []run{first}
	for len(stack) > 0 {
		r := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, ny := range [2]int{r.y - 1, r.y + 1} {
			for px := r.x0; px <= r.x1; px++ {
				if nr, ok := g.scan(px, ny); ok {
					stack = append(stack, nr)
					px = nr.x1
				}
			}
		}
	}

	s.push(g.part)
	return g.part.Clone(), true
}

// GrowNormalized is Grow with the seed given in normalized device
// coordinates, where (-1, -1) is the top-left corner and (1, 1) the
// bottom-right corner of the image.
func (s *Selector) GrowNormalized(nx, ny, threshold float64) (*Bitmap, bool) {
	x := int(math.Round(0.5 * (nx + 1) * float64(s.width)))
	y := int(math.Round(0.5 * (ny + 1) * float64(s.height)))
	return s.Grow(x, y, threshold)
}

// AddRect adds the rectangle spanned by the corners p0 and p1, both
// inclusive, as a new part. The rectangle is clipped to the image; false is
// returned when nothing remains.
func (s *Selector) AddRect(p0, p1 image.Point) (*Bitmap, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := image.Rectangle{Min: p0, Max: p1}.Canon()
	r.Max = r.Max.Add(image.Pt(1, 1))
	r = r.Intersect(image.Rect(0, 0, s.width, s.height))
	if r.Empty() {
		return nil, false
	}

	part := NewBitmap(s.width, s.height)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := part.data[y*s.width:]
		for x := r.Min.X; x < r.Max.X; x++ {
			row[x] = true
		}
	}
	s.push(part)
	return part.Clone(), true
}

func (s *Selector) push(part *Bitmap) {
	s.masks = append(s.masks, part)
	s.merge()
}

// merge rebuilds the union from the parts.
func (s *Selector) merge() {
	union := s.masks[0]
	for _, p := range s.masks[1:] {
		union.Or(p)
	}
}

// IsInSelection reports whether (x, y) is selected.
func (s *Selector) IsInSelection(x, y int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.masks[0].At(x, y)
}

// Remove deletes the most recently added part covering (x, y) and returns
// its stack index, or -1 when no part covers the point. Pixels covered by
// other parts stay selected.
func (s *Selector) Remove(x, y int) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i := len(s.masks) - 1; i >= 1; i-- {
		if s.masks[i].At(x, y) {
			idx = i
			break
		}
	}
	if idx != -1 {
		s.masks[0].AndNot(s.masks[idx])
		s.masks = append(s.masks[:idx], s.masks[idx+1:]...)
	}
	s.merge()
	return idx
}

// Parts returns the number of parts.
func (s *Selector) Parts() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.masks) - 1
}

// Part returns a copy of the part at stack index i, 1 <= i <= Parts().
func (s *Selector) Part(i int) (*Bitmap, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i < 1 || i >= len(s.masks) {
		return nil, false
	}
	return s.masks[i].Clone(), true
}

// Union returns a copy of the union of all parts.
func (s *Selector) Union() *Bitmap {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.masks[0].Clone()
}

// Clear removes every part.
func (s *Selector) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.masks = []*Bitmap{NewBitmap(s.width, s.height)}
}

// Border returns the border of the current selection.
func (s *Selector) Border() *Bitmap {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Border(s.masks[0])
}

// MarchingAnts renders the border of the current selection into dst.
func (s *Selector) MarchingAnts(dst *image.RGBA, tick, phase int) {
	MarchingAnts(dst, s.Border(), tick, phase)
}
