// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package selection

import (
	"image"
	"image/color"
	"math"
	"testing"
)

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

// checkUnion verifies that the union equals the OR of all parts.
func checkUnion(t *testing.T, s *Selector) {
	t.Helper()
	w, h := s.Size()
	want := NewBitmap(w, h)
	for i := 1; i <= s.Parts(); i++ {
		p, _ := s.Part(i)
		want.Or(p)
	}
	if !s.Union().Equal(want) {
		t.Error("union differs from OR of parts")
	}
}

func TestBudget(t *testing.T) {
	tests := []struct {
		threshold float64
		want      float64
	}{
		{100, 1},
		{50, 0.1},
		{1000, 1},
		{0, 1e-99},
	}
	for _, tt := range tests {
		if got := Budget(tt.threshold); math.Abs(got-tt.want) > tt.want*1e-9 {
			t.Errorf("Budget(%v) = %v, want %v", tt.threshold, got, tt.want)
		}
	}
}

func TestGrowSolidImage(t *testing.T) {
	for _, th := range []float64{1, 50, 100} {
		s := NewSelector(solid(13, 7, color.RGBA{40, 80, 120, 255}))
		part, ok := s.Grow(6, 3, th)
		if !ok {
			t.Fatalf("Grow(threshold=%v) found nothing", th)
		}
		if got := part.Count(); got != 13*7 {
			t.Errorf("Grow(threshold=%v) selected %d pixels, want %d", th, got, 13*7)
		}
		if s.Parts() != 1 {
			t.Errorf("Parts() = %d, want 1", s.Parts())
		}
	}
}

func TestGrowRespectsRegions(t *testing.T) {
	// Left half black, right half white, a white hole in the black half.
	img := solid(10, 10, color.RGBA{255, 255, 255, 255})
	for y := 0; y < 10; y++ {
		for x := 0; x < 5; x++ {
			img.SetRGBA(x, y, color.RGBA{0, 0, 0, 255})
		}
	}
	img.SetRGBA(2, 2, color.RGBA{255, 255, 255, 255})

	s := NewSelector(img)
	part, ok := s.Grow(0, 0, 10)
	if !ok {
		t.Fatal("Grow() found nothing")
	}
	if got := part.Count(); got != 49 {
		t.Errorf("Count() = %d, want 49", got)
	}
	if part.At(2, 2) || part.At(5, 0) {
		t.Error("part leaked into non-matching pixels")
	}
	if !s.IsInSelection(4, 9) || s.IsInSelection(9, 9) {
		t.Error("IsInSelection() disagrees with the part")
	}
}

func TestGrowThresholdInclusive(t *testing.T) {
	img := solid(2, 1, color.RGBA{0, 0, 0, 255})
	img.SetRGBA(1, 0, color.RGBA{255, 255, 255, 255})

	// Distance between black and white is exactly 1, the budget at 100.
	s := NewSelector(img)
	part, ok := s.Grow(0, 0, 100)
	if !ok || part.Count() != 2 {
		t.Errorf("Grow(threshold=100) = %v, want both pixels", part)
	}

	s = NewSelector(img)
	part, _ = s.Grow(0, 0, 99)
	if part.Count() != 1 {
		t.Errorf("Grow(threshold=99) count = %d, want 1", part.Count())
	}
}

func TestGrowRejects(t *testing.T) {
	s := NewSelector(solid(4, 4, color.RGBA{1, 2, 3, 255}))

	tests := []struct {
		name string
		x, y int
	}{
		{"left", -1, 0},
		{"top", 0, -1},
		{"right", 4, 0},
		{"bottom", 0, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if part, ok := s.Grow(tt.x, tt.y, 50); ok || part != nil {
				t.Errorf("Grow(%d, %d) = %v, %v; want nil, false", tt.x, tt.y, part, ok)
			}
		})
	}
	if s.Parts() != 0 {
		t.Errorf("Parts() = %d after rejected seeds, want 0", s.Parts())
	}
}

func TestZeroArea(t *testing.T) {
	for _, img := range []image.Image{nil, image.NewRGBA(image.Rectangle{})} {
		s := NewSelector(img)
		if _, ok := s.Grow(0, 0, 50); ok {
			t.Error("Grow() on zero-area image should miss")
		}
		if _, ok := s.AddRect(image.Pt(0, 0), image.Pt(3, 3)); ok {
			t.Error("AddRect() on zero-area image should miss")
		}
		if s.IsInSelection(0, 0) {
			t.Error("IsInSelection() on zero-area image")
		}
		if got := s.Remove(0, 0); got != -1 {
			t.Errorf("Remove() = %d, want -1", got)
		}
		if !s.Border().Empty() {
			t.Error("Border() should be empty")
		}
	}
}

func TestOverlappingSquaresRemoveLater(t *testing.T) {
	s := NewSelector(solid(30, 20, color.RGBA{}))

	// Two 10x10 squares sharing the 5x10 strip x in [5, 10).
	if _, ok := s.AddRect(image.Pt(0, 0), image.Pt(9, 9)); !ok {
		t.Fatal("AddRect() first square failed")
	}
	if _, ok := s.AddRect(image.Pt(5, 0), image.Pt(14, 9)); !ok {
		t.Fatal("AddRect() second square failed")
	}
	checkUnion(t, s)

	if got := s.Remove(7, 5); got != 2 {
		t.Fatalf("Remove() = %d, want 2 (the later square)", got)
	}
	checkUnion(t, s)

	for y := 0; y < 10; y++ {
		for x := 5; x < 10; x++ {
			if !s.IsInSelection(x, y) {
				t.Fatalf("strip pixel (%d, %d) lost", x, y)
			}
		}
		for x := 10; x < 15; x++ {
			if s.IsInSelection(x, y) {
				t.Fatalf("pixel (%d, %d) of removed square still selected", x, y)
			}
		}
	}
	if got := s.Union().Count(); got != 100 {
		t.Errorf("Union().Count() = %d, want 100", got)
	}
}

func TestUnionInvariantSequence(t *testing.T) {
	img := solid(16, 16, color.RGBA{200, 0, 0, 255})
	for y := 8; y < 16; y++ {
		for x := 0; x < 16; x++ {
			img.SetRGBA(x, y, color.RGBA{0, 0, 200, 255})
		}
	}
	s := NewSelector(img)

	steps := []func(){
		func() { s.Grow(0, 0, 20) },
		func() { s.AddRect(image.Pt(4, 4), image.Pt(11, 11)) },
		func() { s.Grow(0, 15, 20) },
		func() { s.Remove(5, 5) },
		func() { s.AddRect(image.Pt(15, 15), image.Pt(-3, 12)) },
		func() { s.Remove(0, 0) },
		func() { s.Remove(0, 0) },
		func() { s.Grow(3, 3, 20) },
	}
	for i, step := range steps {
		step()
		t.Logf("step %d: %d parts", i, s.Parts())
		checkUnion(t, s)
	}
}

func TestGrowNormalized(t *testing.T) {
	img := solid(10, 10, color.RGBA{0, 0, 0, 255})
	for x := 5; x < 10; x++ {
		for y := 0; y < 10; y++ {
			img.SetRGBA(x, y, color.RGBA{255, 255, 255, 255})
		}
	}
	s := NewSelector(img)
	part, ok := s.GrowNormalized(0.5, 0, 10)
	if !ok {
		t.Fatal("GrowNormalized() found nothing")
	}
	if !part.At(8, 5) || part.At(0, 5) {
		t.Error("GrowNormalized(0.5, 0) should select the right half")
	}
	if _, ok := s.GrowNormalized(1, 1, 10); ok {
		t.Error("GrowNormalized(1, 1) maps past the image and should miss")
	}
}

func TestClear(t *testing.T) {
	s := NewSelector(solid(4, 4, color.RGBA{}))
	s.AddRect(image.Pt(0, 0), image.Pt(1, 1))
	s.Clear()
	if s.Parts() != 0 || !s.Union().Empty() {
		t.Error("Clear() left parts behind")
	}
}
