// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package stroke

import (
	"errors"
	"image"
	"image/color"
	"math"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/gogpu/easel"
)

// line is one stroked segment recorded by fakeCanvas.
type line struct {
	a, b  easel.Point
	color color.NRGBA
	width float64
}

// fakeCanvas records strokes and stamps instead of rasterizing them.
type fakeCanvas struct {
	w, h   int
	color  color.NRGBA
	width  float64
	path   []easel.Point
	lines  []line
	stamps []easel.Point
	clears int
}

func newFakeFactory(canvases *[]*fakeCanvas) CanvasFactory {
	return func(w, h int) Canvas {
		c := &fakeCanvas{w: w, h: h}
		*canvases = append(*canvases, c)
		return c
	}
}

func (c *fakeCanvas) Clear() { c.clears++ }
func (c *fakeCanvas) SetColor(col color.NRGBA) { c.color = col }
func (c *fakeCanvas) SetLineWidth(w float64) { c.width = w }
func (c *fakeCanvas) MoveTo(x, y float64) { c.path = []easel.Point{easel.Pt(x, y)} }
func (c *fakeCanvas) LineTo(x, y float64) { c.path = append(c.path, easel.Pt(x, y)) }
func (c *fakeCanvas) Image() *image.RGBA { return image.NewRGBA(image.Rect(0, 0, c.w, c.h)) }
func (c *fakeCanvas) Stamp(_ *image.Alpha, x, y float64) {
	c.stamps = append(c.stamps, easel.Pt(x, y))
}

func (c *fakeCanvas) Stroke() error {
	for i := 1; i < len(c.path); i++ {
		c.lines = append(c.lines, line{a: c.path[i-1], b: c.path[i], color: c.color, width: c.width})
	}
	c.path = nil
	return nil
}

func newTestRasterizer(t *testing.T, style Style) (*Rasterizer, *fakeCanvas) {
	t.Helper()
	return newSeededRasterizer(t, style, rand.NewPCG(1, 2))
}

func newSeededRasterizer(t *testing.T, style Style, src rand.Source) (*Rasterizer, *fakeCanvas) {
	t.Helper()
	var canvases []*fakeCanvas
	r := New(64, 64,
		WithCanvasFactory(newFakeFactory(&canvases)),
		WithRand(rand.New(src)),
		WithStyle(style),
	)
	return r, canvases[len(canvases)-1]
}

// constSource always yields the same value. Float64 keeps the low 53 bits,
// so 1<<53-1 is just below 1, 0 is 0 and 1<<51 is 0.25.
type constSource uint64

func (s constSource) Uint64() uint64 { return uint64(s) }

func segmentSet(lines []line) map[[2]easel.Point]bool {
	set := make(map[[2]easel.Point]bool)
	for _, l := range lines {
		set[[2]easel.Point{l.a, l.b}] = true
	}
	return set
}

func TestRemapOpacity(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0.4, 0.05},
		{0.9, 0.55},
		{0, 0},
		{0.8, 0.1},
		{1, 1},
	}
	for _, tt := range tests {
		if got := DefaultStyle().WithOpacity(tt.in).Opacity(); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("WithOpacity(%v).Opacity() = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestStyleIsImmutable(t *testing.T) {
	base := DefaultStyle()
	_ = base.WithWidth(20).WithMode(ModeDashed).WithTick(3)
	if base.Width() != 5 || base.Mode() != ModeNormal || base.Tick() != DefaultTick {
		t.Errorf("With methods mutated the receiver: %+v", base)
	}
	if got := base.WithWidth(-1).Width(); got != 5 {
		t.Errorf("WithWidth(-1).Width() = %v, want 5", got)
	}
}

func TestNormalSplitMatchesSingleCall(t *testing.T) {
	pts := []easel.Point{easel.Pt(1, 1), easel.Pt(10, 3), easel.Pt(20, 20), easel.Pt(5, 30)}

	single, sc := newTestRasterizer(t, DefaultStyle())
	path := easel.NewPath(pts[0])
	for _, p := range pts[1:] {
		path.Append(p)
	}
	if err := single.Draw(path); err != nil {
		t.Fatalf("Draw() error = %v", err)
	}

	split, spc := newTestRasterizer(t, DefaultStyle())
	path = easel.NewPath(pts[0])
	path.Append(pts[1])
	path.Append(pts[2])
	if err := split.Draw(path); err != nil {
		t.Fatalf("Draw() error = %v", err)
	}
	path.Append(pts[3])
	if err := split.Draw(path); err != nil {
		t.Fatalf("Draw() error = %v", err)
	}

	if len(spc.lines) != len(sc.lines) {
		t.Errorf("split drew %d segments, single drew %d", len(spc.lines), len(sc.lines))
	}
	a, b := segmentSet(sc.lines), segmentSet(spc.lines)
	for s := range a {
		if !b[s] {
			t.Errorf("segment %v missing from split drawing", s)
		}
	}
	if path.Cursor() != 3 {
		t.Errorf("Cursor() = %d, want 3", path.Cursor())
	}
}

func dashColors(lines []line) string {
	var sb strings.Builder
	for _, l := range lines {
		if l.color.R == 255 {
			sb.WriteByte('W')
		} else {
			sb.WriteByte('B')
		}
	}
	return sb.String()
}

func TestDashedCarriesPhase(t *testing.T) {
	style := DefaultStyle().WithMode(ModeDashed)

	one, oc := newTestRasterizer(t, style)
	path := easel.NewPath(easel.Pt(0, 0))
	path.Append(easel.Pt(20, 0))
	if err := one.Draw(path); err != nil {
		t.Fatalf("Draw() error = %v", err)
	}

	two, tc := newTestRasterizer(t, style)
	path = easel.NewPath(easel.Pt(0, 0))
	path.Append(easel.Pt(10, 0))
	if err := two.Draw(path); err != nil {
		t.Fatalf("Draw() error = %v", err)
	}
	path.Append(easel.Pt(20, 0))
	if err := two.Draw(path); err != nil {
		t.Fatalf("Draw() error = %v", err)
	}

	for name, lines := range map[string][]line{"one call": oc.lines, "two calls": tc.lines} {
		if got := dashColors(lines); got != "WBWB" {
			t.Errorf("%s: ticks = %q, want WBWB", name, got)
		}
		for i, l := range lines {
			if d := l.a.Distance(l.b); math.Abs(d-5) > 1e-9 {
				t.Errorf("%s: tick %d length = %v, want 5", name, i, d)
			}
		}
	}
}

func TestDashedCarriesFraction(t *testing.T) {
	r, c := newTestRasterizer(t, DefaultStyle().WithMode(ModeDashed))
	path := easel.NewPath(easel.Pt(0, 0))
	path.Append(easel.Pt(3, 0))
	path.Append(easel.Pt(3, 4))
	if err := r.Draw(path); err != nil {
		t.Fatalf("Draw() error = %v", err)
	}
	// 3 + 2 white, then 2 black.
	if got := dashColors(c.lines); got != "WWB" {
		t.Errorf("ticks = %q, want WWB", got)
	}
}

func TestRectangleMarquee(t *testing.T) {
	r, c := newTestRasterizer(t, DefaultStyle().WithMode(ModeRectangle))
	r.PointerDown(easel.Pt(0, 0))
	if err := r.PointerMove(easel.Pt(10, 5)); err != nil {
		t.Fatalf("PointerMove() error = %v", err)
	}
	if err := r.PointerUp(easel.Pt(10, 10)); err != nil {
		t.Fatalf("PointerUp() error = %v", err)
	}

	// The last preview: four edges of 10 units, two ticks each, each edge
	// restarting the pattern.
	last := c.lines[len(c.lines)-8:]
	if got := dashColors(last); got != "WBWBWBWB" {
		t.Errorf("ticks = %q, want WBWBWBWB", got)
	}
	if r.Active() {
		t.Error("Active() = true after PointerUp")
	}
}

func TestLinePreviewKeepsEndpoints(t *testing.T) {
	r, c := newTestRasterizer(t, DefaultStyle().WithMode(ModeLine))
	r.PointerDown(easel.Pt(1, 1))
	r.PointerMove(easel.Pt(5, 5))
	r.PointerMove(easel.Pt(9, 2))
	if got := r.Path().Len(); got != 2 {
		t.Fatalf("Path().Len() = %d, want 2", got)
	}
	l := c.lines[len(c.lines)-1]
	if l.a != easel.Pt(1, 1) || l.b != easel.Pt(9, 2) {
		t.Errorf("last line = %v-%v, want (1,1)-(9,2)", l.a, l.b)
	}
}

func TestPenWidthRange(t *testing.T) {
	style, err := DefaultStyle().WithWidth(10).WithBrush(BrushPen)
	if err != nil {
		t.Fatalf("WithBrush() error = %v", err)
	}
	r, c := newTestRasterizer(t, style)
	r.PointerDown(easel.Pt(0, 0))
	for i := 1; i <= 20; i++ {
		r.PointerMove(easel.Pt(float64(i), float64(i)))
	}
	if len(c.lines) != 20 {
		t.Fatalf("segments = %d, want 20", len(c.lines))
	}
	for _, l := range c.lines {
		if l.width < 8 || l.width > 12 {
			t.Errorf("width = %v, want within [8, 12]", l.width)
		}
	}
}

func TestNeighborLinksNearbyPoints(t *testing.T) {
	style, _ := DefaultStyle().WithWidth(20).WithBrush(BrushNeighbor)
	r, c := newTestRasterizer(t, style)
	path := easel.NewPath(easel.Pt(0, 0))
	path.Append(easel.Pt(4, 0))
	path.Append(easel.Pt(8, 0))
	path.Append(easel.Pt(40, 0))
	if err := r.Draw(path); err != nil {
		t.Fatalf("Draw() error = %v", err)
	}

	var faint int
	for _, l := range c.lines {
		if l.width == 2 {
			faint++
			if l.color.A != 128 {
				t.Errorf("faint alpha = %d, want 128", l.color.A)
			}
		}
	}
	// (4,0)->(0,0); (8,0)->(0,0), (8,0)->(4,0); (40,0) reaches nothing.
	if faint != 3 {
		t.Errorf("faint strokes = %d, want 3", faint)
	}
}

func TestFurHairs(t *testing.T) {
	tests := []struct {
		name string
		src  constSource
		want [][2]easel.Point
	}{
		{
			name: "always",
			src:  1<<53 - 1,
			want: [][2]easel.Point{
				{easel.Pt(2, 0), easel.Pt(6, 0)},
				{easel.Pt(4, 0), easel.Pt(12, 0)},
				{easel.Pt(6, 0), easel.Pt(10, 0)},
			},
		},
		{
			name: "never",
			src:  0,
		},
		{
			// Drawn only while 0.25 > d/32, so for d = 4 but not d = 8.
			name: "quarter",
			src:  1 << 51,
			want: [][2]easel.Point{
				{easel.Pt(2, 0), easel.Pt(6, 0)},
				{easel.Pt(6, 0), easel.Pt(10, 0)},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			style, _ := DefaultStyle().WithWidth(20).WithBrush(BrushFur)
			r, c := newSeededRasterizer(t, style, tt.src)
			path := easel.NewPath(easel.Pt(0, 0))
			path.Append(easel.Pt(4, 0))
			path.Append(easel.Pt(8, 0))
			path.Append(easel.Pt(40, 0))
			if err := r.Draw(path); err != nil {
				t.Fatalf("Draw() error = %v", err)
			}

			var hairs []line
			for _, l := range c.lines {
				if l.width != 20 {
					hairs = append(hairs, l)
				}
			}
			if len(hairs) != len(tt.want) {
				t.Fatalf("hairs = %v, want %v", hairs, tt.want)
			}
			for i, h := range hairs {
				if got := [2]easel.Point{h.a, h.b}; got != tt.want[i] {
					t.Errorf("hair %d = %v, want %v", i, got, tt.want[i])
				}
				if h.width != 2 {
					t.Errorf("hair %d width = %v, want ceil(20/10) = 2", i, h.width)
				}
				if h.color.A != 128 {
					t.Errorf("hair %d alpha = %d, want 128", i, h.color.A)
				}
			}
		})
	}
}

func TestFurOutOfReach(t *testing.T) {
	style, _ := DefaultStyle().WithWidth(7).WithBrush(BrushFur)
	r, c := newSeededRasterizer(t, style, constSource(1<<53-1))
	// Exactly at reach: 16 * intensity 1.
	path := easel.NewPath(easel.Pt(0, 0))
	path.Append(easel.Pt(16, 0))
	if err := r.Draw(path); err != nil {
		t.Fatalf("Draw() error = %v", err)
	}
	if len(c.lines) != 1 || c.lines[0].width != 7 {
		t.Errorf("lines = %v, want the main segment only", c.lines)
	}
}

func TestMultiStrokeJitterBounds(t *testing.T) {
	style, _ := DefaultStyle().WithIntensity(3).WithBrush(BrushMultiStroke)
	r, c := newTestRasterizer(t, style)
	path := easel.NewPath(easel.Pt(20, 20))
	path.Append(easel.Pt(30, 20))
	if err := r.Draw(path); err != nil {
		t.Fatalf("Draw() error = %v", err)
	}
	if len(c.lines) != 2 {
		t.Fatalf("segments = %d, want 2", len(c.lines))
	}
	lo, hi := c.lines[0], c.lines[1]
	if lo.a.X > 20 || lo.a.X < 17 || hi.a.X < 20 || hi.a.X > 23 {
		t.Errorf("jittered starts = %v, %v", lo.a, hi.a)
	}
}

func TestStampBrush(t *testing.T) {
	mask := image.NewAlpha(image.Rect(0, 0, 4, 4))
	style := DefaultStyle().WithWidth(4).WithBrushImage(NewBrushImage(mask))
	if style.Mode() != ModeBrush || style.Brush() != BrushStamp {
		t.Fatalf("WithBrushImage() style = %v/%v", style.Mode(), style.Brush())
	}

	r, c := newTestRasterizer(t, style)
	r.PointerDown(easel.Pt(10, 10))
	r.PointerMove(easel.Pt(10, 10))
	if len(c.stamps) != 1 {
		t.Fatalf("short path stamps = %d, want the origin only", len(c.stamps))
	}
	if c.stamps[0] != easel.Pt(8, 8) {
		t.Errorf("origin stamp at %v, want (8, 8)", c.stamps[0])
	}

	c.stamps = nil
	r.PointerMove(easel.Pt(18, 10))
	// Spacing equals the 4 pixel stamp: z = 0, 4, 8.
	if len(c.stamps) != 3 {
		t.Errorf("stamps = %d, want 3", len(c.stamps))
	}
}

func TestStampWithoutImage(t *testing.T) {
	if _, err := DefaultStyle().WithBrush(BrushStamp); !errors.Is(err, ErrUnsupportedBrush) {
		t.Errorf("WithBrush(BrushStamp) error = %v, want ErrUnsupportedBrush", err)
	}
}

func TestThinBrush(t *testing.T) {
	b, err := ThinBrush()
	if err != nil {
		t.Fatalf("ThinBrush() error = %v", err)
	}
	if w, h := b.Size(); w != 32 || h != 32 {
		t.Errorf("Size() = %dx%d, want 32x32", w, h)
	}
	if b.Mask().AlphaAt(16, 16).A == 0 {
		t.Error("thin brush center is transparent")
	}
	if b.Mask().AlphaAt(0, 0).A != 0 {
		t.Error("thin brush corner should be transparent")
	}
	if got := b.Scaled(5).Bounds(); got != image.Rect(0, 0, 5, 5) {
		t.Errorf("Scaled(5).Bounds() = %v", got)
	}

	style, err := DefaultStyle().WithBrush(BrushThin)
	if err != nil || style.BrushImage() != b {
		t.Errorf("WithBrush(BrushThin) = %v, %v", style.BrushImage(), err)
	}
}

func TestGGCanvasDrawsSurface(t *testing.T) {
	r := New(32, 32, WithStyle(DefaultStyle().WithColor(color.NRGBA{R: 255, A: 255})))
	r.PointerDown(easel.Pt(4, 16))
	if err := r.PointerUp(easel.Pt(28, 16)); err != nil {
		t.Fatalf("PointerUp() error = %v", err)
	}
	if got := r.Surface().RGBAAt(16, 16); got.R == 0 || got.A == 0 {
		t.Errorf("Surface().RGBAAt(16, 16) = %v, want red", got)
	}
	if got := r.Surface().RGBAAt(16, 2); got.A != 0 {
		t.Errorf("Surface().RGBAAt(16, 2) = %v, want transparent", got)
	}

	snap := r.Snapshot()
	r.Clear()
	if snap.RGBAAt(16, 16).A == 0 {
		t.Error("Snapshot() shares memory with the surface")
	}
	if r.Surface().RGBAAt(16, 16).A != 0 {
		t.Error("Clear() left pixels on the surface")
	}
}
