// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package stroke

import (
	"fmt"
	"image/color"
)

// Mode selects the drawing algorithm.
type Mode int

const (
	// ModeNormal draws a plain polyline.
	ModeNormal Mode = iota

	// ModeDashed draws alternating black and white ticks.
	ModeDashed

	// ModeBrush draws with the style's brush.
	ModeBrush

	// ModeLine draws a straight line between the first and the last point.
	ModeLine

	// ModeRectangle draws a dashed box spanned by the first and last point.
	ModeRectangle
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "normal"
	case ModeDashed:
		return "dashed"
	case ModeBrush:
		return "brush"
	case ModeLine:
		return "line"
	case ModeRectangle:
		return "rectangle"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Brush selects the brush algorithm used in ModeBrush.
type Brush int

const (
	// BrushThin stamps the built-in thin brush image every pixel.
	BrushThin Brush = iota

	// BrushPen draws segments with a randomized width.
	BrushPen

	// BrushNeighbor links each new point to nearby earlier points.
	BrushNeighbor

	// BrushFur draws short random hairs between nearby points.
	BrushFur

	// BrushMultiStroke draws two jittered copies of each segment.
	BrushMultiStroke

	// BrushStamp stamps a custom brush image at its own width.
	BrushStamp
)

// String returns the brush name.
func (b Brush) String() string {
	switch b {
	case BrushThin:
		return "thin"
	case BrushPen:
		return "pen"
	case BrushNeighbor:
		return "neighbor"
	case BrushFur:
		return "fur"
	case BrushMultiStroke:
		return "multistroke"
	case BrushStamp:
		return "stamp"
	default:
		return fmt.Sprintf("Brush(%d)", int(b))
	}
}

// DefaultTick is the default dash tick length.
const DefaultTick = 5

// Style describes how a path is drawn. Styles are values; the With methods
// return modified copies.
type Style struct {
	color     color.NRGBA
	width     float64
	opacity   float64
	intensity float64
	mode      Mode
	brush     Brush
	image     *BrushImage
	tick      float64
}

// DefaultStyle returns opaque white 5 pixel normal strokes.
func DefaultStyle() Style {
	return Style{
		color:     color.NRGBA{R: 255, G: 255, B: 255, A: 255},
		width:     5,
		opacity:   1,
		intensity: 1,
		mode:      ModeNormal,
		brush:     BrushPen,
		tick:      DefaultTick,
	}
}

// Color returns the stroke color.
func (s Style) Color() color.NRGBA { return s.color }

// Width returns the line width.
func (s Style) Width() float64 { return s.width }

// Opacity returns the effective opacity after remapping.
func (s Style) Opacity() float64 { return s.opacity }

// Intensity returns the brush spread factor.
func (s Style) Intensity() float64 { return s.intensity }

// Mode returns the draw mode.
func (s Style) Mode() Mode { return s.mode }

// Brush returns the brush kind.
func (s Style) Brush() Brush { return s.brush }

// BrushImage returns the committed brush image, or nil.
func (s Style) BrushImage() *BrushImage { return s.image }

// Tick returns the dash tick length.
func (s Style) Tick() float64 { return s.tick }

// WithColor returns s with color c.
func (s Style) WithColor(c color.NRGBA) Style {
	s.color = c
	return s
}

// WithWidth returns s with line width w. Non-positive widths are ignored.
func (s Style) WithWidth(w float64) Style {
	if w > 0 {
		s.width = w
	}
	return s
}

// WithOpacity returns s with opacity v in [0, 1], remapped so the low half
// of a slider stays subtle: v/8 below 0.8 and 4.5v-3.5 from 0.8 on.
func (s Style) WithOpacity(v float64) Style {
	s.opacity = RemapOpacity(v)
	return s
}

// RemapOpacity applies the opacity curve used by WithOpacity.
func RemapOpacity(v float64) float64 {
	if v < 0.8 {
		return v / 8
	}
	return 4.5*v - 3.5
}

// WithIntensity returns s with brush spread factor v.
func (s Style) WithIntensity(v float64) Style {
	s.intensity = v
	return s
}

// WithMode returns s with draw mode m.
func (s Style) WithMode(m Mode) Style {
	s.mode = m
	return s
}

// WithTick returns s with dash tick length t. Non-positive values are ignored.
func (s Style) WithTick(t float64) Style {
	if t > 0 {
		s.tick = t
	}
	return s
}

// WithBrush returns s drawing with brush b. BrushThin commits the built-in
// thin brush image; BrushStamp requires an image committed with
// WithBrushImage and fails with ErrUnsupportedBrush otherwise.
func (s Style) WithBrush(b Brush) (Style, error) {
	switch b {
	case BrushThin:
		img, err := ThinBrush()
		if err != nil {
			return s, err
		}
		s.image = img
	case BrushStamp:
		if s.image == nil {
			return s, fmt.Errorf("stroke: %v brush without image: %w", b, ErrUnsupportedBrush)
		}
	case BrushPen, BrushNeighbor, BrushFur, BrushMultiStroke:
	default:
		return s, fmt.Errorf("stroke: %v: %w", b, ErrUnsupportedBrush)
	}
	s.brush = b
	s.mode = ModeBrush
	return s, nil
}

// WithBrushImage commits a loaded brush image: the returned style stamps
// img in brush mode.
func (s Style) WithBrushImage(img *BrushImage) Style {
	s.image = img
	s.brush = BrushStamp
	s.mode = ModeBrush
	return s
}
