// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/gogpu/easel/filter"
	"github.com/gogpu/easel/stroke"
)

// preset holds the demo parameters. Flags override values read from a
// TOML file. An empty Format is taken from the Output extension.
type preset struct {
	Width      int     `toml:"width"`
	Height     int     `toml:"height"`
	Output     string  `toml:"output"`
	Format     string  `toml:"format"`
	Brush      string  `toml:"brush"`
	BrushImage string  `toml:"brush_image"`
	StrokeMode string  `toml:"stroke_mode"`
	Opacity    float64 `toml:"opacity"`
	Intensity  float64 `toml:"intensity"`
	Filter     string  `toml:"filter"`
	Threshold  float64 `toml:"threshold"`
	Seed       [2]int  `toml:"seed"`
	EditMode   string  `toml:"edit_mode"`
}

func defaultPreset() preset {
	return preset{
		Width:      640,
		Height:     480,
		Output:     "easel.png",
		Brush:      "pen",
		StrokeMode: "brush",
		Opacity:    1,
		Intensity:  1,
		Filter:     "sepia",
		Threshold:  40,
		Seed:       [2]int{320, 240},
		EditMode:   "scale",
	}
}

// decodePreset reads TOML over p. Unknown keys are an error.
func decodePreset(r io.Reader, p *preset) error {
	dec := toml.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(p); err != nil {
		return fmt.Errorf("preset: %w", err)
	}
	return nil
}

func loadPreset(path string, p *preset) error {
	f, err := os.Open(path) //nolint:gosec // path comes from the command line
	if err != nil {
		return err
	}
	defer f.Close()
	return decodePreset(f, p)
}

func parseBrush(name string) (stroke.Brush, error) {
	for b := stroke.BrushThin; b <= stroke.BrushStamp; b++ {
		if b.String() == name {
			return b, nil
		}
	}
	return 0, fmt.Errorf("unknown brush %q", name)
}

func parseMode(name string) (stroke.Mode, error) {
	for m := stroke.ModeNormal; m <= stroke.ModeRectangle; m++ {
		if m.String() == name {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown stroke mode %q", name)
}

// parseFilter returns the named filter, or nil for "none".
func parseFilter(name string) (filter.Filter, error) {
	switch name {
	case "", "none":
		return nil, nil
	case "sepia":
		return filter.NewSepia(), nil
	case "invert":
		return filter.NewInvert(), nil
	case "grayscale":
		return filter.NewSaturation(0), nil
	case "brighten":
		return filter.NewBrightness(1.3), nil
	case "contrast":
		return filter.NewContrast(1.5), nil
	case "blur":
		return filter.NewBlur(3), nil
	case "noise":
		return filter.NewNoise(0.2), nil
	}
	return nil, fmt.Errorf("unknown filter %q", name)
}
