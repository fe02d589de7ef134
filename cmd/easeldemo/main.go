// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Command easeldemo drives every easel engine once and writes the result.
//
// It paints a background, draws a brush stroke, selects the region under a
// seed pixel, filters the background and renders the transform handles and
// selection border on top.
//
// Usage:
//
//	easeldemo -preset demo.toml -filter blur -output out.png
package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"image/color"
	"log"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/gogpu/gg"
	xdraw "golang.org/x/image/draw"

	"github.com/gogpu/easel"
	"github.com/gogpu/easel/compose"
	"github.com/gogpu/easel/frame"
	"github.com/gogpu/easel/layer"
	"github.com/gogpu/easel/overlay"
	"github.com/gogpu/easel/render"
	"github.com/gogpu/easel/selection"
	"github.com/gogpu/easel/stroke"
)

func main() {
	p := defaultPreset()
	var (
		presetPath = flag.String("preset", "", "TOML preset file")
		verbose    = flag.Bool("v", false, "debug logging")
	)
	flag.IntVar(&p.Width, "width", p.Width, "canvas width")
	flag.IntVar(&p.Height, "height", p.Height, "canvas height")
	flag.StringVar(&p.Output, "output", p.Output, "output file")
	flag.StringVar(&p.Format, "format", p.Format, "output format: png, jpeg, bmp or tiff (default: from output extension)")
	flag.StringVar(&p.Brush, "brush", p.Brush, "brush: thin, pen, neighbor, fur, multistroke or stamp")
	flag.StringVar(&p.BrushImage, "brush-image", p.BrushImage, "PNG, JPEG or SVG brush image for the stamp brush")
	flag.StringVar(&p.StrokeMode, "mode", p.StrokeMode, "stroke mode: normal, dashed, brush, line or rectangle")
	flag.Float64Var(&p.Opacity, "opacity", p.Opacity, "stroke opacity")
	flag.Float64Var(&p.Intensity, "intensity", p.Intensity, "brush intensity")
	flag.StringVar(&p.Filter, "filter", p.Filter, "background filter: none, sepia, invert, grayscale, brighten, contrast, blur or noise")
	flag.Float64Var(&p.Threshold, "threshold", p.Threshold, "selection threshold in [1, 100]")
	flag.StringVar(&p.EditMode, "edit", p.EditMode, "handles: translate, rotate or scale")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	easel.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if *presetPath != "" {
		// Explicit flags win over the preset.
		explicit := p
		if err := loadPreset(*presetPath, &p); err != nil {
			log.Fatalf("Failed to load preset: %v", err)
		}
		flag.Visit(func(f *flag.Flag) {
			overrideFlag(&p, &explicit, f.Name)
		})
	}
	if p.Format == "" {
		p.Format = strings.TrimPrefix(filepath.Ext(p.Output), ".")
	}

	if err := run(p); err != nil {
		log.Fatalf("easeldemo: %v", err)
	}
	log.Printf("Demo saved to %s (%dx%d)\n", p.Output, p.Width, p.Height)
}

func overrideFlag(dst, src *preset, name string) {
	switch name {
	case "width":
		dst.Width = src.Width
	case "height":
		dst.Height = src.Height
	case "output":
		dst.Output = src.Output
	case "format":
		dst.Format = src.Format
	case "brush":
		dst.Brush = src.Brush
	case "brush-image":
		dst.BrushImage = src.BrushImage
	case "mode":
		dst.StrokeMode = src.StrokeMode
	case "opacity":
		dst.Opacity = src.Opacity
	case "intensity":
		dst.Intensity = src.Intensity
	case "filter":
		dst.Filter = src.Filter
	case "threshold":
		dst.Threshold = src.Threshold
	case "edit":
		dst.EditMode = src.EditMode
	}
}

func run(p preset) error {
	format, err := render.ParseFormat(p.Format)
	if err != nil {
		return err
	}
	editMode, err := parseEditMode(p.EditMode)
	if err != nil {
		return err
	}
	flt, err := parseFilter(p.Filter)
	if err != nil {
		return err
	}

	scene, err := compose.New(render.NullDeviceHandle{}, p.Width, p.Height,
		compose.WithClearColor(color.RGBA{R: 24, G: 24, B: 32, A: 255}))
	if err != nil {
		return err
	}
	defer scene.Destroy()

	background := layer.NewImageLayer(drawBackground(p.Width, p.Height))
	if err := scene.AddLayer(background); err != nil {
		return err
	}

	strokeLayer, err := drawStroke(p)
	if err != nil {
		return err
	}
	if err := scene.AddLayer(strokeLayer); err != nil {
		return err
	}

	if flt != nil {
		if err := scene.FilterLayers([]int{0}, flt); err != nil {
			return err
		}
	}
	if err := scene.Render(); err != nil {
		return err
	}

	// Select from the composited frame.
	sel := selection.NewSelector(scene.Screen())
	if _, ok := sel.Grow(p.Seed[0], p.Seed[1], p.Threshold); !ok {
		easel.Logger().Warn("easeldemo: nothing selected", "seed", p.Seed)
	}
	selLayer := layer.NewMaskLayer(sel.Union().Alpha(), color.RGBA{R: 40, G: 90, B: 160, A: 96})
	if err := scene.AddLayer(selLayer); err != nil {
		return err
	}

	ov := overlay.New(p.Width, p.Height)
	ov.SetEditLayer(strokeLayer, editMode)
	if !sel.Union().Empty() {
		if err := ov.AttachSelection(sel, selLayer); err != nil {
			return err
		}
		defer ov.DetachSelection()
	}

	// One frame through the loop, as a host would schedule it.
	var (
		queue    frame.Queue
		frameErr error
	)
	loop := frame.NewLoop(&queue, func() bool {
		frameErr = errors.Join(scene.Render(), ov.Render())
		return false
	})
	loop.RequestUpdate()
	queue.Flush()
	if frameErr != nil {
		return frameErr
	}

	out := image.NewRGBA(image.Rect(0, 0, p.Width, p.Height))
	xdraw.Copy(out, image.Point{}, scene.Screen(), out.Bounds(), xdraw.Src, nil)
	xdraw.Copy(out, image.Point{}, ov.Image(), out.Bounds(), xdraw.Over, nil)

	f, err := os.Create(p.Output)
	if err != nil {
		return err
	}
	if err := render.Encode(f, out, format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func parseEditMode(name string) (overlay.EditMode, error) {
	for m := overlay.Translate; m <= overlay.Scale; m++ {
		if m.String() == name {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown edit mode %q", name)
}

// drawBackground paints a few overlapping shapes to select from.
func drawBackground(w, h int) image.Image {
	dc := gg.NewContext(w, h)
	steps := 32
	for i := 0; i < steps; i++ {
		t := float64(i) / float64(steps)
		dc.SetRGB(0.1+t*0.4, 0.2+t*0.3, 0.4+t*0.2)
		y := float64(h) * t
		dc.DrawRectangle(0, y, float64(w), float64(h)/float64(steps)+1)
		_ = dc.Fill()
	}

	cx, cy := float64(w)/2, float64(h)/2
	r := math.Min(cx, cy) / 2
	dc.SetRGB(0.95, 0.75, 0.2)
	dc.DrawCircle(cx, cy, r)
	_ = dc.Fill()

	dc.SetRGB(0.2, 0.7, 0.4)
	dc.DrawRectangle(cx+r*0.5, cy-r*1.5, r, r)
	_ = dc.Fill()
	return dc.Image()
}

// drawStroke rasterizes a wave with the configured brush into a new layer.
func drawStroke(p preset) (*layer.Layer, error) {
	mode, err := parseMode(p.StrokeMode)
	if err != nil {
		return nil, err
	}
	style := stroke.DefaultStyle().
		WithColor(color.NRGBA{R: 200, G: 40, B: 60, A: 255}).
		WithWidth(4).
		WithOpacity(p.Opacity).
		WithIntensity(p.Intensity)

	if mode == stroke.ModeBrush {
		if p.BrushImage != "" {
			img, err := loadBrush(p.BrushImage)
			if err != nil {
				return nil, err
			}
			style = style.WithBrushImage(img)
		} else {
			b, err := parseBrush(p.Brush)
			if err != nil {
				return nil, err
			}
			if style, err = style.WithBrush(b); err != nil {
				return nil, err
			}
		}
	} else {
		style = style.WithMode(mode)
	}

	w, h := float64(p.Width), float64(p.Height)
	r := stroke.New(p.Width, p.Height, stroke.WithStyle(style))
	r.PointerDown(easel.Pt(w*0.1, h*0.75))
	const samples = 64
	for i := 1; i <= samples; i++ {
		t := float64(i) / samples
		pt := easel.Pt(w*(0.1+0.8*t), h*(0.75-0.1*math.Sin(t*4*math.Pi)))
		if i == samples {
			if err := r.PointerUp(pt); err != nil {
				return nil, err
			}
			break
		}
		if err := r.PointerMove(pt); err != nil {
			return nil, err
		}
	}
	return layer.NewImageLayer(r.Surface()), nil
}

func loadBrush(path string) (*stroke.BrushImage, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from the command line
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return stroke.LoadBrushImage(f)
}
