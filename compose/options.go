// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package compose

import (
	"image/color"
	"log/slog"
)

// Option configures an Engine during creation.
type Option func(*options)

type options struct {
	logger     *slog.Logger
	clearColor color.Color
}

func defaultOptions() options {
	return options{
		clearColor: color.Transparent,
	}
}

// WithLogger sets a logger for this engine only. By default the engine
// reports through easel.Logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithClearColor sets the color targets are cleared to before rendering.
func WithClearColor(c color.Color) Option {
	return func(o *options) {
		if c != nil {
			o.clearColor = c
		}
	}
}
