// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package layer

import (
	"fmt"

	xdraw "golang.org/x/image/draw"
)

// Kind is the layer variant tag.
type Kind int

const (
	// KindImage is a layer backed by RGBA pixels.
	KindImage Kind = iota

	// KindMask is a layer backed by a coverage mask and a tint color.
	KindMask
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindImage:
		return "image"
	case KindMask:
		return "mask"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Bucket returns the draw bucket of the kind. Layers are grouped by
// ascending bucket when rendering.
func (k Kind) Bucket() int {
	return int(k)
}

// Interpolator returns the resampler used to draw layers of this kind.
// Masks keep hard edges so their pixels stay selectable as drawn.
func (k Kind) Interpolator() xdraw.Interpolator {
	if k == KindMask {
		return xdraw.NearestNeighbor
	}
	return xdraw.ApproxBiLinear
}
