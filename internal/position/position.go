// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package position computes where the suggestion popup is anchored, either
// relative to the caret or to the input surface's bounding box.
//
// Coordinates are relative to the input surface's top-left corner, in
// whatever unit the surface reports (pixels for a browser, cells for a
// terminal). No viewport clamping is performed: anchors may fall outside
// the visible area near the edges.
package position

import "fmt"

// =============================================================================
// GEOMETRY
// =============================================================================

// Rect is an on-screen rectangle.
type Rect struct {
	Top    float64
	Left   float64
	Width  float64
	Height float64
}

// Bottom returns the rectangle's bottom edge.
func (r Rect) Bottom() float64 { return r.Top + r.Height }

// Right returns the rectangle's right edge.
func (r Rect) Right() float64 { return r.Left + r.Width }

// Point is a popup anchor (its top-left corner).
type Point struct {
	Top  float64
	Left float64
}

// =============================================================================
// CORNERS
// =============================================================================

// Corner selects the popup alignment.
type Corner string

const (
	TopLeft           Corner = "topLeft"
	TopRight          Corner = "topRight"
	TopCenter         Corner = "topCenter"
	BottomLeft        Corner = "bottomLeft"
	BottomRight       Corner = "bottomRight"
	BottomCenter      Corner = "bottomCenter"
	InputTopLeft      Corner = "inputTopLeft"
	InputTopRight     Corner = "inputTopRight"
	InputTopCenter    Corner = "inputTopCenter"
	InputBottomLeft   Corner = "inputBottomLeft"
	InputBottomRight  Corner = "inputBottomRight"
	InputBottomCenter Corner = "inputBottomCenter"
)

// DefaultCorner is used when no corner is configured.
const DefaultCorner = BottomLeft

var corners = []Corner{
	TopLeft, TopRight, TopCenter,
	BottomLeft, BottomRight, BottomCenter,
	InputTopLeft, InputTopRight, InputTopCenter,
	InputBottomLeft, InputBottomRight, InputBottomCenter,
}

// Corners returns all twelve corners.
func Corners() []Corner {
	out := make([]Corner, len(corners))
	copy(out, corners)
	return out
}

// ParseCorner validates a configured corner. Empty selects DefaultCorner.
func ParseCorner(s string) (Corner, error) {
	if s == "" {
		return DefaultCorner, nil
	}
	for _, c := range corners {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown suggestion position %q", s)
}

// IsInput reports whether the corner is anchored to the input surface.
func (c Corner) IsInput() bool {
	switch c {
	case InputTopLeft, InputTopRight, InputTopCenter,
		InputBottomLeft, InputBottomRight, InputBottomCenter:
		return true
	}
	return false
}

// IsTop reports whether the popup opens upward.
func (c Corner) IsTop() bool {
	switch c {
	case TopLeft, TopRight, TopCenter, InputTopLeft, InputTopRight, InputTopCenter:
		return true
	}
	return false
}

type alignment int

const (
	alignLeft alignment = iota
	alignRight
	alignCenter
)

func (c Corner) alignment() alignment {
	switch c {
	case TopRight, BottomRight, InputTopRight, InputBottomRight:
		return alignRight
	case TopCenter, BottomCenter, InputTopCenter, InputBottomCenter:
		return alignCenter
	}
	return alignLeft
}
