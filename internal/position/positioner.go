// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package position

// Browser-unit defaults: the popup's minimum width and maximum height.
const (
	DefaultEstimatedWidth  = 200
	DefaultEstimatedHeight = 160
	DefaultBottomGap       = 20
	DefaultTopGap          = 8
	DefaultInputGap        = 4
)

// =============================================================================
// POSITIONER
// =============================================================================

// Positioner computes popup anchors. Layout takes two passes: the first
// render uses the estimated size, then the host reports the popup's real
// size with ReportSize and later anchors use it.
type Positioner struct {
	EstimatedWidth  float64
	EstimatedHeight float64

	// BottomGap separates a bottom-family popup from the caret's bottom edge.
	BottomGap float64
	// TopGap separates a top-family popup from the caret (or input) top edge.
	// A non-negative offset passed to ComputeAnchor replaces it.
	TopGap float64
	// InputGap separates an inputBottom popup from the input surface.
	InputGap float64

	measuredWidth  float64
	measuredHeight float64
}

// New returns a positioner with browser-unit defaults.
func New() *Positioner {
	return &Positioner{
		EstimatedWidth:  DefaultEstimatedWidth,
		EstimatedHeight: DefaultEstimatedHeight,
		BottomGap:       DefaultBottomGap,
		TopGap:          DefaultTopGap,
		InputGap:        DefaultInputGap,
	}
}

// ReportSize records the popup's rendered size. Non-positive values are
// ignored so a collapsed popup never resets a good measurement.
func (p *Positioner) ReportSize(width, height float64) {
	if width > 0 {
		p.measuredWidth = width
	}
	if height > 0 {
		p.measuredHeight = height
	}
}

// Measured reports whether a real width has been reported yet.
func (p *Positioner) Measured() bool {
	return p.measuredWidth > 0
}

// Width returns the measured popup width, or the estimate before the first
// measurement.
func (p *Positioner) Width() float64 {
	if p.measuredWidth > 0 {
		return p.measuredWidth
	}
	return p.EstimatedWidth
}

// Height returns the measured popup height, or the estimate.
func (p *Positioner) Height() float64 {
	if p.measuredHeight > 0 {
		return p.measuredHeight
	}
	return p.EstimatedHeight
}

// ComputeAnchor returns the popup's top-left corner relative to container.
// offset < 0 keeps TopGap.
func (p *Positioner) ComputeAnchor(caret, container Rect, corner Corner, offset float64) Point {
	gap := p.TopGap
	if offset >= 0 {
		gap = offset
	}

	width := p.Width()

	if corner.IsInput() {
		var pt Point
		if corner.IsTop() {
			pt.Top = -p.Height() - gap
		} else {
			pt.Top = container.Height + p.InputGap
		}
		switch corner.alignment() {
		case alignRight:
			pt.Left = container.Width - width
		case alignCenter:
			pt.Left = (container.Width - width) / 2
		default:
			pt.Left = 0
		}
		return pt
	}

	caretTop := caret.Top - container.Top
	caretBottom := caret.Bottom() - container.Top
	caretLeft := caret.Left - container.Left

	var pt Point
	if corner.IsTop() {
		pt.Top = caretTop - p.Height() - gap
	} else {
		pt.Top = caretBottom + p.BottomGap
	}
	switch corner.alignment() {
	case alignRight:
		pt.Left = caretLeft - width
	case alignCenter:
		pt.Left = caretLeft - width/2
	default:
		pt.Left = caretLeft
	}
	return pt
}
