// Package gesture classifies a single tracked hand into a scoring label and
// maps labels to teams.
package gesture

import (
	"math"

	"github.com/ayusman/pingpoint/internal/detector"
)

// Extension thresholds in normalized frame units.
const (
	// ExtendedMargin is the minimum tip lead for a digit to count as extended.
	ExtendedMargin = 0.05

	// Clear-extension margins used by the finger count policy when exactly
	// one digit is up.
	ClearPIPMargin   = 0.08
	ClearMCPMargin   = 0.10
	ClearThumbMargin = 0.08
)

// ExtendedVector holds the extended flag of each digit, thumb first, then
// index, middle, ring and pinky.
type ExtendedVector [5]bool

// Count returns the number of extended digits.
func (v ExtendedVector) Count() int {
	n := 0
	for _, up := range v {
		if up {
			n++
		}
	}
	return n
}

// Extract computes the extended vector of a hand. A nil hand yields all
// false.
func Extract(h *detector.HandLandmarks) ExtendedVector {
	var v ExtendedVector
	if h == nil {
		return v
	}

	v[0] = thumbExtended(h, ExtendedMargin)
	for i, f := range detector.Fingers {
		v[i+1] = fingerExtended(h, f, ExtendedMargin, ExtendedMargin)
	}
	return v
}

// The thumb folds sideways, so it is judged on the x axis.
func thumbExtended(h *detector.HandLandmarks, margin float64) bool {
	mcp := h.Points[detector.ThumbMCP].X
	tip := math.Abs(h.Points[detector.ThumbTip].X - mcp)
	ip := math.Abs(h.Points[detector.ThumbIP].X - mcp)
	return tip > ip+margin
}

// y grows downwards, so a raised tip has the smaller y.
func fingerExtended(h *detector.HandLandmarks, f detector.FingerJoints, pipMargin, mcpMargin float64) bool {
	tip := h.Points[f.Tip].Y
	return h.Points[f.PIP].Y-tip > pipMargin && h.Points[f.MCP].Y-tip > mcpMargin
}
