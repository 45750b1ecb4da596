package gesture

import (
	"fmt"

	"github.com/ayusman/pingpoint/internal/detector"
)

// Policy selects how an extended vector becomes a label.
type Policy string

const (
	// PolicyFingerCount scores one raised digit as single and two as double.
	PolicyFingerCount Policy = "finger_count"
	// PolicyPoseShape scores a thumbs up and an open palm.
	PolicyPoseShape Policy = "pose_shape"
)

// ParsePolicy converts a configuration string to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(s); p {
	case PolicyFingerCount, PolicyPoseShape:
		return p, nil
	}
	return "", fmt.Errorf("unknown gesture policy %q", s)
}

// Label is the classification result for one hand.
type Label string

const (
	LabelUnknown  Label = "unknown"
	LabelSingle   Label = "single"
	LabelDouble   Label = "double"
	LabelThumbsUp Label = "thumbsUp"
	LabelOpenPalm Label = "openPalm"
)

// ParseLabel converts a configuration string to a scoring label. The unknown
// label is rejected since it never maps to a team.
func ParseLabel(s string) (Label, error) {
	switch l := Label(s); l {
	case LabelSingle, LabelDouble, LabelThumbsUp, LabelOpenPalm:
		return l, nil
	}
	return "", fmt.Errorf("unknown gesture label %q", s)
}

// Classify labels a hand under the given policy. A nil hand or an unknown
// policy yields LabelUnknown.
func Classify(policy Policy, h *detector.HandLandmarks) Label {
	if h == nil {
		return LabelUnknown
	}

	v := Extract(h)
	switch policy {
	case PolicyFingerCount:
		return classifyCount(h, v)
	case PolicyPoseShape:
		return classifyShape(v)
	}
	return LabelUnknown
}

func classifyCount(h *detector.HandLandmarks, v ExtendedVector) Label {
	switch v.Count() {
	case 1:
		if clearlyExtended(h, v) {
			return LabelSingle
		}
	case 2:
		return LabelDouble
	}
	return LabelUnknown
}

func classifyShape(v ExtendedVector) Label {
	if v == (ExtendedVector{true, false, false, false, false}) {
		return LabelThumbsUp
	}
	if v.Count() >= 4 {
		return LabelOpenPalm
	}
	return LabelUnknown
}

// clearlyExtended applies the stricter margins to the single extended digit
// in v.
func clearlyExtended(h *detector.HandLandmarks, v ExtendedVector) bool {
	if v[0] {
		return thumbExtended(h, ClearThumbMargin)
	}
	for i, f := range detector.Fingers {
		if v[i+1] {
			return fingerExtended(h, f, ClearPIPMargin, ClearMCPMargin)
		}
	}
	return false
}
