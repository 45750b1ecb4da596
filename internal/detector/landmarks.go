// Package detector provides hand landmark types and the hand tracker
// interface used by gesture mode.
package detector

import (
	"errors"
	"fmt"
)

// Hand landmark indices following the MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// ErrLandmarkCount is returned when a landmark sequence does not hold exactly
// NumLandmarks points.
var ErrLandmarkCount = errors.New("hand pose must have 21 landmarks")

// Point3D is a landmark position. X and Y are normalized to the frame
// ([0,1], y grows downwards); Z is relative depth.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// HandLandmarks represents the 21 hand landmarks of one tracked hand.
type HandLandmarks struct {
	Points     [NumLandmarks]Point3D `json:"points"`
	Handedness string                `json:"handedness"` // "Left" or "Right"
	Score      float64               `json:"score"`
}

// FromPoints builds a HandLandmarks from an ordered landmark sequence.
func FromPoints(points []Point3D) (*HandLandmarks, error) {
	if len(points) != NumLandmarks {
		return nil, fmt.Errorf("%w: got %d", ErrLandmarkCount, len(points))
	}

	h := &HandLandmarks{}
	copy(h.Points[:], points)
	return h, nil
}

// FingerJoints holds the landmark indices of a non-thumb finger.
type FingerJoints struct {
	Tip, PIP, MCP int
}

// Fingers lists index, middle, ring and pinky in that order.
var Fingers = [4]FingerJoints{
	{Tip: IndexTip, PIP: IndexPIP, MCP: IndexMCP},
	{Tip: MiddleTip, PIP: MiddlePIP, MCP: MiddleMCP},
	{Tip: RingTip, PIP: RingPIP, MCP: RingMCP},
	{Tip: PinkyTip, PIP: PinkyPIP, MCP: PinkyMCP},
}
