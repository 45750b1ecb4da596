package detector

import (
	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	hands  []HandLandmarks
	err    error
	calls  int
	closed bool
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by Detect.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.hands = hands
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.err = err
}

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.hands, nil
}

// Calls returns how many times Detect was invoked.
func (m *MockDetector) Calls() int {
	return m.calls
}

// Closed reports whether Close was called.
func (m *MockDetector) Closed() bool {
	return m.closed
}

// Close marks the detector closed.
func (m *MockDetector) Close() error {
	m.closed = true
	return nil
}

// Preset poses. All describe a right hand seen by a front camera with the
// wrist at the bottom of the frame.

// curledFinger places a finger whose tip folds back below its PIP joint.
func curledFinger(lm *HandLandmarks, f FingerJoints, dip int, x, mcpY float64) {
	lm.Points[f.MCP] = Point3D{X: x, Y: mcpY, Z: -0.02}
	lm.Points[f.PIP] = Point3D{X: x, Y: mcpY - 0.02, Z: -0.05}
	lm.Points[dip] = Point3D{X: x - 0.02, Y: mcpY, Z: -0.04}
	lm.Points[f.Tip] = Point3D{X: x - 0.04, Y: mcpY + 0.02, Z: -0.02}
}

// extendedFinger places a straight finger pointing up by length.
func extendedFinger(lm *HandLandmarks, f FingerJoints, dip int, x, mcpY, length float64) {
	lm.Points[f.MCP] = Point3D{X: x, Y: mcpY}
	lm.Points[f.PIP] = Point3D{X: x, Y: mcpY - length*0.4}
	lm.Points[dip] = Point3D{X: x, Y: mcpY - length*0.7}
	lm.Points[f.Tip] = Point3D{X: x, Y: mcpY - length}
}

// tuckedThumb keeps the thumb tip horizontally close to its MCP.
func tuckedThumb(lm *HandLandmarks) {
	lm.Points[ThumbCMC] = Point3D{X: 0.55, Y: 0.75}
	lm.Points[ThumbMCP] = Point3D{X: 0.58, Y: 0.70}
	lm.Points[ThumbIP] = Point3D{X: 0.57, Y: 0.66}
	lm.Points[ThumbTip] = Point3D{X: 0.55, Y: 0.66}
}

// outThumb swings the thumb tip sideways, away from its MCP.
func outThumb(lm *HandLandmarks) {
	lm.Points[ThumbCMC] = Point3D{X: 0.55, Y: 0.75}
	lm.Points[ThumbMCP] = Point3D{X: 0.60, Y: 0.70}
	lm.Points[ThumbIP] = Point3D{X: 0.66, Y: 0.64}
	lm.Points[ThumbTip] = Point3D{X: 0.76, Y: 0.58}
}

func baseHand() HandLandmarks {
	lm := HandLandmarks{Handedness: "Right", Score: 0.95}
	lm.Points[Wrist] = Point3D{X: 0.5, Y: 0.8}
	return lm
}

var dips = [4]int{IndexDIP, MiddleDIP, RingDIP, PinkyDIP}

// fingerX is the MCP x position of index, middle, ring and pinky.
var fingerX = [4]float64{0.55, 0.50, 0.45, 0.40}

// Pose builds a hand with the thumb and the four fingers extended or curled
// as requested. Extended fingers point straight up with a clear margin.
func Pose(thumb bool, fingers [4]bool) HandLandmarks {
	lm := baseHand()
	if thumb {
		outThumb(&lm)
	} else {
		tuckedThumb(&lm)
	}
	for i, f := range Fingers {
		if fingers[i] {
			extendedFinger(&lm, f, dips[i], fingerX[i], 0.68, 0.30)
		} else {
			curledFinger(&lm, f, dips[i], fingerX[i], 0.70)
		}
	}
	return lm
}

// ThumbsUpLandmarks returns a thumbs up: thumb out, other fingers curled.
func ThumbsUpLandmarks() HandLandmarks {
	return Pose(true, [4]bool{})
}

// OpenPalmLandmarks returns an open palm with all five fingers extended.
func OpenPalmLandmarks() HandLandmarks {
	return Pose(true, [4]bool{true, true, true, true})
}

// FistLandmarks returns a closed fist.
func FistLandmarks() HandLandmarks {
	return Pose(false, [4]bool{})
}

// PointingLandmarks returns a hand with only the index finger clearly raised.
func PointingLandmarks() HandLandmarks {
	return Pose(false, [4]bool{true, false, false, false})
}

// PeaceLandmarks returns a hand with index and middle fingers raised.
func PeaceLandmarks() HandLandmarks {
	return Pose(false, [4]bool{true, true, false, false})
}

// HalfRaisedIndexLandmarks returns a hand whose index finger only just clears
// the basic extension threshold: its tip sits 0.065 above the PIP joint.
func HalfRaisedIndexLandmarks() HandLandmarks {
	lm := FistLandmarks()
	lm.Points[IndexMCP] = Point3D{X: 0.55, Y: 0.68}
	lm.Points[IndexPIP] = Point3D{X: 0.55, Y: 0.62}
	lm.Points[IndexDIP] = Point3D{X: 0.55, Y: 0.585}
	lm.Points[IndexTip] = Point3D{X: 0.55, Y: 0.555}
	return lm
}
