package gesture

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/pingpoint/internal/detector"
)

func TestClassify_FingerCount(t *testing.T) {
	tests := []struct {
		name string
		hand detector.HandLandmarks
		want Label
	}{
		{"fist is unknown", detector.FistLandmarks(), LabelUnknown},
		{"one clear finger is single", detector.PointingLandmarks(), LabelSingle},
		{"clear thumb is single", detector.ThumbsUpLandmarks(), LabelSingle},
		{"two fingers is double", detector.PeaceLandmarks(), LabelDouble},
		{"three fingers is unknown", detector.Pose(false, [4]bool{true, true, true, false}), LabelUnknown},
		{"five fingers is unknown", detector.OpenPalmLandmarks(), LabelUnknown},
		{"partially curled finger is unknown", detector.HalfRaisedIndexLandmarks(), LabelUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(PolicyFingerCount, &tt.hand))
		})
	}
}

func TestClassify_FingerCountThumbMargin(t *testing.T) {
	hand := detector.FistLandmarks()
	hand.Points[detector.ThumbMCP] = detector.Point3D{X: 0.50}
	hand.Points[detector.ThumbIP] = detector.Point3D{X: 0.52}
	// 0.10 clears the base margin (0.07) but not the clear one (0.10).
	hand.Points[detector.ThumbTip] = detector.Point3D{X: 0.60}

	require.Equal(t, 1, Extract(&hand).Count())
	assert.Equal(t, LabelUnknown, Classify(PolicyFingerCount, &hand))

	hand.Points[detector.ThumbTip] = detector.Point3D{X: 0.62}
	assert.Equal(t, LabelSingle, Classify(PolicyFingerCount, &hand))
}

func TestClassify_PoseShape(t *testing.T) {
	tests := []struct {
		name string
		hand detector.HandLandmarks
		want Label
	}{
		{"thumbs up", detector.ThumbsUpLandmarks(), LabelThumbsUp},
		{"open palm", detector.OpenPalmLandmarks(), LabelOpenPalm},
		{"four fingers without pinky", detector.Pose(true, [4]bool{true, true, true, false}), LabelOpenPalm},
		{"four fingers without thumb", detector.Pose(false, [4]bool{true, true, true, true}), LabelOpenPalm},
		{"fist", detector.FistLandmarks(), LabelUnknown},
		{"pointing", detector.PointingLandmarks(), LabelUnknown},
		{"thumb and index", detector.Pose(true, [4]bool{true, false, false, false}), LabelUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(PolicyPoseShape, &tt.hand))
		})
	}
}

func TestClassifyShape_Vectors(t *testing.T) {
	assert.Equal(t, LabelThumbsUp, classifyShape(ExtendedVector{true, false, false, false, false}))
	assert.Equal(t, LabelOpenPalm, classifyShape(ExtendedVector{true, true, true, true, false}))
	assert.Equal(t, LabelUnknown, classifyShape(ExtendedVector{}))
}

func TestClassify_NilAndUnknownPolicy(t *testing.T) {
	hand := detector.PointingLandmarks()
	assert.Equal(t, LabelUnknown, Classify(PolicyFingerCount, nil))
	assert.Equal(t, LabelUnknown, Classify(Policy("nope"), &hand))
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("finger_count")
	require.NoError(t, err)
	assert.Equal(t, PolicyFingerCount, p)

	p, err = ParsePolicy("pose_shape")
	require.NoError(t, err)
	assert.Equal(t, PolicyPoseShape, p)

	_, err = ParsePolicy("thumbs")
	assert.Error(t, err)
}

func TestParseLabel(t *testing.T) {
	for _, s := range []string{"single", "double", "thumbsUp", "openPalm"} {
		l, err := ParseLabel(s)
		require.NoError(t, err)
		assert.Equal(t, Label(s), l)
	}

	_, err := ParseLabel("unknown")
	assert.Error(t, err)
	_, err = ParseLabel("fist")
	assert.Error(t, err)
}
