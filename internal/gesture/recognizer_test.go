package gesture

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/pingpoint/internal/debounce"
	"github.com/ayusman/pingpoint/internal/detector"
	"github.com/ayusman/pingpoint/internal/event"
)

func TestRecognizer_PoseShapeTeams(t *testing.T) {
	r := NewRecognizer(PolicyPoseShape)
	var got []event.Team
	r.OnEvent(func(team event.Team) { got = append(got, team) })

	start := time.Unix(0, 0)
	thumbs := detector.ThumbsUpLandmarks()
	palm := detector.OpenPalmLandmarks()

	team, ok := r.Process(&thumbs, start)
	require.True(t, ok)
	assert.Equal(t, event.TeamHome, team)

	team, ok = r.Process(&palm, start.Add(3*time.Second))
	require.True(t, ok)
	assert.Equal(t, event.TeamAway, team)

	if diff := cmp.Diff([]event.Team{event.TeamHome, event.TeamAway}, got); diff != "" {
		t.Errorf("handler calls mismatch (-want +got):\n%s", diff)
	}
}

func TestRecognizer_FingerCountTeams(t *testing.T) {
	r := NewRecognizer(PolicyFingerCount)
	start := time.Unix(0, 0)

	one := detector.PointingLandmarks()
	team, ok := r.Process(&one, start)
	require.True(t, ok)
	assert.Equal(t, event.TeamHome, team)

	two := detector.PeaceLandmarks()
	team, ok = r.Process(&two, start.Add(debounce.GestureWindow))
	require.True(t, ok)
	assert.Equal(t, event.TeamAway, team)
}

func TestRecognizer_Debounce(t *testing.T) {
	hand := detector.ThumbsUpLandmarks()
	start := time.Unix(100, 0)

	tests := []struct {
		name  string
		gap   time.Duration
		emits int
	}{
		{"inside window", 2 * time.Second, 1},
		{"at window", 3 * time.Second, 2},
		{"after window", 3500 * time.Millisecond, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRecognizer(PolicyPoseShape)
			emits := 0
			r.OnEvent(func(event.Team) { emits++ })

			r.Process(&hand, start)
			r.Process(&hand, start.Add(tt.gap))
			assert.Equal(t, tt.emits, emits)
		})
	}
}

func TestRecognizer_UnknownDoesNotTouchDebounce(t *testing.T) {
	r := NewRecognizer(PolicyPoseShape)
	start := time.Unix(0, 0)
	fist := detector.FistLandmarks()
	thumbs := detector.ThumbsUpLandmarks()

	_, ok := r.Process(&fist, start)
	assert.False(t, ok)
	assert.Equal(t, LabelUnknown, r.LastLabel())

	_, ok = r.Process(&thumbs, start.Add(time.Millisecond))
	assert.True(t, ok)
	assert.Equal(t, LabelThumbsUp, r.LastLabel())
}

func TestRecognizer_NoHand(t *testing.T) {
	r := NewRecognizer(PolicyFingerCount)
	_, ok := r.Process(nil, time.Now())
	assert.False(t, ok)
}

func TestRecognizer_SetTeams(t *testing.T) {
	r := NewRecognizer(PolicyPoseShape)
	r.SetTeams(map[Label]event.Team{
		LabelThumbsUp: event.TeamAway,
		LabelUnknown:  event.TeamHome,
	})

	thumbs := detector.ThumbsUpLandmarks()
	team, ok := r.Process(&thumbs, time.Unix(0, 0))
	require.True(t, ok)
	assert.Equal(t, event.TeamAway, team)

	palm := detector.OpenPalmLandmarks()
	_, ok = r.Process(&palm, time.Unix(10, 0))
	assert.False(t, ok, "unmapped label must not emit")

	fist := detector.FistLandmarks()
	_, ok = r.Process(&fist, time.Unix(20, 0))
	assert.False(t, ok, "unknown never maps")
}

func TestRecognizer_SettersAndReset(t *testing.T) {
	r := NewRecognizer(PolicyFingerCount)
	assert.Equal(t, PolicyFingerCount, r.Policy())
	assert.Equal(t, debounce.GestureWindow, r.Debounce())

	r.SetPolicy(PolicyPoseShape)
	r.SetDebounce(time.Second)
	assert.Equal(t, PolicyPoseShape, r.Policy())
	assert.Equal(t, time.Second, r.Debounce())

	hand := detector.ThumbsUpLandmarks()
	start := time.Unix(0, 0)
	_, ok := r.Process(&hand, start)
	require.True(t, ok)

	r.Reset()
	_, ok = r.Process(&hand, start.Add(time.Millisecond))
	assert.True(t, ok, "reset clears the cooldown")
}
