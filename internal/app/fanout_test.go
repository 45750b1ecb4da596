package app

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ayusman/pingpoint/internal/event"
)

func TestFanout_PublishInOrder(t *testing.T) {
	f := NewFanout()

	var got []string
	f.Subscribe(func(p Point) { got = append(got, "a:"+string(p.Team)) })
	f.Subscribe(func(p Point) { got = append(got, "b:"+string(p.Team)) })

	f.Publish(Point{Team: event.TeamHome})
	f.Publish(Point{Team: event.TeamAway})

	want := []string{"a:home", "b:home", "a:away", "b:away"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Publish order mismatch (-want +got):\n%s", diff)
	}
}

func TestFanout_Unsubscribe(t *testing.T) {
	f := NewFanout()

	calls := 0
	unsubscribe := f.Subscribe(func(Point) { calls++ })
	f.Subscribe(func(Point) {})

	f.Publish(Point{Team: event.TeamHome})
	unsubscribe()
	f.Publish(Point{Team: event.TeamHome})

	if calls != 1 {
		t.Errorf("unsubscribed handler called %d times, want 1", calls)
	}
	if f.Len() != 1 {
		t.Errorf("Len() = %d, want 1", f.Len())
	}

	// A second unsubscribe is a no-op.
	unsubscribe()
	if f.Len() != 1 {
		t.Errorf("Len() after double unsubscribe = %d, want 1", f.Len())
	}
}

func TestFanout_NoSubscribers(t *testing.T) {
	NewFanout().Publish(Point{Team: event.TeamAway})
}
