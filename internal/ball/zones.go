package ball

import "github.com/ayusman/pingpoint/internal/event"

// DefaultZoneWidth is the default width of each scoring band as a fraction of
// the frame width.
const DefaultZoneWidth = 0.4

// Zones splits the frame horizontally into an away band on the left, a home
// band on the right and a neutral centre band.
//
// Widths are not validated. A sum above 1 makes the bands overlap (the away
// band wins) and negative widths shrink a band to nothing.
type Zones struct {
	LeftWidth  float64 `json:"left_width" yaml:"left_width"`
	RightWidth float64 `json:"right_width" yaml:"right_width"`
}

// DefaultZones returns the 40/20/40 split.
func DefaultZones() Zones {
	return Zones{LeftWidth: DefaultZoneWidth, RightWidth: DefaultZoneWidth}
}

// CenterWidth returns the width of the neutral band, 1 - left - right.
// It is negative for overlapping bands. The result is a plain float
// difference (0.3/0.3 gives 0.39999999999999997), so compare it with a
// tolerance rather than ==.
func (z Zones) CenterWidth() float64 {
	return 1 - z.LeftWidth - z.RightWidth
}

// Team maps a normalized horizontal position to the team whose zone contains
// it. ok is false inside the centre band.
func (z Zones) Team(normX float64) (team event.Team, ok bool) {
	switch {
	case normX <= z.LeftWidth:
		return event.TeamAway, true
	case normX >= 1-z.RightWidth:
		return event.TeamHome, true
	default:
		return "", false
	}
}
