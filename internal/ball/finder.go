package ball

import "sort"

// Scan parameters.
const (
	// PatchRadius is the radius of the neighbourhood sampled for confidence.
	PatchRadius = 15
	// ScanStride is the grid step of the candidate scan in both axes.
	ScanStride = 4
	// MinBallRadius is the border excluded from the scan.
	MinBallRadius = 8
	// MaxBallRadius is the largest ball radius the detector is tuned for.
	MaxBallRadius = 40
	// MaxCandidates is the number of candidates kept after ranking.
	MaxCandidates = 3
	// DefaultSensitivity is the default confidence a candidate must exceed.
	DefaultSensitivity = 0.7
)

// Candidate is a possible ball position found in a single frame.
type Candidate struct {
	X          int     `json:"x"`
	Y          int     `json:"y"`
	Confidence float64 `json:"confidence"`
	Color      Color   `json:"color"`
}

// PatchConfidence returns the fraction of in-frame pixels within PatchRadius
// of (cx, cy) that classify as orange or white. It returns 0 when no sample
// of the disk lies inside the frame.
func PatchConfidence(f *Frame, cx, cy int) float64 {
	matches, total := 0, 0

	for dy := -PatchRadius; dy <= PatchRadius; dy++ {
		for dx := -PatchRadius; dx <= PatchRadius; dx++ {
			if dx*dx+dy*dy > PatchRadius*PatchRadius {
				continue
			}
			x, y := cx+dx, cy+dy
			if !f.In(x, y) {
				continue
			}
			total++
			r, g, b := f.At(x, y)
			if IsOrange(r, g, b) || IsWhite(r, g, b) {
				matches++
			}
		}
	}

	if total == 0 {
		return 0
	}
	return float64(matches) / float64(total)
}

// FindCandidates scans f on a ScanStride grid, skipping a MinBallRadius
// border, and returns up to MaxCandidates positions whose patch confidence
// exceeds sensitivity, best first.
func FindCandidates(f *Frame, sensitivity float64) []Candidate {
	var candidates []Candidate

	for y := MinBallRadius; y < f.Height()-MinBallRadius; y += ScanStride {
		for x := MinBallRadius; x < f.Width()-MinBallRadius; x += ScanStride {
			color, ok := ClassifyColor(f.At(x, y))
			if !ok {
				continue
			}

			confidence := PatchConfidence(f, x, y)
			if confidence > sensitivity {
				candidates = append(candidates, Candidate{
					X:          x,
					Y:          y,
					Confidence: confidence,
					Color:      color,
				})
			}
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Confidence > candidates[j].Confidence
	})

	if len(candidates) > MaxCandidates {
		candidates = candidates[:MaxCandidates]
	}
	return candidates
}
