package ball

import "math"

// Color tags the material a candidate matched.
type Color string

const (
	ColorOrange Color = "orange"
	ColorWhite  Color = "white"
)

// Orange range in HSV.
const (
	orangeHueMin = 15
	orangeHueMax = 45
	orangeSatMin = 0.4
	orangeValMin = 0.4
)

// White thresholds on the channel average and spread.
const (
	whiteAvgMin      = 200
	whiteVarianceMax = 30
)

// IsOrange reports whether the sample falls in the orange HSV range.
// Achromatic samples (max == min) are never orange.
func IsOrange(r, g, b uint8) bool {
	hue, sat, val, ok := hsv(r, g, b)
	if !ok {
		return false
	}
	return hue >= orangeHueMin && hue <= orangeHueMax && sat >= orangeSatMin && val >= orangeValMin
}

// IsWhite reports whether the sample is bright with little channel spread.
func IsWhite(r, g, b uint8) bool {
	rf, gf, bf := float64(r), float64(g), float64(b)
	avg := (rf + gf + bf) / 3
	variance := math.Abs(rf-avg) + math.Abs(gf-avg) + math.Abs(bf-avg)
	return avg > whiteAvgMin && variance < whiteVarianceMax
}

// ClassifyColor returns the material tag for a sample. Orange takes
// precedence; ok is false when neither classifier matches.
func ClassifyColor(r, g, b uint8) (c Color, ok bool) {
	switch {
	case IsOrange(r, g, b):
		return ColorOrange, true
	case IsWhite(r, g, b):
		return ColorWhite, true
	default:
		return "", false
	}
}

// hsv converts RGB to hue in whole degrees [0,360), saturation and value in
// [0,1]. ok is false for achromatic input where hue is undefined.
func hsv(r, g, b uint8) (hue, sat, val float64, ok bool) {
	rf, gf, bf := float64(r), float64(g), float64(b)
	maxC := math.Max(rf, math.Max(gf, bf))
	minC := math.Min(rf, math.Min(gf, bf))
	delta := maxC - minC
	if delta == 0 {
		return 0, 0, 0, false
	}

	switch maxC {
	case rf:
		hue = math.Mod((gf-bf)/delta, 6)
	case gf:
		hue = (bf-rf)/delta + 2
	default:
		hue = (rf-gf)/delta + 4
	}

	// Round half up to whole degrees.
	hue = math.Floor(hue*60 + 0.5)
	if hue < 0 {
		hue += 360
	}

	return hue, delta / maxC, maxC / 255, true
}
