package ball

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsOrange(t *testing.T) {
	tests := []struct {
		name    string
		r, g, b uint8
		want    bool
	}{
		{name: "css orange", r: 255, g: 165, b: 0, want: true},
		{name: "black is achromatic", r: 0, g: 0, b: 0, want: false},
		{name: "grey is achromatic", r: 128, g: 128, b: 128, want: false},
		{name: "white is achromatic", r: 255, g: 255, b: 255, want: false},
		{name: "pure red hue 0", r: 255, g: 0, b: 0, want: false},
		{name: "yellow hue 60", r: 255, g: 255, b: 0, want: false},
		{name: "hue exactly 15", r: 255, g: 64, b: 0, want: true},
		{name: "hue exactly 45", r: 255, g: 191, b: 0, want: true},
		{name: "hue 14 rounds below range", r: 255, g: 59, b: 0, want: false},
		{name: "low saturation", r: 200, g: 170, b: 140, want: false},
		{name: "too dark", r: 90, g: 50, b: 0, want: false},
		{name: "pure blue", r: 0, g: 0, b: 255, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsOrange(tt.r, tt.g, tt.b))
		})
	}
}

func TestIsWhite(t *testing.T) {
	tests := []struct {
		name    string
		r, g, b uint8
		want    bool
	}{
		{name: "near white", r: 250, g: 250, b: 250, want: true},
		{name: "pure white", r: 255, g: 255, b: 255, want: true},
		{name: "pure red", r: 255, g: 0, b: 0, want: false},
		{name: "average at threshold", r: 200, g: 200, b: 200, want: false},
		{name: "bright but tinted", r: 255, g: 240, b: 215, want: false},
		{name: "slightly warm", r: 240, g: 230, b: 225, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsWhite(tt.r, tt.g, tt.b))
		})
	}
}

func TestColorClassifiers_Total(t *testing.T) {
	// Every input must be classifiable without panicking and deterministically.
	for r := 0; r < 256; r += 5 {
		for g := 0; g < 256; g += 5 {
			for b := 0; b < 256; b += 5 {
				o1, w1 := IsOrange(uint8(r), uint8(g), uint8(b)), IsWhite(uint8(r), uint8(g), uint8(b))
				o2, w2 := IsOrange(uint8(r), uint8(g), uint8(b)), IsWhite(uint8(r), uint8(g), uint8(b))
				if o1 != o2 || w1 != w2 {
					t.Fatalf("classification of (%d,%d,%d) is not deterministic", r, g, b)
				}
			}
		}
	}
}

func TestClassifyColor(t *testing.T) {
	c, ok := ClassifyColor(255, 165, 0)
	assert.True(t, ok)
	assert.Equal(t, ColorOrange, c)

	c, ok = ClassifyColor(250, 250, 250)
	assert.True(t, ok)
	assert.Equal(t, ColorWhite, c)

	_, ok = ClassifyColor(10, 120, 30)
	assert.False(t, ok)
}

func TestHSV(t *testing.T) {
	hue, sat, val, ok := hsv(255, 165, 0)
	assert.True(t, ok)
	assert.Equal(t, 39.0, hue)
	assert.InDelta(t, 1.0, sat, 1e-9)
	assert.InDelta(t, 1.0, val, 1e-9)

	// Magenta-ish red wraps negative hues into [0,360).
	hue, _, _, ok = hsv(255, 0, 10)
	assert.True(t, ok)
	assert.Equal(t, 358.0, hue)

	_, _, _, ok = hsv(40, 40, 40)
	assert.False(t, ok)
}
