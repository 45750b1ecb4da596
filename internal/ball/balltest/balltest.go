// Package balltest builds synthetic frames for ball detection tests.
package balltest

import (
	"image"
	"image/color"

	"github.com/ayusman/pingpoint/internal/ball"
)

// Common sample colors.
var (
	Orange = color.RGBA{R: 255, G: 165, B: 0, A: 255}
	White  = color.RGBA{R: 250, G: 250, B: 250, A: 255}
	Black  = color.RGBA{A: 255}
	Green  = color.RGBA{R: 20, G: 110, B: 40, A: 255}
)

// Canvas is a mutable RGBA image that is snapshotted into immutable frames.
type Canvas struct {
	img *image.RGBA
}

// NewCanvas creates a width x height canvas filled with bg.
func NewCanvas(width, height int, bg color.Color) *Canvas {
	c := &Canvas{img: image.NewRGBA(image.Rect(0, 0, width, height))}
	c.Fill(image.Rect(0, 0, width, height), bg)
	return c
}

// Fill paints the rectangle r with col.
func (c *Canvas) Fill(r image.Rectangle, col color.Color) *Canvas {
	r = r.Intersect(c.img.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			c.img.Set(x, y, col)
		}
	}
	return c
}

// Disk paints a filled circle of the given radius centred on (cx, cy).
func (c *Canvas) Disk(cx, cy, radius int, col color.Color) *Canvas {
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx*dx+dy*dy <= radius*radius {
				c.img.Set(cx+dx, cy+dy, col)
			}
		}
	}
	return c
}

// Image returns the underlying image.
func (c *Canvas) Image() *image.RGBA {
	return c.img
}

// Frame snapshots the canvas.
func (c *Canvas) Frame() *ball.Frame {
	return ball.FrameFromImage(c.img)
}

// BallFrame returns a frame with a single ball of radius 20 on a green table.
func BallFrame(width, height, cx, cy int, col color.Color) *ball.Frame {
	return NewCanvas(width, height, Green).Disk(cx, cy, 20, col).Frame()
}
