// Package ball detects a colored table-tennis ball in RGB frames and maps its
// motion onto the scoring zones of the table.
package ball

import (
	"errors"
	"fmt"
	"image"
)

// ErrFrameSize is returned when a pixel buffer does not match the frame size.
var ErrFrameSize = errors.New("pixel buffer does not match frame dimensions")

// Frame is an immutable RGB pixel buffer. Pixels are stored row major with
// three bytes per pixel.
type Frame struct {
	width  int
	height int
	pix    []uint8
}

// NewFrame creates a Frame of the given size from an RGB buffer.
// The buffer is copied so later writes by the caller do not alias the frame.
func NewFrame(width, height int, pix []uint8) (*Frame, error) {
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("invalid frame size %dx%d", width, height)
	}
	if len(pix) != width*height*3 {
		return nil, fmt.Errorf("%w: got %d bytes for %dx%d", ErrFrameSize, len(pix), width, height)
	}

	buf := make([]uint8, len(pix))
	copy(buf, pix)

	return &Frame{width: width, height: height, pix: buf}, nil
}

// FrameFromImage converts any image.Image into a Frame.
func FrameFromImage(img image.Image) *Frame {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	pix := make([]uint8, w*h*3)

	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			pix[i] = uint8(r >> 8)
			pix[i+1] = uint8(g >> 8)
			pix[i+2] = uint8(bl >> 8)
			i += 3
		}
	}

	return &Frame{width: w, height: h, pix: pix}
}

// Width returns the frame width in pixels.
func (f *Frame) Width() int { return f.width }

// Height returns the frame height in pixels.
func (f *Frame) Height() int { return f.height }

// In reports whether (x, y) lies inside the frame.
func (f *Frame) In(x, y int) bool {
	return x >= 0 && x < f.width && y >= 0 && y < f.height
}

// At returns the RGB sample at (x, y). The caller must check In first.
func (f *Frame) At(x, y int) (r, g, b uint8) {
	i := (y*f.width + x) * 3
	return f.pix[i], f.pix[i+1], f.pix[i+2]
}
