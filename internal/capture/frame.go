package capture

import (
	"fmt"

	"gocv.io/x/gocv"

	"github.com/ayusman/pingpoint/internal/ball"
)

// FrameFromMat converts a camera Mat (BGR, BGRA or gray) into an RGB
// ball.Frame. The Mat is not modified.
func FrameFromMat(mat *gocv.Mat) (*ball.Frame, error) {
	if mat == nil || mat.Empty() {
		return nil, ErrEmptyFrame
	}

	var code gocv.ColorConversionCode
	switch mat.Channels() {
	case 1:
		code = gocv.ColorGrayToBGR
	case 3:
		code = gocv.ColorBGRToRGB
	case 4:
		// Dropping alpha and swapping red/blue is the same conversion either way.
		code = gocv.ColorRGBAToBGR
	default:
		return nil, fmt.Errorf("unsupported channel count %d", mat.Channels())
	}

	rgb := gocv.NewMat()
	defer rgb.Close()
	gocv.CvtColor(*mat, &rgb, code)

	return ball.NewFrame(rgb.Cols(), rgb.Rows(), rgb.ToBytes())
}
