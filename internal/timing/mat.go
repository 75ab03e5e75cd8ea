package timing

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

// MatPlane exposes a single-channel 8-bit gocv.Mat as a Plane without copying.
// The Mat must stay open for as long as the plane is in use.
type MatPlane struct {
	Mat gocv.Mat
}

// Bounds returns the image rectangle of the Mat.
func (p MatPlane) Bounds() image.Rectangle {
	return image.Rect(0, 0, p.Mat.Cols(), p.Mat.Rows())
}

// GrayAt returns the intensity at (x, y), or black outside the Mat.
func (p MatPlane) GrayAt(x, y int) color.Gray {
	if x < 0 || y < 0 || x >= p.Mat.Cols() || y >= p.Mat.Rows() {
		return color.Gray{}
	}
	return color.Gray{Y: p.Mat.GetUCharAt(y, x)}
}
