package preprocess

import (
	"fmt"
	"image"
	"image/draw"

	"gocv.io/x/gocv"
)

// ToGray copies a Mat into an *image.Gray. Multi-channel Mats are converted
// to grayscale first.
func ToGray(m gocv.Mat) (*image.Gray, error) {
	if m.Empty() {
		return nil, fmt.Errorf("empty mat")
	}

	src := m
	if m.Channels() != 1 {
		gray, err := Gray(m)
		if err != nil {
			return nil, err
		}
		defer gray.Close()
		src = gray
	}

	img, err := src.ToImage()
	if err != nil {
		return nil, fmt.Errorf("failed to convert mat: %w", err)
	}
	if g, ok := img.(*image.Gray); ok {
		return g, nil
	}

	g := image.NewGray(img.Bounds())
	draw.Draw(g, g.Bounds(), img, img.Bounds().Min, draw.Src)
	return g, nil
}

// FromImage converts a Go image into a BGR Mat, or a single-channel Mat
// for *image.Gray.
func FromImage(img image.Image) (gocv.Mat, error) {
	bounds := img.Bounds()
	if bounds.Empty() {
		return gocv.NewMat(), fmt.Errorf("empty image")
	}

	if g, ok := img.(*image.Gray); ok && bounds.Min == (image.Point{}) {
		m, err := gocv.ImageGrayToMatGray(g)
		if err != nil {
			return gocv.NewMat(), fmt.Errorf("failed to convert gray image: %w", err)
		}
		return m, nil
	}

	w, h := bounds.Dx(), bounds.Dy()
	mat := gocv.NewMatWithSize(h, w, gocv.MatTypeCV8UC3)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			// 16-bit RGB to 8-bit BGR
			mat.SetUCharAt(y, x*3+0, uint8(b>>8))
			mat.SetUCharAt(y, x*3+1, uint8(g>>8))
			mat.SetUCharAt(y, x*3+2, uint8(r>>8))
		}
	}
	return mat, nil
}
