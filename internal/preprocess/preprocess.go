// Package preprocess prepares camera frames for finder-pattern detection:
// grayscale conversion, contrast equalization, smoothing, edge extraction
// and binarization, all on gocv Mats.
//
// Every function that returns a Mat allocates it; the caller must Close it.
package preprocess

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// Gray converts a BGR or BGRA frame to a single-channel Mat.
// Single-channel input is copied unchanged.
func Gray(frame gocv.Mat) (gocv.Mat, error) {
	if frame.Empty() {
		return gocv.NewMat(), fmt.Errorf("empty frame")
	}

	gray := gocv.NewMat()
	switch frame.Channels() {
	case 1:
		frame.CopyTo(&gray)
	case 3:
		gocv.CvtColor(frame, &gray, gocv.ColorBGRToGray)
	case 4:
		gocv.CvtColor(frame, &gray, gocv.ColorBGRAToGray)
	default:
		gray.Close()
		return gocv.NewMat(), fmt.Errorf("unsupported channel count %d", frame.Channels())
	}
	return gray, nil
}

// Equalize spreads the histogram of a grayscale Mat.
func Equalize(gray gocv.Mat) gocv.Mat {
	out := gocv.NewMat()
	gocv.EqualizeHist(gray, &out)
	return out
}

// OddKernel rounds k up to the next odd number, with 1 as the minimum.
// OpenCV rejects even Gaussian kernels.
func OddKernel(k int) int {
	if k < 1 {
		return 1
	}
	if k%2 == 0 {
		return k + 1
	}
	return k
}

// Blur applies a k×k Gaussian blur. k is rounded to odd.
func Blur(gray gocv.Mat, k int, sigma float64) gocv.Mat {
	k = OddKernel(k)
	out := gocv.NewMat()
	gocv.GaussianBlur(gray, &out, image.Pt(k, k), sigma, sigma, gocv.BorderDefault)
	return out
}

// Edges runs Canny with hysteresis thresholds t1 and t2 (aperture 3).
func Edges(gray gocv.Mat, t1, t2 float64) gocv.Mat {
	out := gocv.NewMat()
	gocv.Canny(gray, &out, float32(t1), float32(t2))
	return out
}

// Close applies a 2×2 rectangular morphological close, joining edge
// fragments broken by one pixel.
func Close(edges gocv.Mat) gocv.Mat {
	kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Pt(2, 2))
	defer kernel.Close()

	out := gocv.NewMat()
	gocv.MorphologyEx(edges, &out, gocv.MorphClose, kernel)
	return out
}

// Smooth equalizes gray and blurs it with a k×k Gaussian. Edges, the
// binarization threshold, the binary map and the decoder crop are all taken
// from this one image so they share an intensity scale.
func Smooth(gray gocv.Mat, k int, sigma float64) gocv.Mat {
	eq := Equalize(gray)
	defer eq.Close()
	return Blur(eq, k, sigma)
}

// Binarize applies a fixed binary threshold, producing a Mat of 0 and 255
// pixels. Pixels above threshold become 255.
func Binarize(gray gocv.Mat, threshold float64) gocv.Mat {
	out := gocv.NewMat()
	gocv.Threshold(gray, &out, float32(threshold), 255, gocv.ThresholdBinary)
	return out
}
