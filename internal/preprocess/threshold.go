package preprocess

import (
	"image"

	"github.com/gaochangyu/qrcode-positioning/internal/finder"

	"gocv.io/x/gocv"
	"gonum.org/v1/gonum/stat"
)

// AdaptiveThreshold returns the mean intensity of gray over the bounding
// rectangles of boxes, or fallback when no box covers any pixel.
//
// Finder patterns are roughly half dark and half light, so their mean sits
// between the two levels of the symbol under the current lighting.
func AdaptiveThreshold(gray gocv.Mat, boxes []finder.Box, fallback float64) float64 {
	if gray.Empty() || len(boxes) == 0 {
		return fallback
	}

	frame := image.Rect(0, 0, gray.Cols(), gray.Rows())
	var samples []float64
	for _, b := range boxes {
		r := b.Bounds().Intersect(frame)
		for y := r.Min.Y; y < r.Max.Y; y++ {
			for x := r.Min.X; x < r.Max.X; x++ {
				samples = append(samples, float64(gray.GetUCharAt(y, x)))
			}
		}
	}
	if len(samples) == 0 {
		return fallback
	}
	return stat.Mean(samples, nil)
}
