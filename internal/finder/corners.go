package finder

import (
	"image"

	"github.com/gaochangyu/qrcode-positioning/pkg/geometry"

	"gocv.io/x/gocv"
)

// CornerThreshold is the minimum distance in pixels between the two points of
// a corner pair. Closer pairs are contour noise.
const CornerThreshold = 10

// ExtractCorners returns the four corners of a finder-pattern contour.
func ExtractCorners(contour []image.Point) Box {
	box, _ := ExtractCornersDetailed(contour)
	return box
}

// ExtractCornersDetailed returns the four corners of a finder-pattern contour
// and whether the minimum-area rectangle fallback was used.
//
// With simple chain approximation an upright square contour reduces to runs
// where two consecutive points share an x coordinate (its vertical edges).
// Those points are queued in contour order, the queue is rotated by one so
// each pair joins the end of one vertical edge to the start of the next, and
// a pair survives only if its points are more than CornerThreshold apart.
// Exactly four survivors are the corners; anything else falls back to the
// minimum-area rotated rectangle around the whole contour.
func ExtractCornersDetailed(contour []image.Point) (Box, bool) {
	corners := pairCorners(verticalMarkers(contour), CornerThreshold)
	if len(corners) == 4 {
		return Box{corners[0], corners[1], corners[2], corners[3]}, false
	}
	return minAreaBox(contour), true
}

// verticalMarkers collects consecutive point pairs sharing an x coordinate.
// A matched pair is consumed whole, so markers never overlap.
func verticalMarkers(contour []image.Point) []image.Point {
	var markers []image.Point
	for i := 0; i < len(contour)-1; {
		if contour[i].X == contour[i+1].X {
			markers = append(markers, contour[i], contour[i+1])
			i += 2
			continue
		}
		i++
	}
	return markers
}

func pairCorners(markers []image.Point, threshold int) []image.Point {
	if len(markers) == 0 {
		return nil
	}

	queue := make([]image.Point, 0, len(markers))
	queue = append(queue, markers[1:]...)
	queue = append(queue, markers[0])

	var corners []image.Point
	for i := 0; i+1 < len(queue); i += 2 {
		a, b := queue[i], queue[i+1]
		if int(geometry.Distance(a, b)) > threshold {
			corners = append(corners, a, b)
		}
	}
	return corners
}

// minAreaBox returns the corners of the minimum-area rotated rectangle
// enclosing the contour.
func minAreaBox(contour []image.Point) Box {
	var box Box
	if len(contour) == 0 {
		return box
	}

	pv := gocv.NewPointVectorFromPoints(contour)
	defer pv.Close()

	rect := gocv.MinAreaRect(pv)
	for i := range box {
		switch {
		case i < len(rect.Points):
			box[i] = rect.Points[i]
		case len(rect.Points) > 0:
			box[i] = rect.Points[len(rect.Points)-1]
		default:
			box[i] = contour[0]
		}
	}
	return box
}
