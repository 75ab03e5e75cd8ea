// Package finder turns contours from an edge map into finder-pattern candidate
// boxes: quadrilaterals approximating the outer boundary of one QR position
// detection pattern.
package finder

import (
	"image"

	"github.com/gaochangyu/qrcode-positioning/pkg/geometry"
)

// Box holds the four corners of one finder-pattern candidate.
// Boxes are values and are never modified after extraction.
type Box [4]image.Point

// Points returns the corners as a slice.
func (b Box) Points() []image.Point {
	return []image.Point{b[0], b[1], b[2], b[3]}
}

// Bounds returns the axis-aligned rectangle covering all four corners.
func (b Box) Bounds() image.Rectangle {
	return geometry.BoundingRect(b[:])
}

// Center returns the mean of the four corners.
func (b Box) Center() geometry.Point2D {
	return geometry.Centroid(b[:])
}

// BoundsOf returns the rectangle covering every corner of every box.
func BoundsOf(boxes []Box) image.Rectangle {
	pts := make([]image.Point, 0, len(boxes)*4)
	for _, b := range boxes {
		pts = append(pts, b[:]...)
	}
	return geometry.BoundingRect(pts)
}
