// Package geometry provides basic geometric helpers used throughout the application.
//
// Integer points and rectangles are the standard library's image.Point and
// image.Rectangle, which is also what gocv hands back from contour functions.
package geometry

import (
	"image"
	"math"
)

// Point2D represents a 2D point with floating-point coordinates.
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Round returns the nearest integer point.
func (p Point2D) Round() image.Point {
	return image.Point{X: int(math.Round(p.X)), Y: int(math.Round(p.Y))}
}

// Distance returns the Euclidean distance between two integer points.
func Distance(p, q image.Point) float64 {
	dx := float64(p.X - q.X)
	dy := float64(p.Y - q.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

// Toward moves from toward to by num/den of the segment between them.
// Coordinates are floored, so the result is stable for negative offsets.
func Toward(from, to image.Point, num, den int) image.Point {
	if den == 0 {
		return from
	}
	x := float64(from.X) + float64((to.X-from.X)*num)/float64(den)
	y := float64(from.Y) + float64((to.Y-from.Y)*num)/float64(den)
	return image.Point{X: int(math.Floor(x)), Y: int(math.Floor(y))}
}

// Centroid computes the centroid (average position) of a set of points.
func Centroid(points []image.Point) Point2D {
	if len(points) == 0 {
		return Point2D{}
	}
	var sumX, sumY float64
	for _, p := range points {
		sumX += float64(p.X)
		sumY += float64(p.Y)
	}
	n := float64(len(points))
	return Point2D{X: sumX / n, Y: sumY / n}
}

// BoundingRect computes the axis-aligned bounding rectangle of a set of points.
// Every point lies inside the result, so Max is one past the largest coordinate.
func BoundingRect(points []image.Point) image.Rectangle {
	if len(points) == 0 {
		return image.Rectangle{}
	}
	minX, minY := points[0].X, points[0].Y
	maxX, maxY := minX, minY
	for _, p := range points[1:] {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	return image.Rect(minX, minY, maxX+1, maxY+1)
}

// Expand grows r by margin pixels on every side and clamps the result to limit.
func Expand(r image.Rectangle, margin int, limit image.Rectangle) image.Rectangle {
	return r.Inset(-margin).Intersect(limit)
}
