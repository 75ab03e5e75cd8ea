// Package timing samples pixel intensities along straight segments and decides
// whether a sampled segment looks like a QR timing pattern.
package timing

import (
	"image"
	"image/color"
)

// Plane is a single-channel image addressable by (x, y).
// *image.Gray satisfies it, as does MatPlane.
type Plane interface {
	Bounds() image.Rectangle
	GrayAt(x, y int) color.Gray
}

// Sample is one pixel visited by SampleLine.
type Sample struct {
	X, Y      int
	Intensity uint8
}

// Profile is the ordered list of samples between two endpoints.
type Profile []Sample

// Intensities returns the intensity column of the profile.
func (p Profile) Intensities() []uint8 {
	values := make([]uint8, len(p))
	for i, s := range p {
		values[i] = s.Intensity
	}
	return values
}

// SampleLine walks the segment from p1 to p2 one pixel at a time along its
// dominant axis, computing the other coordinate from the slope and truncating
// toward zero. The start point is excluded and the end point included, so a
// full profile holds max(|dx|, |dy|) samples. Samples outside the image are
// dropped, which may leave the profile short or empty.
func SampleLine(p1, p2 image.Point, img Plane) Profile {
	dx := p2.X - p1.X
	dy := p2.Y - p1.Y
	adx, ady := abs(dx), abs(dy)
	n := adx
	if ady > n {
		n = ady
	}
	if n == 0 {
		return nil
	}

	stepX, stepY := sign(dx), sign(dy)
	steep := ady > adx
	bounds := img.Bounds()

	profile := make(Profile, 0, n)
	for i := 1; i <= n; i++ {
		var x, y int
		switch {
		case dx == 0:
			x, y = p1.X, p1.Y+stepY*i
		case dy == 0:
			x, y = p1.X+stepX*i, p1.Y
		case steep:
			y = p1.Y + stepY*i
			x = int(float64(dx)/float64(dy)*float64(y-p1.Y)) + p1.X
		default:
			x = p1.X + stepX*i
			y = int(float64(dy)/float64(dx)*float64(x-p1.X)) + p1.Y
		}

		if !(image.Point{X: x, Y: y}).In(bounds) {
			continue
		}
		profile = append(profile, Sample{X: x, Y: y, Intensity: img.GrayAt(x, y).Y})
	}
	return profile
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	}
	return 0
}
