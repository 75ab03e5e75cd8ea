// Package grouping decides which finder-pattern candidates belong to the same
// QR symbol and drives the per-frame search for a decodable triple.
package grouping

import (
	"image"
	"math"

	"github.com/gaochangyu/qrcode-positioning/internal/finder"
	"github.com/gaochangyu/qrcode-positioning/internal/timing"
	"github.com/gaochangyu/qrcode-positioning/pkg/geometry"
)

// ShrinkDenominator sets how far probe endpoints move along the finder edge:
// 1/14 of the edge, half a module of the 7-module pattern.
const ShrinkDenominator = 14

// CornerPair joins one corner of box A to one corner of box B.
// Distance is truncated to whole pixels.
type CornerPair struct {
	A, B     image.Point
	Distance int
}

// Segment is a probe line between two boxes.
type Segment struct {
	From, To image.Point
}

// Sink receives every probed segment and whether it looked like a timing
// pattern. It is only used for debug rendering.
type Sink interface {
	Segment(from, to image.Point, timing bool)
}

// NopSink discards segments.
type NopSink struct{}

// Segment implements Sink.
func (NopSink) Segment(image.Point, image.Point, bool) {}

// ClosestPairs returns the shortest and second-shortest corner pairs between
// a and b. Ties keep the pair found first, scanning a's corners in order and
// b's corners within each.
func ClosestPairs(a, b finder.Box) (first, second CornerPair) {
	first = CornerPair{Distance: math.MaxInt}
	second = first
	for _, pa := range a {
		for _, pb := range b {
			d := int(geometry.Distance(pa, pb))
			if d >= second.Distance {
				continue
			}
			if d < first.Distance {
				second = first
				first = CornerPair{A: pa, B: pb, Distance: d}
			} else {
				second = CornerPair{A: pa, B: pb, Distance: d}
			}
		}
	}
	return first, second
}

// ProbeSegments returns the two lines sampled between a and b. They follow
// the two closest corner pairs, with each endpoint pulled along its own
// box edge toward the other pair, so they run through the timing row or
// column instead of the quiet zone at the symbol border.
func ProbeSegments(a, b finder.Box) [2]Segment {
	first, second := ClosestPairs(a, b)
	// Each endpoint moves from its unshrunk corner, so the two segments stay mirror images.
	return [2]Segment{
		{
			From: geometry.Toward(first.A, second.A, 1, ShrinkDenominator),
			To:   geometry.Toward(first.B, second.B, 1, ShrinkDenominator),
		},
		{
			From: geometry.Toward(second.A, first.A, 1, ShrinkDenominator),
			To:   geometry.Toward(second.B, first.B, 1, ShrinkDenominator),
		},
	}
}

// Checker tests pairs of boxes for a timing pattern between them.
type Checker struct {
	Binary    timing.Plane // binarized frame
	Threshold float64      // run-length variance threshold
	Sink      Sink         // optional
}

// Adjacent reports whether a and b look like two finder patterns of the same
// symbol: either probe segment between them must classify as a timing
// pattern. Both segments are always sampled.
func (c Checker) Adjacent(a, b finder.Box) bool {
	adjacent := false
	for _, seg := range ProbeSegments(a, b) {
		profile := timing.SampleLine(seg.From, seg.To, c.Binary)
		hit := timing.IsTimingPattern(profile.Intensities(), c.Threshold)
		if c.Sink != nil {
			c.Sink.Segment(seg.From, seg.To, hit)
		}
		adjacent = adjacent || hit
	}
	return adjacent
}
