// Package render draws scan results for the live debug view.
package render

import (
	"fmt"
	"image"
	"image/color"
	"sync"

	"github.com/gaochangyu/qrcode-positioning/internal/finder"
	"github.com/gaochangyu/qrcode-positioning/internal/scanner"

	"gocv.io/x/gocv"
)

var (
	colorHit     = color.RGBA{0, 255, 0, 0}
	colorMiss    = color.RGBA{255, 0, 0, 0}
	colorBox     = color.RGBA{0, 128, 255, 0}
	colorRegion  = color.RGBA{255, 255, 0, 0}
	colorContour = color.RGBA{255, 0, 255, 0}
)

// Probe is one segment sampled by the adjacency check.
type Probe struct {
	From, To image.Point
	Timing   bool
}

// Overlay collects probed segments. It implements grouping.Sink and is safe
// for concurrent use.
type Overlay struct {
	mu     sync.Mutex
	probes []Probe
}

// Segment implements grouping.Sink.
func (o *Overlay) Segment(from, to image.Point, timing bool) {
	o.mu.Lock()
	o.probes = append(o.probes, Probe{From: from, To: to, Timing: timing})
	o.mu.Unlock()
}

// Probes returns the segments collected since the last Reset.
func (o *Overlay) Probes() []Probe {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]Probe(nil), o.probes...)
}

// Reset forgets collected segments. Call it before each frame.
func (o *Overlay) Reset() {
	o.mu.Lock()
	o.probes = o.probes[:0]
	o.mu.Unlock()
}

// DrawProbes draws every collected segment onto img: green where a timing
// pattern was found, red otherwise.
func (o *Overlay) DrawProbes(img *gocv.Mat) {
	for _, p := range o.Probes() {
		c := colorMiss
		if p.Timing {
			c = colorHit
		}
		gocv.Line(img, p.From, p.To, c, 1)
	}
}

// DrawBoxes outlines each box on img.
func DrawBoxes(img *gocv.Mat, boxes []finder.Box) {
	for _, b := range boxes {
		for i := range b {
			gocv.Line(img, b[i], b[(i+1)%4], colorBox, 2)
		}
		gocv.Circle(img, b.Center().Round(), 2, colorBox, -1)
	}
}

// DrawContours draws the raw contours of candidates onto img.
func DrawContours(img *gocv.Mat, candidates []finder.Candidate) {
	if len(candidates) == 0 {
		return
	}
	contours := make([][]image.Point, len(candidates))
	for i, c := range candidates {
		contours[i] = c.Contour
	}
	pv := gocv.NewPointsVectorFromPoints(contours)
	defer pv.Close()
	gocv.DrawContours(img, pv, -1, colorContour, 1)
}

// Annotate draws a frame's boxes and probes and, on success, the decoded
// region with its payload.
func Annotate(img *gocv.Mat, res *scanner.FrameResult, o *Overlay) {
	DrawBoxes(img, res.Boxes)
	if o != nil {
		o.DrawProbes(img)
	}
	if !res.Success {
		return
	}
	gocv.Rectangle(img, res.Region, colorRegion, 2)
	label := fmt.Sprintf("%s (%dms)", res.Payload, res.Elapsed.Milliseconds())
	org := image.Pt(res.Region.Min.X, max(res.Region.Min.Y-6, 12))
	gocv.PutText(img, label, org, gocv.FontHersheySimplex, 0.5, colorRegion, 1)
}
