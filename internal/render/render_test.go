package render

import (
	"image"
	"testing"

	"github.com/gaochangyu/qrcode-positioning/internal/finder"
	"github.com/gaochangyu/qrcode-positioning/internal/grouping"
	"github.com/gaochangyu/qrcode-positioning/internal/scanner"

	"github.com/stretchr/testify/assert"
	"gocv.io/x/gocv"
)

var _ grouping.Sink = (*Overlay)(nil)

func blackCanvas() gocv.Mat {
	return gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), 100, 100, gocv.MatTypeCV8UC3)
}

// bgr reads the pixel at (x, y) of a 3-channel Mat.
func bgr(m gocv.Mat, x, y int) [3]uint8 {
	return [3]uint8{m.GetUCharAt(y, x*3), m.GetUCharAt(y, x*3+1), m.GetUCharAt(y, x*3+2)}
}

func TestOverlayCollectsAndResets(t *testing.T) {
	o := &Overlay{}
	o.Segment(image.Pt(0, 0), image.Pt(10, 0), true)
	o.Segment(image.Pt(0, 5), image.Pt(10, 5), false)

	probes := o.Probes()
	assert.Len(t, probes, 2)
	assert.True(t, probes[0].Timing)
	assert.False(t, probes[1].Timing)

	o.Reset()
	assert.Empty(t, o.Probes())
	assert.Len(t, probes, 2)
}

func TestDrawProbesColors(t *testing.T) {
	img := blackCanvas()
	defer img.Close()

	o := &Overlay{}
	o.Segment(image.Pt(10, 20), image.Pt(90, 20), true)
	o.Segment(image.Pt(10, 60), image.Pt(90, 60), false)
	o.DrawProbes(&img)

	assert.Equal(t, [3]uint8{0, 255, 0}, bgr(img, 50, 20))
	assert.Equal(t, [3]uint8{0, 0, 255}, bgr(img, 50, 60))
	assert.Equal(t, [3]uint8{0, 0, 0}, bgr(img, 50, 40))
}

func TestAnnotateDrawsBoxesAndRegion(t *testing.T) {
	img := blackCanvas()
	defer img.Close()

	box := finder.Box{{10, 10}, {30, 10}, {30, 30}, {10, 30}}
	res := &scanner.FrameResult{Boxes: []finder.Box{box}}
	res.Success = true
	res.Payload = "x"
	res.Region = image.Rect(5, 50, 95, 95)

	Annotate(&img, res, nil)

	assert.NotEqual(t, [3]uint8{0, 0, 0}, bgr(img, 20, 10))
	assert.NotEqual(t, [3]uint8{0, 0, 0}, bgr(img, 50, 50))
	assert.Equal(t, [3]uint8{255, 128, 0}, bgr(img, 20, 20), "box centre")
	assert.Equal(t, [3]uint8{0, 0, 0}, bgr(img, 13, 27))
}

func TestDrawContours(t *testing.T) {
	img := blackCanvas()
	defer img.Close()

	DrawContours(&img, nil)
	DrawContours(&img, []finder.Candidate{{
		Contour: []image.Point{{40, 40}, {40, 80}, {80, 80}, {80, 40}},
	}})
	assert.Equal(t, [3]uint8{255, 0, 255}, bgr(img, 40, 60))
}

func TestPositionsRoundTrip(t *testing.T) {
	base := scanner.DefaultParams()
	assert.Equal(t, base, PositionsFor(base).Apply(base))
	assert.Equal(t, base, Positions{}.Apply(base))
}

func TestPositionsApply(t *testing.T) {
	base := scanner.DefaultParams()
	p := Positions{
		BarCannyLow: 100,
		BarBlurSize: 4,
		BarBinarize: 120,
		BarTiming:   9,
	}.Apply(base)

	assert.Equal(t, 100.0, p.CannyLow)
	assert.Equal(t, 600.0, p.CannyHigh)
	assert.Equal(t, 4, p.BlurKernel)
	assert.Equal(t, 2.0, p.BlurSigma)
	assert.Equal(t, 120.0, p.BinarizeThreshold)
	assert.True(t, p.Adaptive)
	assert.Equal(t, 9.0, p.TimingThreshold)
}

func TestPositionsIgnoreZeroTiming(t *testing.T) {
	p := Positions{BarTiming: 0}.Apply(scanner.DefaultParams())
	assert.Equal(t, 5.0, p.TimingThreshold)
}
