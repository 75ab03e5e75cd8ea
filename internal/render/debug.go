package render

import (
	"github.com/gaochangyu/qrcode-positioning/internal/scanner"

	"gocv.io/x/gocv"
)

// Trackbar names, as shown on the image window.
const (
	BarCannyLow  = "canny_1"
	BarCannyHigh = "canny_2"
	BarBlurSize  = "gau_k_size"
	BarBlurSigma = "gau_sigma"
	BarBinarize  = "bi_threshold"
	BarTiming    = "timing_threshold"
)

type bar struct {
	name string
	max  int
}

var bars = []bar{
	{BarCannyLow, 1000},
	{BarCannyHigh, 1000},
	{BarBlurSize, 50},
	{BarBlurSigma, 50},
	{BarBinarize, 255},
	{BarTiming, 50},
}

// Positions maps trackbar names to positions.
type Positions map[string]int

// PositionsFor returns the trackbar positions that represent p.
func PositionsFor(p scanner.Params) Positions {
	return Positions{
		BarCannyLow:  int(p.CannyLow),
		BarCannyHigh: int(p.CannyHigh),
		BarBlurSize:  p.BlurKernel,
		BarBlurSigma: int(p.BlurSigma),
		BarBinarize:  int(p.BinarizeThreshold),
		BarTiming:    int(p.TimingThreshold),
	}
}

// Apply returns base with the trackbar positions applied. Missing names
// keep base's value, and a zero timing threshold is ignored since it
// would reject every segment.
func (pos Positions) Apply(base scanner.Params) scanner.Params {
	get := func(name string, fallback int) int {
		if v, ok := pos[name]; ok {
			return v
		}
		return fallback
	}
	cur := PositionsFor(base)

	p := base.WithCanny(float64(get(BarCannyLow, cur[BarCannyLow])), float64(get(BarCannyHigh, cur[BarCannyHigh])))
	if get(BarBlurSize, cur[BarBlurSize]) != cur[BarBlurSize] || get(BarBlurSigma, cur[BarBlurSigma]) != cur[BarBlurSigma] {
		p = p.WithBlur(get(BarBlurSize, cur[BarBlurSize]), float64(get(BarBlurSigma, cur[BarBlurSigma])))
	}
	if v := get(BarBinarize, cur[BarBinarize]); v != cur[BarBinarize] {
		p.BinarizeThreshold = float64(v)
	}
	if v := get(BarTiming, cur[BarTiming]); v > 0 && v != cur[BarTiming] {
		p = p.WithTimingThreshold(float64(v))
	}
	return p
}

// Debug is the set of live debug windows: the annotated frame with its
// tuning trackbars, the edge map and the binarized frame.
type Debug struct {
	image  *gocv.Window
	edges  *gocv.Window
	binary *gocv.Window
	bars   map[string]*gocv.Trackbar
	last   Positions
}

// NewDebug opens the debug windows with trackbars set from p.
func NewDebug(p scanner.Params) *Debug {
	d := &Debug{
		image:  gocv.NewWindow("image"),
		edges:  gocv.NewWindow("edges"),
		binary: gocv.NewWindow("binary"),
		bars:   make(map[string]*gocv.Trackbar),
	}
	d.last = PositionsFor(p)
	for _, b := range bars {
		tb := d.image.CreateTrackbar(b.name, b.max)
		d.last[b.name] = min(d.last[b.name], b.max)
		tb.SetPos(d.last[b.name])
		d.bars[b.name] = tb
	}
	return d
}

// Params applies trackbar moves since the last call to base. Untouched
// trackbars leave base alone, so configuration reloads still take effect.
func (d *Debug) Params(base scanner.Params) scanner.Params {
	moved := Positions{}
	for name, tb := range d.bars {
		pos := tb.GetPos()
		if pos != d.last[name] {
			moved[name] = pos
			d.last[name] = pos
		}
	}
	return moved.Apply(base)
}

// Show displays frame annotated with res, plus the edge and binary maps when
// the result kept them, and returns the key pressed, or -1.
func (d *Debug) Show(frame gocv.Mat, res *scanner.FrameResult, o *Overlay) int {
	annotated := frame.Clone()
	defer annotated.Close()
	if annotated.Channels() == 1 {
		gocv.CvtColor(annotated, &annotated, gocv.ColorGrayToBGR)
	}

	if res != nil {
		DrawContours(&annotated, res.Candidates)
		Annotate(&annotated, res, o)
		if res.HasImages() {
			d.edges.IMShow(res.Edges)
			d.binary.IMShow(res.Binary)
		}
	}
	d.image.IMShow(annotated)
	return d.image.WaitKey(1)
}

// Close closes every window.
func (d *Debug) Close() {
	d.image.Close()
	d.edges.Close()
	d.binary.Close()
}
