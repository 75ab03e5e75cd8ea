package grouping

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/gaochangyu/qrcode-positioning/internal/decode"
	"github.com/gaochangyu/qrcode-positioning/internal/finder"
)

const module = 10

// square returns the box of an upright square with its top-left corner at (x, y).
func square(x, y, size int) finder.Box {
	return finder.Box{{x, y}, {x + size, y}, {x + size, y + size}, {x, y + size}}
}

var (
	topLeft    = square(100, 100, 70)
	topRight   = square(300, 100, 70)
	bottomLeft = square(100, 300, 70)
)

func fill(img *image.Gray, r image.Rectangle, v uint8) {
	draw.Draw(img, r, &image.Uniform{C: color.Gray{Y: v}}, image.Point{}, draw.Src)
}

// lShapedFrame draws a binarized frame with solid finder boxes at the three
// corners of an L and alternating 10px modules along row y=158..171 and
// column x=158..171 joining them, like a symbol's timing patterns.
func lShapedFrame() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, 500, 500))
	fill(img, img.Bounds(), 255)
	for _, b := range []finder.Box{topLeft, topRight, bottomLeft} {
		fill(img, image.Rectangle{Min: b[0], Max: b[2].Add(image.Pt(1, 1))}, 0)
	}
	for i := 0; i < 13; i++ {
		v := uint8(255)
		if i%2 == 1 {
			v = 0
		}
		lo, hi := 170+i*module, 170+(i+1)*module
		if i == 0 {
			lo = 171
		}
		fill(img, image.Rect(lo, 158, hi, 172), v)
		fill(img, image.Rect(158, lo, 172, hi), v)
	}
	return img
}

// countingDecoder records calls and answers with payload. It fails the first
// failFirst calls, and every call when payload is empty.
type countingDecoder struct {
	calls     int
	regions   []decode.Region
	payload   string
	failFirst int
}

func (d *countingDecoder) Decode(region decode.Region) ([]decode.Symbol, error) {
	d.calls++
	d.regions = append(d.regions, region)
	if d.payload == "" || d.calls <= d.failFirst {
		return nil, decode.ErrNoSymbol
	}
	return []decode.Symbol{{Payload: []byte(d.payload)}}, nil
}

// pairs builds an adjacency function from an explicit list of adjacent pairs.
func pairs(adjacent ...[2]finder.Box) func(a, b finder.Box) bool {
	set := make(map[[2]finder.Box]bool)
	for _, p := range adjacent {
		set[p] = true
		set[[2]finder.Box{p[1], p[0]}] = true
	}
	return func(a, b finder.Box) bool {
		return set[[2]finder.Box{a, b}]
	}
}
