// Package decode hands cropped grayscale regions to an external QR symbol
// decoder and normalises what comes back.
package decode

import (
	"errors"
	"fmt"
	"image"
	"sort"
)

var (
	// ErrNoSymbol is returned when a region holds no decodable symbol.
	ErrNoSymbol = errors.New("no symbol in region")
	// ErrEmptyRegion is returned for regions with no pixels.
	ErrEmptyRegion = errors.New("empty region")
	// ErrUnknownDecoder is returned by New for unregistered backend names.
	ErrUnknownDecoder = errors.New("unknown decoder")
)

// Region is one plane of 8-bit grayscale pixels, row-major, Width*Height bytes.
type Region struct {
	Width  int
	Height int
	Pix    []byte
}

// Crop copies the part of img inside r into a new Region.
// r is clamped to the image bounds first.
func Crop(img *image.Gray, r image.Rectangle) Region {
	r = r.Intersect(img.Bounds())
	if r.Empty() {
		return Region{}
	}

	region := Region{
		Width:  r.Dx(),
		Height: r.Dy(),
		Pix:    make([]byte, r.Dx()*r.Dy()),
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		src := img.PixOffset(r.Min.X, y)
		dst := (y - r.Min.Y) * region.Width
		copy(region.Pix[dst:dst+region.Width], img.Pix[src:src+region.Width])
	}
	return region
}

// Empty reports whether the region has no pixels.
func (r Region) Empty() bool {
	return r.Width <= 0 || r.Height <= 0 || len(r.Pix) < r.Width*r.Height
}

// Image wraps the region's pixels as an *image.Gray without copying.
func (r Region) Image() *image.Gray {
	return &image.Gray{
		Pix:    r.Pix,
		Stride: r.Width,
		Rect:   image.Rect(0, 0, r.Width, r.Height),
	}
}

// Symbol is one decoded QR symbol.
type Symbol struct {
	Payload []byte
}

// Valid reports whether the symbol carries data.
func (s Symbol) Valid() bool {
	return len(s.Payload) > 0
}

// Data returns the payload as text.
func (s Symbol) Data() string {
	return string(s.Payload)
}

// First returns the first valid symbol.
func First(symbols []Symbol) (Symbol, bool) {
	for _, s := range symbols {
		if s.Valid() {
			return s, true
		}
	}
	return Symbol{}, false
}

// Decoder decodes the symbols in one grayscale region.
type Decoder interface {
	Decode(region Region) ([]Symbol, error)
}

// DecoderFunc adapts a function to the Decoder interface.
type DecoderFunc func(region Region) ([]Symbol, error)

// Decode calls f(region).
func (f DecoderFunc) Decode(region Region) ([]Symbol, error) {
	return f(region)
}

var backends = map[string]func() Decoder{
	"goqr":  func() Decoder { return GoQR{} },
	"zxing": func() Decoder { return NewZXing(false) },
}

// DefaultBackend is the decoder used when none is configured.
const DefaultBackend = "goqr"

// New returns the decoder registered under name. An empty name selects
// DefaultBackend.
func New(name string) (Decoder, error) {
	if name == "" {
		name = DefaultBackend
	}
	factory, ok := backends[name]
	if !ok {
		return nil, fmt.Errorf("%w %q (have %v)", ErrUnknownDecoder, name, Backends())
	}
	return factory(), nil
}

// Backends lists the registered decoder names in sorted order.
func Backends() []string {
	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
