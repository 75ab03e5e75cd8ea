// Package synth renders QR symbols onto larger frames, producing test input
// with a known payload and position.
package synth

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
	"golang.org/x/image/tiff"
)

// Options describes one synthetic frame.
type Options struct {
	Content string
	Level   qrcode.RecoveryLevel
	Size    int         // symbol side in pixels, quiet zone included
	Canvas  image.Point // frame size
	Offset  image.Point // symbol top-left within the frame
	Gray    uint8       // background intensity; 0 means white
}

// DefaultOptions returns a 256px symbol centred on a 640×480 frame.
func DefaultOptions(content string) Options {
	return Options{
		Content: content,
		Level:   qrcode.Medium,
		Size:    256,
		Canvas:  image.Pt(640, 480),
		Offset:  image.Pt(192, 112),
	}
}

// ParseLevel maps L, M, Q or H to a recovery level.
func ParseLevel(s string) (qrcode.RecoveryLevel, error) {
	switch strings.ToUpper(s) {
	case "L":
		return qrcode.Low, nil
	case "M", "":
		return qrcode.Medium, nil
	case "Q":
		return qrcode.High, nil
	case "H":
		return qrcode.Highest, nil
	}
	return qrcode.Medium, fmt.Errorf("unknown recovery level %q", s)
}

// Frame renders the symbol described by opts.
func Frame(opts Options) (*image.Gray, error) {
	if opts.Content == "" {
		return nil, errors.New("empty content")
	}
	if opts.Canvas.X <= 0 || opts.Canvas.Y <= 0 {
		return nil, fmt.Errorf("invalid canvas %v", opts.Canvas)
	}

	q, err := qrcode.New(opts.Content, opts.Level)
	if err != nil {
		return nil, fmt.Errorf("failed to encode symbol: %w", err)
	}
	sym := q.Image(opts.Size)

	bg := opts.Gray
	if bg == 0 {
		bg = 255
	}
	frame := image.NewGray(image.Rectangle{Max: opts.Canvas})
	draw.Draw(frame, frame.Bounds(), &image.Uniform{C: color.Gray{Y: bg}}, image.Point{}, draw.Src)

	dst := sym.Bounds().Sub(sym.Bounds().Min).Add(opts.Offset)
	if !dst.In(frame.Bounds()) {
		return nil, fmt.Errorf("symbol %v does not fit in %v", dst, frame.Bounds())
	}
	draw.Draw(frame, dst, sym, sym.Bounds().Min, draw.Src)
	return frame, nil
}

// Encode writes img in the format named by ext: .png, .jpg, .jpeg, .tif or .tiff.
func Encode(w io.Writer, img image.Image, ext string) error {
	switch strings.ToLower(ext) {
	case ".png":
		return png.Encode(w, img)
	case ".jpg", ".jpeg":
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 95})
	case ".tif", ".tiff":
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	}
	return fmt.Errorf("unsupported output format %q", ext)
}

// Save writes img to path, choosing the format from the extension.
func Save(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := Encode(f, img, filepath.Ext(path)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
