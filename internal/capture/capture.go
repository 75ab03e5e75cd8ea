// Package capture acquires frames from cameras, video files and still images.
package capture

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/gaochangyu/qrcode-positioning/internal/preprocess"

	"gocv.io/x/gocv"
	_ "golang.org/x/image/tiff"
)

// ErrClosed is returned when a closed source is closed again.
var ErrClosed = errors.New("source closed")

// Source yields frames until it is exhausted or closed.
// *gocv.VideoCapture satisfies it.
type Source interface {
	// Read fills m with the next frame and reports whether one was read.
	Read(m *gocv.Mat) bool
	Close() error
}

// OpenCamera opens a capture device and requests a frame size.
// Drivers may ignore the requested size.
func OpenCamera(device, width, height int) (*gocv.VideoCapture, error) {
	vc, err := gocv.OpenVideoCapture(device)
	if err != nil {
		return nil, fmt.Errorf("failed to open camera %d: %w", device, err)
	}
	if !vc.IsOpened() {
		vc.Close()
		return nil, fmt.Errorf("camera %d not available", device)
	}
	if width > 0 && height > 0 {
		vc.Set(gocv.VideoCaptureFrameWidth, float64(width))
		vc.Set(gocv.VideoCaptureFrameHeight, float64(height))
	}
	return vc, nil
}

// OpenVideo opens a video file.
func OpenVideo(path string) (*gocv.VideoCapture, error) {
	vc, err := gocv.VideoCaptureFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open video %s: %w", path, err)
	}
	if !vc.IsOpened() {
		vc.Close()
		return nil, fmt.Errorf("video %s could not be opened", path)
	}
	return vc, nil
}

// LoadImage decodes a PNG, JPEG or TIFF file.
func LoadImage(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}
	return img, nil
}

// SupportedFormats returns the still-image extensions LoadImage accepts.
func SupportedFormats() []string {
	return []string{".tiff", ".tif", ".png", ".jpg", ".jpeg"}
}

// IsSupportedFormat checks if the given path has a supported image extension.
func IsSupportedFormat(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, format := range SupportedFormats() {
		if ext == format {
			return true
		}
	}
	return false
}

// Images is a Source that yields each still image once, in order.
type Images struct {
	paths  []string
	next   int
	closed bool
	err    error
}

// NewImages returns a Source over image files.
func NewImages(paths ...string) *Images {
	return &Images{paths: paths}
}

// Read implements Source. Unreadable files end the stream; Err reports why.
func (s *Images) Read(m *gocv.Mat) bool {
	if s.closed || s.err != nil || s.next >= len(s.paths) {
		return false
	}
	path := s.paths[s.next]
	s.next++

	img, err := LoadImage(path)
	if err != nil {
		s.err = err
		return false
	}
	frame, err := preprocess.FromImage(img)
	if err != nil {
		s.err = fmt.Errorf("failed to convert %s: %w", path, err)
		return false
	}
	defer frame.Close()
	frame.CopyTo(m)
	return true
}

// Current returns the path of the most recently read image.
func (s *Images) Current() string {
	if s.next == 0 {
		return ""
	}
	return s.paths[s.next-1]
}

// Err returns the error that ended the stream, if any.
func (s *Images) Err() error {
	return s.err
}

// Close implements Source.
func (s *Images) Close() error {
	if s.closed {
		return ErrClosed
	}
	s.closed = true
	return nil
}
