// Package scanner runs the per-frame positioning pipeline: edge detection,
// finder-pattern candidates, binarization, grouping and decoding.
package scanner

import (
	"fmt"
	"image"
	"sync/atomic"
	"time"

	"github.com/gaochangyu/qrcode-positioning/internal/decode"
	"github.com/gaochangyu/qrcode-positioning/internal/finder"
	"github.com/gaochangyu/qrcode-positioning/internal/grouping"
	"github.com/gaochangyu/qrcode-positioning/internal/preprocess"
	"github.com/gaochangyu/qrcode-positioning/internal/timing"

	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"
)

// Scanner locates and decodes one QR symbol per frame. Frames are
// independent: nothing learned from one frame is used for the next.
// A Scanner is safe for concurrent use if its Decoder and Sink are.
type Scanner struct {
	Params  Params
	Decoder decode.Decoder
	Sink    grouping.Sink      // optional, receives every probed segment
	Log     logrus.FieldLogger // optional

	// KeepImages retains the edge and binary Mats in each FrameResult for
	// debug display. The caller must Close the result.
	KeepImages bool

	frames atomic.Uint64
}

// New returns a Scanner with the given parameters and decoder.
func New(params Params, dec decode.Decoder, log logrus.FieldLogger) *Scanner {
	return &Scanner{Params: params, Decoder: dec, Log: log}
}

// FrameResult is everything learned from one frame.
type FrameResult struct {
	grouping.Result

	Frame      uint64
	Candidates []finder.Candidate
	Boxes      []finder.Box
	Threshold  float64 // binarization threshold used
	Elapsed    time.Duration

	// Set only when the Scanner keeps images.
	Edges  gocv.Mat
	Binary gocv.Mat

	hasImages bool
}

// HasImages reports whether Edges and Binary hold retained Mats.
func (r *FrameResult) HasImages() bool {
	return r != nil && r.hasImages
}

// Close releases any retained Mats.
func (r *FrameResult) Close() {
	if r == nil || !r.hasImages {
		return
	}
	r.Edges.Close()
	r.Binary.Close()
	r.hasImages = false
}

// ScanImage converts img to a Mat and scans it.
func (s *Scanner) ScanImage(img image.Image) (*FrameResult, error) {
	mat, err := preprocess.FromImage(img)
	if err != nil {
		return nil, err
	}
	defer mat.Close()
	return s.ScanFrame(mat)
}

// ScanFrame runs the pipeline on one BGR or grayscale frame.
// An error means the frame could not be processed; a frame without a
// decodable symbol returns a result with Success false.
func (s *Scanner) ScanFrame(frame gocv.Mat) (*FrameResult, error) {
	start := time.Now()
	p := s.Params
	res := &FrameResult{Frame: s.frames.Add(1)}

	gray, err := preprocess.Gray(frame)
	if err != nil {
		return nil, fmt.Errorf("failed to convert frame: %w", err)
	}
	defer gray.Close()

	smoothed := preprocess.Smooth(gray, p.BlurKernel, p.BlurSigma)
	defer smoothed.Close()

	edges := s.edges(smoothed)
	candidates, err := finder.FindCandidates(edges, p.MinDepth)
	if err != nil {
		edges.Close()
		return nil, fmt.Errorf("failed to find candidates: %w", err)
	}
	res.Candidates = candidates
	res.Boxes = finder.Boxes(candidates)

	res.Threshold = p.BinarizeThreshold
	if p.Adaptive {
		res.Threshold = preprocess.AdaptiveThreshold(smoothed, res.Boxes, p.BinarizeThreshold)
	}
	binary := preprocess.Binarize(smoothed, res.Threshold)

	if s.KeepImages {
		res.Edges, res.Binary, res.hasImages = edges, binary, true
	} else {
		defer edges.Close()
		defer binary.Close()
	}

	grayImg, err := preprocess.ToGray(smoothed)
	if err != nil {
		res.Close()
		return nil, fmt.Errorf("failed to copy gray frame: %w", err)
	}

	checker := grouping.Checker{
		Binary:    timing.MatPlane{Mat: binary},
		Threshold: p.TimingThreshold,
		Sink:      s.Sink,
	}
	machine := grouping.NewMachine(checker, grayImg, s.Decoder)
	machine.Margin = p.Margin

	res.Result = machine.Run(res.Boxes)
	res.Elapsed = time.Since(start)
	s.report(res)
	return res, nil
}

func (s *Scanner) edges(smoothed gocv.Mat) gocv.Mat {
	p := s.Params
	edges := preprocess.Edges(smoothed, p.CannyLow, p.CannyHigh)
	if !p.CloseEdges {
		return edges
	}
	defer edges.Close()
	return preprocess.Close(edges)
}

func (s *Scanner) report(res *FrameResult) {
	if s.Log == nil {
		return
	}
	entry := s.Log.WithFields(logrus.Fields{
		"frame":      res.Frame,
		"candidates": len(res.Boxes),
		"state":      res.State,
		"path":       res.Path,
		"threshold":  fmt.Sprintf("%.1f", res.Threshold),
		"decodes":    res.Decodes,
	})
	if res.Success {
		entry.WithFields(logrus.Fields{
			"payload": res.Payload,
			"ms":      res.Elapsed.Milliseconds(),
		}).Info("symbol decoded")
		return
	}
	entry.Debug("no symbol")
}
