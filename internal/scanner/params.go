package scanner

import (
	"errors"
	"fmt"

	"github.com/gaochangyu/qrcode-positioning/internal/finder"
	"github.com/gaochangyu/qrcode-positioning/internal/grouping"
)

// Params tunes one frame scan. The zero value is not useful; start from
// DefaultParams.
type Params struct {
	// Canny hysteresis thresholds
	CannyLow  float64 `json:"canny_low"`
	CannyHigh float64 `json:"canny_high"`

	// Gaussian blur before edge detection. Even kernels are rounded up.
	BlurKernel int     `json:"blur_kernel"`
	BlurSigma  float64 `json:"blur_sigma"`

	// Binarization of the frame the timing patterns are read from.
	// With Adaptive set, the threshold is the mean intensity under this
	// frame's candidate boxes and BinarizeThreshold is only the fallback.
	BinarizeThreshold float64 `json:"binarize_threshold"`
	Adaptive          bool    `json:"adaptive"`

	// TimingThreshold is the run-length variance below which a probed
	// segment counts as a timing pattern.
	TimingThreshold float64 `json:"timing_threshold"`

	// MinDepth is the nesting depth a contour needs to be a candidate.
	MinDepth int `json:"min_depth"`

	// Margin pads the decoded crop on every side.
	Margin int `json:"margin"`

	// CloseEdges runs a 2×2 morphological close on the edge map before
	// contour extraction.
	CloseEdges bool `json:"close_edges"`
}

// DefaultParams returns parameters tuned for a 640×480 webcam frame.
func DefaultParams() Params {
	return Params{
		CannyLow:  200,
		CannyHigh: 600,

		BlurKernel: 1, // effectively no blur; raise for noisy sensors
		BlurSigma:  2,

		BinarizeThreshold: 150,
		Adaptive:          true,

		TimingThreshold: 5,

		MinDepth: finder.DefaultMinDepth,
		Margin:   grouping.DefaultMargin,
	}
}

// WithCanny returns a copy of params with new Canny thresholds.
func (p Params) WithCanny(low, high float64) Params {
	p.CannyLow = low
	p.CannyHigh = high
	return p
}

// WithBlur returns a copy of params with a new blur kernel and sigma.
func (p Params) WithBlur(kernel int, sigma float64) Params {
	p.BlurKernel = kernel
	p.BlurSigma = sigma
	return p
}

// WithFixedThreshold returns a copy of params that binarizes every frame at
// threshold instead of adapting to the candidate boxes.
func (p Params) WithFixedThreshold(threshold float64) Params {
	p.BinarizeThreshold = threshold
	p.Adaptive = false
	return p
}

// WithTimingThreshold returns a copy of params with a new variance threshold.
func (p Params) WithTimingThreshold(threshold float64) Params {
	p.TimingThreshold = threshold
	return p
}

// WithMinDepth returns a copy of params with a new nesting depth.
func (p Params) WithMinDepth(depth int) Params {
	p.MinDepth = depth
	return p
}

// WithMargin returns a copy of params with a new crop margin.
func (p Params) WithMargin(margin int) Params {
	p.Margin = margin
	return p
}

// WithCloseEdges returns a copy of params with edge closing switched on or off.
func (p Params) WithCloseEdges(on bool) Params {
	p.CloseEdges = on
	return p
}

// Validate reports every out-of-range parameter.
func (p Params) Validate() error {
	var errs []error
	if p.CannyLow < 0 || p.CannyHigh < 0 {
		errs = append(errs, fmt.Errorf("canny thresholds must be non-negative, got %v/%v", p.CannyLow, p.CannyHigh))
	}
	if p.BlurSigma < 0 {
		errs = append(errs, fmt.Errorf("blur sigma must be non-negative, got %v", p.BlurSigma))
	}
	if p.BinarizeThreshold < 0 || p.BinarizeThreshold > 255 {
		errs = append(errs, fmt.Errorf("binarize threshold must be in [0,255], got %v", p.BinarizeThreshold))
	}
	if p.TimingThreshold <= 0 {
		errs = append(errs, fmt.Errorf("timing threshold must be positive, got %v", p.TimingThreshold))
	}
	if p.MinDepth < 1 {
		errs = append(errs, fmt.Errorf("min depth must be at least 1, got %d", p.MinDepth))
	}
	if p.Margin < 0 {
		errs = append(errs, fmt.Errorf("margin must be non-negative, got %d", p.Margin))
	}
	return errors.Join(errs...)
}
