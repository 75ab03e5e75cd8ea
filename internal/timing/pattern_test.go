package timing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// stripes builds alternating black/white runs with the given lengths.
func stripes(lengths ...int) []uint8 {
	var values []uint8
	var v uint8
	for _, n := range lengths {
		for i := 0; i < n; i++ {
			values = append(values, v)
		}
		v = 255 - v
	}
	return values
}

func TestRunLengthsDropsNoise(t *testing.T) {
	assert.Equal(t, []int{4, 5, 3}, RunLengths(stripes(4, 1, 5, 2, 3)))
	assert.Equal(t, []int{6}, RunLengths(stripes(6, 2)))
	assert.Nil(t, RunLengths(nil))
}

func TestUniformRunsAreTimingPattern(t *testing.T) {
	for k := 3; k <= 12; k++ {
		values := stripes(k, k, k, k, k, k)
		for _, threshold := range []float64{0.001, 1, 5} {
			assert.True(t, IsTimingPattern(values, threshold), "k=%d threshold=%v", k, threshold)
		}
	}
}

func TestShortProfileIsNeverTimingPattern(t *testing.T) {
	inputs := [][]uint8{
		nil,
		stripes(3, 3, 3),
		{0, 255, 0, 255, 0, 255, 0, 255, 0},
		make([]uint8, 9),
	}
	for _, values := range inputs {
		assert.False(t, IsTimingPattern(values, 1e9))
	}
}

func TestTimingPatternRejections(t *testing.T) {
	tests := []struct {
		name      string
		values    []uint8
		threshold float64
		want      bool
	}{
		{"too few runs", stripes(8, 8, 8, 8), 5, false},
		{"noise runs do not count", stripes(8, 1, 8, 2, 8, 1, 8), 5, false},
		{"uneven widths", stripes(3, 20, 3, 20, 3, 20), 5, false},
		{"variance equal to threshold", stripes(4, 6, 4, 6, 4, 6), 1, false},
		{"variance below threshold", stripes(4, 6, 4, 6, 4, 6), 1.01, true},
		{"constant line", make([]uint8, 40), 5, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTimingPattern(tt.values, tt.threshold))
		})
	}
}
