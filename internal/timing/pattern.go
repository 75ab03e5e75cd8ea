package timing

import (
	"gonum.org/v1/gonum/stat"
)

const (
	// MinProfileLength is the shortest intensity sequence worth classifying.
	MinProfileLength = 10

	// MinRuns is the fewest alternations a timing pattern can show.
	MinRuns = 5

	// NoiseRunLength is the longest run treated as noise and discarded.
	NoiseRunLength = 2
)

// RunLengths returns the lengths of maximal constant-intensity runs in values,
// in order, with runs of NoiseRunLength samples or fewer discarded.
func RunLengths(values []uint8) []int {
	if len(values) == 0 {
		return nil
	}

	var runs []int
	count := 1
	for i := 1; i < len(values); i++ {
		if values[i] == values[i-1] {
			count++
			continue
		}
		if count > NoiseRunLength {
			runs = append(runs, count)
		}
		count = 1
	}
	if count > NoiseRunLength {
		runs = append(runs, count)
	}
	return runs
}

// IsTimingPattern reports whether values alternate like a timing pattern.
//
// A timing pattern is a row of black and white modules of equal width, so once
// short noise runs are removed the remaining run lengths should be nearly
// identical. The sequence is accepted when it has at least MinProfileLength
// samples, at least MinRuns runs survive, and the population variance of the
// run lengths is strictly below threshold.
func IsTimingPattern(values []uint8, threshold float64) bool {
	if len(values) < MinProfileLength {
		return false
	}

	runs := RunLengths(values)
	if len(runs) < MinRuns {
		return false
	}

	lengths := make([]float64, len(runs))
	for i, r := range runs {
		lengths[i] = float64(r)
	}
	return stat.PopVariance(lengths, nil) < threshold
}
