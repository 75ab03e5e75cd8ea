package finder

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractCornersSquare(t *testing.T) {
	// Simple-chain contour of an upright square, traced as four edges.
	contour := []image.Point{{20, 20}, {20, 90}, {90, 90}, {90, 20}}

	box, fallback := ExtractCornersDetailed(contour)
	require.False(t, fallback)
	assert.ElementsMatch(t, contour, box.Points())
}

func TestExtractCornersOtherStartingCorner(t *testing.T) {
	contour := []image.Point{{90, 90}, {90, 20}, {20, 20}, {20, 90}}

	box, fallback := ExtractCornersDetailed(contour)
	require.False(t, fallback)
	assert.ElementsMatch(t, contour, box.Points())
}

func TestExtractCornersDenseTrace(t *testing.T) {
	// A fully traced rectangle still pairs the ends of its two vertical edges.
	var contour []image.Point
	for y := 0; y <= 30; y++ {
		contour = append(contour, image.Pt(0, y))
	}
	for x := 1; x <= 40; x++ {
		contour = append(contour, image.Pt(x, 30))
	}
	for y := 29; y >= 0; y-- {
		contour = append(contour, image.Pt(40, y))
	}
	for x := 39; x >= 1; x-- {
		contour = append(contour, image.Pt(x, 0))
	}

	box, fallback := ExtractCornersDetailed(contour)
	require.False(t, fallback)
	assert.ElementsMatch(t,
		[]image.Point{{0, 29}, {40, 30}, {40, 1}, {0, 0}},
		box.Points())
}

func TestExtractCornersFallsBackMidEdge(t *testing.T) {
	// Starting mid-edge leaves only one vertical marker pair.
	contour := []image.Point{{90, 20}, {20, 20}, {20, 90}, {90, 90}}

	box, fallback := ExtractCornersDetailed(contour)
	require.True(t, fallback)
	for _, want := range contour {
		assertNear(t, want, box.Points())
	}
}

func TestExtractCornersFallsBackWithoutVerticalEdges(t *testing.T) {
	contour := []image.Point{{0, 0}, {40, 10}, {20, 40}}

	box, fallback := ExtractCornersDetailed(contour)
	require.True(t, fallback)
	assert.Len(t, box.Points(), 4)
}

// assertNear checks that some point lies within one pixel of want.
func assertNear(t *testing.T, want image.Point, points []image.Point) {
	t.Helper()
	for _, p := range points {
		if abs(p.X-want.X) <= 1 && abs(p.Y-want.Y) <= 1 {
			return
		}
	}
	t.Errorf("no corner near %v in %v", want, points)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func TestExtractCornersRejectsNearDuplicates(t *testing.T) {
	// Two tiny vertical edges closer than the corner threshold.
	contour := []image.Point{{10, 10}, {10, 12}, {15, 12}, {15, 10}}

	_, fallback := ExtractCornersDetailed(contour)
	assert.True(t, fallback)
}

func TestExtractCornersAlwaysFourPoints(t *testing.T) {
	for _, contour := range [][]image.Point{
		{{5, 5}},
		{{0, 0}, {30, 7}},
		{{0, 0}, {25, 3}, {40, 40}, {3, 25}},
	} {
		box := ExtractCorners(contour)
		assert.Len(t, box.Points(), 4)
	}
}

func TestVerticalMarkersConsumePairs(t *testing.T) {
	contour := []image.Point{{1, 0}, {1, 5}, {1, 9}, {4, 9}}
	assert.Equal(t, []image.Point{{1, 0}, {1, 5}}, verticalMarkers(contour))
}

func TestBoxBounds(t *testing.T) {
	box := Box{{10, 10}, {40, 10}, {40, 40}, {10, 40}}
	assert.Equal(t, image.Rect(10, 10, 41, 41), box.Bounds())
	assert.InDelta(t, 25.0, box.Center().X, 1e-9)

	other := Box{{100, 0}, {130, 0}, {130, 30}, {100, 30}}
	assert.Equal(t, image.Rect(10, 0, 131, 41), BoundsOf([]Box{box, other}))
}
