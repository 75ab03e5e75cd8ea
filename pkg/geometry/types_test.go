package geometry

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToward(t *testing.T) {
	tests := []struct {
		name     string
		from, to image.Point
		want     image.Point
	}{
		{"down", image.Pt(170, 100), image.Pt(170, 170), image.Pt(170, 105)},
		{"up", image.Pt(170, 170), image.Pt(170, 100), image.Pt(170, 165)},
		{"left floors", image.Pt(10, 0), image.Pt(0, 0), image.Pt(9, 0)},
		{"same point", image.Pt(4, 4), image.Pt(4, 4), image.Pt(4, 4)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Toward(tt.from, tt.to, 1, 14))
		})
	}
}

func TestBoundingRect(t *testing.T) {
	pts := []image.Point{{5, 9}, {2, 3}, {7, 4}}
	assert.Equal(t, image.Rect(2, 3, 8, 10), BoundingRect(pts))
	assert.True(t, BoundingRect(nil).Empty())
}

func TestExpandClampsToLimit(t *testing.T) {
	limit := image.Rect(0, 0, 100, 80)
	assert.Equal(t, image.Rect(0, 0, 70, 75), Expand(image.Rect(10, 20, 40, 45), 30, limit))
	assert.Equal(t, image.Rect(20, 0, 80, 80), Expand(image.Rect(50, 30, 50, 50), 30, limit))
}

func TestDistance(t *testing.T) {
	assert.InDelta(t, 5.0, Distance(image.Pt(0, 0), image.Pt(3, 4)), 1e-9)
	assert.InDelta(t, 0.0, Distance(image.Pt(7, -2), image.Pt(7, -2)), 1e-9)
}

func TestCentroidRounds(t *testing.T) {
	c := Centroid([]image.Point{{0, 0}, {3, 0}, {3, 3}, {0, 3}})
	assert.Equal(t, Point2D{X: 1.5, Y: 1.5}, c)
	assert.Equal(t, image.Pt(2, 2), c.Round())
	assert.Equal(t, Point2D{}, Centroid(nil))
}
