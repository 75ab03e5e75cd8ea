package finder

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// DefaultMinDepth is the number of nested child generations a contour needs
// before it is treated as a finder pattern. The pattern's three concentric
// squares give six nested edges on a Canny map.
const DefaultMinDepth = 5

// Hierarchy is one row of an OpenCV contour hierarchy. Missing links are -1.
type Hierarchy struct {
	Next       int
	Previous   int
	FirstChild int
	Parent     int
}

// Candidate is a contour that passed the nesting filter, with its box.
type Candidate struct {
	Index    int
	Depth    int
	Contour  []image.Point
	Box      Box
	Fallback bool // box came from the minimum-area rectangle
}

// ChainDepth counts how many times the first-child link can be followed
// starting from contour i.
func ChainDepth(hierarchy []Hierarchy, i int) int {
	depth := 0
	for k := i; k >= 0 && k < len(hierarchy); k = hierarchy[k].FirstChild {
		if hierarchy[k].FirstChild < 0 || depth >= len(hierarchy) {
			break
		}
		depth++
	}
	return depth
}

// FilterByDepth returns the indexes of contours whose first-child chain is at
// least minDepth long, in contour order.
func FilterByDepth(hierarchy []Hierarchy, minDepth int) []int {
	var found []int
	for i := range hierarchy {
		if ChainDepth(hierarchy, i) >= minDepth {
			found = append(found, i)
		}
	}
	return found
}

// FindCandidates extracts contours from a binary edge map with full tree
// retrieval and returns those nested at least minDepth deep, each converted
// to a Box.
func FindCandidates(edges gocv.Mat, minDepth int) ([]Candidate, error) {
	if edges.Empty() {
		return nil, fmt.Errorf("empty edge image")
	}

	hierarchyMat := gocv.NewMat()
	defer hierarchyMat.Close()

	contours := gocv.FindContoursWithParams(edges, &hierarchyMat, gocv.RetrievalTree, gocv.ChainApproxSimple)
	defer contours.Close()

	if contours.Size() == 0 {
		return nil, nil
	}

	hierarchy, err := readHierarchy(hierarchyMat, contours.Size())
	if err != nil {
		return nil, err
	}

	var candidates []Candidate
	for _, i := range FilterByDepth(hierarchy, minDepth) {
		pts := contours.At(i).ToPoints()
		box, fallback := ExtractCornersDetailed(pts)
		candidates = append(candidates, Candidate{
			Index:    i,
			Depth:    ChainDepth(hierarchy, i),
			Contour:  pts,
			Box:      box,
			Fallback: fallback,
		})
	}
	return candidates, nil
}

// Boxes returns the box of every candidate, in order.
func Boxes(candidates []Candidate) []Box {
	boxes := make([]Box, len(candidates))
	for i, c := range candidates {
		boxes[i] = c.Box
	}
	return boxes
}

// readHierarchy unpacks the 1xN CV_32SC4 hierarchy Mat. Each column holds
// four ints: next, previous, first child, parent.
func readHierarchy(m gocv.Mat, n int) ([]Hierarchy, error) {
	if m.Empty() || m.Cols() < n {
		return nil, fmt.Errorf("contour hierarchy has %d entries, want %d", m.Cols(), n)
	}
	h := make([]Hierarchy, n)
	for i := 0; i < n; i++ {
		h[i] = Hierarchy{
			Next:       int(m.GetIntAt(0, i*4)),
			Previous:   int(m.GetIntAt(0, i*4+1)),
			FirstChild: int(m.GetIntAt(0, i*4+2)),
			Parent:     int(m.GetIntAt(0, i*4+3)),
		}
	}
	return h, nil
}
