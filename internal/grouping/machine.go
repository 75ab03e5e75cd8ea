package grouping

import (
	"image"

	"github.com/gaochangyu/qrcode-positioning/internal/decode"
	"github.com/gaochangyu/qrcode-positioning/internal/finder"
	"github.com/gaochangyu/qrcode-positioning/pkg/geometry"
)

// DefaultMargin is the padding in pixels added around a triple before cropping.
const DefaultMargin = 30

// Snapshot is the machine's complete state between steps. Candidates, Group
// and Discarded always partition the boxes the run started with.
type Snapshot struct {
	State      State
	Candidates []finder.Box // not yet examined as part of a group
	Group      []finder.Box // boxes believed to form one symbol, at most 3 before decoding
	Discarded  []finder.Box // boxes removed from play for this frame
	Decodes    int          // decoder calls made so far in this run
}

// Total returns the number of boxes across all three containers.
func (s Snapshot) Total() int {
	return len(s.Candidates) + len(s.Group) + len(s.Discarded)
}

// Result is the outcome of one grouping run.
type Result struct {
	Success bool
	Payload string
	State   State           // terminal state
	Region  image.Rectangle // crop that decoded, on success
	Path    []State         // states visited, in order, ending with State
	Decodes int             // decoder calls; a TWO step without a decoder or crop makes none
}

// Machine groups finder-pattern boxes into a triple and decodes it.
// A Machine holds no per-run state, so one value can run any number of
// frames, and runs on identical input produce identical results.
type Machine struct {
	// Adjacent reports whether two boxes belong to the same symbol.
	Adjacent func(a, b finder.Box) bool
	// Gray is the frame cropped for the decoder.
	Gray *image.Gray
	// Decoder decodes cropped regions. A nil decoder never succeeds.
	Decoder decode.Decoder
	// Margin pads the triple's bounding rectangle before cropping.
	Margin int
}

// NewMachine returns a Machine that tests adjacency with check, crops gray
// and decodes with dec.
func NewMachine(check Checker, gray *image.Gray, dec decode.Decoder) *Machine {
	return &Machine{
		Adjacent: check.Adjacent,
		Gray:     gray,
		Decoder:  dec,
		Margin:   DefaultMargin,
	}
}

// Start returns the initial snapshot for boxes.
func Start(boxes []finder.Box) Snapshot {
	return Snapshot{
		State:      Zero,
		Candidates: append([]finder.Box(nil), boxes...),
	}
}

// Run drives the machine from Zero over boxes until it reaches a terminal
// state. Every step either shrinks the candidate pool or moves toward a
// terminal state, so Run always returns.
func (m *Machine) Run(boxes []finder.Box) Result {
	snap := Start(boxes)
	path := []State{snap.State}

	for {
		next, result := m.Step(snap)
		if result != nil {
			if result.State != snap.State {
				path = append(path, result.State)
			}
			result.Path = path
			return *result
		}
		snap = next
		path = append(path, snap.State)
	}
}

// Step applies one transition. It returns the next snapshot and, when the
// machine has terminated, the final Result. The input snapshot is not
// modified.
func (m *Machine) Step(s Snapshot) (Snapshot, *Result) {
	switch s.State {
	case Zero:
		return m.stepZero(s), nil
	case One:
		return m.stepOne(s), nil
	case Two:
		return m.stepTwo(s)
	case More, Fail:
		return s, &Result{State: s.State, Decodes: s.Decodes}
	default:
		return s, &Result{State: s.State, Success: s.State == Success, Decodes: s.Decodes}
	}
}

// stepZero anchors a new group on the first candidate.
func (m *Machine) stepZero(s Snapshot) Snapshot {
	if len(s.Candidates) < 3 {
		s.State = Fail
		return s
	}

	matched := []int{0}
	for i := 1; i < len(s.Candidates); i++ {
		if m.adjacent(s.Candidates[0], s.Candidates[i]) {
			matched = append(matched, i)
		}
	}

	if len(matched) == 1 {
		return Snapshot{
			State:      Zero,
			Candidates: clone(s.Candidates[1:]),
			Group:      clone(s.Group),
			Discarded:  appendClone(s.Discarded, s.Candidates[0]),
			Decodes:    s.Decodes,
		}
	}

	taken, rest := split(s.Candidates, matched)
	next := Snapshot{
		Candidates: rest,
		Group:      appendClone(s.Group, taken...),
		Discarded:  clone(s.Discarded),
		Decodes:    s.Decodes,
	}
	switch len(matched) {
	case 2:
		next.State = One
	case 3:
		next.State = Two
	default:
		next.State = More
	}
	return next
}

// stepOne extends an adjacent pair through its second box.
func (m *Machine) stepOne(s Snapshot) Snapshot {
	if len(s.Candidates) == 0 || len(s.Group) < 2 {
		s.State = Fail
		return s
	}

	pivot := s.Group[1]
	var matched []int
	for i, c := range s.Candidates {
		if m.adjacent(pivot, c) {
			matched = append(matched, i)
		}
	}

	if len(matched) == 0 {
		return Snapshot{
			State:      Zero,
			Candidates: clone(s.Candidates),
			Discarded:  appendClone(s.Discarded, s.Group...),
			Decodes:    s.Decodes,
		}
	}

	taken, rest := split(s.Candidates, matched)
	next := Snapshot{
		State:      Two,
		Candidates: rest,
		Group:      appendClone(s.Group, taken...),
		Discarded:  clone(s.Discarded),
		Decodes:    s.Decodes,
	}
	if len(matched) > 1 {
		next.State = More
	}
	return next
}

// stepTwo crops around the triple and decodes it. A failed triple is
// discarded for the rest of the frame; no other combination is tried.
func (m *Machine) stepTwo(s Snapshot) (Snapshot, *Result) {
	region := m.CropRect(s.Group)
	decodes := s.Decodes
	if m.Decoder != nil && m.Gray != nil && !region.Empty() {
		decodes++
		symbols, err := m.Decoder.Decode(decode.Crop(m.Gray, region))
		if err == nil {
			if sym, ok := decode.First(symbols); ok {
				done := Snapshot{
					State:      Success,
					Candidates: clone(s.Candidates),
					Group:      clone(s.Group),
					Discarded:  clone(s.Discarded),
					Decodes:    decodes,
				}
				return done, &Result{
					Success: true,
					Payload: sym.Data(),
					State:   Success,
					Region:  region,
					Decodes: decodes,
				}
			}
		}
	}

	return Snapshot{
		State:      Zero,
		Candidates: clone(s.Candidates),
		Discarded:  appendClone(s.Discarded, s.Group...),
		Decodes:    decodes,
	}, nil
}

// CropRect returns the decoder crop for group: the bounding rectangle of
// every corner, padded by Margin and clamped to the frame.
func (m *Machine) CropRect(group []finder.Box) image.Rectangle {
	r := finder.BoundsOf(group)
	if m.Gray == nil {
		return r.Inset(-m.Margin)
	}
	return geometry.Expand(r, m.Margin, m.Gray.Bounds())
}

func (m *Machine) adjacent(a, b finder.Box) bool {
	if m.Adjacent == nil {
		return false
	}
	return m.Adjacent(a, b)
}

// split separates boxes at the given ascending indexes from the rest,
// preserving order in both.
func split(boxes []finder.Box, indexes []int) (taken, rest []finder.Box) {
	j := 0
	for i, b := range boxes {
		if j < len(indexes) && indexes[j] == i {
			taken = append(taken, b)
			j++
			continue
		}
		rest = append(rest, b)
	}
	return taken, rest
}

func clone(boxes []finder.Box) []finder.Box {
	if len(boxes) == 0 {
		return nil
	}
	return append([]finder.Box(nil), boxes...)
}

func appendClone(boxes []finder.Box, more ...finder.Box) []finder.Box {
	out := make([]finder.Box, 0, len(boxes)+len(more))
	out = append(out, boxes...)
	return append(out, more...)
}
