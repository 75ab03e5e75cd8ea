package grouping

// State is a node of the grouping state machine.
type State int

const (
	// Zero: no group under construction.
	Zero State = iota
	// One: the group holds an adjacent pair.
	One
	// Two: the group holds three boxes and is ready to decode.
	Two
	// More: more than three boxes matched; ambiguous, gives up.
	More
	// Fail: the candidate pool ran out.
	Fail
	// Success: a symbol was decoded.
	Success
)

func (s State) String() string {
	switch s {
	case Zero:
		return "ZERO"
	case One:
		return "ONE"
	case Two:
		return "TWO"
	case More:
		return "MORE"
	case Fail:
		return "FAIL"
	case Success:
		return "SUCCESS"
	default:
		return "UNKNOWN"
	}
}

// Terminal reports whether the machine stops in s.
func (s State) Terminal() bool {
	return s == More || s == Fail || s == Success
}
