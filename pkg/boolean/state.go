package boolean

import "fmt"

// State locates a shape relative to the other operand.
type State int

const (
	StateUnknown State = iota
	StateIn
	StateOut
	StateOn
)

func (s State) String() string {
	switch s {
	case StateUnknown:
		return "unknown"
	case StateIn:
		return "in"
	case StateOut:
		return "out"
	case StateOn:
		return "on"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}
