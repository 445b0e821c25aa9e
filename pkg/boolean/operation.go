package boolean

import (
	"fmt"
	"strings"
)

// Operation selects the Boolean operation.
type Operation int

const (
	OpFuse    Operation = iota // union
	OpCommon                   // intersection
	OpCut                      // difference A - B
	OpSection                  // intersection of the boundaries
)

func (o Operation) String() string {
	switch o {
	case OpFuse:
		return "fuse"
	case OpCommon:
		return "common"
	case OpCut:
		return "cut"
	case OpSection:
		return "section"
	default:
		return fmt.Sprintf("Operation(%d)", int(o))
	}
}

// IsSolid reports whether the operation produces solids and therefore
// needs closed operands.
func (o Operation) IsSolid() bool { return o != OpSection }

// ParseOperation converts a name such as "fuse" or "union" into an
// Operation.
func ParseOperation(name string) (Operation, error) {
	switch strings.ToLower(name) {
	case "fuse", "union":
		return OpFuse, nil
	case "common", "intersection":
		return OpCommon, nil
	case "cut", "difference":
		return OpCut, nil
	case "section":
		return OpSection, nil
	}
	return 0, fmt.Errorf("boolean: unknown operation %q", name)
}
