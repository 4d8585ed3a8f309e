package pipeline

import (
	"fmt"
	"strconv"
	"strings"
)

// Margin grows the viewport used for sentinel visibility checks, in pixels,
// CSS order (top, right, bottom, left).
type Margin struct {
	Top, Right, Bottom, Left int
}

// DefaultMargin looks 200px ahead in the scroll direction
var DefaultMargin = Margin{Bottom: 200}

// ParseMargin parses CSS margin shorthand with one to four values,
// e.g. "0px 0px 200px 0px" or "10px 20px". Units other than px are rejected;
// bare numbers are taken as pixels.
func ParseMargin(s string) (Margin, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 || len(fields) > 4 {
		return Margin{}, fmt.Errorf("margin %q: want 1 to 4 values", s)
	}

	vals := make([]int, len(fields))
	for i, f := range fields {
		n, err := strconv.Atoi(strings.TrimSuffix(f, "px"))
		if err != nil {
			return Margin{}, fmt.Errorf("margin %q: bad value %q", s, f)
		}
		vals[i] = n
	}

	switch len(vals) {
	case 1:
		return Margin{vals[0], vals[0], vals[0], vals[0]}, nil
	case 2:
		return Margin{vals[0], vals[1], vals[0], vals[1]}, nil
	case 3:
		return Margin{vals[0], vals[1], vals[2], vals[1]}, nil
	default:
		return Margin{vals[0], vals[1], vals[2], vals[3]}, nil
	}
}

// String renders the margin in four-value shorthand
func (m Margin) String() string {
	return fmt.Sprintf("%dpx %dpx %dpx %dpx", m.Top, m.Right, m.Bottom, m.Left)
}
