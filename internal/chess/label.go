package chess

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrUnknownLabel is returned for outcome labels outside the known set.
var ErrUnknownLabel = errors.New("unknown label")

// Label is the outcome class of a board.
type Label int

// Outcome labels, in network output order.
const (
	CheckmateWhite Label = iota
	CheckmateBlack
	CheckWhite
	CheckBlack
	Stalemate
	Nothing

	// NumLabels is the number of output classes.
	NumLabels = int(Nothing) + 1
)

var labelNames = [...]string{
	CheckmateWhite: "Checkmate White",
	CheckmateBlack: "Checkmate Black",
	CheckWhite:     "Check White",
	CheckBlack:     "Check Black",
	Stalemate:      "Stalemate",
	Nothing:        "Nothing",
}

// String returns the canonical spelling, e.g. "Check White".
func (l Label) String() string {
	if l < 0 || int(l) >= len(labelNames) {
		return fmt.Sprintf("Label(%d)", int(l))
	}
	return labelNames[l]
}

// ParseLabel parses an outcome label case-insensitively. Stalemate and
// Nothing ignore any trailing color.
func ParseLabel(s string) (Label, error) {
	canonical := cases.Title(language.English).String(strings.Join(strings.Fields(s), " "))
	switch {
	case strings.Contains(canonical, "Stalemate"):
		return Stalemate, nil
	case strings.Contains(canonical, "Nothing"):
		return Nothing, nil
	}
	for l, name := range labelNames {
		if canonical == name {
			return Label(l), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownLabel, s)
}
