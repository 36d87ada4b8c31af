package status

import (
	"errors"
	"fmt"
)

// ErrMalformedStatusLine is matched by every parse failure.
var ErrMalformedStatusLine = errors.New("malformed status line")

// LineError describes why a single line was rejected.
type LineError struct {
	Line   int // 1-based; 0 when parsed outside a batch
	Text   string
	Reason string
}

func (e *LineError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s %d %q: %s", ErrMalformedStatusLine, e.Line, e.Text, e.Reason)
	}
	return fmt.Sprintf("%s %q: %s", ErrMalformedStatusLine, e.Text, e.Reason)
}

// Is makes errors.Is(err, ErrMalformedStatusLine) hold for every LineError.
func (e *LineError) Is(target error) bool {
	return target == ErrMalformedStatusLine
}
