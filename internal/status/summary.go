package status

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// Summary holds per-kind counts for a batch of changes.
type Summary struct {
	Counts map[ChangeKind]int
	Total  int
}

// Summarize counts changes by kind.
func Summarize(changes []FileChange) Summary {
	return Summary{
		Counts: lo.CountValuesBy(changes, FileChange.Kind),
		Total:  len(changes),
	}
}

// String renders non-zero counts in kind order, e.g. "1 deleted, 2 not tracked".
func (s Summary) String() string {
	if s.Total == 0 {
		return "clean"
	}
	parts := lo.FilterMap(Kinds(), func(k ChangeKind, _ int) (string, bool) {
		n := s.Counts[k]
		return fmt.Sprintf("%d %s", n, strings.ToLower(k.Label())), n > 0
	})
	return strings.Join(parts, ", ")
}
