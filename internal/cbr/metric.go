package cbr

import (
	"fmt"
	"strings"

	"disambig/internal/window"
)

// Metric selects one of the two similarity functions. Higher scores mean
// more similar windows.
type Metric int

const (
	// ExactMatch awards a per-position weight wherever the POS tags agree.
	ExactMatch Metric = iota
	// EditDistance scores the negated cost of a weighted alignment of the
	// two POS sequences.
	EditDistance
)

// Weights for neighbouring parts of speech. The center carries no weight
// since it is the word being predicted.
var (
	exactWeights = [window.Size]int{0, 0, 0, 1, 1, 3, 7, 0, 5, 2, 1, 1, 0, 0, 0}
	editWeights  = [window.Size]int{0, 0, 0, 0, 1, 3, 6, 0, 6, 2, 1, 0, 0, 0, 0}
)

func (m Metric) String() string {
	switch m {
	case ExactMatch:
		return "exact"
	case EditDistance:
		return "edit"
	}
	return fmt.Sprintf("metric(%d)", int(m))
}

// ParseMetric accepts "exact" or "edit".
func ParseMetric(name string) (Metric, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "exact", "exact-match":
		return ExactMatch, nil
	case "edit", "edit-distance":
		return EditDistance, nil
	}
	return 0, fmt.Errorf("%w: unknown metric %q", ErrInvalidConfiguration, name)
}

// Score compares a training example against a query.
func (m Metric) Score(train, query window.Example) int {
	if m == EditDistance {
		return editScore(train, query)
	}
	return exactScore(train, query)
}

func exactScore(a, b window.Example) int {
	score := 0
	for i := 0; i < window.Size; i++ {
		if a.POS(i) == b.POS(i) {
			score += exactWeights[i]
		}
	}
	return score
}

// editScore fills the alignment table over the two POS sequences. A mismatch
// at row i costs editWeights[i-1] on top of the largest of the three
// neighbouring cells, so the table accumulates the most expensive path rather
// than the cheapest one.
func editScore(train, query window.Example) int {
	var d [window.Size + 1][window.Size + 1]int
	for j := 1; j <= window.Size; j++ {
		for i := 1; i <= window.Size; i++ {
			if train.POS(i-1) == query.POS(j-1) {
				d[i][j] = d[i-1][j-1]
				continue
			}
			w := editWeights[i-1]
			d[i][j] = max3(
				d[i-1][j]+w,   // delete
				d[i][j-1]+w,   // insert
				d[i-1][j-1]+w, // substitute
			)
		}
	}
	return -d[window.Size][window.Size]
}

func max3(a, b, c int) int {
	return max(a, max(b, c))
}
