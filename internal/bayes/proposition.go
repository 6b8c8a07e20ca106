package bayes

import (
	"strconv"
	"strings"

	"disambig/internal/window"
)

// Proposition constrains the center word and, optionally, the POS tag at
// some window positions. It is comparable, so two propositions with the same
// center word and constraint set are equal map keys.
type Proposition struct {
	center string
	mask   uint16
	pos    [window.Size]string
}

func NewProposition(center string) Proposition {
	return Proposition{center: center}
}

// Constrain returns a copy that also requires POS tag pos at position i.
func (p Proposition) Constrain(i int, pos string) Proposition {
	p.mask |= 1 << uint(i)
	p.pos[i] = pos
	return p
}

func (p Proposition) Center() string { return p.center }

// Constrained returns the POS required at position i, if any.
func (p Proposition) Constrained(i int) (string, bool) {
	if p.mask&(1<<uint(i)) == 0 {
		return "", false
	}
	return p.pos[i], true
}

// Allows reports whether ex satisfies every constraint.
func (p Proposition) Allows(ex window.Example) bool {
	if ex.CenterWord() != p.center {
		return false
	}
	for i := 0; i < window.Size; i++ {
		if p.mask&(1<<uint(i)) == 0 {
			continue
		}
		if ex.POS(i) != p.pos[i] {
			return false
		}
	}
	return true
}

func (p Proposition) String() string {
	var b strings.Builder
	b.WriteString("center=")
	b.WriteString(p.center)
	for i := 0; i < window.Size; i++ {
		if pos, ok := p.Constrained(i); ok {
			b.WriteString(" ")
			b.WriteString(strconv.Itoa(i))
			b.WriteString("=")
			b.WriteString(pos)
		}
	}
	return b.String()
}

// Probability counts the training examples allowed by p, starting the count
// at one, and divides by the training set size. The result is capped at 1.
func Probability(trainSet []window.Example, p Proposition) (float64, error) {
	if len(trainSet) == 0 {
		return 0, window.ErrEmptyTrainingSet
	}
	count := 1
	for _, ex := range trainSet {
		if p.Allows(ex) {
			count++
		}
	}
	if count > len(trainSet) {
		return 1, nil
	}
	return float64(count) / float64(len(trainSet)), nil
}
