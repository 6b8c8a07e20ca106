// Package window defines the tagged token and the fixed-width example window
// shared by both classification engines.
package window

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// Size is the number of tokens in every window.
	Size = 15
	// Center is the index of the word being disambiguated.
	Center = 7
)

var (
	// ErrWindowSize is returned when a window is built from the wrong number of tokens.
	ErrWindowSize = errors.New("window must hold exactly 15 tokens")
	// ErrEmptyTrainingSet is returned by any computation that divides by the training set size.
	ErrEmptyTrainingSet = errors.New("training set is empty")
)

// Word is one tagged token.
type Word struct {
	Literal string `json:"word"`
	POS     string `json:"pos"`
	Stem    string `json:"stem"`
}

func (w Word) String() string {
	return "(" + w.Literal + ", " + w.POS + ")"
}

// Pad fills window slots that fall outside a sentence.
var Pad = Word{Literal: "<pad>", POS: "PAD", Stem: "<pad>"}

// Example is a window of Size tokens plus a flag telling whether the center
// word is used correctly. Example is a value type: copies never share tokens.
type Example struct {
	tokens   [Size]Word
	positive bool
}

// NewExample builds an example from exactly Size words.
func NewExample(words []Word, positive bool) (Example, error) {
	var ex Example
	if len(words) != Size {
		return ex, fmt.Errorf("%w: got %d", ErrWindowSize, len(words))
	}
	copy(ex.tokens[:], words)
	ex.positive = positive
	return ex, nil
}

// MustExample is NewExample for fixtures known to be well formed.
func MustExample(words []Word, positive bool) Example {
	ex, err := NewExample(words, positive)
	if err != nil {
		panic(err)
	}
	return ex
}

// Around builds the window centered on tokens[idx], padding past either end.
func Around(tokens []Word, idx int, positive bool) Example {
	var ex Example
	for i := 0; i < Size; i++ {
		j := idx - Center + i
		if j < 0 || j >= len(tokens) {
			ex.tokens[i] = Pad
			continue
		}
		ex.tokens[i] = tokens[j]
	}
	ex.positive = positive
	return ex
}

// Word returns the token at position i.
func (e Example) Word(i int) Word { return e.tokens[i] }

// POS returns the part-of-speech tag at position i.
func (e Example) POS(i int) string { return e.tokens[i].POS }

// Words returns a copy of the tokens.
func (e Example) Words() []Word {
	out := make([]Word, Size)
	copy(out, e.tokens[:])
	return out
}

// CenterWord is the literal at Center.
func (e Example) CenterWord() string { return e.tokens[Center].Literal }

// Positive reports whether the center word is the correct usage.
func (e Example) Positive() bool { return e.positive }

// WithCenter returns a copy whose center literal is replaced.
func (e Example) WithCenter(literal string) Example {
	e.tokens[Center].Literal = literal
	return e
}

func (e Example) String() string {
	var b strings.Builder
	b.WriteString(e.CenterWord())
	b.WriteString("::")
	for _, w := range e.tokens {
		b.WriteString(w.String())
	}
	return b.String()
}
