// Package cbr implements case-based reasoning over tagged windows: the K
// training windows most similar to a query vote on its center word.
package cbr

import (
	"errors"
	"fmt"
	"log/slog"

	"disambig/internal/window"
	"disambig/pkg/options"
)

var (
	ErrInvalidConfiguration = errors.New("invalid configuration")
	// ErrInvalidK is returned when the training set is too small to yield a
	// single neighbor.
	ErrInvalidK = fmt.Errorf("%w: neighbor count is zero", ErrInvalidConfiguration)
	// ErrUnknownCenterWord marks a neighbor whose center is neither candidate.
	ErrUnknownCenterWord = errors.New("center word matches neither candidate")
)

// CenterWordError reports the offending neighbor.
type CenterWordError struct {
	Center  string
	Example window.Example
}

func (e *CenterWordError) Error() string {
	return fmt.Sprintf("bad center word %q in %s", e.Center, e.Example)
}

func (e *CenterWordError) Unwrap() error { return ErrUnknownCenterWord }

// NeighborCount returns min(kmax, size/kratio).
func NeighborCount(size, kmax, kratio int) int {
	if kratio <= 0 {
		return 0
	}
	if size > kmax*kratio {
		return kmax
	}
	return size / kratio
}

// Reasoner classifies a window by majority vote of its K nearest training
// windows.
type Reasoner struct {
	metric     Metric
	candidate1 string
	candidate2 string
	trainSet   []window.Example
	k          int
	kmax       int
	kratio     int
	logger     *slog.Logger
}

// New builds a reasoner over trainSet. It fails when the training set yields
// no neighbors.
func New(metric Metric, candidate1, candidate2 string, trainSet []window.Example, opts ...options.Options) (*Reasoner, error) {
	if metric != ExactMatch && metric != EditDistance {
		return nil, fmt.Errorf("%w: %s", ErrInvalidConfiguration, metric)
	}
	conf := options.Resolve(opts...)
	r := &Reasoner{
		metric:     metric,
		candidate1: candidate1,
		candidate2: candidate2,
		kmax:       conf.KMax,
		kratio:     conf.KRatio,
		logger:     conf.Logger,
	}
	if err := r.SetTrainingSet(trainSet); err != nil {
		return nil, err
	}
	return r, nil
}

// SetTrainingSet replaces the neighbor pool and recomputes K.
func (r *Reasoner) SetTrainingSet(trainSet []window.Example) error {
	if len(trainSet) == 0 {
		return fmt.Errorf("%s: %w", r.Name(), window.ErrEmptyTrainingSet)
	}
	k := NeighborCount(len(trainSet), r.kmax, r.kratio)
	if k < 1 {
		return fmt.Errorf("%s: %w (train size %d, kratio %d)", r.Name(), ErrInvalidK, len(trainSet), r.kratio)
	}
	r.trainSet = trainSet
	r.k = k
	r.logger.Debug("case base loaded", "metric", r.metric.String(), "train_size", len(trainSet), "k", k)
	return nil
}

// Name identifies the engine, e.g. "cbr-exact".
func (r *Reasoner) Name() string { return "cbr-" + r.metric.String() }

func (r *Reasoner) K() int { return r.k }

func (r *Reasoner) Metric() Metric { return r.metric }

// Nearest returns the K training windows most similar to query, best first.
func (r *Reasoner) Nearest(query window.Example) []Neighbor {
	neighbors := make([]Neighbor, len(r.trainSet))
	for i, ex := range r.trainSet {
		neighbors[i] = Neighbor{
			Similarity: r.metric.Score(ex, query),
			Example:    ex,
			order:      i,
		}
	}
	return topK(neighbors, r.k)
}

// Classify returns the majority center word among the nearest neighbors. A
// split vote goes to candidate1.
func (r *Reasoner) Classify(query window.Example) (string, error) {
	var votes1, votes2 int
	for _, n := range r.Nearest(query) {
		switch center := n.Example.CenterWord(); center {
		case r.candidate1:
			votes1++
		case r.candidate2:
			votes2++
		default:
			return "", fmt.Errorf("%s: %w", r.Name(), &CenterWordError{Center: center, Example: n.Example})
		}
	}
	if votes2 > votes1 {
		return r.candidate2, nil
	}
	return r.candidate1, nil
}
