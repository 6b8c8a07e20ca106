// Package bayes implements the Bayesian-network classifier. A net holds one
// node per window position; the topology's edges decide which positions
// condition each node, and the joint probability of a window is the product
// of the node conditionals.
package bayes

import (
	"fmt"
	"log/slog"

	"gonum.org/v1/gonum/floats"

	"disambig/internal/window"
	"disambig/pkg/options"
)

// Net is a Bayesian network over one window with a node per position.
type Net struct {
	topology   Topology
	nodes      [window.Size]*Node
	candidate1 string
	candidate2 string
	trainSize  int
	logger     *slog.Logger
}

// NewNet wires a net for the given topology. The training set is shared
// read-only by every node.
func NewNet(topology Topology, candidate1, candidate2 string, trainSet []window.Example, opts ...options.Options) (*Net, error) {
	if err := topology.Validate(); err != nil {
		return nil, err
	}
	conf := options.Resolve(opts...)

	n := &Net{
		topology:   topology,
		candidate1: candidate1,
		candidate2: candidate2,
		trainSize:  len(trainSet),
		logger:     conf.Logger,
	}
	for i := 0; i < window.Size; i++ {
		node, err := newNode(i, trainSet, conf.CacheSize)
		if err != nil {
			return nil, err
		}
		n.nodes[i] = node
	}
	for _, e := range topology.Edges {
		n.nodes[e.Child].addParent(n.nodes[e.Parent])
	}

	n.logger.Debug("bayes net wired",
		"topology", topology.Name,
		"edges", len(topology.Edges),
		"train_size", len(trainSet),
		"candidates", []string{candidate1, candidate2})
	return n, nil
}

// Name identifies the engine, e.g. "bayes-chain".
func (n *Net) Name() string { return "bayes-" + n.topology.Name }

func (n *Net) Topology() Topology { return n.topology }

func (n *Net) Node(i int) *Node { return n.nodes[i] }

func (n *Net) Candidates() (string, string) { return n.candidate1, n.candidate2 }

// JointProbability multiplies every node's conditional probability for query.
// Any node failure aborts the whole product.
func (n *Net) JointProbability(query window.Example) (float64, error) {
	ps := make([]float64, window.Size)
	for i, node := range n.nodes {
		p, err := node.ConditionalProbability(query)
		if err != nil {
			return 0, fmt.Errorf("%s joint probability: %w", n.Name(), err)
		}
		ps[i] = p
	}
	return floats.Prod(ps), nil
}

// Scores returns the joint probability of query with each candidate placed at
// the center. query itself is not modified.
func (n *Net) Scores(query window.Example) (pX, pY float64, err error) {
	pX, err = n.JointProbability(query.WithCenter(n.candidate1))
	if err != nil {
		return 0, 0, err
	}
	pY, err = n.JointProbability(query.WithCenter(n.candidate2))
	if err != nil {
		return 0, 0, err
	}
	return pX, pY, nil
}

// Classify returns candidate1 only when it is strictly more probable; ties go
// to candidate2.
func (n *Net) Classify(query window.Example) (string, error) {
	pX, pY, err := n.Scores(query)
	if err != nil {
		return "", err
	}
	if pX > pY {
		return n.candidate1, nil
	}
	return n.candidate2, nil
}
