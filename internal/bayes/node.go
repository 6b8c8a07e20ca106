package bayes

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"disambig/internal/window"
)

// Node is the variable for one window position. Its parents are other nodes
// of the same net.
type Node struct {
	position int
	parents  []*Node
	trainSet []window.Example
	cache    *lru.Cache[Proposition, float64]
}

func newNode(position int, trainSet []window.Example, cacheSize int) (*Node, error) {
	cache, err := lru.New[Proposition, float64](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("node %d cache: %w", position, err)
	}
	return &Node{position: position, trainSet: trainSet, cache: cache}, nil
}

func (n *Node) addParent(p *Node) {
	n.parents = append(n.parents, p)
}

func (n *Node) Position() int { return n.position }

// Parents returns the parent positions in wiring order.
func (n *Node) Parents() []int {
	out := make([]int, len(n.parents))
	for i, p := range n.parents {
		out[i] = p.position
	}
	return out
}

// Proposition builds the query's center word plus the POS tags it carries at
// this node's parent positions.
func (n *Node) Proposition(query window.Example) Proposition {
	p := NewProposition(query.CenterWord())
	for _, parent := range n.parents {
		p = p.Constrain(parent.position, query.POS(parent.position))
	}
	return p
}

// ConditionalProbability estimates P(x[i] | parents(x[i])) for query.
func (n *Node) ConditionalProbability(query window.Example) (float64, error) {
	return n.probability(n.Proposition(query))
}

// probability memoizes Probability per proposition. An evicted entry is
// recomputed to the same value.
func (n *Node) probability(p Proposition) (float64, error) {
	if v, ok := n.cache.Get(p); ok {
		return v, nil
	}
	v, err := Probability(n.trainSet, p)
	if err != nil {
		return 0, fmt.Errorf("node %d: %w", n.position, err)
	}
	n.cache.Add(p, v)
	return v, nil
}

func (n *Node) String() string { return fmt.Sprintf("%d", n.position) }
