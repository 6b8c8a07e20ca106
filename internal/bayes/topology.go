package bayes

import (
	"errors"
	"fmt"
	"sort"

	"disambig/internal/window"
)

var ErrInvalidTopology = errors.New("invalid topology")

// Edge makes Child conditionally dependent on Parent.
type Edge struct {
	Child  int `yaml:"child" json:"child"`
	Parent int `yaml:"parent" json:"parent"`
}

// Topology is a named edge list over window positions. Positions that appear
// in no edge as a child are unconditioned.
type Topology struct {
	Name  string
	Edges []Edge
}

// Chain conditions each word near the center on the word before it:
//
//	[5] <- [6] <- (7) <- [8] <- [9]
var Chain = Topology{
	Name: "chain",
	Edges: []Edge{
		{Child: 6, Parent: 5},
		{Child: 7, Parent: 6},
		{Child: 8, Parent: 7},
		{Child: 9, Parent: 8},
	},
}

// Fork conditions the center on both of its left neighbours and its right
// neighbour, and the right neighbour on the word after it.
var Fork = Topology{
	Name: "fork",
	Edges: []Edge{
		{Child: 7, Parent: 6},
		{Child: 7, Parent: 5},
		{Child: 7, Parent: 8},
		{Child: 8, Parent: 9},
	},
}

var builtin = map[string]Topology{
	Chain.Name: Chain,
	Fork.Name:  Fork,
}

// TopologyByName returns one of the built-in topologies.
func TopologyByName(name string) (Topology, error) {
	t, ok := builtin[name]
	if !ok {
		return Topology{}, fmt.Errorf("%w: unknown topology %q", ErrInvalidTopology, name)
	}
	return t, nil
}

// TopologyNames lists the built-in topologies in sorted order.
func TopologyNames() []string {
	names := make([]string, 0, len(builtin))
	for name := range builtin {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate checks that every edge stays inside the window, that no edge is
// repeated or self-referential, and that the graph has no cycle.
func (t Topology) Validate() error {
	seen := make(map[Edge]bool, len(t.Edges))
	children := make(map[int][]int)
	for _, e := range t.Edges {
		if e.Child < 0 || e.Child >= window.Size || e.Parent < 0 || e.Parent >= window.Size {
			return fmt.Errorf("%w: %s edge %d<-%d outside window", ErrInvalidTopology, t.Name, e.Child, e.Parent)
		}
		if e.Child == e.Parent {
			return fmt.Errorf("%w: %s position %d depends on itself", ErrInvalidTopology, t.Name, e.Child)
		}
		if seen[e] {
			return fmt.Errorf("%w: %s edge %d<-%d repeated", ErrInvalidTopology, t.Name, e.Child, e.Parent)
		}
		seen[e] = true
		children[e.Parent] = append(children[e.Parent], e.Child)
	}

	const (
		unvisited = iota
		visiting
		done
	)
	state := make([]int, window.Size)
	var visit func(int) bool
	visit = func(n int) bool {
		switch state[n] {
		case visiting:
			return false
		case done:
			return true
		}
		state[n] = visiting
		for _, c := range children[n] {
			if !visit(c) {
				return false
			}
		}
		state[n] = done
		return true
	}
	for i := 0; i < window.Size; i++ {
		if !visit(i) {
			return fmt.Errorf("%w: %s contains a cycle", ErrInvalidTopology, t.Name)
		}
	}
	return nil
}
