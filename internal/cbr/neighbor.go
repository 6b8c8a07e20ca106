package cbr

import (
	"container/heap"

	"disambig/internal/window"
)

// Neighbor is a training example with its similarity to the current query.
type Neighbor struct {
	Similarity int
	Example    window.Example
	order      int // position in the training set
}

// neighborHeap pops the most similar neighbor first. Equal similarities pop
// in training-set order.
type neighborHeap []Neighbor

func (h neighborHeap) Len() int { return len(h) }
func (h neighborHeap) Less(i, j int) bool {
	if h[i].Similarity != h[j].Similarity {
		return h[i].Similarity > h[j].Similarity
	}
	return h[i].order < h[j].order
}
func (h neighborHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *neighborHeap) Push(x any) {
	*h = append(*h, x.(Neighbor))
}

func (h *neighborHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[0 : n-1]
	return x
}

// topK pops the k best neighbors in descending similarity.
func topK(neighbors []Neighbor, k int) []Neighbor {
	h := neighborHeap(neighbors)
	heap.Init(&h)
	if k > h.Len() {
		k = h.Len()
	}
	out := make([]Neighbor, 0, k)
	for i := 0; i < k; i++ {
		out = append(out, heap.Pop(&h).(Neighbor))
	}
	return out
}
