// Package queue provides a bounded top-k candidate queue with a
// deterministic total order: descending score, ties (within a floating-point
// tolerance) broken by ascending key.
package queue

import "container/heap"

// DefaultEpsilon is the similarity tolerance within which two candidates are
// considered tied and ordered by key instead.
const DefaultEpsilon = 1e-9

// Item represents a ranked candidate.
type Item struct {
	Key   string  // Key is the candidate identifier and the tie-breaker.
	Score float64 // Score is the similarity; higher ranks first.
}

// TopK keeps the k best items seen so far.
//
// Internally it is a worst-first heap so that the weakest kept candidate can
// be evicted in O(log k). The ranking is a strict total order, which makes
// the retained set and its final ordering independent of insertion order.
type TopK struct {
	k     int
	eps   float64
	items candidateHeap
}

// NewTopK creates a queue retaining at most k items.
// A non-positive eps falls back to DefaultEpsilon.
func NewTopK(k int, eps float64) *TopK {
	if eps <= 0 {
		eps = DefaultEpsilon
	}
	return &TopK{
		k:     k,
		eps:   eps,
		items: candidateHeap{eps: eps, items: make([]Item, 0, k)},
	}
}

// Len returns the number of retained items.
func (q *TopK) Len() int { return len(q.items.items) }

// Consider offers an item to the queue. It is retained if fewer than k items
// are held, or if it outranks the current weakest item.
func (q *TopK) Consider(it Item) {
	if q.k <= 0 {
		return
	}
	if len(q.items.items) < q.k {
		heap.Push(&q.items, it)
		return
	}
	if beats(it, q.items.items[0], q.eps) {
		q.items.items[0] = it
		heap.Fix(&q.items, 0)
	}
}

// Sorted drains the queue and returns the retained items from best to worst.
// The queue is empty afterwards.
func (q *TopK) Sorted() []Item {
	out := make([]Item, len(q.items.items))
	for i := len(out) - 1; i >= 0; i-- {
		out[i] = heap.Pop(&q.items).(Item)
	}
	return out
}

// beats reports whether a outranks b: strictly higher score, or tied within
// eps and lexicographically smaller key.
func beats(a, b Item, eps float64) bool {
	d := a.Score - b.Score
	if d > eps {
		return true
	}
	if d < -eps {
		return false
	}
	return a.Key < b.Key
}

// Compile time check to ensure candidateHeap satisfies the heap interface.
var _ heap.Interface = (*candidateHeap)(nil)

// candidateHeap is a worst-first heap: the root is the weakest candidate.
type candidateHeap struct {
	eps   float64
	items []Item
}

func (h *candidateHeap) Len() int { return len(h.items) }

func (h *candidateHeap) Less(i, j int) bool {
	// Worst first: i sorts before j when j beats i.
	return beats(h.items[j], h.items[i], h.eps)
}

func (h *candidateHeap) Swap(i, j int) {
	h.items[i], h.items[j] = h.items[j], h.items[i]
}

func (h *candidateHeap) Push(x any) {
	h.items = append(h.items, x.(Item))
}

func (h *candidateHeap) Pop() any {
	old := h.items
	n := len(old)
	it := old[n-1]
	h.items = old[:n-1]
	return it
}
