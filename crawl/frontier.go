package crawl

import (
	"container/heap"

	"github.com/cursorboy/scrapekb"
	"github.com/cursorboy/scrapekb/bloom"
)

// Frontier is a priority queue of candidate links that admits each
// normalized URL once. The visited set may be shared with the rest of a
// run so that targets and candidates are never fetched twice.
type Frontier struct {
	seen  *bloom.URLSet
	queue *linkHeap
}

// NewFrontier creates a Frontier that records admitted URLs in seen.
func NewFrontier(seen *bloom.URLSet) *Frontier {
	h := &linkHeap{}
	heap.Init(h)
	return &Frontier{seen: seen, queue: h}
}

// Push adds a link to the frontier.
// Returns false if the URL has already been seen.
func (f *Frontier) Push(link scrapekb.CandidateLink) bool {
	if !f.seen.Add(link.URL) {
		return false
	}
	heap.Push(f.queue, link)
	return true
}

// Pop returns the highest-scoring link, earliest position first on ties.
// The bool result is false if the frontier is empty.
func (f *Frontier) Pop() (scrapekb.CandidateLink, bool) {
	if f.queue.Len() == 0 {
		return scrapekb.CandidateLink{}, false
	}
	link, _ := heap.Pop(f.queue).(scrapekb.CandidateLink)
	return link, true
}

// Len returns the number of URLs in the queue.
func (f *Frontier) Len() int {
	return f.queue.Len()
}

// linkHeap implements heap.Interface over candidate links.
type linkHeap []scrapekb.CandidateLink

func (h linkHeap) Len() int { return len(h) }

func (h linkHeap) Less(i, j int) bool {
	if h[i].Score != h[j].Score {
		return h[i].Score > h[j].Score
	}
	return h[i].Position < h[j].Position
}

func (h linkHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *linkHeap) Push(x any) {
	link, _ := x.(scrapekb.CandidateLink)
	*h = append(*h, link)
}

func (h *linkHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[0 : n-1]
	return x
}
