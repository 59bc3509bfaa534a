// Package bloom tracks visited URLs with a Bloom filter in front of an exact
// set.
package bloom

import (
	"github.com/bits-and-blooms/bloom/v3"
	"github.com/cursorboy/scrapekb"
)

// URLSet records URLs by their normalized form. The filter answers most
// misses; hits are confirmed against the exact set so membership is never
// a false positive.
type URLSet struct {
	f     *bloom.BloomFilter
	exact map[string]struct{}
}

// NewURLSet creates a set sized for n expected URLs with the given filter
// false positive rate.
func NewURLSet(n uint, fpRate float64) *URLSet {
	return &URLSet{
		f:     bloom.NewWithEstimates(n, fpRate),
		exact: make(map[string]struct{}),
	}
}

// Add records rawURL and reports whether it was new.
func (s *URLSet) Add(rawURL string) bool {
	key := scrapekb.NormalizeURL(rawURL)
	if s.contains(key) {
		return false
	}
	s.f.AddString(key)
	s.exact[key] = struct{}{}
	return true
}

func (s *URLSet) contains(key string) bool {
	if !s.f.TestString(key) {
		return false
	}
	_, ok := s.exact[key]
	return ok
}

// Len returns the number of distinct URLs added.
func (s *URLSet) Len() int {
	return len(s.exact)
}
