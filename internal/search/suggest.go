// Package search provides the debounced, supersedable suggestion pipeline
// used for interactive product autocomplete.
package search

import (
	"sync"
	"time"

	"github.com/listinha-app/listinha/internal/model"
)

// DefaultDebounce is how long input must be quiet before a query is issued.
const DefaultDebounce = 300 * time.Millisecond

// QueryFunc runs the actual catalog search. It must be side-effect free; an
// in-flight query may be abandoned at any time.
type QueryFunc func(text string) []model.Product

// DeliverFunc receives results for the query text that produced them. It runs
// with the suggester locked and must not call back into it.
type DeliverFunc func(text string, results []model.Product)

// Suggester debounces rapid input and guarantees last-issued-wins: results of
// a query superseded by later input are dropped, even if they arrive later.
// Each input bumps a generation counter; a query only delivers if its
// generation is still the newest at delivery time.
type Suggester struct {
	mu      sync.Mutex
	delay   time.Duration
	timer   *time.Timer
	gen     uint64
	query   QueryFunc
	deliver DeliverFunc
}

func NewSuggester(delay time.Duration, query QueryFunc, deliver DeliverFunc) *Suggester {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Suggester{delay: delay, query: query, deliver: deliver}
}

// Input records a keystroke's worth of text. Any pending timer is cancelled
// and restarted; the query fires only after the debounce window passes with
// no further input.
func (s *Suggester) Input(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gen++
	gen := s.gen
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.delay, func() {
		s.fire(gen, text)
	})
}

func (s *Suggester) fire(gen uint64, text string) {
	if !s.current(gen) {
		return
	}

	results := s.query(text)

	// Re-check and deliver under one lock: input may have arrived while the
	// query ran, and a stale query must not slip its delivery in after a
	// newer one passed the same check.
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		return
	}
	s.deliver(text, results)
}

func (s *Suggester) current(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen == gen
}

// Stop cancels any pending query and invalidates in-flight ones. Safe to call
// more than once.
func (s *Suggester) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gen++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
