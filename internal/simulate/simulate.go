// Package simulate adds artificial latency in front of a todo store so that
// slow responses can be reproduced locally.
package simulate

import (
	"math/rand/v2"
	"time"

	"github.com/tinytelemetry/tudu/internal/model"
)

// Dur returns a random duration within [min, max).
// It returns min when the range is empty.
func Dur(min, max time.Duration) time.Duration {
	if min >= max {
		return min
	}
	return min + time.Duration(rand.Int64N(int64(max-min)))
}

// Config sets the response delay range. A zero Max disables the delay.
type Config struct {
	ResponseDelayMin time.Duration
	ResponseDelayMax time.Duration
}

// Enabled reports whether any delay would be applied.
func (c Config) Enabled() bool { return c.ResponseDelayMax > 0 }

// Store delays every call to the wrapped store by a random duration.
type Store struct {
	next  model.TodoStore
	cfg   Config
	sleep func(time.Duration)
}

var _ model.TodoStore = (*Store)(nil)

// Wrap returns next unchanged when cfg is disabled.
func Wrap(next model.TodoStore, cfg Config) model.TodoStore {
	if !cfg.Enabled() {
		return next
	}
	return &Store{next: next, cfg: cfg, sleep: time.Sleep}
}

func (s *Store) delay() {
	if d := Dur(s.cfg.ResponseDelayMin, s.cfg.ResponseDelayMax); d > 0 {
		s.sleep(d)
	}
}

func (s *Store) All() ([]model.Todo, error) {
	s.delay()
	return s.next.All()
}

func (s *Store) Find(term string) ([]model.Todo, error) {
	s.delay()
	return s.next.Find(term)
}

func (s *Store) Len() (int, error) {
	s.delay()
	return s.next.Len()
}

func (s *Store) Stats() (model.Stats, error) {
	s.delay()
	return s.next.Stats()
}

func (s *Store) Add(title string, done bool, now time.Time) (string, error) {
	s.delay()
	return s.next.Add(title, done, now)
}

func (s *Store) Toggle(id string) (model.Todo, error) {
	s.delay()
	return s.next.Toggle(id)
}

func (s *Store) Remove(id string) error {
	s.delay()
	return s.next.Remove(id)
}
