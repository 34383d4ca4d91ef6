package engine

import (
	"fmt"

	"github.com/ndrandal/price-simulator/internal/market"
)

// Selector picks market events uniformly from a fixed catalog.
type Selector struct {
	src    Source
	events []market.Event
}

// NewSelector creates a selector over events drawing from src.
// An invalid catalog (including an empty one) is a configuration error.
func NewSelector(src Source, events []market.Event) (*Selector, error) {
	if err := market.ValidateCatalog(events); err != nil {
		return nil, fmt.Errorf("new selector: %w", err)
	}
	return &Selector{
		src:    src,
		events: append([]market.Event(nil), events...),
	}, nil
}

// Pick returns events[floor(u * len)] for the next source value u.
func (s *Selector) Pick() market.Event {
	idx := int(s.src.Float64() * float64(len(s.events)))
	// A source returning values outside [0, 1) is pinned to the catalog ends.
	if idx >= len(s.events) {
		idx = len(s.events) - 1
	}
	if idx < 0 {
		idx = 0
	}
	return s.events[idx]
}

// Events returns a copy of the catalog.
func (s *Selector) Events() []market.Event {
	out := make([]market.Event, len(s.events))
	copy(out, s.events)
	return out
}

// Len returns the catalog size.
func (s *Selector) Len() int {
	return len(s.events)
}
