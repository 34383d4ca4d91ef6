// Package simulation owns the state of one pricing session: the user's price,
// the current market condition and the derived demand and profit.
package simulation

import (
	"errors"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ndrandal/price-simulator/internal/engine"
	"github.com/ndrandal/price-simulator/internal/market"
)

// ErrUnknownEvent is returned by ApplyEvent for ids outside the catalog.
var ErrUnknownEvent = errors.New("unknown market event")

const defaultHistoryLimit = 100

// State is a consistent snapshot of the session.
type State struct {
	Price        float64          `json:"price"`
	Demand       float64          `json:"demand"`
	Profit       float64          `json:"profit"`
	Condition    market.Condition `json:"marketCondition"`
	CurrentEvent *market.Event    `json:"currentEvent"`
	Revision     uint64           `json:"revision"`
}

// Check is the result of a profit-maximization check.
// Price and Revision identify the state the verdict was computed for.
type Check struct {
	Price       float64 `json:"price"`
	Revision    uint64  `json:"revision"`
	IsMaximized bool    `json:"isMaximized"`
	MaxPrice    float64 `json:"maxPrice"`
	MaxProfit   float64 `json:"maxProfit"`
}

// AppliedEvent records one event folded into the condition since the last reset.
type AppliedEvent struct {
	ID     string           `json:"id"`
	Event  market.Event     `json:"event"`
	Before market.Condition `json:"before"`
	After  market.Condition `json:"after"`
	At     time.Time        `json:"at"`
}

// ChangeKind names the operation that produced a Change.
type ChangeKind int

const (
	ChangePrice ChangeKind = iota
	ChangeEvent
	ChangeReset
)

func (k ChangeKind) String() string {
	switch k {
	case ChangePrice:
		return "price"
	case ChangeEvent:
		return "event"
	case ChangeReset:
		return "reset"
	default:
		return "unknown"
	}
}

// Change is delivered to listeners after every mutating operation.
type Change struct {
	Kind  ChangeKind
	State State
}

// Option configures a Controller.
type Option func(*Controller)

// WithInitialPrice sets the starting price. It is stored as given.
func WithInitialPrice(p float64) Option {
	return func(c *Controller) { c.price = p }
}

// WithHistoryLimit caps the number of applied events kept. n <= 0 keeps the default.
func WithHistoryLimit(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.historyLimit = n
		}
	}
}

// WithClock overrides the time source used to stamp history entries.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// Controller serializes every change to the session. After any write to
// price or condition it recomputes demand and profit before returning.
type Controller struct {
	mu       sync.RWMutex
	selector *engine.Selector

	price     float64
	condition market.Condition
	current   *market.Event
	demand    float64
	profit    float64
	revision  uint64

	history      []AppliedEvent
	historyLimit int
	applied      uint64 // total since start, survives reset
	now          func() time.Time

	lmu       sync.Mutex
	listeners map[int]func(Change)
	nextID    int
}

// New creates a controller at the default market condition.
func New(sel *engine.Selector, opts ...Option) *Controller {
	c := &Controller{
		selector:     sel,
		price:        market.DefaultPrice,
		condition:    market.DefaultCondition(),
		historyLimit: defaultHistoryLimit,
		now:          time.Now,
		listeners:    make(map[int]func(Change)),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.recompute()
	return c
}

// recompute refreshes demand and profit. Caller holds mu.
func (c *Controller) recompute() {
	c.demand = engine.Demand(c.price, c.condition)
	c.profit = engine.Profit(c.price, c.demand, c.condition.CostPerUnit)
	c.revision++
}

func (c *Controller) snapshotLocked() State {
	s := State{
		Price:     c.price,
		Demand:    c.demand,
		Profit:    c.profit,
		Condition: c.condition,
		Revision:  c.revision,
	}
	if c.current != nil {
		ev := *c.current
		s.CurrentEvent = &ev
	}
	return s
}

// SetPrice stores p and recomputes. The price is not clamped here;
// callers are responsible for keeping it within [market.PriceMin, market.PriceMax].
func (c *Controller) SetPrice(p float64) State {
	c.mu.Lock()
	c.price = p
	c.recompute()
	s := c.snapshotLocked()
	c.mu.Unlock()

	c.notify(Change{Kind: ChangePrice, State: s})
	return s
}

// TriggerRandomEvent picks an event and folds it into the current condition.
func (c *Controller) TriggerRandomEvent() (market.Event, State) {
	c.mu.Lock()
	ev := c.selector.Pick()
	s := c.applyLocked(ev)
	c.mu.Unlock()

	c.notify(Change{Kind: ChangeEvent, State: s})
	return ev, s
}

// ApplyEvent folds the catalog event with the given id into the current condition.
func (c *Controller) ApplyEvent(id int) (market.Event, State, error) {
	var ev market.Event
	found := false
	for _, e := range c.selector.Events() {
		if e.ID == id {
			ev, found = e, true
			break
		}
	}
	if !found {
		return market.Event{}, c.Snapshot(), ErrUnknownEvent
	}

	c.mu.Lock()
	s := c.applyLocked(ev)
	c.mu.Unlock()

	c.notify(Change{Kind: ChangeEvent, State: s})
	return ev, s, nil
}

func (c *Controller) applyLocked(ev market.Event) State {
	before := c.condition
	c.condition = before.Apply(ev)
	c.current = &ev
	c.applied++

	c.history = append(c.history, AppliedEvent{
		ID:     uuid.NewString(),
		Event:  ev,
		Before: before,
		After:  c.condition,
		At:     c.now(),
	})
	if over := len(c.history) - c.historyLimit; over > 0 {
		c.history = append([]AppliedEvent(nil), c.history[over:]...)
	}

	c.recompute()
	return c.snapshotLocked()
}

// ResetMarket restores the default condition and clears the current event and history.
func (c *Controller) ResetMarket() State {
	c.mu.Lock()
	c.condition = market.DefaultCondition()
	c.current = nil
	c.history = nil
	c.recompute()
	s := c.snapshotLocked()
	c.mu.Unlock()

	c.notify(Change{Kind: ChangeReset, State: s})
	return s
}

// CheckProfitMaximization compares the current price with the scanned optimum.
func (c *Controller) CheckProfitMaximization() Check {
	c.mu.RLock()
	price, cond, rev := c.price, c.condition, c.revision
	c.mu.RUnlock()

	m := engine.FindMaximumProfit(cond)
	return Check{
		Price:       price,
		Revision:    rev,
		IsMaximized: math.Abs(price-m.Price) < market.MaximizationTolerance,
		MaxPrice:    m.Price,
		MaxProfit:   m.Profit,
	}
}

// Snapshot returns the current state.
func (c *Controller) Snapshot() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshotLocked()
}

// History returns the events applied since the last reset, oldest first.
func (c *Controller) History() []AppliedEvent {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]AppliedEvent, len(c.history))
	copy(out, c.history)
	return out
}

// EventsApplied returns the number of events applied since the controller started.
func (c *Controller) EventsApplied() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.applied
}

// Events returns the catalog the controller draws from.
func (c *Controller) Events() []market.Event {
	return c.selector.Events()
}

// Subscribe registers fn to receive every change produced by a mutating
// operation. Listeners run on the caller's goroutine after the state lock
// is released. The returned func removes the listener.
func (c *Controller) Subscribe(fn func(Change)) (cancel func()) {
	c.lmu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	c.lmu.Unlock()

	return func() {
		c.lmu.Lock()
		delete(c.listeners, id)
		c.lmu.Unlock()
	}
}

func (c *Controller) notify(ch Change) {
	c.lmu.Lock()
	ids := make([]int, 0, len(c.listeners))
	for id := range c.listeners {
		ids = append(ids, id)
	}
	fns := make([]func(Change), 0, len(ids))
	sort.Ints(ids)
	for _, id := range ids {
		fns = append(fns, c.listeners[id])
	}
	c.lmu.Unlock()

	for _, fn := range fns {
		fn(ch)
	}
}
