package wire

import (
	"time"

	"github.com/ndrandal/price-simulator/internal/market"
)

// Kind identifies a stream message.
type Kind byte

const (
	KindState Kind = 'S' // snapshot or price change
	KindEvent Kind = 'E' // market event applied
	KindReset Kind = 'R' // market reset to defaults
	KindCheck Kind = 'M' // profit-maximization check result
	KindError Kind = 'X' // request rejected
)

func (k Kind) String() string {
	switch k {
	case KindState:
		return "state"
	case KindEvent:
		return "event"
	case KindReset:
		return "reset"
	case KindCheck:
		return "maximization"
	case KindError:
		return "error"
	default:
		return "unknown"
	}
}

// Message is the union of all stream message fields.
type Message struct {
	Kind      Kind
	Timestamp int64 // nanoseconds since midnight UTC
	Revision  uint64

	Price  float64
	Demand float64
	Profit float64

	MaxDemand         float64
	DemandSensitivity float64
	CostPerUnit       float64
	Description       string

	EventID   uint16 // 0 when no event is active
	EventName string

	IsMaximized bool
	MaxPrice    float64
	MaxProfit   float64

	Error string
}

// Condition returns the market condition carried by m.
func (m *Message) Condition() market.Condition {
	return market.Condition{
		MaxDemand:         m.MaxDemand,
		DemandSensitivity: m.DemandSensitivity,
		CostPerUnit:       m.CostPerUnit,
		Description:       m.Description,
	}
}

// SetCondition copies c into m.
func (m *Message) SetCondition(c market.Condition) {
	m.MaxDemand = c.MaxDemand
	m.DemandSensitivity = c.DemandSensitivity
	m.CostPerUnit = c.CostPerUnit
	m.Description = c.Description
}

// SetEvent records e as the active event, or clears it when e is nil.
func (m *Message) SetEvent(e *market.Event) {
	if e == nil {
		m.EventID = 0
		m.EventName = ""
		return
	}
	m.EventID = uint16(e.ID)
	m.EventName = e.Name
}

// NanosFromMidnight returns nanoseconds since midnight UTC.
func NanosFromMidnight() int64 {
	now := time.Now().UTC()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return now.Sub(midnight).Nanoseconds()
}
