package session

import (
	"github.com/ndrandal/price-simulator/internal/simulation"
	"github.com/ndrandal/price-simulator/internal/wire"
)

// changeKinds maps controller changes onto stream message kinds.
var changeKinds = map[simulation.ChangeKind]wire.Kind{
	simulation.ChangePrice: wire.KindState,
	simulation.ChangeEvent: wire.KindEvent,
	simulation.ChangeReset: wire.KindReset,
}

// StateMessage builds a stream message from a controller snapshot.
func StateMessage(kind wire.Kind, s simulation.State) wire.Message {
	m := wire.Message{
		Kind:     kind,
		Revision: s.Revision,
		Price:    s.Price,
		Demand:   s.Demand,
		Profit:   s.Profit,
	}
	m.SetCondition(s.Condition)
	m.SetEvent(s.CurrentEvent)
	return m
}

// CheckMessage builds a maximization message from a check result.
func CheckMessage(chk simulation.Check) wire.Message {
	return wire.Message{
		Kind:        wire.KindCheck,
		Revision:    chk.Revision,
		Price:       chk.Price,
		IsMaximized: chk.IsMaximized,
		MaxPrice:    chk.MaxPrice,
		MaxProfit:   chk.MaxProfit,
	}
}

// ErrorMessage builds a rejection message.
func ErrorMessage(text string) wire.Message {
	return wire.Message{Kind: wire.KindError, Error: text}
}
