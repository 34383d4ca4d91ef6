package wire

import (
	"encoding/json"
	"fmt"
)

// JSON encoder, human-readable mirror of the binary messages.

// EncodeJSON encodes a Message into JSON bytes.
func EncodeJSON(m *Message) ([]byte, error) {
	obj := msgToMap(m)
	if obj == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, byte(m.Kind))
	}
	return json.Marshal(obj)
}

func msgToMap(m *Message) map[string]any {
	switch m.Kind {
	case KindState, KindEvent, KindReset:
		obj := map[string]any{
			"type":      m.Kind.String(),
			"timestamp": m.Timestamp,
			"revision":  m.Revision,
			"price":     m.Price,
			"demand":    m.Demand,
			"profit":    m.Profit,
			"marketCondition": map[string]any{
				"maxDemand":         m.MaxDemand,
				"demandSensitivity": m.DemandSensitivity,
				"costPerUnit":       m.CostPerUnit,
				"description":       m.Description,
			},
			"currentEvent": nil,
		}
		if m.EventID != 0 {
			obj["currentEvent"] = map[string]any{
				"id":   m.EventID,
				"name": m.EventName,
			}
		}
		return obj

	case KindCheck:
		return map[string]any{
			"type":        m.Kind.String(),
			"timestamp":   m.Timestamp,
			"revision":    m.Revision,
			"price":       m.Price,
			"isMaximized": m.IsMaximized,
			"maxPrice":    m.MaxPrice,
			"maxProfit":   m.MaxProfit,
		}

	case KindError:
		return map[string]any{
			"type":      m.Kind.String(),
			"timestamp": m.Timestamp,
			"error":     m.Error,
		}
	}
	return nil
}
