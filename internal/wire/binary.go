package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/ndrandal/price-simulator/internal/market"
)

// Binary encoder.
// Each message is prefixed with a 2-byte big-endian body length.
// Floats are IEEE-754 float64 bits, big-endian.

var (
	ErrShortFrame  = errors.New("wire: short frame")
	ErrUnknownKind = errors.New("wire: unknown message kind")
)

const (
	stateFixedLen = 69
	checkLen      = 42
	errorFixedLen = 11
)

// EncodeBinary encodes m including the 2-byte length prefix.
// Returns nil for unknown kinds.
func EncodeBinary(m *Message) []byte {
	var body []byte

	switch m.Kind {
	case KindState, KindEvent, KindReset:
		body = encodeState(m)
	case KindCheck:
		body = encodeCheck(m)
	case KindError:
		body = encodeError(m)
	default:
		return nil
	}

	frame := make([]byte, 2+len(body))
	binary.BigEndian.PutUint16(frame[0:2], uint16(len(body)))
	copy(frame[2:], body)
	return frame
}

func putFloat(buf []byte, v float64) {
	binary.BigEndian.PutUint64(buf, math.Float64bits(v))
}

func getFloat(buf []byte) float64 {
	return math.Float64frombits(binary.BigEndian.Uint64(buf))
}

// State / Event / Reset (stateFixedLen + description bytes)
// Kind(1) + Timestamp(8) + Revision(8) + Price(8) + Demand(8) + Profit(8) +
// MaxDemand(8) + Sensitivity(8) + Cost(8) + EventID(2) + DescLen(2) + Desc(n)
func encodeState(m *Message) []byte {
	desc := truncate(m.Description, math.MaxUint16-stateFixedLen)
	buf := make([]byte, stateFixedLen+len(desc))
	buf[0] = byte(m.Kind)
	binary.BigEndian.PutUint64(buf[1:9], uint64(m.Timestamp))
	binary.BigEndian.PutUint64(buf[9:17], m.Revision)
	putFloat(buf[17:25], m.Price)
	putFloat(buf[25:33], m.Demand)
	putFloat(buf[33:41], m.Profit)
	putFloat(buf[41:49], m.MaxDemand)
	putFloat(buf[49:57], m.DemandSensitivity)
	putFloat(buf[57:65], m.CostPerUnit)
	binary.BigEndian.PutUint16(buf[65:67], m.EventID)
	binary.BigEndian.PutUint16(buf[67:69], uint16(len(desc)))
	copy(buf[69:], desc)
	return buf
}

// Maximization check (42 bytes)
// Kind(1) + Timestamp(8) + Revision(8) + Price(8) + IsMaximized(1) +
// MaxPrice(8) + MaxProfit(8)
func encodeCheck(m *Message) []byte {
	buf := make([]byte, checkLen)
	buf[0] = byte(m.Kind)
	binary.BigEndian.PutUint64(buf[1:9], uint64(m.Timestamp))
	binary.BigEndian.PutUint64(buf[9:17], m.Revision)
	putFloat(buf[17:25], m.Price)
	if m.IsMaximized {
		buf[25] = 1
	}
	putFloat(buf[26:34], m.MaxPrice)
	putFloat(buf[34:42], m.MaxProfit)
	return buf
}

// Error (errorFixedLen + message bytes)
// Kind(1) + Timestamp(8) + MsgLen(2) + Msg(n)
func encodeError(m *Message) []byte {
	msg := truncate(m.Error, math.MaxUint16-errorFixedLen)
	buf := make([]byte, errorFixedLen+len(msg))
	buf[0] = byte(m.Kind)
	binary.BigEndian.PutUint64(buf[1:9], uint64(m.Timestamp))
	binary.BigEndian.PutUint16(buf[9:11], uint16(len(msg)))
	copy(buf[11:], msg)
	return buf
}

// truncate caps s so the whole body still fits the 2-byte length prefix.
func truncate(s string, limit int) string {
	if len(s) > limit {
		return s[:limit]
	}
	return s
}

// DecodeBinary decodes one length-prefixed frame.
func DecodeBinary(frame []byte) (Message, error) {
	if len(frame) < 3 {
		return Message{}, ErrShortFrame
	}
	n := int(binary.BigEndian.Uint16(frame[0:2]))
	if len(frame) < 2+n {
		return Message{}, fmt.Errorf("%w: body %d bytes, have %d", ErrShortFrame, n, len(frame)-2)
	}
	return decodeBody(frame[2 : 2+n])
}

func decodeBody(b []byte) (Message, error) {
	if len(b) == 0 {
		return Message{}, ErrShortFrame
	}
	m := Message{Kind: Kind(b[0])}

	switch m.Kind {
	case KindState, KindEvent, KindReset:
		if len(b) < stateFixedLen {
			return Message{}, fmt.Errorf("%w: %s body %d bytes", ErrShortFrame, m.Kind, len(b))
		}
		m.Timestamp = int64(binary.BigEndian.Uint64(b[1:9]))
		m.Revision = binary.BigEndian.Uint64(b[9:17])
		m.Price = getFloat(b[17:25])
		m.Demand = getFloat(b[25:33])
		m.Profit = getFloat(b[33:41])
		m.MaxDemand = getFloat(b[41:49])
		m.DemandSensitivity = getFloat(b[49:57])
		m.CostPerUnit = getFloat(b[57:65])
		m.EventID = binary.BigEndian.Uint16(b[65:67])
		dl := int(binary.BigEndian.Uint16(b[67:69]))
		if len(b) < stateFixedLen+dl {
			return Message{}, fmt.Errorf("%w: description truncated", ErrShortFrame)
		}
		m.Description = string(b[69 : 69+dl])
		if e, ok := market.EventByID(int(m.EventID)); ok {
			m.EventName = e.Name
		}

	case KindCheck:
		if len(b) < checkLen {
			return Message{}, fmt.Errorf("%w: check body %d bytes", ErrShortFrame, len(b))
		}
		m.Timestamp = int64(binary.BigEndian.Uint64(b[1:9]))
		m.Revision = binary.BigEndian.Uint64(b[9:17])
		m.Price = getFloat(b[17:25])
		m.IsMaximized = b[25] == 1
		m.MaxPrice = getFloat(b[26:34])
		m.MaxProfit = getFloat(b[34:42])

	case KindError:
		if len(b) < errorFixedLen {
			return Message{}, fmt.Errorf("%w: error body %d bytes", ErrShortFrame, len(b))
		}
		m.Timestamp = int64(binary.BigEndian.Uint64(b[1:9]))
		ml := int(binary.BigEndian.Uint16(b[9:11]))
		if len(b) < errorFixedLen+ml {
			return Message{}, fmt.Errorf("%w: error text truncated", ErrShortFrame)
		}
		m.Error = string(b[11 : 11+ml])

	default:
		return Message{}, fmt.Errorf("%w: %q", ErrUnknownKind, b[0])
	}

	return m, nil
}
