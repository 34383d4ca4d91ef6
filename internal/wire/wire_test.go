package wire

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/ndrandal/price-simulator/internal/market"
)

func stateMessage() *Message {
	m := &Message{Kind: KindEvent, Timestamp: 123456, Revision: 7, Price: 60, Demand: 400, Profit: 16000}
	m.SetCondition(market.DefaultCondition())
	ev, _ := market.EventByID(3)
	m.SetEvent(&ev)
	return m
}

func TestEncodeBinaryStateLength(t *testing.T) {
	m := stateMessage()
	data := EncodeBinary(m)
	if data == nil {
		t.Fatal("EncodeBinary returned nil for event message")
	}
	bodyLen := int(binary.BigEndian.Uint16(data[0:2]))
	if want := stateFixedLen + len(m.Description); bodyLen != want {
		t.Fatalf("body length = %d, want %d", bodyLen, want)
	}
	if data[2] != byte(KindEvent) {
		t.Fatalf("kind byte = %c, want %c", data[2], KindEvent)
	}
}

func TestEncodeBinaryCheckLength(t *testing.T) {
	data := EncodeBinary(&Message{Kind: KindCheck, IsMaximized: true, MaxPrice: 60, MaxProfit: 16000})
	if bodyLen := binary.BigEndian.Uint16(data[0:2]); bodyLen != checkLen {
		t.Fatalf("body length = %d, want %d", bodyLen, checkLen)
	}
	// IsMaximized flag at body offset 25
	if data[2+25] != 1 {
		t.Fatal("IsMaximized flag not set")
	}
}

func TestEncodeBinaryUnknownKind(t *testing.T) {
	if data := EncodeBinary(&Message{Kind: 'Z'}); data != nil {
		t.Fatalf("expected nil for unknown kind, got %d bytes", len(data))
	}
}

func TestDecodeBinaryState(t *testing.T) {
	m := stateMessage()
	got, err := DecodeBinary(EncodeBinary(m))
	if err != nil {
		t.Fatalf("DecodeBinary: %v", err)
	}
	if got.Kind != KindEvent || got.Revision != 7 || got.Timestamp != 123456 {
		t.Fatalf("header = %c/%d/%d", got.Kind, got.Revision, got.Timestamp)
	}
	if got.Price != 60 || got.Demand != 400 || got.Profit != 16000 {
		t.Fatalf("values = %v/%v/%v", got.Price, got.Demand, got.Profit)
	}
	if got.Condition() != market.DefaultCondition() {
		t.Fatalf("condition = %+v", got.Condition())
	}
	want, _ := market.EventByID(3)
	if got.EventID != 3 || got.EventName != want.Name {
		t.Fatalf("event = %d %q", got.EventID, got.EventName)
	}
}

func TestDecodeBinaryNoEvent(t *testing.T) {
	m := &Message{Kind: KindReset, Price: 50}
	m.SetCondition(market.DefaultCondition())
	m.SetEvent(nil)
	got, err := DecodeBinary(EncodeBinary(m))
	if err != nil {
		t.Fatalf("DecodeBinary: %v", err)
	}
	if got.EventID != 0 || got.EventName != "" {
		t.Fatalf("event = %d %q, want none", got.EventID, got.EventName)
	}
}

func TestDecodeBinaryNegativeProfit(t *testing.T) {
	m := &Message{Kind: KindState, Price: 10, Demand: 900, Profit: -9000}
	got, err := DecodeBinary(EncodeBinary(m))
	if err != nil {
		t.Fatalf("DecodeBinary: %v", err)
	}
	if got.Profit != -9000 {
		t.Fatalf("profit = %v, want -9000", got.Profit)
	}
}

func TestDecodeBinaryError(t *testing.T) {
	got, err := DecodeBinary(EncodeBinary(&Message{Kind: KindError, Error: "price out of range"}))
	if err != nil {
		t.Fatalf("DecodeBinary: %v", err)
	}
	if got.Error != "price out of range" {
		t.Fatalf("error text = %q", got.Error)
	}
}

func TestEncodeBinaryOversizedText(t *testing.T) {
	long := strings.Repeat("x", math.MaxUint16)

	m := stateMessage()
	m.Description = long
	got, err := DecodeBinary(EncodeBinary(m))
	if err != nil {
		t.Fatalf("state DecodeBinary: %v", err)
	}
	if want := math.MaxUint16 - stateFixedLen; len(got.Description) != want {
		t.Fatalf("description length = %d, want %d", len(got.Description), want)
	}

	got, err = DecodeBinary(EncodeBinary(&Message{Kind: KindError, Error: long}))
	if err != nil {
		t.Fatalf("error DecodeBinary: %v", err)
	}
	if want := math.MaxUint16 - errorFixedLen; len(got.Error) != want {
		t.Fatalf("error length = %d, want %d", len(got.Error), want)
	}
}

func TestDecodeBinaryShortFrame(t *testing.T) {
	data := EncodeBinary(stateMessage())
	cases := [][]byte{nil, data[:2], data[:len(data)-1]}
	for i, frame := range cases {
		if _, err := DecodeBinary(frame); !errors.Is(err, ErrShortFrame) {
			t.Errorf("case %d: err = %v, want ErrShortFrame", i, err)
		}
	}
}

func TestDecodeBinaryUnknownKind(t *testing.T) {
	frame := []byte{0, 1, 'Z'}
	if _, err := DecodeBinary(frame); !errors.Is(err, ErrUnknownKind) {
		t.Fatalf("err = %v, want ErrUnknownKind", err)
	}
}

func decodeJSON(t *testing.T, m *Message) map[string]any {
	t.Helper()
	data, err := EncodeJSON(m)
	if err != nil {
		t.Fatalf("EncodeJSON error: %v", err)
	}
	var obj map[string]any
	if err := json.Unmarshal(data, &obj); err != nil {
		t.Fatalf("json.Unmarshal error: %v", err)
	}
	return obj
}

func TestEncodeJSONState(t *testing.T) {
	obj := decodeJSON(t, stateMessage())
	if obj["type"] != "event" {
		t.Fatalf("type = %v, want event", obj["type"])
	}
	if obj["price"] != 60.0 || obj["profit"] != 16000.0 {
		t.Fatalf("price/profit = %v/%v", obj["price"], obj["profit"])
	}
	cond, ok := obj["marketCondition"].(map[string]any)
	if !ok || cond["maxDemand"] != 1000.0 {
		t.Fatalf("marketCondition = %v", obj["marketCondition"])
	}
	ev, ok := obj["currentEvent"].(map[string]any)
	if !ok || ev["id"] != 3.0 {
		t.Fatalf("currentEvent = %v", obj["currentEvent"])
	}
}

func TestEncodeJSONNoEventIsNull(t *testing.T) {
	obj := decodeJSON(t, &Message{Kind: KindReset})
	if v, present := obj["currentEvent"]; !present || v != nil {
		t.Fatalf("currentEvent = %v (present=%v), want null", v, present)
	}
}

func TestEncodeJSONCheck(t *testing.T) {
	obj := decodeJSON(t, &Message{Kind: KindCheck, Price: 50, MaxPrice: 60, MaxProfit: 16000})
	if obj["type"] != "maximization" || obj["isMaximized"] != false || obj["maxPrice"] != 60.0 {
		t.Fatalf("check = %v", obj)
	}
}

func TestEncodeJSONUnknownKind(t *testing.T) {
	if _, err := EncodeJSON(&Message{Kind: 'Z'}); !errors.Is(err, ErrUnknownKind) {
		t.Fatalf("err = %v, want ErrUnknownKind", err)
	}
}
