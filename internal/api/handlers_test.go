package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ndrandal/price-simulator/internal/engine"
	"github.com/ndrandal/price-simulator/internal/market"
	"github.com/ndrandal/price-simulator/internal/session"
	"github.com/ndrandal/price-simulator/internal/simulation"
)

// --- test helpers ---

// newTestServer creates a Server whose random events are always event 1 (Market Crash).
func newTestServer(t *testing.T) (*Server, *http.ServeMux) {
	t.Helper()
	sel, err := engine.NewSelector(engine.NewSequence(0), market.AllEvents())
	if err != nil {
		t.Fatalf("NewSelector: %v", err)
	}
	ctrl := simulation.New(sel)
	mgr := session.NewManager(64)
	ctrl.Subscribe(mgr.Publish)

	srv := NewServer(ctrl, mgr, nil, 42)
	mux := http.NewServeMux()
	srv.Register(mux)
	return srv, mux
}

func do(mux *http.ServeMux, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func mustDecodeJSON(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("failed to decode JSON: %v", err)
	}
}

// --- tests ---

func TestHandleState(t *testing.T) {
	_, mux := newTestServer(t)
	w := do(mux, "GET", "/api/state", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var out map[string]any
	mustDecodeJSON(t, w.Result(), &out)

	for _, key := range []string{"price", "demand", "profit", "marketCondition", "currentEvent", "revision", "summary"} {
		if _, ok := out[key]; !ok {
			t.Errorf("missing key %q in state JSON", key)
		}
	}
	if out["price"] != 50.0 || out["demand"] != 500.0 || out["profit"] != 15000.0 {
		t.Errorf("unexpected initial state: %v", out)
	}
	if out["currentEvent"] != nil {
		t.Errorf("currentEvent = %v, want null", out["currentEvent"])
	}
	if out["summary"] != "price $50.00, demand 500 units, profit $15,000" {
		t.Errorf("summary = %v", out["summary"])
	}
}

func TestHandleSetPrice(t *testing.T) {
	_, mux := newTestServer(t)
	w := do(mux, "PUT", "/api/price", `{"price": 60}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var out simulation.State
	mustDecodeJSON(t, w.Result(), &out)
	if out.Demand != 400 || out.Profit != 16000 {
		t.Fatalf("demand/profit = %v/%v, want 400/16000", out.Demand, out.Profit)
	}
}

func TestHandleSetPriceBounds(t *testing.T) {
	cases := []struct {
		body string
		code int
	}{
		{`{"price": 1}`, http.StatusOK},
		{`{"price": 100}`, http.StatusOK},
		{`{"price": 0}`, http.StatusBadRequest},
		{`{"price": 101}`, http.StatusBadRequest},
		{`{"price": -5}`, http.StatusBadRequest},
		{`{}`, http.StatusBadRequest},
		{`{"price": "ten"}`, http.StatusBadRequest},
		{`not json`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		_, mux := newTestServer(t)
		w := do(mux, "PUT", "/api/price", tc.body)
		if w.Code != tc.code {
			t.Errorf("body %s: expected %d, got %d", tc.body, tc.code, w.Code)
			continue
		}
		if tc.code != http.StatusOK {
			var out map[string]string
			mustDecodeJSON(t, w.Result(), &out)
			if out["error"] == "" {
				t.Errorf("body %s: missing error message", tc.body)
			}
		}
	}
}

func TestHandleSetPriceRejectedLeavesState(t *testing.T) {
	srv, mux := newTestServer(t)
	before := srv.ctrl.Snapshot()
	do(mux, "PUT", "/api/price", `{"price": 101}`)
	after := srv.ctrl.Snapshot()
	if after.Price != before.Price || after.Revision != before.Revision {
		t.Fatalf("rejected price changed state: %+v -> %+v", before, after)
	}
}

func TestHandleEvents(t *testing.T) {
	_, mux := newTestServer(t)
	w := do(mux, "GET", "/api/events", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var out []market.Event
	mustDecodeJSON(t, w.Result(), &out)
	if len(out) != 20 {
		t.Fatalf("expected 20 events, got %d", len(out))
	}
	if out[0].Name != "Market Crash" {
		t.Errorf("first event = %q", out[0].Name)
	}
}

func TestHandleRandomEvent(t *testing.T) {
	_, mux := newTestServer(t)
	w := do(mux, "POST", "/api/events/random", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var out struct {
		Event market.Event     `json:"event"`
		State simulation.State `json:"state"`
	}
	mustDecodeJSON(t, w.Result(), &out)
	if out.Event.ID != 1 {
		t.Fatalf("event id = %d, want 1", out.Event.ID)
	}
	if out.State.Condition.MaxDemand != 600 {
		t.Errorf("MaxDemand = %v, want 600", out.State.Condition.MaxDemand)
	}
	if out.State.CurrentEvent == nil || out.State.CurrentEvent.ID != 1 {
		t.Errorf("currentEvent = %+v", out.State.CurrentEvent)
	}
}

func TestHandleApplyEvent(t *testing.T) {
	_, mux := newTestServer(t)

	w := do(mux, "POST", "/api/events/19", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	if w := do(mux, "POST", "/api/events/99", ""); w.Code != http.StatusNotFound {
		t.Fatalf("unknown id: expected 404, got %d", w.Code)
	}
	if w := do(mux, "POST", "/api/events/abc", ""); w.Code != http.StatusBadRequest {
		t.Fatalf("bad id: expected 400, got %d", w.Code)
	}
}

func TestHandleHistoryAndReset(t *testing.T) {
	_, mux := newTestServer(t)
	do(mux, "POST", "/api/events/random", "")
	do(mux, "POST", "/api/events/4", "")

	var hist []simulation.AppliedEvent
	mustDecodeJSON(t, do(mux, "GET", "/api/events/history", "").Result(), &hist)
	if len(hist) != 2 || hist[0].Event.ID != 1 || hist[1].Event.ID != 4 {
		t.Fatalf("history = %+v", hist)
	}

	w := do(mux, "POST", "/api/reset", "")
	if w.Code != http.StatusOK {
		t.Fatalf("reset: expected 200, got %d", w.Code)
	}
	var st simulation.State
	mustDecodeJSON(t, w.Result(), &st)
	if st.Condition != market.DefaultCondition() || st.CurrentEvent != nil {
		t.Fatalf("state after reset = %+v", st)
	}

	mustDecodeJSON(t, do(mux, "GET", "/api/events/history", "").Result(), &hist)
	if len(hist) != 0 {
		t.Fatalf("history after reset has %d entries", len(hist))
	}
}

func TestHandleMaximization(t *testing.T) {
	srv, mux := newTestServer(t)

	var out map[string]any
	mustDecodeJSON(t, do(mux, "GET", "/api/maximization", "").Result(), &out)
	if out["isMaximized"] != false {
		t.Fatalf("price 50 reported maximized: %v", out)
	}
	if out["message"] != "Maximum profit can be achieved at $60.00" {
		t.Errorf("message = %v", out["message"])
	}

	do(mux, "PUT", "/api/price", `{"price": 60}`)
	mustDecodeJSON(t, do(mux, "GET", "/api/maximization", "").Result(), &out)
	if out["isMaximized"] != true || out["price"] != 60.0 {
		t.Fatalf("price 60 not maximized: %v", out)
	}
	if out["message"] != "Congratulations! Your price maximizes profit!" {
		t.Errorf("message = %v", out["message"])
	}
	if out["revision"] != float64(srv.ctrl.Snapshot().Revision) {
		t.Errorf("revision = %v, want %d", out["revision"], srv.ctrl.Snapshot().Revision)
	}
}

func TestHandleCurve(t *testing.T) {
	_, mux := newTestServer(t)

	w := do(mux, "GET", "/api/curve", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var out struct {
		Maximum engine.Maximum `json:"maximum"`
		Points  []engine.Point `json:"points"`
	}
	mustDecodeJSON(t, w.Result(), &out)
	if len(out.Points) != 81 {
		t.Fatalf("default curve has %d points, want 81 (20..100)", len(out.Points))
	}
	if out.Points[0].Price != 20 || out.Points[80].Price != 100 {
		t.Errorf("curve spans %v..%v", out.Points[0].Price, out.Points[80].Price)
	}
	if out.Maximum.Price < 59.9 || out.Maximum.Price > 60.1 {
		t.Errorf("maximum price = %v, want ~60", out.Maximum.Price)
	}

	w = do(mux, "GET", "/api/curve?from=10&to=20&step=5", "")
	mustDecodeJSON(t, w.Result(), &out)
	if len(out.Points) != 3 {
		t.Fatalf("custom curve has %d points, want 3", len(out.Points))
	}
}

func TestHandleCurveBadParams(t *testing.T) {
	_, mux := newTestServer(t)
	for _, q := range []string{"?step=0", "?from=80&to=10", "?step=abc", "?step=0.001"} {
		if w := do(mux, "GET", "/api/curve"+q, ""); w.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", q, w.Code)
		}
	}
}

func TestHandleStats(t *testing.T) {
	srv, mux := newTestServer(t)
	do(mux, "POST", "/api/events/random", "")
	do(mux, "POST", "/api/reset", "")

	var out map[string]any
	mustDecodeJSON(t, do(mux, "GET", "/api/stats", "").Result(), &out)

	for _, key := range []string{"uptime", "sessionId", "seed", "clients", "revision", "eventsApplied"} {
		if _, ok := out[key]; !ok {
			t.Errorf("missing key %q in stats JSON", key)
		}
	}
	if out["sessionId"] != srv.SessionID() {
		t.Errorf("sessionId = %v, want %s", out["sessionId"], srv.SessionID())
	}
	if out["seed"] != 42.0 || out["eventsApplied"] != 1.0 || out["historyLength"] != 0.0 {
		t.Errorf("stats = %v", out)
	}
}

func TestHandleHealth(t *testing.T) {
	_, mux := newTestServer(t)
	w := do(mux, "GET", "/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var out map[string]any
	mustDecodeJSON(t, w.Result(), &out)
	if out["status"] != "ok" {
		t.Fatalf("status = %v", out["status"])
	}
}

func TestMethodNotAllowed(t *testing.T) {
	_, mux := newTestServer(t)
	if w := do(mux, "POST", "/api/state", ""); w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("POST /api/state: expected 405, got %d", w.Code)
	}
}
