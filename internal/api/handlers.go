package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/ndrandal/price-simulator/internal/engine"
	"github.com/ndrandal/price-simulator/internal/market"
	"github.com/ndrandal/price-simulator/internal/simulation"
)

type stateResponse struct {
	simulation.State
	Summary string `json:"summary"`
}

func (s *Server) stateJSON(st simulation.State) stateResponse {
	return stateResponse{
		State:   st,
		Summary: s.printer.Summary(st.Price, st.Demand, st.Profit),
	}
}

// handleState returns the current snapshot.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.stateJSON(s.ctrl.Snapshot()))
}

type priceRequest struct {
	Price *float64 `json:"price"`
}

// handleSetPrice sets the user's price. Prices outside [1, 100] are rejected.
func (s *Server) handleSetPrice(w http.ResponseWriter, r *http.Request) {
	var req priceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body: "+err.Error())
		return
	}
	if req.Price == nil {
		writeError(w, http.StatusBadRequest, "price is required")
		return
	}
	if !market.PriceInRange(*req.Price) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("price must be between %g and %g", market.PriceMin, market.PriceMax))
		return
	}

	writeJSON(w, http.StatusOK, s.stateJSON(s.ctrl.SetPrice(*req.Price)))
}

// handleEvents returns the event catalog.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.ctrl.Events())
}

// handleHistory returns the events applied since the last reset.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.ctrl.History())
}

type eventResponse struct {
	Event market.Event  `json:"event"`
	State stateResponse `json:"state"`
}

// handleRandomEvent triggers a uniformly chosen event.
func (s *Server) handleRandomEvent(w http.ResponseWriter, r *http.Request) {
	ev, st := s.ctrl.TriggerRandomEvent()
	writeJSON(w, http.StatusOK, eventResponse{Event: ev, State: s.stateJSON(st)})
}

// handleApplyEvent applies a catalog event by id.
func (s *Server) handleApplyEvent(w http.ResponseWriter, r *http.Request) {
	raw := r.PathValue("id")
	id, err := strconv.Atoi(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid event id: "+raw)
		return
	}

	ev, st, err := s.ctrl.ApplyEvent(id)
	if errors.Is(err, simulation.ErrUnknownEvent) {
		writeError(w, http.StatusNotFound, fmt.Sprintf("event not found: %d", id))
		return
	}
	writeJSON(w, http.StatusOK, eventResponse{Event: ev, State: s.stateJSON(st)})
}

// handleReset restores the default market condition.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.stateJSON(s.ctrl.ResetMarket()))
}

type maximizationResponse struct {
	simulation.Check
	Message string `json:"message"`
}

// handleMaximization compares the current price with the profit-maximizing one.
func (s *Server) handleMaximization(w http.ResponseWriter, r *http.Request) {
	chk := s.ctrl.CheckProfitMaximization()
	writeJSON(w, http.StatusOK, maximizationResponse{
		Check:   chk,
		Message: s.printer.Verdict(chk.IsMaximized, chk.MaxPrice),
	})
}

type curveResponse struct {
	Condition market.Condition `json:"marketCondition"`
	Maximum   engine.Maximum   `json:"maximum"`
	Points    []engine.Point   `json:"points"`
}

// handleCurve samples demand and profit across a price range.
// Defaults: from the unit cost to the search ceiling in steps of 1.
func (s *Server) handleCurve(w http.ResponseWriter, r *http.Request) {
	cond := s.ctrl.Snapshot().Condition

	from, err := parseFloatParam(r, "from", cond.CostPerUnit)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	to, err := parseFloatParam(r, "to", market.SearchCeiling)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	step, err := parseFloatParam(r, "step", 1)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	pts, err := engine.Curve(cond, from, to, step)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, curveResponse{
		Condition: cond,
		Maximum:   engine.FindMaximumProfit(cond),
		Points:    pts,
	})
}

type statsResponse struct {
	Uptime        string `json:"uptime"`
	SessionID     string `json:"sessionId"`
	Seed          int64  `json:"seed"`
	Clients       int    `json:"clients"`
	Dropped       uint64 `json:"dropped"`
	Revision      uint64 `json:"revision"`
	EventsApplied uint64 `json:"eventsApplied"`
	HistoryLength int    `json:"historyLength"`
}

// handleStats returns runtime statistics.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	resp := statsResponse{
		Uptime:        time.Since(s.startAt).Truncate(time.Second).String(),
		SessionID:     s.sessionID,
		Seed:          s.seed,
		Revision:      s.ctrl.Snapshot().Revision,
		EventsApplied: s.ctrl.EventsApplied(),
		HistoryLength: len(s.ctrl.History()),
	}
	if s.mgr != nil {
		resp.Clients = s.mgr.ClientCount()
		resp.Dropped = s.mgr.Dropped()
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleHealth is a liveness probe.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"sessionId": s.sessionID,
		"uptime":    time.Since(s.startAt).Truncate(time.Second).String(),
	})
}
