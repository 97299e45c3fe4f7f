// Package handlers exposes the JSON API driving the match stats screen.
// Every mutation endpoint resolves the caller's session, applies the event
// to its view state, and answers with the updated state so the page can
// re-render. Realtime pushes (the highlight banner) go out over SSE.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/statlive/matchview-ui/internal/clickhouse"
	"github.com/statlive/matchview-ui/internal/content"
	"github.com/statlive/matchview-ui/internal/dal"
	"github.com/statlive/matchview-ui/internal/logger"
	"github.com/statlive/matchview-ui/internal/models"
	"github.com/statlive/matchview-ui/internal/pubsub"
	"github.com/statlive/matchview-ui/internal/session"
	"github.com/statlive/matchview-ui/internal/viewstate"
)

// APIHandlers contains all API handler methods
type APIHandlers struct {
	dal       dal.MatchDAL
	sessions  *session.Manager
	pubsub    *pubsub.PubSub
	analytics *clickhouse.Client // nil outside production
}

// NewAPIHandlers creates a new API handlers instance
func NewAPIHandlers(d dal.MatchDAL, sessions *session.Manager, ps *pubsub.PubSub, analytics *clickhouse.Client) *APIHandlers {
	return &APIHandlers{
		dal:       d,
		sessions:  sessions,
		pubsub:    ps,
		analytics: analytics,
	}
}

// stateResponse is the screen state returned by every endpoint that
// changes it
type stateResponse struct {
	Match          *models.MatchData   `json:"match"`
	View           viewstate.ViewState `json:"view"`
	BetSlipVisible bool                `json:"betSlipVisible"`
}

func (h *APIHandlers) writeState(w http.ResponseWriter, sess *session.Session) {
	match, err := h.dal.DefaultMatch()
	if err != nil {
		logger.Error("Failed to load match", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	view := sess.Snapshot()
	resp := stateResponse{
		Match:          match,
		View:           view,
		BetSlipVisible: view.BetSlipVisible(),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// record stores an interaction in the analytics sink. Nil client (dev) is
// a no-op inside RecordViewEvent; failures are logged, never surfaced.
func (h *APIHandlers) record(sess *session.Session, eventType, stat, side string) {
	if err := h.analytics.RecordViewEvent(context.Background(), sess.ID, eventType, stat, side); err != nil {
		logger.Warn("Failed to record view event", "error", err, "event_type", eventType)
	}
}

// GetMatchState returns the match data and the caller's current view state
func (h *APIHandlers) GetMatchState(w http.ResponseWriter, r *http.Request) {
	sess := h.sessions.Get(w, r)
	h.writeState(w, sess)
}

// SelectTab switches the session between the stats and odds panels
func (h *APIHandlers) SelectTab(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Tab string `json:"tab"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	sess := h.sessions.Get(w, r)
	err := sess.WithView(func(v *viewstate.ViewState) error {
		return v.SelectTab(viewstate.Tab(req.Tab))
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.record(sess, "tab:select", req.Tab, "")
	h.writeState(w, sess)
}

// ExpandStat opens the detail explainer for one statistic
func (h *APIHandlers) ExpandStat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Stat string `json:"stat"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	match, err := h.dal.DefaultMatch()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	key := models.StatKey(req.Stat)
	if _, ok := match.Stats[key]; !ok {
		http.Error(w, fmt.Sprintf("unknown statistic %q", req.Stat), http.StatusBadRequest)
		return
	}

	sess := h.sessions.Get(w, r)
	sess.WithView(func(v *viewstate.ViewState) error {
		v.ExpandStat(key)
		return nil
	})

	h.record(sess, "stat:expand", req.Stat, "")
	h.writeState(w, sess)
}

// CollapseStat closes the statistic explainer
func (h *APIHandlers) CollapseStat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sess := h.sessions.Get(w, r)
	sess.WithView(func(v *viewstate.ViewState) error {
		v.CollapseStat()
		return nil
	})
	h.writeState(w, sess)
}

// ToggleBet adds or removes a (statistic, side) selection. Suspended
// markets answer 409 and leave the selection list untouched.
func (h *APIHandlers) ToggleBet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Stat string `json:"stat"`
		Side string `json:"type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("Failed to decode bet toggle request", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	match, err := h.dal.DefaultMatch()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	sess := h.sessions.Get(w, r)
	var selected bool
	err = sess.WithView(func(v *viewstate.ViewState) error {
		var terr error
		selected, terr = v.ToggleSelection(match, models.StatKey(req.Stat), models.Side(req.Side))
		return terr
	})
	if err != nil {
		if errors.Is(err, viewstate.ErrOddsSuspended) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	logger.Info("Bet toggled", "session", sess.ID, "stat", req.Stat, "side", req.Side, "selected", selected)
	h.pubsub.Publish(pubsub.Event{
		Type:    "bets:toggle",
		Session: sess.ID,
		Payload: map[string]interface{}{
			"stat":     req.Stat,
			"type":     req.Side,
			"selected": selected,
		},
	})
	h.record(sess, "bets:toggle", req.Stat, req.Side)
	h.writeState(w, sess)
}

// CloseBetSlip dismisses the slip without clearing its selections
func (h *APIHandlers) CloseBetSlip(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sess := h.sessions.Get(w, r)
	sess.WithView(func(v *viewstate.ViewState) error {
		v.CloseBetSlip()
		return nil
	})
	h.writeState(w, sess)
}

// PlaceBet acknowledges the slip's selections. No wager is transmitted
// anywhere; the screen is presentational.
func (h *APIHandlers) PlaceBet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sess := h.sessions.Get(w, r)
	view := sess.Snapshot()
	if len(view.Selections) == 0 {
		http.Error(w, "no selections", http.StatusBadRequest)
		return
	}

	logger.Info("Bet placed", "session", sess.ID, "selections", len(view.Selections))
	h.pubsub.Publish(pubsub.Event{
		Type:    "bets:place",
		Session: sess.ID,
		Payload: map[string]interface{}{
			"count": len(view.Selections),
		},
	})
	h.record(sess, "bets:place", "", "")

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}

// OpenModal opens one of the standalone explainer overlays
func (h *APIHandlers) OpenModal(w http.ResponseWriter, r *http.Request) {
	h.modal(w, r, true)
}

// CloseModal closes one of the standalone explainer overlays
func (h *APIHandlers) CloseModal(w http.ResponseWriter, r *http.Request) {
	h.modal(w, r, false)
}

func (h *APIHandlers) modal(w http.ResponseWriter, r *http.Request, open bool) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Modal string `json:"modal"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	sess := h.sessions.Get(w, r)
	err := sess.WithView(func(v *viewstate.ViewState) error {
		if open {
			return v.OpenModal(viewstate.Modal(req.Modal))
		}
		return v.CloseModal(viewstate.Modal(req.Modal))
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if open {
		h.record(sess, "modal:open", req.Modal, "")
	}
	h.writeState(w, sess)
}

// ToggleSection expands or collapses a methodology sub-section
func (h *APIHandlers) ToggleSection(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Section string `json:"section"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	sess := h.sessions.Get(w, r)
	err := sess.WithView(func(v *viewstate.ViewState) error {
		return v.ToggleSection(viewstate.Section(req.Section))
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.writeState(w, sess)
}

// OpenReference opens the citation popover. Unknown reference ids answer
// 404 and change nothing.
func (h *APIHandlers) OpenReference(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		ID int `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if _, ok := content.LookupReference(req.ID); !ok {
		http.Error(w, fmt.Sprintf("unknown reference %d", req.ID), http.StatusNotFound)
		return
	}

	sess := h.sessions.Get(w, r)
	sess.WithView(func(v *viewstate.ViewState) error {
		v.OpenReference(req.ID)
		return nil
	})
	h.record(sess, "reference:open", fmt.Sprintf("%d", req.ID), "")
	h.writeState(w, sess)
}

// CloseReference closes the citation popover, leaving the explainer under
// it open
func (h *APIHandlers) CloseReference(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sess := h.sessions.Get(w, r)
	sess.WithView(func(v *viewstate.ViewState) error {
		v.CloseReference()
		return nil
	})
	h.writeState(w, sess)
}

// AnchorVisibility reports whether the in-flow call-to-action button is
// inside the viewport; the floating duplicate shows when it is not
func (h *APIHandlers) AnchorVisibility(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Visible bool `json:"visible"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	sess := h.sessions.Get(w, r)
	sess.WithView(func(v *viewstate.ViewState) error {
		v.SetAnchorVisible(req.Visible)
		return nil
	})
	h.writeState(w, sess)
}

// Leave ends the caller's session, stopping its banner timers. The page
// sends this via sendBeacon on unload.
func (h *APIHandlers) Leave(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	cookie, err := r.Cookie(session.CookieName)
	if err != nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	h.sessions.End(cookie.Value)
	w.WriteHeader(http.StatusNoContent)
}

// EventsSSE provides Server-Sent Events for realtime updates. Only events
// addressed to the caller's session (or broadcast) are forwarded.
func (h *APIHandlers) EventsSSE(w http.ResponseWriter, r *http.Request) {
	sess := h.sessions.Get(w, r)

	// Set headers for SSE
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	eventChan := h.pubsub.Subscribe()
	defer h.pubsub.Unsubscribe(eventChan)

	// Send initial connection message
	fmt.Fprintf(w, "data: {\"type\":\"connected\"}\n\n")
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}

	for {
		select {
		case event, ok := <-eventChan:
			if !ok {
				return
			}
			if event.Session != "" && event.Session != sess.ID {
				continue
			}
			data, _ := json.Marshal(event)
			fmt.Fprintf(w, "data: %s\n\n", data)
			if f, ok := w.(http.Flusher); ok {
				f.Flush()
			}
		case <-r.Context().Done():
			logger.Debug("SSE client disconnected", "session", sess.ID)
			return
		case <-time.After(30 * time.Second):
			// Send keepalive ping
			fmt.Fprintf(w, ": keepalive\n\n")
			if f, ok := w.(http.Flusher); ok {
				f.Flush()
			}
		}
	}
}
