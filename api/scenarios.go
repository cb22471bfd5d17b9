/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:
  Replaces the ledger with a pre-built household so the balance views have
  something to show. Every scenario is built through the same ledger
  transitions a user would trigger.

AVAILABLE SCENARIOS:
  household: owner + friend, one shared and one personal item, owner pays
  roommates: three roommates, mixed payers, one archived session

USAGE VIA API:
  POST /api/scenarios/load
  {"scenario_id": "roommates"}

NOTE:
  Loading a scenario discards the current ledger. Only use in
  development/demo environments.
*/
package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"
	"github.com/warp/split-ledger/ledger"
)

var scenarios = []ScenarioDTO{
	{
		ID:          "household",
		Name:        "Household",
		Description: "Owner and a friend; one shared and one personal item, owner pays",
	},
	{
		ID:          "roommates",
		Name:        "Roommates",
		Description: "Three roommates with mixed payers and one archived session",
	},
}

// ListScenarios returns the available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the currently loaded scenario, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	current := h.scenario()
	for _, s := range scenarios {
		if s.ID == current {
			writeJSON(w, http.StatusOK, s)
			return
		}
	}
	writeJSON(w, http.StatusOK, nil)
}

// LoadScenario replaces the ledger with a predefined scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	var build func(ledger.State) (ledger.State, error)
	switch req.ScenarioID {
	case "household":
		build = h.buildHousehold
	case "roommates":
		build = h.buildRoommates
	default:
		writeError(w, http.StatusBadRequest, "Unknown scenario", fmt.Errorf("scenario %q", req.ScenarioID))
		return
	}

	_, err := h.Keeper.Apply(r.Context(), "load_scenario:"+req.ScenarioID, func(s ledger.State) (ledger.State, error) {
		owner, err := s.Participant(s.OwnerID())
		if err != nil {
			return ledger.State{}, err
		}
		return build(ledger.ResetAll(owner.Name))
	})
	if err != nil {
		writeLedgerError(w, "Failed to load scenario", err)
		return
	}
	h.setScenario(req.ScenarioID)

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "scenario": req.ScenarioID})
}

func (h *Handler) scenario() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.currentScenario
}

func (h *Handler) setScenario(id string) {
	h.mu.Lock()
	h.currentScenario = id
	h.mu.Unlock()
}

func (h *Handler) buildHousehold(s ledger.State) (ledger.State, error) {
	s, friend, err := h.Engine.AddParticipant(s, ledger.ParticipantDraft{Name: "Friend", Emoji: "🧑"})
	if err != nil {
		return ledger.State{}, err
	}
	owner := s.OwnerID()

	s, _, err = h.Engine.AddItem(s, ledger.ItemDraft{
		Name:       "Groceries",
		Price:      decimal.NewFromInt(100),
		Type:       ledger.ItemShared,
		AssignedTo: []ledger.ParticipantID{owner, friend.ID},
	})
	if err != nil {
		return ledger.State{}, err
	}
	s, _, err = h.Engine.AddItem(s, ledger.ItemDraft{
		Name:       "Coffee beans",
		Price:      decimal.NewFromInt(40),
		Type:       ledger.ItemPersonal,
		AssignedTo: []ledger.ParticipantID{friend.ID},
	})
	return s, err
}

func (h *Handler) buildRoommates(s ledger.State) (ledger.State, error) {
	s, alex, err := h.Engine.AddParticipant(s, ledger.ParticipantDraft{Name: "Alex", Emoji: "🦊"})
	if err != nil {
		return ledger.State{}, err
	}
	s, sam, err := h.Engine.AddParticipant(s, ledger.ParticipantDraft{Name: "Sam", Emoji: "🐼"})
	if err != nil {
		return ledger.State{}, err
	}
	owner := s.OwnerID()
	everyone := []ledger.ParticipantID{owner, alex.ID, sam.ID}

	drafts := []ledger.ItemDraft{
		{Name: "Rent share", Price: decimal.NewFromInt(900), Type: ledger.ItemShared, AssignedTo: everyone},
		{Name: "Internet", Price: decimal.NewFromInt(60), Type: ledger.ItemShared, AssignedTo: everyone, PaidBy: alex.ID},
	}
	for _, d := range drafts {
		if s, _, err = h.Engine.AddItem(s, d); err != nil {
			return ledger.State{}, err
		}
	}
	s = h.Engine.Archive(s)

	drafts = []ledger.ItemDraft{
		{Name: "Pizza night", Price: decimal.NewFromInt(45), Type: ledger.ItemShared, AssignedTo: everyone, PaidBy: sam.ID},
		{Name: "Gym pass", Price: decimal.NewFromInt(30), Type: ledger.ItemPersonal, AssignedTo: []ledger.ParticipantID{alex.ID}},
	}
	for _, d := range drafts {
		if s, _, err = h.Engine.AddItem(s, d); err != nil {
			return ledger.State{}, err
		}
	}
	return s, nil
}
