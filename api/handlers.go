/*
handlers.go - HTTP API handlers for the split ledger

PURPOSE:
  Exposes the ledger engine via REST API. Handles HTTP request/response and
  JSON serialization, and delegates every read and write to the Keeper.

ENDPOINTS:
  State:
    GET    /api/state                   Raw persisted snapshot
    GET    /api/balances                Balance cards (net position, debts)
    GET    /api/summary                 Session breakdown table

  People:
    GET    /api/people                  List participants
    POST   /api/people                  Add participant
    DELETE /api/people/{id}             Remove participant
    GET    /api/people/{id}/balance     Single balance card
    POST   /api/people/{id}/settle      Clear dues
    DELETE /api/people/{id}/history     Clear activity history

  Items:
    GET    /api/items                   Open session items
    POST   /api/items                   Add item
    PUT    /api/items/{id}              Replace item
    DELETE /api/items/{id}              Delete item

  Session:
    POST   /api/archive                 Archive session, carry balances
    GET    /api/reports                 Archived reports (newest first)
    DELETE /api/reports/{id}            Delete report
    POST   /api/reset                   Wipe everything

REQUEST FLOW:
  1. Parse HTTP request
  2. Build a ledger transition
  3. Keeper.Apply (load, transition, save)
  4. Serialize response

ERROR HANDLING:
  - 400: Invalid body, invalid item/participant
  - 404: Unknown participant, item, report
  - 409: Write conflict, settling an already settled participant
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo scenario loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/warp/split-ledger/ledger"
)

var errAlreadySettled = errors.New("participant is already settled")

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Keeper   *ledger.Keeper
	Engine   *ledger.Engine
	Currency string

	// Track currently loaded scenario
	mu              sync.RWMutex
	currentScenario string
}

// NewHandler creates a new handler over the given keeper.
func NewHandler(keeper *ledger.Keeper, engine *ledger.Engine, currency string) *Handler {
	return &Handler{Keeper: keeper, Engine: engine, Currency: currency}
}

// =============================================================================
// STATE HANDLERS
// =============================================================================

// GetState returns the raw ledger snapshot.
func (h *Handler) GetState(w http.ResponseWriter, r *http.Request) {
	state, err := h.Keeper.Current(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load ledger", err)
		return
	}
	data, err := ledger.Encode(state)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to encode ledger", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// GetBalances returns one balance card per participant.
func (h *Handler) GetBalances(w http.ResponseWriter, r *http.Request) {
	state, err := h.Keeper.Current(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load ledger", err)
		return
	}

	views := ledger.ComputeBalances(state)
	dtos := make([]BalanceDTO, len(views))
	for i, v := range views {
		dtos[i] = toBalanceDTO(v, h.Currency)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetSummary returns the session breakdown table.
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	state, err := h.Keeper.Current(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load ledger", err)
		return
	}
	writeJSON(w, http.StatusOK, toSummaryDTO(ledger.Summary(state), h.Currency))
}

// =============================================================================
// PEOPLE HANDLERS
// =============================================================================

// ListPeople returns all participants.
func (h *Handler) ListPeople(w http.ResponseWriter, r *http.Request) {
	state, err := h.Keeper.Current(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load ledger", err)
		return
	}
	dtos := make([]PersonDTO, len(state.People))
	for i, p := range state.People {
		dtos[i] = toPersonDTO(p)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreatePerson adds a participant.
func (h *Handler) CreatePerson(w http.ResponseWriter, r *http.Request) {
	var req CreatePersonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	var added ledger.Participant
	_, err := h.Keeper.Apply(r.Context(), "add_participant", func(s ledger.State) (ledger.State, error) {
		next, p, err := h.Engine.AddParticipant(s, ledger.ParticipantDraft{Name: req.Name, Emoji: req.Emoji})
		added = p
		return next, err
	})
	if err != nil {
		writeLedgerError(w, "Failed to add person", err)
		return
	}
	writeJSON(w, http.StatusCreated, toPersonDTO(added))
}

// DeletePerson removes a participant. Their carried balance is dropped.
func (h *Handler) DeletePerson(w http.ResponseWriter, r *http.Request) {
	id := ledger.ParticipantID(chi.URLParam(r, "id"))
	_, err := h.Keeper.Apply(r.Context(), "remove_participant", func(s ledger.State) (ledger.State, error) {
		return ledger.RemoveParticipant(s, id)
	})
	if err != nil {
		writeLedgerError(w, "Failed to remove person", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetBalance returns the balance card for one participant.
func (h *Handler) GetBalance(w http.ResponseWriter, r *http.Request) {
	id := ledger.ParticipantID(chi.URLParam(r, "id"))
	state, err := h.Keeper.Current(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load ledger", err)
		return
	}
	view, err := ledger.BalanceOf(state, id)
	if err != nil {
		writeLedgerError(w, "Failed to get balance", err)
		return
	}
	writeJSON(w, http.StatusOK, toBalanceDTO(view, h.Currency))
}

// SettlePerson clears a participant's dues. Settling a participant whose
// position is already within the settle threshold is refused.
func (h *Handler) SettlePerson(w http.ResponseWriter, r *http.Request) {
	id := ledger.ParticipantID(chi.URLParam(r, "id"))
	state, err := h.Keeper.Apply(r.Context(), "settle", func(s ledger.State) (ledger.State, error) {
		view, err := ledger.BalanceOf(s, id)
		if err != nil {
			return ledger.State{}, err
		}
		if view.Settled() {
			return ledger.State{}, errAlreadySettled
		}
		return h.Engine.Settle(s, id)
	})
	if err != nil {
		writeLedgerError(w, "Failed to settle", err)
		return
	}
	view, err := ledger.BalanceOf(state, id)
	if err != nil {
		writeLedgerError(w, "Failed to get balance", err)
		return
	}
	writeJSON(w, http.StatusOK, toBalanceDTO(view, h.Currency))
}

// ClearHistory wipes a participant's activity records.
func (h *Handler) ClearHistory(w http.ResponseWriter, r *http.Request) {
	id := ledger.ParticipantID(chi.URLParam(r, "id"))
	_, err := h.Keeper.Apply(r.Context(), "clear_history", func(s ledger.State) (ledger.State, error) {
		return ledger.ClearHistory(s, id)
	})
	if err != nil {
		writeLedgerError(w, "Failed to clear history", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// ITEM HANDLERS
// =============================================================================

// ListItems returns the open session's items.
func (h *Handler) ListItems(w http.ResponseWriter, r *http.Request) {
	state, err := h.Keeper.Current(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load ledger", err)
		return
	}
	owner := state.OwnerID()
	dtos := make([]ItemDTO, len(state.Items))
	for i, item := range state.Items {
		dtos[i] = toItemDTO(item, item.PayerOr(owner))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateItem adds an item to the open session.
func (h *Handler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var req ItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	var (
		added ledger.Item
		owner ledger.ParticipantID
	)
	_, err := h.Keeper.Apply(r.Context(), "add_item", func(s ledger.State) (ledger.State, error) {
		next, item, err := h.Engine.AddItem(s, req.toDraft())
		added, owner = item, s.OwnerID()
		return next, err
	})
	if err != nil {
		writeLedgerError(w, "Failed to add item", err)
		return
	}
	writeJSON(w, http.StatusCreated, toItemDTO(added, added.PayerOr(owner)))
}

// UpdateItem replaces an open item.
func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id := ledger.ItemID(chi.URLParam(r, "id"))
	var req ItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	state, err := h.Keeper.Apply(r.Context(), "update_item", func(s ledger.State) (ledger.State, error) {
		return ledger.UpdateItem(s, id, req.toDraft())
	})
	if err != nil {
		writeLedgerError(w, "Failed to update item", err)
		return
	}
	for _, item := range state.Items {
		if item.ID == id {
			writeJSON(w, http.StatusOK, toItemDTO(item, item.PayerOr(state.OwnerID())))
			return
		}
	}
	writeError(w, http.StatusNotFound, "Item not found", nil)
}

// DeleteItem removes an open item.
func (h *Handler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id := ledger.ItemID(chi.URLParam(r, "id"))
	_, err := h.Keeper.Apply(r.Context(), "delete_item", func(s ledger.State) (ledger.State, error) {
		return ledger.DeleteItem(s, id)
	})
	if err != nil {
		writeLedgerError(w, "Failed to delete item", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// SESSION HANDLERS
// =============================================================================

// Archive closes the open session and returns the new report.
func (h *Handler) Archive(w http.ResponseWriter, r *http.Request) {
	state, err := h.Keeper.Apply(r.Context(), "archive", func(s ledger.State) (ledger.State, error) {
		return h.Engine.Archive(s), nil
	})
	if err != nil {
		writeLedgerError(w, "Failed to archive session", err)
		return
	}
	report := state.Reports[len(state.Reports)-1]
	writeJSON(w, http.StatusCreated, toReportDTO(ledger.ReportBreakdown(report), h.Currency))
}

// ListReports returns archived reports, newest first.
func (h *Handler) ListReports(w http.ResponseWriter, r *http.Request) {
	state, err := h.Keeper.Current(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load ledger", err)
		return
	}
	dtos := make([]ReportDTO, 0, len(state.Reports))
	for i := len(state.Reports) - 1; i >= 0; i-- {
		dtos = append(dtos, toReportDTO(ledger.ReportBreakdown(state.Reports[i]), h.Currency))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// DeleteReport removes an archived report.
func (h *Handler) DeleteReport(w http.ResponseWriter, r *http.Request) {
	id := ledger.ReportID(chi.URLParam(r, "id"))
	_, err := h.Keeper.Apply(r.Context(), "delete_report", func(s ledger.State) (ledger.State, error) {
		return ledger.DeleteReport(s, id)
	})
	if err != nil {
		writeLedgerError(w, "Failed to delete report", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Reset wipes the ledger back to the owner alone.
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	if _, err := h.Keeper.Reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset ledger", err)
		return
	}
	h.setScenario("")
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeLedgerError maps ledger errors onto HTTP statuses.
func writeLedgerError(w http.ResponseWriter, message string, err error) {
	switch {
	case ledger.IsNotFound(err):
		writeError(w, http.StatusNotFound, message, err)
	case ledger.IsClientError(err):
		writeError(w, http.StatusBadRequest, message, err)
	case ledger.IsRetryable(err), errors.Is(err, errAlreadySettled):
		writeError(w, http.StatusConflict, message, err)
	default:
		writeError(w, http.StatusInternalServerError, message, err)
	}
}
