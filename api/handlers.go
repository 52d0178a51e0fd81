/*
handlers.go - HTTP handlers for the accounting rule engine

PURPOSE:
  Exposes the engine's operation surface via REST. Handles HTTP
  request/response, JSON serialization, and delegates to the engine.
  The broader back office (rule CRUD, booking sync, report screens) lives
  elsewhere; this surface is the operational trigger for accounting runs.

ENDPOINTS:
  POST /api/engine/run                Run for explicit booking IDs
  POST /api/engine/run-all            Run for all unprocessed bookings
  GET  /api/engine/unprocessed/count  Count of never-submitted bookings
  POST /api/engine/processed          Filter IDs down to processed ones
  GET  /api/rules                     Read-only rule listing

ERROR HANDLING:
  Fatal engine errors map to HTTP status codes; per-item errors ride inside
  the 200 response body so callers can render partial-success messages:
  - 400: Invalid request body / empty ID list
  - 422: No usable acting identity
  - 500: Store failures

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/lodgebooks/autoledger/ledger"
)

// =============================================================================
// HANDLER
// =============================================================================

// Handler holds the dependencies for the HTTP surface.
type Handler struct {
	Engine *ledger.Engine
	Rules  ledger.RuleStore
}

func NewHandler(engine *ledger.Engine, rules ledger.RuleStore) *Handler {
	return &Handler{Engine: engine, Rules: rules}
}

// =============================================================================
// ENGINE HANDLERS
// =============================================================================

// Run derives ledger entries for an explicit list of booking IDs.
func (h *Handler) Run(w http.ResponseWriter, r *http.Request) {
	var req RunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if len(req.BookingIDs) == 0 {
		writeError(w, http.StatusBadRequest, "bookingIds must not be empty", nil)
		return
	}

	result, err := h.Engine.RunForBookings(r.Context(), req.BookingIDs, req.AccountantID)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRunResponse(result))
}

// RunAll derives ledger entries for every unprocessed booking.
func (h *Handler) RunAll(w http.ResponseWriter, r *http.Request) {
	var req RunAllRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body", err)
			return
		}
	}

	result, err := h.Engine.RunForAllUnprocessed(r.Context(), req.AccountantID)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRunResponse(result))
}

// UnprocessedCount returns how many bookings have never been submitted.
func (h *Handler) UnprocessedCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.Engine.UnprocessedCount(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to count unprocessed bookings", err)
		return
	}
	writeJSON(w, http.StatusOK, UnprocessedCountResponse{Count: count})
}

// Processed filters the given IDs down to those already marked done.
func (h *Handler) Processed(w http.ResponseWriter, r *http.Request) {
	var req ProcessedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	ids, err := h.Engine.Processed(r.Context(), req.BookingIDs)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to query processed bookings", err)
		return
	}
	if ids == nil {
		ids = []int64{}
	}
	writeJSON(w, http.StatusOK, ProcessedResponse{BookingIDs: ids})
}

// =============================================================================
// RULE HANDLERS (read-only; rule CRUD is the back office's job)
// =============================================================================

// ListRules returns every rule in evaluation order.
func (h *Handler) ListRules(w http.ResponseWriter, r *http.Request) {
	rules, err := h.Rules.ListRules(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list rules", err)
		return
	}

	dtos := make([]RuleDTO, len(rules))
	for i, rule := range rules {
		dtos[i] = toRuleDTO(rule)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeEngineError(w http.ResponseWriter, err error) {
	if errors.Is(err, ledger.ErrNoActingIdentity) {
		writeError(w, http.StatusUnprocessableEntity, "No usable acting identity", err)
		return
	}
	writeError(w, http.StatusInternalServerError, "Engine run failed", err)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
