package request

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Handler exposes the request-workflow endpoints.
type Handler struct {
	service *Service
}

// NewHandler creates the handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// HandleCreate serves POST /requests.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var input CreateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "invalid JSON", nil)
		return
	}

	req, err := h.service.Create(r.Context(), input)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Certificate request submitted successfully",
		"request": req,
	})
}

// HandleList serves GET /requests?status=.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	requests, err := h.service.List(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		writeInternalError(w, err)
		return
	}
	if requests == nil {
		requests = []Request{}
	}
	writeJSON(w, http.StatusOK, requests)
}

// HandleGet serves GET /requests/{id}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "NOT_FOUND", ErrNotFound.Error(), nil)
		return
	}

	req, err := h.service.Get(r.Context(), id)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, req)
}

// HandleUpdate serves PUT /requests/{id}.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "NOT_FOUND", ErrNotFound.Error(), nil)
		return
	}

	var input UpdateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "invalid JSON", nil)
		return
	}

	req, err := h.service.Update(r.Context(), id, input)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Request " + req.Status + " successfully",
		"request": req,
	})
}

// HandleApprove serves PUT /requests/{id}/approve.
func (h *Handler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	h.handleAction(w, r, h.service.Approve, "Request approved successfully")
}

// HandleReject serves PUT /requests/{id}/reject.
func (h *Handler) HandleReject(w http.ResponseWriter, r *http.Request) {
	h.handleAction(w, r, h.service.Reject, "Request rejected successfully")
}

func (h *Handler) handleAction(
	w http.ResponseWriter,
	r *http.Request,
	action func(ctx context.Context, id uuid.UUID, actionBy string) (Request, error),
	message string,
) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "NOT_FOUND", ErrNotFound.Error(), nil)
		return
	}

	var payload struct {
		ActionBy string `json:"actionBy"`
	}
	// The body is optional; decoding failures just fall back to the default
	// actor.
	_ = json.NewDecoder(r.Body).Decode(&payload)

	req, err := action(r.Context(), id, payload.ActionBy)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": message,
		"request": req,
	})
}

// HandleDelete serves DELETE /requests/{id}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "NOT_FOUND", ErrNotFound.Error(), nil)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Request deleted successfully"})
}

func handleDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", err.Error(), nil)
	case errors.Is(err, ErrMissingFields), errors.Is(err, ErrInvalidType), errors.Is(err, ErrInvalidStatus):
		writeError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
	case errors.Is(err, ErrAlreadyActioned):
		writeError(w, http.StatusConflict, "CONFLICT", err.Error(), nil)
	default:
		writeInternalError(w, err)
	}
}

func writeInternalError(w http.ResponseWriter, err error) {
	log.Error().Err(err).Msg("request handler failure")
	writeError(w, http.StatusInternalServerError, "INTERNAL", "Server error", nil)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"data": data, "error": nil})
}

func writeError(w http.ResponseWriter, status int, code, message string, details any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"data": nil,
		"error": map[string]any{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}
