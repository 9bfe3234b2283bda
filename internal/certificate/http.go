package certificate

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// Handler exposes the issuance endpoints.
type Handler struct {
	service *Service
}

// NewHandler creates the handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// HandleGenerate serves POST /certificates.
func (h *Handler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	var input GenerateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "invalid JSON", nil)
		return
	}

	cert, err := h.service.Generate(r.Context(), input)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, cert)
}

// HandleListRecent serves GET /certificates.
func (h *Handler) HandleListRecent(w http.ResponseWriter, r *http.Request) {
	certs, err := h.service.ListRecent(r.Context())
	if err != nil {
		writeInternalError(w, err)
		return
	}
	if certs == nil {
		certs = []Certificate{}
	}
	writeJSON(w, http.StatusOK, certs)
}

// HandleSearch serves GET /certificates/search?query=.
func (h *Handler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("query"))
	if query == "" {
		writeError(w, http.StatusBadRequest, "VALIDATION", "Search query required", nil)
		return
	}

	certs, err := h.service.Search(r.Context(), query)
	if err != nil {
		writeInternalError(w, err)
		return
	}
	if certs == nil {
		certs = []Certificate{}
	}
	writeJSON(w, http.StatusOK, certs)
}

// HandleGet serves GET /certificates/{id}; id may be a storage id or a
// control number.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	cert, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cert)
}

// HandleListByResident serves GET /certificates/resident/{residentId}.
func (h *Handler) HandleListByResident(w http.ResponseWriter, r *http.Request) {
	certs, err := h.service.ListByResident(r.Context(), chi.URLParam(r, "residentId"))
	if err != nil {
		writeInternalError(w, err)
		return
	}
	if certs == nil {
		certs = []Certificate{}
	}
	writeJSON(w, http.StatusOK, certs)
}

func handleDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrResidentNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", err.Error(), nil)
	case errors.Is(err, ErrInvalidType), errors.Is(err, ErrMissingFields):
		writeError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
	case errors.Is(err, ErrControlNumberTaken):
		writeError(w, http.StatusConflict, "CONFLICT", err.Error(), nil)
	default:
		writeInternalError(w, err)
	}
}

func writeInternalError(w http.ResponseWriter, err error) {
	log.Error().Err(err).Msg("certificate handler failure")
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
