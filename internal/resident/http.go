package resident

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// maxUploadBytes caps CSV uploads at 10 MB.
const maxUploadBytes = 10 << 20

// Handler exposes the registry endpoints.
type Handler struct {
	service *Service
}

// NewHandler creates the handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// HandleCreate serves POST /residents.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var res Resident
	if err := json.NewDecoder(r.Body).Decode(&res); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "invalid JSON", nil)
		return
	}

	saved, err := h.service.Create(r.Context(), res)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"message": "Resident saved successfully",
		"id":      saved.ID,
	})
}

// HandleList serves GET /residents.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	residents, err := h.service.List(r.Context())
	if err != nil {
		writeInternalError(w, err)
		return
	}
	if residents == nil {
		residents = []Resident{}
	}
	writeJSON(w, http.StatusOK, residents)
}

// HandleUpdate serves PUT /residents/{id}, where id is the storage id.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	recordID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "NOT_FOUND", ErrNotFound.Error(), nil)
		return
	}

	var res Resident
	if err := json.NewDecoder(r.Body).Decode(&res); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "invalid JSON", nil)
		return
	}

	updated, err := h.service.Update(r.Context(), recordID, res)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":  "Resident updated successfully",
		"resident": updated,
	})
}

// HandleDelete serves DELETE /residents/{id}; public id first, storage id as
// fallback.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	deletedID, err := h.service.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message":   "Resident deleted successfully",
		"deletedId": deletedID,
	})
}

// HandleUploadCSV serves POST /residents/upload-csv (multipart field "file").
func (h *Handler) HandleUploadCSV(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "file is required", nil)
		return
	}
	defer file.Close()

	result, err := h.service.Import(r.Context(), file)
	if err != nil {
		writeInternalError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message":      "CSV file processed successfully",
		"savedCount":   result.SavedCount,
		"skippedCount": result.SkippedCount,
		"errorCount":   result.ErrorCount,
		"residents":    result.Residents,
	})
}

func handleDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", err.Error(), nil)
	case errors.Is(err, ErrMissingFields), errors.Is(err, ErrDuplicateID):
		writeError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
	default:
		writeInternalError(w, err)
	}
}

func writeInternalError(w http.ResponseWriter, err error) {
	log.Error().Err(err).Msg("resident handler failure")
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
