package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/cole-vita-unc/CheekyWebScraper/internal/models"
	"github.com/cole-vita-unc/CheekyWebScraper/internal/storage"
)

// ExtractService runs a full extraction for one page URL.
type ExtractService interface {
	ExtractURL(ctx context.Context, url string) (*models.Result, error)
}

type Handlers struct {
	service ExtractService
	store   *storage.ResultStore
	logger  *slog.Logger
}

func NewHandlers(service ExtractService, store *storage.ResultStore, logger *slog.Logger) *Handlers {
	return &Handlers{
		service: service,
		store:   store,
		logger:  logger,
	}
}

// ExtractRequest asks for one product page to be processed.
type ExtractRequest struct {
	URL string `json:"url"`
}

// Extract handles synchronous extraction requests.
func (h *Handlers) Extract(w http.ResponseWriter, r *http.Request) {
	var req ExtractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if !validPageURL(req.URL) {
		h.respondError(w, http.StatusBadRequest, "a valid http(s) url is required")
		return
	}

	result, err := h.service.ExtractURL(r.Context(), req.URL)
	if err != nil {
		h.logger.Error("extraction request failed", "error", err, "url", req.URL)
		h.respondError(w, http.StatusInternalServerError, "extraction failed")
		return
	}

	h.respondJSON(w, http.StatusOK, result)
}

// GetRecord returns the stored result for a URL given as the "url" query
// parameter.
func (h *Handlers) GetRecord(w http.ResponseWriter, r *http.Request) {
	pageURL := r.URL.Query().Get("url")
	if pageURL == "" {
		h.respondError(w, http.StatusBadRequest, "url query parameter is required")
		return
	}

	result, ok := h.store.Get(pageURL)
	if !ok {
		h.respondError(w, http.StatusNotFound, "no record for url")
		return
	}

	h.respondJSON(w, http.StatusOK, result)
}

// ListRecords returns every stored result.
func (h *Handlers) ListRecords(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, h.store.List())
}

// GetStats returns result counts by status.
func (h *Handlers) GetStats(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, h.store.Stats())
}

func (h *Handlers) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handlers) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}

func validPageURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
