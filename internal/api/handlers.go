// Package api exposes the correspondence register over HTTP.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Veraticus/moti-registry/internal/model"
	"github.com/Veraticus/moti-registry/internal/registry"
)

// maxBodyBytes caps request bodies; entries are a handful of short fields.
const maxBodyBytes = 64 << 10

// Service is the register behaviour the API needs. *registry.Registry
// implements it.
type Service interface {
	Dashboard(ctx context.Context) (registry.Summary, model.Table, error)
	Submit(ctx context.Context, entry model.Entry) (model.Correspondence, error)
	Search(ctx context.Context, query string) (model.Table, error)
	UpdateStatus(ctx context.Context, refID string, status model.Status) (model.Correspondence, error)
}

// Handler serves the register endpoints.
type Handler struct {
	service Service
	logger  *slog.Logger
	now     func() time.Time
}

// NewHandler creates a Handler.
func NewHandler(service Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		service: service,
		logger:  logger.With("component", "api"),
		now:     time.Now,
	}
}

// Dashboard handles GET /api/v1/dashboard.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	summary, table, err := h.service.Dashboard(r.Context())
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dashboardResponse{
		Summary: toSummary(summary),
		Records: toRecords(table),
	})
}

// Submit handles POST /api/v1/correspondence.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var req entryRequest
	if err := decodeBody(w, r, &req); err != nil {
		validationError(w, err.Error())
		return
	}

	entry, err := h.parseEntry(req)
	if err != nil {
		validationError(w, err.Error())
		return
	}

	rec, err := h.service.Submit(r.Context(), entry)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	w.Header().Set("Location", "/api/v1/correspondence/search?q="+rec.RefID)
	writeJSON(w, http.StatusCreated, submitResponse{RefID: rec.RefID, Record: toRecord(rec)})
}

// Search handles GET /api/v1/correspondence/search?q=.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if strings.TrimSpace(query) == "" {
		validationError(w, "query parameter q is required")
		return
	}

	matches, err := h.service.Search(r.Context(), query)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, searchResponse{Count: len(matches), Records: toRecords(matches)})
}

// UpdateStatus handles PATCH /api/v1/correspondence/{refID}/status.
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	refID := chi.URLParam(r, "refID")

	var req statusRequest
	if err := decodeBody(w, r, &req); err != nil {
		validationError(w, err.Error())
		return
	}

	status, err := model.ParseUpdateStatus(req.Status)
	if err != nil {
		validationError(w, err.Error())
		return
	}

	rec, err := h.service.UpdateStatus(r.Context(), refID, status)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toRecord(rec))
}

// Health handles GET /healthz.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": h.now().UTC().Format(time.RFC3339),
	})
}

// parseEntry validates the enum fields. Free text is taken as is.
func (h *Handler) parseEntry(req entryRequest) (model.Entry, error) {
	received := model.CivilDate(h.now())
	if strings.TrimSpace(req.DateReceived) != "" {
		d, err := model.ParseInputDate(req.DateReceived)
		if err != nil {
			return model.Entry{}, fmt.Errorf("date_received: %w", err)
		}
		received = d
	}

	corrType, err := model.ParseType(req.Type)
	if err != nil {
		return model.Entry{}, fmt.Errorf("type: %w", err)
	}
	classification, err := model.ParseClassification(req.Classification)
	if err != nil {
		return model.Entry{}, fmt.Errorf("classification: %w", err)
	}

	return model.Entry{
		DateReceived:   received,
		Type:           corrType,
		Classification: classification,
		Sender:         req.Sender,
		Subject:        req.Subject,
		AssignedTo:     req.AssignedTo,
	}, nil
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}
