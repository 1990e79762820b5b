// Observa - Media Monitoring Portal
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/observa

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/observa/internal/models"
)

// CategoryRequest is the payload for adding a category.
type CategoryRequest struct {
	Name string `json:"name"`
}

// ListMonitorings returns all monitoring items in creation order.
func (h *Handler) ListMonitorings(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	items, err := h.monitorings.List(r.Context())
	if err != nil {
		rw.InternalError(err)
		return
	}
	rw.List(items, len(items))
}

// CreateMonitoring stores a new monitoring item.
func (h *Handler) CreateMonitoring(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var form models.MonitoringForm
	if err := decodeJSON(r, &form); err != nil {
		rw.BadRequest("Invalid JSON body")
		return
	}
	item, err := h.monitorings.Create(r.Context(), &form)
	if err != nil {
		respondServiceError(rw, err)
		return
	}
	rw.Created(item)
}

// DeleteMonitoring removes a monitoring item.
func (h *Handler) DeleteMonitoring(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	id := chi.URLParam(r, "id")
	if err := h.monitorings.Delete(r.Context(), id); err != nil {
		respondServiceError(rw, err)
		return
	}
	rw.Success(map[string]string{"id": id})
}

// MonitoringAnalysis returns the per-theme analysis of all items.
func (h *Handler) MonitoringAnalysis(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	items, err := h.monitorings.List(r.Context())
	if err != nil {
		rw.InternalError(err)
		return
	}
	themes := h.analyzer.Analyze(items)
	rw.List(themes, len(themes))
}

// ListCategories returns the categories offered to a client type.
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	ct, err := models.ParseClientType(chi.URLParam(r, "clientType"))
	if err != nil {
		rw.BadRequest(err.Error())
		return
	}
	list, err := h.monitorings.Categories(r.Context(), ct)
	if err != nil {
		respondServiceError(rw, err)
		return
	}
	rw.List(list, len(list))
}

// AddCategory adds a category for a client type and returns the new list.
func (h *Handler) AddCategory(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	ct, err := models.ParseClientType(chi.URLParam(r, "clientType"))
	if err != nil {
		rw.BadRequest(err.Error())
		return
	}

	var req CategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		rw.BadRequest("Invalid JSON body")
		return
	}
	list, err := h.monitorings.AddCategory(r.Context(), ct, req.Name)
	if err != nil {
		respondServiceError(rw, err)
		return
	}
	rw.List(list, len(list))
}
