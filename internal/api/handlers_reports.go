// Observa - Media Monitoring Portal
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/observa

package api

import (
	"net/http"

	"github.com/tomtom215/observa/internal/models"
)

// ExportReport builds a report from the posted configuration and returns
// the file. Missing date range, sources or metrics answer 422 naming the
// first missing field; excel and csv answer 501.
func (h *Handler) ExportReport(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var cfg models.ReportConfig
	if err := decodeJSON(r, &cfg); err != nil {
		rw.BadRequest("Invalid JSON body")
		return
	}

	export, err := h.reports.Export(r.Context(), &cfg)
	if err != nil {
		respondServiceError(rw, err)
		return
	}
	rw.File(export.ContentType, export.Filename, export.Content)
}

// ReportSources lists the sources selectable in the report form.
func (h *Handler) ReportSources(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).List(models.ReportSources, len(models.ReportSources))
}
