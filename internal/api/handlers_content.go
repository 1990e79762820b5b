// Observa - Media Monitoring Portal
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/observa

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/observa/internal/models"
	"github.com/tomtom215/observa/internal/validation"
)

// ListContents returns content newest first, filtered by ?status= when
// given.
func (h *Handler) ListContents(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	status := models.ContentStatus(r.URL.Query().Get("status"))
	if status != "" && !status.Valid() {
		rw.Error(http.StatusBadRequest, ErrCodeInvalidStatus, "unknown status "+string(status))
		return
	}
	list, err := h.contents.List(r.Context(), status)
	if err != nil {
		rw.InternalError(err)
		return
	}
	rw.List(list, len(list))
}

// CreateContent stores a draft.
func (h *Handler) CreateContent(w http.ResponseWriter, r *http.Request) {
	h.storeContent(w, r, false)
}

// SubmitContent stores content sent for review as pending.
func (h *Handler) SubmitContent(w http.ResponseWriter, r *http.Request) {
	h.storeContent(w, r, true)
}

func (h *Handler) storeContent(w http.ResponseWriter, r *http.Request, submit bool) {
	rw := NewResponseWriter(w, r)

	var form models.ContentForm
	if err := decodeJSON(r, &form); err != nil {
		rw.BadRequest("Invalid JSON body")
		return
	}

	create := h.contents.Create
	if submit {
		create = h.contents.Submit
	}
	c, err := create(r.Context(), &form)
	if err != nil {
		respondServiceError(rw, err)
		return
	}
	rw.Created(c)
}

// GetContent returns one content record.
func (h *Handler) GetContent(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	c, err := h.contents.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(rw, err)
		return
	}
	rw.Success(c)
}

// SetContentStatus moves content to any status.
func (h *Handler) SetContentStatus(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req models.StatusUpdate
	if err := decodeJSON(r, &req); err != nil {
		rw.BadRequest("Invalid JSON body")
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		rw.ValidationError(verr)
		return
	}

	c, err := h.contents.SetStatus(r.Context(), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		respondServiceError(rw, err)
		return
	}
	rw.Success(c)
}
