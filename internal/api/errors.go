// Observa - Media Monitoring Portal
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/observa

package api

import (
	"errors"
	"net/http"

	"github.com/tomtom215/observa/internal/content"
	"github.com/tomtom215/observa/internal/monitoring"
	"github.com/tomtom215/observa/internal/report"
	"github.com/tomtom215/observa/internal/validation"
)

// Error codes for API responses
const (
	ErrCodeBadRequest         = "BAD_REQUEST"
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeForbidden          = "FORBIDDEN"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeTooManyRequests    = "TOO_MANY_REQUESTS"
	ErrCodeInternalError      = "INTERNAL_ERROR"
	ErrCodeNotImplemented     = "NOT_IMPLEMENTED"
	ErrCodeRenderFailed       = "RENDER_FAILED"
	ErrCodeReportIncomplete   = "REPORT_INCOMPLETE"
	ErrCodeInvalidStatus      = "INVALID_STATUS"
	ErrCodeInvalidCategory    = "INVALID_CATEGORY"
	ErrCodeSessionRequired    = "SESSION_REQUIRED"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
)

// respondServiceError maps errors returned by the domain services to an
// envelope. Unknown errors become a logged 500.
func respondServiceError(rw *ResponseWriter, err error) {
	var (
		verr *validation.RequestValidationError
		gerr *report.GateError
	)
	switch {
	case errors.As(err, &verr):
		rw.ValidationError(verr)
	case errors.As(err, &gerr):
		rw.ErrorWithDetails(http.StatusUnprocessableEntity, ErrCodeReportIncomplete, gerr.Message,
			map[string]string{"field": gerr.Field})
	case errors.Is(err, report.ErrNotImplemented):
		rw.Error(http.StatusNotImplemented, ErrCodeNotImplemented, "Formato de exportação ainda não implementado")
	case errors.Is(err, report.ErrRenderFailed):
		rw.Error(http.StatusBadGateway, ErrCodeRenderFailed, "Falha ao gerar o PDF")
	case errors.Is(err, report.ErrUnknownFormat), errors.Is(err, report.ErrInvalidDateRange):
		rw.BadRequest(err.Error())
	case errors.Is(err, monitoring.ErrNotFound), errors.Is(err, content.ErrNotFound):
		rw.NotFound("Registro não encontrado")
	case errors.Is(err, content.ErrInvalidStatus):
		rw.Error(http.StatusBadRequest, ErrCodeInvalidStatus, err.Error())
	case errors.Is(err, monitoring.ErrInvalidCategory):
		rw.Error(http.StatusBadRequest, ErrCodeInvalidCategory, err.Error())
	default:
		rw.InternalError(err)
	}
}
