// Observa - Media Monitoring Portal
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/observa

package report

import "errors"

var (
	// ErrNotImplemented is returned for declared formats that have no
	// exporter (excel, csv). No partial output is produced.
	ErrNotImplemented = errors.New("report: export format not implemented")

	// ErrRenderFailed wraps any failure of the PDF rendering engine,
	// including launch failures and an open circuit breaker.
	ErrRenderFailed = errors.New("report: pdf rendering failed")

	// ErrInvalidDateRange is returned when the range ends before it starts.
	ErrInvalidDateRange = errors.New("report: invalid date range")

	// ErrUnknownFormat is returned for formats outside the declared set.
	ErrUnknownFormat = errors.New("report: unknown export format")
)

// GateError reports the first missing field found by the export gate.
type GateError struct {
	// Field is "dateRange", "sources" or "metrics".
	Field string
	// Message is the user-facing notification text.
	Message string
}

func (e *GateError) Error() string {
	return "report: " + e.Field + ": " + e.Message
}
