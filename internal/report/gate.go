// Observa - Media Monitoring Portal
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/observa

package report

import (
	"fmt"

	"github.com/tomtom215/observa/internal/models"
	"github.com/tomtom215/observa/internal/validation"
)

// Gate messages, in check order.
const (
	MsgMissingDateRange = "Selecione um período para o relatório"
	MsgMissingSources   = "Selecione ao menos uma fonte"
	MsgMissingMetrics   = "Selecione ao menos uma métrica"
)

// CheckGate runs the export pre-checks in fixed order: date range, then
// sources, then metrics. It returns on the first failure and never
// evaluates later checks.
func CheckGate(cfg *models.ReportConfig) *GateError {
	if cfg.DateRange == nil || cfg.DateRange.From == nil || cfg.DateRange.To == nil {
		return &GateError{Field: "dateRange", Message: MsgMissingDateRange}
	}
	if len(cfg.Sources) == 0 {
		return &GateError{Field: "sources", Message: MsgMissingSources}
	}
	if len(cfg.Metrics) == 0 {
		return &GateError{Field: "metrics", Message: MsgMissingMetrics}
	}
	return nil
}

// CheckStructure validates the enums and the date order of a config that
// already passed the gate.
func CheckStructure(cfg *models.ReportConfig) error {
	if verr := validation.ValidateStruct(cfg); verr != nil {
		return verr
	}
	if cfg.DateRange.To.Before(*cfg.DateRange.From) {
		return fmt.Errorf("%w: dateRange.to %s is before dateRange.from %s", ErrInvalidDateRange,
			cfg.DateRange.To.Format("2006-01-02"), cfg.DateRange.From.Format("2006-01-02"))
	}
	return nil
}
