// Observa - Media Monitoring Portal
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/observa

package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/observa/internal/logging"
	"github.com/tomtom215/observa/internal/metrics"
	"github.com/tomtom215/observa/internal/models"
)

// Export is a finished report file.
type Export struct {
	Content     []byte
	ContentType string
	Filename    string
}

// Service runs the export flow: gate, data lookup, build.
type Service struct {
	builder *Builder
	source  DataSource
}

// NewService creates a report service.
func NewService(builder *Builder, source DataSource) *Service {
	return &Service{builder: builder, source: source}
}

// Export validates cfg and builds the report. Errors are *GateError,
// *validation.RequestValidationError, ErrNotImplemented, ErrRenderFailed
// or a data source failure.
func (s *Service) Export(ctx context.Context, cfg *models.ReportConfig) (*Export, error) {
	format := string(cfg.Format)
	log := logging.Ctx(ctx).With().Str("component", "report").Str("format", format).Logger()

	if gerr := CheckGate(cfg); gerr != nil {
		metrics.RecordReportExport(format, "rejected", 0)
		return nil, gerr
	}
	if err := CheckStructure(cfg); err != nil {
		metrics.RecordReportExport(format, "rejected", 0)
		return nil, err
	}

	// Unimplemented formats fail before any data is fetched.
	if cfg.Format == models.FormatExcel || cfg.Format == models.FormatCSV {
		metrics.RecordReportExport(format, "not_implemented", 0)
		return nil, fmt.Errorf("%w: %s", ErrNotImplemented, cfg.Format)
	}

	start := time.Now()
	data, err := s.source.ReportData(ctx, cfg.Sources, *cfg.DateRange)
	if err != nil {
		metrics.RecordReportExport(format, "failed", 0)
		return nil, fmt.Errorf("failed to load report data: %w", err)
	}

	doc, err := s.builder.Build(ctx, data, cfg)
	if err != nil {
		metrics.RecordReportExport(format, "failed", 0)
		if errors.Is(err, ErrRenderFailed) {
			log.Error().Err(err).Int("sources", len(data)).Msg("PDF rendering failed")
		}
		return nil, err
	}

	elapsed := time.Since(start)
	metrics.RecordReportExport(format, "success", elapsed)
	log.Info().Int("sources", len(data)).Int("bytes", len(doc.Content)).Dur("duration", elapsed).Msg("Report exported")

	return &Export{
		Content:     doc.Content,
		ContentType: doc.ContentType,
		Filename:    filename(cfg, doc.Extension),
	}, nil
}

func filename(cfg *models.ReportConfig, ext string) string {
	typ := string(cfg.Type)
	if typ == "" {
		typ = "geral"
	}
	return fmt.Sprintf("relatorio-%s-%s-%s.%s", typ,
		cfg.DateRange.From.Format("20060102"), cfg.DateRange.To.Format("20060102"), ext)
}
