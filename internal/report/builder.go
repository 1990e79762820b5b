// Observa - Media Monitoring Portal
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/observa

// Package report builds monitoring report documents.
//
// A report is one HTML document with a title, the reporting period, the
// source count and one section per source. Each section carries a block
// per selected metric group, always in the order performance, alerts,
// availability. Unrecognized group keys are ignored.
//
// The document is exported as:
//   - pdf: printed by a PDFRenderer (A4, 20mm margins)
//   - html: the document itself
//   - json: {config, data, generatedAt}, indented two spaces
//   - excel, csv: ErrNotImplemented, with no output
//
// Nothing is cached; every Build recomputes the document.
package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/observa/internal/models"
)

// Document is a built report ready to send.
type Document struct {
	Content     []byte
	ContentType string
	Extension   string
}

// Builder turns report data into an exportable document.
type Builder struct {
	engine   *TemplateEngine
	renderer PDFRenderer
	now      func() time.Time
}

// NewBuilder creates a builder. renderer may be nil, in which case pdf
// exports fail with ErrRenderFailed.
func NewBuilder(renderer PDFRenderer) *Builder {
	return &Builder{
		engine:   NewTemplateEngine(),
		renderer: renderer,
		now:      time.Now,
	}
}

// jsonExport is the shape of a json export.
type jsonExport struct {
	Config      *models.ReportConfig `json:"config"`
	Data        []models.ReportData  `json:"data"`
	GeneratedAt time.Time            `json:"generatedAt"`
}

// Build produces the document for cfg.Format. The config must have passed
// CheckGate.
func (b *Builder) Build(ctx context.Context, data []models.ReportData, cfg *models.ReportConfig) (*Document, error) {
	switch cfg.Format {
	case models.FormatExcel, models.FormatCSV:
		return nil, fmt.Errorf("%w: %s", ErrNotImplemented, cfg.Format)
	case models.FormatJSON:
		return b.buildJSON(data, cfg)
	case models.FormatHTML:
		html, err := b.engine.RenderHTML(data, cfg)
		if err != nil {
			return nil, err
		}
		return &Document{Content: []byte(html), ContentType: "text/html; charset=utf-8", Extension: "html"}, nil
	case models.FormatPDF:
		return b.buildPDF(ctx, data, cfg)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, cfg.Format)
	}
}

func (b *Builder) buildJSON(data []models.ReportData, cfg *models.ReportConfig) (*Document, error) {
	if data == nil {
		data = []models.ReportData{}
	}
	out, err := json.MarshalIndent(jsonExport{
		Config:      cfg,
		Data:        data,
		GeneratedAt: b.now().UTC(),
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode json report: %w", err)
	}
	return &Document{Content: out, ContentType: "application/json", Extension: "json"}, nil
}

func (b *Builder) buildPDF(ctx context.Context, data []models.ReportData, cfg *models.ReportConfig) (*Document, error) {
	if b.renderer == nil {
		return nil, fmt.Errorf("%w: no renderer configured", ErrRenderFailed)
	}
	html, err := b.engine.RenderHTML(data, cfg)
	if err != nil {
		return nil, err
	}
	pdf, err := b.renderer.RenderPDF(ctx, html)
	if err != nil {
		if errors.Is(err, ErrRenderFailed) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrRenderFailed, err)
	}
	return &Document{Content: pdf, ContentType: "application/pdf", Extension: "pdf"}, nil
}
