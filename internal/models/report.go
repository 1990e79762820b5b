// Observa - Media Monitoring Portal
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/observa

package models

import "time"

// ExportFormat is the target format of a report export.
type ExportFormat string

const (
	FormatPDF   ExportFormat = "pdf"
	FormatExcel ExportFormat = "excel"
	FormatCSV   ExportFormat = "csv"
	FormatJSON  ExportFormat = "json"
	FormatHTML  ExportFormat = "html"
)

// ReportType selects the report title and depth.
type ReportType string

const (
	ReportSummary   ReportType = "summary"
	ReportDetailed  ReportType = "detailed"
	ReportTechnical ReportType = "technical"
)

// Metric group keys recognized by the report builder.
const (
	MetricGroupPerformance  = "performance"
	MetricGroupAlerts       = "alerts"
	MetricGroupAvailability = "availability"
)

// DateRange is an inclusive reporting period.
type DateRange struct {
	From *time.Time `json:"from,omitempty"`
	To   *time.Time `json:"to,omitempty"`
}

// ReportConfig is the input of a report export.
type ReportConfig struct {
	DateRange *DateRange   `json:"dateRange,omitempty"`
	Sources   []string     `json:"sources"`
	Metrics   []string     `json:"metrics"`
	Format    ExportFormat `json:"format" validate:"required,oneof=pdf excel csv json html"`
	Type      ReportType   `json:"type,omitempty" validate:"omitempty,oneof=summary detailed technical"`
}

// ReportSource is a source selectable in the report form.
type ReportSource struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// ReportSources is the catalogue of selectable report sources.
var ReportSources = []ReportSource{
	{ID: "1", Name: "Portal de Notícias", Type: "website"},
	{ID: "2", Name: "Blog Corporativo", Type: "website"},
	{ID: "3", Name: "Redes Sociais", Type: "social"},
}

// SourceMetrics are the availability figures of one source.
type SourceMetrics struct {
	Uptime       float64 `json:"uptime"`       // percent
	ResponseTime float64 `json:"responseTime"` // milliseconds
	ErrorRate    float64 `json:"errorRate"`    // percent
	Availability float64 `json:"availability"` // percent
	SuccessRate  float64 `json:"successRate"`  // percent
}

// AlertCounts counts alerts by severity.
type AlertCounts struct {
	Critical int `json:"critical"`
	Warning  int `json:"warning"`
	Info     int `json:"info"`
}

// Performance holds resource usage percentages.
type Performance struct {
	CPU    float64 `json:"cpu"`
	Memory float64 `json:"memory"`
	Disk   float64 `json:"disk"`
}

// ContentChanges counts content seen on a source.
type ContentChanges struct {
	TotalItems int     `json:"totalItems"`
	NewItems   int     `json:"newItems"`
	Sentiment  float64 `json:"sentiment"`
}

// ReportData is the per-source input of a report.
type ReportData struct {
	ID          string         `json:"id"`
	Type        string         `json:"type"`
	Name        string         `json:"name"`
	Metrics     SourceMetrics  `json:"metrics"`
	Alerts      AlertCounts    `json:"alerts"`
	Performance Performance    `json:"performance"`
	Content     ContentChanges `json:"content"`
}
