// Observa - Media Monitoring Portal
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/observa

package report

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/tomtom215/observa/internal/models"
)

// metricGroupOrder is the fixed order of metric blocks inside a source
// section. Keys not listed here are ignored by the builder.
var metricGroupOrder = []string{
	models.MetricGroupPerformance,
	models.MetricGroupAlerts,
	models.MetricGroupAvailability,
}

// orderedGroups returns the recognized groups present in selected, in
// metricGroupOrder, each at most once.
func orderedGroups(selected []string) []string {
	want := make(map[string]bool, len(selected))
	for _, m := range selected {
		want[m] = true
	}
	out := make([]string, 0, len(metricGroupOrder))
	for _, g := range metricGroupOrder {
		if want[g] {
			out = append(out, g)
		}
	}
	return out
}

// Title returns the document title for a report type.
func Title(t models.ReportType) string {
	switch t {
	case models.ReportSummary:
		return "Resumo Executivo de Monitoramento"
	case models.ReportDetailed:
		return "Relatório Detalhado de Monitoramento"
	case models.ReportTechnical:
		return "Relatório Técnico de Monitoramento"
	default:
		return "Relatório de Monitoramento"
	}
}

type documentView struct {
	Title       string
	From        time.Time
	To          time.Time
	SourceCount int
	Metrics     []string
	Groups      []string
	Sources     []models.ReportData
}

// TemplateEngine renders the report HTML document.
type TemplateEngine struct {
	tmpl *template.Template
}

// NewTemplateEngine parses the report template.
func NewTemplateEngine() *TemplateEngine {
	funcs := template.FuncMap{
		"formatDate": func(t time.Time) string {
			return t.Format("02/01/2006")
		},
		"formatPercent": func(f float64) string {
			return fmt.Sprintf("%.1f%%", f)
		},
		"join": strings.Join,
	}
	return &TemplateEngine{
		tmpl: template.Must(template.New("report").Funcs(funcs).Parse(documentTemplate)),
	}
}

// RenderHTML builds the full document for data under cfg. The config must
// have passed CheckGate.
func (te *TemplateEngine) RenderHTML(data []models.ReportData, cfg *models.ReportConfig) (string, error) {
	view := documentView{
		Title:       Title(cfg.Type),
		From:        *cfg.DateRange.From,
		To:          *cfg.DateRange.To,
		SourceCount: len(data),
		Metrics:     cfg.Metrics,
		Groups:      orderedGroups(cfg.Metrics),
		Sources:     data,
	}

	var buf bytes.Buffer
	if err := te.tmpl.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("failed to execute report template: %w", err)
	}
	return buf.String(), nil
}

const documentTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>{{.Title}}</title>
<style>
body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; margin: 0; padding: 20px; }
.report { max-width: 1200px; margin: 0 auto; }
h1 { color: #1a365d; border-bottom: 2px solid #e2e8f0; padding-bottom: 10px; }
.report-info { background: #f7fafc; padding: 15px; border-radius: 8px; margin: 20px 0; }
.source { border: 1px solid #e2e8f0; border-radius: 8px; padding: 20px; margin: 20px 0; page-break-inside: avoid; }
.source h2 { color: #2d3748; margin-top: 0; }
.metrics { display: grid; grid-template-columns: repeat(auto-fit, minmax(250px, 1fr)); gap: 20px; margin-top: 15px; }
.metric { background: #fff; padding: 15px; border-radius: 6px; box-shadow: 0 1px 3px rgba(0,0,0,0.1); }
.metric h3 { color: #4a5568; margin-top: 0; }
.value { font-size: 24px; font-weight: bold; color: #2b6cb0; }
.alert { display: inline-block; padding: 4px 8px; border-radius: 4px; margin-right: 8px; }
.alert.critical { background: #fed7d7; color: #c53030; }
.alert.warning { background: #fefcbf; color: #b7791f; }
.alert.info { background: #e6fffa; color: #2c7a7b; }
</style>
</head>
<body>
<div class="report">
<h1>{{.Title}}</h1>
<div class="report-info">
<p>Período: {{formatDate .From}} a {{formatDate .To}}</p>
<p>Fontes: {{.SourceCount}}</p>
<p>Métricas: {{join .Metrics ", "}}</p>
</div>
{{- range $src := .Sources}}
<div class="source" data-source-id="{{$src.ID}}">
<h2>{{$src.Name}}</h2>
{{- range $.Groups}}
{{- if eq . "performance"}}
<div class="metrics" data-group="performance">
<div class="metric"><h3>CPU</h3><div class="value">{{formatPercent $src.Performance.CPU}}</div></div>
<div class="metric"><h3>Memória</h3><div class="value">{{formatPercent $src.Performance.Memory}}</div></div>
<div class="metric"><h3>Disco</h3><div class="value">{{formatPercent $src.Performance.Disk}}</div></div>
</div>
{{- else if eq . "alerts"}}
<div class="metrics" data-group="alerts">
<div class="metric"><h3>Alertas</h3><div>
<span class="alert critical">{{$src.Alerts.Critical}} Críticos</span>
<span class="alert warning">{{$src.Alerts.Warning}} Avisos</span>
<span class="alert info">{{$src.Alerts.Info}} Info</span>
</div></div>
</div>
{{- else if eq . "availability"}}
<div class="metrics" data-group="availability">
<div class="metric"><h3>Uptime</h3><div class="value">{{formatPercent $src.Metrics.Uptime}}</div></div>
<div class="metric"><h3>Taxa de Erro</h3><div class="value">{{formatPercent $src.Metrics.ErrorRate}}</div></div>
</div>
{{- end}}
{{- end}}
</div>
{{- end}}
</div>
</body>
</html>
`
