// Observa - Media Monitoring Portal
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/observa

package report

import (
	"bytes"
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/observa/internal/cache"
	"github.com/tomtom215/observa/internal/models"
	"github.com/tomtom215/observa/internal/validation"
)

func day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func validConfig(format models.ExportFormat) *models.ReportConfig {
	return &models.ReportConfig{
		DateRange: &models.DateRange{From: day(2026, 3, 1), To: day(2026, 3, 31)},
		Sources:   []string{"1", "2"},
		Metrics:   []string{"availability", "performance"},
		Format:    format,
		Type:      models.ReportSummary,
	}
}

func sampleData() []models.ReportData {
	return []models.ReportData{
		{
			ID: "1", Type: "website", Name: "Portal de Notícias",
			Metrics:     models.SourceMetrics{Uptime: 99.9, ErrorRate: 0.4},
			Alerts:      models.AlertCounts{Critical: 1, Warning: 2, Info: 3},
			Performance: models.Performance{CPU: 42, Memory: 63.5, Disk: 71},
		},
		{ID: "2", Type: "website", Name: "Blog <Corporativo>"},
	}
}

type stubRenderer struct {
	calls atomic.Int32
	html  string
	out   []byte
	err   error
}

func (s *stubRenderer) RenderPDF(_ context.Context, html string) ([]byte, error) {
	s.calls.Add(1)
	s.html = html
	return s.out, s.err
}

func TestCheckGate_FixedOrder(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		mutate    func(*models.ReportConfig)
		wantField string
		wantMsg   string
	}{
		{"valid", func(*models.ReportConfig) {}, "", ""},
		{"all missing reports date first", func(c *models.ReportConfig) {
			c.DateRange, c.Sources, c.Metrics = nil, nil, nil
		}, "dateRange", MsgMissingDateRange},
		{"missing end date", func(c *models.ReportConfig) { c.DateRange.To = nil }, "dateRange", MsgMissingDateRange},
		{"sources and metrics missing reports sources", func(c *models.ReportConfig) {
			c.Sources, c.Metrics = nil, []string{}
		}, "sources", MsgMissingSources},
		{"only metrics missing", func(c *models.ReportConfig) { c.Metrics = nil }, "metrics", MsgMissingMetrics},
		{"unknown metric still counts as selected", func(c *models.ReportConfig) { c.Metrics = []string{"sla"} }, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := validConfig(models.FormatJSON)
			tt.mutate(cfg)
			gerr := CheckGate(cfg)
			if tt.wantField == "" {
				if gerr != nil {
					t.Fatalf("CheckGate() = %v, want nil", gerr)
				}
				return
			}
			if gerr == nil {
				t.Fatal("CheckGate() = nil, want error")
			}
			if gerr.Field != tt.wantField || gerr.Message != tt.wantMsg {
				t.Errorf("CheckGate() = %s/%q, want %s/%q", gerr.Field, gerr.Message, tt.wantField, tt.wantMsg)
			}
		})
	}
}

func TestCheckStructure(t *testing.T) {
	t.Parallel()

	cfg := validConfig(models.FormatPDF)
	if err := CheckStructure(cfg); err != nil {
		t.Fatalf("CheckStructure() = %v", err)
	}

	cfg.Format = "docx"
	var verr *validation.RequestValidationError
	if err := CheckStructure(cfg); !errors.As(err, &verr) {
		t.Errorf("unknown format: got %v, want RequestValidationError", err)
	}

	cfg = validConfig(models.FormatPDF)
	cfg.DateRange.From, cfg.DateRange.To = cfg.DateRange.To, cfg.DateRange.From
	if err := CheckStructure(cfg); err == nil || !strings.Contains(err.Error(), "before") {
		t.Errorf("reversed range: got %v", err)
	}
}

func TestOrderedGroups(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   []string
		want string
	}{
		{[]string{"availability", "alerts", "performance"}, "performance,alerts,availability"},
		{[]string{"availability", "uptime", "performance", "availability"}, "performance,availability"},
		{[]string{"response_time"}, ""},
		{nil, ""},
	}
	for _, tt := range tests {
		if got := strings.Join(orderedGroups(tt.in), ","); got != tt.want {
			t.Errorf("orderedGroups(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTitle(t *testing.T) {
	t.Parallel()

	tests := map[models.ReportType]string{
		models.ReportSummary:   "Resumo Executivo de Monitoramento",
		models.ReportDetailed:  "Relatório Detalhado de Monitoramento",
		models.ReportTechnical: "Relatório Técnico de Monitoramento",
		"":                     "Relatório de Monitoramento",
	}
	for typ, want := range tests {
		if got := Title(typ); got != want {
			t.Errorf("Title(%q) = %q, want %q", typ, got, want)
		}
	}
}

func TestRenderHTML(t *testing.T) {
	t.Parallel()

	cfg := validConfig(models.FormatHTML)
	cfg.Metrics = []string{"availability", "bogus", "performance"}
	html, err := NewTemplateEngine().RenderHTML(sampleData(), cfg)
	if err != nil {
		t.Fatalf("RenderHTML() error = %v", err)
	}

	for _, want := range []string{
		"<h1>Resumo Executivo de Monitoramento</h1>",
		"Período: 01/03/2026 a 31/03/2026",
		"Fontes: 2",
		"Métricas: availability, bogus, performance",
		"<h2>Portal de Notícias</h2>",
		"63.5%",
		"99.9%",
		"Blog &lt;Corporativo&gt;",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("HTML missing %q", want)
		}
	}
	if strings.Contains(html, `data-group="alerts"`) {
		t.Error("alerts block rendered without being selected")
	}
	if strings.Count(html, `class="source"`) != 2 {
		t.Errorf("want 2 source sections, got %d", strings.Count(html, `class="source"`))
	}

	// Within the first section, performance precedes availability even
	// though availability was selected first.
	first := html[strings.Index(html, `data-source-id="1"`):strings.Index(html, `data-source-id="2"`)]
	perf := strings.Index(first, `data-group="performance"`)
	avail := strings.Index(first, `data-group="availability"`)
	if perf < 0 || avail < 0 || perf > avail {
		t.Errorf("group order wrong: performance at %d, availability at %d", perf, avail)
	}
}

func TestBuild_JSON(t *testing.T) {
	t.Parallel()

	b := NewBuilder(nil)
	cfg := validConfig(models.FormatJSON)
	callTime := time.Now().UTC().Truncate(time.Second)

	doc, err := b.Build(context.Background(), sampleData(), cfg)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if doc.ContentType != "application/json" {
		t.Errorf("ContentType = %q", doc.ContentType)
	}
	if !bytes.Contains(doc.Content, []byte("\n  \"config\": {")) {
		t.Errorf("output is not indented with two spaces:\n%s", doc.Content)
	}

	var decoded map[string]json.RawMessage
	if err := json.Unmarshal(doc.Content, &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	wantCfg, _ := json.Marshal(cfg)
	var gotCfg bytes.Buffer
	if err := json.Compact(&gotCfg, decoded["config"]); err != nil {
		t.Fatal(err)
	}
	if gotCfg.String() != string(wantCfg) {
		t.Errorf("config not verbatim:\n got %s\nwant %s", gotCfg.String(), wantCfg)
	}

	var generatedAt time.Time
	if err := json.Unmarshal(decoded["generatedAt"], &generatedAt); err != nil {
		t.Fatalf("generatedAt: %v", err)
	}
	if generatedAt.Before(callTime) {
		t.Errorf("generatedAt %v is before call time %v", generatedAt, callTime)
	}

	var data []models.ReportData
	if err := json.Unmarshal(decoded["data"], &data); err != nil || len(data) != 2 {
		t.Errorf("data = %v (err %v), want 2 records", data, err)
	}
}

func TestBuild_JSONEmptyData(t *testing.T) {
	t.Parallel()

	doc, err := NewBuilder(nil).Build(context.Background(), nil, validConfig(models.FormatJSON))
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if !bytes.Contains(doc.Content, []byte(`"data": []`)) {
		t.Errorf("empty data should encode as [], got:\n%s", doc.Content)
	}
}

func TestBuild_NotImplemented(t *testing.T) {
	t.Parallel()

	r := &stubRenderer{}
	b := NewBuilder(r)
	for _, f := range []models.ExportFormat{models.FormatExcel, models.FormatCSV} {
		doc, err := b.Build(context.Background(), sampleData(), validConfig(f))
		if !errors.Is(err, ErrNotImplemented) {
			t.Errorf("%s: err = %v, want ErrNotImplemented", f, err)
		}
		if doc != nil {
			t.Errorf("%s: produced partial output", f)
		}
	}
	if r.calls.Load() != 0 {
		t.Error("renderer must not be called for unimplemented formats")
	}
}

func TestBuild_PDF(t *testing.T) {
	t.Parallel()

	r := &stubRenderer{out: []byte("%PDF-1.7")}
	doc, err := NewBuilder(r).Build(context.Background(), sampleData(), validConfig(models.FormatPDF))
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if string(doc.Content) != "%PDF-1.7" || doc.ContentType != "application/pdf" {
		t.Errorf("doc = %q (%s)", doc.Content, doc.ContentType)
	}
	if !strings.Contains(r.html, "<h2>Portal de Notícias</h2>") {
		t.Error("renderer did not receive the report HTML")
	}
}

func TestBuild_PDFRenderFailure(t *testing.T) {
	t.Parallel()

	launchErr := errors.New("chromium: no usable sandbox")
	r := &stubRenderer{err: launchErr}
	_, err := NewBuilder(r).Build(context.Background(), sampleData(), validConfig(models.FormatPDF))
	if !errors.Is(err, ErrRenderFailed) || !errors.Is(err, launchErr) {
		t.Errorf("err = %v, want ErrRenderFailed wrapping launch error", err)
	}
	if r.calls.Load() != 1 {
		t.Errorf("renderer called %d times, want exactly 1", r.calls.Load())
	}

	if _, err := NewBuilder(nil).Build(context.Background(), sampleData(), validConfig(models.FormatPDF)); !errors.Is(err, ErrRenderFailed) {
		t.Errorf("nil renderer: err = %v, want ErrRenderFailed", err)
	}
}

func TestGuardedRenderer_OpensAfterFailures(t *testing.T) {
	t.Parallel()

	inner := &stubRenderer{err: errors.New("launch failed")}
	g := NewGuardedRenderer(inner, GuardConfig{
		LaunchesPerSecond: 1000,
		Burst:             10,
		MaxFailures:       2,
		OpenTimeout:       time.Hour,
	})

	for i := 0; i < 4; i++ {
		if _, err := g.RenderPDF(context.Background(), "<html></html>"); !errors.Is(err, ErrRenderFailed) {
			t.Fatalf("attempt %d: err = %v, want ErrRenderFailed", i, err)
		}
	}
	if got := inner.calls.Load(); got != 2 {
		t.Errorf("inner renderer called %d times, want 2 before the breaker opened", got)
	}
}

func TestGuardedRenderer_Success(t *testing.T) {
	t.Parallel()

	g := NewGuardedRenderer(&stubRenderer{out: []byte("pdf")}, GuardConfig{})
	out, err := g.RenderPDF(context.Background(), "<html></html>")
	if err != nil || string(out) != "pdf" {
		t.Errorf("RenderPDF() = %q, %v", out, err)
	}
}

func TestGuardedRenderer_CanceledWhileWaiting(t *testing.T) {
	t.Parallel()

	inner := &stubRenderer{out: []byte("pdf")}
	g := NewGuardedRenderer(inner, GuardConfig{LaunchesPerSecond: 0.001, Burst: 1})
	if _, err := g.RenderPDF(context.Background(), ""); err != nil {
		t.Fatalf("first render: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := g.RenderPDF(ctx, ""); !errors.Is(err, ErrRenderFailed) {
		t.Errorf("err = %v, want ErrRenderFailed", err)
	}
	if inner.calls.Load() != 1 {
		t.Errorf("inner called %d times, want 1", inner.calls.Load())
	}
}

func TestSyntheticSource(t *testing.T) {
	t.Parallel()

	src := NewSyntheticSource(rand.New(rand.NewPCG(1, 2)))
	data, err := src.ReportData(context.Background(), []string{"3", "1", "99"}, models.DateRange{})
	if err != nil {
		t.Fatal(err)
	}
	if len(data) != 3 {
		t.Fatalf("got %d records, want 3", len(data))
	}
	wantNames := []string{"Redes Sociais", "Portal de Notícias", "Fonte 99"}
	for i, d := range data {
		if d.Name != wantNames[i] {
			t.Errorf("data[%d].Name = %q, want %q", i, d.Name, wantNames[i])
		}
		if d.Metrics.Uptime < 98 || d.Metrics.Uptime > 100 {
			t.Errorf("data[%d].Uptime = %v out of range", i, d.Metrics.Uptime)
		}
		if d.Alerts.Critical < 0 || d.Alerts.Critical > 2 {
			t.Errorf("data[%d].Critical = %d out of range", i, d.Alerts.Critical)
		}
	}

	again, _ := NewSyntheticSource(rand.New(rand.NewPCG(1, 2))).ReportData(context.Background(), []string{"3", "1", "99"}, models.DateRange{})
	if again[0].Performance != data[0].Performance {
		t.Error("same seed should give the same figures")
	}
}

func TestService_Export(t *testing.T) {
	t.Parallel()

	svc := NewService(NewBuilder(&stubRenderer{out: []byte("%PDF")}), NewSyntheticSource(rand.New(rand.NewPCG(7, 7))))

	exp, err := svc.Export(context.Background(), validConfig(models.FormatPDF))
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if exp.Filename != "relatorio-summary-20260301-20260331.pdf" {
		t.Errorf("Filename = %q", exp.Filename)
	}

	cfg := validConfig(models.FormatJSON)
	cfg.Sources = nil
	var gerr *GateError
	if _, err := svc.Export(context.Background(), cfg); !errors.As(err, &gerr) || gerr.Field != "sources" {
		t.Errorf("missing sources: err = %v", err)
	}

	if _, err := svc.Export(context.Background(), validConfig(models.FormatExcel)); !errors.Is(err, ErrNotImplemented) {
		t.Errorf("excel: err = %v, want ErrNotImplemented", err)
	}
}

type failingSource struct{}

func (failingSource) ReportData(context.Context, []string, models.DateRange) ([]models.ReportData, error) {
	return nil, errors.New("pipeline unavailable")
}

func TestService_SourceFailure(t *testing.T) {
	t.Parallel()

	svc := NewService(NewBuilder(nil), failingSource{})
	_, err := svc.Export(context.Background(), validConfig(models.FormatJSON))
	if err == nil || !strings.Contains(err.Error(), "pipeline unavailable") {
		t.Errorf("err = %v", err)
	}
}

type countingSource struct {
	calls atomic.Int32
	inner DataSource
}

func (c *countingSource) ReportData(ctx context.Context, ids []string, p models.DateRange) ([]models.ReportData, error) {
	c.calls.Add(1)
	return c.inner.ReportData(ctx, ids, p)
}

func TestCachedSource(t *testing.T) {
	t.Parallel()

	inner := &countingSource{inner: NewSyntheticSource(rand.New(rand.NewPCG(3, 4)))}
	src := NewCachedSource(inner, cache.New[[]models.ReportData](time.Minute))
	ctx := context.Background()
	march := models.DateRange{From: day(2026, time.March, 1), To: day(2026, time.March, 31)}

	first, err := src.ReportData(ctx, []string{"1", "2"}, march)
	if err != nil {
		t.Fatal(err)
	}
	first[0].Name = "mutated"

	second, _ := src.ReportData(ctx, []string{"1", "2"}, march)
	if inner.calls.Load() != 1 {
		t.Errorf("inner calls = %d, want 1", inner.calls.Load())
	}
	if second[0].Name == "mutated" {
		t.Error("cached data was mutated through a returned slice")
	}

	april := models.DateRange{From: day(2026, time.April, 1), To: day(2026, time.April, 30)}
	if _, err := src.ReportData(ctx, []string{"1", "2"}, april); err != nil {
		t.Fatal(err)
	}
	if inner.calls.Load() != 2 {
		t.Errorf("inner calls = %d, want 2 after a new period", inner.calls.Load())
	}
}

func TestCachedSource_ErrorsNotCached(t *testing.T) {
	t.Parallel()

	c := cache.New[[]models.ReportData](time.Minute)
	src := NewCachedSource(failingSource{}, c)
	if _, err := src.ReportData(context.Background(), []string{"1"}, models.DateRange{}); err == nil {
		t.Fatal("expected error")
	}
	if c.Stats().TotalKeys != 0 {
		t.Error("failed lookup was cached")
	}
}
