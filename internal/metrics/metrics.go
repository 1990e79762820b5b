// Observa - Media Monitoring Portal
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/observa

// Package metrics defines the Prometheus collectors exported on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "observa_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "observa_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "observa_api_active_requests",
			Help: "Number of API requests currently being served",
		},
	)

	// Report Metrics
	ReportExportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "observa_report_exports_total",
			Help: "Total number of report exports by format and outcome",
		},
		[]string{"format", "outcome"}, // outcome: success, rejected, not_implemented, failed
	)

	ReportBuildDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "observa_report_build_duration_seconds",
			Help:    "Time to build a report document, including PDF rendering",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"format"},
	)

	// PDF renderer circuit breaker (0 = closed, 1 = half-open, 2 = open)
	RendererBreakerState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "observa_pdf_renderer_breaker_state",
			Help: "PDF renderer circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
	)

	// Auth Metrics
	LoginAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "observa_login_attempts_total",
			Help: "Total number of login attempts by outcome",
		},
		[]string{"outcome"}, // success, failure
	)

	SessionsExpiredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "observa_sessions_expired_total",
			Help: "Sessions cleared by the validity check",
		},
	)

	SessionChecksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "observa_session_check_runs_total",
			Help: "Background session validity sweeps",
		},
	)

	// Authorization Metrics
	RouteDecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "observa_route_decisions_total",
			Help: "Route table decisions by outcome",
		},
		[]string{"outcome"}, // allowed, login, unauthorized, not_found
	)

	// Repository Metrics
	MonitoringItems = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "observa_monitoring_items",
			Help: "Number of registered monitoring items",
		},
	)

	ContentStatusChangesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "observa_content_status_changes_total",
			Help: "Content status changes by target status",
		},
		[]string{"status"},
	)
)

// RecordAPIRequest records a finished API request.
func RecordAPIRequest(method, route, status string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, status).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// TrackActiveRequest increments or decrements the in-flight gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordReportExport records an export attempt. Duration is only observed
// for successful builds.
func RecordReportExport(format, outcome string, duration time.Duration) {
	ReportExportsTotal.WithLabelValues(format, outcome).Inc()
	if outcome == "success" {
		ReportBuildDuration.WithLabelValues(format).Observe(duration.Seconds())
	}
}

// RecordLoginAttempt records a login attempt.
func RecordLoginAttempt(success bool) {
	if success {
		LoginAttemptsTotal.WithLabelValues("success").Inc()
		return
	}
	LoginAttemptsTotal.WithLabelValues("failure").Inc()
}

// RecordSessionSweep records one background sweep and the sessions it cleared.
func RecordSessionSweep(expired int) {
	SessionChecksTotal.Inc()
	SessionsExpiredTotal.Add(float64(expired))
}

// RecordRouteDecision records one route table decision.
func RecordRouteDecision(outcome string) {
	RouteDecisionsTotal.WithLabelValues(outcome).Inc()
}
