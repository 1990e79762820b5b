// Observa - Media Monitoring Portal
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/observa

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/observa/internal/authz"
	"github.com/tomtom215/observa/internal/middleware"
)

// chiMiddleware adapts http.HandlerFunc middleware to Chi's func(http.Handler) http.Handler.
func chiMiddleware(mw func(http.HandlerFunc) http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return mw(next.ServeHTTP)
	}
}

// Router wires handlers and middleware into a chi mux.
type Router struct {
	handler       *Handler
	session       *SessionMiddleware
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a router.
func NewRouter(handler *Handler, session *SessionMiddleware, mw *ChiMiddleware) *Router {
	return &Router{handler: handler, session: session, chiMiddleware: mw}
}

// SetupChi configures all HTTP routes.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware(middleware.RequestID))
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS()) // global so OPTIONS preflight is answered

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		NewResponseWriter(w, req).NotFound("Rota não encontrada")
	})

	r.Get("/health", router.handler.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(chiMiddleware(middleware.PrometheusMetrics))
		r.Use(chiMiddleware(router.session.Client))

		r.Route("/auth", func(r chi.Router) {
			r.With(router.chiMiddleware.RateLimitLogin()).Post("/login", router.handler.Login)
			r.Post("/logout", router.handler.Logout)
			r.Get("/session", router.handler.Session)
			r.Post("/activity", router.handler.Activity)
		})

		r.Get("/routes/resolve", router.handler.ResolveRoute)

		// Everything below needs a valid session.
		r.Group(func(r chi.Router) {
			r.Use(chiMiddleware(router.session.RequireSession))

			// Reports belong to the back office.
			r.Route("/reports", func(r chi.Router) {
				r.Use(RequireRole(authz.RoleAdmin))
				r.Post("/export", router.handler.ExportReport)
				r.Get("/sources", router.handler.ReportSources)
			})

			r.Route("/monitorings", func(r chi.Router) {
				r.Get("/", router.handler.ListMonitorings)
				r.Post("/", router.handler.CreateMonitoring)
				r.Get("/analysis", router.handler.MonitoringAnalysis)
				r.With(RequireRole(authz.RoleAdmin)).Delete("/{id}", router.handler.DeleteMonitoring)
			})

			r.Route("/categories/{clientType}", func(r chi.Router) {
				r.Get("/", router.handler.ListCategories)
				r.Post("/", router.handler.AddCategory)
			})

			r.Route("/contents", func(r chi.Router) {
				r.Get("/", router.handler.ListContents)
				r.Post("/", router.handler.CreateContent)
				r.Post("/submit", router.handler.SubmitContent)
				r.Get("/{id}", router.handler.GetContent)
				r.With(RequireRole(authz.RoleAdmin)).Put("/{id}/status", router.handler.SetContentStatus)
			})
		})
	})

	return r
}
