// Observa - Media Monitoring Portal
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/observa

// Package api exposes the Observa services over HTTP.
//
// All endpoints live under /api/v1 and answer with the APIResponse
// envelope, except report exports, which return the file itself. The
// browser is identified by a client cookie whose value names the storage
// namespace holding its session keys.
package api

import (
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/observa/internal/auth"
	"github.com/tomtom215/observa/internal/authz"
	"github.com/tomtom215/observa/internal/content"
	"github.com/tomtom215/observa/internal/monitoring"
	"github.com/tomtom215/observa/internal/report"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// Deps are the services behind the handlers.
type Deps struct {
	Login       *auth.LoginService
	Sessions    *auth.Sessions
	Routes      *authz.RouteTable
	Reports     *report.Service
	Monitorings *monitoring.Service
	Analyzer    *monitoring.Analyzer
	Contents    *content.Service

	// Version is reported by the health endpoint.
	Version string
}

// Handler contains dependencies for API handlers. Methods are split by
// area across the handlers_*.go files.
type Handler struct {
	login       *auth.LoginService
	sessions    *auth.Sessions
	routes      *authz.RouteTable
	reports     *report.Service
	monitorings *monitoring.Service
	analyzer    *monitoring.Analyzer
	contents    *content.Service
	version     string
	startTime   time.Time
}

// NewHandler creates a handler. A nil Analyzer gets a randomly seeded one.
func NewHandler(d Deps) *Handler {
	if d.Analyzer == nil {
		d.Analyzer = monitoring.NewAnalyzer(nil)
	}
	return &Handler{
		login:       d.Login,
		sessions:    d.Sessions,
		routes:      d.Routes,
		reports:     d.Reports,
		monitorings: d.Monitorings,
		analyzer:    d.Analyzer,
		contents:    d.Contents,
		version:     d.Version,
		startTime:   time.Now(),
	}
}

var (
	errEmptyBody    = errors.New("request body is empty")
	errTrailingData = errors.New("request body must hold a single JSON value")
)

// decodeJSON reads a JSON body into v. Anything but whitespace after the
// first value is rejected.
func decodeJSON(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errEmptyBody
		}
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errTrailingData
	}
	return nil
}

// remoteIP returns the caller address without the port.
func remoteIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
