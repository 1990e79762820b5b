// Observa - Media Monitoring Portal
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/observa

package authz

import (
	"fmt"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"github.com/casbin/casbin/v2/util"

	"github.com/tomtom215/observa/internal/metrics"
)

// publicSubject marks a rule that applies to everyone.
const publicSubject = "*"

const routeModel = `
[request_definition]
r = sub, obj

[policy_definition]
p = sub, obj

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = (p.sub == "*" || r.sub == p.sub) && keyMatch2(r.obj, p.obj)
`

// Decision is where a path request ends up.
type Decision struct {
	// Allowed is true when the page may be shown.
	Allowed bool `json:"allowed"`

	// Redirect is set when Allowed is false.
	Redirect string `json:"redirect,omitempty"`

	// From is the requested path, set on a redirect to the login page.
	From string `json:"from,omitempty"`

	// Route is the matched pattern, empty for unmatched paths.
	Route string `json:"route,omitempty"`
}

// RouteTable resolves paths against the route list.
type RouteTable struct {
	enforcer *casbin.SyncedEnforcer
	routes   []Route
}

// NewRouteTable builds the table. Routes are matched in order.
func NewRouteTable(routes []Route) (*RouteTable, error) {
	m, err := model.NewModelFromString(routeModel)
	if err != nil {
		return nil, fmt.Errorf("failed to load casbin model: %w", err)
	}
	enforcer, err := casbin.NewSyncedEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin enforcer: %w", err)
	}

	for _, r := range routes {
		if !strings.HasPrefix(r.Pattern, "/") {
			return nil, fmt.Errorf("route pattern %q must start with /", r.Pattern)
		}
		subjects := r.Roles
		if r.Public() {
			subjects = []string{publicSubject}
		}
		for _, sub := range subjects {
			if _, err := enforcer.AddPolicy(sub, r.Pattern); err != nil {
				return nil, fmt.Errorf("failed to add policy %s %s: %w", sub, r.Pattern, err)
			}
		}
	}

	return &RouteTable{enforcer: enforcer, routes: append([]Route(nil), routes...)}, nil
}

// Routes returns a copy of the route list.
func (t *RouteTable) Routes() []Route {
	return append([]Route(nil), t.routes...)
}

// Match returns the first route whose pattern matches path.
func (t *RouteTable) Match(path string) (Route, bool) {
	path = normalize(path)
	for _, r := range t.routes {
		if util.KeyMatch2(path, r.Pattern) {
			return r, true
		}
	}
	return Route{}, false
}

// Resolve decides the outcome of navigating to path. valid reports whether
// the caller holds a valid session; role is its role.
//
//   - unmatched path: redirect to /
//   - protected route without a session: redirect to /login, From = path
//   - session with a role the route does not allow: redirect to /unauthorized
func (t *RouteTable) Resolve(path string, valid bool, role string) (Decision, error) {
	path = normalize(path)

	route, ok := t.Match(path)
	if !ok {
		metrics.RecordRouteDecision("not_found")
		return Decision{Redirect: RedirectHome}, nil
	}
	if route.Public() {
		metrics.RecordRouteDecision("allowed")
		return Decision{Allowed: true, Route: route.Pattern}, nil
	}
	if !valid {
		metrics.RecordRouteDecision("login")
		return Decision{Redirect: RedirectLogin, From: path, Route: route.Pattern}, nil
	}

	allowed := false
	if role != "" {
		var err error
		allowed, err = t.enforcer.Enforce(role, path)
		if err != nil {
			return Decision{}, fmt.Errorf("enforcement failed: %w", err)
		}
	}
	if !allowed {
		metrics.RecordRouteDecision("unauthorized")
		return Decision{Redirect: RedirectUnauthorized, Route: route.Pattern}, nil
	}

	metrics.RecordRouteDecision("allowed")
	return Decision{Allowed: true, Route: route.Pattern}, nil
}

// normalize drops the query string and a trailing slash.
func normalize(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if path == "" {
		return "/"
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
		if path == "" {
			return "/"
		}
	}
	return path
}
