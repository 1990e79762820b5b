// Observa - Media Monitoring Portal
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/observa

// Package authz maps portal paths to allowed roles and decides where a
// request for a path ends up.
//
// The table is a Casbin policy: one (role, pattern) rule per allowed role,
// or ("*", pattern) for public pages. Patterns use keyMatch2 syntax, so
// "/admin/client/:clientType" matches any single segment.
package authz

import (
	"github.com/tomtom215/observa/internal/models"
)

// Redirect targets.
const (
	RedirectHome         = "/"
	RedirectLogin        = "/login"
	RedirectUnauthorized = "/unauthorized"
)

// RoleAdmin is the back-office role.
const RoleAdmin = "admin"

// Route is one entry of the route table. A route without roles is public.
type Route struct {
	Pattern string
	Roles   []string
}

// Public reports whether the route needs no session.
func (r Route) Public() bool {
	return len(r.Roles) == 0
}

// DefaultRoutes returns the portal's route table.
func DefaultRoutes() []Route {
	routes := []Route{
		{Pattern: "/"},
		{Pattern: "/login"},
		{Pattern: "/client-login"},
		{Pattern: "/service/:serviceId"},
		{Pattern: "/unauthorized"},

		{Pattern: "/admin", Roles: []string{RoleAdmin}},
		{Pattern: "/admin/clients", Roles: []string{RoleAdmin}},
		{Pattern: "/admin/content", Roles: []string{RoleAdmin}},
		{Pattern: "/admin/contacts", Roles: []string{RoleAdmin}},
		{Pattern: "/admin/client/:clientType", Roles: []string{RoleAdmin}},
	}

	// Each client type has a public landing page and a dashboard reserved
	// for its own role.
	for _, ct := range models.ClientTypes {
		routes = append(routes, Route{Pattern: "/clients/" + string(ct)})
	}
	for _, ct := range models.ClientTypes {
		routes = append(routes, Route{Pattern: "/dashboard/" + string(ct), Roles: []string{string(ct)}})
	}
	return routes
}
