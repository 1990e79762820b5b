// Observa - Media Monitoring Portal
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/observa

// Package models holds the data types shared across Observa packages.
package models

import (
	"fmt"
	"strings"
)

// ClientType selects the feature set and default categories a tenant sees.
type ClientType string

const (
	ClientObservatory ClientType = "observatory"
	ClientResearcher  ClientType = "researcher"
	ClientPolitician  ClientType = "politician"
	ClientInstitution ClientType = "institution"
	ClientJournalist  ClientType = "journalist"
	ClientPress       ClientType = "press"
)

// ClientTypes lists every client type in display order.
var ClientTypes = []ClientType{
	ClientObservatory,
	ClientResearcher,
	ClientPolitician,
	ClientInstitution,
	ClientJournalist,
	ClientPress,
}

// Valid reports whether c is a known client type.
func (c ClientType) Valid() bool {
	for _, t := range ClientTypes {
		if c == t {
			return true
		}
	}
	return false
}

// ParseClientType parses a client type, ignoring case and surrounding space.
func ParseClientType(s string) (ClientType, error) {
	c := ClientType(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("unknown client type %q", s)
	}
	return c, nil
}

// baseCategories are offered to every client type.
var baseCategories = []string{"governo", "indicadores", "legislacao", "api"}

var extraCategories = map[ClientType][]string{
	ClientObservatory: {"ambiental", "social"},
	ClientResearcher:  {"acadêmico", "publicações"},
	ClientPolitician:  {"votações", "projetos", "orçamento"},
	ClientInstitution: {"relatórios", "auditorias"},
	ClientJournalist:  {"pautas", "entrevistas", "fontes"},
}

// DefaultCategories returns the monitoring categories offered to a client
// type: the base list followed by the type's extras. Unknown types get the
// observatory list. The returned slice is a fresh copy.
func DefaultCategories(c ClientType) []string {
	if !c.Valid() {
		c = ClientObservatory
	}
	extras := extraCategories[c]
	out := make([]string, 0, len(baseCategories)+len(extras))
	out = append(out, baseCategories...)
	return append(out, extras...)
}
