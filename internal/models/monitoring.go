// Observa - Media Monitoring Portal
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/observa

package models

import (
	"strings"
	"time"
)

// Frequency is how often a monitored source is checked.
type Frequency string

const (
	FrequencyDaily    Frequency = "diario"
	FrequencyWeekly   Frequency = "semanal"
	FrequencyBiweekly Frequency = "quinzenal"
	FrequencyMonthly  Frequency = "mensal"
)

// Frequencies lists every frequency in display order.
var Frequencies = []Frequency{FrequencyDaily, FrequencyWeekly, FrequencyBiweekly, FrequencyMonthly}

// Valid reports whether f is a known frequency.
func (f Frequency) Valid() bool {
	for _, v := range Frequencies {
		if f == v {
			return true
		}
	}
	return false
}

// MonitoringItem is a configured external source to be checked periodically.
type MonitoringItem struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	URL         string     `json:"url"`
	APIURL      string     `json:"api_url,omitempty"`
	Frequency   Frequency  `json:"frequency"`
	Category    string     `json:"category"`
	Keywords    string     `json:"keywords,omitempty"` // comma-separated
	Responsible string     `json:"responsible,omitempty"`
	Notes       string     `json:"notes,omitempty"`
	ClientType  ClientType `json:"client_type,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// MonitoringForm is the payload of the monitoring creation form.
type MonitoringForm struct {
	Name        string     `json:"name" validate:"required,max=200"`
	URL         string     `json:"url" validate:"required,url"`
	APIURL      string     `json:"api_url,omitempty" validate:"omitempty,url"`
	Frequency   Frequency  `json:"frequency,omitempty" validate:"omitempty,frequency"`
	Category    string     `json:"category" validate:"required,max=100"`
	Keywords    string     `json:"keywords,omitempty" validate:"max=1000"`
	Responsible string     `json:"responsible,omitempty" validate:"max=200"`
	Notes       string     `json:"notes,omitempty" validate:"max=2000"`
	ClientType  ClientType `json:"client_type,omitempty" validate:"omitempty,client_type"`
}

// Normalize trims surrounding whitespace from the text fields in place, so
// a blank value fails the required checks.
func (f *MonitoringForm) Normalize() {
	f.Name = strings.TrimSpace(f.Name)
	f.URL = strings.TrimSpace(f.URL)
	f.APIURL = strings.TrimSpace(f.APIURL)
	f.Category = strings.TrimSpace(f.Category)
	f.Keywords = strings.TrimSpace(f.Keywords)
	f.Responsible = strings.TrimSpace(f.Responsible)
}
