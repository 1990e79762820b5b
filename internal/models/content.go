// Observa - Media Monitoring Portal
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/observa

package models

import (
	"strings"
	"time"
)

// ContentType distinguishes press releases from reports.
type ContentType string

const (
	ContentRelease ContentType = "release"
	ContentReport  ContentType = "reportagem"
)

// ContentStatus is the editorial state of a content item. Any status may
// follow any other.
type ContentStatus string

const (
	StatusDraft       ContentStatus = "draft"
	StatusPending     ContentStatus = "pending"
	StatusApproved    ContentStatus = "approved"
	StatusRejected    ContentStatus = "rejected"
	StatusDistributed ContentStatus = "distributed"
	StatusPublished   ContentStatus = "published"
)

// ContentStatuses lists every status.
var ContentStatuses = []ContentStatus{
	StatusDraft, StatusPending, StatusApproved, StatusRejected, StatusDistributed, StatusPublished,
}

// Valid reports whether s is a known status.
func (s ContentStatus) Valid() bool {
	for _, v := range ContentStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Valid reports whether t is a known content type.
func (t ContentType) Valid() bool {
	return t == ContentRelease || t == ContentReport
}

// Content is a release or report moving through the editorial workflow.
type Content struct {
	ID          string        `json:"id"`
	Type        ContentType   `json:"type"`
	Title       string        `json:"title"`
	Subtitle    string        `json:"subtitle,omitempty"`
	Category    string        `json:"category,omitempty"`
	Status      ContentStatus `json:"status"`
	Body        string        `json:"body,omitempty"`
	Author      string        `json:"author,omitempty"`
	Tags        []string      `json:"tags"`
	CreatedAt   time.Time     `json:"created_at"`
	PublishedAt *time.Time    `json:"published_at,omitempty"`
}

// ContentForm is the payload for creating content.
type ContentForm struct {
	Type     ContentType `json:"type,omitempty" validate:"omitempty,content_type"`
	Title    string      `json:"title" validate:"required,max=300"`
	Subtitle string      `json:"subtitle,omitempty" validate:"max=500"`
	Category string      `json:"category,omitempty" validate:"max=100"`
	Body     string      `json:"body,omitempty"`
	Author   string      `json:"author,omitempty" validate:"max=200"`
	Tags     []string    `json:"tags,omitempty" validate:"max=50,dive,required,max=50"`
}

// Normalize trims surrounding whitespace from the text fields in place.
// Tags are left alone; blank tags are dropped when content is built.
func (f *ContentForm) Normalize() {
	f.Title = strings.TrimSpace(f.Title)
	f.Subtitle = strings.TrimSpace(f.Subtitle)
	f.Category = strings.TrimSpace(f.Category)
	f.Author = strings.TrimSpace(f.Author)
}

// StatusUpdate is the payload for changing a content status.
type StatusUpdate struct {
	Status ContentStatus `json:"status" validate:"required,content_status"`
}
