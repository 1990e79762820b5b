// Observa - Media Monitoring Portal
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/observa

package content

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/observa/internal/logging"
	"github.com/tomtom215/observa/internal/metrics"
	"github.com/tomtom215/observa/internal/models"
	"github.com/tomtom215/observa/internal/validation"
)

// ErrInvalidStatus is returned by SetStatus for an unknown status.
var ErrInvalidStatus = errors.New("content: invalid status")

// Service implements the content operations.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService creates a service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Create stores new content as a draft. The type defaults to release.
func (s *Service) Create(ctx context.Context, form *models.ContentForm) (*models.Content, error) {
	return s.create(ctx, form, models.StatusDraft)
}

// Submit stores content sent in by the press for review, as pending.
func (s *Service) Submit(ctx context.Context, form *models.ContentForm) (*models.Content, error) {
	return s.create(ctx, form, models.StatusPending)
}

func (s *Service) create(ctx context.Context, form *models.ContentForm, status models.ContentStatus) (*models.Content, error) {
	form.Normalize()
	if verr := validation.ValidateStruct(form); verr != nil {
		return nil, verr
	}

	typ := form.Type
	if typ == "" {
		typ = models.ContentRelease
	}
	tags := make([]string, 0, len(form.Tags))
	for _, tag := range form.Tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}

	c := &models.Content{
		ID:        uuid.NewString(),
		Type:      typ,
		Title:     form.Title,
		Subtitle:  form.Subtitle,
		Category:  form.Category,
		Status:    status,
		Body:      form.Body,
		Author:    form.Author,
		Tags:      tags,
		CreatedAt: s.now().UTC(),
	}
	if err := s.repo.Put(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to store content: %w", err)
	}

	logging.Ctx(ctx).Info().Str("id", c.ID).Str("type", string(c.Type)).Str("status", string(c.Status)).Msg("Content created")
	return c, nil
}

// SetStatus moves content to status. There is no transition table; only
// the status value itself is checked. Setting published stamps
// PublishedAt with the current time.
func (s *Service) SetStatus(ctx context.Context, id string, status models.ContentStatus) (*models.Content, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	var from models.ContentStatus
	c, err := s.repo.Update(ctx, id, func(c *models.Content) error {
		from = c.Status
		c.Status = status
		if status == models.StatusPublished {
			now := s.now().UTC()
			c.PublishedAt = &now
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.ContentStatusChangesTotal.WithLabelValues(string(status)).Inc()
	logging.Ctx(ctx).Info().Str("id", id).Str("from", string(from)).Str("to", string(status)).Msg("Content status changed")
	return c, nil
}

// Get returns one record.
func (s *Service) Get(ctx context.Context, id string) (*models.Content, error) {
	return s.repo.Get(ctx, id)
}

// List returns all records, newest first. A non-empty status filters the
// result.
func (s *Service) List(ctx context.Context, status models.ContentStatus) ([]models.Content, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if status == "" {
		return all, nil
	}
	out := make([]models.Content, 0, len(all))
	for _, c := range all {
		if c.Status == status {
			out = append(out, c)
		}
	}
	return out, nil
}
