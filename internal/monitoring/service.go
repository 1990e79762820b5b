// Observa - Media Monitoring Portal
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/observa

package monitoring

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

// ErrInvalidCategory is returned for an empty category name.
var ErrInvalidCategory = errors.New("monitoring: category name is empty")

// Service implements the monitoring operations.
type Service struct {
	repo       Repository
	categories CategoryStore
	now        func() time.Time
}

// NewService creates a service.
func NewService(repo Repository, categories CategoryStore) *Service {
	return &Service{repo: repo, categories: categories, now: time.Now}
}

// Create validates the form and appends a new item. A missing frequency
// defaults to daily.
func (s *Service) Create(ctx context.Context, form *models.MonitoringForm) (*models.MonitoringItem, error) {
	form.Normalize()
	if verr := validation.ValidateStruct(form); verr != nil {
		return nil, verr
	}

	freq := form.Frequency
	if freq == "" {
		freq = models.FrequencyDaily
	}
	item := &models.MonitoringItem{
		ID:          uuid.NewString(),
		Name:        form.Name,
		URL:         form.URL,
		APIURL:      form.APIURL,
		Frequency:   freq,
		Category:    form.Category,
		Keywords:    form.Keywords,
		Responsible: form.Responsible,
		Notes:       form.Notes,
		ClientType:  form.ClientType,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.repo.Add(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to store monitoring item: %w", err)
	}

	s.refreshGauge(ctx)
	logging.Ctx(ctx).Info().Str("id", item.ID).Str("category", item.Category).Msg("Monitoring item created")
	return item, nil
}

// Delete removes an item by id.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.refreshGauge(ctx)
	logging.Ctx(ctx).Info().Str("id", id).Msg("Monitoring item deleted")
	return nil
}

// List returns all items, oldest first.
func (s *Service) List(ctx context.Context) ([]models.MonitoringItem, error) {
	return s.repo.List(ctx)
}

// Get returns one item.
func (s *Service) Get(ctx context.Context, id string) (*models.MonitoringItem, error) {
	return s.repo.Get(ctx, id)
}

// Categories returns the defaults of ct followed by the user-added ones.
func (s *Service) Categories(ctx context.Context, ct models.ClientType) ([]string, error) {
	if !ct.Valid() {
		return nil, fmt.Errorf("unknown client type %q", ct)
	}
	added, err := s.categories.Added(ctx, ct)
	if err != nil {
		return nil, err
	}
	return append(models.DefaultCategories(ct), added...), nil
}

// AddCategory adds name to the list of ct and returns the new list. A name
// already present, ignoring case, is not added again.
func (s *Service) AddCategory(ctx context.Context, ct models.ClientType, name string) ([]string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidCategory
	}
	current, err := s.Categories(ctx, ct)
	if err != nil {
		return nil, err
	}
	for _, c := range current {
		if strings.EqualFold(c, name) {
			return current, nil
		}
	}
	if err := s.categories.Append(ctx, ct, name); err != nil {
		return nil, fmt.Errorf("failed to store category: %w", err)
	}
	return append(current, name), nil
}

func (s *Service) refreshGauge(ctx context.Context) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return
	}
	metrics.MonitoringItems.Set(float64(len(items)))
}
