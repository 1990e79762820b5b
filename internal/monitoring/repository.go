// Observa - Media Monitoring Portal
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/observa

// Package monitoring manages the list of monitored sources, the category
// lists offered per client type and the per-category analysis view.
package monitoring

import (
	"context"
	"errors"
	"sync"

	"github.com/tomtom215/observa/internal/models"
)

// ErrNotFound is returned for an unknown monitoring id.
var ErrNotFound = errors.New("monitoring: item not found")

// Repository stores monitoring items in insertion order.
type Repository interface {
	// List returns all items, oldest first.
	List(ctx context.Context) ([]models.MonitoringItem, error)

	// Get returns one item or ErrNotFound.
	Get(ctx context.Context, id string) (*models.MonitoringItem, error)

	// Add appends an item.
	Add(ctx context.Context, item *models.MonitoringItem) error

	// Delete removes an item or returns ErrNotFound.
	Delete(ctx context.Context, id string) error
}

// MemoryRepository is an in-memory Repository.
type MemoryRepository struct {
	mu    sync.RWMutex
	items []models.MonitoringItem
}

// NewMemoryRepository creates an empty repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

// List implements Repository.
func (r *MemoryRepository) List(_ context.Context) ([]models.MonitoringItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.MonitoringItem, len(r.items))
	copy(out, r.items)
	return out, nil
}

// Get implements Repository.
func (r *MemoryRepository) Get(_ context.Context, id string) (*models.MonitoringItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.items {
		if r.items[i].ID == id {
			item := r.items[i]
			return &item, nil
		}
	}
	return nil, ErrNotFound
}

// Add implements Repository.
func (r *MemoryRepository) Add(_ context.Context, item *models.MonitoringItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items = append(r.items, *item)
	return nil
}

// Delete implements Repository.
func (r *MemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.items {
		if r.items[i].ID == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}
