// Observa - Media Monitoring Portal
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/observa

// Package content manages releases and reports through their editorial
// statuses. Any status may be set from any other.
package content

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/observa/internal/models"
)

// ErrNotFound is returned for an unknown content id.
var ErrNotFound = errors.New("content: not found")

// Repository stores content records.
type Repository interface {
	// List returns all records, newest first.
	List(ctx context.Context) ([]models.Content, error)

	// Get returns one record or ErrNotFound.
	Get(ctx context.Context, id string) (*models.Content, error)

	// Put inserts or replaces a record.
	Put(ctx context.Context, c *models.Content) error

	// Update applies fn to a stored record and saves the result.
	Update(ctx context.Context, id string, fn func(*models.Content) error) (*models.Content, error)
}

// MemoryRepository is an in-memory Repository.
type MemoryRepository struct {
	mu      sync.RWMutex
	records map[string]models.Content
}

// NewMemoryRepository creates an empty repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{records: make(map[string]models.Content)}
}

// List implements Repository.
func (r *MemoryRepository) List(_ context.Context) ([]models.Content, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Content, 0, len(r.records))
	for _, c := range r.records {
		out = append(out, clone(c))
	}
	sortNewestFirst(out)
	return out, nil
}

// Get implements Repository.
func (r *MemoryRepository) Get(_ context.Context, id string) (*models.Content, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	c = clone(c)
	return &c, nil
}

// Put implements Repository.
func (r *MemoryRepository) Put(_ context.Context, c *models.Content) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.records[c.ID] = clone(*c)
	return nil
}

// Update implements Repository.
func (r *MemoryRepository) Update(_ context.Context, id string, fn func(*models.Content) error) (*models.Content, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	c = clone(c)
	if err := fn(&c); err != nil {
		return nil, err
	}
	r.records[id] = clone(c)
	return &c, nil
}

// clone copies the slice and pointer fields of c.
func clone(c models.Content) models.Content {
	c.Tags = append([]string(nil), c.Tags...)
	if c.PublishedAt != nil {
		t := *c.PublishedAt
		c.PublishedAt = &t
	}
	return c
}

func sortNewestFirst(list []models.Content) {
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].ID < list[j].ID
		}
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
}

const contentKeyPrefix = "content:"

// BadgerRepository persists content records as JSON in BadgerDB.
type BadgerRepository struct {
	db *badger.DB
}

// NewBadgerRepository creates a repository over an open database.
func NewBadgerRepository(db *badger.DB) *BadgerRepository {
	return &BadgerRepository{db: db}
}

// List implements Repository.
func (r *BadgerRepository) List(_ context.Context) ([]models.Content, error) {
	out := []models.Content{}

	err := r.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(contentKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var c models.Content
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &c)
			}); err != nil {
				return fmt.Errorf("decode content: %w", err)
			}
			out = append(out, c)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list content: %w", err)
	}
	sortNewestFirst(out)
	return out, nil
}

// Get implements Repository.
func (r *BadgerRepository) Get(_ context.Context, id string) (*models.Content, error) {
	var c *models.Content
	err := r.db.View(func(txn *badger.Txn) error {
		var err error
		c, err = getTxn(txn, id)
		return err
	})
	return c, err
}

// Put implements Repository.
func (r *BadgerRepository) Put(_ context.Context, c *models.Content) error {
	return r.db.Update(func(txn *badger.Txn) error {
		return putTxn(txn, c)
	})
}

// Update implements Repository. The read and the write share one
// transaction.
func (r *BadgerRepository) Update(_ context.Context, id string, fn func(*models.Content) error) (*models.Content, error) {
	var c *models.Content
	err := r.db.Update(func(txn *badger.Txn) error {
		var err error
		if c, err = getTxn(txn, id); err != nil {
			return err
		}
		if err := fn(c); err != nil {
			return err
		}
		return putTxn(txn, c)
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func getTxn(txn *badger.Txn, id string) (*models.Content, error) {
	item, err := txn.Get([]byte(contentKeyPrefix + id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get content: %w", err)
	}
	var c models.Content
	if err := item.Value(func(val []byte) error {
		return json.Unmarshal(val, &c)
	}); err != nil {
		return nil, fmt.Errorf("decode content: %w", err)
	}
	return &c, nil
}

func putTxn(txn *badger.Txn, c *models.Content) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal content: %w", err)
	}
	if err := txn.Set([]byte(contentKeyPrefix+c.ID), data); err != nil {
		return fmt.Errorf("set content: %w", err)
	}
	return nil
}
