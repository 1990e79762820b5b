// Observa - Media Monitoring Portal
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/observa

package monitoring

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/observa/internal/models"
)

// CategoryStore keeps the categories users added on top of the defaults.
type CategoryStore interface {
	// Added returns the user-added categories of a client type, in the
	// order they were added.
	Added(ctx context.Context, ct models.ClientType) ([]string, error)

	// Append adds one category to a client type.
	Append(ctx context.Context, ct models.ClientType, name string) error
}

// MemoryCategoryStore is an in-memory CategoryStore.
type MemoryCategoryStore struct {
	mu    sync.RWMutex
	added map[models.ClientType][]string
}

// NewMemoryCategoryStore creates an empty store.
func NewMemoryCategoryStore() *MemoryCategoryStore {
	return &MemoryCategoryStore{added: make(map[models.ClientType][]string)}
}

// Added implements CategoryStore.
func (s *MemoryCategoryStore) Added(_ context.Context, ct models.ClientType) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.added[ct]...), nil
}

// Append implements CategoryStore.
func (s *MemoryCategoryStore) Append(_ context.Context, ct models.ClientType, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.added[ct] = append(s.added[ct], name)
	return nil
}

const categoryKeyPrefix = "category:"

// BadgerCategoryStore keeps each client type's list as one JSON array.
type BadgerCategoryStore struct {
	db *badger.DB
}

// NewBadgerCategoryStore creates a store over an open database.
func NewBadgerCategoryStore(db *badger.DB) *BadgerCategoryStore {
	return &BadgerCategoryStore{db: db}
}

// Added implements CategoryStore.
func (s *BadgerCategoryStore) Added(_ context.Context, ct models.ClientType) ([]string, error) {
	var names []string
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		names, err = readCategories(txn, ct)
		return err
	})
	return names, err
}

// Append implements CategoryStore.
func (s *BadgerCategoryStore) Append(_ context.Context, ct models.ClientType, name string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		names, err := readCategories(txn, ct)
		if err != nil {
			return err
		}
		data, err := json.Marshal(append(names, name))
		if err != nil {
			return fmt.Errorf("marshal categories: %w", err)
		}
		return txn.Set([]byte(categoryKeyPrefix+string(ct)), data)
	})
}

func readCategories(txn *badger.Txn, ct models.ClientType) ([]string, error) {
	item, err := txn.Get([]byte(categoryKeyPrefix + string(ct)))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get categories: %w", err)
	}
	var names []string
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, &names)
	})
	if err != nil {
		return nil, fmt.Errorf("decode categories: %w", err)
	}
	return names, nil
}
