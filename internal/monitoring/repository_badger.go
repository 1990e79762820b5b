// Observa - Media Monitoring Portal
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/observa

package monitoring

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/observa/internal/models"
)

// Key prefixes for BadgerDB storage
const (
	itemKeyPrefix   = "monitoring:"
	itemIndexPrefix = "monitoring_id:"
	itemSequence    = "seq:monitoring"
)

// BadgerRepository persists items in BadgerDB. Item keys embed a Badger
// sequence number, so iteration order is insertion order.
type BadgerRepository struct {
	db  *badger.DB
	seq *badger.Sequence
}

// NewBadgerRepository creates a repository over an open database.
func NewBadgerRepository(db *badger.DB) (*BadgerRepository, error) {
	seq, err := db.GetSequence([]byte(itemSequence), 100)
	if err != nil {
		return nil, fmt.Errorf("get monitoring sequence: %w", err)
	}
	return &BadgerRepository{db: db, seq: seq}, nil
}

// Close releases unused sequence numbers. Call before closing the database.
func (r *BadgerRepository) Close() error {
	return r.seq.Release()
}

func itemKey(n uint64) []byte {
	return []byte(fmt.Sprintf("%s%020d", itemKeyPrefix, n))
}

// List implements Repository.
func (r *BadgerRepository) List(_ context.Context) ([]models.MonitoringItem, error) {
	items := []models.MonitoringItem{}

	err := r.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(itemKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var item models.MonitoringItem
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &item)
			})
			if err != nil {
				return fmt.Errorf("decode monitoring item: %w", err)
			}
			items = append(items, item)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list monitoring items: %w", err)
	}
	return items, nil
}

// Get implements Repository.
func (r *BadgerRepository) Get(_ context.Context, id string) (*models.MonitoringItem, error) {
	var item models.MonitoringItem

	err := r.db.View(func(txn *badger.Txn) error {
		key, err := lookupKey(txn, id)
		if err != nil {
			return err
		}
		entry, err := txn.Get(key)
		if err != nil {
			return fmt.Errorf("get monitoring item: %w", err)
		}
		return entry.Value(func(val []byte) error {
			return json.Unmarshal(val, &item)
		})
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Add implements Repository.
func (r *BadgerRepository) Add(_ context.Context, item *models.MonitoringItem) error {
	n, err := r.seq.Next()
	if err != nil {
		return fmt.Errorf("next monitoring sequence: %w", err)
	}
	data, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("marshal monitoring item: %w", err)
	}

	key := itemKey(n)
	return r.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(key, data); err != nil {
			return fmt.Errorf("set monitoring item: %w", err)
		}
		if err := txn.Set([]byte(itemIndexPrefix+item.ID), key); err != nil {
			return fmt.Errorf("set monitoring index: %w", err)
		}
		return nil
	})
}

// Delete implements Repository.
func (r *BadgerRepository) Delete(_ context.Context, id string) error {
	return r.db.Update(func(txn *badger.Txn) error {
		key, err := lookupKey(txn, id)
		if err != nil {
			return err
		}
		if err := txn.Delete(key); err != nil {
			return fmt.Errorf("delete monitoring item: %w", err)
		}
		if err := txn.Delete([]byte(itemIndexPrefix + id)); err != nil {
			return fmt.Errorf("delete monitoring index: %w", err)
		}
		return nil
	})
}

func lookupKey(txn *badger.Txn, id string) ([]byte, error) {
	idx, err := txn.Get([]byte(itemIndexPrefix + id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get monitoring index: %w", err)
	}
	return idx.ValueCopy(nil)
}
