// Observa - Media Monitoring Portal
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/observa

// Package store owns the embedded BadgerDB instance shared by the auth,
// monitoring and content repositories.
//
// Each repository keeps its records under its own key prefix:
//
//	client:<clientID>:<key>     per-browser auth keys
//	monitoring:<seq>:<id>       monitoring items, in creation order
//	category:<clientType>:<n>   user-added categories
//	content:<id>                content records
//
// The DB also runs periodic value-log garbage collection when served
// under a supervisor.
package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/tomtom215/observa/internal/logging"
)

// ErrClosed is returned after Close.
var ErrClosed = errors.New("store: closed")

// Config configures the Badger store.
type Config struct {
	// Path is the data directory. Ignored when InMemory is set.
	Path string

	// InMemory keeps all data in memory. Used by tests.
	InMemory bool

	// GCInterval is how often the value log is collected. Zero disables
	// the loop started by Serve.
	GCInterval time.Duration

	// GCRatio is the discard ratio passed to RunValueLogGC.
	GCRatio float64

	// CloseTimeout bounds Close.
	CloseTimeout time.Duration
}

// DB wraps a BadgerDB handle.
type DB struct {
	db  *badger.DB
	cfg Config

	mu     sync.RWMutex
	closed bool
}

// Open opens (or creates) the database.
func Open(cfg Config) (*DB, error) {
	if cfg.GCRatio <= 0 || cfg.GCRatio >= 1 {
		cfg.GCRatio = 0.5
	}
	if cfg.CloseTimeout <= 0 {
		cfg.CloseTimeout = 30 * time.Second
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if cfg.Path == "" {
			return nil, fmt.Errorf("store: path is required")
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open BadgerDB: %w", err)
	}

	logging.Info().Str("path", cfg.Path).Bool("in_memory", cfg.InMemory).Msg("Store opened")
	return &DB{db: db, cfg: cfg}, nil
}

// OpenInMemory opens a throwaway in-memory database.
func OpenInMemory() (*DB, error) {
	return Open(Config{InMemory: true})
}

// Badger returns the underlying handle for repositories.
func (d *DB) Badger() *badger.DB {
	return d.db
}

// RunGC collects the value log until nothing more can be rewritten.
func (d *DB) RunGC() error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return ErrClosed
	}
	if d.cfg.InMemory {
		return nil
	}

	for {
		err := d.db.RunValueLogGC(d.cfg.GCRatio)
		if errors.Is(err, badger.ErrNoRewrite) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("run GC: %w", err)
		}
	}
}

// Serve runs the GC loop until ctx is done. It implements suture.Service.
func (d *DB) Serve(ctx context.Context) error {
	if d.cfg.GCInterval <= 0 {
		<-ctx.Done()
		return ctx.Err()
	}

	ticker := time.NewTicker(d.cfg.GCInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			start := time.Now()
			if err := d.RunGC(); err != nil {
				if errors.Is(err, ErrClosed) {
					return err
				}
				logging.Warn().Err(err).Msg("Store GC failed")
				continue
			}
			logging.Debug().Dur("duration", time.Since(start)).Msg("Store GC completed")
		}
	}
}

// String names the service in supervisor logs.
func (d *DB) String() string {
	return "store-gc"
}

// Close closes the database, waiting at most CloseTimeout.
func (d *DB) Close() error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	d.mu.Unlock()

	done := make(chan error, 1)
	go func() {
		done <- d.db.Close()
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("close BadgerDB: %w", err)
		}
		logging.Info().Msg("Store closed")
		return nil
	case <-time.After(d.cfg.CloseTimeout):
		logging.Warn().Dur("timeout", d.cfg.CloseTimeout).Msg("BadgerDB close timed out")
		return fmt.Errorf("badgerdb close timeout after %v", d.cfg.CloseTimeout)
	}
}
