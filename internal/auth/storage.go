// Observa - Media Monitoring Portal
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/observa

package auth

import (
	"context"
	"errors"
	"sort"
	"sync"
)

// ErrKeyNotFound is returned by Storage.Get for an absent key.
var ErrKeyNotFound = errors.New("auth: key not found")

// Storage is one client's key/value namespace.
type Storage interface {
	// Get returns the value or ErrKeyNotFound.
	Get(ctx context.Context, key string) (string, error)

	// Set stores a value, replacing any previous one.
	Set(ctx context.Context, key, value string) error

	// Delete removes keys. Absent keys are ignored.
	Delete(ctx context.Context, keys ...string) error
}

// Backend hands out per-client namespaces.
type Backend interface {
	// Scope returns the namespace of one client.
	Scope(clientID string) Storage

	// Namespaces lists the clients that currently hold at least one key.
	Namespaces(ctx context.Context) ([]string, error)
}

// MemoryBackend keeps every namespace in process memory.
// Suitable for development and testing.
type MemoryBackend struct {
	mu      sync.RWMutex
	clients map[string]map[string]string
}

// NewMemoryBackend creates an empty backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{clients: make(map[string]map[string]string)}
}

// Scope implements Backend.
func (b *MemoryBackend) Scope(clientID string) Storage {
	return &memoryScope{backend: b, clientID: clientID}
}

// Namespaces implements Backend. The result is sorted.
func (b *MemoryBackend) Namespaces(_ context.Context) ([]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	ids := make([]string, 0, len(b.clients))
	for id := range b.clients {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

type memoryScope struct {
	backend  *MemoryBackend
	clientID string
}

func (s *memoryScope) Get(_ context.Context, key string) (string, error) {
	s.backend.mu.RLock()
	defer s.backend.mu.RUnlock()

	v, ok := s.backend.clients[s.clientID][key]
	if !ok {
		return "", ErrKeyNotFound
	}
	return v, nil
}

func (s *memoryScope) Set(_ context.Context, key, value string) error {
	s.backend.mu.Lock()
	defer s.backend.mu.Unlock()

	ns := s.backend.clients[s.clientID]
	if ns == nil {
		ns = make(map[string]string)
		s.backend.clients[s.clientID] = ns
	}
	ns[key] = value
	return nil
}

func (s *memoryScope) Delete(_ context.Context, keys ...string) error {
	s.backend.mu.Lock()
	defer s.backend.mu.Unlock()

	ns := s.backend.clients[s.clientID]
	for _, k := range keys {
		delete(ns, k)
	}
	if len(ns) == 0 {
		delete(s.backend.clients, s.clientID)
	}
	return nil
}
