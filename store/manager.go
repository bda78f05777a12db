// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/danielhkuo/plant-care/models"
)

// Manager is the per-request view of one user's attributes.
// Get caches the record, Set stages a new one and Save writes it.
// A Manager is not meant to be shared between requests.
type Manager struct {
	backend Backend
	userID  string

	loaded bool
	attrs  models.Attributes
	dirty  bool
}

func NewManager(backend Backend, userID string) *Manager {
	return &Manager{backend: backend, userID: userID}
}

func (m *Manager) UserID() string {
	return m.userID
}

// Get returns a copy of the user's record, loading it on first use
func (m *Manager) Get(ctx context.Context) (models.Attributes, error) {
	if !m.loaded {
		attrs, err := m.backend.Load(ctx, m.userID)
		if err != nil {
			return models.Attributes{}, err
		}
		m.attrs = attrs
		m.loaded = true
	}
	return cloneAttributes(m.attrs), nil
}

// Set stages attrs for the next Save
func (m *Manager) Set(attrs models.Attributes) {
	m.attrs = cloneAttributes(attrs)
	m.loaded = true
	m.dirty = true
}

// Save writes the staged record. Saving without a prior Set is a no-op.
func (m *Manager) Save(ctx context.Context) error {
	if !m.dirty {
		return nil
	}
	if err := m.backend.Put(ctx, m.userID, m.attrs); err != nil {
		return err
	}
	m.dirty = false
	return nil
}

func cloneAttributes(a models.Attributes) models.Attributes {
	a.InstalledInstanceIDs = slices.Clone(a.InstalledInstanceIDs)
	return a
}

// Memory is an in-process Backend used in tests.
type Memory struct {
	mu      sync.Mutex
	records map[string]models.Attributes
	puts    int
}

func NewMemory() *Memory {
	return &Memory{records: map[string]models.Attributes{}}
}

func (m *Memory) Load(_ context.Context, userID string) (models.Attributes, error) {
	if userID == "" {
		return models.Attributes{}, ErrMissingUserID
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneAttributes(m.records[userID]), nil
}

func (m *Memory) Put(_ context.Context, userID string, attrs models.Attributes) error {
	if userID == "" {
		return ErrMissingUserID
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[userID] = cloneAttributes(attrs)
	m.puts++
	return nil
}

// Puts reports how many writes reached the backend
func (m *Memory) Puts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.puts
}

// Snapshot returns a copy of every stored record
func (m *Memory) Snapshot() map[string]models.Attributes {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]models.Attributes, len(m.records))
	for k, v := range maps.All(m.records) {
		out[k] = cloneAttributes(v)
	}
	return out
}
