// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package tokenstore

import (
	"context"
	"sync"
)

// Area is one key-value persistence area.
type Area interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}

// =============================================================================
// MEMORY AREA
// =============================================================================

// MemoryArea is the session-scoped area. It lives as long as the process.
type MemoryArea struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryArea creates an empty session area.
func NewMemoryArea() *MemoryArea {
	return &MemoryArea{values: make(map[string]string)}
}

// Get returns the value stored under key.
func (a *MemoryArea) Get(_ context.Context, key string) (string, bool, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	v, ok := a.values[key]
	return v, ok, nil
}

// Set stores value under key.
func (a *MemoryArea) Set(_ context.Context, key, value string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.values[key] = value
	return nil
}

// Delete removes key.
func (a *MemoryArea) Delete(_ context.Context, key string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.values, key)
	return nil
}

// Clear removes every key.
func (a *MemoryArea) Clear(_ context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.values = make(map[string]string)
	return nil
}
