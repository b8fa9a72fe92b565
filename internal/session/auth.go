// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"sync"

	"github.com/jeranaias/proskill-tui/internal/model"
)

// =============================================================================
// AUTH
// =============================================================================

// Auth holds the current user. The zero value is unauthenticated and ready
// to use.
type Auth struct {
	mu   sync.RWMutex
	user *model.User

	subMu  sync.Mutex
	subs   map[int]func(*model.User)
	nextID int
}

// User returns a copy of the current user and whether one is set.
func (a *Auth) User() (*model.User, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.user == nil {
		return nil, false
	}
	return a.user.Clone(), true
}

// IsAuthenticated reports whether a user is set.
func (a *Auth) IsAuthenticated() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.user != nil
}

// Set replaces the current user. A nil user is the same as Clear.
func (a *Auth) Set(u *model.User) {
	a.mu.Lock()
	a.user = u.Clone()
	a.mu.Unlock()
	a.notify(u)
}

// Clear unsets the current user.
func (a *Auth) Clear() {
	a.Set(nil)
}

// Subscribe registers fn to be called after every Set or Clear. Callbacks
// run on the goroutine that changed the user.
func (a *Auth) Subscribe(fn func(*model.User)) (cancel func()) {
	a.subMu.Lock()
	defer a.subMu.Unlock()
	if a.subs == nil {
		a.subs = make(map[int]func(*model.User))
	}
	id := a.nextID
	a.nextID++
	a.subs[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			a.subMu.Lock()
			delete(a.subs, id)
			a.subMu.Unlock()
		})
	}
}

func (a *Auth) notify(u *model.User) {
	a.subMu.Lock()
	fns := make([]func(*model.User), 0, len(a.subs))
	for _, fn := range a.subs {
		fns = append(fns, fn)
	}
	a.subMu.Unlock()

	for _, fn := range fns {
		fn(u.Clone())
	}
}

func (a *Auth) unsubscribeAll() {
	a.subMu.Lock()
	a.subs = nil
	a.subMu.Unlock()
}
