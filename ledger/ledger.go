// Package ledger implements the in-memory authorization store shared between
// the transport layer's ingestion and retrieval paths. The core treats it as
// an opaque map; this package is the one external collaborator the spec
// requires but does not itself define.
package ledger

import (
	"sort"
	"sync"

	"github.com/go-phorce/ostiarius/gatekeeper"
)

// Ledger is a UUID-keyed map of issued Authorizations, guarded by a mutex.
// There is no expiry or revocation: an entry lives for the life of the
// process once stored.
type Ledger struct {
	mu    sync.RWMutex
	byID  map[string]gatekeeper.Authorization
	order []string
}

// New returns an empty Ledger.
func New() *Ledger {
	return &Ledger{byID: map[string]gatekeeper.Authorization{}}
}

// Store records auth under its own ID. An existing entry with the same ID is
// replaced in place and keeps its original insertion position (IDs are fresh
// UUIDs per Checker.Check, so collisions are not expected).
func (l *Ledger) Store(auth gatekeeper.Authorization) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, exists := l.byID[auth.ID]; !exists {
		l.order = append(l.order, auth.ID)
	}
	l.byID[auth.ID] = auth
}

// Get returns the Authorization stored under id, or false if none exists.
func (l *Ledger) Get(id string) (gatekeeper.Authorization, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	a, ok := l.byID[id]
	return a, ok
}

// List pages the Authorizations by offset/limit over their insertion order,
// then returns that page sorted by Timestamp (stable, so equal timestamps
// keep insertion order). A non-positive limit returns everything from offset
// to the end.
func (l *Ledger) List(offset, limit int) []gatekeeper.Authorization {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if offset < 0 {
		offset = 0
	}
	if offset >= len(l.order) {
		return nil
	}
	end := len(l.order)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}

	ids := l.order[offset:end]
	out := make([]gatekeeper.Authorization, 0, len(ids))
	for _, id := range ids {
		out = append(out, l.byID[id])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out
}
