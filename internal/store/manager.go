package store

import (
	"context"
	"sync"
)

// Manager establishes the store connection at most once per process and
// hands the same handle to every caller. Callers that arrive before the
// first attempt completes share that attempt; a failed attempt fails every
// later caller too, since no automatic retry is performed.
type Manager struct {
	connect func(ctx context.Context) (*Store, error)

	once  sync.Once
	store *Store
	err   error
}

// NewManager returns a Manager that will dial the given URI and use the
// named logical database on first access.
func NewManager(uri, dbName string) *Manager {
	return &Manager{
		connect: func(ctx context.Context) (*Store, error) {
			return connect(ctx, uri, dbName)
		},
	}
}

// Store returns the shared handle, dialing on first use.
func (m *Manager) Store(ctx context.Context) (*Store, error) {
	m.once.Do(func() {
		m.store, m.err = m.connect(ctx)
	})
	return m.store, m.err
}
