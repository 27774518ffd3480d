package treelate

import (
	"context"
	"log"
	"os"
	"sync"
)

// Mirror keeps an in-memory copy of a Store and reconciles it with the
// durable copy before every read and before every write decision, so
// manual edits made directly to storage are observed promptly.
//
// The in-memory structure is the source of truth between saves; on every
// persist the on-disk copy is merged in (MergeStores) and both sides are
// reloaded to match.
type Mirror struct {
	store  Store
	logger *log.Logger

	mu   sync.Mutex
	data TranslationStore

	// ready is closed once the initial load completes. Every public
	// method joins on it, so no operation observes a partially
	// initialized mirror.
	ready chan struct{}
}

// NewMirror creates a Mirror backed by the given store and starts loading
// it in the background.
func NewMirror(store Store) *Mirror {
	m := &Mirror{
		store:  store,
		logger: log.New(os.Stderr, "[mirror] ", log.LstdFlags),
		data:   TranslationStore{},
		ready:  make(chan struct{}),
	}
	go m.init()
	return m
}

func (m *Mirror) init() {
	data, err := m.store.Load()
	m.mu.Lock()
	if err != nil {
		// Unreadable storage is treated as no existing data.
		m.logger.Printf("initial load failed, starting empty: %v", err)
	} else if data != nil {
		m.data = data
	}
	m.mu.Unlock()
	close(m.ready)
}

// wait blocks until initialization finishes or the context is done.
func (m *Mirror) wait(ctx context.Context) error {
	select {
	case <-m.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// reconcile re-reads the store and overwrites any in-memory value that
// differs from the on-disk one. Disk is authoritative for keys it holds.
// A failed read is logged and left alone. Caller must hold m.mu.
func (m *Mirror) reconcile() {
	disk, err := m.store.Load()
	if err != nil {
		m.logger.Printf("reconcile skipped: %v", err)
		return
	}
	for lang, bucket := range disk {
		for text, v := range bucket {
			if cur, ok := m.data.Lookup(lang, text); !ok || cur != v {
				m.data.Set(lang, text, v)
			}
		}
	}
}

// Lookup returns the translation for (text, lang), reconciling with the
// store first.
func (m *Mirror) Lookup(ctx context.Context, text, lang string) (string, bool, error) {
	if err := m.wait(ctx); err != nil {
		return "", false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reconcile()
	v, ok := m.data.Lookup(lang, text)
	return v, ok, nil
}

// Upsert stores a translation and persists the result. Automated writes
// (userModified=false) never overwrite an existing value; user-modified
// writes always win. A suppressed write leaves both cache and store
// untouched.
func (m *Mirror) Upsert(ctx context.Context, text, lang, value string, userModified bool) error {
	if err := m.wait(ctx); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reconcile()

	if _, exists := m.data.Lookup(lang, text); exists && !userModified {
		return nil
	}
	m.data.Set(lang, text, value)
	return m.persist()
}

// persist merges the in-memory store over the current on-disk contents,
// rewrites the whole document, then reloads so cache and store agree.
// Caller must hold m.mu.
func (m *Mirror) persist() error {
	disk, err := m.store.Load()
	if err != nil {
		m.logger.Printf("persist: reading current store failed, merging over empty: %v", err)
		disk = TranslationStore{}
	}
	merged := MergeStores(disk, m.data)
	if err := m.store.Save(merged); err != nil {
		return err
	}

	fresh, err := m.store.Load()
	if err != nil {
		m.logger.Printf("persist: reload failed, keeping merged copy: %v", err)
		m.data = merged
		return nil
	}
	m.data = fresh
	return nil
}

// Snapshot returns a copy of the current in-memory store. It does not
// reconcile; it reflects whatever the last operation left behind.
func (m *Mirror) Snapshot(ctx context.Context) (TranslationStore, error) {
	if err := m.wait(ctx); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.Clone(), nil
}

// SetLogger replaces the mirror's logger. Useful for silencing it in
// tests.
func (m *Mirror) SetLogger(l *log.Logger) {
	m.logger = l
}
