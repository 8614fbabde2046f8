// Package userlock hands out exclusive per-user locks so read-modify-write cycles
// on one user's wallet never interleave. Within a process a semaphore per user
// serializes callers; with a lock directory an advisory file lock per user also
// excludes other processes sharing the same data directory.
package userlock

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"fjacquet/finance-ledger/internal/ledgererror"

	"github.com/gofrs/flock"
	"golang.org/x/sync/semaphore"
)

// LockFileSuffix names the per-user lock files in the lock directory.
const LockFileSuffix = "_wallet.lock"

const retryDelay = 10 * time.Millisecond

type entry struct {
	sem  *semaphore.Weighted
	refs int
}

type held struct {
	key  string
	file *flock.Flock
}

// Option configures a Manager.
type Option func(*Manager)

// WithLockDir makes every lock also take <dir>/<username>_wallet.lock.
func WithLockDir(dir string) Option {
	return func(m *Manager) { m.dir = dir }
}

// Manager owns one weight-1 semaphore per username in use. Entries are dropped
// once nobody holds or waits for them.
type Manager struct {
	dir string

	mu      sync.Mutex
	entries map[string]*entry
}

// NewManager returns an empty Manager. Without WithLockDir it only excludes
// callers in the same process.
func NewManager(opts ...Option) *Manager {
	m := &Manager{entries: make(map[string]*entry)}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Lock acquires the locks for all usernames, blocking until they are free or ctx is done.
// Names are trimmed, deduplicated and taken in sorted order, so two callers locking the
// same pair never deadlock. The returned function releases everything exactly once.
func (m *Manager) Lock(ctx context.Context, usernames ...string) (func(), error) {
	keys := normalize(usernames)
	if m.dir != "" {
		for _, key := range keys {
			if strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
				return nil, ledgererror.Invalid("username", fmt.Sprintf("cannot lock %q", key))
			}
		}
		if err := os.MkdirAll(m.dir, 0755); err != nil {
			return nil, fmt.Errorf("create lock directory: %w", err)
		}
	}

	acquired := make([]held, 0, len(keys))
	release := func() {
		for i := len(acquired) - 1; i >= 0; i-- {
			m.unlock(acquired[i])
		}
	}

	for _, key := range keys {
		h, err := m.lock(ctx, key)
		if err != nil {
			release()
			return nil, err
		}
		acquired = append(acquired, h)
	}

	var once sync.Once
	return func() { once.Do(release) }, nil
}

// Held reports how many usernames currently have a lock entry.
func (m *Manager) Held() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// LockPath returns the lock file used for username, or "" without a lock directory.
func (m *Manager) LockPath(username string) string {
	if m.dir == "" {
		return ""
	}
	return filepath.Join(m.dir, strings.TrimSpace(username)+LockFileSuffix)
}

func (m *Manager) lock(ctx context.Context, key string) (held, error) {
	e := m.retain(key)
	if err := e.sem.Acquire(ctx, 1); err != nil {
		m.drop(key)
		return held{}, err
	}
	h := held{key: key}
	if m.dir == "" {
		return h, nil
	}

	h.file = flock.New(m.LockPath(key))
	ok, err := h.file.TryLockContext(ctx, retryDelay)
	if err == nil && !ok {
		err = fmt.Errorf("lock file %s not acquired", h.file.Path())
	}
	if err != nil {
		e.sem.Release(1)
		m.drop(key)
		return held{}, err
	}
	return h, nil
}

func (m *Manager) unlock(h held) {
	if h.file != nil {
		_ = h.file.Unlock()
	}
	m.release(h.key)
}

func (m *Manager) retain(key string) *entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok {
		e = &entry{sem: semaphore.NewWeighted(1)}
		m.entries[key] = e
	}
	e.refs++
	return e
}

func (m *Manager) release(key string) {
	m.mu.Lock()
	e := m.entries[key]
	m.mu.Unlock()
	e.sem.Release(1)
	m.drop(key)
}

func (m *Manager) drop(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok {
		return
	}
	e.refs--
	if e.refs == 0 {
		delete(m.entries, key)
	}
}

func normalize(usernames []string) []string {
	seen := make(map[string]bool, len(usernames))
	keys := make([]string, 0, len(usernames))
	for _, u := range usernames {
		u = strings.TrimSpace(u)
		if u == "" || seen[u] {
			continue
		}
		seen[u] = true
		keys = append(keys, u)
	}
	sort.Strings(keys)
	return keys
}
