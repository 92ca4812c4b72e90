package cache

import (
	"time"

	"github.com/puzpuzpuz/xsync/v3"
)

type entry struct {
	value     any
	expiresAt time.Time // zero value means "never expires"
}

func (e entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// Memory is the in-memory reference Cache implementation. It is safe for
// concurrent read/write, backed by a lock-free concurrent map rather than a
// hand-rolled mutex, and evicts expired entries lazily on read — there is
// no background sweep.
type Memory struct {
	entries *xsync.MapOf[string, entry]
}

// NewMemory returns an empty Memory cache.
func NewMemory() *Memory {
	return &Memory{entries: xsync.NewMapOf[string, entry]()}
}

var _ Cache = (*Memory)(nil)

func (m *Memory) Get(key string) (any, bool) {
	e, ok := m.entries.Load(key)
	if !ok {
		return nil, false
	}
	if e.expired(time.Now()) {
		m.entries.Delete(key)
		return nil, false
	}
	return e.value, true
}

func (m *Memory) Set(key string, value any, ttl time.Duration) {
	e := entry{value: value}
	if ttl > 0 {
		e.expiresAt = time.Now().Add(ttl)
	}
	m.entries.Store(key, e)
}

func (m *Memory) Delete(key string) {
	m.entries.Delete(key)
}
