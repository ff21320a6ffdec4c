package cache

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/example/room-booking/internal/calendar"
)

const (
	defaultTTL        = 30 * time.Second
	defaultMaxEntries = 128
)

// Memory is a process-local availability cache with per-entry expiry.
type Memory struct {
	mu         sync.RWMutex
	now        func() time.Time
	ttl        time.Duration
	maxEntries int
	entries    map[calendar.Date]memoryEntry
}

type memoryEntry struct {
	roomIDs   []string
	expiresAt time.Time
}

// NewMemory returns a cache whose entries live for ttl. Non-positive values
// fall back to 30s and 128 entries.
func NewMemory(ttl time.Duration, maxEntries int, now func() time.Time) *Memory {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	if maxEntries <= 0 {
		maxEntries = defaultMaxEntries
	}
	if now == nil {
		now = time.Now
	}
	return &Memory{
		now:        now,
		ttl:        ttl,
		maxEntries: maxEntries,
		entries:    make(map[calendar.Date]memoryEntry),
	}
}

// ReservedRooms returns a copy of the cached ids for date.
func (c *Memory) ReservedRooms(_ context.Context, date calendar.Date) ([]string, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	c.mu.RLock()
	entry, ok := c.entries[date]
	c.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if c.now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, date)
		c.mu.Unlock()
		return nil, false, nil
	}
	return cloneIDs(entry.roomIDs), true, nil
}

// StoreReservedRooms caches ids for date, evicting an entry when full.
func (c *Memory) StoreReservedRooms(_ context.Context, date calendar.Date, roomIDs []string) error {
	if c == nil {
		return nil
	}
	cloned := cloneIDs(roomIDs)
	expiry := c.now().Add(c.ttl)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.cleanupLocked()
	if _, exists := c.entries[date]; !exists && len(c.entries) >= c.maxEntries {
		c.evictOneLocked()
	}
	c.entries[date] = memoryEntry{roomIDs: cloned, expiresAt: expiry}
	return nil
}

// Invalidate drops the entry for date.
func (c *Memory) Invalidate(_ context.Context, date calendar.Date) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	delete(c.entries, date)
	c.mu.Unlock()
	return nil
}

// Len reports the number of entries, expired ones included.
func (c *Memory) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *Memory) cleanupLocked() {
	now := c.now()
	for date, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, date)
		}
	}
}

// evictOneLocked removes the entry closest to expiry.
func (c *Memory) evictOneLocked() {
	var (
		victim calendar.Date
		oldest time.Time
		found  bool
	)
	for date, entry := range c.entries {
		if !found || entry.expiresAt.Before(oldest) {
			victim, oldest, found = date, entry.expiresAt, true
		}
	}
	if found {
		delete(c.entries, victim)
	}
}

// cloneIDs returns a non-nil copy so that an empty result still counts as a hit.
func cloneIDs(ids []string) []string {
	if len(ids) == 0 {
		return []string{}
	}
	return slices.Clone(ids)
}
