package application

import (
	"sync"
	"time"
)

// availabilityCache stores recently computed day availabilities to avoid
// re-running slot computation for identical queries while the underlying
// bookings remain unchanged. Any write to the appointment table invalidates
// the whole cache.
type availabilityCache struct {
	mu         sync.RWMutex
	now        func() time.Time
	ttl        time.Duration
	maxEntries int
	entries    map[string]availabilityCacheEntry
}

type availabilityCacheEntry struct {
	day       DayAvailability
	expiresAt time.Time
}

func newAvailabilityCache(ttl time.Duration, maxEntries int, now func() time.Time) *availabilityCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	if maxEntries <= 0 {
		maxEntries = 256
	}
	if now == nil {
		now = time.Now
	}
	return &availabilityCache{
		now:        now,
		ttl:        ttl,
		maxEntries: maxEntries,
		entries:    make(map[string]availabilityCacheEntry),
	}
}

func (c *availabilityCache) Get(key string) (DayAvailability, bool) {
	if c == nil {
		return DayAvailability{}, false
	}
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return DayAvailability{}, false
	}
	if c.now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return DayAvailability{}, false
	}
	return cloneDay(entry.day), true
}

func (c *availabilityCache) Store(key string, day DayAvailability) {
	if c == nil {
		return
	}
	cloned := cloneDay(day)
	expiry := c.now().Add(c.ttl)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.cleanupLocked()
	if len(c.entries) >= c.maxEntries {
		c.evictOneLocked()
	}
	c.entries[key] = availabilityCacheEntry{day: cloned, expiresAt: expiry}
}

func (c *availabilityCache) Invalidate() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.entries = make(map[string]availabilityCacheEntry)
	c.mu.Unlock()
}

func (c *availabilityCache) cleanupLocked() {
	threshold := c.now()
	for key, entry := range c.entries {
		if threshold.After(entry.expiresAt) {
			delete(c.entries, key)
		}
	}
}

// evictOneLocked drops the entry closest to expiry.
func (c *availabilityCache) evictOneLocked() {
	var victim string
	var earliest time.Time
	for key, entry := range c.entries {
		if victim == "" || entry.expiresAt.Before(earliest) {
			victim = key
			earliest = entry.expiresAt
		}
	}
	if victim != "" {
		delete(c.entries, victim)
	}
}

func cloneDay(day DayAvailability) DayAvailability {
	cloned := day
	if day.Slots != nil {
		cloned.Slots = make([]TimeSlot, len(day.Slots))
		copy(cloned.Slots, day.Slots)
	}
	return cloned
}
