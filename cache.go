package strptime

import (
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"
)

// onceCache memoizes values by key. Concurrent misses on the same key share a
// single build; failed builds are not stored.
type onceCache[V any] struct {
	mu      sync.RWMutex
	entries map[string]V
	group   singleflight.Group
}

func newOnceCache[V any]() *onceCache[V] {
	return &onceCache[V]{entries: make(map[string]V)}
}

func (c *onceCache[V]) get(key string) (V, bool) {
	c.mu.RLock()
	value, ok := c.entries[key]
	c.mu.RUnlock()
	return value, ok
}

func (c *onceCache[V]) load(key string, build func() (V, error)) (V, bool, error) {
	if value, ok := c.get(key); ok {
		return value, true, nil
	}

	out, err, _ := c.group.Do(key, func() (any, error) {
		if value, ok := c.get(key); ok {
			return value, nil
		}
		value, err := build()
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.entries[key] = value
		c.mu.Unlock()
		return value, nil
	})
	if err != nil {
		var zero V
		return zero, false, err
	}
	return out.(V), false, nil
}

func (c *onceCache[V]) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *onceCache[V]) reset() {
	c.mu.Lock()
	c.entries = make(map[string]V)
	c.mu.Unlock()
}

// FormatCache holds compiled formats keyed by format string and locale. It
// never evicts; the set of formats a program uses is small and fixed.
type FormatCache struct {
	cache *onceCache[*CompiledFormat]
}

// NewFormatCache returns an empty cache.
func NewFormatCache() *FormatCache {
	return &FormatCache{cache: newOnceCache[*CompiledFormat]()}
}

// Get returns the cached compilation of format against re, calling compile
// on a miss. Entries are keyed by the harvest behind re, so a locale that was
// invalidated and harvested again never reuses patterns built from its old
// names. The boolean reports a cache hit.
func (c *FormatCache) Get(format string, re *TimeRE, compile func() (*CompiledFormat, error)) (*CompiledFormat, bool, error) {
	return c.cache.load(formatKey(format, re), compile)
}

// Len reports the number of cached compilations.
func (c *FormatCache) Len() int { return c.cache.len() }

// Invalidate drops every cached compilation.
func (c *FormatCache) Invalidate() { c.cache.reset() }

func formatKey(format string, re *TimeRE) string {
	return re.locale.lang + "\x00" + strconv.FormatUint(re.generation, 10) + "\x00" + format
}

// LocaleCache holds one TimeRE per locale identifier so each locale is
// harvested at most once.
type LocaleCache struct {
	cache *onceCache[*TimeRE]
}

// NewLocaleCache returns an empty cache.
func NewLocaleCache() *LocaleCache {
	return &LocaleCache{cache: newOnceCache[*TimeRE]()}
}

// Get returns the TimeRE for lang, calling build on a miss. The boolean
// reports a cache hit.
func (c *LocaleCache) Get(lang string, build func() (*TimeRE, error)) (*TimeRE, bool, error) {
	return c.cache.load(lang, build)
}

func (c *LocaleCache) Len() int { return c.cache.len() }

// Invalidate drops every harvested locale, forcing a fresh harvest on the
// next parse. Formats compiled against the dropped tables are left in their
// FormatCache but are no longer reachable.
func (c *LocaleCache) Invalidate() { c.cache.reset() }
