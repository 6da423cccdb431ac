package entity

import (
	"reflect"
	"sync"

	"golang.org/x/sync/errgroup"

	dbtypes "github.com/digit-health/dtoquery/database/types"
	"github.com/digit-health/dtoquery/internal/reflection"
)

// Registry maintains a cache of entity metadata per database vendor.
// It uses lazy initialization: struct types are parsed on first use and cached forever.
//
// Thread-safety: each type is parsed at most once per vendor, even under concurrent
// first use; afterwards lookups are lock-free reads from a sync.Map.
type Registry struct {
	mu           sync.RWMutex
	vendorCaches map[string]*vendorCache
}

// vendorCache holds entity metadata for a specific database vendor.
// The cache is keyed by reflect.Type to ensure type-safe lookups.
type vendorCache struct {
	vendor string
	cache  sync.Map // map[reflect.Type]*cacheEntry
}

// cacheEntry is populated exactly once. Parse errors are cached as well since
// parsing is a pure function of the type.
type cacheEntry struct {
	once     sync.Once
	metadata *Metadata
	err      error
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{vendorCaches: make(map[string]*vendorCache)}
}

// Global registry instance (singleton pattern)
var globalRegistry = NewRegistry()

// Default returns the process-wide registry.
func Default() *Registry {
	return globalRegistry
}

// Of returns metadata for the type of v, which may be a struct, a pointer to a
// struct (nil pointers are fine), or a reflect.Type.
func (r *Registry) Of(vendor string, v any) (*Metadata, error) {
	if v == nil {
		return nil, dbtypes.NewError(dbtypes.KindInvalidEntity, "", "entity is nil")
	}

	return r.Get(vendor, reflection.TypeOf(v))
}

// Get retrieves metadata for a struct type, lazily parsing on first use.
// Subsequent calls with the same type and vendor return the cached metadata.
func (r *Registry) Get(vendor string, t reflect.Type) (*Metadata, error) {
	cache := r.getOrCreateVendorCache(vendor)

	// Fast path: entry already exists (lock-free read after first write)
	raw, ok := cache.cache.Load(t)
	if !ok {
		// LoadOrStore guarantees all concurrent first callers share one entry
		raw, _ = cache.cache.LoadOrStore(t, &cacheEntry{})
	}

	entry := raw.(*cacheEntry)
	entry.once.Do(func() {
		entry.metadata, entry.err = parseStruct(vendor, t)
	})
	return entry.metadata, entry.err
}

// Warm parses the given entities concurrently so later lookups never pay the
// reflection cost. It returns the first parse error encountered.
func (r *Registry) Warm(vendor string, entities ...any) error {
	var g errgroup.Group
	for _, e := range entities {
		g.Go(func() error {
			_, err := r.Of(vendor, e)
			return err
		})
	}
	return g.Wait()
}

// getOrCreateVendorCache retrieves or creates a vendor-specific cache.
// Uses double-checked locking pattern for thread-safe lazy initialization.
func (r *Registry) getOrCreateVendorCache(vendor string) *vendorCache {
	// Fast path: check if cache exists (read lock)
	r.mu.RLock()
	cache, ok := r.vendorCaches[vendor]
	r.mu.RUnlock()

	if ok {
		return cache
	}

	// Slow path: create new cache (write lock)
	r.mu.Lock()
	defer r.mu.Unlock()

	// Double-check: another goroutine might have created it
	if cache, ok := r.vendorCaches[vendor]; ok {
		return cache
	}

	cache = &vendorCache{vendor: vendor}
	r.vendorCaches[vendor] = cache

	return cache
}

// Clear removes all cached metadata (useful for testing).
// WARNING: Only call this in tests, not production code.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.vendorCaches = make(map[string]*vendorCache)
}
