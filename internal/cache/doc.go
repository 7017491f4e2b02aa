// Package cache provides a small generic LRU cache.
//
// Cache uses a soft limit: when an insertion pushes it over the limit, the
// least recently used quarter of the entries is evicted in one pass, so
// eviction cost is amortized over many insertions.
//
//	c := cache.New[string, []float32](64)
//	k := c.GetOrCreate("sigma=2", func() []float32 { return build(2) })
//
// Cache is safe for concurrent use and must not be copied after creation.
package cache
