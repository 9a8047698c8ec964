// Package cache provides the generic containers behind the frame cache and
// the render queue.
//
// # RefTable[K, V]
//
// A content-addressed table with explicit strong reference counts. Acquire
// bumps the count of an existing entry, Insert registers a new one with a
// count of 1, and Release drops a reference, removing the entry as soon as
// the count reaches zero. There are no weak references: a key is present in
// the table exactly while its count is positive.
//
//	t := cache.NewRefTable[string, *Frame](nil)
//	if f, ok := t.Acquire(key); ok {
//	    return f
//	}
//	t.Insert(key, render())
//
// # List[K]
//
// A keyed doubly linked list with O(1) lookup, removal and front insertion,
// plus ordered insertion. The render queue uses it as a priority queue in
// which every key appears at most once.
//
// # Cache[K, V]
//
// A thread-safe LRU cache with a soft limit, used for derived data that can
// always be recomputed (scaled layer buffers).
//
// # Thread Safety
//
// Cache is safe for concurrent use. RefTable and List are not; their owners
// guard them with a single mutex so that table and per-position state change
// together.
package cache
