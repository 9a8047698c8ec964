package cache

// refEntry is a value together with its strong reference count.
type refEntry[V any] struct {
	value V
	refs  int
}

// RefTable is a content-addressed table of reference-counted values.
// An entry exists exactly while its count is positive.
//
// RefTable is not thread-safe; callers must handle synchronization.
type RefTable[K comparable, V any] struct {
	entries map[K]*refEntry[V]
	onFree  func(K, V)

	acquires uint64
	inserts  uint64
	frees    uint64
}

// NewRefTable creates an empty table. onFree, if non-nil, is called with
// the key and value of every entry whose count drops to zero.
func NewRefTable[K comparable, V any](onFree func(K, V)) *RefTable[K, V] {
	return &RefTable[K, V]{
		entries: make(map[K]*refEntry[V]),
		onFree:  onFree,
	}
}

// Acquire returns the value stored under key and adds a reference to it.
// Returns (zero, false) and leaves the table unchanged if key is absent.
func (t *RefTable[K, V]) Acquire(key K) (V, bool) {
	e, ok := t.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	e.refs++
	t.acquires++
	return e.value, true
}

// Insert stores value under key with a count of 1 and returns it. If key is
// already present the existing value gains a reference and is returned
// instead, so one key never maps to two values.
func (t *RefTable[K, V]) Insert(key K, value V) V {
	if e, ok := t.entries[key]; ok {
		e.refs++
		t.acquires++
		return e.value
	}
	t.entries[key] = &refEntry[V]{value: value, refs: 1}
	t.inserts++
	return value
}

// Release drops one reference to key and returns the remaining count.
// When the count reaches zero the entry is removed and onFree is called.
// Releasing an absent key is a no-op that returns 0.
func (t *RefTable[K, V]) Release(key K) int {
	e, ok := t.entries[key]
	if !ok {
		return 0
	}
	e.refs--
	if e.refs > 0 {
		return e.refs
	}
	delete(t.entries, key)
	t.frees++
	if t.onFree != nil {
		t.onFree(key, e.value)
	}
	return 0
}

// Refs returns the current count for key, or 0 if it is absent.
func (t *RefTable[K, V]) Refs(key K) int {
	if e, ok := t.entries[key]; ok {
		return e.refs
	}
	return 0
}

// Len returns the number of live entries.
func (t *RefTable[K, V]) Len() int {
	return len(t.entries)
}

// Clear drops every entry regardless of its count, calling onFree for each.
func (t *RefTable[K, V]) Clear() {
	for k, e := range t.entries {
		delete(t.entries, k)
		t.frees++
		if t.onFree != nil {
			t.onFree(k, e.value)
		}
	}
}

// Stats returns table statistics.
func (t *RefTable[K, V]) Stats() RefStats {
	return RefStats{
		Live:     len(t.entries),
		Acquires: t.acquires,
		Inserts:  t.inserts,
		Frees:    t.frees,
	}
}

// RefStats contains RefTable statistics.
type RefStats struct {
	// Live is the number of entries with a positive count.
	Live int
	// Acquires counts references added to existing entries.
	Acquires uint64
	// Inserts counts entries created.
	Inserts uint64
	// Frees counts entries removed.
	Frees uint64
}
