package cache

import "testing"

func TestRefTable_InsertAcquireRelease(t *testing.T) {
	var freed []string
	tbl := NewRefTable(func(k string, _ int) { freed = append(freed, k) })

	if _, ok := tbl.Acquire("a"); ok {
		t.Fatal("Acquire() on empty table returned ok")
	}
	if got := tbl.Insert("a", 1); got != 1 {
		t.Errorf("Insert() = %d, want 1", got)
	}
	if v, ok := tbl.Acquire("a"); !ok || v != 1 {
		t.Errorf("Acquire() = %d, %v, want 1, true", v, ok)
	}
	if got := tbl.Refs("a"); got != 2 {
		t.Errorf("Refs() = %d, want 2", got)
	}

	if got := tbl.Release("a"); got != 1 {
		t.Errorf("Release() = %d, want 1", got)
	}
	if len(freed) != 0 {
		t.Errorf("freed = %v before count reached zero", freed)
	}
	if got := tbl.Release("a"); got != 0 {
		t.Errorf("Release() = %d, want 0", got)
	}
	if len(freed) != 1 || freed[0] != "a" {
		t.Errorf("freed = %v, want [a]", freed)
	}
	if tbl.Len() != 0 {
		t.Errorf("Len() = %d, want 0", tbl.Len())
	}

	// Releasing again must not go negative or free twice.
	if got := tbl.Release("a"); got != 0 {
		t.Errorf("Release() on absent key = %d, want 0", got)
	}
	if len(freed) != 1 {
		t.Errorf("freed twice: %v", freed)
	}
}

func TestRefTable_InsertExistingShares(t *testing.T) {
	tbl := NewRefTable[string, *int](nil)
	first := new(int)
	second := new(int)

	tbl.Insert("k", first)
	if got := tbl.Insert("k", second); got != first {
		t.Error("Insert() on existing key did not return the stored value")
	}
	if got := tbl.Refs("k"); got != 2 {
		t.Errorf("Refs() = %d, want 2", got)
	}
	if tbl.Len() != 1 {
		t.Errorf("Len() = %d, want 1", tbl.Len())
	}
}

func TestRefTable_NInsertsOneSurvivor(t *testing.T) {
	tbl := NewRefTable[int, string](nil)
	const n = 5
	tbl.Insert(7, "frame")
	for range n - 1 {
		tbl.Acquire(7)
	}
	for range n - 1 {
		tbl.Release(7)
	}
	if tbl.Len() != 1 || tbl.Refs(7) != 1 {
		t.Errorf("Len() = %d, Refs() = %d, want 1, 1", tbl.Len(), tbl.Refs(7))
	}
	tbl.Release(7)
	if tbl.Len() != 0 || tbl.Refs(7) != 0 {
		t.Errorf("after last release Len() = %d, Refs() = %d, want 0, 0", tbl.Len(), tbl.Refs(7))
	}

	s := tbl.Stats()
	if s.Inserts != 1 || s.Acquires != n-1 || s.Frees != 1 || s.Live != 0 {
		t.Errorf("Stats() = %+v", s)
	}
}

func TestRefTable_Clear(t *testing.T) {
	count := 0
	tbl := NewRefTable(func(int, int) { count++ })
	tbl.Insert(1, 1)
	tbl.Insert(2, 2)
	tbl.Acquire(2)
	tbl.Clear()
	if count != 2 || tbl.Len() != 0 {
		t.Errorf("Clear() freed %d, Len() = %d, want 2, 0", count, tbl.Len())
	}
	if got := tbl.Refs(2); got != 0 {
		t.Errorf("Refs(2) after Clear = %d, want 0", got)
	}
}
