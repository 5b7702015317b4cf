// Package idmap maps backend-native string identifiers to the small
// sequential integer ids exposed by the application.
package idmap

import "sync"

// Table is a bidirectional, injective mapping between integer ids and native
// ids. Integers come from a monotonically increasing counter and are never
// handed out twice, even after Remove or Reset. The table lives in memory
// only. It is safe for concurrent use.
type Table struct {
	mu       sync.RWMutex
	next     int
	byInt    map[int]string
	byNative map[string]int
}

func New() *Table {
	return &Table{
		next:     1,
		byInt:    make(map[int]string),
		byNative: make(map[string]int),
	}
}

// Assign returns the integer id for native, allocating the next one if native
// has not been seen before.
func (t *Table) Assign(native string) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	if id, ok := t.byNative[native]; ok {
		return id
	}
	id := t.next
	t.next++
	t.byInt[id] = native
	t.byNative[native] = id
	return id
}

func (t *Table) LookupNative(id int) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	native, ok := t.byInt[id]
	return native, ok
}

func (t *Table) LookupInteger(native string) (int, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	id, ok := t.byNative[native]
	return id, ok
}

// Remove forgets id. Other mappings are unaffected.
func (t *Table) Remove(id int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if native, ok := t.byInt[id]; ok {
		delete(t.byNative, native)
		delete(t.byInt, id)
	}
}

// Reset drops every mapping but keeps the counter.
func (t *Table) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.byInt = make(map[int]string)
	t.byNative = make(map[string]int)
}

func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.byInt)
}
