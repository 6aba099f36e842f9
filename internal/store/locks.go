package store

import "sync"

// lockTable hands out one RWMutex per collection name. Transactions lock
// their whole scope up front in sorted order, so two transactions sharing a
// collection serialise while disjoint ones run side by side, and lock order
// can never cycle.
type lockTable struct {
	mu    sync.Mutex
	locks map[string]*sync.RWMutex
}

func newLockTable() *lockTable {
	return &lockTable{locks: make(map[string]*sync.RWMutex)}
}

func (t *lockTable) get(name string) *sync.RWMutex {
	t.mu.Lock()
	defer t.mu.Unlock()
	l, ok := t.locks[name]
	if !ok {
		l = &sync.RWMutex{}
		t.locks[name] = l
	}
	return l
}

// acquire locks names, which must be sorted, and returns the matching unlock.
func (t *lockTable) acquire(names []string, write bool) func() {
	held := make([]*sync.RWMutex, 0, len(names))
	for _, n := range names {
		l := t.get(n)
		if write {
			l.Lock()
		} else {
			l.RLock()
		}
		held = append(held, l)
	}
	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			if write {
				held[i].Unlock()
			} else {
				held[i].RUnlock()
			}
		}
	}
}
