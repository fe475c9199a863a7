package folio

import "sync"

// positionLocks hands out one mutex per position id, created lazily. Holding
// the position's mutex serializes every trade against that position in this
// process, concurrent trades on different positions proceed in parallel.
type positionLocks struct {
	mu    sync.RWMutex
	locks map[string]*sync.Mutex
}

func newPositionLocks() *positionLocks {
	return &positionLocks{locks: make(map[string]*sync.Mutex)}
}

func (l *positionLocks) get(id string) *sync.Mutex {
	l.mu.RLock()
	m, ok := l.locks[id]
	l.mu.RUnlock()
	if ok {
		return m
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if m, ok = l.locks[id]; ok {
		return m
	}
	m = &sync.Mutex{}
	l.locks[id] = m
	return m
}

// Lock acquires the mutex for a position id.
func (l *positionLocks) Lock(id string) { l.get(id).Lock() }

// Unlock releases the mutex for a position id.
func (l *positionLocks) Unlock(id string) { l.get(id).Unlock() }
