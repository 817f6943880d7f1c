package session

import "sync"

// LockManager serializes per-session turn processing.
type LockManager struct {
	locks map[string]*sync.Mutex
	mu    sync.Mutex
}

func NewLockManager() *LockManager {
	return &LockManager{
		locks: make(map[string]*sync.Mutex),
	}
}

func (m *LockManager) Lock(sessionID string) {
	m.mu.Lock()
	lock, ok := m.locks[sessionID]
	if !ok {
		lock = &sync.Mutex{}
		m.locks[sessionID] = lock
	}
	m.mu.Unlock()
	lock.Lock()
}

func (m *LockManager) Unlock(sessionID string) {
	m.mu.Lock()
	lock, ok := m.locks[sessionID]
	if ok {
		lock.Unlock()
	}
	m.mu.Unlock()
}

// Forget drops the entry for a session the store has swept. A lock
// still held by an in-flight turn stays; a later sweep catches it.
func (m *LockManager) Forget(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if lock, ok := m.locks[sessionID]; ok && lock.TryLock() {
		delete(m.locks, sessionID)
		lock.Unlock()
	}
}

func (m *LockManager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.locks)
}
