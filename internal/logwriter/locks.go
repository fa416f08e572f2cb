package logwriter

import "sync"

type pathLock struct {
	mu   sync.Mutex
	refs int
}

// lockRegistry hands out one mutex per path and forgets it once no caller
// holds or waits on it, so the map only grows with concurrent activity.
type lockRegistry struct {
	mu    sync.Mutex
	locks map[string]*pathLock
}

func newLockRegistry() *lockRegistry {
	return &lockRegistry{
		locks: make(map[string]*pathLock),
	}
}

func (r *lockRegistry) acquire(path string) *pathLock {
	r.mu.Lock()
	l, exists := r.locks[path]
	if !exists {
		l = &pathLock{}
		r.locks[path] = l
	}
	l.refs++
	r.mu.Unlock()

	l.mu.Lock()
	return l
}

func (r *lockRegistry) release(path string, l *pathLock) {
	l.mu.Unlock()

	r.mu.Lock()
	l.refs--
	if l.refs == 0 {
		delete(r.locks, path)
	}
	r.mu.Unlock()
}

func (r *lockRegistry) size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.locks)
}
