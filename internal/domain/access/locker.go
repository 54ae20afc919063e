package access

import (
	"context"
	"sync"
)

// Locker serializa la emisión por tupla. El store igual garantiza la unicidad;
// el lock evita que dos requests compitan y uno termine en Conflict.
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

// keyedLocker es el default in-process: un mutex por clave, con refcount para liberar el mapa.
type keyedLocker struct {
	mu    sync.Mutex
	locks map[string]*keyedEntry
}

type keyedEntry struct {
	ch   chan struct{}
	refs int
}

func NewKeyedLocker() Locker {
	return &keyedLocker{locks: map[string]*keyedEntry{}}
}

func (l *keyedLocker) Lock(ctx context.Context, key string) (func(), error) {
	l.mu.Lock()
	e, ok := l.locks[key]
	if !ok {
		e = &keyedEntry{ch: make(chan struct{}, 1)}
		l.locks[key] = e
	}
	e.refs++
	l.mu.Unlock()

	select {
	case e.ch <- struct{}{}:
	case <-ctx.Done():
		l.release(key, e)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-e.ch
			l.release(key, e)
		})
	}, nil
}

func (l *keyedLocker) release(key string, e *keyedEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e.refs--
	if e.refs == 0 {
		delete(l.locks, key)
	}
}
