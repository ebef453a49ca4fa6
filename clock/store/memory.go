// Package store provides Store implementations.
package store

import (
	"context"
	"sync"

	"github.com/warp/timeclock/clock"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

// Memory keeps workers and their state in maps, guarded by a mutex.
// It implements clock.WatchStore: every successful save notifies the
// registered subscribers after the lock is released.
type Memory struct {
	mu       sync.RWMutex
	workers  map[clock.WorkerID]clock.Worker
	order    []clock.WorkerID // creation order for LoadWorkers
	states   map[clock.WorkerID]*clock.WorkerState
	watchers watchers
}

type watchers struct {
	nextID  int
	workers map[int]func([]clock.Worker)
	states  map[int]stateWatcher
}

type stateWatcher struct {
	id clock.WorkerID
	fn func(*clock.WorkerState)
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		workers: make(map[clock.WorkerID]clock.Worker),
		states:  make(map[clock.WorkerID]*clock.WorkerState),
		watchers: watchers{
			workers: make(map[int]func([]clock.Worker)),
			states:  make(map[int]stateWatcher),
		},
	}
}

var _ clock.WatchStore = (*Memory)(nil)

// =============================================================================
// WORKERS
// =============================================================================

func (m *Memory) LoadWorkers(_ context.Context) ([]clock.Worker, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.workersLocked(), nil
}

func (m *Memory) workersLocked() []clock.Worker {
	out := make([]clock.Worker, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.workers[id])
	}
	return out
}

func (m *Memory) GetWorker(_ context.Context, id clock.WorkerID) (*clock.Worker, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	w, ok := m.workers[id]
	if !ok {
		return nil, clock.ErrWorkerNotFound
	}
	return &w, nil
}

func (m *Memory) SaveWorker(_ context.Context, w clock.Worker) error {
	m.mu.Lock()
	if _, exists := m.workers[w.ID]; !exists {
		m.order = append(m.order, w.ID)
	}
	m.workers[w.ID] = w
	fns, snapshot := m.workerWatchersLocked()
	m.mu.Unlock()

	for _, fn := range fns {
		fn(snapshot)
	}
	return nil
}

func (m *Memory) DeleteWorker(_ context.Context, id clock.WorkerID) error {
	m.mu.Lock()
	if _, exists := m.workers[id]; !exists {
		m.mu.Unlock()
		return nil
	}
	delete(m.workers, id)
	for i, oid := range m.order {
		if oid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	fns, snapshot := m.workerWatchersLocked()
	m.mu.Unlock()

	for _, fn := range fns {
		fn(snapshot)
	}
	return nil
}

func (m *Memory) workerWatchersLocked() ([]func([]clock.Worker), []clock.Worker) {
	if len(m.watchers.workers) == 0 {
		return nil, nil
	}
	fns := make([]func([]clock.Worker), 0, len(m.watchers.workers))
	for _, fn := range m.watchers.workers {
		fns = append(fns, fn)
	}
	return fns, m.workersLocked()
}

// =============================================================================
// WORKER STATE
// =============================================================================

func (m *Memory) LoadWorkerState(_ context.Context, id clock.WorkerID) (*clock.WorkerState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	st, ok := m.states[id]
	if !ok {
		return nil, clock.ErrStateNotFound
	}
	return st.Clone(), nil
}

// SaveWorkerState stores a deep copy of st after an optimistic revision
// check. On success the stored and passed revisions advance together.
func (m *Memory) SaveWorkerState(_ context.Context, id clock.WorkerID, st *clock.WorkerState) error {
	m.mu.Lock()
	existing, ok := m.states[id]
	if ok && existing.Revision != st.Revision {
		m.mu.Unlock()
		return clock.ErrConcurrentModification
	}
	if !ok && st.Revision != 0 {
		m.mu.Unlock()
		return clock.ErrConcurrentModification
	}
	st.Revision++
	stored := st.Clone()
	m.states[id] = stored

	var fns []func(*clock.WorkerState)
	for _, sw := range m.watchers.states {
		if sw.id == id {
			fns = append(fns, sw.fn)
		}
	}
	m.mu.Unlock()

	for _, fn := range fns {
		fn(stored.Clone())
	}
	return nil
}

func (m *Memory) DeleteWorkerState(_ context.Context, id clock.WorkerID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.states, id)
	return nil
}

// =============================================================================
// SUBSCRIPTIONS
// =============================================================================

func (m *Memory) OnWorkersChanged(fn func([]clock.Worker)) (cancel func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.watchers.nextID
	m.watchers.nextID++
	m.watchers.workers[id] = fn
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.watchers.workers, id)
	}
}

func (m *Memory) OnWorkerStateChanged(workerID clock.WorkerID, fn func(*clock.WorkerState)) (cancel func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.watchers.nextID
	m.watchers.nextID++
	m.watchers.states[id] = stateWatcher{id: workerID, fn: fn}
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.watchers.states, id)
	}
}
