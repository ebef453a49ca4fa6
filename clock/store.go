/*
store.go - Persistence contract between the engine and its backing store

PURPOSE:
  The engine is written once against these interfaces; the original
  system carried a duplicated engine per backend (local store vs remote
  synchronized store). Implementations:
    - clock/store:  in-memory, with change subscriptions (testing/dev)
    - store/sqlite: embedded durable store

OPTIMISTIC CONCURRENCY:
  SaveWorkerState compares WorkerState.Revision against the persisted
  revision. On match it writes and bumps the revision (also on the passed
  value); on mismatch it returns ErrConcurrentModification and writes
  nothing. A fresh state saves from revision 0.

SUBSCRIPTIONS:
  WatchStore is optional. It lets read-only clients follow worker and
  state changes; the engine itself never requires it.
*/
package clock

import "context"

// Store is the persistence collaborator for workers and their clock state.
type Store interface {
	// LoadWorkers returns all workers in creation order.
	LoadWorkers(ctx context.Context) ([]Worker, error)

	// GetWorker returns one worker, or ErrWorkerNotFound.
	GetWorker(ctx context.Context, id WorkerID) (*Worker, error)

	// SaveWorker inserts or updates a worker profile.
	SaveWorker(ctx context.Context, w Worker) error

	// DeleteWorker removes a worker profile. Deleting an unknown id is a no-op.
	DeleteWorker(ctx context.Context, id WorkerID) error

	// LoadWorkerState returns a worker's clock state, or ErrStateNotFound.
	LoadWorkerState(ctx context.Context, id WorkerID) (*WorkerState, error)

	// SaveWorkerState persists state with an optimistic revision check.
	// On success st.Revision is advanced to the stored revision.
	SaveWorkerState(ctx context.Context, id WorkerID, st *WorkerState) error

	// DeleteWorkerState removes a worker's clock state. Unknown id is a no-op.
	DeleteWorkerState(ctx context.Context, id WorkerID) error
}

// WatchStore extends Store with live change subscriptions for
// multi-client read-only sync.
type WatchStore interface {
	Store

	// OnWorkersChanged registers fn to run after any worker profile
	// change. The returned func cancels the subscription.
	OnWorkersChanged(fn func([]Worker)) (cancel func())

	// OnWorkerStateChanged registers fn to run after each saved state
	// for the given worker. The returned func cancels the subscription.
	OnWorkerStateChanged(id WorkerID, fn func(*WorkerState)) (cancel func())
}
