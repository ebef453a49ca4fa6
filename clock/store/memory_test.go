package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/timeclock/clock"
	"github.com/warp/timeclock/clock/store"
)

func testWorker(id string) clock.Worker {
	return clock.Worker{
		ID:            clock.WorkerID(id),
		Name:          "Worker " + id,
		PIN:           "1111",
		PaymentType:   clock.PaymentMonthly,
		MonthlySalary: decimal.NewFromInt(2000),
		Schedule:      clock.DefaultSchedule(),
	}
}

// =============================================================================
// WORKERS
// =============================================================================

func TestMemory_WorkerRoundTrip(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()

	require.NoError(t, mem.SaveWorker(ctx, testWorker("a")))

	got, err := mem.GetWorker(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "Worker a", got.Name)

	_, err = mem.GetWorker(ctx, "missing")
	assert.ErrorIs(t, err, clock.ErrWorkerNotFound)
}

func TestMemory_LoadWorkersKeepsCreationOrder(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()

	for _, id := range []string{"c", "a", "b"} {
		require.NoError(t, mem.SaveWorker(ctx, testWorker(id)))
	}
	// Re-saving must not duplicate or reorder.
	require.NoError(t, mem.SaveWorker(ctx, testWorker("a")))

	workers, err := mem.LoadWorkers(ctx)
	require.NoError(t, err)
	require.Len(t, workers, 3)
	assert.Equal(t, clock.WorkerID("c"), workers[0].ID)
	assert.Equal(t, clock.WorkerID("a"), workers[1].ID)
	assert.Equal(t, clock.WorkerID("b"), workers[2].ID)
}

func TestMemory_DeleteWorker(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()

	require.NoError(t, mem.SaveWorker(ctx, testWorker("a")))
	require.NoError(t, mem.DeleteWorker(ctx, "a"))
	_, err := mem.GetWorker(ctx, "a")
	assert.ErrorIs(t, err, clock.ErrWorkerNotFound)

	// Deleting an unknown worker is a no-op.
	assert.NoError(t, mem.DeleteWorker(ctx, "missing"))
}

// =============================================================================
// WORKER STATE + REVISIONS
// =============================================================================

func TestMemory_StateRevisionAdvances(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()

	st := &clock.WorkerState{}
	require.NoError(t, mem.SaveWorkerState(ctx, "a", st))
	assert.Equal(t, int64(1), st.Revision)

	loaded, err := mem.LoadWorkerState(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, int64(1), loaded.Revision)

	require.NoError(t, mem.SaveWorkerState(ctx, "a", loaded))
	assert.Equal(t, int64(2), loaded.Revision)
}

func TestMemory_StaleRevisionRejected(t *testing.T) {
	// GIVEN: two clients that loaded the same revision
	// WHEN: both try to save
	// THEN: the second save fails with a conflict

	ctx := context.Background()
	mem := store.NewMemory()
	require.NoError(t, mem.SaveWorkerState(ctx, "a", &clock.WorkerState{}))

	first, err := mem.LoadWorkerState(ctx, "a")
	require.NoError(t, err)
	second, err := mem.LoadWorkerState(ctx, "a")
	require.NoError(t, err)

	require.NoError(t, mem.SaveWorkerState(ctx, "a", first))
	err = mem.SaveWorkerState(ctx, "a", second)
	assert.ErrorIs(t, err, clock.ErrConcurrentModification)
	assert.True(t, clock.IsConflict(err))
}

func TestMemory_NewStateRequiresZeroRevision(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	err := mem.SaveWorkerState(ctx, "a", &clock.WorkerState{Revision: 3})
	assert.ErrorIs(t, err, clock.ErrConcurrentModification)
}

func TestMemory_LoadStateReturnsClone(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()

	st := &clock.WorkerState{CurrentDay: &clock.DayLog{
		Date:    clock.NewDate(2025, time.March, 10),
		Records: []clock.TimeRecord{{Kind: clock.KindStart}},
	}}
	require.NoError(t, mem.SaveWorkerState(ctx, "a", st))

	loaded, err := mem.LoadWorkerState(ctx, "a")
	require.NoError(t, err)
	loaded.CurrentDay.Records[0].Kind = clock.KindEnd

	again, err := mem.LoadWorkerState(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, clock.KindStart, again.CurrentDay.Records[0].Kind)
}

func TestMemory_DeleteState(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	require.NoError(t, mem.SaveWorkerState(ctx, "a", &clock.WorkerState{}))
	require.NoError(t, mem.DeleteWorkerState(ctx, "a"))
	_, err := mem.LoadWorkerState(ctx, "a")
	assert.ErrorIs(t, err, clock.ErrStateNotFound)
}

// =============================================================================
// SUBSCRIPTIONS
// =============================================================================

func TestMemory_OnWorkersChanged(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()

	var calls [][]clock.Worker
	cancel := mem.OnWorkersChanged(func(ws []clock.Worker) {
		calls = append(calls, ws)
	})

	require.NoError(t, mem.SaveWorker(ctx, testWorker("a")))
	require.Len(t, calls, 1)
	assert.Len(t, calls[0], 1)

	require.NoError(t, mem.DeleteWorker(ctx, "a"))
	require.Len(t, calls, 2)
	assert.Empty(t, calls[1])

	cancel()
	require.NoError(t, mem.SaveWorker(ctx, testWorker("b")))
	assert.Len(t, calls, 2, "cancelled watcher must not fire")
}

func TestMemory_OnWorkerStateChangedFiltersByID(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()

	var got []*clock.WorkerState
	cancel := mem.OnWorkerStateChanged("a", func(st *clock.WorkerState) {
		got = append(got, st)
	})
	defer cancel()

	require.NoError(t, mem.SaveWorkerState(ctx, "b", &clock.WorkerState{}))
	assert.Empty(t, got, "watcher for a must ignore saves for b")

	require.NoError(t, mem.SaveWorkerState(ctx, "a", &clock.WorkerState{}))
	require.Len(t, got, 1)
	assert.Equal(t, int64(1), got[0].Revision)
}
