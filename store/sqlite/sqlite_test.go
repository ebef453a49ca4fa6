package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/timeclock/clock"
	"github.com/warp/timeclock/store/sqlite"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	s, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleWorker(id string) clock.Worker {
	return clock.Worker{
		ID:            clock.WorkerID(id),
		Name:          "Worker " + id,
		PIN:           "1111",
		PaymentType:   clock.PaymentMonthly,
		MonthlySalary: decimal.NewFromInt(2000),
		HourlyRate:    decimal.Zero,
		Schedule:      clock.DefaultSchedule(),
		RestDays:      []clock.Date{clock.NewDate(2025, time.March, 12)},
	}
}

// =============================================================================
// WORKERS
// =============================================================================

func TestSQLite_WorkerRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	w := sampleWorker("a")
	require.NoError(t, s.SaveWorker(ctx, w))

	got, err := s.GetWorker(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, w.Name, got.Name)
	assert.Equal(t, w.PIN, got.PIN)
	assert.Equal(t, clock.PaymentMonthly, got.PaymentType)
	assert.True(t, got.MonthlySalary.Equal(w.MonthlySalary))
	assert.True(t, got.HourlyRate.IsZero())
	assert.Equal(t, w.Schedule, got.Schedule)
	assert.Equal(t, w.RestDays, got.RestDays)
}

func TestSQLite_GetWorkerNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetWorker(context.Background(), "missing")
	assert.ErrorIs(t, err, clock.ErrWorkerNotFound)
}

func TestSQLite_SaveWorkerUpserts(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	w := sampleWorker("a")
	require.NoError(t, s.SaveWorker(ctx, w))
	w.Name = "Renamed"
	w.HourlyRate = decimal.NewFromInt(15)
	require.NoError(t, s.SaveWorker(ctx, w))

	got, err := s.GetWorker(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)
	assert.Equal(t, "15", got.HourlyRate.String())

	workers, err := s.LoadWorkers(ctx)
	require.NoError(t, err)
	assert.Len(t, workers, 1)
}

func TestSQLite_DeleteWorker(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.SaveWorker(ctx, sampleWorker("a")))
	require.NoError(t, s.DeleteWorker(ctx, "a"))
	_, err := s.GetWorker(ctx, "a")
	assert.ErrorIs(t, err, clock.ErrWorkerNotFound)

	// Deleting again is a no-op.
	assert.NoError(t, s.DeleteWorker(ctx, "a"))
}

// =============================================================================
// WORKER STATE
// =============================================================================

func TestSQLite_StateRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	start := time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)
	st := &clock.WorkerState{
		CurrentDay: &clock.DayLog{
			Date: clock.NewDate(2025, time.March, 10),
			Records: []clock.TimeRecord{
				{Kind: clock.KindStart, Time: "9:00 AM", Timestamp: start.UnixMilli()},
			},
		},
		History: []clock.DayLog{
			{
				Date:         clock.NewDate(2025, time.March, 7),
				Records:      []clock.TimeRecord{{Kind: clock.KindStart}, {Kind: clock.KindEnd}},
				TotalMinutes: 480,
			},
		},
	}
	require.NoError(t, s.SaveWorkerState(ctx, "a", st))
	assert.Equal(t, int64(1), st.Revision)

	got, err := s.LoadWorkerState(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Revision)
	require.NotNil(t, got.CurrentDay)
	assert.Equal(t, st.CurrentDay.Date, got.CurrentDay.Date)
	assert.Equal(t, start.UnixMilli(), got.CurrentDay.Records[0].Timestamp)
	require.Len(t, got.History, 1)
	assert.Equal(t, 480, got.History[0].TotalMinutes)
}

func TestSQLite_StateWithoutCurrentDay(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.SaveWorkerState(ctx, "a", &clock.WorkerState{}))
	got, err := s.LoadWorkerState(ctx, "a")
	require.NoError(t, err)
	assert.Nil(t, got.CurrentDay)
	assert.Empty(t, got.History)
}

func TestSQLite_StateNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.LoadWorkerState(context.Background(), "missing")
	assert.ErrorIs(t, err, clock.ErrStateNotFound)
}

func TestSQLite_StaleRevisionRejected(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	require.NoError(t, s.SaveWorkerState(ctx, "a", &clock.WorkerState{}))

	first, err := s.LoadWorkerState(ctx, "a")
	require.NoError(t, err)
	second, err := s.LoadWorkerState(ctx, "a")
	require.NoError(t, err)

	require.NoError(t, s.SaveWorkerState(ctx, "a", first))
	err = s.SaveWorkerState(ctx, "a", second)
	assert.ErrorIs(t, err, clock.ErrConcurrentModification)
}

func TestSQLite_NewStateRequiresZeroRevision(t *testing.T) {
	s := newTestStore(t)
	err := s.SaveWorkerState(context.Background(), "a", &clock.WorkerState{Revision: 5})
	assert.ErrorIs(t, err, clock.ErrConcurrentModification)
}

func TestSQLite_DeleteState(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	require.NoError(t, s.SaveWorkerState(ctx, "a", &clock.WorkerState{}))
	require.NoError(t, s.DeleteWorkerState(ctx, "a"))
	_, err := s.LoadWorkerState(ctx, "a")
	assert.ErrorIs(t, err, clock.ErrStateNotFound)
}
