/*
engine.go - Day Engine: append, worked minutes, edit, delete, rollover

PURPOSE:
  Mutates a worker's clock state one operation at a time and keeps the
  derived TotalMinutes cache consistent. Each operation loads the state
  from the Store, transforms it in memory, and persists best-effort: a
  failed save is surfaced to the caller and the operation is considered
  not committed.

DAY LIFECYCLE:
  NotStarted -> Working -> OnBreak -> Working -> ... -> Finished
  The status is derived from the last record for display only. Ordering
  is NOT validated: a second "start" after "end" is recorded as-is, so
  admin edits never silently rewrite history.

DAY ROLLOVER:
  AddRecord detects a stale CurrentDay (its date differs from today),
  moves it to History when it holds at least one record, and starts a
  fresh day. CheckNewDay performs the same sweep for every worker and is
  driven by the periodic tick (api/scheduler.go).

SEE ALSO:
  - payroll.go: MonthlyStats reads worked minutes computed here
  - store.go: persistence contract and revision semantics
*/
package clock

import (
	"context"
	"errors"
	"time"
)

// Engine owns the day-level clock operations for all workers.
type Engine struct {
	Store Store

	// Now is the wall clock, injectable for tests. Defaults to time.Now.
	Now func() time.Time
}

// NewEngine creates an engine over the given store.
func NewEngine(store Store) *Engine {
	return &Engine{Store: store, Now: time.Now}
}

func (e *Engine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

// =============================================================================
// WORKED MINUTES - Pure scan over a day's records
// =============================================================================

// WorkedMinutes scans the day's records in order, pairing every
// start/return with the next break/end. An open interval at the tail
// counts only when the day has not ended and includeLive is requested.
// The millisecond total is floor-divided into whole minutes.
func (d *DayLog) WorkedMinutes(now time.Time, includeLive bool) int {
	if d == nil {
		return 0
	}
	var total int64
	var workStart int64 = -1
	for _, r := range d.Records {
		switch r.Kind {
		case KindStart, KindReturn:
			workStart = r.Timestamp
		case KindBreak, KindEnd:
			if workStart >= 0 {
				total += r.Timestamp - workStart
				workStart = -1
			}
		}
	}
	if workStart >= 0 && !d.Ended() && includeLive {
		total += now.UnixMilli() - workStart
	}
	return int(total / 60_000)
}

// WorkedMinutes returns the minutes worked so far today for a worker.
// A worker with no state or no current day has worked zero minutes.
func (e *Engine) WorkedMinutes(ctx context.Context, id WorkerID, includeLive bool) (int, error) {
	st, err := e.Store.LoadWorkerState(ctx, id)
	if errors.Is(err, ErrStateNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return st.CurrentDay.WorkedMinutes(e.now(), includeLive), nil
}

// =============================================================================
// APPEND
// =============================================================================

// AddRecord appends a clock record for the worker, stamped with the
// current time. A stale current day rolls over to history first. On a
// session end the day total is finalized and a snapshot of the day is
// stored in history, replacing the snapshot of any earlier session end
// that day; the current day itself stays visible until the next rollover
// clears it.
func (e *Engine) AddRecord(ctx context.Context, id WorkerID, kind RecordKind, photo []byte) (*TimeRecord, error) {
	if _, err := e.Store.GetWorker(ctx, id); err != nil {
		return nil, err
	}
	st, err := e.loadOrInitState(ctx, id)
	if err != nil {
		return nil, err
	}

	now := e.now()
	today := DateOf(now)
	rollOver(st, today)
	if st.CurrentDay == nil {
		st.CurrentDay = &DayLog{Date: today}
	}

	rec := TimeRecord{
		Kind:      kind,
		Time:      FormatClock(now),
		Timestamp: now.UnixMilli(),
		Photo:     photo,
	}
	st.CurrentDay.Records = append(st.CurrentDay.Records, rec)

	if kind == KindEnd {
		st.CurrentDay.TotalMinutes = st.CurrentDay.WorkedMinutes(now, false)
		upsertHistory(st, st.CurrentDay.Clone())
	}

	if err := e.Store.SaveWorkerState(ctx, id, st); err != nil {
		return nil, err
	}
	return &rec, nil
}

// rollOver migrates a stale current day to history. Empty days are
// dropped. A day that already ended has its snapshot in history; the
// final current day replaces it, keeping at most one DayLog per date.
func rollOver(st *WorkerState, today Date) {
	if st.CurrentDay == nil || st.CurrentDay.Date == today {
		return
	}
	if len(st.CurrentDay.Records) > 0 {
		upsertHistory(st, *st.CurrentDay)
	}
	st.CurrentDay = nil
}

// upsertHistory stores day in history, replacing an existing entry with
// the same date. History never holds two logs for one date, no matter
// how many session ends or rollovers the day goes through.
func upsertHistory(st *WorkerState, day DayLog) {
	for i := range st.History {
		if st.History[i].Date == day.Date {
			st.History[i] = day
			return
		}
	}
	st.History = append(st.History, day)
}

// loadOrInitState loads a worker's state, starting empty when none has
// been persisted yet. The state document is created lazily on first use.
func (e *Engine) loadOrInitState(ctx context.Context, id WorkerID) (*WorkerState, error) {
	st, err := e.Store.LoadWorkerState(ctx, id)
	if errors.Is(err, ErrStateNotFound) {
		return &WorkerState{}, nil
	}
	return st, err
}

// =============================================================================
// ADMIN CORRECTIONS - Edit and delete with recalculation
// =============================================================================

// RecordUpdate carries the fields of an admin correction. Nil fields are
// left untouched.
type RecordUpdate struct {
	Kind  *RecordKind
	Time  *string // 12-hour display time; re-derives the epoch timestamp
	Photo *[]byte
}

// UpdateRecord applies an admin correction to the record at the given
// position of the worker's day log for date, checking the current day
// first and history second. A display-time update re-derives the epoch
// timestamp anchored to midnight of that date. The day's total is
// recomputed from scratch, excluding live elapsed time.
func (e *Engine) UpdateRecord(ctx context.Context, id WorkerID, date Date, index int, upd RecordUpdate) error {
	return e.editDay(ctx, id, date, func(day *DayLog) error {
		if index < 0 || index >= len(day.Records) {
			return ErrRecordNotFound
		}
		rec := &day.Records[index]
		if upd.Kind != nil {
			rec.Kind = *upd.Kind
		}
		if upd.Photo != nil {
			rec.Photo = *upd.Photo
		}
		if upd.Time != nil {
			rec.Time = *upd.Time
			hour, minute := ParseClock(*upd.Time)
			rec.Timestamp = date.At(hour, minute, e.now().Location()).UnixMilli()
		}
		return nil
	})
}

// DeleteRecord removes the record at the given position and recomputes
// the day total. Deleting the only record of a day resets its total to 0.
func (e *Engine) DeleteRecord(ctx context.Context, id WorkerID, date Date, index int) error {
	return e.editDay(ctx, id, date, func(day *DayLog) error {
		if index < 0 || index >= len(day.Records) {
			return ErrRecordNotFound
		}
		day.Records = append(day.Records[:index], day.Records[index+1:]...)
		return nil
	})
}

// editDay locates the day log for date, applies fn, recomputes the day
// total, and persists. Nothing is written when fn fails.
func (e *Engine) editDay(ctx context.Context, id WorkerID, date Date, fn func(*DayLog) error) error {
	st, err := e.Store.LoadWorkerState(ctx, id)
	if errors.Is(err, ErrStateNotFound) {
		return ErrDayNotFound
	}
	if err != nil {
		return err
	}

	day := findDay(st, date)
	if day == nil {
		return ErrDayNotFound
	}
	if err := fn(day); err != nil {
		return err
	}
	day.TotalMinutes = day.WorkedMinutes(e.now(), false)
	return e.Store.SaveWorkerState(ctx, id, st)
}

func findDay(st *WorkerState, date Date) *DayLog {
	if st.CurrentDay != nil && st.CurrentDay.Date == date {
		return st.CurrentDay
	}
	for i := range st.History {
		if st.History[i].Date == date {
			return &st.History[i]
		}
	}
	return nil
}

// =============================================================================
// ROLLOVER SWEEP AND READ VIEWS
// =============================================================================

// CheckNewDay migrates every worker's stale current day to history. It is
// the lazy date-rollover check driven by the periodic wall-clock tick and
// performs no other mutation.
func (e *Engine) CheckNewDay(ctx context.Context) error {
	workers, err := e.Store.LoadWorkers(ctx)
	if err != nil {
		return err
	}
	today := DateOf(e.now())
	for _, w := range workers {
		st, err := e.Store.LoadWorkerState(ctx, w.ID)
		if errors.Is(err, ErrStateNotFound) {
			continue
		}
		if err != nil {
			return err
		}
		if st.CurrentDay == nil || st.CurrentDay.Date == today {
			continue
		}
		rollOver(st, today)
		if err := e.Store.SaveWorkerState(ctx, w.ID, st); err != nil {
			return err
		}
	}
	return nil
}

// DayStatus returns the display status of the worker's current day.
func (e *Engine) DayStatus(ctx context.Context, id WorkerID) (DayStatus, error) {
	st, err := e.Store.LoadWorkerState(ctx, id)
	if errors.Is(err, ErrStateNotFound) {
		return StatusNotStarted, nil
	}
	if err != nil {
		return "", err
	}
	return st.CurrentDay.Status(), nil
}

// TodayRecords returns the records of the worker's current day.
func (e *Engine) TodayRecords(ctx context.Context, id WorkerID) ([]TimeRecord, error) {
	st, err := e.Store.LoadWorkerState(ctx, id)
	if errors.Is(err, ErrStateNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if st.CurrentDay == nil {
		return nil, nil
	}
	out := make([]TimeRecord, len(st.CurrentDay.Records))
	copy(out, st.CurrentDay.Records)
	return out, nil
}

// History returns the worker's finalized days, newest first.
func (e *Engine) History(ctx context.Context, id WorkerID) ([]DayLog, error) {
	st, err := e.Store.LoadWorkerState(ctx, id)
	if errors.Is(err, ErrStateNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	out := make([]DayLog, 0, len(st.History))
	for i := len(st.History) - 1; i >= 0; i-- {
		out = append(out, st.History[i].Clone())
	}
	return out, nil
}
