/*
Package clock implements the time-accounting engine for employee
clock-in/out tracking.

PURPOSE:
  This package contains the domain types and algorithms that turn a
  sequence of timestamped clock records into worked-minute totals,
  day-boundary rollover, rest-day classification, and salary projection.

KEY CONCEPTS IN THIS FILE (types.go):
  - TimeRecord: A single timestamped clock action (start, break, return, end)
  - DayLog: One calendar day's records plus its computed total
  - WorkerState: The per-worker pair of current day + finalized history
  - Worker: Profile with PIN, payment terms, weekly schedule, rest days

DESIGN PRINCIPLES:
  1. One engine: the same logic serves every Store implementation.
  2. Precision: decimal.Decimal for all money, never float64.
  3. Permissiveness: record ordering is NOT validated. Any kind may
     follow any kind; status is derived for display only.

SEE ALSO:
  - engine.go: Day Engine (append, worked minutes, edit, delete, rollover)
  - payroll.go: Earnings projection
  - schedule.go: Rest-day classification
  - store.go: Persistence contract
*/
package clock

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// CLOCK RECORDS
// =============================================================================

// RecordKind identifies the action a clock record represents.
type RecordKind string

const (
	KindStart  RecordKind = "start"  // session start
	KindBreak  RecordKind = "break"  // pause work
	KindReturn RecordKind = "return" // resume after a break
	KindEnd    RecordKind = "end"    // session end, finalizes the day total
)

// Valid reports whether k is one of the four known kinds.
func (k RecordKind) Valid() bool {
	switch k {
	case KindStart, KindBreak, KindReturn, KindEnd:
		return true
	}
	return false
}

// TimeRecord is a single clock action. Immutable once appended except
// through admin correction (Engine.UpdateRecord).
type TimeRecord struct {
	Kind      RecordKind `json:"type"`
	Time      string     `json:"time"`      // 12-hour display time, e.g. "2:30 PM"
	Timestamp int64      `json:"timestamp"` // epoch milliseconds
	Photo     []byte     `json:"photo,omitempty"`
}

// =============================================================================
// DAY LOG
// =============================================================================

// DayStatus is the display-derived state of a worker's day.
// It is never enforced: any record kind may follow any other.
type DayStatus string

const (
	StatusNotStarted DayStatus = "not_started"
	StatusWorking    DayStatus = "working"
	StatusOnBreak    DayStatus = "on_break"
	StatusFinished   DayStatus = "finished"
)

// DayLog is the in-progress or finalized record of one calendar day.
// TotalMinutes is a derived cache, recomputed on any edit.
type DayLog struct {
	Date         Date         `json:"date"`
	Records      []TimeRecord `json:"records"`
	TotalMinutes int          `json:"totalMinutes"`
}

// Ended reports whether the day contains a session-end record.
func (d *DayLog) Ended() bool {
	if d == nil {
		return false
	}
	for _, r := range d.Records {
		if r.Kind == KindEnd {
			return true
		}
	}
	return false
}

// Status derives the display status from the day's records.
func (d *DayLog) Status() DayStatus {
	if d == nil || len(d.Records) == 0 {
		return StatusNotStarted
	}
	if d.Ended() {
		return StatusFinished
	}
	if d.Records[len(d.Records)-1].Kind == KindBreak {
		return StatusOnBreak
	}
	return StatusWorking
}

// Clone returns a deep copy of the day log.
func (d *DayLog) Clone() DayLog {
	out := DayLog{Date: d.Date, TotalMinutes: d.TotalMinutes}
	if d.Records != nil {
		out.Records = make([]TimeRecord, len(d.Records))
		copy(out.Records, d.Records)
	}
	return out
}

// =============================================================================
// WORKER STATE
// =============================================================================

// WorkerState holds one worker's canonical clock state: the day being
// worked right now (nil once rolled over) and every finalized day, oldest
// first. History holds at most one DayLog per date. An ended day appears
// both as CurrentDay and as its history snapshot until the next rollover
// retires it.
//
// Revision is an optimistic-concurrency counter. Stores reject a save whose
// revision does not match the persisted one (ErrConcurrentModification),
// guarding against two clients writing the same worker's state.
type WorkerState struct {
	CurrentDay *DayLog  `json:"currentDay"`
	History    []DayLog `json:"history"`
	Revision   int64    `json:"revision"`
}

// Clone returns a deep copy of the state.
func (ws *WorkerState) Clone() *WorkerState {
	out := &WorkerState{Revision: ws.Revision}
	if ws.CurrentDay != nil {
		day := ws.CurrentDay.Clone()
		out.CurrentDay = &day
	}
	if ws.History != nil {
		out.History = make([]DayLog, len(ws.History))
		for i := range ws.History {
			out.History[i] = ws.History[i].Clone()
		}
	}
	return out
}

// =============================================================================
// WORKER PROFILE
// =============================================================================

// WorkerID uniquely identifies a worker.
type WorkerID string

// PaymentType selects which pay field of a Worker is active.
type PaymentType string

const (
	PaymentMonthly PaymentType = "monthly"
	PaymentHourly  PaymentType = "hourly"
)

// Shift is a scheduled working window within a day, "HH:MM" 24-hour.
type Shift struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Minutes returns the scheduled length of the shift in minutes.
// Malformed time components count as zero.
func (s Shift) Minutes() int {
	sh, sm := parseTimeOfDay(s.Start)
	eh, em := parseTimeOfDay(s.End)
	return (eh*60 + em) - (sh*60 + sm)
}

// DaySchedule is the plan for one weekday. An inactive day keeps its
// shifts so reactivating it restores the previous hours.
type DaySchedule struct {
	Active bool    `json:"active"`
	Shifts []Shift `json:"shifts"`
}

// Worker is an employee profile. Exactly one of MonthlySalary/HourlyRate
// is semantically active, selected by PaymentType.
type Worker struct {
	ID            WorkerID        `json:"id"`
	Name          string          `json:"name"`
	PIN           string          `json:"pin"`
	PaymentType   PaymentType     `json:"paymentType"`
	MonthlySalary decimal.Decimal `json:"monthlySalary"`
	HourlyRate    decimal.Decimal `json:"hourlyRate"`
	Schedule      []DaySchedule   `json:"schedule"` // 7 entries, index 0 = Sunday
	RestDays      []Date          `json:"restDays"` // explicit extra rest dates
}

// HasRestDay reports whether date is in the worker's explicit rest-day set.
func (w *Worker) HasRestDay(date Date) bool {
	for _, d := range w.RestDays {
		if d == date {
			return true
		}
	}
	return false
}

// =============================================================================
// SESSION
// =============================================================================

// SessionType distinguishes administrator sessions from worker sessions.
type SessionType string

const (
	SessionAdmin  SessionType = "admin"
	SessionWorker SessionType = "worker"
)

// Session is an explicit authorization handle returned by the
// Authenticator. Operations that need authorization take a Session
// instead of reading ambient process-wide login state.
type Session struct {
	Token    string
	Type     SessionType
	WorkerID WorkerID // set only for worker sessions
	IssuedAt time.Time
}

// IsAdmin reports whether the session carries administrator rights.
func (s *Session) IsAdmin() bool { return s != nil && s.Type == SessionAdmin }

// CanManage reports whether the session may operate on the given worker:
// admins manage everyone, a worker manages only itself.
func (s *Session) CanManage(id WorkerID) bool {
	if s == nil {
		return false
	}
	return s.Type == SessionAdmin || (s.Type == SessionWorker && s.WorkerID == id)
}
