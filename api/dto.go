/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  JSON structures for API communication, decoupling the domain model
  from the wire contract. Worker PINs are accepted on create/update but
  never echoed back in responses.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
*/
package api

import (
	"github.com/warp/timeclock/clock"
)

// =============================================================================
// SESSIONS
// =============================================================================

// LoginRequest authenticates either the administrator (no workerId) or a
// worker (workerId set).
type LoginRequest struct {
	WorkerID string `json:"workerId,omitempty"`
	PIN      string `json:"pin"`
}

// SessionDTO is the issued session returned on login.
type SessionDTO struct {
	Token    string `json:"token"`
	Type     string `json:"type"`
	WorkerID string `json:"workerId,omitempty"`
}

// =============================================================================
// WORKERS
// =============================================================================

// WorkerDTO represents a worker in API responses. The PIN is withheld.
type WorkerDTO struct {
	ID            string              `json:"id"`
	Name          string              `json:"name"`
	PaymentType   string              `json:"paymentType"`
	MonthlySalary float64             `json:"monthlySalary"`
	HourlyRate    float64             `json:"hourlyRate"`
	Schedule      []clock.DaySchedule `json:"schedule"`
	RestDays      []string            `json:"restDays"`
}

func toWorkerDTO(w clock.Worker) WorkerDTO {
	restDays := make([]string, 0, len(w.RestDays))
	for _, d := range w.RestDays {
		restDays = append(restDays, d.String())
	}
	return WorkerDTO{
		ID:            string(w.ID),
		Name:          w.Name,
		PaymentType:   string(w.PaymentType),
		MonthlySalary: w.MonthlySalary.InexactFloat64(),
		HourlyRate:    w.HourlyRate.InexactFloat64(),
		Schedule:      w.Schedule,
		RestDays:      restDays,
	}
}

// CreateWorkerRequest creates a worker with default schedule and state.
type CreateWorkerRequest struct {
	Name        string  `json:"name"`
	PIN         string  `json:"pin"`
	PaymentType string  `json:"paymentType"`
	Amount      float64 `json:"amount"`
}

// UpdateWorkerRequest replaces a worker's profile. An empty PIN keeps
// the current one.
type UpdateWorkerRequest struct {
	Name          string              `json:"name"`
	PIN           string              `json:"pin,omitempty"`
	PaymentType   string              `json:"paymentType"`
	MonthlySalary float64             `json:"monthlySalary"`
	HourlyRate    float64             `json:"hourlyRate"`
	Schedule      []clock.DaySchedule `json:"schedule"`
	RestDays      []string            `json:"restDays"`
}

// RestDayRequest adds one explicit rest date.
type RestDayRequest struct {
	Date string `json:"date"`
}

// =============================================================================
// CLOCK RECORDS AND DAYS
// =============================================================================

// AddRecordRequest appends a clock record for today.
type AddRecordRequest struct {
	Kind  string `json:"type"`
	Photo []byte `json:"photo,omitempty"`
}

// UpdateRecordRequest is an admin correction; nil fields stay untouched.
type UpdateRecordRequest struct {
	Kind  *string `json:"type,omitempty"`
	Time  *string `json:"time,omitempty"` // 12-hour display time
	Photo *[]byte `json:"photo,omitempty"`
}

// DayLogDTO is one day of records in API responses.
type DayLogDTO struct {
	Date         string             `json:"date"`
	Records      []clock.TimeRecord `json:"records"`
	TotalMinutes int                `json:"totalMinutes"`
	HoursWorked  string             `json:"hoursWorked"`
	Complete     bool               `json:"complete"` // day contains a session end
}

func toDayLogDTO(d clock.DayLog) DayLogDTO {
	return DayLogDTO{
		Date:         d.Date.String(),
		Records:      d.Records,
		TotalMinutes: d.TotalMinutes,
		HoursWorked:  clock.FormatWorkedTime(d.TotalMinutes),
		Complete:     d.Ended(),
	}
}

// StatusDTO is the display-derived state of a worker's day.
type StatusDTO struct {
	Status     string `json:"status"`
	DayStarted bool   `json:"dayStarted"`
	DayEnded   bool   `json:"dayEnded"`
	OnBreak    bool   `json:"onBreak"`
}

// MinutesDTO reports worked minutes for today.
type MinutesDTO struct {
	Minutes     int    `json:"minutes"`
	HoursWorked string `json:"hoursWorked"`
}

// =============================================================================
// PAYROLL
// =============================================================================

// MonthlyStatsDTO summarizes the current calendar month.
type MonthlyStatsDTO struct {
	MinutesWorked   int     `json:"minutesWorked"`
	HoursWorked     string  `json:"hoursWorked"`
	HoursExpected   string  `json:"hoursExpected"`
	ProjectedSalary float64 `json:"projectedSalary"`
	TotalEarnings   float64 `json:"totalEarnings"`
	PaymentType     string  `json:"paymentType"`
}

// EarningsDTO reports a day's projected pay.
type EarningsDTO struct {
	Minutes  int     `json:"minutes"`
	Earnings float64 `json:"earnings"`
}

// RestDayDTO answers a rest-day classification query.
type RestDayDTO struct {
	Date    string `json:"date"`
	RestDay bool   `json:"restDay"`
}

// ErrorResponse carries a failure message.
type ErrorResponse struct {
	Error string `json:"error"`
}
