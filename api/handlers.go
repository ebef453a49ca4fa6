/*
handlers.go - HTTP API handlers for the time-clock engine

PURPOSE:
  Exposes the clock engine via REST. Handles HTTP request/response and
  JSON serialization, delegating every domain decision to the clock
  package.

ENDPOINTS:
  Sessions:
    POST   /api/login                          PIN login (admin or worker)
    POST   /api/logout                         Invalidate session

  Workers (admin, except reads by the worker itself):
    GET    /api/workers                        List workers
    POST   /api/workers                        Create worker
    GET    /api/workers/{id}                   Get worker
    PUT    /api/workers/{id}                   Update worker
    DELETE /api/workers/{id}                   Remove worker (cascades state)
    POST   /api/workers/{id}/rest-days         Add explicit rest day
    DELETE /api/workers/{id}/rest-days/{date}  Remove explicit rest day
    GET    /api/workers/{id}/rest-days/{date}  Classify a date

  Clock:
    POST   /api/workers/{id}/records           Append clock record
    GET    /api/workers/{id}/records           Today's records
    GET    /api/workers/{id}/status            Display status
    GET    /api/workers/{id}/minutes           Worked minutes (?live=true)
    GET    /api/workers/{id}/history           Finalized days, newest first
    GET    /api/workers/{id}/stats/monthly     Month summary + projection
    GET    /api/workers/{id}/earnings/daily    Day earnings (?minutes=N)
    PATCH  /api/workers/{id}/days/{date}/records/{index}  Admin correction
    DELETE /api/workers/{id}/days/{date}/records/{index}  Admin delete

  Admin:
    POST   /api/admin/rollover                 Run the day-rollover sweep
    POST   /api/scenarios/load                 Seed demo workers

ERROR HANDLING:
  JSON body with appropriate status:
  - 400 invalid input, 401 bad PIN/missing session, 403 wrong session,
    404 unknown worker/day/record, 409 lost revision race, 500 otherwise.
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/warp/timeclock/clock"
)

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Registry *clock.Registry
	Engine   *clock.Engine
	Auth     *clock.Authenticator
	Log      zerolog.Logger
}

// NewHandler wires the handlers over one store-backed engine stack.
func NewHandler(registry *clock.Registry, engine *clock.Engine, auth *clock.Authenticator, log zerolog.Logger) *Handler {
	return &Handler{Registry: registry, Engine: engine, Auth: auth, Log: log}
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.Log.Error().Err(err).Msg("encode response")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case clock.IsNotFound(err):
		status = http.StatusNotFound
	case clock.IsConflict(err):
		status = http.StatusConflict
	case errors.Is(err, clock.ErrInvalidPIN):
		status = http.StatusUnauthorized
	case errors.Is(err, clock.ErrUnauthorized):
		status = http.StatusForbidden
	}
	if status == http.StatusInternalServerError {
		h.Log.Error().Err(err).Msg("request failed")
	}
	h.writeJSON(w, status, ErrorResponse{Error: err.Error()})
}

func (h *Handler) badRequest(w http.ResponseWriter, msg string) {
	h.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: msg})
}

func decodeBody(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

func workerParam(r *http.Request) clock.WorkerID {
	return clock.WorkerID(chi.URLParam(r, "id"))
}

func dateParam(r *http.Request, name string) (clock.Date, error) {
	return clock.ParseDate(chi.URLParam(r, name))
}

// =============================================================================
// SESSIONS
// =============================================================================

// Login validates a PIN and issues a session. A request without a
// workerId attempts an administrator login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeBody(r, &req); err != nil {
		h.badRequest(w, "invalid request body")
		return
	}

	var (
		session *clock.Session
		err     error
	)
	if req.WorkerID == "" {
		session, err = h.Auth.LoginAdmin(req.PIN)
	} else {
		session, err = h.Auth.LoginWorker(r.Context(), clock.WorkerID(req.WorkerID), req.PIN)
	}
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, SessionDTO{
		Token:    session.Token,
		Type:     string(session.Type),
		WorkerID: string(session.WorkerID),
	})
}

// Logout invalidates the caller's session token.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if s := sessionFrom(r.Context()); s != nil {
		h.Auth.Logout(s.Token)
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// WORKER REGISTRY
// =============================================================================

func (h *Handler) ListWorkers(w http.ResponseWriter, r *http.Request) {
	workers, err := h.Registry.Workers(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	out := make([]WorkerDTO, 0, len(workers))
	for _, worker := range workers {
		out = append(out, toWorkerDTO(worker))
	}
	h.writeJSON(w, http.StatusOK, out)
}

func (h *Handler) CreateWorker(w http.ResponseWriter, r *http.Request) {
	var req CreateWorkerRequest
	if err := decodeBody(r, &req); err != nil {
		h.badRequest(w, "invalid request body")
		return
	}
	if req.Name == "" || req.PIN == "" {
		h.badRequest(w, "name and pin are required")
		return
	}

	paymentType := clock.PaymentType(req.PaymentType)
	if paymentType == "" {
		paymentType = clock.PaymentMonthly
	}
	worker, err := h.Registry.AddWorker(r.Context(), req.Name, req.PIN, paymentType, decimal.NewFromFloat(req.Amount))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.Log.Info().Str("worker_id", string(worker.ID)).Str("name", worker.Name).Msg("worker created")
	h.writeJSON(w, http.StatusCreated, toWorkerDTO(*worker))
}

func (h *Handler) GetWorker(w http.ResponseWriter, r *http.Request) {
	worker, err := h.Registry.Worker(r.Context(), workerParam(r))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toWorkerDTO(*worker))
}

func (h *Handler) UpdateWorker(w http.ResponseWriter, r *http.Request) {
	id := workerParam(r)
	var req UpdateWorkerRequest
	if err := decodeBody(r, &req); err != nil {
		h.badRequest(w, "invalid request body")
		return
	}

	existing, err := h.Registry.Worker(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	restDays := make([]clock.Date, 0, len(req.RestDays))
	for _, s := range req.RestDays {
		d, err := clock.ParseDate(s)
		if err != nil {
			h.badRequest(w, "invalid rest day: "+s)
			return
		}
		restDays = append(restDays, d)
	}

	worker := clock.Worker{
		ID:            id,
		Name:          req.Name,
		PIN:           req.PIN,
		PaymentType:   clock.PaymentType(req.PaymentType),
		MonthlySalary: decimal.NewFromFloat(req.MonthlySalary),
		HourlyRate:    decimal.NewFromFloat(req.HourlyRate),
		Schedule:      req.Schedule,
		RestDays:      restDays,
	}
	if worker.PIN == "" {
		worker.PIN = existing.PIN
	}
	if worker.Schedule == nil {
		worker.Schedule = existing.Schedule
	}

	if err := h.Registry.UpdateWorker(r.Context(), worker); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toWorkerDTO(worker))
}

func (h *Handler) DeleteWorker(w http.ResponseWriter, r *http.Request) {
	id := workerParam(r)
	if err := h.Registry.RemoveWorker(r.Context(), id); err != nil {
		h.writeError(w, err)
		return
	}
	h.Log.Info().Str("worker_id", string(id)).Msg("worker removed")
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// REST DAYS
// =============================================================================

func (h *Handler) AddRestDay(w http.ResponseWriter, r *http.Request) {
	var req RestDayRequest
	if err := decodeBody(r, &req); err != nil {
		h.badRequest(w, "invalid request body")
		return
	}
	date, err := clock.ParseDate(req.Date)
	if err != nil {
		h.badRequest(w, "invalid date")
		return
	}
	if err := h.Registry.AddRestDay(r.Context(), workerParam(r), date); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) RemoveRestDay(w http.ResponseWriter, r *http.Request) {
	date, err := dateParam(r, "date")
	if err != nil {
		h.badRequest(w, "invalid date")
		return
	}
	if err := h.Registry.RemoveRestDay(r.Context(), workerParam(r), date); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ClassifyRestDay(w http.ResponseWriter, r *http.Request) {
	date, err := dateParam(r, "date")
	if err != nil {
		h.badRequest(w, "invalid date")
		return
	}
	worker, err := h.Registry.Worker(r.Context(), workerParam(r))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, RestDayDTO{Date: date.String(), RestDay: worker.IsRestDay(date)})
}

// =============================================================================
// CLOCK OPERATIONS
// =============================================================================

func (h *Handler) AddRecord(w http.ResponseWriter, r *http.Request) {
	var req AddRecordRequest
	if err := decodeBody(r, &req); err != nil {
		h.badRequest(w, "invalid request body")
		return
	}
	kind := clock.RecordKind(req.Kind)
	if !kind.Valid() {
		h.badRequest(w, "unknown record type")
		return
	}
	rec, err := h.Engine.AddRecord(r.Context(), workerParam(r), kind, req.Photo)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, rec)
}

func (h *Handler) TodayRecords(w http.ResponseWriter, r *http.Request) {
	records, err := h.Engine.TodayRecords(r.Context(), workerParam(r))
	if err != nil {
		h.writeError(w, err)
		return
	}
	if records == nil {
		records = []clock.TimeRecord{}
	}
	h.writeJSON(w, http.StatusOK, records)
}

func (h *Handler) DayStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.Engine.DayStatus(r.Context(), workerParam(r))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, StatusDTO{
		Status:     string(status),
		DayStarted: status != clock.StatusNotStarted,
		DayEnded:   status == clock.StatusFinished,
		OnBreak:    status == clock.StatusOnBreak,
	})
}

func (h *Handler) WorkedMinutes(w http.ResponseWriter, r *http.Request) {
	includeLive := r.URL.Query().Get("live") != "false"
	minutes, err := h.Engine.WorkedMinutes(r.Context(), workerParam(r), includeLive)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, MinutesDTO{Minutes: minutes, HoursWorked: clock.FormatWorkedTime(minutes)})
}

func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	days, err := h.Engine.History(r.Context(), workerParam(r))
	if err != nil {
		h.writeError(w, err)
		return
	}
	out := make([]DayLogDTO, 0, len(days))
	for _, d := range days {
		out = append(out, toDayLogDTO(d))
	}
	h.writeJSON(w, http.StatusOK, out)
}

func (h *Handler) UpdateRecord(w http.ResponseWriter, r *http.Request) {
	date, err := dateParam(r, "date")
	if err != nil {
		h.badRequest(w, "invalid date")
		return
	}
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		h.badRequest(w, "invalid record index")
		return
	}
	var req UpdateRecordRequest
	if err := decodeBody(r, &req); err != nil {
		h.badRequest(w, "invalid request body")
		return
	}

	var upd clock.RecordUpdate
	if req.Kind != nil {
		kind := clock.RecordKind(*req.Kind)
		if !kind.Valid() {
			h.badRequest(w, "unknown record type")
			return
		}
		upd.Kind = &kind
	}
	upd.Time = req.Time
	upd.Photo = req.Photo

	if err := h.Engine.UpdateRecord(r.Context(), workerParam(r), date, index, upd); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	date, err := dateParam(r, "date")
	if err != nil {
		h.badRequest(w, "invalid date")
		return
	}
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		h.badRequest(w, "invalid record index")
		return
	}
	if err := h.Engine.DeleteRecord(r.Context(), workerParam(r), date, index); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// PAYROLL
// =============================================================================

func (h *Handler) MonthlyStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Engine.MonthlyStats(r.Context(), workerParam(r))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, MonthlyStatsDTO{
		MinutesWorked:   stats.MinutesWorked,
		HoursWorked:     stats.HoursWorked,
		HoursExpected:   stats.HoursExpected,
		ProjectedSalary: stats.ProjectedSalary.InexactFloat64(),
		TotalEarnings:   stats.TotalEarnings.InexactFloat64(),
		PaymentType:     string(stats.PaymentType),
	})
}

func (h *Handler) DailyEarnings(w http.ResponseWriter, r *http.Request) {
	var minutes *int
	if q := r.URL.Query().Get("minutes"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil {
			h.badRequest(w, "invalid minutes")
			return
		}
		minutes = &n
	}

	id := workerParam(r)
	earnings, err := h.Engine.DailyEarnings(r.Context(), id, minutes)
	if err != nil {
		h.writeError(w, err)
		return
	}
	mins := 0
	if minutes != nil {
		mins = *minutes
	} else if mins, err = h.Engine.WorkedMinutes(r.Context(), id, true); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, EarningsDTO{Minutes: mins, Earnings: earnings.InexactFloat64()})
}

// =============================================================================
// ADMIN
// =============================================================================

// TriggerRollover runs the lazy day-rollover sweep immediately.
func (h *Handler) TriggerRollover(w http.ResponseWriter, r *http.Request) {
	if err := h.Engine.CheckNewDay(r.Context()); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
