/*
registry.go - Worker Registry: CRUD over profiles, cascading to state

PURPOSE:
  Owns the worker profile lifecycle. Creating a worker also creates its
  empty clock state; removing a worker removes both. Rest-day mutators
  are idempotent set operations scoped to one worker.
*/
package clock

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Registry manages worker profiles and their paired clock state.
type Registry struct {
	Store Store
}

// NewRegistry creates a registry over the given store.
func NewRegistry(store Store) *Registry {
	return &Registry{Store: store}
}

// AddWorker creates a worker with a fresh id, the default Monday-Friday
// 09:00-18:00 schedule, no rest days, and an empty clock state. The
// amount lands in MonthlySalary or HourlyRate according to paymentType.
func (r *Registry) AddWorker(ctx context.Context, name, pin string, paymentType PaymentType, amount decimal.Decimal) (*Worker, error) {
	w := Worker{
		ID:          WorkerID(uuid.NewString()),
		Name:        name,
		PIN:         pin,
		PaymentType: paymentType,
		Schedule:    DefaultSchedule(),
		RestDays:    []Date{},
	}
	if paymentType == PaymentHourly {
		w.HourlyRate = amount
	} else {
		w.PaymentType = PaymentMonthly
		w.MonthlySalary = amount
	}

	if err := r.Store.SaveWorker(ctx, w); err != nil {
		return nil, err
	}
	if err := r.Store.SaveWorkerState(ctx, w.ID, &WorkerState{}); err != nil {
		return nil, err
	}
	return &w, nil
}

// Workers lists all workers in creation order.
func (r *Registry) Workers(ctx context.Context) ([]Worker, error) {
	return r.Store.LoadWorkers(ctx)
}

// Worker returns one worker, or ErrWorkerNotFound.
func (r *Registry) Worker(ctx context.Context, id WorkerID) (*Worker, error) {
	return r.Store.GetWorker(ctx, id)
}

// UpdateWorker replaces an existing worker's profile.
func (r *Registry) UpdateWorker(ctx context.Context, w Worker) error {
	if _, err := r.Store.GetWorker(ctx, w.ID); err != nil {
		return err
	}
	return r.Store.SaveWorker(ctx, w)
}

// RemoveWorker deletes the worker and its clock state together.
func (r *Registry) RemoveWorker(ctx context.Context, id WorkerID) error {
	if _, err := r.Store.GetWorker(ctx, id); err != nil {
		return err
	}
	if err := r.Store.DeleteWorker(ctx, id); err != nil {
		return err
	}
	return r.Store.DeleteWorkerState(ctx, id)
}

// AddRestDay marks date as an explicit rest day. Adding a date twice is
// a no-op.
func (r *Registry) AddRestDay(ctx context.Context, id WorkerID, date Date) error {
	w, err := r.Store.GetWorker(ctx, id)
	if err != nil {
		return err
	}
	if w.HasRestDay(date) {
		return nil
	}
	w.RestDays = append(w.RestDays, date)
	return r.Store.SaveWorker(ctx, *w)
}

// RemoveRestDay clears an explicit rest day. Removing an absent date is
// a no-op.
func (r *Registry) RemoveRestDay(ctx context.Context, id WorkerID, date Date) error {
	w, err := r.Store.GetWorker(ctx, id)
	if err != nil {
		return err
	}
	for i, d := range w.RestDays {
		if d == date {
			w.RestDays = append(w.RestDays[:i], w.RestDays[i+1:]...)
			return r.Store.SaveWorker(ctx, *w)
		}
	}
	return nil
}
