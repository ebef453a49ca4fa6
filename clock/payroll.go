/*
payroll.go - Earnings projection from worked minutes

PURPOSE:
  Projects daily and monthly earnings from worked minutes and the
  worker's payment terms. All money math runs on decimal.Decimal and
  rounds half-up at cent granularity.

MONTHLY PRO-RATION:
  A month is modeled as 4.33 weeks of the worker's active schedule:
    expectedMonthlyMinutes = weeklyScheduledMinutes * 4.33
    minuteRate             = monthlySalary / expectedMonthlyMinutes
  A worker with an empty schedule has a zero minute rate; the monthly
  projection then falls back to the flat salary.
*/
package clock

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

var (
	weeksPerMonth = decimal.NewFromFloat(4.33)
	sixty         = decimal.NewFromInt(60)
)

// ExpectedMonthlyMinutes derives the minutes a worker is scheduled to
// work in an average month.
func ExpectedMonthlyMinutes(w *Worker) decimal.Decimal {
	return decimal.NewFromInt(int64(w.WeeklyScheduledMinutes())).Mul(weeksPerMonth)
}

// DailyEarnings converts a day's worked minutes into money.
// Hourly workers earn minutes/60 * rate. Monthly workers earn at the
// minute rate derived from their expected monthly minutes, zero when the
// schedule is empty. Rounded to 2 decimals, half-up.
func DailyEarnings(w *Worker, minutes int) decimal.Decimal {
	mins := decimal.NewFromInt(int64(minutes))
	if w.PaymentType == PaymentHourly {
		return mins.Div(sixty).Mul(w.HourlyRate).Round(2)
	}
	expected := ExpectedMonthlyMinutes(w)
	if expected.IsZero() {
		return decimal.Zero
	}
	minuteRate := w.MonthlySalary.Div(expected)
	return mins.Mul(minuteRate).Round(2)
}

// MonthlyStats summarizes the current calendar month for one worker.
type MonthlyStats struct {
	MinutesWorked   int
	HoursWorked     string // "12h 05m"
	HoursExpected   string // "195h", whole hours
	ProjectedSalary decimal.Decimal
	TotalEarnings   decimal.Decimal
	PaymentType     PaymentType
}

// MonthlyStats sums the worked minutes of the current month and projects
// earnings. Finalized days count their cached total; the live current day
// counts its elapsed time. Rest days are excluded from the sum.
//
// Hourly: totalEarnings = projectedSalary = minutes/60 * rate.
// Monthly: projectedSalary = round(salary * worked/expected) when the
// schedule is non-empty, otherwise the flat salary.
func (e *Engine) MonthlyStats(ctx context.Context, id WorkerID) (*MonthlyStats, error) {
	w, err := e.Store.GetWorker(ctx, id)
	if err != nil {
		return nil, err
	}
	st, err := e.Store.LoadWorkerState(ctx, id)
	if errors.Is(err, ErrStateNotFound) {
		st = &WorkerState{}
	} else if err != nil {
		return nil, err
	}

	now := e.now()
	year, month := now.Year(), now.Month()

	worked := 0
	counted := make(map[Date]bool, len(st.History))
	for _, day := range st.History {
		if day.Date.InMonth(year, month) && !w.IsRestDay(day.Date) {
			worked += day.TotalMinutes
			counted[day.Date] = true
		}
	}
	// An ended current day is already snapshotted in history; counting it
	// again here would double its minutes until the next rollover.
	if cd := st.CurrentDay; cd != nil && !counted[cd.Date] && cd.Date.InMonth(year, month) && !w.IsRestDay(cd.Date) {
		worked += cd.WorkedMinutes(now, true)
	}

	expected := ExpectedMonthlyMinutes(w)
	stats := &MonthlyStats{
		MinutesWorked: worked,
		HoursWorked:   FormatWorkedTime(worked),
		HoursExpected: expected.Div(sixty).Round(0).String() + "h",
		PaymentType:   w.PaymentType,
	}

	if w.PaymentType == PaymentHourly {
		stats.TotalEarnings = decimal.NewFromInt(int64(worked)).Div(sixty).Mul(w.HourlyRate).Round(2)
		stats.ProjectedSalary = stats.TotalEarnings
		return stats, nil
	}

	if expected.IsPositive() {
		stats.ProjectedSalary = w.MonthlySalary.
			Mul(decimal.NewFromInt(int64(worked))).
			Div(expected).
			Round(0)
	} else {
		stats.ProjectedSalary = w.MonthlySalary
	}
	stats.TotalEarnings = stats.ProjectedSalary
	return stats, nil
}

// DailyEarnings reports today's earnings for a worker, using the live
// worked minutes unless an explicit minute count is supplied.
func (e *Engine) DailyEarnings(ctx context.Context, id WorkerID, minutes *int) (decimal.Decimal, error) {
	w, err := e.Store.GetWorker(ctx, id)
	if err != nil {
		return decimal.Zero, err
	}
	mins := 0
	if minutes != nil {
		mins = *minutes
	} else {
		mins, err = e.WorkedMinutes(ctx, id, true)
		if err != nil {
			return decimal.Zero, err
		}
	}
	return DailyEarnings(w, mins), nil
}
