package clock

// DefaultSchedule returns the schedule new workers start with: Monday
// through Friday active, 09:00-18:00, weekend inactive. Inactive days
// keep the same shift so activating them later restores sane hours.
func DefaultSchedule() []DaySchedule {
	schedule := make([]DaySchedule, 7)
	for i := range schedule {
		schedule[i] = DaySchedule{
			Active: i >= 1 && i <= 5, // Monday..Friday
			Shifts: []Shift{{Start: "09:00", End: "18:00"}},
		}
	}
	return schedule
}

// IsRestDay reports whether the worker is not expected to work on date:
// either the date is in the explicit rest-day set, or the weekday's
// schedule entry is inactive. A missing schedule entry counts as rest.
func (w *Worker) IsRestDay(date Date) bool {
	if w.HasRestDay(date) {
		return true
	}
	wd := int(date.Weekday())
	if wd >= len(w.Schedule) {
		return true
	}
	return !w.Schedule[wd].Active
}

// WeeklyScheduledMinutes sums the shift lengths of every active day.
func (w *Worker) WeeklyScheduledMinutes() int {
	total := 0
	for _, day := range w.Schedule {
		if !day.Active {
			continue
		}
		for _, shift := range day.Shifts {
			total += shift.Minutes()
		}
	}
	return total
}
