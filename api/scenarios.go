/*
scenarios.go - Demo data seeding

PURPOSE:
  Loads a small demo roster so a fresh deployment has something to click
  on. Seeding is additive and idempotent per name: a worker whose name is
  already present is skipped.
*/
package api

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/warp/timeclock/clock"
)

type demoWorker struct {
	name        string
	pin         string
	paymentType clock.PaymentType
	amount      decimal.Decimal
}

var demoRoster = []demoWorker{
	{name: "Ana García", pin: "1111", paymentType: clock.PaymentMonthly, amount: decimal.NewFromInt(2000)},
	{name: "Luis Pérez", pin: "2222", paymentType: clock.PaymentHourly, amount: decimal.NewFromInt(12)},
	{name: "Marta López", pin: "3333", paymentType: clock.PaymentMonthly, amount: decimal.NewFromInt(1650)},
}

// LoadScenario seeds the demo roster.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	existing, err := h.Registry.Workers(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	present := make(map[string]bool, len(existing))
	for _, worker := range existing {
		present[worker.Name] = true
	}

	created := 0
	for _, d := range demoRoster {
		if present[d.name] {
			continue
		}
		if _, err := h.Registry.AddWorker(r.Context(), d.name, d.pin, d.paymentType, d.amount); err != nil {
			h.writeError(w, err)
			return
		}
		created++
	}
	h.Log.Info().Int("created", created).Msg("demo scenario loaded")
	h.writeJSON(w, http.StatusOK, map[string]int{"created": created})
}
