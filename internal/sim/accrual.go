package sim

import (
	"math"

	"github.com/danribes/hypertension-microsim-sub000/internal/clinical"
	"github.com/danribes/hypertension-microsim-sub000/internal/model"
)

// Accrue adds one cycle's discounted cost and QALY contribution to the
// patient's accumulators. Half-cycle correction: the state is treated as
// occupied at the cycle midpoint, so discounting uses t + 0.5 cycles.
// A patient who died in an earlier cycle accrues nothing; a patient who
// dies this cycle accrues the one-time event cost and half the month's
// utility (occupancy up to the midpoint).
func Accrue(p *model.Patient, event model.Outcome, cycle int, in *clinical.Inputs) {
	tEffective := (float64(cycle) + 0.5) / 12 // years
	discount := math.Pow(1+in.AnnualDiscountRate, -tEffective)

	cost := in.CostLookup(p, prescribed(p))
	if event != model.OutcomeNone {
		cost += in.EventCost[event]
	}

	qaly := in.UtilityLookup(p) / 12
	if event.Fatal() {
		qaly /= 2
	}

	p.CumCost += cost * discount
	p.CumQALY += qaly * discount
}
