package psa

import (
	"math"
	"time"

	"gonum.org/v1/gonum/stat"
)

// CEPoint is one iteration's incremental outcome on the
// cost-effectiveness plane (treatment arm minus comparator arm).
type CEPoint struct {
	Iteration int
	DeltaCost float64
	DeltaQALY float64
}

// CEACPoint is one willingness-to-pay step on the acceptability curve.
type CEACPoint struct {
	Lambda float64
	// ProbCostEffective is the fraction of iterations where
	// λ·ΔQALY − ΔCost > 0.
	ProbCostEffective float64
}

// Results aggregates a PSA run. Skipped iterations and per-patient
// failures are carried so callers can report requested vs. completed
// counts; silent loss is not an option.
type Results struct {
	Requested       int
	Completed       int
	Skipped         int
	PatientFailures int

	Points []CEPoint

	// ParamDraws holds each completed iteration's parameter values,
	// aligned with Points, for parameter-vs-NMB correlation reporting.
	ParamDraws []map[string]float64

	Duration time.Duration
}

// MeanDeltaCost returns the mean incremental cost over completed iterations.
func (r *Results) MeanDeltaCost() float64 {
	return meanOf(r.Points, func(p CEPoint) float64 { return p.DeltaCost })
}

// MeanDeltaQALY returns the mean incremental QALYs over completed iterations.
func (r *Results) MeanDeltaQALY() float64 {
	return meanOf(r.Points, func(p CEPoint) float64 { return p.DeltaQALY })
}

// ICER returns the incremental cost-effectiveness ratio of the means.
func (r *Results) ICER() float64 {
	dq := r.MeanDeltaQALY()
	if dq == 0 {
		return math.Inf(1)
	}
	return r.MeanDeltaCost() / dq
}

// MCSEDeltaCost returns the Monte Carlo standard error of the mean
// incremental cost: sd/√n over completed iterations.
func (r *Results) MCSEDeltaCost() float64 {
	return mcseOf(r.Points, func(p CEPoint) float64 { return p.DeltaCost })
}

// MCSEDeltaQALY returns the Monte Carlo standard error of the mean
// incremental QALYs.
func (r *Results) MCSEDeltaQALY() float64 {
	return mcseOf(r.Points, func(p CEPoint) float64 { return p.DeltaQALY })
}

// RelativeICERError estimates the Monte Carlo standard error of the ICER
// relative to its magnitude, via the delta method for a ratio of means
// including the cost/QALY covariance term. This is the convergence
// criterion the runner tracks.
func (r *Results) RelativeICERError() float64 {
	n := len(r.Points)
	if n < 2 {
		return math.Inf(1)
	}
	mc := r.MeanDeltaCost()
	mq := r.MeanDeltaQALY()
	if mc == 0 || mq == 0 {
		return math.Inf(1)
	}
	var varC, varQ, cov float64
	for _, p := range r.Points {
		dc := p.DeltaCost - mc
		dq := p.DeltaQALY - mq
		varC += dc * dc
		varQ += dq * dq
		cov += dc * dq
	}
	nf := float64(n)
	varC /= nf - 1
	varQ /= nf - 1
	cov /= nf - 1
	rel2 := (varC/(mc*mc) + varQ/(mq*mq) - 2*cov/(mc*mq)) / nf
	if rel2 < 0 {
		rel2 = 0
	}
	return math.Sqrt(rel2)
}

// CEAC computes the cost-effectiveness acceptability curve over a
// willingness-to-pay sweep.
func (r *Results) CEAC(lambdas []float64) []CEACPoint {
	out := make([]CEACPoint, len(lambdas))
	for i, lambda := range lambdas {
		var ce int
		for _, p := range r.Points {
			if lambda*p.DeltaQALY-p.DeltaCost > 0 {
				ce++
			}
		}
		frac := 0.0
		if len(r.Points) > 0 {
			frac = float64(ce) / float64(len(r.Points))
		}
		out[i] = CEACPoint{Lambda: lambda, ProbCostEffective: frac}
	}
	return out
}

// EVPI returns the expected value of perfect information per decision at
// the given willingness-to-pay: the gap between deciding per-iteration
// with perfect knowledge and committing to the better strategy on average.
func (r *Results) EVPI(lambda float64) float64 {
	if len(r.Points) == 0 {
		return 0
	}
	var sumMax, sumINB float64
	for _, p := range r.Points {
		inb := lambda*p.DeltaQALY - p.DeltaCost
		sumINB += inb
		if inb > 0 {
			sumMax += inb
		}
	}
	n := float64(len(r.Points))
	best := sumINB / n
	if best < 0 {
		best = 0
	}
	return sumMax/n - best
}

// ParameterCorrelations returns the Pearson correlation of each sampled
// parameter with the iteration's incremental net monetary benefit, a
// screen for which uncertainties drive the decision.
func (r *Results) ParameterCorrelations(lambda float64) map[string]float64 {
	if len(r.Points) < 2 || len(r.ParamDraws) != len(r.Points) {
		return nil
	}
	nmb := make([]float64, len(r.Points))
	for i, p := range r.Points {
		nmb[i] = lambda*p.DeltaQALY - p.DeltaCost
	}
	out := make(map[string]float64)
	for name := range r.ParamDraws[0] {
		vals := make([]float64, len(r.ParamDraws))
		for i, draw := range r.ParamDraws {
			vals[i] = draw[name]
		}
		out[name] = stat.Correlation(vals, nmb, nil)
	}
	return out
}

func meanOf(points []CEPoint, f func(CEPoint) float64) float64 {
	if len(points) == 0 {
		return 0
	}
	var sum float64
	for _, p := range points {
		sum += f(p)
	}
	return sum / float64(len(points))
}

func mcseOf(points []CEPoint, f func(CEPoint) float64) float64 {
	n := len(points)
	if n < 2 {
		return math.Inf(1)
	}
	mean := meanOf(points, f)
	var ss float64
	for _, p := range points {
		d := f(p) - mean
		ss += d * d
	}
	sd := math.Sqrt(ss / float64(n-1))
	return sd / math.Sqrt(float64(n))
}
