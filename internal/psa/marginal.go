// Package psa implements the outer uncertainty loop: correlated
// second-order parameter sampling, paired-arm simulation under Common
// Random Numbers, and cost-effectiveness aggregation.
package psa

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// Dist names a marginal distribution family.
type Dist string

const (
	DistNormal    Dist = "normal"
	DistLognormal Dist = "lognormal"
	DistGamma     Dist = "gamma"
	DistBeta      Dist = "beta"
)

// Marginal declares a parameter's marginal distribution by its mean and
// standard deviation. Family parameters (mu/sigma, alpha/beta) are derived
// by moment matching, which is how health-economic models usually report
// their uncertainty inputs.
type Marginal struct {
	Dist Dist
	Mean float64
	SD   float64
}

// Validate checks that moment matching is possible for the declared family.
func (m Marginal) Validate() error {
	if m.SD < 0 {
		return fmt.Errorf("marginal SD %g is negative", m.SD)
	}
	switch m.Dist {
	case DistNormal:
	case DistLognormal, DistGamma:
		if m.Mean <= 0 {
			return fmt.Errorf("%s marginal needs positive mean, got %g", m.Dist, m.Mean)
		}
	case DistBeta:
		if m.Mean <= 0 || m.Mean >= 1 {
			return fmt.Errorf("beta marginal mean %g outside (0,1)", m.Mean)
		}
		if m.SD*m.SD >= m.Mean*(1-m.Mean) {
			return fmt.Errorf("beta marginal SD %g too large for mean %g", m.SD, m.Mean)
		}
	default:
		return fmt.Errorf("unknown distribution %q", m.Dist)
	}
	return nil
}

// Quantile maps u ∈ (0,1) through the marginal's inverse CDF. Combined
// with a correlated standard normal pushed through the normal CDF this is
// the probability integral transform: correlation structure is imposed in
// normal space while each marginal is preserved exactly.
func (m Marginal) Quantile(u float64) float64 {
	// Degenerate marginals (SD 0) are point masses.
	if m.SD == 0 {
		return m.Mean
	}
	switch m.Dist {
	case DistNormal:
		return distuv.Normal{Mu: m.Mean, Sigma: m.SD}.Quantile(u)
	case DistLognormal:
		sigma2 := math.Log(1 + (m.SD*m.SD)/(m.Mean*m.Mean))
		mu := math.Log(m.Mean) - sigma2/2
		return distuv.LogNormal{Mu: mu, Sigma: math.Sqrt(sigma2)}.Quantile(u)
	case DistGamma:
		alpha := m.Mean * m.Mean / (m.SD * m.SD)
		beta := m.Mean / (m.SD * m.SD)
		return distuv.Gamma{Alpha: alpha, Beta: beta}.Quantile(u)
	case DistBeta:
		nu := m.Mean*(1-m.Mean)/(m.SD*m.SD) - 1
		return distuv.Beta{Alpha: m.Mean * nu, Beta: (1 - m.Mean) * nu}.Quantile(u)
	}
	return math.NaN()
}
