package psa

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// ParamSpec declares one second-order parameter: its identifier and
// marginal distribution.
type ParamSpec struct {
	Name     string
	Marginal Marginal
}

// CorrelationGroup is a named set of parameters sampled jointly with a
// target correlation matrix (given as the flattened upper-inclusive
// symmetric matrix, row-major, len n×n). Used only while building the
// sampler, then discarded.
type CorrelationGroup struct {
	Name   string
	Params []ParamSpec
	Corr   []float64
}

// NotPositiveDefiniteError reports a correlation matrix whose Cholesky
// factorization failed. This is a configuration defect, surfaced before
// any iteration runs.
type NotPositiveDefiniteError struct {
	Group string
}

func (e *NotPositiveDefiniteError) Error() string {
	return fmt.Sprintf("correlation group %q: matrix is not positive definite", e.Group)
}

type compiledGroup struct {
	name  string
	specs []ParamSpec
	l     *mat.TriDense // Cholesky factor of the target correlation
}

// Sampler generates one joint draw of all second-order parameters per PSA
// iteration: correlated groups via Cholesky-transformed standard normals
// mapped through each marginal's inverse CDF, plus independent marginals
// sampled directly.
type Sampler struct {
	groups      []compiledGroup
	independent []ParamSpec
}

// NewSampler validates every marginal, checks each group's matrix shape
// and symmetry, and pre-factorizes the Cholesky decompositions.
func NewSampler(groups []CorrelationGroup, independent []ParamSpec) (*Sampler, error) {
	s := &Sampler{independent: independent}
	for _, spec := range independent {
		if err := spec.Marginal.Validate(); err != nil {
			return nil, fmt.Errorf("parameter %s: %w", spec.Name, err)
		}
	}
	for _, g := range groups {
		n := len(g.Params)
		if n == 0 {
			return nil, fmt.Errorf("correlation group %q has no parameters", g.Name)
		}
		if len(g.Corr) != n*n {
			return nil, fmt.Errorf("correlation group %q: matrix has %d entries, want %d", g.Name, len(g.Corr), n*n)
		}
		for _, spec := range g.Params {
			if err := spec.Marginal.Validate(); err != nil {
				return nil, fmt.Errorf("parameter %s: %w", spec.Name, err)
			}
		}
		sym := mat.NewSymDense(n, nil)
		for i := 0; i < n; i++ {
			for j := i; j < n; j++ {
				upper := g.Corr[i*n+j]
				lower := g.Corr[j*n+i]
				if math.Abs(upper-lower) > 1e-12 {
					return nil, fmt.Errorf("correlation group %q: matrix not symmetric at (%d,%d)", g.Name, i, j)
				}
				sym.SetSym(i, j, upper)
			}
		}
		var chol mat.Cholesky
		if ok := chol.Factorize(sym); !ok {
			return nil, &NotPositiveDefiniteError{Group: g.Name}
		}
		l := mat.NewTriDense(n, mat.Lower, nil)
		chol.LTo(l)
		s.groups = append(s.groups, compiledGroup{name: g.Name, specs: g.Params, l: l})
	}
	return s, nil
}

// Draw produces one joint parameter sample. The draw is rejected (error)
// if any marginal transform produces a non-finite value, which the runner
// records as a skipped iteration.
func (s *Sampler) Draw(rng *rand.Rand) (map[string]float64, error) {
	out := make(map[string]float64, s.NumParams())

	for _, g := range s.groups {
		n := len(g.specs)
		z := make([]float64, n)
		for i := range z {
			z[i] = rng.NormFloat64()
		}
		// y = L·z gives correlated standard normals; the normal CDF then
		// uniforms, and each marginal's quantile completes the transform.
		for i := 0; i < n; i++ {
			var y float64
			for j := 0; j <= i; j++ {
				y += g.l.At(i, j) * z[j]
			}
			u := clampUnit(distuv.UnitNormal.CDF(y))
			v := g.specs[i].Marginal.Quantile(u)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("group %s parameter %s: non-finite draw", g.name, g.specs[i].Name)
			}
			out[g.specs[i].Name] = v
		}
	}

	for _, spec := range s.independent {
		v := spec.Marginal.Quantile(clampUnit(rng.Float64()))
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("parameter %s: non-finite draw", spec.Name)
		}
		out[spec.Name] = v
	}
	return out, nil
}

// NumParams returns the total number of parameters per draw.
func (s *Sampler) NumParams() int {
	n := len(s.independent)
	for _, g := range s.groups {
		n += len(g.specs)
	}
	return n
}

// clampUnit keeps u strictly inside (0,1) so quantile functions stay finite.
func clampUnit(u float64) float64 {
	const eps = 1e-12
	if u < eps {
		return eps
	}
	if u > 1-eps {
		return 1 - eps
	}
	return u
}
