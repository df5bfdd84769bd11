package risk

import (
	"errors"
	"math"
	"testing"

	"github.com/danribes/hypertension-microsim-sub000/internal/model"
)

func TestResolveSingleOutcomeIdentity(t *testing.T) {
	raw := model.TransitionProbabilities{model.OutcomeMI: 0.01}
	resolved, err := Resolve(raw)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	// With a single nonzero outcome the hazard round-trip is exact:
	// 1 - exp(-(-ln(0.99))) = 0.01.
	if math.Abs(resolved[model.OutcomeMI]-0.01) > 1e-12 {
		t.Errorf("expected 0.01, got %.15f", resolved[model.OutcomeMI])
	}
}

func TestResolveSumBounded(t *testing.T) {
	// High-risk vector: naive summation gives 2.1.
	raw := model.TransitionProbabilities{
		model.OutcomeMI:             0.5,
		model.OutcomeIschemicStroke: 0.5,
		model.OutcomeHeartFailure:   0.5,
		model.OutcomeCVDeath:        0.4,
		model.OutcomeOtherDeath:     0.2,
	}
	resolved, err := Resolve(raw)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if sum := resolved.Total(); sum > 1+1e-9 {
		t.Errorf("resolved sum %.12f exceeds 1", sum)
	}
	if sum := resolved.Total(); sum <= 0.9 {
		t.Errorf("resolved sum %.12f implausibly low for this input", sum)
	}
}

func TestResolvePreservesHazardRatios(t *testing.T) {
	raw := model.TransitionProbabilities{
		model.OutcomeMI:             0.10,
		model.OutcomeIschemicStroke: 0.03,
	}
	resolved, err := Resolve(raw)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	h1 := -math.Log1p(-0.10)
	h2 := -math.Log1p(-0.03)
	want := h1 / h2
	got := resolved[model.OutcomeMI] / resolved[model.OutcomeIschemicStroke]
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("hazard ratio not preserved: want %.9f, got %.9f", want, got)
	}
}

func TestResolveZeroHazard(t *testing.T) {
	raw := model.TransitionProbabilities{
		model.OutcomeMI:      0,
		model.OutcomeCVDeath: 0,
	}
	resolved, err := Resolve(raw)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	for o, p := range resolved {
		if p != 0 {
			t.Errorf("outcome %s: expected 0, got %g", o, p)
		}
	}
}

func TestResolveRejectsNegative(t *testing.T) {
	raw := model.TransitionProbabilities{model.OutcomeMI: -0.01}
	_, err := Resolve(raw)
	if err == nil {
		t.Fatal("expected error for negative probability")
	}
	var perr *ProbabilityError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ProbabilityError, got %T", err)
	}
	if perr.Outcome != model.OutcomeMI {
		t.Errorf("error names outcome %s, want mi", perr.Outcome)
	}
}

func TestResolveRejectsUnitProbability(t *testing.T) {
	raw := model.TransitionProbabilities{model.OutcomeCVDeath: 1.0}
	if _, err := Resolve(raw); err == nil {
		t.Fatal("expected error for probability of 1")
	}
}
