package model

import "time"

// EventRecord is one sampled event in a patient's log.
type EventRecord struct {
	Cycle   int
	Outcome Outcome
}

// PatientResult captures the final state of one patient after a cohort run.
type PatientResult struct {
	PatientID int64
	Cycles    int // cycles actually simulated
	CumCost   float64
	CumQALY   float64
	Dead      bool
	Events    []EventRecord
	Failed    bool
	FailErr   string
}

// CohortResult captures one arm's cohort run.
type CohortResult struct {
	Treatment Treatment
	Seed      int64
	Patients  []PatientResult
	Failures  int
	Duration  time.Duration
}

// MeanCost returns the mean cumulative discounted cost over non-failed patients.
func (r *CohortResult) MeanCost() float64 {
	return r.mean(func(p *PatientResult) float64 { return p.CumCost })
}

// MeanQALY returns the mean cumulative discounted QALYs over non-failed patients.
func (r *CohortResult) MeanQALY() float64 {
	return r.mean(func(p *PatientResult) float64 { return p.CumQALY })
}

func (r *CohortResult) mean(f func(*PatientResult) float64) float64 {
	var sum float64
	var n int
	for i := range r.Patients {
		if r.Patients[i].Failed {
			continue
		}
		sum += f(&r.Patients[i])
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
