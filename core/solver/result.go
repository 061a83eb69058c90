// Package solver builds a complete assignment for one scenario: a
// deterministic greedy pass over the candidate matrix followed by a
// swap-based local-search refinement.
package solver

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/scolarite/affect/core/capacity"
	"github.com/scolarite/affect/core/model"
)

// Stats aggregates a solve outcome.
type Stats struct {
	Assigned         int                  `json:"assigned"`
	Unassigned       int                  `json:"unassigned"`
	MeanScore        float64              `json:"mean_score"`
	SubjectMatchRate float64              `json:"subject_match_rate,omitempty"`
	MeanDistanceKm   float64              `json:"mean_distance_km,omitempty"`
	Charge           capacity.ChargeStats `json:"charge"`
}

// Result is the outcome of a solve. Problems lists configuration
// issues the caller must check before trusting the output; when
// non-empty the solver degraded gracefully instead of failing.
type Result struct {
	Assignments []model.Assignment `json:"assignments"`
	Unassigned  []model.Unassigned `json:"unassigned"`
	Stats       Stats              `json:"stats"`
	Problems    []string           `json:"problems,omitempty"`
}

// TotalScore sums the aggregate scores of all assignments.
func (r *Result) TotalScore() float64 {
	var total float64
	for _, a := range r.Assignments {
		total += a.Score
	}
	return total
}

// Recompute reorders the output deterministically and refreshes the
// aggregate statistics. Variant orchestrators call it after merging
// their own unassigned entries into a solver result.
func (r *Result) Recompute(loads *capacity.Loads) { r.finalize(loads) }

// finalize orders the output deterministically and recomputes stats.
func (r *Result) finalize(loads *capacity.Loads) {
	sort.Slice(r.Assignments, func(i, j int) bool {
		return r.Assignments[i].StudentID < r.Assignments[j].StudentID
	})
	sort.Slice(r.Unassigned, func(i, j int) bool {
		return r.Unassigned[i].StudentID < r.Unassigned[j].StudentID
	})

	st := Stats{Assigned: len(r.Assignments), Unassigned: len(r.Unassigned)}
	if len(r.Assignments) > 0 {
		scores := make([]float64, len(r.Assignments))
		matched := 0
		subjectScored := 0
		var dists []float64
		for i, a := range r.Assignments {
			scores[i] = a.Score
			if sub, ok := a.Breakdown[model.CriterionSubject]; ok {
				subjectScored++
				if sub >= 100 {
					matched++
				}
			}
			if a.DistanceKm >= 0 {
				dists = append(dists, a.DistanceKm)
			}
		}
		st.MeanScore = stat.Mean(scores, nil)
		if subjectScored > 0 {
			st.SubjectMatchRate = float64(matched) / float64(subjectScored)
		}
		if len(dists) > 0 {
			st.MeanDistanceKm = stat.Mean(dists, nil)
		}
	}
	if loads != nil {
		st.Charge = capacity.CalculateChargeStats(loads)
	}
	r.Stats = st
}
