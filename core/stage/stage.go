// Package stage adapts the matching engine to internship supervision:
// pairings are restricted to pre-computed candidate pairs within a
// maximum distance and the distance-to-score curve dominates.
package stage

import (
	"sort"

	"github.com/samber/lo"

	"github.com/scolarite/affect/core/capacity"
	"github.com/scolarite/affect/core/geo"
	"github.com/scolarite/affect/core/model"
	"github.com/scolarite/affect/core/scoring"
	"github.com/scolarite/affect/core/solver"
)

// CandidatePair is one pre-filtered (student, teacher) pairing with its
// distance attached. Pairs beyond the scenario cutoff are simply never
// built, which the engine treats as a hard-constraint failure.
type CandidatePair struct {
	StudentID   string  `json:"student_id"`
	TeacherID   string  `json:"teacher_id"`
	DistanceKm  float64 `json:"distance_km"`
	DurationMin float64 `json:"duration_min"`
}

// BuildPairs computes the candidate pairs from geocoded stages and
// teacher homes, keeping only those within maxKm. A non-positive maxKm
// falls back to the default cutoff. The output is ordered by student
// then teacher ID.
func BuildPairs(stages []model.Stage, teachers []model.Teacher, maxKm float64) []CandidatePair {
	if maxKm <= 0 {
		maxKm = geo.DefaultCutoffKm
	}
	var pairs []CandidatePair
	for _, st := range stages {
		if !st.Geocoded() {
			continue
		}
		for _, t := range teachers {
			if t.Home == nil {
				continue
			}
			d := geo.Distance(*st.Location, *t.Home)
			if d > maxKm {
				continue
			}
			pairs = append(pairs, CandidatePair{
				StudentID:   st.StudentID,
				TeacherID:   t.ID,
				DistanceKm:  d,
				DurationMin: geo.DurationMinutes(d),
			})
		}
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].StudentID != pairs[j].StudentID {
			return pairs[i].StudentID < pairs[j].StudentID
		}
		return pairs[i].TeacherID < pairs[j].TeacherID
	})
	return pairs
}

// Solve assigns internship students to supervising teachers using the
// supplied pre-computed pairs. Students without an internship record or
// without a geocoded one are reported unassigned up front, in the
// cause-priority order the roster expects.
func Solve(students []model.Student, teachers []model.Teacher, stages []model.Stage, pairs []CandidatePair, sc *model.Scenario, opts ...solver.SolverOption) (*solver.Result, error) {
	for _, st := range stages {
		if err := st.Validate(); err != nil {
			return nil, err
		}
	}

	kept := lo.Filter(students, func(s model.Student, _ int) bool {
		return sc.Filter.Match(s)
	})
	stageByStudent := lo.KeyBy(stages, func(s model.Stage) string { return s.StudentID })

	res := &solver.Result{}
	var solvable []model.Student
	for _, s := range kept {
		st, ok := stageByStudent[s.ID]
		switch {
		case !ok:
			res.Unassigned = append(res.Unassigned, model.Unassigned{
				StudentID: s.ID,
				Reasons:   []string{"no internship record"},
				Problem:   model.ProblemNoData,
			})
		case !st.Geocoded():
			res.Unassigned = append(res.Unassigned, model.Unassigned{
				StudentID: s.ID,
				Reasons:   []string{"internship location is not geocoded"},
				Problem:   model.ProblemNotGeocoded,
			})
		default:
			solvable = append(solvable, s)
		}
	}

	dist := make(map[string]map[string]CandidatePair, len(pairs))
	for _, p := range pairs {
		if dist[p.StudentID] == nil {
			dist[p.StudentID] = make(map[string]CandidatePair)
		}
		dist[p.StudentID][p.TeacherID] = p
	}

	in, err := solver.BuildTeacherInput(solvable, teachers, sc)
	if err != nil {
		return nil, err
	}

	scenario := withDistanceCriterion(sc)
	engine, err := scoring.NewEngine(scenario,
		scoring.WithDistanceFunc(func(s model.Student, t scoring.Target) (float64, bool) {
			p, ok := dist[s.ID][t.TargetID()]
			if !ok {
				return 0, false
			}
			return p.DistanceKm, true
		}),
		scoring.WithPairFilter(func(s model.Student, t scoring.Target) bool {
			_, ok := dist[s.ID][t.TargetID()]
			return ok
		}),
	)
	if err != nil {
		return nil, err
	}

	solved, err := solver.New(engine, opts...).Solve(in)
	if err != nil {
		return nil, err
	}

	for i := range solved.Assignments {
		a := &solved.Assignments[i]
		if p, ok := dist[a.StudentID][a.TargetID]; ok {
			a.DistanceKm = p.DistanceKm
			a.DurationMin = p.DurationMin
		}
	}

	// Students reaching this point are geocoded; a pairing without a
	// pre-computed pair is out of range, not missing a location.
	for i := range solved.Unassigned {
		u := &solved.Unassigned[i]
		if u.Problem == model.ProblemNotGeocoded {
			u.Problem = model.ProblemTooFar
			u.Reasons = []string{"no supervisor within maximum distance"}
		}
	}

	merged := mergeResults(res, solved, in.Loads)
	return merged, nil
}

// withDistanceCriterion returns the scenario, extended with a hard
// high-priority distance criterion when the caller did not configure
// one. Distance is the dominant criterion in this variant.
func withDistanceCriterion(sc *model.Scenario) *model.Scenario {
	if sc.Criterion(model.CriterionDistance) != nil {
		return sc
	}
	cp := *sc
	cp.Criteria = make([]model.CriterionConfig, 0, len(sc.Criteria)+1)
	cp.Criteria = append(cp.Criteria, model.CriterionConfig{
		Kind:          model.CriterionDistance,
		Priority:      model.PriorityHigh,
		Hard:          true,
		MaxDistanceKm: sc.MaxDistanceKm,
	})
	cp.Criteria = append(cp.Criteria, sc.Criteria...)
	return &cp
}

// mergeResults folds the pre-classified unassigned entries into the
// solver output and recomputes the aggregate statistics.
func mergeResults(pre, solved *solver.Result, loads *capacity.Loads) *solver.Result {
	solved.Unassigned = append(solved.Unassigned, pre.Unassigned...)
	solved.Problems = append(pre.Problems, solved.Problems...)
	solved.Recompute(loads)
	return solved
}
