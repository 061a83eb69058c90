// Package jury adapts the matching engine to oral-exam panels: the
// assignment targets are juries, their subject coverage is the union of
// their members' subjects, and subject match is the dominant criterion.
package jury

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/scolarite/affect/core/capacity"
	"github.com/scolarite/affect/core/model"
	"github.com/scolarite/affect/core/scoring"
	"github.com/scolarite/affect/core/solver"
)

// Solve assigns students to juries. Configuration problems (no juries,
// a jury without members) are reported inside the result with every
// student unassigned, not solved around silently; only an invalid input
// shape returns an error.
func Solve(students []model.Student, teachers []model.Teacher, juries []model.Jury, sc *model.Scenario, opts ...solver.SolverOption) (*solver.Result, error) {
	for _, t := range teachers {
		if err := t.Validate(); err != nil {
			return nil, err
		}
	}
	for _, j := range juries {
		if err := j.Validate(); err != nil {
			return nil, err
		}
	}

	kept := lo.Filter(students, func(s model.Student, _ int) bool {
		return sc.Filter.Match(s)
	})

	if problems := validateConfiguration(juries); len(problems) > 0 {
		res := &solver.Result{Problems: problems}
		for _, s := range kept {
			res.Unassigned = append(res.Unassigned, model.Unassigned{
				StudentID: s.ID,
				Reasons:   problems,
				Problem:   model.ProblemNoData,
			})
		}
		res.Recompute(nil)
		return res, nil
	}

	byID := lo.KeyBy(teachers, func(t model.Teacher) string { return t.ID })
	caps := make(map[string]int, len(juries))
	targets := make([]scoring.Target, 0, len(juries))
	for _, j := range juries {
		members := make([]model.Teacher, 0, len(j.MemberIDs))
		for _, id := range j.MemberIDs {
			if t, ok := byID[id]; ok {
				members = append(members, t)
			}
		}
		caps[j.ID] = j.Capacity
		targets = append(targets, scoring.NewJuryTarget(j, members))
	}

	engine, err := scoring.NewEngine(withSubjectCriterion(sc))
	if err != nil {
		return nil, err
	}
	return solver.New(engine, opts...).Solve(solver.Input{
		Students: kept,
		Targets:  targets,
		Loads:    capacity.NewLoads(caps),
	})
}

// validateConfiguration reports jury setup problems before solving.
func validateConfiguration(juries []model.Jury) []string {
	if len(juries) == 0 {
		return []string{"no juries configured"}
	}
	var problems []string
	for _, j := range juries {
		if len(j.MemberIDs) == 0 {
			problems = append(problems, fmt.Sprintf("jury %s has no members", j.ID))
		}
	}
	return problems
}

// withSubjectCriterion returns the scenario, extended with a
// high-priority subject criterion when the caller did not configure
// one. Subject match dominates in the oral-exam variant.
func withSubjectCriterion(sc *model.Scenario) *model.Scenario {
	if sc.Criterion(model.CriterionSubject) != nil {
		return sc
	}
	cp := *sc
	cp.Criteria = make([]model.CriterionConfig, 0, len(sc.Criteria)+1)
	cp.Criteria = append(cp.Criteria, model.CriterionConfig{
		Kind:     model.CriterionSubject,
		Priority: model.PriorityHigh,
	})
	cp.Criteria = append(cp.Criteria, sc.Criteria...)
	return &cp
}
