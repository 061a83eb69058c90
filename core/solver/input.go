package solver

import (
	"github.com/samber/lo"

	"github.com/scolarite/affect/core/capacity"
	"github.com/scolarite/affect/core/model"
	"github.com/scolarite/affect/core/scoring"
)

// BuildTeacherInput assembles a solve input over individual teachers:
// scenario filters applied, capacities resolved (including
// hour-weighted scaling when the capacity criterion asks for it) and a
// fresh load tracker created. Invalid records abort.
func BuildTeacherInput(students []model.Student, teachers []model.Teacher, sc *model.Scenario) (Input, error) {
	for _, t := range teachers {
		if err := t.Validate(); err != nil {
			return Input{}, err
		}
	}

	kept := lo.Filter(teachers, func(t model.Teacher, _ int) bool {
		return !sc.TeacherExcluded(t.ID)
	})

	weightByHours := false
	if c := sc.Criterion(model.CriterionCapacity); c != nil {
		weightByHours = c.WeightByHours
	}
	avgHours := capacity.AverageHours(kept)

	caps := make(map[string]int, len(kept))
	targets := make([]scoring.Target, 0, len(kept))
	for _, t := range kept {
		caps[t.ID] = capacity.ForTeacher(t, sc, weightByHours, avgHours)
		targets = append(targets, scoring.TeacherTarget{Teacher: t})
	}

	return Input{
		Students: lo.Filter(students, func(s model.Student, _ int) bool {
			return sc.Filter.Match(s)
		}),
		Targets: targets,
		Loads:   capacity.NewLoads(caps),
	}, nil
}
