package solver

import (
	"fmt"

	"github.com/scolarite/affect/core/model"
	"github.com/scolarite/affect/core/scoring"
)

// classifyUnassigned derives the ordered reasons and the coarse problem
// kind for a student the greedy pass could not place.
func classifyUnassigned(st model.Student, m *scoring.Matrix) model.Unassigned {
	un := model.Unassigned{StudentID: st.ID, Problem: model.ProblemUnknown}

	cands := m.BestMatchesFor(st.ID)
	if len(cands) > 0 {
		// Candidates existed but every one was at capacity.
		un.Problem = model.ProblemCapacity
		un.Reasons = append(un.Reasons, "all candidate supervisors at capacity")
		return un
	}

	failures := m.Failures(st.ID)
	if m.TargetCount() == 0 {
		un.Problem = model.ProblemNoData
		un.Reasons = append(un.Reasons, "no assignment targets available")
		return un
	}

	if n := failures[model.CriterionDistance]; n > 0 {
		if m.NoDistance(st.ID) == n {
			un.Problem = model.ProblemNotGeocoded
			un.Reasons = append(un.Reasons, "student location is not geocoded")
		} else {
			un.Problem = model.ProblemTooFar
			un.Reasons = append(un.Reasons, fmt.Sprintf("no supervisor within distance (%d excluded)", n))
		}
	}
	if n := failures[model.CriterionManual]; n > 0 {
		un.Reasons = append(un.Reasons, fmt.Sprintf("pairing constraints exclude %d supervisors", n))
	}
	if n := failures[model.CriterionSubject]; n > 0 {
		un.Reasons = append(un.Reasons, fmt.Sprintf("no subject coverage on %d targets", n))
	}
	if len(un.Reasons) == 0 {
		un.Reasons = append(un.Reasons, "no valid candidate")
	}
	return un
}
