package solver

import (
	"sort"

	"github.com/scolarite/affect/core/model"
	"github.com/scolarite/affect/core/scoring"
)

// scoreEpsilon is the minimum gain for a swap to count as improving.
const scoreEpsilon = 1e-9

// Optimizer refines a greedy result by hill climbing over two move
// kinds: rescuing an unassigned student (possibly displacing an
// assigned one to free capacity) and pairwise target swaps between two
// assigned students. Each Step applies at most one improving move, so a
// caller can interleave its own budget or cancellation checks between
// steps. Unassigned-count improvements dominate; score improvements
// must be strict, so the loop terminates on the bounded objective.
type Optimizer struct {
	solver *Solver
	res    *Result
	matrix *scoring.Matrix
	in     Input

	// byStudent maps a student ID to its index in res.Assignments.
	byStudent map[string]int
	students  map[string]model.Student

	moves int
	pass  int
	done  bool
}

// NewOptimizer prepares a local search over the greedy result. The
// result and loads are taken over by the optimizer.
func NewOptimizer(s *Solver, res *Result, matrix *scoring.Matrix, in Input) *Optimizer {
	o := &Optimizer{
		solver:    s,
		res:       res,
		matrix:    matrix,
		in:        in,
		byStudent: make(map[string]int, len(res.Assignments)),
		students:  make(map[string]model.Student, len(in.Students)),
	}
	for i := range res.Assignments {
		o.byStudent[res.Assignments[i].StudentID] = i
	}
	for _, st := range in.Students {
		o.students[st.ID] = st
	}
	return o
}

// Done reports whether the search reached a local optimum or exhausted
// its move budget.
func (o *Optimizer) Done() bool { return o.done }

// Step searches for the first improving move and applies it. It
// returns true when a move was applied. A full fruitless scan, or an
// exhausted budget, marks the optimizer done.
func (o *Optimizer) Step() bool {
	if o.done {
		return false
	}
	if o.moves >= o.solver.maxIterations {
		o.done = true
		return false
	}
	if o.rescueStep() || o.swapStep() {
		o.moves++
		return true
	}
	o.done = true
	return false
}

// Run steps until done and returns the finalized result. The total
// score and unassigned count never regress below the greedy baseline.
func (o *Optimizer) Run() *Result {
	for {
		improved := o.Step()
		o.pass++
		o.solver.publish(PassEvent{Pass: o.pass, Improved: improved})
		if o.done {
			break
		}
	}
	o.res.finalize(o.in.Loads)
	o.solver.log.Infof("local search: %d moves applied in %d passes", o.moves, o.pass)
	return o.res
}

// rescueStep tries to place one currently-unassigned student, either on
// free capacity that appeared since the greedy pass or by displacing an
// assigned student to another target. Reducing the unassigned count is
// the first-priority objective, so any feasible rescue is improving.
func (o *Optimizer) rescueStep() bool {
	for i := range o.res.Unassigned {
		st, ok := o.students[o.res.Unassigned[i].StudentID]
		if !ok {
			continue
		}
		for _, cand := range o.matrix.BestMatchesFor(st.ID) {
			tid := cand.Target.TargetID()
			if !o.in.Loads.Fits(tid) && !o.displaceFrom(tid) {
				continue
			}
			o.place(st, cand, i)
			o.solver.publish(SwapEvent{StudentA: st.ID, Gain: cand.Score})
			return true
		}
	}
	return false
}

// displaceFrom moves one movable student off the target to another
// target with spare capacity, freeing one slot. Returns false when no
// occupant can move without breaking a constraint.
func (o *Optimizer) displaceFrom(targetID string) bool {
	for _, sid := range o.assignedIDs() {
		a := &o.res.Assignments[o.byStudent[sid]]
		if a.TargetID != targetID || a.Provenance == model.ProvenanceManual {
			continue
		}
		st := o.students[sid]
		for _, alt := range o.matrix.BestMatchesFor(sid) {
			altID := alt.Target.TargetID()
			if altID == targetID || !o.in.Loads.Fits(altID) {
				continue
			}
			o.in.Loads.Unassign(targetID, st.Gender)
			o.in.Loads.Assign(altID, st.Gender)
			o.apply(a, alt)
			return true
		}
	}
	return false
}

// swapStep looks for the first pair of assigned students on different
// targets whose exchange strictly increases the sum of their two
// pairing scores while keeping every hard constraint satisfied.
func (o *Optimizer) swapStep() bool {
	ids := o.assignedIDs()
	for i := 0; i < len(ids); i++ {
		a := &o.res.Assignments[o.byStudent[ids[i]]]
		if a.Provenance == model.ProvenanceManual {
			continue
		}
		for j := i + 1; j < len(ids); j++ {
			b := &o.res.Assignments[o.byStudent[ids[j]]]
			if b.Provenance == model.ProvenanceManual || a.TargetID == b.TargetID {
				continue
			}
			// Both cross-pairings must exist in the matrix, i.e. pass
			// the hard gate.
			aOnB, ok := o.matrix.Candidate(a.StudentID, b.TargetID)
			if !ok {
				continue
			}
			bOnA, ok := o.matrix.Candidate(b.StudentID, a.TargetID)
			if !ok {
				continue
			}
			gain := aOnB.Score + bOnA.Score - a.Score - b.Score
			if gain <= scoreEpsilon {
				continue
			}
			stA, stB := o.students[a.StudentID], o.students[b.StudentID]
			o.in.Loads.Unassign(a.TargetID, stA.Gender)
			o.in.Loads.Unassign(b.TargetID, stB.Gender)
			o.in.Loads.Assign(aOnB.Target.TargetID(), stA.Gender)
			o.in.Loads.Assign(bOnA.Target.TargetID(), stB.Gender)
			o.apply(a, aOnB)
			o.apply(b, bOnA)
			o.solver.publish(SwapEvent{StudentA: a.StudentID, StudentB: b.StudentID, Gain: gain})
			return true
		}
	}
	return false
}

// place converts the unassigned entry at index idx into an assignment.
func (o *Optimizer) place(st model.Student, cand scoring.Candidate, idx int) {
	o.in.Loads.Assign(cand.Target.TargetID(), st.Gender)
	sc := o.solver.engine.Scenario()
	o.res.Assignments = append(o.res.Assignments, model.Assignment{
		ID:          assignmentID(sc.ID, st.ID),
		StudentID:   st.ID,
		TargetID:    cand.Target.TargetID(),
		TargetKind:  cand.Target.Kind(),
		ScenarioID:  sc.ID,
		Score:       cand.Score,
		Breakdown:   cand.Breakdown,
		Explanation: cand.Explanation,
		DistanceKm:  cand.DistanceKm,
		Provenance:  model.ProvenanceAlgorithm,
	})
	o.byStudent[st.ID] = len(o.res.Assignments) - 1
	o.res.Unassigned = append(o.res.Unassigned[:idx], o.res.Unassigned[idx+1:]...)
}

// apply rewrites an assignment in place from a candidate pairing.
func (o *Optimizer) apply(a *model.Assignment, cand scoring.Candidate) {
	a.TargetID = cand.Target.TargetID()
	a.TargetKind = cand.Target.Kind()
	a.Score = cand.Score
	a.Breakdown = cand.Breakdown
	a.Explanation = cand.Explanation
	a.DistanceKm = cand.DistanceKm
}

// assignedIDs returns the assigned student IDs in stable order.
func (o *Optimizer) assignedIDs() []string {
	ids := make([]string, 0, len(o.byStudent))
	for id := range o.byStudent {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
