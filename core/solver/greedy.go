package solver

import (
	"sort"

	"github.com/google/uuid"

	"github.com/scolarite/affect/core/capacity"
	"github.com/scolarite/affect/core/logger"
	"github.com/scolarite/affect/core/model"
	"github.com/scolarite/affect/core/scoring"
	"github.com/scolarite/affect/internal/eventbus"
)

// DefaultMaxIterations bounds the local-search move budget.
const DefaultMaxIterations = 1000

// Input is one solve's worth of immutable data. Loads is owned by the
// solve; callers must hand each solve its own tracker.
type Input struct {
	Students []model.Student
	Targets  []scoring.Target
	Loads    *capacity.Loads

	// Preexisting seeds the solve with assignments from an earlier run.
	// Seeded pairings are kept and re-scored against the current
	// scenario; manual ones are never displaced.
	Preexisting []model.Assignment
}

// Solver runs the greedy pass and the local-search refinement for one
// scenario.
type Solver struct {
	engine        *scoring.Engine
	log           logger.Logger
	bus           eventbus.EventBus
	maxIterations int
}

// SolverOption customizes a Solver.
type SolverOption func(*Solver)

// WithLogger sets the solver logger.
func WithLogger(log logger.Logger) SolverOption {
	return func(s *Solver) { s.log = log }
}

// WithEventBus publishes solve progress events on the given bus.
func WithEventBus(bus eventbus.EventBus) SolverOption {
	return func(s *Solver) { s.bus = bus }
}

// WithMaxIterations bounds the local-search move budget.
func WithMaxIterations(n int) SolverOption {
	return func(s *Solver) {
		if n > 0 {
			s.maxIterations = n
		}
	}
}

// New creates a solver over the given scoring engine.
func New(engine *scoring.Engine, opts ...SolverOption) *Solver {
	s := &Solver{engine: engine, log: logger.Nop{}, maxIterations: DefaultMaxIterations}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Solver) publish(e eventbus.Event) {
	if s.bus != nil {
		s.bus.Publish(e)
	}
}

// assignmentID derives a stable identifier for a pairing so that two
// identical solves produce byte-identical output.
func assignmentID(scenarioID, studentID string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(scenarioID+"/"+studentID)).String()
}

// Solve validates the input, runs the greedy pass and refines it with
// local search. Only an invalid input shape yields an error; every
// scheduling outcome is reported inside the Result.
func (s *Solver) Solve(in Input) (*Result, error) {
	for _, st := range in.Students {
		if err := st.Validate(); err != nil {
			return nil, err
		}
	}

	res, matrix := s.Greedy(in)
	opt := NewOptimizer(s, res, matrix, in)
	return opt.Run(), nil
}

// Greedy builds the initial assignment: students ordered by fewest
// valid candidates first, each placed on its best-scoring target with
// remaining capacity, tie-broken by lowest current load then target ID.
func (s *Solver) Greedy(in Input) (*Result, *scoring.Matrix) {
	res := &Result{}
	sc := s.engine.Scenario()
	loads := in.Loads

	if len(in.Targets) == 0 {
		res.Problems = append(res.Problems, "no assignment targets configured")
	} else if loads.TotalCapacity() == 0 {
		res.Problems = append(res.Problems, "all target capacities are zero")
	}

	// Seed pre-existing assignments into the loads before scoring so
	// equilibrage and capacity see them.
	seeds := make(map[string]model.Assignment, len(in.Preexisting))
	for _, a := range in.Preexisting {
		seeds[a.StudentID] = a
	}
	preassigned := make(map[string]bool, len(seeds))
	for _, st := range in.Students {
		seed, ok := seeds[st.ID]
		if !ok {
			continue
		}
		preassigned[st.ID] = true
		loads.Assign(seed.TargetID, st.Gender)
	}

	matrix := s.engine.EvaluateAllPairs(in.Students, in.Targets, loads)

	// Seeded pairings keep their target and provenance but are re-scored
	// against this scenario, so a re-solve on its own output reproduces
	// the assignments in full.
	for _, st := range in.Students {
		seed, ok := seeds[st.ID]
		if !ok {
			continue
		}
		a := model.Assignment{
			ID:         assignmentID(sc.ID, st.ID),
			StudentID:  st.ID,
			TargetID:   seed.TargetID,
			ScenarioID: sc.ID,
			DistanceKm: -1,
			Provenance: seed.Provenance,
		}
		if a.Provenance == "" {
			a.Provenance = model.ProvenanceManual
		}
		target, found := findTarget(in.Targets, seed.TargetID)
		if found {
			a.TargetKind = target.Kind()
		} else {
			a.TargetKind = model.TargetTeacher
		}
		if cand, ok := matrix.Candidate(st.ID, seed.TargetID); ok {
			a.Score = cand.Score
			a.Breakdown = cand.Breakdown
			a.Explanation = cand.Explanation
			a.DistanceKm = cand.DistanceKm
		} else if found {
			// The seed would not pass the hard gate today; keep it, score
			// it anyway.
			ps := s.engine.ScorePair(st, target, loads)
			a.Score = ps.Score
			a.Breakdown = ps.Breakdown
			a.Explanation = ps.Explanation
			a.DistanceKm = ps.DistanceKm
		}
		res.Assignments = append(res.Assignments, a)
	}

	if len(res.Problems) > 0 {
		// Degrade gracefully: everyone without a seed stays unassigned.
		for _, st := range in.Students {
			if preassigned[st.ID] {
				continue
			}
			res.Unassigned = append(res.Unassigned, model.Unassigned{
				StudentID: st.ID,
				Reasons:   res.Problems,
				Problem:   model.ProblemNoData,
			})
		}
		res.finalize(loads)
		return res, matrix
	}

	capacityHard := s.engine.CapacityHard()
	for _, st := range s.orderStudents(in.Students, matrix, preassigned) {
		cand, ok := pickTarget(matrix.BestMatchesFor(st.ID), loads, capacityHard)
		if !ok {
			un := classifyUnassigned(st, matrix)
			res.Unassigned = append(res.Unassigned, un)
			s.publish(UnassignedEvent{StudentID: st.ID, Problem: string(un.Problem)})
			continue
		}
		loads.Assign(cand.Target.TargetID(), st.Gender)
		res.Assignments = append(res.Assignments, model.Assignment{
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
		s.publish(PlacementEvent{StudentID: st.ID, TargetID: cand.Target.TargetID(), Score: cand.Score})
	}

	res.finalize(loads)
	s.log.Infof("greedy pass: %d assigned, %d unassigned", res.Stats.Assigned, res.Stats.Unassigned)
	return res, matrix
}

// orderStudents returns a most-constrained-first ordering: fewest valid
// candidates first, then ID for reproducibility. Pre-assigned students
// are left out.
func (s *Solver) orderStudents(students []model.Student, m *scoring.Matrix, preassigned map[string]bool) []model.Student {
	out := make([]model.Student, 0, len(students))
	for _, st := range students {
		if !preassigned[st.ID] {
			out = append(out, st)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		ci := len(m.BestMatchesFor(out[i].ID))
		cj := len(m.BestMatchesFor(out[j].ID))
		if ci != cj {
			return ci < cj
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// pickTarget selects the best-scoring candidate with remaining
// capacity. Among equal scores the least-loaded target wins, then the
// lower target ID. When capacity is soft and every candidate is full,
// the best candidate is used anyway (overflow penalized, not dropped).
func pickTarget(cands []scoring.Candidate, loads *capacity.Loads, capacityHard bool) (scoring.Candidate, bool) {
	var best scoring.Candidate
	found := false
	for _, c := range cands {
		if !loads.Fits(c.Target.TargetID()) {
			continue
		}
		if !found || better(c, best, loads) {
			best, found = c, true
		}
	}
	if found {
		return best, true
	}
	if !capacityHard && len(cands) > 0 {
		// Overflow placement uses the same tie-breaks as the regular
		// path, so two equally-scored full targets split the overflow
		// by load.
		best = cands[0]
		for _, c := range cands[1:] {
			if better(c, best, loads) {
				best = c
			}
		}
		return best, true
	}
	return scoring.Candidate{}, false
}

// better reports whether a should be preferred over b.
func better(a, b scoring.Candidate, loads *capacity.Loads) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	la, lb := loads.Count(a.Target.TargetID()), loads.Count(b.Target.TargetID())
	if la != lb {
		return la < lb
	}
	return a.Target.TargetID() < b.Target.TargetID()
}

func findTarget(targets []scoring.Target, id string) (scoring.Target, bool) {
	for _, t := range targets {
		if t.TargetID() == id {
			return t, true
		}
	}
	return nil, false
}
