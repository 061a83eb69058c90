// Package scoring evaluates candidate (student, target) pairings: a
// hard-constraint gate followed by a weighted multi-criteria score.
//
// A scenario's criterion list is resolved once into an ordered slice of
// scoring functions; every pairing is then scored by a plain walk over
// that slice. Hard criteria short-circuit with the cheapest checks
// first, and a failed pairing is never scored further.
package scoring

import (
	"fmt"
	"sort"
	"strings"

	"github.com/scolarite/affect/core/capacity"
	"github.com/scolarite/affect/core/geo"
	"github.com/scolarite/affect/core/logger"
	"github.com/scolarite/affect/core/model"
)

// DistanceFunc resolves the distance in kilometers between a student
// and a target. The boolean is false when no distance is known.
type DistanceFunc func(s model.Student, t Target) (float64, bool)

// PairFilter restricts the candidate universe up front. Pairs it
// rejects never reach scoring, equivalent to a hard-constraint failure.
type PairFilter func(s model.Student, t Target) bool

// Engine scores pairings for one scenario. It is stateless across
// pairings and safe to share within a single solve.
type Engine struct {
	scenario *model.Scenario
	criteria []resolvedCriterion
	distance DistanceFunc
	filter   PairFilter
	log      logger.Logger
}

// Option customizes engine construction.
type Option func(*Engine)

// WithDistanceFunc overrides how pair distances are resolved. The
// geographic variant uses this to feed pre-computed distances.
func WithDistanceFunc(fn DistanceFunc) Option {
	return func(e *Engine) { e.distance = fn }
}

// WithPairFilter restricts candidate pairs up front. The geographic
// variant supplies the pre-computed within-distance pair set here.
func WithPairFilter(f PairFilter) Option {
	return func(e *Engine) { e.filter = f }
}

// WithLogger sets the engine logger.
func WithLogger(log logger.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// NewEngine resolves the scenario's active criteria into a scoring
// engine. The scenario shape is validated; an invalid shape is a caller
// bug and aborts.
func NewEngine(sc *model.Scenario, opts ...Option) (*Engine, error) {
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{scenario: sc, log: logger.Nop{}}
	e.distance = e.defaultDistance
	for _, opt := range opts {
		opt(e)
	}
	for _, cfg := range sc.Criteria {
		if cfg.Priority == model.PriorityOff {
			continue
		}
		e.criteria = append(e.criteria, e.resolveCriterion(cfg))
	}
	return e, nil
}

// Scenario returns the scenario the engine was built for.
func (e *Engine) Scenario() *model.Scenario { return e.scenario }

// CapacityHard reports whether capacity is enforced as a hard
// constraint. Capacity is hard by default; only a capacity criterion
// explicitly configured soft allows penalized overflow.
func (e *Engine) CapacityHard() bool {
	c := e.scenario.Criterion(model.CriterionCapacity)
	return c == nil || c.Hard
}

func (e *Engine) defaultDistance(s model.Student, t Target) (float64, bool) {
	if s.Home == nil || t.Location() == nil {
		return 0, false
	}
	return geo.Distance(*s.Home, *t.Location()), true
}

// ValidateHardConstraints evaluates only the hard criteria of the
// scenario for one pairing, cheapest checks first, and returns the
// first violated criterion's kind. Explicit must-not-be-with
// constraints are always enforced, independent of criterion
// configuration. checkCapacity is false when the caller enforces
// capacity itself against live loads.
func (e *Engine) ValidateHardConstraints(s model.Student, t Target, loads *capacity.Loads, checkCapacity bool) (bool, model.CriterionKind) {
	if excludesTarget(s, t) {
		return false, model.CriterionManual
	}
	if e.filter != nil && !e.filter(s, t) {
		return false, model.CriterionDistance
	}
	if e.hardCriterion(model.CriterionManual) != nil && len(s.MustBeWith) > 0 && !wantsTarget(s, t) {
		return false, model.CriterionManual
	}
	if checkCapacity && e.CapacityHard() && !loads.Fits(t.TargetID()) {
		return false, model.CriterionCapacity
	}
	if c := e.hardCriterion(model.CriterionDistance); c != nil {
		d, ok := e.distance(s, t)
		if !ok {
			return false, model.CriterionDistance
		}
		cutoff := c.MaxDistanceKm
		if cutoff <= 0 {
			cutoff = e.scenario.MaxDistanceKm
		}
		if cutoff > 0 && d > cutoff {
			return false, model.CriterionDistance
		}
	}
	if e.hardCriterion(model.CriterionSubject) != nil && len(s.Subjects) > 0 && !subjectCovered(s, t) {
		return false, model.CriterionSubject
	}
	// Remaining hard-flagged criteria (mixity, commune, custom field,
	// class advisor, equilibrage) gate on their sub-score: an applicable
	// zero invalidates the pairing.
	var ctx *pairContext
	for _, rc := range e.criteria {
		if !rc.cfg.Hard || gateResolved(rc.cfg.Kind) {
			continue
		}
		if ctx == nil {
			ctx = &pairContext{student: s, target: t, distKm: -1, loads: loads}
			if d, ok := e.distance(s, t); ok {
				ctx.distKm = d
			}
		}
		if sub, ok := rc.score(ctx); ok && sub <= 0 {
			return false, rc.cfg.Kind
		}
	}
	return true, ""
}

// gateResolved reports whether the kind already has a dedicated check in
// the fixed-order part of the hard gate.
func gateResolved(kind model.CriterionKind) bool {
	switch kind {
	case model.CriterionManual, model.CriterionDistance,
		model.CriterionCapacity, model.CriterionSubject:
		return true
	}
	return false
}

// hardCriterion returns the active configuration for the kind when it
// is flagged hard.
func (e *Engine) hardCriterion(kind model.CriterionKind) *model.CriterionConfig {
	c := e.scenario.Criterion(kind)
	if c != nil && c.Hard {
		return c
	}
	return nil
}

// PairScore is the outcome of scoring one valid pairing.
type PairScore struct {
	Score       float64
	Breakdown   map[model.CriterionKind]float64
	Explanation string
	DistanceKm  float64 // negative when unknown
}

// ScorePair computes the weighted aggregate score for a pairing that
// already passed the hard-constraint gate. Sub-scores are normalized to
// [0,100] per criterion and combined by priority weight, so the
// aggregate stays in [0,100]. Inapplicable criteria are excluded from
// the weighting instead of scoring zero.
func (e *Engine) ScorePair(s model.Student, t Target, loads *capacity.Loads) PairScore {
	ctx := &pairContext{student: s, target: t, distKm: -1, loads: loads}
	if d, ok := e.distance(s, t); ok {
		ctx.distKm = d
	}

	ps := PairScore{Breakdown: make(map[model.CriterionKind]float64, len(e.criteria)), DistanceKm: ctx.distKm}
	var weightSum, total float64
	var dominant model.CriterionKind
	var dominantContrib float64
	var used []string
	for _, rc := range e.criteria {
		sub, ok := rc.score(ctx)
		if !ok {
			continue
		}
		ps.Breakdown[rc.cfg.Kind] = sub
		total += sub * rc.weight
		weightSum += rc.weight
		used = append(used, string(rc.cfg.Kind))
		if contrib := sub * rc.weight; dominant == "" || contrib > dominantContrib {
			dominant, dominantContrib = rc.cfg.Kind, contrib
		}
	}
	if weightSum > 0 {
		ps.Score = total / weightSum
	}
	if dominant != "" {
		ps.Explanation = fmt.Sprintf("%s dominant (%.0f); criteres: %s",
			dominant, ps.Breakdown[dominant], strings.Join(used, ", "))
	} else {
		ps.Explanation = "aucun critere applicable"
	}
	return ps
}

// Candidate is one scored pairing inside the candidate matrix.
type Candidate struct {
	Target Target
	PairScore
}

// Matrix holds, per student, every target that passed the hard gate
// with its score, plus exclusion counts for unassigned diagnostics.
type Matrix struct {
	candidates  map[string][]Candidate
	failures    map[string]map[model.CriterionKind]int
	noDistance  map[string]int
	targetCount int
}

// EvaluateAllPairs scores every (student, target) combination that
// passes hard constraints. Capacity is not gated here: it depends on
// live loads and is enforced by the solver. Candidate lists come back
// sorted by descending score with a target-ID tie-break, so iteration
// is deterministic.
func (e *Engine) EvaluateAllPairs(students []model.Student, targets []Target, loads *capacity.Loads) *Matrix {
	m := &Matrix{
		candidates:  make(map[string][]Candidate, len(students)),
		failures:    make(map[string]map[model.CriterionKind]int, len(students)),
		noDistance:  make(map[string]int, len(students)),
		targetCount: len(targets),
	}
	for _, s := range students {
		var cands []Candidate
		for _, t := range targets {
			if ok, violated := e.ValidateHardConstraints(s, t, loads, false); !ok {
				if m.failures[s.ID] == nil {
					m.failures[s.ID] = make(map[model.CriterionKind]int)
				}
				m.failures[s.ID][violated]++
				if violated == model.CriterionDistance {
					if _, known := e.distance(s, t); !known {
						m.noDistance[s.ID]++
					}
				}
				continue
			}
			cands = append(cands, Candidate{Target: t, PairScore: e.ScorePair(s, t, loads)})
		}
		sort.SliceStable(cands, func(i, j int) bool {
			if cands[i].Score != cands[j].Score {
				return cands[i].Score > cands[j].Score
			}
			return cands[i].Target.TargetID() < cands[j].Target.TargetID()
		})
		m.candidates[s.ID] = cands
	}
	e.log.Debugf("evaluated %d students against %d targets", len(students), len(targets))
	return m
}

// BestMatchesFor returns the student's candidates sorted by descending
// score.
func (m *Matrix) BestMatchesFor(studentID string) []Candidate {
	return m.candidates[studentID]
}

// Candidate returns the scored pairing for a specific target, if it
// passed the hard gate.
func (m *Matrix) Candidate(studentID, targetID string) (Candidate, bool) {
	for _, c := range m.candidates[studentID] {
		if c.Target.TargetID() == targetID {
			return c, true
		}
	}
	return Candidate{}, false
}

// Failures returns how many targets each hard criterion excluded for
// the student.
func (m *Matrix) Failures(studentID string) map[model.CriterionKind]int {
	return m.failures[studentID]
}

// NoDistance returns how many of the student's distance exclusions
// came from an unresolvable distance rather than an exceeded cutoff.
func (m *Matrix) NoDistance(studentID string) int { return m.noDistance[studentID] }

// TargetCount returns how many targets the matrix was built against.
func (m *Matrix) TargetCount() int { return m.targetCount }
