package scoring

import (
	"github.com/samber/lo"

	"github.com/scolarite/affect/core/capacity"
	"github.com/scolarite/affect/core/geo"
	"github.com/scolarite/affect/core/model"
)

// pairContext carries everything a criterion needs to score one
// (student, target) pairing. distKm is negative when no distance could
// be resolved for the pair.
type pairContext struct {
	student model.Student
	target  Target
	distKm  float64
	loads   *capacity.Loads
}

// scoreFunc computes a normalized sub-score in [0,100] for a pairing.
// The second return value reports applicability: inapplicable criteria
// are excluded from the weighted aggregate instead of dragging it down.
type scoreFunc func(ctx *pairContext) (float64, bool)

// resolvedCriterion binds an active criterion configuration to its
// scoring algorithm. The scenario's criterion list is resolved once per
// engine, keeping per-pair dispatch a plain slice walk.
type resolvedCriterion struct {
	cfg    model.CriterionConfig
	weight float64
	score  scoreFunc
}

func (e *Engine) resolveCriterion(cfg model.CriterionConfig) resolvedCriterion {
	rc := resolvedCriterion{cfg: cfg, weight: cfg.Priority.Weight()}
	switch cfg.Kind {
	case model.CriterionDistance:
		cutoff := cfg.MaxDistanceKm
		if cutoff <= 0 {
			cutoff = e.scenario.MaxDistanceKm
		}
		rc.score = func(ctx *pairContext) (float64, bool) {
			if ctx.distKm < 0 {
				return 0, false
			}
			return geo.Score(ctx.distKm, cutoff), true
		}
	case model.CriterionSubject:
		rc.score = func(ctx *pairContext) (float64, bool) {
			if len(ctx.student.Subjects) == 0 {
				return 0, false
			}
			if subjectCovered(ctx.student, ctx.target) {
				return 100, true
			}
			// Markedly lower, but never invalid unless the criterion is hard.
			return 20, true
		}
	case model.CriterionEquilibrage:
		rc.score = func(ctx *pairContext) (float64, bool) {
			return capacity.EquilibrageScore(ctx.target.TargetID(), ctx.loads), true
		}
	case model.CriterionCapacity:
		rc.score = func(ctx *pairContext) (float64, bool) {
			capa := ctx.loads.Capacity(ctx.target.TargetID())
			if capa <= 0 {
				return 0, true
			}
			remaining := capa - ctx.loads.Count(ctx.target.TargetID())
			if remaining <= 0 {
				return 0, true
			}
			return 100 * float64(remaining) / float64(capa), true
		}
	case model.CriterionMixity:
		rc.score = func(ctx *pairContext) (float64, bool) {
			if ctx.student.Gender == "" {
				return 0, false
			}
			same, total := ctx.loads.GenderCount(ctx.target.TargetID(), ctx.student.Gender)
			if total == 0 {
				return 100, true
			}
			return 100 * (1 - float64(same)/float64(total)), true
		}
	case model.CriterionCommune:
		rc.score = func(ctx *pairContext) (float64, bool) {
			if ctx.distKm < 0 {
				return 0, false
			}
			return geo.CommuneScore(ctx.distKm), true
		}
	case model.CriterionCustomField:
		field, value := cfg.Field, cfg.Value
		rc.score = func(ctx *pairContext) (float64, bool) {
			studentTags := matchingTags(ctx.student.Tags, field)
			if len(studentTags) == 0 {
				return 0, false
			}
			targetTags := matchingTags(ctx.target.Tags(), field)
			if value != "" {
				// A configured value scores presence on both sides of
				// that exact tag.
				want := field + ":" + value
				if lo.Contains(studentTags, want) && lo.Contains(targetTags, want) {
					return 100, true
				}
				return 0, true
			}
			if len(lo.Intersect(studentTags, targetTags)) > 0 {
				return 100, true
			}
			return 0, true
		}
	case model.CriterionClassAdvisor:
		rc.score = func(ctx *pairContext) (float64, bool) {
			if ctx.student.Class == "" {
				return 0, false
			}
			if lo.Contains(ctx.target.AdvisedClasses(), ctx.student.Class) {
				return 100, true
			}
			return 0, true
		}
	case model.CriterionManual:
		rc.score = func(ctx *pairContext) (float64, bool) {
			if len(ctx.student.MustBeWith) == 0 {
				return 0, false
			}
			if wantsTarget(ctx.student, ctx.target) {
				return 100, true
			}
			return 0, true
		}
	}
	return rc
}

// subjectCovered reports whether any of the student's declared subjects
// appears in the target's coverage.
func subjectCovered(s model.Student, t Target) bool {
	for _, subject := range t.Subjects() {
		if s.HasSubject(subject) {
			return true
		}
	}
	return false
}

// wantsTarget reports whether a must-be-with constraint points at one
// of the target's members.
func wantsTarget(s model.Student, t Target) bool {
	for _, want := range s.MustBeWith {
		for _, member := range t.Members() {
			if want == member {
				return true
			}
		}
	}
	return false
}

// excludesTarget reports whether a must-not-be-with constraint points
// at one of the target's members.
func excludesTarget(s model.Student, t Target) bool {
	for _, member := range t.Members() {
		if s.Excludes(member) {
			return true
		}
	}
	return false
}

// matchingTags filters tags by the "field:" prefix, or returns all tags
// when no field is configured.
func matchingTags(tags []string, field string) []string {
	if field == "" {
		return tags
	}
	prefix := field + ":"
	return lo.Filter(tags, func(tag string, _ int) bool {
		return len(tag) > len(prefix) && tag[:len(prefix)] == prefix
	})
}
