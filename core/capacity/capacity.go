// Package capacity resolves how many students each supervisor can
// receive and tracks per-target load during a solve.
package capacity

import (
	"math"
	"strings"

	"github.com/scolarite/affect/core/model"
)

// DefaultPerLevel applies when a scenario configures no default for a
// teacher's level.
const DefaultPerLevel = 5

// subjectHours gives weekly teaching hours per class for a subject and
// level. Missing entries fall back to defaultHoursPerClass.
var subjectHours = map[string]map[string]float64{
	"Maths":            {"seconde": 4, "premiere": 4, "terminale": 6},
	"Francais":         {"seconde": 4, "premiere": 4},
	"Histoire":         {"seconde": 3, "premiere": 3, "terminale": 3},
	"Physique":         {"seconde": 3, "premiere": 4, "terminale": 6},
	"SVT":              {"seconde": 1.5, "premiere": 4, "terminale": 6},
	"Anglais":          {"seconde": 3, "premiere": 2.5, "terminale": 2},
	"EPS":              {"seconde": 2, "premiere": 2, "terminale": 2},
	"Philosophie":      {"terminale": 4},
	"SES":              {"seconde": 1.5, "premiere": 4, "terminale": 6},
	"Technologie":      {"seconde": 1.5, "premiere": 3, "terminale": 3},
}

const defaultHoursPerClass = 3

// ClassLevel extracts the level from a "level-name" class label, e.g.
// "seconde-2" yields "seconde". Labels without a dash are returned as is.
func ClassLevel(class string) string {
	if i := strings.IndexByte(class, '-'); i > 0 {
		return class[:i]
	}
	return class
}

// TeachingHours sums the teacher's weekly hours over classes in charge
// at the given level. An empty level counts every class.
func TeachingHours(t model.Teacher, level string) float64 {
	perLevel := subjectHours[t.Subject]
	var total float64
	for _, class := range t.Classes {
		l := ClassLevel(class)
		if level != "" && l != level {
			continue
		}
		h, ok := perLevel[l]
		if !ok {
			h = defaultHoursPerClass
		}
		total += h
	}
	return total
}

// MainLevel returns the level where the teacher has the most classes in
// charge, with a lexicographic tie-break for determinism.
func MainLevel(t model.Teacher) string {
	counts := make(map[string]int)
	for _, class := range t.Classes {
		counts[ClassLevel(class)]++
	}
	best, bestN := "", 0
	for level, n := range counts {
		if n > bestN || (n == bestN && (best == "" || level < best)) {
			best, bestN = level, n
		}
	}
	return best
}

// Base resolves the teacher's unscaled capacity: the manual override
// when present, otherwise the scenario default for the main level
// (scaled by the level coefficient when configured).
func Base(t model.Teacher, sc *model.Scenario) int {
	if t.CapacityOverride != nil {
		return *t.CapacityOverride
	}
	level := MainLevel(t)
	capa, ok := sc.DefaultCapacity[level]
	if !ok {
		capa = DefaultPerLevel
	}
	if coeff, ok := sc.CapacityCoeff[level]; ok && coeff > 0 {
		capa = int(math.Round(float64(capa) * coeff))
	}
	return capa
}

// ForTeacher resolves the teacher's effective capacity. When
// weightByHours is set, the base is scaled inversely to the teacher's
// teaching hours at their main level relative to the scenario average,
// clamped to [0.5, 2.0] of the base: heavier teaching loads receive
// fewer extra charges. avgHours is the scenario-wide mean of
// main-level TeachingHours; values <= 0 disable scaling.
func ForTeacher(t model.Teacher, sc *model.Scenario, weightByHours bool, avgHours float64) int {
	base := Base(t, sc)
	if !weightByHours || avgHours <= 0 {
		return base
	}
	hours := TeachingHours(t, MainLevel(t))
	if hours <= 0 {
		return base
	}
	factor := avgHours / hours
	if factor < 0.5 {
		factor = 0.5
	}
	if factor > 2.0 {
		factor = 2.0
	}
	capa := int(math.Round(float64(base) * factor))
	if capa < 0 {
		capa = 0
	}
	return capa
}

// AverageHours returns the mean of main-level TeachingHours across
// teachers, used as the reference point for hour-weighted capacity
// scaling.
func AverageHours(teachers []model.Teacher) float64 {
	if len(teachers) == 0 {
		return 0
	}
	var total float64
	for _, t := range teachers {
		total += TeachingHours(t, MainLevel(t))
	}
	return total / float64(len(teachers))
}

// HasAvailableCapacity reports whether one more assignment fits.
func HasAvailableCapacity(capacity, currentLoad int) bool {
	return currentLoad < capacity
}
