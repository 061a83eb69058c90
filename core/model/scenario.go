package model

import "fmt"

// Priority is the activation level of a criterion within a scenario.
type Priority string

const (
	PriorityOff    Priority = "off"
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
)

// Weight returns the numeric multiplier for the priority level. Off
// excludes the criterion entirely; the remaining levels double at each
// step so a high criterion outweighs two normal ones.
func (p Priority) Weight() float64 {
	switch p {
	case PriorityOff:
		return 0
	case PriorityLow:
		return 1
	case PriorityNormal:
		return 2
	case PriorityHigh:
		return 4
	}
	return 0
}

// Valid reports whether p is one of the four known levels.
func (p Priority) Valid() bool {
	switch p {
	case PriorityOff, PriorityLow, PriorityNormal, PriorityHigh:
		return true
	}
	return false
}

// CriterionKind identifies one scoring criterion. The set is closed:
// each kind maps to its own scoring algorithm in the scoring package.
type CriterionKind string

const (
	CriterionDistance     CriterionKind = "distance"
	CriterionSubject      CriterionKind = "subject"
	CriterionEquilibrage  CriterionKind = "equilibrage"
	CriterionCapacity     CriterionKind = "capacity"
	CriterionMixity       CriterionKind = "mixity"
	CriterionCommune      CriterionKind = "commune"
	CriterionCustomField  CriterionKind = "custom_field"
	CriterionClassAdvisor CriterionKind = "class_advisor"
	CriterionManual       CriterionKind = "manual"
)

// Valid reports whether k is a known criterion kind.
func (k CriterionKind) Valid() bool {
	switch k {
	case CriterionDistance, CriterionSubject, CriterionEquilibrage,
		CriterionCapacity, CriterionMixity, CriterionCommune,
		CriterionCustomField, CriterionClassAdvisor, CriterionManual:
		return true
	}
	return false
}

// CriterionConfig activates one criterion within a scenario.
type CriterionConfig struct {
	Kind     CriterionKind `json:"kind"`
	Priority Priority      `json:"priority"`
	// Hard makes a failing pairing invalid instead of low-scoring.
	Hard bool `json:"hard,omitempty"`
	// WeightByHours scales teacher capacity by teaching hours. Only
	// meaningful on the capacity and equilibrage criteria.
	WeightByHours bool `json:"weight_by_hours,omitempty"`
	// MaxDistanceKm bounds the distance criterion; beyond it the
	// sub-score is 0 and, when Hard, the pairing is invalid.
	MaxDistanceKm float64 `json:"max_distance_km,omitempty"`
	// Field and Value configure the custom-field criterion: a student
	// tag that must match a teacher tag.
	Field string `json:"field,omitempty"`
	Value string `json:"value,omitempty"`
}

// StudentFilter restricts which students take part in a solve.
type StudentFilter struct {
	Classes []string `json:"classes,omitempty"`
	Levels  []string `json:"levels,omitempty"`
	Tags    []string `json:"tags,omitempty"`
}

// Match reports whether the student passes the filter. An empty filter
// matches everyone.
func (f StudentFilter) Match(s Student) bool {
	if len(f.Classes) > 0 {
		ok := false
		for _, c := range f.Classes {
			if c == s.Class {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	if len(f.Levels) > 0 {
		ok := false
		for _, l := range f.Levels {
			if l == s.Level {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	if len(f.Tags) > 0 {
		for _, want := range f.Tags {
			for _, have := range s.Tags {
				if want == have {
					return true
				}
			}
		}
		return false
	}
	return true
}

// Scenario is one configured assignment run. It is read-only input to
// a solve.
type Scenario struct {
	ID       string            `json:"id"`
	Criteria []CriterionConfig `json:"criteria"`

	// DefaultCapacity gives the per-level default number of students a
	// teacher can receive. CapacityCoeff optionally scales it per level.
	DefaultCapacity map[string]int     `json:"default_capacity,omitempty"`
	CapacityCoeff   map[string]float64 `json:"capacity_coeff,omitempty"`

	// MaxDistanceKm is the geographic variant's candidate cutoff.
	MaxDistanceKm float64 `json:"max_distance_km,omitempty"`

	Filter           StudentFilter `json:"filter,omitempty"`
	ExcludedTeachers []string      `json:"excluded_teachers,omitempty"`
}

// Validate checks the scenario shape. Unknown kinds or priority levels
// indicate a caller bug and abort the solve.
func (sc Scenario) Validate() error {
	if sc.ID == "" {
		return fmt.Errorf("scenario: %w", ErrMissingID)
	}
	for _, c := range sc.Criteria {
		if !c.Kind.Valid() {
			return fmt.Errorf("scenario %s: %q: %w", sc.ID, c.Kind, ErrUnknownCriterion)
		}
		if !c.Priority.Valid() {
			return fmt.Errorf("scenario %s: %q: %w", sc.ID, c.Priority, ErrUnknownPriority)
		}
	}
	for level, capa := range sc.DefaultCapacity {
		if capa < 0 {
			return fmt.Errorf("scenario %s: level %s: %w", sc.ID, level, ErrNegativeCapacity)
		}
	}
	return nil
}

// Criterion returns the configuration for the given kind, or nil when
// the criterion is absent or off.
func (sc Scenario) Criterion(kind CriterionKind) *CriterionConfig {
	for i := range sc.Criteria {
		c := &sc.Criteria[i]
		if c.Kind == kind && c.Priority != PriorityOff {
			return c
		}
	}
	return nil
}

// TeacherExcluded reports whether the teacher is filtered out of the
// scenario.
func (sc Scenario) TeacherExcluded(id string) bool {
	for _, t := range sc.ExcludedTeachers {
		if t == id {
			return true
		}
	}
	return false
}
