package model

// TargetKind distinguishes the two assignment destinations.
type TargetKind string

const (
	TargetTeacher TargetKind = "teacher"
	TargetJury    TargetKind = "jury"
)

// Provenance records how an assignment was produced.
type Provenance string

const (
	ProvenanceAlgorithm Provenance = "algorithm"
	ProvenanceManual    Provenance = "manual"
)

// Assignment pairs one student with one target for one scenario. A new
// solve supersedes, never merges, the previous assignment set of the
// same scenario.
type Assignment struct {
	ID         string     `json:"id"`
	StudentID  string     `json:"student_id"`
	TargetID   string     `json:"target_id"`
	TargetKind TargetKind `json:"target_kind"`
	ScenarioID string     `json:"scenario_id"`

	// Score is the weighted aggregate in [0,100]; Breakdown holds the
	// per-criterion sub-scores it was combined from.
	Score       float64                   `json:"score"`
	Breakdown   map[CriterionKind]float64 `json:"breakdown,omitempty"`
	Explanation string                    `json:"explanation,omitempty"`

	// DistanceKm and DurationMin describe the pairing geography when
	// known. Duration is a display estimate, never scored. A negative
	// distance means unknown.
	DistanceKm  float64 `json:"distance_km,omitempty"`
	DurationMin float64 `json:"duration_min,omitempty"`

	Provenance Provenance `json:"provenance"`
}

// ProblemKind coarsely classifies why a student stayed unassigned.
type ProblemKind string

const (
	ProblemNoData      ProblemKind = "no_data"
	ProblemNotGeocoded ProblemKind = "not_geocoded"
	ProblemTooFar      ProblemKind = "too_far"
	ProblemCapacity    ProblemKind = "capacity"
	ProblemUnknown     ProblemKind = "unknown"
)

// Unassigned captures a student that received no assignment, with the
// ordered reasons leading to that outcome.
type Unassigned struct {
	StudentID string      `json:"student_id"`
	Reasons   []string    `json:"reasons"`
	Problem   ProblemKind `json:"problem"`
}
