package model

import "fmt"

// Teacher is an individual supervisor able to receive assigned students.
type Teacher struct {
	ID      string    `json:"id"`
	Subject string    `json:"subject"`
	Classes []string  `json:"classes,omitempty"` // classes in charge, "level-name" form
	Home    *GeoPoint `json:"home,omitempty"`

	// CapacityOverride replaces the scenario default when set.
	CapacityOverride *int `json:"capacity_override,omitempty"`

	IsClassAdvisor bool   `json:"is_class_advisor,omitempty"`
	AdvisedClass   string `json:"advised_class,omitempty"`

	Tags []string `json:"tags,omitempty"`
}

// Validate checks that the teacher record is usable as solver input.
func (t Teacher) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("teacher: %w", ErrMissingID)
	}
	if t.CapacityOverride != nil && *t.CapacityOverride < 0 {
		return fmt.Errorf("teacher %s: %w", t.ID, ErrNegativeCapacity)
	}
	return nil
}

// Jury is a fixed group of supervisors acting as a single assignment
// target in the oral-exam variant. Its subject coverage is the union of
// its members' subjects.
type Jury struct {
	ID        string   `json:"id"`
	MemberIDs []string `json:"member_ids"`
	Capacity  int      `json:"capacity"`
}

// Validate checks that the jury record is usable as solver input.
func (j Jury) Validate() error {
	if j.ID == "" {
		return fmt.Errorf("jury: %w", ErrMissingID)
	}
	if j.Capacity < 0 {
		return fmt.Errorf("jury %s: %w", j.ID, ErrNegativeCapacity)
	}
	return nil
}

// Stage is an internship record owned by a student. Its geocoded point
// drives the geographic variant.
type Stage struct {
	ID        string          `json:"id"`
	StudentID string          `json:"student_id"`
	Company   string          `json:"company,omitempty"`
	Location  *GeoPoint       `json:"location,omitempty"`
	Geocoding GeocodingStatus `json:"geocoding"`
}

// Validate checks that the stage record is usable as solver input.
func (s Stage) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("stage: %w", ErrMissingID)
	}
	if s.StudentID == "" {
		return fmt.Errorf("stage %s: missing student: %w", s.ID, ErrMissingID)
	}
	return nil
}

// Geocoded reports whether the stage has a usable location.
func (s Stage) Geocoded() bool {
	return s.Location != nil && (s.Geocoding == GeocodingOK || s.Geocoding == GeocodingManual)
}
