package model

import "fmt"

// Student is a person to be assigned to a supervisor or jury within one
// scenario. Instances are treated as immutable during a solve.
type Student struct {
	ID       string    `json:"id"`
	Class    string    `json:"class"`
	Level    string    `json:"level"`
	Gender   string    `json:"gender,omitempty"`
	Subjects []string  `json:"subjects,omitempty"` // chosen oral-exam subjects
	StageID  string    `json:"stage_id,omitempty"` // linked internship record
	Home     *GeoPoint `json:"home,omitempty"`

	// Explicit pairing constraints, by supervisor ID.
	MustBeWith    []string `json:"must_be_with,omitempty"`
	MustNotBeWith []string `json:"must_not_be_with,omitempty"`

	Tags []string `json:"tags,omitempty"`
}

// Validate checks that the student record is usable as solver input.
func (s Student) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("student: %w", ErrMissingID)
	}
	return nil
}

// HasSubject reports whether the student declared the given oral subject.
func (s Student) HasSubject(subject string) bool {
	for _, sub := range s.Subjects {
		if sub == subject {
			return true
		}
	}
	return false
}

// Excludes reports whether the student carries a must-not-be-with
// constraint against the given supervisor.
func (s Student) Excludes(supervisorID string) bool {
	for _, id := range s.MustNotBeWith {
		if id == supervisorID {
			return true
		}
	}
	return false
}
