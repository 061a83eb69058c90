package model

import (
	"errors"
	"testing"
)

func TestStudentConstraints(t *testing.T) {
	s := Student{
		ID:            "e1",
		Subjects:      []string{"Maths", "Physique"},
		MustNotBeWith: []string{"t9"},
	}
	if !s.HasSubject("Maths") || s.HasSubject("Histoire") {
		t.Fatal("subject lookup wrong")
	}
	if !s.Excludes("t9") || s.Excludes("t1") {
		t.Fatal("exclusion lookup wrong")
	}
}

func TestJuryValidate(t *testing.T) {
	if err := (Jury{ID: "j1", Capacity: 3}).Validate(); err != nil {
		t.Fatalf("valid jury rejected: %v", err)
	}
	if err := (Jury{ID: "j1", Capacity: -1}).Validate(); !errors.Is(err, ErrNegativeCapacity) {
		t.Fatalf("expected ErrNegativeCapacity, got %v", err)
	}
}

func TestStageGeocoded(t *testing.T) {
	loc := &GeoPoint{Lat: 48.85, Lon: 2.35}
	cases := []struct {
		stage Stage
		want  bool
	}{
		{Stage{Location: loc, Geocoding: GeocodingOK}, true},
		{Stage{Location: loc, Geocoding: GeocodingManual}, true},
		{Stage{Location: loc, Geocoding: GeocodingPending}, false},
		{Stage{Location: loc, Geocoding: GeocodingError}, false},
		{Stage{Geocoding: GeocodingOK}, false},
	}
	for i, c := range cases {
		if got := c.stage.Geocoded(); got != c.want {
			t.Fatalf("case %d: got %v, want %v", i, got, c.want)
		}
	}

	if err := (Stage{ID: "s1"}).Validate(); !errors.Is(err, ErrMissingID) {
		t.Fatal("stage without student must be rejected")
	}
}
