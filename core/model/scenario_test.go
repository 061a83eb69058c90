package model

import (
	"errors"
	"testing"
)

func TestPriorityWeight(t *testing.T) {
	cases := map[Priority]float64{
		PriorityOff:    0,
		PriorityLow:    1,
		PriorityNormal: 2,
		PriorityHigh:   4,
	}
	for p, want := range cases {
		if got := p.Weight(); got != want {
			t.Fatalf("Weight(%s) = %v, want %v", p, got, want)
		}
	}
	if PriorityLow.Weight() >= PriorityNormal.Weight() || PriorityNormal.Weight() >= PriorityHigh.Weight() {
		t.Fatal("priority weights must be strictly increasing")
	}
}

func TestScenarioValidate(t *testing.T) {
	sc := Scenario{ID: "s1", Criteria: []CriterionConfig{
		{Kind: CriterionDistance, Priority: PriorityHigh},
	}}
	if err := sc.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bad := Scenario{ID: "s1", Criteria: []CriterionConfig{{Kind: "banana", Priority: PriorityLow}}}
	if err := bad.Validate(); !errors.Is(err, ErrUnknownCriterion) {
		t.Fatalf("expected ErrUnknownCriterion, got %v", err)
	}

	bad = Scenario{ID: "s1", Criteria: []CriterionConfig{{Kind: CriterionSubject, Priority: "urgent"}}}
	if err := bad.Validate(); !errors.Is(err, ErrUnknownPriority) {
		t.Fatalf("expected ErrUnknownPriority, got %v", err)
	}

	bad = Scenario{ID: "s1", DefaultCapacity: map[string]int{"seconde": -1}}
	if err := bad.Validate(); !errors.Is(err, ErrNegativeCapacity) {
		t.Fatalf("expected ErrNegativeCapacity, got %v", err)
	}

	if err := (Scenario{}).Validate(); !errors.Is(err, ErrMissingID) {
		t.Fatalf("expected ErrMissingID, got %v", err)
	}
}

func TestStudentValidate(t *testing.T) {
	if err := (Student{}).Validate(); !errors.Is(err, ErrMissingID) {
		t.Fatalf("expected ErrMissingID, got %v", err)
	}
	if err := (Student{ID: "e1"}).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestTeacherValidate(t *testing.T) {
	neg := -1
	bad := Teacher{ID: "t1", CapacityOverride: &neg}
	if err := bad.Validate(); !errors.Is(err, ErrNegativeCapacity) {
		t.Fatalf("expected ErrNegativeCapacity, got %v", err)
	}
}

func TestStudentFilter(t *testing.T) {
	s := Student{ID: "e1", Class: "seconde-1", Level: "seconde", Tags: []string{"latin"}}

	if !(StudentFilter{}).Match(s) {
		t.Fatal("empty filter must match everyone")
	}
	if !(StudentFilter{Levels: []string{"seconde"}}).Match(s) {
		t.Fatal("level filter should match")
	}
	if (StudentFilter{Levels: []string{"terminale"}}).Match(s) {
		t.Fatal("level filter should exclude")
	}
	if !(StudentFilter{Classes: []string{"seconde-1"}}).Match(s) {
		t.Fatal("class filter should match")
	}
	if (StudentFilter{Classes: []string{"terminale-1"}}).Match(s) {
		t.Fatal("class filter should exclude")
	}
	if !(StudentFilter{Tags: []string{"latin"}}).Match(s) {
		t.Fatal("tag filter should match")
	}
	if (StudentFilter{Tags: []string{"grec"}}).Match(s) {
		t.Fatal("tag filter should exclude")
	}
}

func TestCriterionLookup(t *testing.T) {
	sc := Scenario{ID: "s", Criteria: []CriterionConfig{
		{Kind: CriterionSubject, Priority: PriorityOff},
		{Kind: CriterionDistance, Priority: PriorityHigh, Hard: true},
	}}
	if sc.Criterion(CriterionSubject) != nil {
		t.Fatal("off criteria must not resolve")
	}
	if c := sc.Criterion(CriterionDistance); c == nil || !c.Hard {
		t.Fatal("expected active hard distance criterion")
	}
}
