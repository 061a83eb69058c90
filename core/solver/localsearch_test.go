package solver

import (
	"testing"

	"github.com/scolarite/affect/core/capacity"
	"github.com/scolarite/affect/core/model"
	"github.com/scolarite/affect/core/scoring"
)

// tableDistance serves pre-set student/target distances; unknown pairs
// report no distance.
func tableDistance(km map[string]float64) scoring.DistanceFunc {
	return func(s model.Student, t scoring.Target) (float64, bool) {
		d, ok := km[s.ID+"/"+t.TargetID()]
		return d, ok
	}
}

func TestOptimizer_SwapImproves(t *testing.T) {
	sc := &model.Scenario{ID: "s", Criteria: []model.CriterionConfig{
		{Kind: model.CriterionDistance, Priority: model.PriorityHigh, MaxDistanceKm: 50},
	}}
	engine, err := scoring.NewEngine(sc, scoring.WithDistanceFunc(tableDistance(map[string]float64{
		"a/t1": 0, "a/t2": 5,
		"b/t1": 10, "b/t2": 40,
	})))
	if err != nil {
		t.Fatalf("engine: %v", err)
	}

	// Greedy places a on t1 (100) then b on the only remaining slot t2
	// (20), total 120. Swapping yields 90+80 = 170.
	res, err := New(engine).Solve(Input{
		Students: []model.Student{{ID: "a"}, {ID: "b"}},
		Targets:  teacherTargets(model.Teacher{ID: "t1"}, model.Teacher{ID: "t2"}),
		Loads:    capacity.NewLoads(map[string]int{"t1": 1, "t2": 1}),
	})
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	byStudent := map[string]string{}
	for _, a := range res.Assignments {
		byStudent[a.StudentID] = a.TargetID
	}
	if byStudent["a"] != "t2" || byStudent["b"] != "t1" {
		t.Fatalf("expected swap to a→t2, b→t1, got %v", byStudent)
	}
	if total := res.TotalScore(); total < 170-1e-6 || total > 170+1e-6 {
		t.Fatalf("expected total score 170 after swap, got %.2f", total)
	}
}

func TestOptimizer_NeverRegressesGreedy(t *testing.T) {
	sc := &model.Scenario{ID: "s", Criteria: []model.CriterionConfig{
		{Kind: model.CriterionDistance, Priority: model.PriorityHigh, MaxDistanceKm: 50},
	}}
	dist := tableDistance(map[string]float64{
		"a/t1": 0, "a/t2": 5,
		"b/t1": 10, "b/t2": 40,
	})
	students := []model.Student{{ID: "a"}, {ID: "b"}}
	targets := teacherTargets(model.Teacher{ID: "t1"}, model.Teacher{ID: "t2"})

	engine, _ := scoring.NewEngine(sc, scoring.WithDistanceFunc(dist))
	baseline, _ := New(engine).Greedy(Input{
		Students: students,
		Targets:  targets,
		Loads:    capacity.NewLoads(map[string]int{"t1": 1, "t2": 1}),
	})

	engine2, _ := scoring.NewEngine(sc, scoring.WithDistanceFunc(dist))
	refined, err := New(engine2).Solve(Input{
		Students: students,
		Targets:  targets,
		Loads:    capacity.NewLoads(map[string]int{"t1": 1, "t2": 1}),
	})
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	if refined.TotalScore() < baseline.TotalScore() {
		t.Fatalf("local search regressed: %.2f < %.2f", refined.TotalScore(), baseline.TotalScore())
	}
	if refined.Stats.Unassigned > baseline.Stats.Unassigned {
		t.Fatalf("local search lost students: %d > %d", refined.Stats.Unassigned, baseline.Stats.Unassigned)
	}
}

func TestOptimizer_RescueByDisplacement(t *testing.T) {
	sc := &model.Scenario{ID: "s", Criteria: []model.CriterionConfig{
		{Kind: model.CriterionDistance, Priority: model.PriorityHigh, Hard: true, MaxDistanceKm: 50},
	}}
	// u can only reach full targets; s1 has a fallback on t3, so moving
	// s1 there frees t1 for u.
	engine, err := scoring.NewEngine(sc, scoring.WithDistanceFunc(tableDistance(map[string]float64{
		"s1/t1": 0, "s1/t3": 10,
		"s2/t2": 0,
		"u/t1": 5, "u/t2": 6,
	})))
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	res, err := New(engine).Solve(Input{
		Students: []model.Student{{ID: "s1"}, {ID: "s2"}, {ID: "u"}},
		Targets:  teacherTargets(model.Teacher{ID: "t1"}, model.Teacher{ID: "t2"}, model.Teacher{ID: "t3"}),
		Loads:    capacity.NewLoads(map[string]int{"t1": 1, "t2": 1, "t3": 1}),
	})
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	if res.Stats.Unassigned != 0 {
		t.Fatalf("expected displacement to rescue everyone, got %d unassigned: %+v", res.Stats.Unassigned, res.Unassigned)
	}
	byStudent := map[string]string{}
	for _, a := range res.Assignments {
		byStudent[a.StudentID] = a.TargetID
	}
	if byStudent["u"] != "t1" || byStudent["s1"] != "t3" {
		t.Fatalf("expected s1 displaced to t3 and u on t1, got %v", byStudent)
	}
}

func TestOptimizer_ManualAssignmentsPinned(t *testing.T) {
	sc := &model.Scenario{ID: "s", Criteria: []model.CriterionConfig{
		{Kind: model.CriterionDistance, Priority: model.PriorityHigh, MaxDistanceKm: 50},
	}}
	// Without the seed, swapping a and b would gain 50. The manual seed
	// pins a to t1, so no move may touch it.
	engine, _ := scoring.NewEngine(sc, scoring.WithDistanceFunc(tableDistance(map[string]float64{
		"a/t1": 0, "a/t2": 5,
		"b/t1": 10, "b/t2": 40,
	})))
	res, err := New(engine).Solve(Input{
		Students:    []model.Student{{ID: "a"}, {ID: "b"}},
		Targets:     teacherTargets(model.Teacher{ID: "t1"}, model.Teacher{ID: "t2"}),
		Loads:       capacity.NewLoads(map[string]int{"t1": 1, "t2": 1}),
		Preexisting: []model.Assignment{{StudentID: "a", TargetID: "t1", Provenance: model.ProvenanceManual}},
	})
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	byStudent := map[string]model.Assignment{}
	for _, a := range res.Assignments {
		byStudent[a.StudentID] = a
	}
	if byStudent["a"].TargetID != "t1" || byStudent["a"].Provenance != model.ProvenanceManual {
		t.Fatalf("manual seed was displaced: %+v", byStudent["a"])
	}
	if byStudent["b"].TargetID != "t2" {
		t.Fatalf("expected b on t2, got %s", byStudent["b"].TargetID)
	}
}

func TestOptimizer_StepBudget(t *testing.T) {
	sc := &model.Scenario{ID: "s", Criteria: []model.CriterionConfig{
		{Kind: model.CriterionDistance, Priority: model.PriorityHigh, MaxDistanceKm: 50},
	}}
	engine, _ := scoring.NewEngine(sc, scoring.WithDistanceFunc(tableDistance(map[string]float64{
		"a/t1": 0, "a/t2": 5,
		"b/t1": 10, "b/t2": 40,
	})))
	s := New(engine, WithMaxIterations(0)) // ignored, keeps default
	in := Input{
		Students: []model.Student{{ID: "a"}, {ID: "b"}},
		Targets:  teacherTargets(model.Teacher{ID: "t1"}, model.Teacher{ID: "t2"}),
		Loads:    capacity.NewLoads(map[string]int{"t1": 1, "t2": 1}),
	}
	res, matrix := s.Greedy(in)
	opt := NewOptimizer(s, res, matrix, in)
	steps := 0
	for opt.Step() {
		steps++
	}
	if !opt.Done() {
		t.Fatal("optimizer should be done after Step returns false")
	}
	if steps != 1 {
		t.Fatalf("expected exactly one improving move, got %d", steps)
	}
}
