package app

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/scolarite/affect/config"
	"github.com/scolarite/affect/core/model"
)

func writeJSON(t *testing.T, dir, name string, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal %s: %v", name, err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func testConfig(t *testing.T) (*config.Config, string) {
	t.Helper()
	dir := t.TempDir()
	over := 2
	students := []model.Student{
		{ID: "e1", Subjects: []string{"Maths"}},
		{ID: "e2", Subjects: []string{"Histoire"}},
	}
	teachers := []model.Teacher{
		{ID: "t1", Subject: "Maths", CapacityOverride: &over},
		{ID: "t2", Subject: "Histoire", CapacityOverride: &over},
	}
	cfg := &config.Config{
		Data: config.DataConfig{
			Students: writeJSON(t, dir, "students.json", students),
			Teachers: writeJSON(t, dir, "teachers.json", teachers),
		},
		Scenario: model.Scenario{
			ID: "run",
			Criteria: []model.CriterionConfig{
				{Kind: model.CriterionSubject, Priority: model.PriorityHigh},
			},
		},
		Solver: config.SolverConfig{MaxIterations: 100},
		Output: config.OutputConfig{Format: "json", Path: filepath.Join(dir, "out.json")},
	}
	return cfg, dir
}

func TestService_SolveTeachers(t *testing.T) {
	cfg, _ := testConfig(t)
	svc, err := New(cfg)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer svc.Close()

	res, err := svc.Solve(ModeTeachers)
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	if res.Stats.Assigned != 2 || res.Stats.Unassigned != 0 {
		t.Fatalf("expected both students assigned, got %+v", res.Stats)
	}
	for _, a := range res.Assignments {
		want := "t1"
		if a.StudentID == "e2" {
			want = "t2"
		}
		if a.TargetID != want {
			t.Fatalf("student %s on %s, want %s", a.StudentID, a.TargetID, want)
		}
	}
}

func TestService_RunWritesOutput(t *testing.T) {
	cfg, dir := testConfig(t)
	svc, err := New(cfg)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer svc.Close()

	if err := svc.Run(ModeTeachers); err != nil {
		t.Fatalf("run: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "out.json"))
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	var out struct {
		Assignments []model.Assignment `json:"assignments"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("output not valid JSON: %v", err)
	}
	if len(out.Assignments) != 2 {
		t.Fatalf("expected 2 assignments in output, got %d", len(out.Assignments))
	}
}

func TestService_SolveWithSeededAssignments(t *testing.T) {
	cfg, dir := testConfig(t)
	// Pin e1 to the history teacher; the solver must keep it.
	cfg.Data.Assignments = writeJSON(t, dir, "assignments.json", []model.Assignment{
		{StudentID: "e1", TargetID: "t2"},
	})
	svc, err := New(cfg)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer svc.Close()

	res, err := svc.Solve(ModeTeachers)
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	for _, a := range res.Assignments {
		if a.StudentID == "e1" {
			if a.TargetID != "t2" || a.Provenance != model.ProvenanceManual {
				t.Fatalf("seeded assignment not kept: %+v", a)
			}
			// The pinned pairing is still scored against the scenario.
			if a.Breakdown[model.CriterionSubject] != 20 {
				t.Fatalf("seeded assignment not re-scored: %+v", a)
			}
			return
		}
	}
	t.Fatal("seeded student missing from assignments")
}

func TestService_UnknownMode(t *testing.T) {
	cfg, _ := testConfig(t)
	svc, err := New(cfg)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer svc.Close()
	if _, err := svc.Solve(Mode("oracle")); err == nil {
		t.Fatal("expected an unknown mode error")
	}
}
