package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/scolarite/affect/core/model"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_YAML(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
data:
  students: students.json
  teachers: teachers.json
scenario:
  id: rentree-2026
  max_distance_km: 30
  criteria:
    - kind: distance
      priority: high
      hard: true
    - kind: subject
      priority: normal
solver:
  max_iterations: 250
output:
  format: csv
  path: out.csv
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Data.Students != "students.json" || cfg.Data.Teachers != "teachers.json" {
		t.Fatalf("data section mismatch: %+v", cfg.Data)
	}
	if cfg.Scenario.ID != "rentree-2026" || cfg.Scenario.MaxDistanceKm != 30 {
		t.Fatalf("scenario section mismatch: %+v", cfg.Scenario)
	}
	if len(cfg.Scenario.Criteria) != 2 || cfg.Scenario.Criteria[0].Kind != model.CriterionDistance || !cfg.Scenario.Criteria[0].Hard {
		t.Fatalf("criteria mismatch: %+v", cfg.Scenario.Criteria)
	}
	if cfg.Solver.MaxIterations != 250 {
		t.Fatalf("solver section mismatch: %+v", cfg.Solver)
	}
	if cfg.Output.Format != "csv" || cfg.Output.Path != "out.csv" {
		t.Fatalf("output section mismatch: %+v", cfg.Output)
	}
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, "config.json", `{
  "data": {"students": "s.json", "teachers": "t.json"},
  "scenario": {"id": "sc"}
}`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Solver.MaxIterations != 1000 {
		t.Fatalf("expected default max_iterations 1000, got %d", cfg.Solver.MaxIterations)
	}
	if cfg.Output.Format != "json" {
		t.Fatalf("expected default format json, got %q", cfg.Output.Format)
	}
}

func TestLoad_UnsupportedExtension(t *testing.T) {
	path := writeConfig(t, "config.toml", "data = 1")
	if _, err := Load(path); err == nil {
		t.Fatal("expected an unsupported format error")
	}
}

func TestLoad_MissingData(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
scenario:
  id: sc
`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected a missing data error")
	}
}

func TestLoad_InvalidCriterion(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
data:
  students: s.json
  teachers: t.json
scenario:
  id: sc
  criteria:
    - kind: astrology
      priority: high
`)
	_, err := Load(path)
	if !errors.Is(err, model.ErrUnknownCriterion) {
		t.Fatalf("expected ErrUnknownCriterion, got %v", err)
	}
}

func TestLoad_BadOutputFormat(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
data:
  students: s.json
  teachers: t.json
scenario:
  id: sc
output:
  format: xml
`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected an unknown output format error")
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("AFFECT_OUTPUT__FORMAT", "csv")
	path := writeConfig(t, "config.yaml", `
data:
  students: s.json
  teachers: t.json
scenario:
  id: sc
output:
  format: json
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Output.Format != "csv" {
		t.Fatalf("environment override ignored, got %q", cfg.Output.Format)
	}
}
