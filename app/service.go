// Package app wires configuration, data loading, the matching engine
// and result export into one service.
package app

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/scolarite/affect/config"
	"github.com/scolarite/affect/core/jury"
	"github.com/scolarite/affect/core/model"
	"github.com/scolarite/affect/core/scoring"
	"github.com/scolarite/affect/core/solver"
	"github.com/scolarite/affect/core/stage"
	"github.com/scolarite/affect/infra/logger"
	"github.com/scolarite/affect/internal/eventbus"
	"github.com/scolarite/affect/pkg/export"
)

// Mode selects which variant of the engine a run uses.
type Mode string

const (
	ModeTeachers Mode = "teachers"
	ModeJuries   Mode = "juries"
	ModeStages   Mode = "stages"
)

// Service orchestrates one assignment run.
type Service struct {
	cfg *config.Config
	bus *eventbus.Bus
	log logger.Logger
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	if cfg == nil {
		return nil, fmt.Errorf("app: nil configuration")
	}
	return &Service{cfg: cfg, bus: eventbus.New(), log: logger.New("service")}, nil
}

// Bus exposes the solve event bus for observers.
func (s *Service) Bus() eventbus.EventBus { return s.bus }

// Close releases the event bus.
func (s *Service) Close() error {
	s.bus.Close()
	return nil
}

// Run loads the input collections, solves the configured scenario in
// the given mode and writes the result to the configured output.
func (s *Service) Run(mode Mode) error {
	res, err := s.Solve(mode)
	if err != nil {
		return err
	}
	for _, p := range res.Problems {
		s.log.Warnf("configuration problem: %s", p)
	}
	s.log.Infof("solve done: %d assigned, %d unassigned, mean score %.1f",
		res.Stats.Assigned, res.Stats.Unassigned, res.Stats.MeanScore)
	return s.write(res)
}

// Solve runs the scenario and returns the raw result.
func (s *Service) Solve(mode Mode) (*solver.Result, error) {
	var students []model.Student
	if err := readJSON(s.cfg.Data.Students, &students); err != nil {
		return nil, fmt.Errorf("load students: %w", err)
	}
	var teachers []model.Teacher
	if err := readJSON(s.cfg.Data.Teachers, &teachers); err != nil {
		return nil, fmt.Errorf("load teachers: %w", err)
	}
	preexisting, err := s.loadPreexisting()
	if err != nil {
		return nil, err
	}

	sc := &s.cfg.Scenario
	opts := []solver.SolverOption{
		solver.WithLogger(logger.New("solver")),
		solver.WithEventBus(s.bus),
		solver.WithMaxIterations(s.cfg.Solver.MaxIterations),
	}

	switch mode {
	case ModeJuries:
		var juries []model.Jury
		if err := readJSON(s.cfg.Data.Juries, &juries); err != nil {
			return nil, fmt.Errorf("load juries: %w", err)
		}
		return jury.Solve(students, teachers, juries, sc, opts...)

	case ModeStages:
		var stages []model.Stage
		if err := readJSON(s.cfg.Data.Stages, &stages); err != nil {
			return nil, fmt.Errorf("load stages: %w", err)
		}
		pairs := stage.BuildPairs(stages, teachers, sc.MaxDistanceKm)
		return stage.Solve(students, teachers, stages, pairs, sc, opts...)

	case ModeTeachers:
		in, err := solver.BuildTeacherInput(students, teachers, sc)
		if err != nil {
			return nil, err
		}
		in.Preexisting = preexisting
		engine, err := scoring.NewEngine(sc)
		if err != nil {
			return nil, err
		}
		return solver.New(engine, opts...).Solve(in)
	}
	return nil, fmt.Errorf("unknown mode %q", mode)
}

func (s *Service) loadPreexisting() ([]model.Assignment, error) {
	if s.cfg.Data.Assignments == "" {
		return nil, nil
	}
	var prev []model.Assignment
	if err := readJSON(s.cfg.Data.Assignments, &prev); err != nil {
		return nil, fmt.Errorf("load assignments: %w", err)
	}
	return prev, nil
}

func (s *Service) write(res *solver.Result) error {
	out := os.Stdout
	if s.cfg.Output.Path != "" {
		f, err := os.Create(s.cfg.Output.Path)
		if err != nil {
			return fmt.Errorf("open output: %w", err)
		}
		defer f.Close()
		out = f
	}
	if s.cfg.Output.Format == "csv" {
		return export.WriteCSV(out, res)
	}
	return export.WriteJSON(out, res)
}

func readJSON(path string, out any) error {
	if path == "" {
		return fmt.Errorf("no file configured")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}
