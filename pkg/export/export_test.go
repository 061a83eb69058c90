package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"

	"github.com/scolarite/affect/core/model"
	"github.com/scolarite/affect/core/solver"
)

func sampleResult() *solver.Result {
	return &solver.Result{
		Assignments: []model.Assignment{
			{
				StudentID:   "e1",
				TargetID:    "t1",
				TargetKind:  model.TargetTeacher,
				Score:       87.5,
				DistanceKm:  12.3,
				Provenance:  model.ProvenanceAlgorithm,
				Explanation: "distance dominant (88)",
			},
		},
		Unassigned: []model.Unassigned{
			{StudentID: "e2", Reasons: []string{"no internship record"}, Problem: model.ProblemNoData},
		},
		Stats: solver.Stats{Assigned: 1, Unassigned: 1},
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, sampleResult()); err != nil {
		t.Fatalf("write: %v", err)
	}
	var got solver.Result
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(got.Assignments) != 1 || got.Assignments[0].StudentID != "e1" {
		t.Fatalf("assignments lost in encoding: %+v", got.Assignments)
	}
	if got.Stats.Assigned != 1 || got.Stats.Unassigned != 1 {
		t.Fatalf("stats lost in encoding: %+v", got.Stats)
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleResult()); err != nil {
		t.Fatalf("write: %v", err)
	}
	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "student_id" || rows[0][6] != "explanation" {
		t.Fatalf("unexpected header: %v", rows[0])
	}
	if rows[1][0] != "e1" || rows[1][1] != "t1" || rows[1][3] != "87.5" || rows[1][4] != "12.3" {
		t.Fatalf("unexpected assignment row: %v", rows[1])
	}
	if rows[2][0] != "e2" || rows[2][5] != string(model.ProblemNoData) || rows[2][6] != "no internship record" {
		t.Fatalf("unexpected unassigned row: %v", rows[2])
	}
}
