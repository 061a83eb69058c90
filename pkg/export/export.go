// Package export writes solve results in JSON or CSV form.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"github.com/scolarite/affect/core/solver"
)

// WriteJSON writes the full solve result to w in JSON format.
func WriteJSON(w io.Writer, res *solver.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

// WriteCSV writes the assignments and unassigned students to w as CSV.
func WriteCSV(w io.Writer, res *solver.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"student_id", "target_id", "target_kind", "score", "distance_km", "provenance", "explanation"}); err != nil {
		return err
	}
	for _, a := range res.Assignments {
		rec := []string{
			a.StudentID,
			a.TargetID,
			string(a.TargetKind),
			strconv.FormatFloat(a.Score, 'f', 1, 64),
			strconv.FormatFloat(a.DistanceKm, 'f', 1, 64),
			string(a.Provenance),
			a.Explanation,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	for _, u := range res.Unassigned {
		rec := []string{u.StudentID, "", "", "", "", string(u.Problem), strings.Join(u.Reasons, "; ")}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
