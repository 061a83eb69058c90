package capacity

import (
	"gonum.org/v1/gonum/stat"
)

// ChargeStats describes the spread of load ratios across all targets,
// used for equilibrage diagnostics.
type ChargeStats struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// CalculateChargeStats aggregates the distribution of assigned/capacity
// ratios over all targets.
func CalculateChargeStats(loads *Loads) ChargeStats {
	ratios := loads.Ratios()
	if len(ratios) == 0 {
		return ChargeStats{}
	}
	min, max := ratios[0], ratios[0]
	for _, r := range ratios {
		if r < min {
			min = r
		}
		if r > max {
			max = r
		}
	}
	mean, std := stat.MeanStdDev(ratios, nil)
	if len(ratios) == 1 {
		std = 0
	}
	return ChargeStats{Mean: mean, StdDev: std, Min: min, Max: max}
}

// EquilibrageScore rewards pairings that keep the load distribution
// flat: assigning to the least-loaded target scores 100, assigning to a
// target already ahead of the pack scores proportionally less. This is
// a scoring criterion, never a constraint.
func EquilibrageScore(targetID string, loads *Loads) float64 {
	ratio := loads.Ratio(targetID)
	ratios := loads.Ratios()
	min := 1.0
	for _, r := range ratios {
		if r < min {
			min = r
		}
	}
	score := 100 * (1 - (ratio - min))
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
