package capacity

import "sort"

// Loads tracks per-target assignment counts against resolved capacities
// for one solve. It is owned by the solve that created it and must not
// be shared between concurrent solves.
type Loads struct {
	caps   map[string]int
	counts map[string]int
	gender map[string]map[string]int
}

// NewLoads creates a load tracker over the given capacities with every
// count at zero.
func NewLoads(caps map[string]int) *Loads {
	c := make(map[string]int, len(caps))
	for id, capa := range caps {
		c[id] = capa
	}
	return &Loads{
		caps:   c,
		counts: make(map[string]int, len(caps)),
		gender: make(map[string]map[string]int),
	}
}

// Clone returns an independent copy.
func (l *Loads) Clone() *Loads {
	cp := NewLoads(l.caps)
	for id, n := range l.counts {
		cp.counts[id] = n
	}
	for id, byGender := range l.gender {
		m := make(map[string]int, len(byGender))
		for g, n := range byGender {
			m[g] = n
		}
		cp.gender[id] = m
	}
	return cp
}

// Assign records one assignment to the target.
func (l *Loads) Assign(targetID, gender string) {
	l.counts[targetID]++
	if gender != "" {
		if l.gender[targetID] == nil {
			l.gender[targetID] = make(map[string]int)
		}
		l.gender[targetID][gender]++
	}
}

// Unassign removes one assignment from the target.
func (l *Loads) Unassign(targetID, gender string) {
	if l.counts[targetID] > 0 {
		l.counts[targetID]--
	}
	if gender != "" && l.gender[targetID] != nil && l.gender[targetID][gender] > 0 {
		l.gender[targetID][gender]--
	}
}

// Count returns the current load of the target.
func (l *Loads) Count(targetID string) int { return l.counts[targetID] }

// Capacity returns the resolved capacity of the target.
func (l *Loads) Capacity(targetID string) int { return l.caps[targetID] }

// Fits reports whether one more assignment fits the target.
func (l *Loads) Fits(targetID string) bool {
	return HasAvailableCapacity(l.caps[targetID], l.counts[targetID])
}

// GenderCount returns how many assignees of the given gender the target
// currently holds, alongside its total load.
func (l *Loads) GenderCount(targetID, gender string) (same, total int) {
	return l.gender[targetID][gender], l.counts[targetID]
}

// Ratio returns load divided by capacity for the target. A zero
// capacity counts as fully loaded.
func (l *Loads) Ratio(targetID string) float64 {
	capa := l.caps[targetID]
	if capa <= 0 {
		return 1
	}
	return float64(l.counts[targetID]) / float64(capa)
}

// Ratios returns every target's load ratio, ordered by target ID for
// determinism.
func (l *Loads) Ratios() []float64 {
	ids := make([]string, 0, len(l.caps))
	for id := range l.caps {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]float64, len(ids))
	for i, id := range ids {
		out[i] = l.Ratio(id)
	}
	return out
}

// TotalCapacity sums every target's capacity.
func (l *Loads) TotalCapacity() int {
	var total int
	for _, capa := range l.caps {
		total += capa
	}
	return total
}
