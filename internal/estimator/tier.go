package estimator

import (
	"fmt"
	"strings"
)

// Tier is the data-center redundancy classification.
type Tier int

const (
	TierI Tier = iota + 1
	TierII
	TierIII
	TierIV
)

// tierTable holds every tier-indexed constant. Adding a tier means adding a
// row here; lookups outside the table fall back to Tier III.
var tierTable = map[Tier]struct {
	label       string
	redundancy  string
	complexity  float64
	legacyPerMW float64
}{
	TierI:   {"Tier I", "N", 1.0, 1.5},
	TierII:  {"Tier II", "N+1 (partial)", 1.2, 1.7},
	TierIII: {"Tier III", "N+1", 1.5, 2.0},
	TierIV:  {"Tier IV", "2N", 2.0, 2.3},
}

// AllTiers lists the tiers in ascending redundancy order.
func AllTiers() []Tier {
	return []Tier{TierI, TierII, TierIII, TierIV}
}

// Valid reports whether t is one of the four defined tiers.
func (t Tier) Valid() bool {
	_, ok := tierTable[t]
	return ok
}

func (t Tier) String() string {
	if row, ok := tierTable[t]; ok {
		return row.label
	}
	return tierTable[TierIII].label
}

// Redundancy describes the tier's redundancy scheme (N, N+1, 2N).
func (t Tier) Redundancy() string {
	if row, ok := tierTable[t]; ok {
		return row.redundancy
	}
	return tierTable[TierIII].redundancy
}

// Complexity is the study-hours scalar for the tier. It is independent of
// the bus-count rollup multiplier in ApplyTier.
func (t Tier) Complexity() float64 {
	if row, ok := tierTable[t]; ok {
		return row.complexity
	}
	return tierTable[TierIII].complexity
}

// ParseTier accepts "Tier I".."Tier IV", "I".."IV", "1".."4", and the
// redundancy aliases "N", "N+1" and "2N". Unknown values return Tier III
// together with an error so callers can warn.
func ParseTier(value string) (Tier, error) {
	normalized := strings.ToUpper(strings.TrimSpace(value))
	normalized = strings.TrimPrefix(normalized, "TIER")
	normalized = strings.TrimSpace(normalized)
	if i := strings.Index(normalized, "("); i >= 0 {
		normalized = strings.TrimSpace(normalized[:i])
	}

	switch normalized {
	case "I", "1", "N", "N (BASE)", "BASE":
		return TierI, nil
	case "II", "2":
		return TierII, nil
	case "III", "3", "N+1":
		return TierIII, nil
	case "IV", "4", "2N":
		return TierIV, nil
	}
	return TierIII, fmt.Errorf("unknown tier %q, using %s", value, TierIII)
}
