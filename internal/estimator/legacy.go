package estimator

import "github.com/iwvelando/study-estimator/pkg/mathutil"

// LegacyBusesPerMW returns the flat buses-per-MW ratio of the early
// dashboard for a tier.
//
// Deprecated: the component-sum rollup in ApplyTier is the canonical
// bus-count algorithm. This ratio disagrees with it and is kept only so
// old estimates can be compared side by side.
func LegacyBusesPerMW(tier Tier) float64 {
	if row, ok := tierTable[tier]; ok {
		return row.legacyPerMW
	}
	return tierTable[TierIII].legacyPerMW
}

// LegacyBusCount is ceil(ceil(total × buses/MW × calibration) × expansion).
//
// Deprecated: use ApplyTier. Never feed this figure into RollupCost.
func LegacyBusCount(totalMW float64, design DesignOptions) int {
	calibration := design.CalibrationFactor
	if calibration <= 0 {
		calibration = 1
	}
	expansion := design.ExpansionFactor
	if expansion <= 0 {
		expansion = 1
	}
	estimated := mathutil.Ceil(totalMW * LegacyBusesPerMW(design.Tier) * calibration)
	return mathutil.Ceil(float64(estimated) * expansion)
}
