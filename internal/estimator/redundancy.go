package estimator

import (
	"github.com/iwvelando/study-estimator/pkg/constants"
	"github.com/iwvelando/study-estimator/pkg/mathutil"
)

// tierRule transforms the N equipment counts into a tier total before the
// expansion factor is applied.
type tierRule func(c *EquipmentCounts) float64

var tierRules = map[Tier]tierRule{
	TierI:   ruleN,
	TierII:  ruleNPlusOne(constants.TierIIRollupMultiplier),
	TierIII: ruleNPlusOne(constants.TierIIIRollupMultiplier),
	TierIV:  rule2N,
}

func ruleN(c *EquipmentCounts) float64 {
	c.TransformersAdjusted = c.Transformers
	c.AdjustedBase = float64(c.BaseCount)
	return c.AdjustedBase
}

// ruleNPlusOne adds one redundant transformer and applies the tier multiplier.
func ruleNPlusOne(multiplier float64) tierRule {
	return func(c *EquipmentCounts) float64 {
		c.TransformersAdjusted = c.Transformers + 1
		c.AdjustedBase = float64(c.BaseCount + 1)
		return c.AdjustedBase * multiplier
	}
}

// rule2N doubles every component except PDUs, which only scale by 1.5
// because PDU redundancy is partial in 2N designs.
func rule2N(c *EquipmentCounts) float64 {
	c.TransformersAdjusted = c.Transformers * 2
	doubled := c.MVBuses + c.Transformers + c.LVBuses() + c.UPSLineups +
		c.VoltageAdditions + c.GeneratorAdditions
	c.AdjustedBase = float64(doubled)*constants.TierIVDoubling + float64(c.PDUs)*constants.TierIVPDUScale
	return c.AdjustedBase
}

// ApplyTier runs the tier redundancy rollup over N counts and fills in the
// adjusted base, tier total and calibrated bus count. Unknown tiers use the
// Tier III rule.
func ApplyTier(counts EquipmentCounts, design DesignOptions) EquipmentCounts {
	rule, ok := tierRules[design.Tier]
	if !ok {
		rule = tierRules[TierIII]
	}

	expansion := design.ExpansionFactor
	if expansion <= 0 {
		expansion = 1
	}
	calibration := design.CalibrationFactor
	if calibration <= 0 {
		calibration = 1
	}

	counts.TierTotal = rule(&counts) * expansion
	counts.BusCount = mathutil.Ceil(counts.TierTotal * calibration)
	if counts.BusCount < 1 {
		counts.BusCount = 1
	}
	return counts
}
