package estimator

import (
	"github.com/iwvelando/study-estimator/pkg/constants"
	"github.com/iwvelando/study-estimator/pkg/mathutil"
)

// CountEquipment counts the N-redundancy equipment units for a load
// profile. Every count is ceil(load / block) and a non-positive block size
// contributes zero.
func CountEquipment(loads LoadProfile, blocks EquipmentBlockSizes, design DesignOptions) EquipmentCounts {
	var c EquipmentCounts

	c.LVITBuses = mathutil.CeilDiv(loads.ITMW, blocks.LVBusMW)
	c.LVMechanicalBuses = mathutil.CeilDiv(loads.MechanicalMW, blocks.LVBusMW)
	c.LVHouseBuses = mathutil.CeilDiv(loads.HouseMW, blocks.LVBusMW)
	c.UPSLineups = mathutil.CeilDiv(loads.ITMW, blocks.UPSLineupMW)
	c.PDUs = mathutil.CeilDiv(loads.ITMW, blocks.PDUMVA)
	c.Transformers = mathutil.CeilDiv(loads.TotalMW, blocks.TransformerMVA*blocks.PowerFactor)
	c.TransformersAdjusted = c.Transformers

	c.MVBuses = blocks.MVBase + design.ExtraUtilityIncomers
	if c.MVBuses < 0 {
		c.MVBuses = 0
	}

	if design.VoltageLevels > 2 {
		c.VoltageAdditions = (design.VoltageLevels - 2) * (c.Transformers + 1)
	}
	if design.BackupGenerators > 0 {
		c.GeneratorAdditions = design.BackupGenerators * constants.ATSPerGenerator
	}

	c.BaseCount = c.MVBuses + c.Transformers + c.LVBuses() + c.UPSLineups + c.PDUs +
		c.VoltageAdditions + c.GeneratorAdditions
	return c
}
