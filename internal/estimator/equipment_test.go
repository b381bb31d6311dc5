package estimator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func referenceLoads() LoadProfile {
	return DeriveLoads(LoadInput{Mode: ITFirst, ITLoadMW: 5, PUE: 1.56, MechanicalFraction: 0.7})
}

func TestCountEquipmentReference(t *testing.T) {
	counts := CountEquipment(referenceLoads(), DefaultBlockSizes(), DefaultDesignOptions())

	assert.Equal(t, 2, counts.MVBuses)
	assert.Equal(t, 3, counts.Transformers)
	assert.Equal(t, 2, counts.LVITBuses)
	assert.Equal(t, 1, counts.LVMechanicalBuses)
	assert.Equal(t, 1, counts.LVHouseBuses)
	assert.Equal(t, 4, counts.LVBuses())
	assert.Equal(t, 4, counts.UPSLineups)
	assert.Equal(t, 17, counts.PDUs)
	assert.Equal(t, 0, counts.VoltageAdditions)
	assert.Equal(t, 0, counts.GeneratorAdditions)
	assert.Equal(t, 30, counts.BaseCount)
}

func TestCountEquipmentAdditions(t *testing.T) {
	design := DefaultDesignOptions()
	design.VoltageLevels = 3
	design.BackupGenerators = 4
	design.ExtraUtilityIncomers = 1

	counts := CountEquipment(referenceLoads(), DefaultBlockSizes(), design)

	assert.Equal(t, 3, counts.MVBuses)
	assert.Equal(t, 4, counts.VoltageAdditions, "(3-2) × (3 transformers + 1)")
	assert.Equal(t, 8, counts.GeneratorAdditions)
	assert.Equal(t, 3+3+4+4+17+4+8, counts.BaseCount)
}

func TestCountEquipmentZeroBlockGuard(t *testing.T) {
	blocks := EquipmentBlockSizes{MVBase: 2, PowerFactor: 0.95}

	require.NotPanics(t, func() {
		counts := CountEquipment(referenceLoads(), blocks, DefaultDesignOptions())
		assert.Equal(t, 0, counts.Transformers)
		assert.Equal(t, 0, counts.LVBuses())
		assert.Equal(t, 0, counts.UPSLineups)
		assert.Equal(t, 0, counts.PDUs)
		assert.Equal(t, 2, counts.BaseCount)
	})
}

func TestApplyTierReference(t *testing.T) {
	tests := []struct {
		tier         Tier
		wantTX       int
		wantAdjusted float64
		wantTotal    float64
		wantBusCount int
	}{
		{TierI, 3, 30, 30, 30},
		{TierII, 4, 31, 34.1, 35},
		{TierIII, 4, 31, 35.65, 36},
		{TierIV, 6, 51.5, 51.5, 52}, // (2+3+4+4)×2 + 17×1.5
	}

	for _, tt := range tests {
		t.Run(tt.tier.String(), func(t *testing.T) {
			design := DefaultDesignOptions()
			design.Tier = tt.tier
			counts := ApplyTier(CountEquipment(referenceLoads(), DefaultBlockSizes(), design), design)

			assert.Equal(t, tt.wantTX, counts.TransformersAdjusted)
			assert.InDelta(t, tt.wantAdjusted, counts.AdjustedBase, 1e-9)
			assert.InDelta(t, tt.wantTotal, counts.TierTotal, 1e-9)
			assert.Equal(t, tt.wantBusCount, counts.BusCount)
		})
	}
}

func TestApplyTierUnknownFallsBackToTierIII(t *testing.T) {
	design := DefaultDesignOptions()
	design.Tier = Tier(42)
	counts := ApplyTier(CountEquipment(referenceLoads(), DefaultBlockSizes(), design), design)
	assert.Equal(t, 36, counts.BusCount)
}

func TestApplyTierMinimumOneBus(t *testing.T) {
	design := DefaultDesignOptions()
	design.Tier = TierI
	counts := ApplyTier(EquipmentCounts{}, design)
	assert.Equal(t, 1, counts.BusCount)
}

func TestApplyTierExpansion(t *testing.T) {
	design := DefaultDesignOptions()
	design.ExpansionFactor = 1.2
	counts := ApplyTier(CountEquipment(referenceLoads(), DefaultBlockSizes(), design), design)
	assert.InDelta(t, 31*1.2*1.15, counts.TierTotal, 1e-9)
	assert.Equal(t, 43, counts.BusCount) // 42.78 rounds up
}

func busCountFor(t *testing.T, req Request) int {
	t.Helper()
	normalized, _ := Normalize(req)
	_, counts := EstimateBuses(normalized)
	return counts.BusCount
}

func TestBusCountMonotonicInLoad(t *testing.T) {
	for _, tier := range AllTiers() {
		previous := 0
		for load := 0.2; load <= 60; load += 0.2 {
			req := DefaultRequest()
			req.Loads = LoadInput{Mode: TotalFirst, TotalLoadMW: load, PUE: 1.4, MechanicalFraction: 0.7}
			req.Design.Tier = tier

			got := busCountFor(t, req)
			require.GreaterOrEqual(t, got, previous, "%s at %.1f MW", tier, load)
			previous = got
		}
	}
}

func TestTierRedundancyOrdering(t *testing.T) {
	for _, it := range []float64{0.01, 0.1, 0.5, 1, 2.5, 5, 12, 30, 75} {
		for _, generators := range []int{0, 3} {
			for _, mvBase := range []int{0, 1, 2} {
				counts := make([]int, 0, 4)
				for _, tier := range AllTiers() {
					req := DefaultRequest()
					req.Loads.ITLoadMW = it
					req.Blocks.MVBase = mvBase
					req.Design.Tier = tier
					req.Design.BackupGenerators = generators
					counts = append(counts, busCountFor(t, req))
				}
				for i := 1; i < len(counts); i++ {
					assert.GreaterOrEqual(t, counts[i], counts[i-1],
						"IT %.2f MW, generators %d, MV base %d: %v", it, generators, mvBase, counts)
				}
			}
		}
	}
}

func TestCalibrationScalesBusCount(t *testing.T) {
	for _, it := range []float64{1, 5, 9.7, 40} {
		req := DefaultRequest()
		req.Loads.ITLoadMW = it
		single := busCountFor(t, req)

		req.Design.CalibrationFactor = 2.0
		double := busCountFor(t, req)

		diff := double - 2*single
		assert.True(t, diff >= -1 && diff <= 1, "IT %.1f: %d vs 2×%d", it, double, single)
	}

	req := DefaultRequest()
	req.Design.CalibrationFactor = 2.0
	assert.Equal(t, 72, busCountFor(t, req)) // ceil(35.65 × 2)
}

func TestLegacyBusCount(t *testing.T) {
	tests := []struct {
		tier      Tier
		expansion float64
		want      int
	}{
		{TierI, 1, 12},   // 7.8 × 1.5 = 11.7
		{TierII, 1, 14},  // 13.26
		{TierIII, 1, 16}, // 15.6
		{TierIV, 1, 18},  // 17.94
		{TierIII, 1.25, 20},
	}

	for _, tt := range tests {
		design := DefaultDesignOptions()
		design.Tier = tt.tier
		design.ExpansionFactor = tt.expansion
		assert.Equal(t, tt.want, LegacyBusCount(7.8, design), "%s × %.2f", tt.tier, tt.expansion)
	}
}
