package estimator

import (
	"errors"
	"fmt"

	"github.com/iwvelando/study-estimator/pkg/mathutil"
	"go.uber.org/zap"
)

// Engine runs the estimation pipeline. It holds no state besides its
// logger and is safe for concurrent use.
type Engine struct {
	logger *zap.Logger
}

// NewEngine creates an Engine. A nil logger disables logging.
func NewEngine(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{logger: logger}
}

// EstimateBuses runs load derivation, equipment counting and the tier
// rollup on a normalized request.
func EstimateBuses(req Request) (LoadProfile, EquipmentCounts) {
	loads := DeriveLoads(req.Loads)
	counts := CountEquipment(loads, req.Blocks, req.Design)
	counts = ApplyTier(counts, req.Design)
	return loads, counts
}

// Estimate normalizes req, derives the bus count and prices the studies.
// When no study is included the result carries StatusNoCostComputed and a
// nil Cost.
func (e *Engine) Estimate(req Request) EstimationResult {
	normalized, warnings := Normalize(req)
	for _, warning := range warnings {
		e.logger.Debug("input normalized",
			zap.String("op", "estimator.Estimate"),
			zap.String("warning", warning),
		)
	}

	loads, counts := EstimateBuses(normalized)
	result := EstimationResult{
		Loads:          loads,
		Equipment:      counts,
		Tier:           normalized.Design.Tier.String(),
		BusCount:       counts.BusCount,
		LegacyBusCount: LegacyBusCount(loads.TotalMW, normalized.Design),
		Warnings:       warnings,
	}
	// With no load only the fixed MV and generator buses remain, and the
	// Tier III rollup can exceed Tier IV.
	if mathutil.IsZero(loads.TotalMW) {
		result.Warnings = append(result.Warnings,
			"facility load is 0 MW, the bus count covers only MV and generator buses")
	}

	e.logger.Debug("bus count derived",
		zap.String("op", "estimator.Estimate"),
		zap.Float64("totalMW", loads.TotalMW),
		zap.String("tier", result.Tier),
		zap.Int("baseCount", counts.BaseCount),
		zap.Float64("tierTotal", counts.TierTotal),
		zap.Int("busCount", counts.BusCount),
	)

	busCount := counts.BusCount
	if normalized.BusCountOverride > 0 {
		busCount = normalized.BusCountOverride
		result.BusCount = busCount
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("bus count override %d replaces derived count %d", busCount, counts.BusCount))
	}

	cost, costWarnings, err := RollupCost(busCount, normalized)
	result.Warnings = append(result.Warnings, costWarnings...)
	if err != nil {
		if errors.Is(err, ErrNoStudiesSelected) {
			e.logger.Debug("skipping cost rollup because no studies are selected",
				zap.String("op", "estimator.Estimate"),
			)
		}
		result.Status = StatusNoCostComputed
		return result
	}

	result.Cost = cost
	result.Status = StatusComputed
	e.logger.Debug("cost rollup complete",
		zap.String("op", "estimator.Estimate"),
		zap.Int("studies", len(cost.Studies)),
		zap.Float64("hours", cost.TotalHours),
		zap.Float64("finalTotal", cost.FinalTotal),
	)
	return result
}
