package estimator

import (
	"fmt"

	"github.com/iwvelando/study-estimator/pkg/mathutil"
)

// NormalizeLaborMix clamps negative shares to zero and rescales the mix so
// it sums to 1.0. A mix with no positive share falls back to the default
// split and reports ok=false.
func NormalizeLaborMix(mix LaborMix) (normalized LaborMix, ok bool) {
	mix.Senior = mathutil.NonNegative(mix.Senior)
	mix.Mid = mathutil.NonNegative(mix.Mid)
	mix.Junior = mathutil.NonNegative(mix.Junior)

	total := mix.Sum()
	if total <= 0 {
		return DefaultLaborMix(), false
	}
	if total == 1.0 {
		return mix, true
	}
	return LaborMix{
		Senior: mix.Senior / total,
		Mid:    mix.Mid / total,
		Junior: mix.Junior / total,
	}, true
}

// Normalize returns a copy of req with every field forced into its
// documented domain, plus a warning for each adjustment. It never fails.
func Normalize(req Request) (Request, []string) {
	var warnings []string
	warnf := func(format string, args ...interface{}) {
		warnings = append(warnings, fmt.Sprintf(format, args...))
	}

	// Loads
	if req.Loads.ITLoadMW < 0 {
		warnf("IT load %.2f MW is negative, using 0", req.Loads.ITLoadMW)
	}
	req.Loads.ITLoadMW = mathutil.NonNegative(req.Loads.ITLoadMW)
	if req.Loads.TotalLoadMW < 0 {
		warnf("total load %.2f MW is negative, using 0", req.Loads.TotalLoadMW)
	}
	req.Loads.TotalLoadMW = mathutil.NonNegative(req.Loads.TotalLoadMW)
	if req.Loads.PUE < 1 {
		warnf("PUE %.2f is below 1.0, using 1.0", req.Loads.PUE)
		req.Loads.PUE = 1
	}
	if req.Loads.MechanicalFraction < 0 || req.Loads.MechanicalFraction > 1 {
		warnf("mechanical fraction %.2f is outside [0, 1], clamping", req.Loads.MechanicalFraction)
		req.Loads.MechanicalFraction = mathutil.Clamp(req.Loads.MechanicalFraction, 0, 1)
	}
	if req.Loads.MechanicalMW != nil {
		v := mathutil.NonNegative(*req.Loads.MechanicalMW)
		req.Loads.MechanicalMW = &v
	}
	if req.Loads.HouseMW != nil {
		v := mathutil.NonNegative(*req.Loads.HouseMW)
		req.Loads.HouseMW = &v
	}
	if (req.Loads.MechanicalMW == nil) != (req.Loads.HouseMW == nil) {
		warnf("explicit mechanical and house loads must be given together, using the fractional split")
		req.Loads.MechanicalMW = nil
		req.Loads.HouseMW = nil
	}

	// Block sizes; zero sizes are left to the division guard.
	b := &req.Blocks
	for _, block := range []struct {
		name  string
		value float64
	}{
		{"UPS lineup", b.UPSLineupMW},
		{"transformer rating", b.TransformerMVA},
		{"LV bus section", b.LVBusMW},
		{"PDU rating", b.PDUMVA},
	} {
		if block.value <= 0 {
			warnf("%s size %.2f is not positive, its equipment count will be 0", block.name, block.value)
		}
	}
	if b.MVBase < 0 {
		warnf("MV base %d is negative, using 0", b.MVBase)
		b.MVBase = 0
	}
	if b.PowerFactor <= 0 || b.PowerFactor > 1 {
		warnf("power factor %.2f is outside (0, 1], using 1.0", b.PowerFactor)
		b.PowerFactor = 1
	}

	// Design
	d := &req.Design
	if !d.Tier.Valid() {
		warnf("unknown tier %d, using %s", int(d.Tier), TierIII)
		d.Tier = TierIII
	}
	if d.VoltageLevels < 2 {
		d.VoltageLevels = 2
	}
	if d.BackupGenerators < 0 {
		d.BackupGenerators = 0
	}
	if d.ExtraUtilityIncomers < 0 {
		d.ExtraUtilityIncomers = 0
	}
	if d.ExpansionFactor <= 0 {
		warnf("expansion factor %.2f is not positive, using 1.0", d.ExpansionFactor)
		d.ExpansionFactor = 1
	}
	if d.CalibrationFactor <= 0 {
		warnf("calibration factor %.2f is not positive, using 1.0", d.CalibrationFactor)
		d.CalibrationFactor = 1
	}
	if req.BusCountOverride < 0 {
		req.BusCountOverride = 0
	}

	// Studies
	studies := make([]StudySpec, len(req.Studies))
	for i, s := range req.Studies {
		s.BaseHoursPerBus = mathutil.NonNegative(s.BaseHoursPerBus)
		if s.ComplexityFactor <= 0 {
			s.ComplexityFactor = 1
		}
		s.ReportCost = mathutil.NonNegative(s.ReportCost)
		studies[i] = s
	}
	req.Studies = studies

	// Labor
	mix, ok := NormalizeLaborMix(req.Labor)
	if !ok {
		warnf("labor allocation has no positive share, using default %.0f/%.0f/%.0f split",
			mix.Senior*100, mix.Mid*100, mix.Junior*100)
	}
	req.Labor = mix
	req.Rates = LaborRates{
		Senior: mathutil.NonNegative(req.Rates.Senior),
		Mid:    mathutil.NonNegative(req.Rates.Mid),
		Junior: mathutil.NonNegative(req.Rates.Junior),
	}

	// Commercial factors
	c := &req.Costs
	if c.UrgencyMultiplier < 1 {
		c.UrgencyMultiplier = 1
	}
	for _, frac := range []struct {
		name  string
		value *float64
	}{
		{"repeat customer discount", &c.RepeatDiscountFraction},
		{"margin", &c.MarginFraction},
		{"model reduction", &c.ModelReductionFraction},
	} {
		if *frac.value < 0 || *frac.value > 1 {
			warnf("%s %.2f is outside [0, 1], clamping", frac.name, *frac.value)
			*frac.value = mathutil.Clamp(*frac.value, 0, 1)
		}
	}
	c.MeetingCost = mathutil.NonNegative(c.MeetingCost)
	if c.Meetings < 0 {
		c.Meetings = 0
	}
	c.StickeringFee = mathutil.NonNegative(c.StickeringFee)
	if len(c.CustomItems) > 0 {
		c.CustomItems = append([]LineItem(nil), c.CustomItems...)
	}

	return req, warnings
}
