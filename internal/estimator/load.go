package estimator

import "github.com/iwvelando/study-estimator/pkg/mathutil"

// DeriveLoads computes the IT/mechanical/house split. Inputs are expected to
// be normalized; a PUE below 1 is still treated as 1 to keep the division
// defined.
func DeriveLoads(in LoadInput) LoadProfile {
	pue := in.PUE
	if pue < 1 {
		pue = 1
	}

	var profile LoadProfile

	if in.MechanicalMW != nil && in.HouseMW != nil {
		profile.ITMW = mathutil.NonNegative(in.ITLoadMW)
		profile.MechanicalMW = mathutil.NonNegative(*in.MechanicalMW)
		profile.HouseMW = mathutil.NonNegative(*in.HouseMW)
		profile.NonITMW = profile.MechanicalMW + profile.HouseMW
		profile.TotalMW = profile.ITMW + profile.NonITMW
		profile.PUE = mathutil.SafeDiv(profile.TotalMW, profile.ITMW)
		return profile
	}

	switch in.Mode {
	case TotalFirst:
		profile.TotalMW = mathutil.NonNegative(in.TotalLoadMW)
		profile.ITMW = profile.TotalMW / pue
	default:
		profile.ITMW = mathutil.NonNegative(in.ITLoadMW)
		profile.TotalMW = pue * profile.ITMW
	}
	profile.PUE = pue

	profile.NonITMW = mathutil.NonNegative(profile.TotalMW - profile.ITMW)
	fraction := mathutil.Clamp(in.MechanicalFraction, 0, 1)
	profile.MechanicalMW = fraction * profile.NonITMW
	profile.HouseMW = profile.NonITMW - profile.MechanicalMW
	return profile
}
