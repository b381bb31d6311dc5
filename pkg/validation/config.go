package validation

import (
	"fmt"
	"strings"

	"github.com/iwvelando/study-estimator/pkg/constants"
	"github.com/iwvelando/study-estimator/pkg/mathutil"
)

// ValidateCurrency checks that the currency code is one the formatter knows.
func ValidateCurrency(code string) error {
	switch strings.ToUpper(strings.TrimSpace(code)) {
	case constants.CurrencyINR, constants.CurrencyUSD:
		return nil
	}
	return fmt.Errorf("expected currency of %s or %s, got %q",
		constants.CurrencyINR, constants.CurrencyUSD, code)
}

// ValidateLoadFigures warns when the authoritative load figure for the
// selected mode is missing, or when the other figure is set and will be ignored.
func ValidateLoadFigures(totalFirst bool, itLoadMW, totalLoadMW float64) []string {
	var warnings []string

	primary, primaryName := itLoadMW, "IT load"
	secondary, secondaryName := totalLoadMW, "total load"
	if totalFirst {
		primary, primaryName = totalLoadMW, "total load"
		secondary, secondaryName = itLoadMW, "IT load"
	}

	if primary <= 0 {
		warnings = append(warnings, fmt.Sprintf("%s is %.2f MW, every equipment count will be 0", primaryName, primary))
	}
	if secondary > 0 {
		warnings = append(warnings, fmt.Sprintf("%s of %.2f MW is ignored, it is derived from %s and PUE",
			secondaryName, secondary, primaryName))
	}

	return warnings
}

// ValidateLaborMix warns when the staffing shares do not sum to 1.0 and will be rescaled.
func ValidateLaborMix(senior, mid, junior float64) string {
	sum := senior + mid + junior
	if sum <= 0 || mathutil.WithinTolerance(sum, 1, constants.CurrencyTolerance) {
		return ""
	}
	return fmt.Sprintf("labor allocation sums to %.2f, shares will be rescaled to 1.0", sum)
}

// ValidateFacilityType checks the optional data center type label. An empty
// label is valid.
func ValidateFacilityType(facilityType string) error {
	trimmed := strings.TrimSpace(facilityType)
	if trimmed == "" {
		return nil
	}
	for _, known := range []string{constants.FacilityEnterprise, constants.FacilityHyperscale, constants.FacilityAIHPC} {
		if strings.EqualFold(trimmed, known) {
			return nil
		}
	}
	return fmt.Errorf("unknown data center type %q, expected %s, %s or %s", facilityType,
		constants.FacilityEnterprise, constants.FacilityHyperscale, constants.FacilityAIHPC)
}

// MergeWarnings concatenates warning lists in order, dropping repeats.
func MergeWarnings(lists ...[]string) []string {
	var merged []string
	seen := make(map[string]struct{})
	for _, list := range lists {
		for _, w := range list {
			if _, ok := seen[w]; ok {
				continue
			}
			seen[w] = struct{}{}
			merged = append(merged, w)
		}
	}
	return merged
}
