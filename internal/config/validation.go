package config

import (
	"fmt"

	"github.com/iwvelando/study-estimator/internal/estimator"
	"github.com/iwvelando/study-estimator/pkg/validation"
)

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (c *Configuration) ValidateConfiguration() []string {
	req, warnings := c.ToRequest()

	if err := validation.ValidateCurrency(c.Project.Currency); err != nil {
		warnings = append(warnings, fmt.Sprintf("%v, amounts will be shown in USD", err))
	}

	if err := validation.ValidateFacilityType(c.Project.Type); err != nil {
		warnings = append(warnings, err.Error())
	}

	warnings = append(warnings, validation.ValidateLoadFigures(
		req.Loads.Mode == estimator.TotalFirst, c.Loads.ITLoadMW, c.Loads.TotalLoadMW)...)
	if req.Loads.MechanicalMW != nil && req.Loads.HouseMW != nil && req.Loads.Mode == estimator.TotalFirst {
		warnings = append(warnings, "explicit mechanical and house loads take precedence over the total-first mode")
	}

	if msg := validation.ValidateLaborMix(c.Labor.Mix.Senior, c.Labor.Mix.Mid, c.Labor.Mix.Junior); msg != "" {
		warnings = append(warnings, msg)
	}

	_, normalizeWarnings := estimator.Normalize(req)
	warnings = append(warnings, normalizeWarnings...)

	if estimator.IncludedCount(req.Studies) == 0 {
		warnings = append(warnings, "no studies are included, no cost will be computed")
	}
	if req.Costs.ArcFlashLabels.Count > 0 && !studyIncluded(req.Studies, estimator.ArcFlash) {
		warnings = append(warnings, "arc flash labels are priced only when the arc flash study is included")
	}

	return warnings
}

func studyIncluded(specs []estimator.StudySpec, kind estimator.StudyKind) bool {
	for _, spec := range specs {
		if spec.Kind == kind && spec.Included {
			return true
		}
	}
	return false
}
