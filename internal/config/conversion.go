package config

import (
	"fmt"
	"sort"

	"github.com/iwvelando/study-estimator/internal/estimator"
)

// ToRequest converts the configuration into an engine request. Values the
// engine cannot parse fall back to their defaults and are reported as
// warnings; range checks are left to estimator.Normalize.
func (c *Configuration) ToRequest() (estimator.Request, []string) {
	var warnings []string
	req := estimator.DefaultRequest()

	mode, err := estimator.ParseLoadMode(c.Loads.Mode)
	if err != nil {
		warnings = append(warnings, fmt.Sprintf("%v, using %s", err, mode))
	}
	req.Loads = estimator.LoadInput{
		Mode:               mode,
		ITLoadMW:           c.Loads.ITLoadMW,
		TotalLoadMW:        c.Loads.TotalLoadMW,
		PUE:                c.Loads.PUE,
		MechanicalFraction: c.Loads.MechanicalFraction,
		MechanicalMW:       copyFloat(c.Loads.MechanicalMW),
		HouseMW:            copyFloat(c.Loads.HouseMW),
	}

	req.Blocks = estimator.EquipmentBlockSizes{
		UPSLineupMW:    c.Blocks.UPSLineupMW,
		TransformerMVA: c.Blocks.TransformerMVA,
		LVBusMW:        c.Blocks.LVBusMW,
		PDUMVA:         c.Blocks.PDUMVA,
		MVBase:         c.Blocks.MVBase,
		PowerFactor:    c.Blocks.PowerFactor,
	}

	tier, err := estimator.ParseTier(c.Design.Tier)
	if err != nil {
		warnings = append(warnings, err.Error())
	}
	req.Design = estimator.DesignOptions{
		Tier:                 tier,
		VoltageLevels:        c.Design.VoltageLevels,
		BackupGenerators:     c.Design.BackupGenerators,
		ExtraUtilityIncomers: c.Design.ExtraUtilityIncomers,
		ExpansionFactor:      c.Design.ExpansionFactor,
		CalibrationFactor:    c.Design.CalibrationFactor,
	}
	req.BusCountOverride = c.Design.BusCountOverride

	studyWarnings := c.applyStudies(req.Studies)
	warnings = append(warnings, studyWarnings...)

	req.Labor = estimator.LaborMix{Senior: c.Labor.Mix.Senior, Mid: c.Labor.Mix.Mid, Junior: c.Labor.Mix.Junior}
	req.Rates = estimator.LaborRates{Senior: c.Labor.Rates.Senior, Mid: c.Labor.Rates.Mid, Junior: c.Labor.Rates.Junior}

	delivery, err := estimator.ParseDeliveryType(c.Costs.Delivery)
	if err != nil {
		warnings = append(warnings, fmt.Sprintf("%v, using %s", err, delivery))
	}
	reportFormat, err := estimator.ParseReportFormat(c.Costs.ReportFormat)
	if err != nil {
		warnings = append(warnings, fmt.Sprintf("%v, using %s", err, reportFormat))
	}

	var customItems []estimator.LineItem
	for _, item := range c.Costs.CustomItems {
		customItems = append(customItems, estimator.LineItem{Name: item.Name, Amount: item.Amount})
	}

	req.Costs = estimator.CostFactors{
		Delivery:               delivery,
		UrgencyMultiplier:      c.Costs.UrgencyMultiplier,
		RepeatDiscountFraction: c.Costs.RepeatDiscount,
		MarginFraction:         c.Costs.Margin,
		MeetingCost:            c.Costs.MeetingCost,
		Meetings:               c.Costs.Meetings,
		ModelAvailable:         c.Costs.ModelAvailable,
		ModelReductionFraction: c.Costs.ModelReduction,
		ReportFormat:           reportFormat,
		SiteVisits:             estimator.UnitItem{Count: c.Costs.SiteVisits.Count, UnitCost: c.Costs.SiteVisits.UnitCost},
		ArcFlashLabels:         estimator.UnitItem{Count: c.Costs.ArcFlashLabels.Count, UnitCost: c.Costs.ArcFlashLabels.UnitCost},
		Stickering:             c.Costs.Stickering,
		StickeringFee:          c.Costs.StickeringFee,
		CustomItems:            customItems,
	}

	return req, warnings
}

// applyStudies overlays the configured study entries onto the default
// specs, visiting keys in sorted order so warnings are stable.
func (c *Configuration) applyStudies(specs []estimator.StudySpec) []string {
	var warnings []string

	ids := make([]string, 0, len(c.Studies))
	for id := range c.Studies {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	index := make(map[estimator.StudyKind]int, len(specs))
	for i, spec := range specs {
		index[spec.Kind] = i
	}

	for _, id := range ids {
		kind, err := estimator.ParseStudyKind(id)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("%v, ignoring it", err))
			continue
		}
		i, ok := index[kind]
		if !ok {
			continue
		}

		study := c.Studies[id]
		spec := &specs[i]
		spec.Included = true
		if study.Included != nil {
			spec.Included = *study.Included
		}
		if study.HoursPerBus != nil {
			spec.BaseHoursPerBus = *study.HoursPerBus
		}
		if study.Complexity != 0 {
			spec.ComplexityFactor = study.Complexity
		}
		if study.ReportCost != nil {
			spec.ReportCost = *study.ReportCost
		}
	}

	return warnings
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}
