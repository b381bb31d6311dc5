package estimator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/iwvelando/study-estimator/pkg/mathutil"
)

// ErrNoStudiesSelected is returned by RollupCost when no study is included.
var ErrNoStudiesSelected = errors.New("no studies selected")

// StudyResult is the hour and cost breakdown of one study.
type StudyResult struct {
	Kind        StudyKind `json:"-"`
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	BaseHours   float64   `json:"baseHours"`
	Hours       float64   `json:"hours"`
	SeniorHours float64   `json:"seniorHours"`
	MidHours    float64   `json:"midHours"`
	JuniorHours float64   `json:"juniorHours"`
	SeniorCost  float64   `json:"seniorCost"`
	MidCost     float64   `json:"midCost"`
	JuniorCost  float64   `json:"juniorCost"`
	TotalCost   float64   `json:"totalCost"`
	ReportCost  float64   `json:"reportCost"`
}

// CostBreakdown is the priced scope of work.
type CostBreakdown struct {
	Studies         []StudyResult `json:"studies"`
	TotalHours      float64       `json:"totalHours"`
	TotalStudyCost  float64       `json:"totalStudyCost"`
	TotalReportCost float64       `json:"totalReportCost"`
	MeetingsCost    float64       `json:"meetingsCost"`
	AdditiveItems   []LineItem    `json:"additiveItems,omitempty"`
	AdditiveTotal   float64       `json:"additiveTotal"`
	Subtotal        float64       `json:"subtotal"`
	MarginFraction  float64       `json:"marginFraction"`
	MarginAmount    float64       `json:"marginAmount"`
	FinalTotal      float64       `json:"finalTotal"`
}

// StudyHours returns the hours for one study after tier complexity and the
// model-available reduction.
func StudyHours(busCount int, spec StudySpec, tier Tier, costs CostFactors) (base, hours float64) {
	base = float64(busCount) * spec.BaseHoursPerBus * spec.ComplexityFactor * tier.Complexity()
	hours = base
	if costs.ModelAvailable {
		hours = base * (1 - costs.ModelReductionFraction)
	}
	return base, hours
}

// rateMultiplier combines the urgency multiplier and the repeat-customer
// discount into one factor on hourly rates.
func rateMultiplier(costs CostFactors) float64 {
	urgency := 1.0
	if costs.Delivery == Urgent {
		urgency = costs.UrgencyMultiplier
	}
	return urgency * (1 - costs.RepeatDiscountFraction)
}

// RollupCost prices every included study for busCount buses and adds the
// flat charges and margin. The request must already be normalized. The
// returned warnings describe items that were skipped.
func RollupCost(busCount int, req Request) (*CostBreakdown, []string, error) {
	if IncludedCount(req.Studies) == 0 {
		return nil, nil, ErrNoStudiesSelected
	}

	var warnings []string
	breakdown := &CostBreakdown{MarginFraction: req.Costs.MarginFraction}
	multiplier := rateMultiplier(req.Costs)
	reportMultiplier := req.Costs.ReportFormat.Multiplier()
	arcFlashIncluded := false

	for _, spec := range req.Studies {
		if !spec.Included {
			continue
		}
		if spec.Kind == ArcFlash {
			arcFlashIncluded = true
		}

		base, hours := StudyHours(busCount, spec, req.Design.Tier, req.Costs)
		result := StudyResult{
			Kind:        spec.Kind,
			ID:          spec.Kind.ID(),
			Name:        spec.Kind.String(),
			BaseHours:   base,
			Hours:       hours,
			SeniorHours: hours * req.Labor.Senior,
			MidHours:    hours * req.Labor.Mid,
			JuniorHours: hours * req.Labor.Junior,
		}
		result.SeniorCost = result.SeniorHours * req.Rates.Senior * multiplier
		result.MidCost = result.MidHours * req.Rates.Mid * multiplier
		result.JuniorCost = result.JuniorHours * req.Rates.Junior * multiplier
		result.TotalCost = result.SeniorCost + result.MidCost + result.JuniorCost
		result.ReportCost = spec.ReportCost * reportMultiplier

		breakdown.Studies = append(breakdown.Studies, result)
		breakdown.TotalHours += result.Hours
		breakdown.TotalStudyCost += result.TotalCost
		breakdown.TotalReportCost += result.ReportCost
	}

	breakdown.MeetingsCost = float64(req.Costs.Meetings) * req.Costs.MeetingCost

	items, itemWarnings := additiveItems(req.Costs, arcFlashIncluded)
	warnings = append(warnings, itemWarnings...)
	breakdown.AdditiveItems = items
	for _, item := range items {
		breakdown.AdditiveTotal += item.Amount
	}

	breakdown.Subtotal = breakdown.TotalStudyCost + breakdown.TotalReportCost +
		breakdown.MeetingsCost + breakdown.AdditiveTotal
	breakdown.FinalTotal = breakdown.Subtotal * (1 + req.Costs.MarginFraction)
	breakdown.MarginAmount = breakdown.FinalTotal - breakdown.Subtotal

	return breakdown, warnings, nil
}

func additiveItems(costs CostFactors, arcFlashIncluded bool) ([]LineItem, []string) {
	var items []LineItem
	var warnings []string

	if total := costs.SiteVisits.Total(); total > 0 {
		items = append(items, LineItem{
			Name:   fmt.Sprintf("Site visits (%d)", costs.SiteVisits.Count),
			Amount: total,
		})
	}

	if total := costs.ArcFlashLabels.Total(); total > 0 {
		if arcFlashIncluded {
			items = append(items, LineItem{
				Name:   fmt.Sprintf("Arc flash labels (%d)", costs.ArcFlashLabels.Count),
				Amount: total,
			})
		} else {
			warnings = append(warnings, "arc flash labels requested without an arc flash study, skipping labels")
		}
	}

	if costs.Stickering && costs.StickeringFee > 0 {
		items = append(items, LineItem{Name: "Equipment stickering", Amount: costs.StickeringFee})
	}

	for i, custom := range costs.CustomItems {
		name := strings.TrimSpace(custom.Name)
		if name == "" {
			name = fmt.Sprintf("Custom item %d", i+1)
		}
		if custom.Amount < 0 {
			warnings = append(warnings, fmt.Sprintf("custom item %q has a negative amount, skipping", name))
			continue
		}
		if mathutil.IsZero(custom.Amount) {
			continue
		}
		items = append(items, LineItem{Name: name, Amount: custom.Amount})
	}

	return items, warnings
}
