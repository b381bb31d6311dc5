package estimator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Reference costing: 36 buses at Tier III (complexity 1.5) with the four
// core studies gives 43.2 + 54 + 81 + 64.8 = 243 hours at a blended
// 0.2×1200 + 0.3×650 + 0.5×500 = 685 per hour.
const (
	referenceHours     = 243.0
	referenceBlended   = 685.0
	referenceReports   = 70000 * 1.8
	referenceMeetings  = 3 * 8000.0
	referenceStudyCost = referenceHours * referenceBlended
)

func rollup(t *testing.T, req Request, busCount int) (*CostBreakdown, []string) {
	t.Helper()
	normalized, _ := Normalize(req)
	breakdown, warnings, err := RollupCost(busCount, normalized)
	require.NoError(t, err)
	require.NotNil(t, breakdown)
	return breakdown, warnings
}

func TestRollupCostReference(t *testing.T) {
	breakdown, warnings := rollup(t, DefaultRequest(), 36)
	assert.Empty(t, warnings)

	require.Len(t, breakdown.Studies, 4)
	wantHours := map[string]float64{"load_flow": 43.2, "short_circuit": 54, "pdc": 81, "arc_flash": 64.8}
	for _, study := range breakdown.Studies {
		assert.InDelta(t, wantHours[study.ID], study.Hours, 1e-9, study.ID)
		assert.InDelta(t, study.Hours, study.SeniorHours+study.MidHours+study.JuniorHours, 1e-9)
		assert.InDelta(t, study.TotalCost, study.SeniorCost+study.MidCost+study.JuniorCost, 1e-9)
	}

	assert.InDelta(t, referenceHours, breakdown.TotalHours, 1e-9)
	assert.InDelta(t, referenceStudyCost, breakdown.TotalStudyCost, 1e-6)
	assert.InDelta(t, referenceReports, breakdown.TotalReportCost, 1e-6)
	assert.InDelta(t, referenceMeetings, breakdown.MeetingsCost, 1e-9)
	assert.Zero(t, breakdown.AdditiveTotal)

	subtotal := referenceStudyCost + referenceReports + referenceMeetings
	assert.InDelta(t, subtotal, breakdown.Subtotal, 1e-6)
	assert.InDelta(t, 363923.25, breakdown.FinalTotal, 1e-6)
	margin := DefaultCostFactors().MarginFraction
	assert.Equal(t, breakdown.Subtotal*(1+margin), breakdown.FinalTotal)
	assert.InDelta(t, breakdown.FinalTotal-breakdown.Subtotal, breakdown.MarginAmount, 1e-9)
}

func TestRollupCostFactors(t *testing.T) {
	tests := []struct {
		name          string
		mutate        func(r *Request)
		wantHours     float64
		wantStudyCost float64
	}{
		{
			name:          "standard delivery ignores urgency multiplier",
			mutate:        func(r *Request) { r.Costs.UrgencyMultiplier = 1.8 },
			wantHours:     referenceHours,
			wantStudyCost: referenceStudyCost,
		},
		{
			name: "urgent delivery",
			mutate: func(r *Request) {
				r.Costs.Delivery = Urgent
				r.Costs.UrgencyMultiplier = 1.3
			},
			wantHours:     referenceHours,
			wantStudyCost: referenceStudyCost * 1.3,
		},
		{
			name:          "repeat customer discount",
			mutate:        func(r *Request) { r.Costs.RepeatDiscountFraction = 0.1 },
			wantHours:     referenceHours,
			wantStudyCost: referenceStudyCost * 0.9,
		},
		{
			name:          "model available reduces hours",
			mutate:        func(r *Request) { r.Costs.ModelAvailable = true },
			wantHours:     referenceHours * 0.7,
			wantStudyCost: referenceStudyCost * 0.7,
		},
		{
			name: "complexity factor scales one study",
			mutate: func(r *Request) {
				r.Studies[0].ComplexityFactor = 2.0 // load flow 43.2 → 86.4
			},
			wantHours:     referenceHours + 43.2,
			wantStudyCost: (referenceHours + 43.2) * referenceBlended,
		},
		{
			name: "harmonics and transient add hours",
			mutate: func(r *Request) {
				r.Studies[4].Included = true // 36 × 1.0 × 1.5 = 54
				r.Studies[5].Included = true // 36 × 1.4 × 1.5 = 75.6
			},
			wantHours:     referenceHours + 54 + 75.6,
			wantStudyCost: (referenceHours + 54 + 75.6) * referenceBlended,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := DefaultRequest()
			tt.mutate(&req)
			breakdown, _ := rollup(t, req, 36)
			assert.InDelta(t, tt.wantHours, breakdown.TotalHours, 1e-6)
			assert.InDelta(t, tt.wantStudyCost, breakdown.TotalStudyCost, 1e-6)
			assert.InDelta(t, breakdown.Subtotal*(1+req.Costs.MarginFraction), breakdown.FinalTotal, 1e-9)
		})
	}
}

func TestRollupCostTierComplexity(t *testing.T) {
	want := map[Tier]float64{TierI: 162, TierII: 194.4, TierIII: 243, TierIV: 324}
	for tier, hours := range want {
		req := DefaultRequest()
		req.Design.Tier = tier
		breakdown, _ := rollup(t, req, 36)
		assert.InDelta(t, hours, breakdown.TotalHours, 1e-9, tier.String())
	}
}

func TestRollupCostReportFormats(t *testing.T) {
	want := map[ReportFormat]float64{BasicPDF: 70000, DetailedReport: 126000, ClientBranded: 154000}
	for format, cost := range want {
		req := DefaultRequest()
		req.Costs.ReportFormat = format
		breakdown, _ := rollup(t, req, 36)
		assert.InDelta(t, cost, breakdown.TotalReportCost, 1e-6, format.String())
	}
}

func TestRollupCostAdditiveItems(t *testing.T) {
	req := DefaultRequest()
	req.Costs.SiteVisits = UnitItem{Count: 2, UnitCost: 25000}
	req.Costs.ArcFlashLabels = UnitItem{Count: 120, UnitCost: 150}
	req.Costs.Stickering = true
	req.Costs.StickeringFee = 10000
	req.Costs.CustomItems = []LineItem{
		{Name: "Travel", Amount: 12000},
		{Name: "", Amount: 500},
		{Name: "Refund", Amount: -100},
		{Name: "Nothing", Amount: 0},
		{Name: "Rounding dust", Amount: 0.004},
	}

	breakdown, warnings := rollup(t, req, 36)

	names := make([]string, 0, len(breakdown.AdditiveItems))
	for _, item := range breakdown.AdditiveItems {
		names = append(names, item.Name)
	}
	assert.Equal(t, []string{"Site visits (2)", "Arc flash labels (120)", "Equipment stickering", "Travel", "Custom item 2"}, names)
	assert.InDelta(t, 50000+18000+10000+12000+500, breakdown.AdditiveTotal, 1e-9)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "Refund")

	subtotal := referenceStudyCost + referenceReports + referenceMeetings + breakdown.AdditiveTotal
	assert.InDelta(t, subtotal, breakdown.Subtotal, 1e-6)
}

func TestRollupCostLabelsNeedArcFlash(t *testing.T) {
	req := DefaultRequest()
	req.Studies[3].Included = false
	req.Costs.ArcFlashLabels = UnitItem{Count: 50, UnitCost: 150}

	breakdown, warnings := rollup(t, req, 36)
	assert.Empty(t, breakdown.AdditiveItems)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "arc flash labels")
}

func TestRollupCostNoStudies(t *testing.T) {
	req := DefaultRequest()
	for i := range req.Studies {
		req.Studies[i].Included = false
	}
	breakdown, _, err := RollupCost(36, req)
	assert.ErrorIs(t, err, ErrNoStudiesSelected)
	assert.Nil(t, breakdown)
}

func TestFinalTotalMarginProperty(t *testing.T) {
	for _, margin := range []float64{0, 0.05, 0.15, 0.3, 1} {
		req := DefaultRequest()
		req.Costs.MarginFraction = margin
		breakdown, _ := rollup(t, req, 17)
		assert.Equal(t, breakdown.Subtotal*(1+margin), breakdown.FinalTotal)
	}
}
