// Package estimator turns data-center load inputs into an electrical bus
// count and prices the power-system studies for that bus count.
//
// Every function in the package is pure: results depend only on the
// Request passed in and are recomputed from scratch on each call.
package estimator

import (
	"fmt"
	"strings"

	"github.com/iwvelando/study-estimator/pkg/constants"
)

// LoadMode selects which load figure is authoritative.
type LoadMode int

const (
	// ITFirst derives the total facility load from IT load and PUE.
	ITFirst LoadMode = iota
	// TotalFirst derives the IT load from total facility load and PUE.
	TotalFirst
)

func (m LoadMode) String() string {
	switch m {
	case TotalFirst:
		return "total"
	default:
		return "it"
	}
}

// ParseLoadMode accepts "it" or "total" (case-insensitive).
func ParseLoadMode(value string) (LoadMode, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "it", "it-first", "it_load":
		return ITFirst, nil
	case "total", "total-first", "total_load", "facility":
		return TotalFirst, nil
	}
	return ITFirst, fmt.Errorf("unknown load mode %q", value)
}

// LoadInput holds the user-facing load figures.
type LoadInput struct {
	Mode               LoadMode
	ITLoadMW           float64
	TotalLoadMW        float64
	PUE                float64
	MechanicalFraction float64

	// MechanicalMW and HouseMW override the fractional split when both are set.
	MechanicalMW *float64
	HouseMW      *float64
}

// LoadProfile is the derived load split in MW.
type LoadProfile struct {
	TotalMW      float64 `json:"totalMW"`
	ITMW         float64 `json:"itMW"`
	NonITMW      float64 `json:"nonITMW"`
	MechanicalMW float64 `json:"mechanicalMW"`
	HouseMW      float64 `json:"houseMW"`
	PUE          float64 `json:"pue"`
}

// EquipmentBlockSizes are the per-unit capacities used as divisors.
type EquipmentBlockSizes struct {
	UPSLineupMW    float64
	TransformerMVA float64
	LVBusMW        float64
	PDUMVA         float64
	MVBase         int
	PowerFactor    float64
}

// DefaultBlockSizes returns the standard equipment block sizes.
func DefaultBlockSizes() EquipmentBlockSizes {
	return EquipmentBlockSizes{
		UPSLineupMW:    constants.DefaultUPSLineupMW,
		TransformerMVA: constants.DefaultTransformerMVA,
		LVBusMW:        constants.DefaultLVBusMW,
		PDUMVA:         constants.DefaultPDUMVA,
		MVBase:         constants.DefaultMVBase,
		PowerFactor:    constants.DefaultPowerFactor,
	}
}

// DesignOptions are the facility design choices that shape the bus count.
type DesignOptions struct {
	Tier                 Tier
	VoltageLevels        int
	BackupGenerators     int
	ExtraUtilityIncomers int
	ExpansionFactor      float64
	CalibrationFactor    float64
}

// DefaultDesignOptions returns a Tier III design with neutral factors.
func DefaultDesignOptions() DesignOptions {
	return DesignOptions{
		Tier:              TierIII,
		VoltageLevels:     constants.DefaultVoltageLevels,
		ExpansionFactor:   constants.DefaultExpansionFactor,
		CalibrationFactor: constants.DefaultCalibrationFactor,
	}
}

// EquipmentCounts itemizes the bus contributions before and after the tier rule.
type EquipmentCounts struct {
	MVBuses              int     `json:"mvBuses"`
	Transformers         int     `json:"transformers"`
	TransformersAdjusted int     `json:"transformersAdjusted"`
	LVITBuses            int     `json:"lvITBuses"`
	LVMechanicalBuses    int     `json:"lvMechanicalBuses"`
	LVHouseBuses         int     `json:"lvHouseBuses"`
	UPSLineups           int     `json:"upsLineups"`
	PDUs                 int     `json:"pdus"`
	VoltageAdditions     int     `json:"voltageAdditions"`
	GeneratorAdditions   int     `json:"generatorAdditions"`
	BaseCount            int     `json:"baseCount"`
	AdjustedBase         float64 `json:"adjustedBase"`
	TierTotal            float64 `json:"tierTotal"`
	BusCount             int     `json:"busCount"`
}

// LVBuses is the sum of the three low-voltage bus groups.
func (c EquipmentCounts) LVBuses() int {
	return c.LVITBuses + c.LVMechanicalBuses + c.LVHouseBuses
}

// LaborMix is the share of study hours per engineer grade.
type LaborMix struct {
	Senior float64 `json:"senior"`
	Mid    float64 `json:"mid"`
	Junior float64 `json:"junior"`
}

// DefaultLaborMix returns the standard 20/30/50 staffing split.
func DefaultLaborMix() LaborMix {
	return LaborMix{
		Senior: constants.DefaultSeniorAllocation,
		Mid:    constants.DefaultMidAllocation,
		Junior: constants.DefaultJuniorAllocation,
	}
}

// Sum returns the raw total of the three fractions.
func (m LaborMix) Sum() float64 {
	return m.Senior + m.Mid + m.Junior
}

// LaborRates are hourly rates per engineer grade.
type LaborRates struct {
	Senior float64 `json:"senior"`
	Mid    float64 `json:"mid"`
	Junior float64 `json:"junior"`
}

// DefaultLaborRates returns the standard hourly rates.
func DefaultLaborRates() LaborRates {
	return LaborRates{
		Senior: constants.DefaultSeniorRate,
		Mid:    constants.DefaultMidRate,
		Junior: constants.DefaultJuniorRate,
	}
}

// DeliveryType selects whether the urgency multiplier applies.
type DeliveryType int

const (
	Standard DeliveryType = iota
	Urgent
)

func (d DeliveryType) String() string {
	if d == Urgent {
		return "Urgent"
	}
	return "Standard"
}

// ParseDeliveryType accepts "standard" or "urgent".
func ParseDeliveryType(value string) (DeliveryType, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "standard":
		return Standard, nil
	case "urgent", "expedited":
		return Urgent, nil
	}
	return Standard, fmt.Errorf("unknown delivery type %q", value)
}

// ReportFormat selects the report deliverable and its cost multiplier.
type ReportFormat int

const (
	BasicPDF ReportFormat = iota
	DetailedReport
	ClientBranded
)

var reportFormats = [...]struct {
	label      string
	multiplier float64
}{
	BasicPDF:       {"Basic PDF", 1.0},
	DetailedReport: {"Detailed Report with Appendices", 1.8},
	ClientBranded:  {"Client-Branded Report", 2.2},
}

func (f ReportFormat) String() string {
	if f < BasicPDF || f > ClientBranded {
		return reportFormats[DetailedReport].label
	}
	return reportFormats[f].label
}

// Multiplier is applied to each study's flat report cost.
func (f ReportFormat) Multiplier() float64 {
	if f < BasicPDF || f > ClientBranded {
		return reportFormats[DetailedReport].multiplier
	}
	return reportFormats[f].multiplier
}

// ParseReportFormat accepts the format label or a short id (basic, detailed, branded).
func ParseReportFormat(value string) (ReportFormat, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "basic", "basic pdf", "basic-pdf":
		return BasicPDF, nil
	case "", "detailed", "detailed report", "detailed report with appendices":
		return DetailedReport, nil
	case "branded", "client-branded", "client-branded report", "premium":
		return ClientBranded, nil
	}
	return DetailedReport, fmt.Errorf("unknown report format %q", value)
}

// LineItem is a flat additive charge.
type LineItem struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

// UnitItem is a count-times-unit-cost charge.
type UnitItem struct {
	Count    int
	UnitCost float64
}

// Total returns count × unit cost, treating negative counts as zero.
func (u UnitItem) Total() float64 {
	if u.Count <= 0 || u.UnitCost <= 0 {
		return 0
	}
	return float64(u.Count) * u.UnitCost
}

// CostFactors are the commercial inputs applied on top of study hours.
type CostFactors struct {
	Delivery               DeliveryType
	UrgencyMultiplier      float64
	RepeatDiscountFraction float64
	MarginFraction         float64
	MeetingCost            float64
	Meetings               int
	ModelAvailable         bool
	ModelReductionFraction float64
	ReportFormat           ReportFormat

	SiteVisits     UnitItem
	ArcFlashLabels UnitItem
	Stickering     bool
	StickeringFee  float64
	CustomItems    []LineItem
}

// DefaultCostFactors returns standard delivery with default margin and meetings.
func DefaultCostFactors() CostFactors {
	return CostFactors{
		Delivery:               Standard,
		UrgencyMultiplier:      constants.DefaultUrgencyMultiplier,
		MarginFraction:         constants.DefaultMarginFraction,
		MeetingCost:            constants.DefaultMeetingCost,
		Meetings:               constants.DefaultMeetings,
		ModelReductionFraction: constants.DefaultModelReduction,
		ReportFormat:           DetailedReport,
		SiteVisits:             UnitItem{UnitCost: constants.DefaultSiteVisitCost},
		ArcFlashLabels:         UnitItem{UnitCost: constants.DefaultLabelUnitCost},
		StickeringFee:          constants.DefaultStickeringFee,
	}
}

// Request is the complete engine input. Callers own it; the engine never
// retains or mutates it.
type Request struct {
	Loads   LoadInput
	Blocks  EquipmentBlockSizes
	Design  DesignOptions
	Studies []StudySpec
	Labor   LaborMix
	Rates   LaborRates
	Costs   CostFactors

	// BusCountOverride, when positive, replaces the derived bus count for costing.
	BusCountOverride int
}

// DefaultRequest returns the reference inputs: 5 MW IT at PUE 1.56, Tier III,
// default block sizes and the four core studies.
func DefaultRequest() Request {
	return Request{
		Loads: LoadInput{
			Mode:               ITFirst,
			ITLoadMW:           constants.DefaultITLoadMW,
			PUE:                constants.DefaultPUE,
			MechanicalFraction: constants.DefaultMechanicalFraction,
		},
		Blocks:  DefaultBlockSizes(),
		Design:  DefaultDesignOptions(),
		Studies: DefaultStudies(),
		Labor:   DefaultLaborMix(),
		Rates:   DefaultLaborRates(),
		Costs:   DefaultCostFactors(),
	}
}

// Status values reported on EstimationResult.
const (
	StatusComputed       = "computed"
	StatusNoCostComputed = "no cost computed"
)

// EstimationResult is everything derived from one Request.
type EstimationResult struct {
	Loads     LoadProfile     `json:"loads"`
	Equipment EquipmentCounts `json:"equipment"`
	Tier      string          `json:"tier"`
	BusCount  int             `json:"busCount"`

	// LegacyBusCount is the deprecated buses-per-MW figure, for comparison only.
	LegacyBusCount int `json:"legacyBusCount"`

	Cost     *CostBreakdown `json:"cost,omitempty"`
	Status   string         `json:"status"`
	Warnings []string       `json:"warnings,omitempty"`
}

// HasCost reports whether a cost breakdown was produced.
func (r EstimationResult) HasCost() bool {
	return r.Cost != nil
}
