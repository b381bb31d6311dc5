// Package constants provides shared constants for the study-estimator application.
package constants

// Equipment block size defaults.
const (
	// DefaultUPSLineupMW is the default UPS lineup block size in MW.
	DefaultUPSLineupMW = 1.5

	// DefaultTransformerMVA is the default MV->LV transformer rating in MVA.
	DefaultTransformerMVA = 3.0

	// DefaultLVBusMW is the default LV switchboard bus section size in MW.
	DefaultLVBusMW = 3.0

	// DefaultPDUMVA is the default PDU rating in MVA.
	DefaultPDUMVA = 0.3

	// DefaultMVBase is the default count of MV buses per system.
	DefaultMVBase = 2

	// DefaultPowerFactor is the default power factor applied to transformer ratings.
	DefaultPowerFactor = 0.95
)

// Load and design defaults.
const (
	DefaultITLoadMW           = 5.0
	DefaultPUE                = 1.56
	DefaultMechanicalFraction = 0.7
	DefaultVoltageLevels      = 2
	DefaultExpansionFactor    = 1.0
	DefaultCalibrationFactor  = 1.0
)

// Tier rollup multipliers.
const (
	TierIIRollupMultiplier  = 1.10
	TierIIIRollupMultiplier = 1.15
	TierIVPDUScale          = 1.5
	TierIVDoubling          = 2.0

	// ATSPerGenerator is the count of transfer switch buses added per backup generator.
	ATSPerGenerator = 2
)

// Labor defaults. Rates are per hour in the project currency.
const (
	DefaultSeniorAllocation = 0.20
	DefaultMidAllocation    = 0.30
	DefaultJuniorAllocation = 0.50

	DefaultSeniorRate = 1200.0
	DefaultMidRate    = 650.0
	DefaultJuniorRate = 500.0
)

// Cost defaults.
const (
	DefaultUrgencyMultiplier = 1.3
	DefaultMarginFraction    = 0.15
	DefaultMeetingCost       = 8000.0
	DefaultMeetings          = 3
	DefaultModelReduction    = 0.30
	DefaultSiteVisitCost     = 25000.0
	DefaultLabelUnitCost     = 150.0
	DefaultStickeringFee     = 10000.0
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the JSON output format
	OutputFormatJSON = "json"
)

// Export format constants
const (
	ExportFormatXLSX = "xlsx"
	ExportFormatPDF  = "pdf"
)

// Currency codes understood by the formatter.
const (
	CurrencyINR = "INR"
	CurrencyUSD = "USD"

	DefaultCurrency = CurrencyINR
)

// Data center types shown on estimates.
const (
	FacilityEnterprise = "Enterprise/Colo"
	FacilityHyperscale = "Hyperscale"
	FacilityAIHPC      = "AI/HPC"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "estimate.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"

	// DefaultProjectName is used when a configuration omits the project name.
	DefaultProjectName = "DC Power Studies"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum request body size (256 KB)
	DefaultMaxUploadSizeBytes int64 = 256 * 1024
)

// Numeric tolerances
const (
	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// CurrencyTolerance is the tolerance for currency comparisons (1 paisa/cent)
	CurrencyTolerance = 0.01

	// CeilTolerance absorbs floating point noise before rounding counts up,
	// so 0.9/0.3 counts as 3 blocks rather than 4.
	CeilTolerance = 1e-9

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0
)
