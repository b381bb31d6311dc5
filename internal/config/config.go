// Package config defines the estimate configuration file and includes
// functions for loading it and converting it into an engine request.
package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/iwvelando/study-estimator/internal/estimator"
	"github.com/iwvelando/study-estimator/pkg/constants"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces the environment variables that override config keys,
// e.g. STUDY_ESTIMATOR_DESIGN_TIER.
const EnvPrefix = "STUDY_ESTIMATOR"

// Configuration holds all configuration for one estimate.
type Configuration struct {
	Project Project          `yaml:"project" mapstructure:"project"`
	Loads   Loads            `yaml:"loads" mapstructure:"loads"`
	Blocks  Blocks           `yaml:"blocks" mapstructure:"blocks"`
	Design  Design           `yaml:"design" mapstructure:"design"`
	Studies map[string]Study `yaml:"studies,omitempty" mapstructure:"studies"`
	Labor   Labor            `yaml:"labor" mapstructure:"labor"`
	Costs   Costs            `yaml:"costs" mapstructure:"costs"`
	Logging LoggingConfig    `yaml:"logging,omitempty" mapstructure:"logging"`
	Output  OutputConfig     `yaml:"output,omitempty" mapstructure:"output"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty" mapstructure:"level"`           // debug, info, warn, error
	Format     string `yaml:"format,omitempty" mapstructure:"format"`         // json, console
	OutputFile string `yaml:"outputFile,omitempty" mapstructure:"outputFile"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty" mapstructure:"format"` // pretty, csv, json
}

// Project identifies the estimate on reports and exports.
type Project struct {
	Name     string `yaml:"name" mapstructure:"name"`
	Client   string `yaml:"client,omitempty" mapstructure:"client"`
	Type     string `yaml:"type,omitempty" mapstructure:"type"`
	Currency string `yaml:"currency" mapstructure:"currency"`
}

// Loads holds the facility load figures in MW.
type Loads struct {
	Mode               string   `yaml:"mode" mapstructure:"mode"` // it, total
	ITLoadMW           float64  `yaml:"itLoadMW" mapstructure:"itLoadMW"`
	TotalLoadMW        float64  `yaml:"totalLoadMW,omitempty" mapstructure:"totalLoadMW"`
	PUE                float64  `yaml:"pue" mapstructure:"pue"`
	MechanicalFraction float64  `yaml:"mechanicalFraction" mapstructure:"mechanicalFraction"`
	MechanicalMW       *float64 `yaml:"mechanicalMW,omitempty" mapstructure:"mechanicalMW"`
	HouseMW            *float64 `yaml:"houseMW,omitempty" mapstructure:"houseMW"`
}

// Blocks holds the equipment block sizes.
type Blocks struct {
	UPSLineupMW    float64 `yaml:"upsLineupMW" mapstructure:"upsLineupMW"`
	TransformerMVA float64 `yaml:"transformerMVA" mapstructure:"transformerMVA"`
	LVBusMW        float64 `yaml:"lvBusMW" mapstructure:"lvBusMW"`
	PDUMVA         float64 `yaml:"pduMVA" mapstructure:"pduMVA"`
	MVBase         int     `yaml:"mvBase" mapstructure:"mvBase"`
	PowerFactor    float64 `yaml:"powerFactor" mapstructure:"powerFactor"`
}

// Design holds the redundancy tier and the bus-count adjustments.
type Design struct {
	Tier                 string  `yaml:"tier" mapstructure:"tier"`
	VoltageLevels        int     `yaml:"voltageLevels" mapstructure:"voltageLevels"`
	BackupGenerators     int     `yaml:"backupGenerators" mapstructure:"backupGenerators"`
	ExtraUtilityIncomers int     `yaml:"extraUtilityIncomers" mapstructure:"extraUtilityIncomers"`
	ExpansionFactor      float64 `yaml:"expansionFactor" mapstructure:"expansionFactor"`
	CalibrationFactor    float64 `yaml:"calibrationFactor" mapstructure:"calibrationFactor"`
	BusCountOverride     int     `yaml:"busCountOverride,omitempty" mapstructure:"busCountOverride"`
}

// Study overrides one study line. Studies missing from the file keep their
// defaults; a listed study without an included flag is included.
type Study struct {
	Included    *bool    `yaml:"included,omitempty" mapstructure:"included"`
	HoursPerBus *float64 `yaml:"hoursPerBus,omitempty" mapstructure:"hoursPerBus"`
	Complexity  float64  `yaml:"complexity,omitempty" mapstructure:"complexity"`
	ReportCost  *float64 `yaml:"reportCost,omitempty" mapstructure:"reportCost"`
}

// Grades holds one value per engineer grade.
type Grades struct {
	Senior float64 `yaml:"senior" mapstructure:"senior"`
	Mid    float64 `yaml:"mid" mapstructure:"mid"`
	Junior float64 `yaml:"junior" mapstructure:"junior"`
}

// Labor holds the staffing mix and hourly rates.
type Labor struct {
	Mix   Grades `yaml:"mix" mapstructure:"mix"`
	Rates Grades `yaml:"rates" mapstructure:"rates"`
}

// UnitCharge is a count priced per unit.
type UnitCharge struct {
	Count    int     `yaml:"count" mapstructure:"count"`
	UnitCost float64 `yaml:"unitCost" mapstructure:"unitCost"`
}

// CustomItem is a flat line item added to the subtotal.
type CustomItem struct {
	Name   string  `yaml:"name" mapstructure:"name"`
	Amount float64 `yaml:"amount" mapstructure:"amount"`
}

// Costs holds the commercial factors.
type Costs struct {
	Delivery          string       `yaml:"delivery" mapstructure:"delivery"` // standard, urgent
	UrgencyMultiplier float64      `yaml:"urgencyMultiplier" mapstructure:"urgencyMultiplier"`
	RepeatDiscount    float64      `yaml:"repeatDiscount" mapstructure:"repeatDiscount"`
	Margin            float64      `yaml:"margin" mapstructure:"margin"`
	MeetingCost       float64      `yaml:"meetingCost" mapstructure:"meetingCost"`
	Meetings          int          `yaml:"meetings" mapstructure:"meetings"`
	ModelAvailable    bool         `yaml:"modelAvailable" mapstructure:"modelAvailable"`
	ModelReduction    float64      `yaml:"modelReduction" mapstructure:"modelReduction"`
	ReportFormat      string       `yaml:"reportFormat" mapstructure:"reportFormat"` // basic, detailed, branded
	SiteVisits        UnitCharge   `yaml:"siteVisits" mapstructure:"siteVisits"`
	ArcFlashLabels    UnitCharge   `yaml:"arcFlashLabels" mapstructure:"arcFlashLabels"`
	Stickering        bool         `yaml:"stickering" mapstructure:"stickering"`
	StickeringFee     float64      `yaml:"stickeringFee" mapstructure:"stickeringFee"`
	CustomItems       []CustomItem `yaml:"customItems,omitempty" mapstructure:"customItems"`
}

// newViper returns a viper instance with every default registered. Each load
// gets its own instance so concurrent server requests never share state.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultConfiguration()
	v.SetDefault("project.name", defaults.Project.Name)
	v.SetDefault("project.currency", defaults.Project.Currency)

	v.SetDefault("loads.mode", defaults.Loads.Mode)
	v.SetDefault("loads.itLoadMW", defaults.Loads.ITLoadMW)
	v.SetDefault("loads.totalLoadMW", defaults.Loads.TotalLoadMW)
	v.SetDefault("loads.pue", defaults.Loads.PUE)
	v.SetDefault("loads.mechanicalFraction", defaults.Loads.MechanicalFraction)

	v.SetDefault("blocks.upsLineupMW", defaults.Blocks.UPSLineupMW)
	v.SetDefault("blocks.transformerMVA", defaults.Blocks.TransformerMVA)
	v.SetDefault("blocks.lvBusMW", defaults.Blocks.LVBusMW)
	v.SetDefault("blocks.pduMVA", defaults.Blocks.PDUMVA)
	v.SetDefault("blocks.mvBase", defaults.Blocks.MVBase)
	v.SetDefault("blocks.powerFactor", defaults.Blocks.PowerFactor)

	v.SetDefault("design.tier", defaults.Design.Tier)
	v.SetDefault("design.voltageLevels", defaults.Design.VoltageLevels)
	v.SetDefault("design.backupGenerators", defaults.Design.BackupGenerators)
	v.SetDefault("design.extraUtilityIncomers", defaults.Design.ExtraUtilityIncomers)
	v.SetDefault("design.expansionFactor", defaults.Design.ExpansionFactor)
	v.SetDefault("design.calibrationFactor", defaults.Design.CalibrationFactor)
	v.SetDefault("design.busCountOverride", defaults.Design.BusCountOverride)

	v.SetDefault("labor.mix.senior", defaults.Labor.Mix.Senior)
	v.SetDefault("labor.mix.mid", defaults.Labor.Mix.Mid)
	v.SetDefault("labor.mix.junior", defaults.Labor.Mix.Junior)
	v.SetDefault("labor.rates.senior", defaults.Labor.Rates.Senior)
	v.SetDefault("labor.rates.mid", defaults.Labor.Rates.Mid)
	v.SetDefault("labor.rates.junior", defaults.Labor.Rates.Junior)

	v.SetDefault("costs.delivery", defaults.Costs.Delivery)
	v.SetDefault("costs.urgencyMultiplier", defaults.Costs.UrgencyMultiplier)
	v.SetDefault("costs.repeatDiscount", defaults.Costs.RepeatDiscount)
	v.SetDefault("costs.margin", defaults.Costs.Margin)
	v.SetDefault("costs.meetingCost", defaults.Costs.MeetingCost)
	v.SetDefault("costs.meetings", defaults.Costs.Meetings)
	v.SetDefault("costs.modelAvailable", defaults.Costs.ModelAvailable)
	v.SetDefault("costs.modelReduction", defaults.Costs.ModelReduction)
	v.SetDefault("costs.reportFormat", defaults.Costs.ReportFormat)
	v.SetDefault("costs.siteVisits.count", defaults.Costs.SiteVisits.Count)
	v.SetDefault("costs.siteVisits.unitCost", defaults.Costs.SiteVisits.UnitCost)
	v.SetDefault("costs.arcFlashLabels.count", defaults.Costs.ArcFlashLabels.Count)
	v.SetDefault("costs.arcFlashLabels.unitCost", defaults.Costs.ArcFlashLabels.UnitCost)
	v.SetDefault("costs.stickering", defaults.Costs.Stickering)
	v.SetDefault("costs.stickeringFee", defaults.Costs.StickeringFee)

	v.SetDefault("logging.level", defaults.Logging.Level)
	v.SetDefault("logging.format", defaults.Logging.Format)
	v.SetDefault("output.format", defaults.Output.Format)

	return v
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %w", err)
	}

	return decode(v)
}

// LoadConfigurationFromReader loads a YAML-formatted configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()

	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %w", err)
	}

	return decode(v)
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}

	// Unmarshal only sees leaf keys, so studies listed as `{}` or with no
	// value are missing from the decoded map.
	if listed, ok := v.Get("studies").(map[string]interface{}); ok {
		if configuration.Studies == nil {
			configuration.Studies = make(map[string]Study, len(listed))
		}
		for id := range listed {
			if _, found := configuration.Studies[id]; !found {
				configuration.Studies[id] = Study{}
			}
		}
	}
	return &configuration, nil
}

// DefaultConfiguration returns the reference estimate: 5 MW of IT load at
// PUE 1.56 on a Tier III design, with every study listed.
func DefaultConfiguration() *Configuration {
	req := estimator.DefaultRequest()

	studies := make(map[string]Study, len(req.Studies))
	for _, spec := range req.Studies {
		included := spec.Included
		hours := spec.BaseHoursPerBus
		report := spec.ReportCost
		studies[spec.Kind.ID()] = Study{
			Included:    &included,
			HoursPerBus: &hours,
			Complexity:  spec.ComplexityFactor,
			ReportCost:  &report,
		}
	}

	return &Configuration{
		Project: Project{
			Name:     constants.DefaultProjectName,
			Currency: constants.DefaultCurrency,
		},
		Loads: Loads{
			Mode:               req.Loads.Mode.String(),
			ITLoadMW:           req.Loads.ITLoadMW,
			PUE:                req.Loads.PUE,
			MechanicalFraction: req.Loads.MechanicalFraction,
		},
		Blocks: Blocks{
			UPSLineupMW:    req.Blocks.UPSLineupMW,
			TransformerMVA: req.Blocks.TransformerMVA,
			LVBusMW:        req.Blocks.LVBusMW,
			PDUMVA:         req.Blocks.PDUMVA,
			MVBase:         req.Blocks.MVBase,
			PowerFactor:    req.Blocks.PowerFactor,
		},
		Design: Design{
			Tier:              req.Design.Tier.String(),
			VoltageLevels:     req.Design.VoltageLevels,
			ExpansionFactor:   req.Design.ExpansionFactor,
			CalibrationFactor: req.Design.CalibrationFactor,
		},
		Studies: studies,
		Labor: Labor{
			Mix:   Grades{Senior: req.Labor.Senior, Mid: req.Labor.Mid, Junior: req.Labor.Junior},
			Rates: Grades{Senior: req.Rates.Senior, Mid: req.Rates.Mid, Junior: req.Rates.Junior},
		},
		Costs: Costs{
			Delivery:          "standard",
			UrgencyMultiplier: req.Costs.UrgencyMultiplier,
			Margin:            req.Costs.MarginFraction,
			MeetingCost:       req.Costs.MeetingCost,
			Meetings:          req.Costs.Meetings,
			ModelReduction:    req.Costs.ModelReductionFraction,
			ReportFormat:      "detailed",
			SiteVisits:        UnitCharge{UnitCost: req.Costs.SiteVisits.UnitCost},
			ArcFlashLabels:    UnitCharge{UnitCost: req.Costs.ArcFlashLabels.UnitCost},
			StickeringFee:     req.Costs.StickeringFee,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Output: OutputConfig{
			Format: constants.OutputFormatPretty,
		},
	}
}
