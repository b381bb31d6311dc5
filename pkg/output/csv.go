package output

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/iwvelando/study-estimator/internal/estimator"
	"github.com/iwvelando/study-estimator/pkg/mathutil"
)

var csvHeader = []string{"section", "item", "quantity", "amount"}

// CsvFormat outputs in comma-separated value format: one row per load,
// equipment group and study, followed by the summary rows.
func CsvFormat(w io.Writer, result estimator.EstimationResult, sections Section) error {
	writer := csv.NewWriter(w)
	for _, record := range csvRecords(result, sections) {
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// CsvString returns the CsvFormat output as a string.
func CsvString(result estimator.EstimationResult, sections Section) string {
	var b strings.Builder
	_ = CsvFormat(&b, result, sections)
	return b.String()
}

func csvRecords(result estimator.EstimationResult, sections Section) [][]string {
	records := [][]string{csvHeader}
	add := func(section, item, quantity, amount string) {
		records = append(records, []string{section, item, quantity, amount})
	}
	count := func(section, item string, n int) {
		add(section, item, strconv.Itoa(n), "")
	}
	mw := func(item string, v float64) {
		add("loads", item, fixed(v), "")
	}
	money := func(section, item string, v float64) {
		add(section, item, "", fixed(v))
	}

	if sections&SectionBuses != 0 {
		mw("total_mw", result.Loads.TotalMW)
		mw("it_mw", result.Loads.ITMW)
		mw("non_it_mw", result.Loads.NonITMW)
		mw("mechanical_mw", result.Loads.MechanicalMW)
		mw("house_mw", result.Loads.HouseMW)
		add("loads", "pue", fixed(result.Loads.PUE), "")

		eq := result.Equipment
		count("equipment", "mv_buses", eq.MVBuses)
		count("equipment", "transformers", eq.Transformers)
		count("equipment", "transformers_adjusted", eq.TransformersAdjusted)
		count("equipment", "lv_it_buses", eq.LVITBuses)
		count("equipment", "lv_mechanical_buses", eq.LVMechanicalBuses)
		count("equipment", "lv_house_buses", eq.LVHouseBuses)
		count("equipment", "ups_lineups", eq.UPSLineups)
		count("equipment", "pdus", eq.PDUs)
		count("equipment", "voltage_additions", eq.VoltageAdditions)
		count("equipment", "generator_additions", eq.GeneratorAdditions)
		count("equipment", "base_count", eq.BaseCount)

		add("buses", "tier", result.Tier, "")
		add("buses", "tier_total", fixed(eq.TierTotal), "")
		count("buses", "bus_count", result.BusCount)
		count("buses", "legacy_bus_count", result.LegacyBusCount)
	}

	if sections&SectionCost != 0 {
		if cost := result.Cost; cost != nil {
			for _, study := range cost.Studies {
				add("study", study.Name, fixed(study.Hours), fixed(study.TotalCost))
			}
			for _, study := range cost.Studies {
				money("report", study.Name, study.ReportCost)
			}
			money("summary", "meetings", cost.MeetingsCost)
			for _, item := range cost.AdditiveItems {
				money("additive", item.Name, item.Amount)
			}
			add("summary", "total_hours", fixed(cost.TotalHours), "")
			money("summary", "study_cost", cost.TotalStudyCost)
			money("summary", "report_cost", cost.TotalReportCost)
			money("summary", "subtotal", cost.Subtotal)
			money("summary", "margin", cost.MarginAmount)
			money("summary", "final_total", cost.FinalTotal)
		}
		add("summary", "status", result.Status, "")
	}

	for _, warning := range result.Warnings {
		add("warning", warning, "", "")
	}

	return records
}

// fixed renders v to the cent. Amounts that round to zero print as 0.00,
// never -0.00.
func fixed(v float64) string {
	rounded := mathutil.Round(v)
	if rounded == 0 {
		rounded = 0
	}
	return strconv.FormatFloat(rounded, 'f', 2, 64)
}
