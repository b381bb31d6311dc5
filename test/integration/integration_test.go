package integration

import (
	"encoding/csv"
	"strings"
	"testing"

	"github.com/iwvelando/study-estimator/internal/config"
	"github.com/iwvelando/study-estimator/internal/estimator"
	"github.com/iwvelando/study-estimator/pkg/constants"
	"github.com/iwvelando/study-estimator/pkg/output"
	"github.com/iwvelando/study-estimator/pkg/testutil"
	"go.uber.org/zap"
)

func loadFixture(t *testing.T) (*config.Configuration, estimator.EstimationResult) {
	t.Helper()

	conf, err := config.LoadConfiguration("../test_config.yaml")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	request, warnings := conf.ToRequest()
	if len(warnings) != 0 {
		t.Fatalf("ToRequest() warnings = %v", warnings)
	}

	return conf, estimator.NewEngine(zap.NewNop()).Estimate(request)
}

// TestMainIntegrationBaseline runs the fixture configuration the same way
// the CLI does and checks the bus count and priced scope.
func TestMainIntegrationBaseline(t *testing.T) {
	conf, result := loadFixture(t)

	if warnings := conf.ValidateConfiguration(); len(warnings) != 0 {
		t.Errorf("expected no configuration warnings, got %v", warnings)
	}

	if result.BusCount != 36 {
		t.Errorf("expected 36 buses, got %d", result.BusCount)
	}
	if result.LegacyBusCount != 16 {
		t.Errorf("expected legacy count 16, got %d", result.LegacyBusCount)
	}
	if result.Status != estimator.StatusComputed {
		t.Fatalf("expected computed status, got %q", result.Status)
	}

	cost := result.Cost
	if len(cost.Studies) != 5 {
		t.Fatalf("expected 5 priced studies, got %d", len(cost.Studies))
	}

	studyChecks := []struct {
		id    string
		hours float64
	}{
		{"load_flow", 43.2},
		{"short_circuit", 54},
		{"pdc", 81},
		{"arc_flash", 64.8},
		{"harmonics", 54},
	}
	for _, check := range studyChecks {
		study := testutil.FindStudy(cost, check.id)
		if study == nil {
			t.Errorf("study %s not found in breakdown", check.id)
			continue
		}
		if !testutil.AlmostEqual(study.Hours, check.hours, 1e-9) {
			t.Errorf("study %s: expected %.2f hours, got %.2f", check.id, check.hours, study.Hours)
		}
		if !testutil.AlmostEqual(study.TotalCost, check.hours*685, constants.CurrencyTolerance) {
			t.Errorf("study %s: expected cost %.2f, got %.2f", check.id, check.hours*685, study.TotalCost)
		}
	}
	if testutil.FindStudy(cost, "transient") != nil {
		t.Error("transient study should not be priced")
	}

	additiveChecks := []struct {
		prefix string
		amount float64
	}{
		{"Site visits", 50000},
		{"Arc flash labels", 18000},
		{"Travel", 15000},
	}
	for _, check := range additiveChecks {
		item := testutil.FindAdditiveItem(cost, check.prefix)
		if item == nil {
			t.Errorf("additive item %q not found", check.prefix)
			continue
		}
		if item.Amount != check.amount {
			t.Errorf("additive item %q: expected %.2f, got %.2f", check.prefix, check.amount, item.Amount)
		}
	}

	baselineChecks := []struct {
		name     string
		actual   float64
		expected float64
	}{
		{"total hours", cost.TotalHours, 297},
		{"study cost", cost.TotalStudyCost, 203445},
		{"report cost", cost.TotalReportCost, 153000},
		{"meetings", cost.MeetingsCost, 24000},
		{"additive", cost.AdditiveTotal, 83000},
		{"subtotal", cost.Subtotal, 463445},
		{"margin", cost.MarginAmount, 69516.75},
		{"final total", cost.FinalTotal, 532961.75},
	}
	for _, check := range baselineChecks {
		if !testutil.AlmostEqual(check.actual, check.expected, constants.CurrencyTolerance) {
			t.Errorf("%s: expected %.2f, got %.2f", check.name, check.expected, check.actual)
		}
	}
}

// TestCSVOutputFormat checks the CSV rendering of the fixture parses and
// carries one study row per priced study.
func TestCSVOutputFormat(t *testing.T) {
	_, result := loadFixture(t)

	records, err := csv.NewReader(strings.NewReader(output.CsvString(result, output.SectionAll))).ReadAll()
	if err != nil {
		t.Fatalf("failed to parse CSV output: %v", err)
	}

	if strings.Join(records[0], ",") != "section,item,quantity,amount" {
		t.Errorf("unexpected CSV header %v", records[0])
	}

	studies := 0
	for _, record := range records[1:] {
		if len(record) != 4 {
			t.Errorf("CSV row should have 4 fields, got %d: %v", len(record), record)
		}
		if record[0] == "study" {
			studies++
		}
	}
	if studies != 5 {
		t.Errorf("expected 5 study rows, got %d", studies)
	}
}

// TestPrettyOutputFormat checks the human-readable rendering of the fixture.
func TestPrettyOutputFormat(t *testing.T) {
	conf, result := loadFixture(t)

	header := output.Header{
		Project:  conf.Project.Name,
		Client:   conf.Project.Client,
		Type:     conf.Project.Type,
		Currency: conf.Project.Currency,
	}
	text := output.PrettyString(header, result, output.SectionAll)

	for _, want := range []string{"Hyderabad DC1", "BUS COUNT", "COST", "Harmonic Analysis", "Travel"} {
		if !strings.Contains(text, want) {
			t.Errorf("expected pretty output to contain %q", want)
		}
	}
	if strings.Contains(text, "Transient Stability Analysis") {
		t.Error("excluded study should not be rendered")
	}
}
