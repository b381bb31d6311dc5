package output

import (
	"bytes"
	"encoding/csv"
	"math"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/iwvelando/study-estimator/internal/estimator"
)

func referenceResult(t *testing.T) estimator.EstimationResult {
	t.Helper()
	result := estimator.NewEngine(nil).Estimate(estimator.DefaultRequest())
	if result.Cost == nil {
		t.Fatal("expected reference estimate to carry a cost")
	}
	return result
}

func TestPrettyFormat(t *testing.T) {
	result := referenceResult(t)
	result.Warnings = []string{"example warning"}

	var buf bytes.Buffer
	header := Header{Project: "Test Project", Client: "Acme", Type: "AI/HPC", Currency: "INR"}
	if err := PrettyFormat(&buf, header, result, SectionAll); err != nil {
		t.Fatalf("PrettyFormat() error = %v", err)
	}
	output := buf.String()

	expected := []string{
		"Test Project",
		"Client: Acme",
		"Data center type: AI/HPC",
		"LOADS",
		"7.80 MW",
		"EQUIPMENT",
		"Transformers (N / after tier)",
		"3 / 4",
		"BUS COUNT",
		"Tier III",
		"36",
		"16 (deprecated)",
		"COST",
		"Load Flow Study",
		"₹1,26,000.00",
		"Margin (15%)",
		"₹3,63,923.25",
		"WARNINGS",
		"example warning",
	}
	for _, want := range expected {
		if !strings.Contains(output, want) {
			t.Errorf("PrettyFormat output missing %q\n%s", want, output)
		}
	}
}

func TestPrettyFormatSections(t *testing.T) {
	result := referenceResult(t)

	buses := PrettyString(Header{Currency: "USD"}, result, SectionBuses)
	if !strings.Contains(buses, "BUS COUNT") {
		t.Errorf("expected bus section")
	}
	if strings.Contains(buses, "COST") {
		t.Errorf("bus-only output should not contain the cost section")
	}

	cost := PrettyString(Header{Currency: "USD"}, result, SectionCost)
	if strings.Contains(cost, "LOADS") {
		t.Errorf("cost-only output should not contain the load section")
	}
	if !strings.Contains(cost, "$363,923.25") {
		t.Errorf("expected USD final total in cost output\n%s", cost)
	}
}

func TestPrettyFormatNoCost(t *testing.T) {
	result := referenceResult(t)
	result.Cost = nil
	result.Status = estimator.StatusNoCostComputed

	output := PrettyString(Header{}, result, SectionAll)
	if !strings.Contains(output, "No cost computed") {
		t.Errorf("expected no-cost notice\n%s", output)
	}
	if !strings.Contains(output, "DC Power Studies") {
		t.Errorf("expected default project title")
	}
}

func TestCsvFormat(t *testing.T) {
	result := referenceResult(t)

	records, err := csv.NewReader(strings.NewReader(CsvString(result, SectionAll))).ReadAll()
	if err != nil {
		t.Fatalf("CSV output does not parse: %v", err)
	}

	if strings.Join(records[0], ",") != "section,item,quantity,amount" {
		t.Errorf("unexpected header %v", records[0])
	}

	index := make(map[string][]string)
	studies := 0
	for _, record := range records[1:] {
		if len(record) != 4 {
			t.Fatalf("expected 4 columns, got %v", record)
		}
		index[record[0]+"/"+record[1]] = record
		if record[0] == "study" {
			studies++
		}
	}

	if studies != 4 {
		t.Errorf("expected 4 study rows, got %d", studies)
	}
	if got := index["buses/bus_count"][2]; got != "36" {
		t.Errorf("bus_count = %s, want 36", got)
	}
	if got := index["equipment/pdus"][2]; got != "17" {
		t.Errorf("pdus = %s, want 17", got)
	}
	if got := index["summary/final_total"][3]; got != "363923.25" {
		t.Errorf("final_total = %s, want 363923.25", got)
	}
	if got := index["summary/status"][1]; got != "status" || index["summary/status"][2] != estimator.StatusComputed {
		t.Errorf("unexpected status row %v", index["summary/status"])
	}
}

func TestFixed(t *testing.T) {
	tests := []struct {
		value    float64
		expected string
	}{
		{0, "0.00"},
		{363923.25, "363923.25"},
		{43.2, "43.20"},
		{-0.001, "0.00"},
		{-12.5, "-12.50"},
	}

	for _, tt := range tests {
		if got := fixed(tt.value); got != tt.expected {
			t.Errorf("fixed(%v) = %q, expected %q", tt.value, got, tt.expected)
		}
	}
}

func TestCsvFormatNoCost(t *testing.T) {
	result := referenceResult(t)
	result.Cost = nil
	result.Status = estimator.StatusNoCostComputed

	output := CsvString(result, SectionCost)
	if strings.Contains(output, "final_total") {
		t.Errorf("expected no cost rows without a breakdown")
	}
	if !strings.Contains(output, estimator.StatusNoCostComputed) {
		t.Errorf("expected status row with %q", estimator.StatusNoCostComputed)
	}
	if strings.Contains(output, "bus_count") {
		t.Errorf("cost-only CSV should not contain bus rows")
	}
}

func TestJSONFormat(t *testing.T) {
	result := referenceResult(t)

	var buf bytes.Buffer
	if err := JSONFormat(&buf, Header{Project: "P", Currency: "INR"}, result, SectionAll); err != nil {
		t.Fatalf("JSONFormat() error = %v", err)
	}

	var doc struct {
		Project string `json:"project"`
		Result  struct {
			BusCount int `json:"busCount"`
			Cost     *struct {
				FinalTotal float64 `json:"finalTotal"`
			} `json:"cost"`
			Status string `json:"status"`
		} `json:"result"`
	}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("failed to decode JSON output: %v", err)
	}

	if doc.Project != "P" {
		t.Errorf("project = %q, want P", doc.Project)
	}
	if doc.Result.BusCount != 36 {
		t.Errorf("busCount = %d, want 36", doc.Result.BusCount)
	}
	if doc.Result.Cost == nil || math.Abs(doc.Result.Cost.FinalTotal-363923.25) > 1e-6 {
		t.Errorf("unexpected cost %+v", doc.Result.Cost)
	}

	buf.Reset()
	if err := JSONFormat(&buf, Header{}, result, SectionBuses); err != nil {
		t.Fatalf("JSONFormat() error = %v", err)
	}
	if strings.Contains(buf.String(), `"cost"`) {
		t.Errorf("bus-only JSON should omit the cost breakdown")
	}
}
