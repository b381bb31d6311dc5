package export

import (
	"bytes"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/iwvelando/study-estimator/internal/estimator"
	"github.com/iwvelando/study-estimator/pkg/output"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var created = time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)

func referenceData(t *testing.T) Data {
	t.Helper()
	result := estimator.NewEngine(nil).Estimate(estimator.DefaultRequest())
	result.Warnings = []string{"=HYPERLINK(\"http://example.com\")"}
	header := output.Header{Project: "Hyderabad DC1", Client: "Example Infra", Type: "Hyperscale", Currency: "INR"}
	return BuildData(header, result, created)
}

func TestNewReference(t *testing.T) {
	ref := NewReference()
	assert.Regexp(t, regexp.MustCompile(`^EST-[0-9A-F]{8}$`), ref)
	assert.NotEqual(t, ref, NewReference())
}

func TestBuildData(t *testing.T) {
	data := referenceData(t)

	assert.Equal(t, "Hyderabad DC1", data.Title)
	assert.Equal(t, "2025-01-15", data.CreatedDate)
	assert.Equal(t, "Hyperscale", data.FacilityType)
	assert.Equal(t, "Amount (₹)", data.AmountHeader())
	require.Len(t, data.Sections, 4)
	assert.Equal(t, "Studies", data.Sections[2].Title)
	assert.Len(t, data.Sections[2].Rows, 4)

	busRow := data.Sections[1].Rows[len(data.Sections[1].Rows)-1]
	assert.Equal(t, "Estimated buses (Tier III)", busRow.Label)
	assert.Equal(t, "36", busRow.Quantity)

	total := data.Totals[len(data.Totals)-1]
	assert.Equal(t, "Total", total.Label)
	assert.Equal(t, "₹3,63,923.25", total.Amount)
}

func TestBuildDataNoCost(t *testing.T) {
	req := estimator.DefaultRequest()
	for i := range req.Studies {
		req.Studies[i].Included = false
	}
	result := estimator.NewEngine(nil).Estimate(req)

	data := BuildData(output.Header{}, result, created)

	assert.Equal(t, "DC Power Studies", data.Title)
	assert.Empty(t, data.FacilityType)
	assert.Equal(t, "Amount ($)", data.AmountHeader())
	assert.Len(t, data.Sections, 2)
	require.Len(t, data.Totals, 1)
	assert.Contains(t, data.Totals[0].Label, "No cost computed")
}

func TestGenerateExcel(t *testing.T) {
	data := referenceData(t)

	b, err := GenerateExcel(data)
	require.NoError(t, err)
	require.NotEmpty(t, b)

	f, err := excelize.OpenReader(bytes.NewReader(b))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetName}, f.GetSheetList())

	title, err := f.GetCellValue(SheetName, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Hyderabad DC1", title)

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)

	var sawTotal, sawWarning, sawType, sawAmountHeader bool
	for _, r := range rows {
		if len(r) >= 1 && r[0] == "Data center type: Hyperscale" {
			sawType = true
		}
		if len(r) >= 3 && r[0] == "Item" {
			sawAmountHeader = r[2] == "Amount (₹)"
		}
		if len(r) >= 3 && r[0] == "Total" {
			sawTotal = true
			assert.Equal(t, "₹3,63,923.25", r[2])
		}
		if len(r) >= 1 && strings.Contains(r[0], "HYPERLINK") {
			sawWarning = true
			assert.True(t, strings.HasPrefix(r[0], "'"), "formula-like cells must be escaped")
		}
	}
	assert.True(t, sawTotal, "expected a Total row")
	assert.True(t, sawWarning, "expected the warning row")
	assert.True(t, sawType, "expected the data center type subtitle")
	assert.True(t, sawAmountHeader, "expected the currency in the amount header")
}

func TestGeneratePDF(t *testing.T) {
	b, err := GeneratePDF(referenceData(t))
	require.NoError(t, err)
	require.Greater(t, len(b), 5)
	assert.Equal(t, "%PDF-", string(b[:5]))
}

func TestGenerate(t *testing.T) {
	data := referenceData(t)

	b, contentType, err := Generate("xlsx", data)
	require.NoError(t, err)
	assert.Equal(t, ContentTypeXLSX, contentType)
	assert.NotEmpty(t, b)

	b, contentType, err = Generate("pdf", data)
	require.NoError(t, err)
	assert.Equal(t, ContentTypePDF, contentType)
	assert.NotEmpty(t, b)

	_, _, err = Generate("docx", data)
	assert.Error(t, err)
}

func TestFileName(t *testing.T) {
	data := Data{Title: "Hyderabad DC1 / Phase 2", Reference: "EST-1A2B3C4D"}
	assert.Equal(t, "Hyderabad-DC1--Phase-2-EST-1A2B3C4D.pdf", FileName(data, "pdf"))

	data.Title = "₹"
	assert.Equal(t, "estimate-EST-1A2B3C4D.xlsx", FileName(data, "xlsx"))
}

func TestSanitizeExcelCell(t *testing.T) {
	tests := map[string]string{
		"":          "",
		"Load Flow": "Load Flow",
		"=1+1":      "'=1+1",
		"+cmd":      "'+cmd",
		"-₹10.00":   "'-₹10.00",
		"@SUM(A1)":  "'@SUM(A1)",
	}
	for input, want := range tests {
		assert.Equal(t, want, sanitizeExcelCell(input), input)
	}
}
