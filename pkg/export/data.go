// Package export renders an estimate as a downloadable XLSX workbook or PDF
// scope-of-work document.
package export

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/iwvelando/study-estimator/internal/estimator"
	"github.com/iwvelando/study-estimator/pkg/constants"
	"github.com/iwvelando/study-estimator/pkg/format"
	"github.com/iwvelando/study-estimator/pkg/mathutil"
	"github.com/iwvelando/study-estimator/pkg/output"
)

// DateLayout is the date format printed on exported documents.
const DateLayout = "2006-01-02"

// Row is one line of an exported table. Quantity and Amount are
// preformatted; either may be empty.
type Row struct {
	Label    string
	Quantity string
	Amount   string
	Bold     bool
}

// Section is a titled group of rows.
type Section struct {
	Title string
	Rows  []Row
}

// Data holds everything the XLSX and PDF generators print.
type Data struct {
	Title        string
	Client       string
	FacilityType string
	Currency     string
	Reference    string
	CreatedDate string
	Sections    []Section
	Totals      []Row
	Warnings    []string
}

// AmountHeader is the amount column title, e.g. "Amount (₹)".
func (d Data) AmountHeader() string {
	return "Amount (" + format.Symbol(d.Currency) + ")"
}

// NewReference returns a short document reference such as EST-1A2B3C4D.
func NewReference() string {
	id := strings.ReplaceAll(uuid.New().String(), "-", "")
	return "EST-" + strings.ToUpper(id[:8])
}

// BuildData lays out an estimation result for export.
func BuildData(header output.Header, result estimator.EstimationResult, created time.Time) Data {
	money := func(amount float64) string { return format.Currency(amount, header.Currency) }
	mw := func(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) + " MW" }
	count := strconv.Itoa

	title := header.Project
	if title == "" {
		title = constants.DefaultProjectName
	}

	data := Data{
		Title:        title,
		Client:       header.Client,
		FacilityType: header.Type,
		Currency:     header.Currency,
		Reference:    NewReference(),
		CreatedDate:  created.Format(DateLayout),
		Warnings:     append([]string(nil), result.Warnings...),
	}

	loads := result.Loads
	data.Sections = append(data.Sections, Section{
		Title: "Facility Loads",
		Rows: []Row{
			{Label: "Total facility load", Quantity: mw(loads.TotalMW)},
			{Label: "IT load", Quantity: mw(loads.ITMW)},
			{Label: "Mechanical load", Quantity: mw(loads.MechanicalMW)},
			{Label: "House / auxiliary load", Quantity: mw(loads.HouseMW)},
			{Label: "PUE", Quantity: strconv.FormatFloat(loads.PUE, 'f', 2, 64)},
		},
	})

	eq := result.Equipment
	equipment := []Row{
		{Label: "MV buses", Quantity: count(eq.MVBuses)},
		{Label: "Transformers (after tier rule)", Quantity: count(eq.TransformersAdjusted)},
		{Label: "LV buses", Quantity: count(eq.LVBuses())},
		{Label: "UPS lineups", Quantity: count(eq.UPSLineups)},
		{Label: "PDUs", Quantity: count(eq.PDUs)},
	}
	if eq.VoltageAdditions > 0 {
		equipment = append(equipment, Row{Label: "Extra voltage level buses", Quantity: count(eq.VoltageAdditions)})
	}
	if eq.GeneratorAdditions > 0 {
		equipment = append(equipment, Row{Label: "Generator / ATS buses", Quantity: count(eq.GeneratorAdditions)})
	}
	equipment = append(equipment, Row{
		Label:    fmt.Sprintf("Estimated buses (%s)", result.Tier),
		Quantity: count(result.BusCount),
		Bold:     true,
	})
	data.Sections = append(data.Sections, Section{Title: "Equipment and Bus Count", Rows: equipment})

	cost := result.Cost
	if cost == nil {
		data.Totals = []Row{{Label: "No cost computed: no studies selected", Bold: true}}
		return data
	}

	studies := make([]Row, 0, len(cost.Studies))
	for _, study := range cost.Studies {
		studies = append(studies, Row{
			Label:    study.Name,
			Quantity: strconv.FormatFloat(study.Hours, 'f', 1, 64) + " h",
			Amount:   money(study.TotalCost),
		})
	}
	data.Sections = append(data.Sections, Section{Title: "Studies", Rows: studies})

	charges := []Row{
		{Label: "Study reports", Amount: money(cost.TotalReportCost)},
		{Label: "Meetings", Amount: money(cost.MeetingsCost)},
	}
	for _, item := range cost.AdditiveItems {
		charges = append(charges, Row{Label: item.Name, Amount: money(item.Amount)})
	}
	data.Sections = append(data.Sections, Section{Title: "Deliverables and Charges", Rows: charges})

	data.Totals = []Row{
		{Label: "Total engineering hours", Quantity: strconv.FormatFloat(cost.TotalHours, 'f', 1, 64) + " h"},
		{Label: "Subtotal", Amount: money(cost.Subtotal)},
		{Label: fmt.Sprintf("Margin (%.0f%%)", mathutil.CalculatePercentage(cost.MarginAmount, cost.Subtotal)), Amount: money(cost.MarginAmount)},
		{Label: "Total", Amount: money(cost.FinalTotal), Bold: true},
	}
	return data
}

// Generate renders data in the given export format and returns the bytes
// together with their MIME type.
func Generate(exportFormat string, data Data) ([]byte, string, error) {
	switch exportFormat {
	case constants.ExportFormatXLSX:
		b, err := GenerateExcel(data)
		return b, ContentTypeXLSX, err
	case constants.ExportFormatPDF:
		b, err := GeneratePDF(data)
		return b, ContentTypePDF, err
	}
	return nil, "", fmt.Errorf("unsupported export format %q", exportFormat)
}

// MIME types of the generated documents.
const (
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ContentTypePDF  = "application/pdf"
)

// FileName returns a download name such as Hyderabad-DC1-EST-1A2B3C4D.xlsx.
func FileName(data Data, exportFormat string) string {
	base := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		case r == ' ':
			return '-'
		}
		return -1
	}, data.Title)
	if base == "" {
		base = "estimate"
	}
	return fmt.Sprintf("%s-%s.%s", base, data.Reference, exportFormat)
}
