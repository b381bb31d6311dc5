package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// SheetName is the name of the single worksheet in the exported workbook.
const SheetName = "Estimate"

// GenerateExcel creates an Excel workbook from the given Data and returns
// the file contents as a byte slice.
func GenerateExcel(data Data) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	columns := []string{"A", "B", "C"}
	lastCol := columns[len(columns)-1]
	widths := []float64{46, 16, 22}
	for i, col := range columns {
		if err := f.SetColWidth(SheetName, col, col, widths[i]); err != nil {
			return nil, fmt.Errorf("set col width %s: %w", col, err)
		}
	}

	styles, err := newSheetStyles(f)
	if err != nil {
		return nil, err
	}

	// Title block
	if err := f.MergeCell(SheetName, "A1", lastCol+"1"); err != nil {
		return nil, fmt.Errorf("merge title: %w", err)
	}
	f.SetCellValue(SheetName, "A1", sanitizeExcelCell(data.Title))
	f.SetCellStyle(SheetName, "A1", lastCol+"1", styles.title)

	subtitles := []string{"Ref: " + data.Reference, "Date: " + data.CreatedDate}
	if data.FacilityType != "" {
		subtitles = append([]string{"Data center type: " + data.FacilityType}, subtitles...)
	}
	if data.Client != "" {
		subtitles = append([]string{"Client: " + data.Client}, subtitles...)
	}
	row := 2
	for _, subtitle := range subtitles {
		cell := fmt.Sprintf("A%d", row)
		f.SetCellValue(SheetName, cell, sanitizeExcelCell(subtitle))
		f.SetCellStyle(SheetName, cell, cell, styles.subtitle)
		row++
	}
	row++

	// Column headers
	for i, h := range []string{"Item", "Quantity", data.AmountHeader()} {
		f.SetCellValue(SheetName, fmt.Sprintf("%s%d", columns[i], row), h)
	}
	f.SetCellStyle(SheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("%s%d", lastCol, row), styles.header)
	row++

	for _, section := range data.Sections {
		f.SetCellValue(SheetName, fmt.Sprintf("A%d", row), sanitizeExcelCell(section.Title))
		f.SetCellStyle(SheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("%s%d", lastCol, row), styles.section)
		row++

		for _, r := range section.Rows {
			writeRow(f, row, r)
			style := styles.item
			if r.Bold {
				style = styles.itemBold
			}
			f.SetCellStyle(SheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("%s%d", lastCol, row), style)
			row++
		}
	}

	// Totals
	row++
	for _, r := range data.Totals {
		writeRow(f, row, r)
		f.SetCellStyle(SheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), styles.summaryLabel)
		f.SetCellStyle(SheetName, fmt.Sprintf("B%d", row), fmt.Sprintf("%s%d", lastCol, row), styles.summaryValue)
		row++
	}

	if len(data.Warnings) > 0 {
		row++
		f.SetCellValue(SheetName, fmt.Sprintf("A%d", row), "Warnings")
		f.SetCellStyle(SheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), styles.summaryValue)
		row++
		for _, warning := range data.Warnings {
			f.SetCellValue(SheetName, fmt.Sprintf("A%d", row), sanitizeExcelCell(warning))
			row++
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}

	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, row int, r Row) {
	f.SetCellValue(SheetName, fmt.Sprintf("A%d", row), sanitizeExcelCell(r.Label))
	f.SetCellValue(SheetName, fmt.Sprintf("B%d", row), sanitizeExcelCell(r.Quantity))
	f.SetCellValue(SheetName, fmt.Sprintf("C%d", row), sanitizeExcelCell(r.Amount))
}

type sheetStyles struct {
	title, subtitle, header, section, item, itemBold, summaryLabel, summaryValue int
}

func newSheetStyles(f *excelize.File) (sheetStyles, error) {
	var s sheetStyles
	defs := []struct {
		name  string
		dst   *int
		style *excelize.Style
	}{
		{"title", &s.title, &excelize.Style{Font: &excelize.Font{Bold: true, Size: 16}}},
		{"subtitle", &s.subtitle, &excelize.Style{Font: &excelize.Font{Size: 11}}},
		{"header", &s.header, &excelize.Style{
			Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
			Fill:      excelize.Fill{Type: "pattern", Color: []string{"#333333"}, Pattern: 1},
			Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
			Border:    thinBorders(),
		}},
		{"section", &s.section, &excelize.Style{
			Font:   &excelize.Font{Bold: true, Size: 11},
			Fill:   excelize.Fill{Type: "pattern", Color: []string{"#E8E8E8"}, Pattern: 1},
			Border: thinBorders(),
		}},
		{"item", &s.item, &excelize.Style{Font: &excelize.Font{Size: 10}, Border: thinBorders()}},
		{"item bold", &s.itemBold, &excelize.Style{Font: &excelize.Font{Bold: true, Size: 10}, Border: thinBorders()}},
		{"summary label", &s.summaryLabel, &excelize.Style{
			Font:      &excelize.Font{Bold: true, Size: 11},
			Alignment: &excelize.Alignment{Horizontal: "right"},
		}},
		{"summary value", &s.summaryValue, &excelize.Style{Font: &excelize.Font{Bold: true, Size: 11}}},
	}

	for _, def := range defs {
		id, err := f.NewStyle(def.style)
		if err != nil {
			return s, fmt.Errorf("create %s style: %w", def.name, err)
		}
		*def.dst = id
	}
	return s, nil
}

// sanitizeExcelCell prevents formula injection by prefixing dangerous leading
// characters with a single quote.
func sanitizeExcelCell(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}

// thinBorders returns thin borders on all four sides.
func thinBorders() []excelize.Border {
	sides := []string{"left", "top", "bottom", "right"}
	borders := make([]excelize.Border, len(sides))
	for i, side := range sides {
		borders[i] = excelize.Border{
			Type:  side,
			Color: "#000000",
			Style: 1,
		}
	}
	return borders
}
