package export

import (
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

var (
	mutedColor   = &props.Color{Red: 80, Green: 80, Blue: 80}
	sectionColor = &props.Color{Red: 232, Green: 232, Blue: 232}
	headerColor  = &props.Color{Red: 33, Green: 37, Blue: 41}
	summaryColor = &props.Color{Red: 240, Green: 240, Blue: 240}
)

// GeneratePDF creates a scope-of-work PDF from the given Data using maroto/v2.
func GeneratePDF(data Data) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(15).
		WithTopMargin(15).
		WithRightMargin(15).
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   &props.Color{Red: 120, Green: 120, Blue: 120},
		}).
		Build()

	m := maroto.New(cfg)

	addHeader(m, data)
	addTableHeader(m, data)
	for _, section := range data.Sections {
		addSection(m, section)
	}
	addSummary(m, data)
	addWarnings(m, data.Warnings)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	return doc.GetBytes(), nil
}

func addHeader(m core.Maroto, data Data) {
	m.AddRows(
		row.New(12).Add(
			col.New(12).Add(
				text.New("Power System Studies: Scope and Estimate", props.Text{
					Size:  14,
					Style: fontstyle.Bold,
					Align: align.Center,
				}),
			),
		),
		row.New(8).Add(
			col.New(12).Add(
				text.New(data.Title, props.Text{Size: 11, Style: fontstyle.Bold, Align: align.Center}),
			),
		),
	)

	client := ""
	if data.Client != "" {
		client = "Client: " + data.Client
	}
	facilityType := ""
	if data.FacilityType != "" {
		facilityType = "Data center type: " + data.FacilityType
	}
	muted := props.Text{Size: 9, Align: align.Left, Color: mutedColor}
	mutedRight := muted
	mutedRight.Align = align.Right

	m.AddRows(
		row.New(6).Add(
			col.New(6).Add(text.New(client, muted)),
			col.New(6).Add(text.New("Reference: "+data.Reference, mutedRight)),
		),
		row.New(6).Add(
			col.New(6).Add(text.New(facilityType, muted)),
			col.New(6).Add(text.New("Date: "+data.CreatedDate, mutedRight)),
		),
		row.New(4),
	)
}

func addTableHeader(m core.Maroto, data Data) {
	headerText := props.Text{
		Size:  9,
		Style: fontstyle.Bold,
		Align: align.Center,
		Color: &props.Color{Red: 255, Green: 255, Blue: 255},
	}
	headerTextLeft := headerText
	headerTextLeft.Align = align.Left
	headerCell := &props.Cell{BackgroundColor: headerColor}

	m.AddRows(
		row.New(8).Add(
			col.New(7).Add(text.New("Item", headerTextLeft)).WithStyle(headerCell),
			col.New(2).Add(text.New("Quantity", headerText)).WithStyle(headerCell),
			col.New(3).Add(text.New(data.AmountHeader(), headerText)).WithStyle(headerCell),
		),
	)
}

func addSection(m core.Maroto, section Section) {
	m.AddRows(
		row.New(7).Add(
			col.New(12).Add(
				text.New(section.Title, props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Left}),
			).WithStyle(&props.Cell{BackgroundColor: sectionColor}),
		),
	)

	for _, r := range section.Rows {
		style := fontstyle.Normal
		if r.Bold {
			style = fontstyle.Bold
		}
		left := props.Text{Size: 8, Style: style, Align: align.Left}
		right := props.Text{Size: 8, Style: style, Align: align.Right}

		m.AddRows(
			row.New(6).Add(
				col.New(7).Add(text.New("  "+r.Label, left)),
				col.New(2).Add(text.New(r.Quantity, right)),
				col.New(3).Add(text.New(r.Amount, right)),
			),
		)
	}
}

func addSummary(m core.Maroto, data Data) {
	m.AddRows(row.New(6))

	summaryCell := &props.Cell{BackgroundColor: summaryColor}
	for _, r := range data.Totals {
		label := props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}
		value := label
		if !r.Bold {
			value.Style = fontstyle.Normal
		}
		amount := r.Amount
		if amount == "" {
			amount = r.Quantity
		}

		m.AddRows(
			row.New(8).Add(
				col.New(9).Add(text.New(r.Label, label)).WithStyle(summaryCell),
				col.New(3).Add(text.New(amount, value)).WithStyle(summaryCell),
			),
		)
	}
}

func addWarnings(m core.Maroto, warnings []string) {
	if len(warnings) == 0 {
		return
	}

	note := props.Text{Size: 7, Align: align.Left, Color: mutedColor}
	m.AddRows(row.New(6))
	m.AddRows(row.New(6).Add(col.New(12).Add(text.New("Notes", props.Text{Size: 8, Style: fontstyle.Bold}))))
	for _, warning := range warnings {
		m.AddRows(row.New(5).Add(col.New(12).Add(text.New("- "+warning, note))))
	}
}
