// Package output provides utilities for formatting and displaying estimate results.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/iwvelando/study-estimator/internal/estimator"
	"github.com/iwvelando/study-estimator/pkg/constants"
	"github.com/iwvelando/study-estimator/pkg/format"
	"github.com/iwvelando/study-estimator/pkg/mathutil"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Section selects which parts of a result are rendered.
type Section int

const (
	SectionBuses Section = 1 << iota
	SectionCost

	SectionAll = SectionBuses | SectionCost
)

// Header identifies the estimate being rendered.
type Header struct {
	Project  string `json:"project"`
	Client   string `json:"client,omitempty"`
	Type     string `json:"type,omitempty"`
	Currency string `json:"currency"`
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("33"))
	totalStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true)
)

const labelWidth = 34

// PrettyFormat outputs a human-readable rather than machine-readable report.
func PrettyFormat(w io.Writer, header Header, result estimator.EstimationResult, sections Section) error {
	_, err := io.WriteString(w, PrettyString(header, result, sections))
	return err
}

// PrettyString renders the report that PrettyFormat writes.
func PrettyString(header Header, result estimator.EstimationResult, sections Section) string {
	p := message.NewPrinter(language.English)
	money := func(amount float64) string { return format.Currency(amount, header.Currency) }

	var b strings.Builder
	line := func(label, value string) {
		b.WriteString(fmt.Sprintf("  %-*s %s\n", labelWidth, label, value))
	}

	title := header.Project
	if title == "" {
		title = constants.DefaultProjectName
	}
	b.WriteString(titleStyle.Render("STUDY ESTIMATE: " + title))
	b.WriteString("\n")
	if header.Client != "" {
		b.WriteString(mutedStyle.Render("Client: " + header.Client))
		b.WriteString("\n")
	}
	if header.Type != "" {
		b.WriteString(mutedStyle.Render("Data center type: " + header.Type))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if sections&SectionBuses != 0 {
		loads := result.Loads
		b.WriteString(sectionStyle.Render("LOADS"))
		b.WriteString("\n")
		line("Total facility load", p.Sprintf("%.2f MW", loads.TotalMW))
		line("IT load", p.Sprintf("%.2f MW", loads.ITMW))
		line("Non-IT load", p.Sprintf("%.2f MW", loads.NonITMW))
		line("  Mechanical", p.Sprintf("%.2f MW", loads.MechanicalMW))
		line("  House / auxiliary", p.Sprintf("%.2f MW", loads.HouseMW))
		line("PUE", p.Sprintf("%.2f", loads.PUE))
		b.WriteString("\n")

		eq := result.Equipment
		b.WriteString(sectionStyle.Render("EQUIPMENT"))
		b.WriteString("\n")
		line("MV buses", p.Sprintf("%d", eq.MVBuses))
		line("Transformers (N / after tier)", p.Sprintf("%d / %d", eq.Transformers, eq.TransformersAdjusted))
		line("LV buses (IT / mech / house)", p.Sprintf("%d (%d / %d / %d)",
			eq.LVBuses(), eq.LVITBuses, eq.LVMechanicalBuses, eq.LVHouseBuses))
		line("UPS lineups", p.Sprintf("%d", eq.UPSLineups))
		line("PDUs", p.Sprintf("%d", eq.PDUs))
		if eq.VoltageAdditions > 0 {
			line("Extra voltage level buses", p.Sprintf("%d", eq.VoltageAdditions))
		}
		if eq.GeneratorAdditions > 0 {
			line("Generator / ATS buses", p.Sprintf("%d", eq.GeneratorAdditions))
		}
		line("Base count (N)", p.Sprintf("%d", eq.BaseCount))
		b.WriteString("\n")

		b.WriteString(sectionStyle.Render("BUS COUNT"))
		b.WriteString("\n")
		line("Tier", result.Tier)
		line("Adjusted base", p.Sprintf("%.2f", eq.AdjustedBase))
		line("Tier total", p.Sprintf("%.2f", eq.TierTotal))
		line("Estimated buses", totalStyle.Render(p.Sprintf("%d", result.BusCount)))
		line("Legacy buses-per-MW figure", mutedStyle.Render(p.Sprintf("%d (deprecated)", result.LegacyBusCount)))
		b.WriteString("\n")
	}

	if sections&SectionCost != 0 {
		b.WriteString(sectionStyle.Render("COST"))
		b.WriteString("\n")
		if cost := result.Cost; cost != nil {
			for _, study := range cost.Studies {
				line(study.Name, p.Sprintf("%.1f h  %s", study.Hours, money(study.TotalCost)))
			}
			line("Total engineering hours", p.Sprintf("%.1f h", cost.TotalHours))
			line("Study labor", money(cost.TotalStudyCost))
			line("Reports", money(cost.TotalReportCost))
			line("Meetings", money(cost.MeetingsCost))
			for _, item := range cost.AdditiveItems {
				line(item.Name, money(item.Amount))
			}
			line("Subtotal", money(cost.Subtotal))
			line(p.Sprintf("Margin (%.0f%%)", mathutil.CalculatePercentage(cost.MarginAmount, cost.Subtotal)), money(cost.MarginAmount))
			line("Final total", totalStyle.Render(money(cost.FinalTotal)))
		} else {
			b.WriteString("  " + mutedStyle.Render("No cost computed: no studies selected"))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if len(result.Warnings) > 0 {
		b.WriteString(sectionStyle.Render("WARNINGS"))
		b.WriteString("\n")
		for _, warning := range result.Warnings {
			b.WriteString("  " + warningStyle.Render("! "+warning))
			b.WriteString("\n")
		}
	}

	return b.String()
}
