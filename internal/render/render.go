package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/p-blackswan/spatialflow/internal/layout"
	"github.com/p-blackswan/spatialflow/internal/orchestrator"
	"github.com/p-blackswan/spatialflow/internal/replan"
	"github.com/p-blackswan/spatialflow/internal/schedule"
)

// Panel draws the week detail panel.
func Panel(p schedule.WeekPanel) string {
	body := lipgloss.JoinVertical(lipgloss.Left,
		TitleStyle.Render("WEEK "+p.Label),
		p.Activity,
		SubtleStyle.Render(p.Meta),
	)
	return BoxStyle.Render(body)
}

// Layout draws a layout view.
func Layout(v layout.View) string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render(v.Title) + "\n")
	b.WriteString(SubtleStyle.Render(v.Subtitle) + "\n")

	if v.SiteObservations != "" {
		b.WriteString("\n" + HeadingStyle.Render("SITE OBSERVATIONS") + "\n")
		b.WriteString(v.SiteObservations + "\n")
	}

	b.WriteString("\n" + HeadingStyle.Render(v.ZoneCount) + "\n")
	for _, z := range v.Zones {
		lines := []string{TitleStyle.Render(z.Name), SubtleStyle.Render(z.TypeLabel)}
		for _, s := range []string{z.Location, z.Contents, z.Reason} {
			if s != "" {
				lines = append(lines, s)
			}
		}
		b.WriteString(BoxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...)) + "\n")
	}
	if v.OptimizationNote != "" {
		b.WriteString(SubtleStyle.Render(v.OptimizationNote) + "\n")
	}

	b.WriteString("\n" + HeadingStyle.Render(v.PathCount) + "\n")
	for _, p := range v.Paths {
		b.WriteString("  " + p.Label + "\n")
		if len(p.Nodes) > 0 {
			b.WriteString("    " + strings.Join(p.Nodes, " → ") + "\n")
		}
		b.WriteString(SubtleStyle.Render("    avoids: "+p.Avoids) + "\n")
	}

	if len(v.Materials) > 0 {
		b.WriteString("\n" + HeadingStyle.Render("MATERIALS") + "\n")
		for _, m := range v.Materials {
			fmt.Fprintf(&b, "  %-24s %s  %s\n", m.Material, volume(m.Volume, m.VolumeClass), SubtleStyle.Render(m.Zone))
		}
	}

	if len(v.Deliveries) > 0 {
		b.WriteString("\n" + HeadingStyle.Render("DELIVERY SEQUENCE") + "\n")
		for _, d := range v.Deliveries {
			fmt.Fprintf(&b, "  %d. %s %s → %s (%s)", d.Order, d.Material, d.Volume, d.StagingZone, d.Day)
			if d.Note != "" {
				b.WriteString(SubtleStyle.Render("  " + d.Note))
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}

// Answer draws a query result.
func Answer(r orchestrator.QueryResult) string {
	return lipgloss.JoinVertical(lipgloss.Left,
		SubtleStyle.Render(fmt.Sprintf("WEEK %s · %s", schedule.WeekLabel(r.Week), r.Question)),
		r.Answer,
	) + "\n"
}

// Replan draws a revised schedule with its legend.
func Replan(v replan.View) string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render(v.Header.Title) + "\n")
	b.WriteString(v.Header.Totals + "\n")
	if v.Summary != "" {
		b.WriteString(SubtleStyle.Render(v.Summary) + "\n")
	}

	legend := make([]string, 0, len(v.Legend))
	for _, t := range v.Legend {
		legend = append(legend, pill(replan.Treatment{Tag: t.Tag, Label: t.LegendLabel}))
	}
	b.WriteString(strings.Join(legend, " ") + "\n\n")

	for _, r := range v.Rows {
		marker := " "
		switch r.Status.Emphasis {
		case replan.EmphasisChanged:
			marker = "*"
		case replan.EmphasisParallel:
			marker = "+"
		}
		fmt.Fprintf(&b, "%s W%s  %s  %s\n", marker, r.WeekLabel, pill(r.Status), r.Activity)
		b.WriteString(SubtleStyle.Render(fmt.Sprintf("        %s · %s", r.Trades, r.Materials)) + "\n")
		if r.Annotation != replan.Placeholder {
			b.WriteString("        " + r.Annotation + "\n")
		}
	}
	return b.String()
}

// Error draws a capability failure.
func Error(err error) string {
	return ErrorStyle.Render("error: "+err.Error()) + "\n"
}
