package ui

import (
	"fmt"
	"html"
	"regexp"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var (
	breakTags = regexp.MustCompile(`(?i)<br\s*/?>|</h[1-6]>|</p>`)
	anyTag    = regexp.MustCompile(`<[^>]*>`)
	blankRuns = regexp.MustCompile(`\n{3,}`)
)

// View renders the widget
func (m Model) View() string {
	switch m.state {
	case StateLoadingRoutes:
		return fmt.Sprintf("\n  %s Loading routes...\n", m.spinner.View())

	case StateRouteList:
		return m.routeList.View()

	case StateDateInput:
		return m.renderDateInput()

	case StateAnalyzing:
		return fmt.Sprintf("\n  %s The captain is checking the charts for %s...\n",
			m.spinner.View(), m.selectedRoute.Name)

	case StateResult:
		return m.renderResult()

	case StateError:
		return paneStyle.Render(
			errorStyle.Render("Error: "+errorText(m.err)) + "\n\n" +
				helpStyle.Render("enter: choose another trip • q: quit"))
	}
	return ""
}

func (m Model) renderDateInput() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.selectedRoute.Name) + "\n\n")
	b.WriteString(labelStyle.Render("When would you like to sail? ") +
		helpStyle.Render("("+m.loc.String()+")") + "\n")
	b.WriteString(m.dateInput.View() + "\n")
	if m.inputErr != "" {
		b.WriteString("\n" + errorStyle.Render(m.inputErr) + "\n")
	}
	b.WriteString("\n" + helpStyle.Render("enter: ask the captain • esc: back"))
	return paneStyle.Render(b.String())
}

func (m Model) renderResult() string {
	r := m.result
	width := m.width - 8
	if width < 30 {
		width = 30
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(r.RouteName))
	if r.ClimateMode {
		b.WriteString("  " + seasonalBadgeStyle.Render("SEASONAL ESTIMATE"))
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(time.Unix(m.targetTs, 0).In(m.loc).Format("Mon 2 Jan 2006 15:04 MST")) + "\n\n")

	b.WriteString(labelStyle.Render("Seasickness risk: ") + riskStyle(r.SeasickRisk).Render(fmt.Sprintf("%d%%", r.SeasickRisk)) + "\n")
	b.WriteString(labelStyle.Render("Wind: ") + valueStyle.Render(fmt.Sprintf("%.1f m/s", r.WindSpeed)) + "\n")
	b.WriteString(labelStyle.Render("Sky: ") + valueStyle.Render(r.WeatherCondition) + "\n")
	if r.Alternative != nil {
		alt := time.Unix(r.Alternative.Timestamp, 0).In(m.loc).Format("Mon 15:04")
		b.WriteString(labelStyle.Render("Calmer slot: ") +
			riskLowStyle.Render(fmt.Sprintf("%s (wind %.1f m/s)", alt, r.Alternative.WindSpeed)) + "\n")
	}

	b.WriteString("\n" + lipgloss.NewStyle().Width(width).Render(htmlToText(r.Analysis)) + "\n\n")
	b.WriteString(helpStyle.Render("enter: check another trip • q: quit"))

	return paneStyle.Render(b.String())
}

// htmlToText flattens the advisory's inline markup for the terminal
func htmlToText(s string) string {
	s = breakTags.ReplaceAllString(s, "\n")
	s = anyTag.ReplaceAllString(s, "")
	s = html.UnescapeString(s)
	s = blankRuns.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
