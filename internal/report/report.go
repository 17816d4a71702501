// Package report renders dashboard results as a terminal summary.
package report

import (
	"fmt"
	"io"
	"strings"

	"salarydash/internal/models"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#60A5FA"))
	headingStyle = lipgloss.NewStyle().Bold(true).MarginTop(1)
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF")).Width(26)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B"))
	barStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#34D399"))

	printer = message.NewPrinter(language.English)
)

// Money formats a USD amount with thousands separators and no cents.
func Money(v float64) string {
	return printer.Sprintf("$%.0f", v)
}

// Count formats an integer with thousands separators.
func Count(n int) string {
	return printer.Sprintf("%d", n)
}

// Write renders data to w.
func Write(w io.Writer, data *models.DashboardData) error {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Data salaries dashboard (annual, USD)"))
	b.WriteString("\n")

	if data.Empty {
		b.WriteString(warnStyle.Render(data.Message))
		b.WriteString("\n")
		_, err := io.WriteString(w, b.String())
		return err
	}

	k := data.KPIs
	section(&b, "Overview")
	row(&b, "Mean salary", Money(k.MeanSalary))
	row(&b, "Max salary", Money(k.MaxSalary))
	row(&b, "Records", Count(k.RecordCount))
	row(&b, "Most frequent role", k.MostFrequentRole)

	if in := data.Insights; in != nil {
		section(&b, "Insights")
		row(&b, "Best paid role", fmt.Sprintf("%s (%s)", in.TopRole, Money(in.TopRoleMeanSalary)))
		row(&b, "Max minus mean", Money(in.SalarySpread))
	}

	section(&b, "Top roles by mean salary")
	for i := len(data.TopRoles) - 1; i >= 0; i-- {
		r := data.TopRoles[i]
		row(&b, r.Role, Money(r.MeanSalary))
	}

	if len(data.Histogram) > 0 {
		section(&b, "Salary distribution")
		writeHistogram(&b, data.Histogram)
	}

	section(&b, "Work arrangement")
	for _, r := range data.RemoteTypes {
		share := float64(r.Count) / float64(k.RecordCount) * 100
		row(&b, r.RemoteType, printer.Sprintf("%d (%.1f%%)", r.Count, share))
	}

	section(&b, fmt.Sprintf("Mean salary of %s by country", data.CountryRole))
	if data.CountryMessage != "" {
		b.WriteString(warnStyle.Render(data.CountryMessage))
		b.WriteString("\n")
	}
	for _, c := range data.CountrySalary {
		row(&b, c.Country, Money(c.MeanSalary))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// barWidth is the length of the bar drawn for the fullest bin.
const barWidth = 30

func writeHistogram(b *strings.Builder, bins []models.HistogramBin) {
	most := 0
	for _, bin := range bins {
		most = max(most, bin.Count)
	}
	for _, bin := range bins {
		n := 0
		if most > 0 {
			n = bin.Count * barWidth / most
		}
		if n == 0 && bin.Count > 0 {
			n = 1
		}
		label := fmt.Sprintf("%s - %s", Money(bin.Lower), Money(bin.Upper))
		row(b, label, barStyle.Render(strings.Repeat("█", n))+" "+Count(bin.Count))
	}
}

func section(b *strings.Builder, title string) {
	b.WriteString(headingStyle.Render(title))
	b.WriteString("\n")
}

func row(b *strings.Builder, label, value string) {
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(label), value))
	b.WriteString("\n")
}
