// Package render formats activity metrics as terminal tables.
package render

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/vytor/chessactivity/internal/activity"
	"github.com/vytor/chessactivity/internal/period"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#04B575"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	numberStyle  = cellStyle.Align(lipgloss.Right)
)

// PeriodDescription names a range for humans: "March 2024" for a whole
// calendar month, "Last N days" for a window ending today, otherwise the dates.
func PeriodDescription(rng period.DateRange, today time.Time) string {
	switch {
	case rng.IsCalendarMonth():
		return rng.Start.Format("January 2006")
	case rng.End.Equal(today):
		return fmt.Sprintf("Last %d days", rng.Days())
	default:
		return rng.String()
	}
}

// Header is the underlined report title.
func Header(username string, rng period.DateRange, today time.Time) string {
	name := cases.Title(language.Und, cases.NoLower).String(username)
	title := fmt.Sprintf("Chess.com Activity Analysis: %s (%s)", name, PeriodDescription(rng, today))
	underline := strings.Repeat("=", len(title))
	return titleStyle.Render(title) + "\n" + titleStyle.Render(underline)
}

// Summary renders the activity overview table.
func Summary(s activity.Summary) string {
	return section("Activity Overview:", []string{"Metric", "Value"}, [][]string{
		{"Total Games", strconv.Itoa(s.TotalGames)},
		{"Active Days", strconv.Itoa(s.ActiveDays)},
		{"Avg Games/Day", decimal(s.AveragePerDay)},
		{"Games (Peak)", strconv.Itoa(s.PeakGames)},
	}, 1)
}

// TimeControl renders one row per time control category.
func TimeControl(stats []activity.TimeControlStat) string {
	rows := make([][]string, 0, len(stats))
	for _, st := range stats {
		rows = append(rows, []string{st.Format, strconv.Itoa(st.Games), decimal(st.AvgPerDay), st.Percent})
	}
	return section("Time Control Breakdown:", []string{"Format", "Games", "Avg/Day", "% of Total"}, rows, 1)
}

// Patterns renders the streak, break and peak activity table.
func Patterns(p activity.Patterns) string {
	return section("Activity Patterns:", []string{"Metric", "Value"}, [][]string{
		{"Most Active Day", p.MostActiveDay},
		{"Most Active Hour", p.MostActiveHour},
		{"Longest Streak", p.LongestStreak},
		{"Longest Break", p.LongestBreak},
		{"Last Active", p.LastActive},
	}, -1)
}

// Report renders the header followed by every metric table.
func Report(username string, rng period.DateRange, today time.Time, m activity.Metrics) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(Header(username, rng, today))
	b.WriteString("\n\n")
	b.WriteString(Summary(m.Summary))
	b.WriteString("\n")
	b.WriteString(TimeControl(m.TimeControl))
	b.WriteString("\n")
	b.WriteString(Patterns(m.Patterns))
	b.WriteString("\n")
	return b.String()
}

// section renders a titled table. Columns from firstNumeric on are right
// aligned; -1 leaves every column left aligned.
func section(title string, headers []string, rows [][]string, firstNumeric int) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case firstNumeric >= 0 && col >= firstNumeric:
				return numberStyle
			default:
				return cellStyle
			}
		})
	return sectionStyle.Render(title) + "\n" + t.String() + "\n"
}

func decimal(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
