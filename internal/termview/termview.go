package termview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"golang.org/x/term"

	"intentos/internal/core"
	"intentos/internal/theme"
	"intentos/internal/views"
)

const (
	// DefaultWidth is used when the output is not a terminal.
	DefaultWidth = 80
	minBarWidth  = 10
	idWidth      = 8
)

// TerminalWidth returns the column count of the terminal behind fd, or
// DefaultWidth when fd is not a terminal.
func TerminalWidth(fd uintptr) int {
	if !term.IsTerminal(int(fd)) {
		return DefaultWidth
	}
	w, _, err := term.GetSize(int(fd))
	if err != nil || w <= 0 {
		return DefaultWidth
	}
	return w
}

// Table renders expenses as a bordered table with coloured category badges.
func Table(expenses []core.Expense, mode theme.Mode) string {
	if len(expenses) == 0 {
		return SubtleStyle.Render("No expenses found")
	}

	accent := Accent(mode)
	rows := make([][]string, 0, len(expenses))
	for _, e := range expenses {
		rows = append(rows, []string{
			shortID(e.ID),
			e.Description,
			e.Category,
			e.Date.Format("Jan 2"),
			"$" + e.Amount.String(),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(accent)).
		Headers("ID", "DESCRIPTION", "CATEGORY", "DATE", "AMOUNT").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			s := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow {
				return s.Bold(true).Foreground(accent)
			}
			switch col {
			case 0:
				return s.Foreground(SubtleColor)
			case 2:
				if row >= 0 && row < len(expenses) {
					return s.Foreground(views.StyleFor(expenses[row].Category).Terminal)
				}
			case 4:
				return s.Align(lipgloss.Right)
			}
			return s
		})
	return t.String()
}

// BarChart renders one horizontal bar per category, scaled to the largest
// total and fitted to width columns.
func BarChart(title string, shares []views.Share, width int, mode theme.Mode) string {
	var b strings.Builder
	b.WriteString(TitleStyle.Foreground(Accent(mode)).Render(title))
	b.WriteString("\n")
	if len(shares) == 0 {
		b.WriteString(SubtleStyle.Render("No data to visualize"))
		return b.String()
	}

	labelWidth := 0
	var top int64
	for _, s := range shares {
		labelWidth = max(labelWidth, lipgloss.Width(s.Category))
		top = max(top, s.Total.Cents)
	}

	// label, space, bar, space, "$amount (pp.p%)"
	barWidth := max(width-labelWidth-24, minBarWidth)
	for _, s := range shares {
		n := 0
		if top > 0 {
			n = int(s.Total.Cents * int64(barWidth) / top)
		}
		if n == 0 && s.Total.Cents > 0 {
			n = 1
		}
		bar := lipgloss.NewStyle().Foreground(views.StyleFor(s.Category).Terminal).Render(strings.Repeat("█", n))
		fmt.Fprintf(&b, "%-*s %s%s $%s (%.1f%%)\n",
			labelWidth, s.Category,
			bar, strings.Repeat(" ", barWidth-n),
			s.Total.String(), s.Percent)
	}
	return strings.TrimRight(b.String(), "\n")
}

// Insight renders an ExpenseInsight card.
func Insight(title, content, sentiment, recommendation, severity string) string {
	border := SubtleColor
	switch sentiment {
	case "positive":
		border = SuccessColor
	case "negative", "warning":
		border = ErrorColor
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render(title))
	if severity != "" {
		b.WriteString(SubtleStyle.Render(" [" + severity + "]"))
	}
	b.WriteString("\n" + content)
	if recommendation != "" {
		b.WriteString("\n" + SubtleStyle.Render("→ "+recommendation))
	}
	return BoxStyle.BorderForeground(border).Render(b.String())
}

// ThemeBanner describes the active theme and its visual layers.
func ThemeBanner(mode theme.Mode, flags []theme.Flag, reason string) string {
	names := make([]string, 0, len(flags))
	for _, f := range flags {
		names = append(names, string(f))
	}
	head := lipgloss.NewStyle().Bold(true).Foreground(Accent(mode)).Render(strings.ToUpper(mode.String()))
	return head + " " + theme.Message(mode, reason) + SubtleStyle.Render(" ("+strings.Join(names, ", ")+")")
}

func shortID(id string) string {
	if len(id) <= idWidth {
		return id
	}
	return id[:idWidth]
}
