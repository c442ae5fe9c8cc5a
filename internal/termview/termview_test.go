package termview

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"intentos/internal/core"
	"intentos/internal/theme"
	"intentos/internal/views"
)

func TestTableEmpty(t *testing.T) {
	assert.Contains(t, Table(nil, theme.Light), "No expenses found")
}

func TestTableRows(t *testing.T) {
	date := time.Date(2024, 3, 9, 10, 0, 0, 0, time.UTC)
	out := Table([]core.Expense{
		{ID: "0123456789abcdef", Description: "Groceries", Amount: core.Money{Cents: 12000}, Category: core.Food, Date: date},
		{ID: "short", Description: "Uber", Amount: core.Money{Cents: 4500}, Category: "Gifts", Date: date},
	}, theme.Jedi)

	for _, want := range []string{"DESCRIPTION", "Groceries", "$120.00", "Uber", "$45.00", "Gifts", "Mar 9", "01234567", "short"} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "0123456789abcdef")
}

func TestBarChartEmpty(t *testing.T) {
	out := BarChart("Spending Breakdown", nil, 80, theme.Light)
	assert.Contains(t, out, "Spending Breakdown")
	assert.Contains(t, out, "No data to visualize")
}

func TestBarChartScalesToLargest(t *testing.T) {
	shares := views.Shares([]core.CategoryAmount{
		{Category: core.Food, Total: core.Money{Cents: 3000}},
		{Category: core.Transport, Total: core.Money{Cents: 1000}},
	})
	out := BarChart("Spending", shares, 60, theme.Dark)

	lines := strings.Split(out, "\n")
	require.Len(t, lines, 3)
	food := strings.Count(lines[1], "█")
	transport := strings.Count(lines[2], "█")
	assert.True(t, strings.HasPrefix(lines[1], "Food"))
	assert.Equal(t, 3*transport, food)
	assert.Contains(t, lines[1], "$30.00 (75.0%)")
	assert.Contains(t, lines[2], "$10.00 (25.0%)")
}

func TestBarChartTinyShareStillVisible(t *testing.T) {
	shares := views.Shares([]core.CategoryAmount{
		{Category: core.Food, Total: core.Money{Cents: 1_000_000}},
		{Category: core.Other, Total: core.Money{Cents: 1}},
	})
	lines := strings.Split(BarChart("x", shares, 40, theme.Light), "\n")
	assert.Equal(t, 1, strings.Count(lines[2], "█"))
}

func TestThemeBanner(t *testing.T) {
	out := ThemeBanner(theme.Sith, theme.VisualFlags(theme.Sith), "")
	assert.Contains(t, out, "SITH")
	assert.Contains(t, out, "Dark Side")
	assert.Contains(t, out, "sith, dark")

	assert.Contains(t, ThemeBanner(theme.Light, nil, "because"), "because")
}

func TestInsight(t *testing.T) {
	out := Insight("Food is up", "You spent more on food.", "warning", "Cook at home", "high")
	for _, want := range []string{"Food is up", "You spent more on food.", "Cook at home", "[high]"} {
		assert.Contains(t, out, want)
	}
}

func TestTerminalWidthFallsBack(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "out"))
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, DefaultWidth, TerminalWidth(f.Fd()))
}

func TestAccentDefaultsToLight(t *testing.T) {
	assert.Equal(t, Accent(theme.Light), Accent("neon"))
}
