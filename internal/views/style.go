package views

import (
	"github.com/charmbracelet/lipgloss"

	"intentos/internal/core"
)

// Style is the presentation of a category badge: a stable token, the CSS
// classes for the web view and a colour for terminal output.
type Style struct {
	Token    string         `json:"token"`
	Class    string         `json:"class"`
	Terminal lipgloss.Color `json:"terminal"`
}

// DefaultStyle is returned for any category outside the six known ones.
var DefaultStyle = Style{
	Token:    "uncategorized",
	Class:    "bg-slate-100 text-slate-600 dark:bg-slate-800 dark:text-slate-300",
	Terminal: lipgloss.Color("#94a3b8"),
}

var categoryStyles = map[string]Style{
	core.Food: {
		Token:    "food",
		Class:    "bg-orange-100 text-orange-700 dark:bg-orange-900/30 dark:text-orange-400",
		Terminal: lipgloss.Color("#f97316"),
	},
	core.Transport: {
		Token:    "transport",
		Class:    "bg-blue-100 text-blue-700 dark:bg-blue-900/30 dark:text-blue-400",
		Terminal: lipgloss.Color("#3b82f6"),
	},
	core.Entertainment: {
		Token:    "entertainment",
		Class:    "bg-purple-100 text-purple-700 dark:bg-purple-900/30 dark:text-purple-400",
		Terminal: lipgloss.Color("#a855f7"),
	},
	core.Utilities: {
		Token:    "utilities",
		Class:    "bg-yellow-100 text-yellow-700 dark:bg-yellow-900/30 dark:text-yellow-400",
		Terminal: lipgloss.Color("#eab308"),
	},
	core.Shopping: {
		Token:    "shopping",
		Class:    "bg-pink-100 text-pink-700 dark:bg-pink-900/30 dark:text-pink-400",
		Terminal: lipgloss.Color("#ec4899"),
	},
	core.Other: {
		Token:    "other",
		Class:    "bg-gray-100 text-gray-700 dark:bg-gray-800 dark:text-gray-400",
		Terminal: lipgloss.Color("#6b7280"),
	},
}

// StyleFor returns the style of category, or DefaultStyle when unknown.
func StyleFor(category string) Style {
	if s, ok := categoryStyles[category]; ok {
		return s
	}
	return DefaultStyle
}

var chartPalette = []string{"#3B82F6", "#10B981", "#8B5CF6", "#F59E0B", "#EC4899", "#6B7280"}

// ChartColor returns the chart colour for the i-th series, cycling through
// the palette. Negative indexes wrap from the end.
func ChartColor(i int) string {
	n := len(chartPalette)
	return chartPalette[(i%n+n)%n]
}
