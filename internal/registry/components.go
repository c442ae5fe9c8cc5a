package registry

import (
	"context"
	"fmt"
	"html/template"
	"strconv"
	"strings"

	"intentos/internal/core"
	"intentos/internal/session"
	"intentos/internal/theme"
	"intentos/internal/views"
)

// Component names.
const (
	ExpenseForm    = "ExpenseForm"
	ExpenseTable   = "ExpenseTable"
	ExpenseChart   = "ExpenseChart"
	ExpenseInsight = "ExpenseInsight"
	ThemeAction    = "ThemeAction"
)

type (
	ExpenseFormProps struct {
		DefaultCategory string   `json:"defaultCategory"`
		SuggestedAmount *float64 `json:"suggestedAmount,omitempty"`
	}

	ExpenseTableProps struct {
		Limit          int    `json:"limit"`
		FilterCategory string `json:"filterCategory,omitempty"`
	}

	ExpenseChartProps struct {
		Type  string `json:"type"`
		Title string `json:"title"`
	}

	ExpenseInsightProps struct {
		Title          string `json:"title"`
		Content        string `json:"content"`
		Sentiment      string `json:"sentiment"`
		Recommendation string `json:"recommendation,omitempty"`
		Severity       string `json:"severity"`
	}

	ThemeActionProps struct {
		Theme  string `json:"theme"`
		Reason string `json:"reason,omitempty"`
	}
)

func builtinComponents() []Component {
	themes := make([]string, 0, 4)
	for _, m := range theme.Modes() {
		themes = append(themes, m.String())
	}

	return []Component{
		{
			Name:        ExpenseForm,
			Description: "A form to add new expenses. Includes fields for description, amount, and category. Use this when the user wants to track a new expense or add a transaction.",
			Schema: Schema{Fields: []Field{
				{Name: "defaultCategory", Type: String, Default: core.Food, Description: "Pre-selected category for the expense form"},
				{Name: "suggestedAmount", Type: Number, Description: "Suggested amount for the expense"},
			}},
			template: "expense_form",
			build:    buildExpenseForm,
		},
		{
			Name:        ExpenseTable,
			Description: "A table displaying a list of recent expenses. Supports filtering by category and deleting items. Use this to show the user their expense history or list.",
			Schema: Schema{Fields: []Field{
				{Name: "limit", Type: Number, Default: views.DefaultLimit, Description: "Maximum number of expenses to show"},
				{Name: "filterCategory", Type: String, Description: "Filter expenses by category"},
			}},
			template: "expense_table",
			build:    buildExpenseTable,
		},
		{
			Name:        ExpenseChart,
			Description: "A chart visualizing expense distribution by category. Can be a pie chart or bar chart. Use this when the user wants to see analytics, summaries, or visual breakdowns of their spending.",
			Schema: Schema{Fields: []Field{
				{Name: "type", Type: Enum, Enum: []string{"pie", "bar"}, Default: "pie", Description: "Type of chart to display"},
				{Name: "title", Type: String, Default: "Spending Breakdown", Description: "Title of the chart"},
			}},
			template: "expense_chart",
			build:    buildExpenseChart,
		},
		{
			Name:        ExpenseInsight,
			Description: "A card component to display AI-generated insights, analysis, or recommendations about the user's spending. Use this when asked to analyze expenses or when you identify a spending pattern or issue.",
			Schema: Schema{Fields: []Field{
				{Name: "title", Type: String, Required: true, Description: "Short, punchy title for the insight (e.g. 'High Coffee Spend')"},
				{Name: "content", Type: String, Required: true, Description: "Detailed analysis or observation about the spending habits."},
				{Name: "sentiment", Type: Enum, Enum: []string{"positive", "negative", "neutral"}, Required: true, Description: "The sentiment of the insight."},
				{Name: "recommendation", Type: String, Description: "Actionable advice for the user."},
				{Name: "severity", Type: Enum, Enum: []string{"low", "medium", "high"}, Default: "medium", Description: "How critical this insight is."},
			}},
			template: "expense_insight",
			build:    buildExpenseInsight,
		},
		{
			Name:        ThemeAction,
			Description: "Switches the application theme to light, dark, jedi or sith based on user intent, and shows a short banner explaining the change.",
			Schema: Schema{Fields: []Field{
				{Name: "theme", Type: Enum, Enum: themes, Required: true, Description: "The theme to switch to based on user intent."},
				{Name: "reason", Type: String, Description: "A short explanation of why the theme is changing (e.g. 'Welcome to the dark side')."},
			}},
			template: "theme_action",
			build:    buildThemeAction,
		},
	}
}

func buildExpenseForm(_ context.Context, raw map[string]any) (any, any, error) {
	p := ExpenseFormProps{DefaultCategory: core.Food}
	if err := decode(raw, &p); err != nil {
		return nil, nil, err
	}
	if strings.TrimSpace(p.DefaultCategory) == "" {
		p.DefaultCategory = core.Food
	}

	categories := core.Categories()
	if !core.IsKnownCategory(p.DefaultCategory) {
		categories = append(categories, p.DefaultCategory)
	}
	suggested := ""
	if p.SuggestedAmount != nil {
		amount, err := core.FromFloat(*p.SuggestedAmount)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: suggestedAmount: %w", ErrInvalidProps, err)
		}
		suggested = amount.String()
	}

	return p, struct {
		DefaultCategory string
		SuggestedAmount string
		Categories      []string
	}{p.DefaultCategory, suggested, categories}, nil
}

func buildExpenseTable(ctx context.Context, raw map[string]any) (any, any, error) {
	p := ExpenseTableProps{Limit: views.DefaultLimit}
	if err := decode(raw, &p); err != nil {
		return nil, nil, err
	}

	s := session.MustFromContext(ctx, ExpenseTable)
	records, err := s.Ledger().List(ctx)
	if err != nil {
		return nil, nil, err
	}

	return p, struct {
		FilterCategory string
		Rows           []core.Expense
	}{p.FilterCategory, views.List(records, p.FilterCategory, p.Limit)}, nil
}

type chartBar struct {
	core.CategoryAmount
	Style template.CSS
}

func buildExpenseChart(ctx context.Context, raw map[string]any) (any, any, error) {
	p := ExpenseChartProps{Type: "pie", Title: "Spending Breakdown"}
	if err := decode(raw, &p); err != nil {
		return nil, nil, err
	}

	s := session.MustFromContext(ctx, ExpenseChart)
	records, err := s.Ledger().List(ctx)
	if err != nil {
		return nil, nil, err
	}
	shares := views.Shares(views.Aggregate(records))

	return p, struct {
		Type     string
		Title    string
		Shares   []views.Share
		PieStyle template.CSS
		Bars     []chartBar
	}{p.Type, p.Title, shares, pieStyle(shares), bars(shares)}, nil
}

// pieStyle draws the pie as a conic gradient. Colours and percentages come
// from the palette and arithmetic, never from user input.
func pieStyle(shares []views.Share) template.CSS {
	if len(shares) == 0 {
		return ""
	}
	stops := make([]string, 0, len(shares))
	start := 0.0
	for i, s := range shares {
		end := start + s.Percent
		if i == len(shares)-1 {
			end = 100
		}
		stops = append(stops, fmt.Sprintf("%s %s%% %s%%", s.Color, pct(start), pct(end)))
		start = end
	}
	return template.CSS("background: conic-gradient(" + strings.Join(stops, ", ") + ")")
}

func bars(shares []views.Share) []chartBar {
	var max int64
	for _, s := range shares {
		if s.Total.Cents > max {
			max = s.Total.Cents
		}
	}
	out := make([]chartBar, 0, len(shares))
	for _, s := range shares {
		h := 0.0
		if max > 0 {
			h = float64(s.Total.Cents) * 100 / float64(max)
		}
		out = append(out, chartBar{
			CategoryAmount: s.CategoryAmount,
			Style:          template.CSS(fmt.Sprintf("height: %s%%; background: %s", pct(h), s.Color)),
		})
	}
	return out
}

func pct(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}

func buildExpenseInsight(_ context.Context, raw map[string]any) (any, any, error) {
	p := ExpenseInsightProps{Severity: "medium"}
	if err := decode(raw, &p); err != nil {
		return nil, nil, err
	}
	return p, p, nil
}

func buildThemeAction(ctx context.Context, raw map[string]any) (any, any, error) {
	var p ThemeActionProps
	if err := decode(raw, &p); err != nil {
		return nil, nil, err
	}
	mode, err := theme.ParseMode(p.Theme)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrInvalidProps, err)
	}

	s := session.MustFromContext(ctx, ThemeAction)
	if err := s.SetTheme(ctx, mode); err != nil {
		return nil, nil, err
	}

	return p, struct {
		Theme   string
		Message string
	}{mode.String(), theme.Message(mode, p.Reason)}, nil
}
