package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/cobra"

	"intentos/internal/cli"
	"intentos/internal/engine"
	"intentos/internal/registry"
	"intentos/internal/termview"
	"intentos/internal/theme"
)

func (a *app) askCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "ask <message>...",
		Short:   "Send a natural-language request to the decision engine",
		Example: `  intentosctl ask "show me where my money went this week"`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withClient(func(c *cli.Client) error {
				ctx := cmd.Context()
				results, err := c.Ask(ctx, strings.Join(args, " "))
				if err != nil {
					return err
				}
				if len(results) == 0 {
					a.println(termview.SubtleStyle.Render("Nothing to show"))
					return nil
				}
				for _, r := range results {
					out, err := a.renderResult(ctx, c, r)
					if err != nil {
						return err
					}
					a.println(out)
				}
				return nil
			})
		},
	}
}

// renderResult draws one dispatched directive for the terminal. Components
// that show ledger data are re-queried through the API with the resolved
// props, since the server only returns their HTML.
func (a *app) renderResult(ctx context.Context, c *cli.Client, r engine.Result) (string, error) {
	switch {
	case r.Error != "":
		return termview.ErrorStyle.Render(fmt.Sprintf("%s: %s", r.Directive.Name, r.Error)), nil
	case r.Rendered != nil:
		return a.renderComponent(ctx, c, r.Rendered)
	default:
		b, err := json.MarshalIndent(r.Output, "", "  ")
		if err != nil {
			return "", err
		}
		return termview.TitleStyle.Render(r.Directive.Name) + "\n" + string(b), nil
	}
}

func (a *app) renderComponent(ctx context.Context, c *cli.Client, r *registry.Rendered) (string, error) {
	switch r.Component {
	case registry.ExpenseTable:
		var p registry.ExpenseTableProps
		if err := decodeProps(r.Props, &p); err != nil {
			return "", err
		}
		expenses, err := c.ListExpenses(ctx, p.FilterCategory, p.Limit)
		if err != nil {
			return "", err
		}
		return termview.Table(expenses, a.mode(ctx, c)), nil

	case registry.ExpenseChart:
		var p registry.ExpenseChartProps
		if err := decodeProps(r.Props, &p); err != nil {
			return "", err
		}
		sum, err := c.Summary(ctx)
		if err != nil {
			return "", err
		}
		return termview.BarChart(p.Title, sum.Shares, a.width, a.mode(ctx, c)), nil

	case registry.ExpenseInsight:
		var p registry.ExpenseInsightProps
		if err := decodeProps(r.Props, &p); err != nil {
			return "", err
		}
		return termview.Insight(p.Title, p.Content, p.Sentiment, p.Recommendation, p.Severity), nil

	case registry.ThemeAction:
		var p registry.ThemeActionProps
		if err := decodeProps(r.Props, &p); err != nil {
			return "", err
		}
		mode, err := theme.ParseMode(p.Theme)
		if err != nil {
			return "", err
		}
		return termview.ThemeBanner(mode, theme.VisualFlags(mode), p.Reason), nil

	case registry.ExpenseForm:
		var p registry.ExpenseFormProps
		if err := decodeProps(r.Props, &p); err != nil {
			return "", err
		}
		hint := fmt.Sprintf("Record it with: intentosctl add <description> <amount> --category %s", p.DefaultCategory)
		if p.SuggestedAmount != nil {
			hint = fmt.Sprintf("Record it with: intentosctl add <description> %.2f --category %s", *p.SuggestedAmount, p.DefaultCategory)
		}
		return termview.SubtleStyle.Render(hint), nil
	}
	return termview.SubtleStyle.Render("(" + r.Component + ")"), nil
}

func decodeProps(raw, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		TagName:          "json",
		Result:           out,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(raw); err != nil {
		return fmt.Errorf("decode props: %w", err)
	}
	return nil
}
