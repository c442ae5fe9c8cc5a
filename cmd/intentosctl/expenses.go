package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"intentos/internal/cli"
	"intentos/internal/core"
	"intentos/internal/termview"
	"intentos/internal/theme"
	"intentos/internal/views"
)

func (a *app) addCmd() *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:   "add <description> <amount>",
		Short: "Record an expense",
		Long: `Record an expense in the current session.

The amount accepts a dot or a comma as decimal separator and is rounded to
two decimals.`,
		Example: `  intentosctl add "Coffee beans" 12.50 --category Food`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withClient(func(c *cli.Client) error {
				e, err := c.AddExpense(cmd.Context(), args[0], args[1], category)
				if err != nil {
					return err
				}
				a.println(termview.SuccessStyle.Render(fmt.Sprintf("Added %s $%s (%s)", e.Description, e.Amount, e.Category)) +
					termview.SubtleStyle.Render(" "+e.ID))
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&category, "category", "c", core.Food, "expense category ("+strings.Join(core.Categories(), ", ")+")")
	return cmd
}

func (a *app) listCmd() *cobra.Command {
	var (
		category string
		limit    int
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent expenses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withClient(func(c *cli.Client) error {
				ctx := cmd.Context()
				expenses, err := c.ListExpenses(ctx, category, limit)
				if err != nil {
					return err
				}
				a.println(termview.Table(expenses, a.mode(ctx, c)))
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&category, "category", "c", "", "only show this category")
	cmd.Flags().IntVarP(&limit, "limit", "n", views.DefaultLimit, "maximum number of rows")
	return cmd
}

func (a *app) summaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show spending per category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withClient(func(c *cli.Client) error {
				ctx := cmd.Context()
				sum, err := c.Summary(ctx)
				if err != nil {
					return err
				}
				a.println(termview.BarChart("Spending Breakdown", sum.Shares, a.width, a.mode(ctx, c)))
				a.println(termview.SubtleStyle.Render(fmt.Sprintf("%d expenses, total $%s", sum.Count, sum.Total)))
				return nil
			})
		},
	}
}

func (a *app) removeCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "remove <id>...",
		Aliases: []string{"rm"},
		Short:   "Remove expenses by id",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withClient(func(c *cli.Client) error {
				for _, id := range args {
					if err := c.RemoveExpense(cmd.Context(), id); err != nil {
						return err
					}
				}
				a.println(termview.SuccessStyle.Render(fmt.Sprintf("Removed %d expense(s)", len(args))))
				return nil
			})
		},
	}
}

func (a *app) importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Add expenses from a CSV file",
		Long: `Add every row of a CSV file as an expense. Rows are
description,amount,category; a first row starting with "description" is
treated as a header. Rejected rows are reported and skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			rows, err := readExpenseRows(f)
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}

			return a.withClient(func(c *cli.Client) error {
				bar := progressbar.NewOptions(len(rows),
					progressbar.OptionSetWriter(cmd.ErrOrStderr()),
					progressbar.OptionShowCount(),
					progressbar.OptionSetWidth(40),
					progressbar.OptionSetDescription("Importing expenses"),
					progressbar.OptionClearOnFinish(),
				)

				var added int
				var failures []string
				for i, row := range rows {
					if _, err := c.AddExpense(cmd.Context(), row[0], row[1], row[2]); err != nil {
						if !cli.IsStatus(err, http.StatusUnprocessableEntity) {
							return err
						}
						failures = append(failures, fmt.Sprintf("row %d: %v", i+1, err))
					} else {
						added++
					}
					_ = bar.Add(1)
				}
				_ = bar.Finish()

				a.println(termview.SuccessStyle.Render(fmt.Sprintf("Imported %d of %d expenses", added, len(rows))))
				for _, f := range failures {
					a.println(termview.ErrorStyle.Render(f))
				}
				return nil
			})
		},
	}
}

// readExpenseRows parses description,amount,category records.
func readExpenseRows(r io.Reader) ([][3]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var rows [][3]string
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if line == 1 && len(rec) > 0 && strings.EqualFold(strings.TrimSpace(rec[0]), "description") {
			continue
		}
		if len(rec) != 3 {
			return nil, fmt.Errorf("line %d: want 3 fields, got %d", line, len(rec))
		}
		rows = append(rows, [3]string{rec[0], rec[1], rec[2]})
	}
	return rows, nil
}

// mode returns the session theme, falling back to light when the server
// cannot be asked.
func (a *app) mode(ctx context.Context, c *cli.Client) theme.Mode {
	st, err := c.Theme(ctx)
	if err != nil {
		return theme.Light
	}
	return st.Mode
}
