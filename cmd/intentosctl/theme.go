package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"intentos/internal/cli"
	"intentos/internal/termview"
	"intentos/internal/theme"
)

func (a *app) themeCmd() *cobra.Command {
	modes := make([]string, 0, len(theme.Modes()))
	for _, m := range theme.Modes() {
		modes = append(modes, m.String())
	}

	return &cobra.Command{
		Use:       "theme [mode]",
		Short:     "Show or switch the session theme",
		Long:      fmt.Sprintf("Without arguments print the active theme. With a mode (%s) switch to it.", strings.Join(modes, ", ")),
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: modes,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withClient(func(c *cli.Client) error {
				var (
					st  cli.ThemeState
					err error
				)
				if len(args) == 0 {
					st, err = c.Theme(cmd.Context())
				} else {
					st, err = c.SetTheme(cmd.Context(), args[0])
				}
				if err != nil {
					return err
				}
				a.println(termview.ThemeBanner(st.Mode, st.Flags, ""))
				return nil
			})
		},
	}
}
