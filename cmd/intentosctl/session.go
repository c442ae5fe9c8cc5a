package main

import (
	"github.com/spf13/cobra"

	"intentos/internal/cli"
	"intentos/internal/termview"
)

func (a *app) sessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Inspect or end the remembered session",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the remembered session id",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			id := a.loadSession()
			if id == "" {
				a.println(termview.SubtleStyle.Render("No session yet"))
				return nil
			}
			a.println(id)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "end",
		Short: "End the session and discard its expenses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.loadSession() == "" {
				a.println(termview.SubtleStyle.Render("No session to end"))
				return nil
			}
			return a.withClient(func(c *cli.Client) error {
				if err := c.EndSession(cmd.Context()); err != nil {
					return err
				}
				a.println(termview.SuccessStyle.Render("Session ended"))
				return nil
			})
		},
	})
	return cmd
}
