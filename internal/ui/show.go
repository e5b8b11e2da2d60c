package ui

import (
	"github.com/spf13/cobra"
)

func (a *App) showCmd() *cobra.Command {
	var line string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the month's production blocks",
		Long: `Display the blocks of the planning month, line by line.

Block ids are shortened; every command that takes an id accepts any
unique prefix.

Example:
  planta show --month=2025-03 --line=L1`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := a.ensureEngine(cmd.Context())
			if err != nil {
				return err
			}
			if line != "" {
				if _, ok := e.Catalog().Line(line); !ok {
					return unknownLine(line)
				}
			}
			PrintGrid(cmd.OutOrStdout(), e.View(), PrintOpts{
				Line:            line,
				ShowChangeovers: a.config.UI.ShowChangeovers,
			})
			return nil
		},
	}

	cmd.Flags().StringVar(&line, "line", "", "Only show this line")
	return cmd
}
