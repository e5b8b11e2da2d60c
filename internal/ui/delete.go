package ui

import (
	"bufio"
	"fmt"

	"github.com/spf13/cobra"
)

func (a *App) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [block-id]",
		Short: "Delete a block",
		Long: `Delete a block together with the block placed after its changeover.

Example:
  planta delete 3f2a9c1e`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.ensureEngine(cmd.Context())
			if err != nil {
				return err
			}
			id, err := resolveID(e, args[0])
			if err != nil {
				return err
			}

			res, err := e.DeleteBlock(cmd.Context(), id)
			if err != nil {
				return err
			}
			return report(cmd.OutOrStdout(), res)
		},
	}
}

func (a *App) deleteRangeCmd() *cobra.Command {
	var (
		line string
		from int
		to   int
		yes  bool
	)

	cmd := &cobra.Command{
		Use:   "delete-range",
		Short: "Delete every block on a line starting within a day range",
		Long: `Delete all blocks on a line whose start day falls within [from, to].
Asks for confirmation unless --yes is given.

Example:
  planta delete-range --line=L1 --from=10 --to=15`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := a.ensureEngine(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			reader := bufio.NewReader(cmd.InOrStdin())
			confirm := func(n int) bool {
				if yes {
					return true
				}
				return promptYesNo(out, reader, fmt.Sprintf("Delete %d block(s) on %s, days %d-%d?", n, line, min(from, to), max(from, to)))
			}

			res, err := e.DeleteRange(cmd.Context(), line, from, to, confirm)
			if err != nil {
				return err
			}
			if res.Cancelled {
				fmt.Fprintln(out, "Cancelled.")
				return nil
			}
			if !res.Changed() {
				fmt.Fprintf(out, "No blocks on %s start within days %d-%d.\n", line, min(from, to), max(from, to))
				return nil
			}
			return report(out, res)
		},
	}

	cmd.Flags().StringVar(&line, "line", "", "Line id (required)")
	cmd.Flags().IntVar(&from, "from", 0, "First day (required)")
	cmd.Flags().IntVar(&to, "to", 0, "Last day (required)")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	_ = cmd.MarkFlagRequired("line")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}
