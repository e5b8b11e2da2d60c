package ui

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/planta/internal/block"
	"github.com/javiermolinar/planta/internal/planner"
	"github.com/javiermolinar/planta/internal/selection"
)

func unknownLine(id string) error {
	return fmt.Errorf("%w: %s", block.ErrUnknownLine, id)
}

func (a *App) moveCmd() *cobra.Command {
	var (
		line string
		day  int
	)

	cmd := &cobra.Command{
		Use:   "move [block-id]",
		Short: "Move a block to another line or day",
		Long: `Move a block, keeping its duration. The block is clamped into the month.
The move is rejected if it would overlap another block on the target line
or run its mold on two lines on the same day.

Example:
  planta move 3f2a9c1e --line=L2 --day=12`,
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
			if line == "" {
				b, _ := e.Block(id)
				line = b.LineID
			}

			res, err := e.MoveBlock(cmd.Context(), id, line, day)
			if err != nil {
				return err
			}
			return report(cmd.OutOrStdout(), res)
		},
	}

	cmd.Flags().StringVar(&line, "line", "", "Target line (default: the block's line)")
	cmd.Flags().IntVar(&day, "day", 0, "Target start day (required)")
	_ = cmd.MarkFlagRequired("day")

	return cmd
}

func (a *App) extendCmd() *cobra.Command {
	var (
		edge string
		to   int
	)

	cmd := &cobra.Command{
		Use:   "extend [block-id]",
		Short: "Fill days before or after a block with copies of it",
		Long: `Extend a block to a target day. Every day between the block and the
target gets a single-day copy of the block; days that are already taken,
or where the mold runs on another line, are skipped.

Example:
  planta extend 3f2a9c1e --edge=bottom --to=14`,
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

			var which planner.Edge
			switch edge {
			case "top", "up":
				which = planner.EdgeTop
			case "bottom", "down":
				which = planner.EdgeBottom
			default:
				return fmt.Errorf("--edge must be top or bottom, got %q", edge)
			}

			res, err := e.ResizeExtend(cmd.Context(), id, which, to)
			if err != nil {
				return err
			}
			return report(cmd.OutOrStdout(), res)
		},
	}

	cmd.Flags().StringVar(&edge, "edge", "bottom", "Edge to extend: top or bottom")
	cmd.Flags().IntVar(&to, "to", 0, "Target day (required)")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

func (a *App) duplicateCmd() *cobra.Command {
	var from int

	cmd := &cobra.Command{
		Use:   "duplicate [block-id]",
		Short: "Copy a block to the next free day on its line",
		Long: `Duplicate a block onto the first day after --from (default: the block's
start day) where it does not overlap anything on its line.

Example:
  planta duplicate 3f2a9c1e`,
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
			if from == 0 {
				b, _ := e.Block(id)
				from = b.StartDay
			}

			res, err := e.Duplicate(cmd.Context(), id, from)
			if err != nil {
				return err
			}
			return report(cmd.OutOrStdout(), res)
		},
	}

	cmd.Flags().IntVar(&from, "from", 0, "Search for a free day after this day")
	return cmd
}

func (a *App) copyCmd() *cobra.Command {
	var (
		line string
		day  int
	)

	cmd := &cobra.Command{
		Use:   "copy [block-id]",
		Short: "Copy a block onto a line and day",
		Long: `Copy a block and paste it at the given cell with a new id.

Example:
  planta copy 3f2a9c1e --line=L3 --day=20`,
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
			if _, ok := e.Catalog().Line(line); !ok {
				return unknownLine(line)
			}

			if err := e.Copy(id); err != nil {
				return err
			}
			e.Selection().Select(selection.Cell{LineID: line, Day: day})
			res, err := e.Paste(cmd.Context())
			if err != nil {
				return err
			}
			return report(cmd.OutOrStdout(), res)
		},
	}

	cmd.Flags().StringVar(&line, "line", "", "Target line (required)")
	cmd.Flags().IntVar(&day, "day", 0, "Target day (required)")
	_ = cmd.MarkFlagRequired("line")
	_ = cmd.MarkFlagRequired("day")

	return cmd
}
