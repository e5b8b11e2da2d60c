package ui

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/planta/internal/block"
)

func (a *App) addCmd() *cobra.Command {
	var (
		line      string
		day       int
		days      int
		mold      string
		label     string
		color     string
		notes     string
		parties   string
		colors    string
		coMold    string
		coMinutes int
		coTime    string
		coParties string
		coColors  string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a production block",
		Long: `Add a block to a line. A block covering several days is stored as one
block per day; if any day conflicts nothing is added.

With a changeover mold, a single-day block also places a block carrying
that mold on the following day when the day is free.

Example:
  planta add --line=L1 --day=5 --days=3 --mold=M-BKT-10 --label="Buckets 10L"
  planta add --line=L2 --day=9 --mold=M-LID-10 --changeover-mold=M-CAP-28 --changeover-minutes=45`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := a.ensureEngine(cmd.Context())
			if err != nil {
				return err
			}

			draft, err := e.CreateBlock(line, day)
			if err != nil {
				return err
			}
			if days > 0 {
				draft.EndDay = day + days - 1
			}
			draft.MoldID = mold
			draft.Label = label
			draft.Notes = notes
			if color != "" {
				draft.Color = color
			}
			draft.Payload.PartyCodes = parseCodes(parties)
			draft.Payload.ChangeoverPartyCodes = parseCodes(coParties)
			if draft.Payload.ProductColors, err = parseProductColors(colors); err != nil {
				return err
			}
			if draft.Payload.ChangeoverProductColors, err = parseProductColors(coColors); err != nil {
				return err
			}

			if coMold != "" {
				draft.ChangeoverMoldID = coMold
				switch {
				case coTime != "":
					draft.ChangeoverMode = block.ChangeoverTime
					draft.ChangeoverTime = coTime
				case coMinutes > 0:
					draft.ChangeoverMode = block.ChangeoverMinutes
					draft.ChangeoverMinutes = coMinutes
				default:
					return fmt.Errorf("--changeover-mold needs --changeover-minutes or --changeover-time")
				}
			}

			res, err := e.UpdateBlock(cmd.Context(), draft)
			if err != nil {
				return err
			}
			return report(cmd.OutOrStdout(), res)
		},
	}

	cmd.Flags().StringVar(&line, "line", "", "Line id (required)")
	cmd.Flags().IntVar(&day, "day", 0, "Start day of month (required)")
	cmd.Flags().IntVar(&days, "days", 0, "Number of days (default: planner.default_duration)")
	cmd.Flags().StringVar(&mold, "mold", "", "Mold id (required)")
	cmd.Flags().StringVar(&label, "label", "", "Block label")
	cmd.Flags().StringVar(&color, "color", "", "Block color (default: line color)")
	cmd.Flags().StringVar(&notes, "notes", "", "Free-form notes")
	cmd.Flags().StringVar(&parties, "party", "", "Party codes, comma-separated")
	cmd.Flags().StringVar(&colors, "product-colors", "", "Product colors as color:qty[:party], comma-separated")
	cmd.Flags().StringVar(&coMold, "changeover-mold", "", "Mold used after the changeover")
	cmd.Flags().IntVar(&coMinutes, "changeover-minutes", 0, "Changeover duration in minutes")
	cmd.Flags().StringVar(&coTime, "changeover-time", "", "Changeover time (HH:MM)")
	cmd.Flags().StringVar(&coParties, "changeover-party", "", "Party codes after the changeover, comma-separated")
	cmd.Flags().StringVar(&coColors, "changeover-colors", "", "Product colors after the changeover")

	_ = cmd.MarkFlagRequired("line")
	_ = cmd.MarkFlagRequired("day")
	_ = cmd.MarkFlagRequired("mold")

	return cmd
}
