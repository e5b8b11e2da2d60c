package ui

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/planta/internal/catalog"
)

func (a *App) linesCmd() *cobra.Command {
	var initCatalog bool

	cmd := &cobra.Command{
		Use:   "lines",
		Short: "List production lines and their status",
		Long: `List the lines of the catalog in grid column order.

A line is inactive when one of its machines (IM, robot, conveyor, hoist)
is missing, in maintenance when its recorded status says so, and active
otherwise.

Use --init to write the sample catalog to the configured path.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			if initCatalog {
				path := a.config.Catalog.Path
				if _, err := os.Stat(path); err == nil {
					return fmt.Errorf("catalog %s already exists", path)
				}
				if err := catalog.WriteSample(path); err != nil {
					return err
				}
				fmt.Fprintf(out, "Wrote sample catalog to %s\n\n", path)
			}

			if err := a.ensureCatalog(cmd.ErrOrStderr()); err != nil {
				return err
			}
			PrintLines(out, a.cat)
			return nil
		},
	}

	cmd.Flags().BoolVar(&initCatalog, "init", false, "Write the sample catalog if none exists")
	return cmd
}
