package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/planta/internal/block"
	"github.com/javiermolinar/planta/internal/catalog"
	"github.com/javiermolinar/planta/internal/config"
	"github.com/javiermolinar/planta/internal/db"
	"github.com/javiermolinar/planta/internal/debuglog"
	"github.com/javiermolinar/planta/internal/period"
	"github.com/javiermolinar/planta/internal/planner"
	"github.com/javiermolinar/planta/internal/tui"
)

var (
	// Version is set at build time
	Version = "dev"
	// Commit is set at build time
	Commit = "none"
)

// App holds the CLI application state.
type App struct {
	repo   block.Repository
	cat    *catalog.Catalog
	config *config.Config
	root   *cobra.Command
	log    *debuglog.Logger
	engine *planner.Engine

	debug   bool   // Enable debug logging
	month   string // YYYY-MM, empty for the current month
	noColor bool
	now     func() time.Time
}

// NewApp creates a new CLI application. A nil repo or catalog is opened lazily
// from the configured paths.
func NewApp(repo block.Repository, cat *catalog.Catalog, cfg *config.Config) *App {
	a := &App{repo: repo, cat: cat, config: cfg, now: time.Now}

	a.root = &cobra.Command{
		Use:   "planta",
		Short: "A production block scheduling grid",
		Long: `Planta plans production blocks on manufacturing lines, one month at a time.

Each line is a column and each day a row. Blocks can be moved, extended,
duplicated and pasted while the planner keeps lines free of overlaps and
molds from running on two lines on the same day.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if a.noColor {
				DisableColor()
			}
			if a.debug && a.log == nil {
				l, err := debuglog.Open(debuglog.DefaultPath)
				if err != nil {
					return err
				}
				a.log = l
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := a.ensureEngine(cmd.Context())
			if err != nil {
				return err
			}
			return tui.Run(e, tui.Options{
				Theme:           a.config.UI.Theme,
				ShowChangeovers: a.config.UI.ShowChangeovers,
				Logger:          a.log,
			})
		},
	}

	a.root.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging to "+debuglog.DefaultPath)
	a.root.PersistentFlags().StringVarP(&a.month, "month", "m", "", "Planning month (YYYY-MM, default: current month)")
	a.root.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "Disable color output")

	a.root.AddCommand(a.versionCmd())
	a.root.AddCommand(a.configCmd())
	a.root.AddCommand(a.linesCmd())
	a.root.AddCommand(a.showCmd())
	a.root.AddCommand(a.addCmd())
	a.root.AddCommand(a.moveCmd())
	a.root.AddCommand(a.extendCmd())
	a.root.AddCommand(a.duplicateCmd())
	a.root.AddCommand(a.copyCmd())
	a.root.AddCommand(a.deleteCmd())
	a.root.AddCommand(a.deleteRangeCmd())

	return a
}

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "planta %s (commit: %s)\n", Version, Commit)
		},
	}
}

// Execute runs the CLI application.
func (a *App) Execute() error {
	return a.root.ExecuteContext(context.Background())
}

// SetArgs overrides the command line, for tests.
func (a *App) SetArgs(args []string) {
	a.root.SetArgs(args)
}

// SetOutput redirects command output and input, for tests.
func (a *App) SetOutput(out io.Writer, in io.Reader) {
	a.root.SetOut(out)
	a.root.SetErr(out)
	a.root.SetIn(in)
}

// Close releases the repository and debug log.
func (a *App) Close() error {
	var errs []error
	if a.repo != nil {
		errs = append(errs, a.repo.Close())
	}
	errs = append(errs, a.log.Close())
	return errors.Join(errs...)
}

// ensureRepo opens the configured database on first use.
func (a *App) ensureRepo() error {
	if a.repo != nil {
		return nil
	}
	path := a.config.Storage.DBPath
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating database directory: %w", err)
	}
	repo, err := db.New(path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	a.repo = repo
	return nil
}

// ensureCatalog loads the configured catalog, falling back to the bundled sample
// when no catalog file exists yet.
func (a *App) ensureCatalog(w io.Writer) error {
	if a.cat != nil {
		return nil
	}
	cat, err := catalog.Load(a.config.Catalog.Path)
	if errors.Is(err, os.ErrNotExist) {
		fmt.Fprintln(w, formatMuted(fmt.Sprintf("No catalog at %s, using the sample catalog (planta lines --init writes it).", a.config.Catalog.Path)))
		cat, err = catalog.Sample(), nil
	}
	if err != nil {
		return err
	}
	a.cat = cat
	return nil
}

// ensureEngine builds the planner and loads the selected month.
func (a *App) ensureEngine(ctx context.Context) (*planner.Engine, error) {
	if a.engine != nil {
		return a.engine, nil
	}
	if err := a.ensureRepo(); err != nil {
		return nil, err
	}
	if err := a.ensureCatalog(a.root.ErrOrStderr()); err != nil {
		return nil, err
	}

	p, err := a.period()
	if err != nil {
		return nil, err
	}

	e := planner.New(a.repo, a.cat, planner.Options{
		DefaultDuration: a.config.Planner.DefaultDuration,
		MaxHistory:      a.config.Planner.MaxHistory,
		DragThreshold:   a.config.Planner.DragThreshold,
		Logger:          a.log,
	})
	if err := e.Load(ctx, p); err != nil {
		return nil, err
	}
	a.engine = e
	return e, nil
}

// period returns the month selected with --month at the configured zoom.
func (a *App) period() (period.Period, error) {
	now := a.now()
	p := period.Containing(now)
	if a.month != "" {
		year, month, err := period.ParseMonth(a.month, now)
		if err != nil {
			return period.Period{}, fmt.Errorf("invalid --month: %w", err)
		}
		p = period.New(year, month)
	}
	return p.WithZoom(a.config.ZoomLevel()), nil
}

// resolveID expands a unique id prefix, as printed by show, to a block id.
func resolveID(e *planner.Engine, prefix string) (string, error) {
	var match string
	for _, b := range e.Blocks() {
		if b.ID == prefix {
			return b.ID, nil
		}
		if strings.HasPrefix(b.ID, prefix) {
			if match != "" {
				return "", fmt.Errorf("block id %q is ambiguous", prefix)
			}
			match = b.ID
		}
	}
	if match == "" {
		return "", fmt.Errorf("%w: %s", block.ErrBlockNotFound, prefix)
	}
	return match, nil
}

// report prints a mutation result and turns a rejection into an error so the
// command exits non-zero.
func report(w io.Writer, res planner.Result) error {
	if res.Rejected() {
		return fmt.Errorf("rejected: %s", res.Violation.Message())
	}
	fmt.Fprintln(w, formatResult(res))
	for _, v := range res.Skipped {
		fmt.Fprintln(w, formatWarn("  skipped: "+v.Message()))
	}
	for _, v := range res.Dropped {
		fmt.Fprintln(w, formatWarn("  changeover block not placed: "+v.Message()))
	}
	return nil
}
