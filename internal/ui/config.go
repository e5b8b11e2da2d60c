package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/planta/internal/config"
	"github.com/javiermolinar/planta/internal/period"
	"github.com/javiermolinar/planta/internal/tui/theme"
)

func (a *App) configCmd() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "config",
		Short: "View or edit configuration",
		Long: `Interactive configuration management.

If no config file exists, creates one with default values.
Otherwise, displays current config and allows editing.

Example:
  planta config`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigInteractive(cmd.OutOrStdout(), bufio.NewReader(cmd.InOrStdin()), path)
		},
	}

	cmd.Flags().StringVar(&path, "path", config.DefaultConfigPath(), "Config file to edit")
	return cmd
}

func runConfigInteractive(out io.Writer, reader *bufio.Reader, configPath string) error {
	fmt.Fprintf(out, "Config file: %s\n\n", configPath)

	// Load existing config or create defaults
	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	_, fileErr := os.Stat(configPath)
	if os.IsNotExist(fileErr) {
		fmt.Fprintln(out, "No config file found. Creating with default values...")
		if err := cfg.SaveTo(configPath); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Fprintf(out, "Created %s\n\n", configPath)
	}

	printConfig(out, cfg)

	if !promptYesNo(out, reader, "\nWould you like to edit the configuration?") {
		return nil
	}

	cfg.Planner.DefaultDuration = promptInt(out, reader, "Default block duration (days)", cfg.Planner.DefaultDuration)
	cfg.Planner.DragThreshold = promptInt(out, reader, "Drag threshold", cfg.Planner.DragThreshold)
	cfg.Planner.Zoom = promptZoom(out, reader, cfg.Planner.Zoom)
	cfg.Planner.MaxHistory = promptInt(out, reader, "Undo history size", cfg.Planner.MaxHistory)
	cfg.Catalog.Path = promptValue(out, reader, "Catalog path", cfg.Catalog.Path)
	cfg.Storage.DBPath = promptValue(out, reader, "Database path", cfg.Storage.DBPath)
	cfg.UI.Theme = promptTheme(out, reader, cfg.UI.Theme)
	cfg.UI.ShowChangeovers = promptYesNo(out, reader, "  Highlight changeover days?")

	// Validate before saving
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if err := cfg.SaveTo(configPath); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Fprintln(out, "\nConfiguration saved!")
	return nil
}

func printConfig(out io.Writer, cfg *config.Config) {
	fmt.Fprintln(out, "Current configuration:")
	fmt.Fprintln(out, "──────────────────────")
	fmt.Fprintln(out, "[planner]")
	fmt.Fprintf(out, "  default_duration = %d\n", cfg.Planner.DefaultDuration)
	fmt.Fprintf(out, "  drag_threshold   = %d\n", cfg.Planner.DragThreshold)
	fmt.Fprintf(out, "  zoom             = %s\n", cfg.Planner.Zoom)
	fmt.Fprintf(out, "  max_history      = %d\n", cfg.Planner.MaxHistory)
	fmt.Fprintln(out, "\n[catalog]")
	fmt.Fprintf(out, "  path             = %s\n", cfg.Catalog.Path)
	fmt.Fprintln(out, "\n[storage]")
	fmt.Fprintf(out, "  db_path          = %s\n", cfg.Storage.DBPath)
	fmt.Fprintln(out, "\n[ui]")
	fmt.Fprintf(out, "  theme            = %s\n", cfg.UI.Theme)
	fmt.Fprintf(out, "  show_changeovers = %t\n", cfg.UI.ShowChangeovers)
}

func promptYesNo(out io.Writer, reader *bufio.Reader, question string) bool {
	fmt.Fprintf(out, "%s [y/N]: ", question)
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(strings.ToLower(input))
	return input == "y" || input == "yes"
}

func promptValue(out io.Writer, reader *bufio.Reader, label, current string) string {
	if current == "" {
		fmt.Fprintf(out, "  %s: ", label)
	} else {
		fmt.Fprintf(out, "  %s [%s]: ", label, current)
	}
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		return current
	}
	return input
}

func promptInt(out io.Writer, reader *bufio.Reader, label string, current int) int {
	for {
		value := promptValue(out, reader, label, strconv.Itoa(current))
		n, err := strconv.Atoi(value)
		if err == nil {
			return n
		}
		fmt.Fprintf(out, "  Invalid number %q\n", value)
	}
}

func promptZoom(out io.Writer, reader *bufio.Reader, current string) string {
	for {
		value := strings.ToLower(promptValue(out, reader, "Zoom (month, week)", current))
		if _, err := period.ParseZoom(value); err == nil {
			return value
		}
		fmt.Fprintf(out, "  Invalid zoom %q. Available: month, week\n", value)
	}
}

func promptTheme(out io.Writer, reader *bufio.Reader, current string) string {
	options := strings.Join(theme.Available(), ", ")
	label := fmt.Sprintf("UI theme (%s)", options)
	for {
		value := strings.ToLower(promptValue(out, reader, label, current))
		if theme.IsAvailable(value) {
			return value
		}
		fmt.Fprintf(out, "  Invalid theme %q. Available: %s\n", value, options)
	}
}
