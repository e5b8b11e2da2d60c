package ui

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/javiermolinar/planta/internal/block"
	"github.com/javiermolinar/planta/internal/catalog"
	"github.com/javiermolinar/planta/internal/planner"
)

// shortIDLen is how much of a block id show prints. Commands accept any unique prefix.
const shortIDLen = 8

func shortID(id string) string {
	if len(id) <= shortIDLen {
		return id
	}
	return id[:shortIDLen]
}

// formatDays renders an inclusive day range, e.g. "5" or "5-7".
func formatDays(start, end int) string {
	if start == end {
		return strconv.Itoa(start)
	}
	return fmt.Sprintf("%d-%d", start, end)
}

// formatResult renders a committed result: the summary line, then one line per
// saved block.
func formatResult(res planner.Result) string {
	var sb strings.Builder
	sb.WriteString(formatOK(res.Summary()))
	for _, b := range res.Saved {
		fmt.Fprintf(&sb, "\n  %s %s %s day %s %s",
			formatOK("+"), shortID(b.ID), b.LineID, formatDays(b.StartDay, b.EndDay), b.MoldID)
	}
	for _, id := range res.Deleted {
		fmt.Fprintf(&sb, "\n  %s %s", formatError("-"), shortID(id))
	}
	return sb.String()
}

// PrintOpts configures grid printing.
type PrintOpts struct {
	Line            string // only this line, empty for all
	ShowChangeovers bool
	Width           int // terminal width, 0 for the detected width
}

// PrintGrid writes the blocks of v line by line.
func PrintGrid(w io.Writer, v planner.View, opts PrintOpts) {
	width := opts.Width
	if width <= 0 {
		width = termWidth()
	}
	rule := formatMuted(strings.Repeat("─", min(width, 72)))

	fmt.Fprintf(w, "=== %s ===\n", formatHeader(v.Period.Label()))
	for _, l := range v.Lines {
		if opts.Line != "" && l.ID != opts.Line {
			continue
		}
		fmt.Fprintln(w)
		fmt.Fprintf(w, "%s  %s  %s\n", formatHeader(l.ID), l.Name, formatStatus(l.Status))
		fmt.Fprintln(w, rule)
		if len(l.Blocks) == 0 {
			fmt.Fprintln(w, formatMuted("  no blocks"))
			continue
		}
		for _, b := range l.Blocks {
			fmt.Fprintln(w, formatBlockRow(b, opts.ShowChangeovers, width))
		}
		if opts.ShowChangeovers && len(l.ChangeoverDays) > 0 {
			days := make([]string, len(l.ChangeoverDays))
			for i, d := range l.ChangeoverDays {
				days[i] = strconv.Itoa(d)
			}
			fmt.Fprintf(w, "  %s %s\n", formatChangeover("changeover days:"), strings.Join(days, ", "))
		}
	}
}

// formatBlockRow renders one block: days, short id, mold, label and markers.
func formatBlockRow(b planner.BlockView, showChangeovers bool, width int) string {
	days := fmt.Sprintf("%-5s", formatDays(b.StartDay, b.EndDay))
	mold := b.MoldID
	if b.MoldName != "" && b.MoldName != b.MoldID {
		mold += " " + b.MoldName
	}

	var marks []string
	if b.Overlap {
		marks = append(marks, formatError("overlap"))
	}
	if showChangeovers && b.IsChangeover {
		marks = append(marks, formatChangeover("changeover"))
	}
	if b.IsChangeoverBlock {
		marks = append(marks, formatMuted("after changeover"))
	}

	label := b.Label
	if room := width - 48; room > 3 && len(label) > room {
		label = label[:room-3] + "..."
	}

	row := fmt.Sprintf("  %s %s  %-22s %s", days, formatMuted(shortID(b.ID)), mold, label)
	if len(marks) > 0 {
		row += "  " + strings.Join(marks, " ")
	}
	return strings.TrimRight(row, " ")
}

// PrintLines writes the catalog's lines with their machines and status.
func PrintLines(w io.Writer, cat *catalog.Catalog) {
	fmt.Fprintf(w, "%-6s %-16s %-12s %s\n",
		formatHeader("ID"), formatHeader("NAME"), formatHeader("STATUS"), formatHeader("MACHINES"))
	for _, l := range cat.Lines {
		machines := []string{l.PrimaryID, l.RobotID, l.ConveyorID, l.HoistID}
		for i, m := range machines {
			if m == "" {
				machines[i] = formatMuted("-")
			}
		}
		fmt.Fprintf(w, "%-6s %-16s %-12s %s\n", l.ID, l.Name, formatStatus(l.Status()), strings.Join(machines, " "))
	}
}

// parseCodes splits a comma-separated flag value.
func parseCodes(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// parseProductColors parses "color:qty[:party],..." into product colors.
func parseProductColors(s string) ([]block.ProductColor, error) {
	var out []block.ProductColor
	for _, item := range parseCodes(s) {
		parts := strings.Split(item, ":")
		if len(parts) < 2 || len(parts) > 3 {
			return nil, fmt.Errorf("product color %q must be color:quantity[:party]", item)
		}
		qty, err := strconv.Atoi(parts[1])
		if err != nil || qty < 0 {
			return nil, fmt.Errorf("product color %q: invalid quantity", item)
		}
		pc := block.ProductColor{Color: parts[0], Quantity: qty}
		if len(parts) == 3 {
			pc.PartyCode = parts[2]
		}
		out = append(out, pc)
	}
	return out, nil
}
