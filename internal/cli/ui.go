package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"

	"github.com/matzehuels/graphgen/pkg/archive"
	"github.com/matzehuels/graphgen/pkg/generator"
	"github.com/matzehuels/graphgen/pkg/graph"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorBlue   = lipgloss.Color("75")  // Light blue - links
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// edgeColors maps edge families to terminal colors.
var edgeColors = map[graph.Color]lipgloss.Color{
	graph.Gray:   colorGray,
	graph.Green:  colorGreen,
	graph.Blue:   colorBlue,
	graph.Yellow: colorYellow,
	graph.Red:    colorRed,
}

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleHighlight for emphasized values.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleSuccess for success messages.
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)

	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)

	styleTableHeader = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	styleTableBorder = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconCached  = "cached"
	iconFresh   = "fresh"
)

// =============================================================================
// Status Output
// =============================================================================

// printSuccess prints a success message.
func printSuccess(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + msg)
}

// printError prints an error message.
func printError(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconError.Render(iconError) + " " + msg)
}

// printWarning prints a warning message.
func printWarning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(msg))
}

// printInfo prints an info/status message.
func printInfo(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + msg)
}

// printDetail prints a detail line (indented).
func printDetail(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println("  " + StyleDim.Render(msg))
}

// printFile prints a file output line.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

// printKeyValue prints a labeled value.
func printKeyValue(key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	fmt.Println(keyStyle.Render(key) + " " + StyleValue.Render(value))
}

// printNextStep prints a suggested next command.
func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

// =============================================================================
// Stats Display
// =============================================================================

// statsLine formats graph size and cache status on a single line.
func statsLine(vertices, edges int, cached bool) string {
	parts := []string{
		humanize.Comma(int64(vertices)) + " vertices",
		humanize.Comma(int64(edges)) + " edges",
	}

	status := styleComputed.Render(iconFresh)
	if cached {
		status = styleCached.Render(iconCached)
	}

	line := "  "
	for i, part := range parts {
		if i > 0 {
			line += StyleDim.Render(" · ")
		}
		line += StyleDim.Render(part)
	}
	return line + StyleDim.Render(" · ") + status
}

// colorTable renders the edge count per family.
func colorTable(stats generator.Stats) string {
	exhausted := make(map[string]int, len(stats.Passes))
	for _, p := range stats.Passes {
		exhausted[p.Color.String()] = p.Exhausted
	}

	rows := make([][]string, 0, len(graph.Colors))
	for _, c := range graph.Colors {
		name := c.String()
		skipped := "—"
		if c != graph.Gray {
			skipped = humanize.Comma(int64(exhausted[name]))
		}
		rows = append(rows, []string{name, humanize.Comma(int64(stats.Colors[name])), skipped})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleTableBorder).
		Headers("Color", "Edges", "Exhausted").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleTableHeader
			}
			base := lipgloss.NewStyle().Padding(0, 1)
			if col == 0 {
				return base.Foreground(edgeColors[graph.Colors[row]])
			}
			return base.Foreground(colorWhite)
		}).
		Render()
}

// depthTable renders the vertex count per depth with a bar chart column.
func depthTable(counts []int) string {
	peak := 0
	for _, n := range counts {
		peak = max(peak, n)
	}
	const barWidth = 24

	rows := make([][]string, len(counts))
	for d, n := range counts {
		bar := ""
		if peak > 0 {
			bar = strings.Repeat("█", max(1, n*barWidth/peak))
		}
		rows[d] = []string{strconv.Itoa(d), humanize.Comma(int64(n)), bar}
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleTableBorder).
		Headers("Depth", "Vertices", "").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleTableHeader
			}
			base := lipgloss.NewStyle().Padding(0, 1)
			if col == 2 {
				return base.Foreground(colorCyan)
			}
			return base.Foreground(colorWhite)
		}).
		Render()
}

// historyTable renders archived runs, newest first.
func historyTable(runs []archive.Summary) string {
	rows := make([][]string, len(runs))
	for i, r := range runs {
		rows[i] = []string{
			r.ID,
			humanize.Time(r.CreatedAt),
			fmt.Sprintf("%d/%d", r.MaxDepthReached, r.MaxDepth),
			strconv.Itoa(r.NewVerticesNum),
			humanize.Comma(int64(r.Vertices)),
			humanize.Comma(int64(r.Edges)),
		}
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleTableBorder).
		Headers("Run", "Created", "Depth", "N", "Vertices", "Edges").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleTableHeader
			}
			base := lipgloss.NewStyle().Padding(0, 1)
			if col == 0 {
				return base.Foreground(colorCyan)
			}
			if col == 1 {
				return base.Foreground(colorGray)
			}
			return base.Foreground(colorWhite)
		}).
		Render()
}

// printRunSummary prints the outcome of a generation run.
func printRunSummary(runID string, params generator.Params, stats generator.Stats, warning string, cached bool) {
	printSuccess("Run %s", StyleHighlight.Render(runID))
	fmt.Println(statsLine(stats.Vertices, stats.Edges, cached))
	printNewline()

	printKeyValue("Max depth", fmt.Sprintf("%d (reached %d)", params.MaxDepth, stats.MaxDepthReached))
	printKeyValue("Attempts", strconv.Itoa(params.NewVerticesNum))
	printKeyValue("Seed", strconv.FormatUint(params.Seed, 10))
	if stats.Workers > 0 {
		printKeyValue("Workers", strconv.Itoa(stats.Workers))
	}
	if d := stats.TreeDuration + stats.ColorDuration; d > 0 {
		printKeyValue("Took", d.Round(time.Microsecond).String())
	}
	printNewline()

	fmt.Println(lipgloss.JoinHorizontal(lipgloss.Top, colorTable(stats), "  ", depthTable(stats.DepthCounts)))
	if warning != "" {
		printWarning("%s", warning)
	}
}

// printNewline prints an empty line.
func printNewline() {
	fmt.Println()
}
