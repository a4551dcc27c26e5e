package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/matzehuels/graphgen/pkg/graph"
	"github.com/matzehuels/graphgen/pkg/observability"
	"github.com/matzehuels/graphgen/pkg/pipeline"
)

const progressWidth = 32

var (
	barFullStyle  = lipgloss.NewStyle().Foreground(colorCyan)
	barEmptyStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// Messages
// =============================================================================

type treeProgressMsg struct{ completed, total int }

type treeDoneMsg struct {
	vertices int
	duration time.Duration
	err      error
}

type passDoneMsg struct {
	color    string
	edges    int
	duration time.Duration
}

type runDoneMsg struct {
	result *pipeline.Result
	err    error
}

// =============================================================================
// generateModel - live view of a generation run
// =============================================================================

// generateModel is the bubbletea model shown by "generate --tui".
type generateModel struct {
	completed, total int

	treeDone     bool
	vertices     int
	treeDuration time.Duration

	passes []passDoneMsg

	done     bool
	err      error
	quitting bool
}

func newGenerateModel() generateModel {
	return generateModel{}
}

func (m generateModel) Init() tea.Cmd {
	return nil
}

func (m generateModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		}
	case treeProgressMsg:
		m.completed, m.total = msg.completed, msg.total
	case treeDoneMsg:
		m.treeDone = true
		m.vertices = msg.vertices
		m.treeDuration = msg.duration
		if msg.err != nil {
			m.err = msg.err
		}
	case passDoneMsg:
		m.passes = append(m.passes, msg)
	case runDoneMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit
	}
	return m, nil
}

func (m generateModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Generating graph"))
	b.WriteString("\n\n")

	b.WriteString(fmt.Sprintf("  %-8s %s %s\n", "tree", progressBar(m.completed, m.total, progressWidth),
		StyleDim.Render(fmt.Sprintf("%d/%d jobs", m.completed, m.total))))
	if m.treeDone {
		b.WriteString(StyleDim.Render(fmt.Sprintf("           %s vertices in %s",
			humanize.Comma(int64(m.vertices)), m.treeDuration.Round(time.Microsecond))))
		b.WriteString("\n")
	}

	for _, p := range m.passes {
		name := p.color
		if c, err := graph.ParseColor(p.color); err == nil {
			name = lipgloss.NewStyle().Foreground(edgeColors[c]).Render(fmt.Sprintf("%-8s", p.color))
		}
		b.WriteString(fmt.Sprintf("  %s %s %s\n", name, styleIconSuccess.Render(iconSuccess),
			StyleDim.Render(fmt.Sprintf("%s edges in %s", humanize.Comma(int64(p.edges)), p.duration.Round(time.Microsecond)))))
	}

	b.WriteString("\n")
	switch {
	case m.err != nil:
		b.WriteString(styleIconError.Render(iconError) + " " + m.err.Error() + "\n")
	case m.done:
		b.WriteString(styleIconSuccess.Render(iconSuccess) + " done\n")
	case m.quitting:
		b.WriteString(StyleWarning.Render("cancelling...") + "\n")
	default:
		b.WriteString(StyleDim.Render("q quit") + "\n")
	}
	return b.String()
}

// progressBar renders completed/total as a fixed-width bar.
func progressBar(completed, total, width int) string {
	filled := 0
	if total > 0 {
		filled = min(width, completed*width/total)
	}
	return barFullStyle.Render(strings.Repeat("█", filled)) +
		barEmptyStyle.Render(strings.Repeat("░", width-filled))
}

// =============================================================================
// Hooks
// =============================================================================

// tuiHooks forwards generator events to a running program.
type tuiHooks struct {
	observability.NoopGeneratorHooks
	send func(tea.Msg)
}

func (h tuiHooks) OnTreeStart(_ context.Context, jobs, _ int) {
	h.send(treeProgressMsg{completed: 0, total: jobs})
}

func (h tuiHooks) OnJobComplete(_ context.Context, completed, total int) {
	h.send(treeProgressMsg{completed: completed, total: total})
}

func (h tuiHooks) OnTreeComplete(_ context.Context, vertices int, d time.Duration, err error) {
	h.send(treeDoneMsg{vertices: vertices, duration: d, err: err})
}

func (h tuiHooks) OnPassComplete(_ context.Context, color string, edges int, d time.Duration) {
	h.send(passDoneMsg{color: color, edges: edges, duration: d})
}

// runWithTUI runs fn while showing live progress. Quitting the view cancels
// the run.
func runWithTUI(ctx context.Context, fn func(context.Context) (*pipeline.Result, error)) (*pipeline.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(newGenerateModel(), tea.WithContext(ctx), tea.WithOutput(os.Stderr))
	prev := observability.SetGeneratorHooks(tuiHooks{send: p.Send})
	defer observability.SetGeneratorHooks(prev)

	done := make(chan runDoneMsg, 1)
	go func() {
		res, err := fn(ctx)
		msg := runDoneMsg{result: res, err: err}
		done <- msg
		p.Send(msg)
	}()

	_, err := p.Run()
	cancel()
	msg := <-done
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) && msg.err == nil {
		return nil, fmt.Errorf("progress view: %w", err)
	}
	return msg.result, msg.err
}
