// Package tui provides the Bubble Tea terminal UI for statuscat, showing
// live collection and probing progress and a styled summary of results.
package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lukemcguire/statuscat/crawler"
	"github.com/lukemcguire/statuscat/result"
)

const (
	minBarWidth = 10
	maxBarWidth = 60
)

// Runner runs the link pipeline. *crawler.Crawler satisfies it.
type Runner interface {
	Run(ctx context.Context) (*result.Result, error)
}

type phase int

const (
	phaseCollect phase = iota
	phaseProbe
)

// Model is the Bubble Tea model for the statuscat TUI.
type Model struct {
	ctx      context.Context
	cancel   context.CancelFunc
	runner   Runner
	spinner  spinner.Model
	bar      progress.Model
	eventsCh <-chan crawler.Event

	phase       phase
	pagesDone   int
	pagesTotal  int
	linksFound  int
	probed      int
	total       int
	unreachable int
	current     string
	quitting    bool
	done        bool
	result      *result.Result
	err         error
}

// NewModel creates a TUI model wired to the given runner and event channel.
func NewModel(ctx context.Context, cancel context.CancelFunc, runner Runner, eventsCh <-chan crawler.Event) Model {
	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	return Model{
		ctx:      ctx,
		cancel:   cancel,
		runner:   runner,
		spinner:  spin,
		bar:      progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		eventsCh: eventsCh,
	}
}

// Init starts the spinner, the pipeline and the progress listener.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.startRun(), waitForProgress(m.eventsCh))
}

// startRun returns a tea.Cmd that runs the pipeline and sends RunDoneMsg.
func (m Model) startRun() tea.Cmd {
	return func() tea.Msg {
		res, err := m.runner.Run(m.ctx)
		if err != nil {
			err = fmt.Errorf("run: %w", err)
		}
		return RunDoneMsg{Result: res, Err: err}
	}
}

// Update handles messages from the Bubble Tea runtime.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.quitting = true
			m.cancel()
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.bar.Width = max(min(msg.Width-4, maxBarWidth), minBarWidth)

	case PageMsg:
		m.pagesDone = msg.Done
		m.pagesTotal = msg.Total
		m.linksFound += msg.Links
		m.current = msg.URL
		return m, waitForProgress(m.eventsCh)

	case ProbeMsg:
		m.phase = phaseProbe
		m.probed = msg.Done
		m.total = msg.Total
		if msg.Status.IsUnreachable() {
			m.unreachable++
		}
		m.current = msg.URL
		return m, waitForProgress(m.eventsCh)

	case progressClosedMsg:
		return m, nil

	case RunDoneMsg:
		m.done = true
		m.result = msg.Result
		m.err = msg.Err
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the current TUI state.
func (m Model) View() string {
	if m.done && m.result != nil {
		return RenderSummary(m.result)
	}
	if m.done && m.err != nil {
		return errorStyle.Render("Error: "+m.err.Error()) + "\n"
	}
	if m.quitting {
		return dimStyle.Render("Canceled, no report written.") + "\n"
	}

	if m.phase == phaseCollect {
		return fmt.Sprintf("%s Collecting links... page %d/%d, %d links found\n%s\n",
			m.spinner.View(), m.pagesDone, m.pagesTotal, m.linksFound,
			dimStyle.Render("  "+m.current))
	}

	percent := 0.0
	if m.total > 0 {
		percent = float64(m.probed) / float64(m.total)
	}
	return fmt.Sprintf("%s Checking links %d/%d, %d unreachable\n%s\n%s\n",
		m.spinner.View(), m.probed, m.total, m.unreachable,
		m.bar.ViewAs(percent),
		dimStyle.Render("  "+m.current))
}

// Canceled reports whether the user quit before the run finished.
func (m Model) Canceled() bool {
	return m.quitting && !m.done
}

// GetResult returns the run result for report rendering.
func (m Model) GetResult() *result.Result {
	return m.result
}

// Err returns the error the run finished with, if any.
func (m Model) Err() error {
	return m.err
}
