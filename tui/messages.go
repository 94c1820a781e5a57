package tui

import (
	"io"
	"strings"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lukemcguire/statuscat/crawler"
	"github.com/lukemcguire/statuscat/result"
)

// PageMsg reports a seed page that has been processed.
type PageMsg struct {
	URL    string
	Done   int
	Total  int
	Links  int
	Failed bool
}

// ProbeMsg reports a link whose status has been checked.
type ProbeMsg struct {
	URL    string
	Done   int
	Total  int
	Status result.Status
}

// RunDoneMsg signals the pipeline has finished.
type RunDoneMsg struct {
	Result *result.Result
	Err    error
}

// progressClosedMsg is sent once the event channel is closed. The final
// result always arrives separately as RunDoneMsg.
type progressClosedMsg struct{}

// waitForProgress returns a tea.Cmd that reads one event from the progress
// channel.
func waitForProgress(ch <-chan crawler.Event) tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-ch
		if !ok {
			return progressClosedMsg{}
		}
		switch evt.Kind {
		case crawler.EventPage:
			return PageMsg{URL: evt.URL, Done: evt.Done, Total: evt.Total, Links: evt.Links, Failed: evt.Failed}
		default:
			return ProbeMsg{URL: evt.URL, Done: evt.Done, Total: evt.Total, Status: evt.Status}
		}
	}
}

// LogWriter prints log output above the running program instead of
// tearing through its view. Once detached, or once the program has exited,
// output goes to the fallback writer.
type LogWriter struct {
	program  *tea.Program
	fallback io.Writer
	detached atomic.Bool
}

// NewLogWriter creates a LogWriter for program.
func NewLogWriter(program *tea.Program, fallback io.Writer) *LogWriter {
	return &LogWriter{program: program, fallback: fallback}
}

// Detach routes all further output to the fallback writer.
func (w *LogWriter) Detach() {
	w.detached.Store(true)
}

func (w *LogWriter) Write(p []byte) (int, error) {
	if w.detached.Load() {
		return w.fallback.Write(p)
	}
	// Send gives up once the program has exited; Program.Println would block.
	w.program.Send(tea.Println(strings.TrimRight(string(p), "\n"))())
	return len(p), nil
}
