package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
)

// doneMsg reports that the work behind a spinner has finished.
type doneMsg struct{ err error }

// waitModel shows a spinner until its work sends a doneMsg.
// Ctrl+C cancels the work; the model still waits for it to return.
type waitModel struct {
	spinner  spinner.Model
	message  string
	work     tea.Cmd
	cancel   context.CancelFunc
	err      error
	finished bool
}

func newWaitModel(message string, cancel context.CancelFunc, work tea.Cmd) waitModel {
	return waitModel{
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(styleIconSpinner),
		),
		message: message,
		work:    work,
		cancel:  cancel,
	}
}

func (m waitModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.work)
}

func (m waitModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case doneMsg:
		m.err = msg.err
		m.finished = true
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.cancel()
		}
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m waitModel) View() string {
	if m.finished {
		return ""
	}
	return fmt.Sprintf("%s %s\n", m.spinner.View(), StyleDim.Render(m.message))
}

// withSpinner runs fn while a spinner on stderr shows message. When stderr
// is not a terminal fn runs without one.
func withSpinner(ctx context.Context, message string, fn func(context.Context) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if !isatty.IsTerminal(os.Stderr.Fd()) {
		return fn(ctx)
	}

	work := func() tea.Msg { return doneMsg{err: fn(ctx)} }
	final, err := tea.NewProgram(newWaitModel(message, cancel, work), tea.WithOutput(os.Stderr)).Run()
	if err != nil {
		cancel()
		return fmt.Errorf("spinner: %w", err)
	}
	return final.(waitModel).err
}
