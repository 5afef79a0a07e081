// Package tui is the interactive herd shell: a prompt whose lines run
// through the same command router as the one-shot CLI.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// Runner executes one command string and returns the text to show.
type Runner interface {
	Execute(ctx context.Context, input string) string
}

// entry is one command and its response in the transcript.
type entry struct {
	input  string
	output string
}

// Model is the top-level bubbletea model.
type Model struct {
	ctx    context.Context
	runner Runner
	width  int
	height int

	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model

	transcript []entry

	// running is set while a command is in flight; the prompt ignores
	// submissions until it clears, so commands never overlap.
	running bool
	pending string

	quitting bool
}

// New creates a shell model bound to ctx.
func New(ctx context.Context, r Runner) Model {
	ti := textinput.New()
	ti.Placeholder = "?help"
	ti.Prompt = "› "
	ti.CharLimit = 2000
	ti.Width = 60
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = spinnerStyle

	return Model{
		ctx:      ctx,
		runner:   r,
		input:    ti,
		viewport: viewport.New(80, 20),
		spinner:  sp,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

type resultMsg struct {
	input  string
	output string
}

// runCommand executes line off the UI goroutine.
func (m Model) runCommand(line string) tea.Cmd {
	return func() tea.Msg {
		return resultMsg{input: line, output: m.runner.Execute(m.ctx, line)}
	}
}
