package approval

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// TeaPrompter runs a one-line bubbletea input for the answer
type TeaPrompter struct {
	In  io.Reader
	Out io.Writer
}

func (p *TeaPrompter) Confirm(ctx context.Context, question string) (bool, error) {
	prog := tea.NewProgram(
		newConfirmModel(question),
		tea.WithContext(ctx),
		tea.WithInput(p.In),
		tea.WithOutput(p.Out),
	)
	final, err := prog.Run()
	if err != nil {
		if errors.Is(err, tea.ErrInterrupted) {
			return false, nil
		}
		return false, fmt.Errorf("approval prompt failed: %w", err)
	}

	m, ok := final.(confirmModel)
	if !ok || m.cancelled {
		return false, nil
	}
	return IsAffirmative(m.input.Value()), nil
}

type confirmModel struct {
	input     textinput.Model
	done      bool
	cancelled bool
}

func newConfirmModel(question string) confirmModel {
	ti := textinput.New()
	ti.Prompt = question
	ti.Placeholder = "y/n"
	ti.CharLimit = 16
	ti.Focus()
	return confirmModel{input: ti}
}

func (m confirmModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEnter:
			m.done = true
			return m, tea.Quit
		case tea.KeyCtrlC, tea.KeyEsc:
			m.done = true
			m.cancelled = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m confirmModel) View() string {
	if m.done {
		return m.input.Prompt + m.input.Value() + "\n"
	}
	return m.input.View()
}
