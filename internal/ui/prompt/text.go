package prompt

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"github.com/raphi011/mgit/internal/ui/styles"
)

// InputResult holds the result of an [Input] prompt.
type InputResult struct {
	Value     string
	Cancelled bool
}

type inputModel struct {
	textInput textinput.Model
	title     string
	fallback  string
	done      bool
	cancelled bool
}

func (m inputModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m inputModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyPressMsg); ok {
		switch key.String() {
		case "enter":
			m.done = true
			return m, tea.Quit
		case "ctrl+c", "esc":
			m.cancelled = true
			m.done = true
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

func (m inputModel) View() tea.View {
	if m.done {
		return tea.NewView("")
	}
	s := m.title + "\n" + m.textInput.View()
	if m.fallback != "" {
		s += "\n" + styles.MutedStyle.Render("enter keeps \""+m.fallback+"\", esc cancels")
	}
	return tea.NewView(s)
}

// value is the trimmed answer, or the fallback for an empty answer.
func (m inputModel) value() string {
	if v := strings.TrimSpace(m.textInput.Value()); v != "" {
		return v
	}
	return m.fallback
}

func newInputModel(title, fallback string) inputModel {
	ti := textinput.New()
	ti.Placeholder = fallback
	ti.Focus()
	ti.CharLimit = 200
	ti.SetWidth(60)
	return inputModel{textInput: ti, title: title, fallback: fallback}
}

// Input asks for a single line such as a commit message. An empty answer
// yields fallback.
func Input(title, fallback string) (InputResult, error) {
	final, err := newProgram(newInputModel(title, fallback)).Run()
	if err != nil {
		return InputResult{}, err
	}
	m := final.(inputModel)
	if m.cancelled {
		return InputResult{Cancelled: true}, nil
	}
	return InputResult{Value: m.value()}, nil
}
