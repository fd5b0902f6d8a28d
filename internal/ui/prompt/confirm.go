package prompt

import (
	tea "charm.land/bubbletea/v2"

	"github.com/raphi011/mgit/internal/ui/styles"
)

// ConfirmResult holds the result of a confirmation prompt.
type ConfirmResult struct {
	Confirmed bool
	Cancelled bool
}

type confirmModel struct {
	question  string
	detail    string
	answer    bool
	done      bool
	cancelled bool
}

func (m confirmModel) Init() tea.Cmd {
	return nil
}

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "y", "Y":
		m.answer = true
	case "n", "N", "enter":
		m.answer = false
	case "ctrl+c", "q", "esc":
		m.cancelled = true
	default:
		return m, nil
	}
	m.done = true
	return m, tea.Quit
}

func (m confirmModel) View() tea.View {
	if m.done {
		return tea.NewView("")
	}
	s := m.question + " " + styles.MutedStyle.Render("[y/N]") + " "
	if m.detail != "" {
		s = styles.MutedStyle.Render(m.detail) + "\n" + s
	}
	return tea.NewView(s)
}

// Confirm asks a yes/no question about a destructive registry operation.
// detail (usually the affected path) is shown above the question. Enter
// answers "no".
func Confirm(question, detail string) (ConfirmResult, error) {
	final, err := newProgram(confirmModel{question: question, detail: detail}).Run()
	if err != nil {
		return ConfirmResult{}, err
	}
	m := final.(confirmModel)
	return ConfirmResult{Confirmed: m.answer && !m.cancelled, Cancelled: m.cancelled}, nil
}
