package progress

import (
	"io"
	"sync"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"

	"github.com/raphi011/mgit/internal/ui/styles"
)

type spinnerText string

// Spinner shows activity of unknown length, such as scanning a master
// directory for repositories.
type Spinner struct {
	r *runner

	mu   sync.Mutex
	text string
}

type spinnerModel struct {
	spinner spinner.Model
	text    string
	updates <-chan tea.Msg
}

func (m spinnerModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, waitFor(m.updates))
}

func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinnerText:
		m.text = string(msg)
		return m, waitFor(m.updates)
	default:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
}

func (m spinnerModel) View() tea.View {
	return tea.NewView(m.spinner.View() + " " + m.text)
}

// NewSpinner creates a spinner drawing to out (normally stderr).
func NewSpinner(out io.Writer, text string) *Spinner {
	return &Spinner{r: newRunner(out), text: text}
}

// Start begins the animation.
func (s *Spinner) Start() {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.PrimaryStyle

	s.mu.Lock()
	model := spinnerModel{spinner: sp, text: s.text, updates: s.r.updates}
	s.mu.Unlock()
	s.r.start(model)
}

// SetText replaces the text next to the spinner.
func (s *Spinner) SetText(text string) {
	s.mu.Lock()
	s.text = text
	s.mu.Unlock()
	s.r.send(spinnerText(text))
}

// Text returns the current text.
func (s *Spinner) Text() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.text
}

// Stop removes the spinner from the terminal.
func (s *Spinner) Stop() {
	s.r.stop()
}
