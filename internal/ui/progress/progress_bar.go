package progress

import (
	"fmt"
	"io"
	"sync"

	"charm.land/bubbles/v2/progress"
	tea "charm.land/bubbletea/v2"

	"github.com/raphi011/mgit/internal/ui/styles"
)

// barState is a snapshot of a batch in flight.
type barState struct {
	done   int
	failed int
	last   string // repository finished most recently
}

// Bar counts repositories through a batch, e.g. a status pass over the
// whole registry.
type Bar struct {
	r     *runner
	label string
	total int

	mu    sync.Mutex
	state barState
}

type barModel struct {
	bar     progress.Model
	label   string
	total   int
	state   barState
	updates <-chan tea.Msg
}

func (m barModel) Init() tea.Cmd {
	return waitFor(m.updates)
}

func (m barModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case barState:
		m.state = msg
		return m, waitFor(m.updates)
	default:
		var cmd tea.Cmd
		m.bar, cmd = m.bar.Update(msg)
		return m, cmd
	}
}

func (m barModel) View() tea.View {
	percent := 0.0
	if m.total > 0 {
		percent = float64(m.state.done) / float64(m.total)
	}
	width := len(fmt.Sprint(m.total))

	// checking status ████████░░░░░░░░  3/8 api (1 failed)
	s := fmt.Sprintf("%s %s %*d/%d", m.label, m.bar.ViewAs(percent), width, m.state.done, m.total)
	if m.state.last != "" {
		s += " " + styles.MutedStyle.Render(m.state.last)
	}
	if m.state.failed > 0 {
		s += " " + styles.ErrorStyle.Render(fmt.Sprintf("(%d failed)", m.state.failed))
	}
	return tea.NewView(s)
}

// NewBar creates a bar for total repositories drawing to out (normally stderr).
func NewBar(out io.Writer, total int, label string) *Bar {
	return &Bar{r: newRunner(out), label: label, total: total}
}

// Start begins drawing.
func (b *Bar) Start() {
	bar := progress.New(
		progress.WithWidth(30),
		progress.WithoutPercentage(),
		progress.WithColors(styles.Primary, styles.Accent),
	)
	b.mu.Lock()
	model := barModel{bar: bar, label: b.label, total: b.total, state: b.state, updates: b.r.updates}
	b.mu.Unlock()
	b.r.start(model)
}

// Advance records that the repository name finished.
func (b *Bar) Advance(name string, failed bool) {
	b.mu.Lock()
	b.state.done++
	if failed {
		b.state.failed++
	}
	b.state.last = name
	state := b.state
	b.mu.Unlock()
	b.r.send(state)
}

// Done returns how many repositories finished and how many of them failed.
func (b *Bar) Done() (done, failed int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state.done, b.state.failed
}

// Stop removes the bar from the terminal.
func (b *Bar) Stop() {
	b.r.stop()
}
