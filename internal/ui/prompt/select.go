package prompt

import (
	"charm.land/bubbles/v2/list"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/raphi011/mgit/internal/ui/styles"
)

// Option is one entry of a [Select] prompt.
type Option struct {
	Label  string // e.g. "3: api"
	Detail string // shown below the label, e.g. the repository path
}

// SelectResult holds the result of a selection prompt.
type SelectResult struct {
	Index     int
	Cancelled bool
}

type optionItem struct {
	Option
	index int
}

func (i optionItem) Title() string       { return i.Label }
func (i optionItem) Description() string { return i.Detail }
func (i optionItem) FilterValue() string { return i.Label + " " + i.Detail }

type selectModel struct {
	list      list.Model
	done      bool
	cancelled bool
	selected  int
}

func (m selectModel) Init() tea.Cmd {
	return nil
}

func (m selectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		// While filtering, keys belong to the filter input.
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "enter":
			if item, ok := m.list.SelectedItem().(optionItem); ok {
				m.selected = item.index
			}
			m.done = true
			return m, tea.Quit
		case "ctrl+c", "esc", "q":
			m.cancelled = true
			m.done = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.list.SetWidth(msg.Width)
		return m, nil
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m selectModel) View() tea.View {
	if m.done {
		return tea.NewView("")
	}
	return tea.NewView(m.list.View())
}

func newSelectModel(title string, options []Option) selectModel {
	items := make([]list.Item, len(options))
	withDetail := false
	for i, opt := range options {
		items[i] = optionItem{Option: opt, index: i}
		withDetail = withDetail || opt.Detail != ""
	}

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = withDetail
	delegate.SetSpacing(0)
	delegate.Styles.SelectedTitle = lipgloss.NewStyle().Foreground(styles.Accent).Bold(true)
	delegate.Styles.SelectedDesc = styles.MutedStyle

	height := len(options) + 6
	if withDetail {
		height = 2*len(options) + 6
	}
	l := list.New(items, delegate, 72, min(height, 20))
	l.Title = title
	l.SetShowStatusBar(false)
	l.SetShowHelp(true)
	l.SetFilteringEnabled(len(options) > 5)
	l.DisableQuitKeybindings()

	return selectModel{list: l, selected: -1}
}

// Select lets the user pick one of options, typically repositories sharing
// a name. An empty options list counts as cancelled.
func Select(title string, options []Option) (SelectResult, error) {
	if len(options) == 0 {
		return SelectResult{Cancelled: true}, nil
	}

	final, err := newProgram(newSelectModel(title, options)).Run()
	if err != nil {
		return SelectResult{}, err
	}
	m := final.(selectModel)

	if m.cancelled || m.selected < 0 || m.selected >= len(options) {
		return SelectResult{Cancelled: true}, nil
	}
	return SelectResult{Index: m.selected}, nil
}
