package prompt

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
)

func keyPress(key string) tea.KeyPressMsg {
	switch key {
	case "ctrl+c":
		return tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl}
	case "enter":
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	case "esc":
		return tea.KeyPressMsg{Code: tea.KeyEscape}
	case "down":
		return tea.KeyPressMsg{Code: tea.KeyDown}
	default:
		return tea.KeyPressMsg{Code: rune(key[0]), Text: key}
	}
}

func TestConfirmModel_Update(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		key       string
		answer    bool
		done      bool
		cancelled bool
	}{
		{"y confirms", "y", true, true, false},
		{"Y confirms", "Y", true, true, false},
		{"n declines", "n", false, true, false},
		{"enter defaults no", "enter", false, true, false},
		{"ctrl+c cancels", "ctrl+c", false, true, true},
		{"esc cancels", "esc", false, true, true},
		{"q cancels", "q", false, true, true},
		{"unhandled is no-op", "x", false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m := confirmModel{question: "Discard the registry?"}
			updated, cmd := m.Update(keyPress(tt.key))
			um := updated.(confirmModel)

			if um.answer != tt.answer || um.done != tt.done || um.cancelled != tt.cancelled {
				t.Errorf("answer=%v done=%v cancelled=%v, want answer=%v done=%v cancelled=%v",
					um.answer, um.done, um.cancelled, tt.answer, tt.done, tt.cancelled)
			}
			if (cmd != nil) != tt.done {
				t.Errorf("cmd returned = %v, want %v", cmd != nil, tt.done)
			}
		})
	}
}

func TestConfirmModel_View(t *testing.T) {
	t.Parallel()

	m := confirmModel{question: "Regenerate it?", detail: "/home/me/.mgit/registry"}
	view := m.View().Content
	if !strings.Contains(view, "Regenerate it?") || !strings.Contains(view, "/home/me/.mgit/registry") {
		t.Errorf("View() = %q, want question and detail", view)
	}
	if !strings.Contains(view, "[y/N]") {
		t.Errorf("View() = %q, want [y/N] hint", view)
	}

	m.done = true
	if got := m.View().Content; got != "" {
		t.Errorf("View() after answer = %q, want empty", got)
	}
}

func TestSelectModel_Update(t *testing.T) {
	t.Parallel()

	options := []Option{
		{Label: "2: api", Detail: "/src/team-a/api"},
		{Label: "5: api", Detail: "/src/team-b/api"},
	}

	tests := []struct {
		name      string
		keys      []string
		selected  int
		cancelled bool
	}{
		{"enter picks first", []string{"enter"}, 0, false},
		{"down then enter picks second", []string{"down", "enter"}, 1, false},
		{"esc cancels", []string{"esc"}, -1, true},
		{"q cancels", []string{"q"}, -1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var m tea.Model = newSelectModel("Several repositories are named \"api\":", options)
			for _, k := range tt.keys {
				m, _ = m.Update(keyPress(k))
			}
			sm := m.(selectModel)
			if !sm.done {
				t.Fatal("model should be done")
			}
			if sm.cancelled != tt.cancelled {
				t.Errorf("cancelled = %v, want %v", sm.cancelled, tt.cancelled)
			}
			if !tt.cancelled && sm.selected != tt.selected {
				t.Errorf("selected = %d, want %d", sm.selected, tt.selected)
			}
		})
	}
}

func TestSelectModel_Filtering(t *testing.T) {
	t.Parallel()

	few := newSelectModel("pick", []Option{{Label: "1: a"}, {Label: "2: a"}})
	if few.list.FilteringEnabled() {
		t.Error("filtering should be off for short lists")
	}

	many := make([]Option, 8)
	for i := range many {
		many[i] = Option{Label: "repo"}
	}
	if !newSelectModel("pick", many).list.FilteringEnabled() {
		t.Error("filtering should be on for long lists")
	}
}

func TestSelect_NoOptions(t *testing.T) {
	t.Parallel()

	res, err := Select("Pick", nil)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Cancelled {
		t.Error("Select() with no options should be cancelled")
	}
}

func TestInputModel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		keys      []string
		value     string
		cancelled bool
	}{
		{"empty answer keeps fallback", []string{"enter"}, "minor changes", false},
		{"typed answer", []string{"f", "i", "x", "enter"}, "fix", false},
		{"esc cancels", []string{"f", "esc"}, "", true},
		{"ctrl+c cancels", []string{"ctrl+c"}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var m tea.Model = newInputModel("Commit message for api:", "minor changes")
			for _, k := range tt.keys {
				m, _ = m.Update(keyPress(k))
			}
			im := m.(inputModel)
			if !im.done {
				t.Fatal("model should be done")
			}
			if im.cancelled != tt.cancelled {
				t.Errorf("cancelled = %v, want %v", im.cancelled, tt.cancelled)
			}
			if !tt.cancelled && im.value() != tt.value {
				t.Errorf("value() = %q, want %q", im.value(), tt.value)
			}
		})
	}
}

func TestInputModel_View(t *testing.T) {
	t.Parallel()

	m := newInputModel("Commit message for api:", "minor changes")
	view := m.View().Content
	if !strings.Contains(view, "Commit message for api:") {
		t.Errorf("View() = %q, want title", view)
	}
	if !strings.Contains(view, `enter keeps "minor changes"`) {
		t.Errorf("View() = %q, want fallback hint", view)
	}
}
