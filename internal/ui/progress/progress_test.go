package progress

import (
	"io"
	"strings"
	"testing"

	"charm.land/bubbles/v2/progress"
	tea "charm.land/bubbletea/v2"
)

func TestBar_AdvanceBeforeStart(t *testing.T) {
	t.Parallel()

	b := NewBar(io.Discard, 4, "checking status")
	b.Advance("api", false)
	b.Advance("web", true)
	b.Advance("cli", false)

	done, failed := b.Done()
	if done != 3 || failed != 1 {
		t.Errorf("Done() = %d, %d, want 3, 1", done, failed)
	}
	// Stop without Start must not block or panic.
	b.Stop()
}

func TestBarModel_View(t *testing.T) {
	t.Parallel()

	m := barModel{
		bar:   progress.New(progress.WithWidth(10), progress.WithoutPercentage()),
		label: "pull",
		total: 12,
	}
	if v := m.View().Content; !strings.Contains(v, "pull") || !strings.Contains(v, " 0/12") {
		t.Errorf("View() = %q, want label and 0/12", v)
	}

	updates := make(chan tea.Msg)
	m.updates = updates
	next, cmd := m.Update(barState{done: 3, failed: 1, last: "api"})
	if cmd == nil {
		t.Error("Update() should wait for the next state")
	}
	v := next.(barModel).View().Content
	for _, want := range []string{" 3/12", "api", "(1 failed)"} {
		if !strings.Contains(v, want) {
			t.Errorf("View() = %q, want %q", v, want)
		}
	}
}

func TestBarModel_NoFailures(t *testing.T) {
	t.Parallel()

	m := barModel{bar: progress.New(progress.WithWidth(10)), label: "fetch", total: 2, state: barState{done: 2, last: "web"}}
	if v := m.View().Content; strings.Contains(v, "failed") {
		t.Errorf("View() = %q, should not mention failures", v)
	}
}

func TestSpinner_SetTextBeforeStart(t *testing.T) {
	t.Parallel()

	s := NewSpinner(io.Discard, "Scanning")
	s.SetText("Scanning /src")
	if got := s.Text(); got != "Scanning /src" {
		t.Errorf("Text() = %q, want %q", got, "Scanning /src")
	}
	s.Stop()
}

func TestRunner_SendWhenStopped(t *testing.T) {
	t.Parallel()

	r := newRunner(io.Discard)
	if r.send(spinnerText("x")) {
		t.Error("send() should report false before start")
	}
}
