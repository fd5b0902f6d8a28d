// Package progress shows what mgit is doing while it works through the
// registry: a spinner while scanning for repositories and a bar while a
// batch runs. Both draw on stderr and never read input.
package progress

import (
	"fmt"
	"io"
	"sync"
	"time"

	tea "charm.land/bubbletea/v2"
)

// runner owns the program behind an indicator. Models receive updates
// through the channel and quit when it is closed.
type runner struct {
	out     io.Writer
	updates chan tea.Msg
	done    chan struct{}

	mu      sync.Mutex
	program *tea.Program
	running bool
}

func newRunner(out io.Writer) *runner {
	return &runner{
		out:     out,
		updates: make(chan tea.Msg, 16),
		done:    make(chan struct{}),
	}
}

// waitFor returns a command delivering the next update.
func waitFor(updates <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-updates
		if !ok {
			return tea.Quit()
		}
		return msg
	}
}

func (r *runner) start(model tea.Model) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running {
		return
	}
	r.program = tea.NewProgram(model, tea.WithoutSignalHandler(), tea.WithOutput(r.out), tea.WithInput(nil))
	r.running = true
	go func() {
		_, _ = r.program.Run()
		close(r.done)
	}()
}

// send delivers msg without blocking; updates are dropped while the
// channel is full. Returns false if the runner is not running.
func (r *runner) send(msg tea.Msg) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.running {
		return false
	}
	select {
	case r.updates <- msg:
	default:
	}
	return true
}

func (r *runner) stop() {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return
	}
	r.running = false
	close(r.updates)
	r.mu.Unlock()

	r.program.Quit()
	select {
	case <-r.done:
	case <-time.After(500 * time.Millisecond):
	}
	fmt.Fprint(r.out, "\r\033[K")
}
