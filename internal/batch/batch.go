// Package batch runs one git operation over a selection of registered
// repositories.
//
// [Executor.Run] is lazy: repositories are resolved and processed as the
// returned sequence is consumed, and results arrive in selection order. A
// repository that cannot be resolved or has moved yields a skipped [Result]
// and the batch continues with the next one.
package batch

import (
	"context"
	"iter"

	"golang.org/x/sync/errgroup"

	"github.com/raphi011/mgit/internal/git"
	"github.com/raphi011/mgit/internal/log"
	"github.com/raphi011/mgit/internal/registry"
)

// Selection names the repositories a batch runs on.
type Selection struct {
	All    bool     // every record, in ID order
	Tokens []string // IDs or names, in the given order; ignored when All is set
}

// Op is a named operation over one repository handle.
type Op struct {
	Name string
	Run  func(ctx context.Context, h *git.Handle) (string, error)
}

// Status fetches and returns "git status".
func Status() Op {
	return Op{Name: "status", Run: func(ctx context.Context, h *git.Handle) (string, error) {
		return h.Status(ctx)
	}}
}

// Pull runs "git pull".
func Pull() Op {
	return Op{Name: "pull", Run: func(ctx context.Context, h *git.Handle) (string, error) {
		return h.Pull(ctx)
	}}
}

// Push runs "git push".
func Push() Op {
	return Op{Name: "push", Run: func(ctx context.Context, h *git.Handle) (string, error) {
		return h.Push(ctx)
	}}
}

// Fetch runs "git fetch"; the result carries no text.
func Fetch() Op {
	return Op{Name: "fetch", Run: func(ctx context.Context, h *git.Handle) (string, error) {
		return "", h.Fetch(ctx)
	}}
}

// Commit commits staged changes with message, or the handle default when empty.
func Commit(message string) Op {
	return Op{Name: "commit", Run: func(ctx context.Context, h *git.Handle) (string, error) {
		return h.Commit(ctx, message)
	}}
}

// Add stages pathspec ("." when empty).
func Add(pathspec ...string) Op {
	return Op{Name: "add", Run: func(ctx context.Context, h *git.Handle) (string, error) {
		return h.Add(ctx, pathspec...)
	}}
}

// AddCommit stages everything and commits it.
func AddCommit(message string) Op {
	return Op{Name: "commit", Run: func(ctx context.Context, h *git.Handle) (string, error) {
		added, err := h.Add(ctx)
		if err != nil {
			return added, err
		}
		out, err := h.Commit(ctx, message)
		return added + out, err
	}}
}

// Reset moves HEAD back n commits, keeping the working tree.
func Reset(n int) Op {
	return Op{Name: "reset", Run: func(ctx context.Context, h *git.Handle) (string, error) {
		return h.Reset(ctx, n)
	}}
}

// Result is the outcome of an operation on one repository.
type Result struct {
	Token  string          // token as given; empty for All selections
	Record registry.Record // zero when Token did not resolve
	Output string          // combined git output
	Err    error

	skipped bool
}

// Skipped reports whether the operation never ran, because the token did
// not resolve or the repository has moved.
func (r Result) Skipped() bool {
	return r.skipped
}

// Name returns the repository name, or the token when it did not resolve.
func (r Result) Name() string {
	if r.Record.Name != "" {
		return r.Record.Name
	}
	return r.Token
}

// Executor materializes handles from a registry and runs operations on them.
type Executor struct {
	reg     *registry.Registry
	exe     git.Executable
	message string
	jobs    int
}

// Option configures an [Executor].
type Option func(*Executor)

// WithJobs sets how many repositories are processed at once. Values below 2
// mean strictly sequential.
func WithJobs(n int) Option {
	return func(e *Executor) { e.jobs = n }
}

// WithMessage sets the default commit message for handles.
func WithMessage(msg string) Option {
	return func(e *Executor) { e.message = msg }
}

// WithExecutable overrides the git executable recorded in the registry.
func WithExecutable(exe git.Executable) Option {
	return func(e *Executor) { e.exe = exe }
}

// New creates an executor over reg using the git path recorded at setup.
func New(reg *registry.Registry, opts ...Option) *Executor {
	e := &Executor{reg: reg, exe: git.Executable{Path: reg.GitPath}, jobs: 1}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Open loads the registry in dir and creates an executor for it.
// Returns registry.ErrNotInitialized when setup has not been run.
func Open(dir string, opts ...Option) (*Executor, error) {
	reg, err := registry.Open(dir)
	if err != nil {
		return nil, err
	}
	return New(reg, opts...), nil
}

// Registry returns the registry the executor reads.
func (e *Executor) Registry() *registry.Registry {
	return e.reg
}

// target is one selected repository before the operation runs.
type target struct {
	token  string
	record registry.Record
	err    error
}

func (e *Executor) targets(sel Selection) []target {
	if sel.All || len(sel.Tokens) == 0 {
		records := e.reg.List()
		out := make([]target, len(records))
		for i, rec := range records {
			out[i] = target{record: rec}
		}
		return out
	}

	out := make([]target, len(sel.Tokens))
	for i, tok := range sel.Tokens {
		rec, err := e.reg.Get(tok)
		out[i] = target{token: tok, record: rec, err: err}
	}
	return out
}

// Run applies op to the selected repositories. An empty selection means all.
func (e *Executor) Run(ctx context.Context, sel Selection, op Op) iter.Seq[Result] {
	return func(yield func(Result) bool) {
		targets := e.targets(sel)
		if e.jobs > 1 && len(targets) > 1 {
			e.runParallel(ctx, targets, op, yield)
			return
		}
		for _, t := range targets {
			if !yield(e.runOne(ctx, t, op)) {
				return
			}
		}
	}
}

// runParallel runs up to e.jobs operations at once and yields in target order.
func (e *Executor) runParallel(ctx context.Context, targets []target, op Op, yield func(Result) bool) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make([]Result, len(targets))
	ready := make([]chan struct{}, len(targets))
	for i := range ready {
		ready[i] = make(chan struct{})
	}

	var g errgroup.Group
	g.SetLimit(e.jobs)
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		for i, t := range targets {
			g.Go(func() error {
				results[i] = e.runOne(ctx, t, op)
				close(ready[i])
				return nil // failures are reported per result
			})
		}
		_ = g.Wait()
	}()

	for i := range targets {
		<-ready[i]
		if !yield(results[i]) {
			cancel()
			break
		}
	}
	<-finished
}

func (e *Executor) runOne(ctx context.Context, t target, op Op) Result {
	res := Result{Token: t.token, Record: t.record}
	if t.err != nil {
		res.Err = t.err
		res.skipped = true
		return res
	}

	h, err := git.Open(t.record.Name, t.record.Path, e.exe, git.WithMessage(e.message))
	if err != nil {
		log.FromContext(ctx).Debug("skipping", "repo", t.record.Name, "error", err)
		res.Err = err
		res.skipped = true
		return res
	}

	log.FromContext(ctx).Debug("running", "op", op.Name, "repo", t.record.Name, "path", t.record.Path)
	res.Output, res.Err = op.Run(ctx, h)
	return res
}
