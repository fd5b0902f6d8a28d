package main

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/sahilm/fuzzy"

	"github.com/raphi011/mgit/internal/batch"
	"github.com/raphi011/mgit/internal/config"
	"github.com/raphi011/mgit/internal/log"
	"github.com/raphi011/mgit/internal/output"
	"github.com/raphi011/mgit/internal/registry"
	"github.com/raphi011/mgit/internal/ui/progress"
	"github.com/raphi011/mgit/internal/ui/prompt"
	"github.com/raphi011/mgit/internal/ui/styles"
)

// maxSuggestions caps the "did you mean" list.
const maxSuggestions = 3

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// interactive reports whether the user can answer prompts.
func interactive() bool {
	return isTerminal(os.Stdin) && isTerminal(os.Stderr)
}

// showProgress reports whether spinners and progress bars should be drawn.
func showProgress() bool {
	return !quiet && isTerminal(os.Stderr)
}

// openRegistry loads the registry, pointing the user at setup when missing.
func openRegistry(ctx context.Context) (*registry.Registry, error) {
	cfg := config.FromContext(ctx)
	reg, err := registry.Open(cfg.RegistryDir())
	if errors.Is(err, registry.ErrNotInitialized) {
		return nil, fmt.Errorf("%w: run 'mgit setup' first", err)
	}
	return reg, err
}

// newExecutor opens the registry for a batch command. jobs <= 0 uses the
// configured default.
func newExecutor(ctx context.Context, jobs int) (*batch.Executor, error) {
	cfg := config.FromContext(ctx)
	reg, err := openRegistry(ctx)
	if err != nil {
		return nil, err
	}
	if jobs <= 0 {
		jobs = cfg.Jobs
	}
	return batch.New(reg, batch.WithJobs(jobs), batch.WithMessage(cfg.CommitMessage)), nil
}

// selection turns positional tokens into a batch selection; no tokens means all.
func selection(all bool, tokens []string) batch.Selection {
	if all || len(tokens) == 0 {
		return batch.Selection{All: true}
	}
	return batch.Selection{Tokens: tokens}
}

// suggest returns registered names resembling token, best match first.
func suggest(token string, names []string) []string {
	matches := fuzzy.Find(token, names)
	out := make([]string, 0, min(len(matches), maxSuggestions))
	for _, m := range matches {
		if len(out) == maxSuggestions {
			break
		}
		out = append(out, m.Str)
	}
	return out
}

// resolveOne looks up a single token. Unknown names get "did you mean"
// suggestions; an ambiguous name is settled with a prompt when possible.
func resolveOne(reg *registry.Registry, token string) (registry.Record, error) {
	rec, err := reg.Get(token)
	if err == nil {
		return rec, nil
	}

	var lookupErr *registry.LookupError
	if !errors.As(err, &lookupErr) {
		return registry.Record{}, err
	}

	switch {
	case errors.Is(err, registry.ErrUnknownName):
		if s := suggest(token, reg.Names()); len(s) > 0 {
			return registry.Record{}, fmt.Errorf("%w (did you mean %s?)", err, strings.Join(s, ", "))
		}
	case errors.Is(err, registry.ErrAmbiguousName) && interactive():
		return pickRecord(reg, lookupErr.IDs, token)
	}
	return registry.Record{}, err
}

// pickRecord lets the user choose between records sharing a name.
func pickRecord(reg *registry.Registry, ids []int, token string) (registry.Record, error) {
	candidates := make([]registry.Record, 0, len(ids))
	options := make([]prompt.Option, 0, len(ids))
	for _, id := range ids {
		rec, err := reg.Get(fmt.Sprint(id))
		if err != nil {
			continue
		}
		candidates = append(candidates, rec)
		options = append(options, prompt.Option{Label: fmt.Sprintf("%d: %s", rec.ID, rec.Name), Detail: rec.Path})
	}

	res, err := prompt.Select(fmt.Sprintf("Several repositories are named %q:", token), options)
	if err != nil {
		return registry.Record{}, err
	}
	if res.Cancelled {
		return registry.Record{}, fmt.Errorf("cancelled")
	}
	return candidates[res.Index], nil
}

// withProgress advances bar as results are consumed. A nil bar is a no-op.
func withProgress(results iter.Seq[batch.Result], bar *progress.Bar) iter.Seq[batch.Result] {
	if bar == nil {
		return results
	}
	return func(yield func(batch.Result) bool) {
		for res := range results {
			bar.Advance(res.Name(), res.Err != nil)
			if !yield(res) {
				return
			}
		}
	}
}

// heading renders the per-repository title used by batch output.
func heading(res batch.Result) string {
	if res.Record.ID == 0 {
		return styles.AccentStyle.Render(res.Name())
	}
	return styles.AccentStyle.Render(fmt.Sprintf("%d: %s", res.Record.ID, res.Name()))
}

// printResults writes each repository's output under a heading. Failures
// are reported but do not stop the batch. each, when set, runs after every
// repository the operation ran on. Returns the number of failures.
func printResults(ctx context.Context, results iter.Seq[batch.Result], each func(batch.Result)) int {
	l := log.FromContext(ctx)
	out := output.FromContext(ctx)

	failed := 0
	for res := range results {
		if res.Skipped() {
			failed++
			l.Warnf("skipping %s: %v", res.Name(), res.Err)
			continue
		}

		out.Println(heading(res))
		if text := strings.TrimRight(res.Output, "\n"); text != "" {
			out.Println(text)
		}
		if res.Err != nil {
			failed++
			l.Printf("%s\n", styles.ErrorStyle.Render(fmt.Sprintf("%s: %v", res.Name(), res.Err)))
		}
		out.Println()

		if each != nil {
			each(res)
		}
	}
	return failed
}
