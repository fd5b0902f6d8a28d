package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/raphi011/mgit/internal/batch"
	"github.com/raphi011/mgit/internal/output"
	"github.com/raphi011/mgit/internal/registry"
)

// runSingle resolves token and runs op on that repository only. Unlike
// batch commands a failure is returned as the command's error.
func runSingle(ctx context.Context, token string, op func(rec registry.Record) (batch.Op, error)) error {
	exec, err := newExecutor(ctx, 1)
	if err != nil {
		return err
	}
	rec, err := resolveOne(exec.Registry(), token)
	if err != nil {
		return err
	}

	o, err := op(rec)
	if err != nil {
		return err
	}

	out := output.FromContext(ctx)
	sel := batch.Selection{Tokens: []string{fmt.Sprint(rec.ID)}}
	for res := range exec.Run(ctx, sel, o) {
		if text := strings.TrimRight(res.Output, "\n"); text != "" {
			out.Println(text)
		}
		if res.Err != nil {
			return fmt.Errorf("%s: %w", res.Name(), res.Err)
		}
	}
	return nil
}
