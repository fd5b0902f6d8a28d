package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/raphi011/mgit/internal/config"
	"github.com/raphi011/mgit/internal/log"
	"github.com/raphi011/mgit/internal/registry"
	"github.com/raphi011/mgit/internal/ui/prompt"
)

func newCleanupCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:     "cleanup",
		Short:   "Discard the registry",
		GroupID: GroupRegistry,
		Args:    cobra.NoArgs,
		Long: `Discard the registry. It is moved to the trash directory in
mgit's home, so it can be restored by hand.`,
		Example: `  mgit cleanup      # Asks first on a terminal
  mgit cleanup -f   # No questions`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := config.FromContext(ctx)
			l := log.FromContext(ctx)

			if !force && interactive() {
				res, err := prompt.Confirm("Discard the registry?", cfg.RegistryDir())
				if err != nil {
					return err
				}
				if !res.Confirmed {
					return nil
				}
			}

			lock, err := registry.Lock(cfg.RegistryDir())
			if err != nil {
				return err
			}
			defer lock.Unlock()

			dest, err := registry.Clear(cfg.RegistryDir(), cfg.TrashDir())
			if err != nil {
				if errors.Is(err, registry.ErrNotInitialized) {
					return fmt.Errorf("%w: nothing to clean up", err)
				}
				return err
			}
			l.Printf("Registry moved to %s\n", dest)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Do not ask for confirmation")

	return cmd
}
