package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/raphi011/mgit/internal/config"
	"github.com/raphi011/mgit/internal/registry"
)

// repoTokens returns the names and ids of all registered repositories
// starting with toComplete, names first.
func repoTokens(cmd *cobra.Command, toComplete string) []string {
	cfg := config.FromContext(cmd.Context())
	reg, err := registry.Open(cfg.RegistryDir())
	if err != nil {
		return nil
	}

	var out []string
	for _, name := range reg.Names() {
		if strings.HasPrefix(name, toComplete) {
			out = append(out, name)
		}
	}
	for _, rec := range reg.List() {
		id := fmt.Sprint(rec.ID)
		if strings.HasPrefix(id, toComplete) {
			out = append(out, id+"\t"+rec.Name)
		}
	}
	return out
}

// completeRepoTokens completes any number of repository ids or names,
// leaving out those already given.
func completeRepoTokens(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	var out []string
	for _, tok := range repoTokens(cmd, toComplete) {
		bare, _, _ := strings.Cut(tok, "\t")
		if !slices.Contains(args, bare) {
			out = append(out, tok)
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}

// completeFirstRepoToken completes the repository argument, then files.
func completeFirstRepoToken(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveDefault
	}
	return repoTokens(cmd, toComplete), cobra.ShellCompDirectiveNoFileComp
}

// completeHookNames completes hook names from config.
func completeHookNames(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	cfg := config.FromContext(cmd.Context())

	var names []string
	for name, hook := range cfg.Hooks.Hooks {
		if !strings.HasPrefix(name, toComplete) {
			continue
		}
		if hook.Description != "" {
			names = append(names, name+"\t"+hook.Description)
		} else {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names, cobra.ShellCompDirectiveNoFileComp
}

// completeHookArg completes the hook name first, then repositories.
func completeHookArg(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) == 0 {
		return completeHookNames(cmd, args, toComplete)
	}
	return completeRepoTokens(cmd, args[1:], toComplete)
}
