package hooks

import "path/filepath"

// ContextFromRepo builds a Context for one repository of a batch.
func ContextFromRepo(repoPath string, trigger CommandType, env map[string]string) Context {
	return Context{
		Path:    repoPath,
		Repo:    filepath.Base(repoPath),
		Trigger: string(trigger),
		Env:     env,
	}
}

// ContextFromReport builds a Context for a written status report.
func ContextFromReport(reportPath string, env map[string]string) Context {
	return Context{
		Path:    reportPath,
		Trigger: string(CommandStatus),
		Env:     env,
	}
}
