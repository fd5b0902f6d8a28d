// Package doctor provides diagnostics for mgit's registry and report history.
//
// The doctor package detects:
//
//   - Git issues: the executable recorded at setup is gone or no longer works.
//
//   - Registry issues: registered repositories that moved, stopped being git
//     repositories, or are registered twice, and a report directory that is
//     not a directory.
//
//   - History issues: history entries whose report file was deleted.
//
// Registry issues can only be repaired by a new registration pass, since
// the registry is never partially updated. Stale history entries are
// removed with fix.
//
// # Usage
//
//	res, err := doctor.Run(ctx, os.Stdout, reg, cfg.HistoryPath(), false) // check only
//	res, err := doctor.Run(ctx, os.Stdout, reg, cfg.HistoryPath(), true)  // check and fix
package doctor
