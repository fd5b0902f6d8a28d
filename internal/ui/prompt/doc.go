// Package prompt provides the interactive questions mgit asks.
//
// Prompts render on stderr so stdout stays clean for piping. Callers only
// show them when stdin is a terminal.
//
//   - [Confirm]: replacing or discarding a registry
//   - [Input]: the commit message for a single repository
//   - [Select]: choosing between repositories that share a name
package prompt
