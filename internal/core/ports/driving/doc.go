// Package driving defines the interfaces through which the outside world
// drives the core (primary ports). The CLI, the directory watcher, and
// the MCP server all talk to the core through these.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driving
