// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - Transcriber: Sends file bytes to an AI backend, returns Markdown
//   - ConfigStore: Persisted provider and Notion configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - Publisher: Posts finished Markdown to Notion. Without it, results
//     are written to the local filesystem only.
//   - HistoryStore: Records finished jobs. Without it, 'history' is empty.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
