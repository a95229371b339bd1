// Package domain defines the core business entities for noted.md.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Config: The persisted provider and Notion configuration
//   - ConversionJob: One file's end-to-end conversion unit of work
//   - ConversionResult: The terminal outcome of a job
//   - Provider: An AI backend capable of transcription
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
