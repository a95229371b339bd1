// Package mcp exposes conversions over the Model Context Protocol so AI
// assistants can transcribe handwritten notes on the user's behalf.
package mcp

import (
	"github.com/notedmd/notedmd-cli/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces required by the MCP
// server. This provides a single injection point for dependency
// injection.
type Ports struct {
	// Converter runs conversion batches.
	Converter driving.ConversionService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Converter == nil {
		return ErrMissingConversionService
	}
	return nil
}
