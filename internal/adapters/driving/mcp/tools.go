package mcp

import (
	"context"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/notedmd/notedmd-cli/internal/core/ports/driving"
)

// ConvertInput is the input schema for the convert_notes tool.
type ConvertInput struct {
	Path      string `json:"path" jsonschema:"path to an image, PDF, or directory of handwritten notes"`
	OutputDir string `json:"output_dir,omitempty" jsonschema:"directory to write Markdown files to (default: next to each source)"`
	Prompt    string `json:"prompt,omitempty" jsonschema:"custom transcription prompt for this call"`
	Publish   bool   `json:"publish,omitempty" jsonschema:"send results to the configured Notion database"`
}

// ConvertOutput is the output schema for the convert_notes tool.
type ConvertOutput struct {
	Results   []ConvertResultOutput `json:"results"`
	Succeeded int                   `json:"succeeded"`
	Failed    int                   `json:"failed"`
}

// ConvertResultOutput represents one converted file.
type ConvertResultOutput struct {
	SourcePath string `json:"source_path"`
	OutputPath string `json:"output_path,omitempty"`
	Markdown   string `json:"markdown,omitempty"`
	NotionURL  string `json:"notion_url,omitempty"`
	Error      string `json:"error,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "convert_notes",
		Description: "Convert handwritten notes (images or PDFs) to Markdown",
	}, s.handleConvert)
}

// handleConvert handles the convert_notes tool invocation.
func (s *Server) handleConvert(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ConvertInput,
) (*mcp.CallToolResult, ConvertOutput, error) {
	summary, err := s.ports.Converter.Convert(ctx, driving.ConversionRequest{
		Path:      input.Path,
		OutputDir: input.OutputDir,
		Prompt:    input.Prompt,
		Publish:   input.Publish,
	})
	if err != nil {
		return nil, ConvertOutput{}, err
	}

	output := ConvertOutput{
		Results:   make([]ConvertResultOutput, len(summary.Results)),
		Succeeded: summary.Succeeded,
		Failed:    summary.Failed,
	}

	for i := range summary.Results {
		result := summary.Results[i]
		out := ConvertResultOutput{
			SourcePath: result.Job.SourcePath,
			OutputPath: result.OutputPath,
			NotionURL:  result.NotionURL,
		}
		if result.Err != nil {
			out.Error = result.Err.Error()
		}
		if result.OutputPath != "" {
			// Inline the transcription so assistants can use it directly.
			if content, err := os.ReadFile(result.OutputPath); err == nil {
				out.Markdown = string(content)
			}
		}
		output.Results[i] = out
	}

	return nil, output, nil
}
