// Command notedmd converts handwritten notes to Markdown using AI.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/notedmd/notedmd-cli/internal/adapters/driven/config/file"
	"github.com/notedmd/notedmd-cli/internal/adapters/driving/cli"
	"github.com/notedmd/notedmd-cli/internal/core/domain"
)

// version is overridden at build time via -ldflags.
var version = "dev"

const (
	exitFailure       = 1
	exitConfigMissing = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	configStore, err := file.NewConfigStore("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitFailure)
	}

	cli.SetVersion(version)
	cli.SetConfigStore(configStore)

	if err := cli.Execute(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, domain.ErrConfigMissing) {
			os.Exit(exitConfigMissing)
		}
		os.Exit(exitFailure)
	}
}
