// Package watch monitors a directory and converts supported files as
// they appear.
package watch

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/notedmd/notedmd-cli/internal/core/domain"
	"github.com/notedmd/notedmd-cli/internal/core/ports/driving"
	"github.com/notedmd/notedmd-cli/internal/logger"
)

// defaultSettleDelay gives the writer time to finish the file after the
// create event fires.
const defaultSettleDelay = 500 * time.Millisecond

// Config describes a watch session.
type Config struct {
	// Dir is the directory to monitor. Must exist.
	Dir string

	// OutputDir places results in a directory instead of next to
	// their sources.
	OutputDir string

	// Prompt overrides the default prompt for every conversion.
	Prompt string

	// Publish forwards successful results to the Notion sink.
	Publish bool

	// SettleDelay is how long to wait after a create event before
	// converting. Zero means the default.
	SettleDelay time.Duration

	// Out receives progress lines. Defaults to os.Stdout.
	Out io.Writer
}

// Watcher converts supported files as they are created in a directory.
type Watcher struct {
	converter   driving.ConversionService
	dir         string
	outputDir   string
	prompt      string
	publish     bool
	settleDelay time.Duration
	out         io.Writer
	fw          *fsnotify.Watcher
	wg          sync.WaitGroup
}

// NewWatcher creates a watcher for the configured directory.
func NewWatcher(converter driving.ConversionService, cfg Config) (*Watcher, error) {
	if converter == nil {
		return nil, fmt.Errorf("watch: converter is required")
	}

	info, err := os.Stat(cfg.Dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrPathNotFound, cfg.Dir)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("watch: %s is not a directory", cfg.Dir)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := fw.Add(cfg.Dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watching %s: %w", cfg.Dir, err)
	}

	settleDelay := cfg.SettleDelay
	if settleDelay <= 0 {
		settleDelay = defaultSettleDelay
	}

	out := cfg.Out
	if out == nil {
		out = os.Stdout
	}

	return &Watcher{
		converter:   converter,
		dir:         cfg.Dir,
		outputDir:   cfg.OutputDir,
		prompt:      cfg.Prompt,
		publish:     cfg.Publish,
		settleDelay: settleDelay,
		out:         out,
		fw:          fw,
	}, nil
}

// Run blocks until the context is cancelled, converting each supported
// file created in the watched directory. A failed conversion is logged
// and does not stop the watch.
func (w *Watcher) Run(ctx context.Context) error {
	fmt.Fprintf(w.out, "Watching %s for new files (%s)\n", w.dir, strings.Join(domain.SupportedExtensions(), ", "))

	defer w.fw.Close() //nolint:errcheck

	for {
		select {
		case <-ctx.Done():
			w.wg.Wait()
			return nil

		case event, ok := <-w.fw.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if !event.Has(fsnotify.Create) {
				continue
			}
			if !w.wantsFile(event.Name) {
				logger.Debug("Ignoring %s", event.Name)
				continue
			}

			fmt.Fprintf(w.out, "New file detected: %s\n", event.Name)
			w.wg.Add(1)
			go func(path string) {
				defer w.wg.Done()
				// Give the writer time to finish the file.
				select {
				case <-time.After(w.settleDelay):
				case <-ctx.Done():
					return
				}
				w.convert(ctx, path)
			}(event.Name)

		case err, ok := <-w.fw.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			logger.Warn("Watcher error: %v", err)
		}
	}
}

func (w *Watcher) wantsFile(path string) bool {
	if strings.HasPrefix(filepath.Base(path), ".") {
		return false
	}
	return domain.IsSupportedFile(path)
}

func (w *Watcher) convert(ctx context.Context, path string) {
	summary, err := w.converter.Convert(ctx, driving.ConversionRequest{
		Path:      path,
		OutputDir: w.outputDir,
		Prompt:    w.prompt,
		Publish:   w.publish,
	})
	if err != nil {
		fmt.Fprintf(w.out, "Failed to convert %s: %v\n", path, err)
		return
	}
	for _, result := range summary.Results {
		if result.Succeeded() {
			fmt.Fprintf(w.out, "Converted %s -> %s\n", result.Job.SourcePath, result.OutputPath)
		} else {
			fmt.Fprintf(w.out, "Failed to convert %s: %v\n", result.Job.SourcePath, result.Err)
		}
	}
}
