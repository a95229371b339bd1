package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/notedmd/notedmd-cli/internal/core/domain"
	"github.com/notedmd/notedmd-cli/internal/core/ports/driven"
	"github.com/notedmd/notedmd-cli/internal/core/ports/driving"
	"github.com/notedmd/notedmd-cli/internal/logger"
)

// Ensure Converter implements the driving port.
var _ driving.ConversionService = (*Converter)(nil)

// defaultWorkers keeps batches sequential unless configured otherwise.
const defaultWorkers = 1

// ConverterConfig wires a Converter.
type ConverterConfig struct {
	// Transcriber is the active provider client (required).
	Transcriber driven.Transcriber

	// Provider names the backend, for history records.
	Provider domain.Provider

	// Publisher is the optional Notion sink. May be nil.
	Publisher driven.Publisher

	// History records terminal jobs. May be nil.
	History driven.HistoryStore

	// Reporter observes progress. May be nil.
	Reporter driving.ProgressReporter

	// Workers bounds the concurrency pool (default 1).
	Workers int

	// RateLimit throttles provider requests (zero value = default).
	RateLimit RateLimitConfig
}

// Converter is the batch driver: it resolves the input path, runs every
// job to a terminal state, and aggregates a summary. Jobs are owned
// exclusively by the converter until completion.
type Converter struct {
	transcriber driven.Transcriber
	provider    domain.Provider
	publisher   driven.Publisher
	history     driven.HistoryStore
	reporter    driving.ProgressReporter
	workers     int
	limiter     *RateLimiter
}

// NewConverter creates a batch driver from the given configuration.
func NewConverter(cfg ConverterConfig) (*Converter, error) {
	if cfg.Transcriber == nil {
		return nil, fmt.Errorf("converter: transcriber is required")
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}

	reporter := cfg.Reporter
	if reporter == nil {
		reporter = nopReporter{}
	}

	return &Converter{
		transcriber: cfg.Transcriber,
		provider:    cfg.Provider,
		publisher:   cfg.Publisher,
		history:     cfg.History,
		reporter:    reporter,
		workers:     workers,
		limiter:     NewRateLimiter(cfg.RateLimit),
	}, nil
}

// Convert runs one batch. Path resolution failures abort before any job
// starts; per-job failures are recorded and do not halt siblings. The
// returned summary preserves the resolved file order.
func (c *Converter) Convert(ctx context.Context, req driving.ConversionRequest) (*domain.BatchSummary, error) {
	files, err := ResolveFiles(req.Path)
	if err != nil {
		return nil, err
	}

	if req.OutputDir != "" {
		if err := os.MkdirAll(req.OutputDir, 0o755); err != nil {
			return nil, fmt.Errorf("%w: create output directory: %w", domain.ErrFileWriteFailed, err)
		}
	}

	if req.Publish && c.publisher == nil {
		return nil, domain.ErrNotionNotConfigured
	}

	jobs := make([]domain.ConversionJob, 0, len(files))
	for _, f := range files {
		mime, err := domain.MIMETypeFor(f)
		if err != nil {
			// Resolution already filtered extensions; fail loudly if not.
			return nil, err
		}
		jobs = append(jobs, domain.ConversionJob{
			ID:         uuid.New().String(),
			SourcePath: f,
			MIMEType:   mime,
			Prompt:     req.Prompt,
			OutputDir:  req.OutputDir,
		})
	}

	logger.Info("converting %d file(s) with %d worker(s)", len(jobs), c.workers)
	c.reporter.BatchStarted(len(jobs))

	results := make([]domain.ConversionResult, len(jobs))
	jobCh := make(chan int)

	var wg sync.WaitGroup
	for range c.workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobCh {
				results[idx] = c.runJob(ctx, jobs[idx], req.Publish)
			}
		}()
	}

	for i := range jobs {
		select {
		case jobCh <- i:
		case <-ctx.Done():
			// Unstarted jobs still reach a terminal state so the
			// reporter, history, and summary all stay complete.
			result := domain.ConversionResult{Job: jobs[i], Status: domain.JobFailed, Err: ctx.Err()}
			c.record(ctx, result)
			c.reporter.JobFinished(result)
			results[i] = result
		}
	}
	close(jobCh)
	wg.Wait()

	summary := domain.BatchSummary{Total: len(jobs), Results: results}
	for _, r := range results {
		if r.Succeeded() {
			summary.Succeeded++
		} else {
			summary.Failed++
		}
	}

	c.reporter.BatchFinished(summary)
	return &summary, nil
}

// runJob moves one job from Pending to a terminal state. Output is
// written only after a complete, successful transcription; no partial
// Markdown is ever left in place.
func (c *Converter) runJob(ctx context.Context, job domain.ConversionJob, publish bool) domain.ConversionResult {
	c.reporter.JobStarted(job)
	start := time.Now()

	result := c.transcribeAndWrite(ctx, job)
	result.Duration = time.Since(start)

	if publish && result.Succeeded() {
		markdown, err := os.ReadFile(result.OutputPath)
		if err == nil {
			url, pubErr := c.publisher.Publish(ctx, job.Title(), string(markdown))
			if pubErr != nil {
				result.NotionErr = fmt.Errorf("%w: %w", domain.ErrNotionPublishFailed, pubErr)
			} else {
				result.NotionURL = url
			}
		} else {
			result.NotionErr = fmt.Errorf("%w: %w", domain.ErrNotionPublishFailed, err)
		}
	}

	c.record(ctx, result)
	c.reporter.JobFinished(result)
	return result
}

func (c *Converter) transcribeAndWrite(ctx context.Context, job domain.ConversionJob) domain.ConversionResult {
	result := domain.ConversionResult{Job: job, Status: domain.JobInFlight}

	if err := c.limiter.Wait(ctx); err != nil {
		result.Status = domain.JobFailed
		result.Err = err
		return result
	}

	data, err := os.ReadFile(job.SourcePath)
	if err != nil {
		result.Status = domain.JobFailed
		result.Err = fmt.Errorf("read %s: %w", job.SourcePath, err)
		return result
	}

	logger.Debug("sending %s (%s, %d bytes) to %s", job.SourcePath, job.MIMEType, len(data), c.transcriber.ModelName())

	markdown, err := c.transcriber.Transcribe(ctx, driven.TranscriptionRequest{
		Data:     data,
		MIMEType: job.MIMEType,
		Prompt:   job.Prompt,
	})
	if err != nil {
		// A 429 backs off the whole batch, not just this job.
		var rateLimitErr *domain.RateLimitError
		if errors.As(err, &rateLimitErr) {
			c.limiter.RecordRateLimitError(rateLimitErr.RetryAfterSeconds)
		}
		result.Status = domain.JobFailed
		result.Err = err
		return result
	}

	outputPath := job.OutputPath()
	if err := os.WriteFile(outputPath, []byte(markdown), 0o644); err != nil {
		result.Status = domain.JobFailed
		result.Err = fmt.Errorf("%w: %s: %w", domain.ErrFileWriteFailed, outputPath, err)
		return result
	}

	result.Status = domain.JobDone
	result.OutputPath = outputPath
	return result
}

// record writes the terminal outcome to the history store, best effort.
// Recording survives run cancellation so interrupted jobs still show up
// in the history.
func (c *Converter) record(ctx context.Context, result domain.ConversionResult) {
	if c.history == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)

	rec := domain.ConversionRecord{
		ID:         result.Job.ID,
		SourcePath: result.Job.SourcePath,
		OutputPath: result.OutputPath,
		Provider:   c.provider,
		Model:      c.transcriber.ModelName(),
		Status:     result.Status,
		NotionURL:  result.NotionURL,
		CreatedAt:  time.Now().UTC(),
	}
	if result.Err != nil {
		rec.Error = result.Err.Error()
	}

	if err := c.history.Record(ctx, rec); err != nil {
		logger.Warn("recording history for %s: %v", result.Job.SourcePath, err)
	}
}

// nopReporter discards all progress events.
type nopReporter struct{}

func (nopReporter) BatchStarted(int)                    {}
func (nopReporter) JobStarted(domain.ConversionJob)     {}
func (nopReporter) JobFinished(domain.ConversionResult) {}
func (nopReporter) BatchFinished(domain.BatchSummary)   {}
