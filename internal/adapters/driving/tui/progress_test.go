package tui

import (
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notedmd/notedmd-cli/internal/core/domain"
)

func updateModel(t *testing.T, m model, msg tea.Msg) (model, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(msg)
	next, ok := updated.(model)
	require.True(t, ok)
	return next, cmd
}

func TestModel_BatchStarted(t *testing.T) {
	m := newModel("gemini-2.5-flash")

	m, cmd := updateModel(t, m, batchStartedMsg{total: 3})

	assert.Nil(t, cmd)
	assert.Equal(t, 3, m.total)
}

func TestModel_JobLifecycle(t *testing.T) {
	m := newModel("gemini-2.5-flash")
	m, _ = updateModel(t, m, batchStartedMsg{total: 2})

	job := domain.ConversionJob{ID: "job-1", SourcePath: "/notes/lecture.pdf"}
	m, _ = updateModel(t, m, jobStartedMsg{job: job})
	assert.Contains(t, m.inFlight, "job-1")
	assert.Contains(t, m.View(), "lecture.pdf")

	m, _ = updateModel(t, m, jobFinishedMsg{result: domain.ConversionResult{
		Job:        job,
		Status:     domain.JobDone,
		OutputPath: "/notes/lecture.md",
	}})
	assert.NotContains(t, m.inFlight, "job-1")
	assert.Equal(t, 1, m.finished)
	assert.Equal(t, 0, m.failed)
	assert.Contains(t, m.View(), "lecture.pdf")
}

func TestModel_FailedJobCounted(t *testing.T) {
	m := newModel("gemma3:27b")
	m, _ = updateModel(t, m, batchStartedMsg{total: 1})

	job := domain.ConversionJob{ID: "job-1", SourcePath: "/notes/scan.jpg"}
	m, _ = updateModel(t, m, jobStartedMsg{job: job})
	m, _ = updateModel(t, m, jobFinishedMsg{result: domain.ConversionResult{
		Job:    job,
		Status: domain.JobFailed,
		Err:    errors.New("transcription failed"),
	}})

	assert.Equal(t, 1, m.finished)
	assert.Equal(t, 1, m.failed)
}

func TestModel_BatchFinishedQuits(t *testing.T) {
	m := newModel("gemini-2.5-flash")

	_, cmd := updateModel(t, m, batchFinishedMsg{summary: domain.BatchSummary{Total: 1}})

	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestModel_CtrlCQuits(t *testing.T) {
	m := newModel("gemini-2.5-flash")

	_, cmd := updateModel(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})

	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestModel_ViewShowsHeaderAndProgress(t *testing.T) {
	m := newModel("claude-sonnet-4-20250514")
	m, _ = updateModel(t, m, batchStartedMsg{total: 4})

	job := domain.ConversionJob{ID: "job-1", SourcePath: "/notes/a.pdf"}
	m, _ = updateModel(t, m, jobStartedMsg{job: job})
	m, _ = updateModel(t, m, jobFinishedMsg{result: domain.ConversionResult{
		Job:    job,
		Status: domain.JobDone,
	}})

	view := m.View()
	assert.Contains(t, view, "Converting with claude-sonnet-4-20250514")
	assert.Contains(t, view, "1/4")
}

func TestReporter_KillUnblocksEventSends(t *testing.T) {
	reporter := NewReporter("gemini-2.5-flash")
	reporter.Kill()

	// After Kill, reporter events must return instead of blocking on a
	// display that is no longer running.
	sent := make(chan struct{})
	go func() {
		defer close(sent)
		reporter.BatchStarted(2)
		job := domain.ConversionJob{ID: "job-1", SourcePath: "/notes/a.pdf"}
		reporter.JobStarted(job)
		reporter.JobFinished(domain.ConversionResult{Job: job, Status: domain.JobDone})
		reporter.BatchFinished(domain.BatchSummary{Total: 2})
	}()

	select {
	case <-sent:
	case <-time.After(2 * time.Second):
		t.Fatal("reporter events still blocked after Kill")
	}
}
