// Package tui renders batch conversion progress as an interactive
// terminal display. It implements the progress reporter port and feeds
// converter events into a bubbletea program.
package tui

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/notedmd/notedmd-cli/internal/core/domain"
	"github.com/notedmd/notedmd-cli/internal/core/ports/driving"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#A6E3A1"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F38BA8"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086"))
)

// Reporter drives the progress display. Converter events are forwarded
// to the bubbletea program, which quits itself when the batch finishes.
type Reporter struct {
	program *tea.Program
}

var _ driving.ProgressReporter = (*Reporter)(nil)

// NewReporter creates a progress display for a batch handled by the
// named model.
func NewReporter(modelName string) *Reporter {
	return &Reporter{
		program: tea.NewProgram(newModel(modelName)),
	}
}

// Run blocks until the batch finishes or the user quits the display.
func (r *Reporter) Run() error {
	_, err := r.program.Run()
	return err
}

// Kill tears the display down so pending and future event sends return
// immediately instead of blocking. Call it when Run fails and the batch
// must keep going without a display.
func (r *Reporter) Kill() {
	r.program.Kill()
}

// BatchStarted implements driving.ProgressReporter.
func (r *Reporter) BatchStarted(total int) {
	r.program.Send(batchStartedMsg{total: total})
}

// JobStarted implements driving.ProgressReporter.
func (r *Reporter) JobStarted(job domain.ConversionJob) {
	r.program.Send(jobStartedMsg{job: job})
}

// JobFinished implements driving.ProgressReporter.
func (r *Reporter) JobFinished(result domain.ConversionResult) {
	r.program.Send(jobFinishedMsg{result: result})
}

// BatchFinished implements driving.ProgressReporter.
func (r *Reporter) BatchFinished(summary domain.BatchSummary) {
	r.program.Send(batchFinishedMsg{summary: summary})
}

type batchStartedMsg struct{ total int }

type jobStartedMsg struct{ job domain.ConversionJob }

type jobFinishedMsg struct{ result domain.ConversionResult }

type batchFinishedMsg struct{ summary domain.BatchSummary }

// model is the bubbletea model for the progress display.
type model struct {
	modelName string
	spinner   spinner.Model
	bar       progress.Model
	total     int
	finished  int
	failed    int
	inFlight  map[string]string
	done      []string
}

func newModel(modelName string) model {
	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	return model{
		modelName: modelName,
		spinner:   sp,
		bar:       progress.New(progress.WithDefaultGradient()),
		inFlight:  make(map[string]string),
	}
}

func (m model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case batchStartedMsg:
		m.total = msg.total
		return m, nil

	case jobStartedMsg:
		m.inFlight[msg.job.ID] = msg.job.SourcePath
		return m, nil

	case jobFinishedMsg:
		delete(m.inFlight, msg.result.Job.ID)
		m.finished++
		if msg.result.Succeeded() {
			name := filepath.Base(msg.result.Job.SourcePath)
			m.done = append(m.done, successStyle.Render("  ✓ ")+name)
		} else {
			m.failed++
			name := filepath.Base(msg.result.Job.SourcePath)
			m.done = append(m.done, errorStyle.Render("  ✗ ")+name)
		}
		return m, nil

	case batchFinishedMsg:
		return m, tea.Quit
	}

	return m, nil
}

func (m model) View() string {
	var b strings.Builder

	header := fmt.Sprintf("Converting with %s", m.modelName)
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	for _, line := range m.done {
		b.WriteString(line)
		b.WriteString("\n")
	}

	// Stable order keeps the display from jittering between frames.
	active := make([]string, 0, len(m.inFlight))
	for _, path := range m.inFlight {
		active = append(active, filepath.Base(path))
	}
	sort.Strings(active)
	for _, name := range active {
		b.WriteString(m.spinner.View())
		b.WriteString(name)
		b.WriteString("\n")
	}

	if m.total > 0 {
		percent := float64(m.finished) / float64(m.total)
		b.WriteString("\n")
		b.WriteString(m.bar.ViewAs(percent))
		b.WriteString(mutedStyle.Render(fmt.Sprintf("  %d/%d", m.finished, m.total)))
		b.WriteString("\n")
	}

	return b.String()
}
