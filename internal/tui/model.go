// Package tui is the interactive benchmark dashboard selected by --tui.
package tui

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	apperrors "github.com/agbru/numkit/internal/errors"
	"github.com/agbru/numkit/internal/format"
	"github.com/agbru/numkit/internal/metrics"
	"github.com/agbru/numkit/internal/orchestration"
	"github.com/agbru/numkit/internal/sysmon"
)

const (
	tickInterval   = 500 * time.Millisecond
	historySize    = 40
	barWidth       = 24
	summaryBarSize = 40
)

// benchRow is the dashboard state of one case.
type benchRow struct {
	name     string
	progress float64
	result   *orchestration.BenchmarkResult
}

// ExecutionState holds the fields tied to one suite run.
type ExecutionState struct {
	ctx        context.Context
	cancel     context.CancelFunc
	generation uint64
	started    time.Time
	finished   time.Duration
	done       bool
	exitCode   int
}

// Model is the root bubbletea model of the dashboard.
type Model struct {
	keymap KeyMap
	help   help.Model
	styles styles

	rows    []benchRow
	cursor  int
	average float64
	eta     time.Duration
	failure error

	cpu       *RingBuffer
	hostMem   *RingBuffer
	mem       metrics.MemorySnapshot
	collector *metrics.MemoryCollector

	ExecutionState

	width, height int
	paused        bool

	parentCtx context.Context
	cases     []orchestration.Case
	opts      orchestration.Options
	ref       *programRef
}

// NewModel creates a dashboard for cases. The run context derives from
// parentCtx so a restart can start over with a fresh one.
func NewModel(parentCtx context.Context, cases []orchestration.Case, opts orchestration.Options) Model {
	ctx, cancel := context.WithCancel(parentCtx)
	return Model{
		keymap:    DefaultKeyMap(),
		help:      help.New(),
		styles:    newStyles(),
		rows:      newRows(cases),
		cpu:       NewRingBuffer(historySize),
		hostMem:   NewRingBuffer(historySize),
		collector: metrics.NewMemoryCollector(),
		ExecutionState: ExecutionState{
			ctx:      ctx,
			cancel:   cancel,
			started:  time.Now(),
			exitCode: apperrors.ExitSuccess,
		},
		parentCtx: parentCtx,
		cases:     cases,
		opts:      opts,
		ref:       &programRef{},
	}
}

func newRows(cases []orchestration.Case) []benchRow {
	rows := make([]benchRow, len(cases))
	for i, c := range cases {
		rows[i] = benchRow{name: c.Name}
	}
	return rows
}

// Init starts the suite run, the sampler and the context watcher.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		startBenchCmd(m.ref, m.ctx, m.cases, m.opts, m.generation),
		watchContextCmd(m.ctx, m.generation),
	)
}

// Update handles all incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil

	case ProgressMsg:
		if !m.paused && msg.Index >= 0 && msg.Index < len(m.rows) {
			m.rows[msg.Index].progress = msg.Value
			m.average = msg.AverageProgress
			m.eta = msg.ETA
		}
		return m, nil

	case ProgressDoneMsg:
		m.average = 1
		return m, nil

	case ResultsMsg:
		m.applyResults(msg.Results)
		return m, nil

	case ErrorMsg:
		m.failure = msg.Err
		return m, nil

	case BenchDoneMsg:
		if msg.Generation != m.generation {
			return m, nil
		}
		m.done = true
		m.exitCode = msg.ExitCode
		m.finished = time.Since(m.started)
		return m, nil

	case ContextCancelledMsg:
		if msg.Generation != m.generation {
			return m, nil
		}
		if !m.done {
			m.exitCode = apperrors.ExitCodeFor(m.ctx.Err())
		}
		m.done = true
		return m, tea.Quit

	case TickMsg:
		if m.done {
			return m, nil
		}
		if m.paused {
			return m, tickCmd()
		}
		return m, tea.Batch(sampleCmd(m.collector), tickCmd())

	case SampleMsg:
		m.cpu.Push(msg.Sys.CPUPercent)
		m.hostMem.Push(msg.Sys.MemPercent)
		m.mem = msg.Mem
		return m, nil
	}
	return m, nil
}

// applyResults attaches each result to the row of the same name.
func (m *Model) applyResults(results []orchestration.BenchmarkResult) {
	byName := make(map[string]int, len(m.rows))
	for i, r := range m.rows {
		byName[r.name] = i
	}
	for _, r := range results {
		if i, ok := byName[r.Name]; ok {
			m.rows[i].result = &r
			m.rows[i].progress = 1
		}
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		if m.cancel != nil {
			m.cancel()
		}
		if !m.done {
			m.exitCode = apperrors.ExitErrorCanceled
		}
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Pause):
		m.paused = !m.paused
		return m, nil

	case key.Matches(msg, m.keymap.Restart):
		if m.cancel != nil {
			m.cancel()
		}
		m.generation++
		m.ctx, m.cancel = context.WithCancel(m.parentCtx)
		m.rows = newRows(m.cases)
		m.average, m.eta, m.failure = 0, 0, nil
		m.started, m.finished = time.Now(), 0
		m.done, m.paused = false, false
		m.exitCode = apperrors.ExitSuccess
		m.cpu.Reset()
		m.hostMem.Reset()
		return m, tea.Batch(
			tickCmd(),
			startBenchCmd(m.ref, m.ctx, m.cases, m.opts, m.generation),
			watchContextCmd(m.ctx, m.generation),
		)

	case key.Matches(msg, m.keymap.Up):
		m.cursor = max(m.cursor-1, 0)
		return m, nil

	case key.Matches(msg, m.keymap.Down):
		m.cursor = max(min(m.cursor+1, len(m.rows)-1), 0)
		return m, nil

	case key.Matches(msg, m.keymap.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}
	return m, nil
}

// View renders the dashboard.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}
	sections := []string{
		m.headerView(),
		m.styles.panel.Render(m.tableView()),
		m.detailView(),
		m.systemView(),
	}
	if m.failure != nil {
		sections = append(sections, m.styles.failed.Render("Error: "+m.failure.Error()))
	}
	sections = append(sections, m.help.View(m.keymap))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) headerView() string {
	elapsed := time.Since(m.started)
	status := m.styles.running.Render("Running")
	switch {
	case m.done && m.failure != nil:
		status = m.styles.failed.Render("Failed")
	case m.done:
		status = m.styles.done.Render("Done")
		elapsed = m.finished
	case m.paused:
		status = m.styles.paused.Render("Paused")
	}
	return fmt.Sprintf("%s  %s  %s",
		m.styles.title.Render("numkit bench"), status,
		m.styles.dim.Render(format.FormatExecutionDuration(elapsed)))
}

func (m Model) tableView() string {
	nameWidth := 0
	for _, r := range m.rows {
		nameWidth = max(nameWidth, len(r.name))
	}
	lines := make([]string, 0, len(m.rows)+2)
	for i, r := range m.rows {
		marker := "  "
		name := fmt.Sprintf("%-*s", nameWidth, r.name)
		if i == m.cursor {
			marker = "> "
			name = m.styles.selected.Render(name)
		}
		lines = append(lines, marker+name+"  "+m.rowStatus(r))
	}
	lines = append(lines, "",
		fmt.Sprintf("%s %5.1f%%  ETA %s",
			m.styles.bar.Render(format.ProgressBar(m.average, summaryBarSize)),
			m.average*100, format.FormatETA(m.eta)))
	return strings.Join(lines, "\n")
}

func (m Model) rowStatus(r benchRow) string {
	switch {
	case r.result == nil:
		return m.styles.bar.Render(format.ProgressBar(r.progress, barWidth)) +
			fmt.Sprintf(" %5.1f%%", r.progress*100)
	case r.result.Err != nil:
		return m.styles.failed.Render("FAIL")
	default:
		return m.styles.value.Render(fmt.Sprintf("%12s  %10s  %6d allocs/op",
			format.FormatNsPerOp(r.result.NsPerOp),
			format.FormatBytes(r.result.BytesPerOp)+"/op",
			r.result.AllocsPerOp))
	}
}

// detailView describes the selected row.
func (m Model) detailView() string {
	if len(m.rows) == 0 {
		return m.styles.dim.Render("No benchmarks selected.")
	}
	r := m.rows[m.cursor]
	switch {
	case r.result == nil:
		return m.styles.dim.Render(fmt.Sprintf("%s: measuring", r.name))
	case r.result.Err != nil:
		return m.styles.failed.Render(fmt.Sprintf("%s: %v", r.name, r.result.Err))
	default:
		return m.styles.dim.Render(fmt.Sprintf("%s: %s iterations in %s",
			r.name, format.FormatUint64(uint64(r.result.Iterations)),
			format.FormatExecutionDuration(r.result.Elapsed)))
	}
}

func (m Model) systemView() string {
	label := m.styles.label.Render
	return fmt.Sprintf("%s %s %5.1f%%   %s %5.1f%%   %s %s   %s %d",
		label("CPU"), m.styles.spark.Render(RenderSparkline(m.cpu.Slice())), m.cpu.Last(),
		label("Mem"), m.hostMem.Last(),
		label("Heap"), m.styles.value.Render(format.FormatBytes(m.mem.HeapAlloc)),
		label("GC"), m.mem.NumGC)
}

// ExitCode returns the exit code of the last finished run.
func (m Model) ExitCode() int { return m.exitCode }

// Run shows the dashboard while cases run and returns the exit code.
func Run(ctx context.Context, cases []orchestration.Case, opts orchestration.Options) int {
	model := NewModel(ctx, cases, opts)
	defer model.cancel()

	p := tea.NewProgram(model, tea.WithAltScreen())
	model.ref.SetProgram(p)

	finalModel, err := p.Run()
	if err != nil {
		return apperrors.ExitErrorGeneric
	}
	if m, ok := finalModel.(Model); ok {
		m.cancel()
		return m.exitCode
	}
	return apperrors.ExitSuccess
}

// startBenchCmd runs the suite and reports through the bridge.
func startBenchCmd(ref *programRef, ctx context.Context, cases []orchestration.Case, opts orchestration.Options, gen uint64) tea.Cmd {
	return func() tea.Msg {
		results := orchestration.ExecuteBenchmarks(ctx, cases, opts, &ProgressReporter{ref: ref}, io.Discard)
		code := orchestration.AnalyzeResults(results, &ResultPresenter{ref: ref}, io.Discard)
		return BenchDoneMsg{ExitCode: code, Generation: gen}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func sampleCmd(collector *metrics.MemoryCollector) tea.Cmd {
	return func() tea.Msg {
		return SampleMsg{Sys: sysmon.Sample(), Mem: collector.Snapshot()}
	}
}

// watchContextCmd reports when the run context of gen ends.
func watchContextCmd(ctx context.Context, gen uint64) tea.Cmd {
	return func() tea.Msg {
		<-ctx.Done()
		return ContextCancelledMsg{Generation: gen}
	}
}
