// Package ui renders live scan progress and hosts the budget-exceeded
// prompt. It is presentation glue only: all engine state lives behind the
// progress tracker and the budget controller.
package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	progressbar "github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/dma61/dupfinder/internal/budget"
	"github.com/dma61/dupfinder/internal/progress"
	"github.com/dma61/dupfinder/internal/ui/styles"
)

// snapshotMsg carries a progress update into the bubbletea loop.
type snapshotMsg progress.Snapshot

// tickMsg keeps elapsed time moving even when no progress events arrive.
type tickMsg time.Time

// ScanView is the live progress screen for one scan invocation.
type ScanView struct {
	root       string
	tracker    *progress.Tracker
	controller *budget.Controller
	cancel     context.CancelFunc
	sub        <-chan progress.Snapshot

	spinner spinner.Model
	hashBar progressbar.Model
	timeBar progressbar.Model

	snap      progress.Snapshot
	finished  bool
	cancelled bool
}

// NewScanView creates the progress screen. cancel is invoked when the user
// quits mid-scan.
func NewScanView(root string, tracker *progress.Tracker, controller *budget.Controller, cancel context.CancelFunc) *ScanView {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.KeyStyle

	return &ScanView{
		root:       root,
		tracker:    tracker,
		controller: controller,
		cancel:     cancel,
		sub:        tracker.Subscribe(),
		spinner:    s,
		hashBar:    progressbar.New(progressbar.WithDefaultGradient()),
		timeBar:    progressbar.New(progressbar.WithSolidFill("#F59E0B")),
		snap:       tracker.Snapshot(),
	}
}

// Cancelled reports whether the user aborted the scan.
func (m *ScanView) Cancelled() bool {
	return m.cancelled
}

// Init implements tea.Model.
func (m *ScanView) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.waitForSnapshot(), m.tick())
}

func (m *ScanView) waitForSnapshot() tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-m.sub
		if !ok {
			return nil
		}
		return snapshotMsg(snap)
	}
}

func (m *ScanView) tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update implements tea.Model.
func (m *ScanView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.cancelled = true
			m.cancel()
			return m, tea.Quit
		case "c":
			if m.snap.Phase == progress.PhaseDeciding {
				m.controller.Resolve(budget.Choice{Decision: budget.Continue})
			}
		case "r":
			if m.snap.Phase == progress.PhaseDeciding {
				m.controller.Resolve(budget.Choice{
					Decision:   budget.Raise,
					NewMinSize: m.snap.SuggestedMin,
				})
			}
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case snapshotMsg:
		m.snap = progress.Snapshot(msg)
		if m.snap.Phase == progress.PhaseDone || m.snap.Phase == progress.PhaseError {
			m.finished = true
			return m, tea.Quit
		}
		return m, m.waitForSnapshot()

	case tickMsg:
		m.snap = m.tracker.Snapshot()
		if m.snap.Phase == progress.PhaseDone || m.snap.Phase == progress.PhaseError {
			m.finished = true
			return m, tea.Quit
		}
		return m, m.tick()
	}

	return m, nil
}

// View implements tea.Model.
func (m *ScanView) View() string {
	if m.finished {
		return ""
	}

	var b strings.Builder
	snap := m.snap

	b.WriteString(styles.TitleStyle.Render("Scanning for duplicates"))
	b.WriteString("\n")
	b.WriteString(styles.DimStyle.Render("Root: "))
	b.WriteString(styles.FilePathStyle.Render(m.root))
	b.WriteString(styles.DimStyle.Render(fmt.Sprintf("  ·  min size %s", humanize.IBytes(uint64(snap.MinSize)))))
	b.WriteString("\n\n")

	b.WriteString(m.spinner.View())
	switch snap.Phase {
	case progress.PhaseWalking:
		b.WriteString(" Walking the tree… ")
	case progress.PhaseHashing:
		b.WriteString(" Verifying size collisions… ")
	case progress.PhaseDeciding:
		b.WriteString(" Paused, waiting for your decision ")
	default:
		b.WriteString(fmt.Sprintf(" %s ", snap.Phase))
	}
	b.WriteString(styles.DimStyle.Render(fmt.Sprintf("(%s)", snap.Elapsed.Round(time.Second))))
	b.WriteString("\n\n")

	// Budget consumption
	if snap.Budget > 0 {
		pct := float64(snap.Elapsed) / float64(snap.Budget)
		label := fmt.Sprintf("%d%% of budget", int(pct*100))
		if pct > 1 {
			pct = 1
			label = styles.WarnStyle.Render("over budget")
		}
		b.WriteString(styles.DimStyle.Render("Time    "))
		b.WriteString(m.timeBar.ViewAs(pct))
		b.WriteString(" " + styles.DimStyle.Render(label))
		b.WriteString("\n")
	}

	// Hash progress
	if snap.HashTotal > 0 {
		pct := float64(snap.HashDone) / float64(snap.HashTotal)
		b.WriteString(styles.DimStyle.Render("Verify  "))
		b.WriteString(m.hashBar.ViewAs(pct))
		b.WriteString(styles.DimStyle.Render(fmt.Sprintf(" %d/%d", snap.HashDone, snap.HashTotal)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Files examined: %s  ·  skipped: %s  ·  seen: %s\n",
		styles.ValueStyle.Render(humanize.Comma(snap.FilesSeen)),
		styles.ValueStyle.Render(humanize.Comma(snap.FilesSkipped)),
		styles.ValueStyle.Render(humanize.IBytes(uint64(snap.BytesSeen)))))

	eta := "-"
	if snap.ETAKnown {
		eta = snap.ETA.Round(time.Second).String()
	}
	b.WriteString(fmt.Sprintf("ETA: %s\n", styles.ValueStyle.Render(eta)))

	if snap.Phase == progress.PhaseDeciding {
		prompt := fmt.Sprintf("%s the projected finish exceeds the time budget.\n%s continue anyway   %s raise min size to %s and resume",
			styles.WarnStyle.Render("Budget exceeded:"),
			styles.KeyStyle.Render("[c]"),
			styles.KeyStyle.Render("[r]"),
			humanize.IBytes(uint64(snap.SuggestedMin)))
		b.WriteString("\n" + styles.PromptPanelStyle.Render(prompt) + "\n")
	}

	b.WriteString("\n" + styles.DimStyle.Render("press q to cancel"))
	b.WriteString("\n")
	return b.String()
}

// Run drives the progress screen until the scan finishes or the user quits,
// and reports whether the user cancelled.
func Run(root string, tracker *progress.Tracker, controller *budget.Controller, cancel context.CancelFunc) (bool, error) {
	view := NewScanView(root, tracker, controller, cancel)
	if _, err := tea.NewProgram(view).Run(); err != nil {
		return false, err
	}
	tracker.Unsubscribe(view.sub)
	return view.Cancelled(), nil
}
