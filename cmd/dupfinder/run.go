package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"github.com/dma61/dupfinder/internal/budget"
	"github.com/dma61/dupfinder/internal/config"
	"github.com/dma61/dupfinder/internal/exclude"
	"github.com/dma61/dupfinder/internal/finder"
	"github.com/dma61/dupfinder/internal/platform"
	"github.com/dma61/dupfinder/internal/progress"
	"github.com/dma61/dupfinder/internal/report"
	"github.com/dma61/dupfinder/internal/scanner"
	"github.com/dma61/dupfinder/internal/ui"
)

type scanMode string

const (
	modeSize scanMode = "size"
	modeName scanMode = "name"
)

// outcome is what the background pipeline hands back to the driver.
type outcome struct {
	groups []finder.DuplicateGroup
	errs   []*scanner.ScanError
	err    error
}

func runScan(ctx context.Context, cfg *config.Config, mode scanMode) error {
	format, err := report.ParseFormat(flagFormat)
	if err != nil {
		return err
	}

	info, err := platform.GetInfo()
	if err != nil {
		return fmt.Errorf("failed to detect platform: %w", err)
	}

	root := cfg.Root
	if root == "" {
		root = info.VolumeRoot
	}
	root, err = filepath.Abs(root)
	if err != nil {
		return err
	}
	if _, err := os.Stat(root); err != nil {
		return fmt.Errorf("cannot scan root: %w", err)
	}

	minSize, err := cfg.MinSizeBytes()
	if err != nil {
		return err
	}

	// Built-in excludes can be switched off; user-supplied ones are always
	// honored.
	var paths []string
	if !cfg.NoExcludes {
		paths = info.DefaultExcludes()
	}
	paths = append(paths, cfg.AddExclude...)
	excludes := exclude.New(paths, cfg.ExcludePatterns)

	budgetDur := time.Duration(cfg.TimeBudgetMin) * time.Minute
	threshold := budget.NewThreshold(minSize)
	tracker := progress.NewTracker(budgetDur, minSize)
	estimator := budget.NewEstimator(budgetDur, time.Now())
	controller := budget.NewController(threshold)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	scan := scanner.New(scanner.Options{
		Root:         root,
		Threshold:    threshold,
		Excludes:     excludes,
		IncludeCloud: cfg.IncludeCloud,
	}, tracker)

	resCh := make(chan outcome, 1)
	go func() {
		resCh <- runPipeline(ctx, cfg, mode, scan, threshold, estimator, controller, tracker)
	}()

	interactive := !flagNoUI && isatty.IsTerminal(os.Stdout.Fd())
	var userCancelled bool
	if interactive {
		userCancelled, err = ui.Run(root, tracker, controller, cancel)
		if err != nil {
			cancel()
			<-resCh
			return fmt.Errorf("progress view failed: %w", err)
		}
	} else {
		userCancelled = runPlain(ctx, cancel, tracker, controller)
	}

	out := <-resCh
	if out.err != nil && !errors.Is(out.err, context.Canceled) {
		return out.err
	}

	rep := report.Build(root, string(mode), out.groups, tracker.Snapshot(), out.errs)

	w := io.Writer(os.Stdout)
	if flagOutput != "" {
		f, err := os.Create(flagOutput)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}
	if err := report.New(w, format).Write(rep); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	if cfg.Verbose && len(out.errs) > 0 {
		fmt.Fprintf(os.Stderr, "\nSkipped entries:\n")
		for _, e := range out.errs {
			fmt.Fprintf(os.Stderr, "  %s\n", e)
		}
	}
	if userCancelled {
		fmt.Fprintln(os.Stderr, "scan cancelled; reporting groups verified so far")
	}
	return nil
}

// runPipeline performs the scan and grouping for one invocation. All state is
// owned here; nothing survives into the next run.
func runPipeline(ctx context.Context, cfg *config.Config, mode scanMode, scan *scanner.Scanner, threshold *budget.Threshold, estimator *budget.Estimator, controller *budget.Controller, tracker *progress.Tracker) outcome {
	var out outcome

	finish := func() {
		phase := progress.PhaseDone
		if out.err != nil && !errors.Is(out.err, context.Canceled) {
			phase = progress.PhaseError
		}
		err := out.err
		tracker.Update(func(snap *progress.Snapshot) {
			snap.Phase = phase
			snap.Err = err
		})
	}

	switch mode {
	case modeSize:
		sizes := finder.NewSizeFinder(cfg.WorkerCount(), threshold, estimator, controller, tracker)
		out.err = scan.Run(ctx, sizes.Add)
		if out.err == nil {
			out.groups, out.err = sizes.Verify(ctx)
		}
		out.errs = append(scan.Errors(), sizes.Errors()...)

	case modeName:
		names := finder.NewNameFinder(cfg.KeepExtension(), cfg.RequireSameSize)
		out.err = scan.Run(ctx, names.Add)
		out.groups = names.Groups()
		out.errs = scan.Errors()
	}

	finish()
	return out
}

// runPlain reports progress as plain lines and answers budget prompts over
// stdin. Returns true if the user cancelled via the context.
func runPlain(ctx context.Context, cancel context.CancelFunc, tracker *progress.Tracker, controller *budget.Controller) bool {
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	prompted := false
	for {
		select {
		case <-ctx.Done():
			return true
		case <-ticker.C:
		}

		snap := tracker.Snapshot()
		switch snap.Phase {
		case progress.PhaseDone, progress.PhaseError:
			return false

		case progress.PhaseDeciding:
			if prompted {
				continue
			}
			prompted = true
			fmt.Fprintf(os.Stderr, "projected finish exceeds the time budget\n")
			fmt.Fprintf(os.Stderr, "  [c] continue anyway\n")
			fmt.Fprintf(os.Stderr, "  [r] raise min size to %s and resume\n> ",
				humanize.IBytes(uint64(snap.SuggestedMin)))

			line, err := bufio.NewReader(os.Stdin).ReadString('\n')
			if err != nil || strings.TrimSpace(strings.ToLower(line)) != "r" {
				controller.Resolve(budget.Choice{Decision: budget.Continue})
				continue
			}
			controller.Resolve(budget.Choice{Decision: budget.Raise, NewMinSize: snap.SuggestedMin})

		default:
			eta := "-"
			if snap.ETAKnown {
				eta = snap.ETA.Round(time.Second).String()
			}
			fmt.Fprintf(os.Stderr, "%s: %d files (%s seen, %d skipped), hash %d/%d, eta %s, elapsed %s\n",
				snap.Phase, snap.FilesSeen, humanize.IBytes(uint64(snap.BytesSeen)),
				snap.FilesSkipped, snap.HashDone, snap.HashTotal, eta,
				snap.Elapsed.Round(time.Second))
		}
	}
}
