// Package scanner walks a directory tree and streams candidate file records.
//
// One Scanner performs one pass: create with New, call Run once. Exclusion
// rules, the minimum-size threshold and placeholder policy are applied during
// the walk so downstream bucketers only ever see eligible files.
package scanner

import (
	"context"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/dma61/dupfinder/internal/budget"
	"github.com/dma61/dupfinder/internal/exclude"
	"github.com/dma61/dupfinder/internal/platform"
	"github.com/dma61/dupfinder/internal/progress"
)

// FileRecord describes one regular file discovered during the walk.
// Immutable once emitted.
type FileRecord struct {
	Path        string
	Size        int64
	ModTime     time.Time
	Placeholder bool
}

// Options configure a scan pass.
type Options struct {
	Root      string
	Threshold *budget.Threshold
	Excludes  *exclude.Set

	// IncludeCloud admits cloud-sync placeholder files. Off by default:
	// reading a placeholder's content makes the sync client download it,
	// and a scan must not trigger surprise network I/O.
	IncludeCloud bool
}

// Scanner walks one tree, reporting progress and collecting skip reasons.
type Scanner struct {
	opts    Options
	tracker *progress.Tracker

	// skip reasons collected for the final report; capped so a tree full of
	// unreadable entries cannot balloon memory
	errs []*ScanError
}

const maxCollectedErrors = 256

// New creates a Scanner for a single pass.
func New(opts Options, tracker *progress.Tracker) *Scanner {
	return &Scanner{opts: opts, tracker: tracker}
}

// Errors returns the skip reasons collected during Run, capped at a fixed
// count.
func (s *Scanner) Errors() []*ScanError {
	return s.errs
}

// Run walks the tree under opts.Root, calling emit for every eligible file in
// traversal order. Per-entry failures are skipped and recorded; the only
// errors returned are context cancellation and a failure to read the root
// itself.
func (s *Scanner) Run(ctx context.Context, emit func(FileRecord)) error {
	var seen, skipped, bytes int64

	flush := func() {
		s.tracker.Update(func(snap *progress.Snapshot) {
			snap.FilesSeen = seen
			snap.FilesSkipped = skipped
			snap.BytesSeen = bytes
			snap.MinSize = s.opts.Threshold.Get()
		})
	}

	walkErr := filepath.WalkDir(s.opts.Root, func(path string, d fs.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err != nil {
			if path == s.opts.Root {
				return err
			}
			s.record(path, err)
			skipped++
			return nil
		}

		if d.IsDir() {
			if path != s.opts.Root && s.opts.Excludes.Excluded(path) {
				return filepath.SkipDir
			}
			return nil
		}

		if s.opts.Excludes.Excluded(path) {
			skipped++
			return nil
		}

		// Symlinks and other irregular entries never hold duplicate content
		// of their own.
		if !d.Type().IsRegular() {
			skipped++
			return nil
		}

		info, err := d.Info()
		if err != nil {
			s.record(path, err)
			skipped++
			return nil
		}

		// Counted even when later filtered: the size is already known and
		// feeds the completion estimate.
		seen++
		bytes += info.Size()

		placeholder := platform.IsCloudPlaceholder(info)
		if placeholder && !s.opts.IncludeCloud {
			skipped++
			flush()
			return nil
		}

		if info.Size() < s.opts.Threshold.Get() {
			skipped++
			flush()
			return nil
		}

		emit(FileRecord{
			Path:        path,
			Size:        info.Size(),
			ModTime:     info.ModTime(),
			Placeholder: placeholder,
		})
		flush()
		return nil
	})

	flush()

	if walkErr != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	return walkErr
}

func (s *Scanner) record(path string, err error) {
	if len(s.errs) < maxCollectedErrors {
		s.errs = append(s.errs, CategorizeError(path, err))
	}
}
