package finder

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/dma61/dupfinder/internal/budget"
	"github.com/dma61/dupfinder/internal/progress"
	"github.com/dma61/dupfinder/internal/scanner"
)

// SizeFinder implements the exact-content duplicate path: bucket by byte
// size, then confirm buckets with content digests. Buckets holding a single
// file are discarded without any hashing; that is the property that keeps
// digest cost proportional to size collisions rather than to the whole tree.
type SizeFinder struct {
	workers    int
	threshold  *budget.Threshold
	estimator  *budget.Estimator
	controller *budget.Controller
	tracker    *progress.Tracker

	order   []int64
	buckets map[int64][]scanner.FileRecord

	mu   sync.Mutex
	errs []*scanner.ScanError
}

// NewSizeFinder creates a SizeFinder hashing on at most workers goroutines.
func NewSizeFinder(workers int, threshold *budget.Threshold, estimator *budget.Estimator, controller *budget.Controller, tracker *progress.Tracker) *SizeFinder {
	if workers < 1 {
		workers = 1
	}
	return &SizeFinder{
		workers:    workers,
		threshold:  threshold,
		estimator:  estimator,
		controller: controller,
		tracker:    tracker,
		buckets:    make(map[int64][]scanner.FileRecord),
	}
}

// Add buckets one scanned record by its exact size. Records arrive in
// discovery order and keep it within their bucket.
func (f *SizeFinder) Add(rec scanner.FileRecord) {
	if _, ok := f.buckets[rec.Size]; !ok {
		f.order = append(f.order, rec.Size)
	}
	f.buckets[rec.Size] = append(f.buckets[rec.Size], rec)
}

// Errors returns per-file failures recorded while hashing.
func (f *SizeFinder) Errors() []*scanner.ScanError {
	return f.errs
}

// Verify digests every bucket with two or more members and returns the
// ranked duplicate groups. Between buckets it consults the time budget and,
// when flagged, parks on the controller's decision point; a raised threshold
// makes all later buckets below it get skipped. On cancellation the groups
// verified so far are returned alongside the context error; a partially
// verified group is never reported.
func (f *SizeFinder) Verify(ctx context.Context) ([]DuplicateGroup, error) {
	var totalFiles, totalBytes int64
	for _, size := range f.order {
		if n := int64(len(f.buckets[size])); n >= 2 {
			totalFiles += n
			totalBytes += size * n
		}
	}

	var doneFiles, doneBytes int64
	flush := func(phase progress.Phase, suggested int64) {
		eta, known := f.estimator.ETA(totalBytes - doneBytes)
		f.tracker.Update(func(snap *progress.Snapshot) {
			snap.Phase = phase
			snap.HashTotal = totalFiles
			snap.HashDone = doneFiles
			snap.HashedBytes = doneBytes
			snap.ETA = eta
			snap.ETAKnown = known
			snap.MinSize = f.threshold.Get()
			snap.SuggestedMin = suggested
		})
	}

	f.estimator.StartPhase()
	flush(progress.PhaseHashing, 0)

	var groups []DuplicateGroup
	for _, size := range f.order {
		recs := f.buckets[size]
		if len(recs) < 2 {
			continue
		}

		if err := ctx.Err(); err != nil {
			return Rank(groups), err
		}

		// The threshold may have been raised since this bucket was filled.
		if size < f.threshold.Get() {
			doneFiles += int64(len(recs))
			doneBytes += size * int64(len(recs))
			flush(progress.PhaseHashing, 0)
			continue
		}

		// Budget checkpoint between units of work. The estimator only
		// signals; continuing or raising the threshold is the caller's call.
		if eta, ok := f.estimator.ETA(totalBytes - doneBytes); ok && f.estimator.Exceeded(eta) && !f.controller.Resolved() {
			flush(progress.PhaseDeciding, budget.SuggestMinSize(f.threshold.Get()))
			if _, err := f.controller.AwaitDecision(ctx); err != nil {
				return Rank(groups), err
			}
			f.estimator.StartPhase()
			flush(progress.PhaseHashing, 0)

			if size < f.threshold.Get() {
				doneFiles += int64(len(recs))
				doneBytes += size * int64(len(recs))
				flush(progress.PhaseHashing, 0)
				continue
			}
		}

		bucketGroups, err := f.verifyBucket(ctx, size, recs)
		if err != nil {
			return Rank(groups), err
		}
		groups = append(groups, bucketGroups...)

		doneFiles += int64(len(recs))
		doneBytes += size * int64(len(recs))
		f.estimator.Observe(int64(len(recs)), size*int64(len(recs)))
		flush(progress.PhaseHashing, 0)
	}

	flush(progress.PhaseHashing, 0)
	return Rank(groups), nil
}

// verifyBucket confirms one size bucket in two stages: a cheap prefix hash
// prunes files that cannot match anything, then full digests settle the rest.
func (f *SizeFinder) verifyBucket(ctx context.Context, size int64, recs []scanner.FileRecord) ([]DuplicateGroup, error) {
	pre, err := f.preHashStage(ctx, recs)
	if err != nil {
		return nil, err
	}

	survivors := make([]scanner.FileRecord, 0, len(recs))
	counts := make(map[uint64]int, len(pre))
	for _, h := range pre {
		counts[h]++
	}
	for i, rec := range recs {
		if h, ok := pre[i]; ok && counts[h] >= 2 {
			survivors = append(survivors, rec)
		}
	}
	if len(survivors) < 2 {
		return nil, nil
	}

	digests, err := f.digestStage(ctx, survivors)
	if err != nil {
		return nil, err
	}

	// Group by digest, preserving first-discovered order of both groups and
	// members.
	var keyOrder []string
	byDigest := make(map[string][]scanner.FileRecord)
	for i, rec := range survivors {
		digest, ok := digests[i]
		if !ok {
			continue
		}
		if _, seen := byDigest[digest]; !seen {
			keyOrder = append(keyOrder, digest)
		}
		byDigest[digest] = append(byDigest[digest], rec)
	}

	var groups []DuplicateGroup
	for _, digest := range keyOrder {
		members := byDigest[digest]
		if len(members) < 2 {
			continue
		}
		groups = append(groups, DuplicateGroup{
			Key:    digest,
			Size:   size,
			Files:  members,
			Wasted: size * int64(len(members)-1),
		})
	}
	return groups, nil
}

// preHashStage computes the prefix hash of every record on the worker pool.
// Unreadable files are dropped from the bucket and recorded, not fatal.
func (f *SizeFinder) preHashStage(ctx context.Context, recs []scanner.FileRecord) (map[int]uint64, error) {
	results := make([]uint64, len(recs))
	failed := make([]bool, len(recs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.workers)
	for i, rec := range recs {
		i, rec := i, rec
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			h, err := preHashFile(rec.Path)
			if err != nil {
				failed[i] = true
				f.recordError(rec.Path, err)
				return nil
			}
			results[i] = h
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[int]uint64, len(recs))
	for i := range recs {
		if !failed[i] {
			out[i] = results[i]
		}
	}
	return out, nil
}

// digestStage computes full digests for the surviving records, one worker per
// file so no file is ever hashed twice concurrently.
func (f *SizeFinder) digestStage(ctx context.Context, recs []scanner.FileRecord) (map[int]string, error) {
	results := make([]string, len(recs))
	failed := make([]bool, len(recs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.workers)
	for i, rec := range recs {
		i, rec := i, rec
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			digest, err := digestFile(rec.Path)
			if err != nil {
				failed[i] = true
				f.recordError(rec.Path, err)
				return nil
			}
			results[i] = digest
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[int]string, len(recs))
	for i := range recs {
		if !failed[i] {
			out[i] = results[i]
		}
	}
	return out, nil
}

func (f *SizeFinder) recordError(path string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.errs) < maxCollectedErrors {
		f.errs = append(f.errs, scanner.CategorizeError(path, err))
	}
}

const maxCollectedErrors = 256
