// Package finder groups scanned files into duplicate candidates.
//
// Two independent paths feed the same result shape: the size path buckets by
// exact byte size and confirms with content digests; the name path buckets by
// a normalized filename key. Both discard groups with fewer than two members
// and rank survivors by reclaimable space.
package finder

import (
	"sort"

	"github.com/dma61/dupfinder/internal/scanner"
)

// DuplicateGroup is one reported set of duplicate candidates. Immutable once
// emitted.
type DuplicateGroup struct {
	// Key identifies the group: a hex content digest for the size path, a
	// normalized name key for the name path.
	Key string

	// Size is the common byte size of all members, or 0 when members differ
	// in size (possible on the name path without the same-size requirement).
	Size int64

	Files []scanner.FileRecord

	// Wasted is the number of bytes recoverable by deleting all but one
	// member: size×(count−1) when sizes are uniform, the sum of all but the
	// largest member otherwise.
	Wasted int64
}

// Rank orders groups by descending wasted bytes, breaking ties by descending
// member count and then by discovery order. Sorting is stable so a fixed
// input always produces the same report.
func Rank(groups []DuplicateGroup) []DuplicateGroup {
	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].Wasted != groups[j].Wasted {
			return groups[i].Wasted > groups[j].Wasted
		}
		return len(groups[i].Files) > len(groups[j].Files)
	})
	return groups
}

// wastedBytes computes the reclaimable space for a group of records: every
// byte except those of the largest member.
func wastedBytes(records []scanner.FileRecord) int64 {
	var total, largest int64
	for _, rec := range records {
		total += rec.Size
		if rec.Size > largest {
			largest = rec.Size
		}
	}
	return total - largest
}
