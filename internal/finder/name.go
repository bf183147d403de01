package finder

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/dma61/dupfinder/internal/scanner"
)

// timestampRE matches a leading date/time stamp: an 8- or 6-digit date or a
// dashed YYYY-MM-DD, optionally followed by a separator and a 4-digit time,
// plus any trailing separators. Shape only: a "month" of 99 still matches,
// since the stamp is stripped for comparison, never interpreted.
var timestampRE = regexp.MustCompile(`^(?:\d{4}[-_]\d{2}[-_]\d{2}|\d{8}|\d{6})(?:[-_ ]?\d{4})?[-_ .]*`)

// separatorRE collapses the characters treated as word separators.
var separatorRE = regexp.MustCompile(`[-_.\s]+`)

// NormalizeName derives the comparison key for a filename: the extension is
// removed unless keepExt, a leading timestamp is stripped, separators
// collapse to single spaces, and the result is trimmed and lower-cased. A
// name that was nothing but a timestamp normalizes to the empty string.
func NormalizeName(base string, keepExt bool) string {
	name := base
	if !keepExt {
		if ext := filepath.Ext(base); ext != "" {
			name = strings.TrimSuffix(base, ext)
		}
	}
	name = timestampRE.ReplaceAllString(name, "")
	name = separatorRE.ReplaceAllString(name, " ")
	return strings.ToLower(strings.TrimSpace(name))
}

// nameKey is the grouping key for the name path. Size participates only when
// the same-size requirement is active.
type nameKey struct {
	name string
	size int64
}

// NameFinder implements the name-based duplicate path: files whose
// normalized names agree are duplicate candidates, optionally narrowed to
// files that also share an exact byte size.
type NameFinder struct {
	keepExt  bool
	sameSize bool

	order   []nameKey
	buckets map[nameKey][]scanner.FileRecord
}

// NewNameFinder creates a NameFinder. keepExt preserves extensions in the
// comparison key; sameSize additionally requires equal byte size to group.
func NewNameFinder(keepExt, sameSize bool) *NameFinder {
	return &NameFinder{
		keepExt:  keepExt,
		sameSize: sameSize,
		buckets:  make(map[nameKey][]scanner.FileRecord),
	}
}

// Add buckets one scanned record by its normalized name key. Names that
// normalize to the empty string (pure timestamps) can never form a
// meaningful group and are dropped.
func (f *NameFinder) Add(rec scanner.FileRecord) {
	name := NormalizeName(filepath.Base(rec.Path), f.keepExt)
	if name == "" {
		return
	}
	key := nameKey{name: name}
	if f.sameSize {
		key.size = rec.Size
	}
	if _, ok := f.buckets[key]; !ok {
		f.order = append(f.order, key)
	}
	f.buckets[key] = append(f.buckets[key], rec)
}

// Groups returns the ranked duplicate groups: every bucket with at least two
// members, wasted bytes counting everything but the largest member.
func (f *NameFinder) Groups() []DuplicateGroup {
	var groups []DuplicateGroup
	for _, key := range f.order {
		members := f.buckets[key]
		if len(members) < 2 {
			continue
		}

		size := members[0].Size
		for _, rec := range members[1:] {
			if rec.Size != size {
				size = 0
				break
			}
		}

		groups = append(groups, DuplicateGroup{
			Key:    key.name,
			Size:   size,
			Files:  members,
			Wasted: wastedBytes(members),
		})
	}
	return Rank(groups)
}
