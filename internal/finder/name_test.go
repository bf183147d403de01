package finder

import (
	"testing"
	"time"

	"github.com/dma61/dupfinder/internal/scanner"
)

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		keepExt bool
		want    string
	}{
		// Timestamp stripping
		{"six digit date", "250915_report-final.pdf", false, "report final"},
		{"eight digit date with time", "20250131-1201 my_file.TXT", false, "my file"},
		{"dashed date", "2025-01-31__my.file.txt", false, "my file"},
		{"date without trailing separator", "250915report.txt", false, "report"},
		{"no timestamp", "report-final.pdf", false, "report final"},
		{"timestamp only", "20250131.jpg", false, ""},
		{"invalid month still stripped", "259915_notes.txt", false, "notes"},

		// Separator and case normalization
		{"mixed separators", "My__Summer...Holiday-2.txt", false, "my summer holiday 2"},
		{"whitespace runs", "a   b\tc.txt", false, "a b c"},
		{"leading and trailing junk", "__draft__.txt", false, "draft"},

		// Extension handling
		{"keep ext distinguishes pdf", "report.pdf", true, "report pdf"},
		{"keep ext distinguishes docx", "report.docx", true, "report docx"},
		{"ignore ext drops final suffix only", "archive.tar.gz", false, "archive tar"},
		{"no extension", "README", false, "readme"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeName(tt.in, tt.keepExt)
			if got != tt.want {
				t.Errorf("NormalizeName(%q, keepExt=%v) = %q, want %q", tt.in, tt.keepExt, got, tt.want)
			}
		})
	}
}

func TestNormalizeNameKeepExtDiffers(t *testing.T) {
	a := NormalizeName("report.pdf", true)
	b := NormalizeName("report.docx", true)
	if a == b {
		t.Errorf("keep-ext mode collapsed %q and %q to %q", "report.pdf", "report.docx", a)
	}
}

func rec(path string, size int64) scanner.FileRecord {
	return scanner.FileRecord{Path: path, Size: size, ModTime: time.Unix(0, 0)}
}

func TestNameFinderGroups(t *testing.T) {
	f := NewNameFinder(false, false)
	f.Add(rec("/docs/250915_report-final.pdf", 100))
	f.Add(rec("/backup/report final.PDF", 300))
	f.Add(rec("/other/report-final.docx", 200))
	f.Add(rec("/lonely/unrelated.txt", 50))

	groups := f.Groups()
	if len(groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(groups))
	}
	g := groups[0]
	if g.Key != "report final" {
		t.Errorf("group key = %q, want %q", g.Key, "report final")
	}
	if len(g.Files) != 3 {
		t.Errorf("group has %d members, want 3", len(g.Files))
	}
	// All but the largest member (300) count as wasted.
	if g.Wasted != 300 {
		t.Errorf("wasted = %d, want 300", g.Wasted)
	}
	// Sizes differ, so no common group size.
	if g.Size != 0 {
		t.Errorf("group size = %d, want 0 for mixed sizes", g.Size)
	}
}

func TestNameFinderSameSizeRequirement(t *testing.T) {
	f := NewNameFinder(false, true)
	f.Add(rec("/a/report.pdf", 100))
	f.Add(rec("/b/report.pdf", 100))
	f.Add(rec("/c/report.pdf", 999)) // same name, different size

	groups := f.Groups()
	if len(groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(groups))
	}
	if len(groups[0].Files) != 2 {
		t.Errorf("group has %d members, want 2", len(groups[0].Files))
	}
	if groups[0].Size != 100 {
		t.Errorf("group size = %d, want 100", groups[0].Size)
	}
	if groups[0].Wasted != 100 {
		t.Errorf("wasted = %d, want 100", groups[0].Wasted)
	}
}

func TestNameFinderDropsEmptyKeys(t *testing.T) {
	f := NewNameFinder(false, false)
	f.Add(rec("/a/20250131.jpg", 100))
	f.Add(rec("/b/20250201.jpg", 100)) // both normalize to ""

	if groups := f.Groups(); len(groups) != 0 {
		t.Errorf("expected no groups for pure-timestamp names, got %d", len(groups))
	}
}

func TestNameFinderDirectoryIgnored(t *testing.T) {
	f := NewNameFinder(false, false)
	f.Add(rec("/one/place/notes.txt", 10))
	f.Add(rec("/totally/different/notes.txt", 10))

	groups := f.Groups()
	if len(groups) != 1 || len(groups[0].Files) != 2 {
		t.Fatalf("directory path must not participate in the key: %+v", groups)
	}
}
