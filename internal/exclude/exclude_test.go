package exclude

import "testing"

func TestExcludedPrefixes(t *testing.T) {
	s := New([]string{"/Windows", "/Users/alice/AppData", "C:/Program Files"}, nil)

	tests := []struct {
		name string
		path string
		want bool
	}{
		{"exact prefix", "/Windows", true},
		{"descendant", "/Windows/System32/drivers", true},
		{"case insensitive", "/WINDOWS/Temp", true},
		{"nested prefix", "/Users/alice/AppData/Local/cache.bin", true},
		{"sibling not excluded", "/Users/alice/Documents/report.pdf", false},
		{"prefix of a prefix not excluded", "/Users/alice", false},
		{"partial segment no match", "/Windows2/file.txt", false},
		{"unrelated", "/tmp/scratch", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.Excluded(tt.path); got != tt.want {
				t.Errorf("Excluded(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestExcludedPatterns(t *testing.T) {
	s := New(nil, []string{"**/node_modules/**", "**/*.tmp"})

	tests := []struct {
		name string
		path string
		want bool
	}{
		{"deep node_modules", "/home/bob/src/app/node_modules/left-pad/index.js", true},
		{"tmp file", "/var/data/build.TMP", true},
		{"plain file", "/home/bob/src/app/main.go", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.Excluded(tt.path); got != tt.want {
				t.Errorf("Excluded(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestEmptySetExcludesNothing(t *testing.T) {
	s := New(nil, nil)
	if !s.Empty() {
		t.Error("fresh set should report Empty")
	}
	if s.Excluded("/anything/at/all") {
		t.Error("empty set must not exclude")
	}
}

func TestAddDeduplicates(t *testing.T) {
	s := New(nil, nil)
	s.Add("/opt/data")
	s.Add("/opt/data")
	s.Add("/OPT/DATA")
	if s.Len() != 1 {
		t.Errorf("Len() = %d after adding one prefix three ways, want 1", s.Len())
	}
}

func TestAddIgnoresEmptyPath(t *testing.T) {
	s := New([]string{"", "/"}, nil)
	if s.Len() != 0 {
		t.Errorf("Len() = %d, want 0 for empty and root-only paths", s.Len())
	}
}
