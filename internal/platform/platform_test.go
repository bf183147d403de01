package platform

import (
	"runtime"
	"testing"
)

func TestDetectMatchesRuntime(t *testing.T) {
	p := Detect()
	switch runtime.GOOS {
	case "darwin", "linux", "windows":
		if string(p) != runtime.GOOS {
			t.Errorf("Detect() = %v on %s", p, runtime.GOOS)
		}
	default:
		if p != Unknown {
			t.Errorf("Detect() = %v on unrecognized GOOS", p)
		}
	}
}

func TestGetInfo(t *testing.T) {
	info, err := GetInfo()
	if err != nil {
		t.Skipf("platform not supported here: %v", err)
	}
	if info.HomeDir == "" {
		t.Error("HomeDir should be populated")
	}
	if info.VolumeRoot == "" {
		t.Error("VolumeRoot should be populated")
	}
}

func TestDefaultExcludesNonEmpty(t *testing.T) {
	info, err := GetInfo()
	if err != nil {
		t.Skipf("platform not supported here: %v", err)
	}
	excludes := info.DefaultExcludes()
	if len(excludes) == 0 {
		t.Error("every supported platform has built-in excludes")
	}
	for _, p := range excludes {
		if p == "" {
			t.Error("empty exclude path")
		}
	}
}

func TestDedupe(t *testing.T) {
	got := dedupe([]string{"/a/b", "/A/B", "/c", "/a/b/"})
	if len(got) != 2 {
		t.Errorf("dedupe = %v, want 2 distinct paths", got)
	}
}
