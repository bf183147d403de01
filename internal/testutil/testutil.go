// Package testutil provides test fixtures for scanner and finder tests.
// All file operations use t.TempDir() for safe, isolated testing.
package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

// WriteFile creates a file with the given content under dir, creating parent
// directories as needed, and returns its path.
func WriteFile(t *testing.T, dir, name string, content []byte) string {
	t.Helper()

	path := filepath.Join(dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create parent dirs for %s: %v", path, err)
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

// WriteString creates a file holding content and returns its path.
func WriteString(t *testing.T, dir, name, content string) string {
	t.Helper()
	return WriteFile(t, dir, name, []byte(content))
}

// WriteFilled creates a file of exactly size bytes, all set to fill, and
// returns its path. Handy for building size collisions with distinct content.
func WriteFilled(t *testing.T, dir, name string, size int, fill byte) string {
	t.Helper()
	return WriteFile(t, dir, name, bytes.Repeat([]byte{fill}, size))
}

// DuplicateTree builds a small tree with one pair of exact duplicates, one
// same-size non-duplicate and one uniquely sized file. Returns the root.
func DuplicateTree(t *testing.T) string {
	t.Helper()

	root := t.TempDir()
	content := bytes.Repeat([]byte("duplicate!"), 10) // 100 bytes
	WriteFile(t, root, "a.txt", content)
	WriteFile(t, root, "copy of a.txt", content)
	WriteFilled(t, root, "b.txt", len(content), 'x')
	WriteFilled(t, root, "unique.bin", 37, 'u')
	return root
}
