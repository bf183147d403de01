// Package exclude decides which directories and files a scan should skip.
//
// Exclusion is a pure predicate over a fixed set of path prefixes plus
// optional glob patterns. A path is excluded when it equals, or descends
// from, any registered prefix (case-insensitive), or when it matches any
// registered pattern.
package exclude

import (
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Set holds the active exclusion rules. Prefixes are indexed as a trie over
// lower-cased path segments so lookups stay cheap on deep trees.
type Set struct {
	root     *node
	count    int
	patterns []string
}

type node struct {
	children map[string]*node
	terminal bool
}

// New builds a Set from absolute path prefixes and doublestar glob patterns.
func New(paths []string, patterns []string) *Set {
	s := &Set{root: &node{}}
	for _, p := range paths {
		s.Add(p)
	}
	for _, p := range patterns {
		s.AddPattern(p)
	}
	return s
}

// Add registers a path prefix. The path and all of its descendants become
// excluded.
func (s *Set) Add(path string) {
	segs := segments(path)
	if len(segs) == 0 {
		return
	}
	n := s.root
	for _, seg := range segs {
		if n.children == nil {
			n.children = make(map[string]*node)
		}
		child, ok := n.children[seg]
		if !ok {
			child = &node{}
			n.children[seg] = child
		}
		n = child
	}
	if !n.terminal {
		n.terminal = true
		s.count++
	}
}

// AddPattern registers a doublestar glob pattern, matched case-insensitively
// against the slash-separated form of each visited path.
func (s *Set) AddPattern(pattern string) {
	if pattern == "" {
		return
	}
	s.patterns = append(s.patterns, strings.ToLower(pattern))
}

// Excluded reports whether path is covered by any registered prefix or
// pattern.
func (s *Set) Excluded(path string) bool {
	segs := segments(path)

	n := s.root
	for _, seg := range segs {
		if n.terminal {
			return true
		}
		child, ok := n.children[seg]
		if !ok {
			n = nil
			break
		}
		n = child
	}
	if n != nil && n.terminal {
		return true
	}

	if len(s.patterns) > 0 {
		slashed := strings.ToLower(filepath.ToSlash(path))
		for _, pattern := range s.patterns {
			if ok, err := doublestar.Match(pattern, slashed); err == nil && ok {
				return true
			}
		}
	}
	return false
}

// Len returns the number of registered prefixes.
func (s *Set) Len() int {
	return s.count
}

// Empty reports whether the set holds no rules at all.
func (s *Set) Empty() bool {
	return s.count == 0 && len(s.patterns) == 0
}

// segments splits a cleaned, lower-cased path into its components. Volume
// names (Windows) become the first segment so prefixes compare drive-aware.
func segments(path string) []string {
	p := strings.ToLower(filepath.ToSlash(filepath.Clean(path)))
	p = strings.Trim(p, "/")
	if p == "" || p == "." {
		return nil
	}
	return strings.Split(p, "/")
}
