// Package report renders ranked duplicate groups for the user.
//
// The engine only identifies candidates; nothing in this package (or
// anywhere else) deletes a file. Reports carry per-group wasted bytes so the
// reader can judge what deleting all-but-one member would reclaim.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"gopkg.in/yaml.v3"

	"github.com/dma61/dupfinder/internal/finder"
	"github.com/dma61/dupfinder/internal/progress"
	"github.com/dma61/dupfinder/internal/scanner"
)

// OutputFormat represents the output format type
type OutputFormat string

const (
	FormatSummary OutputFormat = "summary"
	FormatTable   OutputFormat = "table"
	FormatJSON    OutputFormat = "json"
	FormatYAML    OutputFormat = "yaml"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (OutputFormat, error) {
	switch OutputFormat(s) {
	case FormatSummary, FormatTable, FormatJSON, FormatYAML:
		return OutputFormat(s), nil
	default:
		return "", fmt.Errorf("unsupported format: %s", s)
	}
}

// Member is one file inside a reported group.
type Member struct {
	Path    string    `json:"path" yaml:"path"`
	Size    int64     `json:"size" yaml:"size"`
	ModTime time.Time `json:"mod_time" yaml:"mod_time"`
}

// Group is one duplicate group in the report, ordered as ranked.
type Group struct {
	Key             string   `json:"key" yaml:"key"`
	Size            int64    `json:"size,omitempty" yaml:"size,omitempty"`
	Count           int      `json:"count" yaml:"count"`
	Wasted          int64    `json:"wasted_bytes" yaml:"wasted_bytes"`
	WastedFormatted string   `json:"wasted_formatted" yaml:"wasted_formatted"`
	Members         []Member `json:"members" yaml:"members"`
}

// Report is the final result of one scan invocation.
type Report struct {
	Root           string  `json:"root" yaml:"root"`
	Mode           string  `json:"mode" yaml:"mode"`
	Timestamp      string  `json:"timestamp" yaml:"timestamp"`
	ElapsedSeconds int64   `json:"elapsed_seconds" yaml:"elapsed_seconds"`
	MinSize        int64   `json:"min_size" yaml:"min_size"`
	FilesSeen      int64   `json:"files_seen" yaml:"files_seen"`
	FilesSkipped   int64   `json:"files_skipped" yaml:"files_skipped"`
	GroupCount     int     `json:"group_count" yaml:"group_count"`
	TotalWasted    int64   `json:"total_wasted_bytes" yaml:"total_wasted_bytes"`
	Groups         []Group `json:"groups" yaml:"groups"`
	SkippedErrors  int     `json:"skipped_errors" yaml:"skipped_errors"`
}

// Build assembles a Report from ranked groups and the final progress
// counters.
func Build(root, mode string, groups []finder.DuplicateGroup, snap progress.Snapshot, scanErrs []*scanner.ScanError) *Report {
	rep := &Report{
		Root:           root,
		Mode:           mode,
		Timestamp:      time.Now().Format(time.RFC3339),
		ElapsedSeconds: int64(snap.Elapsed.Seconds()),
		MinSize:        snap.MinSize,
		FilesSeen:      snap.FilesSeen,
		FilesSkipped:   snap.FilesSkipped,
		GroupCount:     len(groups),
		SkippedErrors:  len(scanErrs),
	}

	for _, g := range groups {
		group := Group{
			Key:             g.Key,
			Size:            g.Size,
			Count:           len(g.Files),
			Wasted:          g.Wasted,
			WastedFormatted: humanize.IBytes(uint64(g.Wasted)),
		}
		for _, f := range g.Files {
			group.Members = append(group.Members, Member{
				Path:    f.Path,
				Size:    f.Size,
				ModTime: f.ModTime,
			})
		}
		rep.TotalWasted += g.Wasted
		rep.Groups = append(rep.Groups, group)
	}
	return rep
}

// Reporter renders a Report in one of the supported formats.
type Reporter struct {
	writer io.Writer
	format OutputFormat
}

// New creates a new Reporter
func New(writer io.Writer, format OutputFormat) *Reporter {
	return &Reporter{writer: writer, format: format}
}

// Write renders the report.
func (r *Reporter) Write(rep *Report) error {
	switch r.format {
	case FormatSummary:
		return r.writeSummary(rep)
	case FormatTable:
		return r.writeTable(rep)
	case FormatJSON:
		encoder := json.NewEncoder(r.writer)
		encoder.SetIndent("", "  ")
		return encoder.Encode(rep)
	case FormatYAML:
		return yaml.NewEncoder(r.writer).Encode(rep)
	default:
		return fmt.Errorf("unsupported format: %s", r.format)
	}
}

func (r *Reporter) writeSummary(rep *Report) error {
	fmt.Fprintf(r.writer, "=== Duplicate Scan Summary ===\n")
	fmt.Fprintf(r.writer, "Root: %s (%s mode)\n", rep.Root, rep.Mode)
	fmt.Fprintf(r.writer, "Files examined: %d (skipped %d), min size %s, took %ds\n",
		rep.FilesSeen, rep.FilesSkipped, humanize.IBytes(uint64(rep.MinSize)), rep.ElapsedSeconds)
	fmt.Fprintf(r.writer, "Duplicate groups: %d, reclaimable: %s\n",
		rep.GroupCount, humanize.IBytes(uint64(rep.TotalWasted)))

	for i, g := range rep.Groups {
		if i >= 10 {
			fmt.Fprintf(r.writer, "... and %d more groups (use --format table for all)\n", len(rep.Groups)-i)
			break
		}
		fmt.Fprintf(r.writer, "\n[%d] %s  (%d files, %s reclaimable)\n",
			i+1, displayKey(g), g.Count, g.WastedFormatted)
		for _, m := range g.Members {
			fmt.Fprintf(r.writer, "    %s  (%s)\n", m.Path, humanize.IBytes(uint64(m.Size)))
		}
	}

	if rep.SkippedErrors > 0 {
		fmt.Fprintf(r.writer, "\nEntries skipped due to errors: %d\n", rep.SkippedErrors)
	}
	return nil
}

func (r *Reporter) writeTable(rep *Report) error {
	t := table.NewWriter()
	t.SetOutputMirror(r.writer)
	t.AppendHeader(table.Row{"#", "Key", "Files", "Size", "Reclaimable", "Members"})

	for i, g := range rep.Groups {
		size := "-"
		if g.Size > 0 {
			size = humanize.IBytes(uint64(g.Size))
		}
		for j, m := range g.Members {
			if j == 0 {
				t.AppendRow(table.Row{i + 1, displayKey(g), g.Count, size, g.WastedFormatted, m.Path})
			} else {
				t.AppendRow(table.Row{"", "", "", "", "", m.Path})
			}
		}
		t.AppendSeparator()
	}

	t.AppendFooter(table.Row{"", "", "", "", humanize.IBytes(uint64(rep.TotalWasted)),
		fmt.Sprintf("%d groups", rep.GroupCount)})
	t.Render()
	return nil
}

// displayKey shortens content digests for display; name keys pass through.
func displayKey(g Group) string {
	if len(g.Key) == 64 && g.Size > 0 {
		return g.Key[:12] + "…"
	}
	return g.Key
}
