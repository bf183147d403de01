package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dma61/dupfinder/internal/config"
)

var (
	Version   = "0.2.0"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

var (
	configPath string
	verbose    bool

	flagRoot            string
	flagMinSize         string
	flagTimeBudget      int
	flagNoExcludes      bool
	flagAddExclude      []string
	flagExcludePatterns []string
	flagIncludeCloud    bool
	flagWorkers         int
	flagIgnoreExt       bool
	flagKeepExt         bool
	flagSameSize        bool
	flagFormat          string
	flagOutput          string
	flagNoUI            bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "dupfinder",
	Short: "Find duplicate files and rank them by reclaimable space",
	Long: `dupfinder scans a directory tree for duplicate files under two notions of
equality: exact content (same size and SHA-256 digest) and similar name
(normalized filename with leading date stamps stripped). Groups are ranked
by the space you would reclaim by keeping a single copy.

dupfinder never deletes anything; it only reports candidates.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildTime),
}

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Find exact-content duplicates (size + SHA-256)",
	Long: `Walks the tree, buckets files by exact byte size, and verifies buckets with
content digests. Only sizes that collide are ever hashed, so cost scales
with duplicates rather than with the whole tree.

A soft time budget watches the projected finish; when the projection
overruns it, the scan pauses and offers to either continue or raise the
minimum-size threshold and resume.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		return runScan(cmd.Context(), cfg, modeSize)
	},
}

var namesCmd = &cobra.Command{
	Use:   "names",
	Short: "Find name-based duplicates (timestamp-stripped, normalized)",
	Long: `Walks the tree and groups files whose normalized names agree. A leading
date stamp (250915, 20250131-1201, 2025-01-31) is stripped, separators
collapse to spaces, and the comparison is case-insensitive. By default the
extension is ignored; --keep-ext preserves it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		return runScan(cmd.Context(), cfg, modeName)
	},
}

// loadConfig merges the config file over defaults, then applies any flag the
// user actually set.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path := configPath
	if path == "" {
		p, err := config.GetConfigPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("root") {
		cfg.Root = flagRoot
	}
	if flags.Changed("min-size") {
		cfg.MinSize = flagMinSize
	}
	if flags.Changed("time-budget") {
		cfg.TimeBudgetMin = flagTimeBudget
	}
	if flags.Changed("no-excludes") {
		cfg.NoExcludes = flagNoExcludes
	}
	if flags.Changed("add-exclude") {
		cfg.AddExclude = append(cfg.AddExclude, flagAddExclude...)
	}
	if flags.Changed("exclude-pattern") {
		cfg.ExcludePatterns = append(cfg.ExcludePatterns, flagExcludePatterns...)
	}
	if flags.Changed("include-cloud") {
		cfg.IncludeCloud = flagIncludeCloud
	}
	if flags.Changed("workers") {
		cfg.Workers = flagWorkers
	}
	if flags.Changed("ignore-ext") {
		cfg.IgnoreExt = flagIgnoreExt
	}
	if flags.Changed("keep-ext") {
		cfg.KeepExt = flagKeepExt
	}
	if flags.Changed("same-size") {
		cfg.RequireSameSize = flagSameSize
	}
	if verbose {
		cfg.Verbose = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func addCommonFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagRoot, "root", "", "directory to scan (default: the volume root)")
	cmd.Flags().StringVar(&flagMinSize, "min-size", config.DefaultMinSize, "minimum file size to consider, e.g. 10MiB")
	cmd.Flags().IntVar(&flagTimeBudget, "time-budget", config.DefaultTimeBudgetMin, "soft time budget in minutes")
	cmd.Flags().BoolVar(&flagNoExcludes, "no-excludes", false, "disable the built-in system/cloud-sync excludes")
	cmd.Flags().StringArrayVar(&flagAddExclude, "add-exclude", nil, "additional directory to exclude (repeatable)")
	cmd.Flags().StringArrayVar(&flagExcludePatterns, "exclude-pattern", nil, "glob pattern to exclude (repeatable)")
	cmd.Flags().BoolVar(&flagIncludeCloud, "include-cloud", false, "include cloud-sync placeholder files (may trigger downloads)")
	cmd.Flags().StringVar(&flagFormat, "format", "summary", "output format: summary, table, json, yaml")
	cmd.Flags().StringVarP(&flagOutput, "output", "o", "", "write the report to a file instead of stdout")
	cmd.Flags().BoolVar(&flagNoUI, "no-ui", false, "plain line output instead of the interactive view")
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	addCommonFlags(scanCmd)
	scanCmd.Flags().IntVar(&flagWorkers, "workers", 0, "hashing workers (0 = auto)")

	addCommonFlags(namesCmd)
	namesCmd.Flags().BoolVar(&flagIgnoreExt, "ignore-ext", false, "compare names without extensions (default)")
	namesCmd.Flags().BoolVar(&flagKeepExt, "keep-ext", false, "compare names with extensions")
	namesCmd.Flags().BoolVar(&flagSameSize, "same-size", false, "only group files that also share an exact byte size")
	namesCmd.MarkFlagsMutuallyExclusive("ignore-ext", "keep-ext")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(namesCmd)
}
