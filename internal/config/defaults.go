package config

// DefaultMinSize is the minimum file size considered by a fresh scan.
// Smaller files rarely dominate reclaimable space and would slow the walk.
const DefaultMinSize = "10MiB"

// DefaultTimeBudgetMin is the soft wall-clock budget for one scan, in minutes.
const DefaultTimeBudgetMin = 60

// GetDefault returns the default configuration.
func GetDefault() *Config {
	return &Config{
		Root:            "", // resolved to the volume root at startup
		MinSize:         DefaultMinSize,
		TimeBudgetMin:   DefaultTimeBudgetMin,
		NoExcludes:      false,
		AddExclude:      []string{},
		ExcludePatterns: []string{},
		IncludeCloud:    false, // reading placeholders triggers network downloads
		IgnoreExt:       false, // extension-ignoring is already the implied mode
		KeepExt:         false,
		RequireSameSize: false,
		Workers:         0, // auto-size from CPU count
		Verbose:         false,
	}
}
