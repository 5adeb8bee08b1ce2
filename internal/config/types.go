package config

// CurrentConfigVersion is the schema version for the config file.
// Increment when making breaking changes to the config structure.
const CurrentConfigVersion = 1

// Config represents the complete .dupefindr.yaml configuration file.
type Config struct {
	Version int          `yaml:"version" mapstructure:"version"`
	Scan    ScanConfig   `yaml:"scan" mapstructure:"scan"`
	Hash    HashConfig   `yaml:"hash" mapstructure:"hash"`
	Action  ActionConfig `yaml:"action" mapstructure:"action"`
	Output  OutputConfig `yaml:"output" mapstructure:"output"`
}

// ScanConfig controls which files are collected.
type ScanConfig struct {
	// Recursive descends into subdirectories.
	Recursive bool `yaml:"recursive" mapstructure:"recursive"`

	// IncludeHidden collects dot files and descends into dot directories.
	IncludeHidden bool `yaml:"include_hidden_files" mapstructure:"include_hidden_files"`

	// IncludeZeroByte collects empty files. They are all identical, so this
	// usually produces one large group.
	IncludeZeroByte bool `yaml:"include_zero_byte_files" mapstructure:"include_zero_byte_files"`

	// Exclude holds glob patterns matched against base names and root-relative paths.
	Exclude []string `yaml:"exclude" mapstructure:"exclude"`
}

// HashConfig controls content hashing.
type HashConfig struct {
	// Workers is the hashing pool size. 0 means one per CPU.
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// ActionConfig controls what happens to redundant copies.
type ActionConfig struct {
	// Keep picks the copy to keep: "newest", "oldest", "first", or "interactive".
	Keep string `yaml:"keep" mapstructure:"keep"`

	// Type is the action for the other copies: "none", "move", "copy", or "delete".
	Type string `yaml:"type" mapstructure:"type"`

	// Destination is where move and copy put files.
	// Supports ~ and variable expansion: ${HOME}, ${USER}.
	Destination string `yaml:"destination" mapstructure:"destination"`

	// DryRun reports what would happen without touching files.
	DryRun bool `yaml:"dry_run" mapstructure:"dry_run"`
}

// OutputConfig controls terminal output formatting.
type OutputConfig struct {
	// Color mode: "auto", "always", or "never".
	// "auto" disables color when output is piped.
	Color string `yaml:"color" mapstructure:"color"`

	// Format for the final report: "text", "yaml" or "json".
	Format string `yaml:"format" mapstructure:"format"`

	// Verbose prints every skipped and hashed file above the progress bars.
	Verbose bool `yaml:"verbose" mapstructure:"verbose"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version: CurrentConfigVersion,
		Scan: ScanConfig{
			Recursive: true,
			Exclude: []string{
				".git",
				"node_modules",
				".DS_Store",
			},
		},
		Hash: HashConfig{
			Workers: 0,
		},
		Action: ActionConfig{
			Keep: "newest",
			Type: "none",
		},
		Output: OutputConfig{
			Color:  "auto",
			Format: "text",
		},
	}
}
