package cli

import (
	"fmt"

	"github.com/rileyhilliard/dupefindr/internal/config"
	"github.com/rileyhilliard/dupefindr/internal/errors"
	"github.com/spf13/cobra"
)

// ScanFlags holds the flags of the scan command. Each one overrides its
// config value only when given on the command line.
type ScanFlags struct {
	Recursive       bool
	IncludeHidden   bool
	IncludeZeroByte bool
	Exclude         []string
	Workers         int
	Keep            string
	Action          string
	Destination     string
	DryRun          bool
	Format          string
	Yes             bool
}

// Scan flag names
const (
	flagRecursive       = "recursive"
	flagIncludeHidden   = "include-hidden-files"
	flagIncludeZeroByte = "include-zero-byte-files"
	flagExclude         = "exclude"
	flagWorkers         = "workers"
	flagKeep            = "keep"
	flagAction          = "action"
	flagDestination     = "destination"
	flagDryRun          = "dry-run"
	flagFormat          = "format"
	flagYes             = "yes"
)

// AddScanFlags registers the scan flags on cmd.
func AddScanFlags(cmd *cobra.Command, flags *ScanFlags) {
	f := cmd.Flags()
	f.BoolVarP(&flags.Recursive, flagRecursive, "r", true, "descend into subdirectories")
	f.BoolVar(&flags.IncludeHidden, flagIncludeHidden, false, "include dot files and dot directories")
	f.BoolVar(&flags.IncludeZeroByte, flagIncludeZeroByte, false, "include empty files")
	f.StringArrayVar(&flags.Exclude, flagExclude, nil, "glob pattern to skip (repeatable)")
	f.IntVar(&flags.Workers, flagWorkers, 0, "hashing workers (default: one per CPU)")
	f.StringVar(&flags.Keep, flagKeep, "", "copy to keep: newest, oldest, first, interactive")
	f.StringVar(&flags.Action, flagAction, "", "what to do with the rest: none, move, copy, delete")
	f.StringVar(&flags.Destination, flagDestination, "", "target directory for move and copy")
	f.BoolVar(&flags.DryRun, flagDryRun, false, "report what would happen without touching files")
	f.StringVar(&flags.Format, flagFormat, "", "report format: text, yaml, json")
	f.BoolVarP(&flags.Yes, flagYes, "y", false, "do not ask before deleting")
}

// ApplyScanFlags copies every flag the user set onto cfg. Exclude patterns
// are appended to the configured ones.
func ApplyScanFlags(cmd *cobra.Command, flags *ScanFlags, cfg *config.Config) error {
	changed := cmd.Flags().Changed

	if changed(flagRecursive) {
		cfg.Scan.Recursive = flags.Recursive
	}
	if changed(flagIncludeHidden) {
		cfg.Scan.IncludeHidden = flags.IncludeHidden
	}
	if changed(flagIncludeZeroByte) {
		cfg.Scan.IncludeZeroByte = flags.IncludeZeroByte
	}
	if changed(flagExclude) {
		cfg.Scan.Exclude = append(cfg.Scan.Exclude, flags.Exclude...)
	}
	if changed(flagWorkers) {
		if flags.Workers < 0 {
			return errors.New(errors.ErrInput,
				fmt.Sprintf("--workers must not be negative, got %d", flags.Workers),
				"Use 0 for one worker per CPU")
		}
		cfg.Hash.Workers = flags.Workers
	}
	if changed(flagKeep) {
		cfg.Action.Keep = flags.Keep
	}
	if changed(flagAction) {
		cfg.Action.Type = flags.Action
	}
	if changed(flagDestination) {
		cfg.Action.Destination = config.Expand(flags.Destination)
	}
	if changed(flagDryRun) {
		cfg.Action.DryRun = flags.DryRun
	}
	if changed(flagFormat) {
		cfg.Output.Format = flags.Format
	}
	return nil
}
