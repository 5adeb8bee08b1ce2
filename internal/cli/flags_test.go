package cli

import (
	"testing"

	"github.com/rileyhilliard/dupefindr/internal/config"
	"github.com/rileyhilliard/dupefindr/internal/errors"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseScanFlags(t *testing.T, args ...string) (*cobra.Command, *ScanFlags) {
	t.Helper()
	cmd := &cobra.Command{Use: "scan"}
	flags := &ScanFlags{}
	AddScanFlags(cmd, flags)
	require.NoError(t, cmd.ParseFlags(args))
	return cmd, flags
}

func TestApplyScanFlagsOnlyChanged(t *testing.T) {
	cmd, flags := parseScanFlags(t)
	cfg := config.DefaultConfig()
	cfg.Action.Keep = "oldest"
	cfg.Scan.Recursive = false

	require.NoError(t, ApplyScanFlags(cmd, flags, cfg))

	assert.Equal(t, "oldest", cfg.Action.Keep, "unset flags keep config values")
	assert.False(t, cfg.Scan.Recursive, "flag default does not override config")
}

func TestApplyScanFlagsOverride(t *testing.T) {
	cmd, flags := parseScanFlags(t,
		"-r=false",
		"--include-hidden-files",
		"--include-zero-byte-files",
		"--exclude", "*.tmp",
		"--exclude", "cache/*",
		"--workers", "3",
		"--keep", "first",
		"--action", "copy",
		"--destination", "/tmp/dupes",
		"--dry-run",
		"--format", "yaml",
	)
	cfg := config.DefaultConfig()

	require.NoError(t, ApplyScanFlags(cmd, flags, cfg))

	assert.False(t, cfg.Scan.Recursive)
	assert.True(t, cfg.Scan.IncludeHidden)
	assert.True(t, cfg.Scan.IncludeZeroByte)
	assert.Contains(t, cfg.Scan.Exclude, ".git", "configured patterns kept")
	assert.Contains(t, cfg.Scan.Exclude, "*.tmp")
	assert.Contains(t, cfg.Scan.Exclude, "cache/*")
	assert.Equal(t, 3, cfg.Hash.Workers)
	assert.Equal(t, "first", cfg.Action.Keep)
	assert.Equal(t, "copy", cfg.Action.Type)
	assert.Equal(t, "/tmp/dupes", cfg.Action.Destination)
	assert.True(t, cfg.Action.DryRun)
	assert.Equal(t, "yaml", cfg.Output.Format)
	assert.NoError(t, config.Validate(cfg))
}

func TestApplyScanFlagsNegativeWorkers(t *testing.T) {
	cmd, flags := parseScanFlags(t, "--workers", "-1")

	err := ApplyScanFlags(cmd, flags, config.DefaultConfig())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrInput))
}

func TestApplyScanFlagsExpandsDestination(t *testing.T) {
	t.Setenv("HOME", "/home/tester")
	cmd, flags := parseScanFlags(t, "--destination", "~/dupes")
	cfg := config.DefaultConfig()

	require.NoError(t, ApplyScanFlags(cmd, flags, cfg))
	assert.Equal(t, "/home/tester/dupes", cfg.Action.Destination)
}
