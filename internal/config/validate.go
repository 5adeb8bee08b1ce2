package config

import (
	"fmt"
	"strings"

	"github.com/rileyhilliard/dupefindr/internal/errors"
)

// MaxWorkers bounds the hashing pool. More workers than this only thrash the disk.
const MaxWorkers = 256

// Allowed values for enumerated settings.
var (
	ValidKeep    = []string{"newest", "oldest", "first", "interactive"}
	ValidActions = []string{"none", "move", "copy", "delete"}
	ValidFormats = []string{"text", "yaml", "json"}
	ValidColors  = []string{"auto", "always", "never"}
)

// Validate checks the config for errors and returns structured error messages.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New(errors.ErrConfig,
			"Config is nil",
			"This is unexpected - try reloading the configuration.")
	}

	// Check version
	if cfg.Version > CurrentConfigVersion {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("This config is from the future (version %d, but dupefindr only knows up to %d)", cfg.Version, CurrentConfigVersion),
			"Upgrade dupefindr, or lower 'version' in .dupefindr.yaml.")
	}

	if err := validateScan(cfg.Scan); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'scan' section in your .dupefindr.yaml.")
	}

	if cfg.Hash.Workers < 0 || cfg.Hash.Workers > MaxWorkers {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("hash.workers must be between 0 and %d, got %d", MaxWorkers, cfg.Hash.Workers),
			"Use 0 to run one worker per CPU.")
	}

	if err := validateAction(cfg.Action); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'action' section in your .dupefindr.yaml.")
	}

	if err := validateOutput(cfg.Output); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'output' section in your .dupefindr.yaml.")
	}

	return nil
}

func validateScan(s ScanConfig) error {
	for _, pattern := range s.Exclude {
		if strings.TrimSpace(pattern) == "" {
			return fmt.Errorf("scan.exclude has an empty pattern")
		}
	}
	return nil
}

func validateAction(a ActionConfig) error {
	if err := oneOf("action.keep", a.Keep, ValidKeep); err != nil {
		return err
	}
	if err := oneOf("action.type", a.Type, ValidActions); err != nil {
		return err
	}
	if (a.Type == "move" || a.Type == "copy") && a.Destination == "" {
		return fmt.Errorf("action.type %q needs action.destination", a.Type)
	}
	return nil
}

func validateOutput(o OutputConfig) error {
	if err := oneOf("output.format", o.Format, ValidFormats); err != nil {
		return err
	}
	return oneOf("output.color", o.Color, ValidColors)
}

func oneOf(key, value string, allowed []string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return fmt.Errorf("%s must be one of %s, got %q", key, strings.Join(allowed, ", "), value)
}
