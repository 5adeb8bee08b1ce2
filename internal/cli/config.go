package cli

import (
	"fmt"

	"github.com/rileyhilliard/dupefindr/internal/config"
	"github.com/rileyhilliard/dupefindr/internal/errors"
	"github.com/rileyhilliard/dupefindr/internal/ui"
	"github.com/spf13/cobra"
)

var configSetGlobal bool

// configCmd groups the config subcommands
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change configuration",
	Long: `Show or change dupefindr configuration.

Config is read from .dupefindr.yaml in the current directory or a parent
(up to the git root), then ~/.config/dupefindr/config.yaml. Flags given on
the command line win over both.`,
}

// configShowCmd prints the effective config
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as YAML",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, path, err := config.LoadOrDefault(Config())
		if err != nil {
			return err
		}
		out, err := config.Marshal(cfg)
		if err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig, "Cannot encode config", "")
		}
		if path == "" {
			path = "defaults"
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.MutedStyle().Render("# " + path))
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

// configPathCmd prints the config file in use
var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file in use",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.Find(Config())
		if err != nil {
			return err
		}
		if path == "" {
			return errors.New(errors.ErrConfig,
				"No config file found",
				fmt.Sprintf("Create one with 'dupefindr config set <key> <value>' (writes %s)", config.ConfigFileName))
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

// configSetCmd writes one key
var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value",
	Long: `Set one dotted key in the config file, keeping its comments.

Examples:
  dupefindr config set action.keep oldest
  dupefindr config set scan.exclude ".git,node_modules,*.tmp"
  dupefindr config set --global hash.workers 4`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := configTarget()
		if err != nil {
			return err
		}
		if err := config.SetValue(path, args[0], args[1]); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				fmt.Sprintf("Cannot set %s", args[0]), "")
		}

		cfg, err := config.Load(path)
		if err != nil {
			return err
		}
		if err := config.Validate(cfg); err != nil {
			return err
		}
		line := ui.SuccessStyle().Render(fmt.Sprintf("%s %s = %s", ui.SymbolSuccess, args[0], args[1]))
		fmt.Fprintln(cmd.OutOrStdout(), line+ui.MutedStyle().Render("  "+path))
		return nil
	},
}

func init() {
	configSetCmd.Flags().BoolVar(&configSetGlobal, "global", false, "write the global config instead of the project one")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

// configTarget picks the file config set writes: --config, then --global,
// then the project config found from the cwd, else a new one in the cwd.
func configTarget() (string, error) {
	if Config() != "" {
		return Config(), nil
	}
	if configSetGlobal {
		path := config.GlobalPath()
		if path == "" {
			return "", errors.New(errors.ErrConfig, "No home directory for the global config", "Pass --config instead")
		}
		return path, nil
	}

	path, err := config.Find("")
	if err != nil {
		return "", err
	}
	if path == "" || path == config.GlobalPath() {
		return config.ConfigFileName, nil
	}
	return path, nil
}
