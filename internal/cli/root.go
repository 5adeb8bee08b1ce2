package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rileyhilliard/dupefindr/internal/errors"
	"github.com/rileyhilliard/dupefindr/internal/ui"
	"github.com/rileyhilliard/dupefindr/internal/util"
	"github.com/spf13/cobra"
)

// Persistent flags
var (
	cfgFile string
	verbose bool
	noColor bool
)

// rootCmd is the base command
var rootCmd = &cobra.Command{
	Use:   "dupefindr",
	Short: "Find and clean up duplicate files",
	Long: `dupefindr finds files with identical content under a directory and
keeps one copy of each. The rest can be reported, moved, copied or deleted.

Examples:
  dupefindr scan ~/Pictures
  dupefindr scan --keep oldest --action move --destination ~/dupes .
  dupefindr config show`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if noColor || os.Getenv("NO_COLOR") != "" {
			ui.DisableColors()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: .dupefindr.yaml, then ~/.config/dupefindr/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "show skipped files and per-file detail")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
}

// Config returns the --config flag value.
func Config() string {
	return cfgFile
}

// Verbose reports whether --verbose was given.
func Verbose() bool {
	return verbose
}

// Execute runs the root command and exits with the appropriate code.
// Ctrl+C cancels the running command's context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(handleError(err, os.Stderr))
	}
}

// handleError reports err on w and returns the process exit code.
func handleError(err error, w io.Writer) int {
	if code, ok := errors.GetExitCode(err); ok {
		// The command already reported the failure.
		return code
	}

	if isUnknownCommandError(err) {
		fmt.Fprintln(w, ui.ErrorStyle().Render(ui.SymbolFail+" "+err.Error()))
		name := extractUnknownCommand(err)
		if suggestions := util.SuggestSimilar(name, commandNames(), 3); len(suggestions) > 0 {
			fmt.Fprintf(w, "  Did you mean: %s?\n", util.JoinOrDefault(suggestions, ""))
		} else if name != "" {
			fmt.Fprintf(w, "  '%s' is not a dupefindr command. Run 'dupefindr --help' for the list.\n", name)
		} else {
			fmt.Fprintln(w, "  Run 'dupefindr --help' for usage.")
		}
		return 2
	}

	msg := err.Error()
	if !strings.HasPrefix(msg, ui.SymbolFail) {
		msg = ui.SymbolFail + " " + msg
	}
	fmt.Fprintln(w, ui.ErrorStyle().Render(strings.TrimRight(msg, "\n")))
	return 1
}

// commandNames lists the visible subcommands of rootCmd.
func commandNames() []string {
	var names []string
	for _, c := range rootCmd.Commands() {
		if c.IsAvailableCommand() {
			names = append(names, c.Name())
		}
	}
	return names
}

// isUnknownCommandError reports whether err is cobra's unknown command or flag error.
func isUnknownCommandError(err error) bool {
	msg := err.Error()
	return strings.HasPrefix(msg, "unknown command") ||
		strings.HasPrefix(msg, "unknown flag") ||
		strings.HasPrefix(msg, "unknown shorthand flag")
}

// extractUnknownCommand pulls the quoted command name out of cobra's
// `unknown command "foo" for "dupefindr"` message.
func extractUnknownCommand(err error) string {
	msg := err.Error()
	start := strings.Index(msg, `"`)
	if start < 0 {
		return ""
	}
	end := strings.Index(msg[start+1:], `"`)
	if end < 0 {
		return ""
	}
	return msg[start+1 : start+1+end]
}
