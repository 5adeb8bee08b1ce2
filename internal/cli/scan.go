package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rileyhilliard/dupefindr/internal/actions"
	"github.com/rileyhilliard/dupefindr/internal/config"
	"github.com/rileyhilliard/dupefindr/internal/dupes"
	"github.com/rileyhilliard/dupefindr/internal/errors"
	"github.com/rileyhilliard/dupefindr/internal/hasher"
	"github.com/rileyhilliard/dupefindr/internal/logger"
	"github.com/rileyhilliard/dupefindr/internal/report"
	"github.com/rileyhilliard/dupefindr/internal/scan"
	"github.com/rileyhilliard/dupefindr/internal/ui"
	"github.com/rileyhilliard/dupefindr/internal/util"
	"github.com/spf13/cobra"
)

// progressTerminal is where progress is painted. Tests swap it for a virtual terminal.
var progressTerminal = ui.Stdout

var scanFlags ScanFlags

// scanCmd finds duplicates under a directory
var scanCmd = &cobra.Command{
	Use:   "scan [path]",
	Short: "Find duplicate files under a directory",
	Long: `Walk a directory, hash every file that shares its size with another,
and report each set of identical files. One copy of each set is kept; the
others can be moved, copied or deleted.

Examples:
  dupefindr scan
  dupefindr scan ~/Pictures --keep oldest
  dupefindr scan . --action move --destination ~/dupes --dry-run
  dupefindr scan . --exclude '*.tmp' --format yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := "."
		if len(args) == 1 {
			root = args[0]
		}

		cfg, _, err := config.LoadOrDefault(Config())
		if err != nil {
			return err
		}
		if err := ApplyScanFlags(cmd, &scanFlags, cfg); err != nil {
			return err
		}
		if err := config.Validate(cfg); err != nil {
			return err
		}
		switch cfg.Output.Color {
		case "never":
			ui.DisableColors()
		case "always":
			if !noColor {
				ui.ForceColors()
			}
		}

		return runScan(cmd.Context(), scanRequest{
			Root:    root,
			Config:  cfg,
			Out:     cmd.OutOrStdout(),
			Term:    progressTerminal(),
			Verbose: Verbose() || cfg.Output.Verbose,
			Yes:     scanFlags.Yes,
			Chooser: newChooser(),
			Confirm: confirmDelete,
		})
	},
}

func init() {
	AddScanFlags(scanCmd, &scanFlags)
	rootCmd.AddCommand(scanCmd)
}

// scanRequest is everything one scan needs.
type scanRequest struct {
	Root    string
	Config  *config.Config
	Out     io.Writer    // final report
	Term    *ui.Terminal // progress display
	Verbose bool
	Yes     bool // skip the delete confirmation
	Chooser dupes.Chooser
	Confirm func(count int, bytes int64) error
}

// runScan runs the collect, hash, resolve and apply phases and writes the report.
func runScan(ctx context.Context, req scanRequest) error {
	start := time.Now()
	cfg := req.Config

	root, err := filepath.Abs(req.Root)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrInput, "Cannot resolve "+req.Root, "")
	}
	strategy, err := dupes.ParseKeepStrategy(cfg.Action.Keep)
	if err != nil {
		return err
	}
	action, err := actions.ParseAction(cfg.Action.Type)
	if err != nil {
		return err
	}

	textOutput := cfg.Output.Format == report.FormatText || cfg.Output.Format == ""
	d := &display{term: req.Term, quiet: !textOutput}
	log := logger.NewPrinterLogger(d, req.Verbose)
	phases := ui.NewPhaseLog(d)

	if textOutput {
		req.Term.Print(ui.RenderHeader(ui.HeaderInfo{
			Version: formatVersion(version),
			Root:    root,
			Details: describe(cfg, strategy, action),
		}))
	}

	// Collect
	phases.Start("Collecting")
	m := d.begin()
	collect := newCollectProgress(m, d.options())
	files, err := scan.Collect(ctx, scan.Options{
		Root:            root,
		Recursive:       cfg.Scan.Recursive,
		IncludeHidden:   cfg.Scan.IncludeHidden,
		IncludeZeroByte: cfg.Scan.IncludeZeroByte,
		Exclude:         cfg.Scan.Exclude,
		OnSkip: func(path, reason string) {
			log.Debug("skipped %s (%s)", path, reason)
		},
	}, collect.Visit)
	if err != nil {
		phases.Fail("Collecting failed", err)
		collect.Done()
		return err
	}
	phases.Done("Collected "+util.Count(len(files), "file"))
	collect.Done()

	// Hash
	candidates := dupes.CandidatesBySize(files)
	var results []hasher.Result
	hashFailures := 0
	if len(candidates) == 0 {
		phases.Skip("Hashing", "no files share a size")
	} else {
		phases.Start("Hashing")
		workers := hasher.WorkerCount(hasher.Options{Workers: cfg.Hash.Workers}, len(candidates))
		m = d.begin()
		hp := newHashProgress(m, log, int64(len(candidates)), workers, d.options())
		results, err = hasher.HashAll(ctx, candidates, hasher.Options{Workers: workers}, hp)
		if err != nil {
			phases.Fail("Hashing cancelled", err)
			hp.Done()
			return errors.WrapWithCode(err, errors.ErrHash, "Hashing stopped", "")
		}
		hashFailures = hp.Failed()
		label := "Hashed " + util.Count(len(candidates), "file")
		if hashFailures > 0 {
			label += fmt.Sprintf(", %d unreadable", hashFailures)
		}
		phases.Done(label)
		hp.Done()
	}

	// Resolve
	groups := dupes.FindGroups(results)
	decisions, err := dupes.Resolve(ctx, groups, strategy, req.Chooser)
	if strategy == dupes.KeepInteractive {
		req.Term.Resync()
	}
	if err != nil {
		return err
	}

	// Apply
	sizes := make(map[string]int64)
	var pending int
	var pendingBytes int64
	for _, dec := range decisions {
		for _, f := range dec.Remove {
			sizes[f.Path] = f.Size
			pending++
			pendingBytes += f.Size
		}
	}

	var outcomes []actions.Outcome
	switch {
	case action == actions.ActionNone:
		phases.Skip("Applying", "no action")
	case pending == 0:
		phases.Skip("Applying", "nothing to do")
	default:
		if action == actions.ActionDelete && !cfg.Action.DryRun && !req.Yes {
			if err := req.Confirm(pending, pendingBytes); err != nil {
				return err
			}
			req.Term.Resync()
		}

		if !cfg.Action.DryRun {
			phases.Start("Applying")
		}
		m = d.begin()
		bar := m.Add(ui.NewBar(int64(pending), d.options()...).WithMessage(string(action)))
		outcomes, err = actions.Apply(decisions, actions.Options{
			Action:      action,
			Root:        root,
			Destination: cfg.Action.Destination,
			DryRun:      cfg.Action.DryRun,
			OnApply: func(o actions.Outcome) {
				m.Increment(bar, 1)
				if o.Status == actions.StatusFailed {
					log.Error("%s %s", ui.SymbolFail, failureText(o.Err, o.Path))
				}
			},
		})
		if err != nil {
			phases.Fail("Applying failed", err)
			m.FinishAll()
			return err
		}
		if cfg.Action.DryRun {
			phases.Skip("Applying", "dry run")
		} else {
			done, failed, _ := actions.Summarize(outcomes, sizes)
			label := capitalize(action.Past()) + " " + util.Count(done, "file")
			if failed > 0 {
				label += fmt.Sprintf(", %d failed", failed)
			}
			phases.Done(label)
		}
		m.FinishAll()
	}

	// Report
	rep := &report.Report{
		Root:      root,
		Scanned:   len(files),
		Decisions: decisions,
		Outcomes:  outcomes,
		Action:    action,
		Duration:  time.Since(start),
		DryRun:    cfg.Action.DryRun,
	}
	if textOutput {
		req.Term.Print("\n")
	}
	if err := report.Write(req.Out, rep, cfg.Output.Format); err != nil {
		return err
	}

	done, failed, bytes := actions.Summarize(outcomes, sizes)
	if textOutput {
		if line := ui.RenderSuccessSummary(capitalize(action.Past()), done, bytes); line != "" {
			fmt.Fprintln(req.Out, "\n"+line)
		}
	}

	if hashFailures > 0 || failed > 0 {
		return errors.NewExitError(1)
	}
	return nil
}

// display forwards lines to the coordinator of the running phase. With
// quiet set only error lines are shown, so machine-readable reports on
// stdout stay clean.
type display struct {
	term  *ui.Terminal
	quiet bool

	mu sync.Mutex
	m  *ui.MultiProgress
}

// begin starts a new coordinator below whatever the previous phase left.
func (d *display) begin() *ui.MultiProgress {
	m := ui.NewMultiProgress(d.options()...)
	d.mu.Lock()
	d.m = m
	d.mu.Unlock()
	return m
}

func (d *display) options() []ui.Option {
	return []ui.Option{ui.WithTerminal(d.term)}
}

func (d *display) current() *ui.MultiProgress {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.m == nil {
		d.m = ui.NewMultiProgress(d.options()...)
	}
	return d.m
}

func (d *display) Println(msg string) {
	if d.quiet {
		return
	}
	d.current().Println(msg)
}

func (d *display) Eprintln(msg string) {
	d.current().Eprintln(msg)
}

// describe lists the settings shown in the header.
func describe(cfg *config.Config, strategy dupes.KeepStrategy, action actions.Action) []string {
	details := []string{"keep " + string(strategy)}
	switch action {
	case actions.ActionMove, actions.ActionCopy:
		details = append(details, fmt.Sprintf("%s to %s", action, cfg.Action.Destination))
	case actions.ActionDelete:
		details = append(details, "delete")
	}
	if cfg.Action.DryRun {
		details = append(details, "dry run")
	}
	if !cfg.Scan.Recursive {
		details = append(details, "top level only")
	}
	return details
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
