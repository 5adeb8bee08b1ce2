// Package actions applies the chosen action to the redundant copies of each
// duplicate group.
package actions

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/rileyhilliard/dupefindr/internal/dupes"
	"github.com/rileyhilliard/dupefindr/internal/errors"
)

// Action is what happens to redundant copies.
type Action string

const (
	ActionNone   Action = "none"
	ActionMove   Action = "move"
	ActionCopy   Action = "copy"
	ActionDelete Action = "delete"
)

// ParseAction parses an action name, case-insensitively.
func ParseAction(s string) (Action, error) {
	switch a := Action(strings.ToLower(strings.TrimSpace(s))); a {
	case ActionNone, ActionMove, ActionCopy, ActionDelete:
		return a, nil
	default:
		return "", errors.New(errors.ErrInput,
			"Unknown action: "+s,
			"Use one of: none, move, copy, delete")
	}
}

// Past returns the past-tense verb for summaries.
func (a Action) Past() string {
	switch a {
	case ActionMove:
		return "moved"
	case ActionCopy:
		return "copied"
	case ActionDelete:
		return "deleted"
	default:
		return "kept"
	}
}

// Status is the result of acting on one file.
type Status string

const (
	StatusDone    Status = "done"
	StatusSkipped Status = "skipped" // dry run, no action, or the group was skipped
	StatusFailed  Status = "failed"
)

// Outcome records what happened to one redundant copy.
type Outcome struct {
	Path   string `yaml:"path"`
	Target string `yaml:"target,omitempty"`
	Action Action `yaml:"action"`
	Status Status `yaml:"status"`
	Err    error  `yaml:"-"`
}

// Options controls Apply.
type Options struct {
	Action Action
	// Root is the scanned directory; moved and copied files keep their path relative to it.
	Root        string
	Destination string
	DryRun      bool

	// OnApply, if set, is called after each file is handled.
	OnApply func(Outcome)
}

// Apply acts on every Remove file of every non-skipped decision. Per-file
// failures are recorded in their Outcome; an error is returned only for
// invalid options.
func Apply(decisions []dupes.Decision, opts Options) ([]Outcome, error) {
	if (opts.Action == ActionMove || opts.Action == ActionCopy) && opts.Destination == "" {
		return nil, errors.New(errors.ErrAction,
			fmt.Sprintf("Action %s needs a destination", opts.Action),
			"Pass --destination")
	}

	var outcomes []Outcome
	for _, d := range decisions {
		if d.Skipped {
			continue
		}
		for _, f := range d.Remove {
			o := Outcome{Path: f.Path, Action: opts.Action, Status: StatusSkipped}
			if opts.Action == ActionMove || opts.Action == ActionCopy {
				o.Target = target(opts.Root, opts.Destination, f.Path)
			}

			if !opts.DryRun && opts.Action != ActionNone {
				if err := apply(opts.Action, o.Path, o.Target); err != nil {
					o.Status = StatusFailed
					o.Err = errors.WrapWithCode(err, errors.ErrAction,
						fmt.Sprintf("Cannot %s %s", opts.Action, f.Path), "")
				} else {
					o.Status = StatusDone
				}
			}

			if opts.OnApply != nil {
				opts.OnApply(o)
			}
			outcomes = append(outcomes, o)
		}
	}
	return outcomes, nil
}

// target maps path under root to the same relative path under dest. Paths
// outside root keep their base name only.
func target(root, dest, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		rel = filepath.Base(path)
	}
	return filepath.Join(dest, rel)
}

func apply(a Action, path, target string) error {
	switch a {
	case ActionDelete:
		return os.Remove(path)
	case ActionCopy:
		return copyFile(path, target)
	case ActionMove:
		return moveFile(path, target)
	default:
		return nil
	}
}

func moveFile(src, dst string) error {
	if err := ensureFree(dst); err != nil {
		return err
	}
	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}
	// Rename cannot cross filesystems; fall back to copy and remove.
	if !stderrors.Is(err, syscall.EXDEV) {
		return err
	}
	if err := copyFile(src, dst); err != nil {
		return err
	}
	return os.Remove(src)
}

func copyFile(src, dst string) error {
	if err := ensureFree(dst); err != nil {
		return err
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(dst)
		return err
	}
	return os.Chtimes(dst, info.ModTime(), info.ModTime())
}

// ensureFree creates dst's parent and refuses to overwrite an existing file.
func ensureFree(dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}
	if _, err := os.Lstat(dst); err == nil {
		return fmt.Errorf("%s already exists", dst)
	}
	return nil
}

// Summarize counts outcomes by status and sums the bytes of done files.
func Summarize(outcomes []Outcome, sizes map[string]int64) (done, failed int, bytes int64) {
	for _, o := range outcomes {
		switch o.Status {
		case StatusDone:
			done++
			bytes += sizes[o.Path]
		case StatusFailed:
			failed++
		}
	}
	return done, failed, bytes
}
