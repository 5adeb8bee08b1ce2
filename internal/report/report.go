// Package report renders the result of a scan as text, YAML or JSON.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/rileyhilliard/dupefindr/internal/actions"
	"github.com/rileyhilliard/dupefindr/internal/dupes"
	"github.com/rileyhilliard/dupefindr/internal/errors"
	"github.com/rileyhilliard/dupefindr/internal/ui"
	"gopkg.in/yaml.v3"
)

// Output formats.
const (
	FormatText = "text"
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// Report is everything a finished scan has to say.
type Report struct {
	Root      string
	Scanned   int
	Decisions []dupes.Decision
	Outcomes  []actions.Outcome
	Action    actions.Action
	Duration  time.Duration
	DryRun    bool
}

// Document is the machine-readable shape of a report.
type Document struct {
	Root        string          `yaml:"root" json:"root"`
	Scanned     int             `yaml:"scanned" json:"scanned"`
	Duration    string          `yaml:"duration" json:"duration"`
	DryRun      bool            `yaml:"dry_run" json:"dry_run"`
	Action      string          `yaml:"action" json:"action"`
	Reclaimable int64           `yaml:"reclaimable_bytes" json:"reclaimable_bytes"`
	Groups      []DocumentGroup `yaml:"groups" json:"groups"`
}

// DocumentGroup is one duplicate set in a Document.
type DocumentGroup struct {
	Hash       string          `yaml:"hash" json:"hash"`
	Size       int64           `yaml:"size" json:"size"`
	Keep       string          `yaml:"keep,omitempty" json:"keep,omitempty"`
	Skipped    bool            `yaml:"skipped,omitempty" json:"skipped,omitempty"`
	Duplicates []DocumentEntry `yaml:"duplicates" json:"duplicates"`
}

// DocumentEntry is one redundant copy in a DocumentGroup.
type DocumentEntry struct {
	Path   string `yaml:"path" json:"path"`
	Status string `yaml:"status" json:"status"`
	Target string `yaml:"target,omitempty" json:"target,omitempty"`
	Error  string `yaml:"error,omitempty" json:"error,omitempty"`
}

// Write renders r to w in the given format.
func Write(w io.Writer, r *Report, format string) error {
	var out string
	switch format {
	case FormatText, "":
		out = ui.RenderSummary(Summary(r))
	case FormatYAML:
		data, err := yaml.Marshal(Build(r))
		if err != nil {
			return errors.WrapWithCode(err, errors.ErrInput, "Cannot encode report", "")
		}
		out = string(data)
	case FormatJSON:
		data, err := json.MarshalIndent(Build(r), "", "  ")
		if err != nil {
			return errors.WrapWithCode(err, errors.ErrInput, "Cannot encode report", "")
		}
		out = string(data) + "\n"
	default:
		return errors.New(errors.ErrInput,
			fmt.Sprintf("Unknown output format: %s", format),
			"Use one of: text, yaml, json")
	}
	_, err := io.WriteString(w, out)
	return err
}

// Summary converts r to the display model used by the ui package.
func Summary(r *Report) *ui.ScanSummary {
	outcomes := indexOutcomes(r.Outcomes)
	s := &ui.ScanSummary{
		Root:     r.Root,
		Scanned:  r.Scanned,
		Duration: r.Duration,
		DryRun:   r.DryRun,
	}
	for _, d := range r.Decisions {
		g := ui.DuplicateGroup{Hash: d.Group.Hash, Size: d.Group.Size, Keep: d.Keep.Path}
		for _, f := range removed(d) {
			g.Duplicates = append(g.Duplicates, entry(f, d.Skipped, outcomes, r))
		}
		s.Groups = append(s.Groups, g)
	}
	return s
}

// Build converts r to its machine-readable Document.
func Build(r *Report) Document {
	outcomes := indexOutcomes(r.Outcomes)
	doc := Document{
		Root:     r.Root,
		Scanned:  r.Scanned,
		Duration: r.Duration.Round(time.Millisecond).String(),
		DryRun:   r.DryRun,
		Action:   string(r.Action),
		Groups:   []DocumentGroup{},
	}
	for _, d := range r.Decisions {
		g := DocumentGroup{
			Hash:       d.Group.Hash,
			Size:       d.Group.Size,
			Keep:       d.Keep.Path,
			Skipped:    d.Skipped,
			Duplicates: []DocumentEntry{},
		}
		for _, f := range removed(d) {
			de := DocumentEntry{Path: f, Status: "pending"}
			if d.Skipped {
				de.Status = "skipped"
			} else if o, ok := outcomes[f]; ok {
				de.Status = string(o.Status)
				de.Target = o.Target
				de.Error = errors.Detail(o.Err)
			}
			g.Duplicates = append(g.Duplicates, de)
		}
		doc.Reclaimable += d.Group.Wasted()
		doc.Groups = append(doc.Groups, g)
	}
	return doc
}

// removed lists the paths that are not kept. A skipped decision has no
// Remove list, so every file but the kept one counts.
func removed(d dupes.Decision) []string {
	var paths []string
	if len(d.Remove) > 0 {
		for _, f := range d.Remove {
			paths = append(paths, f.Path)
		}
		return paths
	}
	for _, f := range d.Group.Files {
		if f.Path != d.Keep.Path {
			paths = append(paths, f.Path)
		}
	}
	return paths
}

func entry(path string, skipped bool, outcomes map[string]actions.Outcome, r *Report) ui.DuplicateEntry {
	e := ui.DuplicateEntry{Path: path}
	if skipped {
		e.Status = ui.EntrySkipped
		e.Detail = "skipped"
		return e
	}
	o, ok := outcomes[path]
	if !ok || r.Action == actions.ActionNone || r.Action == "" {
		e.Status = ui.EntryPending
		return e
	}
	switch o.Status {
	case actions.StatusDone:
		e.Status = ui.EntryDone
		e.Detail = o.Action.Past()
	case actions.StatusFailed:
		e.Status = ui.EntryFailed
		e.Detail = errors.Detail(o.Err)
	default:
		e.Status = ui.EntrySkipped
		if r.DryRun {
			e.Detail = "dry run"
		}
	}
	return e
}

func indexOutcomes(outcomes []actions.Outcome) map[string]actions.Outcome {
	m := make(map[string]actions.Outcome, len(outcomes))
	for _, o := range outcomes {
		m[o.Path] = o
	}
	return m
}
