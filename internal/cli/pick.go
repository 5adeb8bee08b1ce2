package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/dustin/go-humanize"
	"github.com/rileyhilliard/dupefindr/internal/dupes"
	"github.com/rileyhilliard/dupefindr/internal/errors"
	"golang.org/x/term"
)

// Menu values past the file indexes.
const (
	pickSkip = -1
	pickStop = -2
)

// huhChooser asks which copy of each group to keep.
type huhChooser struct{}

// newChooser returns an interactive chooser, or nil when stdin is not a terminal.
func newChooser() dupes.Chooser {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return nil
	}
	return huhChooser{}
}

func (huhChooser) Choose(ctx context.Context, g dupes.Group, index, total int) (int, error) {
	selected := 0
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Title(fmt.Sprintf("Group %d of %d: keep which copy?", index+1, total)).
				Description(fmt.Sprintf("%s each, %s reclaimable", humanize.IBytes(uint64(g.Size)), humanize.IBytes(uint64(g.Wasted())))).
				Options(pickOptions(g)...).
				Value(&selected),
		),
	)

	if err := form.RunWithContext(ctx); err != nil {
		if stderrors.Is(err, huh.ErrUserAborted) {
			return 0, dupes.ErrEscape
		}
		return 0, err
	}
	return pickResult(selected)
}

// pickOptions lists every file, then skip and stop.
func pickOptions(g dupes.Group) []huh.Option[int] {
	options := make([]huh.Option[int], 0, len(g.Files)+2)
	for i, f := range g.Files {
		label := fmt.Sprintf("%s  (%s)", f.Path, humanize.Time(f.ModTime))
		options = append(options, huh.NewOption(label, i))
	}
	options = append(options,
		huh.NewOption("Skip this group", pickSkip),
		huh.NewOption("Stop, skip the rest", pickStop),
	)
	return options
}

func pickResult(selected int) (int, error) {
	switch selected {
	case pickSkip:
		return 0, dupes.ErrSkip
	case pickStop:
		return 0, dupes.ErrEscape
	default:
		return selected, nil
	}
}

// confirmDelete asks before files are deleted. Without a terminal on stdin
// the answer is no, and the error says how to go ahead anyway.
func confirmDelete(count int, bytes int64) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return errors.New(errors.ErrInput,
			fmt.Sprintf("Refusing to delete %d files without confirmation", count),
			"Pass --yes to delete without asking, or --dry-run to preview")
	}

	var confirm bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete %d duplicate files (%s)?", count, humanize.IBytes(uint64(bytes)))).
				Description("This cannot be undone").
				Value(&confirm),
		),
	)
	if err := form.Run(); err != nil || !confirm {
		return errors.New(errors.ErrInput, "Deletion cancelled", "")
	}
	return nil
}
