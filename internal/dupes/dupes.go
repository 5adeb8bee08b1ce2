// Package dupes groups hashed files into duplicate sets and decides which
// copy of each set to keep.
package dupes

import (
	"context"
	stderrors "errors"
	"sort"
	"strings"

	"github.com/rileyhilliard/dupefindr/internal/errors"
	"github.com/rileyhilliard/dupefindr/internal/hasher"
	"github.com/rileyhilliard/dupefindr/internal/scan"
)

// Group is a set of files with identical content.
type Group struct {
	Hash  string
	Size  int64
	Files []scan.FileInfo
}

// Wasted returns the bytes held by every copy but one.
func (g Group) Wasted() int64 {
	if len(g.Files) < 2 {
		return 0
	}
	return g.Size * int64(len(g.Files)-1)
}

// CandidatesBySize drops files whose size no other file shares. Only files
// of equal size can be duplicates, so this saves hashing most of a tree.
func CandidatesBySize(files []scan.FileInfo) []scan.FileInfo {
	counts := make(map[int64]int, len(files))
	for _, f := range files {
		counts[f.Size]++
	}
	var out []scan.FileInfo
	for _, f := range files {
		if counts[f.Size] >= 2 {
			out = append(out, f)
		}
	}
	return out
}

// FindGroups groups results by hash. Failed results are ignored. Only
// groups with two or more files are returned, sorted by wasted bytes
// descending, then hash. Files within a group are sorted by path.
func FindGroups(results []hasher.Result) []Group {
	byHash := make(map[string]*Group)
	for _, r := range results {
		if r.Err != nil || r.Hash == "" {
			continue
		}
		g, ok := byHash[r.Hash]
		if !ok {
			g = &Group{Hash: r.Hash, Size: r.File.Size}
			byHash[r.Hash] = g
		}
		g.Files = append(g.Files, r.File)
	}

	var groups []Group
	for _, g := range byHash {
		if len(g.Files) < 2 {
			continue
		}
		sort.Slice(g.Files, func(i, j int) bool { return g.Files[i].Path < g.Files[j].Path })
		groups = append(groups, *g)
	}

	sort.Slice(groups, func(i, j int) bool {
		wi, wj := groups[i].Wasted(), groups[j].Wasted()
		if wi != wj {
			return wi > wj
		}
		return groups[i].Hash < groups[j].Hash
	})
	return groups
}

// KeepStrategy picks the copy of a group that survives.
type KeepStrategy string

const (
	KeepNewest      KeepStrategy = "newest"
	KeepOldest      KeepStrategy = "oldest"
	KeepFirst       KeepStrategy = "first" // first by path
	KeepInteractive KeepStrategy = "interactive"
)

// ParseKeepStrategy parses a strategy name, case-insensitively.
func ParseKeepStrategy(s string) (KeepStrategy, error) {
	switch k := KeepStrategy(strings.ToLower(strings.TrimSpace(s))); k {
	case KeepNewest, KeepOldest, KeepFirst, KeepInteractive:
		return k, nil
	default:
		return "", errors.New(errors.ErrInput,
			"Unknown keep strategy: "+s,
			"Use one of: newest, oldest, first, interactive")
	}
}

// SelectKeep splits a group into the file to keep and the rest, for the
// non-interactive strategies. Ties go to the first file by path.
func SelectKeep(g Group, strategy KeepStrategy) (keep scan.FileInfo, rest []scan.FileInfo, err error) {
	if len(g.Files) == 0 {
		return scan.FileInfo{}, nil, errors.New(errors.ErrInput, "Empty duplicate group", "")
	}

	idx := 0
	switch strategy {
	case KeepFirst:
	case KeepNewest:
		for i, f := range g.Files {
			if f.ModTime.After(g.Files[idx].ModTime) {
				idx = i
			}
		}
	case KeepOldest:
		for i, f := range g.Files {
			if f.ModTime.Before(g.Files[idx].ModTime) {
				idx = i
			}
		}
	default:
		return scan.FileInfo{}, nil, errors.New(errors.ErrInput,
			"Keep strategy "+string(strategy)+" needs a chooser",
			"Use Resolve with a Chooser for interactive selection")
	}

	return split(g, idx)
}

func split(g Group, idx int) (scan.FileInfo, []scan.FileInfo, error) {
	rest := make([]scan.FileInfo, 0, len(g.Files)-1)
	rest = append(rest, g.Files[:idx]...)
	rest = append(rest, g.Files[idx+1:]...)
	return g.Files[idx], rest, nil
}

// Selection outcomes a Chooser may return instead of an index.
var (
	// ErrSkip leaves the group untouched and moves on to the next one.
	ErrSkip = stderrors.New("skip group")
	// ErrEscape stops selection; the remaining groups are left untouched.
	ErrEscape = stderrors.New("stop selection")
)

// Chooser asks which file of a group to keep and returns its index.
type Chooser interface {
	Choose(ctx context.Context, g Group, index, total int) (int, error)
}

// Decision is the keep choice for one group. Skipped decisions have no
// Keep and nothing to act on.
type Decision struct {
	Group   Group
	Keep    scan.FileInfo
	Remove  []scan.FileInfo
	Skipped bool
}

// Resolve decides the keep file for every group. With KeepInteractive each
// group goes to chooser; ErrSkip marks the group skipped and ErrEscape
// marks it and every later group skipped. Any other chooser error aborts.
func Resolve(ctx context.Context, groups []Group, strategy KeepStrategy, chooser Chooser) ([]Decision, error) {
	decisions := make([]Decision, 0, len(groups))
	escaped := false

	for i, g := range groups {
		if escaped {
			decisions = append(decisions, Decision{Group: g, Skipped: true})
			continue
		}

		if strategy != KeepInteractive {
			keep, rest, err := SelectKeep(g, strategy)
			if err != nil {
				return nil, err
			}
			decisions = append(decisions, Decision{Group: g, Keep: keep, Remove: rest})
			continue
		}

		if chooser == nil {
			return nil, errors.New(errors.ErrInput,
				"Interactive selection needs a terminal",
				"Run in a terminal, or pick --keep newest, oldest, or first")
		}
		idx, err := chooser.Choose(ctx, g, i, len(groups))
		switch {
		case stderrors.Is(err, ErrSkip):
			decisions = append(decisions, Decision{Group: g, Skipped: true})
			continue
		case stderrors.Is(err, ErrEscape):
			escaped = true
			decisions = append(decisions, Decision{Group: g, Skipped: true})
			continue
		case err != nil:
			return nil, errors.WrapWithCode(err, errors.ErrInput, "Selection failed", "")
		}
		if idx < 0 || idx >= len(g.Files) {
			return nil, errors.Newf(errors.ErrInput, "Selection %d out of range for %d files", idx, len(g.Files))
		}
		keep, rest, _ := split(g, idx)
		decisions = append(decisions, Decision{Group: g, Keep: keep, Remove: rest})
	}

	return decisions, nil
}
