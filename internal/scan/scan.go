// Package scan collects the regular files under a root directory that are
// candidates for duplicate detection.
package scan

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rileyhilliard/dupefindr/internal/errors"
)

// FileInfo describes one collected file.
type FileInfo struct {
	Path    string    `yaml:"path"`
	Size    int64     `yaml:"size"`
	ModTime time.Time `yaml:"mod_time"`
}

// Options controls which files are collected.
type Options struct {
	Root            string
	Recursive       bool
	IncludeHidden   bool
	IncludeZeroByte bool
	Exclude         []string

	// OnSkip, if set, is called for every entry left out and why.
	OnSkip func(path, reason string)
}

// ProgressFunc is called with each file path as it is collected.
type ProgressFunc func(path string)

// Skip reasons passed to Options.OnSkip.
const (
	SkipHidden    = "hidden"
	SkipZeroByte  = "empty file"
	SkipExcluded  = "excluded"
	SkipSymlink   = "symlink"
	SkipIrregular = "not a regular file"
)

// Collect walks opts.Root and returns the matching regular files sorted by path.
// Unreadable entries are skipped, not fatal.
func Collect(ctx context.Context, opts Options, onVisit ProgressFunc) ([]FileInfo, error) {
	root := filepath.Clean(opts.Root)
	info, err := os.Stat(root)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrScan,
			"Cannot scan "+root,
			"Check the path exists and is readable")
	}
	if !info.IsDir() {
		return nil, errors.New(errors.ErrScan,
			root+" is not a directory",
			"Pass a directory to scan")
	}

	skip := func(path, reason string) {
		if opts.OnSkip != nil {
			opts.OnSkip(path, reason)
		}
	}

	var files []FileInfo
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			skip(path, err.Error())
			if d != nil && d.IsDir() && path != root {
				return fs.SkipDir
			}
			return nil // skip unreadable entries
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if path == root {
			return nil
		}

		rel, _ := filepath.Rel(root, path)
		name := d.Name()

		if d.IsDir() {
			if !opts.Recursive {
				return fs.SkipDir
			}
			if !opts.IncludeHidden && isHidden(name) {
				skip(path, SkipHidden)
				return fs.SkipDir
			}
			if excluded(opts.Exclude, name, rel) {
				skip(path, SkipExcluded)
				return fs.SkipDir
			}
			return nil
		}

		if !opts.IncludeHidden && isHidden(name) {
			skip(path, SkipHidden)
			return nil
		}
		if excluded(opts.Exclude, name, rel) {
			skip(path, SkipExcluded)
			return nil
		}
		if d.Type()&os.ModeSymlink != 0 {
			skip(path, SkipSymlink)
			return nil
		}

		fi, err := d.Info()
		if err != nil {
			skip(path, err.Error())
			return nil
		}
		if !fi.Mode().IsRegular() {
			skip(path, SkipIrregular)
			return nil
		}
		if fi.Size() == 0 && !opts.IncludeZeroByte {
			skip(path, SkipZeroByte)
			return nil
		}

		if onVisit != nil {
			onVisit(path)
		}
		files = append(files, FileInfo{Path: path, Size: fi.Size(), ModTime: fi.ModTime()})
		return nil
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		return nil, errors.WrapWithCode(err, errors.ErrScan,
			"Failed to walk "+root,
			"Check directory permissions")
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

// excluded matches patterns against the base name and the root-relative path.
func excluded(patterns []string, name, rel string) bool {
	rel = filepath.ToSlash(rel)
	for _, p := range patterns {
		if ok, _ := filepath.Match(p, name); ok {
			return true
		}
		if ok, _ := filepath.Match(p, rel); ok {
			return true
		}
	}
	return false
}
