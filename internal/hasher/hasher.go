// Package hasher computes content digests for collected files on a bounded
// worker pool.
package hasher

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/rileyhilliard/dupefindr/internal/errors"
	"github.com/rileyhilliard/dupefindr/internal/scan"
	"golang.org/x/sync/errgroup"
)

// Result is the digest of one file. Err is set instead of Hash when the
// file could not be read.
type Result struct {
	File scan.FileInfo
	Hash string
	Err  error
}

// Options controls the worker pool.
type Options struct {
	// Workers is the pool size. 0 or less means one per CPU.
	Workers int
}

// Reporter receives progress from the workers. Methods are called
// concurrently from every worker goroutine.
type Reporter interface {
	Started(worker int, path string)
	Finished(worker int, path string, err error)
}

// NopReporter discards progress.
type NopReporter struct{}

func (NopReporter) Started(int, string)         {}
func (NopReporter) Finished(int, string, error) {}

// WorkerCount resolves the effective pool size for n files.
func WorkerCount(opts Options, n int) int {
	w := opts.Workers
	if w <= 0 {
		w = runtime.NumCPU()
	}
	if w > n {
		w = n
	}
	if w < 1 {
		w = 1
	}
	return w
}

// HashFile returns the hex MD5 digest of the file at path, streamed.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	h := md5.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// HashAll hashes files on a pool of workers and returns one Result per file
// in input order. A file that fails to hash is reported in its Result and
// does not stop the others; only cancellation aborts the run.
func HashAll(ctx context.Context, files []scan.FileInfo, opts Options, rep Reporter) ([]Result, error) {
	if rep == nil {
		rep = NopReporter{}
	}
	results := make([]Result, len(files))
	if len(files) == 0 {
		return results, nil
	}

	jobs := make(chan int)
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(jobs)
		for i := range files {
			select {
			case jobs <- i:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	for w := 0; w < WorkerCount(opts, len(files)); w++ {
		worker := w
		g.Go(func() error {
			for i := range jobs {
				path := files[i].Path
				rep.Started(worker, path)
				hash, err := HashFile(path)
				if err != nil {
					err = errors.WrapWithCode(err, errors.ErrHash, "Cannot hash "+path, "")
				}
				// Each index is written by exactly one worker.
				results[i] = Result{File: files[i], Hash: hash, Err: err}
				rep.Finished(worker, path, err)

				if ctx.Err() != nil {
					return ctx.Err()
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Failed returns the results that carry an error.
func Failed(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if r.Err != nil {
			out = append(out, r)
		}
	}
	return out
}
