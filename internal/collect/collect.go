// SPDX-License-Identifier: Apache-2.0

// Package collect walks a directory tree and reads matching files into
// documents under bounded concurrency.
package collect

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"runtime"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/mdextproj/mdext/internal/document"
)

// DefaultExtensions are the extensions CollectAll looks for.
var DefaultExtensions = []string{document.TemplateExt, document.SourceExt, document.PlainExt}

// InputError reports an unusable collection root. It is the only error that
// aborts a collection before any file is read.
type InputError struct {
	Root string
	Err  error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid input directory %q: %v", e.Root, e.Err)
}

func (e *InputError) Unwrap() error {
	return e.Err
}

var (
	errEmptyRoot = errors.New("directory path is empty")
	errNotDir    = errors.New("not a directory")
)

// Collector reads documents from disk.
type Collector struct {
	workers int
	logger  *slog.Logger
}

// Option configures a Collector.
type Option func(*Collector)

// WithWorkers sets the number of concurrent reads. Zero or less means one per
// logical CPU.
func WithWorkers(n int) Option {
	return func(c *Collector) {
		if n > 0 {
			c.workers = n
		}
	}
}

// WithLogger sets the logger used to report unreadable files.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Collector) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a Collector.
func New(opts ...Option) *Collector {
	c := &Collector{
		workers: runtime.NumCPU(),
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Workers is the configured read concurrency.
func (c *Collector) Workers() int {
	return c.workers
}

// CollectAll collects every template, source and plain markdown document
// under rootDir. Sorting them by role is the caller's job.
func (c *Collector) CollectAll(ctx context.Context, rootDir string) ([]document.Document, error) {
	return c.Collect(ctx, rootDir, DefaultExtensions)
}

// Collect reads every file under rootDir whose name ends with one of
// extensions, ignoring case. Document names are slash-separated paths
// relative to rootDir.
//
// A file that cannot be read is returned with empty content and logged. If
// ctx is cancelled no further reads are scheduled; the documents read so far
// are returned together with ctx.Err().
func (c *Collector) Collect(ctx context.Context, rootDir string, extensions []string) ([]document.Document, error) {
	if strings.TrimSpace(rootDir) == "" {
		return nil, &InputError{Root: rootDir, Err: errEmptyRoot}
	}
	info, err := os.Stat(rootDir)
	if err != nil {
		return nil, &InputError{Root: rootDir, Err: err}
	}
	if !info.IsDir() {
		return nil, &InputError{Root: rootDir, Err: errNotDir}
	}
	return c.CollectFS(ctx, os.DirFS(rootDir), extensions)
}

// CollectFS is Collect over an arbitrary file system rooted at ".".
func (c *Collector) CollectFS(ctx context.Context, fsys fs.FS, extensions []string) ([]document.Document, error) {
	var (
		mu   sync.Mutex
		docs []document.Document
	)

	sem := semaphore.NewWeighted(int64(c.workers))
	var g errgroup.Group

	walkErr := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == "." {
				return err
			}
			c.logger.Warn("skipping unreadable path", "path", p, "error", err)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() || !hasExtension(p, extensions) {
			return nil
		}

		if err := ctx.Err(); err != nil {
			return err
		}
		// Blocks while every worker is busy, so the walk never runs far ahead
		// of the reads.
		if err := sem.Acquire(ctx, 1); err != nil {
			return err
		}
		// The slot may have been granted after the last running read cancelled.
		if err := ctx.Err(); err != nil {
			sem.Release(1)
			return err
		}

		g.Go(func() error {
			defer sem.Release(1)
			doc := c.read(fsys, p)
			mu.Lock()
			docs = append(docs, doc)
			mu.Unlock()
			return nil
		})
		return nil
	})

	// Reads already started are allowed to finish.
	_ = g.Wait()

	sort.Slice(docs, func(i, j int) bool {
		return docs[i].Path() < docs[j].Path()
	})

	if walkErr != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return docs, ctxErr
		}
		return docs, fmt.Errorf("walking input directory: %w", walkErr)
	}
	return docs, nil
}

func (c *Collector) read(fsys fs.FS, p string) document.Document {
	content, err := fs.ReadFile(fsys, p)
	if err != nil {
		c.logger.Warn("failed to read file, continuing with empty content", "path", p, "error", err)
		return document.FromPath(p, "")
	}
	c.logger.Debug("read file", "path", p, "bytes", len(content))
	return document.FromPath(p, string(content))
}

func hasExtension(p string, extensions []string) bool {
	lower := strings.ToLower(path.Base(p))
	for _, ext := range extensions {
		if ext != "" && strings.HasSuffix(lower, strings.ToLower(ext)) {
			return true
		}
	}
	return false
}
