// SPDX-License-Identifier: Apache-2.0

// Package writer persists documents below an output directory.
package writer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/mdextproj/mdext/internal/document"
)

// WriteError reports a document that could not be written.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("writing %q: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// Write stores each document at outDir/<document path>, creating directories
// as needed. Writes run in parallel; the first failure cancels the rest and is
// returned.
func Write(ctx context.Context, outDir string, docs []document.Document) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return &WriteError{Path: outDir, Err: err}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for _, doc := range docs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			target := filepath.Join(outDir, filepath.FromSlash(doc.Path()))
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return &WriteError{Path: target, Err: err}
			}
			if err := os.WriteFile(target, []byte(doc.Content()), 0o644); err != nil {
				return &WriteError{Path: target, Err: err}
			}
			return nil
		})
	}

	return g.Wait()
}
