// SPDX-License-Identifier: Apache-2.0

package writer_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mdextproj/mdext/internal/document"
	"github.com/mdextproj/mdext/internal/writer"
)

func TestWrite(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out")
	docs := []document.Document{
		document.FromPath("top.md", "top"),
		document.FromPath("os/win/features.md", "nested"),
	}

	require.NoError(t, writer.Write(context.Background(), out, docs))

	got, err := os.ReadFile(filepath.Join(out, "top.md"))
	require.NoError(t, err)
	assert.Equal(t, "top", string(got))

	got, err = os.ReadFile(filepath.Join(out, "os", "win", "features.md"))
	require.NoError(t, err)
	assert.Equal(t, "nested", string(got))
}

func TestWrite_NoDocumentsCreatesDirectory(t *testing.T) {
	out := filepath.Join(t.TempDir(), "empty")
	require.NoError(t, writer.Write(context.Background(), out, nil))

	info, err := os.Stat(out)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestWrite_OutputIsAFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(out, []byte("x"), 0o644))

	err := writer.Write(context.Background(), out, []document.Document{document.FromPath("a.md", "a")})
	require.Error(t, err)

	var writeErr *writer.WriteError
	require.True(t, errors.As(err, &writeErr))
	assert.Equal(t, out, writeErr.Path)
}

func TestWrite_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := filepath.Join(t.TempDir(), "out")
	err := writer.Write(ctx, out, []document.Document{document.FromPath("a.md", "a")})
	require.ErrorIs(t, err, context.Canceled)

	_, statErr := os.Stat(filepath.Join(out, "a.md"))
	assert.True(t, os.IsNotExist(statErr))
}
