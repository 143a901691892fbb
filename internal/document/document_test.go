// SPDX-License-Identifier: Apache-2.0

package document_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mdextproj/mdext/internal/document"
)

// ---------------------------------------------------------------------------
// Document
// ---------------------------------------------------------------------------

func TestDocument_ZeroValue(t *testing.T) {
	var doc document.Document
	assert.Equal(t, "", doc.Name())
	assert.Equal(t, "", doc.Content())
}

func TestDocument_WithContentReturnsCopy(t *testing.T) {
	orig := document.FromPath("a.mdext", "before")
	changed := orig.WithContent("after")

	assert.Equal(t, "before", orig.Content())
	assert.Equal(t, "after", changed.Content())
	assert.Equal(t, orig.Name(), changed.Name())
}

func TestDocument_NormalisesSeparators(t *testing.T) {
	doc := document.New(`docs\intro.mdext`, `docs\intro.mdext`, "")
	assert.Equal(t, "docs/intro.mdext", doc.Name())
	assert.Equal(t, "docs/intro.mdext", doc.Path())
}

func TestDocument_WithExtension(t *testing.T) {
	tests := []struct {
		name string
		in   string
		ext  string
		want string
	}{
		{name: "top-level template", in: "windows-features.mdext", ext: ".md", want: "windows-features.md"},
		{name: "nested directories preserved", in: "os/win/features.mdext", ext: ".md", want: "os/win/features.md"},
		{name: "no extension", in: "README", ext: ".md", want: "README.md"},
		{name: "dotted directory", in: "v1.2/notes.mdext", ext: ".md", want: "v1.2/notes.md"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := document.FromPath(tt.in, "content").WithExtension(tt.ext)
			assert.Equal(t, tt.want, doc.Name())
			assert.Equal(t, tt.want, doc.Path())
			assert.Equal(t, "content", doc.Content())
		})
	}
}

// ---------------------------------------------------------------------------
// Pool
// ---------------------------------------------------------------------------

func TestPool_LookupIgnoresCase(t *testing.T) {
	pool := document.NewPool([]document.Document{
		document.FromPath("file.md", "shared"),
	})

	for _, name := range []string{"file.md", "FILE.MD", "File.Md"} {
		doc, ok := pool.Lookup(name)
		require.True(t, ok, name)
		assert.Equal(t, "shared", doc.Content())
	}

	_, ok := pool.Lookup("other.md")
	assert.False(t, ok)
	_, ok = pool.Lookup("")
	assert.False(t, ok)
}

func TestPool_LastWinsOnCaseCollision(t *testing.T) {
	pool := document.NewPool([]document.Document{
		document.FromPath("Common.mdsrc", "first"),
		document.FromPath("common.mdsrc", "second"),
	})

	assert.Equal(t, 1, pool.Len())
	doc, ok := pool.Lookup("COMMON.mdsrc")
	require.True(t, ok)
	assert.Equal(t, "second", doc.Content())
	assert.Equal(t, "common.mdsrc", doc.Name())
}

func TestPool_NilAndEmpty(t *testing.T) {
	var nilPool *document.Pool
	_, ok := nilPool.Lookup("x")
	assert.False(t, ok)
	assert.Equal(t, 0, nilPool.Len())

	assert.Equal(t, 0, document.NewPool(nil).Len())
}

func TestSameName(t *testing.T) {
	assert.True(t, document.SameName("dir/A.md", `DIR\a.md`))
	assert.True(t, document.SameName(" a.md ", "a.md"))
	assert.False(t, document.SameName("a.md", "b.md"))
}

// ---------------------------------------------------------------------------
// Classifier
// ---------------------------------------------------------------------------

func TestClassifier_Classify(t *testing.T) {
	c := document.DefaultClassifier()

	tests := []struct {
		name string
		want document.Role
	}{
		{name: "features.mdext", want: document.RoleTemplate},
		{name: "dir/FEATURES.MDEXT", want: document.RoleTemplate},
		{name: "common.mdsrc", want: document.RoleSource},
		{name: "readme.md", want: document.RolePlain},
		{name: "notes.txt", want: document.RoleUnknown},
		{name: "mdext", want: document.RoleUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.name))
		})
	}
}

func TestClassifier_Extensions(t *testing.T) {
	c := document.NewClassifier(".tpl", []string{".frag", ".inc"}, nil)
	assert.Equal(t, []string{".tpl", ".frag", ".inc"}, c.Extensions())
	assert.Equal(t, document.RoleSource, c.Classify("x.inc"))
}

func TestRole_String(t *testing.T) {
	assert.Equal(t, "template", document.RoleTemplate.String())
	assert.Equal(t, "source", document.RoleSource.String())
	assert.Equal(t, "plain", document.RolePlain.String())
	assert.Equal(t, "unknown", document.RoleUnknown.String())
}
