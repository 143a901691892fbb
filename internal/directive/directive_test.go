// SPDX-License-Identifier: Apache-2.0

package directive_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mdextproj/mdext/internal/directive"
)

// ---------------------------------------------------------------------------
// InsertSyntax
// ---------------------------------------------------------------------------

func TestInsertSyntax_Find(t *testing.T) {
	s := directive.NewInsertSyntax()

	tests := []struct {
		name        string
		content     string
		wantTargets []string
		wantTexts   []string
	}{
		{
			name:        "single directive",
			content:     "a\n<insert common.md>\nb",
			wantTargets: []string{"common.md"},
			wantTexts:   []string{"<insert common.md>"},
		},
		{
			name:        "keyword is case-insensitive",
			content:     "<INSERT file.md> <Insert file.md>",
			wantTargets: []string{"file.md", "file.md"},
			wantTexts:   []string{"<INSERT file.md>", "<Insert file.md>"},
		},
		{
			name:        "name is trimmed",
			content:     "<insert    spaced.md   >",
			wantTargets: []string{"spaced.md"},
			wantTexts:   []string{"<insert    spaced.md   >"},
		},
		{
			name:        "empty directive is malformed",
			content:     "<insert> <insert   >",
			wantTargets: []string{"", ""},
			wantTexts:   []string{"<insert>", "<insert   >"},
		},
		{
			name:    "similar tags are ignored",
			content: "<inserted> <insertion x> <b>insert</b>",
		},
		{
			name:    "no directives",
			content: "plain text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matches := s.Find(tt.content)
			require.Len(t, matches, len(tt.wantTargets))
			for i, m := range matches {
				assert.Equal(t, tt.wantTargets[i], m.Target)
				assert.Equal(t, tt.wantTexts[i], m.Text)
				assert.Equal(t, m.Text, tt.content[m.Start:m.End])
				assert.Equal(t, "insert", m.Syntax)
			}
		})
	}
}

func TestMatch_Malformed(t *testing.T) {
	assert.True(t, directive.Match{}.Malformed())
	assert.False(t, directive.Match{Target: "a.md"}.Malformed())
}

// ---------------------------------------------------------------------------
// LegacySyntax and Grammar
// ---------------------------------------------------------------------------

func TestLegacySyntax_Find(t *testing.T) {
	s := directive.NewLegacySyntax()
	content := "x\n<MarkDownExtension operation=\"insert\" file=\"old.md\" />\n<markdownextension operation=\"insert\" file=\"other.md\"/>"

	matches := s.Find(content)
	require.Len(t, matches, 2)
	assert.Equal(t, "old.md", matches[0].Target)
	assert.Equal(t, "other.md", matches[1].Target)
	assert.Equal(t, "legacy", matches[0].Syntax)
}

func TestGrammar_CanonicalOnlyExpandsInsert(t *testing.T) {
	g := directive.Default
	content := "<insert a.md>\n<MarkDownExtension operation=\"insert\" file=\"b.md\" />"

	found := g.Find(content)
	require.Len(t, found, 1)
	assert.Equal(t, "a.md", found[0].Target)

	legacy := g.FindLegacy(content)
	require.Len(t, legacy, 1)
	assert.Equal(t, "b.md", legacy[0].Target)

	assert.Equal(t, []string{"insert", "legacy"}, g.Syntaxes())
}

// ---------------------------------------------------------------------------
// Line helpers and markers
// ---------------------------------------------------------------------------

func TestLineOf(t *testing.T) {
	content := "first\nsecond\n\nfourth <insert x>"

	assert.Equal(t, 1, directive.LineOf(content, 0))
	assert.Equal(t, 1, directive.LineOf(content, 5))
	assert.Equal(t, 2, directive.LineOf(content, 6))
	assert.Equal(t, 4, directive.LineOf(content, len(content)-1))
	assert.Equal(t, 4, directive.LineOf(content, len(content)+10))
	assert.Equal(t, 1, directive.LineOf(content, -3))
}

func TestLineText(t *testing.T) {
	content := "first\r\n  second <insert x>  \nthird"
	offset := len("first\r\n  second ")

	assert.Equal(t, "second <insert x>", directive.LineText(content, offset))
	assert.Equal(t, "first", directive.LineText(content, 0))
	assert.Equal(t, "third", directive.LineText(content, len(content)))
}

func TestMarkers(t *testing.T) {
	marker := directive.MissingMarker("missing.md")
	assert.Equal(t, `<!-- mdext: source "missing.md" not found -->`, marker)
	assert.Empty(t, directive.Default.Find(marker), "marker must not look like a directive")
	assert.Empty(t, directive.Default.Find(directive.MalformedMarker))
}
