// SPDX-License-Identifier: Apache-2.0

package diagnostic_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mdextproj/mdext/internal/diagnostic"
)

// ---------------------------------------------------------------------------
// Issue and Result
// ---------------------------------------------------------------------------

func TestKind_Severity(t *testing.T) {
	assert.Equal(t, diagnostic.SevError, diagnostic.StructuralError.Severity())
	assert.Equal(t, diagnostic.SevError, diagnostic.ReferenceError.Severity())
	assert.Equal(t, diagnostic.SevWarning, diagnostic.ResolutionCapWarning.Severity())
	assert.Equal(t, diagnostic.SevWarning, diagnostic.CollisionWarning.Severity())
	assert.Equal(t, diagnostic.SevWarning, diagnostic.LegacySyntaxWarning.Severity())
	assert.Equal(t, diagnostic.SevWarning, diagnostic.DegradedWarning.Severity())
}

func TestKind_MarshalText(t *testing.T) {
	text, err := diagnostic.ReferenceError.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "reference", string(text))
	assert.Equal(t, "unknown", diagnostic.Kind(0).String())
}

func TestIssue_String(t *testing.T) {
	issue := diagnostic.Issue{
		Kind:       diagnostic.ReferenceError,
		Message:    `source "missing.md" not found`,
		SourceFile: "a.mdext",
		LineNumber: 3,
	}
	assert.Equal(t, `a.mdext:3: error: source "missing.md" not found`, issue.String())

	noLine := diagnostic.Issue{Kind: diagnostic.ResolutionCapWarning, Message: "capped", Template: "t.mdext"}
	assert.Equal(t, "t.mdext: warning: capped", noLine.String())

	bare := diagnostic.Issue{Kind: diagnostic.CollisionWarning, Message: "clash"}
	assert.Equal(t, "warning: clash", bare.String())
}

func TestBuilder_SplitsBySeverityPreservingOrder(t *testing.T) {
	var b diagnostic.Builder
	b.Add(diagnostic.Issue{Kind: diagnostic.ReferenceError, Message: "e1"})
	b.Add(diagnostic.Issue{Kind: diagnostic.CollisionWarning, Message: "w1"})
	b.Add(diagnostic.Issue{Kind: diagnostic.StructuralError, Message: "e2"})

	res := b.Result()
	require.Len(t, res.Errors, 2)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, "e1", res.Errors[0].Message)
	assert.Equal(t, "e2", res.Errors[1].Message)
	assert.False(t, res.IsValid())

	all := res.All()
	require.Len(t, all, 3)
	assert.Equal(t, "w1", all[2].Message)
}

func TestResult_WarningsDoNotAffectValidity(t *testing.T) {
	var b diagnostic.Builder
	b.Add(diagnostic.Issue{Kind: diagnostic.ResolutionCapWarning})

	res := b.Result()
	assert.True(t, res.IsValid())

	empty := (&diagnostic.Builder{}).Result()
	assert.True(t, empty.IsValid())
	assert.NotNil(t, empty.Errors)
	assert.NotNil(t, empty.Warnings)

	var nilResult *diagnostic.Result
	assert.True(t, nilResult.IsValid())
	assert.Nil(t, nilResult.All())
}

// ---------------------------------------------------------------------------
// IssuesForFile
// ---------------------------------------------------------------------------

func sampleResult() *diagnostic.Result {
	return &diagnostic.Result{
		Errors: []diagnostic.Issue{
			{Kind: diagnostic.ReferenceError, SourceFile: "docs/a.mdext", LineNumber: 1},
			{Kind: diagnostic.StructuralError, SourceFile: "docs/b.mdext", LineNumber: 2},
			{Kind: diagnostic.ReferenceError, SourceFile: "", LineNumber: 3},
		},
		Warnings: []diagnostic.Issue{
			{Kind: diagnostic.CollisionWarning, SourceFile: "docs/A.MDEXT"},
		},
	}
}

func TestIssuesForFile(t *testing.T) {
	abs, err := filepath.Abs(filepath.Join("docs", "a.mdext"))
	require.NoError(t, err)

	tests := []struct {
		name      string
		result    *diagnostic.Result
		fileName  string
		wantCount int
	}{
		{name: "nil result", result: nil, fileName: "docs/a.mdext", wantCount: 0},
		{name: "empty file name", result: sampleResult(), fileName: "", wantCount: 0},
		{name: "relative name matches ignoring case", result: sampleResult(), fileName: "docs/a.mdext", wantCount: 2},
		{name: "absolute name matches relative source", result: sampleResult(), fileName: abs, wantCount: 2},
		{name: "other file", result: sampleResult(), fileName: "docs/b.mdext", wantCount: 1},
		{name: "unknown file", result: sampleResult(), fileName: "docs/c.mdext", wantCount: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := diagnostic.IssuesForFile(tt.result, tt.fileName)
			assert.Len(t, got, tt.wantCount)
			for _, issue := range got {
				assert.NotEmpty(t, issue.SourceFile)
			}
		})
	}
}

func TestIssuesForFile_FallsBackToRawComparison(t *testing.T) {
	bad := "docs/\x00weird.mdext"
	res := &diagnostic.Result{
		Errors: []diagnostic.Issue{
			{Kind: diagnostic.ReferenceError, SourceFile: "DOCS/\x00WEIRD.mdext"},
			{Kind: diagnostic.ReferenceError, SourceFile: "docs/a.mdext"},
		},
	}

	got := diagnostic.IssuesForFile(res, bad)
	require.Len(t, got, 1)
	assert.Equal(t, "DOCS/\x00WEIRD.mdext", got[0].SourceFile)
}
