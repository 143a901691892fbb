// SPDX-License-Identifier: Apache-2.0

package diagnostic

import (
	"errors"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
)

// IssuesForFile returns the issues of result whose SourceFile names fileName.
// Both paths are made absolute before comparing, so callers may pass relative
// and absolute forms interchangeably; if either cannot be made absolute the
// raw strings are compared instead. Comparison ignores case.
func IssuesForFile(result *Result, fileName string) []Issue {
	if result == nil || fileName == "" {
		return nil
	}

	wantAbs, wantErr := canonical(fileName)

	var matched []Issue
	for _, issue := range result.All() {
		if issue.SourceFile == "" {
			continue
		}
		gotAbs, gotErr := canonical(issue.SourceFile)
		if wantErr != nil || gotErr != nil {
			if equalFold(issue.SourceFile, fileName) {
				matched = append(matched, issue)
			}
			continue
		}
		if equalFold(gotAbs, wantAbs) {
			matched = append(matched, issue)
		}
	}
	return matched
}

var errInvalidPath = errors.New("invalid path")

func canonical(p string) (string, error) {
	if strings.ContainsRune(p, 0) {
		return "", errInvalidPath
	}
	return filepath.Abs(filepath.FromSlash(p))
}

func equalFold(a, b string) bool {
	fold := cases.Fold()
	return fold.String(a) == fold.String(b)
}
