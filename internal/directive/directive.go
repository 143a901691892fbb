// SPDX-License-Identifier: Apache-2.0

// Package directive recognises insert directives in opaque text.
//
// The canonical surface syntax is
//
//	<insert NAME>
//
// where the keyword is case-insensitive and NAME is the trimmed text up to the
// closing '>'. An older XML-attribute form is still recognised so that it can
// be reported, but it is never expanded:
//
//	<MarkDownExtension operation="insert" file="NAME" />
package directive

import (
	"fmt"
	"strings"
)

// DefaultPassLimit is the number of resolution passes a template may take
// before its expansion is forcibly stopped.
const DefaultPassLimit = 10

// Match is a single directive occurrence.
type Match struct {
	// Text is the exact directive text as it appears in the content.
	Text string
	// Target is the trimmed NAME. Empty for a malformed directive.
	Target string
	// Start and End are byte offsets of Text in the scanned content.
	Start int
	End   int
	// Syntax is the name of the syntax that produced the match.
	Syntax string
}

// Malformed reports whether the directive has no usable target.
func (m Match) Malformed() bool {
	return m.Target == ""
}

// Syntax finds directive occurrences of one surface form.
type Syntax interface {
	Name() string
	Find(content string) []Match
}

// LineOf returns the 1-based line of offset in content: one plus the number of
// newlines before it. Editors computing positions from offsets must agree with
// this exactly.
func LineOf(content string, offset int) int {
	if offset > len(content) {
		offset = len(content)
	}
	if offset < 0 {
		offset = 0
	}
	return 1 + strings.Count(content[:offset], "\n")
}

// LineText returns the trimmed text of the line containing offset.
func LineText(content string, offset int) string {
	if offset > len(content) {
		offset = len(content)
	}
	if offset < 0 {
		offset = 0
	}
	start := strings.LastIndexByte(content[:offset], '\n') + 1
	end := strings.IndexByte(content[offset:], '\n')
	if end < 0 {
		end = len(content)
	} else {
		end += offset
	}
	return strings.TrimSpace(strings.TrimSuffix(content[start:end], "\r"))
}

// MissingMarker is the text substituted for a directive whose target is not
// in the source pool.
func MissingMarker(target string) string {
	return fmt.Sprintf("<!-- mdext: source %q not found -->", target)
}

// MalformedMarker is the text substituted for a directive without a target.
const MalformedMarker = "<!-- mdext: malformed insert directive -->"
