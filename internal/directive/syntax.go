// SPDX-License-Identifier: Apache-2.0

package directive

import (
	"regexp"
	"strings"
)

var (
	// insertPattern accepts "<insert>" and "<insert   >" so they can be
	// reported as malformed, but not "<inserted>".
	insertPattern = regexp.MustCompile(`(?i)<insert(\s[^<>]*)?>`)

	legacyPattern = regexp.MustCompile(`(?i)<MarkDownExtension\s+operation\s*=\s*"insert"\s+file\s*=\s*"([^"]*)"\s*/>`)
)

// InsertSyntax matches the canonical <insert NAME> form.
type InsertSyntax struct{}

// NewInsertSyntax creates a new InsertSyntax.
func NewInsertSyntax() *InsertSyntax {
	return &InsertSyntax{}
}

func (s *InsertSyntax) Name() string {
	return "insert"
}

func (s *InsertSyntax) Find(content string) []Match {
	return findAll(insertPattern, content, s.Name())
}

// LegacySyntax matches the XML-attribute form used by early versions of the
// tool.
type LegacySyntax struct{}

// NewLegacySyntax creates a new LegacySyntax.
func NewLegacySyntax() *LegacySyntax {
	return &LegacySyntax{}
}

func (s *LegacySyntax) Name() string {
	return "legacy"
}

func (s *LegacySyntax) Find(content string) []Match {
	return findAll(legacyPattern, content, s.Name())
}

func findAll(re *regexp.Regexp, content, syntax string) []Match {
	locs := re.FindAllStringSubmatchIndex(content, -1)
	if len(locs) == 0 {
		return nil
	}
	matches := make([]Match, 0, len(locs))
	for _, loc := range locs {
		var target string
		if loc[2] >= 0 {
			target = strings.TrimSpace(content[loc[2]:loc[3]])
		}
		matches = append(matches, Match{
			Text:   content[loc[0]:loc[1]],
			Target: target,
			Start:  loc[0],
			End:    loc[1],
			Syntax: syntax,
		})
	}
	return matches
}
