// SPDX-License-Identifier: Apache-2.0

package directive

import "sort"

// Grammar is the immutable pair of syntaxes shared by the combination engine
// and the validator. It holds no mutable state and is safe for concurrent use.
type Grammar struct {
	canonical Syntax
	legacy    []Syntax
}

// NewGrammar creates a Grammar that expands canonical directives and only
// reports the legacy ones.
func NewGrammar(canonical Syntax, legacy ...Syntax) *Grammar {
	return &Grammar{
		canonical: canonical,
		legacy:    legacy,
	}
}

// Default is constructed once at start-up and shared.
var Default = NewGrammar(NewInsertSyntax(), NewLegacySyntax())

// Find returns canonical directive occurrences in document order.
func (g *Grammar) Find(content string) []Match {
	return g.canonical.Find(content)
}

// FindLegacy returns occurrences of every legacy syntax, ordered by offset.
func (g *Grammar) FindLegacy(content string) []Match {
	var matches []Match
	for _, s := range g.legacy {
		matches = append(matches, s.Find(content)...)
	}
	if len(g.legacy) > 1 {
		sort.SliceStable(matches, func(i, j int) bool {
			return matches[i].Start < matches[j].Start
		})
	}
	return matches
}

// Syntaxes returns the names of all registered syntaxes, canonical first.
func (g *Grammar) Syntaxes() []string {
	names := make([]string, 0, 1+len(g.legacy))
	names = append(names, g.canonical.Name())
	for _, s := range g.legacy {
		names = append(names, s.Name())
	}
	return names
}
