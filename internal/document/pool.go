// SPDX-License-Identifier: Apache-2.0

package document

import (
	"strings"

	"golang.org/x/text/cases"
)

// Pool maps source document names to documents. Keys are case-folded, so two
// sources whose names differ only in case collapse into one entry: the last
// one added wins.
type Pool struct {
	byKey map[string]Document
}

// NewPool builds a Pool from sources in order.
func NewPool(sources []Document) *Pool {
	p := &Pool{byKey: make(map[string]Document, len(sources))}
	for _, src := range sources {
		p.byKey[Key(src.Name())] = src
	}
	return p
}

// Lookup returns the source registered under name, ignoring case.
func (p *Pool) Lookup(name string) (Document, bool) {
	if p == nil || name == "" {
		return Document{}, false
	}
	doc, ok := p.byKey[Key(name)]
	return doc, ok
}

// Len is the number of distinct keys in the pool.
func (p *Pool) Len() int {
	if p == nil {
		return 0
	}
	return len(p.byKey)
}

// Key is the normalised lookup key for a document name: slash separators,
// Unicode case folding.
func Key(name string) string {
	// A Caser is stateful, so each call gets its own.
	return cases.Fold().String(strings.TrimSpace(toSlash(name)))
}

// SameName reports whether a and b refer to the same document.
func SameName(a, b string) bool {
	return Key(a) == Key(b)
}
