// SPDX-License-Identifier: Apache-2.0

package document

import (
	"strings"
)

// Role classifies a collected document by its file extension.
type Role int

const (
	// RoleUnknown documents are ignored by the pipeline.
	RoleUnknown Role = iota
	// RoleTemplate documents contain insert directives and produce output.
	RoleTemplate
	// RoleSource documents are fragments inlined wherever they are referenced.
	RoleSource
	// RolePlain documents are already-resolved markdown, passed through unchanged.
	RolePlain
)

func (r Role) String() string {
	switch r {
	case RoleTemplate:
		return "template"
	case RoleSource:
		return "source"
	case RolePlain:
		return "plain"
	}
	return "unknown"
}

// Default extensions recognised by the collector and the pipeline.
const (
	TemplateExt = ".mdext"
	SourceExt   = ".mdsrc"
	PlainExt    = ".md"
	OutputExt   = ".md"
)

// roleRule maps a set of extensions to a role.
type roleRule struct {
	extensions []string
	role       Role
}

// Classifier maps file names to roles. Rules are evaluated in order; the first
// match wins, so a longer extension such as ".mdext" must be listed before a
// shorter one it could be confused with.
type Classifier struct {
	rules []roleRule
}

// NewClassifier builds a Classifier from the template, source and plain
// extension lists.
func NewClassifier(templateExt string, sourceExts, plainExts []string) *Classifier {
	return &Classifier{
		rules: []roleRule{
			{extensions: []string{templateExt}, role: RoleTemplate},
			{extensions: sourceExts, role: RoleSource},
			{extensions: plainExts, role: RolePlain},
		},
	}
}

// DefaultClassifier recognises .mdext, .mdsrc and .md.
func DefaultClassifier() *Classifier {
	return NewClassifier(TemplateExt, []string{SourceExt}, []string{PlainExt})
}

// Classify returns the role of name by case-insensitive suffix match.
func (c *Classifier) Classify(name string) Role {
	lower := strings.ToLower(name)
	for _, rule := range c.rules {
		for _, ext := range rule.extensions {
			if ext != "" && strings.HasSuffix(lower, strings.ToLower(ext)) {
				return rule.role
			}
		}
	}
	return RoleUnknown
}

// Extensions returns every extension the classifier knows about, in rule order.
func (c *Classifier) Extensions() []string {
	var exts []string
	for _, rule := range c.rules {
		for _, ext := range rule.extensions {
			if ext != "" {
				exts = append(exts, ext)
			}
		}
	}
	return exts
}
