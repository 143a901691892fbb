// SPDX-License-Identifier: Apache-2.0

// Package diagnostic defines the validation issue model produced by the
// validator and the combination engine, and the helpers editor overlays use
// to select the issues of one file.
package diagnostic

import (
	"fmt"
)

// Severity is the importance of an issue. Only errors affect validity.
type Severity uint8

const (
	SevWarning Severity = iota
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevWarning:
		return "warning"
	case SevError:
		return "error"
	}
	return "unknown"
}

// Kind classifies an issue.
type Kind uint8

const (
	// StructuralError is a malformed directive.
	StructuralError Kind = iota + 1
	// ReferenceError is a directive whose target is not in the source pool.
	ReferenceError
	// ResolutionCapWarning means a template stopped resolving before all
	// directives were expanded, which indicates a circular reference.
	ResolutionCapWarning
	// CollisionWarning means two templates produce the same output name.
	CollisionWarning
	// LegacySyntaxWarning is a directive in the old XML-attribute form.
	LegacySyntaxWarning
	// DegradedWarning means a template failed and was emitted unresolved.
	DegradedWarning
)

var kindNames = map[Kind]string{
	StructuralError:      "structural",
	ReferenceError:       "reference",
	ResolutionCapWarning: "resolution-cap",
	CollisionWarning:     "collision",
	LegacySyntaxWarning:  "legacy-syntax",
	DegradedWarning:      "degraded",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Severity returns the fixed severity of the kind.
func (k Kind) Severity() Severity {
	switch k {
	case StructuralError, ReferenceError:
		return SevError
	}
	return SevWarning
}

// MarshalText lets issues serialise with readable kind names.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Issue is one diagnostic occurrence. Empty strings and a zero LineNumber
// mean the field is not known.
type Issue struct {
	Kind    Kind   `json:"kind" yaml:"kind"`
	Message string `json:"message" yaml:"message"`
	// DirectiveTarget is the NAME of the offending directive.
	DirectiveTarget string `json:"target,omitempty" yaml:"target,omitempty"`
	// SourceFile is the path of the file the issue was found in.
	SourceFile string `json:"file,omitempty" yaml:"file,omitempty"`
	// LineNumber is 1-based.
	LineNumber int `json:"line,omitempty" yaml:"line,omitempty"`
	// SourceContext is the trimmed text of the offending line.
	SourceContext string `json:"context,omitempty" yaml:"context,omitempty"`
	// Template is the template whose resolution led to the issue. It differs
	// from SourceFile when the issue sits inside an included source.
	Template string `json:"template,omitempty" yaml:"template,omitempty"`
}

// Severity of the issue, derived from its kind.
func (i Issue) Severity() Severity {
	return i.Kind.Severity()
}

// String renders the issue as "file:line: severity: message".
func (i Issue) String() string {
	loc := i.SourceFile
	if loc == "" {
		loc = i.Template
	}
	if i.LineNumber > 0 {
		loc = fmt.Sprintf("%s:%d", loc, i.LineNumber)
	}
	if loc == "" {
		return fmt.Sprintf("%s: %s", i.Severity(), i.Message)
	}
	return fmt.Sprintf("%s: %s: %s", loc, i.Severity(), i.Message)
}
