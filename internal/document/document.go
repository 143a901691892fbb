// SPDX-License-Identifier: Apache-2.0

// Package document holds the immutable text document model shared by the
// collector, the combination engine and the validator.
package document

import (
	"path"
	"strings"
)

// Document is a named unit of text content plus its origin path.
// The zero value is an unnamed empty document. Documents are never mutated
// after construction; transformations return new values.
type Document struct {
	name    string
	path    string
	content string
}

// New creates a Document. Backslash separators in name and path are
// normalised to forward slashes so keys compare the same on every platform.
func New(name, origin, content string) Document {
	return Document{
		name:    toSlash(name),
		path:    toSlash(origin),
		content: content,
	}
}

// FromPath creates a Document whose name and path are both rel.
func FromPath(rel, content string) Document {
	return New(rel, rel, content)
}

// Name is the document's unique key. Lookups against it are case-insensitive.
func (d Document) Name() string { return d.name }

// Path is the origin of the document, relative to its collection root.
func (d Document) Path() string { return d.path }

// Content is the raw text. It is never nil; an empty document has "".
func (d Document) Content() string { return d.content }

// WithContent returns a copy of d carrying content.
func (d Document) WithContent(content string) Document {
	d.content = content
	return d
}

// WithExtension returns a copy of d whose name and path have their extension
// replaced by ext. Directory components are preserved.
func (d Document) WithExtension(ext string) Document {
	d.name = ReplaceExt(d.name, ext)
	d.path = ReplaceExt(d.path, ext)
	return d
}

// ReplaceExt swaps the extension of a slash-separated name for ext.
// A name without an extension simply gains ext.
func ReplaceExt(name, ext string) string {
	name = toSlash(name)
	return strings.TrimSuffix(name, path.Ext(name)) + ext
}

func toSlash(p string) string {
	return strings.ReplaceAll(p, `\`, "/")
}
