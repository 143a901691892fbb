// SPDX-License-Identifier: Apache-2.0

package tool

import (
	"github.com/mdextproj/mdext/internal/diagnostic"
	"github.com/mdextproj/mdext/internal/document"
)

// DocumentInput is a named document passed to a tool.
type DocumentInput struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// DocumentOutput is a resolved document returned by a tool.
type DocumentOutput struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// IssueOutput is the wire form of a diagnostic.Issue.
type IssueOutput struct {
	Kind     string `json:"kind"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
	Target   string `json:"target,omitempty"`
	File     string `json:"file,omitempty"`
	Line     int    `json:"line,omitempty"`
	Context  string `json:"context,omitempty"`
	Template string `json:"template,omitempty"`
}

var documentListSchema = map[string]interface{}{
	"type": "array",
	"items": map[string]interface{}{
		"type":     "object",
		"required": []string{"name"},
		"properties": map[string]interface{}{
			"name": map[string]interface{}{
				"type":        "string",
				"description": "Document name, e.g. \"features/windows.mdext\". Directives refer to sources by this name, ignoring case.",
			},
			"content": map[string]interface{}{
				"type":        "string",
				"description": "Raw document content",
			},
		},
	},
}

func toDocuments(inputs []DocumentInput) []document.Document {
	docs := make([]document.Document, 0, len(inputs))
	for _, in := range inputs {
		docs = append(docs, document.FromPath(in.Name, in.Content))
	}
	return docs
}

func toDocumentOutputs(docs []document.Document) []DocumentOutput {
	out := make([]DocumentOutput, 0, len(docs))
	for _, doc := range docs {
		out = append(out, DocumentOutput{Name: doc.Name(), Content: doc.Content()})
	}
	return out
}

func toIssueOutputs(issues []diagnostic.Issue) []IssueOutput {
	out := make([]IssueOutput, 0, len(issues))
	for _, issue := range issues {
		out = append(out, IssueOutput{
			Kind:     issue.Kind.String(),
			Severity: issue.Severity().String(),
			Message:  issue.Message,
			Target:   issue.DirectiveTarget,
			File:     issue.SourceFile,
			Line:     issue.LineNumber,
			Context:  issue.SourceContext,
			Template: issue.Template,
		})
	}
	return out
}
