// SPDX-License-Identifier: Apache-2.0

package tool

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/mdextproj/mdext/internal/combine"
)

// MetadataCombineDocuments describes the combine_documents tool.
var MetadataCombineDocuments = &mcp.Tool{
	Name: "combine_documents",
	Description: "Resolve <insert NAME> directives in template documents against a set of source documents " +
		"and return the combined documents. Each template produces one document whose extension is replaced by .md. " +
		"Directives inside inserted sources are resolved too, up to 10 passes; a template still holding directives " +
		"after that is reported as a likely circular reference. A directive naming an unknown source is replaced by " +
		"a visible <!-- mdext: source \"NAME\" not found --> marker.",
	InputSchema: map[string]interface{}{
		"type":     "object",
		"required": []string{"templates"},
		"properties": map[string]interface{}{
			"templates": documentListSchema,
			"sources":   documentListSchema,
		},
	},
}

// InputCombineDocuments is the input for the CombineDocuments tool.
type InputCombineDocuments struct {
	Templates []DocumentInput `json:"templates"`
	Sources   []DocumentInput `json:"sources"`
}

// OutputCombineDocuments is the output for the CombineDocuments tool.
type OutputCombineDocuments struct {
	// Documents holds one resolved document per template, in input order.
	Documents []DocumentOutput `json:"documents"`
	// Errors lists references the engine could not resolve.
	Errors []IssueOutput `json:"errors"`
	// Warnings lists templates that hit the pass limit or were emitted unresolved.
	Warnings []IssueOutput `json:"warnings"`
}

// defaultEngine builds an Engine with the default grammar and limits.
func defaultEngine() *combine.Engine {
	return combine.New()
}

// CombineDocuments resolves the given templates against the given sources.
// An empty template list yields an empty document list.
func CombineDocuments(_ context.Context, _ *mcp.CallToolRequest, input InputCombineDocuments) (*mcp.CallToolResult, OutputCombineDocuments, error) {
	report := defaultEngine().BuildWithReport(toDocuments(input.Templates), toDocuments(input.Sources))

	return nil, OutputCombineDocuments{
		Documents: toDocumentOutputs(report.Documents),
		Errors:    toIssueOutputs(report.Result.Errors),
		Warnings:  toIssueOutputs(report.Result.Warnings),
	}, nil
}
