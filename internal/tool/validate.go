// SPDX-License-Identifier: Apache-2.0

package tool

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/mdextproj/mdext/internal/config"
	"github.com/mdextproj/mdext/internal/diagnostic"
	"github.com/mdextproj/mdext/internal/pipeline"
	"github.com/mdextproj/mdext/internal/validate"
)

// MetadataValidateDocuments describes the validate_documents tool.
var MetadataValidateDocuments = &mcp.Tool{
	Name: "validate_documents",
	Description: "Check <insert NAME> directives in template documents without producing output. " +
		"Reports malformed directives and references to unknown sources as errors, each with the file and " +
		"1-based line it occurs on, including directives inside inserted sources. Duplicate output names and " +
		"legacy <MarkDownExtension> directives are reported as warnings. Warnings do not make a batch invalid.",
	InputSchema: map[string]interface{}{
		"type":     "object",
		"required": []string{"templates"},
		"properties": map[string]interface{}{
			"templates": documentListSchema,
			"sources":   documentListSchema,
		},
	},
}

// MetadataValidateDirectory describes the validate_directory tool.
var MetadataValidateDirectory = &mcp.Tool{
	Name: "validate_directory",
	Description: "Collect every .mdext template and .mdsrc/.md source under a directory and validate them. " +
		"Settings are read from .mdext.yaml, .mdext.yml or .mdext.toml in that directory when present. " +
		"When file is given, only the issues located in that file are returned, which suits an editor overlay; " +
		"file may be absolute or relative to the directory.",
	InputSchema: map[string]interface{}{
		"type":     "object",
		"required": []string{"root"},
		"properties": map[string]interface{}{
			"root": map[string]interface{}{
				"type":        "string",
				"description": "Directory to collect documents from",
			},
			"file": map[string]interface{}{
				"type":        "string",
				"description": "Optional file to restrict the returned issues to",
			},
		},
	},
}

// InputValidateDocuments is the input for the ValidateDocuments tool.
type InputValidateDocuments struct {
	Templates []DocumentInput `json:"templates"`
	Sources   []DocumentInput `json:"sources"`
}

// InputValidateDirectory is the input for the ValidateDirectory tool.
type InputValidateDirectory struct {
	Root string `json:"root"`
	File string `json:"file"`
}

// OutputValidate is the output of both validation tools.
type OutputValidate struct {
	Valid    bool          `json:"valid"`
	Errors   []IssueOutput `json:"errors"`
	Warnings []IssueOutput `json:"warnings"`
	// Total, ValidCount and InvalidCount count templates.
	Total        int `json:"total"`
	ValidCount   int `json:"valid_count"`
	InvalidCount int `json:"invalid_count"`
}

// ValidateDocuments validates the given templates against the given sources.
func ValidateDocuments(_ context.Context, _ *mcp.CallToolRequest, input InputValidateDocuments) (*mcp.CallToolResult, OutputValidate, error) {
	templates := toDocuments(input.Templates)
	res := validate.New().Validate(templates, toDocuments(input.Sources))

	invalid := make(map[string]struct{})
	for _, issue := range res.Errors {
		invalid[issue.Template] = struct{}{}
	}

	return nil, OutputValidate{
		Valid:        res.IsValid(),
		Errors:       toIssueOutputs(res.Errors),
		Warnings:     toIssueOutputs(res.Warnings),
		Total:        len(templates),
		ValidCount:   len(templates) - len(invalid),
		InvalidCount: len(invalid),
	}, nil
}

// ValidateDirectory collects and validates a directory.
func ValidateDirectory(ctx context.Context, _ *mcp.CallToolRequest, input InputValidateDirectory) (*mcp.CallToolResult, OutputValidate, error) {
	if input.Root == "" {
		return nil, OutputValidate{}, fmt.Errorf("root is required")
	}

	cfg, _, err := config.Resolve("", input.Root)
	if err != nil {
		return nil, OutputValidate{}, err
	}

	run, err := pipeline.New(cfg, nil).Validate(ctx, input.Root)
	if err != nil {
		return nil, OutputValidate{}, err
	}

	out := OutputValidate{
		Valid:        run.Result.IsValid(),
		Errors:       toIssueOutputs(run.Result.Errors),
		Warnings:     toIssueOutputs(run.Result.Warnings),
		Total:        run.Total,
		ValidCount:   run.Valid,
		InvalidCount: run.Invalid,
	}
	if input.File == "" {
		return nil, out, nil
	}

	file := input.File
	if !filepath.IsAbs(file) {
		file = filepath.Join(input.Root, file)
	}
	rooted := underRoot(run.Result, input.Root)
	filtered := diagnostic.IssuesForFile(&rooted, file)

	var errs, warns []diagnostic.Issue
	for _, issue := range filtered {
		if issue.Severity() == diagnostic.SevError {
			errs = append(errs, issue)
		} else {
			warns = append(warns, issue)
		}
	}
	out.Errors = toIssueOutputs(errs)
	out.Warnings = toIssueOutputs(warns)
	return nil, out, nil
}

// underRoot returns a copy of res whose source files are joined to root, so
// they compare equal to absolute editor paths.
func underRoot(res diagnostic.Result, root string) diagnostic.Result {
	join := func(issues []diagnostic.Issue) []diagnostic.Issue {
		out := make([]diagnostic.Issue, len(issues))
		for i, issue := range issues {
			if issue.SourceFile != "" {
				issue.SourceFile = filepath.Join(root, filepath.FromSlash(issue.SourceFile))
			}
			out[i] = issue
		}
		return out
	}
	return diagnostic.Result{Errors: join(res.Errors), Warnings: join(res.Warnings)}
}
