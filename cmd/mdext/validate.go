// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"github.com/mdextproj/mdext/internal/diagnostic"
	"github.com/mdextproj/mdext/internal/pipeline"
)

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [flags] <input>",
		Short: "Check every template under input for broken insert directives",
		Long: `Check every .mdext template under input, and the sources it includes, for
malformed directives and references to unknown sources. Exits with status 1
when any error is found; warnings alone never fail validation.`,
		Args: cobra.ExactArgs(1),
		RunE: runValidate,
	}
	cmd.Flags().String("format", "text", "output format (text|yaml|json)")
	return cmd
}

// validateReport is the serialised form of a validation run.
type validateReport struct {
	Valid    bool               `json:"valid" yaml:"valid"`
	Total    int                `json:"total" yaml:"total"`
	Passed   int                `json:"passed" yaml:"passed"`
	Failed   int                `json:"failed" yaml:"failed"`
	Errors   []diagnostic.Issue `json:"errors" yaml:"errors"`
	Warnings []diagnostic.Issue `json:"warnings" yaml:"warnings"`
}

func runValidate(cmd *cobra.Command, args []string) error {
	input := args[0]

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	switch format {
	case "text", "yaml", "json":
	default:
		return fmt.Errorf("unknown format value: %s", format)
	}

	cfg, logger, err := loadSettings(cmd, input)
	if err != nil {
		return err
	}

	run, err := pipeline.New(cfg, logger).Validate(cmd.Context(), input)
	if err != nil {
		return err
	}
	if run.Total == 0 {
		return fmt.Errorf("no %s template files found in %s", cfg.TemplateExt, input)
	}

	out := cmd.OutOrStdout()
	switch format {
	case "text":
		printIssues(out, run.Result.All())
		printSummary(out, run)
	default:
		report := validateReport{
			Valid:    run.Result.IsValid(),
			Total:    run.Total,
			Passed:   run.Valid,
			Failed:   run.Invalid,
			Errors:   run.Result.Errors,
			Warnings: run.Result.Warnings,
		}
		var opts []yaml.EncodeOption
		if format == "json" {
			opts = append(opts, yaml.JSON())
		}
		data, err := yaml.MarshalWithOptions(report, opts...)
		if err != nil {
			return fmt.Errorf("encoding report: %w", err)
		}
		if _, err := out.Write(data); err != nil {
			return err
		}
	}

	if !run.Result.IsValid() {
		return fmt.Errorf("validation failed: %d error(s) in %d file(s)", len(run.Result.Errors), run.Invalid)
	}
	return nil
}

var (
	errorLabel   = color.New(color.FgRed, color.Bold)
	warningLabel = color.New(color.FgYellow, color.Bold)
	validCount   = color.New(color.FgGreen)
	invalidCount = color.New(color.FgRed)
)

func printIssues(w io.Writer, issues []diagnostic.Issue) {
	for _, issue := range issues {
		label := warningLabel.Sprint("warning")
		if issue.Severity() == diagnostic.SevError {
			label = errorLabel.Sprint("error")
		}
		loc := issue.SourceFile
		if issue.LineNumber > 0 {
			loc = fmt.Sprintf("%s:%d", loc, issue.LineNumber)
		}
		fmt.Fprintf(w, "%s: %s: %s\n", loc, label, issue.Message)
		if issue.SourceContext != "" {
			fmt.Fprintf(w, "    %s\n", issue.SourceContext)
		}
		if issue.Template != "" && issue.Template != issue.SourceFile {
			fmt.Fprintf(w, "    (included from %s)\n", issue.Template)
		}
	}
}

func printSummary(w io.Writer, run pipeline.ValidateResult) {
	fmt.Fprintf(w, "Total: %d  Valid: %s  Invalid: %s\n",
		run.Total, validCount.Sprint(run.Valid), invalidCount.Sprint(run.Invalid))
}
