// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mdextproj/mdext/internal/pipeline"
	"github.com/mdextproj/mdext/internal/writer"
)

func newCombineCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "combine [flags] <input> <output>",
		Short: "Resolve every template under input and write the results to output",
		Long: `Resolve <insert NAME> directives in every .mdext template under input and write
one .md file per template to output, keeping the directory structure. Plain .md
files are copied unchanged. Unknown sources are replaced by a visible marker.`,
		Args: cobra.ExactArgs(2),
		RunE: runCombine,
	}
	cmd.Flags().Bool("strict", false, "fail when validation finds errors")
	return cmd
}

func runCombine(cmd *cobra.Command, args []string) error {
	input, output := args[0], args[1]

	strict, err := cmd.Flags().GetBool("strict")
	if err != nil {
		return fmt.Errorf("failed to get strict flag: %w", err)
	}

	cfg, logger, err := loadSettings(cmd, input)
	if err != nil {
		return err
	}

	res, err := pipeline.New(cfg, logger).Combine(cmd.Context(), input)
	if err != nil {
		return err
	}
	if res.Templates == 0 {
		return fmt.Errorf("no %s template files found in %s", cfg.TemplateExt, input)
	}

	if err := writer.Write(cmd.Context(), output, res.Documents); err != nil {
		return err
	}

	if strict {
		printIssues(cmd.ErrOrStderr(), res.Validation.Result.All())
	} else {
		printIssues(cmd.ErrOrStderr(), res.Result.All())
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Combined %d template(s) into %s (%d file(s) written)\n",
		res.Templates, output, len(res.Documents))

	if strict && !res.Validation.Result.IsValid() {
		return fmt.Errorf("validation failed: %d error(s)", len(res.Validation.Result.Errors))
	}
	return nil
}
