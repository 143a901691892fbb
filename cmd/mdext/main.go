// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// version is overridden at build time via -ldflags "-X main.version=...".
var version = "0.1.0-dev"

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "mdext",
		Short: "Resolve <insert> directives across markdown documents",
		Long: `mdext expands <insert NAME> directives in .mdext templates with the content of
.mdsrc fragments, so shared text is maintained once and included everywhere.`,
		Version:      version,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().String("config", "", "configuration file (default: .mdext.yaml/.mdext.toml in the input directory)")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug|info|warn|error), overrides the config file")
	rootCmd.PersistentFlags().String("log-format", "", "log format (text|json), overrides the config file")
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")

	rootCmd.AddCommand(newCombineCmd())
	rootCmd.AddCommand(newValidateCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// main runs the root command and exits with status 1 if it fails.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
