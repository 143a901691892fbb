// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mdextproj/mdext/internal/config"
)

// loadSettings resolves the configuration for an input directory, applies the
// persistent flag overrides and builds the logger.
func loadSettings(cmd *cobra.Command, root string) (*config.Config, *slog.Logger, error) {
	flags := cmd.Root().PersistentFlags()

	configPath, err := flags.GetString("config")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	logLevel, err := flags.GetString("log-level")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get log-level flag: %w", err)
	}
	logFormat, err := flags.GetString("log-format")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get log-format flag: %w", err)
	}
	colorMode, err := flags.GetString("color")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get color flag: %w", err)
	}

	if err := setupColor(colorMode); err != nil {
		return nil, nil, err
	}

	cfg, loaded, err := config.Resolve(configPath, root)
	if err != nil {
		return nil, nil, err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if logFormat != "" {
		cfg.Log.Format = logFormat
	}

	logger, err := cfg.Log.NewLogger(cmd.ErrOrStderr())
	if err != nil {
		return nil, nil, err
	}
	if loaded != "" {
		logger.Debug("loaded configuration", "path", loaded)
	}
	return cfg, logger, nil
}

func setupColor(mode string) error {
	switch mode {
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	case "auto":
		color.NoColor = !term.IsTerminal(int(os.Stdout.Fd()))
	default:
		return fmt.Errorf("unknown color value: %s", mode)
	}
	return nil
}
