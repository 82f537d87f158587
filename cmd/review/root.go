package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"resume-review/internal/extract"
	"resume-review/internal/shared/config"
	"resume-review/internal/shared/telemetry"
)

const app = "review"

// Actual version can be specified in build command.
var version = "unknown"

type rootOptions struct {
	envFile   string
	logFormat string
	debug     bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           app,
		Short:         "review runs the résumé review pipeline from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level := "warn"
			if opts.debug {
				level = "debug"
			}
			logger, err := telemetry.New(opts.logFormat, level)
			if err != nil {
				return fmt.Errorf("creating a logger: %w", err)
			}
			telemetry.SetLogger(logger)
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "dotenv file with configuration (environment wins)")
	cmd.PersistentFlags().StringVar(&opts.logFormat, "log-format", "console", "log format: console or json")
	cmd.PersistentFlags().BoolVarP(&opts.debug, "debug", "d", false, "verbose/debug output")

	cmd.AddCommand(
		newExtractCmd(),
		newPromptCmd(),
		newAnalyzeCmd(opts),
		newScoreCmd(),
		newVersionCmd(),
	)
	return cmd
}

func (o *rootOptions) loadConfig() (config.Config, error) {
	return config.Load(o.envFile)
}

// readDocument loads path and extracts its text after the same extension
// check the web form applies.
func readDocument(ctx context.Context, path string) (string, []byte, error) {
	name := filepath.Base(path)
	if !extract.Allowed(name) {
		return "", nil, fmt.Errorf("%s: unsupported file type, allowed: %v", name, extract.AllowedExtensions)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", nil, err
	}
	text, err := extract.FromBytes(ctx, name, data)
	if err != nil {
		return "", nil, err
	}
	return text, data, nil
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(path)
}
