package main

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"resume-review/internal/analyses"
	"resume-review/internal/llm"
	openai "resume-review/internal/llm/openai"
	"resume-review/internal/render"
)

const (
	formatTerminal = "terminal"
	formatMarkdown = "markdown"
	formatHTML     = "html"
	formatJSON     = "json"
)

func newExtractCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "extract <file>",
		Short: "Print the text extracted from a PDF, DOCX or TXT file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, _, err := readDocument(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), text)
			return err
		},
	}
}

func newPromptCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "prompt <file>",
		Short: "Print the prompt that would be sent for a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, _, err := readDocument(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), llm.BuildReviewPrompt(text))
			return err
		},
	}
}

func newScoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "score <file|->",
		Short: "Extract the score from a review answer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), render.ScoreLabel(render.Score(string(data))))
			return err
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version: %s\n", app, version)
		},
	}
}

func newAnalyzeCmd(root *rootOptions) *cobra.Command {
	var (
		format string
		model  string
		width  int
	)
	cmd := &cobra.Command{
		Use:   "analyze <file>",
		Short: "Review a résumé with the configured language model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch format {
			case formatTerminal, formatMarkdown, formatHTML, formatJSON:
			default:
				return fmt.Errorf("unknown format %q", format)
			}

			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			if err := cfg.ValidateLLM(); err != nil {
				return err
			}
			if strings.TrimSpace(model) != "" {
				cfg.LLMModel = model
			}

			client, err := openai.NewClient(openai.Options{
				APIKey:     cfg.OpenAIAPIKey,
				Model:      cfg.LLMModel,
				BaseURL:    cfg.OpenAIBaseURL,
				Timeout:    cfg.OpenAITimeout,
				MaxRetries: cfg.OpenAIMaxRetries,
			})
			if err != nil {
				return err
			}
			svc := analyses.NewService(client, render.New(), cfg.LLMModel)

			_, data, err := readDocument(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			result, err := svc.Analyze(cmd.Context(), analyses.Upload{FileName: filepath.Base(args[0]), Data: data})
			if err != nil {
				return err
			}
			return writeResult(cmd, result, format, width)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", formatTerminal, "output format: terminal, markdown, html or json")
	cmd.Flags().StringVarP(&model, "model", "m", "", "model identifier (default from LLM_MODEL)")
	cmd.Flags().IntVar(&width, "width", 100, "word wrap width for terminal output")
	return cmd
}

func writeResult(cmd *cobra.Command, result analyses.Result, format string, width int) error {
	out := cmd.OutOrStdout()
	switch format {
	case formatMarkdown:
		_, err := fmt.Fprintf(out, "%s\n\nScore: %s\n", result.Markdown, result.ScoreLabel())
		return err
	case formatHTML:
		_, err := fmt.Fprintln(out, result.HTML)
		return err
	case formatJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{
			"id":         result.ID,
			"fileName":   result.FileName,
			"score":      result.Score,
			"scoreLabel": result.ScoreLabel(),
			"markdown":   result.Markdown,
			"model":      result.Model,
			"durationMs": result.Duration.Milliseconds(),
		})
	default:
		rendered, err := renderTerminal(result.Markdown, width)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(out, "%s\nScore: %s / 100\n", rendered, result.ScoreLabel())
		return err
	}
}

func renderTerminal(markdown string, width int) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("terminal renderer: %w", err)
	}
	return r.Render(markdown)
}
