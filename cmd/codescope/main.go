// Package main provides the codescope CLI entry point.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/codescope/codescope/cli"
	"github.com/codescope/codescope/llm"
)

var (
	// Global flags
	provider string
	modelID  string
	verbose  bool
)

func main() {
	// Load .env file if present (ignore "file not found" errors)
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Warning: failed to load .env file: %v\n", err)
		}
	}

	rootCmd := &cobra.Command{
		Use:   "codescope",
		Short: "Cached code analysis backed by a local or remote model",
		Long: `Analyze code with an LLM and cache the results locally.

Repeated analyses of the same code are served from the cache without a
model call. Results can be recalled from history and translated into
other languages.`,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&provider, "provider", "p", "", "LLM provider ("+providerList()+")")
	rootCmd.PersistentFlags().StringVar(&modelID, "model", "", "Model identifier (provider default when empty)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show progress output")

	rootCmd.AddCommand(analyzeCmd())
	rootCmd.AddCommand(selectCmd())
	rootCmd.AddCommand(historyCmd())
	rootCmd.AddCommand(recallCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func analyzeCmd() *cobra.Command {
	var analysisType string
	var force bool
	var language string
	var fromFile string

	cmd := &cobra.Command{
		Use:   "analyze [code]",
		Short: "Analyze code, serving repeated requests from the cache",
		Long: `Analyze code for a summary, complexity estimate, and flowchart.

Code can be passed as an argument, read from a file with --file, or
taken from a pending selection stored with 'codescope select'. Identical
code is served from the cache unless --force is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := resolveCode(args, fromFile)
			if err != nil {
				return err
			}
			opts := cli.Options{
				Provider: provider,
				Model:    modelID,
				Force:    force,
				Language: language,
				Verbose:  verbose,
			}
			return cli.Analyze(context.Background(), code, analysisType, opts)
		},
	}

	cmd.Flags().StringVarP(&analysisType, "type", "t", "", "Analysis type: combined, summary, complexity, flowchart")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Re-run the analysis even when cached")
	cmd.Flags().StringVarP(&language, "lang", "l", "", "Translate the result into this language (BCP 47 tag)")
	cmd.Flags().StringVar(&fromFile, "file", "", "Read the code from a file")

	return cmd
}

func selectCmd() *cobra.Command {
	var analysisType string
	var force bool
	var fromFile string

	cmd := &cobra.Command{
		Use:   "select [code]",
		Short: "Store code as the pending selection for a later analyze",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := resolveCode(args, fromFile)
			if err != nil {
				return err
			}
			return cli.Select(context.Background(), code, analysisType, force)
		},
	}

	cmd.Flags().StringVarP(&analysisType, "type", "t", "", "Analysis type: combined, summary, complexity, flowchart")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Mark the selection to bypass the cache once")
	cmd.Flags().StringVar(&fromFile, "file", "", "Read the code from a file")

	return cmd
}

func historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past analyses, most recent first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.History(context.Background(), cli.Options{Provider: provider})
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove all history records",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.ClearHistory(context.Background(), cli.Options{Provider: provider})
		},
	})

	return cmd
}

func recallCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recall [fingerprint]",
		Short: "Print the stored result for a history fingerprint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.Recall(context.Background(), args[0], cli.Options{Provider: provider})
		},
	}
}

// resolveCode picks the code source: --file wins ("-" means stdin), then
// the positional argument, then empty (Analyze falls back to the pending
// selection).
func resolveCode(args []string, fromFile string) (string, error) {
	if fromFile == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}
	if fromFile != "" {
		data, err := os.ReadFile(fromFile)
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", fromFile, err)
		}
		return string(data), nil
	}
	if len(args) > 0 {
		return args[0], nil
	}
	return "", nil
}

func providerList() string {
	names := llm.SupportedProviders()
	out := ""
	for i, n := range names {
		if i > 0 {
			out += ", "
		}
		out += n
	}
	return out
}
