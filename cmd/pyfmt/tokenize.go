package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"pyfmt/internal/diagfmt"
	"pyfmt/internal/driver"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [flags] file.py",
	Short: "Tokenize a Python source file",
	Long:  `Tokenize breaks down a Python source file into its constituent tokens`,
	Args:  cobra.ExactArgs(1),
	RunE:  runTokenize,
}

func init() {
	tokenizeCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

func runTokenize(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return err
	}

	result, err := driver.Tokenize(args[0], maxDiagnostics)
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}

	hasDiags := result.Bag.HasErrors() || result.Bag.HasWarnings()
	if hasDiags {
		result.Bag.Dedup()
		result.Bag.Sort()
	}

	switch format {
	case "pretty":
		if hasDiags {
			diagfmt.Pretty(os.Stderr, result.Bag, result.FileSet, diagfmt.PrettyOpts{
				Color:     useColor(cmd, os.Stderr),
				Context:   2,
				ShowNotes: true,
			})
		}
		return diagfmt.FormatTokensPretty(os.Stdout, result.Tokens, result.FileSet)
	case "json":
		if hasDiags {
			if err := diagfmt.JSON(os.Stderr, result.Bag, result.FileSet, diagfmt.JSONOpts{
				IncludePositions: true,
				IncludeNotes:     true,
				Max:              maxDiagnostics,
			}); err != nil {
				return err
			}
		}
		return diagfmt.FormatTokensJSON(os.Stdout, result.Tokens)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
