package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"pyfmt/internal/diagfmt"
	"pyfmt/internal/driver"
	"pyfmt/internal/style"
)

var fmtCmd = &cobra.Command{
	Use:   "fmt [flags] <path> [path...]",
	Short: "Format Python source files",
	Long: `Fmt rewrites Python source files in place to a consistent style.
Pass "-" to read from stdin and write the result to stdout.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runFmt,
}

func init() {
	fmtCmd.Flags().Bool("check", false, "check if files are properly formatted")
	fmtCmd.Flags().Bool("diff", false, "print a unified diff instead of rewriting files")
	fmtCmd.Flags().Bool("stdout", false, "print formatted code to stdout instead of rewriting files")
	fmtCmd.Flags().String("format", "text", "output format (text|json)")
	fmtCmd.Flags().String("style", "", "style preset (pep8|google); overrides config discovery")
	fmtCmd.Flags().Int("indent", 0, "indent width override")
	fmtCmd.Flags().Int("columns", 0, "column limit override")
	fmtCmd.Flags().Int("jobs", 0, "concurrent workers (0 = number of CPUs)")
	fmtCmd.Flags().Bool("no-cache", false, "disable the result cache")
	fmtCmd.Flags().String("ui", "auto", "interactive progress display (auto|on|off)")
}

func runFmt(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	check, _ := cmd.Flags().GetBool("check")
	diff, _ := cmd.Flags().GetBool("diff")
	writeToStdout, _ := cmd.Flags().GetBool("stdout")
	outputFormat, _ := cmd.Flags().GetString("format")
	jobs, _ := cmd.Flags().GetInt("jobs")
	noCache, _ := cmd.Flags().GetBool("no-cache")
	uiFlag, _ := cmd.Flags().GetString("ui")

	if writeToStdout && check {
		return fmt.Errorf("fmt: --stdout cannot be used with --check")
	}
	if diff && writeToStdout {
		return fmt.Errorf("fmt: --diff cannot be used with --stdout")
	}
	if (writeToStdout || diff) && outputFormat != "text" {
		return fmt.Errorf("fmt: --stdout and --diff are only supported with text output")
	}

	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return err
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return err
	}

	styleOverride, err := styleFromFlags(cmd)
	if err != nil {
		return err
	}

	if len(args) == 1 && args[0] == "-" {
		return formatStdin(styleOverride, maxDiagnostics)
	}

	opts := driver.FormatOptions{
		Check:          check || diff,
		Stdout:         writeToStdout,
		Style:          styleOverride,
		MaxDiagnostics: maxDiagnostics,
		Jobs:           jobs,
	}
	if !noCache {
		if cache, cacheErr := driver.OpenDiskCache("pyfmt"); cacheErr == nil {
			opts.Cache = cache
		}
	}

	mode, err := readUIMode(uiFlag)
	if err != nil {
		return err
	}
	interactive := shouldUseTUI(mode) && !writeToStdout && !diff && outputFormat == "text"

	var results []driver.FormatResult
	if interactive {
		results, err = runFormatWithUI(cmd.Context(), "pyfmt", args, opts)
	} else {
		results, err = driver.FormatPaths(cmd.Context(), args, opts)
	}
	if err != nil {
		return err
	}

	var hasErrors, hasChanges bool
	switch outputFormat {
	case "text":
		if writeToStdout {
			renderFmtStdout(results, &hasErrors)
			if hasErrors {
				return fmt.Errorf("fmt: failed to format some files")
			}
			return nil
		}
		if diff {
			renderFmtDiff(cmd, results, &hasErrors, &hasChanges)
		} else {
			renderFmtText(cmd, results, check, quiet || interactive, &hasErrors, &hasChanges)
		}
	case "json":
		if err := renderFmtJSON(results, check); err != nil {
			return err
		}
		for _, res := range results {
			hasErrors = hasErrors || res.Err != nil
			hasChanges = hasChanges || res.Changed
		}
	default:
		return fmt.Errorf("fmt: unsupported output format %q", outputFormat)
	}

	if hasErrors {
		return fmt.Errorf("fmt: failed to format some files")
	}
	if (check || diff) && hasChanges {
		return fmt.Errorf("fmt: formatting changes required")
	}
	return nil
}

// styleFromFlags maps the style flags onto options. It returns nil when no
// flag was given so per-directory config discovery stays in effect.
func styleFromFlags(cmd *cobra.Command) (*style.Options, error) {
	preset, _ := cmd.Flags().GetString("style")
	indent, _ := cmd.Flags().GetInt("indent")
	columns, _ := cmd.Flags().GetInt("columns")

	if preset == "" && indent == 0 && columns == 0 {
		return nil, nil
	}
	st, err := style.ByName(preset)
	if err != nil {
		return nil, err
	}
	if indent > 0 {
		st.IndentWidth = indent
		st.ContinuationIndent = indent
	}
	if columns > 0 {
		st.ColumnLimit = columns
	}
	if err := st.Validate(); err != nil {
		return nil, err
	}
	return &st, nil
}

func formatStdin(styleOverride *style.Options, maxDiagnostics int) error {
	src, err := io.ReadAll(os.Stdin)
	if err != nil {
		return err
	}
	st := style.PEP8()
	if styleOverride != nil {
		st = *styleOverride
	} else if discovered, err := style.ForFile("stdin.py"); err == nil {
		st = discovered
	}
	out, _, err := driver.FormatSource("<stdin>", src, st, maxDiagnostics)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(out)
	return err
}

func renderFmtStdout(results []driver.FormatResult, hasErrors *bool) {
	for _, res := range results {
		if res.Err != nil {
			*hasErrors = true
			fmt.Fprintf(os.Stderr, "fmt: %s: %v\n", res.Path, res.Err)
			continue
		}
		_, _ = os.Stdout.Write(res.Formatted)
	}
}

func renderFmtText(cmd *cobra.Command, results []driver.FormatResult, check, quiet bool, hasErrors, hasChanges *bool) {
	colored := useColor(cmd, os.Stderr)
	for _, res := range results {
		if !quiet {
			printDiagnostics(res, colored)
		}
		if res.Err != nil {
			*hasErrors = true
			fmt.Fprintf(os.Stderr, "fmt: %s: %v\n", res.Path, res.Err)
			continue
		}
		if res.Changed {
			*hasChanges = true
			if quiet {
				continue
			}
			if check {
				fmt.Fprintln(os.Stdout, res.Path)
			} else {
				fmt.Fprintf(os.Stdout, "reformatted %s\n", res.Path)
			}
		}
	}
}

// printDiagnostics writes collected warnings and errors to stderr. Cache hits
// carry no diagnostics, so a clean second run stays silent.
func printDiagnostics(res driver.FormatResult, colored bool) {
	if res.Bag == nil || res.FileSet == nil || res.Bag.Len() == 0 {
		return
	}
	res.Bag.Dedup()
	res.Bag.Sort()
	diagfmt.Pretty(os.Stderr, res.Bag, res.FileSet, diagfmt.PrettyOpts{
		Color:     colored,
		ShowNotes: true,
	})
}

func renderFmtDiff(cmd *cobra.Command, results []driver.FormatResult, hasErrors, hasChanges *bool) {
	colored := useColor(cmd, os.Stdout)
	for _, res := range results {
		if res.Err != nil {
			*hasErrors = true
			fmt.Fprintf(os.Stderr, "fmt: %s: %v\n", res.Path, res.Err)
			continue
		}
		if !res.Changed {
			continue
		}
		*hasChanges = true
		writeUnifiedDiff(os.Stdout, res.Path, res.Original, res.Formatted, colored)
	}
}

func renderFmtJSON(results []driver.FormatResult, check bool) error {
	type jsonResult struct {
		Path     string `json:"path"`
		Changed  bool   `json:"changed"`
		CacheHit bool   `json:"cache_hit,omitempty"`
		Error    string `json:"error,omitempty"`
		CheckRun bool   `json:"check"`
	}

	payload := make([]jsonResult, 0, len(results))
	for _, res := range results {
		jr := jsonResult{Path: res.Path, Changed: res.Changed, CacheHit: res.CacheHit, CheckRun: check}
		if res.Err != nil {
			jr.Error = res.Err.Error()
		}
		payload = append(payload, jr)
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(payload)
}
