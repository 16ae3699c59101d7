package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"pyfmt/internal/diag"
	"pyfmt/internal/source"
)

// Pretty renders diagnostics in a human-readable form, one block per
// diagnostic:
//
//	<path>:<line>:<col>: <SEV> <CODE>: <message>
//	  <source line>
//	  ^~~~
//
// Call bag.Sort() first if stable ordering matters.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	if bag == nil || bag.Len() == 0 {
		return
	}
	sevColor := func(s diag.Severity) *color.Color {
		switch s {
		case diag.SevError:
			return color.New(color.FgRed, color.Bold)
		case diag.SevWarning:
			return color.New(color.FgYellow, color.Bold)
		default:
			return color.New(color.FgCyan)
		}
	}

	for _, d := range bag.Items() {
		head := fmt.Sprintf("%s %s:", d.Severity.String(), d.Code.String())
		if opts.Color {
			head = sevColor(d.Severity).Sprint(head)
		}
		fmt.Fprintf(w, "%s %s %s\n", location(fs, d.Primary), head, d.Message)
		writeContext(w, fs, d.Primary, opts)

		if opts.ShowNotes {
			for _, n := range d.Notes {
				fmt.Fprintf(w, "%s note: %s\n", location(fs, n.Span), n.Msg)
			}
		}
	}
}

func location(fs *source.FileSet, span source.Span) string {
	file := fs.Get(span.File)
	if file == nil {
		return "<unknown>:"
	}
	start, _ := fs.Resolve(span)
	return fmt.Sprintf("%s:%d:%d:", file.Path, start.Line, start.Col)
}

func writeContext(w io.Writer, fs *source.FileSet, span source.Span, opts PrettyOpts) {
	file := fs.Get(span.File)
	if file == nil || len(file.Content) == 0 {
		return
	}
	start, end := fs.Resolve(span)

	first := start.Line
	if n := uint32(opts.Context); first > n {
		first -= n
	} else {
		first = 1
	}
	last := start.Line + uint32(opts.Context)
	if total := lineCount(file); last > total {
		last = total
	}

	for ln := first; ln <= last; ln++ {
		fmt.Fprintf(w, "  %s\n", lineText(file, ln))
		if ln != start.Line {
			continue
		}
		caretLen := 1
		if end.Line == start.Line && end.Col > start.Col {
			caretLen = int(end.Col - start.Col)
		}
		marker := "^" + strings.Repeat("~", caretLen-1)
		if opts.Color {
			marker = color.New(color.FgGreen, color.Bold).Sprint(marker)
		}
		fmt.Fprintf(w, "  %s%s\n", strings.Repeat(" ", int(start.Col)-1), marker)
	}
}

// lineCount returns the number of 1-based lines with content.
func lineCount(f *source.File) uint32 {
	if len(f.Content) == 0 {
		return 0
	}
	n := uint32(len(f.LineIdx))
	if f.Content[len(f.Content)-1] != '\n' {
		n++
	}
	return n
}

// lineText returns the content of a 1-based line without its newline.
func lineText(f *source.File, line uint32) string {
	startOff := uint32(0)
	if line > 1 {
		idx := int(line) - 2
		if idx >= len(f.LineIdx) {
			return ""
		}
		startOff = f.LineIdx[idx] + 1
	}
	endOff := uint32(len(f.Content))
	if idx := int(line) - 1; idx < len(f.LineIdx) {
		endOff = f.LineIdx[idx]
	}
	if startOff > endOff {
		return ""
	}
	return string(f.Content[startOff:endOff])
}
