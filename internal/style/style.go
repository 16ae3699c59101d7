package style

import (
	"fmt"
)

// Options is the style configuration for one reformatting run. It is passed
// by value into the engine and never mutated during a run; concurrent runs
// with different styles cannot interfere.
type Options struct {
	// ColumnLimit is the maximum width of an output physical line.
	ColumnLimit int
	// IndentWidth is the number of spaces per statement nesting level.
	IndentWidth int
	// ContinuationIndent is the extra indent of a hanging continuation
	// line, used when a break lands right after an opening bracket or when
	// no bracket is open.
	ContinuationIndent int
	// SpacesBeforeComment separates code from a trailing comment.
	SpacesBeforeComment int
	// BlankLinesAroundTopLevel is the blank-line count before and after a
	// module-level class or function definition.
	BlankLinesAroundTopLevel int
	// MaxBlankLines caps preserved blank lines at module level; nested
	// scopes are capped at one less (minimum one).
	MaxBlankLines int
}

// PEP8 returns the default style: 4-space indent, 79 columns.
func PEP8() Options {
	return Options{
		ColumnLimit:              79,
		IndentWidth:              4,
		ContinuationIndent:       4,
		SpacesBeforeComment:      2,
		BlankLinesAroundTopLevel: 2,
		MaxBlankLines:            2,
	}
}

// Google returns the Google-style preset: 2-space indent, 80 columns.
func Google() Options {
	o := PEP8()
	o.IndentWidth = 2
	o.ColumnLimit = 80
	return o
}

// ByName resolves a preset name.
func ByName(name string) (Options, error) {
	switch name {
	case "", "pep8":
		return PEP8(), nil
	case "google":
		return Google(), nil
	default:
		return Options{}, fmt.Errorf("style: unknown preset %q", name)
	}
}

// Validate rejects mutually inconsistent or degenerate options before any
// line is processed.
func (o Options) Validate() error {
	if o.ColumnLimit <= 0 {
		return fmt.Errorf("style: column limit must be positive, got %d", o.ColumnLimit)
	}
	if o.IndentWidth <= 0 {
		return fmt.Errorf("style: indent width must be positive, got %d", o.IndentWidth)
	}
	if o.ContinuationIndent <= 0 {
		return fmt.Errorf("style: continuation indent must be positive, got %d", o.ContinuationIndent)
	}
	if o.SpacesBeforeComment <= 0 {
		return fmt.Errorf("style: spaces before comment must be positive, got %d", o.SpacesBeforeComment)
	}
	if o.MaxBlankLines < 1 {
		return fmt.Errorf("style: max blank lines must be at least 1, got %d", o.MaxBlankLines)
	}
	if o.BlankLinesAroundTopLevel < 1 || o.BlankLinesAroundTopLevel > o.MaxBlankLines {
		return fmt.Errorf("style: blank lines around top-level defs must be between 1 and %d, got %d",
			o.MaxBlankLines, o.BlankLinesAroundTopLevel)
	}
	if o.IndentWidth > o.ColumnLimit {
		return fmt.Errorf("style: indent width %d exceeds column limit %d", o.IndentWidth, o.ColumnLimit)
	}
	return nil
}

// MaxBlanksAt returns the preserved-blank-line cap at a nesting depth.
func (o Options) MaxBlanksAt(depth int) int {
	if depth == 0 {
		return o.MaxBlankLines
	}
	n := o.MaxBlankLines - 1
	if n < 1 {
		n = 1
	}
	return n
}

// Fingerprint is a stable digest input describing the options, used to key
// cached formatting results.
func (o Options) Fingerprint() string {
	return fmt.Sprintf("v1:c%d:i%d:k%d:s%d:b%d:m%d",
		o.ColumnLimit, o.IndentWidth, o.ContinuationIndent,
		o.SpacesBeforeComment, o.BlankLinesAroundTopLevel, o.MaxBlankLines)
}
