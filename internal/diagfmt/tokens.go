package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"

	"pyfmt/internal/source"
	"pyfmt/internal/token"
)

// TokenOutput is the JSON shape of one token.
type TokenOutput struct {
	Kind     string      `json:"kind"`
	Subtype  string      `json:"subtype,omitempty"`
	Text     string      `json:"text,omitempty"`
	Span     source.Span `json:"span"`
	Trailing string      `json:"trailing,omitempty"`
}

// FormatTokensPretty writes tokens in a human-readable listing.
func FormatTokensPretty(w io.Writer, tokens []token.Token, fs *source.FileSet) error {
	for i, tok := range tokens {
		startPos, endPos := fs.Resolve(tok.Span)

		fmt.Fprintf(w, "%4d: %-12s", i+1, tok.Kind.String())
		if tok.Subtype != token.SubtypeNone {
			fmt.Fprintf(w, " [%s]", tok.Subtype.String())
		}
		if tok.Text != "" {
			fmt.Fprintf(w, " %q", tok.Text)
		}
		fmt.Fprintf(w, " at %d:%d-%d:%d",
			startPos.Line, startPos.Col,
			endPos.Line, endPos.Col)
		if tok.Trailing != nil {
			fmt.Fprintf(w, " (trailing: %q)", tok.Trailing.Text)
		}
		fmt.Fprintln(w)

		if tok.Kind == token.EOF {
			break
		}
	}
	return nil
}

// FormatTokensJSON writes tokens as an indented JSON array.
func FormatTokensJSON(w io.Writer, tokens []token.Token) error {
	output := make([]TokenOutput, 0, len(tokens))
	for _, tok := range tokens {
		out := TokenOutput{
			Kind: tok.Kind.String(),
			Text: tok.Text,
			Span: tok.Span,
		}
		if tok.Subtype != token.SubtypeNone {
			out.Subtype = tok.Subtype.String()
		}
		if tok.Trailing != nil {
			out.Trailing = tok.Trailing.Text
		}
		output = append(output, out)
		if tok.Kind == token.EOF {
			break
		}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
