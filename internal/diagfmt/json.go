package diagfmt

import (
	"encoding/json"
	"io"

	"pyfmt/internal/diag"
	"pyfmt/internal/source"
)

type jsonPosition struct {
	Line uint32 `json:"line"`
	Col  uint32 `json:"col"`
}

type jsonNote struct {
	Message string        `json:"message"`
	Start   *jsonPosition `json:"start,omitempty"`
}

type jsonDiagnostic struct {
	Severity string        `json:"severity"`
	Code     string        `json:"code"`
	Message  string        `json:"message"`
	Path     string        `json:"path"`
	Start    *jsonPosition `json:"start,omitempty"`
	End      *jsonPosition `json:"end,omitempty"`
	Notes    []jsonNote    `json:"notes,omitempty"`
}

// JSON renders diagnostics as a JSON array. Call bag.Sort() first if stable
// ordering matters.
func JSON(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts JSONOpts) error {
	items := bag.Items()
	if opts.Max > 0 && len(items) > opts.Max {
		items = items[:opts.Max]
	}

	payload := make([]jsonDiagnostic, 0, len(items))
	for _, d := range items {
		jd := jsonDiagnostic{
			Severity: d.Severity.String(),
			Code:     d.Code.String(),
			Message:  d.Message,
			Path:     fs.Get(d.Primary.File).Path,
		}
		if opts.IncludePositions {
			start, end := fs.Resolve(d.Primary)
			jd.Start = &jsonPosition{Line: start.Line, Col: start.Col}
			jd.End = &jsonPosition{Line: end.Line, Col: end.Col}
		}
		if opts.IncludeNotes {
			for _, n := range d.Notes {
				jn := jsonNote{Message: n.Msg}
				if opts.IncludePositions {
					start, _ := fs.Resolve(n.Span)
					jn.Start = &jsonPosition{Line: start.Line, Col: start.Col}
				}
				jd.Notes = append(jd.Notes, jn)
			}
		}
		payload = append(payload, jd)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}
