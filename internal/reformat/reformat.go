package reformat

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"pyfmt/internal/logical"
	"pyfmt/internal/style"
)

// Reformat lays out annotated logical lines and serializes them into the
// final text. Lines are processed strictly in document order because the
// blank-line policy carries context from the previous line.
func Reformat(lines []logical.Line, st style.Options) ([]byte, error) {
	if err := st.Validate(); err != nil {
		return nil, err
	}
	results := make([]Result, len(lines))
	for i := range lines {
		res, err := Search(&lines[i], i, st)
		if err != nil {
			return nil, err
		}
		results[i] = res
	}
	return render(lines, results, st), nil
}

// ReformatParallel is Reformat with the per-line searches fanned out over
// workers. Each search is independent of its siblings, so this is purely a
// throughput optimization: results are reassembled in input order and the
// output is byte-identical to the sequential path.
func ReformatParallel(ctx context.Context, lines []logical.Line, st style.Options, workers int) ([]byte, error) {
	if err := st.Validate(); err != nil {
		return nil, err
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]Result, len(lines))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range lines {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := Search(&lines[i], i, st)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return render(lines, results, st), nil
}

func render(lines []logical.Line, results []Result, st style.Options) []byte {
	w := newWriter(estimate(lines))
	var ctx blankContext
	for i := range lines {
		line := &lines[i]
		if len(line.Tokens) == 0 && len(line.Leading) == 0 {
			// Nothing to emit; does not count as a predecessor either.
			continue
		}

		w.blankLines(blankLines(&ctx, line, st))

		indent := line.Depth * st.IndentWidth
		for _, c := range line.Leading {
			w.line(indent, c.Text)
		}
		if len(line.Tokens) > 0 {
			renderTokens(w, line, &results[i], st, indent)
		}
		ctx.observe(line)
	}
	return w.bytes()
}

func renderTokens(w *writer, line *logical.Line, res *Result, st style.Options, indent int) {
	w.spaces(indent)
	for i := range line.Tokens {
		t := &line.Tokens[i]
		if i > 0 {
			if d := res.Decisions[i]; d.Break {
				w.newline()
				w.spaces(d.Indent)
			} else {
				w.spaces(spaceBetween(&line.Tokens[i-1], t))
			}
		}
		w.write(t.Text)
		if t.Trailing != nil {
			w.spaces(st.SpacesBeforeComment)
			w.write(t.Trailing.Text)
		}
	}
	w.newline()
}

func estimate(lines []logical.Line) int {
	n := 0
	for i := range lines {
		for j := range lines[i].Tokens {
			n += len(lines[i].Tokens[j].Text) + 1
		}
	}
	return n + 64
}
