package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

const diffContext = 3

type diffOp struct {
	kind byte // ' ', '-', '+'
	text string
}

// writeUnifiedDiff prints a unified diff between two versions of one file.
func writeUnifiedDiff(w io.Writer, path string, before, after []byte, colored bool) {
	header := color.New(color.Bold)
	add := color.New(color.FgGreen)
	del := color.New(color.FgRed)
	hunk := color.New(color.FgCyan)
	if !colored {
		for _, c := range []*color.Color{header, add, del, hunk} {
			c.DisableColor()
		}
	}

	fmt.Fprintln(w, header.Sprintf("--- %s (original)", path))
	fmt.Fprintln(w, header.Sprintf("+++ %s (reformatted)", path))

	ops := diffLines(splitLines(before), splitLines(after))
	for _, h := range groupHunks(ops) {
		fmt.Fprintln(w, hunk.Sprintf("@@ -%d,%d +%d,%d @@", h.beforeStart, h.beforeCount, h.afterStart, h.afterCount))
		for _, op := range h.ops {
			switch op.kind {
			case '+':
				fmt.Fprintln(w, add.Sprint("+"+op.text))
			case '-':
				fmt.Fprintln(w, del.Sprint("-"+op.text))
			default:
				fmt.Fprintln(w, " "+op.text)
			}
		}
	}
}

func splitLines(data []byte) []string {
	if len(data) == 0 {
		return nil
	}
	return strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
}

// diffLines produces an op sequence via longest-common-subsequence. Inputs
// past the matrix bound degrade to a whole-file replacement, which keeps the
// cost linear for pathological files.
func diffLines(before, after []string) []diffOp {
	const maxCells = 16 << 20
	if len(before)*len(after) > maxCells {
		ops := make([]diffOp, 0, len(before)+len(after))
		for _, l := range before {
			ops = append(ops, diffOp{kind: '-', text: l})
		}
		for _, l := range after {
			ops = append(ops, diffOp{kind: '+', text: l})
		}
		return ops
	}

	n, m := len(before), len(after)
	lcs := make([][]int32, n+1)
	for i := range lcs {
		lcs[i] = make([]int32, m+1)
	}
	for i := n - 1; i >= 0; i-- {
		for j := m - 1; j >= 0; j-- {
			if before[i] == after[j] {
				lcs[i][j] = lcs[i+1][j+1] + 1
			} else {
				lcs[i][j] = max(lcs[i+1][j], lcs[i][j+1])
			}
		}
	}

	ops := make([]diffOp, 0, n+m)
	i, j := 0, 0
	for i < n && j < m {
		switch {
		case before[i] == after[j]:
			ops = append(ops, diffOp{kind: ' ', text: before[i]})
			i++
			j++
		case lcs[i+1][j] >= lcs[i][j+1]:
			ops = append(ops, diffOp{kind: '-', text: before[i]})
			i++
		default:
			ops = append(ops, diffOp{kind: '+', text: after[j]})
			j++
		}
	}
	for ; i < n; i++ {
		ops = append(ops, diffOp{kind: '-', text: before[i]})
	}
	for ; j < m; j++ {
		ops = append(ops, diffOp{kind: '+', text: after[j]})
	}
	return ops
}

type diffHunk struct {
	beforeStart, beforeCount int
	afterStart, afterCount   int
	ops                      []diffOp
}

// groupHunks slices the op stream into hunks separated by more than
// 2*diffContext unchanged lines.
func groupHunks(ops []diffOp) []diffHunk {
	var hunks []diffHunk
	beforeLine, afterLine := 1, 1

	i := 0
	for i < len(ops) {
		if ops[i].kind == ' ' {
			beforeLine++
			afterLine++
			i++
			continue
		}

		// Back up to include leading context.
		start := i
		ctx := 0
		for start > 0 && ops[start-1].kind == ' ' && ctx < diffContext {
			start--
			ctx++
		}
		h := diffHunk{beforeStart: beforeLine - ctx, afterStart: afterLine - ctx}

		// Extend until a gap of unchanged lines larger than 2*context.
		end := i
		lastChange := i
		for end < len(ops) {
			if ops[end].kind != ' ' {
				lastChange = end
			} else if end-lastChange > 2*diffContext {
				break
			}
			end++
		}
		tail := min(lastChange+diffContext+1, end)

		h.ops = ops[start:tail]
		for _, op := range h.ops {
			switch op.kind {
			case ' ':
				h.beforeCount++
				h.afterCount++
			case '-':
				h.beforeCount++
			case '+':
				h.afterCount++
			}
		}
		hunks = append(hunks, h)

		for ; i < tail; i++ {
			switch ops[i].kind {
			case ' ':
				beforeLine++
				afterLine++
			case '-':
				beforeLine++
			case '+':
				afterLine++
			}
		}
	}
	return hunks
}
