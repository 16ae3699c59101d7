package reformat

import (
	"container/heap"
	"fmt"
	"strings"

	"pyfmt/internal/logical"
	"pyfmt/internal/style"
	"pyfmt/internal/token"
)

// Engine-level costs, distinct from the boundary penalties the annotation
// pass assigns. linePenalty biases the search toward the fewest physical
// lines among otherwise equal layouts; the overflow costs make exceeding the
// column limit worse than any ordinary split but cheaper than splitting an
// unbreakable boundary.
const (
	linePenalty     uint64 = 1_000
	overflowBase    uint64 = 10_000
	overflowPerChar uint64 = 5_000
)

// Decision is the choice made at one inter-token boundary.
type Decision struct {
	Break bool
	// Indent is the column a broken continuation line starts at.
	Indent int
}

// Result is the winning decision chain for one logical line.
type Result struct {
	// Decisions[i] applies to the boundary before token i; index 0 is
	// unused since nothing precedes the first token.
	Decisions []Decision
	// Overflow reports that some physical line exceeds the column limit
	// because every break that could have prevented it was forbidden.
	// This is an accepted outcome, not a failure.
	Overflow bool
	Penalty  uint64
}

// frame tracks one open bracket during the search. align is the column just
// after the bracket; hang is the fallback indent used once a break lands
// directly after the bracket; lineIndent is the indent of the physical line
// the bracket was opened on, where a hanging closing bracket returns to.
type frame struct {
	align      int
	hang       int
	lineIndent int
	broken     bool
}

type pathNode struct {
	parent *pathNode
	brk    bool
	indent int
}

type searchState struct {
	index     int // next token to place
	column    int
	lineStart int
	stack     []frame
	penalty   uint64
	breaks    int
	overflow  bool
	path      *pathNode
	seq       uint64
}

// stateQueue is a min-heap ordered by (penalty, breaks, seq). Break
// successors are enqueued before NoBreak ones, so the seq tiebreak realizes
// the deterministic break-first lexicographic preference.
type stateQueue []*searchState

func (q stateQueue) Len() int { return len(q) }
func (q stateQueue) Less(i, j int) bool {
	if q[i].penalty != q[j].penalty {
		return q[i].penalty < q[j].penalty
	}
	if q[i].breaks != q[j].breaks {
		return q[i].breaks < q[j].breaks
	}
	return q[i].seq < q[j].seq
}
func (q stateQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *stateQueue) Push(x any) { *q = append(*q, x.(*searchState)) }
func (q *stateQueue) Pop() any {
	old := *q
	n := len(old)
	s := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return s
}

type seen struct {
	penalty uint64
	breaks  int
}

// searcher owns the worklist and memo table for one logical line.
type searcher struct {
	toks    []token.Token
	lineIdx int
	st      style.Options
	base    int

	queue   stateQueue
	visited map[string]seen
	seq     uint64
}

// Search computes the minimum-penalty break/no-break assignment for one
// logical line. It is a best-first search over (token index, bracket stack,
// column) states with deduplication, so the decision DAG is explored without
// recursion and without revisiting dominated states.
func Search(line *logical.Line, lineIdx int, st style.Options) (Result, error) {
	toks := line.Tokens
	if len(toks) == 0 {
		return Result{}, nil
	}
	if err := validate(toks, lineIdx); err != nil {
		return Result{}, err
	}

	s := &searcher{
		toks:    toks,
		lineIdx: lineIdx,
		st:      st,
		base:    line.Depth * st.IndentWidth,
		visited: make(map[string]seen),
	}
	heap.Init(&s.queue)
	s.push(s.initial())

	for s.queue.Len() > 0 {
		cur := heap.Pop(&s.queue).(*searchState)
		if cur.index == len(toks) {
			return s.finish(cur), nil
		}
		s.expand(cur)
	}

	// Unreachable for validated input: NoBreak is always a legal move.
	return Result{}, contractErr(lineIdx, 0, "search exhausted without terminal state")
}

// validate enforces the upstream contract before any state is explored:
// bracket deltas must balance and break flags must not conflict.
func validate(toks []token.Token, lineIdx int) error {
	depth := 0
	for i := range toks {
		t := &toks[i]
		if t.MustBreakBefore && t.MustNotBreakBefore {
			return contractErr(lineIdx, i, "conflicting break flags")
		}
		depth += int(t.BracketDelta)
		if depth < 0 {
			return contractErr(lineIdx, i, "bracket depth went negative")
		}
	}
	if depth != 0 {
		return contractErr(lineIdx, len(toks)-1, "unbalanced brackets at end of line (depth %d)", depth)
	}
	return nil
}

func (s *searcher) initial() *searchState {
	first := &s.toks[0]
	st := &searchState{
		index:     1,
		lineStart: s.base,
	}
	end := s.base + first.Width
	if end > s.st.ColumnLimit {
		st.penalty += overflowBase + overflowPerChar*uint64(end-s.st.ColumnLimit)
		st.overflow = true
	}
	st.column = advance(s.base, first)
	st.stack = pushFrame(nil, first, st.column, st.lineStart, s.st)
	st.path = &pathNode{}
	return st
}

func (s *searcher) expand(cur *searchState) {
	tok := &s.toks[cur.index]
	prev := &s.toks[cur.index-1]

	if !tok.MustNotBreakBefore {
		s.push(s.place(cur, tok, prev, true))
	}
	if !tok.MustBreakBefore {
		s.push(s.place(cur, tok, prev, false))
	}
}

// place computes the successor state for one Break/NoBreak choice.
func (s *searcher) place(cur *searchState, tok, prev *token.Token, brk bool) *searchState {
	next := &searchState{
		index:     cur.index + 1,
		lineStart: cur.lineStart,
		stack:     cur.stack,
		penalty:   cur.penalty,
		breaks:    cur.breaks,
		overflow:  cur.overflow,
	}

	var startCol int
	if brk {
		stack := cloneFrames(cur.stack)
		if prev.BracketDelta > 0 && len(stack) > 0 {
			// Breaking right after an opening bracket switches the
			// bracket to hanging indentation for the rest of its life.
			stack[len(stack)-1].broken = true
		}
		next.stack = stack
		startCol = breakIndent(stack, tok, s.base, s.st)
		next.lineStart = startCol
		next.penalty += uint64(tok.SplitPenalty) + linePenalty
		next.breaks = cur.breaks + 1
	} else {
		startCol = cur.column + spaceBetween(prev, tok)
	}

	end := startCol + tok.Width
	if end > s.st.ColumnLimit {
		next.penalty += overflowBase + overflowPerChar*uint64(end-s.st.ColumnLimit)
		next.overflow = true
	}

	next.column = advance(startCol, tok)
	next.stack = applyDelta(next.stack, tok, next.column, next.lineStart, s.st)
	next.path = &pathNode{parent: cur.path, brk: brk, indent: startCol}
	return next
}

func (s *searcher) push(st *searchState) {
	key := stateKey(st)
	if old, ok := s.visited[key]; ok {
		if old.penalty < st.penalty || (old.penalty == st.penalty && old.breaks <= st.breaks) {
			return
		}
	}
	s.visited[key] = seen{penalty: st.penalty, breaks: st.breaks}
	st.seq = s.seq
	s.seq++
	heap.Push(&s.queue, st)
}

func (s *searcher) finish(terminal *searchState) Result {
	n := len(s.toks)
	decisions := make([]Decision, n)
	node := terminal.path
	for i := n - 1; i >= 1; i-- {
		decisions[i] = Decision{Break: node.brk, Indent: node.indent}
		node = node.parent
	}
	return Result{
		Decisions: decisions,
		Overflow:  terminal.overflow,
		Penalty:   terminal.penalty,
	}
}

// breakIndent computes the continuation indent for a line starting with tok.
func breakIndent(stack []frame, tok *token.Token, base int, st style.Options) int {
	if len(stack) == 0 {
		return base + st.ContinuationIndent
	}
	top := &stack[len(stack)-1]
	if tok.BracketDelta < 0 {
		if top.broken {
			return top.lineIndent
		}
		return top.align
	}
	if top.broken {
		return top.hang
	}
	return top.align
}

// advance returns the column after placing tok at startCol. Multi-line
// tokens are copied verbatim, so the cursor lands after their last physical
// line instead.
func advance(startCol int, tok *token.Token) int {
	if tok.IsMultiline() {
		return tok.TailWidth
	}
	return startCol + tok.Width
}

func applyDelta(stack []frame, tok *token.Token, column, lineStart int, st style.Options) []frame {
	switch {
	case tok.BracketDelta > 0:
		return pushFrame(stack, tok, column, lineStart, st)
	case tok.BracketDelta < 0:
		// Balance was validated up front, so the stack is never empty.
		return stack[:len(stack)-1]
	default:
		return stack
	}
}

func pushFrame(stack []frame, tok *token.Token, column, lineStart int, st style.Options) []frame {
	if tok.BracketDelta <= 0 {
		return stack
	}
	out := make([]frame, len(stack), len(stack)+1)
	copy(out, stack)
	return append(out, frame{
		align:      column,
		hang:       lineStart + st.ContinuationIndent,
		lineIndent: lineStart,
	})
}

func cloneFrames(stack []frame) []frame {
	out := make([]frame, len(stack))
	copy(out, stack)
	return out
}

func stateKey(st *searchState) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d|%d|%d", st.index, st.column, st.lineStart)
	for _, f := range st.stack {
		fmt.Fprintf(&b, "|%d,%d,%d,%t", f.align, f.hang, f.lineIndent, f.broken)
	}
	return b.String()
}
