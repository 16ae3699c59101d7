package logical

import (
	"pyfmt/internal/diag"
	"pyfmt/internal/source"
	"pyfmt/internal/token"
)

// Build groups a flat token stream into logical lines: one per statement,
// with comments spliced onto the line they belong to, indentation columns
// resolved to nesting depths, and one-line compound statements split into a
// header line plus body lines.
//
// Every comment of the input ends up either in a line's Leading block or as
// some token's Trailing comment; nothing is dropped.
func Build(file *source.File, toks []token.Token, rep diag.Reporter) []Line {
	b := &builder{
		file:  file,
		rep:   rep,
		stack: []int{0},
	}
	var seg []token.Token
	for _, t := range toks {
		switch t.Kind {
		case token.Newline, token.EOF:
			b.segment(seg)
			seg = nil
		default:
			seg = append(seg, t)
		}
	}
	return b.lines
}

type builder struct {
	file  *source.File
	rep   diag.Reporter
	lines []Line
	stack []int // indentation columns, innermost last

	prevEndLine int      // physical line the previous logical line ended on
	lastKind    LineKind // kind of the last emitted statement (comments skipped)
	lastDepth   int
	sawStmt     bool
}

// segment processes the tokens between two logical newlines.
func (b *builder) segment(seg []token.Token) {
	if len(seg) == 0 {
		return
	}

	// Comments before the first code token sit on their own lines.
	split := 0
	for split < len(seg) && seg[split].Kind == token.CommentTok {
		split++
	}
	leading, code := seg[:split], seg[split:]

	groups := b.groupComments(leading)

	if len(code) == 0 {
		for _, g := range groups {
			b.emitCommentLine(g)
		}
		return
	}

	// The last comment group attaches to the statement when nothing blank
	// separates them; earlier groups stand alone.
	var attached []token.Comment
	if len(groups) > 0 {
		lastGroup := groups[len(groups)-1]
		if b.lineOf(code[0].Span.Start)-lastGroup.endLine == 1 {
			attached = lastGroup.comments
			groups = groups[:len(groups)-1]
		}
	}
	for _, g := range groups {
		b.emitCommentLine(g)
	}

	stmt := b.splice(code)
	if len(stmt) == 0 {
		return
	}

	col := b.colOf(stmt[0])
	sp := stmt[0].Span.Cover(stmt[len(stmt)-1].Span)
	depth := b.updateIndent(col, sp)

	header, bodies, bodyDelta := splitCompound(stmt)
	b.emitStatement(header, depth, attached)
	for _, body := range bodies {
		b.emitStatement(body, depth+bodyDelta, nil)
	}
}

// splice attaches interior comment tokens to the preceding code token and
// returns the remaining code tokens.
func (b *builder) splice(code []token.Token) []token.Token {
	out := make([]token.Token, 0, len(code))
	for _, t := range code {
		if t.Kind == token.CommentTok {
			if len(out) == 0 {
				// Cannot happen: leading comments were split off.
				continue
			}
			prev := &out[len(out)-1]
			prev.Trailing = &token.Comment{
				Text: t.Text,
				Pos:  token.CommentTrailing,
				Col:  b.colOf(t),
			}
			continue
		}
		out = append(out, t)
	}
	return out
}

type commentGroup struct {
	comments  []token.Comment
	startLine int
	endLine   int
	col       int
}

// groupComments splits consecutive own-line comments into blocks separated
// by blank lines.
func (b *builder) groupComments(toks []token.Token) []commentGroup {
	var groups []commentGroup
	for _, t := range toks {
		line := b.lineOf(t.Span.Start)
		c := token.Comment{Text: t.Text, Pos: token.CommentOwnLine, Col: b.colOf(t)}
		if n := len(groups); n > 0 && line-groups[n-1].endLine == 1 {
			groups[n-1].comments = append(groups[n-1].comments, c)
			groups[n-1].endLine = line
			continue
		}
		groups = append(groups, commentGroup{
			comments:  []token.Comment{c},
			startLine: line,
			endLine:   line,
			col:       c.Col,
		})
	}
	return groups
}

func (b *builder) emitCommentLine(g commentGroup) {
	depth := b.depthFor(g.col)
	b.lines = append(b.lines, Line{
		Leading:      g.comments,
		Depth:        depth,
		Kind:         KindComment,
		BlanksBefore: b.blanksBefore(g.startLine),
	})
	b.prevEndLine = g.endLine
}

func (b *builder) emitStatement(stmt []token.Token, depth int, attached []token.Comment) {
	if len(stmt) == 0 {
		return
	}

	kind := classify(stmt)
	docOwner := KindPlain
	if kind == KindPlain && b.isDocstring(stmt, depth) {
		kind = KindDocstring
		if b.sawStmt {
			docOwner = b.lastKind
		}
		stmt[0].Subtype = token.SubtypeDocstring
	}

	firstLine := b.lineOf(stmt[0].Span.Start)
	if len(attached) > 0 {
		firstLine -= len(attached)
	}
	last := stmt[len(stmt)-1]
	endLine := b.lineOf(last.Span.End - 1)

	b.lines = append(b.lines, Line{
		Tokens:       stmt,
		Depth:        depth,
		Leading:      attached,
		Kind:         kind,
		DocOwner:     docOwner,
		BlanksBefore: b.blanksBefore(firstLine),
	})
	b.prevEndLine = endLine
	b.lastKind = kind
	b.lastDepth = depth
	b.sawStmt = true
}

// isDocstring reports whether a single string statement opens the suite of
// the previously emitted header, or the module itself.
func (b *builder) isDocstring(stmt []token.Token, depth int) bool {
	if len(stmt) != 1 || stmt[0].Kind != token.String {
		return false
	}
	if !b.sawStmt {
		return depth == 0
	}
	if b.lastKind == KindClassDef || b.lastKind == KindFuncDef {
		return depth == b.lastDepth+1
	}
	return false
}

func (b *builder) blanksBefore(firstLine int) int {
	if b.prevEndLine == 0 {
		return 0
	}
	n := firstLine - b.prevEndLine - 1
	if n < 0 {
		return 0
	}
	return n
}

// updateIndent maps an indentation column to a nesting depth, maintaining
// the indent stack as suites open and close.
func (b *builder) updateIndent(col int, sp source.Span) int {
	top := b.stack[len(b.stack)-1]
	switch {
	case col > top:
		b.stack = append(b.stack, col)
	case col < top:
		for len(b.stack) > 1 && b.stack[len(b.stack)-1] > col {
			b.stack = b.stack[:len(b.stack)-1]
		}
		if b.stack[len(b.stack)-1] != col {
			if b.rep != nil {
				b.rep.Report(diag.LexBadIndent, diag.SevWarning, sp, "dedent does not match any outer indentation level")
			}
			b.stack = append(b.stack, col)
		}
	}
	return len(b.stack) - 1
}

// depthFor resolves a column against the current indent stack without
// changing it. Used for standalone comment lines.
func (b *builder) depthFor(col int) int {
	depth := 0
	for i := 1; i < len(b.stack); i++ {
		if b.stack[i] > col {
			break
		}
		depth = i
	}
	return depth
}

func (b *builder) lineOf(off uint32) int {
	return int(b.file.PosOf(off).Line)
}

func (b *builder) colOf(t token.Token) int {
	return int(b.file.PosOf(t.Span.Start).Col) - 1
}

func classify(stmt []token.Token) LineKind {
	switch stmt[0].Kind {
	case token.At:
		return KindDecorator
	case token.KwClass:
		return KindClassDef
	case token.KwDef:
		return KindFuncDef
	case token.KwAsync:
		if len(stmt) > 1 && stmt[1].Kind == token.KwDef {
			return KindFuncDef
		}
		return KindPlain
	case token.KwImport, token.KwFrom:
		return KindImport
	default:
		return KindPlain
	}
}

var compoundKw = map[token.Kind]bool{
	token.KwIf:      true,
	token.KwElif:    true,
	token.KwElse:    true,
	token.KwFor:     true,
	token.KwWhile:   true,
	token.KwTry:     true,
	token.KwExcept:  true,
	token.KwFinally: true,
	token.KwWith:    true,
	token.KwDef:     true,
	token.KwClass:   true,
}

// splitCompound separates a one-line compound statement into its header and
// the simple statements that followed the header colon. Top-level semicolons
// split simple statements too; the semicolons themselves are dropped.
// bodyDelta is the depth offset of the body statements relative to the first:
// 1 when they form the suite of a compound header, 0 for semicolon siblings.
func splitCompound(stmt []token.Token) (header []token.Token, bodies [][]token.Token, bodyDelta int) {
	first := stmt[0].Kind
	isCompound := compoundKw[first] ||
		(first == token.KwAsync && len(stmt) > 1 && (stmt[1].Kind == token.KwDef || stmt[1].Kind == token.KwFor || stmt[1].Kind == token.KwWith))

	if !isCompound {
		parts := splitSemicolons(stmt)
		if len(parts) == 0 {
			return nil, nil, 0
		}
		return parts[0], parts[1:], 0
	}

	colon := headerColon(stmt)
	if colon < 0 || colon == len(stmt)-1 {
		return stmt, nil, 0
	}
	return stmt[:colon+1], splitSemicolons(stmt[colon+1:]), 1
}

// headerColon finds the ':' ending a compound header: the first colon at
// bracket depth zero that does not belong to a lambda.
func headerColon(stmt []token.Token) int {
	depth := 0
	lambdas := 0
	for i, t := range stmt {
		switch {
		case t.IsOpenBracket():
			depth++
		case t.IsCloseBracket():
			depth--
		case t.Kind == token.KwLambda && depth == 0:
			lambdas++
		case t.Kind == token.Colon && depth == 0:
			if lambdas > 0 {
				lambdas--
				continue
			}
			return i
		}
	}
	return -1
}

func splitSemicolons(stmt []token.Token) [][]token.Token {
	var parts [][]token.Token
	var cur []token.Token
	depth := 0
	for _, t := range stmt {
		switch {
		case t.IsOpenBracket():
			depth++
		case t.IsCloseBracket():
			depth--
		case t.Kind == token.Semicolon && depth == 0:
			if len(cur) > 0 {
				parts = append(parts, cur)
				cur = nil
			}
			continue
		}
		cur = append(cur, t)
	}
	if len(cur) > 0 {
		parts = append(parts, cur)
	}
	return parts
}
