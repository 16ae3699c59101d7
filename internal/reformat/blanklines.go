package reformat

import (
	"pyfmt/internal/logical"
	"pyfmt/internal/style"
	"pyfmt/internal/token"
)

// blankContext is the small running context the driver threads between
// logical lines; the blank-line policy is a pure function of it and the
// current line.
type blankContext struct {
	started bool
	// prevKind/prevDepth describe the previously emitted line.
	prevKind  logical.LineKind
	prevDepth int
	// prevDocOwner is the suite kind a preceding docstring belonged to.
	prevDocOwner logical.LineKind
	// prevOpensSuite is true when the previous line was a block header
	// (class, def, if, for, while, try, with, ...), recognized by its
	// trailing colon.
	prevOpensSuite bool
	// topLevelWasDef is true while the innermost depth-0 construct above
	// the cursor is a class or function definition.
	topLevelWasDef bool
}

func (ctx *blankContext) observe(line *logical.Line) {
	ctx.started = true
	ctx.prevKind = line.Kind
	ctx.prevDepth = line.Depth
	ctx.prevDocOwner = line.DocOwner
	last := line.Last()
	ctx.prevOpensSuite = last != nil && last.Kind == token.Colon
	if line.Depth == 0 && line.Kind != logical.KindComment {
		ctx.topLevelWasDef = line.IsDef() || line.Kind == logical.KindDecorator
	}
}

// blankLines decides how many blank lines precede the current logical line.
// Required counts coming from the policy are lower bounds; blank lines the
// input already had are preserved on top of them up to the style's cap, and
// never invented where neither the input nor the policy asks for them.
func blankLines(ctx *blankContext, cur *logical.Line, st style.Options) int {
	if !ctx.started {
		return 0
	}

	// A decorator glues to what follows it.
	if ctx.prevKind == logical.KindDecorator {
		return 0
	}

	// Never a blank line before a docstring.
	if cur.Kind == logical.KindDocstring {
		return 0
	}

	preserved := cur.BlanksBefore
	if cap := st.MaxBlanksAt(cur.Depth); preserved > cap {
		preserved = cap
	}

	// The first statement of a freshly opened suite starts right under its
	// header; only a class header followed by a nested def or decorator
	// forces one blank line. Blanks the input had are still preserved.
	if suiteOpens(ctx, cur) {
		required := 0
		if ctx.prevKind == logical.KindClassDef &&
			(cur.IsDef() || cur.Kind == logical.KindDecorator) {
			required = 1
		}
		if required > preserved {
			return required
		}
		return preserved
	}

	required := 0
	switch {
	case cur.IsDef() || cur.Kind == logical.KindDecorator:
		if cur.Depth == 0 {
			required = st.BlankLinesAroundTopLevel
		} else {
			required = 1
		}

	case ctx.prevKind == logical.KindDocstring && ctx.prevDocOwner == logical.KindClassDef &&
		cur.Kind != logical.KindComment:
		// A class docstring is followed by a blank line unless a
		// comment comes next.
		required = 1

	case cur.Depth == 0 && cur.Kind != logical.KindComment &&
		ctx.prevDepth > 0 && ctx.topLevelWasDef:
		// Returning to module level after a def/class body.
		required = st.BlankLinesAroundTopLevel
	}

	if required > preserved {
		return required
	}
	return preserved
}

// suiteOpens reports whether cur is the first statement of the suite the
// previous line's header opened.
func suiteOpens(ctx *blankContext, cur *logical.Line) bool {
	return ctx.prevOpensSuite && cur.Depth == ctx.prevDepth+1
}
