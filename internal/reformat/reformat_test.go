package reformat_test

import (
	"context"
	"strings"
	"testing"

	"pyfmt/internal/diag"
	"pyfmt/internal/lexer"
	"pyfmt/internal/logical"
	"pyfmt/internal/penalty"
	"pyfmt/internal/reformat"
	"pyfmt/internal/source"
	"pyfmt/internal/style"
)

// format runs the full pipeline over one buffer.
func format(t *testing.T, input string, st style.Options) string {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.py", []byte(input)))
	bag := diag.NewBag(32)
	rep := diag.BagReporter{Bag: bag}
	toks := lexer.Tokenize(file, lexer.Options{Reporter: rep})
	if bag.HasErrors() {
		t.Fatalf("lexing failed for %q", input)
	}
	lines := logical.Build(file, toks, rep)
	penalty.Annotate(lines)
	out, err := reformat.Reformat(lines, st)
	if err != nil {
		t.Fatalf("Reformat(%q): %v", input, err)
	}
	return string(out)
}

func expectFormat(t *testing.T, input, want string, st style.Options) {
	t.Helper()
	if got := format(t, input, st); got != want {
		t.Errorf("input:\n%s\ngot:\n%s\nwant:\n%s", input, got, want)
	}
}

func TestSpacingNormalization(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"assignment", "x=1\n", "x = 1\n"},
		{"call", "print ( 'hi' )\n", "print('hi')\n"},
		{"varargs", "f( * varargs )\n", "f(*varargs)\n"},
		{"kwargs", "f( ** kwargs )\n", "f(**kwargs)\n"},
		{"tuple with trailing comma", "( 1, )\n", "(1,)\n"},
		{"keyword arguments", "f(a = 1, b = 2)\n", "f(a=1, b=2)\n"},
		{"dict literal", "d = { 'a' : 1 }\n", "d = {'a': 1}\n"},
		{"slice", "x = a[1 : 2]\n", "x = a[1:2]\n"},
		{"slice with arithmetic", "a[ 42-x : y**3 ]\n", "a[42 - x:y ** 3]\n"},
		{"unary chain", "x = 37*-+2\n", "x = 37 * -+2\n"},
		{"attribute chain", "a . b . c ( )\n", "a.b.c()\n"},
		{"relative import bare", "from . import x\n", "from . import x\n"},
		{"relative import module", "from .mod import y\n", "from .mod import y\n"},
		{"relative import parents", "from ..pkg.mod import z\n", "from ..pkg.mod import z\n"},
		{"chained subscript call", "bbbbbbbb . ccccccccc ( ) [ 42 ] ( a , 2 )\n",
			"bbbbbbbb.ccccccccc()[42](a, 2)\n"},
		{"return annotation", "def f(x) ->int:\n  pass\n", "def f(x) -> int:\n    pass\n"},
		{"walrus", "if (n:=10)>5:\n  pass\n", "if (n := 10) > 5:\n    pass\n"},
		{"decorator", "@ deco\ndef f():\n  pass\n", "@deco\ndef f():\n    pass\n"},
		{"comparison", "x = a<=b\n", "x = a <= b\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectFormat(t, tt.input, tt.want, style.PEP8())
		})
	}
}

func TestIndentationFollowsDepth(t *testing.T) {
	input := "if a+b:\n  pass\n"
	expectFormat(t, input, "if a + b:\n    pass\n", style.PEP8())

	google := style.Google()
	expectFormat(t, input, "if a + b:\n  pass\n", google)
}

func TestCompoundStatementSplit(t *testing.T) {
	expectFormat(t, "if x: y = 1\n", "if x:\n    y = 1\n", style.PEP8())
	expectFormat(t, "a = 1; b = 2\n", "a = 1\nb = 2\n", style.PEP8())
}

func TestTwoBlankLinesBetweenTopLevelDefs(t *testing.T) {
	input := "def a():\n    pass\ndef b():\n    pass\n"
	want := "def a():\n    pass\n\n\ndef b():\n    pass\n"
	expectFormat(t, input, want, style.PEP8())

	// One intervening blank in the input still normalizes to two.
	input = "def a():\n  pass\n\ndef b():\n  pass\n"
	want = "def a():\n  pass\n\n\ndef b():\n  pass\n"
	expectFormat(t, input, want, style.Google())
}

func TestTopLevelDefAfterPlainStatement(t *testing.T) {
	input := "x = 1\ndef f():\n    pass\n"
	want := "x = 1\n\n\ndef f():\n    pass\n"
	expectFormat(t, input, want, style.PEP8())
}

func TestExcessBlankLinesCapped(t *testing.T) {
	input := "x = 1\n\n\n\n\ny = 2\n"
	want := "x = 1\n\n\ny = 2\n"
	expectFormat(t, input, want, style.PEP8())
}

func TestBlankLinesNeverInvented(t *testing.T) {
	input := "x = 1\ny = 2\nz = 3\n"
	expectFormat(t, input, input, style.PEP8())
}

func TestNestedMethodsSeparatedByOneBlank(t *testing.T) {
	input := "class A:\n    def f(self):\n        pass\n    def g(self):\n        pass\n"
	want := "class A:\n\n    def f(self):\n        pass\n\n    def g(self):\n        pass\n"
	expectFormat(t, input, want, style.PEP8())
}

func TestNoBlankForcedAtSuiteStart(t *testing.T) {
	// Only a class header forces a blank before a nested def; any other
	// freshly opened block starts right under its header.
	input := "if x:\n    def f():\n        pass\n"
	expectFormat(t, input, input, style.PEP8())

	input = "def outer():\n    def inner():\n        pass\n"
	expectFormat(t, input, input, style.PEP8())
}

func TestBlanksPreservedAtSuiteStart(t *testing.T) {
	input := "if x:\n\n    y = 1\n"
	expectFormat(t, input, input, style.PEP8())
}

func TestDecoratorGluesToDef(t *testing.T) {
	input := "@deco\n\n\ndef f():\n    pass\n"
	want := "@deco\ndef f():\n    pass\n"
	expectFormat(t, input, want, style.PEP8())
}

func TestClassDocstringFollowedByBlank(t *testing.T) {
	input := "class A:\n    \"\"\"Doc.\"\"\"\n    def f(self):\n        pass\n"
	want := "class A:\n    \"\"\"Doc.\"\"\"\n\n    def f(self):\n        pass\n"
	expectFormat(t, input, want, style.PEP8())
}

func TestModuleDocstringUnchanged(t *testing.T) {
	input := "\"\"\"Module doc.\"\"\"\nimport os\n"
	expectFormat(t, input, input, style.PEP8())
}

func TestCommentBeforeDefCountsAsTheDef(t *testing.T) {
	input := "x = 1\n# doc\ndef f():\n    pass\n"
	want := "x = 1\n\n\n# doc\ndef f():\n    pass\n"
	expectFormat(t, input, want, style.PEP8())
}

func TestStandaloneCommentKeepsItsBlanks(t *testing.T) {
	input := "# block\n\nx = 1\n"
	expectFormat(t, input, input, style.PEP8())
}

func TestTrailingCommentSeparatedByTwoSpaces(t *testing.T) {
	input := "x = 1 # note\n"
	want := "x = 1  # note\n"
	expectFormat(t, input, want, style.PEP8())
}

func TestInteriorCommentForcesBreak(t *testing.T) {
	input := "def f(  # note\n    a):\n    pass\n"
	want := "def f(  # note\n    a):\n    pass\n"
	expectFormat(t, input, want, style.PEP8())
}

func TestCallSplitsAtCommas(t *testing.T) {
	st := style.PEP8()
	st.ColumnLimit = 20
	input := "foo(arg_one, arg_two, arg_three)\n"
	want := "foo(arg_one,\n    arg_two,\n    arg_three)\n"
	expectFormat(t, input, want, st)
}

func TestBreakBeforeOperator(t *testing.T) {
	st := style.PEP8()
	st.ColumnLimit = 16
	input := "x = aaaaaaaaaaaa + bbb\n"
	want := "x = aaaaaaaaaaaa\n    + bbb\n"
	expectFormat(t, input, want, st)
}

func TestShortLineStaysPut(t *testing.T) {
	input := "foo(a, b)\n"
	expectFormat(t, input, input, style.PEP8())
}

func TestOverlongLiteralOverflowsInPlace(t *testing.T) {
	literal := "'" + strings.Repeat("a", 100) + "'"
	input := "x = " + literal + "\n"
	expectFormat(t, input, input, style.PEP8())
}

func TestMultilineStringCopiedVerbatim(t *testing.T) {
	input := "x = \"\"\"one\ntwo\nthree\"\"\"\n"
	expectFormat(t, input, input, style.PEP8())
}

func TestIdempotence(t *testing.T) {
	corpus := []string{
		"x=1\n",
		"def f(a, b=2, *args, **kwargs):\n  return a\n",
		"class A:\n  \"\"\"Doc.\"\"\"\n  def f(self):\n    pass\n",
		"d = { 'a' : 1, 'b' : 2 }\n",
		"result = foo(arg_one, arg_two, arg_three)\n",
		"@deco\ndef g():\n  pass\n",
		"if x: y = 1\n",
	}
	for _, src := range corpus {
		once := format(t, src, style.PEP8())
		twice := format(t, once, style.PEP8())
		if once != twice {
			t.Errorf("not idempotent for %q:\nonce:\n%s\ntwice:\n%s", src, once, twice)
		}
	}
}

func TestTokenTextPreserved(t *testing.T) {
	input := "result = compute(value_a, value_b) + offset  # keep\n"
	out := format(t, input, style.PEP8())
	strip := func(s string) string {
		return strings.Map(func(r rune) rune {
			if r == ' ' || r == '\n' || r == '\t' {
				return -1
			}
			return r
		}, s)
	}
	if strip(out) != strip(input) {
		t.Errorf("token content changed:\nin:  %s\nout: %s", input, out)
	}
}

func TestColumnLimitRespected(t *testing.T) {
	st := style.PEP8()
	st.ColumnLimit = 30
	input := "value = function_name(first_argument, second_argument, third_argument)\n"
	out := format(t, input, st)
	for _, line := range strings.Split(strings.TrimSuffix(out, "\n"), "\n") {
		if len(line) > st.ColumnLimit {
			t.Errorf("line exceeds %d columns: %q", st.ColumnLimit, line)
		}
	}
}

func TestParallelMatchesSequential(t *testing.T) {
	input := strings.Repeat("def f(a, b):\n    return a + b\n\n\n", 8) + "x = f(1, 2)\n"
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.py", []byte(input)))
	bag := diag.NewBag(32)
	rep := diag.BagReporter{Bag: bag}
	toks := lexer.Tokenize(file, lexer.Options{Reporter: rep})
	lines := logical.Build(file, toks, rep)
	penalty.Annotate(lines)

	seq, err := reformat.Reformat(lines, style.PEP8())
	if err != nil {
		t.Fatal(err)
	}
	par, err := reformat.ReformatParallel(context.Background(), lines, style.PEP8(), 4)
	if err != nil {
		t.Fatal(err)
	}
	if string(seq) != string(par) {
		t.Error("parallel output differs from sequential output")
	}
}

func TestSearchReportsUnbalancedBrackets(t *testing.T) {
	line := buildLine(t, "f(a\n")
	// Drop the closing bracket's delta to violate the balance contract.
	for i := range line.Tokens {
		line.Tokens[i].BracketDelta = 0
	}
	line.Tokens[1].BracketDelta = 1

	_, err := reformat.Search(&line, 7, style.PEP8())
	if err == nil {
		t.Fatal("expected a contract error")
	}
	var cerr *reformat.ContractError
	if !asContractError(err, &cerr) {
		t.Fatalf("error type = %T, want *ContractError", err)
	}
	if cerr.LineIndex != 7 {
		t.Errorf("LineIndex = %d, want 7", cerr.LineIndex)
	}
}

func TestSearchReportsConflictingFlags(t *testing.T) {
	line := buildLine(t, "x = 1\n")
	line.Tokens[1].MustBreakBefore = true
	line.Tokens[1].MustNotBreakBefore = true

	_, err := reformat.Search(&line, 0, style.PEP8())
	if err == nil {
		t.Fatal("expected a contract error")
	}
}

func buildLine(t *testing.T, input string) logical.Line {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.py", []byte(input)))
	toks := lexer.Tokenize(file, lexer.Options{Reporter: diag.NopReporter{}})
	lines := logical.Build(file, toks, diag.NopReporter{})
	if len(lines) == 0 {
		t.Fatalf("no lines for %q", input)
	}
	penalty.Annotate(lines)
	return lines[0]
}

func asContractError(err error, target **reformat.ContractError) bool {
	ce, ok := err.(*reformat.ContractError)
	if ok {
		*target = ce
	}
	return ok
}
