package reformat

// writer accumulates formatted output. It only ever appends; the engine
// computes all placement up front, so no backtracking over the buffer is
// needed.
type writer struct {
	buf []byte
}

func newWriter(capacity int) *writer {
	return &writer{buf: make([]byte, 0, capacity)}
}

func (w *writer) bytes() []byte {
	return w.buf
}

func (w *writer) write(s string) {
	w.buf = append(w.buf, s...)
}

func (w *writer) newline() {
	w.buf = append(w.buf, '\n')
}

func (w *writer) blankLines(n int) {
	for i := 0; i < n; i++ {
		w.newline()
	}
}

func (w *writer) spaces(n int) {
	for i := 0; i < n; i++ {
		w.buf = append(w.buf, ' ')
	}
}

// line emits one full physical line at the given indentation.
func (w *writer) line(indent int, text string) {
	w.spaces(indent)
	w.write(text)
	w.newline()
}
