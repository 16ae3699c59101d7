package lexer

import (
	"fmt"
	"unicode/utf8"

	"fortio.org/safecast"
)

// ASCII fast paths for identifiers; non-ASCII falls through to bumpRune.
func isIdentStartByte(b byte) bool {
	return b == '_' || (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

func isIdentContinueByte(b byte) bool {
	return isIdentStartByte(b) || (b >= '0' && b <= '9')
}

func isDec(b byte) bool { return b >= '0' && b <= '9' }

func isHex(b byte) bool {
	return (b >= '0' && b <= '9') ||
		(b >= 'a' && b <= 'f') ||
		(b >= 'A' && b <= 'F')
}

// bumpRune advances past one UTF-8 rune.
func (lx *Lexer) bumpRune() {
	_, sz := utf8.DecodeRune(lx.file.Content[lx.cursor.Off:])
	if sz == 0 {
		return
	}
	usz, err := safecast.Conv[uint32](sz)
	if err != nil {
		panic(fmt.Errorf("bumpRune overflow: %w", err))
	}
	lx.cursor.Off += usz
}

// try3 and try2 greedily consume a fixed byte sequence when it matches.
func (lx *Lexer) try3(a, b, c byte) bool {
	if lx.cursor.PeekAt(0) != a || lx.cursor.PeekAt(1) != b || lx.cursor.PeekAt(2) != c {
		return false
	}
	if lx.cursor.Off+2 >= lx.cursor.Limit {
		return false
	}
	lx.cursor.Bump()
	lx.cursor.Bump()
	lx.cursor.Bump()
	return true
}

func (lx *Lexer) try2(a, b byte) bool {
	b0, b1, ok := lx.cursor.Peek2()
	if !ok || b0 != a || b1 != b {
		return false
	}
	lx.cursor.Bump()
	lx.cursor.Bump()
	return true
}
