// Package lexer implements the scenario language's token reader:
// readToken/readInt/readStr/readColor/readLabel. Unlike a lexer that
// tokenizes a whole typed source file up front into a slice of Token for
// a recursive-descent parser, the scenario language is read incrementally
// from the current script address one command at a time, so Reader
// exposes cursor-based "read the next thing" methods instead of a
// tokenize-everything pass — the same token vocabulary (identifiers,
// numbers, strings, punctuation) reworked for NScripter's line-oriented,
// comma-separated argument style.
package lexer

import (
	"fmt"
	"strings"
)

// VarEval is the callback surface Reader needs from the evaluator to
// resolve %N, $N, ?N[...], and alias operands while parsing an
// expression. The evaluator package implements this; Reader stays
// decoupled from vars.Store so it has no import-cycle back to eval.
type VarEval interface {
	IntSlot(n int) int32
	StrSlot(n int) string
	ArrayGet(no int, idx []int) (int32, error)
	NumAlias(name string) (int, bool)
	StrAlias(name string) (string, bool)
}

// Reader reads tokens from a byte slice starting at a cursor position.
// One Reader is created per command line by the evaluator.
type Reader struct {
	src    []byte
	pos    int
	vars   VarEval
	hasArg bool // whether the most recently consumed separator was a comma
}

// New creates a Reader over src (typically the remainder of the current
// script line) starting at position 0.
func New(src []byte, vars VarEval) *Reader {
	return &Reader{src: src, vars: vars}
}

// Pos returns the current cursor offset into src.
func (r *Reader) Pos() int { return r.pos }

func (r *Reader) peek() byte {
	if r.pos >= len(r.src) {
		return 0
	}
	return r.src[r.pos]
}

func (r *Reader) peekAt(off int) byte {
	if r.pos+off >= len(r.src) {
		return 0
	}
	return r.src[r.pos+off]
}

func (r *Reader) advance() byte {
	c := r.src[r.pos]
	r.pos++
	return c
}

func (r *Reader) atEnd() bool { return r.pos >= len(r.src) }

// skipSpace skips spaces and tabs (not newlines: newlines are significant).
func (r *Reader) skipSpace() {
	for !r.atEnd() && (r.peek() == ' ' || r.peek() == '\t') {
		r.pos++
	}
}

// skipCommas transparently consumes a single comma plus surrounding
// whitespace between arguments, recording whether one was found so
// HasMoreArgs can report it.
func (r *Reader) skipCommas() {
	r.skipSpace()
	r.hasArg = false
	if r.peek() == ',' {
		r.pos++
		r.hasArg = true
		r.skipSpace()
	}
}

// HasMoreArgs reflects whether the last separator consumed was a comma.
func (r *Reader) HasMoreArgs() bool { return r.hasArg }

// SkipCommas consumes transparent comma separators between arguments:
// commas between arguments are consumed transparently.
func (r *Reader) SkipCommas() { r.skipCommas() }

// PeekByte exposes the current lookahead byte (0 at EOF), for callers
// composing higher-level grammar (if/notif condition chains) on top of
// Reader's primitives.
func (r *Reader) PeekByte() byte { return r.peek() }

// Advance consumes and returns the current byte.
func (r *Reader) Advance() byte { return r.advance() }

// SkipSpace skips spaces and tabs.
func (r *Reader) SkipSpace() { r.skipSpace() }

// SkipToLineEnd advances the cursor to the next newline or EOF, without
// consuming the newline itself. Used by `if`/`notif` to discard the rest
// of a line when the condition is false.
func (r *Reader) SkipToLineEnd() {
	for !r.atEnd() && r.peek() != '\n' {
		r.pos++
	}
}

// RemainingLine returns the raw bytes from the cursor to the next newline
// or EOF (not consuming them), for capturing a gosub's argument text to
// push onto the getparam FIFO.
func (r *Reader) RemainingLine() []byte {
	start := r.pos
	end := start
	for end < len(r.src) && r.src[end] != '\n' {
		end++
	}
	return r.src[start:end]
}

// Seek moves the cursor to an absolute offset within src.
func (r *Reader) Seek(pos int) { r.pos = pos }

// AtLineEnd reports whether the cursor is at the end of the line/command
// (EOF, newline, or a bare ':' statement separator).
func (r *Reader) AtLineEnd() bool {
	r.skipSpace()
	return r.atEnd() || r.peek() == '\n' || r.peek() == ':'
}

// Token is a lightweight result for readToken: a command name, a label,
// or punctuation.
type Token struct {
	Kind  TokenKind
	Text  string // lower-cased command name, or label name without '*'
}

type TokenKind int

const (
	TokCommand TokenKind = iota
	TokLabel
	TokTilde   // '~'
	TokColon   // ':'
	TokNewline
	TokEOF
)

// ReadToken returns the next command name (lower-cased), a label, or
// punctuation, skipping whitespace and ';' comments.
func (r *Reader) ReadToken() (Token, error) {
	for {
		r.skipSpace()
		if r.atEnd() {
			return Token{Kind: TokEOF}, nil
		}
		switch r.peek() {
		case '\n':
			r.pos++
			return Token{Kind: TokNewline}, nil
		case ';':
			for !r.atEnd() && r.peek() != '\n' {
				r.pos++
			}
			continue
		case ':':
			r.pos++
			return Token{Kind: TokColon}, nil
		case '~':
			r.pos++
			return Token{Kind: TokTilde}, nil
		case '*':
			r.pos++
			start := r.pos
			for !r.atEnd() && isNameByte(r.peek()) {
				r.pos++
			}
			return Token{Kind: TokLabel, Text: string(r.src[start:r.pos])}, nil
		}
		start := r.pos
		for !r.atEnd() && isNameByte(r.peek()) {
			r.pos++
		}
		if r.pos == start {
			return Token{}, fmt.Errorf("unexpected character %q at offset %d", r.peek(), r.pos)
		}
		return Token{Kind: TokCommand, Text: strings.ToLower(string(r.src[start:r.pos]))}, nil
	}
}

func isNameByte(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
