/*
 * Selene
 *
 * Copyright 2020 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

/*
Package lexer implements the Selene tokenizer: a character stream to
token stream transducer with dedicated sub-states for template string
scanning and expression interpolation.

The state machine is a chain of stateFn values threaded through a
local loop - each state function scans one construct and returns the
next state - appending directly to a caller-owned token slice. There
are no goroutines or channels; tokenizing is fully synchronous.
*/
package lexer

import (
	"strings"

	"github.com/krotik/selene/config"
	"github.com/krotik/selene/token"
)

/*
templateCtx tracks one suspended string literal that is waiting for an
interpolated expression (delimited by the most recent unmatched `{`)
to finish.
*/
type templateCtx struct {
	delim      byte // '\'' or '"'; ignored when triple is true
	triple     bool
	braceDepth int
	hadInterp  bool
}

/*
lexer holds tokenizer state for a single Tokenize call.
*/
type lexer struct {
	src          []byte
	pos          int
	tokens       []token.Token
	ignoreErrors bool
	err          *Error
	tmplStack    []templateCtx
}

/*
Tokenize lexes src and appends the resulting tokens to dst, returning
the extended slice. dst may have spare capacity from a previous call;
Tokenize never reads dst's existing contents, only appends. When
ignoreErrors is true, unrecognized input produces an Err token and
scanning continues instead of aborting; the returned error is then
always nil.
*/
func Tokenize(src []byte, ignoreErrors bool, dst []token.Token) ([]token.Token, error) {
	l := &lexer{src: src, tokens: dst, ignoreErrors: ignoreErrors}

	l.skipShebang()

	for state := lexLineStart; state != nil; {
		state = state(l)
	}

	if l.err != nil {
		return l.tokens, l.err
	}
	return l.tokens, nil
}

type stateFn func(*lexer) stateFn

func (l *lexer) atEOF() bool {
	return l.pos >= len(l.src)
}

func (l *lexer) byteAt(offset int) byte {
	if l.pos+offset >= len(l.src) {
		return 0
	}
	return l.src[l.pos+offset]
}

func (l *lexer) emit(kind token.Kind, start, end int) {
	l.tokens = append(l.tokens, token.Token{Kind: kind, Start: start, End: end})
}

func (l *lexer) emitOp(op token.OpKind, start, end int) {
	l.tokens = append(l.tokens, token.Token{Kind: token.Operator, Op: op, Start: start, End: end})
}

func (l *lexer) emitIndent(count int, tabs bool) {
	v := count
	if tabs {
		v += token.IndentTabBase
	}
	l.tokens = append(l.tokens, token.Token{Kind: token.Indent, Start: l.pos, End: l.pos, Indent: v})
}

/*
fail records a lexical error. In strict mode it aborts tokenizing; in
ignoreErrors mode it emits an Err token covering at least one byte (so
scanning always makes progress) and resumes at the next token.
*/
func (l *lexer) fail(pos int, msg string) stateFn {
	if l.ignoreErrors {
		if l.pos <= pos {
			l.pos = pos + 1
		}
		l.emit(token.Err, pos, l.pos)
		if l.atEOF() {
			return nil
		}
		return lexToken
	}
	l.err = &Error{Pos: pos, Msg: msg}
	return nil
}

func (l *lexer) skipShebang() {
	if len(l.src) >= 2 && l.src[0] == '#' && l.src[1] == '!' {
		i := 2
		for i < len(l.src) && l.src[i] != '\n' {
			i++
		}
		if i < len(l.src) {
			i++ // consume the newline too
		}
		l.pos = i
	}
}

// State functions
// ===============

/*
lexLineStart scans the leading run of spaces or tabs at the start of a
physical line and emits exactly one Indent token for it (count 0 when
the line has no leading whitespace). Mixing spaces and tabs within a
single run is not rejected here - that is a parser concern, comparing
sibling indentation markers across lines - so the kind recorded is
simply whichever whitespace byte started the run.
*/
func lexLineStart(l *lexer) stateFn {
	if l.atEOF() {
		return nil
	}

	count := 0
	tabs := l.byteAt(0) == '\t'

	for {
		b := l.byteAt(0)
		if b == ' ' || b == '\t' {
			count++
			l.pos++
			continue
		}
		break
	}

	l.emitIndent(count, tabs)

	return lexToken
}

/*
lexToken is the main token dispatcher for the body of a line.
*/
func lexToken(l *lexer) stateFn {
	for {
		if l.atEOF() {
			return nil
		}

		b := l.byteAt(0)

		switch {
		case b == '\n':
			l.emit(token.NewLine, l.pos, l.pos+1)
			l.pos++
			return lexLineStart

		case b == ' ' || b == '\t' || b == '\r':
			l.pos++
			continue

		case b == '-' && l.byteAt(1) == '-':
			skipLineComment(l)
			continue

		case b == '\'' || b == '"':
			return lexStringStart(l, b)

		case b == '#' && isIdentByte(l.byteAt(1)):
			return lexSymbol(l)

		case isDigit(b):
			return lexNumber(l)

		case isIdentStart(b):
			return lexIdentOrKeyword(l)

		case b == '{':
			if n := len(l.tmplStack); n > 0 {
				l.tmplStack[n-1].braceDepth++
			}
			l.emit(token.LeftBrace, l.pos, l.pos+1)
			l.pos++
			continue

		case b == '}':
			if n := len(l.tmplStack); n > 0 && l.tmplStack[n-1].braceDepth > 0 {
				l.tmplStack[n-1].braceDepth--
				l.emit(token.RightBrace, l.pos, l.pos+1)
				l.pos++
				continue
			}
			if n := len(l.tmplStack); n > 0 {
				ctx := l.tmplStack[n-1]
				l.tmplStack = l.tmplStack[:n-1]
				l.emit(token.RightBrace, l.pos, l.pos+1)
				l.pos++
				return resumeTemplateString(l, ctx)
			}
			l.emit(token.RightBrace, l.pos, l.pos+1)
			l.pos++
			continue

		default:
			return lexOperatorOrPunct(l)
		}
	}
}

func skipLineComment(l *lexer) {
	for !l.atEOF() && l.byteAt(0) != '\n' {
		l.pos++
	}
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isIdentStart(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isIdentByte(b byte) bool {
	return isIdentStart(b) || isDigit(b) || b == '_'
}

func lexIdentOrKeyword(l *lexer) stateFn {
	start := l.pos
	l.pos++
	for isIdentByte(l.byteAt(0)) {
		l.pos++
	}

	word := string(l.src[start:l.pos])
	if kind, ok := token.KeywordTable[word]; ok {
		l.emit(kind, start, l.pos)
	} else {
		l.emit(token.Ident, start, l.pos)
	}

	return lexToken
}

func lexSymbol(l *lexer) stateFn {
	start := l.pos
	l.pos++ // consume '#'
	for isIdentByte(l.byteAt(0)) {
		l.pos++
	}
	l.emit(token.Symbol, start+1, l.pos)
	return lexToken
}

/*
lexNumber scans a decimal, hex/oct/binary, or rune-literal number
form.
*/
func lexNumber(l *lexer) stateFn {
	start := l.pos

	if l.byteAt(0) == '0' {
		switch l.byteAt(1) {
		case 'x', 'o', 'b':
			l.pos += 2
			for isHexDigit(l.byteAt(0)) {
				l.pos++
			}
			l.emit(token.NonDecimalInt, start, l.pos)
			return lexToken

		case 'u':
			if l.byteAt(2) == '\'' {
				return lexRuneLiteral(l, start)
			}
		}
	}

	l.pos++
	for isDigit(l.byteAt(0)) {
		l.pos++
	}

	if l.byteAt(0) == '.' && isDigit(l.byteAt(1)) {
		l.pos++
		for isDigit(l.byteAt(0)) {
			l.pos++
		}
	}

	if l.byteAt(0) == 'e' {
		save := l.pos
		l.pos++
		if l.byteAt(0) == '-' {
			l.pos++
		}
		if !isDigit(l.byteAt(0)) {
			return l.fail(save, "Invalid exponent in number literal")
		}
		for isDigit(l.byteAt(0)) {
			l.pos++
		}
	}

	l.emit(token.Number, start, l.pos)
	return lexToken
}

func isHexDigit(b byte) bool {
	return isDigit(b) || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

/*
lexRuneLiteral scans the 0u'...' UTF-8 rune literal form.
*/
func lexRuneLiteral(l *lexer, start int) stateFn {
	l.pos += 3 // consume "0u'"

	for {
		if l.atEOF() {
			return l.fail(start, "Unterminated rune literal")
		}
		b := l.byteAt(0)
		if b == '\\' {
			l.pos += 2
			continue
		}
		if b == '\'' {
			l.pos++
			break
		}
		l.pos++
	}

	l.emit(token.NonDecimalInt, start, l.pos)
	return lexToken
}

/*
lexStringStart classifies the opening delimiter (single quote, double
quote, or triple single quote) and begins scanning the literal body.
*/
func lexStringStart(l *lexer, quote byte) stateFn {
	triple := quote == '\'' && l.byteAt(1) == '\'' && l.byteAt(2) == '\''
	if triple {
		l.pos += 3
	} else {
		l.pos++
	}

	ctx := templateCtx{delim: quote, triple: triple}
	return scanTemplateBody(l, ctx)
}

/*
resumeTemplateString continues scanning a string literal whose
interpolated expression has just closed.
*/
func resumeTemplateString(l *lexer, ctx templateCtx) stateFn {
	return scanTemplateBody(l, ctx)
}

/*
scanTemplateBody scans from the current position - either right after
an opening delimiter, or right after a closing `}` - up to the next
`{`, the closing delimiter, or an error. It owns the segment-start /
interpolation bookkeeping for the template string lifecycle.
*/
func scanTemplateBody(l *lexer, ctx templateCtx) stateFn {
	segStart := l.pos

	for {
		if l.atEOF() {
			return l.fail(segStart, "Unexpected end while reading string value (unclosed quotes)")
		}

		b := l.byteAt(0)

		if b == '\\' {
			l.pos += 2
			continue
		}

		if b == '{' {
			if len(l.tmplStack) >= config.Int(config.MaxTemplateNesting) {
				return l.fail(l.pos, "Template string nesting too deep")
			}
			l.emit(token.TemplateString, segStart, l.pos)
			ctx.hadInterp = true
			ctx.braceDepth = 0
			l.tmplStack = append(l.tmplStack, ctx)
			l.emit(token.TemplateExprStart, l.pos, l.pos+1)
			l.pos++ // consume '{'
			return lexToken
		}

		if ctx.triple {
			if b == '\'' && l.byteAt(1) == '\'' && l.byteAt(2) == '\'' {
				kind := token.String
				if ctx.hadInterp {
					kind = token.TemplateString
				}
				l.emit(kind, segStart, l.pos)
				l.pos += 3
				return lexToken
			}
		} else {
			if b == '\n' {
				return l.fail(segStart, "Unexpected newline while reading string value")
			}
			if b == ctx.delim {
				kind := token.String
				if ctx.hadInterp {
					kind = token.TemplateString
				}
				l.emit(kind, segStart, l.pos)
				l.pos++
				return lexToken
			}
		}

		l.pos++
	}
}

/*
lexOperatorOrPunct matches the greedy two-character operator/
punctuation forms before falling back to a one-character match.
*/
func lexOperatorOrPunct(l *lexer) stateFn {
	start := l.pos

	if l.pos+1 < len(l.src) {
		two := string(l.src[l.pos : l.pos+2])
		if op, ok := token.OperatorTable[two]; ok && len(two) == 2 {
			l.emitOp(op, start, start+2)
			l.pos += 2
			return lexToken
		}
		if kind, ok := token.PunctuationTable[two]; ok && len(two) == 2 {
			l.emit(kind, start, start+2)
			l.pos += 2
			return lexToken
		}
	}

	one := string(l.src[l.pos : l.pos+1])
	if op, ok := token.OperatorTable[one]; ok {
		l.emitOp(op, start, start+1)
		l.pos++
		return lexToken
	}
	if kind, ok := token.PunctuationTable[one]; ok {
		l.emit(kind, start, start+1)
		l.pos++
		return lexToken
	}

	return l.fail(start, "Cannot parse character '"+escapeForMessage(one)+"'")
}

func escapeForMessage(s string) string {
	return strings.ReplaceAll(s, "\n", "\\n")
}
