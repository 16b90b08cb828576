/*
 * Selene
 *
 * Copyright 2020 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krotik/selene/config"
	"github.com/krotik/selene/token"
)

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestTokenRoundTrip(t *testing.T) {
	src := []byte("foo 123 'bar' #sym")
	toks, err := Tokenize(src, false, nil)
	require.NoError(t, err)

	for _, tok := range toks {
		switch tok.Kind {
		case token.Ident, token.Number, token.String, token.Symbol:
			assert.Equal(t, string(src[tok.Start:tok.End]), tok.Text(src))
		}
	}
}

func TestIdentifierAndKeywordKinds(t *testing.T) {
	toks, err := Tokenize([]byte("foo while"), false, nil)
	require.NoError(t, err)

	var nonIndent []token.Token
	for _, tok := range toks {
		if tok.Kind != token.Indent {
			nonIndent = append(nonIndent, tok)
		}
	}
	require.Len(t, nonIndent, 2)
	assert.Equal(t, token.Ident, nonIndent[0].Kind)
	assert.Equal(t, token.KwWhile, nonIndent[1].Kind)
}

func TestNumberForms(t *testing.T) {
	toks, err := Tokenize([]byte("123 1.5 1e10 1e-5 0xFF 0o17 0b101"), false, nil)
	require.NoError(t, err)

	var got []token.Token
	for _, tok := range toks {
		if tok.Kind == token.Number || tok.Kind == token.NonDecimalInt {
			got = append(got, tok)
		}
	}
	require.Len(t, got, 7)
	for _, tok := range got[:4] {
		assert.Equal(t, token.Number, tok.Kind)
	}
	for _, tok := range got[4:] {
		assert.Equal(t, token.NonDecimalInt, tok.Kind)
	}
}

func TestRangeOperatorNotPartOfNumber(t *testing.T) {
	toks, err := Tokenize([]byte("1..5"), false, nil)
	require.NoError(t, err)

	var got []token.Token
	for _, tok := range toks {
		if tok.Kind != token.Indent {
			got = append(got, tok)
		}
	}
	require.Len(t, got, 3)
	assert.Equal(t, token.Number, got[0].Kind)
	assert.Equal(t, token.DotDot, got[1].Kind)
	assert.Equal(t, token.Number, got[2].Kind)
}

func TestInvalidExponentIsLexError(t *testing.T) {
	_, err := Tokenize([]byte("1ex"), false, nil)
	require.Error(t, err)
}

func TestRuneLiteral(t *testing.T) {
	toks, err := Tokenize([]byte(`0u'\n'`), false, nil)
	require.NoError(t, err)

	var got token.Token
	for _, tok := range toks {
		if tok.Kind == token.NonDecimalInt {
			got = tok
		}
	}
	assert.Equal(t, `0u'\n'`, got.Text([]byte(`0u'\n'`)))
}

func TestSimpleStringNoInterpolation(t *testing.T) {
	toks, err := Tokenize([]byte(`'abc'`), false, nil)
	require.NoError(t, err)

	var got token.Token
	for _, tok := range toks {
		if tok.Kind == token.String {
			got = tok
		}
	}
	assert.Equal(t, "abc", got.Text([]byte(`'abc'`)))
}

/*
TestTemplateStringInterpolation pins down the exact token sequence of
an interpolated string: "'abc{1+2}def'" tokenizes to
template_string("abc"), template_expr_start, number("1"),
operator(plus), number("2"), right_brace, template_string("def").
*/
func TestTemplateStringInterpolation(t *testing.T) {
	src := []byte(`'abc{1+2}def'`)
	toks, err := Tokenize(src, false, nil)
	require.NoError(t, err)

	var got []token.Token
	for _, tok := range toks {
		if tok.Kind != token.Indent {
			got = append(got, tok)
		}
	}

	require.Len(t, got, 7)
	assert.Equal(t, token.TemplateString, got[0].Kind)
	assert.Equal(t, "abc", got[0].Text(src))
	assert.Equal(t, token.TemplateExprStart, got[1].Kind)
	assert.Equal(t, token.Number, got[2].Kind)
	assert.Equal(t, "1", got[2].Text(src))
	assert.Equal(t, token.Operator, got[3].Kind)
	assert.Equal(t, token.OpPlus, got[3].Op)
	assert.Equal(t, token.Number, got[4].Kind)
	assert.Equal(t, "2", got[4].Text(src))
	assert.Equal(t, token.RightBrace, got[5].Kind)
	assert.Equal(t, token.TemplateString, got[6].Kind)
	assert.Equal(t, "def", got[6].Text(src))
}

func TestTripleQuotedStringSpansNewlines(t *testing.T) {
	src := []byte("'''line one\nline two'''")
	toks, err := Tokenize(src, false, nil)
	require.NoError(t, err)

	var got token.Token
	for _, tok := range toks {
		if tok.Kind == token.String {
			got = tok
		}
	}
	assert.Equal(t, "line one\nline two", got.Text(src))
}

func TestUnterminatedSingleQuoteStringIsError(t *testing.T) {
	_, err := Tokenize([]byte("'abc"), false, nil)
	require.Error(t, err)
}

func TestSingleQuoteStringCannotSpanNewline(t *testing.T) {
	_, err := Tokenize([]byte("'abc\ndef'"), false, nil)
	require.Error(t, err)
}

func TestLineCommentConsumedWithoutToken(t *testing.T) {
	toks, err := Tokenize([]byte("foo -- a comment\nbar"), false, nil)
	require.NoError(t, err)

	var idents []string
	for _, tok := range toks {
		if tok.Kind == token.Ident {
			idents = append(idents, tok.Text([]byte("foo -- a comment\nbar")))
		}
	}
	assert.Equal(t, []string{"foo", "bar"}, idents)
}

func TestIndentEncoding(t *testing.T) {
	toks, err := Tokenize([]byte("\tfoo"), false, nil)
	require.NoError(t, err)
	require.NotEmpty(t, toks)
	count, tabs := toks[0].IndentKind()
	assert.Equal(t, 1, count)
	assert.True(t, tabs)
}

func TestShebangConsumedWithoutTokens(t *testing.T) {
	toks, err := Tokenize([]byte("#!/usr/bin/env selene\nfoo"), false, nil)
	require.NoError(t, err)

	ks := kinds(toks)
	assert.Contains(t, ks, token.Ident)
	assert.NotContains(t, ks, token.Symbol)
}

func TestIgnoreErrorsEmitsErrToken(t *testing.T) {
	toks, err := Tokenize([]byte("foo $ bar"), true, nil)
	require.NoError(t, err)

	ks := kinds(toks)
	assert.Contains(t, ks, token.Err)
}

/*
TestNestedStringInsideTemplateExpression covers the restricted nesting
form: a single-quoted string may appear inside an interpolated
expression of an enclosing string.
*/
func TestNestedStringInsideTemplateExpression(t *testing.T) {
	src := []byte(`'a{'b'}c'`)
	toks, err := Tokenize(src, false, nil)
	require.NoError(t, err)

	var got []token.Token
	for _, tok := range toks {
		if tok.Kind != token.Indent {
			got = append(got, tok)
		}
	}

	require.Len(t, got, 5)
	assert.Equal(t, token.TemplateString, got[0].Kind)
	assert.Equal(t, token.TemplateExprStart, got[1].Kind)
	assert.Equal(t, token.String, got[2].Kind)
	assert.Equal(t, "b", got[2].Text(src))
	assert.Equal(t, token.RightBrace, got[3].Kind)
	assert.Equal(t, token.TemplateString, got[4].Kind)
	assert.Equal(t, "c", got[4].Text(src))
}

func TestTemplateNestingLimitIsEnforced(t *testing.T) {
	old := config.Config[config.MaxTemplateNesting]
	config.Config[config.MaxTemplateNesting] = 1
	defer func() { config.Config[config.MaxTemplateNesting] = old }()

	_, err := Tokenize([]byte(`'a{'b{1}c'}d'`), false, nil)
	require.Error(t, err)
}

func TestGreedyTwoCharOperators(t *testing.T) {
	toks, err := Tokenize([]byte("a == b"), false, nil)
	require.NoError(t, err)

	var ops []token.Token
	for _, tok := range toks {
		if tok.Kind == token.Operator {
			ops = append(ops, tok)
		}
	}
	require.Len(t, ops, 1)
	assert.Equal(t, token.OpEqualEqual, ops[0].Op)
}
