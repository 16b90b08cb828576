/*
 * Selene
 *
 * Copyright 2020 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeywordTableHasThirtyFiveEntries(t *testing.T) {
	assert.Len(t, KeywordTable, 35)
}

func TestKindStringForKeyword(t *testing.T) {
	assert.Equal(t, "<func>", KwFunc.String())
	assert.Equal(t, "<while>", KwWhile.String())
}

func TestKindStringForFixedKind(t *testing.T) {
	assert.Equal(t, "ident", Ident.String())
	assert.Equal(t, "indent", Indent.String())
}

func TestIndentKindEncodesSpacesAndTabs(t *testing.T) {
	spaceTok := Token{Kind: Indent, Indent: 4}
	count, tabs := spaceTok.IndentKind()
	assert.Equal(t, 4, count)
	assert.False(t, tabs)

	tabTok := Token{Kind: Indent, Indent: IndentTabBase + 2}
	count, tabs = tabTok.IndentKind()
	assert.Equal(t, 2, count)
	assert.True(t, tabs)
}

func TestTextRoundTrip(t *testing.T) {
	src := []byte("foobar")
	tok := Token{Kind: Ident, Start: 0, End: 3}
	assert.Equal(t, "foo", tok.Text(src))
}

func TestTextOutOfRangeIsEmpty(t *testing.T) {
	src := []byte("foo")
	assert.Equal(t, "", Token{Start: -1, End: 2}.Text(src))
	assert.Equal(t, "", Token{Start: 0, End: 10}.Text(src))
}

func TestOperatorTableGreedyTwoCharForms(t *testing.T) {
	for _, sym := range []string{"==", "=>", "!=", "<=", "<<", ">=", ">>", "||"} {
		_, okOp := OperatorTable[sym]
		_, okPunct := PunctuationTable[sym]
		assert.True(t, okOp || okPunct, "expected %q to be a recognized two-char form", sym)
	}
}
