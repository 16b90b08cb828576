/*
 * Selene
 *
 * Copyright 2020 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package parser

import (
	"fmt"

	"github.com/krotik/selene/ast"
	"github.com/krotik/selene/token"
)

func (p *Parser) setText(idx int32, text string) {
	n := p.get(idx)
	n.Text = text
	p.set(idx, n)
}

/*
parseExpr is the full expression entry point: precedence-climbing
binary parsing starting at the lowest precedence (`or`, 0).
*/
func (p *Parser) parseExpr() (int32, error) {
	return p.parseBinary(0)
}

// ---------------------------------------------------------------------
// Binary expressions (layer 3)
// ---------------------------------------------------------------------

/*
binOpPrecedence reports the precedence of the operator at the cursor,
or -1 if the cursor is not at a recognized binary operator. Table per
the resolved Open Question: caret is a single operator at precedence
6; the duplicate xor row is not modeled separately from `|`/`||` at 7.
*/
func (p *Parser) binOpPrecedence(tok token.Token) int {
	switch tok.Kind {
	case token.Operator:
		switch tok.Op {
		case token.OpLessLess, token.OpGreaterGreater:
			return 9
		case token.OpAmpersand:
			return 8
		case token.OpDoubleVerticalBar, token.OpVerticalBar:
			return 7
		case token.OpCaret:
			return 6
		case token.OpStar, token.OpSlash, token.OpPercent:
			return 5
		case token.OpPlus, token.OpMinus:
			return 4
		case token.OpLess, token.OpLessEqual, token.OpGreater,
			token.OpGreaterEqual, token.OpEqualEqual, token.OpBangEqual:
			return 2
		}
	case token.KwAs:
		return 3
	case token.KwIs:
		return 2
	case token.KwAnd:
		return 1
	case token.KwOr:
		return 0
	}
	return -1
}

/*
precAfterLineBreak tolerates a newline+indent between the left operand
and the operator, but only while looking for the operator itself - a
newline that is not followed by a recognizable operator is left alone
so it can still terminate the enclosing statement.
*/
func (p *Parser) precAfterLineBreak() int {
	if prec := p.binOpPrecedence(p.cur()); prec >= 0 {
		return prec
	}
	save := p.pos
	if p.at(token.NewLine) {
		p.advance()
		if p.at(token.Indent) && p.peek(1).Kind != token.NewLine {
			p.advance()
		}
		if prec := p.binOpPrecedence(p.cur()); prec >= 0 {
			return prec
		}
	}
	p.pos = save
	return -1
}

func (p *Parser) parseBinary(minPrec int) (int32, error) {
	left, err := p.parseTerm()
	if err != nil {
		return ast.NoNode, err
	}

	for {
		save := p.pos
		prec := p.precAfterLineBreak()
		if prec < minPrec {
			// Leave any line break in front of a looser operator for the
			// enclosing production to see.
			p.pos = save
			break
		}

		startTok := int32(p.pos)
		opTok := p.advance()

		switch opTok.Kind {
		case token.KwAs:
			typeNode, err := p.parseTypeSpec()
			if err != nil {
				return ast.NoNode, err
			}
			node := p.newNode(ast.CastExpr, startTok)
			n := p.get(node)
			n.A = left
			n.Text = p.nodeTypeName(typeNode)
			p.set(node, n)
			left = node
			continue

		case token.KwAnd, token.KwOr:
			rhs, err := p.parseBinary(prec + 1)
			if err != nil {
				return ast.NoNode, err
			}
			kind := ast.AndExpr
			if opTok.Kind == token.KwOr {
				kind = ast.OrExpr
			}
			node := p.newNode(kind, startTok)
			n := p.get(node)
			n.A, n.B = left, rhs
			p.set(node, n)
			left = node
			continue

		case token.KwIs:
			opKind := token.OpEqualEqual
			if p.at(token.KwNot) {
				p.advance()
				opKind = token.OpBangEqual
			}
			rhs, err := p.parseBinary(prec + 1)
			if err != nil {
				return ast.NoNode, err
			}
			node := p.newNode(ast.BinaryExpr, startTok)
			n := p.get(node)
			n.A, n.B, n.Op = left, rhs, opKind
			p.set(node, n)
			left = node
			continue

		default:
			rhs, err := p.parseBinary(prec + 1)
			if err != nil {
				return ast.NoNode, err
			}
			node := p.newNode(ast.BinaryExpr, startTok)
			n := p.get(node)
			n.A, n.B, n.Op = left, rhs, opTok.Op
			p.set(node, n)
			left = node
		}
	}

	return left, nil
}

/*
parseTypeSpec parses a (possibly dotted) type name used by cast
expressions, type annotations and alias declarations. The front end
does not resolve types, so this just records the literal spelling.
*/
func (p *Parser) parseTypeSpec() (int32, error) {
	if !p.at(token.Ident) {
		return ast.NoNode, p.fail(p.newError(
			fmt.Sprintf("Expected type name but found %s", p.cur().Kind), p.cur().Start))
	}
	start := int32(p.pos)
	name := p.curText()
	p.advance()
	for p.at(token.Dot) {
		p.advance()
		tok, err := p.expect(token.Ident, "identifier")
		if err != nil {
			return ast.NoNode, err
		}
		name += "." + tok.Text(p.src)
	}
	node := p.newNode(ast.Ident, start)
	p.setText(node, name)
	return node, nil
}

func (p *Parser) nodeTypeName(idx int32) string {
	return p.get(idx).Text
}

// ---------------------------------------------------------------------
// Term expressions (layer 2: prefix forms)
// ---------------------------------------------------------------------

func (p *Parser) parseTerm() (int32, error) {
	start := int32(p.pos)
	c := p.cur()

	switch {
	case c.Kind == token.KwNot:
		p.advance()
		operand, err := p.parseTerm()
		if err != nil {
			return ast.NoNode, err
		}
		node := p.newNode(ast.UnaryExpr, start)
		n := p.get(node)
		n.A, n.Op = operand, token.OpBang
		p.set(node, n)
		return node, nil

	case c.Kind == token.KwThrow:
		p.advance()
		operand, err := p.parseTerm()
		if err != nil {
			return ast.NoNode, err
		}
		node := p.newNode(ast.ThrowExpr, start)
		n := p.get(node)
		n.A = operand
		p.set(node, n)
		return node, nil

	case c.Kind == token.KwTry:
		p.advance()
		operand, err := p.parseTerm()
		if err != nil {
			return ast.NoNode, err
		}
		elseExpr := int32(ast.NoNode)
		if p.at(token.KwElse) {
			p.advance()
			elseExpr, err = p.parseTerm()
			if err != nil {
				return ast.NoNode, err
			}
		}
		node := p.newNode(ast.TryExpr, start)
		n := p.get(node)
		n.A, n.B = operand, elseExpr
		p.set(node, n)
		return node, nil

	case c.Kind == token.KwCoresume, c.Kind == token.KwCoyield, c.Kind == token.KwCoinit:
		p.advance()
		operand, err := p.parseTerm()
		if err != nil {
			return ast.NoNode, err
		}
		kind := ast.CoresumeExpr
		switch c.Kind {
		case token.KwCoyield:
			kind = ast.CoyieldExpr
		case token.KwCoinit:
			kind = ast.CoinitExpr
		}
		node := p.newNode(kind, start)
		n := p.get(node)
		n.A = operand
		p.set(node, n)
		return node, nil

	case c.Kind == token.At:
		p.advance()
		call, err := p.parseTightTerm()
		if err != nil {
			return ast.NoNode, err
		}
		node := p.newNode(ast.AtExpr, start)
		n := p.get(node)
		n.A = call
		p.set(node, n)
		return node, nil

	case c.Kind == token.Operator && (c.Op == token.OpMinus || c.Op == token.OpTilde || c.Op == token.OpBang):
		p.advance()
		operand, err := p.parseTerm()
		if err != nil {
			return ast.NoNode, err
		}
		node := p.newNode(ast.UnaryExpr, start)
		n := p.get(node)
		n.A, n.Op = operand, c.Op
		p.set(node, n)
		return node, nil

	case c.Kind == token.KwIf:
		return p.parseIfExpr()

	case c.Kind == token.KwFunc:
		return p.parseLambdaMulti()
	}

	return p.parseTightTerm()
}

/*
parseIfExpr parses the `if cond then a [else b]` expression form. The
statement form (`if cond:`) never reaches this production - statement
dispatch claims a leading `if` first - so an `if` seen in expression
position must be the `then` variant.
*/
func (p *Parser) parseIfExpr() (int32, error) {
	start := int32(p.pos)
	p.advance() // consume 'if'

	cond, err := p.parseExpr()
	if err != nil {
		return ast.NoNode, err
	}
	if _, err := p.expect(token.KwThen, "`then`"); err != nil {
		return ast.NoNode, err
	}
	thenExpr, err := p.parseExpr()
	if err != nil {
		return ast.NoNode, err
	}

	elseClause := int32(ast.NoNode)
	if p.at(token.KwElse) {
		ecStart := int32(p.pos)
		p.advance()
		elseExpr, err := p.parseExpr()
		if err != nil {
			return ast.NoNode, err
		}
		elseClause = p.newNode(ast.IfExprElseClause, ecStart)
		ec := p.get(elseClause)
		ec.A = elseExpr
		p.set(elseClause, ec)
	}

	node := p.newNode(ast.IfExpr, start)
	n := p.get(node)
	n.A, n.B, n.C = cond, thenExpr, elseClause
	if elseClause != ast.NoNode {
		n.Flags |= ast.HasElse
	}
	p.set(node, n)
	return node, nil
}

// ---------------------------------------------------------------------
// Tight-term expressions (layer 1: atom + postfix chain)
// ---------------------------------------------------------------------

func (p *Parser) parseTightTerm() (int32, error) {
	base, err := p.parseAtom()
	if err != nil {
		return ast.NoNode, err
	}

	for {
		c := p.cur()
		switch c.Kind {
		case token.Dot:
			start := int32(p.pos)
			p.advance()
			nameTok, err := p.expect(token.Ident, "field name")
			if err != nil {
				return ast.NoNode, err
			}
			node := p.newNode(ast.AccessExpr, start)
			n := p.get(node)
			n.A = base
			n.Text = nameTok.Text(p.src)
			p.set(node, n)
			base = node

		case token.LeftBracket:
			start := int32(p.pos)
			p.advance()
			node, err := p.parseIndexOrSlice(base, start)
			if err != nil {
				return ast.NoNode, err
			}
			base = node

		case token.LeftParen:
			start := int32(p.pos)
			p.advance()
			node, err := p.parseCallArgs(base, start)
			if err != nil {
				return ast.NoNode, err
			}
			base = node

		case token.LeftBrace:
			bk := p.get(base).Kind
			if bk != ast.Ident && bk != ast.AccessExpr {
				return base, nil
			}
			start := int32(p.pos)
			p.advance()
			node, err := p.parseObjectInit(base, start)
			if err != nil {
				return ast.NoNode, err
			}
			base = node

		default:
			return base, nil
		}
	}
}

func (p *Parser) parseIndexOrSlice(base, start int32) (int32, error) {
	var from, to int32 = ast.NoNode, ast.NoNode
	isSlice := false

	if !p.at(token.DotDot) {
		idx, err := p.parseExpr()
		if err != nil {
			return ast.NoNode, err
		}
		from = idx
	}
	if p.at(token.DotDot) {
		isSlice = true
		p.advance()
		if !p.at(token.RightBracket) {
			t, err := p.parseExpr()
			if err != nil {
				return ast.NoNode, err
			}
			to = t
		}
	}
	if _, err := p.expect(token.RightBracket, "`]`"); err != nil {
		return ast.NoNode, err
	}

	if isSlice {
		node := p.newNode(ast.SliceExpr, start)
		n := p.get(node)
		n.A, n.B, n.C = base, from, to
		p.set(node, n)
		return node, nil
	}

	node := p.newNode(ast.IndexExpr, start)
	n := p.get(node)
	n.A, n.B = base, from
	p.set(node, n)
	return node, nil
}

func (p *Parser) parseCallArgs(callee, start int32) (int32, error) {
	var first, last int32 = ast.NoNode, ast.NoNode
	var count int32
	hasNamed := false

	for {
		p.skipLineBreaks()
		if p.at(token.RightParen) {
			break
		}
		argStart := int32(p.pos)

		if p.at(token.Ident) && p.peek(1).Kind == token.Colon {
			name := p.curText()
			p.advance()
			p.advance()
			val, err := p.parseExpr()
			if err != nil {
				return ast.NoNode, err
			}
			node := p.newNode(ast.NamedArg, argStart)
			n := p.get(node)
			n.A = val
			n.Text = name
			p.set(node, n)
			p.chain(&first, &last, node)
			hasNamed = true
		} else {
			val, err := p.parseExpr()
			if err != nil {
				return ast.NoNode, err
			}
			p.chain(&first, &last, val)
		}
		count++

		p.skipLineBreaks()
		if p.at(token.Comma) {
			p.advance()
			continue
		}
		break
	}

	p.skipLineBreaks()
	if _, err := p.expect(token.RightParen, "`)`"); err != nil {
		return ast.NoNode, err
	}

	node := p.newNode(ast.CallExpr, start)
	n := p.get(node)
	n.A, n.B, n.Aux = first, callee, count
	if hasNamed {
		n.Flags |= ast.HasNamedArg
	}
	p.set(node, n)
	return node, nil
}

func (p *Parser) parseObjectInit(target, start int32) (int32, error) {
	var first, last int32 = ast.NoNode, ast.NoNode
	var count int32

	for {
		p.skipLineBreaks()
		if p.at(token.RightBrace) {
			break
		}
		fieldStart := int32(p.pos)
		nameTok, err := p.expect(token.Ident, "field name")
		if err != nil {
			return ast.NoNode, err
		}
		if _, err := p.expect(token.Colon, "`:`"); err != nil {
			return ast.NoNode, err
		}
		val, err := p.parseExpr()
		if err != nil {
			return ast.NoNode, err
		}
		entry := p.newNode(ast.MapEntry, fieldStart)
		n := p.get(entry)
		keyNode := p.newNode(ast.Ident, fieldStart)
		p.setText(keyNode, nameTok.Text(p.src))
		n.A, n.B = keyNode, val
		p.set(entry, n)
		p.chain(&first, &last, entry)
		count++

		p.skipLineBreaks()
		if p.at(token.Comma) {
			p.advance()
			continue
		}
		break
	}

	p.skipLineBreaks()
	if _, err := p.expect(token.RightBrace, "`}`"); err != nil {
		return ast.NoNode, err
	}

	node := p.newNode(ast.ObjectInit, start)
	n := p.get(node)
	n.A, n.B, n.Aux = first, target, count
	p.set(node, n)
	return node, nil
}

// ---------------------------------------------------------------------
// Atoms
// ---------------------------------------------------------------------

func (p *Parser) parseAtom() (int32, error) {
	start := int32(p.pos)
	c := p.cur()

	switch c.Kind {
	case token.Number:
		p.advance()
		node := p.newNode(ast.NumberLit, start)
		p.setText(node, c.Text(p.src))
		return node, nil

	case token.NonDecimalInt:
		p.advance()
		node := p.newNode(ast.NonDecimalIntLit, start)
		p.setText(node, c.Text(p.src))
		return node, nil

	case token.String:
		p.advance()
		node := p.newNode(ast.StringLit, start)
		p.setText(node, c.Text(p.src))
		return node, nil

	case token.TemplateString:
		return p.parseTemplateStringLit()

	case token.KwTrue:
		p.advance()
		return p.newNode(ast.TrueLit, start), nil

	case token.KwFalse:
		p.advance()
		return p.newNode(ast.FalseLit, start), nil

	case token.KwNone:
		p.advance()
		return p.newNode(ast.NoneLit, start), nil

	case token.KwError:
		p.advance()
		return p.newNode(ast.ErrorSymbolLit, start), nil

	case token.Symbol:
		p.advance()
		node := p.newNode(ast.SymbolLit, start)
		p.setText(node, c.Text(p.src))
		return node, nil

	case token.LeftBracket:
		return p.parseListLit()

	case token.LeftBrace:
		return p.parseMapLit()

	case token.LeftParen:
		return p.parseParenOrLambda()

	case token.Ident:
		if p.peek(1).Kind == token.EqualGreater {
			return p.parseSingleParamLambda()
		}
		p.advance()
		node := p.newNode(ast.Ident, start)
		name := c.Text(p.src)
		p.setText(node, name)
		p.noteReference(name, node)
		return node, nil
	}

	return ast.NoNode, p.fail(p.newError(
		fmt.Sprintf("Unexpected token %s", c.Kind), c.Start))
}

func (p *Parser) parseListLit() (int32, error) {
	start := int32(p.pos)
	p.advance() // consume '['
	var first, last int32 = ast.NoNode, ast.NoNode
	var count int32

	for {
		p.skipLineBreaks()
		if p.at(token.RightBracket) {
			break
		}
		el, err := p.parseExpr()
		if err != nil {
			return ast.NoNode, err
		}
		p.chain(&first, &last, el)
		count++
		p.skipLineBreaks()
		if p.at(token.Comma) {
			p.advance()
			continue
		}
		break
	}
	p.skipLineBreaks()
	if _, err := p.expect(token.RightBracket, "`]`"); err != nil {
		return ast.NoNode, err
	}

	node := p.newNode(ast.ListLit, start)
	n := p.get(node)
	n.A, n.Aux = first, count
	p.set(node, n)
	return node, nil
}

func (p *Parser) parseMapLit() (int32, error) {
	start := int32(p.pos)
	p.advance() // consume '{'
	var first, last int32 = ast.NoNode, ast.NoNode
	var count int32

	for {
		p.skipLineBreaks()
		if p.at(token.RightBrace) {
			break
		}
		entryStart := int32(p.pos)
		key, err := p.parseExpr()
		if err != nil {
			return ast.NoNode, err
		}
		if _, err := p.expect(token.Colon, "`:`"); err != nil {
			return ast.NoNode, err
		}
		val, err := p.parseExpr()
		if err != nil {
			return ast.NoNode, err
		}
		entry := p.newNode(ast.MapEntry, entryStart)
		n := p.get(entry)
		n.A, n.B = key, val
		p.set(entry, n)
		p.chain(&first, &last, entry)
		count++
		p.skipLineBreaks()
		if p.at(token.Comma) {
			p.advance()
			continue
		}
		break
	}
	p.skipLineBreaks()
	if _, err := p.expect(token.RightBrace, "`}`"); err != nil {
		return ast.NoNode, err
	}

	node := p.newNode(ast.MapLit, start)
	n := p.get(node)
	n.A, n.Aux = first, count
	p.set(node, n)
	return node, nil
}

func (p *Parser) parseTemplateStringLit() (int32, error) {
	start := int32(p.pos)
	segTok := p.advance()

	head := p.newNode(ast.TemplateStringSegment, start)
	p.setText(head, segTok.Text(p.src))
	first, last := head, head

	for p.at(token.TemplateExprStart) {
		p.advance()
		exprNode, err := p.parseExpr()
		if err != nil {
			return ast.NoNode, err
		}
		p.chain(&first, &last, exprNode)
		if _, err := p.expect(token.RightBrace, "`}`"); err != nil {
			return ast.NoNode, err
		}
		if !p.at(token.TemplateString) {
			break
		}
		segStart := int32(p.pos)
		segTok = p.advance()
		seg := p.newNode(ast.TemplateStringSegment, segStart)
		p.setText(seg, segTok.Text(p.src))
		p.chain(&first, &last, seg)
	}

	node := p.newNode(ast.TemplateStringLit, start)
	n := p.get(node)
	n.A = first
	p.set(node, n)
	return node, nil
}

// ---------------------------------------------------------------------
// Lambdas
// ---------------------------------------------------------------------

func (p *Parser) parseSingleParamLambda() (int32, error) {
	start := int32(p.pos)
	nameTok := p.advance()
	p.advance() // consume '=>'

	p.blocks.Push()
	param := p.newNode(ast.Param, start)
	p.setText(param, nameTok.Text(p.src))
	p.blocks.Declare(nameTok.Text(p.src))

	body, err := p.parseExpr()
	p.blocks.Pop()
	if err != nil {
		return ast.NoNode, err
	}

	node := p.newNode(ast.LambdaExpr, start)
	n := p.get(node)
	n.A, n.B, n.Aux = param, body, 1
	p.set(node, n)
	return node, nil
}

/*
parseParenOrLambda disambiguates `(expr)`, `() => expr` and
`(params) => expr`. Because the whole token stream is already
materialized, ambiguous cases are resolved by trial parse and
rewind rather than the character-level rewind a streaming tokenizer
would need.
*/
func (p *Parser) parseParenOrLambda() (int32, error) {
	start := int32(p.pos)
	save := p.pos
	mark := p.arena.Len()
	p.advance() // consume '('

	if p.at(token.RightParen) && p.peek(1).Kind == token.EqualGreater {
		p.advance()
		p.advance()
		p.blocks.Push()
		body, err := p.parseExpr()
		p.blocks.Pop()
		if err != nil {
			return ast.NoNode, err
		}
		node := p.newNode(ast.LambdaExpr, start)
		n := p.get(node)
		n.A, n.B, n.Aux = ast.NoNode, body, 0
		p.set(node, n)
		return node, nil
	}

	inner, err := p.parseExpr()
	if err != nil {
		return ast.NoNode, err
	}

	if p.at(token.Comma) {
		p.rewind(save, mark)
		return p.parseParamLambda(start)
	}

	if _, err := p.expect(token.RightParen, "`)`"); err != nil {
		return ast.NoNode, err
	}

	if p.at(token.EqualGreater) {
		p.rewind(save, mark)
		return p.parseParamLambda(start)
	}

	node := p.newNode(ast.GroupExpr, start)
	n := p.get(node)
	n.A = inner
	p.set(node, n)
	return node, nil
}

func (p *Parser) parseParamLambda(start int32) (int32, error) {
	p.advance() // consume '('
	p.blocks.Push()

	var first, last int32 = ast.NoNode, ast.NoNode
	var count int32

	for !p.at(token.RightParen) {
		paramStart := int32(p.pos)
		nameTok, err := p.expect(token.Ident, "parameter name")
		if err != nil {
			p.blocks.Pop()
			return ast.NoNode, err
		}
		typeNode, err := p.tryParseTypeAnnotation()
		if err != nil {
			p.blocks.Pop()
			return ast.NoNode, err
		}
		param := p.newNode(ast.Param, paramStart)
		n := p.get(param)
		n.A = typeNode
		n.Text = nameTok.Text(p.src)
		p.set(param, n)
		p.blocks.Declare(nameTok.Text(p.src))
		p.chain(&first, &last, param)
		count++

		if p.at(token.Comma) {
			p.advance()
			continue
		}
		break
	}

	if _, err := p.expect(token.RightParen, "`)`"); err != nil {
		p.blocks.Pop()
		return ast.NoNode, err
	}
	if _, err := p.expect(token.EqualGreater, "`=>`"); err != nil {
		p.blocks.Pop()
		return ast.NoNode, err
	}

	body, err := p.parseExpr()
	p.blocks.Pop()
	if err != nil {
		return ast.NoNode, err
	}

	node := p.newNode(ast.LambdaExpr, start)
	n := p.get(node)
	n.A, n.B, n.Aux = first, body, count
	p.set(node, n)
	return node, nil
}

/*
parseLambdaMulti parses the `func (params) [ret]: body` anonymous
lambda form usable as an expression atom.
*/
func (p *Parser) parseLambdaMulti() (int32, error) {
	start := int32(p.pos)
	p.advance() // consume 'func'

	if _, err := p.expect(token.LeftParen, "`(`"); err != nil {
		return ast.NoNode, err
	}

	p.blocks.Push()
	params, err := p.parseParamChain()
	if err != nil {
		p.blocks.Pop()
		return ast.NoNode, err
	}
	if _, err := p.expect(token.RightParen, "`)`"); err != nil {
		p.blocks.Pop()
		return ast.NoNode, err
	}

	retType := int32(ast.NoNode)
	if !p.at(token.Colon) {
		retType, err = p.tryParseTypeAnnotation()
		if err != nil {
			p.blocks.Pop()
			return ast.NoNode, err
		}
	}

	if _, err := p.expect(token.Colon, "`:`"); err != nil {
		p.blocks.Pop()
		return ast.NoNode, err
	}

	first, _, single, err := p.parseIndentedBody(0)
	p.blocks.Pop()
	if err != nil {
		return ast.NoNode, err
	}

	body := p.newBlock(start, first, single)

	node := p.newNode(ast.LambdaMulti, start)
	n := p.get(node)
	n.A, n.B, n.C = params, body, retType
	n.Flags |= ast.IsMultiLine
	p.set(node, n)
	return node, nil
}

/*
parseParamChain parses a comma-separated `(name [type], ...)` list
already positioned just after the opening paren, declaring each name
in the current (caller-pushed) block frame.
*/
func (p *Parser) parseParamChain() (int32, error) {
	var first, last int32 = ast.NoNode, ast.NoNode

	for !p.at(token.RightParen) {
		paramStart := int32(p.pos)
		nameTok, err := p.expect(token.Ident, "parameter name")
		if err != nil {
			return ast.NoNode, err
		}
		typeNode, err := p.tryParseTypeAnnotation()
		if err != nil {
			return ast.NoNode, err
		}
		param := p.newNode(ast.Param, paramStart)
		n := p.get(param)
		n.A = typeNode
		n.Text = nameTok.Text(p.src)
		p.set(param, n)
		p.blocks.Declare(nameTok.Text(p.src))
		p.chain(&first, &last, param)

		if p.at(token.Comma) {
			p.advance()
			continue
		}
		break
	}
	return first, nil
}

/*
tryParseTypeAnnotation consumes an optional type name directly
following a declaration's subject (var/param/field/return type). The
grammar marks these `[type]` with no leading punctuation, so the
heuristic is: a bare identifier sitting where only a type name could
legally appear is the annotation.
*/
func (p *Parser) tryParseTypeAnnotation() (int32, error) {
	if !p.at(token.Ident) {
		return ast.NoNode, nil
	}
	return p.parseTypeSpec()
}

/*
canStartTerm reports whether tok could begin a new term expression,
used by the no-paren call form to decide whether to keep consuming
arguments.
*/
func canStartTerm(tok token.Token) bool {
	switch tok.Kind {
	case token.Ident, token.Number, token.NonDecimalInt, token.String,
		token.TemplateString, token.Symbol, token.LeftParen, token.LeftBracket,
		token.KwTrue, token.KwFalse, token.KwNone, token.KwError,
		token.KwNot, token.KwThrow, token.KwTry, token.KwCoresume,
		token.KwCoyield, token.KwCoinit, token.At:
		return true
	case token.Operator:
		return tok.Op == token.OpMinus || tok.Op == token.OpTilde || tok.Op == token.OpBang
	}
	return false
}
