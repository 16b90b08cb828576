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

/*
parseStatement dispatches on the current token, per §4.2's statement
table. stmtIndent is the indent level this statement's own line was
found at - needed by if/try to decide whether a trailing else/catch
clause, found later at the same indent, belongs to them.
*/
func (p *Parser) parseStatement(stmtIndent int) (int32, error) {
	c := p.cur()

	switch {
	case c.Kind == token.Ident && p.peek(1).Kind == token.Colon:
		return p.parseLabelBlockDecl(stmtIndent)
	case c.Kind == token.At:
		return p.parseAtStmt()
	case c.Kind == token.KwType:
		return p.parseTypeDecl(stmtIndent)
	case c.Kind == token.KwFunc:
		return p.parseFuncDecl(stmtIndent, false)
	case c.Kind == token.KwIf:
		return p.parseIfStmt(stmtIndent)
	case c.Kind == token.KwMatch:
		return p.parseMatchStmt(stmtIndent)
	case c.Kind == token.KwFor:
		return p.parseForStmt(stmtIndent)
	case c.Kind == token.KwWhile:
		return p.parseWhileStmt(stmtIndent)
	case c.Kind == token.KwImport:
		return p.parseImportDecl()
	case c.Kind == token.KwPass:
		return p.parseSimpleKeywordStmt(ast.PassStmt)
	case c.Kind == token.KwContinue:
		return p.parseSimpleKeywordStmt(ast.ContinueStmt)
	case c.Kind == token.KwBreak:
		return p.parseSimpleKeywordStmt(ast.BreakStmt)
	case c.Kind == token.KwReturn:
		return p.parseReturnStmt()
	case c.Kind == token.KwTry && p.peek(1).Kind == token.Colon:
		return p.parseTryStmt(stmtIndent)
	case c.Kind == token.KwVar:
		return p.parseVarDecl(stmtIndent)
	case c.Kind == token.KwCapture:
		return p.parseCaptureOrStatic(ast.CaptureDecl, stmtIndent)
	case c.Kind == token.KwStatic:
		return p.parseCaptureOrStatic(ast.StaticDecl, stmtIndent)
	}

	return p.parseExprOrAssignStmt()
}

func (p *Parser) parseSimpleKeywordStmt(kind ast.Kind) (int32, error) {
	start := int32(p.pos)
	p.advance()
	node := p.newNode(kind, start)
	if err := p.endLine(); err != nil {
		return ast.NoNode, err
	}
	return node, nil
}

func (p *Parser) parseReturnStmt() (int32, error) {
	start := int32(p.pos)
	p.advance() // consume 'return'

	if p.at(token.NewLine) || p.atEOF() {
		node := p.newNode(ast.ReturnStmt, start)
		if err := p.endLine(); err != nil {
			return ast.NoNode, err
		}
		return node, nil
	}

	expr, err := p.parseExpr()
	if err != nil {
		return ast.NoNode, err
	}
	node := p.newNode(ast.ReturnExprStmt, start)
	n := p.get(node)
	n.A = expr
	p.set(node, n)
	if err := p.endLine(); err != nil {
		return ast.NoNode, err
	}
	return node, nil
}

func (p *Parser) parseLabelBlockDecl(stmtIndent int) (int32, error) {
	start := int32(p.pos)
	labelTok := p.advance()
	p.advance() // consume ':'

	p.blocks.Push()
	first, _, single, err := p.parseIndentedBody(stmtIndent)
	p.blocks.Pop()
	if err != nil {
		return ast.NoNode, err
	}

	body := p.newBlock(start, first, single)

	node := p.newNode(ast.LabelBlockDecl, start)
	n := p.get(node)
	n.A = body
	n.Text = labelTok.Text(p.src)
	p.set(node, n)
	return node, nil
}

func (p *Parser) parseAtStmt() (int32, error) {
	start := int32(p.pos)
	p.advance() // consume '@'

	expr, err := p.parseTightTerm()
	if err != nil {
		return ast.NoNode, err
	}
	if p.get(expr).Kind != ast.CallExpr {
		return ast.NoNode, p.fail(p.newError("At-statement requires a call expression", p.toks[int(start)].Start))
	}

	node := p.newNode(ast.AtStmt, start)
	n := p.get(node)
	n.A = expr
	p.set(node, n)
	if err := p.endLine(); err != nil {
		return ast.NoNode, err
	}
	return node, nil
}

// ---------------------------------------------------------------------
// if / else
// ---------------------------------------------------------------------

func (p *Parser) parseIfStmt(stmtIndent int) (int32, error) {
	start := int32(p.pos)
	p.advance() // consume 'if'

	cond, err := p.parseExpr()
	if err != nil {
		return ast.NoNode, err
	}
	if _, err := p.expect(token.Colon, "`:`"); err != nil {
		return ast.NoNode, err
	}

	p.blocks.Push()
	first, _, single, err := p.parseIndentedBody(stmtIndent)
	p.blocks.Pop()
	if err != nil {
		return ast.NoNode, err
	}
	thenBlock := p.newBlock(start, first, single)

	elseClause := int32(ast.NoNode)
	ok, err := p.siblingClause(stmtIndent, token.KwElse)
	if err != nil {
		return ast.NoNode, err
	}
	if ok {
		elseClause, err = p.parseElseClause(stmtIndent)
		if err != nil {
			return ast.NoNode, err
		}
	}

	node := p.newNode(ast.IfStmt, start)
	n := p.get(node)
	n.A, n.B, n.C = cond, thenBlock, elseClause
	if ok {
		n.Flags |= ast.HasElse
	}
	p.set(node, n)
	return node, nil
}

func (p *Parser) parseElseClause(stmtIndent int) (int32, error) {
	start := int32(p.pos)

	if p.at(token.KwIf) {
		nested, err := p.parseIfStmt(stmtIndent)
		if err != nil {
			return ast.NoNode, err
		}
		node := p.newNode(ast.ElseClause, start)
		n := p.get(node)
		n.A = nested
		p.set(node, n)
		return node, nil
	}

	if _, err := p.expect(token.Colon, "`:`"); err != nil {
		return ast.NoNode, err
	}
	p.blocks.Push()
	first, _, single, err := p.parseIndentedBody(stmtIndent)
	p.blocks.Pop()
	if err != nil {
		return ast.NoNode, err
	}
	body := p.newBlock(start, first, single)

	node := p.newNode(ast.ElseClause, start)
	n := p.get(node)
	n.A = body
	p.set(node, n)
	return node, nil
}

// ---------------------------------------------------------------------
// try / catch
// ---------------------------------------------------------------------

func (p *Parser) parseTryStmt(stmtIndent int) (int32, error) {
	start := int32(p.pos)
	p.advance() // consume 'try'
	if _, err := p.expect(token.Colon, "`:`"); err != nil {
		return ast.NoNode, err
	}

	p.blocks.Push()
	first, _, single, err := p.parseIndentedBody(stmtIndent)
	p.blocks.Pop()
	if err != nil {
		return ast.NoNode, err
	}
	tryBlock := p.newBlock(start, first, single)

	catchBlock := int32(ast.NoNode)
	hasVar := false
	var varName string

	ok, err := p.siblingClause(stmtIndent, token.KwCatch)
	if err != nil {
		return ast.NoNode, err
	}
	if ok {
		catchStart := int32(p.pos)
		if p.at(token.Ident) {
			varName = p.curText()
			hasVar = true
			p.advance()
		}
		if _, err := p.expect(token.Colon, "`:`"); err != nil {
			return ast.NoNode, err
		}
		p.blocks.Push()
		if hasVar {
			p.blocks.Declare(varName)
		}
		cFirst, _, cSingle, err := p.parseIndentedBody(stmtIndent)
		p.blocks.Pop()
		if err != nil {
			return ast.NoNode, err
		}
		catchBlock = p.newBlock(catchStart, cFirst, cSingle)
	}

	node := p.newNode(ast.TryStmt, start)
	n := p.get(node)
	n.A, n.B = tryBlock, catchBlock
	if hasVar {
		n.Text = varName
		n.Flags |= ast.HasCatchVar
	}
	p.set(node, n)
	return node, nil
}

// ---------------------------------------------------------------------
// while
// ---------------------------------------------------------------------

func (p *Parser) parseWhileStmt(stmtIndent int) (int32, error) {
	start := int32(p.pos)
	p.advance() // consume 'while'

	cond := int32(ast.NoNode)
	infinite := false
	optionBind := false
	var bindVar string

	if p.at(token.Colon) {
		infinite = true
	} else {
		c, err := p.parseExpr()
		if err != nil {
			return ast.NoNode, err
		}
		cond = c
		if p.at(token.KwSome) {
			p.advance()
			tok, err := p.expect(token.Ident, "binding name")
			if err != nil {
				return ast.NoNode, err
			}
			optionBind = true
			bindVar = tok.Text(p.src)
		}
	}

	if _, err := p.expect(token.Colon, "`:`"); err != nil {
		return ast.NoNode, err
	}

	p.blocks.Push()
	if optionBind {
		p.blocks.Declare(bindVar)
	}
	first, _, single, err := p.parseIndentedBody(stmtIndent)
	p.blocks.Pop()
	if err != nil {
		return ast.NoNode, err
	}

	body := p.newBlock(start, first, single)

	node := p.newNode(ast.WhileStmt, start)
	n := p.get(node)
	n.A, n.B = cond, body
	if infinite {
		n.Flags |= ast.IsInfiniteLoop
	}
	if optionBind {
		n.Flags |= ast.IsOptionBind
		n.Text = bindVar
	}
	p.set(node, n)
	return node, nil
}

// ---------------------------------------------------------------------
// for
// ---------------------------------------------------------------------

func (p *Parser) parseForStmt(stmtIndent int) (int32, error) {
	start := int32(p.pos)
	p.advance() // consume 'for'

	first, err := p.parseExpr()
	if err != nil {
		return ast.NoNode, err
	}
	isRange := false
	second := int32(ast.NoNode)
	if p.at(token.DotDot) {
		isRange = true
		p.advance()
		second, err = p.parseExpr()
		if err != nil {
			return ast.NoNode, err
		}
	}

	hasEach := false
	indexed := false
	var valVar, idxVar string
	if p.at(token.KwEach) {
		hasEach = true
		p.advance()
		v1, err := p.expect(token.Ident, "binding name")
		if err != nil {
			return ast.NoNode, err
		}
		valVar = v1.Text(p.src)
		if p.at(token.Comma) {
			p.advance()
			v2, err := p.expect(token.Ident, "binding name")
			if err != nil {
				return ast.NoNode, err
			}
			indexed = true
			idxVar = valVar
			valVar = v2.Text(p.src)
		}
	}

	if _, err := p.expect(token.Colon, "`:`"); err != nil {
		return ast.NoNode, err
	}

	p.blocks.Push()
	if hasEach {
		p.blocks.Declare(valVar)
		if indexed {
			p.blocks.Declare(idxVar)
		}
	}
	bodyFirst, _, single, err := p.parseIndentedBody(stmtIndent)
	p.blocks.Pop()
	if err != nil {
		return ast.NoNode, err
	}
	bodyBlock := p.newBlock(start, bodyFirst, single)

	thirdOrBody := bodyBlock
	if hasEach {
		each := p.newNode(ast.EachClause, start)
		en := p.get(each)
		en.A = bodyBlock
		if indexed {
			en.Flags |= ast.IsIterIndexed
			en.Text = idxVar + "," + valVar
		} else {
			en.Text = valVar
		}
		p.set(each, en)
		thirdOrBody = each
	}

	if isRange {
		rangeClause := p.newNode(ast.RangeClause, start)
		rn := p.get(rangeClause)
		rn.A, rn.B = first, second
		p.set(rangeClause, rn)

		node := p.newNode(ast.ForRangeStmt, start)
		n := p.get(node)
		n.A, n.B = rangeClause, thirdOrBody
		p.set(node, n)
		return node, nil
	}

	node := p.newNode(ast.ForIterStmt, start)
	n := p.get(node)
	n.A, n.B = first, thirdOrBody
	p.set(node, n)
	return node, nil
}

// ---------------------------------------------------------------------
// match
// ---------------------------------------------------------------------

func (p *Parser) parseMatchStmt(stmtIndent int) (int32, error) {
	start := int32(p.pos)
	p.advance() // consume 'match'

	subject, err := p.parseExpr()
	if err != nil {
		return ast.NoNode, err
	}
	if _, err := p.expect(token.Colon, "`:`"); err != nil {
		return ast.NoNode, err
	}
	required, err := p.expectIndentedBlockHeader(stmtIndent)
	if err != nil {
		return ast.NoNode, err
	}

	var first, last int32 = ast.NoNode, ast.NoNode
	var count int32
	for {
		if err := p.skipBlankLines(); err != nil {
			return ast.NoNode, err
		}
		if p.atEOF() || !p.at(token.Indent) {
			break
		}
		if p.cur().Indent > required {
			return ast.NoNode, p.fail(p.newError("Unexpected indentation.", p.cur().Start))
		}
		if p.cur().Indent < required {
			break
		}
		if _, err := p.consumeIndent(); err != nil {
			return ast.NoNode, err
		}
		caseNode, err := p.parseMatchCase(required)
		if err != nil {
			return ast.NoNode, err
		}
		p.chain(&first, &last, caseNode)
		count++
	}
	if count == 0 {
		return ast.NoNode, p.fail(p.newError(
			"Block requires at least one statement. Use the `pass` statement as a placeholder.", p.cur().Start))
	}

	node := p.newNode(ast.MatchStmt, start)
	n := p.get(node)
	n.A, n.B = first, subject
	p.set(node, n)
	return node, nil
}

func (p *Parser) parseMatchCase(required int) (int32, error) {
	start := int32(p.pos)

	if p.at(token.KwElse) {
		p.advance()
		if _, err := p.expect(token.Colon, "`:`"); err != nil {
			return ast.NoNode, err
		}
		p.blocks.Push()
		first, _, single, err := p.parseIndentedBody(required)
		p.blocks.Pop()
		if err != nil {
			return ast.NoNode, err
		}
		body := p.newBlock(start, first, single)

		node := p.newNode(ast.MatchCase, start)
		n := p.get(node)
		n.A, n.B, n.Text = ast.NoNode, body, "else"
		p.set(node, n)
		return node, nil
	}

	var first, last int32 = ast.NoNode, ast.NoNode
	var count int32
	for {
		cond, err := p.parseExpr()
		if err != nil {
			return ast.NoNode, err
		}
		p.chain(&first, &last, cond)
		count++
		if p.at(token.Comma) {
			p.advance()
			continue
		}
		break
	}

	if _, err := p.expect(token.Colon, "`:`"); err != nil {
		return ast.NoNode, err
	}
	p.blocks.Push()
	bodyFirst, _, single, err := p.parseIndentedBody(required)
	p.blocks.Pop()
	if err != nil {
		return ast.NoNode, err
	}
	body := p.newBlock(start, bodyFirst, single)

	node := p.newNode(ast.MatchCase, start)
	n := p.get(node)
	n.A, n.B, n.Aux = first, body, count
	p.set(node, n)
	return node, nil
}

// ---------------------------------------------------------------------
// var / capture / static
// ---------------------------------------------------------------------

/*
endDeclLine terminates a declaration statement. A block-shaped
right-hand side (match statement, multi-line lambda) has already
consumed its own line endings and left the cursor on the next line's
indent marker, so only expression right-hand sides still need the
trailing newline consumed.
*/
func (p *Parser) endDeclLine(rhs int32) error {
	if rhs != ast.NoNode {
		switch p.get(rhs).Kind {
		case ast.MatchStmt, ast.LambdaMulti:
			return nil
		}
	}
	return p.endLine()
}

/*
parseDeclRHS parses the right-hand side shared by var/capture/static
declarations: a plain expression, a match statement or a multi-line
lambda.
*/
func (p *Parser) parseDeclRHS(stmtIndent int) (int32, error) {
	if p.at(token.KwMatch) {
		return p.parseMatchStmt(stmtIndent)
	}
	if p.at(token.KwFunc) {
		return p.parseLambdaMulti()
	}
	return p.parseExpr()
}

func (p *Parser) parseVarDecl(stmtIndent int) (int32, error) {
	start := int32(p.pos)
	p.advance() // consume 'var'

	nameTok, err := p.expect(token.Ident, "variable name")
	if err != nil {
		return ast.NoNode, err
	}
	typeNode, err := p.tryParseTypeAnnotation()
	if err != nil {
		return ast.NoNode, err
	}
	if _, err := p.expect(token.Colon, "`:`"); err != nil {
		return ast.NoNode, err
	}
	rhs, err := p.parseDeclRHS(stmtIndent)
	if err != nil {
		return ast.NoNode, err
	}

	node := p.newNode(ast.VarDecl, start)
	n := p.get(node)
	n.A, n.B, n.Text = rhs, typeNode, nameTok.Text(p.src)
	p.set(node, n)

	p.blocks.Declare(n.Text)
	p.addDecl(DeclVar, node)

	if err := p.endDeclLine(rhs); err != nil {
		return ast.NoNode, err
	}
	return node, nil
}

func (p *Parser) parseCaptureOrStatic(kind ast.Kind, stmtIndent int) (int32, error) {
	start := int32(p.pos)
	p.advance() // consume 'capture'/'static'

	nameTok, err := p.expect(token.Ident, "variable name")
	if err != nil {
		return ast.NoNode, err
	}
	rhs := int32(ast.NoNode)
	if p.at(token.Equal) {
		p.advance()
		rhs, err = p.parseDeclRHS(stmtIndent)
		if err != nil {
			return ast.NoNode, err
		}
	}

	node := p.newNode(kind, start)
	n := p.get(node)
	n.A, n.Text = rhs, nameTok.Text(p.src)
	p.set(node, n)

	p.blocks.Declare(n.Text)

	if err := p.endDeclLine(rhs); err != nil {
		return ast.NoNode, err
	}
	return node, nil
}

// ---------------------------------------------------------------------
// type ... enum / object / alias
// ---------------------------------------------------------------------

func (p *Parser) parseTypeDecl(stmtIndent int) (int32, error) {
	start := int32(p.pos)
	p.advance() // consume 'type'

	nameTok, err := p.expect(token.Ident, "type name")
	if err != nil {
		return ast.NoNode, err
	}
	name := nameTok.Text(p.src)

	switch {
	case p.at(token.KwEnum):
		return p.parseEnumDecl(start, name, stmtIndent)
	case p.at(token.KwObject):
		return p.parseObjectDecl(start, name, stmtIndent)
	}

	aliasType, err := p.parseTypeSpec()
	if err != nil {
		return ast.NoNode, err
	}
	node := p.newNode(ast.TypeAliasDecl, start)
	n := p.get(node)
	n.A, n.Text = aliasType, name
	p.set(node, n)
	p.addDecl(DeclType, node)
	if err := p.endLine(); err != nil {
		return ast.NoNode, err
	}
	return node, nil
}

func (p *Parser) expectIndentedBlockHeader(stmtIndent int) (int, error) {
	if _, err := p.expect(token.NewLine, "newline"); err != nil {
		return 0, err
	}
	if err := p.skipBlankLines(); err != nil {
		return 0, err
	}
	if p.atEOF() || !p.at(token.Indent) || p.cur().Indent <= stmtIndent {
		return 0, p.fail(p.newError(
			"Block requires at least one statement. Use the `pass` statement as a placeholder.", p.cur().Start))
	}
	return p.cur().Indent, nil
}

func (p *Parser) parseEnumDecl(start int32, name string, stmtIndent int) (int32, error) {
	p.advance() // consume 'enum'
	if _, err := p.expect(token.Colon, "`:`"); err != nil {
		return ast.NoNode, err
	}
	required, err := p.expectIndentedBlockHeader(stmtIndent)
	if err != nil {
		return ast.NoNode, err
	}

	var first, last int32 = ast.NoNode, ast.NoNode
	var count int32
	for {
		if err := p.skipBlankLines(); err != nil {
			return ast.NoNode, err
		}
		if p.atEOF() || !p.at(token.Indent) {
			break
		}
		if p.cur().Indent > required {
			return ast.NoNode, p.fail(p.newError("Unexpected indentation.", p.cur().Start))
		}
		if p.cur().Indent < required {
			break
		}
		if _, err := p.consumeIndent(); err != nil {
			return ast.NoNode, err
		}
		memStart := int32(p.pos)
		memTok, err := p.expect(token.Ident, "enum member name")
		if err != nil {
			return ast.NoNode, err
		}
		mem := p.newNode(ast.EnumMember, memStart)
		p.setText(mem, memTok.Text(p.src))
		p.chain(&first, &last, mem)
		count++
		if err := p.endLine(); err != nil {
			return ast.NoNode, err
		}
	}
	if count == 0 {
		return ast.NoNode, p.fail(p.newError(
			"Block requires at least one statement. Use the `pass` statement as a placeholder.", p.cur().Start))
	}

	node := p.newNode(ast.EnumDecl, start)
	n := p.get(node)
	n.A, n.Text = first, name
	p.set(node, n)
	p.addDecl(DeclType, node)
	return node, nil
}

func (p *Parser) parseObjectDecl(start int32, name string, stmtIndent int) (int32, error) {
	p.advance() // consume 'object'
	if _, err := p.expect(token.Colon, "`:`"); err != nil {
		return ast.NoNode, err
	}
	required, err := p.expectIndentedBlockHeader(stmtIndent)
	if err != nil {
		return ast.NoNode, err
	}

	p.blocks.Push()
	var first, last int32 = ast.NoNode, ast.NoNode
	var count int32

	for {
		if err := p.skipBlankLines(); err != nil {
			p.blocks.Pop()
			return ast.NoNode, err
		}
		if p.atEOF() || !p.at(token.Indent) {
			break
		}
		if p.cur().Indent > required {
			p.blocks.Pop()
			return ast.NoNode, p.fail(p.newError("Unexpected indentation.", p.cur().Start))
		}
		if p.cur().Indent < required {
			break
		}
		if p.peek(1).Kind == token.KwFunc {
			break
		}
		if _, err := p.consumeIndent(); err != nil {
			p.blocks.Pop()
			return ast.NoNode, err
		}
		fieldStart := int32(p.pos)
		fnameTok, err := p.expect(token.Ident, "field name")
		if err != nil {
			p.blocks.Pop()
			return ast.NoNode, err
		}
		ftype, err := p.tryParseTypeAnnotation()
		if err != nil {
			p.blocks.Pop()
			return ast.NoNode, err
		}
		field := p.newNode(ast.ObjectField, fieldStart)
		fn := p.get(field)
		fn.A, fn.Text = ftype, fnameTok.Text(p.src)
		p.set(field, fn)
		p.chain(&first, &last, field)
		count++
		if err := p.endLine(); err != nil {
			p.blocks.Pop()
			return ast.NoNode, err
		}
	}

	for {
		if err := p.skipBlankLines(); err != nil {
			p.blocks.Pop()
			return ast.NoNode, err
		}
		if p.atEOF() || !p.at(token.Indent) {
			break
		}
		if p.cur().Indent > required {
			p.blocks.Pop()
			return ast.NoNode, p.fail(p.newError("Unexpected indentation.", p.cur().Start))
		}
		if p.cur().Indent < required {
			break
		}
		if _, err := p.consumeIndent(); err != nil {
			p.blocks.Pop()
			return ast.NoNode, err
		}
		if !p.at(token.KwFunc) {
			p.blocks.Pop()
			return ast.NoNode, p.fail(p.newError(
				fmt.Sprintf("Unexpected token %s in object body", p.cur().Kind), p.cur().Start))
		}
		method, err := p.parseFuncDecl(required, true)
		if err != nil {
			p.blocks.Pop()
			return ast.NoNode, err
		}
		p.chain(&first, &last, method)
		count++
	}

	p.blocks.Pop()
	if count == 0 {
		return ast.NoNode, p.fail(p.newError(
			"Block requires at least one statement. Use the `pass` statement as a placeholder.", p.cur().Start))
	}

	node := p.newNode(ast.ObjectDecl, start)
	n := p.get(node)
	n.A, n.Text = first, name
	p.set(node, n)
	p.addDecl(DeclType, node)
	return node, nil
}

// ---------------------------------------------------------------------
// func
// ---------------------------------------------------------------------

func (p *Parser) parseFuncDecl(stmtIndent int, isMethod bool) (int32, error) {
	start := int32(p.pos)
	p.advance() // consume 'func'

	nameTok, err := p.expect(token.Ident, "function name")
	if err != nil {
		return ast.NoNode, err
	}
	// Bind the name in the enclosing frame before the body is parsed so
	// a recursive call does not register as a free-variable dependency.
	p.blocks.Declare(nameTok.Text(p.src))

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
	if !p.at(token.Colon) && !p.at(token.Equal) {
		retType, err = p.tryParseTypeAnnotation()
		if err != nil {
			p.blocks.Pop()
			return ast.NoNode, err
		}
	}

	var bodyBlock int32

	if p.at(token.Equal) {
		p.advance()
		rhs, err := p.parseExpr()
		p.blocks.Pop()
		if err != nil {
			return ast.NoNode, err
		}
		exprStmt := p.newNode(ast.ExprStmt, start)
		esn := p.get(exprStmt)
		esn.A = rhs
		p.set(exprStmt, esn)

		bodyBlock = p.newBlock(start, exprStmt, true)

		if err := p.endDeclLine(rhs); err != nil {
			return ast.NoNode, err
		}
	} else {
		if _, err := p.expect(token.Colon, "`:`"); err != nil {
			p.blocks.Pop()
			return ast.NoNode, err
		}
		first, _, single, err := p.parseIndentedBody(stmtIndent)
		p.blocks.Pop()
		if err != nil {
			return ast.NoNode, err
		}
		bodyBlock = p.newBlock(start, first, single)
	}

	node := p.newNode(ast.FuncDecl, start)
	n := p.get(node)
	n.A, n.B, n.C, n.Text = params, bodyBlock, retType, nameTok.Text(p.src)
	if isMethod {
		n.Flags |= ast.IsMethod
	}
	p.set(node, n)
	if !isMethod {
		p.addDecl(DeclFunc, node)
	}
	return node, nil
}

// ---------------------------------------------------------------------
// import
// ---------------------------------------------------------------------

func (p *Parser) parseImportDecl() (int32, error) {
	start := int32(p.pos)
	p.advance() // consume 'import'

	nameTok, err := p.expect(token.Ident, "import alias")
	if err != nil {
		return ast.NoNode, err
	}
	pathExpr, err := p.parseExpr()
	if err != nil {
		return ast.NoNode, err
	}
	if p.get(pathExpr).Kind != ast.StringLit {
		return ast.NoNode, p.fail(p.newError("Import target must be a string literal", p.toks[int(start)].Start))
	}

	node := p.newNode(ast.ImportDecl, start)
	n := p.get(node)
	n.A, n.Text = pathExpr, nameTok.Text(p.src)
	p.set(node, n)
	p.addDecl(DeclImport, node)
	if err := p.endLine(); err != nil {
		return ast.NoNode, err
	}
	return node, nil
}

// ---------------------------------------------------------------------
// expression / assignment statements and the no-paren call form
// ---------------------------------------------------------------------

/*
canStartNoParenArg is stricter than canStartTerm: operator-led tokens
are excluded so that `x -1` parses as the binary expression `x - 1`
rather than the no-paren call `x(-1)`. This resolves, in the binary
operator's favor, an ambiguity the grammar otherwise leaves open.
*/
func canStartNoParenArg(tok token.Token) bool {
	return canStartTerm(tok) && tok.Kind != token.Operator
}

/*
startsPrefixTerm reports whether tok begins a term that only the prefix
layer (or a lambda/if-expression atom) can produce, never a tight-term.
*/
func startsPrefixTerm(tok token.Token) bool {
	switch tok.Kind {
	case token.KwNot, token.KwThrow, token.KwTry, token.KwCoresume,
		token.KwCoyield, token.KwCoinit, token.KwFunc:
		return true
	case token.Operator:
		return tok.Op == token.OpMinus || tok.Op == token.OpTilde || tok.Op == token.OpBang
	}
	return false
}

func (p *Parser) parseExprOrAssignStmt() (int32, error) {
	start := int32(p.pos)

	c := p.cur()
	if !canStartTerm(c) && c.Kind != token.KwFunc && c.Kind != token.LeftBrace {
		return ast.NoNode, p.fail(p.newUnknownTokenError(
			fmt.Sprintf("Unknown token %s", c.Kind), c.Start))
	}

	// A statement led by a prefix form or a lambda literal can never be
	// an assignment or a no-paren call; parse the whole term and carry
	// on through the binary grammar directly.
	if startsPrefixTerm(c) {
		term, err := p.parseTerm()
		if err != nil {
			return ast.NoNode, err
		}
		left, err := p.continueBinaryFrom(term)
		if err != nil {
			return ast.NoNode, err
		}
		stmt := p.newNode(ast.ExprStmt, start)
		sn := p.get(stmt)
		sn.A = left
		p.set(stmt, sn)
		if err := p.endLine(); err != nil {
			return ast.NoNode, err
		}
		return stmt, nil
	}

	base, err := p.parseTightTerm()
	if err != nil {
		return ast.NoNode, err
	}

	baseKind := p.get(base).Kind
	if (baseKind == ast.Ident || baseKind == ast.AccessExpr) &&
		!p.at(token.NewLine) && !p.atEOF() && canStartNoParenArg(p.cur()) {
		call, err := p.finishNoParenCall(base, start)
		if err != nil {
			return ast.NoNode, err
		}
		stmt := p.newNode(ast.ExprStmt, start)
		sn := p.get(stmt)
		sn.A = call
		p.set(stmt, sn)
		if err := p.endLine(); err != nil {
			return ast.NoNode, err
		}
		return stmt, nil
	}

	if assignOp, isAssign := p.classifyAssignOp(); isAssign {
		return p.finishAssignStmt(base, start, assignOp)
	}

	// Not a tight-term alone: continue through the full binary-expression
	// grammar (the tight-term we already parsed acts as its left operand).
	left, err := p.continueBinaryFrom(base)
	if err != nil {
		return ast.NoNode, err
	}

	if assignOp, isAssign := p.classifyAssignOp(); isAssign {
		return p.finishAssignStmt(left, start, assignOp)
	}

	stmt := p.newNode(ast.ExprStmt, start)
	sn := p.get(stmt)
	sn.A = left
	p.set(stmt, sn)
	if err := p.endLine(); err != nil {
		return ast.NoNode, err
	}
	return stmt, nil
}

func (p *Parser) finishNoParenCall(callee, start int32) (int32, error) {
	var argsFirst, argsLast int32 = ast.NoNode, ast.NoNode
	var count int32

	for canStartNoParenArg(p.cur()) && !p.at(token.NewLine) && !p.atEOF() {
		arg, err := p.parseTightTerm()
		if err != nil {
			return ast.NoNode, err
		}
		p.chain(&argsFirst, &argsLast, arg)
		count++
	}

	node := p.newNode(ast.CallExpr, start)
	n := p.get(node)
	n.A, n.B, n.Aux = argsFirst, callee, count
	p.set(node, n)
	return node, nil
}

/*
continueBinaryFrom resumes precedence-climbing parsing with an
already-parsed tight-term as the left operand, covering plain
expression statements (e.g. `1 + 2`) whose outermost form is not a
no-paren call. Unlike parseBinary's loop it never looks past a line
break for the operator: a newline here is a statement boundary, and
the line-break tolerance only applies while a right operand is being
parsed.
*/
func (p *Parser) continueBinaryFrom(left int32) (int32, error) {
	for {
		prec := p.binOpPrecedence(p.cur())
		if prec < 0 {
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
			n.A, n.Text = left, p.nodeTypeName(typeNode)
			p.set(node, n)
			left = node
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
classifyAssignOp reports whether the cursor sits at an assignment
operator and, if so, which one - without consuming it.
*/
func (p *Parser) classifyAssignOp() (token.OpKind, bool) {
	c := p.cur()
	if c.Kind == token.Equal {
		return token.OpNone, true
	}
	if c.Kind == token.Operator {
		switch c.Op {
		case token.OpPlusEqual, token.OpMinusEqual, token.OpStarEqual, token.OpSlashEqual:
			return c.Op, true
		}
	}
	return token.OpNone, false
}

/*
finishAssignStmt builds an Assign or OpAssign node from an
already-parsed, already-validated left-hand side.
*/
func (p *Parser) finishAssignStmt(lhs, start int32, op token.OpKind) (int32, error) {
	lk := p.get(lhs).Kind
	if lk != ast.Ident && lk != ast.AccessExpr && lk != ast.IndexExpr {
		return ast.NoNode, p.fail(p.newError(
			"Left-hand side of assignment must be an identifier, access expression or index expression",
			p.toks[int(start)].Start))
	}

	p.advance() // consume '=' or the compound operator
	rhs, err := p.parseExpr()
	if err != nil {
		return ast.NoNode, err
	}

	kind := ast.Assign
	if op != token.OpNone {
		kind = ast.OpAssign
	}
	node := p.newNode(kind, start)
	n := p.get(node)
	n.A, n.B, n.Op = lhs, rhs, op
	p.set(node, n)

	if lk == ast.Ident && op == token.OpNone {
		p.declare(p.get(lhs).Text, lhs)
	}

	if err := p.endLine(); err != nil {
		return ast.NoNode, err
	}
	return node, nil
}
