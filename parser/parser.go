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
Package parser implements the recursive-descent, precedence-climbing
parser that turns a token stream into a flat AST node array. It also
tracks free-variable dependencies and the top-level static declaration
list while it parses.
*/
package parser

import (
	"fmt"

	"github.com/krotik/common/errorutil"
	"github.com/krotik/selene/ast"
	"github.com/krotik/selene/config"
	"github.com/krotik/selene/lexer"
	"github.com/krotik/selene/scope"
	"github.com/krotik/selene/token"
)

/*
Parser is long-lived and reusable across many Parse calls: each call
clears logical contents (tokens, arena, block stack, dependency map,
declaration list) while keeping the backing allocations.
*/
type Parser struct {
	toks   []token.Token
	arena  *ast.Arena
	blocks *scope.Stack

	deps  map[string]int32
	decls []Declaration

	src  []byte
	name string
	pos  int

	err *Error

	// indentIsTabs records which whitespace character the parse has
	// committed to for indentation; nil until the first non-zero
	// indent marker is consumed. A later marker of the other kind is a
	// hard error - the tabs-vs-spaces choice is a whole-parse
	// property, not a per-block one.
	indentIsTabs *bool
}

/*
New creates a Parser whose initial buffer capacities come from the
config package's tunables. Buffers are allocated once here and reused
across parses.
*/
func New() *Parser {
	return &Parser{
		toks:   make([]token.Token, 0, config.Int(config.InitialTokenCapacity)),
		arena:  ast.NewArena(config.Int(config.InitialNodeCapacity)),
		blocks: scope.NewStack(config.Int(config.InitialBlockDepth)),
		deps:   make(map[string]int32, 16),
		decls:  make([]Declaration, 0, 8),
	}
}

/*
reset clears all per-parse state while keeping backing arrays.
*/
func (p *Parser) reset(name string, src []byte) {
	p.toks = p.toks[:0]
	p.arena.Reset()
	p.blocks.Reset()
	for k := range p.deps {
		delete(p.deps, k)
	}
	p.decls = p.decls[:0]
	p.src = src
	p.name = name
	p.pos = 0
	p.err = nil
	p.indentIsTabs = nil
}

/*
Parse tokenizes and parses src, returning a borrowing ResultView. The
Parser may be reused for further Parse calls; the returned view is
only valid until the next such call (see ResultView.Dupe).
*/
func (p *Parser) Parse(name string, src []byte) *ResultView {
	p.reset(name, src)

	toks, lexErr := lexer.Tokenize(src, false, p.toks)
	p.toks = toks

	if lexErr != nil {
		var msg string
		pos := 0
		if le, ok := lexErr.(*lexer.Error); ok {
			msg = le.Msg
			pos = le.Pos
		} else {
			msg = lexErr.Error()
		}
		perr := p.newLexError(msg, pos)
		p.err = perr
		return p.errorResult(perr.Msg, perr.Pos, perr.Line, perr.Column, true)
	}

	rootID, perr := p.parseRoot()
	if perr != nil {
		pe := perr.(*Error)
		isTok := pe.Source == LexerSide
		return p.errorResult(pe.Msg, pe.Pos, pe.Line, pe.Column, isTok)
	}

	return &ResultView{
		RootID: rootID,
		Nodes:  p.arena.Nodes(),
		Tokens: p.toks,
		Src:    p.src,
		Name:   p.name,
		Deps:   p.deps,
		Decls:  p.decls,
	}
}

/*
ParseNoErr runs Parse and returns a plain Go error alongside the view
when HasError is set, for callers that prefer the idiomatic
(value, error) shape over checking HasError themselves.
*/
func (p *Parser) ParseNoErr(name string, src []byte) (*ResultView, error) {
	r := p.Parse(name, src)
	if r.HasError {
		return r, fmt.Errorf("%s", r.ErrMsg)
	}
	return r, nil
}

func (p *Parser) errorResult(msg string, pos, line, col int, isTokenError bool) *ResultView {
	return &ResultView{
		HasError:     true,
		IsTokenError: isTokenError,
		ErrMsg:       msg,
		ErrPos:       pos,
		ErrLine:      line,
		ErrColumn:    col,
		RootID:       ast.NoNode,
		Nodes:        p.arena.Nodes(),
		Tokens:       p.toks,
		Src:          p.src,
		Name:         p.name,
		Deps:         p.deps,
		Decls:        p.decls,
	}
}

// ---------------------------------------------------------------------
// Token cursor helpers
// ---------------------------------------------------------------------

func (p *Parser) cur() token.Token {
	if p.pos >= len(p.toks) {
		return token.Token{Kind: token.EOF, Start: len(p.src), End: len(p.src)}
	}
	return p.toks[p.pos]
}

func (p *Parser) curText() string {
	return p.cur().Text(p.src)
}

func (p *Parser) peek(n int) token.Token {
	idx := p.pos + n
	if idx >= len(p.toks) {
		return token.Token{Kind: token.EOF, Start: len(p.src), End: len(p.src)}
	}
	return p.toks[idx]
}

func (p *Parser) atEOF() bool {
	return p.pos >= len(p.toks) || p.cur().Kind == token.EOF
}

func (p *Parser) at(k token.Kind) bool {
	return p.cur().Kind == k
}

func (p *Parser) atOp(op token.OpKind) bool {
	c := p.cur()
	return c.Kind == token.Operator && c.Op == op
}

func (p *Parser) advance() token.Token {
	t := p.cur()
	if p.pos < len(p.toks) {
		p.pos++
	}
	return t
}

func (p *Parser) expect(k token.Kind, what string) (token.Token, error) {
	if !p.at(k) {
		return token.Token{}, p.fail(p.newError(
			fmt.Sprintf("Expected %s but found %s", what, p.cur().Kind), p.cur().Start))
	}
	return p.advance(), nil
}

/*
skipBlankLines consumes NewLine tokens that carry no content, i.e. an
Indent token immediately followed by another NewLine. Blank physical
lines are invisible to the block-indentation rules.
*/
func (p *Parser) skipBlankLines() error {
	for {
		if p.at(token.NewLine) {
			p.advance()
			continue
		}
		if p.at(token.Indent) && p.peek(1).Kind == token.NewLine {
			p.advance()
			p.advance()
			continue
		}
		return nil
	}
}

/*
skipLineBreaks consumes newline and indent tokens inside a bracketed
construct ((...), [...], {...}), where line structure is insignificant:
unlike skipBlankLines it also eats the leading Indent of a non-blank
continuation line, so elements may be spread over indented lines.
*/
func (p *Parser) skipLineBreaks() {
	for p.at(token.NewLine) || p.at(token.Indent) {
		p.advance()
	}
}

/*
endLine consumes the statement-terminating newline, if present. A
statement may also legitimately end at EOF.
*/
func (p *Parser) endLine() error {
	if p.at(token.NewLine) {
		p.advance()
		return nil
	}
	if p.atEOF() {
		return nil
	}
	return p.fail(p.newError(
		fmt.Sprintf("Expected end of line but found %s", p.cur().Kind), p.cur().Start))
}

/*
consumeIndent consumes the Indent token at the cursor (the caller must
have already checked one is there) and validates the whole-parse
tabs-vs-spaces consistency rule, returning the indent's encoded value.
*/
func (p *Parser) consumeIndent() (int, error) {
	tok := p.cur()
	errorutil.AssertTrue(tok.Kind == token.Indent, "consumeIndent called without an indent token")
	count, tabs := tok.IndentKind()

	// A zero-count indent carries no whitespace at all, so it cannot
	// commit the parse to either kind.
	if count > 0 {
		if p.indentIsTabs == nil {
			v := tabs
			p.indentIsTabs = &v
		} else if *p.indentIsTabs != tabs {
			return 0, p.fail(p.newError("Can not mix tabs and spaces for indentation", tok.Start))
		}
	}

	p.advance()
	return tok.Indent, nil
}

/*
parseRoot implements §4.2's root production: the first physical line
must carry exactly one zero-valued indent measurement, then the root
behaves like any other block whose required indent is 0.
*/
func (p *Parser) parseRoot() (int32, error) {
	if err := p.skipBlankLines(); err != nil {
		return ast.NoNode, err
	}

	root := p.arena.Add(ast.New(ast.Root, int32(p.pos)))

	if p.atEOF() {
		return root, nil
	}

	if !p.at(token.Indent) {
		return ast.NoNode, p.fail(p.newError("Expected indentation", p.cur().Start))
	}
	if p.cur().Indent != 0 {
		return ast.NoNode, p.fail(p.newError("Unexpected indentation.", p.cur().Start))
	}

	first, count, err := p.parseBlockStatements(0)
	if err != nil {
		return ast.NoNode, err
	}

	n := p.arena.Node(root)
	n.A = first
	n.Aux = count
	p.arena.Set(root, n)
	return root, nil
}

/*
parseBlockStatements is the generic block-body loop used by the root
production and by every block-opening statement. It consumes leading
Indent tokens at exactly `required`, stopping (without consuming) at
the first Indent token of lesser value and failing on one of greater
value.
*/
func (p *Parser) parseBlockStatements(required int) (first int32, count int32, err error) {
	first = ast.NoNode
	var last int32 = ast.NoNode

	for {
		if err := p.skipBlankLines(); err != nil {
			return first, count, err
		}
		if p.atEOF() {
			break
		}
		if !p.at(token.Indent) {
			break
		}
		if p.cur().Indent > required {
			return first, count, p.fail(p.newError("Unexpected indentation.", p.cur().Start))
		}
		if p.cur().Indent < required {
			break
		}

		if _, err := p.consumeIndent(); err != nil {
			return first, count, err
		}

		stmtNode, err := p.parseStatement(required)
		if err != nil {
			return first, count, err
		}

		if first == ast.NoNode {
			first = stmtNode
		} else {
			ln := p.arena.Node(last)
			ln.Next = stmtNode
			p.arena.Set(last, ln)
		}
		last = stmtNode
		count++
	}

	return first, count, nil
}

/*
parseIndentedBody parses the body of a construct introduced by `:`: a
single inline statement if the next token is not a newline, otherwise
a newline-delimited, indented block.
*/
func (p *Parser) parseIndentedBody(stmtIndent int) (first int32, count int32, single bool, err error) {
	if !p.at(token.NewLine) {
		stmtNode, err := p.parseStatement(stmtIndent)
		if err != nil {
			return ast.NoNode, 0, true, err
		}
		return stmtNode, 1, true, nil
	}

	p.advance() // consume newline
	if err := p.skipBlankLines(); err != nil {
		return ast.NoNode, 0, false, err
	}
	if p.atEOF() || !p.at(token.Indent) || p.cur().Indent <= stmtIndent {
		return ast.NoNode, 0, false, p.fail(p.newError(
			"Block requires at least one statement. Use the `pass` statement as a placeholder.", p.cur().Start))
	}

	required := p.cur().Indent
	first, count, err = p.parseBlockStatements(required)
	if err != nil {
		return ast.NoNode, 0, false, err
	}
	if count == 0 {
		return ast.NoNode, 0, false, p.fail(p.newError(
			"Block requires at least one statement. Use the `pass` statement as a placeholder.", p.cur().Start))
	}
	return first, count, false, nil
}

/*
siblingClause peeks for an Indent token equal to stmtIndent immediately
followed by keyword kw (e.g. an `else` or `catch` continuing an `if`
or `try` at the same indent as the statement it attaches to) and
consumes both only on a match.
*/
func (p *Parser) siblingClause(stmtIndent int, kw token.Kind) (bool, error) {
	if err := p.skipBlankLines(); err != nil {
		return false, err
	}
	if !p.at(token.Indent) || p.cur().Indent != stmtIndent {
		return false, nil
	}
	if p.peek(1).Kind != kw {
		return false, nil
	}
	if _, err := p.consumeIndent(); err != nil {
		return false, err
	}
	p.advance() // consume the keyword
	return true, nil
}

/*
rewind undoes a trial parse: it restores the token cursor, discards
the nodes the trial appended and drops any dependency entry whose
first reference was one of those discarded nodes.
*/
func (p *Parser) rewind(pos, arenaMark int) {
	p.pos = pos
	for name, id := range p.deps {
		if int(id) >= arenaMark {
			delete(p.deps, name)
		}
	}
	p.arena.Truncate(arenaMark)
}

/*
declare records name as bound in the current block frame and retracts
a prior dependency-map entry for it, but only when that entry's
recorded node id is exactly refNode - so a later shadowing declaration
cannot cancel an unrelated, still-free reference recorded earlier
under the same name.
*/
func (p *Parser) declare(name string, refNode int32) {
	p.blocks.Declare(name)
	if id, ok := p.deps[name]; ok && id == refNode {
		delete(p.deps, name)
	}
}

/*
noteReference checks name against the block stack and records it as a
free-variable dependency on its first unbound reference.
*/
func (p *Parser) noteReference(name string, nodeID int32) {
	if p.blocks.IsDeclared(name) {
		return
	}
	if _, ok := p.deps[name]; !ok {
		p.deps[name] = nodeID
	}
}

func (p *Parser) addDecl(kind DeclKind, node int32) {
	p.decls = append(p.decls, Declaration{Kind: kind, Node: node})
}

/*
newNode allocates a node of kind anchored at the token index tok.
*/
func (p *Parser) newNode(kind ast.Kind, tok int32) int32 {
	return p.arena.Add(ast.New(kind, tok))
}

/*
newBlock allocates a Block node anchoring the statement chain first;
single marks the inline `: stmt` body form.
*/
func (p *Parser) newBlock(start, first int32, single bool) int32 {
	node := p.newNode(ast.Block, start)
	n := p.get(node)
	n.A = first
	if single {
		n.Flags |= ast.IsSingleLine
	}
	p.set(node, n)
	return node
}

func (p *Parser) set(idx int32, n ast.Node) {
	p.arena.Set(idx, n)
}

func (p *Parser) get(idx int32) ast.Node {
	return p.arena.Node(idx)
}

/*
chain appends node to the singly-linked list whose current tail is
*last (ast.NoNode if the list is still empty) and whose head is
*first, updating both in place.
*/
func (p *Parser) chain(first, last *int32, node int32) {
	if *first == ast.NoNode {
		*first = node
	} else {
		ln := p.get(*last)
		ln.Next = node
		p.set(*last, ln)
	}
	*last = node
}
