/*
 * Selene
 *
 * Copyright 2020 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package ast

import (
	"bytes"
	"fmt"

	"github.com/krotik/common/stringutil"
)

/*
IndentationLevel is the number of spaces used per tree depth when
printing an Arena.
*/
const IndentationLevel = 2

var kindNames = map[Kind]string{
	Root: "root", Block: "block", ExprStmt: "exprstmt", Assign: "assign",
	OpAssign: "opassign", LabelBlockDecl: "labelblock", PassStmt: "pass",
	BreakStmt: "break", ContinueStmt: "continue", ReturnStmt: "return",
	ReturnExprStmt: "returnexpr", AtStmt: "atstmt", TryStmt: "trystmt",
	VarDecl: "var", CaptureDecl: "capture", StaticDecl: "static",
	FuncDecl: "func", LambdaMulti: "lambdamulti", ObjectDecl: "object",
	ObjectField: "objectfield", EnumDecl: "enum", EnumMember: "enummember",
	TypeAliasDecl: "typealias", ImportDecl: "import", Param: "param",
	IfStmt: "if", ElseClause: "else", WhileStmt: "while",
	ForRangeStmt: "forrange", ForIterStmt: "foriter", EachClause: "each",
	RangeClause: "range", MatchStmt: "match", MatchCase: "case",
	Ident: "ident", NumberLit: "number", NonDecimalIntLit: "non_decimal_int",
	StringLit: "string", TemplateStringLit: "template_string",
	TemplateStringSegment: "template_segment", TrueLit: "true",
	FalseLit: "false", NoneLit: "none", SymbolLit: "symbol",
	ErrorSymbolLit: "error_symbol", ListLit: "list", MapLit: "map",
	MapEntry: "map_entry", ObjectInit: "object_init", GroupExpr: "group",
	BinaryExpr: "binary", AndExpr: "and", OrExpr: "or", UnaryExpr: "unary",
	AccessExpr: "access", IndexExpr: "index", SliceExpr: "slice",
	CastExpr: "cast", CallExpr: "call", NamedArg: "named_arg",
	IfExpr: "if_expr", IfExprElseClause: "if_expr_else", TryExpr: "try_expr",
	ThrowExpr: "throw", CoinitExpr: "coinit", CoyieldExpr: "coyield",
	CoresumeExpr: "coresume", AtExpr: "at_expr", LambdaExpr: "lambda",
}

/*
String returns the readable name of a node Kind.
*/
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

/*
Print renders the tree rooted at idx as an indented listing, one node
per line, children one level deeper than their parent.
*/
func (a *Arena) Print(idx int32, src []byte) string {
	var buf bytes.Buffer
	a.levelString(idx, 0, src, &buf)
	return buf.String()
}

func (a *Arena) levelString(idx int32, indent int, src []byte, buf *bytes.Buffer) {
	if idx == NoNode {
		return
	}

	n := a.Node(idx)
	buf.WriteString(stringutil.GenerateRollingString(" ", indent*IndentationLevel))

	switch n.Kind {
	case Ident, NumberLit, NonDecimalIntLit, StringLit, SymbolLit, ErrorSymbolLit,
		AccessExpr, CastExpr, ObjectField, EnumMember, Param:
		buf.WriteString(fmt.Sprintf("%v: %v", n.Kind, n.Text))
	case BinaryExpr, OpAssign, UnaryExpr:
		buf.WriteString(fmt.Sprintf("%v: %v", n.Kind, n.Op))
	default:
		buf.WriteString(n.Kind.String())
	}
	buf.WriteString("\n")

	// B and C are always single fixed children (never list heads);
	// print them first, then walk the full A chain, since A may anchor
	// a variable-arity list of children (see node.go's per-kind table).
	a.levelString(n.B, indent+1, src, buf)
	a.levelString(n.C, indent+1, src, buf)

	for c := n.A; c != NoNode; c = a.Node(c).Next {
		a.levelString(c, indent+1, src, buf)
	}
}
