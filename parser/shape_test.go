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
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/krotik/selene/ast"
)

/*
shape is a structural projection of an ast.Node subtree: kind, literal
text and operator, and the A/B/C/chain children recursively resolved -
everything a regression test should care about, and nothing that would
make a cmp.Diff noisy (StartToken/Next/Aux are arena bookkeeping, not
tree shape).
*/
type shape struct {
	Kind    ast.Kind
	Text    string
	Op      string
	Flags   ast.Flags
	A, B, C *shape
	Chain   []*shape
}

func shapeOf(a *ast.Arena, id int32) *shape {
	if id == ast.NoNode {
		return nil
	}
	n := a.Node(id)
	s := &shape{Kind: n.Kind, Text: n.Text, Op: n.Op.String(), Flags: n.Flags}

	switch n.Kind {
	case ast.Root, ast.Block, ast.ListLit, ast.MapLit, ast.ObjectDecl,
		ast.EnumDecl, ast.CallExpr, ast.LambdaExpr, ast.FuncDecl, ast.LambdaMulti,
		ast.MatchStmt, ast.MatchCase, ast.TemplateStringLit, ast.ObjectInit:
		for _, c := range a.Children(n) {
			s.Chain = append(s.Chain, shapeOf(a, c))
		}
		s.B = shapeOf(a, n.B)
		s.C = shapeOf(a, n.C)
	default:
		s.A = shapeOf(a, n.A)
		s.B = shapeOf(a, n.B)
		s.C = shapeOf(a, n.C)
	}
	return s
}

// TestBinaryPrecedenceShapeMatchesOperatorTable pins down the exact
// grouping the precedence table produces, diffing a whole expected
// tree shape with go-cmp instead of asserting on each field by hand.
func TestBinaryPrecedenceShapeMatchesOperatorTable(t *testing.T) {
	r := parseOK(t, "1 < 2 * 3 - 4\n")

	a := ast.NewArena(len(r.Nodes))
	for _, n := range r.Nodes {
		a.Add(n)
	}

	stmts := rootStatements(t, r)
	require.Len(t, stmts, 1)
	got := shapeOf(a, stmts[0].A)

	want := &shape{
		Kind: ast.BinaryExpr, Op: "<",
		A: &shape{Kind: ast.NumberLit, Text: "1"},
		B: &shape{
			Kind: ast.BinaryExpr, Op: "-",
			A: &shape{
				Kind: ast.BinaryExpr, Op: "*",
				A: &shape{Kind: ast.NumberLit, Text: "2"},
				B: &shape{Kind: ast.NumberLit, Text: "3"},
			},
			B: &shape{Kind: ast.NumberLit, Text: "4"},
		},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("parsed shape mismatch for \"1 < 2 * 3 - 4\" (-want +got):\n%s", diff)
	}
}

// TestFuncDeclShapeHasParamsBodyAndReturnType exercises a fixed-arity
// declaration node (params chain + body Block + return-type slot)
// through the same shape/cmp.Diff harness.
func TestFuncDeclShapeHasParamsBodyAndReturnType(t *testing.T) {
	r := parseOK(t, "func add(a, b) int:\n  return a + b\n")

	a := ast.NewArena(len(r.Nodes))
	for _, n := range r.Nodes {
		a.Add(n)
	}

	stmts := rootStatements(t, r)
	require.Len(t, stmts, 1)
	require.Equal(t, ast.FuncDecl, stmts[0].Kind)

	root := a.Node(r.RootID)
	gotDecl := shapeOf(a, root.A)

	want := &shape{
		Kind: ast.FuncDecl,
		Text: "add",
		Chain: []*shape{
			{Kind: ast.Param, Text: "a"},
			{Kind: ast.Param, Text: "b"},
		},
		B: &shape{
			Kind: ast.Block,
			Chain: []*shape{
				{
					Kind: ast.ReturnExprStmt,
					A: &shape{
						Kind: ast.BinaryExpr, Op: "+",
						A: &shape{Kind: ast.Ident, Text: "a"},
						B: &shape{Kind: ast.Ident, Text: "b"},
					},
				},
			},
		},
		C: &shape{Kind: ast.Ident, Text: "int"},
	}

	if diff := cmp.Diff(want, gotDecl); diff != "" {
		t.Errorf("parsed shape mismatch for func decl (-want +got):\n%s", diff)
	}
}
