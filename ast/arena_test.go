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
	"testing"

	"github.com/stretchr/testify/assert"
)

/*
buildChain adds len(kinds) nodes to a, chained sibling-after-sibling
via Next, and returns the first node's index - the shape Children
walks for a Block's statement list.
*/
func buildChain(a *Arena, kinds ...Kind) int32 {
	first := NoNode
	var prev int32 = NoNode
	for _, k := range kinds {
		n := New(k, 0)
		idx := a.Add(n)
		if prev != NoNode {
			cur := a.Node(prev)
			cur.Next = idx
			a.Set(prev, cur)
		} else {
			first = idx
		}
		prev = idx
	}
	return first
}

func TestAddReturnsSequentialIndices(t *testing.T) {
	a := NewArena(4)
	i0 := a.Add(New(ExprStmt, 0))
	i1 := a.Add(New(PassStmt, 1))
	assert.Equal(t, int32(0), i0)
	assert.Equal(t, int32(1), i1)
	assert.Equal(t, 2, a.Len())
}

func TestChildrenWalksNextChainInSourceOrder(t *testing.T) {
	a := NewArena(8)
	first := buildChain(a, ExprStmt, PassStmt, BreakStmt)

	root := New(Block, 0)
	root.A = first
	rootIdx := a.Add(root)

	children := a.Children(a.Node(rootIdx))
	assert.Len(t, children, 3)

	var gotKinds []Kind
	for _, c := range children {
		gotKinds = append(gotKinds, a.Node(c).Kind)
	}
	assert.Equal(t, []Kind{ExprStmt, PassStmt, BreakStmt}, gotKinds)
}

func TestChildrenOfNodeWithNoChildrenIsEmpty(t *testing.T) {
	a := NewArena(2)
	n := New(PassStmt, 0)
	assert.Empty(t, a.Children(n))
}

func TestSiblingsIncludesStartingNode(t *testing.T) {
	a := NewArena(8)
	first := buildChain(a, ExprStmt, PassStmt, BreakStmt)

	sibs := a.Siblings(first)
	assert.Len(t, sibs, 3)
	assert.Equal(t, first, sibs[0])
}

func TestResetClearsLengthButKeepsCapacity(t *testing.T) {
	a := NewArena(4)
	a.Add(New(ExprStmt, 0))
	a.Add(New(PassStmt, 1))
	assert.Equal(t, 2, a.Len())

	a.Reset()
	assert.Equal(t, 0, a.Len())
	assert.Equal(t, 4, cap(a.Nodes()))

	idx := a.Add(New(BreakStmt, 0))
	assert.Equal(t, int32(0), idx)
}

func TestTruncateDiscardsTrailingNodes(t *testing.T) {
	a := NewArena(4)
	a.Add(New(ExprStmt, 0))
	mark := a.Len()
	a.Add(New(PassStmt, 1))
	a.Add(New(BreakStmt, 2))

	a.Truncate(mark)
	assert.Equal(t, 1, a.Len())
	assert.Equal(t, ExprStmt, a.Node(0).Kind)
}

func TestSetOverwritesNodeInPlace(t *testing.T) {
	a := NewArena(2)
	idx := a.Add(New(ExprStmt, 0))

	n := a.Node(idx)
	n.A = 99
	a.Set(idx, n)

	assert.Equal(t, int32(99), a.Node(idx).A)
}

func TestNodesExposesBackingSliceInOrder(t *testing.T) {
	a := NewArena(4)
	a.Add(New(ExprStmt, 0))
	a.Add(New(PassStmt, 1))

	nodes := a.Nodes()
	assert.Len(t, nodes, 2)
	assert.Equal(t, ExprStmt, nodes[0].Kind)
	assert.Equal(t, PassStmt, nodes[1].Kind)
}
