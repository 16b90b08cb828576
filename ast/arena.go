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

import "github.com/krotik/common/errorutil"

/*
Arena is a growable, append-only array of Nodes. It is the backing
store for a single parse; a Parser retains one Arena across multiple
parses and clears-but-retains its capacity between them.
*/
type Arena struct {
	nodes []Node
}

/*
NewArena creates an Arena with a given initial capacity.
*/
func NewArena(capacity int) *Arena {
	return &Arena{nodes: make([]Node, 0, capacity)}
}

/*
Reset clears the arena's logical contents while keeping the backing
array allocation.
*/
func (a *Arena) Reset() {
	a.nodes = a.nodes[:0]
}

/*
Add appends a Node and returns its index.
*/
func (a *Arena) Add(n Node) int32 {
	idx := int32(len(a.nodes))
	a.nodes = append(a.nodes, n)
	return idx
}

/*
Len returns the number of nodes currently in the arena.
*/
func (a *Arena) Len() int {
	return len(a.nodes)
}

/*
Node returns the node at idx by value.
*/
func (a *Arena) Node(idx int32) Node {
	errorutil.AssertTrue(idx >= 0 && int(idx) < len(a.nodes), "node index out of range")
	return a.nodes[idx]
}

/*
Set overwrites the node at idx. Used by productions that build a node
incrementally (e.g. attaching children once they are parsed).
*/
func (a *Arena) Set(idx int32, n Node) {
	errorutil.AssertTrue(idx >= 0 && int(idx) < len(a.nodes), "node index out of range")
	a.nodes[idx] = n
}

/*
Truncate discards every node at index mark and beyond, undoing the
appends made since Len returned mark. Used by trial parses that rewind.
*/
func (a *Arena) Truncate(mark int) {
	errorutil.AssertTrue(mark >= 0 && mark <= len(a.nodes), "truncate mark out of range")
	a.nodes = a.nodes[:mark]
}

/*
Nodes returns the full backing slice. Callers that outlive the Arena
must copy it (see the deep-copy helper in package parser).
*/
func (a *Arena) Nodes() []Node {
	return a.nodes
}

/*
Children returns the indices of all children chained from a node's A
slot, in source order. This is the generic "variable-arity list"
walk described in node.go's per-kind conventions.
*/
func (a *Arena) Children(n Node) []int32 {
	var out []int32
	for c := n.A; c != NoNode; c = a.Node(c).Next {
		out = append(out, c)
	}
	return out
}

/*
Siblings returns idx and every node chained after it via Next, in
source order.
*/
func (a *Arena) Siblings(idx int32) []int32 {
	var out []int32
	for idx != NoNode {
		out = append(out, idx)
		idx = a.Node(idx).Next
	}
	return out
}
