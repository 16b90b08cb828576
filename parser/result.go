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
	"github.com/krotik/selene/ast"
	"github.com/krotik/selene/token"
)

/*
DeclKind identifies the kind of a top-level static declaration.
*/
type DeclKind int

const (
	DeclVar DeclKind = iota
	DeclFunc
	DeclType
	DeclImport
)

/*
Declaration is one entry of the static declaration list: a top-level
var/func/type/import discovered during parsing, in source order.
*/
type Declaration struct {
	Kind DeclKind
	Node int32
}

/*
ResultView is the non-owning view a Parse call returns: every slice
and map here aliases the Parser's own retained buffers and is only
valid until the next call to Parse on the same Parser. Use Dupe to
obtain an owned, independent snapshot.
*/
type ResultView struct {
	HasError     bool
	IsTokenError bool
	ErrMsg       string
	ErrPos       int
	ErrLine      int
	ErrColumn    int

	RootID int32
	Nodes  []ast.Node
	Tokens []token.Token
	Src    []byte
	Name   string

	// Deps maps a free (unbound) name to the node id of its first
	// reference. Keys are ordinary Go strings - already independent
	// copies of the source bytes, since converting a []byte slice to
	// a string always copies in Go - but the Nodes/Tokens/Src slices
	// here still alias the Parser's retained buffers.
	Deps map[string]int32

	Decls []Declaration
}

/*
Dupe produces an owned, independent copy of a ResultView: the node
array, token array, source bytes and declaration list are copied into
freshly allocated storage, so a later Reset/Parse call on the owning
Parser cannot change anything the caller holds. The dependency map's
keys are plain Go strings and are already independent of Src (see the
ResultView.Deps doc comment); Dupe still rebuilds the map so the
returned value shares no backing array with the original.
*/
func (r *ResultView) Dupe() *ResultView {
	nodes := make([]ast.Node, len(r.Nodes))
	copy(nodes, r.Nodes)

	toks := make([]token.Token, len(r.Tokens))
	copy(toks, r.Tokens)

	src := make([]byte, len(r.Src))
	copy(src, r.Src)

	decls := make([]Declaration, len(r.Decls))
	copy(decls, r.Decls)

	deps := make(map[string]int32, len(r.Deps))
	for k, v := range r.Deps {
		deps[k] = v
	}

	return &ResultView{
		HasError:     r.HasError,
		IsTokenError: r.IsTokenError,
		ErrMsg:       r.ErrMsg,
		ErrPos:       r.ErrPos,
		ErrLine:      r.ErrLine,
		ErrColumn:    r.ErrColumn,
		RootID:       r.RootID,
		Nodes:        nodes,
		Tokens:       toks,
		Src:          src,
		Name:         r.Name,
		Deps:         deps,
		Decls:        decls,
	}
}
