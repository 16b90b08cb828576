/*
 * Selene
 *
 * Copyright 2020 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package scope

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewStackStartsWithRootFrame(t *testing.T) {
	s := NewStack(4)
	assert.Equal(t, 1, s.Depth())
}

func TestDeclareAndIsDeclared(t *testing.T) {
	s := NewStack(4)
	assert.False(t, s.IsDeclared("x"))

	s.Declare("x")
	assert.True(t, s.IsDeclared("x"))
}

func TestPushOpensInnerFrameThatSeesOuterDeclarations(t *testing.T) {
	s := NewStack(4)
	s.Declare("outer")

	s.Push()
	assert.True(t, s.IsDeclared("outer"), "inner frame should see outer declarations")
	s.Declare("inner")
	assert.True(t, s.IsDeclared("inner"))

	s.Pop()
	assert.False(t, s.IsDeclared("inner"), "outer frame must not see inner declarations after pop")
	assert.True(t, s.IsDeclared("outer"))
}

func TestShadowingDoesNotLeakAcrossFrames(t *testing.T) {
	s := NewStack(4)
	s.Declare("x")

	s.Push()
	s.Declare("x")
	assert.True(t, s.IsDeclared("x"))
	s.Pop()

	assert.True(t, s.IsDeclared("x"))
}

func TestDeclaredNamesIsSortedAndFrameLocal(t *testing.T) {
	s := NewStack(4)
	s.Declare("zeta")
	s.Declare("alpha")
	s.Declare("mu")

	assert.Equal(t, []string{"alpha", "mu", "zeta"}, s.DeclaredNames())

	s.Push()
	assert.Empty(t, s.DeclaredNames(), "a fresh frame declares nothing of its own")
}

func TestResetClearsAllFramesBackToRoot(t *testing.T) {
	s := NewStack(4)
	s.Declare("x")
	s.Push()
	s.Push()

	s.Reset()

	assert.Equal(t, 1, s.Depth())
	assert.False(t, s.IsDeclared("x"))
}
