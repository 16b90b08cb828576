/*
 * Selene
 *
 * Copyright 2020 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package config

import (
	"io/ioutil"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetConfig() {
	data := make(map[string]interface{})
	for k, v := range DefaultConfig {
		data[k] = v
	}
	Config = data
}

func TestDefaults(t *testing.T) {
	resetConfig()

	assert.Equal(t, "256", Str(InitialTokenCapacity))
	assert.Equal(t, 256, Int(InitialNodeCapacity))
	assert.Equal(t, 8, Int(InitialBlockDepth))
}

func TestBool(t *testing.T) {
	resetConfig()
	Config[InitialBlockDepth] = true

	assert.True(t, Bool(InitialBlockDepth))
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	resetConfig()

	f, err := ioutil.TempFile("", "selene-config-*.yaml")
	require.NoError(t, err)
	defer os.Remove(f.Name())

	_, err = f.WriteString("InitialTokenCapacity: 1024\nMaxTemplateNesting: 4\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	require.NoError(t, LoadFile(f.Name()))

	assert.Equal(t, 1024, Int(InitialTokenCapacity))
	assert.Equal(t, 4, Int(MaxTemplateNesting))
	assert.Equal(t, 256, Int(InitialNodeCapacity))
}

func TestLoadFileMissing(t *testing.T) {
	resetConfig()

	err := LoadFile("/no/such/file.yaml")
	assert.Error(t, err)
}
