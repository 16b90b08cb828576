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
Package config holds the front end's package-level tunables: initial
buffer capacities for the parser's retained allocations and a couple of
grammar limits. Values live in a map[string]interface{} with typed
getters (Str/Int/Bool); an optional on-disk override file is merged
over the compiled-in defaults.
*/
package config

import (
	"fmt"
	"io/ioutil"
	"strconv"

	"github.com/krotik/common/datautil"
	"github.com/krotik/common/errorutil"
	"gopkg.in/yaml.v3"
)

/*
ProductVersion is the current version of the Selene front end.
*/
const ProductVersion = "1.0.0"

/*
Known configuration keys.
*/
const (
	InitialTokenCapacity = "InitialTokenCapacity"
	InitialNodeCapacity  = "InitialNodeCapacity"
	InitialBlockDepth    = "InitialBlockDepth"
	MaxTemplateNesting   = "MaxTemplateNesting"
)

/*
DefaultConfig is the default configuration.
*/
var DefaultConfig = map[string]interface{}{
	InitialTokenCapacity: 256,
	InitialNodeCapacity:  256,
	InitialBlockDepth:    8,
	MaxTemplateNesting:   16,
}

/*
Config is the actual config which is used.
*/
var Config map[string]interface{}

/*
Initialise the config.
*/
func init() {
	data := make(map[string]interface{})
	for k, v := range DefaultConfig {
		data[k] = v
	}

	Config = data
}

/*
LoadFile merges YAML key/value overrides from path into Config, the
same override-a-default-map pattern init() uses for the compiled-in
defaults, just sourced from a file. Unknown keys are merged in as-is;
callers that care about a closed key set should check Config's keys
against DefaultConfig's after loading.
*/
func LoadFile(path string) error {
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return err
	}

	var overrides map[string]interface{}
	if err := yaml.Unmarshal(raw, &overrides); err != nil {
		return fmt.Errorf("could not parse config file %s: %w", path, err)
	}

	// MergeMaps resolves conflicts as last-one-wins, so the current
	// values go first and the file's overrides replace them.
	merged := datautil.MergeMaps(Config, overrides)
	data := make(map[string]interface{}, len(merged))
	for k, v := range merged {
		data[k] = v
	}
	Config = data

	return nil
}

// Helper functions
// ================

/*
Str reads a config value as a string value.
*/
func Str(key string) string {
	return fmt.Sprint(Config[key])
}

/*
Int reads a config value as an int value.
*/
func Int(key string) int {
	ret, err := strconv.ParseInt(fmt.Sprint(Config[key]), 10, 64)

	errorutil.AssertTrue(err == nil,
		fmt.Sprintf("Could not parse config key %v: %v", key, err))

	return int(ret)
}

/*
Bool reads a config value as a boolean value.
*/
func Bool(key string) bool {
	ret, err := strconv.ParseBool(fmt.Sprint(Config[key]))

	errorutil.AssertTrue(err == nil,
		fmt.Sprintf("Could not parse config key %v: %v", key, err))

	return ret
}
