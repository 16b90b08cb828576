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
Package cli drives the front end (tokenize / parse / report) from the
command line. It does not execute parsed programs - module resolution,
semantic analysis and code generation all live outside this
specification's scope.
*/
package cli

import "github.com/juju/loggo"

/*
log is the CLI's single module-level logger. The front-end packages
(token, lexer, ast, parser, scope) never log - they only return
errors. Only this driving layer logs, and only on recoverable
conditions such as falling back to stdin when no file argument was
given.
*/
var log = loggo.GetLogger("selene.cli")

func init() {
	log.SetLogLevel(loggo.WARNING)
}

/*
SetVerbose sets the CLI logger to DEBUG level when debug is true (the
-v flag) and to INFO level otherwise.
*/
func SetVerbose(debug bool) {
	if debug {
		log.SetLogLevel(loggo.DEBUG)
		return
	}
	log.SetLogLevel(loggo.INFO)
}
