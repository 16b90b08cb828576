/*
 * Selene
 *
 * Copyright 2020 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package cli

import (
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/krotik/common/fileutil"
	"github.com/krotik/common/stringutil"
	"github.com/krotik/selene/ast"
	"github.com/krotik/selene/parser"
	"github.com/krotik/selene/token"
)

/*
LoadSource reads the program named by path, checked for existence with
fileutil.PathExists first so a missing file is reported as a plain
driver error instead of an opaque os.Open failure. path == "-" reads
from stdin, logging at INFO level that it did so (the one legitimate
fallback this layer logs about).
*/
func LoadSource(path string) (name string, src []byte, err error) {
	if path == "-" || path == "" {
		log.Infof("no file argument given, reading program from stdin")
		src, err = ioutil.ReadAll(os.Stdin)
		return "<stdin>", src, err
	}

	if ok, existErr := fileutil.PathExists(path); existErr != nil {
		return path, nil, existErr
	} else if !ok {
		return path, nil, fmt.Errorf("no such file: %s", path)
	}

	src, err = ioutil.ReadFile(path)
	return path, src, err
}

/*
Run parses name/src with a fresh Parser and returns the ResultView.
*/
func Run(name string, src []byte) *parser.ResultView {
	p := parser.New()
	return p.Parse(name, src)
}

/*
FormatError renders a ResultView's error (if any) as a single line
carrying the error source, line/column and message. The
"lexer"/"parser" tag is highlighted when stdout is a color-capable
terminal.
*/
func FormatError(r *parser.ResultView) string {
	if !r.HasError {
		return ""
	}
	tag := "parser"
	if r.IsTokenError {
		tag = "lexer"
	}
	return fmt.Sprintf("%s: %s at %d:%d: %s",
		color.RedString(tag), r.Name, r.ErrLine, r.ErrColumn, r.ErrMsg)
}

/*
CheckResult is the outcome of a Check call: whether the program parsed
cleanly and, if not, the same error detail the ResultView exposes.
*/
type CheckResult struct {
	OK           bool
	IsTokenError bool
	Message      string
	Pos          int
	Line         int
	Column       int
	Decls        int
	Deps         []string
}

/*
Check parses name/src and reduces the ResultView to the small summary
a "selene check" run reports: pass/fail, the error detail on failure,
and on success the declaration count plus a sorted list of
free-variable dependencies.
*/
func Check(name string, src []byte) CheckResult {
	r := Run(name, src)

	if r.HasError {
		return CheckResult{
			OK:           false,
			IsTokenError: r.IsTokenError,
			Message:      r.ErrMsg,
			Pos:          r.ErrPos,
			Line:         r.ErrLine,
			Column:       r.ErrColumn,
		}
	}

	deps := make([]string, 0, len(r.Deps))
	for k := range r.Deps {
		deps = append(deps, k)
	}
	sort.Strings(deps)

	return CheckResult{
		OK:    true,
		Decls: len(r.Decls),
		Deps:  deps,
	}
}

/*
DumpTokens writes a graphic table of every token in toks to w, one row
per token with its index, kind, byte span and (truncated) lexeme text.
*/
func DumpTokens(w io.Writer, toks []token.Token, src []byte) {
	tabData := []string{"#", "kind", "start", "end", "text"}

	for i, t := range toks {
		text := t.Text(src)
		if text != "" {
			text = stringutil.ChunkSplit(text, 40, true)[0]
			text = strings.TrimSpace(strings.ReplaceAll(text, "\n", "\\n"))
		}

		tabData = append(tabData,
			strconv.Itoa(i),
			t.Kind.String(),
			strconv.Itoa(t.Start),
			strconv.Itoa(t.End),
			text,
		)
	}

	fmt.Fprint(w, stringutil.PrintGraphicStringTable(tabData, 5, 1,
		stringutil.SingleDoubleLineTable))
}

/*
DumpAST writes the indented tree rendering of a ResultView's AST
rooted at RootID, via ast.Arena.Print.
*/
func DumpAST(w io.Writer, r *parser.ResultView) {
	a := ast.NewArena(len(r.Nodes))
	for _, n := range r.Nodes {
		a.Add(n)
	}
	fmt.Fprintln(w, a.Print(r.RootID, r.Src))
}

/*
DumpDeps writes the dependency map (free-variable name -> first
reference node id), sorted by name for deterministic output.
*/
func DumpDeps(w io.Writer, r *parser.ResultView) {
	names := make([]string, 0, len(r.Deps))
	for k := range r.Deps {
		names = append(names, k)
	}
	sort.Strings(names)

	for _, name := range names {
		fmt.Fprintf(w, "%s -> node %d\n", name, r.Deps[name])
	}
}
