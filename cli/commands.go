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
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/krotik/selene/config"
)

var (
	verbose    bool
	configFile string
	bench      bool
)

/*
NewRootCmd builds the "selene" cobra command tree with the
tokens/ast/check subcommands and the persistent --verbose/--config
flags shared by all of them.
*/
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "selene",
		Short:   "Selene front end - tokenizer and parser driver",
		Version: config.ProductVersion,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			SetVerbose(verbose)
			if configFile != "" {
				if err := config.LoadFile(configFile); err != nil {
					return err
				}
			}
			return nil
		},
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().StringVarP(&configFile, "config", "c", "", "YAML config file overriding built-in defaults")

	root.AddCommand(newTokensCmd())
	root.AddCommand(newASTCmd())
	root.AddCommand(newCheckCmd())

	return root
}

func newTokensCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tokens [file]",
		Short: "Tokenize a source file and print its token stream",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "-"
			if len(args) == 1 {
				path = args[0]
			}
			name, src, err := LoadSource(path)
			if err != nil {
				return err
			}
			r := Run(name, src)
			DumpTokens(cmd.OutOrStdout(), r.Tokens, r.Src)
			if r.HasError {
				fmt.Fprintln(cmd.ErrOrStderr(), FormatError(r))
				os.Exit(1)
			}
			return nil
		},
	}
}

func newASTCmd() *cobra.Command {
	var showDeps bool

	cmd := &cobra.Command{
		Use:   "ast [file]",
		Short: "Parse a source file and print its AST",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "-"
			if len(args) == 1 {
				path = args[0]
			}
			name, src, err := LoadSource(path)
			if err != nil {
				return err
			}
			r := Run(name, src)
			if r.HasError {
				fmt.Fprintln(cmd.ErrOrStderr(), FormatError(r))
				os.Exit(1)
			}
			DumpAST(cmd.OutOrStdout(), r)
			if showDeps {
				fmt.Fprintln(cmd.OutOrStdout(), color.CyanString("dependencies:"))
				DumpDeps(cmd.OutOrStdout(), r)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&showDeps, "deps", false, "also print the free-variable dependency map")
	return cmd
}

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [file]",
		Short: "Parse a source file and report success or the first error",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "-"
			if len(args) == 1 {
				path = args[0]
			}
			name, src, err := LoadSource(path)
			if err != nil {
				return err
			}

			started := time.Now()
			res := Check(name, src)
			elapsed := time.Since(started)

			if !res.OK {
				tag := "parser"
				if res.IsTokenError {
					tag = "lexer"
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s at %d:%d: %s\n",
					color.RedString(tag), name, res.Line, res.Column, res.Message)
				os.Exit(1)
				return nil
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%d declarations, %d free names)\n",
				color.GreenString("ok"), name, res.Decls, len(res.Deps))
			if bench {
				fmt.Fprintf(cmd.OutOrStdout(), "tokenize+parse: %s\n", elapsed)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&bench, "bench", false, "report how long tokenizing and parsing took")
	return cmd
}
