// Copyright © 2025 The Wisp authors

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile   string
	colorFlag string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "wisp",
	Short: "Wisp — a small Lisp interpreter",
	Long: `Wisp is a small Lisp interpreter implemented in Go. It provides a
standalone CLI for running and exploring wisp code.

Getting started:
  wisp run file.wisp           Run a wisp source file
  wisp run -e '(+ 1 2)'        Evaluate an expression
  wisp repl                    Start an interactive session
  wisp doc                     Show the language guide

Language overview:
  Wisp is a Lisp-1 dialect (single namespace for functions and values).
  Booleans are written #t and #f. Numbers are double-precision floats.
  Functions are defined with (def name (fn (args) body)) and macros with
  (def name (macro (args) body)). Scopes follow the call stack: def binds
  in the global scope, set in the current scope, and let introduces a
  scope of simultaneous bindings.

  Special forms: quote begin def set fn macro if let
  Builtins:      + * - = first rest list concat is-list length

Error reports annotate the failing expression. Every frame of the call
stack is printed with the exact sub-expression that failed highlighted,
innermost frame first:

  error: expected a number
      f |  (fn (x) (+ x "a"))
        |               ^^^
   :in: |  (f 1)
        |   ^

Configuration is read from ~/.wisp.yaml (override with --config). The
keys color and history-file mirror the corresponding flags.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.wisp.yaml)")
	rootCmd.PersistentFlags().StringVar(&colorFlag, "color", "auto",
		`Control colored output: "auto", "always", or "never".`)
	if err := viper.BindPFlag("color", rootCmd.PersistentFlags().Lookup("color")); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		// Search config in home directory with name ".wisp" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".wisp")
	}

	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
