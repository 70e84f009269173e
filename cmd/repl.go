// Copyright © 2025 The Wisp authors

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/wisplang/wisp/repl"
)

// replCmd represents the repl command
var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive wisp session",
	Long: `Start an interactive read-eval-print loop for wisp.

Line editing, tab completion of bound symbols, and in-session command
history are supported via readline. History persists in ~/.wisp_history
(override with --history-file). Forms may span lines; the
continuation prompt indents two spaces for every open form. Use Ctrl-C
to abandon pending input and Ctrl-D to exit.

Example session:
  wisp> (def square (fn (x) (* x x)))
  (fn (x) (* x x))
  wisp> (square 5)
  25
  wisp> (+ 1
    > 2)
  3
  wisp> (square "five")
  error: expected a number
   square |  (fn (x) (* x x))
          |             ^
     :in: |  (square "five")
          |   ^^^^^^`,
	Run: func(cmd *cobra.Command, args []string) {
		opts := []repl.Option{repl.WithColor(colorMode())}
		if hist := viper.GetString("history-file"); hist != "" {
			opts = append(opts, repl.WithHistoryFile(hist))
		}
		repl.RunRepl(filepath.Base(os.Args[0])+"> ", opts...)
	},
}

func init() {
	rootCmd.AddCommand(replCmd)

	replCmd.Flags().String("history-file", "",
		"REPL history file (default is $HOME/.wisp_history)")
	if err := viper.BindPFlag("history-file", replCmd.Flags().Lookup("history-file")); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
