// Copyright © 2025 The Wisp authors

package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/wisplang/wisp/lisp"
	"github.com/wisplang/wisp/parser/reader"
	"github.com/wisplang/wisp/wisputil"
)

var (
	runExpression bool
	runPrint      bool
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [flags] [files]",
	Short: "Run wisp code",
	Long: `Run wisp code supplied via the command line or files.

Each argument names a source file to execute. Files run in order and
share one environment, so earlier files can define bindings for later
ones. With -e the arguments are treated as wisp expressions instead of
file names. With -p the value of every top-level form is printed to
stdout, mirroring the interactive session.

Every file and every -e expression must parse completely on its own:
source that ends inside an open form is an error.

Examples:
  wisp run file.wisp                     Run a source file
  wisp run lib.wisp main.wisp            Run files in order
  wisp run src/...                       Run every .wisp file under src/
  wisp run -e '(+ 1 2)'                  Evaluate an expression
  wisp run -p -e '(def x 21) (* x 2)'    Print each top-level value`,
	Run: func(cmd *cobra.Command, args []string) {
		if !runExpression {
			var err error
			args, err = expandArgs(args)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
		}
		sources, err := runReadSources(args)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		var opts []wisputil.Option
		if runPrint {
			opts = append(opts, wisputil.WithEcho(os.Stdout))
		}
		sess := wisputil.New(opts...)
		for _, src := range sources {
			if !runSource(sess, src) {
				os.Exit(1)
			}
		}
	},
}

// runReadSources resolves the command arguments to source texts: the
// arguments themselves under -e, otherwise the contents of the named
// files.
func runReadSources(args []string) ([]string, error) {
	sources := make([]string, len(args))
	if runExpression {
		copy(sources, args)
		return sources, nil
	}
	for i, path := range args {
		b, err := os.ReadFile(path) //nolint:gosec // runs user-specified source files
		if err != nil {
			return nil, err
		}
		sources[i] = string(b)
	}
	return sources, nil
}

// runSource evaluates one source text against the session. Errors are
// rendered to stderr and stop the run.
func runSource(sess *wisputil.Session, src string) bool {
	_, err := sess.EvalString(src)
	if err == nil {
		return true
	}
	var rerr *reader.Error
	if errors.As(err, &rerr) {
		renderReadError(src, rerr)
		return false
	}
	var eerr *lisp.Error
	if errors.As(err, &eerr) {
		renderEvalError(eerr, sess.Syms)
		return false
	}
	fmt.Fprintln(os.Stderr, err)
	return false
}

func init() {
	rootCmd.AddCommand(runCmd)

	// Here flags for the run command are defined
	runCmd.Flags().BoolVarP(&runExpression, "expression", "e", false,
		"Interpret arguments as wisp expressions")
	runCmd.Flags().BoolVarP(&runPrint, "print", "p", false,
		"Print expression values to stdout")
}
