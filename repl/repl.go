// Copyright © 2025 The Wisp authors

// Package repl implements the interactive wisp session.
package repl

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ergochat/readline"
	"github.com/wisplang/wisp/diagnostic"
	"github.com/wisplang/wisp/lisp"
	"github.com/wisplang/wisp/parser"
	"github.com/wisplang/wisp/parser/reader"
	"github.com/wisplang/wisp/symbol"
)

type config struct {
	stdin       io.ReadCloser
	stdout      io.WriteCloser
	stderr      io.WriteCloser
	historyFile string
	color       diagnostic.ColorMode
}

func newConfig(opts ...Option) *config {
	config := &config{}
	for _, opt := range opts {
		opt(config)
	}
	return config
}

type Option func(*config)

// WithStdin allows overriding the input to the REPL.
func WithStdin(stdin io.ReadCloser) Option {
	return func(c *config) {
		c.stdin = stdin
	}
}

// WithStdout allows overriding the terminal echo output of the REPL.
// Values and errors print to the stderr writer.
func WithStdout(stdout io.WriteCloser) Option {
	return func(c *config) {
		c.stdout = stdout
	}
}

// WithStderr allows overriding the output to the REPL.
func WithStderr(stderr io.WriteCloser) Option {
	return func(c *config) {
		c.stderr = stderr
	}
}

// WithHistoryFile overrides the default history path, ~/.wisp_history.
func WithHistoryFile(path string) Option {
	return func(c *config) {
		c.historyFile = path
	}
}

// WithColor sets the color mode for error rendering.
func WithColor(mode diagnostic.ColorMode) Option {
	return func(c *config) {
		c.color = mode
	}
}

// RunRepl runs an interactive session in a fresh wisp environment.
func RunRepl(prompt string, opts ...Option) {
	RunInterp(lisp.NewInterp(symbol.NewTable()), prompt, opts...)
}

// RunInterp runs an interactive session against an existing interpreter.
// Input is read line by line; every form completed by a line is evaluated
// immediately and forms may span lines. Ctrl-C abandons pending input and
// Ctrl-D ends the session.
func RunInterp(interp *lisp.Interp, prompt string, opts ...Option) {
	cfg := newConfig(opts...)

	var out io.Writer = os.Stderr
	if cfg.stderr != nil {
		out = cfg.stderr
	}

	histFile := cfg.historyFile
	if histFile == "" {
		histFile = historyPath()
	}
	ensureHistoryFilePermissions(histFile)

	rlCfg := &readline.Config{
		Stdout:            out,
		Stderr:            out,
		Prompt:            prompt,
		HistoryFile:       histFile,
		HistorySearchFold: true,
		AutoComplete:      &symbolCompleter{interp: interp},
	}
	if cfg.stdout != nil {
		rlCfg.Stdout = cfg.stdout
	}
	if cfg.stdin != nil {
		rlCfg.Stdin = cfg.stdin
	}
	rl, err := readline.NewEx(rlCfg)
	if err != nil {
		panic(err)
	}
	defer rl.Close() //nolint:errcheck // best-effort cleanup

	rd := parser.NewReader(interp.Symbols())
	renderer := &diagnostic.Renderer{Color: cfg.color}

	for {
		rl.SetPrompt(contPrompt(prompt, rd.PendingDepth()))
		line, err := rl.ReadSlice()
		if err == readline.ErrInterrupt {
			// Ctrl-C abandons any pending form.
			rd = parser.NewReader(interp.Symbols())
			continue
		}
		if err != nil {
			// Ctrl-D or closed input ends the session.
			return
		}
		handleLine(interp, renderer, out, rd, string(line))
	}
}

// handleLine feeds one line to the reader and evaluates every form it
// completes. A read error has already reset the reader's pending state.
func handleLine(interp *lisp.Interp, r *diagnostic.Renderer, out io.Writer, rd *reader.Reader, line string) {
	forms, rerr := rd.Partial(line)
	if rerr != nil {
		_ = r.Render(out, readErrorDiagnostic(rerr, line))
		return
	}
	for _, form := range forms {
		val, eerr := interp.EvalTopLevel(form)
		if eerr != nil {
			_ = r.Render(out, evalErrorDiagnostic(eerr, interp.Symbols()))
			continue
		}
		fmt.Fprintln(out, lisp.Serialize(val, interp.Symbols())) //nolint:errcheck // best-effort REPL output
	}
}

// contPrompt derives the continuation prompt from the reader's pending
// depth: two spaces per open form, then "> ".
func contPrompt(prompt string, depth int) string {
	if depth == 0 {
		return prompt
	}
	return strings.Repeat("  ", depth) + "> "
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".wisp_history")
}

// ensureHistoryFilePermissions creates the history file when missing and
// restricts it to mode 0600. Session history can contain pasted secrets.
func ensureHistoryFilePermissions(path string) {
	if path == "" {
		return
	}
	f, err := os.OpenFile(path, os.O_CREATE, 0600) //nolint:gosec // user-owned history file
	if err != nil {
		return
	}
	_ = f.Close()
	_ = os.Chmod(path, 0600)
}
