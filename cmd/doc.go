// Copyright © 2025 The Wisp authors

package cmd

import (
	"bufio"
	"fmt"
	"os"

	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
	"github.com/spf13/cobra"
	"github.com/wisplang/wisp/docs"
)

var docWidth int

// docCmd represents the doc command
var docCmd = &cobra.Command{
	Use:   "doc",
	Short: "Show the wisp language guide",
	Long: `Show the built-in wisp language guide.

The guide covers the full language: literal syntax, quoting, the special
forms, native functions, scoping rules, and how to read annotated error
reports. It is embedded in the binary, so no network access or separate
installation is needed.

Examples:
  wisp doc               Show the guide
  wisp doc | less        Page through the guide
  wisp doc --width 100   Wrap prose at 100 columns`,
	Run: func(cmd *cobra.Command, args []string) {
		out := bufio.NewWriter(os.Stdout)
		defer out.Flush() //nolint:errcheck // best-effort flush on exit
		_, _ = fmt.Fprint(out, renderGuide(docs.LangGuide, docWidth))
	},
}

// renderGuide wraps guide prose at width columns and indents the result
// for terminal display.
func renderGuide(guide string, width int) string {
	return indent.String(wordwrap.String(guide, width), 2)
}

func init() {
	rootCmd.AddCommand(docCmd)

	// Here flags for the doc command are defined
	docCmd.Flags().IntVar(&docWidth, "width", 72,
		"Column width used to wrap the guide's prose.")
}
