// Copyright © 2025 The Wisp authors

package profiler

import (
	"regexp"
	"strings"

	"github.com/wisplang/wisp/lisp"
	"github.com/wisplang/wisp/symbol"
)

// FunLabeler provides an alternative name for a function label in the
// trace.  Returning the empty string keeps the default name.
type FunLabeler func(names symbol.Namer, fun *lisp.Value) string

// WithFunLabeler sets the labeler for trace spans and sample labels.
func WithFunLabeler(funLabeler FunLabeler) Option {
	return func(p *profiler) {
		p.funLabeler = funLabeler
	}
}

var (
	sanitizeRegExp   = regexp.MustCompile(`[\s_]+`)
	validLabelRegExp = regexp.MustCompile(`[[:graph:]]*`)
)

// sanitizeLabel renders a user label safe for backends that cannot take
// whitespace, such as pprof label sets and callgrind name refs.
func sanitizeLabel(userLabel string) string {
	if userLabel == "" {
		return ""
	}

	// Replace interior space runs with underscores
	userLabel = sanitizeRegExp.ReplaceAllString(strings.TrimSpace(userLabel), "_")

	// Find the first valid label match
	matches := validLabelRegExp.FindStringSubmatch(userLabel)
	if len(matches) > 0 {
		return matches[0]
	}

	return ""
}
