// Copyright © 2025 The Wisp authors

// Package docs embeds the wisp language reference for use by the CLI.
package docs

import _ "embed"

//go:embed lang.md
var LangGuide string
