package web

import "embed"

// Files holds the browser client.
//
//go:embed templates static
var Files embed.FS
