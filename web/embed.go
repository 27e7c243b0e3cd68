// Package web provides the embedded static assets served at /static/.
// In development, layouts load Tailwind from its CDN instead.
package web

import "embed"

// StaticFS embeds the web/static/ directory tree.
//
//go:embed all:static
var StaticFS embed.FS
