package web

import "embed"

// StaticFS holds the embedded static assets: stylesheet, page script and the
// service images under static/assets.
//
//go:embed static
var StaticFS embed.FS

// AssetsDir is the directory inside StaticFS that holds service images, and
// AssetsURLPrefix the URL they are served under.
const (
	AssetsDir       = "static/assets"
	AssetsURLPrefix = "/static/assets"
)
