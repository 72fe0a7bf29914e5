// Package web holds the HTML shells, theme stylesheets and frontend entry
// scripts that the site builder renders and bundles.
package web

import "embed"

//go:embed *.html themes frontend
var FS embed.FS
