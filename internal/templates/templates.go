// Package templates embeds the HTML views and static assets.
package templates

import "embed"

//go:embed layout.html navbar.html pages/*.html static/*
var FS embed.FS
