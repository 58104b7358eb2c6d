// Package appfs embeds the SQL migrations and the college documents the mentor retrieves from.
package appfs

import "embed"

//go:embed migrations docs
var FS embed.FS

const (
	MigrationsDir = "migrations"
	DocsDir       = "docs"
)
