// Package appfs holds the files embedded in the binaries.
package appfs

import "embed"

const (
	MigrationsDir     = "migrations"
	EmailTemplatesDir = "templates/email"
)

//go:embed migrations/*.sql templates/email/*
var FS embed.FS
