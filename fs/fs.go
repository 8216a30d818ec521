package appfs

import "embed"

// FS holds the goose migrations, one directory per database engine.
//
//go:embed migrations
var FS embed.FS

// MigrationsDir returns the migrations directory of a database engine.
func MigrationsDir(engine string) string {
	return "migrations/" + engine
}
