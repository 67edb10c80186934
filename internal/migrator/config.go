package migrator

import "io"

type Config struct {
	// DatabaseURL is a postgres:// connection URL.
	DatabaseURL string
	// Output receives migration progress.  Nil discards it.
	Output io.Writer
	// Verbose includes per-migration detail from golang-migrate.
	Verbose bool
}
