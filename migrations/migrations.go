package migrations

import "embed"

//go:embed trade/*.sql
var Trade embed.FS
