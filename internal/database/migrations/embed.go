// Package migrations embeds the schema for each supported database driver.
package migrations

import "embed"

//go:embed sqlite/*.sql oracle/*.sql
var FS embed.FS
