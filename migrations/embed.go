// Package migrations embeds the SQL schema files so the server and the
// migrate command apply the same set.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
