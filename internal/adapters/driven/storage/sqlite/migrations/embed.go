// Package migrations embeds the SQL schema files for the SQLite store.
// Every file is idempotent and applied on each EnsureSchema call, in
// lexical order.
package migrations

import "embed"

// FS contains all SQL schema files embedded at compile time.
//
//go:embed *.sql
var FS embed.FS
