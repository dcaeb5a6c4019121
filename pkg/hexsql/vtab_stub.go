//go:build !sqlite_vtable

package hexsql

import (
	"github.com/mattn/go-sqlite3"

	"github.com/gravitas-games/hexgeo/internal/query"
)

// installModules is a no-op without the sqlite_vtable tag; use the _json
// functions with json_each instead.
func installModules(*sqlite3.SQLiteConn, query.Limits) error { return nil }
