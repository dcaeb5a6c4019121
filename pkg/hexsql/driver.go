// Package hexsql installs the hex coordinate type into SQLite.
//
// Coordinates are stored as canonical text ({"q":Q,"r":R}). Every
// connection opened through this package gets scalar functions for
// parsing, comparison, arithmetic and distance, JSON variants of the
// set-producing operations for use with json_each, and the HEX collation.
// Built with the sqlite_vtable tag, the set-producing operations are also
// available as table-valued functions:
//
//	SELECT hex FROM hexes_in_range('[0, 1]', 2);
//	SELECT hex, ord FROM linedraw(unit.pos, target.pos);
package hexsql

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"sync"

	"github.com/mattn/go-sqlite3"

	"github.com/gravitas-games/hexgeo/internal/query"
)

// DriverName is the database/sql driver registered by Register.
const DriverName = "sqlite3_hex"

// CollationName orders coordinate text by (q, r).
const CollationName = "HEX"

var registerOnce sync.Once

// Register makes DriverName available to sql.Open, with no limits. It is
// safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		sql.Register(DriverName, NewDriver(query.Limits{}))
	})
}

// NewDriver returns a SQLite driver whose connections carry the hex
// functions, bounded by limits.
func NewDriver(limits query.Limits) *sqlite3.SQLiteDriver {
	return &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return Install(conn, limits)
		},
	}
}

// Open opens a database handle whose connections carry the hex functions.
func Open(dsn string, limits query.Limits) (*sql.DB, error) {
	db := sql.OpenDB(&connector{drv: NewDriver(limits), dsn: dsn})
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

type connector struct {
	drv *sqlite3.SQLiteDriver
	dsn string
}

func (c *connector) Connect(context.Context) (driver.Conn, error) { return c.drv.Open(c.dsn) }

func (c *connector) Driver() driver.Driver { return c.drv }

// Install registers the functions, the collation and, when built with
// sqlite_vtable, the table-valued functions on one connection.
func Install(conn *sqlite3.SQLiteConn, limits query.Limits) error {
	for _, f := range scalarFuncs() {
		if err := conn.RegisterFunc(f.name, f.impl, true); err != nil {
			return fmt.Errorf("failed to register %s: %w", f.name, err)
		}
	}
	for _, op := range query.SetOps() {
		name := op.Name + "_json"
		if err := conn.RegisterFunc(name, jsonFunc(op, limits), true); err != nil {
			return fmt.Errorf("failed to register %s: %w", name, err)
		}
	}
	if err := conn.RegisterCollation(CollationName, Collate); err != nil {
		return fmt.Errorf("failed to register collation %s: %w", CollationName, err)
	}
	return installModules(conn, limits)
}
