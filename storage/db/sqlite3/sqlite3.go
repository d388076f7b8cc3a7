// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sqlite3 provides the sqlite3 driver for the measurement
// archive. It must be imported instead of github.com/mattn/go-sqlite3
// to ensure that foreign keys and single-connection semantics are
// configured on every connection.
package sqlite3

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
	"golang.org/x/scalebench/storage/db"
)

func init() {
	db.RegisterOpenHook("sqlite3", func(db *sql.DB) error {
		// In-memory SQLite keeps a separate database per
		// connection, so a second connection from the pool
		// would see none of the archive's tables.
		db.SetMaxOpenConns(1)
		if _, err := db.Exec("PRAGMA foreign_keys = ON;"); err != nil {
			return err
		}
		return nil
	})
}
