// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dbtest provides a measurement archive for testing.
package dbtest

import (
	"flag"
	"testing"

	"golang.org/x/scalebench/storage/db"
	_ "golang.org/x/scalebench/storage/db/sqlite3"

	_ "github.com/go-sql-driver/mysql"
)

var mysqlDSN = flag.String("mysql", "", "run database tests against the MySQL database identified by this DSN instead of in-memory SQLite")

// NewDB makes a connection to a testing database, either in-memory
// SQLite or MySQL depending on the -mysql flag. cleanup must be called
// when done with the testing database, instead of calling db.Close().
func NewDB(t *testing.T) (*db.DB, func()) {
	driverName, dataSourceName := "sqlite3", ":memory:"
	if *mysqlDSN != "" {
		driverName, dataSourceName = "mysql", *mysqlDSN
	}
	d, err := db.OpenSQL(driverName, dataSourceName)
	if err != nil {
		t.Fatalf("open database: %v", err)
	}

	cleanup := func() {
		d.Close()
	}
	// Make sure the database really is empty.
	batches, err := d.CountBatches()
	if err != nil {
		cleanup()
		t.Fatal(err)
	}
	if batches != 0 {
		cleanup()
		t.Fatalf("found %d row(s) in Batches, want 0", batches)
	}
	return d, cleanup
}
