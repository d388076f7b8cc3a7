// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package db provides the measurement archive: a SQL database of raw
// benchmark measurements organized into batches, one batch per
// benchmark run.
package db

import (
	"bytes"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"text/template"
	"time"

	"golang.org/x/net/context"
	"golang.org/x/scalebench/benchcsv"
)

// DB is a high-level interface to the measurement archive. It's safe
// for concurrent use by multiple goroutines.
type DB struct {
	sql *sql.DB // underlying database connection
	// prepared statements
	lastBatchSeq      *sql.Stmt
	insertBatch       *sql.Stmt
	insertMeasurement *sql.Stmt
}

// OpenSQL creates a DB backed by a SQL database. The parameters are
// the same as the parameters for sql.Open. Only mysql and sqlite3 are
// explicitly supported; other database engines will receive MySQL
// query syntax which may or may not be compatible.
func OpenSQL(driverName, dataSourceName string) (*DB, error) {
	db, err := sql.Open(driverName, dataSourceName)
	if err != nil {
		return nil, err
	}
	if hook := openHooks[driverName]; hook != nil {
		if err := hook(db); err != nil {
			return nil, err
		}
	}
	d := &DB{sql: db}
	if err := d.createTables(driverName); err != nil {
		return nil, err
	}
	if err := d.prepareStatements(driverName); err != nil {
		return nil, err
	}
	return d, nil
}

var openHooks = make(map[string]func(*sql.DB) error)

// RegisterOpenHook registers a hook to be called after opening a connection to driverName.
// This is used by the sqlite3 package to register a ConnectHook.
// It must be called from an init function.
func RegisterOpenHook(driverName string, hook func(*sql.DB) error) {
	openHooks[driverName] = hook
}

// tests can override this function
var nowFunc func() time.Time = time.Now

// SetNow changes the clock used by the db package.
//
// Tests that care about the current time should use SetNow to
// temporarily change the current time. Passing the zero time restores
// the real clock.
func SetNow(t time.Time) {
	if t.IsZero() {
		nowFunc = time.Now
		return
	}
	nowFunc = func() time.Time { return t }
}

// timeFormat is the layout batch upload times are stored in. Times
// are always stored in UTC.
const timeFormat = "2006-01-02 15:04:05"

// createTmpl is the template used to prepare the CREATE statements
// for the database. It is evaluated with . as a map containing one
// entry whose key is the driver name.
//
// MinV and MaxV hold the generator's min and max columns; the V
// suffix avoids the SQL MIN/MAX keywords. SumHist is a uint64, which
// neither driver round-trips reliably as an integer column, so it is
// stored as its decimal string.
var createTmpl = template.Must(template.New("create").Parse(`
CREATE TABLE IF NOT EXISTS Batches (
	BatchID VARCHAR(20) PRIMARY KEY,
	Day VARCHAR(8),
	Seq BIGINT UNSIGNED,
	UploadTime VARCHAR(20){{if not .sqlite3}},
	Index (Day, Seq){{end}}
);
{{if .sqlite3}}
CREATE INDEX IF NOT EXISTS BatchesDaySeq ON Batches(Day, Seq);
{{end}}
CREATE TABLE IF NOT EXISTS Measurements (
	BatchID VARCHAR(20),
	RowNum BIGINT UNSIGNED,
	Backend VARCHAR(255),
	Variant VARCHAR(255),
	Threads BIGINT,
	N BIGINT,
	Bins BIGINT,
	MinV BIGINT,
	MaxV BIGINT,
	Seed BIGINT,
	GenMS DOUBLE,
	HistMS DOUBLE,
	TotalMS DOUBLE,
	SumHist VARCHAR(20),
	PRIMARY KEY (BatchID, RowNum),
{{if not .sqlite3}}
	Index (BatchID, Backend(100), Variant(100), Threads),
{{end}}
	FOREIGN KEY (BatchID) REFERENCES Batches(BatchID) ON UPDATE CASCADE ON DELETE CASCADE
);
{{if .sqlite3}}
CREATE INDEX IF NOT EXISTS MeasurementsConfig ON Measurements(BatchID, Backend, Variant, Threads);
{{end}}
`))

// createTables creates any missing tables on the connection in
// db.sql. driverName is the same driver name passed to sql.Open and
// is used to select the correct syntax.
func (db *DB) createTables(driverName string) error {
	var buf bytes.Buffer
	if err := createTmpl.Execute(&buf, map[string]bool{driverName: true}); err != nil {
		return err
	}
	for _, q := range strings.Split(buf.String(), ";") {
		if strings.TrimSpace(q) == "" {
			continue
		}
		if _, err := db.sql.Exec(q); err != nil {
			return fmt.Errorf("create table: %v", err)
		}
	}
	return nil
}

// prepareStatements calls db.sql.Prepare on reusable SQL statements.
func (db *DB) prepareStatements(driverName string) error {
	var err error
	q := "SELECT Seq FROM Batches WHERE Day = ? ORDER BY Seq DESC LIMIT 1"
	if driverName != "sqlite3" {
		// Lock the row so concurrent writers cannot reserve the
		// same sequence number. SQLite has no FOR UPDATE; its
		// single-writer transactions give the same guarantee.
		q += " FOR UPDATE"
	}
	db.lastBatchSeq, err = db.sql.Prepare(q)
	if err != nil {
		return err
	}
	db.insertBatch, err = db.sql.Prepare("INSERT INTO Batches(BatchID, Day, Seq, UploadTime) VALUES (?, ?, ?, ?)")
	if err != nil {
		return err
	}
	db.insertMeasurement, err = db.sql.Prepare("INSERT INTO Measurements(BatchID, RowNum, Backend, Variant, Threads, N, Bins, MinV, MaxV, Seed, GenMS, HistMS, TotalMS, SumHist) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return err
	}
	return nil
}

// A Batch is an open transaction that adds one benchmark run's
// measurements to the archive. Nothing is visible to readers until
// Commit.
type Batch struct {
	// ID is the batch's identifier, "YYYYMMDD.n": the UTC day the
	// batch was started and its 1-based sequence number within
	// that day.
	ID string

	// tx is the transaction used by the batch.
	tx *sql.Tx
	// db is the underlying database this batch is going to.
	db *DB
	// rowNum is the index of the next measurement to insert.
	rowNum int64
}

// NewBatch starts a new batch for storing measurements.
func (db *DB) NewBatch(ctx context.Context) (*Batch, error) {
	day := nowFunc().UTC().Format("20060102")

	tx, err := db.sql.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	// Find the day's most recent sequence number. The SELECT and
	// the INSERT below must share the batch's transaction so two
	// concurrent batches cannot reserve the same number.
	var seq int64
	err = tx.Stmt(db.lastBatchSeq).QueryRow(day).Scan(&seq)
	if err != nil && err != sql.ErrNoRows {
		tx.Rollback()
		return nil, err
	}
	seq++

	id := fmt.Sprintf("%s.%d", day, seq)
	if _, err := tx.Stmt(db.insertBatch).Exec(id, day, seq, nowFunc().UTC().Format(timeFormat)); err != nil {
		tx.Rollback()
		return nil, err
	}
	return &Batch{ID: id, tx: tx, db: db}, nil
}

// InsertMeasurement adds a single measurement to the batch.
func (b *Batch) InsertMeasurement(m *benchcsv.Measurement) error {
	_, err := b.tx.Stmt(b.db.insertMeasurement).Exec(
		b.ID, b.rowNum,
		m.Backend, m.Variant, m.Threads,
		m.N, m.Bins, m.Min, m.Max, m.Seed,
		m.GenMS, m.HistMS, m.TotalMS,
		strconv.FormatUint(m.SumHist, 10),
	)
	if err != nil {
		return err
	}
	b.rowNum++
	return nil
}

// Commit persists the batch to the database.
func (b *Batch) Commit() error {
	tx := b.tx
	b.tx = nil
	return tx.Commit()
}

// Abort rolls the batch back. Calling Abort after Commit has no
// effect, so callers may unconditionally defer it.
func (b *Batch) Abort() error {
	if b.tx == nil {
		return nil
	}
	tx := b.tx
	b.tx = nil
	return tx.Rollback()
}

// A BatchInfo describes one committed batch.
type BatchInfo struct {
	// ID is the batch's identifier, as returned by NewBatch.
	ID string
	// Time is when the batch was uploaded, in UTC, at second
	// precision.
	Time time.Time
	// Rows is the number of measurements in the batch.
	Rows int
}

// ListBatches returns every batch in the archive, oldest first.
func (db *DB) ListBatches(ctx context.Context) ([]BatchInfo, error) {
	rows, err := db.sql.QueryContext(ctx, `
SELECT b.BatchID, b.UploadTime, COUNT(m.BatchID)
FROM Batches b LEFT JOIN Measurements m ON b.BatchID = m.BatchID
GROUP BY b.BatchID, b.Day, b.Seq, b.UploadTime
ORDER BY b.Day, b.Seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var batches []BatchInfo
	for rows.Next() {
		var info BatchInfo
		var uploadTime string
		if err := rows.Scan(&info.ID, &uploadTime, &info.Rows); err != nil {
			return nil, err
		}
		info.Time, err = time.Parse(timeFormat, uploadTime)
		if err != nil {
			return nil, fmt.Errorf("batch %s: bad upload time: %v", info.ID, err)
		}
		batches = append(batches, info)
	}
	return batches, rows.Err()
}

// Measurements returns the measurements of one batch, in the order
// they were inserted. It returns an error if the batch does not
// exist.
func (db *DB) Measurements(ctx context.Context, batchID string) ([]*benchcsv.Measurement, error) {
	var day string
	err := db.sql.QueryRowContext(ctx, "SELECT Day FROM Batches WHERE BatchID = ?", batchID).Scan(&day)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("no batch %q", batchID)
	}
	if err != nil {
		return nil, err
	}

	rows, err := db.sql.QueryContext(ctx, `
SELECT Backend, Variant, Threads, N, Bins, MinV, MaxV, Seed, GenMS, HistMS, TotalMS, SumHist
FROM Measurements WHERE BatchID = ? ORDER BY RowNum`, batchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ms []*benchcsv.Measurement
	for rows.Next() {
		m := new(benchcsv.Measurement)
		var sumHist string
		err := rows.Scan(&m.Backend, &m.Variant, &m.Threads,
			&m.N, &m.Bins, &m.Min, &m.Max, &m.Seed,
			&m.GenMS, &m.HistMS, &m.TotalMS, &sumHist)
		if err != nil {
			return nil, err
		}
		m.SumHist, err = strconv.ParseUint(sumHist, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("batch %s: bad sum_hist: %v", batchID, err)
		}
		ms = append(ms, m)
	}
	return ms, rows.Err()
}

// CountBatches returns the number of batches in the archive.
func (db *DB) CountBatches() (int, error) {
	var batches int
	err := db.sql.QueryRow("SELECT COUNT(*) FROM Batches").Scan(&batches)
	return batches, err
}

// Close closes the database connections, releasing any open resources.
func (db *DB) Close() error {
	for _, stmt := range []*sql.Stmt{db.lastBatchSeq, db.insertBatch, db.insertMeasurement} {
		if err := stmt.Close(); err != nil {
			return err
		}
	}
	return db.sql.Close()
}
