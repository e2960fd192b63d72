// Copyright (c) 2026 The OpenFi Ledger developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package eventdb persists operation records in sqlite for later querying.
package eventdb

import (
	"context"
	"database/sql"
	"encoding/json"

	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/openfi/ledger/contracts"
	"github.com/openfi/ledger/ledger"
	"github.com/openfi/ledger/log"
)

var logger = log.WithContext("pkg", "eventdb")

const recordTableSchema = `CREATE TABLE IF NOT EXISTS record (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	op TEXT NOT NULL,
	caller BLOB(20) NOT NULL,
	blockNumber INTEGER NOT NULL,
	blockTime INTEGER NOT NULL,
	params TEXT NOT NULL,
	err TEXT NOT NULL DEFAULT '');

CREATE INDEX IF NOT EXISTS recordOp ON record(op);
CREATE INDEX IF NOT EXISTS recordCaller ON record(caller);
CREATE INDEX IF NOT EXISTS recordBlockNumber ON record(blockNumber);`

// EventDB stores one row per applied or reverted operation.
type EventDB struct {
	path          string
	db            *sql.DB
	driverVersion string
}

// New creates or opens an event db at the given path.
func New(path string) (eventDB *EventDB, err error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if eventDB == nil {
			db.Close()
		}
	}()
	if _, err := db.Exec(recordTableSchema); err != nil {
		return nil, err
	}

	driverVer, _, _ := sqlite3.Version()
	return &EventDB{
		path,
		db,
		driverVer,
	}, nil
}

// NewMem creates an event db in ram.
func NewMem() (*EventDB, error) {
	return New(":memory:")
}

// Close closes the event db.
func (db *EventDB) Close() {
	db.db.Close()
}

func (db *EventDB) Path() string {
	return db.path
}

// Write stores a single record.
func (db *EventDB) Write(r contracts.Record) error {
	params, err := json.Marshal(r.Params)
	if err != nil {
		return errors.Wrap(err, "encode record params")
	}
	_, err = db.db.Exec(
		"INSERT INTO record(op, caller, blockNumber, blockTime, params, err) VALUES(?,?,?,?,?,?)",
		r.Op, r.Caller.Bytes(), r.Block, r.Time, string(params), r.Err)
	return err
}

// Emit implements contracts.Emitter. Records are a side channel, a failed
// insert is logged and otherwise dropped.
func (db *EventDB) Emit(r contracts.Record) {
	if err := db.Write(r); err != nil {
		logger.Warn("failed to write operation record", "op", r.Op, "err", err)
	}
}

// Order of returned records.
type Order string

const (
	ASC  Order = "asc"
	DESC Order = "desc"
)

// Options paginate a query.
type Options struct {
	Offset uint64
	Limit  uint64
}

// Range bounds a query by block number.
type Range struct {
	From uint32
	To   uint32
}

// Filter narrows a record query. Zero-valued fields match everything.
type Filter struct {
	Op           string
	Caller       *ledger.Address
	Range        *Range
	OnlyReverted bool
	Order        Order
	Options      *Options
}

// StoredRecord is one queried row.
type StoredRecord struct {
	Seq    uint64
	Op     string
	Caller ledger.Address
	Block  uint32
	Time   uint64
	Params []contracts.Param
	Err    string
}

// Filter queries stored records.
func (db *EventDB) Filter(ctx context.Context, filter *Filter) ([]*StoredRecord, error) {
	stmt := "SELECT seq, op, caller, blockNumber, blockTime, params, err FROM record WHERE 1"
	var args []interface{}
	if filter != nil {
		if filter.Op != "" {
			stmt += " AND op = ?"
			args = append(args, filter.Op)
		}
		if filter.Caller != nil {
			stmt += " AND caller = ?"
			args = append(args, filter.Caller.Bytes())
		}
		if filter.Range != nil {
			stmt += " AND blockNumber >= ?"
			args = append(args, filter.Range.From)
			if filter.Range.To >= filter.Range.From {
				stmt += " AND blockNumber <= ?"
				args = append(args, filter.Range.To)
			}
		}
		if filter.OnlyReverted {
			stmt += " AND err != ''"
		}
		if filter.Order == DESC {
			stmt += " ORDER BY seq DESC"
		} else {
			stmt += " ORDER BY seq ASC"
		}
		if filter.Options != nil {
			stmt += " LIMIT ?, ?"
			args = append(args, filter.Options.Offset, filter.Options.Limit)
		}
	}
	return db.query(ctx, stmt, args...)
}

func (db *EventDB) query(ctx context.Context, stmt string, args ...interface{}) ([]*StoredRecord, error) {
	rows, err := db.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*StoredRecord
	for rows.Next() {
		var (
			r         StoredRecord
			caller    []byte
			rawParams string
		)
		if err := rows.Scan(&r.Seq, &r.Op, &caller, &r.Block, &r.Time, &rawParams, &r.Err); err != nil {
			return nil, err
		}
		r.Caller = ledger.BytesToAddress(caller)
		if err := json.Unmarshal([]byte(rawParams), &r.Params); err != nil {
			return nil, errors.Wrap(err, "decode record params")
		}
		records = append(records, &r)
	}
	return records, rows.Err()
}
