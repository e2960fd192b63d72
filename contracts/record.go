// Copyright (c) 2026 The OpenFi Ledger developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package contracts

import (
	"github.com/openfi/ledger/ledger"
	"github.com/openfi/ledger/log"
	"github.com/openfi/ledger/metrics"
)

// Param is one named parameter of an operation record.
type Param struct {
	Name  string
	Value string
}

// Record is the structured trace of one state-changing operation. It is a
// side channel for external logging and indexing, never read back by the
// engines.
type Record struct {
	Op     string
	Caller ledger.Address
	Block  uint32
	Time   uint64
	Params []Param
	Err    string
}

// Emitter receives operation records.
type Emitter interface {
	Emit(Record)
}

// NopEmitter drops all records.
type NopEmitter struct{}

func (NopEmitter) Emit(Record) {}

var opCounter = metrics.CounterVec("contract_op_count", []string{"op", "status"})

// LogEmitter logs records and counts them per operation and outcome.
type LogEmitter struct {
	logger log.Logger
}

func NewLogEmitter(logger log.Logger) *LogEmitter {
	return &LogEmitter{logger: logger}
}

func (e *LogEmitter) Emit(r Record) {
	status := "ok"
	if r.Err != "" {
		status = "reverted"
	}
	opCounter.AddWithLabel(1, map[string]string{"op": r.Op, "status": status})

	kv := make([]any, 0, 2*(len(r.Params)+4))
	kv = append(kv, "op", r.Op, "caller", r.Caller, "block", r.Block, "time", r.Time)
	for _, p := range r.Params {
		kv = append(kv, p.Name, p.Value)
	}
	if r.Err != "" {
		kv = append(kv, "err", r.Err)
		e.logger.Info("operation reverted", kv...)
		return
	}
	e.logger.Debug("operation applied", kv...)
}
