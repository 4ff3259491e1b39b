// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package strarena

import "iter"

// record is the per-allocation bookkeeping entry: where it lives in the
// backing buffer and how many code units the caller stored there.
type record struct {
	offset uint64
	length uint64 // length in code units, not bytes
}

// allocTable maps live allocation ids to records and mints fresh ids.
// Id 0 is reserved and never stored: lookup synthesizes an empty record
// for it without touching the map.
type allocTable struct {
	records map[uint64]record
	counter uint64
}

func newAllocTable() *allocTable {
	return &allocTable{records: make(map[uint64]record)}
}

// register mints a new id for (offset, length) and returns it. The
// counter wraps to 1 (skipping the reserved 0) on overflow; reaching the
// wrap point while a pre-wrap handle is still alive is not a realistic
// scenario at the scale implied by a single contiguous in-memory buffer.
func (t *allocTable) register(offset, length uint64) uint64 {
	t.counter++
	if t.counter == 0 {
		t.counter = 1
	}
	id := t.counter
	t.records[id] = record{offset: offset, length: length}
	return id
}

// lookup returns the record for id, or false if id is neither 0 nor
// present. Id 0 always resolves to the synthetic empty record.
func (t *allocTable) lookup(id uint64) (record, bool) {
	if id == 0 {
		return record{}, true
	}
	rec, ok := t.records[id]
	return rec, ok
}

// unregister removes id from the table and returns its prior record.
// Id 0 is never present and always reports false.
func (t *allocTable) unregister(id uint64) (record, bool) {
	if id == 0 {
		return record{}, false
	}
	rec, ok := t.records[id]
	if ok {
		delete(t.records, id)
	}
	return rec, ok
}

// rewriteOffset updates the recorded offset for a live id, used by
// CompactAndGrow after copying an allocation into its new home.
func (t *allocTable) rewriteOffset(id uint64, newOffset uint64) {
	rec := t.records[id]
	rec.offset = newOffset
	t.records[id] = rec
}

// all iterates every live (id, record) pair. Iteration order is
// unspecified; callers must not rely on it.
func (t *allocTable) all() iter.Seq2[uint64, record] {
	return func(yield func(uint64, record) bool) {
		for id, rec := range t.records {
			if !yield(id, rec) {
				return
			}
		}
	}
}

func (t *allocTable) len() int { return len(t.records) }

func (t *allocTable) clear() {
	t.records = make(map[uint64]record)
}
