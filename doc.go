// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package strarena provides a single-writer, arena-style string allocator:
// a fixed-but-growable contiguous byte buffer that stores variable-length
// strings and hands out cheap, copyable allocation ids.
//
// strarena targets workloads where many short-lived text values would
// otherwise stress a general-purpose allocator or the garbage collector:
// parsers, caches, and message processors that mint and discard strings
// in bursts.
//
// # Core components
//
// The allocator is built from four components that compose strictly in
// dependency order:
//
//	Backing Buffer    owns one contiguous []byte region and a bump offset.
//	Allocation Table  maps live allocation ids to (offset, length) records.
//	Free-Space Index  tracks free extents by size for best-fit reuse.
//	Pool              public coordinator: Allocate, Free, CompactAndGrow.
//
// Handle is a small collaborator type layered on top of Pool: a two-word
// value (pool reference, id) that is freely copyable and never owns
// storage.
//
// # Allocation ids
//
// Every allocation receives a monotonically increasing id, never reused
// for the life of a Pool. Id 0 is reserved and always denotes the empty
// string; it resolves to an empty view without consulting the Pool at
// all, so a zero-value Handle is already a valid empty string.
//
// # Growth and compaction
//
// A Pool created with allowGrowth resizes itself by copying every live
// allocation into a fresh, larger buffer and rewriting its recorded
// offset (CompactAndGrow). Allocation ids are stable across this move;
// raw byte addresses are not.
//
//	p, err := strarena.New(64, true)
//	id, err := p.AllocateFilled([]byte("hello"))
//	s, err := p.Read(id)
//	p.Free(id)
//	p.Dispose()
//
// # Backing memory reuse
//
// Backing regions are rounded up to one of twelve size tiers (32 B to
// 128 MiB) and, within those tiers, recycled through a lock-free bounded
// pool instead of being freed back to the Go runtime on every
// CompactAndGrow or Dispose. This amortizes the large-allocation cost
// across the many short-lived Pool instances the package targets.
//
// # Concurrency
//
// strarena is single-writer: Allocate, Free, CompactAndGrow, Clear, and
// Dispose all require the caller to hold exclusive access, by convention
// or by wrapping Pool in a sync.RWMutex. Read, LengthUnits, and the
// derived metrics are safe to call concurrently with each other provided
// no mutation is in progress concurrently. The backing-region recycler
// itself is a separate, genuinely concurrent structure shared across
// Pool instances.
//
// # Dependencies
//
// strarena depends on:
//   - iox: semantic error types (ErrWouldBlock), used by the internal
//     backing-region recycler's non-blocking Get/Put.
//   - spin: spin-wait primitives used by the same recycler's lock-free
//     queue.
package strarena
