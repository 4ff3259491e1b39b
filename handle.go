// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package strarena

// Handle is a small, freely copyable value referring to an allocation
// inside a Pool. It stores only a pool reference and an allocation id,
// never owns storage, and is safe to pass and copy by value. Handle is a
// collaborator layered on top of Pool, not itself part of the core.
type Handle struct {
	pool *Pool
	id   uint64
}

// NewHandle wraps an id already minted by pool into a Handle.
func NewHandle(pool *Pool, id uint64) Handle {
	return Handle{pool: pool, id: id}
}

// IsEmpty reports whether h refers to the canonical empty string. Id 0
// is always the empty string, regardless of which pool (or no pool) the
// Handle carries.
func (h Handle) IsEmpty() bool {
	return h.id == 0
}

// Read resolves h through its pool. Id 0 resolves to an empty view
// without consulting the pool at all, even if pool is nil.
func (h Handle) Read() ([]byte, error) {
	if h.id == 0 {
		return nil, nil
	}
	return h.pool.Read(h.id)
}

// LengthUnits resolves h's length through its pool. Id 0 is always 0.
func (h Handle) LengthUnits() (uint64, error) {
	if h.id == 0 {
		return 0, nil
	}
	return h.pool.LengthUnits(h.id)
}

// Free releases the underlying allocation unconditionally, mirroring
// Pool.Free's idempotence: freeing an empty or already-freed Handle is a
// safe no-op.
func (h Handle) Free() {
	if h.pool == nil {
		return
	}
	_ = h.pool.Free(h.id)
}
