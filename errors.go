// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package strarena

import "errors"

// Sentinel errors returned at the Pool boundary. Callers compare with
// errors.Is, the same idiom iox.ErrWouldBlock uses internally; none of
// these are ever wrapped by strarena itself.
var (
	// ErrInvalidArgument is returned when a parameter is rejected before
	// any mutation takes place: non-positive capacity, a negative grow
	// delta, or a length that would overflow size arithmetic.
	ErrInvalidArgument = errors.New("strarena: invalid argument")

	// ErrStaleID is returned by Read and LengthUnits when the id is not
	// present in the Allocation Table (id 0 is never stale).
	ErrStaleID = errors.New("strarena: stale allocation id")

	// ErrOutOfMemory is returned when a backing allocation is refused by
	// policy: the pool is full and growth is disabled.
	ErrOutOfMemory = errors.New("strarena: out of memory")

	// ErrDisposed is returned when an operation other than Free is
	// attempted on a disposed Pool.
	ErrDisposed = errors.New("strarena: pool disposed")
)
