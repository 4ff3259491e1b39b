// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package strarena

// PageSize defines the standard memory page size (4 KiB) used for
// page-aligned backing allocations.
var PageSize uintptr = 4096

// SetPageSize updates the package-level page size used for allocations.
func SetPageSize(size int) {
	PageSize = uintptr(size)
}

// Align is the allocator alignment constant. Every allocation extent
// occupies a multiple of Align bytes, with a floor of Align.
const Align = 8

// codeUnitBytes (U in the design documents) is the number of bytes per
// stored code unit. strarena stores raw UTF-8 bytes, so U is 1; a
// UTF-16-backed variant would set this to 2.
const codeUnitBytes = 1

// noCopy is a sentinel used to prevent copying of synchronization primitives.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}
