// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package strarena

import (
	"unsafe"

	"code.hybscloud.com/strarena/internal"
)

// AlignedMem returns a byte slice with the specified size and starting
// address aligned to the given page size.
//
// The returned slice shares underlying memory with a larger allocation;
// do not assume len(result) == cap(result).
func AlignedMem(size int, pageSize uintptr) []byte {
	p := make([]byte, uintptr(size)+pageSize-1)
	base := unsafe.Pointer(unsafe.SliceData(p))
	offset := ((uintptr(base)+pageSize-1)/pageSize)*pageSize - uintptr(base)
	return unsafe.Slice((*byte)(unsafe.Add(base, offset)), size)
}

// CacheLineSize is the CPU L1 cache line size for the current architecture.
const CacheLineSize = internal.CacheLineSize

// CacheLineAlignedMem returns a byte slice with the specified size and
// starting address aligned to the CPU cache line size. Pool does not use
// it for its own backing region, which comes from AlignedMem.
func CacheLineAlignedMem(size int) []byte {
	align := uintptr(CacheLineSize)
	p := make([]byte, uintptr(size)+align-1)
	base := unsafe.Pointer(unsafe.SliceData(p))
	offset := ((uintptr(base)+align-1)/align)*align - uintptr(base)
	return unsafe.Slice((*byte)(unsafe.Add(base, offset)), size)
}

// Backing regions are rounded up to one of twelve size tiers following a
// power-of-4 progression, mirroring the teacher package's buffer tiers.
// Tiers let small, short-lived pools share a common recycling pool
// instead of each hitting the runtime allocator directly.
const (
	regionSizePico   = 1 << 5  // 32 B
	regionSizeNano   = 1 << 7  // 128 B
	regionSizeMicro  = 1 << 9  // 512 B
	regionSizeSmall  = 1 << 11 // 2 KiB
	regionSizeMedium = 1 << 13 // 8 KiB
	regionSizeBig    = 1 << 15 // 32 KiB
	regionSizeLarge  = 1 << 17 // 128 KiB
	regionSizeGreat  = 1 << 19 // 512 KiB
	regionSizeHuge   = 1 << 21 // 2 MiB
	regionSizeVast   = 1 << 23 // 8 MiB
	regionSizeGiant  = 1 << 25 // 32 MiB
	regionSizeTitan  = 1 << 27 // 128 MiB
)

// regionTier indexes the twelve backing-region size tiers.
type regionTier int

const (
	tierPico regionTier = iota
	tierNano
	tierMicro
	tierSmall
	tierMedium
	tierBig
	tierLarge
	tierGreat
	tierHuge
	tierVast
	tierGiant
	tierTitan
	tierEnd // sentinel: larger than any pooled tier
)

var regionTierSizes = [tierEnd]uint64{
	tierPico:   regionSizePico,
	tierNano:   regionSizeNano,
	tierMicro:  regionSizeMicro,
	tierSmall:  regionSizeSmall,
	tierMedium: regionSizeMedium,
	tierBig:    regionSizeBig,
	tierLarge:  regionSizeLarge,
	tierGreat:  regionSizeGreat,
	tierHuge:   regionSizeHuge,
	tierVast:   regionSizeVast,
	tierGiant:  regionSizeGiant,
	tierTitan:  regionSizeTitan,
}

// tierBySize returns the smallest pooled tier that can hold size bytes,
// or tierEnd if size exceeds even the largest tier.
func tierBySize(size uint64) regionTier {
	for t := tierPico; t < tierEnd; t++ {
		if size <= regionTierSizes[t] {
			return t
		}
	}
	return tierEnd
}

// size returns the backing-region size for this tier, or 0 for tierEnd.
func (t regionTier) size() uint64 {
	if t < 0 || t >= tierEnd {
		return 0
	}
	return regionTierSizes[t]
}
