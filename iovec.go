// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package strarena

import (
	"unsafe"
)

// IoVec represents a scatter/gather descriptor, memory-layout compatible
// with the standard Linux struct iovec. strarena uses it purely as an
// in-process gather descriptor for AllocateGather; it never crosses a
// syscall boundary here.
//
//	struct iovec {
//	    void  *iov_base;  // Starting address
//	    size_t iov_len;   // Number of bytes
//	};
type IoVec struct {
	Base *byte  // Starting address of the memory block
	Len  uint64 // Number of bytes in the block
}

// ioVecFromChunks converts a slice of byte slices into IoVec descriptors
// pointing directly at their backing memory, without copying.
func ioVecFromChunks(chunks [][]byte) []IoVec {
	if len(chunks) == 0 {
		return nil
	}
	vec := make([]IoVec, len(chunks))
	for i, c := range chunks {
		if len(c) == 0 {
			continue
		}
		vec[i] = IoVec{Base: unsafe.SliceData(c), Len: uint64(len(c))}
	}
	return vec
}

// placeGatherAt copies each IoVec segment, in order, into dst starting at
// offset. The caller must ensure dst has room for the sum of segment
// lengths starting at offset.
func placeGatherAt(dst []byte, offset uint64, iovs []IoVec) {
	for _, v := range iovs {
		if v.Len == 0 {
			continue
		}
		seg := unsafe.Slice(v.Base, v.Len)
		copy(dst[offset:], seg)
		offset += v.Len
	}
}
