// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package strarena

import "math"

// maxSafeLengthUnits is the largest length (in code units) that can be
// allocated without overflowing the byte-size arithmetic: after
// multiplying by codeUnitBytes and padding up to Align, the result must
// still fit in a uint64.
const maxSafeLengthUnits = (math.MaxUint64 - Align + 1) / codeUnitBytes

// alignUp rounds n up to the nearest multiple of align, which must be a
// power of two.
func alignUp(n, align uint64) uint64 {
	return (n + align - 1) &^ (align - 1)
}

// neededBytes computes the aligned byte extent for an allocation of
// lengthUnits code units: at least Align, and a multiple of Align.
func neededBytes(lengthUnits uint64) uint64 {
	b := lengthUnits * codeUnitBytes
	aligned := alignUp(b, Align)
	if aligned < Align {
		aligned = Align
	}
	return aligned
}
