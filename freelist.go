// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package strarena

import "sort"

// extent is a contiguous (offset, size) free region inside the backing
// buffer. Sizes are always a multiple of Align and at least Align.
type extent struct {
	offset uint64
	size   uint64
}

// freeIndex maintains free extents keyed by size, supporting best-fit
// search. Extents sharing a size are kept in insertion order and treated
// as a stack: findFit returns the most recently inserted entry of the
// smallest qualifying bucket, which keeps the index shape bounded under
// churn (repeated alloc/free of the same size class).
type freeIndex struct {
	buckets     map[uint64][]extent
	keys        []uint64 // sorted ascending, one entry per non-empty bucket
	totalBytes  uint64
	totalBlocks int
}

func newFreeIndex() *freeIndex {
	return &freeIndex{buckets: make(map[uint64][]extent)}
}

// insert adds an extent to its size bucket.
func (f *freeIndex) insert(e extent) {
	b, ok := f.buckets[e.size]
	if !ok {
		f.insertKey(e.size)
	}
	f.buckets[e.size] = append(b, e)
	f.totalBytes += e.size
	f.totalBlocks++
}

func (f *freeIndex) insertKey(size uint64) {
	i := sort.Search(len(f.keys), func(i int) bool { return f.keys[i] >= size })
	f.keys = append(f.keys, 0)
	copy(f.keys[i+1:], f.keys[i:])
	f.keys[i] = size
}

func (f *freeIndex) removeKey(size uint64) {
	i := sort.Search(len(f.keys), func(i int) bool { return f.keys[i] >= size })
	if i < len(f.keys) && f.keys[i] == size {
		f.keys = append(f.keys[:i], f.keys[i+1:]...)
	}
}

// remove deletes the specific extent matched on both offset and size.
// Reports whether a matching extent was found.
func (f *freeIndex) remove(e extent) bool {
	b := f.buckets[e.size]
	for i := len(b) - 1; i >= 0; i-- {
		if b[i].offset == e.offset {
			b = append(b[:i], b[i+1:]...)
			if len(b) == 0 {
				delete(f.buckets, e.size)
				f.removeKey(e.size)
			} else {
				f.buckets[e.size] = b
			}
			f.totalBytes -= e.size
			f.totalBlocks--
			return true
		}
	}
	return false
}

// findFit locates the smallest size bucket whose key is >= required and
// returns its last-inserted extent without removing it. Reports false
// if no bucket qualifies.
func (f *freeIndex) findFit(required uint64) (extent, bool) {
	i := sort.Search(len(f.keys), func(i int) bool { return f.keys[i] >= required })
	if i == len(f.keys) {
		return extent{}, false
	}
	b := f.buckets[f.keys[i]]
	if len(b) == 0 {
		return extent{}, false
	}
	return b[len(b)-1], true
}

// coalesce merges all physically adjacent free extents into single
// extents and rebuilds the index from the merged run. After coalesce, no
// two free extents are adjacent.
func (f *freeIndex) coalesce() {
	all := make([]extent, 0, f.totalBlocks)
	for _, b := range f.buckets {
		all = append(all, b...)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].offset < all[j].offset })

	merged := make([]extent, 0, len(all))
	for _, e := range all {
		if n := len(merged); n > 0 && merged[n-1].offset+merged[n-1].size == e.offset {
			merged[n-1].size += e.size
		} else {
			merged = append(merged, e)
		}
	}

	f.buckets = make(map[uint64][]extent, len(merged))
	f.keys = f.keys[:0]
	f.totalBytes = 0
	f.totalBlocks = 0
	for _, e := range merged {
		f.insert(e)
	}
}

// clear drops all extents.
func (f *freeIndex) clear() {
	f.buckets = make(map[uint64][]extent)
	f.keys = f.keys[:0]
	f.totalBytes = 0
	f.totalBlocks = 0
}
