// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package strarena

import (
	"sync"

	"code.hybscloud.com/iox"
)

// recyclerCapacity bounds how many backing regions each tier retains.
// Beyond this, released regions are simply dropped and left to the
// garbage collector, rather than growing the recycler without limit.
const recyclerCapacity = 16

// tierRecycler holds previously-released backing regions for one size
// tier. ready is the lock-free MPMC queue of slots currently holding a
// reusable region; free is the stack of slots currently holding no
// region, available for release to claim. Every slot index belongs to
// exactly one of the two at any instant, so ready never receives more
// tokens than recyclerCapacity and Put never blocks.
type tierRecycler struct {
	ready *BoundedPool[[]byte]

	freeMu sync.Mutex
	free   []int
}

func newTierRecycler() *tierRecycler {
	ready := NewBoundedPool[[]byte](recyclerCapacity)
	ready.Fill(func() []byte { return nil })

	// Fill leaves every slot immediately available; drain them all into
	// free so the tier starts with zero cached regions, matching a
	// recycler nothing has been released into yet.
	free := make([]int, 0, ready.Cap())
	for range ready.Cap() {
		idx, err := ready.Get()
		if err != nil {
			break
		}
		free = append(free, idx)
	}
	ready.SetNonblock(true)
	return &tierRecycler{ready: ready, free: free}
}

// tryGet removes and returns a cached region, if one is available. The
// slot it occupied is returned to free immediately, ready to be claimed
// by a future release.
func (tr *tierRecycler) tryGet() ([]byte, bool) {
	idx, err := tr.ready.Get()
	if err != nil {
		if err != iox.ErrWouldBlock {
			panic("strarena: unexpected error from recycler ready pool: " + err.Error())
		}
		return nil, false
	}
	mem := tr.ready.Value(idx)
	tr.ready.SetValue(idx, nil)

	tr.freeMu.Lock()
	tr.free = append(tr.free, idx)
	tr.freeMu.Unlock()

	return mem, mem != nil
}

// release offers mem back to the tier by claiming a free slot and
// publishing mem into ready. If every slot is already occupied, mem is
// dropped and left to the garbage collector.
func (tr *tierRecycler) release(mem []byte) {
	tr.freeMu.Lock()
	n := len(tr.free)
	if n == 0 {
		tr.freeMu.Unlock()
		return
	}
	idx := tr.free[n-1]
	tr.free = tr.free[:n-1]
	tr.freeMu.Unlock()

	tr.ready.SetValue(idx, mem)
	if err := tr.ready.Put(idx); err != nil {
		// free and ready together always account for exactly
		// recyclerCapacity slots, so Put always has room for idx.
		panic("strarena: recycler ready pool unexpectedly full: " + err.Error())
	}
}

// regionRecycler is the ambient "system memory allocator" the Backing
// Buffer component defers to (spec §4.1). It is a package-level,
// per-tier cache of previously-released backing regions, built on the
// same lock-free BoundedPool used elsewhere in this package. Sharing it
// across Pool instances amortizes large-allocation cost across the many
// short-lived pools strarena targets; see doc.go.
type regionRecycler struct {
	mu    sync.Mutex
	tiers [tierEnd]*tierRecycler
}

var recycler = &regionRecycler{}

func (r *regionRecycler) tierFor(t regionTier) *tierRecycler {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.tiers[t] == nil {
		r.tiers[t] = newTierRecycler()
	}
	return r.tiers[t]
}

// tryGet attempts to reuse a previously-released region of tier t.
func (r *regionRecycler) tryGet(t regionTier) ([]byte, bool) {
	if t >= tierEnd {
		return nil, false
	}
	return r.tierFor(t).tryGet()
}

// release offers a backing region back to its tier's recycler. If the
// recycler is full the region is dropped silently and reclaimed by the
// garbage collector.
func (r *regionRecycler) release(t regionTier, mem []byte) {
	if t >= tierEnd || mem == nil {
		return
	}
	r.tierFor(t).release(mem)
}

// acquireRegion returns a backing region of at least need bytes: a
// page-aligned slice of exactly its tier's size when need fits within the
// largest pooled tier, or a one-off page-aligned allocation above that.
func acquireRegion(need uint64) (mem []byte, tier regionTier, pooled bool) {
	if need < Align {
		need = Align
	}
	t := tierBySize(need)
	if t >= tierEnd {
		size := alignUp(need, uint64(PageSize))
		return AlignedMem(int(size), PageSize), tierEnd, false
	}
	if m, ok := recycler.tryGet(t); ok {
		clear(m)
		return m, t, true
	}
	return AlignedMem(int(t.size()), PageSize), t, true
}

// releaseRegion returns a backing region to the recycler, or lets it be
// garbage collected if it was a one-off oversized allocation.
func releaseRegion(mem []byte, tier regionTier, pooled bool) {
	if !pooled {
		return
	}
	recycler.release(tier, mem)
}
