// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package strarena

import "math"

// Tuning constants for the coalesce guard (spec §4.3): coalesce only
// runs when fragmentation pressure, free-block count, and churn since
// the last coalesce all clear their thresholds together, so a single
// Free never pays an O(N log N) sweep on its own. growthFactor sets how
// much capacity an automatic grow adds.
const (
	fragThreshold           = 0.35
	minBlocksToCoalesce     = 8
	minFreesBetweenCoalesce = 10
	growthFactor            = 1.5
)

type poolState int32

const (
	stateOpen poolState = iota
	stateDisposed
)

// Pool is the public coordinator: it owns the backing buffer, the
// allocation table, and the free-space index, and implements Allocate,
// Free, and CompactAndGrow. A Pool is single-writer: Allocate, Free,
// CompactAndGrow, Clear, and Dispose all require the caller to hold
// exclusive access. Read and the derived metrics are safe to call
// concurrently with each other provided no mutation is in progress.
//
// The zero value is not usable; construct with New.
type Pool struct {
	_ noCopy

	mem           []byte
	capacityBytes uint64
	bumpOffset    uint64
	tier          regionTier
	pooled        bool

	table *allocTable
	free  *freeIndex

	allowGrowth        bool
	freesSinceCoalesce int

	state poolState
}

// New creates a Pool with room for at least initialCapacityUnits code
// units. If allowGrowth is false, allocations that do not fit fail with
// ErrOutOfMemory instead of triggering CompactAndGrow.
func New(initialCapacityUnits int, allowGrowth bool) (*Pool, error) {
	if initialCapacityUnits < 1 {
		return nil, ErrInvalidArgument
	}
	if uint64(initialCapacityUnits) > maxSafeLengthUnits {
		return nil, ErrInvalidArgument
	}
	need := uint64(initialCapacityUnits) * codeUnitBytes

	mem, tier, pooled := acquireRegion(need)
	return &Pool{
		mem:           mem,
		capacityBytes: uint64(len(mem)),
		tier:          tier,
		pooled:        pooled,
		table:         newAllocTable(),
		free:          newFreeIndex(),
		allowGrowth:   allowGrowth,
	}, nil
}

// AllocateFilled allocates room for len(src) code units and copies src
// into it. An empty src returns id 0 (the reserved empty identifier)
// without allocating.
func (p *Pool) AllocateFilled(src []byte) (uint64, error) {
	if p.state == stateDisposed {
		return 0, ErrDisposed
	}
	if len(src) == 0 {
		return 0, nil
	}
	id, err := p.allocateUninitLocked(len(src))
	if err != nil {
		return 0, err
	}
	rec, _ := p.table.lookup(id)
	copy(p.mem[rec.offset:], src)
	return id, nil
}

// AllocateGather allocates room for the combined length of chunks and
// copies each chunk into place in order, without requiring the caller to
// pre-concatenate them. An empty or all-empty chunks list returns id 0,
// exactly like AllocateFilled(nil).
func (p *Pool) AllocateGather(chunks ...[]byte) (uint64, error) {
	if p.state == stateDisposed {
		return 0, ErrDisposed
	}
	total := 0
	for _, c := range chunks {
		total += len(c)
	}
	if total == 0 {
		return 0, nil
	}
	id, err := p.allocateUninitLocked(total)
	if err != nil {
		return 0, err
	}
	rec, _ := p.table.lookup(id)
	placeGatherAt(p.mem, rec.offset, ioVecFromChunks(chunks))
	return id, nil
}

// AllocateUninit allocates room for lengthUnits code units with
// unspecified contents. lengthUnits <= 0 returns id 0 without
// allocating.
func (p *Pool) AllocateUninit(lengthUnits int) (uint64, error) {
	if p.state == stateDisposed {
		return 0, ErrDisposed
	}
	return p.allocateUninitLocked(lengthUnits)
}

func (p *Pool) allocateUninitLocked(lengthUnits int) (uint64, error) {
	if lengthUnits <= 0 {
		return 0, nil
	}
	if uint64(lengthUnits) > maxSafeLengthUnits {
		return 0, ErrInvalidArgument
	}
	need := neededBytes(uint64(lengthUnits))

	if e, ok := p.free.findFit(need); ok {
		p.free.remove(e)
		if e.size-need >= Align {
			p.free.insert(extent{offset: e.offset + need, size: e.size - need})
		}
		return p.table.register(e.offset, uint64(lengthUnits)), nil
	}

	if p.bumpOffset+need <= p.capacityBytes {
		off := p.bumpOffset
		p.bumpOffset += need
		return p.table.register(off, uint64(lengthUnits)), nil
	}

	if !p.allowGrowth {
		return 0, ErrOutOfMemory
	}

	extra := need
	if grown := uint64(float64(p.capacityBytes) * growthFactor); grown > extra {
		extra = grown
	}
	if err := p.compactAndGrowLocked(extra); err != nil {
		return 0, err
	}
	off := p.bumpOffset
	p.bumpOffset += need
	return p.table.register(off, uint64(lengthUnits)), nil
}

// Free releases the allocation identified by id, returning its bytes to
// the Free-Space Index. Free is a no-op on a disposed pool, on id 0, and
// on an id that is not (or no longer) live: double-free is safe.
func (p *Pool) Free(id uint64) error {
	if p.state == stateDisposed || id == 0 {
		return nil
	}
	rec, ok := p.table.unregister(id)
	if !ok {
		return nil
	}
	p.free.insert(extent{offset: rec.offset, size: neededBytes(rec.length)})
	p.freesSinceCoalesce++

	if p.shouldCoalesce() {
		p.free.coalesce()
		p.freesSinceCoalesce = 0
	}
	return nil
}

func (p *Pool) shouldCoalesce() bool {
	if p.capacityBytes == 0 {
		return false
	}
	frag := float64(p.free.totalBytes) / float64(p.capacityBytes)
	return frag > fragThreshold &&
		p.free.totalBlocks >= minBlocksToCoalesce &&
		p.freesSinceCoalesce >= minFreesBetweenCoalesce
}

// CompactAndGrow copies every live allocation into a fresh backing
// buffer of capacityBytes+additionalBytes, rewriting recorded offsets so
// existing ids remain valid, then releases the old buffer. If any fatal
// step occurs after the new buffer is allocated but before it is
// installed, the new buffer is released and the pool is left unchanged.
func (p *Pool) CompactAndGrow(additionalBytes int) error {
	if p.state == stateDisposed {
		return ErrDisposed
	}
	if additionalBytes < 0 {
		return ErrInvalidArgument
	}
	return p.compactAndGrowLocked(uint64(additionalBytes))
}

func (p *Pool) compactAndGrowLocked(additionalBytes uint64) error {
	if additionalBytes > math.MaxUint64-p.capacityBytes {
		return ErrInvalidArgument
	}
	newCap := p.capacityBytes + additionalBytes
	newMem, newTier, newPooled := acquireRegion(newCap)
	if uint64(len(newMem)) < newCap {
		releaseRegion(newMem, newTier, newPooled)
		return ErrOutOfMemory
	}

	type placement struct {
		id     uint64
		offset uint64
	}
	placements := make([]placement, 0, p.table.len())
	var newOffset uint64
	for id, rec := range p.table.all() {
		n := rec.length * codeUnitBytes
		copy(newMem[newOffset:], p.mem[rec.offset:rec.offset+n])
		placements = append(placements, placement{id: id, offset: newOffset})
		newOffset += neededBytes(rec.length)
	}
	for _, pl := range placements {
		p.table.rewriteOffset(pl.id, pl.offset)
	}

	oldMem, oldTier, oldPooled := p.mem, p.tier, p.pooled
	p.mem = newMem
	p.capacityBytes = uint64(len(newMem))
	p.bumpOffset = newOffset
	p.tier = newTier
	p.pooled = newPooled
	p.free.clear()
	p.freesSinceCoalesce = 0

	releaseRegion(oldMem, oldTier, oldPooled)
	return nil
}

// Read returns a view of the bytes stored for id. The returned slice
// aliases the pool's backing buffer and is only valid until the next
// mutating call. Returns ErrStaleID for an id that is not live,
// ErrDisposed on a disposed pool. Id 0 always returns an empty view.
func (p *Pool) Read(id uint64) ([]byte, error) {
	if p.state == stateDisposed {
		return nil, ErrDisposed
	}
	rec, ok := p.table.lookup(id)
	if !ok {
		return nil, ErrStaleID
	}
	n := rec.length * codeUnitBytes
	return p.mem[rec.offset : rec.offset+n : rec.offset+n], nil
}

// LengthUnits returns the code-unit length of the allocation identified
// by id. Id 0 reports 0.
func (p *Pool) LengthUnits(id uint64) (uint64, error) {
	if p.state == stateDisposed {
		return 0, ErrDisposed
	}
	rec, ok := p.table.lookup(id)
	if !ok {
		return 0, ErrStaleID
	}
	return rec.length, nil
}

// Clear drops every live allocation and free extent, resetting the
// buffer to empty. The identifier counter is preserved, so ids minted
// before Clear never collide with ids minted after.
func (p *Pool) Clear() error {
	if p.state == stateDisposed {
		return ErrDisposed
	}
	p.table.clear()
	p.free.clear()
	p.bumpOffset = 0
	p.freesSinceCoalesce = 0
	return nil
}

// Dispose releases the backing buffer and marks the pool dead. Dispose
// is idempotent. After Dispose, every operation except Free fails with
// ErrDisposed.
func (p *Pool) Dispose() error {
	if p.state == stateDisposed {
		return nil
	}
	releaseRegion(p.mem, p.tier, p.pooled)
	p.mem = nil
	p.state = stateDisposed
	return nil
}

// FreeSpaceUnits returns the total reclaimable-or-unused space, in code
// units: the tail free region plus every free extent. It fails with
// ErrDisposed on a disposed pool.
func (p *Pool) FreeSpaceUnits() (uint64, error) {
	if p.state == stateDisposed {
		return 0, ErrDisposed
	}
	return (p.capacityBytes - p.bumpOffset + p.free.totalBytes) / codeUnitBytes, nil
}

// TailFreeUnits returns the size, in code units, of the tail free region
// beyond the highest-addressed allocation ever handed out since the last
// compaction. It fails with ErrDisposed on a disposed pool.
func (p *Pool) TailFreeUnits() (uint64, error) {
	if p.state == stateDisposed {
		return 0, ErrDisposed
	}
	return (p.capacityBytes - p.bumpOffset) / codeUnitBytes, nil
}

// ActiveAllocations returns the number of live allocations. It fails with
// ErrDisposed on a disposed pool.
func (p *Pool) ActiveAllocations() (int, error) {
	if p.state == stateDisposed {
		return 0, ErrDisposed
	}
	return p.table.len(), nil
}

// FragmentationPct expresses reclaimable-but-not-yet-reclaimed bytes as
// a percentage of total capacity. A single large free block and many
// scattered small ones contribute equally to this figure. The coalesce
// guard (shouldCoalesce) compares the same ratio against fragThreshold,
// as a fraction (0.35) rather than a percentage. It fails with
// ErrDisposed on a disposed pool.
func (p *Pool) FragmentationPct() (float64, error) {
	if p.state == stateDisposed {
		return 0, ErrDisposed
	}
	if p.capacityBytes == 0 {
		return 0, nil
	}
	return 100 * float64(p.free.totalBytes) / float64(p.capacityBytes), nil
}
