// Copyright 2024 CloudWeGo Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package vring

// Host is the symmetric role to Guest, used by host-side validation
// harnesses: it maintains a free list of descriptors threaded through
// their own Next fields (an index-based intrusive free list, the
// descriptors themselves owned by the ring arena and referenced only by
// index across the ownership boundary) and hands them to the guest via
// available, reclaiming them from used once the guest is done.
type Host struct {
	m            mem
	mapper       Mapper
	freeHead     uint16
	hasFree      bool
	lastSeenUsed uint16
}

// NewHost constructs a Host view over buf and seeds the free list with
// every descriptor slot 0..N-1, chained in order.
func NewHost(buf []byte, layout Layout, mapper Mapper) *Host {
	h := &Host{m: newMem(buf, layout), mapper: mapper}
	for i := uint32(0); i < layout.N; i++ {
		d := Descriptor{}
		if i+1 < layout.N {
			d.Next = uint16(i + 1)
			d.Flags = DescNext
		}
		h.m.setDescriptor(i, d)
	}
	if layout.N > 0 {
		h.freeHead = 0
		h.hasFree = true
	}
	return h
}

// popFree removes and returns the head of the free list.
func (h *Host) popFree() (uint16, bool) {
	if !h.hasFree {
		return 0, false
	}
	idx := h.freeHead
	d := h.m.descriptor(uint32(idx))
	if d.Flags&DescNext != 0 {
		h.freeHead = d.Next
		h.hasFree = true
	} else {
		h.hasFree = false
	}
	return idx, true
}

// pushFree returns idx to the head of the free list.
func (h *Host) pushFree(idx uint16) {
	d := h.m.descriptor(uint32(idx))
	if h.hasFree {
		d.Next = h.freeHead
		d.Flags |= DescNext
	} else {
		d.Next = 0
		d.Flags &^= DescNext
	}
	h.m.setDescriptor(uint32(idx), d)
	h.freeHead = idx
	h.hasFree = true
}

// GiveToGuest pops a free descriptor, lets fill populate its buffer
// metadata (Addr/Len/Flags, excluding Next which this call owns), clears
// its NEXT flag since it's now detached from the free list, and publishes
// it on the available ring. Returns ErrOutOfMemory if the free list is
// empty.
func (h *Host) GiveToGuest(fill func(d *Descriptor)) error {
	idx, ok := h.popFree()
	if !ok {
		return ErrOutOfMemory
	}
	d := h.m.descriptor(uint32(idx))
	fill(&d)
	d.Flags &^= DescNext
	d.Next = 0
	h.m.setDescriptor(uint32(idx), d)

	slot := h.m.slot(h.m.availIdx())
	h.m.setAvailRingAt(slot, idx)
	h.m.setAvailIdx(h.m.availIdx() + 1)
	return nil
}

// TakeFromGuest walks the used ring from the last position this Host has
// observed up to the current used.idx, invoking cb once per freed
// descriptor and returning each one to the free list. Returns the number
// of descriptors reclaimed, or ErrNoData if used.idx has not advanced.
//
// This completes the host-role contract that the original firmware left
// unimplemented: the natural symmetric counterpart of GiveToGuest, walking
// used against a local last_seen_used cursor exactly as GiveToGuest walks
// available.
func (h *Host) TakeFromGuest(cb func(e UsedElem)) (int, error) {
	target := h.m.usedIdx()
	if target == h.lastSeenUsed {
		return 0, ErrNoData
	}
	n := 0
	for h.lastSeenUsed != target {
		slot := h.m.slot(h.lastSeenUsed)
		e := h.m.usedRingAt(slot)
		if e.Idx >= h.m.layout.N {
			return n, ErrInternal
		}
		if cb != nil {
			cb(e)
		}
		h.pushFree(uint16(e.Idx))
		h.lastSeenUsed++
		n++
	}
	return n, nil
}

// Buffer returns a dereferenceable view of the buffer d describes, for
// use by a harness that needs to write a message body before GiveToGuest's
// fill callback finishes populating Addr/Len.
func (h *Host) Buffer(d Descriptor) ([]byte, error) {
	return h.mapper(d.Addr, d.Len)
}

// DescriptorAddr returns the Addr currently stored for descriptor idx. A
// used-ring entry only carries the descriptor index and the number of
// bytes actually written, not the address; a caller resolving a used
// entry's contents needs this to pair with UsedElem.Len instead of the
// descriptor's original buffer capacity.
func (h *Host) DescriptorAddr(idx uint32) uint64 {
	return h.m.descriptor(idx).Addr
}
