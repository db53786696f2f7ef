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

// Guest is this firmware's role on both the inbound and outbound ring: it
// consumes descriptors the host publishes on available and releases them
// back to the host via used.
type Guest struct {
	m           mem
	mapper      Mapper
	localCursor uint16 // next available-ring position to consume
}

// NewGuest constructs a Guest view over buf, which must contain at least
// the bytes described by layout starting at its device-address base.
func NewGuest(buf []byte, layout Layout, mapper Mapper) *Guest {
	return &Guest{m: newMem(buf, layout), mapper: mapper}
}

// DescriptorView is the mutable buffer backing one descriptor, handed to
// Process's callback and to Transmit's copy.
type DescriptorView struct {
	Bytes []byte
	Desc  Descriptor
}

// Process consumes exactly one descriptor the host has published, invokes
// callback with a view of its buffer, then moves the descriptor to used.
// Returns ErrNoData if the host has published nothing new.
func (g *Guest) Process(callback func(v DescriptorView) error) error {
	if g.localCursor == g.m.availIdx() {
		return ErrNoData
	}
	slot := g.m.slot(g.localCursor)
	descIdx := g.m.availRingAt(slot)
	if uint32(descIdx) >= g.m.layout.N {
		return ErrInternal
	}
	d := g.m.descriptor(uint32(descIdx))
	buf, err := g.mapper(d.Addr, d.Len)
	if err != nil {
		return ErrInternal
	}
	if err := callback(DescriptorView{Bytes: buf, Desc: d}); err != nil {
		return err
	}
	g.release(descIdx, d.Len)
	return nil
}

// Transmit copies frag1||frag2 into the next buffer the host has made
// available, marks it as written with the combined length, and moves it to
// used. This is how the firmware both sends replies and releases consumed
// descriptors: every successful Transmit consumes exactly one host-provided
// buffer from available and places exactly one entry on used.
func (g *Guest) Transmit(frag1, frag2 []byte) error {
	if g.localCursor == g.m.availIdx() {
		return ErrNoData
	}
	slot := g.m.slot(g.localCursor)
	descIdx := g.m.availRingAt(slot)
	if uint32(descIdx) >= g.m.layout.N {
		return ErrInternal
	}
	d := g.m.descriptor(uint32(descIdx))
	total := len(frag1) + len(frag2)
	if uint32(total) > d.Len {
		return ErrPayloadTooLarge
	}
	buf, err := g.mapper(d.Addr, d.Len)
	if err != nil {
		return ErrInternal
	}
	n := copy(buf, frag1)
	copy(buf[n:], frag2)

	d.Len = uint32(total)
	d.Flags = 0
	d.Next = 0
	g.m.setDescriptor(uint32(descIdx), d)

	g.release(descIdx, d.Len)
	return nil
}

// release moves descIdx onto the used ring and advances both the local
// consume cursor and the used producer counter.
func (g *Guest) release(descIdx uint16, length uint32) {
	usedSlot := g.m.slot(g.m.usedIdx())
	g.m.setUsedRingAt(usedSlot, UsedElem{Idx: uint32(descIdx), Len: length})
	g.localCursor++
	g.m.setUsedIdx(g.m.usedIdx() + 1)
}

// PeerWantsInterrupt reports whether the available-ring's NO_INTERRUPT
// suppression flag is clear, i.e. whether the host wants a kick after the
// firmware publishes to used. Callers that produce a used-ring entry and
// then consider sending a mailbox notification must check this first.
func (g *Guest) PeerWantsInterrupt() bool {
	return g.m.availFlags()&AvailNoInterrupt == 0
}
