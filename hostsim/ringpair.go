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

package hostsim

import "github.com/cc-ipu/firmware/vring"

// rpmsgBufSize is the fixed per-buffer data region size, matching the
// 512-byte buffers Linux's rpmsg virtio transport allocates per descriptor.
const rpmsgBufSize = 512

// RingPair is one descriptor ring viewed from both ends: Host is this
// harness's own role (it provides buffers and reclaims used ones), Guest
// is the role the firmware under test takes (it consumes and releases).
// Both views share a single backing carveout for the ring's own
// descriptor/avail/used metadata, the same way a real vring is one piece of
// shared memory two different roles address symmetrically. A second region
// in the same carveout, past the metadata, holds the fixed-size buffers the
// descriptors actually point at - aliasing that region onto the metadata
// would let a message body overwrite the descriptor table it arrived on.
type RingPair struct {
	Layout   vring.Layout
	Carveout *Carveout
	Host     *vring.Host
	Guest    *vring.Guest

	dataBase uint32
	nextSlot uint32
}

// NewRingPair allocates a fresh carveout sized for n descriptors at the
// given alignment plus n rpmsgBufSize data buffers, binds both a Host and a
// Guest view over the metadata region, and returns the pair. da is the
// simulated device address (and simulated physical address, since host and
// firmware share one address space here) the ring's metadata is placed at.
func NewRingPair(da uint32, n uint32, align uint32) *RingPair {
	layout := vring.ComputeLayout(n, align)
	total := layout.Total + uint64(n)*rpmsgBufSize
	c := NewCarveout(da, int(total))
	mapper := func(pa uint64, length uint32) ([]byte, error) {
		return c.Mapper(pa, length)
	}
	metaBuf := c.Bytes()[:layout.Total]
	return &RingPair{
		Layout:   layout,
		Carveout: c,
		Host:     vring.NewHost(metaBuf, layout, mapper),
		Guest:    vring.NewGuest(metaBuf, layout, mapper),
		dataBase: da + uint32(layout.Total),
	}
}

// NextDataSlot returns the physical address of the next fixed-size data
// buffer, cycling round-robin through the carveout's data region the way a
// host driver cycles through its fixed rpmsg buffer pool.
func (r *RingPair) NextDataSlot() uint32 {
	addr := r.dataBase + r.nextSlot*rpmsgBufSize
	r.nextSlot = (r.nextSlot + 1) % r.Layout.N
	return addr
}
