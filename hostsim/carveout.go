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

// Package hostsim is the host side of this firmware: an in-memory stand-in
// for the Linux driver that loads the resource table, allocates the ring
// carveout, and drives the mailbox and vring pair from the other end. It
// exists to make the protocol-level core runnable and testable without
// real hardware.
package hostsim

import "github.com/bytedance/gopkg/lang/mcache"

// Carveout is a pooled byte-slice backing one host-allocated RAM region.
// Real firmware has the host allocate this from CMA and hand back its
// physical address for the resource table's carveout entry to record;
// here the "physical address" is simply the slice's own base, since both
// sides of the simulation run in the same address space.
type Carveout struct {
	buf []byte
	pa  uint32
}

// NewCarveout allocates size bytes at simulated physical address pa, using
// mcache's size-classed pool exactly as the teacher's own hot paths do for
// scratch buffers, rather than a bare make([]byte, size).
func NewCarveout(pa uint32, size int) *Carveout {
	return &Carveout{buf: mcache.Malloc(size), pa: pa}
}

// Release returns the backing buffer to the pool. Call once the harness
// using it is torn down.
func (c *Carveout) Release() {
	mcache.Free(c.buf)
	c.buf = nil
}

// Mapper implements vring.Mapper and resourcetable-style PA/DA translation
// for this single carveout: pa identifies the carveout's base, and the
// requested range must fall entirely within it.
func (c *Carveout) Mapper(pa uint64, length uint32) ([]byte, error) {
	base := uint64(c.pa)
	if pa < base || pa-base+uint64(length) > uint64(len(c.buf)) {
		return nil, ErrOutOfRange
	}
	off := pa - base
	return c.buf[off : off+uint64(length)], nil
}

// Bytes exposes the full backing buffer, e.g. for computing sub-region
// offsets when laying out multiple rings inside one carveout.
func (c *Carveout) Bytes() []byte { return c.buf }

// PA returns the carveout's simulated base physical address.
func (c *Carveout) PA() uint32 { return c.pa }
