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

// Package cachemmu implements the L1 cache ("Unicache") and AMMU boot
// sequence and runtime maintenance operations described in spec.md §4.4,
// on top of the concrete am5728 register model.
package cachemmu

import "github.com/cc-ipu/firmware/hw/am5728"

// Mode and AllMode alias the chip's cache-flush mode types so callers of
// this package never need to import hw/am5728 directly.
type Mode = am5728.CacheFlushMode
type AllMode = am5728.CacheFlushAllMode

const (
	WriteBack           = am5728.FlushWriteBack
	Invalidate           = am5728.FlushInvalidate
	InvalidateWriteBack = am5728.FlushInvalidateWriteBack
)

const (
	AllFlush               = am5728.FlushAllFlush
	AllWriteBack           = am5728.FlushAllWriteBack
	AllInvalidate           = am5728.FlushAllInvalidate
	AllInvalidateWriteBack = am5728.FlushAllInvalidateWriteBack
)

// CacheMMU wraps a claimed chip handle with the cache/MMU boot sequence.
type CacheMMU struct {
	chip *am5728.Chip
}

// New wraps chip, which the caller must have already obtained via
// am5728.Claim.
func New(chip *am5728.Chip) *CacheMMU {
	return &CacheMMU{chip: chip}
}

// RegionSpec is one AMMU region policy entry: a device address and whether
// it is cacheable (and if so, write-back). Its size class is given by the
// BootRegions table (Large/Medium/Small) it is placed in.
type RegionSpec struct {
	Addr       uint32
	Cacheable  bool
	WriteBack  bool
}

// BootRegions is an AMMU region policy for SetupRegions or Setup to
// program. This package defines no default set, and fwmain.Boot does not
// program one. The slot layout the field comments describe is: a
// large cacheable mapping at 0 covering code/data, a large non-cacheable
// mapping over the peripheral window, a large cacheable mapping per
// host-shared RAM carveout, medium mappings for the host-shared vring
// carveouts that don't need a full large slot, a small non-cacheable
// mapping enlarging the on-core peripheral window to reach the inter-core
// interrupt block, and small cacheable-write-back mappings over local L2
// RAM.
type BootRegions struct {
	Large  []RegionSpec // index 0 reserved for code/data, 1 for peripherals, rest for carveouts
	Medium []RegionSpec
	Small  []RegionSpec // last entry is the peripheral-window extension
}

// SetupRegions programs the AMMU's large/medium/small region policy
// tables from regions. It does not itself flush or enable the cache;
// call Setup for the full boot sequence.
func (c *CacheMMU) SetupRegions(regions BootRegions) {
	mmu := c.chip.Mmu
	for i, r := range regions.Large {
		if i >= len(mmu.LargeBase) {
			break
		}
		mmu.LargeBase[i].Write(r.Addr)
		mmu.LargePolicy[i].Write(policyBits(r))
	}
	for i, r := range regions.Medium {
		if i >= len(mmu.MediumBase) {
			break
		}
		mmu.MediumBase[i].Write(r.Addr)
		mmu.MediumPolicy[i].Write(policyBits(r))
	}
	for i, r := range regions.Small {
		if i >= len(mmu.SmallBase) {
			break
		}
		mmu.SmallBase[i].Write(r.Addr)
		mmu.SmallPolicy[i].Write(policyBits(r))
	}
}

func policyBits(r RegionSpec) uint32 {
	if !r.Cacheable {
		return am5728.RegionNonCacheable
	}
	if r.WriteBack {
		return am5728.RegionCacheable | am5728.RegionWriteBack
	}
	return am5728.RegionCacheable
}

// Setup runs the full boot sequence: program the AMMU region table, then
// (via chip.Setup) disable interrupts' crossbar routing and the mailbox
// line and flush/enable the cache. No cache-controller unlock step is
// performed.
func (c *CacheMMU) Setup(regions BootRegions) {
	c.SetupRegions(regions)
	c.chip.Setup()
}

// FlushRange invalidates/writes back [addr, addr+len) through the L1,
// spinning until the maintenance operation completes. The vring package
// does not call it; fwmain.Boot uses it while polling the vdev status.
func (c *CacheMMU) FlushRange(addr, length uint32, mode Mode) {
	c.chip.FlushRange(addr, length, mode)
}

// FlushAll performs the same operation across the whole address space via
// the AMMU-level registers.
func (c *CacheMMU) FlushAll(mode AllMode) {
	c.chip.FlushAll(mode)
}
