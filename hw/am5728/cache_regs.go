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

package am5728

import "github.com/cc-ipu/firmware/internal/mmio"

// Cache controller ("Unicache") maintenance bits, used by UnicacheConfig.Maint.
const (
	CfgMaintClean      uint32 = 1 << 0
	CfgMaintInvalidate uint32 = 1 << 1
	CfgConfigDisableBypass uint32 = 1 << 1
)

// AMMU-wide maintenance bits, used by UnicacheMmu.Maint.
const (
	MmuMaintGFlush     uint32 = 1 << 0
	MmuMaintClean      uint32 = 1 << 1
	MmuMaintInvalidate uint32 = 1 << 2
)

// CacheFlushMode selects a per-range maintenance operation against the L1.
type CacheFlushMode uint32

const (
	FlushWriteBack           CacheFlushMode = CacheFlushMode(CfgMaintClean)
	FlushInvalidate           CacheFlushMode = CacheFlushMode(CfgMaintInvalidate)
	FlushInvalidateWriteBack CacheFlushMode = CacheFlushMode(CfgMaintClean | CfgMaintInvalidate)
)

// CacheFlushAllMode selects a whole-address-space maintenance operation
// against the AMMU.
type CacheFlushAllMode uint32

const (
	FlushAllFlush               CacheFlushAllMode = CacheFlushAllMode(MmuMaintGFlush)
	FlushAllWriteBack           CacheFlushAllMode = CacheFlushAllMode(MmuMaintClean)
	FlushAllInvalidate           CacheFlushAllMode = CacheFlushAllMode(MmuMaintInvalidate)
	FlushAllInvalidateWriteBack CacheFlushAllMode = CacheFlushAllMode(MmuMaintInvalidate | MmuMaintClean)
)

// UnicacheConfig controls the L1 cache: on/off, and per-range maintenance
// via MtStart/MtEnd/Maint.
type UnicacheConfig struct {
	Config  mmio.Reg32
	MtStart mmio.Reg32
	MtEnd   mmio.Reg32
	Maint   mmio.Reg32
}

// UnicacheMmu controls the AMMU: whole-space maintenance via
// Mstart/Mend/Maint, plus the large/medium/small region policy tables
// (base and policy register arrays, programmed as a batch by
// cachemmu.SetupRegions).
type UnicacheMmu struct {
	Mstart mmio.Reg32
	Mend   mmio.Reg32
	Maint  mmio.Reg32

	// Region policy registers: four large, sixteen medium, thirty-two
	// small regions, each with a base address and a cacheability/size
	// policy word.
	LargeBase   [4]mmio.Reg32
	LargePolicy [4]mmio.Reg32
	MediumBase   [16]mmio.Reg32
	MediumPolicy [16]mmio.Reg32
	SmallBase   [32]mmio.Reg32
	SmallPolicy [32]mmio.Reg32
}

// RegionPolicy bits written into a *Policy register. No size-class bits are
// defined; a region's size follows from the table it sits in.
const (
	RegionCacheable       uint32 = 1 << 0
	RegionWriteBack       uint32 = 1 << 1
	RegionNonCacheable    uint32 = 0
)

// WuGen is the wake-up generator: which interrupts can wake the core from
// a low-power state. Boot leaves mailbox wakeup commented out in the
// original firmware (the line is present but unused), so this model
// exposes it without calling it from Setup.
type WuGen struct {
	WakeEnable [3]mmio.Reg32
}

func (w *WuGen) WakeOnInterrupt(irq Interrupt) {
	reg, bit := irq.wakeRegBit()
	w.WakeEnable[reg].Set(bit)
}
