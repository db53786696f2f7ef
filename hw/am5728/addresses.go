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

// Package am5728 models the IPU1 subsystem of the AM5728/DRA7xx-class SoC
// this firmware targets: its local peripheral address map, its L1 cache
// ("Unicache")/AMMU register blocks, its mailbox peripheral, and its
// interrupt crossbar. cachemmu and mailbox build on top of this package;
// spec.md names these components abstractly, this is the concrete chip
// they're specified against.
package am5728

// Local (Cortex-M4, MMU-bypassing) peripheral addresses.
const (
	UnicacheCfgAddr uint32 = 0x4000_0000
	UnicacheMmuAddr uint32 = 0x4000_0800
	WuGenAddr       uint32 = 0x4000_1000
)

// SoC-wide physical address map, used when building the resource table's
// DEVMEM entries for on-chip peripherals this firmware doesn't own
// directly but the host may need mapped.
const (
	L3OCMCRAM           uint32 = 0x4030_0000
	L4PeripheralL4PER1   uint32 = 0x4800_0000
	L4PeripheralL4PER2   uint32 = 0x4840_0000
	L4PeripheralL4PER3   uint32 = 0x4880_0000
	L4PeripheralL4CFG    uint32 = 0x4A00_0000
	L3PeripheralPRUSS    uint32 = 0x4B20_0000
	L3PeripheralDMM      uint32 = 0x4E00_0000
	L4PeripheralL4EMU    uint32 = 0x5400_0000
	L3IVAHDConfig        uint32 = 0x5A00_0000
	L3IVAHDSL2           uint32 = 0x5B00_0000
	L3TilerMode01        uint32 = 0x6000_0000
	L3TilerMode2         uint32 = 0x7000_0000
	L3TilerMode3         uint32 = 0x7800_0000
	L3EMIFSDRAM          uint32 = 0xA000_0000
)

// SZ_* are the page sizes the AMMU's region policy table is programmed
// with at boot.
const (
	SZ4K   uint32 = 4 << 10
	SZ64K  uint32 = 64 << 10
	SZ1M   uint32 = 1 << 20
	SZ16M  uint32 = 16 << 20
)
