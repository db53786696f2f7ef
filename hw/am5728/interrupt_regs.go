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

// Interrupt is one of the IPU1_C0 NVIC lines, numbered as the reference
// manual numbers them (16..80). Most are routed through the crossbar and
// reserved by default; only a handful have a fixed default source.
type Interrupt uint8

// Fixed-source lines this firmware cares about directly.
const (
	Ipu1Irq16 Interrupt = 16 // xlate_mmu_fault (from L2 MMU)
	Ipu1Irq17 Interrupt = 17 // Unicache/AMMU maintenance complete
	Ipu1Irq44 Interrupt = 44 // crossbar-routed: this firmware's mailbox RX line
)

func (irq Interrupt) wakeRegBit() (reg int, bit uint32) {
	n := int(irq)
	return n / 32, 1 << uint(n%32)
}

// InterruptPriority is one of 16 levels (top 4 bits significant on this
// core's NVIC).
type InterruptPriority uint8

const (
	PriorityHighest InterruptPriority = 0
	PriorityLowest  InterruptPriority = 15
)

func (p InterruptPriority) register() uint8 {
	return uint8(p) << 4
}

// NVIC is a minimal model of the core's interrupt controller: enable,
// pending and priority state per line. Real NVIC register layout is
// considerably more involved; this models only the operations the
// firmware actually needs (enable/disable/clear-pending/set-priority).
type NVIC struct {
	enabled  [96]bool
	pending  [96]bool
	priority [96]InterruptPriority
}

func (n *NVIC) Enable(irq Interrupt)  { n.enabled[irq] = true }
func (n *NVIC) Disable(irq Interrupt) { n.enabled[irq] = false }
func (n *NVIC) ClearPending(irq Interrupt) { n.pending[irq] = false }
func (n *NVIC) SetPending(irq Interrupt)   { n.pending[irq] = true }
func (n *NVIC) SetPriority(irq Interrupt, p InterruptPriority) { n.priority[irq] = p }
func (n *NVIC) IsEnabled(irq Interrupt) bool { return n.enabled[irq] }

// CrossbarPair is one of the CTRL_CORE_IPU1 crossbar-select registers: two
// 8-bit source-select fields packed into one 32-bit register, each routing
// one physical NVIC line to one of many possible peripheral interrupt
// sources.
type CrossbarPair struct {
	reg mmio.Reg32
}

func (c *CrossbarPair) SetLower(source uint8) {
	c.reg.Modify(func(w uint32) uint32 { return (w &^ 0xFF) | uint32(source) })
}

func (c *CrossbarPair) SetHigher(source uint8) {
	c.reg.Modify(func(w uint32) uint32 { return (w &^ 0xFF00) | uint32(source)<<8 })
}

// CtrlCoreIpu1 is the crossbar register block: one CrossbarPair per pair
// of adjacent reserved-by-default NVIC lines (23/24 through 79/80), each
// independently steerable to any peripheral interrupt source.
type CtrlCoreIpu1 struct {
	Pairs [29]CrossbarPair // covers irq 23/24 .. 79/80 inclusive, in order
}

// pairIndex maps the lower of a (2n+23, 2n+24) pair to its Pairs index.
func pairIndex(lowIrq Interrupt) int {
	return (int(lowIrq) - 23) / 2
}

// Pair returns the crossbar register steering lowIrq and lowIrq+1.
func (c *CtrlCoreIpu1) Pair(lowIrq Interrupt) *CrossbarPair {
	return &c.Pairs[pairIndex(lowIrq)]
}

// DisableAllRouted clears every crossbar-routed line's source select,
// leaving none of the 23..80 reserved-by-default lines pointing at a live
// source.
func (c *CtrlCoreIpu1) DisableAllRouted() {
	for i := range c.Pairs {
		c.Pairs[i].SetLower(0)
		c.Pairs[i].SetHigher(0)
	}
}
