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

// NumMailboxes, NumMailboxSlots and NumMailboxUsers are the bank's fixed
// dimensions: 13 independent mailboxes, each with 12 message slots and 4
// user interrupt domains.
const (
	NumMailboxes    = 13
	NumMailboxSlots = 12
	NumMailboxUsers = 4
)

// MailboxID selects one of the 13 mailboxes.
type MailboxID uint8

// MailboxUser selects one of the 4 user interrupt domains on a mailbox.
type MailboxUser uint8

// MailboxSlot selects one of the 12 message slots on a mailbox.
type MailboxSlot uint8

const (
	Mailbox1 MailboxID = iota
	Mailbox2
	Mailbox3
	Mailbox4
	Mailbox5
	Mailbox6
	Mailbox7
	Mailbox8
	Mailbox9
	Mailbox10
	Mailbox11
	Mailbox12
	Mailbox13
)

const (
	User0 MailboxUser = iota
	User1
	User2
	User3
)

// MailboxLocation pins a mailbox, user domain and slot together: one
// triple is chosen for host->firmware traffic, a second for firmware->host.
type MailboxLocation struct {
	ID   MailboxID
	User MailboxUser
	Slot MailboxSlot
}

// Mailbox is one of the 13 mailboxes: a bank of message slots each with a
// fill-status bit, plus per-user interrupt enable/status registers. A
// mailbox operation is: write a 32-bit tag to a slot (the peer's IRQ
// asserts); on the receiver, read the slot (IRQ deasserts once empty).
type Mailbox struct {
	Message   [NumMailboxSlots]mmio.Reg32
	MsgStatus [NumMailboxSlots]mmio.Reg32
	FifoStatus [NumMailboxSlots]mmio.Reg32

	IrqStatusRaw [NumMailboxUsers]mmio.Reg32
	IrqStatus    [NumMailboxUsers]mmio.Reg32
	IrqEnableSet [NumMailboxUsers]mmio.Reg32
	IrqEnableClr [NumMailboxUsers]mmio.Reg32
}

// dataBit and spaceBit are the per-slot interrupt status bits: bit 2*slot
// signals "new data", bit 2*slot+1 signals "space available" (Section
// 19.4.1.3.2 of the reference TRM).
func (s MailboxSlot) dataBit() uint32  { return 1 << (uint32(s) * 2) }
func (s MailboxSlot) spaceBit() uint32 { return 1 << (uint32(s)*2 + 1) }

// GetMessage reads slot if it has new data, clearing the status bit as a
// side effect of the read (mirroring the hardware's read-to-clear
// semantics). Returns ok=false if the slot is empty.
func (m *Mailbox) GetMessage(slot MailboxSlot) (value uint32, ok bool) {
	if m.MsgStatus[slot].Read() == 0 {
		return 0, false
	}
	value = m.Message[slot].Read()
	m.MsgStatus[slot].Write(0)
	return value, true
}

// SendMessage writes id to slot and marks it full, asserting the peer's
// IRQ. Callers are expected to have already confirmed the slot is not
// full.
func (m *Mailbox) SendMessage(slot MailboxSlot, id uint32) {
	m.Message[slot].Write(id)
	m.MsgStatus[slot].Write(1)
}

// SlotFull reports whether slot currently holds an unread message.
func (m *Mailbox) SlotFull(slot MailboxSlot) bool {
	return m.MsgStatus[slot].Read() != 0
}

// EnableDataInterrupt enables the "new data" interrupt for slot under user.
func (m *Mailbox) EnableDataInterrupt(user MailboxUser, slot MailboxSlot) {
	m.IrqEnableSet[user].Set(slot.dataBit())
}

// DisableInterrupts disables every interrupt source for user on this
// mailbox.
func (m *Mailbox) DisableInterrupts(user MailboxUser) {
	m.IrqEnableClr[user].Write(0xFFFFFFFF)
}

// ClearInterrupt acknowledges the data-received interrupt for slot under
// user.
func (m *Mailbox) ClearInterrupt(user MailboxUser, slot MailboxSlot) {
	m.IrqStatus[user].Write(slot.dataBit())
}
