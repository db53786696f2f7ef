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

package mailbox

import "github.com/cc-ipu/firmware/hw/am5728"

// Notifier is the firmware-facing mailbox handle: a send side talking to
// the host and a receive side draining this process's own ISR-fed FIFO.
// It owns no goroutines; Drain must be called from the main loop.
type Notifier struct {
	chip *am5728.Chip
	tx   am5728.MailboxLocation
	rx   am5728.MailboxLocation
	isr  *ISR
	fifo *Fifo[Tag]
}

// Config names the (mailbox, user, slot) pair this firmware sends on and
// the pair it receives on.
type Config struct {
	Chip *am5728.Chip
	TX   am5728.MailboxLocation
	RX   am5728.MailboxLocation
}

// New builds a Notifier from cfg, wiring its own FIFO and ISR handler but
// not yet enabling the receive interrupt - call Start for that.
func New(cfg Config) *Notifier {
	fifo := &Fifo[Tag]{}
	return &Notifier{
		chip: cfg.Chip,
		tx:   cfg.TX,
		rx:   cfg.RX,
		isr:  NewISR(cfg.Chip, cfg.RX, fifo),
		fifo: fifo,
	}
}

// Start enables the receive-side data interrupt. HandleInterrupt does not
// check that enable bit: called directly, it moves a pending tag into the
// FIFO whether or not Start has run.
func (n *Notifier) Start() {
	n.chip.EnableMailboxDataInterrupt(n.rx)
}

// Send writes tag to the transmit mailbox, spinning if the slot is full.
func (n *Notifier) Send(tag Tag) {
	n.chip.SendMessage(n.tx, uint32(tag))
}

// HandleInterrupt is the entry point the NVIC vector table calls on the
// mailbox RX line; it simply forwards to the ISR handler.
func (n *Notifier) HandleInterrupt() {
	n.isr.Handle()
}

// Drain pops and returns the next tag pushed by the ISR, or ok=false if
// none is waiting. Called from the main loop, never from interrupt
// context.
func (n *Notifier) Drain() (Tag, bool) {
	return n.fifo.Pop()
}

// Pending reports how many tags are currently queued, for diagnostics.
func (n *Notifier) Pending() int {
	return n.fifo.Len()
}
