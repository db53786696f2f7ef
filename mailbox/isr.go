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

// ISR is the mailbox interrupt handler. It does exactly three things, in
// order, and nothing else: read the waiting message, push its tag onto the
// FIFO, clear the mailbox interrupt status. No cache maintenance, no ring
// processing, no allocation happens here - all of that is main-loop work,
// deferred by the FIFO handoff.
type ISR struct {
	chip     *am5728.Chip
	location am5728.MailboxLocation
	queue    *Fifo[Tag]
}

// NewISR builds an ISR handler reading from location on chip and pushing
// onto queue.
func NewISR(chip *am5728.Chip, location am5728.MailboxLocation, queue *Fifo[Tag]) *ISR {
	return &ISR{chip: chip, location: location, queue: queue}
}

// Handle is invoked from interrupt context when location's data-received
// interrupt fires. Overflow (queue full) is not reported: per the FIFO's
// overflow contract the oldest queued tag is dropped and the new one kept.
func (h *ISR) Handle() {
	msg, ok := h.chip.GetMessage(h.location)
	if ok {
		h.queue.Push(Tag(msg))
		h.chip.GetMailbox(h.location.ID).ClearInterrupt(h.location.User, h.location.Slot)
	}
}

// Interrupt re-exports am5728.Interrupt so callers of this package never
// need to import hw/am5728 solely to name the mailbox RX line.
type Interrupt = am5728.Interrupt
