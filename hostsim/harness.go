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

import (
	"context"
	"fmt"
	"log"
	"runtime"

	"github.com/cc-ipu/firmware/cachemmu"
	"github.com/cc-ipu/firmware/concurrency/gopool"
	"github.com/cc-ipu/firmware/fwmain"
	"github.com/cc-ipu/firmware/hw/am5728"
	"github.com/cc-ipu/firmware/mailbox"
	"github.com/cc-ipu/firmware/resourcetable"
	"github.com/cc-ipu/firmware/vring"
)

// RX and TX name the mailbox slots from the firmware's point of view: the
// host writes RX, the firmware writes TX, matching the fixed assignment
// the real boot-time configuration uses.
var (
	RX = am5728.MailboxLocation{ID: am5728.Mailbox5, User: am5728.User1, Slot: 6}
	TX = am5728.MailboxLocation{ID: am5728.Mailbox5, User: am5728.User1, Slot: 4}
)

const (
	vringDA0  = 0x60000000 // ipu-to-host
	vringDA1  = 0x60004000 // host-to-ipu
	ringNum   = 256
	ringAlign = 4096
)

// isrPool is a dedicated, named gopool worker pool for simulated interrupt
// delivery, with its own panic handler that logs the recovered value.
var isrPool = gopool.NewGoPool("hostsim-isr", nil)

func init() {
	isrPool.SetPanicHandler(func(ctx context.Context, r interface{}) {
		log.Printf("hostsim: panic delivering simulated interrupt: %v", r)
	})
}

// Harness assembles everything a test needs to drive the firmware
// packages end to end: the claimed chip, the resource table the firmware
// boots from, the two vrings, and the running Firmware instance itself
// once Boot has been called.
type Harness struct {
	Chip     *am5728.Chip
	CacheMMU *cachemmu.CacheMMU
	Table    *resourcetable.ResourceTable
	ToHost   *RingPair // firmware's outbound ring (vring0)
	ToIPU    *RingPair // firmware's inbound ring (vring1)
	Firmware *fwmain.Firmware

	// BootNotifications records every TX tag Boot drained while standing
	// in for the host, in order, so a test can assert on the handshake's
	// own mailbox traffic (BootInitDone, then the post-announce space
	// hint) without racing the live mailbox.
	BootNotifications []mailbox.Tag
}

// New claims the chip singleton, builds a two-vring resource table, and
// returns an unbooted harness. Call Boot to run the firmware's startup
// sequence.
func New() (*Harness, error) {
	chip, ok := am5728.Claim()
	if !ok {
		return nil, fmt.Errorf("hostsim: chip already claimed")
	}
	cm := cachemmu.New(chip)

	toHost := NewRingPair(vringDA0, ringNum, ringAlign)
	toIPU := NewRingPair(vringDA1, ringNum, ringAlign)

	table := &resourcetable.ResourceTable{
		Header: resourcetable.Header{Version: 1, EntryCount: 4},
		Traces: []resourcetable.Trace{{
			DA: 0x9F000000, Len: 16384, Name: resourcetable.NewName32("trace:sysm3"),
		}},
		Vdevs: []resourcetable.Vdev{{
			ID:        resourcetable.VirtioIDRpmsg,
			NumVrings: 2,
			Status:    0,
			Vrings: []resourcetable.VdevVring{
				{DA: vringDA0, Align: ringAlign, Num: ringNum, NotifyID: 1},
				{DA: vringDA1, Align: ringAlign, Num: ringNum, NotifyID: 2},
			},
		}},
	}

	return &Harness{
		Chip:     chip,
		CacheMMU: cm,
		Table:    table,
		ToHost:   toHost,
		ToIPU:    toIPU,
	}, nil
}

// MarkBootReady simulates the host driver completing virtio negotiation:
// it publishes every ToHost descriptor as an empty rpmsgBufSize buffer for
// the firmware to transmit into, then sets the vdev status byte to the
// value the firmware's boot handshake spins for. It must be called
// (typically from another goroutine, or before Boot) or Boot will spin
// forever.
func (h *Harness) MarkBootReady() error {
	vdev, err := h.Table.FindVdev(resourcetable.VirtioIDRpmsg)
	if err != nil {
		return err
	}
	for i := uint32(0); i < h.ToHost.Layout.N; i++ {
		if err := h.GiveBuffer(h.ToHost, rpmsgBufSize); err != nil {
			return err
		}
	}
	vdev.Status = resourcetable.BootReady
	return nil
}

// Boot runs the firmware's startup sequence against this harness's table
// and rings. The firmware's outbound ring is the harness's ToHost.Guest;
// its inbound ring is ToIPU.Guest.
//
// Boot sends two notifications on the TX slot in sequence (BootInitDone,
// then the post-announce space hint), and the mailbox peripheral spins
// while a slot is still full, the same way it would wait for a real host
// ISR to drain it. This method stands in for that host: it runs Boot on
// its own goroutine and drains TX concurrently so the handshake can't
// deadlock against itself.
func (h *Harness) Boot() error {
	cfg := fwmain.BootConfig{
		Chip:     h.Chip,
		CacheMMU: h.CacheMMU,
		Table:    h.Table,
		VdevID:   resourcetable.VirtioIDRpmsg,
		Notify:   mailbox.Config{Chip: h.Chip, TX: TX, RX: RX},
	}

	done := make(chan struct{})
	var fw *fwmain.Firmware
	var bootErr error
	go func() {
		fw, bootErr = fwmain.Boot(cfg, h.ToHost.Guest, h.ToIPU.Guest)
		close(done)
	}()
	for {
		select {
		case <-done:
			if v, ok := h.Chip.GetMessage(TX); ok { // any trailing notification
				h.BootNotifications = append(h.BootNotifications, mailbox.Tag(v))
			}
			if bootErr != nil {
				return bootErr
			}
			h.Firmware = fw
			return nil
		default:
			if v, ok := h.Chip.GetMessage(TX); ok {
				h.BootNotifications = append(h.BootNotifications, mailbox.Tag(v))
			}
			runtime.Gosched()
		}
	}
}

// SendToFirmware simulates the host mailbox peripheral delivering tag: it
// writes the message into the RX slot, then dispatches the firmware's
// interrupt handler on its own goroutine, the same way a real NVIC
// delivery preempts the main loop asynchronously.
func (h *Harness) SendToFirmware(tag mailbox.Tag) {
	h.Chip.SendMessage(RX, uint32(tag))
	isrPool.Go(func() {
		h.Firmware.Notifier.HandleInterrupt()
	})
}

// ReceiveFromFirmware reads (and clears) whatever the firmware's most
// recent TX mailbox write left behind, simulating the host driver's own
// interrupt handler.
func (h *Harness) ReceiveFromFirmware() (uint32, bool) {
	return h.Chip.GetMessage(TX)
}

// GiveBuffer publishes a fresh rpmsgBufSize data slot to the firmware on
// ring (an available-ring entry pointing at it), for the firmware to
// Transmit a reply into.
func (h *Harness) GiveBuffer(ring *RingPair, length uint32) error {
	addr := ring.NextDataSlot()
	return ring.Host.GiveToGuest(func(d *vring.Descriptor) {
		d.Addr = uint64(addr)
		d.Len = length
	})
}

// DeliverMessage writes a framed message body into one of ring's data
// slots and publishes it to the firmware, the way the host kernel's rpmsg
// driver places an outgoing datagram on the to-IPU ring.
func (h *Harness) DeliverMessage(ring *RingPair, header, body []byte) error {
	payload := append(append([]byte{}, header...), body...)
	addr := ring.NextDataSlot()
	return ring.Host.GiveToGuest(func(d *vring.Descriptor) {
		buf, _ := ring.Carveout.Mapper(uint64(addr), uint32(len(payload)))
		copy(buf, payload)
		d.Addr = uint64(addr)
		d.Len = uint32(len(payload))
	})
}

// DrainReplies reclaims every descriptor the firmware has released back
// onto ring's used ring since the last call, invoking cb with each one's
// backing bytes.
func (h *Harness) DrainReplies(ring *RingPair, cb func(body []byte)) (int, error) {
	return ring.Host.TakeFromGuest(func(e vring.UsedElem) {
		addr := ring.Host.DescriptorAddr(e.Idx)
		buf, err := ring.Carveout.Mapper(addr, e.Len)
		if err == nil && cb != nil {
			cb(buf)
		}
	})
}
