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

// Package fwmain wires the other packages together into the boot
// handshake, the dispatch loop, and the panic stub - the three things
// spec.md describes as the shape of the firmware's single entry point,
// without prescribing an internal structure for any of them.
package fwmain

import (
	"fmt"
	"time"

	"github.com/cc-ipu/firmware/cachemmu"
	"github.com/cc-ipu/firmware/framing"
	"github.com/cc-ipu/firmware/hw/am5728"
	"github.com/cc-ipu/firmware/mailbox"
	"github.com/cc-ipu/firmware/resourcetable"
	"github.com/cc-ipu/firmware/trace"
	"github.com/cc-ipu/firmware/vring"
)

// Endpoint addresses fixed by the host-side driver this firmware talks to.
const (
	HostID       uint32 = 100
	RemoteID     uint32 = 61
	NameServerID uint32 = 53
)

// BootConfig names the fixed configuration this firmware boots with:
// which chip/table to use and which mailbox slots carry notifications.
// Assembled by the caller as a plain struct literal; there is no
// constructor, builder or options-pattern API for it.
type BootConfig struct {
	Chip     *am5728.Chip
	CacheMMU *cachemmu.CacheMMU
	Table    *resourcetable.ResourceTable
	Notify   mailbox.Config
	VdevID   uint32 // virtio device id to wait on, e.g. resourcetable.VirtioIDRpmsg
}

// Firmware is the running instance assembled by Boot: the transport and
// notifier handles the main loop drains.
type Firmware struct {
	cfg       BootConfig
	Transport *framing.Transport
	Notifier  *mailbox.Notifier
	Trace     *trace.Trace
	Table     *resourcetable.ResourceTable
}

// Boot runs the fixed startup sequence: claim the trace buffer, spin on
// the vdev status byte (invalidating the cache before each read, since the
// host writes it) until the driver has primed both vring buffers, send
// BootInitDone, announce the rpmsg endpoint over the name service, then
// enable the receive mailbox interrupt.
func Boot(cfg BootConfig, outbound, inbound *vring.Guest) (*Firmware, error) {
	tr, ok := trace.Claim()
	if !ok {
		return nil, fmt.Errorf("fwmain: trace buffer already claimed")
	}
	fmt.Fprintf(tr, "Setup complete.\n")

	vdev, err := cfg.Table.FindVdev(cfg.VdevID)
	if err != nil {
		return nil, fmt.Errorf("fwmain: no vdev %d in resource table: %w", cfg.VdevID, err)
	}

	for vdev.Status != resourcetable.BootReady {
		cfg.CacheMMU.FlushRange(resourceTableBaseDA, vdevHeaderApproxSize, cachemmu.Invalidate)
		time.Sleep(time.Microsecond)
	}

	notifier := mailbox.New(cfg.Notify)
	notifier.Send(mailbox.TagBootInitDone)

	fmt.Fprintf(tr, "Send boot init.\n")

	transport := framing.NewTransport(outbound, inbound)
	if err := transport.Announce(RemoteID, "rpmsg-proto", "rpmsg-proto", framing.AnnounceCreate); err != nil {
		return nil, fmt.Errorf("fwmain: name service announce: %w", err)
	}
	if transport.Outbound.PeerWantsInterrupt() {
		notifier.Send(mailbox.TagOutboundSpace)
	}

	fmt.Fprintf(tr, "Registered proto.\n")

	notifier.Start()
	cfg.Chip.InterruptEnable(am5728.Ipu1Irq44)

	return &Firmware{cfg: cfg, Transport: transport, Notifier: notifier, Trace: tr, Table: cfg.Table}, nil
}

// resourceTableBaseDA and vdevHeaderApproxSize bound the cache invalidate
// range covering the vdev status byte. The resource table (and the vdev
// header inside it) is small, fixed, and linked at device address 0 in
// this firmware's memory map, so a generous constant range avoids needing
// a precise wire-offset computation at the call site.
const (
	resourceTableBaseDA  = 0
	vdevHeaderApproxSize = 4096
)
