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

package fwmain

import (
	"encoding/binary"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cc-ipu/firmware/cachemmu"
	"github.com/cc-ipu/firmware/hw/am5728"
	"github.com/cc-ipu/firmware/mailbox"
	"github.com/cc-ipu/firmware/resourcetable"
	"github.com/cc-ipu/firmware/trace"
	"github.com/cc-ipu/firmware/vring"
)

// am5728.Claim and trace.Claim are both one-shot per process, and Boot
// consumes the trace claim, so the whole package shares a single booted
// Firmware rather than each test booting its own.
var (
	bootOnce     sync.Once
	sharedFW     *Firmware
	sharedHostTX *vring.Host // reads what the firmware sent outbound
	sharedHostRX *vring.Host // gives the firmware inbound buffers/frames
)

func ringPair(n, align uint32) (*vring.Host, *vring.Guest) {
	layout := vring.ComputeLayout(n, align)
	buf := make([]byte, layout.Total+4096)
	mapper := func(pa uint64, length uint32) ([]byte, error) {
		return buf[pa : pa+uint64(length)], nil
	}
	return vring.NewHost(buf, layout, mapper), vring.NewGuest(buf, layout, mapper)
}

func testFirmware(t *testing.T) (*Firmware, *vring.Host, *vring.Host) {
	t.Helper()
	bootOnce.Do(func() {
		chip, ok := am5728.Claim()
		require.True(t, ok)

		table := &resourcetable.ResourceTable{
			Vdevs: []resourcetable.Vdev{
				{ID: resourcetable.VirtioIDRpmsg, Status: resourcetable.BootReady, NumVrings: 2},
			},
		}

		hostTX, guestTX := ringPair(8, 16)
		hostRX, guestRX := ringPair(8, 16)

		// Boot's name-service announce transmits into a host-provided
		// buffer, so prime the outbound ring the way the host driver does
		// before it sets the vdev status.
		for i := uint64(0); i < 8; i++ {
			addr := 1024 + i*256
			require.NoError(t, hostTX.GiveToGuest(func(d *vring.Descriptor) {
				d.Addr = addr
				d.Len = 256
			}))
		}

		cfg := BootConfig{
			Chip:     chip,
			CacheMMU: cachemmu.New(chip),
			Table:    table,
			Notify: mailbox.Config{
				Chip: chip,
				TX:   am5728.MailboxLocation{ID: am5728.Mailbox5, User: am5728.User1, Slot: 4},
				RX:   am5728.MailboxLocation{ID: am5728.Mailbox5, User: am5728.User1, Slot: 6},
			},
			VdevID: resourcetable.VirtioIDRpmsg,
		}

		// Boot sends two notifications on the same TX slot (BootInitDone,
		// then the post-announce space hint) and SendMessage spins while a
		// slot is full, exactly as it would waiting for a real host ISR to
		// drain it. Stand in for that host here so Boot can make progress.
		done := make(chan struct{})
		var fw *Firmware
		var bootErr error
		go func() {
			fw, bootErr = Boot(cfg, guestTX, guestRX)
			close(done)
		}()
		for {
			select {
			case <-done:
				chip.GetMessage(cfg.Notify.TX) // drain any final pending notification
				require.NoError(t, bootErr)
				sharedFW = fw
				sharedHostTX = hostTX
				sharedHostRX = hostRX
				return
			default:
				chip.GetMessage(cfg.Notify.TX)
				runtime.Gosched()
			}
		}
	})
	require.NotNil(t, sharedFW)
	return sharedFW, sharedHostTX, sharedHostRX
}

func TestBootAnnouncesOnOutboundRing(t *testing.T) {
	_, hostTX, _ := testFirmware(t)

	n, err := hostTX.TakeFromGuest(nil)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestBootEnablesReceiveInterruptAndIrq(t *testing.T) {
	fw, _, _ := testFirmware(t)
	assert.EqualValues(t, 0, fw.Notifier.Pending())
	assert.True(t, fw.cfg.Chip.NVIC.IsEnabled(am5728.Ipu1Irq44))
	assert.NotZero(t, fw.cfg.Chip.GetMailbox(fw.cfg.Notify.RX.ID).IrqEnableSet[fw.cfg.Notify.RX.User].Read())
}

func TestDispatchEchoRequestSendsReply(t *testing.T) {
	fw, _, _ := testFirmware(t)
	fw.dispatch(mailbox.TagEchoRequest)

	v, ok := fw.cfg.Chip.GetMessage(fw.cfg.Notify.TX)
	require.True(t, ok)
	assert.Equal(t, mailbox.TagEchoReply, mailbox.Tag(v))
}

func TestDispatchFlushCacheRunsMaintenanceOverFullRange(t *testing.T) {
	fw, _, _ := testFirmware(t)
	fw.dispatch(mailbox.TagFlushCache)
	assert.EqualValues(t, 0xFFFF_FFFF, fw.cfg.Chip.Mmu.Mend.Read())
}

func TestDispatchUnknownTagLogsToTrace(t *testing.T) {
	fw, _, _ := testFirmware(t)
	fw.dispatch(mailbox.Tag(0xDEAD))
	assert.True(t, strings.Contains(traceDump(), "Unexpected message ID"))
}

func TestRunOnceDrainsOneTagAtATime(t *testing.T) {
	fw, _, _ := testFirmware(t)
	fw.cfg.Chip.SendMessage(fw.cfg.Notify.RX, uint32(mailbox.TagReady))
	fw.Notifier.HandleInterrupt()

	assert.True(t, fw.RunOnce())
	assert.False(t, fw.RunOnce())
}

func TestDispatchInboundMessageRepliesOnOutbound(t *testing.T) {
	fw, hostTX, hostRX := testFirmware(t)

	require.NoError(t, hostRX.GiveToGuest(func(d *vring.Descriptor) {
		d.Addr = 2048
		d.Len = 64
	}))
	buf, err := hostRX.Buffer(vring.Descriptor{Addr: 2048, Len: 64})
	require.NoError(t, err)
	h := make([]byte, 16)
	binary.LittleEndian.PutUint32(h[0:4], RemoteID)
	binary.LittleEndian.PutUint32(h[4:8], HostID)
	binary.LittleEndian.PutUint16(h[12:14], 4)
	copy(buf, h)
	copy(buf[16:], "ping")

	fw.dispatch(mailbox.TagInboundMessage)

	_, err = hostTX.TakeFromGuest(func(e vring.UsedElem) {
		assert.True(t, e.Len > 0)
	})
	require.NoError(t, err)
}

func traceDump() string {
	return string(trace.Dump())
}

func TestRecoverPanicWritesDiagnosticAndHalts(t *testing.T) {
	done := make(chan struct{})
	go func() {
		defer close(done) // unreachable: Halt never returns
		defer RecoverPanic()
		panic("boom")
	}()

	select {
	case <-done:
		t.Fatal("RecoverPanic returned from Halt, which should never happen")
	case <-time.After(50 * time.Millisecond):
	}

	assert.Contains(t, traceDump(), "SYSTEM PANIC")
	assert.Contains(t, traceDump(), "boom")
}
