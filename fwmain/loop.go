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
	"errors"
	"fmt"

	"github.com/cc-ipu/firmware/cachemmu"
	"github.com/cc-ipu/firmware/framing"
	"github.com/cc-ipu/firmware/mailbox"
	"github.com/cc-ipu/firmware/vring"
)

// RunOnce drains at most one notification tag from the mailbox FIFO and
// dispatches it. It returns false when there was nothing to drain, so the
// caller can wfe/sleep instead of busy-spinning. Splitting dispatch out of
// the loop body keeps the loop itself a thin, testable driver.
func (f *Firmware) RunOnce() bool {
	tag, ok := f.Notifier.Drain()
	if !ok {
		return false
	}
	f.dispatch(tag)
	return true
}

func (f *Firmware) dispatch(tag mailbox.Tag) {
	switch tag {
	case mailbox.TagOutboundSpace:
		// Informational only: the to-host ring has reclaimed space.
	case mailbox.TagInboundMessage:
		f.receiveOne()
	case mailbox.TagReady:
		fmt.Fprintf(f.Trace, "Ready received.\n")
	case mailbox.TagEchoRequest:
		fmt.Fprintf(f.Trace, "Echo request received, sending reply.\n")
		f.Notifier.Send(mailbox.TagEchoReply)
	case mailbox.TagFlushCache:
		fmt.Fprintf(f.Trace, "Cache flush request received.\n")
		f.cfg.CacheMMU.FlushAll(cachemmu.AllWriteBack)
	case mailbox.TagHibernationRequest:
		fmt.Fprintf(f.Trace, "Hibernation requested.\n")
		f.Notifier.Send(mailbox.TagHibernationAck)
	case mailbox.TagHibernationCancel:
		fmt.Fprintf(f.Trace, "Hibernation cancelled.\n")
	default:
		fmt.Fprintf(f.Trace, "Unexpected message ID 0x%08x.\n", uint32(tag))
	}
}

func (f *Firmware) receiveOne() {
	err := f.Transport.Receive(func(sender *framing.SubSender, h *framing.Header, body []byte) error {
		reply := fmt.Sprintf("ack:%d", h.Source)
		if err := sender.Send(RemoteID, HostID, []byte(reply)); err != nil {
			return err
		}
		if f.Transport.Outbound.PeerWantsInterrupt() {
			f.Notifier.Send(mailbox.TagOutboundSpace)
		}
		return nil
	})
	switch {
	case err == nil:
	case errors.Is(err, vring.ErrNoData):
		// Expected when the host has published nothing new; not logged.
	default:
		fmt.Fprintf(f.Trace, "Transport error: %v.\n", err)
	}
}
