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

// Package mailbox implements the notification peripheral wrapper, the
// ISR-to-main FIFO, and the well-known 32-bit tag space firmware and host
// use to talk to each other outside the ring transport.
package mailbox

// Tag is a 32-bit mailbox notification. Values in the well-known range
// 0xFFFFFF00..0xFFFFFF13 carry a fixed meaning; any other value is a small
// integer ring identifier (0: outbound ring has space, 1: inbound ring has
// a new descriptor).
type Tag uint32

// Ring identifiers. Not in the well-known range, so they can never be
// confused with a named tag.
const (
	TagOutboundSpace  Tag = 0
	TagInboundMessage Tag = 1
)

// Well-known tags, per spec.md §4.5/§6 and the hibernation tags named in
// the original rpmsg.rs that spec.md's distillation only grouped under
// "hibernation control" without enumerating.
const (
	TagReady              Tag = 0xFFFFFF01
	TagEchoRequest        Tag = 0xFFFFFF03
	TagEchoReply          Tag = 0xFFFFFF04
	TagDeliverMsg         Tag = 0xFFFFFF05
	TagFlushCache         Tag = 0xFFFFFF06
	TagBootInitDone       Tag = 0xFFFFFF07
	TagHibernationRequest Tag = 0xFFFFFF10
	TagHibernationAck     Tag = 0xFFFFFF11
	TagHibernationCancel  Tag = 0xFFFFFF12
)

// wellKnownLow and wellKnownHigh bound the reserved well-known tag range.
const (
	wellKnownLow  Tag = 0xFFFFFF00
	wellKnownHigh Tag = 0xFFFFFF13
)

// IsWellKnown reports whether t falls in the reserved well-known range.
func (t Tag) IsWellKnown() bool {
	return t >= wellKnownLow && t <= wellKnownHigh
}
