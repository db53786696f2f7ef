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

package framing

import (
	"errors"

	"github.com/cc-ipu/firmware/vring"
)

// ErrBodyTooLarge is returned by Send when a payload is too long for the
// header's 16-bit length field.
var ErrBodyTooLarge = errors.New("framing: payload exceeds maximum body length")

// Transport wraps an outbound/inbound vring.Guest pair with the typed
// datagram API described by the message frame format.
type Transport struct {
	Outbound *vring.Guest
	Inbound  *vring.Guest
}

// NewTransport builds a Transport over an already-constructed ring pair.
func NewTransport(outbound, inbound *vring.Guest) *Transport {
	return &Transport{Outbound: outbound, Inbound: inbound}
}

// Send builds a Header for (src, dst, payload) and transmits it on the
// outbound ring.
func (t *Transport) Send(src, dst uint32, payload []byte) error {
	if len(payload) >= 1<<16 {
		return ErrBodyTooLarge
	}
	h := Header{Source: src, Destination: dst, Length: uint16(len(payload))}
	return t.Outbound.Transmit(encodeHeader(h), payload)
}

// SubSender is a restricted capability granting exactly one Send call
// against the outbound ring. Receive hands one to its handler so a reply
// can be placed on the outbound ring before the inbound descriptor that
// triggered it is released - the handler borrows only the outbound side
// for the scope of its callback.
type SubSender struct {
	t    *Transport
	used bool
}

// Send performs the transport's single permitted send. A second call
// returns an error; the capability is one-shot.
func (s *SubSender) Send(src, dst uint32, payload []byte) error {
	if s.used {
		return errors.New("framing: sub-sender already used")
	}
	s.used = true
	return s.t.Send(src, dst, payload)
}

// Handler processes one received frame. The body slice is only valid for
// the duration of the call: Receive's backing buffer becomes host-owned
// the moment Receive returns, so handlers must not retain references to it.
type Handler func(sender *SubSender, h *Header, body []byte) error

// Receive consumes one descriptor from the inbound ring, splits it into
// header and body, and invokes handler. Returns vring.ErrNoData if the
// host has published nothing new, or vring.ErrInternal if the header
// can't be decoded or its length field doesn't fit the buffer it arrived in.
func (t *Transport) Receive(handler Handler) error {
	return t.Inbound.Process(func(v vring.DescriptorView) error {
		h, err := decodeHeader(v.Bytes)
		if err != nil {
			return vring.ErrInternal
		}
		if int(HeaderSize)+int(h.Length) > len(v.Bytes) {
			return vring.ErrInternal
		}
		body := v.Bytes[HeaderSize : HeaderSize+int(h.Length)]
		sender := &SubSender{t: t}
		return handler(sender, &h, body)
	})
}
