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

// Package framing wraps the vring transport in a typed datagram API:
// a 16-byte header plus body, with a well-known name-service endpoint used
// to advertise and revoke application endpoints.
//
//	+---------2B--------+---------2B--------+
//	|              source (u32)             |
//	|           destination (u32)           |
//	|             reserved (u32)            |
//	|     length (u16)   |     flags (u16)   |
//	|               body[length]            |
package framing

import (
	"encoding/binary"
	"fmt"
)

// HeaderSize is the on-wire size of a message frame header.
const HeaderSize = 16

// NameServicePort is the well-known destination for name-service traffic.
const NameServicePort = 0x35

// Header is the fixed-size prefix of every message frame.
type Header struct {
	Source      uint32
	Destination uint32
	Reserved    uint32
	Length      uint16
	Flags       uint16
}

// encodeHeader writes h to a fresh 16-byte buffer. Reserved is always
// written as zero on transmit, per the wire format.
func encodeHeader(h Header) []byte {
	b := make([]byte, HeaderSize)
	binary.LittleEndian.PutUint32(b[0:4], h.Source)
	binary.LittleEndian.PutUint32(b[4:8], h.Destination)
	binary.LittleEndian.PutUint32(b[8:12], 0)
	binary.LittleEndian.PutUint16(b[12:14], h.Length)
	binary.LittleEndian.PutUint16(b[14:16], h.Flags)
	return b
}

// decodeHeader parses the 16-byte header prefix of buf. The flags field on
// incoming headers is deliberately never interpreted: the protocol reserves
// those bits without specifying semantics, so frames are rejected only on
// an out-of-range length.
func decodeHeader(buf []byte) (Header, error) {
	if len(buf) < HeaderSize {
		return Header{}, fmt.Errorf("framing: buffer shorter than header (%d bytes)", len(buf))
	}
	return Header{
		Source:      binary.LittleEndian.Uint32(buf[0:4]),
		Destination: binary.LittleEndian.Uint32(buf[4:8]),
		Reserved:    binary.LittleEndian.Uint32(buf[8:12]),
		Length:      binary.LittleEndian.Uint16(buf[12:14]),
		Flags:       binary.LittleEndian.Uint16(buf[14:16]),
	}, nil
}
