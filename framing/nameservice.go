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
	"encoding/binary"

	"github.com/cc-ipu/firmware/resourcetable"
)

// AnnounceFlag distinguishes a name-service Create from a Destroy.
type AnnounceFlag uint32

const (
	AnnounceCreate  AnnounceFlag = 0
	AnnounceDestroy AnnounceFlag = 1
)

// NameServiceAnnounceSize is the fixed body size of an announcement:
// name(32) + description(32) + address(4) + flags(4).
const NameServiceAnnounceSize = resourcetable.NameLen*2 + 4 + 4

// NameServiceAnnounce is the body carried by a name-service frame.
type NameServiceAnnounce struct {
	Name        resourcetable.Name32
	Description resourcetable.Name32
	Address     uint32
	Flags       AnnounceFlag
}

func (a NameServiceAnnounce) encode() []byte {
	b := make([]byte, NameServiceAnnounceSize)
	copy(b[0:32], a.Name[:])
	copy(b[32:64], a.Description[:])
	binary.LittleEndian.PutUint32(b[64:68], a.Address)
	binary.LittleEndian.PutUint32(b[68:72], uint32(a.Flags))
	return b
}

// Announce publishes or revokes an endpoint over the name-service port. A
// registration is a single send; no acknowledgement is expected.
func (t *Transport) Announce(endpointAddr uint32, name, description string, flag AnnounceFlag) error {
	body := NameServiceAnnounce{
		Name:        resourcetable.NewName32(name),
		Description: resourcetable.NewName32(description),
		Address:     endpointAddr,
		Flags:       flag,
	}
	return t.Send(endpointAddr, NameServicePort, body.encode())
}
