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

package resourcetable

// Tag identifies the kind of a resource table entry.
type Tag uint32

const (
	TagCarveout Tag = 0
	TagDevmem   Tag = 1
	TagTrace    Tag = 2
	TagVdev     Tag = 3
)

// VirtioIDRpmsg is the well-known virtio device id for an rpmsg channel.
const VirtioIDRpmsg = 7

// Virtio status bits, written into Vdev.Status by the host during the boot
// handshake. BootReady is the value the firmware waits for.
const (
	StatusAcknowledge = 1 << 0
	StatusDriver      = 1 << 1
	StatusDriverOK    = 1 << 2
	BootReady         = StatusAcknowledge | StatusDriver | StatusDriverOK
)

// Header is the 16-byte resource table header, at the start of the
// .resource_table link section.
type Header struct {
	Version    uint32
	EntryCount uint32
	Reserved   [2]uint32
}

// Carveout describes host-allocated RAM reserved for the firmware. Devmem
// entries share the identical body shape.
type Carveout struct {
	DA       uint32
	PA       uint32
	Len      uint32
	Flags    uint32
	Reserved uint32
	Name     Name32
}

// Devmem is a preset host-physical to device-address MMIO mapping.
type Devmem = Carveout

// Trace describes the fixed-address wrap-around trace buffer.
type Trace struct {
	DA       uint32
	Len      uint32
	Reserved uint32
	Name     Name32
}

// VdevVring describes one descriptor ring belonging to a Vdev.
type VdevVring struct {
	DA       uint32
	Align    uint32
	Num      uint32
	NotifyID uint32
	Reserved uint32
}

// Vdev is a virtio device header, followed by NumVrings VdevVring entries.
type Vdev struct {
	ID         uint32
	NotifyID   uint32
	DFeatures  uint32
	GFeatures  uint32
	ConfigLen  uint32
	Status     uint8
	NumVrings  uint8
	Reserved   [2]uint8
	Vrings     []VdevVring
}

// Region is the common shape shared by Carveout and Devmem lookups: a
// disjoint device-address range with a corresponding host-physical range.
type Region struct {
	DA  uint32
	PA  uint32
	Len uint32
}
