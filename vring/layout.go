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

// Package vring implements the virtio split-ring transport: a lock-free
// single-producer/single-consumer descriptor/available/used triple shared
// between the host CPU and this firmware, in both the Guest
// (consume-then-release) and Host (provide-then-reclaim) roles.
package vring

const (
	descriptorSize = 16 // addr:u64, len:u32, flags:u16, next:u16
	usedElemSize   = 8  // idx:u32, len:u32
)

// Layout is the byte-offset breakdown of one vring's three sub-rings,
// relative to the ring's device-address base, for N descriptors.
type Layout struct {
	N         uint32
	DescOff   uint64
	AvailOff  uint64
	AvailSize uint64
	UsedOff   uint64
	UsedSize  uint64
	Total     uint64
}

// ComputeLayout derives the sub-ring offsets as specified: descriptors
// start at 0 and occupy 16*N bytes; available starts right after and
// occupies 6+2*N bytes; used starts at align_up(end_of_available, align).
func ComputeLayout(n uint32, align uint32) Layout {
	descOff := uint64(0)
	descSize := uint64(descriptorSize) * uint64(n)
	availOff := descOff + descSize
	availSize := uint64(6) + 2*uint64(n)
	usedOff := AlignUp(availOff+availSize, uint64(align))
	usedSize := uint64(6) + uint64(usedElemSize)*uint64(n)
	return Layout{
		N:         n,
		DescOff:   descOff,
		AvailOff:  availOff,
		AvailSize: availSize,
		UsedOff:   usedOff,
		UsedSize:  usedSize,
		Total:     usedOff + usedSize,
	}
}

// AlignUp rounds x up to the next multiple of the power-of-two align. It is
// idempotent: AlignUp(AlignUp(x, a), a) == AlignUp(x, a) for every
// power-of-two a.
func AlignUp(x, align uint64) uint64 {
	if align == 0 {
		return x
	}
	return (x + align - 1) &^ (align - 1)
}
