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

// Package mmio models a memory-mapped 32-bit hardware register. There is
// no real MMIO on the host this runs the firmware model on, so each
// register is backed by an in-process word; access goes through
// sync/atomic the same way internal/iouring treats its shared submission
// and completion ring head/tail pointers, which is the closest idiom this
// codebase has for "a peer can observe this word change underneath you".
package mmio

import "sync/atomic"

// Reg32 is a single 32-bit register.
type Reg32 struct {
	v uint32
}

// Read returns the register's current value.
func (r *Reg32) Read() uint32 {
	return atomic.LoadUint32(&r.v)
}

// Write sets the register's value.
func (r *Reg32) Write(val uint32) {
	atomic.StoreUint32(&r.v, val)
}

// Modify applies f to the current value and stores the result.
func (r *Reg32) Modify(f func(uint32) uint32) {
	for {
		old := atomic.LoadUint32(&r.v)
		if atomic.CompareAndSwapUint32(&r.v, old, f(old)) {
			return
		}
	}
}

// Set ORs bits into the register.
func (r *Reg32) Set(bits uint32) {
	r.Modify(func(w uint32) uint32 { return w | bits })
}

// Clear ANDs ^bits into the register.
func (r *Reg32) Clear(bits uint32) {
	r.Modify(func(w uint32) uint32 { return w &^ bits })
}
