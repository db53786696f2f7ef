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

package mailbox

import "sync"

// fifoCapacity is the bounded queue's slot count between the ISR and the
// main loop. Capacity is fixed, not configurable, matching the hardware
// budget this queue was sized against.
const fifoCapacity = 64

// Fifo is a bounded single-producer/single-consumer queue between the
// mailbox ISR (producer) and the main loop (consumer). It's generic over
// the element type (Tag in this firmware), but the cursor/capacity
// mechanics don't care what T is.
//
// Two 8-bit cursors wrap at 256 and index a fixed 64-slot array; a slot is
// cursor mod 64. The queue is empty when the cursors are equal, and it
// drops the oldest unread element silently on overflow rather than
// blocking - the main loop is expected to drain faster than the mailbox
// can kick, and there is nowhere to propagate a push failure from
// interrupt context anyway.
type Fifo[T any] struct {
	mu    sync.Mutex // stands in for "disable interrupts" around the pop's read-modify-write
	slots [fifoCapacity]T
	read  uint8
	write uint8
}

// Push is called from the ISR side. It never blocks and never fails
// visibly: on overflow the oldest unread element is silently dropped to
// make room, and the new value is always written.
func (f *Fifo[T]) Push(v T) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.full() {
		f.read++
	}
	f.slots[f.write%fifoCapacity] = v
	f.write++
}

// Pop is called from the main loop. Returns ok=false if the queue is
// empty.
func (f *Fifo[T]) Pop() (v T, ok bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.read == f.write {
		return v, false
	}
	v = f.slots[f.read%fifoCapacity]
	f.read++
	return v, true
}

// full reports whether the queue currently holds fifoCapacity elements.
// Must be called with mu held.
func (f *Fifo[T]) full() bool {
	return f.write-f.read == fifoCapacity
}

// Len returns the number of elements currently queued.
func (f *Fifo[T]) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int(f.write - f.read)
}
