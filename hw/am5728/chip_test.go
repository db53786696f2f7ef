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

package am5728

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Claim hands out the chip handle exactly once per process, and a test
// binary is one process, so every test in this package shares the single
// claimed handle rather than calling Claim again.
var (
	sharedOnce sync.Once
	sharedChip *Chip
)

func testChip(t *testing.T) *Chip {
	t.Helper()
	sharedOnce.Do(func() {
		c, ok := Claim()
		require.True(t, ok)
		sharedChip = c
	})
	require.NotNil(t, sharedChip)
	return sharedChip
}

func TestClaimIsOneShot(t *testing.T) {
	c1 := testChip(t)
	require.NotNil(t, c1)

	c2, ok := Claim()
	assert.False(t, ok)
	assert.Nil(t, c2)
}

func TestMailboxSendAndReceive(t *testing.T) {
	c := testChip(t)
	mb := c.GetMailbox(Mailbox1)

	assert.False(t, mb.SlotFull(3))
	mb.SendMessage(3, 0xCAFE)
	assert.True(t, mb.SlotFull(3))

	v, ok := mb.GetMessage(3)
	require.True(t, ok)
	assert.EqualValues(t, 0xCAFE, v)
	assert.False(t, mb.SlotFull(3))

	_, ok = mb.GetMessage(3)
	assert.False(t, ok)
}

func TestFlushRangeSpinsToCompletion(t *testing.T) {
	c := testChip(t)
	// Maint register self-clears instantly in this model (no real hardware
	// delay), so FlushRange must return rather than spin forever.
	c.FlushRange(0x1000, 64, FlushInvalidate)
	assert.EqualValues(t, 0, c.Unicache.Maint.Read()&0x1f)
}

func TestCrossbarPairFields(t *testing.T) {
	c := testChip(t)
	pair := c.Crossbar.Pair(23)
	pair.SetLower(5)
	pair.SetHigher(9)
	// Independently addressable 8-bit fields within one 32-bit register.
	pair.SetLower(1)
	assert.NotNil(t, pair)
	assert.EqualValues(t, 0x0901, pair.reg.Read())
}
