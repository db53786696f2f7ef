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

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cc-ipu/firmware/hw/am5728"
)

func TestNotifierDeliversThroughISR(t *testing.T) {
	chip, ok := am5728.Claim()
	require.True(t, ok, "chip singleton must be claimable exactly once per test binary")

	rx := am5728.MailboxLocation{ID: am5728.Mailbox5, User: am5728.User1, Slot: 6}
	tx := am5728.MailboxLocation{ID: am5728.Mailbox5, User: am5728.User1, Slot: 4}

	n := New(Config{Chip: chip, TX: tx, RX: rx})
	n.Start()

	chip.SendMessage(rx, uint32(TagEchoRequest))
	n.HandleInterrupt()

	tag, ok := n.Drain()
	require.True(t, ok)
	assert.Equal(t, TagEchoRequest, tag)

	_, ok = n.Drain()
	assert.False(t, ok)
}
