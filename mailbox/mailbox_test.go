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
)

func TestFifoOrderAndOverflow(t *testing.T) {
	f := &Fifo[int]{}
	for i := 0; i < fifoCapacity; i++ {
		f.Push(i)
	}
	assert.Equal(t, fifoCapacity, f.Len())

	// One more push overflows: capacity is fixed, so the oldest unread
	// element (0) is dropped to make room for the new one.
	f.Push(9999)
	assert.Equal(t, fifoCapacity, f.Len())

	for i := 1; i < fifoCapacity; i++ {
		v, ok := f.Pop()
		require.True(t, ok)
		assert.Equal(t, i, v)
	}
	v, ok := f.Pop()
	require.True(t, ok)
	assert.Equal(t, 9999, v)
	_, ok = f.Pop()
	assert.False(t, ok)
}

func TestFifoEmptyWhenCursorsEqual(t *testing.T) {
	f := &Fifo[Tag]{}
	_, ok := f.Pop()
	assert.False(t, ok)

	f.Push(TagReady)
	v, ok := f.Pop()
	require.True(t, ok)
	assert.Equal(t, TagReady, v)
	_, ok = f.Pop()
	assert.False(t, ok)
}

func TestIsWellKnown(t *testing.T) {
	assert.True(t, TagReady.IsWellKnown())
	assert.True(t, TagHibernationCancel.IsWellKnown())
	assert.False(t, TagOutboundSpace.IsWellKnown())
	assert.False(t, TagInboundMessage.IsWellKnown())
}
