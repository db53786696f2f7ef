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

package trace

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// This must run before anything else in the package writes to the shared
// buffer: Steal scans from absolute offset 0, so it depends on the buffer
// still being pristine.
func TestStealRecoversCursorAtFirstNUL(t *testing.T) {
	fresh := &Trace{writeIdx: 0}
	require.NoError(t, fresh.WriteString("ping"))

	stolen := Steal()
	assert.Equal(t, 4, stolen.writeIdx) // on the NUL after "ping", where the next write starts
}

func TestClaimIsOneShot(t *testing.T) {
	t1, ok := Claim()
	require.True(t, ok)
	require.NotNil(t, t1)

	t2, ok := Claim()
	assert.False(t, ok)
	assert.Nil(t, t2)
}

func TestWriteStringWrapsWhenInsufficientSpace(t *testing.T) {
	tr := &Trace{writeIdx: Size - 3}
	require.NoError(t, tr.WriteString("hello"))
	assert.Equal(t, len("hello"), tr.writeIdx)
	assert.True(t, strings.HasPrefix(string(buffer[:len("hello")]), "hello"))
}

func TestWriteStringFitsWithoutWrapping(t *testing.T) {
	tr := &Trace{writeIdx: 100}
	require.NoError(t, tr.WriteString("fits"))
	assert.Equal(t, 104, tr.writeIdx)
	assert.Equal(t, "fits", string(buffer[100:104]))
	assert.EqualValues(t, 0, buffer[104])
}

func TestWriteStringRejectsOversizedPayload(t *testing.T) {
	tr := &Trace{writeIdx: 0}
	huge := strings.Repeat("x", Size)
	err := tr.WriteString(huge)
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestWriteImplementsIoWriter(t *testing.T) {
	tr := &Trace{writeIdx: 200}
	n, err := tr.Write([]byte("via-writer"))
	require.NoError(t, err)
	assert.Equal(t, len("via-writer"), n)
	assert.Equal(t, "via-writer", string(buffer[200:200+len("via-writer")]))
}
