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

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTable() *ResourceTable {
	return &ResourceTable{
		Header: Header{Version: 1},
		Carveouts: []Carveout{
			{DA: 0x00000000, PA: 0x9D000000, Len: SZ1M, Name: NewName32("IPU_MEM_TEXT")},
		},
		Devmems: []Devmem{
			{DA: 0x60000000, PA: 0x9D100000, Len: SZ1M, Name: NewName32("IPU_MEM_IPC_VRING")},
		},
		Traces: []Trace{
			{DA: 0x9F000000, Len: 16384, Name: NewName32("trace:sysm3")},
		},
		Vdevs: []Vdev{
			{
				ID: VirtioIDRpmsg, NumVrings: 2,
				Vrings: []VdevVring{
					{DA: 0x60000000, Align: 4096, Num: 256, NotifyID: 1},
					{DA: 0x60004000, Align: 4096, Num: 256, NotifyID: 2},
				},
			},
		},
	}
}

// SZ1M avoids importing the am5728 size-class constants into this package,
// which must not depend on any concrete chip.
const SZ1M = 1 << 20

func TestAddressRoundTrip(t *testing.T) {
	rt := sampleTable()

	da, err := rt.PAToDA(0x9D000000 + 10)
	require.NoError(t, err)
	assert.EqualValues(t, 10, da)

	pa, err := rt.DAToPA(da)
	require.NoError(t, err)
	assert.EqualValues(t, 0x9D000000+10, pa)

	_, err = rt.PAToDA(0xFFFFFFFF)
	assert.ErrorIs(t, err, ErrNotMapped)
}

func TestFindTraceAndVdev(t *testing.T) {
	rt := sampleTable()

	tr, err := rt.FindTrace()
	require.NoError(t, err)
	assert.Equal(t, "trace:sysm3", tr.Name.String())

	v, err := rt.FindVdev(VirtioIDRpmsg)
	require.NoError(t, err)
	assert.Len(t, v.Vrings, 2)

	_, err = rt.FindVdev(999)
	assert.ErrorIs(t, err, ErrNoSuchEntry)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	rt := sampleTable()

	buf, err := Encode(rt)
	require.NoError(t, err)

	got, err := Decode(buf)
	require.NoError(t, err)

	assert.Equal(t, rt.Carveouts, got.Carveouts)
	assert.Equal(t, rt.Devmems, got.Devmems)
	assert.Equal(t, rt.Traces, got.Traces)
	require.Len(t, got.Vdevs, 1)
	assert.Equal(t, rt.Vdevs[0].ID, got.Vdevs[0].ID)
	assert.Equal(t, rt.Vdevs[0].Vrings, got.Vdevs[0].Vrings)
}

func TestName32TruncatesAndPads(t *testing.T) {
	short := NewName32("hi")
	assert.Equal(t, "hi", short.String())

	overlong := NewName32("this-name-is-definitely-longer-than-32-bytes")
	assert.Len(t, overlong.String(), NameLen)
}
