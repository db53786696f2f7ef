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
	"encoding/binary"
	"fmt"

	"github.com/cc-ipu/firmware/bufiox"
)

// On-wire sizes, in bytes: the body following a CARVEOUT/DEVMEM or TRACE
// tag (not counting the leading tag u32 itself), the body of a VDEV entry
// before its vrings, and one vring record.
const (
	carveoutBodySize = 4 + 4 + 4 + 4 + 4 + NameLen // da,pa,len,flags,reserved,name
	traceBodySize    = 4 + 4 + 4 + NameLen         // da,len,reserved,name
	vdevHeaderSize   = 4 + 4 + 4 + 4 + 4 + 1 + 1 + 2
	vdevVringSize    = 4 + 4 + 4 + 4 + 4
)

// Encode serializes a ResourceTable to the wire layout described in the
// specification's external-interfaces section: a 16-byte header, an
// entry_count*4 byte offset array, then the tagged entries themselves, all
// little-endian.
func Encode(t *ResourceTable) ([]byte, error) {
	var out []byte
	w := bufiox.NewBytesWriter(&out)

	entries := t.encodeOrder()
	hdr, err := w.Malloc(16)
	if err != nil {
		return nil, err
	}
	binary.LittleEndian.PutUint32(hdr[0:4], t.Header.Version)
	binary.LittleEndian.PutUint32(hdr[4:8], uint32(len(entries)))
	binary.LittleEndian.PutUint32(hdr[8:12], t.Header.Reserved[0])
	binary.LittleEndian.PutUint32(hdr[12:16], t.Header.Reserved[1])

	offsets, err := w.Malloc(4 * len(entries))
	if err != nil {
		return nil, err
	}

	// Entries start right after the offset array; track each one's start
	// so the offset table can be back-filled.
	base := 16 + 4*len(entries)
	pos := base
	for i, e := range entries {
		binary.LittleEndian.PutUint32(offsets[i*4:i*4+4], uint32(pos))
		n, err := writeEntry(w, e)
		if err != nil {
			return nil, fmt.Errorf("resourcetable: encode entry %d: %w", i, err)
		}
		pos += n
	}
	if err := w.Flush(); err != nil {
		return nil, err
	}
	return out, nil
}

// rtEntry is a tagged union used only to drive a single, ordered encode
// pass over the table's heterogeneous entry list.
type rtEntry struct {
	tag      Tag
	carveout *Carveout
	trace    *Trace
	vdev     *Vdev
}

func (t *ResourceTable) encodeOrder() []rtEntry {
	entries := make([]rtEntry, 0, len(t.Carveouts)+len(t.Devmems)+len(t.Traces)+len(t.Vdevs))
	for i := range t.Carveouts {
		entries = append(entries, rtEntry{tag: TagCarveout, carveout: &t.Carveouts[i]})
	}
	for i := range t.Devmems {
		entries = append(entries, rtEntry{tag: TagDevmem, carveout: &t.Devmems[i]})
	}
	for i := range t.Traces {
		entries = append(entries, rtEntry{tag: TagTrace, trace: &t.Traces[i]})
	}
	for i := range t.Vdevs {
		entries = append(entries, rtEntry{tag: TagVdev, vdev: &t.Vdevs[i]})
	}
	return entries
}

func writeEntry(w bufiox.Writer, e rtEntry) (int, error) {
	tagBuf, err := w.Malloc(4)
	if err != nil {
		return 0, err
	}
	binary.LittleEndian.PutUint32(tagBuf, uint32(e.tag))
	n := 4

	switch e.tag {
	case TagCarveout, TagDevmem:
		body, err := w.Malloc(carveoutBodySize)
		if err != nil {
			return 0, err
		}
		putCarveout(body, e.carveout)
		n += carveoutBodySize
	case TagTrace:
		body, err := w.Malloc(traceBodySize)
		if err != nil {
			return 0, err
		}
		putTrace(body, e.trace)
		n += traceBodySize
	case TagVdev:
		body, err := w.Malloc(vdevHeaderSize)
		if err != nil {
			return 0, err
		}
		putVdevHeader(body, e.vdev)
		n += vdevHeaderSize
		for i := range e.vdev.Vrings {
			vb, err := w.Malloc(vdevVringSize)
			if err != nil {
				return 0, err
			}
			putVdevVring(vb, &e.vdev.Vrings[i])
			n += vdevVringSize
		}
	default:
		return 0, fmt.Errorf("resourcetable: unknown tag %d", e.tag)
	}
	return n, nil
}

func putCarveout(b []byte, c *Carveout) {
	binary.LittleEndian.PutUint32(b[0:4], c.DA)
	binary.LittleEndian.PutUint32(b[4:8], c.PA)
	binary.LittleEndian.PutUint32(b[8:12], c.Len)
	binary.LittleEndian.PutUint32(b[12:16], c.Flags)
	binary.LittleEndian.PutUint32(b[16:20], c.Reserved)
	copy(b[20:20+NameLen], c.Name[:])
}

func getCarveout(b []byte) Carveout {
	var c Carveout
	c.DA = binary.LittleEndian.Uint32(b[0:4])
	c.PA = binary.LittleEndian.Uint32(b[4:8])
	c.Len = binary.LittleEndian.Uint32(b[8:12])
	c.Flags = binary.LittleEndian.Uint32(b[12:16])
	c.Reserved = binary.LittleEndian.Uint32(b[16:20])
	copy(c.Name[:], b[20:20+NameLen])
	return c
}

func putTrace(b []byte, t *Trace) {
	binary.LittleEndian.PutUint32(b[0:4], t.DA)
	binary.LittleEndian.PutUint32(b[4:8], t.Len)
	binary.LittleEndian.PutUint32(b[8:12], t.Reserved)
	copy(b[12:12+NameLen], t.Name[:])
}

func getTrace(b []byte) Trace {
	var t Trace
	t.DA = binary.LittleEndian.Uint32(b[0:4])
	t.Len = binary.LittleEndian.Uint32(b[4:8])
	t.Reserved = binary.LittleEndian.Uint32(b[8:12])
	copy(t.Name[:], b[12:12+NameLen])
	return t
}

func putVdevHeader(b []byte, v *Vdev) {
	binary.LittleEndian.PutUint32(b[0:4], v.ID)
	binary.LittleEndian.PutUint32(b[4:8], v.NotifyID)
	binary.LittleEndian.PutUint32(b[8:12], v.DFeatures)
	binary.LittleEndian.PutUint32(b[12:16], v.GFeatures)
	binary.LittleEndian.PutUint32(b[16:20], v.ConfigLen)
	b[20] = v.Status
	b[21] = v.NumVrings
	b[22] = v.Reserved[0]
	b[23] = v.Reserved[1]
}

func getVdevHeader(b []byte) Vdev {
	var v Vdev
	v.ID = binary.LittleEndian.Uint32(b[0:4])
	v.NotifyID = binary.LittleEndian.Uint32(b[4:8])
	v.DFeatures = binary.LittleEndian.Uint32(b[8:12])
	v.GFeatures = binary.LittleEndian.Uint32(b[12:16])
	v.ConfigLen = binary.LittleEndian.Uint32(b[16:20])
	v.Status = b[20]
	v.NumVrings = b[21]
	v.Reserved[0] = b[22]
	v.Reserved[1] = b[23]
	return v
}

func putVdevVring(b []byte, v *VdevVring) {
	binary.LittleEndian.PutUint32(b[0:4], v.DA)
	binary.LittleEndian.PutUint32(b[4:8], v.Align)
	binary.LittleEndian.PutUint32(b[8:12], v.Num)
	binary.LittleEndian.PutUint32(b[12:16], v.NotifyID)
	binary.LittleEndian.PutUint32(b[16:20], v.Reserved)
}

func getVdevVring(b []byte) VdevVring {
	var v VdevVring
	v.DA = binary.LittleEndian.Uint32(b[0:4])
	v.Align = binary.LittleEndian.Uint32(b[4:8])
	v.Num = binary.LittleEndian.Uint32(b[8:12])
	v.NotifyID = binary.LittleEndian.Uint32(b[12:16])
	v.Reserved = binary.LittleEndian.Uint32(b[16:20])
	return v
}

// Decode parses a ResourceTable from its wire layout. It locates entry i at
// offset[i] from the offset table and decodes it by its tag, which is
// self-describing.
func Decode(buf []byte) (*ResourceTable, error) {
	r := bufiox.NewBytesReader(buf)
	hdr, err := r.Next(16)
	if err != nil {
		return nil, fmt.Errorf("resourcetable: decode header: %w", err)
	}
	t := &ResourceTable{Header: Header{
		Version:    binary.LittleEndian.Uint32(hdr[0:4]),
		EntryCount: binary.LittleEndian.Uint32(hdr[4:8]),
		Reserved:   [2]uint32{binary.LittleEndian.Uint32(hdr[8:12]), binary.LittleEndian.Uint32(hdr[12:16])},
	}}

	offBuf, err := r.Next(4 * int(t.Header.EntryCount))
	if err != nil {
		return nil, fmt.Errorf("resourcetable: decode offsets: %w", err)
	}
	offsets := make([]uint32, t.Header.EntryCount)
	for i := range offsets {
		offsets[i] = binary.LittleEndian.Uint32(offBuf[i*4 : i*4+4])
	}

	for _, off := range offsets {
		if int(off) < 16+4*int(t.Header.EntryCount) || int(off) >= len(buf) {
			return nil, fmt.Errorf("resourcetable: entry offset %d out of range", off)
		}
		if err := decodeEntry(t, buf[off:]); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func decodeEntry(t *ResourceTable, buf []byte) error {
	if len(buf) < 4 {
		return fmt.Errorf("resourcetable: truncated entry tag")
	}
	tag := Tag(binary.LittleEndian.Uint32(buf[0:4]))
	body := buf[4:]
	switch tag {
	case TagCarveout:
		if len(body) < carveoutBodySize {
			return fmt.Errorf("resourcetable: truncated carveout entry")
		}
		t.Carveouts = append(t.Carveouts, getCarveout(body))
	case TagDevmem:
		if len(body) < carveoutBodySize {
			return fmt.Errorf("resourcetable: truncated devmem entry")
		}
		t.Devmems = append(t.Devmems, getCarveout(body))
	case TagTrace:
		if len(body) < traceBodySize {
			return fmt.Errorf("resourcetable: truncated trace entry")
		}
		t.Traces = append(t.Traces, getTrace(body))
	case TagVdev:
		if len(body) < vdevHeaderSize {
			return fmt.Errorf("resourcetable: truncated vdev entry")
		}
		v := getVdevHeader(body)
		rest := body[vdevHeaderSize:]
		v.Vrings = make([]VdevVring, v.NumVrings)
		for i := range v.Vrings {
			off := i * vdevVringSize
			if off+vdevVringSize > len(rest) {
				return fmt.Errorf("resourcetable: truncated vdev vring %d", i)
			}
			v.Vrings[i] = getVdevVring(rest[off : off+vdevVringSize])
		}
		t.Vdevs = append(t.Vdevs, v)
	default:
		return fmt.Errorf("resourcetable: unknown entry tag %d", tag)
	}
	return nil
}
