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

// Package bufiox is a trimmed-down buffer-cursor codec: the resource
// table and message framing only ever decode a complete in-memory byte
// slice sequentially, never a streaming io.Reader/io.Writer, so this
// keeps just the Next/Malloc/Flush cursor the wire formats actually use.
package bufiox

// Reader is a sequential, zero-copy cursor over an in-memory buffer.
type Reader interface {
	// Next reads the next n bytes sequentially and returns a slice `p` of
	// length n, otherwise returns an error if unable to read n bytes. The
	// returned p is a shallow view into the original buffer.
	Next(n int) (p []byte, err error)
}
