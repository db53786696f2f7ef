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

// NameLen is the fixed width of a Name32 buffer, as used throughout the
// resource table and the name-service announcement protocol.
const NameLen = 32

// Name32 is a UTF-8 string packed into a fixed 32-byte buffer. It is
// NUL-padded, not required to be NUL-terminated: a full 32-byte name has
// no trailing NUL at all.
type Name32 [NameLen]byte

// NewName32 truncates src to NameLen bytes if necessary and NUL-pads the
// remainder. It never fails.
func NewName32(src string) Name32 {
	var n Name32
	copy(n[:], src)
	return n
}

// String returns the name up to its first NUL byte, or the full buffer if
// it contains none.
func (n Name32) String() string {
	for i, b := range n {
		if b == 0 {
			return string(n[:i])
		}
	}
	return string(n[:])
}
