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

package vring

import "errors"

// Sentinel vring failures, comparable with errors.Is the same way
// unsafex/malloc and protocol/ttheader compare their own sentinel errors.
var (
	// ErrNoData means the consumer observed no new work. Expected and silent.
	ErrNoData = errors.New("vring: no data")

	// ErrOutOfMemory means the host-role free list is empty.
	ErrOutOfMemory = errors.New("vring: out of memory")

	// ErrPayloadTooLarge means a transmit exceeded the buffer the host provided.
	ErrPayloadTooLarge = errors.New("vring: payload too large")

	// ErrInternal flags an invariant violation: descriptor index out of
	// range, malformed ring state, or similar.
	ErrInternal = errors.New("vring: internal error")
)
