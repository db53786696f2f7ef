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

package fwmain

import (
	"fmt"

	"github.com/cc-ipu/firmware/trace"
)

// RecoverPanic is the last line of defense around the main loop: it steals
// the trace buffer (never claims it - a panicking goroutine cannot assume
// it still holds whatever claim it had), writes one diagnostic line, and
// halts. What halting means past that point (register dump formatting,
// watchdog behavior) is out of scope; Halt is deliberately a closed loop
// rather than os.Exit so it behaves like the bare-metal "loop {}" it
// replaces.
func RecoverPanic() {
	r := recover()
	if r == nil {
		return
	}
	t := trace.Steal()
	fmt.Fprintf(t, "*** SYSTEM PANIC!: %v\n", r)
	Halt()
}

// Halt never returns. It stands in for the bare-metal infinite loop a real
// panic handler falls into once it has finished writing diagnostics.
func Halt() {
	select {}
}
