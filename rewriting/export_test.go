// Copyright 2020-2025 Buf Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package rewriting

// CorruptSlot clobbers the slot index h believes it occupies, so tests
// can exercise the verification pass in [Session.Apply]. Nothing in
// the public API can produce this state.
func CorruptSlot(h Handle) {
	h.check("CorruptSlot").slot++
}
