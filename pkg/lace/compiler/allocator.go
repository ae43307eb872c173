// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package compiler

import "fmt"

// Allocator allocates temporary names guaranteed unique within one
// compilation.  Names are derived from a monotonically increasing counter and
// contain a '#' character, which user identifiers never do.  An allocator is
// scoped to the compilation of one body and never reused across bodies.
type Allocator struct {
	counter uint
}

// NewAllocator constructs an allocator whose counter starts at zero.
func NewAllocator() *Allocator {
	return &Allocator{}
}

// Fresh allocates the next temporary name using a given prefix.  The prefix
// carries no semantic meaning and exists purely to make generated code easier
// to read.
func (p *Allocator) Fresh(prefix string) string {
	name := fmt.Sprintf("%s#%d", prefix, p.counter)
	p.counter++
	//
	return name
}
