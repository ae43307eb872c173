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

import (
	"fmt"

	"github.com/consensys/go-lace/pkg/util/source"
)

// SyntaxError defines the kind of errors that can be reported by this
// compiler.  All such errors are compile time and none is recoverable: each
// aborts compilation of the enclosing body, and no code is ever emitted for
// an erroring body.
type SyntaxError = source.SyntaxError

// Message prefixes identifying the error categories of this compiler.
// Malformed pattern literals and default clauses arise during pattern
// parsing; tail violations during tail position analysis; unsupported shapes
// during pattern dispatch.
const (
	patternSyntax    = "malformed pattern"
	defaultClause    = "malformed default clause"
	tailViolation    = "self-call not in tail position"
	unsupportedShape = "unsupported pattern shape"
)

// Construct a categorised error message.
func errorMsg(category string, msg string) string {
	return fmt.Sprintf("%s: %s", category, msg)
}
