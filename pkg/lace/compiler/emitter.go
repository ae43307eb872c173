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
	"github.com/consensys/go-lace/pkg/lace/ast"
)

// EmitBindings turns a final ordered list of binding pairs into one
// sequential binding construct wrapping a given body.  This is purely
// structural: its correctness rests entirely on the expander's pre-order,
// no-forward-reference invariant.
func EmitBindings(pairs []BindingPair, body ast.Expr) ast.Expr {
	if len(pairs) == 0 {
		return body
	}
	//
	bindings := make([]ast.LetBinding, len(pairs))
	//
	for i, pair := range pairs {
		bindings[i] = ast.LetBinding{Name: pair.Name, Init: pair.Init}
	}
	//
	return &ast.Let{Bindings: bindings, Body: body}
}
