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
	log "github.com/sirupsen/logrus"

	"github.com/consensys/go-lace/pkg/lace/ast"
)

// BindingPair is one ordered (name, initializer) step produced by pattern
// expansion.  Pairs are emitted in depth-first pre-order of the pattern tree;
// hence, a pair's initializer may reference only names bound by earlier
// pairs.
type BindingPair struct {
	Name string
	Init ast.Expr
}

// ExpandPattern compiles a destructuring pattern applied to a given source
// expression into the flat, ordered list of binding pairs, appending onto a
// given accumulator.  A plain binding contributes exactly one pair; a
// compound pattern first binds the whole value at this nesting level (to its
// alias if one was given, otherwise to a fresh temporary) and then binds each
// sub-pattern against an extraction expression over that name.
func ExpandPattern(pattern ast.Pattern, source ast.Expr, accumulator []BindingPair,
	alloc *Allocator) []BindingPair {
	//
	e := expander{alloc, accumulator}
	e.expand(pattern, source)
	//
	log.Debugf("expanded pattern %s into %d binding pair(s)",
		pattern.Lisp().String(true), len(e.pairs)-len(accumulator))
	//
	return e.pairs
}

type expander struct {
	// Allocator for hygienic temporaries, scoped to this compilation.
	alloc *Allocator
	// Accumulated binding pairs, in pre-order.
	pairs []BindingPair
}

func (e *expander) expand(pattern ast.Pattern, source ast.Expr) {
	switch p := pattern.(type) {
	case *ast.BindPattern:
		e.append(p.Name, source)
	case *ast.SequencePattern:
		e.expandSequence(p, source)
	case *ast.TablePattern:
		e.expandTable(p, source)
	default:
		// Unreachable, provided the pattern parser rejects unsupported
		// shapes.
		panic("unknown pattern")
	}
}

func (e *expander) expandSequence(pattern *ast.SequencePattern, source ast.Expr) {
	root := e.root(pattern.Alias, "seq", source)
	// Positional binders extract by index.
	for i, sub := range pattern.Elements {
		e.expand(sub, ast.NewInvoke("nth", root(), ast.NewNumber(int64(i))))
	}
	// The rest binder captures the contiguous remaining sub-sequence.
	if pattern.Rest != "" {
		e.append(pattern.Rest, ast.NewInvoke("drop", root(), ast.NewNumber(int64(len(pattern.Elements)))))
	}
}

func (e *expander) expandTable(pattern *ast.TablePattern, source ast.Expr) {
	root := e.root(pattern.Alias, "tbl", source)
	//
	for _, entry := range pattern.Entries {
		var init ast.Expr
		// A default expression must be evaluated only on lookup miss for its
		// key; hence, it is guarded behind an explicit membership test rather
		// than passed eagerly.
		if def := pattern.DefaultFor(entry.Key); def != nil {
			init = &ast.If{
				Condition:   ast.NewInvoke("has", root(), entry.Key),
				TrueBranch:  ast.NewInvoke("get", root(), entry.Key),
				FalseBranch: def,
			}
		} else {
			init = ast.NewInvoke("get", root(), entry.Key)
		}
		//
		e.expand(entry.Binder, init)
	}
}

// Bind the whole value at this nesting level, reusing the alias name if one
// was given (instead of generating a temporary).  The returned constructor
// builds references to that name for use in extraction expressions.
func (e *expander) root(alias string, prefix string, source ast.Expr) func() ast.Expr {
	name := alias
	//
	if name == "" {
		name = e.alloc.Fresh(prefix)
	}
	//
	e.append(name, source)
	//
	return func() ast.Expr { return &ast.Symbol{Name: name} }
}

func (e *expander) append(name string, init ast.Expr) {
	e.pairs = append(e.pairs, BindingPair{name, init})
}
