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
package ast

import (
	"github.com/consensys/go-lace/pkg/util/source/sexp"
)

// Pattern represents a destructuring pattern: a structural template
// describing how to decompose a composite value into named bindings.  A
// pattern is one of three variants: a plain binding, a sequence pattern or a
// table pattern.
type Pattern interface {
	Node
	// marker method which limits the set of pattern types to those defined in
	// this package.
	isPattern()
}

// ============================================================================
// Binding
// ============================================================================

// BindPattern binds the entire matched value to a single name.
type BindPattern struct{ Name string }

func (p *BindPattern) isPattern() {}

// Lisp converts this node into a simple S-Expression, for example so it can
// be printed.
func (p *BindPattern) Lisp() sexp.SExp {
	return sexp.NewSymbol(p.Name)
}

// ============================================================================
// Sequence
// ============================================================================

// SequencePattern matches an ordered sequence: one sub-pattern per position,
// an optional rest binder capturing the contiguous remaining elements, and an
// optional alias capturing the whole sequence.
type SequencePattern struct {
	// Positional sub-patterns.
	Elements []Pattern
	// Name of the rest binder, or empty if none.  When present, the rest
	// binder follows the final positional element.
	Rest string
	// Name aliasing the whole matched value, or empty if none.
	Alias string
}

func (p *SequencePattern) isPattern() {}

// Lisp converts this node into a simple S-Expression, for example so it can
// be printed.
func (p *SequencePattern) Lisp() sexp.SExp {
	var elements []sexp.SExp
	//
	for _, e := range p.Elements {
		elements = append(elements, e.Lisp())
	}
	//
	if p.Rest != "" {
		elements = append(elements, sexp.NewSymbol("&"+p.Rest))
	}
	//
	if p.Alias != "" {
		elements = append(elements, sexp.NewSymbol(":as"), sexp.NewSymbol(p.Alias))
	}
	//
	return sexp.NewArray(elements)
}

// ============================================================================
// Table
// ============================================================================

// TableEntry pairs a sub-pattern with the constant key whose value it binds.
type TableEntry struct {
	Binder Pattern
	Key    Expr
}

// DefaultEntry supplies a default expression for one key, evaluated only when
// that key is absent from the matched value.
type DefaultEntry struct {
	Key     Expr
	Default Expr
}

// TablePattern matches a key-value source: one sub-pattern per key, an
// optional alias capturing the whole value, and an optional static map of
// per-key defaults.
type TablePattern struct {
	Entries []TableEntry
	// Name aliasing the whole matched value, or empty if none.
	Alias string
	// Per-key default expressions, consulted lazily at emission time.
	Defaults []DefaultEntry
}

func (p *TablePattern) isPattern() {}

// DefaultFor returns the default expression registered against a given key,
// or nil if there is none.
func (p *TablePattern) DefaultFor(key Expr) Expr {
	for _, d := range p.Defaults {
		if ConstEquals(d.Key, key) {
			return d.Default
		}
	}
	//
	return nil
}

// Lisp converts this node into a simple S-Expression, for example so it can
// be printed.
func (p *TablePattern) Lisp() sexp.SExp {
	elements := []sexp.SExp{sexp.NewSymbol("::")}
	//
	for _, e := range p.Entries {
		elements = append(elements, e.Binder.Lisp(), e.Key.Lisp())
	}
	//
	if p.Alias != "" {
		elements = append(elements, sexp.NewSymbol(":as"), sexp.NewSymbol(p.Alias))
	}
	//
	if len(p.Defaults) != 0 {
		defaults := make([]sexp.SExp, 0, 2*len(p.Defaults))
		for _, d := range p.Defaults {
			defaults = append(defaults, d.Key.Lisp(), d.Default.Lisp())
		}
		//
		elements = append(elements, sexp.NewSymbol(":or"), sexp.NewSet(defaults))
	}
	//
	return sexp.NewArray(elements)
}
