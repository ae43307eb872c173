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
	"fmt"
	"math/big"

	"github.com/consensys/go-lace/pkg/util/source/sexp"
)

// Node provides a common interface for all terms of the Lace tree, namely the
// ability to print themselves back as an S-Expression.
type Node interface {
	// Lisp converts this node into a simple S-Expression, for example so it
	// can be printed.
	Lisp() sexp.SExp
}

// Expr represents an arbitrary expression in a canonical (i.e. fully
// sugar-expanded) Lace body.  Canonical expressions are what the tail
// analyzer consumes and what the pattern expander and loop rewriter produce.
type Expr interface {
	Node
	// marker method which limits the set of expression types to those defined
	// in this package.
	isExpr()
}

// ============================================================================
// Symbol
// ============================================================================

// Symbol represents a variable (or function) reference.
type Symbol struct{ Name string }

func (e *Symbol) isExpr() {}

// Lisp converts this node into a simple S-Expression, for example so it can
// be printed.
func (e *Symbol) Lisp() sexp.SExp {
	return sexp.NewSymbol(e.Name)
}

// ============================================================================
// Constants
// ============================================================================

// Number represents a numeric constant.
type Number struct{ Value *big.Int }

// NewNumber constructs a numeric constant from a given int64.
func NewNumber(value int64) *Number {
	return &Number{big.NewInt(value)}
}

func (e *Number) isExpr() {}

// Lisp converts this node into a simple S-Expression, for example so it can
// be printed.
func (e *Number) Lisp() sexp.SExp {
	return sexp.NewSymbol(e.Value.String())
}

// String represents a string constant.
type String struct{ Value string }

func (e *String) isExpr() {}

// Lisp converts this node into a simple S-Expression, for example so it can
// be printed.
func (e *String) Lisp() sexp.SExp {
	return sexp.NewSymbol(fmt.Sprintf("\"%s\"", e.Value))
}

// Keyword represents a keyword constant, such as ":middle".  The name
// excludes the leading colon.
type Keyword struct{ Name string }

func (e *Keyword) isExpr() {}

// Lisp converts this node into a simple S-Expression, for example so it can
// be printed.
func (e *Keyword) Lisp() sexp.SExp {
	return sexp.NewSymbol(":" + e.Name)
}

// Boolean represents either true or false.
type Boolean struct{ Value bool }

func (e *Boolean) isExpr() {}

// Lisp converts this node into a simple S-Expression, for example so it can
// be printed.
func (e *Boolean) Lisp() sexp.SExp {
	if e.Value {
		return sexp.NewSymbol("true")
	}
	//
	return sexp.NewSymbol("false")
}

// Nil represents the nil constant.
type Nil struct{}

func (e *Nil) isExpr() {}

// Lisp converts this node into a simple S-Expression, for example so it can
// be printed.
func (e *Nil) Lisp() sexp.SExp {
	return sexp.NewSymbol("nil")
}

// ============================================================================
// If
// ============================================================================

// If represents a two-way conditional.  The false branch is optional, with an
// absent branch evaluating to nil.
type If struct {
	Condition   Expr
	TrueBranch  Expr
	FalseBranch Expr
}

func (e *If) isExpr() {}

// Lisp converts this node into a simple S-Expression, for example so it can
// be printed.
func (e *If) Lisp() sexp.SExp {
	elements := []sexp.SExp{sexp.NewSymbol("if"), e.Condition.Lisp(), e.TrueBranch.Lisp()}
	//
	if e.FalseBranch != nil {
		elements = append(elements, e.FalseBranch.Lisp())
	}
	//
	return sexp.NewList(elements)
}

// ============================================================================
// Begin
// ============================================================================

// Begin represents a sequencing construct whose value is that of its final
// sub-expression.
type Begin struct{ Exprs []Expr }

func (e *Begin) isExpr() {}

// Lisp converts this node into a simple S-Expression, for example so it can
// be printed.
func (e *Begin) Lisp() sexp.SExp {
	elements := []sexp.SExp{sexp.NewSymbol("begin")}
	//
	for _, arg := range e.Exprs {
		elements = append(elements, arg.Lisp())
	}
	//
	return sexp.NewList(elements)
}

// ============================================================================
// Let
// ============================================================================

// LetBinding is a single (name, initializer) step of a Let.
type LetBinding struct {
	Name string
	Init Expr
}

// Let represents a sequential binding construct: each initializer may
// reference names bound by earlier bindings, never later ones.
type Let struct {
	Bindings []LetBinding
	Body     Expr
}

func (e *Let) isExpr() {}

// Lisp converts this node into a simple S-Expression, for example so it can
// be printed.
func (e *Let) Lisp() sexp.SExp {
	bindings := make([]sexp.SExp, 0, 2*len(e.Bindings))
	//
	for _, b := range e.Bindings {
		bindings = append(bindings, sexp.NewSymbol(b.Name), b.Init.Lisp())
	}
	//
	return sexp.NewList([]sexp.SExp{
		sexp.NewSymbol("let"), sexp.NewArray(bindings), e.Body.Lisp(),
	})
}

// ============================================================================
// And / Or
// ============================================================================

// And represents the short-circuit conjunction of one or more expressions.
type And struct{ Args []Expr }

func (e *And) isExpr() {}

// Lisp converts this node into a simple S-Expression, for example so it can
// be printed.
func (e *And) Lisp() sexp.SExp {
	return listOfExpressions(sexp.NewSymbol("and"), e.Args)
}

// Or represents the short-circuit disjunction of one or more expressions.
type Or struct{ Args []Expr }

func (e *Or) isExpr() {}

// Lisp converts this node into a simple S-Expression, for example so it can
// be printed.
func (e *Or) Lisp() sexp.SExp {
	return listOfExpressions(sexp.NewSymbol("or"), e.Args)
}

// ============================================================================
// Lambda
// ============================================================================

// Lambda represents an anonymous function.  Observe that a lambda opens an
// independent tail context: a self-call of an enclosing function occurring
// inside a lambda is never in tail position of that enclosing function.
type Lambda struct {
	Params []Pattern
	Body   Expr
}

func (e *Lambda) isExpr() {}

// Lisp converts this node into a simple S-Expression, for example so it can
// be printed.
func (e *Lambda) Lisp() sexp.SExp {
	params := make([]sexp.SExp, len(e.Params))
	//
	for i, p := range e.Params {
		params[i] = p.Lisp()
	}
	//
	return sexp.NewList([]sexp.SExp{
		sexp.NewSymbol("fn"), sexp.NewArray(params), e.Body.Lisp(),
	})
}

// ============================================================================
// Invoke
// ============================================================================

// Invoke represents the application of a function to zero or more argument
// expressions.
type Invoke struct {
	Fn   Expr
	Args []Expr
}

// NewInvoke constructs an application of a named function to the given
// arguments.
func NewInvoke(name string, args ...Expr) *Invoke {
	return &Invoke{&Symbol{name}, args}
}

func (e *Invoke) isExpr() {}

// Name returns the name of the invoked function, or an empty string if the
// function position is not a plain symbol.
func (e *Invoke) Name() string {
	if s, ok := e.Fn.(*Symbol); ok {
		return s.Name
	}
	//
	return ""
}

// Lisp converts this node into a simple S-Expression, for example so it can
// be printed.
func (e *Invoke) Lisp() sexp.SExp {
	return listOfExpressions(e.Fn.Lisp(), e.Args)
}

// ============================================================================
// While
// ============================================================================

// While represents an iterative construct which evaluates its body for as
// long as its condition holds, producing nil.  It is generated by the loop
// rewriter and is also accepted in source form.
type While struct {
	Condition Expr
	Body      Expr
}

func (e *While) isExpr() {}

// Lisp converts this node into a simple S-Expression, for example so it can
// be printed.
func (e *While) Lisp() sexp.SExp {
	return sexp.NewList([]sexp.SExp{
		sexp.NewSymbol("while"), e.Condition.Lisp(), e.Body.Lisp(),
	})
}

// ============================================================================
// Assign
// ============================================================================

// Assign represents the mutation of an existing binding, producing nil.  It
// is generated by the loop rewriter and is also accepted in source form.
type Assign struct {
	Name  string
	Value Expr
}

func (e *Assign) isExpr() {}

// Lisp converts this node into a simple S-Expression, for example so it can
// be printed.
func (e *Assign) Lisp() sexp.SExp {
	return sexp.NewList([]sexp.SExp{
		sexp.NewSymbol("set!"), sexp.NewSymbol(e.Name), e.Value.Lisp(),
	})
}

// ============================================================================
// Helpers
// ============================================================================

// IsConstant checks whether a given expression is a constant, as required
// (for example) of table pattern keys.
func IsConstant(e Expr) bool {
	switch e.(type) {
	case *Number, *String, *Keyword, *Boolean, *Nil:
		return true
	}
	//
	return false
}

// ConstEquals checks whether two constant expressions denote the same value.
// Non-constant expressions are never considered equal.
func ConstEquals(l Expr, r Expr) bool {
	switch l := l.(type) {
	case *Number:
		if r, ok := r.(*Number); ok {
			return l.Value.Cmp(r.Value) == 0
		}
	case *String:
		if r, ok := r.(*String); ok {
			return l.Value == r.Value
		}
	case *Keyword:
		if r, ok := r.(*Keyword); ok {
			return l.Name == r.Name
		}
	case *Boolean:
		if r, ok := r.(*Boolean); ok {
			return l.Value == r.Value
		}
	case *Nil:
		_, ok := r.(*Nil)
		return ok
	}
	//
	return false
}

func listOfExpressions(head sexp.SExp, exprs []Expr) sexp.SExp {
	elements := make([]sexp.SExp, 1+len(exprs))
	elements[0] = head
	//
	for i, e := range exprs {
		elements[i+1] = e.Lisp()
	}
	//
	return sexp.NewList(elements)
}
