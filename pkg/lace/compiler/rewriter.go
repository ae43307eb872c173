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

// LoopState is the ordered list of (loop variable, initializer) pairs over
// which a rewritten body iterates, derived from the compiled parameter
// bindings of the enclosing function.
type LoopState []BindingPair

// RewriteLoop consumes a body whose self-calls have all been verified as tail
// calls, and rewrites it into an iterative construct: a boolean continuation
// sentinel (initially set) guards a loop which evaluates the body once per
// iteration.  Each tail self-call becomes a simultaneous update of the loop
// variables, followed by another iteration.  Every argument expression is
// evaluated, left to right, into a fresh temporary before any loop variable
// is overwritten.  Any other tail expression clears the sentinel and its
// value becomes the loop's result.
//
// Known limitation: closures created during the loop observe the mutated loop
// variables, rather than per-iteration snapshots.
func RewriteLoop(state LoopState, body ast.Expr, isSelf SelfCallPredicate, alloc *Allocator) ast.Expr {
	r := rewriter{
		state:    state,
		isSelf:   isSelf,
		alloc:    alloc,
		sentinel: alloc.Fresh("continue"),
		result:   alloc.Fresh("result"),
	}
	// Rewrite all tail positions of the body.
	rewritten := r.tail(body)
	// Assemble the loop.  The sentinel is cleared at the head of every
	// iteration and re-set only by a tail self-call.
	loop := &ast.While{
		Condition: &ast.Symbol{Name: r.sentinel},
		Body: &ast.Begin{Exprs: []ast.Expr{
			&ast.Assign{Name: r.sentinel, Value: &ast.Boolean{Value: false}},
			rewritten,
		}},
	}
	// Bind the loop variables, sentinel and result around it.
	bindings := append(append(LoopState{}, state...),
		BindingPair{r.sentinel, &ast.Boolean{Value: true}},
		BindingPair{r.result, &ast.Nil{}},
	)
	//
	return EmitBindings(bindings, &ast.Begin{Exprs: []ast.Expr{loop, &ast.Symbol{Name: r.result}}})
}

type rewriter struct {
	state    LoopState
	isSelf   SelfCallPredicate
	alloc    *Allocator
	sentinel string
	result   string
}

// Rewrite an expression in tail position.  Constructs which propagate
// tailness are traversed; a tail self-call becomes the simultaneous variable
// update; any other tail expression stores its value as the loop result.
// Expressions in non-tail position are left untouched, since the verdict
// guarantees they contain no self-calls.
func (r *rewriter) tail(e ast.Expr) ast.Expr {
	switch e := e.(type) {
	case *ast.Begin:
		exprs := make([]ast.Expr, len(e.Exprs))
		copy(exprs, e.Exprs)
		exprs[len(exprs)-1] = r.tail(exprs[len(exprs)-1])
		//
		return &ast.Begin{Exprs: exprs}
	case *ast.If:
		falseBranch := r.store(&ast.Nil{})
		if e.FalseBranch != nil {
			falseBranch = r.tail(e.FalseBranch)
		}
		//
		return &ast.If{Condition: e.Condition, TrueBranch: r.tail(e.TrueBranch), FalseBranch: falseBranch}
	case *ast.Let:
		return &ast.Let{Bindings: e.Bindings, Body: r.tail(e.Body)}
	case *ast.And:
		return r.tailOperands(e.Args, true)
	case *ast.Or:
		return r.tailOperands(e.Args, false)
	case *ast.Invoke:
		if r.isSelf(e) {
			return r.update(e)
		}
	}
	// Any other tail expression terminates the loop with its value.
	return r.store(e)
}

// Rewrite the operands of a short-circuit combinator in tail position.  Only
// the final operand is a tail position; an earlier operand deciding the
// outcome terminates the loop with its own value.  Operands are bound to
// temporaries so that none is evaluated twice.
func (r *rewriter) tailOperands(args []ast.Expr, conjunction bool) ast.Expr {
	if len(args) == 1 {
		return r.tail(args[0])
	}
	//
	tmp := r.alloc.Fresh("t")
	test := ast.Expr(&ast.Symbol{Name: tmp})
	stored := r.store(&ast.Symbol{Name: tmp})
	rest := r.tailOperands(args[1:], conjunction)
	//
	var branch *ast.If
	if conjunction {
		branch = &ast.If{Condition: test, TrueBranch: rest, FalseBranch: stored}
	} else {
		branch = &ast.If{Condition: test, TrueBranch: stored, FalseBranch: rest}
	}
	//
	return &ast.Let{
		Bindings: []ast.LetBinding{{Name: tmp, Init: args[0]}},
		Body:     branch,
	}
}

// Rewrite one tail self-call into the simultaneous loop variable update.
// Every argument expression is evaluated first, left to right, into a fresh
// temporary: no argument may observe another's already-updated loop variable.
func (r *rewriter) update(call *ast.Invoke) ast.Expr {
	var (
		temps   = make([]BindingPair, len(call.Args))
		updates = make([]ast.Expr, 0, len(call.Args)+1)
	)
	//
	for i, arg := range call.Args {
		temps[i] = BindingPair{r.alloc.Fresh("t"), arg}
	}
	//
	for i := range call.Args {
		updates = append(updates, &ast.Assign{
			Name:  r.state[i].Name,
			Value: &ast.Symbol{Name: temps[i].Name},
		})
	}
	// Restart the iteration without producing a value.
	updates = append(updates, &ast.Assign{Name: r.sentinel, Value: &ast.Boolean{Value: true}})
	//
	return EmitBindings(temps, &ast.Begin{Exprs: updates})
}

// Store the value of a terminating tail expression as the loop result.
func (r *rewriter) store(e ast.Expr) ast.Expr {
	return &ast.Assign{Name: r.result, Value: e}
}
