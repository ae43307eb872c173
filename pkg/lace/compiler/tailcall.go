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
	"reflect"

	"github.com/consensys/go-lace/pkg/lace/ast"
)

// SelfCallPredicate identifies applications which refer back to the
// currently-compiling function.
type SelfCallPredicate func(*ast.Invoke) bool

// TailVerdict is the outcome of tail position analysis over one body.  On
// success it carries every tail self-call (in evaluation order); otherwise it
// carries the first offending expression.  One non-tail self-call invalidates
// the whole body: no code is generated from a failing verdict.
type TailVerdict struct {
	// Calls lists every self-call classified as a tail call.
	Calls []*ast.Invoke
	// Violation is the first self-call found outside tail position, or nil
	// when the body is clean.
	Violation ast.Expr
	// ViolationMsg describes the violation.
	ViolationMsg string
}

// Ok reports whether the analyzed body contained no violation.
func (p *TailVerdict) Ok() bool {
	return p.Violation == nil
}

// AnalyzeTails classifies every self-call in a given (canonical) body as tail
// or non-tail, by structural recursion over its control constructs.  Analysis
// fails closed: it aborts at the first violation encountered.
func AnalyzeTails(body ast.Expr, isSelf SelfCallPredicate) TailVerdict {
	a := tailAnalysis{isSelf: isSelf}
	a.visit(body, true)
	//
	return a.verdict
}

type tailAnalysis struct {
	isSelf  SelfCallPredicate
	verdict TailVerdict
	// Set once a violation is recorded, stopping all further work.
	aborted bool
	// Set whilst visiting the body of a nested function definition, wherein a
	// self-call of the outer function is never a tail call.
	nested bool
}

// tailRule propagates the isTail flag through one kind of expression node.
type tailRule func(*tailAnalysis, ast.Expr, bool)

// Dispatch table keyed by node kind.  Node kinds without an entry (symbols
// and constants) contain no sub-expressions and need no classification.
var tailRules map[reflect.Type]tailRule

func init() {
	tailRules = map[reflect.Type]tailRule{
		reflect.TypeOf((*ast.Begin)(nil)):  visitBegin,
		reflect.TypeOf((*ast.If)(nil)):     visitIf,
		reflect.TypeOf((*ast.Let)(nil)):    visitLet,
		reflect.TypeOf((*ast.And)(nil)):    visitAnd,
		reflect.TypeOf((*ast.Or)(nil)):     visitOr,
		reflect.TypeOf((*ast.Lambda)(nil)): visitLambda,
		reflect.TypeOf((*ast.Invoke)(nil)): visitInvoke,
		reflect.TypeOf((*ast.While)(nil)):  visitWhile,
		reflect.TypeOf((*ast.Assign)(nil)): visitAssign,
	}
}

func (a *tailAnalysis) visit(e ast.Expr, tail bool) {
	if a.aborted {
		return
	}
	//
	if rule, ok := tailRules[reflect.TypeOf(e)]; ok {
		rule(a, e, tail)
	}
}

func (a *tailAnalysis) violation(e ast.Expr, msg string) {
	a.verdict.Violation = e
	a.verdict.ViolationMsg = msg
	a.aborted = true
}

// Only the last sub-expression of a sequencing construct inherits the
// enclosing flag.
func visitBegin(a *tailAnalysis, e ast.Expr, tail bool) {
	begin := e.(*ast.Begin)
	//
	for i, sub := range begin.Exprs {
		a.visit(sub, tail && i+1 == len(begin.Exprs))
	}
}

// Every mutually-exclusive branch of a conditional inherits the enclosing
// flag; the test does not.
func visitIf(a *tailAnalysis, e ast.Expr, tail bool) {
	ite := e.(*ast.If)
	//
	a.visit(ite.Condition, false)
	a.visit(ite.TrueBranch, tail)
	//
	if ite.FalseBranch != nil {
		a.visit(ite.FalseBranch, tail)
	}
}

// Only the body of a local-binding construct inherits the enclosing flag;
// initializers do not.
func visitLet(a *tailAnalysis, e ast.Expr, tail bool) {
	let := e.(*ast.Let)
	//
	for _, binding := range let.Bindings {
		a.visit(binding.Init, false)
	}
	//
	a.visit(let.Body, tail)
}

// Only the final operand of a short-circuit combinator inherits the enclosing
// flag.
func visitAnd(a *tailAnalysis, e ast.Expr, tail bool) {
	visitOperands(a, e.(*ast.And).Args, tail)
}

func visitOr(a *tailAnalysis, e ast.Expr, tail bool) {
	visitOperands(a, e.(*ast.Or).Args, tail)
}

func visitOperands(a *tailAnalysis, args []ast.Expr, tail bool) {
	for i, arg := range args {
		a.visit(arg, tail && i+1 == len(args))
	}
}

// A nested function definition opens an independent tail context: a self-call
// of the outer function occurring inside it is never an outer tail call.
func visitLambda(a *tailAnalysis, e ast.Expr, _ bool) {
	lambda := e.(*ast.Lambda)
	//
	enclosing := a.nested
	a.nested = true
	a.visit(lambda.Body, false)
	a.nested = enclosing
}

// All argument sub-expressions of an application are visited as non-tail,
// since arguments evaluate before any call.  The application itself is a
// legal self-call only when the current flag holds.
func visitInvoke(a *tailAnalysis, e ast.Expr, tail bool) {
	invoke := e.(*ast.Invoke)
	//
	a.visit(invoke.Fn, false)
	//
	for _, arg := range invoke.Args {
		a.visit(arg, false)
	}
	//
	if !a.aborted && a.isSelf(invoke) {
		switch {
		case a.nested:
			a.violation(invoke, errorMsg(tailViolation, "enclosed by a nested function"))
		case !tail:
			a.violation(invoke, tailViolation)
		default:
			a.verdict.Calls = append(a.verdict.Calls, invoke)
		}
	}
}

// The value of a loop body is discarded on every iteration; hence, nothing
// within it is in tail position.
func visitWhile(a *tailAnalysis, e ast.Expr, _ bool) {
	while := e.(*ast.While)
	//
	a.visit(while.Condition, false)
	a.visit(while.Body, false)
}

func visitAssign(a *tailAnalysis, e ast.Expr, _ bool) {
	a.visit(e.(*ast.Assign).Value, false)
}
