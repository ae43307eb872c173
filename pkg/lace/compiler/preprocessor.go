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
	"github.com/consensys/go-lace/pkg/util/source"
	"github.com/consensys/go-lace/pkg/util/source/sexp"
)

// Preprocess performs canonicalization prior to parsing.  Specifically, it
// expands all surface sugar (when, unless, cond) into core conditional forms.
// Thus, both parsing and tail position analysis are greatly simplified after
// this step: only core forms remain.  Terms constructed here inherit the
// source spans of the terms they replace.
func Preprocess(term sexp.SExp, srcmap *source.Map[sexp.SExp]) (sexp.SExp, []SyntaxError) {
	p := preprocessor{srcmap}
	return p.preprocessTerm(term)
}

type preprocessor struct {
	// Maps terms back to the spans in their original source file.  This is
	// needed both for reporting syntax errors and for registering terms
	// constructed during expansion.
	srcmap *source.Map[sexp.SExp]
}

func (p *preprocessor) preprocessTerm(term sexp.SExp) (sexp.SExp, []SyntaxError) {
	switch t := term.(type) {
	case *sexp.List:
		return p.preprocessList(t)
	case *sexp.Array:
		elements, errs := p.preprocessTerms(t.Elements)
		if len(errs) != 0 {
			return nil, errs
		}
		//
		return p.derive(term, sexp.NewArray(elements)), nil
	case *sexp.Set:
		elements, errs := p.preprocessTerms(t.Elements)
		if len(errs) != 0 {
			return nil, errs
		}
		//
		return p.derive(term, sexp.NewSet(elements)), nil
	default:
		// Symbols are always canonical.
		return term, nil
	}
}

func (p *preprocessor) preprocessList(list *sexp.List) (sexp.SExp, []SyntaxError) {
	// Canonicalize children first, such that nested sugar is expanded before
	// the enclosing form is considered.
	elements, errs := p.preprocessTerms(list.Elements)
	//
	if len(errs) != 0 {
		return nil, errs
	}
	//
	canonical := p.derive(list, sexp.NewList(elements)).AsList()
	// Expand this form (if it is sugar)
	if len(elements) > 0 && elements[0].AsSymbol() != nil {
		switch elements[0].AsSymbol().Value {
		case "when":
			return p.preprocessWhen(canonical, false)
		case "unless":
			return p.preprocessWhen(canonical, true)
		case "cond":
			return p.preprocessCond(canonical)
		}
	}
	//
	return canonical, nil
}

func (p *preprocessor) preprocessTerms(terms []sexp.SExp) ([]sexp.SExp, []SyntaxError) {
	var errors []SyntaxError
	//
	canonical := make([]sexp.SExp, len(terms))
	//
	for i, t := range terms {
		var errs []SyntaxError
		canonical[i], errs = p.preprocessTerm(t)
		errors = append(errors, errs...)
	}
	//
	return canonical, errors
}

// Expand "(when c e+)" into "(if c (begin e+))" and, when negated,
// "(unless c e+)" into "(if c nil (begin e+))".
func (p *preprocessor) preprocessWhen(list *sexp.List, negated bool) (sexp.SExp, []SyntaxError) {
	if list.Len() < 3 {
		return nil, p.syntaxErrors(list, "incorrect number of arguments")
	}
	//
	condition := list.Get(1)
	body := p.beginOf(list, list.Elements[2:])
	//
	var elements []sexp.SExp
	if negated {
		elements = []sexp.SExp{p.symbolOf(list, "if"), condition, p.symbolOf(list, "nil"), body}
	} else {
		elements = []sexp.SExp{p.symbolOf(list, "if"), condition, body}
	}
	//
	return p.derive(list, sexp.NewList(elements)), nil
}

// Expand "(cond t1 e1 ... tn en)" into nested if forms, where a ":else" test
// introduces the final default branch.
func (p *preprocessor) preprocessCond(list *sexp.List) (sexp.SExp, []SyntaxError) {
	clauses := list.Elements[1:]
	//
	if len(clauses) == 0 || len(clauses)%2 != 0 {
		return nil, p.syntaxErrors(list, "malformed cond")
	}
	// Fold clauses from the right, innermost last.
	var term sexp.SExp
	//
	for i := len(clauses) - 2; i >= 0; i -= 2 {
		test, branch := clauses[i], clauses[i+1]
		// A ":else" test must introduce the final clause.
		if test.AsSymbol() != nil && test.AsSymbol().Value == ":else" {
			if i+2 != len(clauses) {
				return nil, p.syntaxErrors(test, "misplaced :else clause")
			}
			//
			term = branch
			//
			continue
		}
		//
		elements := []sexp.SExp{p.symbolOf(list, "if"), test, branch}
		if term != nil {
			elements = append(elements, term)
		}
		//
		term = p.derive(list, sexp.NewList(elements))
	}
	//
	return term, nil
}

// Wrap a group of expressions into a single term, avoiding a redundant begin
// for singletons.
func (p *preprocessor) beginOf(from sexp.SExp, terms []sexp.SExp) sexp.SExp {
	if len(terms) == 1 {
		return terms[0]
	}
	//
	elements := append([]sexp.SExp{p.symbolOf(from, "begin")}, terms...)
	//
	return p.derive(from, sexp.NewList(elements))
}

// Construct a fresh symbol inheriting the span of a given term.
func (p *preprocessor) symbolOf(from sexp.SExp, name string) sexp.SExp {
	return p.derive(from, sexp.NewSymbol(name))
}

// Register a constructed term in the source map against the span of the term
// it was derived from.
func (p *preprocessor) derive(from sexp.SExp, to sexp.SExp) sexp.SExp {
	p.srcmap.Copy(from, to)
	return to
}

func (p *preprocessor) syntaxErrors(s sexp.SExp, msg string) []SyntaxError {
	return []SyntaxError{*p.srcmap.SyntaxError(s, msg)}
}
