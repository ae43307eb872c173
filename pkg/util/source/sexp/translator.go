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
package sexp

import (
	"fmt"
	"reflect"

	"github.com/consensys/go-lace/pkg/util/source"
)

// SymbolRule is responsible for converting a terminating expression (i.e. a
// symbol) into an expression type T.  For example, a number or a variable
// access.  The boolean result indicates whether this rule applies to the
// given symbol at all.
type SymbolRule[T comparable] func(string) (T, bool, error)

// ListRule is responsible for converting a list with a given head symbol into
// an expression type T.  Rules recurse into their children via the enclosing
// translator, as required.
type ListRule[T comparable] func(*List) (T, []source.SyntaxError)

// ArrayRule is responsible for converting a bracketed group into an
// expression type T.
type ArrayRule[T comparable] func(*Array) (T, []source.SyntaxError)

// Translator is a generic mechanism for translating S-Expressions into a
// structured form.
type Translator[T comparable] struct {
	srcfile *source.File
	// Rules for parsing lists, keyed by their head symbol.
	lists map[string]ListRule[T]
	// Fallback rule for lists whose head matches no keyed rule (or is not a
	// symbol at all).
	listDefault ListRule[T]
	// Fallback rule for bracketed groups.
	arrayDefault ArrayRule[T]
	// Rules for parsing symbols, tried in order of registration.
	symbols []SymbolRule[T]
	// Maps S-Expressions to their spans in the original source file.  This is
	// used to build the new source map.
	oldSrcmap *source.Map[SExp]
	// Maps translated expressions to their spans in the original source file.
	// This is constructed using the old source map.
	newSrcmap *source.Map[T]
}

// NewTranslator constructs a new Translator instance.
func NewTranslator[T comparable](srcfile *source.File, srcmap *source.Map[SExp]) *Translator[T] {
	return &Translator[T]{
		srcfile:   srcfile,
		lists:     make(map[string]ListRule[T]),
		symbols:   make([]SymbolRule[T], 0),
		oldSrcmap: srcmap,
		newSrcmap: source.NewSourceMap[T](srcmap.Source()),
	}
}

// SourceMap returns the source map maintained for terms constructed by this
// translator.
func (p *Translator[T]) SourceMap() *source.Map[T] {
	return p.newSrcmap
}

// SpanOf gets the span associated with a given S-Expression in the original
// source file.
func (p *Translator[T]) SpanOf(sexp SExp) source.Span {
	return p.oldSrcmap.Get(sexp)
}

// Translate a given S-Expression into the structured representation T using
// the configured rules.
func (p *Translator[T]) Translate(sexp SExp) (T, []source.SyntaxError) {
	var empty T
	//
	switch e := sexp.(type) {
	case *List:
		return p.translateList(e)
	case *Array:
		if p.arrayDefault != nil {
			node, errs := p.arrayDefault(e)
			return p.finish(node, errs, e)
		}
		//
		return empty, p.SyntaxErrors(sexp, "unexpected array")
	case *Set:
		return empty, p.SyntaxErrors(sexp, "unexpected set")
	case *Symbol:
		for i := 0; i != len(p.symbols); i++ {
			node, ok, err := (p.symbols[i])(e.Value)
			if ok && err != nil {
				// Transform into syntax error
				return empty, p.SyntaxErrors(sexp, err.Error())
			} else if ok {
				// Update source map
				p.map2sexp(node, sexp)
				// Done
				return node, nil
			}
		}
	}
	// This should be unreachable.
	typeof := reflect.TypeOf(sexp)
	// But, if it is reached ... produce a nice error :)
	return empty, p.SyntaxErrors(sexp, fmt.Sprintf("invalid s-expression (%s)", typeof))
}

// AddListRule adds a list rule, keyed by its head symbol, to this translator.
func (p *Translator[T]) AddListRule(name string, rule ListRule[T]) {
	p.lists[name] = rule
}

// AddDefaultListRule adds a rule to be applied when no keyed list rule
// applies.
func (p *Translator[T]) AddDefaultListRule(rule ListRule[T]) {
	p.listDefault = rule
}

// AddDefaultArrayRule adds a rule to be applied for bracketed groups.
func (p *Translator[T]) AddDefaultArrayRule(rule ArrayRule[T]) {
	p.arrayDefault = rule
}

// AddSymbolRule adds a new symbol rule to this translator.
func (p *Translator[T]) AddSymbolRule(rule SymbolRule[T]) {
	p.symbols = append(p.symbols, rule)
}

// SyntaxError constructs a suitable syntax error for a given S-Expression.
//
//nolint:revive
func (p *Translator[T]) SyntaxError(s SExp, msg string) *source.SyntaxError {
	// Get span of enclosing list
	span := p.oldSrcmap.Get(s)
	// Construct syntax error
	return p.srcfile.SyntaxError(span, msg)
}

// SyntaxErrors constructs a suitable syntax error for a given S-Expression.
//
//nolint:revive
func (p *Translator[T]) SyntaxErrors(s SExp, msg string) []source.SyntaxError {
	return []source.SyntaxError{*p.SyntaxError(s, msg)}
}

// ===================================================================
// Private
// ===================================================================

// Translate a list of S-Expressions.  The translation rule is determined by
// the head of the list (when it is a symbol with a keyed rule), with the
// default rule as fallback.
func (p *Translator[T]) translateList(l *List) (T, []source.SyntaxError) {
	var empty T
	// Check for a keyed rule
	if len(l.Elements) > 0 && l.Elements[0].AsSymbol() != nil {
		name := l.Elements[0].AsSymbol().Value
		//
		if rule, ok := p.lists[name]; ok {
			node, errs := rule(l)
			return p.finish(node, errs, l)
		}
	}
	// Fall back on default rule
	if p.listDefault != nil {
		node, errs := p.listDefault(l)
		return p.finish(node, errs, l)
	}
	//
	return empty, p.SyntaxErrors(l, "unknown list encountered")
}

// Register a successfully translated term in the source map against the span
// of the S-Expression it was built from.
func (p *Translator[T]) finish(node T, errors []source.SyntaxError, s SExp) (T, []source.SyntaxError) {
	if len(errors) == 0 {
		p.map2sexp(node, s)
	}
	//
	return node, errors
}

// Add a mapping from a given item to the S-expression from which it was
// generated.  This updates the underlying source map to reflect this.
func (p *Translator[T]) map2sexp(item T, sexp SExp) {
	// Lookup enclosing span
	span := p.oldSrcmap.Get(sexp)
	// Map it in the new source map
	p.newSrcmap.Put(item, span)
}
