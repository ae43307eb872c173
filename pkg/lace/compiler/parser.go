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
	"errors"
	"math/big"
	"strings"

	"github.com/consensys/go-lace/pkg/lace/ast"
	"github.com/consensys/go-lace/pkg/util/source"
	"github.com/consensys/go-lace/pkg/util/source/sexp"
)

// Parser converts S-Expressions into Lace expressions and destructuring
// patterns.  Expression translation is rule-driven (via the generic sexp
// translator); pattern literals are parsed by explicit per-shape state
// machines.
type Parser struct {
	// Source file being parsed.
	srcfile *source.File
	// Maps S-Expressions to their spans in the original source file.
	srcmap *source.Map[sexp.SExp]
	// Rule-driven translator for expression forms.
	translator *sexp.Translator[ast.Expr]
}

// NewParser constructs a parser for a given (already read) source file.
func NewParser(srcfile *source.File, srcmap *source.Map[sexp.SExp]) *Parser {
	p := &Parser{srcfile, srcmap, sexp.NewTranslator[ast.Expr](srcfile, srcmap)}
	// Configure expression rules
	p.translator.AddSymbolRule(constantRule)
	p.translator.AddSymbolRule(symbolRule)
	p.translator.AddListRule("if", p.parseIf)
	p.translator.AddListRule("begin", p.parseBegin)
	p.translator.AddListRule("let", p.parseLet)
	p.translator.AddListRule("and", p.parseAnd)
	p.translator.AddListRule("or", p.parseOr)
	p.translator.AddListRule("fn", p.parseFn)
	p.translator.AddListRule("while", p.parseWhile)
	p.translator.AddListRule("set!", p.parseAssign)
	p.translator.AddDefaultListRule(p.parseInvoke)
	p.translator.AddDefaultArrayRule(p.parseVector)
	//
	return p
}

// SourceMap returns the map from translated expressions to their spans in the
// original source file.
func (p *Parser) SourceMap() *source.Map[ast.Expr] {
	return p.translator.SourceMap()
}

// ParseExpr translates a given S-Expression into a Lace expression.
func (p *Parser) ParseExpr(s sexp.SExp) (ast.Expr, []SyntaxError) {
	return p.translator.Translate(s)
}

// ParseBody translates one or more S-Expressions into a single Lace
// expression, wrapping multiple expressions into a sequencing construct.
func (p *Parser) ParseBody(body []sexp.SExp) (ast.Expr, []SyntaxError) {
	exprs, errs := p.parseExprs(body)
	//
	if len(errs) != 0 {
		return nil, errs
	} else if len(exprs) == 1 {
		return exprs[0], nil
	}
	//
	return &ast.Begin{Exprs: exprs}, nil
}

// ===================================================================
// Expressions
// ===================================================================

// Attempt to translate a symbol as a constant (number, string, keyword,
// boolean or nil).
func constantRule(value string) (ast.Expr, bool, error) {
	if c, ok := constantOfSymbol(value); ok {
		return c, true, nil
	}
	//
	return nil, false, nil
}

// Translate any remaining symbol as a variable reference.
func symbolRule(value string) (ast.Expr, bool, error) {
	if !isName(value) {
		return nil, true, errors.New("invalid identifier")
	}
	//
	return &ast.Symbol{Name: value}, true, nil
}

func (p *Parser) parseIf(l *sexp.List) (ast.Expr, []SyntaxError) {
	if l.Len() != 3 && l.Len() != 4 {
		return nil, p.translator.SyntaxErrors(l, "incorrect number of arguments")
	}
	// Translate condition and branches
	exprs, errs := p.parseExprs(l.Elements[1:])
	if len(errs) != 0 {
		return nil, errs
	}
	//
	var falseBranch ast.Expr
	if len(exprs) == 3 {
		falseBranch = exprs[2]
	}
	//
	return &ast.If{Condition: exprs[0], TrueBranch: exprs[1], FalseBranch: falseBranch}, nil
}

func (p *Parser) parseBegin(l *sexp.List) (ast.Expr, []SyntaxError) {
	if l.Len() < 2 {
		return nil, p.translator.SyntaxErrors(l, "empty sequence")
	}
	//
	exprs, errs := p.parseExprs(l.Elements[1:])
	if len(errs) != 0 {
		return nil, errs
	}
	//
	return &ast.Begin{Exprs: exprs}, nil
}

func (p *Parser) parseLet(l *sexp.List) (ast.Expr, []SyntaxError) {
	if l.Len() < 3 {
		return nil, p.translator.SyntaxErrors(l, "incorrect number of arguments")
	}
	// Bindings are given as a flat [name expr ...] array.
	arr := l.Get(1).AsArray()
	if arr == nil {
		return nil, p.translator.SyntaxErrors(l.Get(1), "expected binding array")
	} else if arr.Len()%2 != 0 {
		return nil, p.translator.SyntaxErrors(l.Get(1), "binding array requires an even number of elements")
	}
	//
	bindings := make([]ast.LetBinding, arr.Len()/2)
	//
	for i := 0; i < arr.Len(); i += 2 {
		name := arr.Get(i).AsSymbol()
		if name == nil || !isName(name.Value) {
			return nil, p.translator.SyntaxErrors(arr.Get(i), "expected binding name")
		}
		//
		init, errs := p.ParseExpr(arr.Get(i + 1))
		if len(errs) != 0 {
			return nil, errs
		}
		//
		bindings[i/2] = ast.LetBinding{Name: name.Value, Init: init}
	}
	// Translate body
	body, errs := p.ParseBody(l.Elements[2:])
	if len(errs) != 0 {
		return nil, errs
	}
	//
	return &ast.Let{Bindings: bindings, Body: body}, nil
}

func (p *Parser) parseAnd(l *sexp.List) (ast.Expr, []SyntaxError) {
	if l.Len() < 2 {
		return nil, p.translator.SyntaxErrors(l, "incorrect number of arguments")
	}
	//
	args, errs := p.parseExprs(l.Elements[1:])
	if len(errs) != 0 {
		return nil, errs
	}
	//
	return &ast.And{Args: args}, nil
}

func (p *Parser) parseOr(l *sexp.List) (ast.Expr, []SyntaxError) {
	if l.Len() < 2 {
		return nil, p.translator.SyntaxErrors(l, "incorrect number of arguments")
	}
	//
	args, errs := p.parseExprs(l.Elements[1:])
	if len(errs) != 0 {
		return nil, errs
	}
	//
	return &ast.Or{Args: args}, nil
}

func (p *Parser) parseFn(l *sexp.List) (ast.Expr, []SyntaxError) {
	if l.Len() < 3 {
		return nil, p.translator.SyntaxErrors(l, "incorrect number of arguments")
	}
	//
	arr := l.Get(1).AsArray()
	if arr == nil {
		return nil, p.translator.SyntaxErrors(l.Get(1), "expected parameter array")
	}
	//
	params := make([]ast.Pattern, arr.Len())
	//
	for i, e := range arr.Elements {
		param, errs := p.ParsePattern(e)
		if len(errs) != 0 {
			return nil, errs
		}
		//
		params[i] = param
	}
	//
	body, errs := p.ParseBody(l.Elements[2:])
	if len(errs) != 0 {
		return nil, errs
	}
	//
	return &ast.Lambda{Params: params, Body: body}, nil
}

func (p *Parser) parseWhile(l *sexp.List) (ast.Expr, []SyntaxError) {
	if l.Len() < 3 {
		return nil, p.translator.SyntaxErrors(l, "incorrect number of arguments")
	}
	//
	condition, errs := p.ParseExpr(l.Get(1))
	if len(errs) != 0 {
		return nil, errs
	}
	//
	body, errs := p.ParseBody(l.Elements[2:])
	if len(errs) != 0 {
		return nil, errs
	}
	//
	return &ast.While{Condition: condition, Body: body}, nil
}

func (p *Parser) parseAssign(l *sexp.List) (ast.Expr, []SyntaxError) {
	if l.Len() != 3 {
		return nil, p.translator.SyntaxErrors(l, "incorrect number of arguments")
	}
	//
	name := l.Get(1).AsSymbol()
	if name == nil || !isName(name.Value) {
		return nil, p.translator.SyntaxErrors(l.Get(1), "expected variable name")
	}
	//
	value, errs := p.ParseExpr(l.Get(2))
	if len(errs) != 0 {
		return nil, errs
	}
	//
	return &ast.Assign{Name: name.Value, Value: value}, nil
}

// Fallback rule: a list with no keyed rule is a function application.
func (p *Parser) parseInvoke(l *sexp.List) (ast.Expr, []SyntaxError) {
	if l.Len() == 0 {
		return nil, p.translator.SyntaxErrors(l, "empty application")
	}
	//
	fn, errs := p.ParseExpr(l.Get(0))
	if len(errs) != 0 {
		return nil, errs
	}
	//
	args, errs := p.parseExprs(l.Elements[1:])
	if len(errs) != 0 {
		return nil, errs
	}
	//
	return &ast.Invoke{Fn: fn, Args: args}, nil
}

// An array in expression position is a sequence literal.
func (p *Parser) parseVector(a *sexp.Array) (ast.Expr, []SyntaxError) {
	elements, errs := p.parseExprs(a.Elements)
	if len(errs) != 0 {
		return nil, errs
	}
	//
	return ast.NewInvoke("list", elements...), nil
}

func (p *Parser) parseExprs(elements []sexp.SExp) ([]ast.Expr, []SyntaxError) {
	var errors []SyntaxError
	//
	exprs := make([]ast.Expr, len(elements))
	//
	for i, e := range elements {
		var errs []SyntaxError
		exprs[i], errs = p.ParseExpr(e)
		errors = append(errors, errs...)
	}
	//
	return exprs, errors
}

// ===================================================================
// Patterns
// ===================================================================

// ParsePattern parses a given S-Expression as a destructuring pattern.  A
// plain name binds the whole value; an array literal is either a sequence
// pattern or (when introduced by the "::" marker) a table pattern.  Any other
// shape is unsupported.
func (p *Parser) ParsePattern(s sexp.SExp) (ast.Pattern, []SyntaxError) {
	if symbol := s.AsSymbol(); symbol != nil && isName(symbol.Value) {
		return &ast.BindPattern{Name: symbol.Value}, nil
	} else if arr := s.AsArray(); arr != nil {
		if arr.Len() > 0 && arr.Get(0).AsSymbol() != nil && arr.Get(0).AsSymbol().Value == "::" {
			return p.parseTablePattern(arr)
		}
		//
		return p.parseSequencePattern(arr)
	}
	// Fail
	return nil, p.patternErrors(s, unsupportedShape, s.String(true))
}

// States of the sequence pattern state machine.
const (
	// Default state: positional binders, markers, or clauses may follow.
	seqNormal = iota
	// Rest marker seen: exactly one binder name must follow.
	seqAfterRest
	// Alias marker seen: exactly one name must follow.
	seqAfterAlias
)

// Parse a sequence-shaped pattern literal, folding over its tokens with a
// small state machine.  Nested pattern literals are recorded un-expanded;
// their expansion is deferred to the pattern dispatcher.
func (p *Parser) parseSequencePattern(arr *sexp.Array) (ast.Pattern, []SyntaxError) {
	var (
		pattern ast.SequencePattern
		state   = seqNormal
	)
	//
	for _, element := range arr.Elements {
		symbol := element.AsSymbol()
		//
		switch state {
		case seqAfterRest:
			if symbol == nil || !isName(symbol.Value) {
				return nil, p.patternErrors(element, patternSyntax, "rest marker requires a binder name")
			}
			//
			pattern.Rest = symbol.Value
			state = seqNormal
		case seqAfterAlias:
			if symbol == nil || !isName(symbol.Value) {
				return nil, p.patternErrors(element, patternSyntax, "alias marker requires a name")
			}
			//
			pattern.Alias = symbol.Value
			state = seqNormal
		default:
			sub, errs := p.parseSequenceElement(&pattern, element, &state)
			//
			if len(errs) != 0 {
				return nil, errs
			} else if sub != nil {
				pattern.Elements = append(pattern.Elements, sub)
			}
		}
	}
	// Check for dangling markers
	switch state {
	case seqAfterRest:
		return nil, p.patternErrors(arr, patternSyntax, "rest marker requires a binder name")
	case seqAfterAlias:
		return nil, p.patternErrors(arr, patternSyntax, "alias marker requires a name")
	}
	//
	return &pattern, nil
}

// Process one token of a sequence pattern in the normal state.  Returns a
// positional sub-pattern, or nil if the token was a marker.
func (p *Parser) parseSequenceElement(pattern *ast.SequencePattern, element sexp.SExp,
	state *int) (ast.Pattern, []SyntaxError) {
	//
	if symbol := element.AsSymbol(); symbol != nil {
		switch {
		case symbol.Value == ":as":
			if pattern.Alias != "" {
				return nil, p.patternErrors(element, patternSyntax, "duplicate alias")
			}
			//
			*state = seqAfterAlias
			//
			return nil, nil
		case symbol.Value == "&" || (strings.HasPrefix(symbol.Value, "&") && isName(symbol.Value[1:])):
			if pattern.Rest != "" {
				return nil, p.patternErrors(element, patternSyntax, "duplicate rest binder")
			}
			// Fused form (&name) supplies the binder immediately; the bare
			// marker expects it as the next token.
			if symbol.Value == "&" {
				*state = seqAfterRest
			} else {
				pattern.Rest = symbol.Value[1:]
			}
			//
			return nil, nil
		}
	}
	// Positional binder.  The rest binder captures all remaining elements,
	// hence nothing positional may follow it.
	if pattern.Rest != "" {
		return nil, p.patternErrors(element, patternSyntax, "rest binder must be the final element")
	}
	//
	return p.ParsePattern(element)
}

// Parse a table-shaped pattern literal, folding over its (binder, key) token
// pairs.  The binder precedes its key; keys must be constants.  The optional
// ":or" clause supplies a static key/default mapping which is consulted
// lazily at emission time, never here.
func (p *Parser) parseTablePattern(arr *sexp.Array) (ast.Pattern, []SyntaxError) {
	var pattern ast.TablePattern
	// Skip the leading "::" marker.
	elements := arr.Elements[1:]
	//
	for i := 0; i < len(elements); i += 2 {
		element := elements[i]
		symbol := element.AsSymbol()
		// Every token at an even offset introduces a pair.
		switch {
		case symbol != nil && symbol.Value == ":as":
			if i+1 == len(elements) {
				return nil, p.patternErrors(element, patternSyntax, "alias marker requires a name")
			}
			//
			name := elements[i+1].AsSymbol()
			if name == nil || !isName(name.Value) {
				return nil, p.patternErrors(elements[i+1], patternSyntax, "alias marker requires a name")
			} else if pattern.Alias != "" {
				return nil, p.patternErrors(element, patternSyntax, "duplicate alias")
			}
			//
			pattern.Alias = name.Value
		case symbol != nil && symbol.Value == ":or":
			if i+1 == len(elements) {
				return nil, p.patternErrors(element, defaultClause, "expected default mapping")
			} else if pattern.Defaults != nil {
				return nil, p.patternErrors(element, defaultClause, "duplicate default clause")
			}
			//
			defaults, errs := p.parseDefaultClause(elements[i+1])
			if len(errs) != 0 {
				return nil, errs
			}
			//
			pattern.Defaults = defaults
		default:
			// A lone trailing binder has no key and is malformed.
			if i+1 == len(elements) {
				return nil, p.patternErrors(element, patternSyntax, "table pattern requires a key for every binder")
			}
			//
			binder, errs := p.ParsePattern(element)
			if len(errs) != 0 {
				return nil, errs
			}
			//
			key, errs := p.parseConstantKey(elements[i+1], patternSyntax)
			if len(errs) != 0 {
				return nil, errs
			}
			//
			pattern.Entries = append(pattern.Entries, ast.TableEntry{Binder: binder, Key: key})
		}
	}
	//
	return &pattern, nil
}

// Parse the static key/default mapping of an ":or" clause.
func (p *Parser) parseDefaultClause(s sexp.SExp) ([]ast.DefaultEntry, []SyntaxError) {
	set := s.AsSet()
	//
	if set == nil {
		return nil, p.patternErrors(s, defaultClause, "expected default mapping")
	} else if set.Len()%2 != 0 {
		return nil, p.patternErrors(s, defaultClause, "default mapping requires a value for every key")
	}
	//
	defaults := make([]ast.DefaultEntry, 0, set.Len()/2)
	//
	for i := 0; i < set.Len(); i += 2 {
		key, errs := p.parseConstantKey(set.Get(i), defaultClause)
		if len(errs) != 0 {
			return nil, errs
		}
		// Reject duplicate keys
		for _, d := range defaults {
			if ast.ConstEquals(d.Key, key) {
				return nil, p.patternErrors(set.Get(i), defaultClause, "duplicate default key")
			}
		}
		//
		value, errs := p.ParseExpr(set.Get(i + 1))
		if len(errs) != 0 {
			return nil, errs
		}
		//
		defaults = append(defaults, ast.DefaultEntry{Key: key, Default: value})
	}
	//
	return defaults, nil
}

// Parse a table key, which must be a constant.  A keyword key may carry a
// trailing colon separator (e.g. within default mappings), which is stripped.
func (p *Parser) parseConstantKey(s sexp.SExp, category string) (ast.Expr, []SyntaxError) {
	if symbol := s.AsSymbol(); symbol != nil {
		value := symbol.Value
		// Strip a trailing colon separator from keyword keys.
		if len(value) > 2 && strings.HasPrefix(value, ":") && strings.HasSuffix(value, ":") {
			value = value[:len(value)-1]
		}
		//
		if constant, ok := constantOfSymbol(value); ok {
			return constant, nil
		}
	}
	//
	return nil, p.patternErrors(s, category, "key must be a constant")
}

// ===================================================================
// Helpers
// ===================================================================

// Convert a symbol into the constant expression it denotes (if any).
func constantOfSymbol(value string) (ast.Expr, bool) {
	switch {
	case value == "true":
		return &ast.Boolean{Value: true}, true
	case value == "false":
		return &ast.Boolean{Value: false}, true
	case value == "nil":
		return &ast.Nil{}, true
	case len(value) >= 2 && value[0] == '"':
		return &ast.String{Value: value[1 : len(value)-1]}, true
	case len(value) > 1 && value[0] == ':' && value != "::":
		return &ast.Keyword{Name: value[1:]}, true
	}
	// Attempt to parse as a number
	if number, ok := big.NewInt(0).SetString(value, 10); ok {
		return &ast.Number{Value: number}, true
	}
	//
	return nil, false
}

// A name is any symbol which does not denote a constant or a marker.  The '#'
// character is reserved for generated temporaries.
func isName(value string) bool {
	if value == "" || value == "&" || value == "::" {
		return false
	} else if value[0] == ':' || value[0] == '&' || value[0] == '"' {
		return false
	} else if strings.Contains(value, "#") {
		return false
	} else if _, ok := constantOfSymbol(value); ok {
		return false
	}
	//
	return true
}

// Construct a categorised pattern error against a given S-Expression.
func (p *Parser) patternErrors(s sexp.SExp, category string, msg string) []SyntaxError {
	return p.translator.SyntaxErrors(s, errorMsg(category, msg))
}
