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

	log "github.com/sirupsen/logrus"

	"github.com/consensys/go-lace/pkg/lace/ast"
	"github.com/consensys/go-lace/pkg/util/source"
	"github.com/consensys/go-lace/pkg/util/source/sexp"
)

// Config controls optional compilation behaviour.  The zero value disables
// everything optional; DefaultConfig is what the command line uses.
type Config struct {
	// Sugar enables canonicalization of surface sugar (when, unless, cond)
	// prior to parsing.
	Sugar bool `yaml:"sugar"`
	// Rewrite enables rewriting of verified tail self-recursion into loops.
	// When disabled, self-recursive definitions are emitted as plain
	// (stack-consuming) recursion without tail verification.
	Rewrite bool `yaml:"rewrite"`
}

// DefaultConfig returns the standard compilation configuration.
func DefaultConfig() Config {
	return Config{Sugar: true, Rewrite: true}
}

// Declaration represents a single compiled top-level form of a program.
type Declaration interface {
	ast.Node
}

// DefValue is a top-level "(def pattern expr)" form.  Compilation expands the
// destructuring pattern into the flat, ordered binding pairs.
type DefValue struct {
	Pattern ast.Pattern
	Init    ast.Expr
	// Bindings holds the compiled, ordered binding pairs.
	Bindings []BindingPair
}

// Lisp converts this declaration into a simple S-Expression: one plain def
// per compiled binding pair, in order.
func (d *DefValue) Lisp() sexp.SExp {
	elements := make([]sexp.SExp, len(d.Bindings))
	//
	for i, b := range d.Bindings {
		elements[i] = sexp.NewList([]sexp.SExp{
			sexp.NewSymbol("def"), sexp.NewSymbol(b.Name), b.Init.Lisp(),
		})
	}
	//
	return sexp.NewList(append([]sexp.SExp{sexp.NewSymbol("begin")}, elements...))
}

// DefFunction is a top-level "(defn name [params] body)" form.  Compilation
// expands the parameter patterns, verifies tail positions of any
// self-recursion, and rewrites the latter into a loop.
type DefFunction struct {
	Name   string
	Params []ast.Pattern
	Body   ast.Expr
	// Fn holds the compiled function: parameters are plain (fresh) names,
	// destructuring has been expanded into sequential bindings, and verified
	// self-recursion has been rewritten into an iterative construct.
	Fn *ast.Lambda
	// TailRecursive indicates whether a loop rewrite took place.
	TailRecursive bool
}

// Lisp converts this declaration into a simple S-Expression, for example so
// it can be printed.
func (d *DefFunction) Lisp() sexp.SExp {
	fn := d.Fn.Lisp().AsList()
	//
	return sexp.NewList([]sexp.SExp{
		sexp.NewSymbol("defn"), sexp.NewSymbol(d.Name), fn.Get(1), fn.Get(2),
	})
}

// Program is an ordered collection of compiled declarations.
type Program struct {
	Declarations []Declaration
}

// Function returns the (compiled) function declaration of a given name, or
// nil if there is none.
func (p *Program) Function(name string) *DefFunction {
	for _, d := range p.Declarations {
		if f, ok := d.(*DefFunction); ok && f.Name == name {
			return f
		}
	}
	//
	return nil
}

// ===================================================================
// Parsing
// ===================================================================

// ParseSourceFile parses a single source file into its (uncompiled)
// declarations.  Surface sugar is canonicalized here, such that everything
// downstream sees core forms only.
func ParseSourceFile(cfg Config, srcfile *source.File) ([]Declaration, *source.Map[ast.Expr], []SyntaxError) {
	var declarations []Declaration
	// Parse source text into S-expressions
	terms, srcmap, err := sexp.ParseAll(srcfile)
	if err != nil {
		return nil, nil, []SyntaxError{*err}
	}
	//
	parser := NewParser(srcfile, srcmap)
	//
	for _, term := range terms {
		// Canonicalize
		if cfg.Sugar {
			var errs []SyntaxError
			//
			term, errs = Preprocess(term, srcmap)
			if len(errs) != 0 {
				return nil, nil, errs
			}
		}
		// Parse declaration
		declaration, errs := parseDeclaration(parser, srcmap, term)
		if len(errs) != 0 {
			return nil, nil, errs
		}
		//
		declarations = append(declarations, declaration)
	}
	//
	return declarations, parser.SourceMap(), nil
}

func parseDeclaration(parser *Parser, srcmap *source.Map[sexp.SExp], term sexp.SExp) (Declaration, []SyntaxError) {
	if list := term.AsList(); list != nil {
		if list.MatchSymbols(2, "def") && list.Len() == 3 {
			return parseDefValue(parser, list)
		} else if list.MatchSymbols(2, "defn") && list.Len() >= 4 {
			return parseDefFunction(parser, srcmap, list)
		}
	}
	//
	return nil, []SyntaxError{*srcmap.SyntaxError(term, "expected declaration (def or defn)")}
}

// Parse a "(def pattern expr)" declaration.
func parseDefValue(parser *Parser, list *sexp.List) (Declaration, []SyntaxError) {
	pattern, errs := parser.ParsePattern(list.Get(1))
	if len(errs) != 0 {
		return nil, errs
	}
	//
	init, errs := parser.ParseExpr(list.Get(2))
	if len(errs) != 0 {
		return nil, errs
	}
	//
	return &DefValue{Pattern: pattern, Init: init}, nil
}

// Parse a "(defn name [params] body+)" declaration.
func parseDefFunction(parser *Parser, srcmap *source.Map[sexp.SExp], list *sexp.List) (Declaration, []SyntaxError) {
	name := list.Get(1).AsSymbol()
	if name == nil || !isName(name.Value) {
		return nil, []SyntaxError{*srcmap.SyntaxError(list.Get(1), "expected function name")}
	}
	//
	params := list.Get(2).AsArray()
	if params == nil {
		return nil, []SyntaxError{*srcmap.SyntaxError(list.Get(2), "expected parameter array")}
	}
	//
	patterns := make([]ast.Pattern, params.Len())
	//
	for i, e := range params.Elements {
		var errs []SyntaxError
		//
		patterns[i], errs = parser.ParsePattern(e)
		if len(errs) != 0 {
			return nil, errs
		}
	}
	//
	body, errs := parser.ParseBody(list.Elements[3:])
	if len(errs) != 0 {
		return nil, errs
	}
	//
	return &DefFunction{Name: name.Value, Params: patterns, Body: body}, nil
}

// ===================================================================
// Compilation
// ===================================================================

// Compiler packages up everything needed to compile a given set of parsed
// declarations.  Observe that compilation of each body is all-or-nothing: a
// failing body yields errors and no compiled form, with no partial output of
// any kind.
type Compiler struct {
	config Config
	// Source maps expressions back to the spans in their original source
	// files.  This is needed when reporting tail position violations.
	srcmaps *source.Maps[ast.Expr]
}

// NewCompiler constructs a new compiler for a given configuration.
func NewCompiler(config Config, srcmaps *source.Maps[ast.Expr]) *Compiler {
	return &Compiler{config, srcmaps}
}

// Compile all declarations of a program, in order.
func (c *Compiler) Compile(program *Program) []SyntaxError {
	var errors []SyntaxError
	//
	for _, d := range program.Declarations {
		switch d := d.(type) {
		case *DefValue:
			errors = append(errors, c.compileDefValue(d)...)
		case *DefFunction:
			errors = append(errors, c.compileDefFunction(d)...)
		default:
			// Error handling
			panic("unknown declaration")
		}
	}
	//
	return errors
}

// Compile a value definition by expanding its destructuring pattern.  Every
// compilation gets its own allocator, such that temporaries are unique within
// it whilst remaining deterministic across compilations.
func (c *Compiler) compileDefValue(d *DefValue) []SyntaxError {
	alloc := NewAllocator()
	//
	d.Bindings = ExpandPattern(d.Pattern, d.Init, nil, alloc)
	//
	return nil
}

// Compile a function definition: parameter patterns are expanded against
// fresh argument names, the body is verified for tail position discipline,
// and verified self-recursion is rewritten into a loop.
func (c *Compiler) compileDefFunction(d *DefFunction) []SyntaxError {
	var (
		alloc = NewAllocator()
		// Loop state: one variable per parameter, initialized from the
		// (fresh) argument name.
		state LoopState
		// Bindings derived from parameter roots, re-established inside the
		// loop on every iteration.
		derived []BindingPair
		// Fresh argument names, one per parameter.
		args = make([]ast.Pattern, len(d.Params))
	)
	//
	for i, param := range d.Params {
		arg := alloc.Fresh("arg")
		args[i] = &ast.BindPattern{Name: arg}
		// The first pair binds the whole argument at the parameter's root
		// name; it becomes the loop variable.  The remaining pairs extract
		// its components.
		pairs := ExpandPattern(param, &ast.Symbol{Name: arg}, nil, alloc)
		state = append(state, pairs[0])
		derived = append(derived, pairs[1:]...)
	}
	// Identify self-calls of this function.
	isSelf := func(e *ast.Invoke) bool { return e.Name() == d.Name }
	//
	body := EmitBindings(derived, d.Body)
	//
	if c.config.Rewrite {
		// Every self-call must be classified before any code is generated.
		verdict := AnalyzeTails(d.Body, isSelf)
		//
		if !verdict.Ok() {
			return c.syntaxErrors(verdict.Violation, verdict.ViolationMsg)
		}
		// Sanity check argument counts, since arity dispatch happens above
		// this layer: a rewritten call must update every loop variable.
		for _, call := range verdict.Calls {
			if len(call.Args) != len(state) {
				return c.syntaxErrors(call, fmt.Sprintf("self-call expects %d argument(s)", len(state)))
			}
		}
		//
		if len(verdict.Calls) > 0 {
			body = RewriteLoop(state, body, isSelf, alloc)
			d.TailRecursive = true
			//
			log.Debugf("rewrote %d tail self-call(s) of %s into a loop", len(verdict.Calls), d.Name)
		} else {
			body = EmitBindings(state, body)
		}
	} else {
		body = EmitBindings(state, body)
	}
	//
	d.Fn = &ast.Lambda{Params: args, Body: body}
	//
	return nil
}

func (c *Compiler) syntaxErrors(e ast.Expr, msg string) []SyntaxError {
	if c.srcmaps != nil && c.srcmaps.Has(e) {
		return []SyntaxError{*c.srcmaps.SyntaxError(e, msg)}
	}
	// No source mapping available (e.g. for synthesized bodies); report
	// against an empty file.
	srcfile := source.NewSourceFile("unknown", []byte{})
	//
	return []SyntaxError{*srcfile.SyntaxError(source.NewSpan(0, 0), msg)}
}
