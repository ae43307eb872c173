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
	"strings"
	"testing"

	"github.com/consensys/go-lace/pkg/lace/ast"
	"github.com/consensys/go-lace/pkg/util/source"
	"github.com/consensys/go-lace/pkg/util/source/sexp"
)

// ============================================================================
// Positive Tests (patterns)
// ============================================================================

func TestPattern_01(t *testing.T) {
	CheckPatternOk(t, "x", "x")
}

func TestPattern_02(t *testing.T) {
	CheckPatternOk(t, "[a b]", "[a b]")
}

func TestPattern_03(t *testing.T) {
	CheckPatternOk(t, "[]", "[]")
}

func TestPattern_04(t *testing.T) {
	// Fused rest binder
	CheckPatternOk(t, "[a &rest]", "[a &rest]")
}

func TestPattern_05(t *testing.T) {
	// Bare rest marker followed by binder name
	CheckPatternOk(t, "[a & rest]", "[a &rest]")
}

func TestPattern_06(t *testing.T) {
	CheckPatternOk(t, "[a b :as all]", "[a b :as all]")
}

func TestPattern_07(t *testing.T) {
	// Alias may appear anywhere; printing normalises its position.
	CheckPatternOk(t, "[:as all a b]", "[a b :as all]")
}

func TestPattern_08(t *testing.T) {
	CheckPatternOk(t, "[a &rest :as all]", "[a &rest :as all]")
}

func TestPattern_09(t *testing.T) {
	// Nested sequence pattern
	CheckPatternOk(t, "[[a b] c]", "[[a b] c]")
}

func TestPattern_10(t *testing.T) {
	CheckPatternOk(t, "[:: x :left]", "[:: x :left]")
}

func TestPattern_11(t *testing.T) {
	CheckPatternOk(t, "[:: x :left y :right :as whole]", "[:: x :left y :right :as whole]")
}

func TestPattern_12(t *testing.T) {
	CheckPatternOk(t, "[:: x :left :or {:left 0}]", "[:: x :left :or {:left 0}]")
}

func TestPattern_13(t *testing.T) {
	// Keyword keys within default mappings may carry a trailing colon.
	CheckPatternOk(t, "[:: m :middle :or {:middle: \"NMI\"}]", "[:: m :middle :or {:middle \"NMI\"}]")
}

func TestPattern_14(t *testing.T) {
	// Table keys may be arbitrary constants.
	CheckPatternOk(t, "[:: x 0 y \"name\"]", "[:: x 0 y \"name\"]")
}

func TestPattern_15(t *testing.T) {
	// Nested pattern as table binder
	CheckPatternOk(t, "[:: [a b] :pair]", "[:: [a b] :pair]")
}

// ============================================================================
// Negative Tests (patterns)
// ============================================================================

func TestPattern_Err01(t *testing.T) {
	// Positional binder after rest binder
	CheckPatternErr(t, "[a &rest b]", patternSyntax)
}

func TestPattern_Err02(t *testing.T) {
	// Dangling rest marker
	CheckPatternErr(t, "[a &]", patternSyntax)
}

func TestPattern_Err03(t *testing.T) {
	// Dangling alias marker
	CheckPatternErr(t, "[a :as]", patternSyntax)
}

func TestPattern_Err04(t *testing.T) {
	// Duplicate rest binder
	CheckPatternErr(t, "[&x &y]", patternSyntax)
}

func TestPattern_Err05(t *testing.T) {
	// Duplicate alias
	CheckPatternErr(t, "[:as x :as y]", patternSyntax)
}

func TestPattern_Err06(t *testing.T) {
	// Missing key for binder
	CheckPatternErr(t, "[:: x]", patternSyntax)
}

func TestPattern_Err07(t *testing.T) {
	// Key must be a constant
	CheckPatternErr(t, "[:: x y]", patternSyntax)
}

func TestPattern_Err08(t *testing.T) {
	// Default mapping must be braced
	CheckPatternErr(t, "[:: x :left :or [0]]", defaultClause)
}

func TestPattern_Err09(t *testing.T) {
	// Default mapping requires a value for every key
	CheckPatternErr(t, "[:: x :left :or {:left}]", defaultClause)
}

func TestPattern_Err10(t *testing.T) {
	// Duplicate default key
	CheckPatternErr(t, "[:: x :left :or {:left 0 :left 1}]", defaultClause)
}

func TestPattern_Err11(t *testing.T) {
	// Unsupported shape
	CheckPatternErr(t, "(a b)", unsupportedShape)
}

func TestPattern_Err12(t *testing.T) {
	// Constants cannot bind
	CheckPatternErr(t, "[1 2]", unsupportedShape)
}

func TestPattern_Err13(t *testing.T) {
	// Generated-name character is reserved
	CheckPatternErr(t, "[a#0]", unsupportedShape)
}

// ============================================================================
// Positive Tests (expressions)
// ============================================================================

func TestExpr_01(t *testing.T) {
	CheckExprOk(t, "(if a b c)", "(if a b c)")
}

func TestExpr_02(t *testing.T) {
	CheckExprOk(t, "(if a b)", "(if a b)")
}

func TestExpr_03(t *testing.T) {
	CheckExprOk(t, "(let [x 1 y x] (+ x y))", "(let [x 1 y x] (+ x y))")
}

func TestExpr_04(t *testing.T) {
	CheckExprOk(t, "(begin a b c)", "(begin a b c)")
}

func TestExpr_05(t *testing.T) {
	CheckExprOk(t, "(and a b (or c d))", "(and a b (or c d))")
}

func TestExpr_06(t *testing.T) {
	CheckExprOk(t, "(fn [x [a b]] (+ x a b))", "(fn [x [a b]] (+ x a b))")
}

func TestExpr_07(t *testing.T) {
	CheckExprOk(t, "(while (< i n) (set! i (+ i 1)))", "(while (< i n) (set! i (+ i 1)))")
}

func TestExpr_08(t *testing.T) {
	// Vector literals become list applications.
	CheckExprOk(t, "[a 1 :k]", "(list a 1 :k)")
}

func TestExpr_09(t *testing.T) {
	// Multi-expression bodies are wrapped into a sequence.
	CheckExprOk(t, "(fn [x] a b)", "(fn [x] (begin a b))")
}

func TestExpr_10(t *testing.T) {
	CheckExprOk(t, "(f)", "(f)")
}

// ============================================================================
// Negative Tests (expressions)
// ============================================================================

func TestExpr_Err01(t *testing.T) {
	CheckExprErr(t, "(if a)")
}

func TestExpr_Err02(t *testing.T) {
	CheckExprErr(t, "(if a b c d)")
}

func TestExpr_Err03(t *testing.T) {
	// Odd binding array
	CheckExprErr(t, "(let [x] x)")
}

func TestExpr_Err04(t *testing.T) {
	// Binding name must be plain
	CheckExprErr(t, "(let [:k 1] 2)")
}

func TestExpr_Err05(t *testing.T) {
	// Assignment target must be a name
	CheckExprErr(t, "(set! 1 2)")
}

func TestExpr_Err06(t *testing.T) {
	CheckExprErr(t, "(begin)")
}

// ============================================================================
// Helpers
// ============================================================================

// Parse a standalone term, failing the test on error.
func ParseTerm(t *testing.T, input string) (sexp.SExp, *source.Map[sexp.SExp]) {
	srcfile := source.NewSourceFile("test", []byte(input))
	//
	term, srcmap, err := sexp.Parse(srcfile)
	if err != nil {
		t.Fatal(err)
	}
	//
	return term, srcmap
}

// Construct a parser over a given standalone term.
func ParserFor(t *testing.T, input string) (*Parser, sexp.SExp) {
	srcfile := source.NewSourceFile("test", []byte(input))
	//
	term, srcmap, err := sexp.Parse(srcfile)
	if err != nil {
		t.Fatal(err)
	}
	//
	return NewParser(srcfile, srcmap), term
}

func CheckPatternOk(t *testing.T, input string, expected string) {
	parser, term := ParserFor(t, input)
	//
	pattern, errs := parser.ParsePattern(term)
	if len(errs) != 0 {
		t.Fatal(errs[0].Error())
	}
	//
	if actual := pattern.Lisp().String(false); actual != expected {
		t.Errorf("%s != %s", actual, expected)
	}
}

func CheckPatternErr(t *testing.T, input string, category string) {
	parser, term := ParserFor(t, input)
	//
	_, errs := parser.ParsePattern(term)
	if len(errs) == 0 {
		t.Fatal("pattern should not have parsed!")
	}
	//
	if !strings.HasPrefix(errs[0].Message(), category) {
		t.Errorf("unexpected error category: %s", errs[0].Message())
	}
}

func CheckExprOk(t *testing.T, input string, expected string) {
	expr := ParseExprString(t, input)
	//
	if actual := expr.Lisp().String(false); actual != expected {
		t.Errorf("%s != %s", actual, expected)
	}
}

func CheckExprErr(t *testing.T, input string) {
	parser, term := ParserFor(t, input)
	//
	if _, errs := parser.ParseExpr(term); len(errs) == 0 {
		t.Fatal("expression should not have parsed!")
	}
}

// ParseExprString parses a single expression, failing the test on error.
func ParseExprString(t *testing.T, input string) ast.Expr {
	parser, term := ParserFor(t, input)
	//
	expr, errs := parser.ParseExpr(term)
	if len(errs) != 0 {
		t.Fatal(errs[0].Error())
	}
	//
	return expr
}
