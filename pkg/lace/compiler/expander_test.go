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
	"testing"

	"github.com/consensys/go-lace/pkg/lace/ast"
)

// ============================================================================
// Tests
// ============================================================================

func TestExpand_01(t *testing.T) {
	CheckExpandOk(t, "x", "x src")
}

func TestExpand_02(t *testing.T) {
	CheckExpandOk(t, "[a b]",
		"seq#0 src",
		"a (nth seq#0 0)",
		"b (nth seq#0 1)")
}

func TestExpand_03(t *testing.T) {
	// An alias replaces the generated temporary.
	CheckExpandOk(t, "[a b :as all]",
		"all src",
		"a (nth all 0)",
		"b (nth all 1)")
}

func TestExpand_04(t *testing.T) {
	CheckExpandOk(t, "[a &rest]",
		"seq#0 src",
		"a (nth seq#0 0)",
		"rest (drop seq#0 1)")
}

func TestExpand_05(t *testing.T) {
	// Empty sequence with rest binder captures everything.
	CheckExpandOk(t, "[&rest]",
		"seq#0 src",
		"rest (drop seq#0 0)")
}

func TestExpand_06(t *testing.T) {
	// Nested patterns expand in depth-first pre-order.
	CheckExpandOk(t, "[[a b] c]",
		"seq#0 src",
		"seq#1 (nth seq#0 0)",
		"a (nth seq#1 0)",
		"b (nth seq#1 1)",
		"c (nth seq#0 1)")
}

func TestExpand_07(t *testing.T) {
	CheckExpandOk(t, "[:: x :left y :right]",
		"tbl#0 src",
		"x (get tbl#0 :left)",
		"y (get tbl#0 :right)")
}

func TestExpand_08(t *testing.T) {
	// A default is guarded behind a membership test, such that it evaluates
	// only on lookup miss.
	CheckExpandOk(t, "[:: x :left :or {:left (f)}]",
		"tbl#0 src",
		"x (if (has tbl#0 :left) (get tbl#0 :left) (f))")
}

func TestExpand_09(t *testing.T) {
	// Keys without a default entry are unguarded.
	CheckExpandOk(t, "[:: x :left y :right :or {:right 0}]",
		"tbl#0 src",
		"x (get tbl#0 :left)",
		"y (if (has tbl#0 :right) (get tbl#0 :right) 0)")
}

func TestExpand_10(t *testing.T) {
	// Tables nest within sequences (and vice versa).
	CheckExpandOk(t, "[[:: x :k] :as all]",
		"all src",
		"tbl#0 (nth all 0)",
		"x (get tbl#0 :k)")
}

func TestExpand_11(t *testing.T) {
	// Table alias replaces the generated temporary.
	CheckExpandOk(t, "[:: x :k :as whole]",
		"whole src",
		"x (get whole :k)")
}

func TestExpand_12(t *testing.T) {
	// Expansion is deterministic: identical inputs yield identical names.
	pattern := ParsePatternString(t, "[[a b] [:: x :k]]")
	//
	first := ExpandPattern(pattern, &ast.Symbol{Name: "src"}, nil, NewAllocator())
	second := ExpandPattern(pattern, &ast.Symbol{Name: "src"}, nil, NewAllocator())
	//
	if len(first) != len(second) {
		t.Fatalf("%d pairs != %d pairs", len(first), len(second))
	}
	//
	for i := range first {
		if first[i].Name != second[i].Name {
			t.Errorf("pair %d: %s != %s", i, first[i].Name, second[i].Name)
		}
	}
}

func TestExpand_13(t *testing.T) {
	// Expansion appends onto the given accumulator.
	pattern := ParsePatternString(t, "x")
	accumulator := []BindingPair{{"y", &ast.Nil{}}}
	//
	pairs := ExpandPattern(pattern, &ast.Symbol{Name: "src"}, accumulator, NewAllocator())
	if len(pairs) != 2 || pairs[0].Name != "y" || pairs[1].Name != "x" {
		t.Errorf("unexpected pairs: %v", pairs)
	}
}

// ============================================================================
// Helpers
// ============================================================================

// ParsePatternString parses a single pattern, failing the test on error.
func ParsePatternString(t *testing.T, input string) ast.Pattern {
	parser, term := ParserFor(t, input)
	//
	pattern, errs := parser.ParsePattern(term)
	if len(errs) != 0 {
		t.Fatal(errs[0].Error())
	}
	//
	return pattern
}

// Check that expanding a given pattern against the source "src" produces
// exactly the expected (name, initializer) pairs, in order.
func CheckExpandOk(t *testing.T, input string, expected ...string) {
	pattern := ParsePatternString(t, input)
	//
	pairs := ExpandPattern(pattern, &ast.Symbol{Name: "src"}, nil, NewAllocator())
	//
	if len(pairs) != len(expected) {
		t.Fatalf("expected %d pairs, got %d", len(expected), len(pairs))
	}
	//
	for i, pair := range pairs {
		actual := pair.Name + " " + pair.Init.Lisp().String(false)
		//
		if actual != expected[i] {
			t.Errorf("pair %d: %s != %s", i, actual, expected[i])
		}
	}
}
