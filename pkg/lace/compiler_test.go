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
package lace

import (
	"strings"
	"testing"

	"github.com/consensys/go-lace/pkg/lace/compiler"
	"github.com/consensys/go-lace/pkg/util/source"
)

// ============================================================================
// Positive Tests
// ============================================================================

func TestCompile_01(t *testing.T) {
	// A value definition expands into one plain def per binding pair.
	program := Compile(t, "(def [a b] (list 1 2))")
	//
	CheckLisp(t, program.Declarations[0],
		"(begin (def seq#0 (list 1 2)) (def a (nth seq#0 0)) (def b (nth seq#0 1)))")
}

func TestCompile_02(t *testing.T) {
	// A non-recursive function keeps its body, wrapped in parameter bindings.
	program := Compile(t, "(defn id [x] x)")
	//
	CheckLisp(t, program.Declarations[0], "(defn id [arg#0] (let [x arg#0] x))")
	//
	if program.Function("id").TailRecursive {
		t.Error("id should not be tail recursive")
	}
}

func TestCompile_03(t *testing.T) {
	// Verified tail self-recursion becomes a loop.
	program := Compile(t, "(defn count-down [n] (if (= n 0) :done (count-down (- n 1))))")
	//
	CheckLisp(t, program.Declarations[0],
		"(defn count-down [arg#0] (let [n arg#0 continue#1 true result#2 nil] "+
			"(begin (while continue#1 (begin (set! continue#1 false) "+
			"(if (= n 0) (set! result#2 :done) "+
			"(let [t#3 (- n 1)] (begin (set! n t#3) (set! continue#1 true)))))) "+
			"result#2)))")
	//
	if !program.Function("count-down").TailRecursive {
		t.Error("count-down should be tail recursive")
	}
}

func TestCompile_04(t *testing.T) {
	// Destructured parameters re-establish their bindings on every iteration.
	program := Compile(t, "(defn f [[x & xs]] (if x (f xs) :done))")
	//
	CheckLisp(t, program.Declarations[0],
		"(defn f [arg#0] (let [seq#1 arg#0 continue#2 true result#3 nil] "+
			"(begin (while continue#2 (begin (set! continue#2 false) "+
			"(let [x (nth seq#1 0) xs (drop seq#1 1)] "+
			"(if x "+
			"(let [t#4 xs] (begin (set! seq#1 t#4) (set! continue#2 true))) "+
			"(set! result#3 :done))))) "+
			"result#3)))")
}

func TestCompile_05(t *testing.T) {
	// Sugar is canonicalized before anything else sees the body.
	program := Compile(t, "(defn f [n] (cond (= n 0) :done :else (f (- n 1))))")
	//
	if !program.Function("f").TailRecursive {
		t.Error("f should be tail recursive")
	}
}

func TestCompile_06(t *testing.T) {
	// Compilation is deterministic: identical inputs give identical output.
	input := "(defn f [[a b :as p] [:: x :k :or {:k 0}]] (if a (f b x) p))"
	//
	first := Compile(t, input).Declarations[0].Lisp().String(false)
	second := Compile(t, input).Declarations[0].Lisp().String(false)
	//
	if first != second {
		t.Errorf("%s != %s", first, second)
	}
}

func TestCompile_07(t *testing.T) {
	// With rewriting disabled, self-calls are left as calls and tail position
	// discipline is not enforced.
	cfg := compiler.Config{Sugar: true, Rewrite: false}
	//
	program, errs := CompileSourceFile(cfg, srcfile("(defn f [n] (+ 1 (f n)))"))
	if len(errs) != 0 {
		t.Fatal(errs[0].Error())
	}
	//
	CheckLisp(t, program.Declarations[0], "(defn f [arg#0] (let [n arg#0] (+ 1 (f n))))")
}

func TestCompile_08(t *testing.T) {
	// Declarations spanning several files compile in file order.
	program, errs := CompileSourceFiles(compiler.DefaultConfig(), []*source.File{
		srcfile("(def x 1)"),
		srcfile("(defn f [n] n)"),
	})
	//
	if len(errs) != 0 {
		t.Fatal(errs[0].Error())
	} else if len(program.Declarations) != 2 {
		t.Fatalf("expected 2 declarations, got %d", len(program.Declarations))
	}
}

func TestCompile_09(t *testing.T) {
	// Multi-expression function bodies are sequenced.
	program := Compile(t, "(defn f [x] (g x) x)")
	//
	CheckLisp(t, program.Declarations[0], "(defn f [arg#0] (let [x arg#0] (begin (g x) x)))")
}

// ============================================================================
// Negative Tests
// ============================================================================

func TestCompile_Err01(t *testing.T) {
	// Self-call in argument position
	CheckCompileErr(t, "(defn f [n] (+ 1 (f n)))", "self-call not in tail position")
}

func TestCompile_Err02(t *testing.T) {
	// Self-call inside a nested function
	CheckCompileErr(t, "(defn f [n] (g (fn [x] (f x))))", "self-call not in tail position")
}

func TestCompile_Err03(t *testing.T) {
	// Arity mismatch on a rewritten call
	CheckCompileErr(t, "(defn f [a b] (if a (f b) a))", "self-call expects 2 argument(s)")
}

func TestCompile_Err04(t *testing.T) {
	CheckCompileErr(t, "(foo 1 2)", "expected declaration")
}

func TestCompile_Err05(t *testing.T) {
	// Malformed patterns surface through the whole pipeline.
	CheckCompileErr(t, "(defn f [[a &rest b]] a)", "malformed pattern")
}

func TestCompile_Err06(t *testing.T) {
	CheckCompileErr(t, "(def [:: x] 1)", "malformed pattern")
}

func TestCompile_Err07(t *testing.T) {
	// Unterminated input fails during reading.
	srcfile := source.NewSourceFile("test", []byte("(def x 1"))
	//
	if _, errs := CompileSourceFile(compiler.DefaultConfig(), srcfile); len(errs) == 0 {
		t.Fatal("input should not have compiled!")
	}
}

func TestCompile_Err08(t *testing.T) {
	// Malformed sugar fails during canonicalization.
	CheckCompileErr(t, "(defn f [n] (cond n))", "malformed cond")
}

// ============================================================================
// Helpers
// ============================================================================

func srcfile(input string) *source.File {
	return source.NewSourceFile("test", []byte(input))
}

// Compile a given input under the default configuration, failing the test on
// error.
func Compile(t *testing.T, input string) *Program {
	program, errs := CompileSourceFile(compiler.DefaultConfig(), srcfile(input))
	//
	if len(errs) != 0 {
		t.Fatal(errs[0].Error())
	}
	//
	return program
}

func CheckLisp(t *testing.T, d compiler.Declaration, expected string) {
	if actual := d.Lisp().String(false); actual != expected {
		t.Errorf("%s != %s", actual, expected)
	}
}

func CheckCompileErr(t *testing.T, input string, msg string) {
	_, errs := CompileSourceFile(compiler.DefaultConfig(), srcfile(input))
	//
	if len(errs) == 0 {
		t.Fatal("input should not have compiled!")
	}
	//
	if !strings.Contains(errs[0].Message(), msg) {
		t.Errorf("unexpected error: %s", errs[0].Message())
	}
}
