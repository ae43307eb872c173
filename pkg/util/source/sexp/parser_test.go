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
	"reflect"
	"testing"

	"github.com/consensys/go-lace/pkg/util/source"
)

// ============================================================================
// Positive Tests
// ============================================================================

func TestSexp_0(t *testing.T) {
	CheckOk(t, nil, "")
}

func TestSexp_1(t *testing.T) {
	e1 := List{nil}
	CheckOk(t, &e1, "()")
}

func TestSexp_2(t *testing.T) {
	e1 := List{nil}
	e2 := List{[]SExp{&e1}}
	CheckOk(t, &e2, "(())")
}

func TestSexp_3(t *testing.T) {
	e1 := Array{nil}
	CheckOk(t, &e1, "[]")
}

func TestSexp_4(t *testing.T) {
	e1 := Set{nil}
	CheckOk(t, &e1, "{}")
}

func TestSexp_5(t *testing.T) {
	e1 := Symbol{"symbol"}
	CheckOk(t, &e1, "symbol")
}

func TestSexp_6(t *testing.T) {
	e1 := Symbol{"12345"}
	CheckOk(t, &e1, "12345")
}

func TestSexp_7(t *testing.T) {
	e1 := Symbol{":keyword"}
	CheckOk(t, &e1, ":keyword")
}

func TestSexp_8(t *testing.T) {
	e1 := Symbol{"&rest"}
	e2 := Symbol{"a"}
	e3 := Array{[]SExp{&e2, &e1}}
	CheckOk(t, &e3, "[a &rest]")
}

func TestSexp_9(t *testing.T) {
	e1 := Symbol{"hello"}
	e2 := Symbol{"world"}
	e3 := List{[]SExp{&e2}}
	e4 := List{[]SExp{&e1, &e3}}
	CheckOk(t, &e4, "(hello (world))")
}

func TestSexp_10(t *testing.T) {
	e1 := Symbol{"a"}
	e2 := Symbol{"b"}
	e3 := Array{[]SExp{&e1, &e2}}
	e4 := Symbol{"let"}
	e5 := List{[]SExp{&e4, &e3}}
	CheckOk(t, &e5, "(let [a b])")
}

func TestSexp_11(t *testing.T) {
	e1 := Symbol{":middle"}
	e2 := Symbol{"\"NMI\""}
	e3 := Set{[]SExp{&e1, &e2}}
	CheckOk(t, &e3, "{:middle \"NMI\"}")
}

func TestSexp_12(t *testing.T) {
	e1 := Symbol{"\"hello world\""}
	CheckOk(t, &e1, "\"hello world\"")
}

func TestSexp_13(t *testing.T) {
	e1 := Symbol{"a"}
	e2 := Symbol{"b"}
	e3 := Array{[]SExp{&e1, &e2}}
	CheckOk(t, &e3, "[a ; comment\n b]")
}

// ============================================================================
// Negative Tests
// ============================================================================

// unexpected end of list
func TestSexp_Err1(t *testing.T) {
	CheckErr(t, ")")
}

// unexpected end of list
func TestSexp_Err2(t *testing.T) {
	CheckErr(t, "())")
}

// unexpected end of array
func TestSexp_Err3(t *testing.T) {
	CheckErr(t, "(string))")
}

// unterminated array
func TestSexp_Err4(t *testing.T) {
	CheckErr(t, "[a b")
}

// unterminated string
func TestSexp_Err5(t *testing.T) {
	CheckErr(t, "\"hello")
}

// mismatched brackets
func TestSexp_Err6(t *testing.T) {
	CheckErr(t, "[a)")
}

// ============================================================================
// Helpers
// ============================================================================

func CheckOk(t *testing.T, sexp1 SExp, input string) {
	srcfile := source.NewSourceFile("test", []byte(input))
	sexp2, _, err := Parse(srcfile)
	//
	if err != nil {
		t.Error(err)
	} else if !reflect.DeepEqual(sexp1, sexp2) {
		t.Errorf("%s != %s", sexp1.String(false), sexp2.String(false))
	}
}

func CheckErr(t *testing.T, input string) {
	srcfile := source.NewSourceFile("test", []byte(input))
	_, _, err := Parse(srcfile)
	//
	if err == nil {
		t.Errorf("input should not have parsed!")
	}
}
