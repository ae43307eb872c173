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
)

// ============================================================================
// Positive Tests
// ============================================================================

func TestPreprocess_01(t *testing.T) {
	CheckPreprocessOk(t, "(when a b)", "(if a b)")
}

func TestPreprocess_02(t *testing.T) {
	CheckPreprocessOk(t, "(when a b c)", "(if a (begin b c))")
}

func TestPreprocess_03(t *testing.T) {
	CheckPreprocessOk(t, "(unless a b)", "(if a nil b)")
}

func TestPreprocess_04(t *testing.T) {
	CheckPreprocessOk(t, "(unless a b c)", "(if a nil (begin b c))")
}

func TestPreprocess_05(t *testing.T) {
	CheckPreprocessOk(t, "(cond a b)", "(if a b)")
}

func TestPreprocess_06(t *testing.T) {
	CheckPreprocessOk(t, "(cond a b c d)", "(if a b (if c d))")
}

func TestPreprocess_07(t *testing.T) {
	CheckPreprocessOk(t, "(cond a b :else c)", "(if a b c)")
}

func TestPreprocess_08(t *testing.T) {
	// Nested sugar is expanded bottom-up.
	CheckPreprocessOk(t, "(when (when a b) c)", "(if (if a b) c)")
}

func TestPreprocess_09(t *testing.T) {
	// Sugar within non-head positions is expanded too.
	CheckPreprocessOk(t, "(f (unless a b))", "(f (if a nil b))")
}

func TestPreprocess_10(t *testing.T) {
	// Core forms pass through untouched.
	CheckPreprocessOk(t, "(let [x 1] (if x x))", "(let [x 1] (if x x))")
}

// ============================================================================
// Negative Tests
// ============================================================================

func TestPreprocess_Err01(t *testing.T) {
	CheckPreprocessErr(t, "(when a)")
}

func TestPreprocess_Err02(t *testing.T) {
	CheckPreprocessErr(t, "(unless a)")
}

func TestPreprocess_Err03(t *testing.T) {
	// Odd number of clause elements
	CheckPreprocessErr(t, "(cond a b c)")
}

func TestPreprocess_Err04(t *testing.T) {
	CheckPreprocessErr(t, "(cond)")
}

func TestPreprocess_Err05(t *testing.T) {
	// :else must introduce the final clause
	CheckPreprocessErr(t, "(cond :else a b c)")
}

// ============================================================================
// Helpers
// ============================================================================

func CheckPreprocessOk(t *testing.T, input string, expected string) {
	term, srcmap := ParseTerm(t, input)
	//
	canonical, errs := Preprocess(term, srcmap)
	if len(errs) != 0 {
		t.Fatal(errs[0].Error())
	}
	//
	if actual := canonical.String(false); actual != expected {
		t.Errorf("%s != %s", actual, expected)
	}
}

func CheckPreprocessErr(t *testing.T, input string) {
	term, srcmap := ParseTerm(t, input)
	//
	if _, errs := Preprocess(term, srcmap); len(errs) == 0 {
		t.Fatal("term should not have preprocessed!")
	}
}
