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
	"github.com/consensys/go-lace/pkg/lace/ast"
	"github.com/consensys/go-lace/pkg/lace/compiler"
	"github.com/consensys/go-lace/pkg/util/source"
)

// Config re-exports the compilation configuration for convenience.
type Config = compiler.Config

// DefaultConfig returns the standard compilation configuration.
func DefaultConfig() Config {
	return compiler.DefaultConfig()
}

// Program re-exports the compiled program representation for convenience.
type Program = compiler.Program

// CompileSourceFiles compiles one or more source files into a single program,
// or produces one or more syntax errors.  Files are processed in the order
// given, and their declarations are concatenated.
func CompileSourceFiles(cfg Config, srcfiles []*source.File) (*Program, []source.SyntaxError) {
	var (
		program Program
		srcmaps = source.NewSourceMaps[ast.Expr]()
	)
	//
	for _, srcfile := range srcfiles {
		declarations, srcmap, errs := compiler.ParseSourceFile(cfg, srcfile)
		if len(errs) != 0 {
			return nil, errs
		}
		//
		srcmaps.Join(srcmap)
		program.Declarations = append(program.Declarations, declarations...)
	}
	//
	if errs := compiler.NewCompiler(cfg, srcmaps).Compile(&program); len(errs) != 0 {
		return nil, errs
	}
	//
	return &program, nil
}

// CompileSourceFile is a convenience wrapper around CompileSourceFiles for the
// common case of a single file.
func CompileSourceFile(cfg Config, srcfile *source.File) (*Program, []source.SyntaxError) {
	return CompileSourceFiles(cfg, []*source.File{srcfile})
}
