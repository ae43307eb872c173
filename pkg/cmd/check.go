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
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/consensys/go-lace/pkg/lace/compiler"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] source_file(s)",
	Short: "check source files without producing output.",
	Long: `Check a given set of source file(s): parse them, expand all destructuring patterns and
	 verify that every self-recursive definition keeps its self-calls in tail position.
	 Nothing is written; a non-zero exit code signals failure.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		program := CompileSourceFiles(getConfig(cmd), args)
		// Summarize what was checked.
		for _, d := range program.Declarations {
			if f, ok := d.(*compiler.DefFunction); ok && f.TailRecursive {
				fmt.Printf("%s: tail recursive\n", f.Name)
			}
		}
		//
		fmt.Printf("checked %d declaration(s)\n", len(program.Declarations))
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
