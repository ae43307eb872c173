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
)

var expandCmd = &cobra.Command{
	Use:   "expand [flags] source_file(s)",
	Short: "expand source files into core forms.",
	Long: `Expand a given set of source file(s) into core forms: surface sugar is canonicalized,
	 destructuring patterns become sequential bindings, and verified tail self-recursion
	 becomes iteration.  The result is printed on stdout.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		program := CompileSourceFiles(getConfig(cmd), args)
		//
		for _, d := range program.Declarations {
			fmt.Println(d.Lisp().String(true))
		}
	},
}

func init() {
	rootCmd.AddCommand(expandCmd)
}
