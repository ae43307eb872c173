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
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var compileCmd = &cobra.Command{
	Use:   "compile [flags] source_file(s)",
	Short: "compile source files into a core-form file.",
	Long: `Compile a given set of source file(s) into a single core-form file which can be
	 subsequently loaded without requiring a full compilation step.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		output := GetString(cmd, "output")
		//
		program := CompileSourceFiles(getConfig(cmd), args)
		// Assemble output text
		var builder strings.Builder
		//
		for _, d := range program.Declarations {
			builder.WriteString(d.Lisp().String(true))
			builder.WriteString("\n")
		}
		// Write output file
		if err := os.WriteFile(output, []byte(builder.String()), 0644); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		//
		log.Debugf("wrote %d declaration(s) to %s", len(program.Declarations), output)
	},
}

//nolint:errcheck
func init() {
	rootCmd.AddCommand(compileCmd)
	compileCmd.Flags().StringP("output", "o", "a.lisp", "specify output file.")
}
