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

	"github.com/mattn/go-isatty"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/consensys/go-lace/pkg/lace"
	"github.com/consensys/go-lace/pkg/util/source"
)

// GetFlag gets an expected flag, or panics if an error arises.
func GetFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetString gets an expected string flag, or panics if an error arises.
func GetString(cmd *cobra.Command, flag string) string {
	r, err := cmd.Flags().GetString(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// ReadSourceFiles reads a given set of source files, exiting with an
// appropriate error if any cannot be read.
func ReadSourceFiles(filenames []string) []*source.File {
	srcfiles := make([]*source.File, len(filenames))
	//
	for i, n := range filenames {
		log.Debugf("including source file %s", n)
		// Read source file
		bytes, err := os.ReadFile(n)
		// Sanity check for errors
		if err != nil {
			fmt.Println(err)
			os.Exit(3)
		}
		//
		srcfiles[i] = source.NewSourceFile(n, bytes)
	}
	//
	return srcfiles
}

// CompileSourceFiles reads and compiles a given set of source files into a
// program, reporting any syntax errors which arise and exiting on failure.
func CompileSourceFiles(cfg lace.Config, filenames []string) *lace.Program {
	srcfiles := ReadSourceFiles(filenames)
	// Compile source files
	program, errors := lace.CompileSourceFiles(cfg, srcfiles)
	// Check for errors
	if len(errors) != 0 {
		// Report errors
		for _, err := range errors {
			printSyntaxError(&err)
		}
		// Fail
		os.Exit(4)
	}
	// Done
	return program
}

// Print a syntax error with appropriate highlighting.
func printSyntaxError(err *source.SyntaxError) {
	span := err.Span()
	line := err.FirstEnclosingLine()
	lineOffset := span.Start() - line.Start()
	// Calculate length (ensures don't overflow line)
	length := min(line.Length()-lineOffset, span.Length())
	// Print error + line number
	fmt.Printf("%s:%d:%d-%d %s\n", err.SourceFile().Filename(),
		line.Number(), 1+lineOffset, 1+lineOffset+length, err.Message())
	// Print line, clipped to the terminal width where known.
	fmt.Println(clipLine(line.String(), lineOffset+length))
	// Print indent (todo: account for tabs)
	fmt.Print(strings.Repeat(" ", lineOffset))
	// Print highlight
	fmt.Println(highlight(strings.Repeat("^", max(1, length))))
}

// Clip a line to the terminal width, ensuring the highlighted region (ending
// at the given column) remains visible.
func clipLine(line string, column int) string {
	width, _, err := term.GetSize(int(os.Stderr.Fd()))
	if err != nil || width <= 0 || len(line) <= width {
		return line
	}
	//
	return line[:max(column, min(width, len(line)))]
}

// Apply ANSI highlighting, provided stdout is an actual terminal.
func highlight(text string) string {
	if isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return fmt.Sprintf("\033[31m%s\033[0m", text)
	}
	//
	return text
}
