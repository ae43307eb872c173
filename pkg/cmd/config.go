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

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/consensys/go-lace/pkg/lace/compiler"
)

// fileConfig mirrors compiler.Config, but with optional fields: only settings
// actually present in the configuration file override the defaults.
type fileConfig struct {
	Sugar   *bool `yaml:"sugar"`
	Rewrite *bool `yaml:"rewrite"`
}

// getConfig determines the effective compilation configuration: defaults,
// overridden by the configuration file (when present), overridden by any
// command-line flags.  It also configures the log level as a side effect,
// since every command wants that done first.
func getConfig(cmd *cobra.Command) compiler.Config {
	if GetFlag(cmd, "verbose") {
		log.SetLevel(log.DebugLevel)
	}
	//
	config := compiler.DefaultConfig()
	//
	filename := GetString(cmd, "config")
	if bytes, err := os.ReadFile(filename); err == nil {
		var fc fileConfig
		//
		if err := yaml.Unmarshal(bytes, &fc); err != nil {
			fmt.Printf("%s: %s\n", filename, err)
			os.Exit(2)
		}
		//
		if fc.Sugar != nil {
			config.Sugar = *fc.Sugar
		}
		//
		if fc.Rewrite != nil {
			config.Rewrite = *fc.Rewrite
		}
		//
		log.Debugf("loaded configuration from %s", filename)
	} else if cmd.Flags().Changed("config") {
		// An explicitly-named configuration file must exist; the default name
		// is probed only.
		fmt.Println(err)
		os.Exit(2)
	}
	// Command-line flags take precedence.
	if GetFlag(cmd, "no-sugar") {
		config.Sugar = false
	}
	//
	if GetFlag(cmd, "no-rewrite") {
		config.Rewrite = false
	}
	//
	return config
}
