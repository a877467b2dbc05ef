/*
Copyright (c) Facebook, Inc. and its affiliates.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// ravenna-sdpdump parses an SDP file describing a RAVENNA/AES67 session
// and re-emits it, either as canonical SDP text or as YAML, so the parser
// can be exercised against real session descriptions from the command
// line.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/soundondigital/ravennakit/sdp"
)

var flagYAML bool

var rootCmd = &cobra.Command{
	Use:   "ravenna-sdpdump [file]",
	Short: "Parses an SDP session description and re-emits it",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runDump,
}

func init() {
	rootCmd.Flags().BoolVar(&flagYAML, "yaml", false, "emit the parsed session as YAML instead of canonical SDP text")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runDump(cmd *cobra.Command, args []string) error {
	var src io.Reader = os.Stdin
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("ravenna-sdpdump: %w", err)
		}
		defer f.Close()
		src = f
	}

	raw, err := io.ReadAll(src)
	if err != nil {
		return fmt.Errorf("ravenna-sdpdump: reading input: %w", err)
	}

	session, err := sdp.Parse(string(raw))
	if err != nil {
		return fmt.Errorf("ravenna-sdpdump: parsing SDP: %w", err)
	}

	if flagYAML {
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(session)
	}

	fmt.Print(session.String())
	return nil
}
