//go:build linux

/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

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
package cmd

import (
	"fmt"
	"io"
	"log"

	perf "github.com/hodgesds/perf-utils"
)

// withInstructionCount runs fn under the CPU instruction counter. Without perf event access
// fn still runs and only a warning is logged.
func withInstructionCount(w io.Writer, fn func() error) error {
	var (
		ran   bool
		fnErr error
	)
	pv, err := perf.CPUInstructions(func() error {
		ran = true
		fnErr = fn()
		return fnErr
	})
	switch {
	case !ran:
		log.Printf("warning: cpu instruction counter unavailable: %v", err)
		return fn()
	case fnErr != nil:
		return fnErr
	case err != nil:
		log.Printf("warning: cpu instruction counter: %v", err)
	default:
		fmt.Fprintf(w, "%d cpu instructions\n", pv.Value)
	}
	return nil
}
